package reader

import (
	"bufio"
	"context"
	"errors"
	"io"
	"time"

	"linescan/host/log"
	"linescan/protocol"
)

// Frame is one decoded sensor readout.
type Frame struct {
	SensorID   uint8     `json:"sensorId"`
	Samples    []uint16  `json:"samples"`
	CapturedAt time.Time `json:"capturedAt"`
}

// Reader consumes the firmware's ASCII frame stream from a serial port
// and hands complete frames to a sink. Lines that are not frames (boot
// chatter, log output) are skipped silently; malformed or truncated
// frames are logged and dropped.
type Reader struct {
	port   io.Reader
	pixels int
}

// New creates a Reader. pixels is the expected sample count per frame;
// frames with any other count were truncated on the wire and are
// discarded.
func New(port io.Reader, pixels int) *Reader {
	return &Reader{port: port, pixels: pixels}
}

// Monitor reads frames until the stream ends or ctx is cancelled. Each
// complete frame is passed to handle. The scanner buffer is sized for a
// full-resolution frame line.
func (r *Reader) Monitor(ctx context.Context, handle func(Frame)) error {
	scanner := bufio.NewScanner(r.port)
	// BEGIN,SENSOR_255, + 1024 six-char fields + END\r\n with headroom.
	scanner.Buffer(make([]byte, 0, 16*1024), 16*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Text()
		id, samples, err := protocol.ParseFrame(line)
		if err != nil {
			if errors.Is(err, protocol.ErrNotFrame) {
				log.Debug("skipping non-frame line: %q", line)
				continue
			}
			log.Warning("dropping malformed frame: %v", err)
			continue
		}
		if len(samples) != r.pixels {
			log.Warning("dropping truncated frame from sensor %d: %d of %d samples",
				id, len(samples), r.pixels)
			continue
		}

		handle(Frame{
			SensorID:   id,
			Samples:    samples,
			CapturedAt: time.Now().UTC(),
		})
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return nil
}

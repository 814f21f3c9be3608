// ASCII frame format for pixel data, shared by firmware and host:
//
//	BEGIN,SENSOR_<id>,<v0>,<v1>,...,<vN-1>,END\r\n
//
// <id> is the decimal sensor id, each <vi> a decimal unsigned 16-bit
// sample. The format is line-oriented so a host can recover frame
// boundaries with a plain line scanner.
package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	FrameBegin      = "BEGIN,"
	FrameSensorTag  = "SENSOR_"
	FrameEnd        = "END"
	FrameTerminator = FrameEnd + "\r\n"
)

var (
	// ErrNotFrame marks lines that are not pixel frames at all; readers
	// skip these silently since the link may carry unrelated output.
	ErrNotFrame = errors.New("not a pixel frame")

	// ErrMalformedFrame marks lines that look like frames but do not parse.
	ErrMalformedFrame = errors.New("malformed pixel frame")
)

// EncodeFrame resets b and serializes a frame into it. If the buffer
// cannot hold every sample, complete `<v>,` fields are emitted while they
// fit and the terminator is still appended if space remains. The return
// value reports whether the frame is complete: header, all samples and
// terminator. An incomplete frame without terminator should not be sent.
func EncodeFrame(b *LineBuffer, sensorID uint8, samples []uint16) bool {
	b.Reset()

	var scratch [8]byte
	head := append([]byte(FrameBegin+FrameSensorTag), strconv.AppendUint(scratch[:0], uint64(sensorID), 10)...)
	head = append(head, ',')
	if !b.TryAppend(head) {
		return false
	}

	complete := true
	for _, v := range samples {
		field := strconv.AppendUint(scratch[:0], uint64(v), 10)
		field = append(field, ',')
		if !b.TryAppend(field) {
			complete = false
			break
		}
	}

	if !b.TryAppendString(FrameTerminator) {
		return false
	}
	return complete
}

// ParseFrame decodes one line into a sensor id and its samples. Trailing
// line terminators are ignored. Lines that do not carry the frame
// delimiters return ErrNotFrame; framed lines with bad contents return an
// error wrapping ErrMalformedFrame.
func ParseFrame(line string) (uint8, []uint16, error) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, FrameBegin) || !strings.HasSuffix(line, FrameEnd) {
		return 0, nil, ErrNotFrame
	}

	payload := strings.TrimSuffix(strings.TrimPrefix(line, FrameBegin), FrameEnd)
	payload = strings.TrimSuffix(payload, ",")
	if payload == "" {
		return 0, nil, fmt.Errorf("%w: empty payload", ErrMalformedFrame)
	}

	parts := strings.Split(payload, ",")
	idField, ok := strings.CutPrefix(parts[0], FrameSensorTag)
	if !ok {
		return 0, nil, fmt.Errorf("%w: missing sensor tag", ErrMalformedFrame)
	}
	id, err := strconv.ParseUint(idField, 10, 8)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: sensor id %q", ErrMalformedFrame, idField)
	}

	samples := make([]uint16, 0, len(parts)-1)
	for _, p := range parts[1:] {
		v, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: sample %q", ErrMalformedFrame, p)
		}
		samples = append(samples, uint16(v))
	}

	return uint8(id), samples, nil
}

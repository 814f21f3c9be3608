package protocol

import (
	"errors"
	"testing"
)

func TestEncodeFrameComplete(t *testing.T) {
	b := NewLineBuffer(64)
	complete := EncodeFrame(b, 3, []uint16{0, 1, 2, 65535})
	if !complete {
		t.Fatal("frame reported incomplete")
	}
	want := "BEGIN,SENSOR_3,0,1,2,65535,END\r\n"
	if got := string(b.Bytes()); got != want {
		t.Errorf("frame = %q, want %q", got, want)
	}
}

func TestEncodeFrameNoSamples(t *testing.T) {
	b := NewLineBuffer(64)
	if !EncodeFrame(b, 0, nil) {
		t.Fatal("frame reported incomplete")
	}
	if got := string(b.Bytes()); got != "BEGIN,SENSOR_0,END\r\n" {
		t.Errorf("frame = %q", got)
	}
}

func TestEncodeFrameTruncation(t *testing.T) {
	// Header 15 bytes, "40000," fields 6 bytes, terminator 5 bytes.
	samples := []uint16{40000, 40000, 40000, 40000}

	t.Run("fields cut, terminator fits", func(t *testing.T) {
		b := NewLineBuffer(15 + 2*6 + 5)
		if EncodeFrame(b, 0, samples) {
			t.Error("truncated frame reported complete")
		}
		want := "BEGIN,SENSOR_0,40000,40000,END\r\n"
		if got := string(b.Bytes()); got != want {
			t.Errorf("frame = %q, want %q", got, want)
		}
	})

	t.Run("terminator does not fit", func(t *testing.T) {
		b := NewLineBuffer(15 + 2*6 + 2)
		if EncodeFrame(b, 0, samples) {
			t.Error("truncated frame reported complete")
		}
		want := "BEGIN,SENSOR_0,40000,40000,"
		if got := string(b.Bytes()); got != want {
			t.Errorf("frame = %q, want %q", got, want)
		}
	})

	t.Run("header does not fit", func(t *testing.T) {
		b := NewLineBuffer(8)
		if EncodeFrame(b, 0, samples) {
			t.Error("frame reported complete")
		}
		if b.Len() != 0 {
			t.Errorf("partial header emitted: %q", b.Bytes())
		}
	})
}

func TestEncodeFrameResetsBuffer(t *testing.T) {
	b := NewLineBuffer(64)
	EncodeFrame(b, 1, []uint16{7})
	EncodeFrame(b, 2, []uint16{9})
	if got := string(b.Bytes()); got != "BEGIN,SENSOR_2,9,END\r\n" {
		t.Errorf("frame = %q, stale data from previous encode", got)
	}
}

func TestParseFrameRoundTrip(t *testing.T) {
	b := NewLineBuffer(8192)
	samples := make([]uint16, 1024)
	for i := range samples {
		samples[i] = uint16(i * 3)
	}
	EncodeFrame(b, 5, samples)

	id, got, err := ParseFrame(string(b.Bytes()))
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}
	if id != 5 {
		t.Errorf("sensor id = %d, want 5", id)
	}
	if len(got) != len(samples) {
		t.Fatalf("sample count = %d, want %d", len(got), len(samples))
	}
	for i := range samples {
		if got[i] != samples[i] {
			t.Fatalf("sample %d = %d, want %d", i, got[i], samples[i])
		}
	}
}

func TestParseFrameRejectsNonFrames(t *testing.T) {
	for _, line := range []string{
		"",
		"hello world",
		"BEGIN,SENSOR_1,1,2,3,", // no END
		"SENSOR_1,1,2,3,END",    // no BEGIN
	} {
		if _, _, err := ParseFrame(line); !errors.Is(err, ErrNotFrame) {
			t.Errorf("ParseFrame(%q) error = %v, want ErrNotFrame", line, err)
		}
	}
}

func TestParseFrameRejectsMalformed(t *testing.T) {
	for _, line := range []string{
		"BEGIN,END",                  // no payload
		"BEGIN,1,2,3,END",            // missing sensor tag
		"BEGIN,SENSOR_x,1,END",       // bad sensor id
		"BEGIN,SENSOR_300,1,END",     // sensor id overflows uint8
		"BEGIN,SENSOR_1,1,bad,3,END", // bad sample
		"BEGIN,SENSOR_1,70000,END",   // sample overflows uint16
	} {
		if _, _, err := ParseFrame(line); !errors.Is(err, ErrMalformedFrame) {
			t.Errorf("ParseFrame(%q) error = %v, want ErrMalformedFrame", line, err)
		}
	}
}

func TestParseFrameIgnoresLineTerminator(t *testing.T) {
	for _, suffix := range []string{"", "\n", "\r\n"} {
		id, samples, err := ParseFrame("BEGIN,SENSOR_2,10,20,END" + suffix)
		if err != nil {
			t.Fatalf("ParseFrame with suffix %q failed: %v", suffix, err)
		}
		if id != 2 || len(samples) != 2 || samples[0] != 10 || samples[1] != 20 {
			t.Errorf("parsed (%d, %v) with suffix %q", id, samples, suffix)
		}
	}
}

func TestLineBufferAllOrNothing(t *testing.T) {
	b := NewLineBuffer(4)
	if !b.TryAppendString("abc") {
		t.Fatal("append within capacity failed")
	}
	if b.TryAppendString("de") {
		t.Fatal("append past capacity succeeded")
	}
	if got := string(b.Bytes()); got != "abc" {
		t.Errorf("buffer = %q after failed append", got)
	}
	if b.Remaining() != 1 {
		t.Errorf("Remaining = %d, want 1", b.Remaining())
	}
	if !b.TryAppend([]byte{'d'}) {
		t.Error("exact-fit append failed")
	}

	b.Reset()
	if b.Len() != 0 || b.Remaining() != 4 {
		t.Errorf("Reset left Len=%d Remaining=%d", b.Len(), b.Remaining())
	}
}

package core

import (
	"fmt"
	"strings"
	"testing"
)

// fillRamp writes the values [0, 1, ..., n-1] through the armed transfer
// destination, standing in for the hardware transfer machinery.
func fillRamp(dst []uint16) {
	for i := range dst {
		dst[i] = uint16(i)
	}
}

func rampFrame(sensorID int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "BEGIN,SENSOR_%d,", sensorID)
	for i := 0; i < NumPixels; i++ {
		fmt.Fprintf(&sb, "%d,", i)
	}
	sb.WriteString("END\r\n")
	return sb.String()
}

func TestReadAndPublishNoOpWhenNotReady(t *testing.T) {
	f := newFixture(t, Config{})

	if err := f.orch.ReadAndPublish(); err != nil {
		t.Fatalf("ReadAndPublish failed: %v", err)
	}
	if len(f.transport.sent) != 0 {
		t.Fatal("transport called while idle")
	}

	if err := f.orch.StartAcquisition(0); err != nil {
		t.Fatalf("StartAcquisition failed: %v", err)
	}
	if err := f.orch.ReadAndPublish(); err != nil {
		t.Fatalf("ReadAndPublish failed: %v", err)
	}
	if len(f.transport.sent) != 0 {
		t.Fatal("transport called while armed")
	}
}

func TestReadAndPublishFullFrame(t *testing.T) {
	f := newFixture(t, Config{})

	// Sensor id 3 is out of the fixture's range, so rebuild with four
	// sensors to match the known-answer frame.
	reg := NewRegistry([]SensorDescriptor{
		{Converter: f.convA, Channel: 0, TriggerSource: 1, StartPin: 1},
		{Converter: f.convA, Channel: 1, TriggerSource: 2, StartPin: 2},
		{Converter: f.convA, Channel: 2, TriggerSource: 3, StartPin: 3},
		{Converter: f.convA, Channel: 3, TriggerSource: 4, StartPin: 4},
	})
	orch, err := NewOrchestrator(reg, f.clock, f.transport, Config{})
	if err != nil {
		t.Fatalf("NewOrchestrator failed: %v", err)
	}

	if err := orch.StartAcquisition(3); err != nil {
		t.Fatalf("StartAcquisition failed: %v", err)
	}
	fillRamp(f.convA.dst)
	orch.CompleteTransfer(f.convA)

	if err := orch.ReadAndPublish(); err != nil {
		t.Fatalf("ReadAndPublish failed: %v", err)
	}
	if len(f.transport.sent) != 1 {
		t.Fatalf("transport calls = %d, want 1", len(f.transport.sent))
	}

	got := string(f.transport.sent[0])
	want := rampFrame(3)
	if got != want {
		t.Errorf("frame mismatch:\n got %q...\nwant %q...", clip(got, 60), clip(want, 60))
	}
}

func TestReadAndPublishTruncatesGracefully(t *testing.T) {
	// Header "BEGIN,SENSOR_0," is 15 bytes, each "40000," field 6 bytes,
	// terminator 5 bytes. Capacity 50 holds the header, exactly five
	// complete fields and the terminator; capacity 48 cuts after the same
	// five fields but leaves no room for the terminator.
	publish := func(t *testing.T, capacity int) string {
		t.Helper()
		f := newFixture(t, Config{ReportCapacity: capacity})
		if err := f.orch.StartAcquisition(0); err != nil {
			t.Fatalf("StartAcquisition failed: %v", err)
		}
		for i := range f.convA.dst {
			f.convA.dst[i] = 40000
		}
		f.orch.CompleteTransfer(f.convA)
		if err := f.orch.ReadAndPublish(); err != nil {
			t.Fatalf("ReadAndPublish failed: %v", err)
		}
		if len(f.transport.sent) != 1 {
			t.Fatalf("transport calls = %d, want 1", len(f.transport.sent))
		}
		got := string(f.transport.sent[0])
		if len(got) > capacity {
			t.Fatalf("frame length %d exceeds capacity %d", len(got), capacity)
		}
		return got
	}

	t.Run("terminator fits", func(t *testing.T) {
		got := publish(t, 50)
		want := "BEGIN,SENSOR_0," + strings.Repeat("40000,", 5) + "END\r\n"
		if got != want {
			t.Errorf("frame = %q, want %q", got, want)
		}
	})

	t.Run("terminator does not fit", func(t *testing.T) {
		got := publish(t, 48)
		want := "BEGIN,SENSOR_0," + strings.Repeat("40000,", 5)
		if got != want {
			t.Errorf("frame = %q, want %q", got, want)
		}
		if strings.HasSuffix(got, "END\r\n") {
			t.Error("terminator emitted without room")
		}
	})
}

func TestReadAndPublishRepeatable(t *testing.T) {
	f := newFixture(t, Config{})

	if err := f.orch.StartAcquisition(0); err != nil {
		t.Fatalf("StartAcquisition failed: %v", err)
	}
	fillRamp(f.convA.dst)
	f.orch.CompleteTransfer(f.convA)

	if err := f.orch.ReadAndPublish(); err != nil {
		t.Fatalf("first publish failed: %v", err)
	}
	if err := f.orch.ReadAndPublish(); err != nil {
		t.Fatalf("second publish failed: %v", err)
	}
	if len(f.transport.sent) != 2 {
		t.Fatalf("transport calls = %d, want 2", len(f.transport.sent))
	}
	if string(f.transport.sent[0]) != string(f.transport.sent[1]) {
		t.Error("repeated publish produced different frames")
	}
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

//go:build rp2040

// RP2040 target wiring for two S10077-style sensors sharing the ADC.
//
// Pinout:
//
//	GPIO6       pixel clock (PIO0/SM0 square wave)
//	GPIO2/GPIO3 start pulses for sensors 0 and 1
//	ADC0/ADC1   sensor video outputs
//
// Frames are published over the USB CDC serial link in the ASCII format
// the host tooling parses.
package main

import (
	"runtime/volatile"
	"time"
	"unsafe"

	"linescan/core"

	"machine"
)

// RP2040 1 MHz timer: raw low word of the microsecond counter.
const timerTIMERAWL = 0x40054000 + 0x0C

var timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))

func hardwareTicks() uint32 {
	return timerRAWL.Get()
}

const (
	// Pixel clock: 125 MHz sysclk / (2 * 125) = 500 kHz.
	pixelClockDiv = 125

	// One sample per pixel-clock period, in 1 MHz timer ticks.
	samplePeriodTicks = 2

	// Give a stalled acquisition half a second before moving on.
	acquireTimeoutTicks = 500_000
)

type usbTransport struct{}

func (usbTransport) Send(data []byte) error {
	_, err := machine.Serial.Write(data)
	return err
}

func main() {
	time.Sleep(2 * time.Second) // let USB enumerate

	core.SetTickSource(hardwareTicks)
	core.SetGPIODriver(NewRPGPIODriver())

	conv := NewPacedConverter(samplePeriodTicks)
	registry := core.NewRegistry([]core.SensorDescriptor{
		{Converter: conv, Channel: 0, TriggerTimer: 0, TriggerSource: 0, StartPin: 2},
		{Converter: conv, Channel: 1, TriggerTimer: 0, TriggerSource: 1, StartPin: 3},
	})

	clock := NewPIOPixelClock(0, 0, machine.GPIO6, pixelClockDiv)

	orch, err := core.NewOrchestrator(registry, clock, usbTransport{}, core.Config{})
	if err != nil {
		// Fatal: the acquisition chain is in an undefined state.
		panic(err)
	}
	conv.SetCompletionHandler(orch.CompleteTransfer)

	for {
		for id := uint8(0); int(id) < registry.Len(); id++ {
			if err := orch.StartAcquisition(id); err != nil {
				panic(err)
			}

			start := core.Ticks()
			for !orch.IsReady() && core.Ticks()-start < acquireTimeoutTicks {
				core.DispatchTimers()
			}

			if orch.IsReady() {
				if err := orch.ReadAndPublish(); err != nil {
					panic(err)
				}
			}

			time.Sleep(50 * time.Millisecond)
		}
	}
}

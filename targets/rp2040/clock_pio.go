//go:build rp2040

package main

// Pixel clock generation using the RP2040 PIO. A two-instruction program
// toggles the clock pin forever; the state machine clock divider sets the
// pixel rate. Once started the clock free-runs with zero CPU involvement,
// which is exactly the behavior the sensors need: the clock must keep
// running between acquisitions.

import (
	"linescan/core"

	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// buildClockProgram creates the square-wave PIO program using AssemblerV0.
func buildClockProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Set(rp2pio.SetDestPins, 1).Encode(), // 0: set pins, 1
		asm.Set(rp2pio.SetDestPins, 0).Encode(), // 1: set pins, 0
		// .wrap
	}
}

const clockPIOOrigin = 0

// PIOPixelClock implements core.PixelClock with a PIO state machine.
type PIOPixelClock struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	pin    machine.Pin
	divInt uint16
}

// NewPIOPixelClock binds a state machine and output pin. divInt sets the
// clock divider: the pixel frequency is sysclk / (2 * divInt) since the
// program spends two instructions per period.
func NewPIOPixelClock(pioNum, smNum uint8, pin machine.Pin, divInt uint16) *PIOPixelClock {
	pioHW := rp2pio.PIO0
	if pioNum == 1 {
		pioHW = rp2pio.PIO1
	}
	return &PIOPixelClock{
		pio:    pioHW,
		sm:     pioHW.StateMachine(smNum),
		pin:    pin,
		divInt: divInt,
	}
}

var _ core.PixelClock = (*PIOPixelClock)(nil)

// Start loads the program and enables the state machine. Called once at
// system initialization; failures here are fatal.
func (c *PIOPixelClock) Start() error {
	c.sm.TryClaim()

	program := buildClockProgram()
	offset, err := c.pio.AddProgram(program, clockPIOOrigin)
	if err != nil {
		return err
	}

	c.pin.Configure(machine.PinConfig{Mode: c.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(c.pin, 1)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	cfg.SetClkDivIntFrac(c.divInt, 0)

	c.sm.Init(offset, cfg)
	c.sm.SetPindirsConsecutive(c.pin, 1, true)
	c.sm.SetPinsConsecutive(c.pin, 1, false)
	c.sm.SetEnabled(true)

	return nil
}

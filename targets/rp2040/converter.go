//go:build rp2040

package main

import (
	"errors"

	"linescan/core"

	"machine"
)

// PacedConverter implements core.ConverterDriver over the RP2040's SAR
// ADC. The RP2040 has no timer-triggered DMA path into the ADC from
// TinyGo, so the transfer engine is emulated: while armed, a core timer
// fires once per pixel-clock period and captures one sample into the
// destination buffer. The trigger-source selector is recorded but the
// pacing timer stands in for the hardware trigger mux.
//
// Reconfiguration is rejected while armed, matching the converter
// contract: the orchestrator disarms the previous transfer before it
// rebinds channel and trigger fields.
type PacedConverter struct {
	samplePeriod uint32 // ticks between samples

	channels map[core.ConverterChannel]machine.ADC
	active   core.ConverterChannel
	trigger  core.TriggerSource

	timer core.Timer
	dst   []uint16
	idx   int
	armed bool

	notify func(core.ConverterDriver)
}

// NewPacedConverter creates the converter with the given sample period in
// timer ticks. The period should match the pixel-clock period so one
// sample is captured per shifted pixel.
func NewPacedConverter(samplePeriod uint32) *PacedConverter {
	machine.InitADC()
	return &PacedConverter{
		samplePeriod: samplePeriod,
		channels:     make(map[core.ConverterChannel]machine.ADC),
	}
}

// SetCompletionHandler installs the completion notification sink,
// normally the orchestrator's CompleteTransfer.
func (c *PacedConverter) SetCompletionHandler(fn func(core.ConverterDriver)) {
	c.notify = fn
}

func (c *PacedConverter) ConfigureChannel(ch core.ConverterChannel) error {
	if c.armed {
		return errors.New("converter armed; channel locked")
	}
	if _, ok := c.channels[ch]; !ok {
		var adc machine.ADC
		switch ch {
		case 0:
			adc = machine.ADC{Pin: machine.ADC0}
		case 1:
			adc = machine.ADC{Pin: machine.ADC1}
		case 2:
			adc = machine.ADC{Pin: machine.ADC2}
		case 3:
			adc = machine.ADC{Pin: machine.ADC3}
		default:
			return errors.New("unsupported ADC channel")
		}
		if err := adc.Configure(machine.ADCConfig{}); err != nil {
			return err
		}
		c.channels[ch] = adc
	}
	c.active = ch
	return nil
}

func (c *PacedConverter) ConfigureTriggerSource(src core.TriggerSource) error {
	if c.armed {
		return errors.New("converter armed; trigger locked")
	}
	c.trigger = src
	return nil
}

func (c *PacedConverter) ArmTransfer(dst []uint16) error {
	if c.armed {
		return errors.New("converter already armed")
	}
	if _, ok := c.channels[c.active]; !ok {
		return errors.New("no channel configured")
	}

	c.dst = dst
	c.idx = 0
	c.armed = true

	c.timer.WakeTicks = core.Ticks() + c.samplePeriod
	c.timer.Handler = c.sample
	core.ScheduleTimer(&c.timer)
	return nil
}

func (c *PacedConverter) Disarm() error {
	c.armed = false
	core.CancelTimer(&c.timer)
	return nil
}

// sample captures one pixel per pixel-clock period. When the buffer is
// full the completion handler is raised; the orchestrator disarms the
// converter from inside that notification.
func (c *PacedConverter) sample(t *core.Timer) uint8 {
	if !c.armed {
		return core.TimerDone
	}

	adc := c.channels[c.active]
	// machine.ADC.Get returns a left-adjusted 16-bit reading; keep the
	// native 12-bit range of the acquisition chain.
	c.dst[c.idx] = adc.Get() >> 4
	c.idx++

	if c.idx >= len(c.dst) {
		if c.notify != nil {
			c.notify(c)
		}
		return core.TimerDone
	}

	// Resync instead of accumulating: dispatch may have been held off
	// during the start-pulse hold, and a burst of overdue samples would
	// break pixel alignment.
	t.WakeTicks = core.Ticks() + c.samplePeriod
	return core.TimerReschedule
}

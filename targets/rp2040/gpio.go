//go:build rp2040

package main

import (
	"errors"

	"linescan/core"

	"machine"
)

// RPGPIODriver implements core.GPIODriver on the RP2040. Only outputs are
// needed: one start-pulse pin per sensor.
type RPGPIODriver struct {
	configured map[core.GPIOPin]machine.Pin
}

func NewRPGPIODriver() *RPGPIODriver {
	return &RPGPIODriver{configured: make(map[core.GPIOPin]machine.Pin)}
}

func (d *RPGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	if _, ok := d.configured[pin]; ok {
		return nil
	}
	if pin > 29 {
		return errors.New("no such GPIO on RP2040")
	}
	p := machine.Pin(pin)
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.configured[pin] = p
	return nil
}

func (d *RPGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	p, ok := d.configured[pin]
	if !ok {
		return errors.New("pin not configured as output")
	}
	p.Set(value)
	return nil
}

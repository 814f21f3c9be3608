// Sensor registry for S10077-family linear image sensors.
// Each descriptor records the hardware bindings one sensor needs: which
// converter services it, the input channel on that converter, the trigger
// timer/source pair that paces sample capture, and the start-pulse pin.
package core

import "errors"

// NumPixels is the pixel count of the S10077 sensor family. Every
// acquisition transfers exactly this many 16-bit samples.
const NumPixels = 1024

// ConverterChannel selects an input line on a converter.
type ConverterChannel uint32

// TriggerSource selects the hardware signal that arms the converter to
// sample on clock edges rather than on software command.
type TriggerSource uint32

// TriggerTimerID identifies the timer peripheral feeding a sensor's
// trigger source. The orchestrator never touches the timer directly; the
// id is recorded so target wiring can route the right timer channel.
type TriggerTimerID uint8

// SensorDescriptor holds the hardware bindings for a single sensor.
// Descriptors are supplied once at system initialization and never change.
type SensorDescriptor struct {
	Converter     ConverterDriver  // converter instance servicing this sensor
	Channel       ConverterChannel // input line on that converter
	TriggerTimer  TriggerTimerID   // timer feeding the trigger source
	TriggerSource TriggerSource    // trigger selection written per acquisition
	StartPin      GPIOPin          // start-pulse output
}

// ErrInvalidSensorID is returned when a sensor id is outside the
// registry's configured range.
var ErrInvalidSensorID = errors.New("sensor id out of range")

// Registry is an immutable ordered collection of sensor descriptors,
// indexed by sensor id.
type Registry struct {
	sensors []SensorDescriptor
}

// NewRegistry builds a registry from a descriptor table. The slice is
// copied; callers cannot mutate the registry afterwards.
func NewRegistry(sensors []SensorDescriptor) *Registry {
	r := &Registry{sensors: make([]SensorDescriptor, len(sensors))}
	copy(r.sensors, sensors)
	return r
}

// Len returns the number of configured sensors.
func (r *Registry) Len() int {
	return len(r.sensors)
}

// Lookup returns the descriptor for the given sensor id, or
// ErrInvalidSensorID if the id is out of range.
func (r *Registry) Lookup(id uint8) (*SensorDescriptor, error) {
	if int(id) >= len(r.sensors) {
		return nil, ErrInvalidSensorID
	}
	return &r.sensors[id], nil
}

// Acquisition orchestration for linear image sensors sharing a converter.
//
// A single acquisition cycle runs Idle -> Armed -> Complete. StartAcquisition
// rebinds the shared converter to the chosen sensor's channel and trigger
// source, arms a fixed 1024-sample transfer, and issues the timed start
// pulse. The hardware later raises a completion notification which is
// delivered to CompleteTransfer from a context that preempts the requester;
// the handler authenticates the notification against the active converter
// binding, quiesces the converter, and publishes readiness.
package core

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"linescan/protocol"
)

// Acquisition phases. The phase is packed into one atomic word together
// with the active sensor id and a generation counter, so the completion
// handler never observes a torn (phase, sensor) pair.
const (
	AcqPhaseIdle uint8 = iota
	AcqPhaseArmed
	AcqPhaseComplete
)

const (
	// DefaultIntegrationTime is how long the start pulse is held high.
	DefaultIntegrationTime = 10 * time.Millisecond

	// DefaultReportCapacity bounds the serialized frame. A full 1024-pixel
	// frame needs at most ~6.2 KB; the default leaves headroom.
	DefaultReportCapacity = 8192
)

// ErrAcquisitionPending is returned by StartAcquisition while a previous
// acquisition has not yet completed.
var ErrAcquisitionPending = errors.New("acquisition already in flight")

// Config holds orchestrator tuning knobs.
type Config struct {
	// IntegrationTime is the start-pulse hold time. Zero selects
	// DefaultIntegrationTime.
	IntegrationTime time.Duration

	// ReportCapacity is the serialized frame buffer size in bytes. Zero
	// selects DefaultReportCapacity.
	ReportCapacity int
}

// sleepFn is the blocking delay used for the start-pulse hold. Tests
// replace it to run without real time passing.
var sleepFn = time.Sleep

// Orchestrator owns the single in-flight acquisition. Exactly one
// acquisition may be outstanding at a time; StartAcquisition rejects
// overlapping requests instead of corrupting the armed transfer.
//
// Two execution contexts touch an Orchestrator: the requester context
// (StartAcquisition, IsReady, ReadAndPublish) and the completion context
// (CompleteTransfer), which may preempt the requester at any point.
type Orchestrator struct {
	registry  *Registry
	transport Transport

	integration time.Duration

	// state packs phase, sensor id and generation:
	//   bits 0-7   phase
	//   bits 8-15  sensor id
	//   bits 16-63 generation, bumped on every StartAcquisition
	state atomic.Uint64

	// activeConv is written in StartAcquisition before the Armed phase is
	// published and read by CompleteTransfer only after it observes the
	// Armed phase, so the atomic state word orders the accesses.
	activeConv ConverterDriver

	// buf is written by the hardware transfer machinery while Armed and
	// read by the requester only after the Complete phase is observed.
	buf [NumPixels]uint16

	line *protocol.LineBuffer
}

func packAcq(phase, sensor uint8, gen uint64) uint64 {
	return gen<<16 | uint64(sensor)<<8 | uint64(phase)
}

func acqPhase(word uint64) uint8  { return uint8(word) }
func acqSensor(word uint64) uint8 { return uint8(word >> 8) }
func acqGen(word uint64) uint64   { return word >> 16 }

// NewOrchestrator binds the registry, starts the shared pixel clock and
// configures every sensor's start-pulse pin low. A clock or pin failure
// here is fatal: the caller cannot safely continue with a partially
// configured acquisition chain.
func NewOrchestrator(registry *Registry, clock PixelClock, transport Transport, cfg Config) (*Orchestrator, error) {
	if registry == nil || registry.Len() == 0 {
		return nil, errors.New("no sensors configured")
	}

	if cfg.IntegrationTime == 0 {
		cfg.IntegrationTime = DefaultIntegrationTime
	}
	if cfg.ReportCapacity == 0 {
		cfg.ReportCapacity = DefaultReportCapacity
	}

	gpio := MustGPIO()
	for id := 0; id < registry.Len(); id++ {
		desc, _ := registry.Lookup(uint8(id))
		if err := gpio.ConfigureOutput(desc.StartPin); err != nil {
			return nil, fmt.Errorf("configuring start pin for sensor %d: %w", id, err)
		}
		if err := gpio.SetPin(desc.StartPin, false); err != nil {
			return nil, fmt.Errorf("clearing start pin for sensor %d: %w", id, err)
		}
	}

	// The pixel clock runs continuously from here on; it is independent of
	// which sensor is selected and is never restarted per acquisition.
	if err := clock.Start(); err != nil {
		return nil, fmt.Errorf("starting pixel clock: %w", err)
	}

	return &Orchestrator{
		registry:    registry,
		transport:   transport,
		integration: cfg.IntegrationTime,
		line:        protocol.NewLineBuffer(cfg.ReportCapacity),
	}, nil
}

// StartAcquisition begins one acquisition cycle for the given sensor and
// returns as soon as the start pulse has been issued; the transfer itself
// completes asynchronously. The only blocking portion is the fixed
// integration hold between the pulse edges.
//
// Hardware configuration errors are fatal: once reconfiguration of the
// shared converter has begun there is no safe state to roll back to, and
// the orchestrator must not be reused after such an error.
func (o *Orchestrator) StartAcquisition(id uint8) error {
	desc, err := o.registry.Lookup(id)
	if err != nil {
		return err
	}

	cur := o.state.Load()
	if acqPhase(cur) == AcqPhaseArmed {
		return ErrAcquisitionPending
	}

	// Record the binding before publishing the Armed phase; the completion
	// handler reads activeConv only after observing Armed.
	o.activeConv = desc.Converter
	if !o.state.CompareAndSwap(cur, packAcq(AcqPhaseArmed, id, acqGen(cur)+1)) {
		return ErrAcquisitionPending
	}

	// The previous cycle's completion handler disarmed the converter, so
	// reconfiguration is safe here.
	if err := desc.Converter.ConfigureChannel(desc.Channel); err != nil {
		return fmt.Errorf("selecting channel for sensor %d: %w", id, err)
	}
	if err := desc.Converter.ConfigureTriggerSource(desc.TriggerSource); err != nil {
		return fmt.Errorf("selecting trigger source for sensor %d: %w", id, err)
	}
	if err := desc.Converter.ArmTransfer(o.buf[:]); err != nil {
		return fmt.Errorf("arming transfer for sensor %d: %w", id, err)
	}

	// Start pulse: high, hold for the integration time, low. This kicks
	// off the sensor's internal shift register; one sample is emitted per
	// subsequent pixel-clock edge.
	gpio := MustGPIO()
	if err := gpio.SetPin(desc.StartPin, true); err != nil {
		return fmt.Errorf("raising start pulse for sensor %d: %w", id, err)
	}
	sleepFn(o.integration)
	if err := gpio.SetPin(desc.StartPin, false); err != nil {
		return fmt.Errorf("dropping start pulse for sensor %d: %w", id, err)
	}

	return nil
}

// CompleteTransfer is the asynchronous completion handler. The hardware
// subsystem invokes it with the converter instance that finished its
// transfer. Notifications from a converter other than the one bound to
// the active acquisition are stale and are discarded without touching any
// state. It never blocks and completes in bounded time.
func (o *Orchestrator) CompleteTransfer(conv ConverterDriver) {
	cur := o.state.Load()
	if acqPhase(cur) != AcqPhaseArmed {
		return
	}
	if conv != o.activeConv {
		// Stale: belongs to a converter not owned by this acquisition.
		return
	}

	// Quiesce the transfer machinery before publishing readiness so the
	// next StartAcquisition may reconfigure channel and trigger fields.
	if err := conv.Disarm(); err != nil {
		return
	}

	// CAS rather than a plain store: a racing StartAcquisition (caller
	// contract violation) must not have its Armed phase overwritten.
	o.state.CompareAndSwap(cur, packAcq(AcqPhaseComplete, acqSensor(cur), acqGen(cur)))
}

// IsReady reports whether the current acquisition's buffer is valid and
// stable. Non-blocking; safe to poll at any rate.
func (o *Orchestrator) IsReady() bool {
	return acqPhase(o.state.Load()) == AcqPhaseComplete
}

// ActiveSensor returns the id of the sensor currently (or most recently)
// being acquired.
func (o *Orchestrator) ActiveSensor() uint8 {
	return acqSensor(o.state.Load())
}

// Samples returns a copy of the acquired pixel data, or nil if no
// completed acquisition is available.
func (o *Orchestrator) Samples() []uint16 {
	if !o.IsReady() {
		return nil
	}
	out := make([]uint16, NumPixels)
	copy(out, o.buf[:])
	return out
}

// WaitReady polls readiness until it becomes true or ctx is done. The
// hardware has no completion timeout of its own, so callers that cannot
// tolerate an indefinite stall bound the wait here.
func (o *Orchestrator) WaitReady(ctx context.Context) error {
	tick := time.NewTicker(time.Millisecond)
	defer tick.Stop()
	for {
		if o.IsReady() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
		}
	}
}

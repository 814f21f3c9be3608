package core

// ConverterDriver is the abstract interface for a shared analog-to-digital
// converter with a gated transfer engine. One converter instance may be
// rebound to different sensors between acquisitions.
//
// ConfigureChannel and ConfigureTriggerSource are only valid while the
// converter is disarmed. Implementations enforce this with an explicit
// armed/disarmed state rather than timing assumptions.
type ConverterDriver interface {
	// ConfigureChannel selects the active input line.
	ConfigureChannel(ch ConverterChannel) error

	// ConfigureTriggerSource selects the hardware trigger that paces
	// sample capture once the transfer is armed.
	ConfigureTriggerSource(src TriggerSource) error

	// ArmTransfer arms the converter to capture len(dst) samples into dst,
	// one per trigger edge. The converter does not sample until trigger
	// edges arrive. Completion is reported asynchronously through the
	// driver's completion handler.
	ArmTransfer(dst []uint16) error

	// Disarm halts the transfer machinery and returns the converter to the
	// idle state, making reconfiguration safe again. Must be callable from
	// the completion context without blocking.
	Disarm() error
}

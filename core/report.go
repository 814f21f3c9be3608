package core

import "linescan/protocol"

// ReadAndPublish serializes the completed acquisition through the
// transport as an ASCII frame:
//
//	BEGIN,SENSOR_<id>,<v0>,<v1>,...,END\r\n
//
// It is a no-op while no completed acquisition is available, so stale or
// partial data is never transmitted. If the report buffer cannot hold the
// full frame, complete sample fields are emitted up to capacity and the
// terminator is appended only if it still fits.
func (o *Orchestrator) ReadAndPublish() error {
	cur := o.state.Load()
	if acqPhase(cur) != AcqPhaseComplete {
		return nil
	}

	protocol.EncodeFrame(o.line, acqSensor(cur), o.buf[:])
	return o.transport.Send(o.line.Bytes())
}

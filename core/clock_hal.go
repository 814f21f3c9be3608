package core

// PixelClock is the shared periodic signal that paces sample shifting
// inside the sensors and sample capture by the converter. It is started
// once at system initialization and runs continuously; it is never
// restarted per acquisition.
type PixelClock interface {
	Start() error
}

// Transport carries serialized frames to the host. Send blocks until the
// data has been accepted by the underlying link.
type Transport interface {
	Send(data []byte) error
}

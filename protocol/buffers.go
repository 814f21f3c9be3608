package protocol

// LineBuffer is a fixed-capacity byte buffer for building one outgoing
// frame. Appends are all-or-nothing: a write that does not fit leaves the
// buffer untouched and reports failure, so a frame is never cut mid-field.
type LineBuffer struct {
	buf []byte
}

// NewLineBuffer creates a LineBuffer with the given capacity in bytes.
func NewLineBuffer(capacity int) *LineBuffer {
	return &LineBuffer{buf: make([]byte, 0, capacity)}
}

// Reset clears the buffer without releasing its storage.
func (b *LineBuffer) Reset() {
	b.buf = b.buf[:0]
}

// Len returns the number of bytes written so far.
func (b *LineBuffer) Len() int {
	return len(b.buf)
}

// Remaining returns the free space left in the buffer.
func (b *LineBuffer) Remaining() int {
	return cap(b.buf) - len(b.buf)
}

// Bytes returns the accumulated data. The slice is only valid until the
// next Reset or append.
func (b *LineBuffer) Bytes() []byte {
	return b.buf
}

// TryAppend appends p if it fits entirely, reporting whether it did.
func (b *LineBuffer) TryAppend(p []byte) bool {
	if len(p) > b.Remaining() {
		return false
	}
	b.buf = append(b.buf, p...)
	return true
}

// TryAppendString appends s if it fits entirely, reporting whether it did.
func (b *LineBuffer) TryAppendString(s string) bool {
	if len(s) > b.Remaining() {
		return false
	}
	b.buf = append(b.buf, s...)
	return true
}

// Package transport abstracts the serial link the command protocol runs
// over: send a character, send a string, read a character, drain
// whatever is pending in the receive path. The abstraction is
// deliberately narrow so it can be backed by anything from a raw
// memory-mapped UART register window to a TCP socket.
package transport

import "io"

// Transport is the polled, blocking character I/O surface the command
// protocol is built on. No implementation reorders bytes;
// ReadByte blocks until one byte is available, WriteByte blocks until
// the byte has been accepted for transmission.
type Transport interface {
	ReadByte() (byte, error)
	WriteByte(b byte) error
	WriteString(s string) error
	// ReadFull reads exactly len(buf) bytes, blocking as needed.
	ReadFull(buf []byte) error
	// DrainRx discards any bytes currently buffered in the receive path
	// without blocking for more to arrive.
	DrainRx()
	io.Closer
}

// WriteStringDefault is the WriteString a Transport can build on top of
// its own WriteByte, for backends with no faster bulk-write path.
func WriteStringDefault(t Transport, s string) error {
	for i := 0; i < len(s); i++ {
		if err := t.WriteByte(s[i]); err != nil {
			return err
		}
	}
	return nil
}

// ReadFullDefault is the ReadFull a Transport can build on top of its
// own ReadByte.
func ReadFullDefault(t Transport, buf []byte) error {
	for i := range buf {
		b, err := t.ReadByte()
		if err != nil {
			return err
		}
		buf[i] = b
	}
	return nil
}

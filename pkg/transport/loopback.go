package transport

import (
	"bufio"
	"fmt"
	"io"
)

// LoopbackTransport is an in-process duplex byte stream, used by
// pkg/protocol's tests to drive the whole command loop without any
// hardware or network. It is built on io.Pipe so ReadByte blocks until
// a byte actually arrives, the same way a real link would.
type LoopbackTransport struct {
	r *bufio.Reader
	w io.Writer
	c io.Closer
}

// NewLoopbackPair returns two ends of the same pipe: bytes written to
// one end are read from the other end, and vice versa.
func NewLoopbackPair() (a, b *LoopbackTransport) {
	abR, abW := io.Pipe()
	baR, baW := io.Pipe()

	a = &LoopbackTransport{r: bufio.NewReader(baR), w: abW, c: abW}
	b = &LoopbackTransport{r: bufio.NewReader(abR), w: baW, c: baW}
	return a, b
}

func (t *LoopbackTransport) ReadByte() (byte, error) {
	b, err := t.r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("transport: loopback read: %w", err)
	}
	return b, nil
}

func (t *LoopbackTransport) WriteByte(b byte) error {
	_, err := t.w.Write([]byte{b})
	return err
}

func (t *LoopbackTransport) WriteString(s string) error {
	_, err := t.w.Write([]byte(s))
	return err
}

func (t *LoopbackTransport) ReadFull(buf []byte) error {
	return ReadFullDefault(t, buf)
}

func (t *LoopbackTransport) DrainRx() {
	for t.r.Buffered() > 0 {
		t.r.ReadByte()
	}
}

func (t *LoopbackTransport) Close() error {
	return t.c.Close()
}

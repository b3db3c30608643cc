package transport

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// SerialTransport drives a UART device node exposed to Linux as a tty,
// the practical default when the board's UART is bound to a kernel
// driver rather than reached through a raw memory-mapped window.
type SerialTransport struct {
	port serial.Port
}

// OpenSerial opens portName at baud, retrying the open once on failure
// the way the teacher's serial connection does, since USB-serial
// adapters sometimes need a moment after enumeration.
func OpenSerial(portName string, baud int, timeout time.Duration) (*SerialTransport, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		port, err = serial.Open(portName, mode)
		if err != nil {
			return nil, fmt.Errorf("transport: open serial port %s: %w", portName, err)
		}
	}

	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("transport: set read timeout: %w", err)
	}

	return &SerialTransport{port: port}, nil
}

func (t *SerialTransport) ReadByte() (byte, error) {
	buf := make([]byte, 1)
	for {
		n, err := t.port.Read(buf)
		if err != nil {
			return 0, fmt.Errorf("transport: serial read: %w", err)
		}
		if n == 1 {
			return buf[0], nil
		}
	}
}

func (t *SerialTransport) WriteByte(b byte) error {
	_, err := t.port.Write([]byte{b})
	if err != nil {
		return fmt.Errorf("transport: serial write: %w", err)
	}
	return nil
}

func (t *SerialTransport) WriteString(s string) error {
	return WriteStringDefault(t, s)
}

func (t *SerialTransport) ReadFull(buf []byte) error {
	return ReadFullDefault(t, buf)
}

func (t *SerialTransport) DrainRx() {
	t.port.ResetInputBuffer()
}

func (t *SerialTransport) Close() error {
	return t.port.Close()
}

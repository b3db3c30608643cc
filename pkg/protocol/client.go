package protocol

import (
	"fmt"
	"strings"

	"github.com/brightlattice/epcsfw/pkg/transport"
)

// Client is the host side of the command protocol: it issues R, W, V,
// and F commands over a Transport and parses the replies.
type Client struct {
	tr transport.Transport
}

// NewClient wraps an already-opened transport.
func NewClient(tr transport.Transport) *Client {
	return &Client{tr: tr}
}

// sendLine writes line terminated by \r and consumes the server's echo
// of it, which ends in \r\n, so the next read sees the reply.
func (c *Client) sendLine(line string) error {
	if err := c.tr.WriteString(line + "\r"); err != nil {
		return err
	}
	for {
		b, err := c.tr.ReadByte()
		if err != nil {
			return fmt.Errorf("protocol: client read echo: %w", err)
		}
		if b == '\n' {
			return nil
		}
	}
}

// readReply reads one CRLF-terminated reply and splits it into fields.
// fields[0] is "Y" or "N".
func (c *Client) readReply() ([]string, error) {
	var sb strings.Builder
	for {
		b, err := c.tr.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("protocol: client read reply: %w", err)
		}
		if b == '\n' {
			break
		}
		if b == '\r' {
			continue
		}
		sb.WriteByte(b)
	}
	fields := strings.Fields(sb.String())
	if len(fields) == 0 {
		return nil, fmt.Errorf("protocol: empty reply")
	}
	return fields, nil
}

// ReadRegister issues R and returns the 32-bit value.
func (c *Client) ReadRegister(addr uint32) (uint32, error) {
	if err := c.sendLine(fmt.Sprintf("R %s", formatHex32(addr))); err != nil {
		return 0, err
	}
	fields, err := c.readReply()
	if err != nil {
		return 0, err
	}
	if fields[0] != replyOK || len(fields) != 2 {
		return 0, fmt.Errorf("protocol: register read rejected")
	}
	return parseHex32(fields[1])
}

// WriteRegister issues W.
func (c *Client) WriteRegister(addr, value uint32) error {
	if err := c.sendLine(fmt.Sprintf("W %s %s", formatHex32(addr), formatHex32(value))); err != nil {
		return err
	}
	fields, err := c.readReply()
	if err != nil {
		return err
	}
	if fields[0] != replyOK {
		return fmt.Errorf("protocol: register write rejected")
	}
	return nil
}

// Version issues V and returns the reported FPGA and NIOS identifiers.
func (c *Client) Version() (Versions, error) {
	if err := c.sendLine("V"); err != nil {
		return Versions{}, err
	}
	fields, err := c.readReply()
	if err != nil {
		return Versions{}, err
	}
	if fields[0] != replyOK || len(fields) != 3 {
		return Versions{}, fmt.Errorf("protocol: version query rejected")
	}
	fpga, err := parseHex32(fields[1])
	if err != nil {
		return Versions{}, err
	}
	nios, err := parseHex32(fields[2])
	if err != nil {
		return Versions{}, err
	}
	return Versions{FPGA: fpga, NIOS: nios}, nil
}

// ProgramFlash issues F, waits for the ack that tells it the firmware
// is ready to receive the payload, streams the data, then waits for
// the commit reply.
func (c *Client) ProgramFlash(addr uint32, data []byte) error {
	sum := calculateChecksum(data)
	cmd := fmt.Sprintf("F %s %s %s", formatHex32(addr), formatHex32(uint32(len(data))), formatHex32(sum))
	if err := c.sendLine(cmd); err != nil {
		return err
	}

	ack, err := c.readReply()
	if err != nil {
		return err
	}
	if ack[0] != replyOK {
		return fmt.Errorf("protocol: flash program not acknowledged")
	}

	for _, b := range data {
		if err := c.tr.WriteByte(b); err != nil {
			return fmt.Errorf("protocol: client write payload: %w", err)
		}
	}
	fields, err := c.readReply()
	if err != nil {
		return err
	}
	if fields[0] != replyOK {
		return fmt.Errorf("protocol: flash program rejected")
	}
	return nil
}

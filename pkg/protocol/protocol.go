// Package protocol implements the ASCII line-oriented command loop: R
// and W for register access, V for version reporting, F for flash
// programming.
package protocol

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/brightlattice/epcsfw/pkg/flash"
	"github.com/brightlattice/epcsfw/pkg/register"
	"github.com/brightlattice/epcsfw/pkg/transport"
)

// Versions are the two identifiers the V command reports.
type Versions struct {
	FPGA uint32
	NIOS uint32
}

// Server runs the command loop against a transport, a register window,
// and a flash engine. It is single-threaded: Run never starts a second
// goroutine and the Engine it drives is not safe for concurrent use.
type Server struct {
	tr       transport.Transport
	regs     *register.Registers
	engine   *flash.Engine
	versions Versions
	log      *logrus.Entry

	line []byte
}

// New builds a Server. log may be nil, in which case a logger that
// discards everything is used.
func New(tr transport.Transport, regs *register.Registers, engine *flash.Engine, versions Versions, log *logrus.Entry) *Server {
	if log == nil {
		l := logrus.New()
		l.SetOutput(nilWriter{})
		log = logrus.NewEntry(l)
	}
	return &Server{tr: tr, regs: regs, engine: engine, versions: versions, log: log, line: make([]byte, 0, MaxLineLen)}
}

type nilWriter struct{}

func (nilWriter) Write(p []byte) (int, error) { return len(p), nil }

// Run drains any stale input, then services commands until the
// transport returns an error (typically because the link dropped).
func (s *Server) Run() error {
	s.tr.DrainRx()
	for {
		line, err := s.readLine()
		if err != nil {
			return fmt.Errorf("protocol: read line: %w", err)
		}
		if line == "" {
			continue
		}
		if err := s.handleLine(line); err != nil {
			return fmt.Errorf("protocol: handle line: %w", err)
		}
	}
}

// readLine reads one command, handling backspace-edit and line-length
// overflow exactly as the original firmware's receive loop does: a
// backspace erases the previous character (echoed as "\b \b"), and a
// line that grows past MaxLineLen is discarded with an immediate N
// reply rather than silently truncated.
func (s *Server) readLine() (string, error) {
	s.line = s.line[:0]
	for {
		b, err := s.tr.ReadByte()
		if err != nil {
			return "", err
		}

		switch {
		case b == '\r' || b == '\n':
			s.tr.WriteString(crlf)
			return string(s.line), nil

		case b == backspace:
			if len(s.line) > 0 {
				s.line = s.line[:len(s.line)-1]
				s.tr.WriteString(backspaceSeq)
			}

		default:
			if len(s.line) >= MaxLineLen {
				s.line = s.line[:0]
				s.tr.WriteString(replyBad)
				continue
			}
			s.line = append(s.line, b)
			s.tr.WriteByte(b)
		}
	}
}

func tokenize(line string) []string {
	fields := strings.Fields(line)
	tokens := make([]string, len(fields))
	for i, f := range fields {
		tokens[i] = strings.ToUpper(f)
	}
	return tokens
}

func (s *Server) handleLine(line string) error {
	tokens := tokenize(line)
	if len(tokens) == 0 || len(tokens) > MaxTokens {
		return s.reply(replyBad)
	}

	switch tokens[0][0] {
	case VerbRead:
		return s.handleRead(tokens)
	case VerbWrite:
		return s.handleWrite(tokens)
	case VerbVersion:
		return s.handleVersion(tokens)
	case VerbFlash:
		return s.handleFlash(tokens)
	default:
		return s.reply(replyBad)
	}
}

func (s *Server) reply(msg string) error {
	return s.tr.WriteString(msg)
}

func (s *Server) handleRead(tokens []string) error {
	if len(tokens) != 2 {
		return s.reply(replyBad)
	}
	addr, err := parseHex32(tokens[1])
	if err != nil {
		return s.reply(replyBad)
	}
	v, err := s.regs.Read(addr)
	if err != nil {
		s.log.WithError(err).WithField("addr", addr).Warn("register read failed")
		return s.reply(replyBad)
	}
	return s.reply(replyOK + " " + formatHex32(v) + crlf)
}

func (s *Server) handleWrite(tokens []string) error {
	if len(tokens) != 3 {
		return s.reply(replyBad)
	}
	addr, err := parseHex32(tokens[1])
	if err != nil {
		return s.reply(replyBad)
	}
	val, err := parseHex32(tokens[2])
	if err != nil {
		return s.reply(replyBad)
	}
	if err := s.regs.Write(addr, val); err != nil {
		s.log.WithError(err).WithField("addr", addr).Warn("register write failed")
		return s.reply(replyBad)
	}
	return s.reply(replyOK + crlf)
}

func (s *Server) handleVersion(tokens []string) error {
	if len(tokens) != 1 {
		return s.reply(replyBad)
	}
	return s.reply(replyOK + " " + formatHex32(s.versions.FPGA) + " " + formatHex32(s.versions.NIOS) + crlf)
}

func (s *Server) handleFlash(tokens []string) error {
	if len(tokens) != 4 {
		return s.reply(replyBad)
	}
	addr, err := parseHex32(tokens[1])
	if err != nil {
		return s.reply(replyBad)
	}
	length, err := parseHex32(tokens[2])
	if err != nil {
		return s.reply(replyBad)
	}
	sum, err := parseHex32(tokens[3])
	if err != nil {
		return s.reply(replyBad)
	}

	s.tr.DrainRx()
	if err := s.reply(replyOK + crlf); err != nil {
		return err
	}

	data := make([]byte, length)
	if err := s.tr.ReadFull(data); err != nil {
		return err
	}

	if !verifyChecksum(data, sum) {
		s.log.WithField("addr", addr).Warn("flash checksum mismatch")
		return s.reply(replyBad)
	}

	if err := s.engine.Write(int64(addr), flash.Program{Data: data}); err != nil {
		s.log.WithError(err).WithField("addr", addr).Warn("flash program failed")
		return s.reply(replyBad)
	}

	return s.reply(replyOK + crlf)
}

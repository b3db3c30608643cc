// Package regsyms resolves symbolic register names to offsets so the
// host tool can be pointed at "DAC1" instead of "0x0010".
package regsyms

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Table holds the register-name -> offset mapping parsed from a symbol file.
type Table struct {
	offsets map[string]uint32
}

// New creates an empty symbol table.
func New() *Table {
	return &Table{offsets: make(map[string]uint32)}
}

// pattern matches lines of the form "NAME = $OFFSET", one register per line.
var pattern = regexp.MustCompile(`^(\S+)\s*=\s*\$(\S+)`)

// Load parses a register symbol file.
func (t *Table) Load(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open register symbol file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}

		matches := pattern.FindStringSubmatch(line)
		if matches == nil {
			continue
		}

		name := matches[1]
		offset, err := strconv.ParseUint(matches[2], 16, 32)
		if err != nil {
			return fmt.Errorf("invalid offset for %q at line %d: %w", name, lineNum, err)
		}
		t.offsets[name] = uint32(offset)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading register symbol file: %w", err)
	}

	if len(t.offsets) == 0 {
		return fmt.Errorf("no register symbols found in file")
	}

	return nil
}

// Lookup resolves a register name to its offset.
func (t *Table) Lookup(name string) (uint32, error) {
	offset, ok := t.offsets[name]
	if !ok {
		return 0, fmt.Errorf("register symbol %q not found", name)
	}
	return offset, nil
}

// Count returns the number of symbols loaded.
func (t *Table) Count() int {
	return len(t.offsets)
}

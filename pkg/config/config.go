// Package config loads epcsfw's ini-file configuration, shared by the
// firmware process and the host companion tool.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// Config holds every setting either epcsd or epcsctl needs.
type Config struct {
	// Link
	Port      string
	BaudRate  int
	TimeoutMs int

	// Register window
	RegisterBackend string // "sim", "mmap"
	RegisterBase    uint32
	RegisterSpan    uint32
	BypassMask      uint32

	// Transport
	TransportBackend string // "mmio", "serial", "tcp"
	UARTBase         uint32
	UARTClockHz      uint32

	// Flash
	FlashBackend string // "file", "mtd", "spi"
	FlashPath    string // file backend path, or MTD device node
	FlashSizeHex string

	// Versions reported by V
	FPGAVersion uint32
	NIOSVersion uint32

	// Host tool chunking
	ChunkSize int

	// Register symbol file for epcsctl's --name flag
	RegSymFile string

	path string
}

func defaults() *Config {
	return &Config{
		Port:             "/dev/ttyUSB0",
		BaudRate:         921600,
		TimeoutMs:        2000,
		RegisterBackend:  "sim",
		RegisterBase:     0x80000000,
		RegisterSpan:     0x1000,
		BypassMask:       0x20000000,
		TransportBackend: "serial",
		UARTBase:         0x81000000,
		UARTClockHz:      50000000,
		FlashBackend:     "file",
		FlashPath:        "epcs.img",
		FlashSizeHex:     "400000",
		FPGAVersion:      0x00010000,
		NIOSVersion:      0x00010000,
		ChunkSize:        4096,
	}
}

// searchPaths mirrors the lookup order the teacher's config loader used:
// the current directory, an environment-variable override, then the
// user's home directory.
func searchPaths(filename string) []string {
	var paths []string
	paths = append(paths, filename)
	if home := os.Getenv("EPCSFW_HOME"); home != "" {
		paths = append(paths, filepath.Join(home, filename))
	}
	if hd, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(hd, filename))
	}
	return paths
}

// Load searches the standard locations for filename ("epcsd.ini" for
// epcsd, "epcsctl.ini" for epcsctl) and parses whichever is found first. If none exist, the
// defaults are returned unchanged.
func Load(filename string) (*Config, error) {
	cfg := defaults()

	for _, p := range searchPaths(filename) {
		if _, err := os.Stat(p); err != nil {
			continue
		}

		f, err := ini.Load(p)
		if err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", p, err)
		}

		sec := f.Section("")
		cfg.Port = sec.Key("port").MustString(cfg.Port)
		cfg.BaudRate = sec.Key("baud_rate").MustInt(cfg.BaudRate)
		cfg.TimeoutMs = sec.Key("timeout_ms").MustInt(cfg.TimeoutMs)
		cfg.FlashBackend = sec.Key("flash_backend").MustString(cfg.FlashBackend)
		cfg.FlashPath = sec.Key("flash_path").MustString(cfg.FlashPath)
		cfg.FlashSizeHex = sec.Key("flash_size_hex").MustString(cfg.FlashSizeHex)
		cfg.ChunkSize = sec.Key("chunk_size").MustInt(cfg.ChunkSize)
		cfg.RegSymFile = sec.Key("reg_sym_file").MustString(cfg.RegSymFile)
		cfg.RegisterBackend = sec.Key("register_backend").MustString(cfg.RegisterBackend)
		cfg.TransportBackend = sec.Key("transport_backend").MustString(cfg.TransportBackend)

		if v, err := sec.Key("register_base").Uint64(); err == nil {
			cfg.RegisterBase = uint32(v)
		}
		if v, err := sec.Key("register_span").Uint64(); err == nil {
			cfg.RegisterSpan = uint32(v)
		}
		if v, err := sec.Key("bypass_mask").Uint64(); err == nil {
			cfg.BypassMask = uint32(v)
		}
		if v, err := sec.Key("uart_base").Uint64(); err == nil {
			cfg.UARTBase = uint32(v)
		}
		if v, err := sec.Key("uart_clock_hz").Uint64(); err == nil {
			cfg.UARTClockHz = uint32(v)
		}
		if v, err := sec.Key("fpga_version").Uint64(); err == nil {
			cfg.FPGAVersion = uint32(v)
		}
		if v, err := sec.Key("nios_version").Uint64(); err == nil {
			cfg.NIOSVersion = uint32(v)
		}

		cfg.path = p
		return cfg, nil
	}

	return cfg, nil
}

// ConfigPath returns the file Load actually read, or "" if it fell back
// to defaults.
func (c *Config) ConfigPath() string {
	return c.path
}

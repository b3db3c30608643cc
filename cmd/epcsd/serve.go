package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/brightlattice/epcsfw/pkg/flash"
	"github.com/brightlattice/epcsfw/pkg/protocol"
	"github.com/brightlattice/epcsfw/pkg/register"
	"github.com/brightlattice/epcsfw/pkg/transport"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the command loop",
	Long: `serve performs the boot sequence (program the UART divisor if
using the memory-mapped transport, drain stale input) and then services
R, W, V, and F commands until the link is lost. It does not wait for the
transmitter to go idle before entering the command loop.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func buildTransport() (transport.Transport, error) {
	switch cfg.TransportBackend {
	case "serial":
		return transport.OpenSerial(cfg.Port, cfg.BaudRate, time.Duration(cfg.TimeoutMs)*time.Millisecond)
	case "tcp":
		return transport.DialTCP(cfg.Port)
	case "mmio":
		return openMMIO()
	default:
		return nil, fmt.Errorf("unknown transport backend %q", cfg.TransportBackend)
	}
}

func buildRegisters() (*register.Registers, error) {
	switch cfg.RegisterBackend {
	case "sim":
		return register.New(register.NewSimAccessor(cfg.RegisterSpan), cfg.RegisterSpan), nil
	case "mmap":
		return openMMapRegisters()
	default:
		return nil, fmt.Errorf("unknown register backend %q", cfg.RegisterBackend)
	}
}

func buildFlashEngine() (*flash.Engine, error) {
	size, err := strconv.ParseInt(cfg.FlashSizeHex, 16, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid flash_size_hex %q: %w", cfg.FlashSizeHex, err)
	}

	var dev flash.Device
	switch cfg.FlashBackend {
	case "file":
		dev, err = flash.NewFileDevice(cfg.FlashPath, size)
	case "mtd":
		dev, err = openMTDDevice(size)
	case "spi":
		return nil, fmt.Errorf("spi flash backend requires hardware-specific wiring not selectable from config alone")
	default:
		return nil, fmt.Errorf("unknown flash backend %q", cfg.FlashBackend)
	}
	if err != nil {
		return nil, err
	}
	return flash.NewEngine(dev), nil
}

func runServe() error {
	entry := log.WithField("component", "serve")

	tr, err := buildTransport()
	if err != nil {
		return fmt.Errorf("failed to open transport: %w", err)
	}
	defer tr.Close()
	entry.WithField("backend", cfg.TransportBackend).Info("transport ready")

	regs, err := buildRegisters()
	if err != nil {
		return fmt.Errorf("failed to open register window: %w", err)
	}
	entry.WithField("backend", cfg.RegisterBackend).Info("registers ready")

	engine, err := buildFlashEngine()
	if err != nil {
		return fmt.Errorf("failed to open flash device: %w", err)
	}
	entry.WithField("backend", cfg.FlashBackend).Info("flash engine ready")

	versions := protocol.Versions{FPGA: cfg.FPGAVersion, NIOS: cfg.NIOSVersion}
	srv := protocol.New(tr, regs, engine, versions, entry)

	entry.Info("entering command loop")
	return srv.Run()
}

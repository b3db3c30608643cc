//go:build linux

package main

import (
	"github.com/brightlattice/epcsfw/pkg/flash"
	"github.com/brightlattice/epcsfw/pkg/register"
	"github.com/brightlattice/epcsfw/pkg/transport"
)

func openMMapRegisters() (*register.Registers, error) {
	acc, err := register.NewMMapAccessor(cfg.RegisterBase|cfg.BypassMask, cfg.RegisterSpan)
	if err != nil {
		return nil, err
	}
	return register.New(acc, cfg.RegisterSpan), nil
}

func openMMIO() (transport.Transport, error) {
	return transport.OpenMMIO(cfg.UARTBase|cfg.BypassMask, cfg.UARTClockHz, uint32(cfg.BaudRate))
}

func openMTDDevice(size int64) (flash.Device, error) {
	return flash.OpenMTDDevice(cfg.FlashPath, size)
}

//go:build !linux

package main

import (
	"fmt"

	"github.com/brightlattice/epcsfw/pkg/flash"
	"github.com/brightlattice/epcsfw/pkg/register"
	"github.com/brightlattice/epcsfw/pkg/transport"
)

func openMMapRegisters() (*register.Registers, error) {
	return nil, fmt.Errorf("mmap register backend requires linux")
}

func openMMIO() (transport.Transport, error) {
	return nil, fmt.Errorf("mmio transport backend requires linux")
}

func openMTDDevice(size int64) (flash.Device, error) {
	return nil, fmt.Errorf("mtd flash backend requires linux")
}

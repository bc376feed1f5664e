//go:build tinygo

package mmio

import (
	"runtime/volatile"
	"unsafe"

	"github.com/mbalug7/go-hps-uart/pkg/hal"
)

func (Direct) Read32(addr hal.RegAddress) uint32 {
	return (*volatile.Register32)(unsafe.Pointer(uintptr(addr))).Get()
}

func (Direct) Write32(addr hal.RegAddress, value uint32) {
	(*volatile.Register32)(unsafe.Pointer(uintptr(addr))).Set(value)
}

//go:build !tinygo

package mmio

import (
	"sync/atomic"
	"unsafe"

	"github.com/mbalug7/go-hps-uart/pkg/hal"
)

// atomic loads and stores are never merged or elided by the compiler

func (Direct) Read32(addr hal.RegAddress) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(uintptr(addr))))
}

func (Direct) Write32(addr hal.RegAddress, value uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(uintptr(addr))), value)
}

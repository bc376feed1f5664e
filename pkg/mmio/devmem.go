//go:build linux

package mmio

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"github.com/mbalug7/go-hps-uart/pkg/hal"
	"golang.org/x/sys/unix"
)

const DevMemPath = "/dev/mem"

// DevMem maps a window of physical memory through /dev/mem, so registers can be
// driven from Linux user space. Addresses passed to Read32 and Write32 are physical.
type DevMem struct {
	file     *os.File
	mem      []byte
	pageBase hal.RegAddress // physical address of mem[0]
}

// OpenDevMem maps at least size bytes starting at base. path is normally DevMemPath.
func OpenDevMem(path string, base hal.RegAddress, size int) (*DevMem, error) {
	pageSize := hal.RegAddress(os.Getpagesize())
	pageBase := base &^ (pageSize - 1)
	length := int(base-pageBase) + size
	length = (length + int(pageSize) - 1) &^ (int(pageSize) - 1)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	mem, err := unix.Mmap(int(f.Fd()), int64(pageBase), length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to mmap 0x%x bytes at 0x%x: %w", length, uintptr(pageBase), err)
	}
	return &DevMem{file: f, mem: mem, pageBase: pageBase}, nil
}

func (obj *DevMem) word(addr hal.RegAddress) *uint32 {
	if addr < obj.pageBase || addr&0x03 != 0 || int(addr-obj.pageBase)+4 > len(obj.mem) {
		panic(fmt.Sprintf("mmio: register 0x%x outside of mapped window", uintptr(addr)))
	}
	return (*uint32)(unsafe.Pointer(&obj.mem[addr-obj.pageBase]))
}

func (obj *DevMem) Read32(addr hal.RegAddress) uint32 {
	return atomic.LoadUint32(obj.word(addr))
}

func (obj *DevMem) Write32(addr hal.RegAddress, value uint32) {
	atomic.StoreUint32(obj.word(addr), value)
}

func (obj *DevMem) Close() (err error) {
	err = unix.Munmap(obj.mem)
	if err != nil {
		return fmt.Errorf("failed to unmap register window: %w", err)
	}
	err = obj.file.Close()
	if err != nil {
		return fmt.Errorf("failed to close %s: %w", obj.file.Name(), err)
	}
	return nil
}

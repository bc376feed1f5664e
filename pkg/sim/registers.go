// Package sim provides a simulated register backing store for drivers written against hal.Bus.
package sim

import (
	"sync"

	"github.com/mbalug7/go-hps-uart/pkg/hal"
)

// Access is one recorded register write.
type Access struct {
	Addr  hal.RegAddress
	Value uint32
}

// Registers is a hal.Bus backed by a map. Unwritten registers read as zero.
type Registers struct {
	mu       sync.Mutex
	values   map[hal.RegAddress]uint32
	scripted map[hal.RegAddress][]uint32 // values returned by the next reads, in order
	reads    map[hal.RegAddress]int
	writes   []Access
	onWrite  map[hal.RegAddress]func(value uint32)
	onRead   map[hal.RegAddress]func() uint32
}

func NewRegisters() *Registers {
	return &Registers{
		values:   make(map[hal.RegAddress]uint32),
		scripted: make(map[hal.RegAddress][]uint32),
		reads:    make(map[hal.RegAddress]int),
		onWrite:  make(map[hal.RegAddress]func(uint32)),
		onRead:   make(map[hal.RegAddress]func() uint32),
	}
}

// Read32 returns, in order of precedence, the next scripted value for addr,
// the result of its read hook, or the stored value.
func (obj *Registers) Read32(addr hal.RegAddress) uint32 {
	obj.mu.Lock()
	obj.reads[addr]++
	if queue := obj.scripted[addr]; len(queue) > 0 {
		obj.scripted[addr] = queue[1:]
		obj.mu.Unlock()
		return queue[0]
	}
	hook := obj.onRead[addr]
	value := obj.values[addr]
	obj.mu.Unlock()

	if hook != nil {
		return hook()
	}
	return value
}

// Write32 stores value, records the access and runs the write hook of addr, if any.
func (obj *Registers) Write32(addr hal.RegAddress, value uint32) {
	obj.mu.Lock()
	obj.values[addr] = value
	obj.writes = append(obj.writes, Access{Addr: addr, Value: value})
	hook := obj.onWrite[addr]
	obj.mu.Unlock()

	if hook != nil {
		hook(value)
	}
}

// Set stores value without recording a write.
func (obj *Registers) Set(addr hal.RegAddress, value uint32) {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	obj.values[addr] = value
}

// Script queues values to be returned by the next reads of addr.
// Once the queue is drained, reads fall back to the stored value.
func (obj *Registers) Script(addr hal.RegAddress, values ...uint32) {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	obj.scripted[addr] = append(obj.scripted[addr], values...)
}

// OnWrite registers fn to be called after every write to addr.
func (obj *Registers) OnWrite(addr hal.RegAddress, fn func(value uint32)) {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	obj.onWrite[addr] = fn
}

// OnRead makes reads of addr return fn(). fn may access other registers of obj.
func (obj *Registers) OnRead(addr hal.RegAddress, fn func() uint32) {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	obj.onRead[addr] = fn
}

// Reads returns how many times addr was read.
func (obj *Registers) Reads(addr hal.RegAddress) int {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	return obj.reads[addr]
}

// Writes returns all recorded writes in order.
func (obj *Registers) Writes() []Access {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	return append([]Access(nil), obj.writes...)
}

// WritesTo returns the values written to addr, in order.
func (obj *Registers) WritesTo(addr hal.RegAddress) []uint32 {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	var values []uint32
	for _, w := range obj.writes {
		if w.Addr == addr {
			values = append(values, w.Value)
		}
	}
	return values
}

// ResetLog clears the write log and read counters. Stored values are kept.
func (obj *Registers) ResetLog() {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	obj.writes = nil
	obj.reads = make(map[hal.RegAddress]int)
}

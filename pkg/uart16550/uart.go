// Package uart16550 is a polled transmit driver for the 16550 compatible UARTs of the Cyclone V HPS.
//
// Every wait in this package spins on a status register with no timeout:
// a UART that never reports ready blocks the caller forever.
package uart16550

import "github.com/mbalug7/go-hps-uart/pkg/hal"

// Mode selects how LSR bit 5 has to be read.
type Mode int

const (
	// ModeLegacy: bit 5 set means the holding register (or FIFO) is empty.
	ModeLegacy Mode = iota
	// ModeFIFOThreshold: FIFO and TX threshold both enabled, bit 5 set means the FIFO is full.
	ModeFIFOThreshold
)

func (m Mode) String() string {
	switch m {
	case ModeLegacy:
		return "legacy"
	case ModeFIFOThreshold:
		return "fifo-threshold"
	}
	return "unknown"
}

// UART identifies one UART instance by its register base. It holds no other state,
// every decision is taken on a fresh register read.
type UART struct {
	bus  hal.Bus
	base hal.RegAddress
}

func New(bus hal.Bus, base hal.RegAddress) UART {
	return UART{bus: bus, base: base}
}

func (obj UART) Base() hal.RegAddress {
	return obj.base
}

// IsFifoThresholdMode reports whether both the FIFO and the TX empty threshold are enabled.
// A half configured UART (only one of them set) is treated as legacy.
func (obj UART) IsFifoThresholdMode() bool {
	fifo := obj.bus.Read32(obj.base+SFE)&0x01 != 0
	threshold := obj.bus.Read32(obj.base+STET)&0x03 != 0
	return fifo && threshold
}

func (obj UART) Mode() Mode {
	if obj.IsFifoThresholdMode() {
		return ModeFIFOThreshold
	}
	return ModeLegacy
}

func (obj UART) LineStatus() LineStatus {
	return LineStatus(obj.bus.Read32(obj.base + LSR))
}

// ReadyToSend decides from a line status whether the UART can take another byte.
// The same bit is read with opposite polarity in the two modes.
func ReadyToSend(status LineStatus, mode Mode) bool {
	if mode == ModeFIFOThreshold {
		return !status.THRE()
	}
	return status.THRE()
}

// IsReadyToSend reads LSR once and applies ReadyToSend for mode.
func (obj UART) IsReadyToSend(mode Mode) bool {
	return ReadyToSend(obj.LineStatus(), mode)
}

func (obj UART) waitReadyToSend(mode Mode) {
	for !obj.IsReadyToSend(mode) {
		// spin until the transmit buffer has room
	}
}

// WriteChar detects the mode, waits for room and writes c to the holding register.
func (obj UART) WriteChar(c byte) {
	mode := obj.Mode()
	obj.waitReadyToSend(mode)
	obj.bus.Write32(obj.base+RBR_THR_DLL, uint32(c))
}

// WriteBytes writes data one byte at a time, in order. The mode is detected once per call.
// It returns when the last byte has been accepted by the UART, not when it left the wire;
// use FlushAndWaitEmpty for that.
func (obj UART) WriteBytes(data []byte) {
	if len(data) == 0 {
		return
	}
	mode := obj.Mode()
	for _, c := range data {
		// holding register takes exactly one byte per write, even in FIFO mode
		obj.waitReadyToSend(mode)
		obj.bus.Write32(obj.base+RBR_THR_DLL, uint32(c))
	}
}

func (obj UART) WriteString(s string) {
	obj.WriteBytes([]byte(s))
}

// FlushAndWaitEmpty blocks until the transmitter is fully idle (LSR bit 6).
// Call it before reconfiguring a UART that may still be sending.
func (obj UART) FlushAndWaitEmpty() {
	for !obj.LineStatus().TxIdle() {
		// spin until the shift register drained
	}
}

// Setup configures the UART for 115200 8N1 with FIFO and explicit trigger levels, then enables it.
func (obj UART) Setup() UART {
	return obj.Configure(DefaultConfig())
}

// Configure writes the setup sequence for cfg. cfg is expected to come from ConfigBuilder.Build
// or DefaultConfig; register writes cannot fail.
func (obj UART) Configure(cfg Config) UART {
	for _, reg := range cfg.setupSequence() {
		hal.WriteRegister(obj.bus, obj.base, reg)
	}
	return obj
}

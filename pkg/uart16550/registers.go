package uart16550

import "github.com/mbalug7/go-hps-uart/pkg/hal"

// Cyclone V HPS UART instances (Synopsys DesignWare APB UART, 16550 compatible).
const (
	UART0_BASE hal.RegAddress = 0xFFC02000
	UART1_BASE hal.RegAddress = 0xFFC03000

	// DEFAULT_CLOCK_HZ is the l4_sp_clk rate the UARTs are clocked from after the preloader.
	DEFAULT_CLOCK_HZ uint32 = 100000000
)

// Register offsets from the UART base. Registers are 32 bits wide, 4 bytes apart.
const (
	RBR_THR_DLL hal.RegAddress = 0x00 // receive buffer / transmit holding / divisor latch low
	IER_DLH     hal.RegAddress = 0x04 // interrupt enable / divisor latch high
	IIR_FCR     hal.RegAddress = 0x08
	LCR         hal.RegAddress = 0x0C
	MCR         hal.RegAddress = 0x10
	LSR         hal.RegAddress = 0x14
	MSR         hal.RegAddress = 0x18
	SCR         hal.RegAddress = 0x1C
	USR         hal.RegAddress = 0x7C
	TFL         hal.RegAddress = 0x80
	RFL         hal.RegAddress = 0x84
	SRR         hal.RegAddress = 0x88
	SFE         hal.RegAddress = 0x98 // shadow FIFO enable
	SRT         hal.RegAddress = 0x9C // shadow RX trigger
	STET        hal.RegAddress = 0xA0 // shadow TX empty trigger
)

// LSR register

type LineStatus uint32

const (
	LSR_DR   LineStatus = 0x01 // data ready
	LSR_OE   LineStatus = 0x02
	LSR_PE   LineStatus = 0x04
	LSR_FE   LineStatus = 0x08
	LSR_BI   LineStatus = 0x10
	LSR_THRE LineStatus = 0x20 // bit 5, meaning depends on Mode
	LSR_TEMT LineStatus = 0x40 // bit 6, transmitter empty
	LSR_RFE  LineStatus = 0x80
)

// THRE reports bit 5. In legacy mode it is set when the holding register is empty.
// With FIFO and threshold enabled the same bit is set while the TX FIFO is full.
func (s LineStatus) THRE() bool {
	return s&LSR_THRE != 0
}

// TxIdle reports bit 6: FIFO, holding register and shift register are all empty.
func (s LineStatus) TxIdle() bool {
	return s&LSR_TEMT != 0
}

// LCR register

type DataBits uint8

const (
	DATA_BITS_5 DataBits = 0x00
	DATA_BITS_6 DataBits = 0x01
	DATA_BITS_7 DataBits = 0x02
	DATA_BITS_8 DataBits = 0x03
)

// Count returns the number of data bits per character.
func (d DataBits) Count() int {
	return int(d&0x03) + 5
}

type StopBits uint8

const (
	STOP_BITS_1 StopBits = 0x00
	STOP_BITS_2 StopBits = 0x04 // 1.5 stop bits when DATA_BITS_5
)

type Parity uint8

const (
	PARITY_NONE Parity = 0x00
	PARITY_ODD  Parity = 0x08
	PARITY_EVEN Parity = 0x18
)

const lcrDLAB = 0x80

type LineControl struct {
	dataBits DataBits
	stopBits StopBits
	parity   Parity
	dlab     bool // divisor latch access
}

func (obj *LineControl) GetAddress() hal.RegAddress {
	return LCR
}

func (obj *LineControl) GetValue() uint32 {
	value := uint32(obj.dataBits) | uint32(obj.stopBits) | uint32(obj.parity)
	if obj.dlab {
		value |= lcrDLAB
	}
	return value
}

func (obj *LineControl) SetValue(value uint32) {
	obj.dataBits = DataBits(value & 0x03)
	obj.stopBits = StopBits(value & 0x04)
	obj.parity = Parity(value & 0x18)
	obj.dlab = value&lcrDLAB != 0
}

// DLAB reports whether offsets 0x00 and 0x04 address the divisor latch instead of THR and IER.
func (obj *LineControl) DLAB() bool {
	return obj.dlab
}

// DLL / DLH registers, reachable only while LCR.DLAB is set

type divisorLatchLow struct {
	divisor uint16
}

func (obj *divisorLatchLow) GetAddress() hal.RegAddress {
	return RBR_THR_DLL
}

func (obj *divisorLatchLow) GetValue() uint32 {
	return uint32(obj.divisor & 0xFF)
}

func (obj *divisorLatchLow) SetValue(value uint32) {
	obj.divisor = obj.divisor&0xFF00 | uint16(value&0xFF)
}

type divisorLatchHigh struct {
	divisor uint16
}

func (obj *divisorLatchHigh) GetAddress() hal.RegAddress {
	return IER_DLH
}

func (obj *divisorLatchHigh) GetValue() uint32 {
	return uint32(obj.divisor >> 8)
}

func (obj *divisorLatchHigh) SetValue(value uint32) {
	obj.divisor = obj.divisor&0x00FF | uint16(value&0xFF)<<8
}

// SFE register

type ShadowFifoEnable struct {
	enabled bool
}

func (obj *ShadowFifoEnable) GetAddress() hal.RegAddress {
	return SFE
}

func (obj *ShadowFifoEnable) GetValue() uint32 {
	if obj.enabled {
		return 1
	}
	return 0
}

func (obj *ShadowFifoEnable) SetValue(value uint32) {
	obj.enabled = value&0x01 != 0
}

// SRT register

type RxTrigger uint8

const (
	RX_TRIGGER_ONE_CHAR           RxTrigger = 0x00
	RX_TRIGGER_QUARTER_FULL       RxTrigger = 0x01
	RX_TRIGGER_HALF_FULL          RxTrigger = 0x02
	RX_TRIGGER_TWO_LESS_THAN_FULL RxTrigger = 0x03
)

type ShadowRxTrigger struct {
	level RxTrigger
}

func (obj *ShadowRxTrigger) GetAddress() hal.RegAddress {
	return SRT
}

func (obj *ShadowRxTrigger) GetValue() uint32 {
	return uint32(obj.level)
}

func (obj *ShadowRxTrigger) SetValue(value uint32) {
	obj.level = RxTrigger(value & 0x03)
}

// STET register. Any non-zero level enables the programmable THRE mode.

type TxTrigger uint8

const (
	TX_TRIGGER_EMPTY        TxTrigger = 0x00
	TX_TRIGGER_TWO_CHARS    TxTrigger = 0x01
	TX_TRIGGER_QUARTER_FULL TxTrigger = 0x02
	TX_TRIGGER_HALF_FULL    TxTrigger = 0x03
)

type ShadowTxEmptyTrigger struct {
	level TxTrigger
}

func (obj *ShadowTxEmptyTrigger) GetAddress() hal.RegAddress {
	return STET
}

func (obj *ShadowTxEmptyTrigger) GetValue() uint32 {
	return uint32(obj.level)
}

func (obj *ShadowTxEmptyTrigger) SetValue(value uint32) {
	obj.level = TxTrigger(value & 0x03)
}

// IER register, only the polled (all disabled) setting is used

type InterruptEnable struct {
	value uint8
}

func (obj *InterruptEnable) GetAddress() hal.RegAddress {
	return IER_DLH
}

func (obj *InterruptEnable) GetValue() uint32 {
	return uint32(obj.value)
}

func (obj *InterruptEnable) SetValue(value uint32) {
	obj.value = uint8(value & 0x8F)
}

// MCR register

const (
	mcrDTR = 0x01
	mcrRTS = 0x02
)

type ModemControl struct {
	dtr bool
	rts bool
}

func (obj *ModemControl) GetAddress() hal.RegAddress {
	return MCR
}

func (obj *ModemControl) GetValue() uint32 {
	var value uint32
	if obj.dtr {
		value |= mcrDTR
	}
	if obj.rts {
		value |= mcrRTS
	}
	return value
}

func (obj *ModemControl) SetValue(value uint32) {
	obj.dtr = value&mcrDTR != 0
	obj.rts = value&mcrRTS != 0
}

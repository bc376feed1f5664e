package uart16550

import (
	"fmt"

	"github.com/mbalug7/go-hps-uart/pkg/hal"
)

type BaudRate int

const (
	BAUD_1200   BaudRate = 1200
	BAUD_2400   BaudRate = 2400
	BAUD_4800   BaudRate = 4800
	BAUD_9600   BaudRate = 9600
	BAUD_19200  BaudRate = 19200
	BAUD_38400  BaudRate = 38400
	BAUD_57600  BaudRate = 57600
	BAUD_115200 BaudRate = 115200
)

var supportedBaudRates = map[BaudRate]bool{
	BAUD_1200:   true,
	BAUD_2400:   true,
	BAUD_4800:   true,
	BAUD_9600:   true,
	BAUD_19200:  true,
	BAUD_38400:  true,
	BAUD_57600:  true,
	BAUD_115200: true,
}

// Config is the one-time line and FIFO setup of a UART.
type Config struct {
	DataBits  DataBits
	StopBits  StopBits
	Parity    Parity
	Baud      BaudRate
	RxTrigger RxTrigger
	TxTrigger TxTrigger
	ClockHz   uint32 // UART input clock
}

// DefaultConfig is 115200 8N1, RX trigger at half full and TX trigger at quarter full.
// The TX trigger is required: the HPS UART misbehaves in FIFO mode without an explicit level.
func DefaultConfig() Config {
	return Config{
		DataBits:  DATA_BITS_8,
		StopBits:  STOP_BITS_1,
		Parity:    PARITY_NONE,
		Baud:      BAUD_115200,
		RxTrigger: RX_TRIGGER_HALF_FULL,
		TxTrigger: TX_TRIGGER_QUARTER_FULL,
		ClockHz:   DEFAULT_CLOCK_HZ,
	}
}

// Divisor returns the baud divisor, ClockHz / (16 * Baud) rounded to nearest.
func (c Config) Divisor() uint32 {
	if c.Baud <= 0 {
		return 0
	}
	den := 16 * uint64(c.Baud)
	return uint32((uint64(c.ClockHz) + den/2) / den)
}

func (c Config) validate() error {
	if c.DataBits&^0x03 != 0 {
		return fmt.Errorf("unsupported data bits value: 0x%02x", uint8(c.DataBits))
	}
	if c.StopBits != STOP_BITS_1 && c.StopBits != STOP_BITS_2 {
		return fmt.Errorf("unsupported stop bits value: 0x%02x", uint8(c.StopBits))
	}
	if c.Parity != PARITY_NONE && c.Parity != PARITY_ODD && c.Parity != PARITY_EVEN {
		return fmt.Errorf("unsupported parity value: 0x%02x", uint8(c.Parity))
	}
	if !supportedBaudRates[c.Baud] {
		return fmt.Errorf("unsupported baud rate: %d", c.Baud)
	}
	if c.RxTrigger&^0x03 != 0 || c.TxTrigger&^0x03 != 0 {
		return fmt.Errorf("invalid FIFO trigger level")
	}
	div := c.Divisor()
	if div == 0 || div > 0xFFFF {
		return fmt.Errorf("baud rate %d can't be derived from a %d Hz clock", c.Baud, c.ClockHz)
	}
	return nil
}

// setupSequence returns the registers to write, in order: line format, baud divisor,
// FIFO enable, RX and TX triggers, then enable (polled, DTR and RTS asserted).
func (c Config) setupSequence() []hal.Register {
	div := uint16(c.Divisor())
	return []hal.Register{
		&LineControl{dataBits: c.DataBits, stopBits: c.StopBits, parity: c.Parity},
		&LineControl{dataBits: c.DataBits, stopBits: c.StopBits, parity: c.Parity, dlab: true},
		&divisorLatchLow{divisor: div},
		&divisorLatchHigh{divisor: div},
		&LineControl{dataBits: c.DataBits, stopBits: c.StopBits, parity: c.Parity},
		&ShadowFifoEnable{enabled: true},
		&ShadowRxTrigger{level: c.RxTrigger},
		&ShadowTxEmptyTrigger{level: c.TxTrigger},
		&InterruptEnable{},
		&ModemControl{dtr: true, rts: true},
	}
}

// ConfigBuilder builds a UART setup. Parameters that are not set keep the DefaultConfig value.
type ConfigBuilder struct {
	uart   UART
	staged Config
}

// NewConfigBuilder constructs ConfigBuilder
func NewConfigBuilder(uart UART) *ConfigBuilder {
	return &ConfigBuilder{
		uart:   uart,
		staged: DefaultConfig(),
	}
}

// LCR params
// DataBits sets the character size
func (obj *ConfigBuilder) DataBits(bits DataBits) *ConfigBuilder {
	obj.staged.DataBits = bits
	return obj
}

// StopBits sets the number of stop bits
func (obj *ConfigBuilder) StopBits(bits StopBits) *ConfigBuilder {
	obj.staged.StopBits = bits
	return obj
}

// Parity sets the parity mode
func (obj *ConfigBuilder) Parity(p Parity) *ConfigBuilder {
	obj.staged.Parity = p
	return obj
}

// BaudRate sets one of the standard baud rates
func (obj *ConfigBuilder) BaudRate(br BaudRate) *ConfigBuilder {
	obj.staged.Baud = br
	return obj
}

// InputClock sets the UART reference clock used for the divisor calculation
func (obj *ConfigBuilder) InputClock(hz uint32) *ConfigBuilder {
	obj.staged.ClockHz = hz
	return obj
}

// FIFO params
func (obj *ConfigBuilder) RxTrigger(level RxTrigger) *ConfigBuilder {
	obj.staged.RxTrigger = level
	return obj
}

func (obj *ConfigBuilder) TxTrigger(level TxTrigger) *ConfigBuilder {
	obj.staged.TxTrigger = level
	return obj
}

// Build validates the staged parameters
func (obj *ConfigBuilder) Build() (Config, error) {
	err := obj.staged.validate()
	if err != nil {
		return Config{}, fmt.Errorf("invalid UART config: %w", err)
	}
	return obj.staged, nil
}

// Apply validates the staged parameters and runs the setup sequence on the UART
func (obj *ConfigBuilder) Apply() (UART, error) {
	cfg, err := obj.Build()
	if err != nil {
		return obj.uart, err
	}
	return obj.uart.Configure(cfg), nil
}

// Package host opens the board's UART console from a development machine,
// through a USB to serial adapter, with the same line setup the driver programs.
package host

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tarm/serial"

	"github.com/mbalug7/go-hps-uart/pkg/uart16550"
)

var serialParityMap = map[uart16550.Parity]serial.Parity{
	uart16550.PARITY_NONE: serial.ParityNone,
	uart16550.PARITY_ODD:  serial.ParityOdd,
	uart16550.PARITY_EVEN: serial.ParityEven,
}

const readTimeout = 500 * time.Millisecond

// SerialConfig translates a UART setup into the port settings of tty.
func SerialConfig(tty string, cfg uart16550.Config) (*serial.Config, error) {
	parity, ok := serialParityMap[cfg.Parity]
	if !ok {
		return nil, fmt.Errorf("unsupported parity: 0x%02x", uint8(cfg.Parity))
	}
	stopBits := serial.Stop1
	if cfg.StopBits == uart16550.STOP_BITS_2 {
		stopBits = serial.Stop2
		if cfg.DataBits == uart16550.DATA_BITS_5 {
			stopBits = serial.Stop1Half
		}
	}
	return &serial.Config{
		Name:        tty,
		Baud:        int(cfg.Baud),
		Size:        byte(cfg.DataBits.Count()),
		Parity:      parity,
		StopBits:    stopBits,
		ReadTimeout: readTimeout,
	}, nil
}

// Console is the board console seen from the host.
type Console struct {
	tty  string
	port *serial.Port
	muWr sync.Mutex // keep writes from different goroutines whole
}

func OpenConsole(tty string, cfg uart16550.Config) (*Console, error) {
	config, err := SerialConfig(tty, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build serial port config: %w", err)
	}
	port, err := serial.OpenPort(config)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port, err: %w", err)
	}
	return &Console{tty: tty, port: port}, nil
}

func (obj *Console) Write(p []byte) (int, error) {
	obj.muWr.Lock()
	defer obj.muWr.Unlock()
	n, err := obj.port.Write(p)
	if err != nil {
		return n, fmt.Errorf("failed to send data, err: %w", err)
	}
	return n, nil
}

// Monitor copies everything the board sends to out until stop is closed or reading fails.
func (obj *Console) Monitor(out io.Writer, stop <-chan struct{}) error {
	return monitor(obj.port, out, stop)
}

func monitor(in io.Reader, out io.Writer, stop <-chan struct{}) error {
	buf := make([]byte, 512)
	for {
		select {
		case <-stop:
			return nil
		default:
		}
		n, err := in.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return fmt.Errorf("failed to forward console data: %w", werr)
			}
		}
		if err != nil {
			// read timeout with nothing received
			if errors.Is(err, io.EOF) {
				continue
			}
			return fmt.Errorf("failed to receive data: %w", err)
		}
	}
}

func (obj *Console) Close() error {
	err := obj.port.Close()
	if err != nil {
		return fmt.Errorf("failed to close serial stream %s: %w", obj.tty, err)
	}
	return nil
}

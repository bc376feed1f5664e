// Hello world on HPS UART0 of a Cyclone V SoC board (DE10-Nano, DE1-SoC, SoCKit ...),
// driven from Linux user space through /dev/mem.
package main

import (
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mbalug7/go-hps-uart/pkg/hal"
	"github.com/mbalug7/go-hps-uart/pkg/logger"
	"github.com/mbalug7/go-hps-uart/pkg/mmio"
	"github.com/mbalug7/go-hps-uart/pkg/retarget"
	"github.com/mbalug7/go-hps-uart/pkg/uart16550"
)

const (
	consoleUART = uart16550.UART0_BASE
	// HPS_LED, GPIO53: line 24 of the second HPS GPIO controller
	ledChip   = "gpiochip1"
	ledOffset = 24
)

func main() {
	mem, err := mmio.OpenDevMem(mmio.DevMemPath, consoleUART, 0x100)
	if err != nil {
		log.Fatal(err)
	}

	uart := uart16550.New(mem, consoleUART)
	var console io.Writer = uart16550.NewWriter(uart)

	led, err := hal.NewGPIOActivityLine(ledChip, ledOffset, false)
	if err != nil {
		log.Printf("activity LED not available: %s", err)
	} else {
		console = &hal.ActivityWriter{W: console, Indicator: led}
	}

	// printf-style output goes to the UART through the stubs, stdout only
	stubs := retarget.NewStubs(console)
	debug := logger.New(stubs.File(retarget.STDOUT_FILENO), logger.CONSOLE_UART)

	debug.Print("Setting up UART")
	// earlier output (boot loader, the debug line above) may still be shifting out
	uart.FlushAndWaitEmpty()
	uart = uart.Setup()
	uart.WriteString("Hello, World!\r\n")

	debug.Print("Waiting for interrupt")
	signalInterruptChan := make(chan os.Signal, 1)
	signal.Notify(signalInterruptChan, os.Interrupt, syscall.SIGTERM)
	<-signalInterruptChan

	uart.FlushAndWaitEmpty()
	if led != nil {
		err = led.Close()
		if err != nil {
			log.Printf("failed to release activity LED: %s", err)
		}
	}
	err = mem.Close()
	if err != nil {
		log.Printf("failed to close register window: %s", err)
	}
}

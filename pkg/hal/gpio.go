package hal

import (
	"fmt"

	"github.com/warthog618/gpiod"
)

// GPIOActivityLine is an ActivityIndicator on a Linux GPIO character device line.
type GPIOActivityLine struct {
	chip      *gpiod.Chip
	line      *gpiod.Line
	activeLow bool
}

// NewGPIOActivityLine requests offset on gpioChip (e.g. "gpiochip0") as an output, initially inactive.
func NewGPIOActivityLine(gpioChip string, offset int, activeLow bool) (*GPIOActivityLine, error) {
	c, err := gpiod.NewChip(gpioChip, gpiod.WithConsumer("hps-uart"))
	if err != nil {
		return nil, fmt.Errorf("failed to create GPIO chip: %w", err)
	}
	obj := &GPIOActivityLine{chip: c, activeLow: activeLow}
	obj.line, err = c.RequestLine(offset, gpiod.AsOutput(obj.level(false)))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to request activity GPIO line: %w", err)
	}
	return obj, nil
}

func (obj *GPIOActivityLine) level(active bool) int {
	if active != obj.activeLow {
		return 1
	}
	return 0
}

func (obj *GPIOActivityLine) SetActive(active bool) error {
	err := obj.line.SetValue(obj.level(active))
	if err != nil {
		return fmt.Errorf("failed to set activity line value: %w", err)
	}
	return nil
}

func (obj *GPIOActivityLine) Close() (err error) {
	err = obj.line.Close()
	if err != nil {
		return fmt.Errorf("failed to close activity line: %w", err)
	}
	err = obj.chip.Close()
	if err != nil {
		return fmt.Errorf("failed to close GPIO chip: %w", err)
	}
	return nil
}

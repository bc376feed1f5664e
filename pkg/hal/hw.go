package hal

import (
	"fmt"
	"io"
	"sync"
)

// Bus gives word access to memory mapped registers.
// Register accesses are fire-and-forget: there is no error path on the hardware side.
type Bus interface {
	Read32(addr RegAddress) uint32
	Write32(addr RegAddress, value uint32)
}

// ActivityIndicator is an output (usually a LED) that shows when the transmitter is busy.
type ActivityIndicator interface {
	SetActive(active bool) error
	Close() error
}

// ActivityWriter forwards writes to W and holds Indicator active while a write is in progress.
type ActivityWriter struct {
	W         io.Writer
	Indicator ActivityIndicator
	mu        sync.Mutex // indicator state must follow the writes in order
}

func (obj *ActivityWriter) Write(p []byte) (int, error) {
	obj.mu.Lock()
	defer obj.mu.Unlock()

	if obj.Indicator == nil {
		return obj.W.Write(p)
	}
	err := obj.Indicator.SetActive(true)
	if err != nil {
		return 0, fmt.Errorf("failed to set activity indicator: %w", err)
	}
	n, werr := obj.W.Write(p)
	err = obj.Indicator.SetActive(false)
	if werr != nil {
		return n, werr
	}
	if err != nil {
		return n, fmt.Errorf("failed to clear activity indicator: %w", err)
	}
	return n, nil
}

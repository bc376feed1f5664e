package uart16550

import "sync"

// Writer is an io.Writer on a UART. Each Write is sent as a whole:
// concurrent producers can't interleave bytes of two writes.
type Writer struct {
	uart UART
	mu   sync.Mutex
}

func NewWriter(uart UART) *Writer {
	return &Writer{uart: uart}
}

func (obj *Writer) Write(p []byte) (int, error) {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	obj.uart.WriteBytes(p)
	return len(p), nil
}

func (obj *Writer) WriteString(s string) (int, error) {
	return obj.Write([]byte(s))
}

// Flush waits until everything written so far left the transmitter.
func (obj *Writer) Flush() error {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	obj.uart.FlushAndWaitEmpty()
	return nil
}

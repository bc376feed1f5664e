package uart16550

import (
	"bytes"
	"reflect"
	"testing"

	random "github.com/mazen160/go-random"

	"github.com/mbalug7/go-hps-uart/pkg/sim"
)

const testBase = UART0_BASE

func newTestUART() (*sim.Registers, UART) {
	regs := sim.NewRegisters()
	return regs, New(regs, testBase)
}

func setFifoThreshold(regs *sim.Registers) {
	regs.Set(testBase+SFE, 0x01)
	regs.Set(testBase+STET, uint32(TX_TRIGGER_QUARTER_FULL))
}

func transmitted(regs *sim.Registers) []byte {
	var out []byte
	for _, v := range regs.WritesTo(testBase + RBR_THR_DLL) {
		out = append(out, byte(v))
	}
	return out
}

func TestIsFifoThresholdMode(t *testing.T) {
	tests := []struct {
		name     string
		sfe      uint32
		stet     uint32
		fifoMode bool
		wantMode Mode
	}{
		{name: "fifo and threshold off", sfe: 0, stet: 0, fifoMode: false, wantMode: ModeLegacy},
		{name: "only fifo enabled", sfe: 1, stet: 0, fifoMode: false, wantMode: ModeLegacy},
		{name: "only threshold enabled", sfe: 0, stet: 2, fifoMode: false, wantMode: ModeLegacy},
		{name: "fifo and threshold enabled", sfe: 1, stet: 2, fifoMode: true, wantMode: ModeFIFOThreshold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			regs, u := newTestUART()
			regs.Set(testBase+SFE, tt.sfe)
			regs.Set(testBase+STET, tt.stet)

			if got := u.IsFifoThresholdMode(); got != tt.fifoMode {
				t.Errorf("IsFifoThresholdMode() = %v, want %v", got, tt.fifoMode)
			}
			if got := u.Mode(); got != tt.wantMode {
				t.Errorf("Mode() = %v, want %v", got, tt.wantMode)
			}
		})
	}
}

func TestReadyToSendPolarity(t *testing.T) {
	tests := []struct {
		name   string
		lsr    LineStatus
		mode   Mode
		expect bool
	}{
		{name: "bit 5 set, fifo threshold", lsr: LSR_THRE, mode: ModeFIFOThreshold, expect: false},
		{name: "bit 5 set, legacy", lsr: LSR_THRE, mode: ModeLegacy, expect: true},
		{name: "bit 5 clear, fifo threshold", lsr: 0, mode: ModeFIFOThreshold, expect: true},
		{name: "bit 5 clear, legacy", lsr: 0, mode: ModeLegacy, expect: false},
		{name: "idle bit ignored, legacy", lsr: LSR_TEMT, mode: ModeLegacy, expect: false},
		{name: "idle bit ignored, fifo threshold", lsr: LSR_TEMT | LSR_THRE, mode: ModeFIFOThreshold, expect: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReadyToSend(tt.lsr, tt.mode); got != tt.expect {
				t.Errorf("ReadyToSend(0x%02x, %v) = %v, want %v", uint32(tt.lsr), tt.mode, got, tt.expect)
			}

			regs, u := newTestUART()
			regs.Set(testBase+LSR, uint32(tt.lsr))
			if got := u.IsReadyToSend(tt.mode); got != tt.expect {
				t.Errorf("IsReadyToSend(%v) = %v, want %v", tt.mode, got, tt.expect)
			}
			if n := regs.Reads(testBase + LSR); n != 1 {
				t.Errorf("LSR read %d times, want 1", n)
			}
		})
	}
}

func TestWriteBytesRoundTrip(t *testing.T) {
	allBytes := make([]byte, 256)
	for i := range allBytes {
		allBytes[i] = byte(i)
	}
	payloads := [][]byte{nil, {}, {0x00}, []byte("A"), allBytes}
	for n := 1; n <= 64; n++ {
		s, err := random.String(n)
		if err != nil {
			t.Fatalf("failed to generate random payload: %s", err)
		}
		payloads = append(payloads, []byte(s))
	}

	modes := map[Mode]func(*sim.Registers){
		ModeLegacy: func(regs *sim.Registers) {
			regs.Set(testBase+LSR, uint32(LSR_THRE|LSR_TEMT))
		},
		ModeFIFOThreshold: func(regs *sim.Registers) {
			setFifoThreshold(regs)
			regs.Set(testBase+LSR, uint32(LSR_TEMT))
		},
	}

	for mode, prepare := range modes {
		for _, payload := range payloads {
			regs, u := newTestUART()
			prepare(regs)

			u.WriteBytes(payload)

			got := transmitted(regs)
			if !bytes.Equal(got, payload) {
				t.Fatalf("%v mode: transmitted %q, want %q", mode, got, payload)
			}
			if n := regs.Reads(testBase + LSR); n != len(payload) {
				t.Fatalf("%v mode: LSR read %d times for %d bytes", mode, n, len(payload))
			}
		}
	}
}

func TestHelloWorld(t *testing.T) {
	regs, u := newTestUART()
	u = u.Setup()
	regs.ResetLog()

	lsrReadsAtWrite := []int{}
	regs.OnWrite(testBase+RBR_THR_DLL, func(uint32) {
		lsrReadsAtWrite = append(lsrReadsAtWrite, regs.Reads(testBase+LSR))
	})

	msg := []byte("Hello, World!\r\n")
	if len(msg) != 15 {
		t.Fatalf("message length %d, want 15", len(msg))
	}
	u.WriteBytes(msg)

	if got := transmitted(regs); !bytes.Equal(got, msg) {
		t.Fatalf("transmitted %q, want %q", got, msg)
	}
	for i, n := range lsrReadsAtWrite {
		if n != i+1 {
			t.Fatalf("byte %d written after %d LSR reads, want %d", i, n, i+1)
		}
	}
	if n := regs.Reads(testBase + SFE); n != 1 {
		t.Errorf("mode detected %d times for one WriteBytes, want 1", n)
	}
}

func TestWriteBytesZeroLength(t *testing.T) {
	regs, u := newTestUART()

	u.WriteBytes(nil)
	u.WriteBytes([]byte{})
	u.WriteString("")

	if w := regs.Writes(); len(w) != 0 {
		t.Fatalf("zero length write produced register writes: %+v", w)
	}
	if n := regs.Reads(testBase + LSR); n != 0 {
		t.Fatalf("ready predicate consulted %d times", n)
	}
}

func TestWriteBytesWaitsForReady(t *testing.T) {
	tests := []struct {
		name    string
		fifo    bool
		stored  LineStatus
		script  []uint32
		expects int
	}{
		{name: "fifo threshold busy while bit 5 set", fifo: true, stored: 0, script: []uint32{0x20, 0x60, 0x00}, expects: 3},
		{name: "legacy busy while bit 5 clear", fifo: false, stored: LSR_THRE, script: []uint32{0x00, 0x40, 0x20}, expects: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			regs, u := newTestUART()
			if tt.fifo {
				setFifoThreshold(regs)
			}
			regs.Set(testBase+LSR, uint32(tt.stored))
			regs.Script(testBase+LSR, tt.script...)

			u.WriteBytes([]byte{'x'})

			if n := regs.Reads(testBase + LSR); n != tt.expects {
				t.Errorf("LSR read %d times, want %d", n, tt.expects)
			}
			if got := transmitted(regs); !bytes.Equal(got, []byte{'x'}) {
				t.Errorf("transmitted %q", got)
			}
		})
	}
}

func TestWriteCharDetectsModeOnEveryCall(t *testing.T) {
	regs, u := newTestUART()
	regs.Set(testBase+LSR, uint32(LSR_THRE))

	// legacy: bit 5 set means ready
	u.WriteChar('a')
	if n := regs.Reads(testBase + LSR); n != 1 {
		t.Fatalf("legacy WriteChar read LSR %d times, want 1", n)
	}

	// switched to fifo threshold: the same bit now means full
	setFifoThreshold(regs)
	regs.Script(testBase+LSR, uint32(LSR_THRE), uint32(LSR_THRE), 0)
	u.WriteChar('b')

	if n := regs.Reads(testBase + LSR); n != 4 {
		t.Fatalf("LSR read %d times in total, want 4", n)
	}
	if n := regs.Reads(testBase + SFE); n != 2 {
		t.Fatalf("mode detected %d times for two WriteChar calls, want 2", n)
	}
	if got := transmitted(regs); string(got) != "ab" {
		t.Fatalf("transmitted %q, want %q", got, "ab")
	}
}

func TestFlushAndWaitEmpty(t *testing.T) {
	regs, u := newTestUART()
	regs.Set(testBase+LSR, uint32(LSR_TEMT))
	// bit 5 flips both ways while bit 6 stays clear
	regs.Script(testBase+LSR, 0x20, 0x00, 0x21, 0x40)

	u.FlushAndWaitEmpty()

	if n := regs.Reads(testBase + LSR); n != 4 {
		t.Fatalf("FlushAndWaitEmpty returned after %d LSR reads, want 4", n)
	}
	if w := regs.Writes(); len(w) != 0 {
		t.Fatalf("FlushAndWaitEmpty wrote registers: %+v", w)
	}
}

func TestSetupSequence(t *testing.T) {
	regs, u := newTestUART()

	u = u.Setup()

	want := []sim.Access{
		{Addr: testBase + LCR, Value: 0x03},
		{Addr: testBase + LCR, Value: 0x83},
		{Addr: testBase + RBR_THR_DLL, Value: 54},
		{Addr: testBase + IER_DLH, Value: 0},
		{Addr: testBase + LCR, Value: 0x03},
		{Addr: testBase + SFE, Value: 0x01},
		{Addr: testBase + SRT, Value: uint32(RX_TRIGGER_HALF_FULL)},
		{Addr: testBase + STET, Value: uint32(TX_TRIGGER_QUARTER_FULL)},
		{Addr: testBase + IER_DLH, Value: 0},
		{Addr: testBase + MCR, Value: 0x03},
	}
	if got := regs.Writes(); !reflect.DeepEqual(got, want) {
		t.Fatalf("setup writes\n got %+v\nwant %+v", got, want)
	}
	if u.Base() != testBase {
		t.Fatalf("Base() = 0x%x", u.Base())
	}
	if m := u.Mode(); m != ModeFIFOThreshold {
		t.Fatalf("mode after setup = %v, want %v", m, ModeFIFOThreshold)
	}
}

func TestSetupIsIdempotent(t *testing.T) {
	regs, u := newTestUART()
	u.Setup()
	first := regs.Writes()
	regs.ResetLog()
	u.Setup()

	if got := regs.Writes(); !reflect.DeepEqual(got, first) {
		t.Fatalf("second setup wrote %+v, first wrote %+v", got, first)
	}
}

func TestSetupLeavesOtherUARTUntouched(t *testing.T) {
	regs := sim.NewRegisters()
	New(regs, UART1_BASE).Setup()

	for _, w := range regs.Writes() {
		if w.Addr < UART1_BASE || w.Addr > UART1_BASE+STET {
			t.Fatalf("write outside UART1 window: 0x%x", w.Addr)
		}
	}
	if New(regs, UART0_BASE).Mode() != ModeLegacy {
		t.Fatal("UART0 mode changed by UART1 setup")
	}
}

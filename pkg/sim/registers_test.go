package sim

import (
	"reflect"
	"testing"
)

func TestRegistersDefaultZero(t *testing.T) {
	regs := NewRegisters()
	if v := regs.Read32(0x14); v != 0 {
		t.Fatalf("unwritten register read 0x%x, want 0", v)
	}
	if n := regs.Reads(0x14); n != 1 {
		t.Fatalf("Reads = %d, want 1", n)
	}
}

func TestRegistersScriptThenStored(t *testing.T) {
	regs := NewRegisters()
	regs.Set(0x14, 0x60)
	regs.Script(0x14, 0x00, 0x20)

	got := []uint32{regs.Read32(0x14), regs.Read32(0x14), regs.Read32(0x14), regs.Read32(0x14)}
	want := []uint32{0x00, 0x20, 0x60, 0x60}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("reads = %#v, want %#v", got, want)
	}
}

func TestRegistersWriteLogAndHook(t *testing.T) {
	regs := NewRegisters()
	var echoed []byte
	regs.OnWrite(0x00, func(v uint32) { echoed = append(echoed, byte(v)) })

	regs.Write32(0x00, 'h')
	regs.Write32(0x0c, 0x03)
	regs.Write32(0x00, 'i')

	if string(echoed) != "hi" {
		t.Fatalf("hook saw %q, want %q", echoed, "hi")
	}
	if got := regs.WritesTo(0x00); !reflect.DeepEqual(got, []uint32{'h', 'i'}) {
		t.Fatalf("WritesTo = %#v", got)
	}
	if got := len(regs.Writes()); got != 3 {
		t.Fatalf("len(Writes) = %d, want 3", got)
	}
	if v := regs.Read32(0x0c); v != 0x03 {
		t.Fatalf("stored value 0x%x, want 0x03", v)
	}

	regs.ResetLog()
	if len(regs.Writes()) != 0 || regs.Reads(0x0c) != 0 {
		t.Fatal("ResetLog kept log entries")
	}
	if v := regs.Read32(0x0c); v != 0x03 {
		t.Fatal("ResetLog dropped stored values")
	}
}

func TestRegistersReadHook(t *testing.T) {
	regs := NewRegisters()
	regs.Set(0x98, 1)
	regs.OnRead(0x14, func() uint32 {
		if regs.Read32(0x98) != 0 {
			return 0x40
		}
		return 0x60
	})
	regs.Script(0x14, 0x00)

	if v := regs.Read32(0x14); v != 0x00 {
		t.Fatalf("scripted read = 0x%x, want 0x00", v)
	}
	if v := regs.Read32(0x14); v != 0x40 {
		t.Fatalf("hooked read = 0x%x, want 0x40", v)
	}
	regs.Set(0x98, 0)
	if v := regs.Read32(0x14); v != 0x60 {
		t.Fatalf("hooked read = 0x%x, want 0x60", v)
	}
}

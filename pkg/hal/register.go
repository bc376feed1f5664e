package hal

// RegAddress is a physical register address, or an offset from a peripheral base.
type RegAddress uintptr

// Register is a typed view of one 32-bit peripheral register.
type Register interface {
	GetAddress() RegAddress // offset from the peripheral base
	GetValue() uint32
	SetValue(value uint32)
}

// WriteRegister stores reg at base + reg.GetAddress().
func WriteRegister(bus Bus, base RegAddress, reg Register) {
	bus.Write32(base+reg.GetAddress(), reg.GetValue())
}

// ReadRegister loads reg from base + reg.GetAddress().
func ReadRegister(bus Bus, base RegAddress, reg Register) {
	reg.SetValue(bus.Read32(base + reg.GetAddress()))
}

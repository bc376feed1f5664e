// Package mmio implements hal.Bus on real memory mapped registers.
package mmio

// Direct dereferences register addresses as they are. It is only usable where
// physical addresses are identity mapped: bare metal with the MMU off or a flat mapping.
type Direct struct{}

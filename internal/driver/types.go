// internal/driver/types.go
package driver

// Transport is the register link to the chip.
// Begin/End frame one exclusive batch: the implementation holds the bus
// (chip select, bus lock, connection) from Begin until End.
type Transport interface {
	Begin() error
	End() error
	WriteRegister(addr, value uint8) error
	ReadRegister(addr uint8) (uint8, error)
}

// RangeWriter is implemented by transports that can write a contiguous
// register range in one request. The driver uses it when available.
type RangeWriter interface {
	WriteRange(start uint8, values []uint8) error
}

// Pins are the chip's discrete lines. Either may be absent.
type Pins interface {
	// SetSleep drives nSLEEP; awake=true enables the chip.
	SetSleep(awake bool) error
	// Fault reports whether nFAULT is asserted.
	Fault() (bool, error)
}

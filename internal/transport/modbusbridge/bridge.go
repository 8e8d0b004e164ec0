// internal/transport/modbusbridge/bridge.go
package modbusbridge

import (
	"sync"

	"github.com/pkg/errors"
)

// Client is the subset of the shared Modbus endpoint client the bridge uses.
type Client interface {
	ReadHoldingRegisters(unitID uint8, addr, qty uint16) ([]uint16, error)
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
	WriteRegister(unitID uint8, addr, value uint16) error
}

// Bridge reaches the chip through a remote gateway that mirrors chip
// register N at holding register Base+N (low byte = value).
type Bridge struct {
	mu     sync.Mutex
	client Client
	unitID uint8
	base   uint16
	inTx   bool
}

func New(client Client, unitID uint8, base uint16) *Bridge {
	return &Bridge{
		client: client,
		unitID: unitID,
		base:   base,
	}
}

// ---- driver.Transport ----

func (b *Bridge) Begin() error {
	b.mu.Lock()
	b.inTx = true
	return nil
}

func (b *Bridge) End() error {
	if !b.inTx {
		return errors.New("modbusbridge: End without Begin")
	}
	b.inTx = false
	b.mu.Unlock()
	return nil
}

func (b *Bridge) WriteRegister(addr, value uint8) error {
	if err := b.check(); err != nil {
		return err
	}
	if err := b.client.WriteRegister(b.unitID, b.base+uint16(addr), uint16(value)); err != nil {
		return errors.Wrapf(err, "modbusbridge: write 0x%02X", addr)
	}
	return nil
}

func (b *Bridge) ReadRegister(addr uint8) (uint8, error) {
	if err := b.check(); err != nil {
		return 0, err
	}
	regs, err := b.client.ReadHoldingRegisters(b.unitID, b.base+uint16(addr), 1)
	if err != nil {
		return 0, errors.Wrapf(err, "modbusbridge: read 0x%02X", addr)
	}
	if len(regs) != 1 {
		return 0, errors.Errorf("modbusbridge: read 0x%02X: got %d registers", addr, len(regs))
	}
	return uint8(regs[0]), nil
}

// ---- driver.RangeWriter ----

// WriteRange sends a contiguous block in one FC16 request.
func (b *Bridge) WriteRange(start uint8, values []uint8) error {
	if err := b.check(); err != nil {
		return err
	}
	regs := make([]uint16, len(values))
	for i, v := range values {
		regs[i] = uint16(v)
	}
	if err := b.client.WriteRegisters(b.unitID, b.base+uint16(start), regs); err != nil {
		return errors.Wrapf(err, "modbusbridge: write 0x%02X..0x%02X", start, int(start)+len(values)-1)
	}
	return nil
}

func (b *Bridge) check() error {
	if !b.inTx {
		return errors.New("modbusbridge: access outside transaction")
	}
	return nil
}

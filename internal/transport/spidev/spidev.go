// internal/transport/spidev/spidev.go
package spidev

import (
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// DefaultSpeed is the bus clock the chip is driven at.
const DefaultSpeed = 4 * physic.MegaHertz

// frame layout: 16 bits, MSB first
//   write: [addr][value]
//   read:  [0x40|addr][don't care] -> value in the second byte
const readFlag = 0x40

// Dev is a register link over a directly attached SPI port (mode 1, 8-bit words).
type Dev struct {
	mu     sync.Mutex
	c      conn.Conn
	closer func() error
	inTx   bool
}

// Open initializes the host drivers and opens the named SPI port
// ("" = first available).
func Open(port string, speed physic.Frequency) (*Dev, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "spidev: host init")
	}

	p, err := spireg.Open(port)
	if err != nil {
		return nil, errors.Wrapf(err, "spidev: open %q", port)
	}

	if speed == 0 {
		speed = DefaultSpeed
	}
	c, err := p.Connect(speed, spi.Mode1, 8)
	if err != nil {
		_ = p.Close()
		return nil, errors.Wrap(err, "spidev: connect")
	}

	d := New(c)
	d.closer = p.Close
	return d, nil
}

// New wraps an already connected SPI conn.
func New(c conn.Conn) *Dev {
	return &Dev{c: c}
}

func (d *Dev) String() string {
	return "drv89xx-spi(" + d.c.String() + ")"
}

func (d *Dev) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer()
}

// ---- driver.Transport ----

// Begin takes the bus until End.
func (d *Dev) Begin() error {
	d.mu.Lock()
	d.inTx = true
	return nil
}

func (d *Dev) End() error {
	if !d.inTx {
		return errors.New("spidev: End without Begin")
	}
	d.inTx = false
	d.mu.Unlock()
	return nil
}

func (d *Dev) WriteRegister(addr, value uint8) error {
	if !d.inTx {
		return errors.New("spidev: write outside transaction")
	}
	w := [2]byte{addr, value}
	if err := d.c.Tx(w[:], nil); err != nil {
		return errors.Wrapf(err, "spidev: write 0x%02X", addr)
	}
	return nil
}

func (d *Dev) ReadRegister(addr uint8) (uint8, error) {
	if !d.inTx {
		return 0, errors.New("spidev: read outside transaction")
	}
	w := [2]byte{readFlag | addr, 0}
	var r [2]byte
	if err := d.c.Tx(w[:], r[:]); err != nil {
		return 0, errors.Wrapf(err, "spidev: read 0x%02X", addr)
	}
	return r[1], nil
}

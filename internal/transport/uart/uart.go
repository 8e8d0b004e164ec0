// internal/transport/uart/uart.go
package uart

import (
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/tarm/serial"
)

// Bridge protocol spoken by a UART-to-SPI adapter MCU.
//
//	write: 0xA0 addr value          -> status
//	read:  0xA1 addr                -> status value
//	range: 0xA2 start n v0..v(n-1)  -> status
//
// status 0x00 = OK, anything else is an adapter error code.
const (
	cmdWrite      = 0xA0
	cmdRead       = 0xA1
	cmdWriteRange = 0xA2

	statusOK = 0x00

	maxRange = 0xFF
)

// ErrAdapter is returned when the adapter answers with a non-zero status.
var ErrAdapter = errors.New("uart: adapter error")

// Bridge is a register link through a serial adapter.
type Bridge struct {
	mu   sync.Mutex
	port io.ReadWriter
	inTx bool
}

// Open opens the serial device (8N1).
func Open(device string, baud int, timeout time.Duration) (*Bridge, *serial.Port, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: timeout,
	})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "uart: open %s", device)
	}
	return New(port), port, nil
}

// New wraps an open port.
func New(port io.ReadWriter) *Bridge {
	return &Bridge{port: port}
}

// ---- driver.Transport ----

func (b *Bridge) Begin() error {
	b.mu.Lock()
	b.inTx = true
	return nil
}

func (b *Bridge) End() error {
	if !b.inTx {
		return errors.New("uart: End without Begin")
	}
	b.inTx = false
	b.mu.Unlock()
	return nil
}

func (b *Bridge) WriteRegister(addr, value uint8) error {
	if err := b.check(); err != nil {
		return err
	}
	if err := b.roundTrip([]byte{cmdWrite, addr, value}, nil); err != nil {
		return errors.Wrapf(err, "uart: write 0x%02X", addr)
	}
	return nil
}

func (b *Bridge) ReadRegister(addr uint8) (uint8, error) {
	if err := b.check(); err != nil {
		return 0, err
	}
	var v [1]byte
	if err := b.roundTrip([]byte{cmdRead, addr}, v[:]); err != nil {
		return 0, errors.Wrapf(err, "uart: read 0x%02X", addr)
	}
	return v[0], nil
}

// ---- driver.RangeWriter ----

func (b *Bridge) WriteRange(start uint8, values []uint8) error {
	if err := b.check(); err != nil {
		return err
	}
	if len(values) > maxRange {
		return errors.Errorf("uart: range of %d registers too long", len(values))
	}

	req := make([]byte, 0, 3+len(values))
	req = append(req, cmdWriteRange, start, uint8(len(values)))
	req = append(req, values...)

	if err := b.roundTrip(req, nil); err != nil {
		return errors.Wrapf(err, "uart: write range 0x%02X+%d", start, len(values))
	}
	return nil
}

// ---- framing ----

func (b *Bridge) roundTrip(req []byte, payload []byte) error {
	if _, err := b.port.Write(req); err != nil {
		return err
	}

	var st [1]byte
	if _, err := io.ReadFull(b.port, st[:]); err != nil {
		return errors.Wrap(err, "status")
	}
	if st[0] != statusOK {
		return errors.Wrapf(ErrAdapter, "status 0x%02X", st[0])
	}

	if len(payload) > 0 {
		if _, err := io.ReadFull(b.port, payload); err != nil {
			return errors.Wrap(err, "payload")
		}
	}
	return nil
}

func (b *Bridge) check() error {
	if !b.inTx {
		return errors.New("uart: access outside transaction")
	}
	return nil
}

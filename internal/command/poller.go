// internal/command/poller.go
package command

import (
	"time"

	"github.com/pkg/errors"
)

// Client abstracts the Modbus read the poller needs.
type Client interface {
	ReadHoldingRegisters(unitID uint8, addr, qty uint16) ([]uint16, error) // FC 3
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	UnitID   uint8
	Address  uint16
	Motors   uint8 // one register per motor, starting at Address
	Interval time.Duration
}

// Poller is a dumb, clock-driven reader of command words.
type Poller struct {
	cfg    Config
	client Client
	now    func() time.Time
}

// New creates a poller with immutable config.
func New(cfg Config, client Client) (*Poller, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("command: interval must be > 0")
	}
	if cfg.Motors == 0 {
		return nil, errors.New("command: at least one motor required")
	}
	if client == nil {
		return nil, errors.New("command: client required")
	}
	return &Poller{cfg: cfg, client: client, now: time.Now}, nil
}

// PollOnce performs exactly one poll cycle.
// All-or-nothing: any failure aborts the cycle.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{At: p.now()}

	regs, err := p.client.ReadHoldingRegisters(p.cfg.UnitID, p.cfg.Address, uint16(p.cfg.Motors))
	if err != nil {
		res.Err = errors.Wrap(err, "command: read")
		return res
	}
	if len(regs) != int(p.cfg.Motors) {
		res.Err = errors.Errorf("command: got %d registers, want %d", len(regs), p.cfg.Motors)
		return res
	}

	cmds := make([]Command, 0, len(regs))
	for i, w := range regs {
		c, err := Decode(uint8(i), w)
		if err != nil {
			res.Err = err
			return res
		}
		cmds = append(cmds, c)
	}

	// Commit only if every word decoded
	res.Commands = cmds
	return res
}

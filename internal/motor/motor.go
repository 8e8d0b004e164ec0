// internal/motor/motor.go
package motor

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/tamzrod/drv89xx/internal/register"
)

// Direction is the commanded rotation.
type Direction int8

const (
	Reverse Direction = -1
	Brake   Direction = 0
	Forward Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	case Brake:
		return "brake"
	}
	return fmt.Sprintf("direction(%d)", int8(d))
}

// ParseDirection accepts the names printed by Direction.String plus short forms.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "forward", "fwd", "f":
		return Forward, nil
	case "reverse", "rev", "r":
		return Reverse, nil
	case "brake", "b":
		return Brake, nil
	}
	return Brake, errors.Errorf("motor: unknown direction %q", s)
}

// Config is the fixed wiring of one motor.
type Config struct {
	HB1          uint8 // half-bridge on the first terminal, 0 = unbound
	HB2          uint8 // half-bridge on the second terminal, 0 = unbound
	PWMChannel   uint8 // shared PWM generator 0..3
	ReverseDelay int64 // milliseconds to brake before a direction change
}

// Rendered is the outcome of the last Render call.
type Rendered uint8

const (
	RenderedOpen Rendered = iota
	RenderedBrake
	RenderedForward
	RenderedReverse
	RenderedHold // braking until the opposite direction's delay has passed
)

func (r Rendered) String() string {
	switch r {
	case RenderedOpen:
		return "open"
	case RenderedBrake:
		return "brake"
	case RenderedForward:
		return "forward"
	case RenderedReverse:
		return "reverse"
	case RenderedHold:
		return "hold"
	}
	return fmt.Sprintf("rendered(%d)", uint8(r))
}

// Motor is one brushed DC motor on two half-bridges.
// State changes only through Set and Disable. Time only affects Render.
type Motor struct {
	bridges      [2]Binding
	pwm          uint8
	reverseDelay int64

	enabled   bool
	direction Direction
	speed     uint8

	lastForward, lastReverse int64
	forwardSeen, reverseSeen bool
}

// New validates the wiring and precomputes both bindings.
func New(cfg Config) (*Motor, error) {
	if cfg.PWMChannel >= register.PWMChannels {
		return nil, errors.Wrapf(ErrInvalidPWMChannel, "pwm channel %d", cfg.PWMChannel)
	}
	if cfg.ReverseDelay < 0 {
		return nil, errors.Errorf("motor: negative reverse delay %d", cfg.ReverseDelay)
	}

	hb1, err := NewBinding(cfg.HB1)
	if err != nil {
		return nil, errors.Wrap(err, "hb1")
	}
	hb2, err := NewBinding(cfg.HB2)
	if err != nil {
		return nil, errors.Wrap(err, "hb2")
	}

	return &Motor{
		bridges:      [2]Binding{hb1, hb2},
		pwm:          cfg.PWMChannel,
		reverseDelay: cfg.ReverseDelay,
	}, nil
}

// Unbound returns a disabled motor on no half-bridge. Rendering it is a no-op.
func Unbound() *Motor {
	return &Motor{}
}

// Release opens both half-bridges in img. Used when the motor's wiring is
// replaced, so nothing keeps driving a bridge the motor no longer owns.
func (m *Motor) Release(img *register.Image) {
	open(img, m.bridges[0])
	open(img, m.bridges[1])
}

// Uses reports whether the motor is wired to half-bridge channel ch (1..12).
func (m *Motor) Uses(ch uint8) bool {
	return ch != 0 && (m.bridges[0].Channel == ch || m.bridges[1].Channel == ch)
}

// Set enables the motor with a speed and direction. Last write wins.
func (m *Motor) Set(speed uint8, dir Direction) {
	m.enabled = true
	m.speed = speed
	m.direction = dir
}

// Disable lets the motor free-spin.
func (m *Motor) Disable() {
	m.enabled = false
}

// State is a read-only view of the commanded state.
type State struct {
	Enabled   bool
	Direction Direction
	Speed     uint8
}

func (m *Motor) State() State {
	return State{Enabled: m.enabled, Direction: m.direction, Speed: m.speed}
}

// Bridges returns both bindings.
func (m *Motor) Bridges() [2]Binding {
	return m.bridges
}

// PWMChannel returns the PWM generator the motor drives.
func (m *Motor) PWMChannel() uint8 {
	return m.pwm
}

// Render writes the motor's bits into img for time nowMs.
// Every call fully overwrites the motor's own bits.
//
// A direction change is held in brake until reverseDelay has passed since
// the opposite direction was last driven.
func (m *Motor) Render(img *register.Image, nowMs int64) Rendered {
	hb1, hb2 := m.bridges[0], m.bridges[1]

	if !hb1.Bound() && !hb2.Bound() {
		return RenderedOpen
	}
	if !m.enabled {
		open(img, hb1)
		open(img, hb2)
		return RenderedOpen
	}

	switch m.direction {
	case Forward:
		if m.reverseSeen && nowMs-m.lastReverse <= m.reverseDelay {
			brake(img, hb1)
			brake(img, hb2)
			return RenderedHold
		}
		brake(img, hb1)
		highSidePWM(img, hb2, m.pwm)
		setDuty(img, m.pwm, m.speed)
		m.lastForward, m.forwardSeen = nowMs, true
		return RenderedForward

	case Reverse:
		if m.forwardSeen && nowMs-m.lastForward <= m.reverseDelay {
			brake(img, hb1)
			brake(img, hb2)
			return RenderedHold
		}
		highSidePWM(img, hb1, m.pwm)
		brake(img, hb2)
		setDuty(img, m.pwm, m.speed)
		m.lastReverse, m.reverseSeen = nowMs, true
		return RenderedReverse

	default:
		brake(img, hb1)
		brake(img, hb2)
		return RenderedBrake
	}
}

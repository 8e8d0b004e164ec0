// internal/command/types.go
package command

import (
	"time"

	"github.com/pkg/errors"

	"github.com/tamzrod/drv89xx/internal/motor"
)

// Mode is the high byte of a command word.
type Mode uint8

const (
	ModeDisable Mode = 0
	ModeForward Mode = 1
	ModeReverse Mode = 2
	ModeBrake   Mode = 3
)

// ErrUnknownMode is returned for a command word whose high byte is not a Mode.
var ErrUnknownMode = errors.New("command: unknown mode")

// Command is one decoded motor command.
type Command struct {
	Motor     uint8
	Enabled   bool
	Direction motor.Direction
	Speed     uint8
}

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	At       time.Time
	Commands []Command
	Err      error // non-nil means the poll cycle failed and Commands is empty
}

// Decode turns one register word into a command:
// high byte = mode, low byte = speed.
func Decode(id uint8, word uint16) (Command, error) {
	c := Command{Motor: id, Speed: uint8(word)}

	switch Mode(word >> 8) {
	case ModeDisable:
		c.Speed = 0
	case ModeForward:
		c.Enabled, c.Direction = true, motor.Forward
	case ModeReverse:
		c.Enabled, c.Direction = true, motor.Reverse
	case ModeBrake:
		c.Enabled, c.Direction = true, motor.Brake
	default:
		return Command{}, errors.Wrapf(ErrUnknownMode, "motor %d: 0x%02X", id, word>>8)
	}

	return c, nil
}

// Encode is the inverse of Decode.
func Encode(c Command) uint16 {
	if !c.Enabled {
		return uint16(ModeDisable) << 8
	}

	var m Mode
	switch c.Direction {
	case motor.Forward:
		m = ModeForward
	case motor.Reverse:
		m = ModeReverse
	default:
		m = ModeBrake
	}
	return uint16(m)<<8 | uint16(c.Speed)
}

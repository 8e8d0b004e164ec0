// internal/motor/binding.go
package motor

import (
	"github.com/pkg/errors"

	"github.com/tamzrod/drv89xx/internal/register"
)

var (
	// ErrInvalidChannel is returned for half-bridge channels outside 0..12.
	ErrInvalidChannel = errors.New("motor: half-bridge channel out of range")

	// ErrInvalidPWMChannel is returned for PWM generators outside 0..3.
	ErrInvalidPWMChannel = errors.New("motor: pwm channel out of range")
)

// Binding maps one motor terminal onto a half-bridge channel.
// Register addresses and bit offsets are computed once by NewBinding.
// Channel 0 means unbound: every primitive on it is a no-op.
type Binding struct {
	Channel uint8

	EnableReg  uint8 // OP_CTRL_n
	PWMMapReg  uint8 // PWM_MAP_CTRL_n
	PWMCtrlReg uint8 // PWM_CTRL_n

	EnableShift  uint8 // low-side bit in EnableReg; also the PWM map field offset
	PWMCtrlShift uint8 // bit in PWMCtrlReg
}

// NewBinding precomputes the register layout of a half-bridge channel.
// Pure. Same input, same output.
func NewBinding(channel uint8) (Binding, error) {
	if channel > register.MaxHalfBridge {
		return Binding{}, errors.Wrapf(ErrInvalidChannel, "channel %d", channel)
	}
	if channel == 0 {
		return Binding{}, nil
	}

	i := channel - 1
	return Binding{
		Channel:      channel,
		EnableReg:    register.OpCtrl1 + i/register.BridgesPerOpCtrl,
		PWMMapReg:    register.PWMMapCtrl1 + i/register.BridgesPerOpCtrl,
		PWMCtrlReg:   register.PWMCtrl1 + i/register.BridgesPerPWMCtrl,
		EnableShift:  (i % register.BridgesPerOpCtrl) * 2,
		PWMCtrlShift: i % register.BridgesPerPWMCtrl,
	}, nil
}

// Bound reports whether the binding drives a real half-bridge.
func (b Binding) Bound() bool {
	return b.Channel != 0
}

// ---- bit-level primitives ----

// brake drives the bridge low-side on, high-side off, PWM disabled.
func brake(img *register.Image, b Binding) {
	if !b.Bound() {
		return
	}
	img.SetBit(b.EnableReg, b.EnableShift)
	img.ClearBit(b.EnableReg, b.EnableShift+register.HighSide)
	img.ClearBit(b.PWMCtrlReg, b.PWMCtrlShift)
}

// highSidePWM drives the bridge high-side on, low-side off, PWM enabled on generator pwm.
func highSidePWM(img *register.Image, b Binding, pwm uint8) {
	if !b.Bound() {
		return
	}
	img.SetBit(b.EnableReg, b.EnableShift+register.HighSide)
	img.ClearBit(b.EnableReg, b.EnableShift)
	img.SetBit(b.PWMCtrlReg, b.PWMCtrlShift)
	img.WriteBit(b.PWMMapReg, b.EnableShift, pwm&0b01 != 0)
	img.WriteBit(b.PWMMapReg, b.EnableShift+1, (pwm>>1)&0b01 != 0)
}

// open releases both switches and disables PWM. The terminal floats.
func open(img *register.Image, b Binding) {
	if !b.Bound() {
		return
	}
	img.ClearBit(b.EnableReg, b.EnableShift)
	img.ClearBit(b.EnableReg, b.EnableShift+register.HighSide)
	img.ClearBit(b.PWMCtrlReg, b.PWMCtrlShift)
}

// setDuty writes the duty cycle of PWM generator pwm.
func setDuty(img *register.Image, pwm, speed uint8) {
	img[register.PWMDutyCtrl1+pwm] = speed
}

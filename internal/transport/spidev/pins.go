// internal/transport/spidev/pins.go
package spidev

import (
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Pins drives nSLEEP and samples nFAULT through host GPIO.
// Either line may be nil.
type Pins struct {
	sleep gpio.PinOut
	fault gpio.PinIn
}

// OpenPins looks up the named lines. Empty names are left unwired.
func OpenPins(sleepName, faultName string) (*Pins, error) {
	p := &Pins{}
	if sleepName == "" && faultName == "" {
		return p, nil
	}

	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "spidev: host init")
	}

	if sleepName != "" {
		pin := gpioreg.ByName(sleepName)
		if pin == nil {
			return nil, errors.Errorf("spidev: unknown gpio %q", sleepName)
		}
		p.sleep = pin
	}

	if faultName != "" {
		pin := gpioreg.ByName(faultName)
		if pin == nil {
			return nil, errors.Errorf("spidev: unknown gpio %q", faultName)
		}
		// nFAULT is open-drain
		if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, errors.Wrapf(err, "spidev: configure %q", faultName)
		}
		p.fault = pin
	}

	return p, nil
}

// NewPins wraps already configured lines.
func NewPins(sleep gpio.PinOut, fault gpio.PinIn) *Pins {
	return &Pins{sleep: sleep, fault: fault}
}

// SetSleep drives nSLEEP: high = awake.
func (p *Pins) SetSleep(awake bool) error {
	if p.sleep == nil {
		return nil
	}
	lvl := gpio.Low
	if awake {
		lvl = gpio.High
	}
	return p.sleep.Out(lvl)
}

// Fault reports nFAULT asserted (low).
func (p *Pins) Fault() (bool, error) {
	if p.fault == nil {
		return false, nil
	}
	return p.fault.Read() == gpio.Low, nil
}

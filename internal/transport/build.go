// internal/transport/build.go
package transport

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/physic"

	cfg "github.com/tamzrod/drv89xx/internal/config"
	"github.com/tamzrod/drv89xx/internal/driver"
	"github.com/tamzrod/drv89xx/internal/modbus"
	"github.com/tamzrod/drv89xx/internal/transport/modbusbridge"
	"github.com/tamzrod/drv89xx/internal/transport/spidev"
	"github.com/tamzrod/drv89xx/internal/transport/uart"
)

// Link is an opened register link plus its discrete lines.
type Link struct {
	Transport driver.Transport
	Pins      driver.Pins // nil when no line is wired
	Close     func() error
}

// Build opens the transport selected by chip.transport.
// Assumes config has already passed validation.
func Build(c cfg.ChipConfig) (*Link, error) {
	var closers []func() error

	closeAll := func() error {
		var errs error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = multierr.Append(errs, closers[i]())
		}
		return errs
	}

	link := &Link{Close: closeAll}

	switch c.Transport {
	case cfg.TransportSPI:
		d, err := spidev.Open(c.SPI.Port, physic.Frequency(c.SPI.SpeedHz)*physic.Hertz)
		if err != nil {
			return nil, err
		}
		closers = append(closers, d.Close)
		link.Transport = d

	case cfg.TransportModbus:
		mc, err := modbus.NewEndpointClient(modbus.Config{
			Endpoint: c.Modbus.Endpoint,
			Device:   c.Modbus.Device,
			Baud:     c.Modbus.Baud,
			Timeout:  time.Duration(c.Modbus.TimeoutMs) * time.Millisecond,
		})
		if err != nil {
			return nil, err
		}
		closers = append(closers, mc.Close)
		link.Transport = modbusbridge.New(mc, c.Modbus.UnitID, c.Modbus.BaseAddress)

	case cfg.TransportSerial:
		b, port, err := uart.Open(c.Serial.Device, c.Serial.Baud, time.Duration(c.Serial.TimeoutMs)*time.Millisecond)
		if err != nil {
			return nil, err
		}
		closers = append(closers, port.Close)
		link.Transport = b

	default:
		return nil, errors.Errorf("transport: unknown %q", c.Transport)
	}

	if c.Pins.Sleep != "" || c.Pins.Fault != "" {
		pins, err := spidev.OpenPins(c.Pins.Sleep, c.Pins.Fault)
		if err != nil {
			_ = closeAll()
			return nil, err
		}
		link.Pins = pins
	}

	return link, nil
}

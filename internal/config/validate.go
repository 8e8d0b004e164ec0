// internal/config/validate.go
package config

import (
	"fmt"

	"go.uber.org/multierr"
)

// limits mirrored from the chip layout; config does not import the driver
const (
	maxMotors     = 6
	maxHalfBridge = 12
	pwmChannels   = 4
)

var allowedPWMFrequencies = map[int]bool{80: true, 100: true, 200: true, 2000: true}

// Validate checks configuration correctness.
// It performs declarative validation only and reports every problem found.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil configuration")
	}

	var errs error
	errs = multierr.Append(errs, validateChip(&cfg.Chip))
	errs = multierr.Append(errs, validateMotors(cfg.Motors))
	errs = multierr.Append(errs, validateControl(&cfg.Control))
	return errs
}

// ------------------------------------------------------------
// CHIP
// ------------------------------------------------------------

func validateChip(c *ChipConfig) error {
	var errs error

	switch c.Transport {
	case TransportSPI:
		if c.SPI == nil {
			errs = multierr.Append(errs, fmt.Errorf("chip: transport %q requires a spi section", c.Transport))
		} else if c.SPI.SpeedHz < 0 {
			errs = multierr.Append(errs, fmt.Errorf("chip.spi: speed_hz must not be negative"))
		}
	case TransportModbus:
		switch {
		case c.Modbus == nil:
			errs = multierr.Append(errs, fmt.Errorf("chip: transport %q requires a modbus section", c.Transport))
		case (c.Modbus.Endpoint == "") == (c.Modbus.Device == ""):
			errs = multierr.Append(errs, fmt.Errorf("chip.modbus: exactly one of endpoint or device must be set"))
		case c.Modbus.TimeoutMs < 0 || c.Modbus.Baud < 0:
			errs = multierr.Append(errs, fmt.Errorf("chip.modbus: baud and timeout_ms must not be negative"))
		}
	case TransportSerial:
		switch {
		case c.Serial == nil:
			errs = multierr.Append(errs, fmt.Errorf("chip: transport %q requires a serial section", c.Transport))
		case c.Serial.Device == "":
			errs = multierr.Append(errs, fmt.Errorf("chip.serial: device is required"))
		case c.Serial.TimeoutMs < 0 || c.Serial.Baud < 0:
			errs = multierr.Append(errs, fmt.Errorf("chip.serial: baud and timeout_ms must not be negative"))
		}
	default:
		errs = multierr.Append(errs, fmt.Errorf("chip: unknown transport %q", c.Transport))
	}

	if len(c.PWMFrequency) > pwmChannels {
		errs = multierr.Append(errs, fmt.Errorf(
			"chip: pwm_frequency has %d entries, chip has %d generators",
			len(c.PWMFrequency), pwmChannels,
		))
	}
	for i, hz := range c.PWMFrequency {
		if !allowedPWMFrequencies[hz] {
			errs = multierr.Append(errs, fmt.Errorf(
				"chip: pwm_frequency[%d]=%d must be one of 80, 100, 200, 2000",
				i, hz,
			))
		}
	}

	return errs
}

// ------------------------------------------------------------
// MOTORS
// ------------------------------------------------------------

func validateMotors(motors []MotorConfig) error {
	var errs error
	seen := make(map[uint8]bool)

	for _, m := range motors {
		if m.ID >= maxMotors {
			errs = multierr.Append(errs, fmt.Errorf("motor %d: id must be 0..%d", m.ID, maxMotors-1))
			continue
		}
		if seen[m.ID] {
			errs = multierr.Append(errs, fmt.Errorf("motor %d: duplicate id", m.ID))
		}
		seen[m.ID] = true

		if m.HB1 > maxHalfBridge || m.HB2 > maxHalfBridge {
			errs = multierr.Append(errs, fmt.Errorf(
				"motor %d: hb1=%d hb2=%d must be 0..%d",
				m.ID, m.HB1, m.HB2, maxHalfBridge,
			))
		}
		if m.HB1 != 0 && m.HB1 == m.HB2 {
			errs = multierr.Append(errs, fmt.Errorf("motor %d: hb1 and hb2 are the same bridge", m.ID))
		}
		if m.PWMChannel >= pwmChannels {
			errs = multierr.Append(errs, fmt.Errorf("motor %d: pwm_channel must be 0..%d", m.ID, pwmChannels-1))
		}
		if m.ReverseDelayMs < 0 {
			errs = multierr.Append(errs, fmt.Errorf("motor %d: reverse_delay_ms must not be negative", m.ID))
		}
	}

	// a half-bridge belongs to one motor
	owner := make(map[uint8]uint8)
	for _, m := range motors {
		for _, hb := range []uint8{m.HB1, m.HB2} {
			if hb == 0 {
				continue
			}
			if prev, ok := owner[hb]; ok && prev != m.ID {
				errs = multierr.Append(errs, fmt.Errorf(
					"half-bridge %d used by motors %d and %d",
					hb, prev, m.ID,
				))
				continue
			}
			owner[hb] = m.ID
		}
	}

	return errs
}

// ------------------------------------------------------------
// CONTROL
// ------------------------------------------------------------

func validateControl(c *ControlConfig) error {
	var errs error

	if c.FlushIntervalMs < 0 || c.DiagIntervalMs < 0 {
		errs = multierr.Append(errs, fmt.Errorf("control: intervals must not be negative"))
	}

	if s := c.Source; s != nil {
		if s.Endpoint == "" {
			errs = multierr.Append(errs, fmt.Errorf("control.source: endpoint is required"))
		}
		if s.IntervalMs < 0 || s.TimeoutMs < 0 {
			errs = multierr.Append(errs, fmt.Errorf("control.source: interval_ms and timeout_ms must not be negative"))
		}
		if int(s.Address)+maxMotors > 0x10000 {
			errs = multierr.Append(errs, fmt.Errorf("control.source: address %d leaves no room for %d registers", s.Address, maxMotors))
		}
	}

	if s := c.Status; s != nil {
		if s.Endpoint == "" && c.Source == nil {
			errs = multierr.Append(errs, fmt.Errorf("control.status: endpoint is required without a command source"))
		}
		if s.TimeoutMs < 0 {
			errs = multierr.Append(errs, fmt.Errorf("control.status: timeout_ms must not be negative"))
		}
		if int(s.Address)+12 > 0x10000 {
			errs = multierr.Append(errs, fmt.Errorf("control.status: address %d leaves no room for the status block", s.Address))
		}
	}

	return errs
}

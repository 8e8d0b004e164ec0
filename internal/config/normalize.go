// internal/config/normalize.go
package config

// defaults
const (
	DefaultSPIPort         = "/dev/spidev0.0"
	DefaultSPISpeedHz      = 4_000_000
	DefaultModbusBaud      = 19200
	DefaultSerialBaud      = 115200
	DefaultTimeoutMs       = 500
	DefaultSerialTimeoutMs = 100
	DefaultPWMFrequency    = 2000
	DefaultFlushIntervalMs = 20
	DefaultDiagIntervalMs  = 1000
	DefaultPollIntervalMs  = 50
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	c := &cfg.Chip

	// ------------------------------------------------------------
	// TRANSPORT DEFAULTS
	// ------------------------------------------------------------

	if c.SPI != nil {
		if c.SPI.Port == "" {
			c.SPI.Port = DefaultSPIPort
		}
		if c.SPI.SpeedHz == 0 {
			c.SPI.SpeedHz = DefaultSPISpeedHz
		}
	}
	if c.Modbus != nil {
		if c.Modbus.Device != "" && c.Modbus.Baud == 0 {
			c.Modbus.Baud = DefaultModbusBaud
		}
		if c.Modbus.TimeoutMs == 0 {
			c.Modbus.TimeoutMs = DefaultTimeoutMs
		}
	}
	if c.Serial != nil {
		if c.Serial.Baud == 0 {
			c.Serial.Baud = DefaultSerialBaud
		}
		if c.Serial.TimeoutMs == 0 {
			c.Serial.TimeoutMs = DefaultSerialTimeoutMs
		}
	}

	// pad PWM frequencies to one entry per generator
	for len(c.PWMFrequency) < pwmChannels {
		c.PWMFrequency = append(c.PWMFrequency, DefaultPWMFrequency)
	}

	// ------------------------------------------------------------
	// CONTROL DEFAULTS
	// ------------------------------------------------------------

	ctl := &cfg.Control
	if ctl.FlushIntervalMs == 0 {
		ctl.FlushIntervalMs = DefaultFlushIntervalMs
	}
	if ctl.DiagIntervalMs == 0 {
		ctl.DiagIntervalMs = DefaultDiagIntervalMs
	}

	if s := ctl.Source; s != nil {
		if s.IntervalMs == 0 {
			s.IntervalMs = DefaultPollIntervalMs
		}
		if s.TimeoutMs == 0 {
			s.TimeoutMs = DefaultTimeoutMs
		}
	}

	if st := ctl.Status; st != nil {
		if st.Endpoint == "" && ctl.Source != nil {
			st.Endpoint = ctl.Source.Endpoint
			if st.UnitID == 0 {
				st.UnitID = ctl.Source.UnitID
			}
		}
		if st.TimeoutMs == 0 {
			st.TimeoutMs = DefaultTimeoutMs
		}
	}
}

// internal/config/load_test.go
package config

import "testing"

const sample = `
chip:
  transport: modbus
  modbus:
    endpoint: "10.0.0.5:502"
    unit_id: 3
  pwm_frequency: [200]
motors:
  - { id: 0, hb1: 3, hb2: 7, pwm_channel: 1, reverse_delay_ms: 50 }
control:
  source: { endpoint: "10.0.0.9:502", unit_id: 1, address: 0 }
  status: { address: 100 }
`

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse err=%v", err)
	}

	if cfg.Chip.Modbus.TimeoutMs != DefaultTimeoutMs {
		t.Fatalf("modbus timeout: got=%d want=%d", cfg.Chip.Modbus.TimeoutMs, DefaultTimeoutMs)
	}
	if cfg.Chip.Modbus.Baud != 0 {
		t.Fatalf("baud must stay unset for TCP: got=%d", cfg.Chip.Modbus.Baud)
	}

	want := []int{200, 2000, 2000, 2000}
	for i, hz := range want {
		if cfg.Chip.PWMFrequency[i] != hz {
			t.Fatalf("pwm_frequency[%d]: got=%d want=%d", i, cfg.Chip.PWMFrequency[i], hz)
		}
	}

	if cfg.Control.FlushIntervalMs != DefaultFlushIntervalMs || cfg.Control.DiagIntervalMs != DefaultDiagIntervalMs {
		t.Fatalf("control intervals: %+v", cfg.Control)
	}
	if cfg.Control.Source.IntervalMs != DefaultPollIntervalMs {
		t.Fatalf("source interval: got=%d", cfg.Control.Source.IntervalMs)
	}

	st := cfg.Control.Status
	if st.Endpoint != "10.0.0.9:502" || st.UnitID != 1 {
		t.Fatalf("status should inherit source endpoint: %+v", st)
	}

	m := cfg.Motors[0]
	if m.HB1 != 3 || m.HB2 != 7 || m.PWMChannel != 1 || m.ReverseDelayMs != 50 {
		t.Fatalf("motor: %+v", m)
	}
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("chip:\n  transport: spi\n  spi: {}\n  bogus: 1\n"))
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestParse_RejectsInvalid(t *testing.T) {
	_, err := Parse([]byte("chip:\n  transport: spi\n"))
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoad_ExampleFile(t *testing.T) {
	cfg, err := Load("../../drv89xx.example.yaml")
	if err != nil {
		t.Fatalf("example config: %v", err)
	}
	if len(cfg.Motors) != 3 || cfg.Chip.SPI.Port != "/dev/spidev0.0" {
		t.Fatalf("example config: %+v", cfg)
	}
}

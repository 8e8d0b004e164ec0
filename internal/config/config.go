// internal/config/config.go
package config

type Config struct {
	Chip    ChipConfig    `yaml:"chip"`
	Motors  []MotorConfig `yaml:"motors"`
	Control ControlConfig `yaml:"control"`
}

// ---- CHIP ----

// Transport names accepted in chip.transport.
const (
	TransportSPI    = "spi"
	TransportModbus = "modbus"
	TransportSerial = "serial"
)

type ChipConfig struct {
	Transport string `yaml:"transport"`

	SPI    *SPIConfig    `yaml:"spi"`
	Modbus *ModbusConfig `yaml:"modbus"`
	Serial *SerialConfig `yaml:"serial"`

	Pins PinsConfig `yaml:"pins"`

	// Hz per PWM generator; empty = 2000 for all.
	PWMFrequency   []int `yaml:"pwm_frequency"`
	OpenLoadDetect bool  `yaml:"open_load_detect"`
}

type SPIConfig struct {
	Port    string `yaml:"port"`
	SpeedHz int64  `yaml:"speed_hz"`
}

// ModbusConfig describes a register bridge that exposes the chip's
// 37 bytes as holding registers starting at BaseAddress.
// Exactly one of Endpoint (TCP) or Device (RTU) is set.
type ModbusConfig struct {
	Endpoint    string `yaml:"endpoint"`
	Device      string `yaml:"device"`
	Baud        int    `yaml:"baud"`
	UnitID      uint8  `yaml:"unit_id"`
	BaseAddress uint16 `yaml:"base_address"`
	TimeoutMs   int    `yaml:"timeout_ms"`
}

type SerialConfig struct {
	Device    string `yaml:"device"`
	Baud      int    `yaml:"baud"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// PinsConfig names GPIO lines as known to the host (e.g. "GPIO17").
// Empty = not wired.
type PinsConfig struct {
	Sleep string `yaml:"sleep"`
	Fault string `yaml:"fault"`
}

// ---- MOTORS ----

type MotorConfig struct {
	ID             uint8 `yaml:"id"`
	HB1            uint8 `yaml:"hb1"`
	HB2            uint8 `yaml:"hb2"`
	PWMChannel     uint8 `yaml:"pwm_channel"`
	ReverseDelayMs int64 `yaml:"reverse_delay_ms"`
}

// ---- CONTROL ----

type ControlConfig struct {
	FlushIntervalMs int `yaml:"flush_interval_ms"`
	DiagIntervalMs  int `yaml:"diag_interval_ms"`

	Source *SourceConfig `yaml:"source"` // optional command source
	Status *StatusConfig `yaml:"status"` // optional status publishing
}

type SourceConfig struct {
	Endpoint   string `yaml:"endpoint"`
	UnitID     uint8  `yaml:"unit_id"`
	Address    uint16 `yaml:"address"`
	IntervalMs int    `yaml:"interval_ms"`
	TimeoutMs  int    `yaml:"timeout_ms"`
}

// StatusConfig: endpoint and unit_id default to the command source's.
type StatusConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	Address   uint16 `yaml:"address"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

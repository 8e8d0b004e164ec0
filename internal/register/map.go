// internal/register/map.go
package register

// DRV89xx register map.
// Addresses are protocol-locked and MUST NOT be configurable.

// ---- TELEMETRY (READ-ONLY) ----

const (
	ICStat   uint8 = 0x00 // IC status flags
	OCPStat1 uint8 = 0x01 // Overcurrent status HB1-HB8
	OCPStat2 uint8 = 0x02 // Overcurrent status HB9-HB12
	OCPStat3 uint8 = 0x03 // Overcurrent status (reserved on 8-bridge parts)
	OLDStat1 uint8 = 0x04 // Open-load status HB1-HB8
	OLDStat2 uint8 = 0x05 // Open-load status HB9-HB12
	OLDStat3 uint8 = 0x06 // Open-load status (reserved on 8-bridge parts)
)

// ---- CONFIGURATION (HOST-WRITABLE) ----

const (
	ConfigCtrl uint8 = 0x07 // Global configuration

	OpCtrl1 uint8 = 0x08 // Half-bridge enables HB1-HB4 (2 bits each)
	OpCtrl2 uint8 = 0x09 // Half-bridge enables HB5-HB8
	OpCtrl3 uint8 = 0x0A // Half-bridge enables HB9-HB12

	PWMCtrl1 uint8 = 0x0B // PWM enable HB1-HB8 (1 bit each)
	PWMCtrl2 uint8 = 0x0C // PWM enable HB9-HB12

	FWCtrl1 uint8 = 0x0D // Freewheeling mode HB1-HB8
	FWCtrl2 uint8 = 0x0E // Freewheeling mode HB9-HB12

	PWMMapCtrl1 uint8 = 0x0F // PWM generator map HB1-HB4 (2 bits each)
	PWMMapCtrl2 uint8 = 0x10 // PWM generator map HB5-HB8
	PWMMapCtrl3 uint8 = 0x11 // PWM generator map HB9-HB12

	PWMFreqCtrl uint8 = 0x12 // PWM frequency per generator (2 bits each)

	PWMDutyCtrl1 uint8 = 0x13 // Duty cycle generator 1
	PWMDutyCtrl2 uint8 = 0x14 // Duty cycle generator 2
	PWMDutyCtrl3 uint8 = 0x15 // Duty cycle generator 3
	PWMDutyCtrl4 uint8 = 0x16 // Duty cycle generator 4

	SRCtrl1 uint8 = 0x17 // Slew rate HB1-HB8
	SRCtrl2 uint8 = 0x18 // Slew rate HB9-HB12

	OLDCtrl1 uint8 = 0x19 // Open-load detect disable HB1-HB8
	OLDCtrl2 uint8 = 0x1A // Open-load fault report / detect disable HB9-HB12
	OLDCtrl3 uint8 = 0x1B
	OLDCtrl4 uint8 = 0x1C
	OLDCtrl5 uint8 = 0x1D
	OLDCtrl6 uint8 = 0x1E

	// 0x1F-0x24 are reserved; they are cached and written back as-is.
)

// ---- GEOMETRY ----

// Size is the number of addressable bytes (0x00..0x24).
const Size = 0x25

// ConfigStart is the first host-writable address.
const ConfigStart = ConfigCtrl

// DynamicStart and DynamicEnd bound (inclusive) the range rewritten on every motor change.
const (
	DynamicStart = OpCtrl1
	DynamicEnd   = PWMDutyCtrl4
)

// ---- FIELD LAYOUT ----

// BridgesPerOpCtrl is the number of half-bridges packed into one OP_CTRL / PWM_MAP_CTRL byte.
const BridgesPerOpCtrl = 4

// BridgesPerPWMCtrl is the number of half-bridges packed into one PWM_CTRL byte.
const BridgesPerPWMCtrl = 8

// HighSide is the bit offset of the high-side enable relative to the low-side enable.
const HighSide = 1

// MaxHalfBridge is the highest half-bridge channel number.
const MaxHalfBridge = 12

// PWMChannels is the number of shared PWM generators.
const PWMChannels = 4

// ---- STATIC DEFAULTS ----

// Open-load detection disabled on every bridge; open-load faults not reported.
const (
	OLDCtrl1Disabled uint8 = 0b11111111
	OLDCtrl2Disabled uint8 = 0b11001111
)

// PWM frequency field codes (2 bits per generator in PWM_FREQ_CTRL).
const (
	PWMFreq80Hz   uint8 = 0b00
	PWMFreq100Hz  uint8 = 0b01
	PWMFreq200Hz  uint8 = 0b10
	PWMFreq2000Hz uint8 = 0b11
)

// PWMFreqCode maps a frequency in Hz to its PWM_FREQ_CTRL field code.
func PWMFreqCode(hz int) (uint8, bool) {
	switch hz {
	case 80:
		return PWMFreq80Hz, true
	case 100:
		return PWMFreq100Hz, true
	case 200:
		return PWMFreq200Hz, true
	case 2000:
		return PWMFreq2000Hz, true
	}
	return 0, false
}

// internal/status/constants.go
package status

// Driver status block layout constants.
// These values define the published protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDriver is the fixed number of holding registers in a status block.
const SlotsPerDriver = 12

// ---- SLOT INDICES ----

// SlotHealthCode holds the link health state.
const SlotHealthCode = 0

// SlotLastErrorCode holds the last flush error code.
const SlotLastErrorCode = 1

// SlotSecondsInError holds the duration (in seconds) the link has been in error.
const SlotSecondsInError = 2

// SlotICStatus holds the raw IC_STAT register.
const SlotICStatus = 3

// SlotOvercurrentStart is the first of three OCP_STAT slots.
const SlotOvercurrentStart = 4

// SlotOpenLoadStart is the first of three OLD_STAT slots.
const SlotOpenLoadStart = 7

// SlotFaultLine is 1 while the nFAULT line is asserted.
const SlotFaultLine = 10

// Slot 11 is reserved.
const SlotReserved = 11

// ---- HEALTH CODES ----

// HealthUnknown represents an unknown or boot state.
const HealthUnknown uint16 = 0

// HealthOK represents a healthy link and no chip fault.
const HealthOK uint16 = 1

// HealthError represents a failed flush or diagnostics read.
const HealthError uint16 = 2

// HealthFault represents a healthy link with the chip reporting a fault.
const HealthFault uint16 = 3

// ---- ERROR CODES ----

// ErrorCodeGeneric is used for errors that do not expose a code.
const ErrorCodeGeneric uint16 = 1

// ---- IC_STAT BITS ----

const (
	ICStatOTW    uint8 = 1 << 0 // Overtemperature warning
	ICStatOTSD   uint8 = 1 << 1 // Overtemperature shutdown
	ICStatOVP    uint8 = 1 << 2 // Supply overvoltage
	ICStatUVLO   uint8 = 1 << 3 // Supply undervoltage
	ICStatOCP    uint8 = 1 << 4 // Overcurrent on any bridge
	ICStatFault  uint8 = 1 << 5 // Global fault
	ICStatPOR    uint8 = 1 << 6 // Power-on reset occurred
	ICStatSPIErr uint8 = 1 << 7 // SPI framing error
)

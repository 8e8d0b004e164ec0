// internal/status/snapshot.go
package status

// Snapshot represents exactly what the status writer is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16

	// Chip telemetry, copied verbatim from registers 0x00-0x06.
	ICStatus    uint8
	Overcurrent [3]uint8
	OpenLoad    [3]uint8

	// FaultLine is true while the nFAULT pin is pulled low.
	FaultLine bool
}

// Faulted reports whether the chip flags any fault condition.
func (s Snapshot) Faulted() bool {
	if s.FaultLine || s.ICStatus&(ICStatFault|ICStatOCP|ICStatOTSD) != 0 {
		return true
	}
	for i := range s.Overcurrent {
		if s.Overcurrent[i] != 0 {
			return true
		}
	}
	return false
}

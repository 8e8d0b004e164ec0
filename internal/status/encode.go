// internal/status/encode.go
package status

// Encode converts a Snapshot into a full driver status block.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerDriver)

	regs[SlotHealthCode] = s.Health
	regs[SlotLastErrorCode] = s.LastErrorCode
	regs[SlotSecondsInError] = s.SecondsInError
	regs[SlotICStatus] = uint16(s.ICStatus)

	for i := 0; i < 3; i++ {
		regs[SlotOvercurrentStart+i] = uint16(s.Overcurrent[i])
		regs[SlotOpenLoadStart+i] = uint16(s.OpenLoad[i])
	}

	if s.FaultLine {
		regs[SlotFaultLine] = 1
	}

	return regs
}

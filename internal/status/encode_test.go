// internal/status/encode_test.go
package status

import "testing"

func TestEncode_Layout(t *testing.T) {
	s := Snapshot{
		Health:         HealthFault,
		LastErrorCode:  7,
		SecondsInError: 3,
		ICStatus:       ICStatOCP | ICStatFault,
		Overcurrent:    [3]uint8{0x01, 0x02, 0x03},
		OpenLoad:       [3]uint8{0x10, 0x20, 0x30},
		FaultLine:      true,
	}

	regs := Encode(s)
	if len(regs) != SlotsPerDriver {
		t.Fatalf("block size: got=%d want=%d", len(regs), SlotsPerDriver)
	}

	want := []uint16{HealthFault, 7, 3, 0x30, 0x01, 0x02, 0x03, 0x10, 0x20, 0x30, 1, 0}
	for i := range want {
		if regs[i] != want[i] {
			t.Fatalf("slot %d: got=%d want=%d", i, regs[i], want[i])
		}
	}
}

func TestFaulted(t *testing.T) {
	if (Snapshot{}).Faulted() {
		t.Fatalf("zero snapshot should not be faulted")
	}
	if !(Snapshot{FaultLine: true}).Faulted() {
		t.Fatalf("fault line should fault")
	}
	if !(Snapshot{Overcurrent: [3]uint8{0, 4, 0}}).Faulted() {
		t.Fatalf("overcurrent should fault")
	}
	if (Snapshot{OpenLoad: [3]uint8{0xFF}}).Faulted() {
		t.Fatalf("open load alone is not a fault")
	}
}

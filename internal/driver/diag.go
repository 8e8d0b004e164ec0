// internal/driver/diag.go
package driver

import (
	"github.com/pkg/errors"

	"github.com/tamzrod/drv89xx/internal/register"
	"github.com/tamzrod/drv89xx/internal/status"
)

// ReadStatus reads the telemetry block (0x00-0x06) and the fault line.
// Never used by the render/flush path. Health fields are left to the caller.
func (d *Driver) ReadStatus() (s status.Snapshot, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pins != nil {
		fault, ferr := d.pins.Fault()
		if ferr != nil {
			return s, errors.Wrap(ferr, "driver: read fault line")
		}
		s.FaultLine = fault
	}

	if err := d.tr.Begin(); err != nil {
		return s, errors.Wrap(err, "driver: begin status read")
	}
	defer func() {
		if endErr := d.tr.End(); endErr != nil && err == nil {
			err = errors.Wrap(endErr, "driver: end status read")
		}
	}()

	var raw [register.OLDStat3 + 1]uint8
	for addr := register.ICStat; addr <= register.OLDStat3; addr++ {
		v, rerr := d.tr.ReadRegister(addr)
		if rerr != nil {
			return s, errors.Wrapf(rerr, "driver: read 0x%02X", addr)
		}
		raw[addr] = v
	}

	s.ICStatus = raw[register.ICStat]
	copy(s.Overcurrent[:], raw[register.OCPStat1:register.OCPStat3+1])
	copy(s.OpenLoad[:], raw[register.OLDStat1:register.OLDStat3+1])
	return s, nil
}

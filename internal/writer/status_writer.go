// internal/writer/status_writer.go
package writer

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/tamzrod/drv89xx/internal/status"
)

// StatusWriter is the delivery-only contract for driver status.
// It receives a snapshot and writes it verbatim.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// driverStatusWriter writes the full block on the first call and after any
// failure; otherwise only the slots that changed.
type driverStatusWriter struct {
	plan StatusPlan
	cli  endpointClient

	needFull bool
	last     []uint16
}

// NewStatusWriter builds a status writer for one block.
func NewStatusWriter(plan StatusPlan, cli endpointClient) (StatusWriter, error) {
	if cli == nil {
		return nil, errors.Errorf("status writer: missing client for endpoint %s", plan.Endpoint)
	}
	if int(plan.Address)+status.SlotsPerDriver > 0x10000 {
		return nil, errors.Errorf("status writer: address %d overflows", plan.Address)
	}

	return &driverStatusWriter{
		plan:     plan,
		cli:      cli,
		needFull: true, // full re-assert on first successful write
	}, nil
}

// WriteStatus delivers a snapshot into status memory.
// On any write failure, the next call re-asserts the full block.
func (sw *driverStatusWriter) WriteStatus(s status.Snapshot) error {
	regs := status.Encode(s)

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		if err := sw.cli.WriteRegisters(sw.plan.UnitID, sw.plan.Address, regs); err != nil {
			sw.needFull = true
			return errors.Wrap(err, "status writer: full block write failed")
		}

		sw.needFull = false
		sw.last = regs
		return nil
	}

	// ------------------------------------------------------------
	// Incremental: one request per run of changed slots
	// ------------------------------------------------------------
	var errs error

	for start := 0; start < len(regs); {
		if regs[start] == sw.last[start] {
			start++
			continue
		}

		end := start
		for end+1 < len(regs) && regs[end+1] != sw.last[end+1] {
			end++
		}

		run := regs[start : end+1]
		if err := sw.cli.WriteRegisters(sw.plan.UnitID, sw.plan.Address+uint16(start), run); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "slots %d..%d", start, end))
		} else {
			copy(sw.last[start:end+1], run)
		}

		start = end + 1
	}

	if errs != nil {
		// Any partial failure introduces doubt: re-assert on next call.
		sw.needFull = true
		return errors.Wrap(errs, "status writer")
	}

	return nil
}

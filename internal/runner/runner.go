// internal/runner/runner.go
package runner

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/goburrow/modbus"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/drv89xx/internal/command"
	"github.com/tamzrod/drv89xx/internal/motor"
	"github.com/tamzrod/drv89xx/internal/status"
	"github.com/tamzrod/drv89xx/internal/writer"
)

// Driver is what the runner needs from the chip driver.
type Driver interface {
	Set(id uint8, speed uint8, dir motor.Direction) error
	Disable(id uint8) error
	FlushDynamic(nowMs int64) error
	ReadStatus() (status.Snapshot, error)
}

type Config struct {
	FlushInterval time.Duration
	DiagInterval  time.Duration
}

// Options are the optional collaborators of a Runner.
type Options struct {
	Status writer.StatusWriter // nil: status not published
	Logger logrus.FieldLogger  // nil: discard
	Now    func() time.Time    // nil: time.Now
}

// Runner owns the control loop and the published status snapshot.
// All state is touched from Run's goroutine only.
type Runner struct {
	cfg Config
	drv Driver
	sw  writer.StatusWriter
	log logrus.FieldLogger
	now func() time.Time

	start time.Time
	snap  status.Snapshot

	flushErr error
	diagErr  error
}

func New(cfg Config, drv Driver, opts Options) (*Runner, error) {
	if drv == nil {
		return nil, errors.New("runner: driver required")
	}
	if cfg.FlushInterval <= 0 {
		return nil, errors.New("runner: flush interval must be > 0")
	}
	if cfg.DiagInterval <= 0 {
		return nil, errors.New("runner: diag interval must be > 0")
	}

	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	r := &Runner{
		cfg:   cfg,
		drv:   drv,
		sw:    opts.Status,
		log:   log,
		now:   now,
		start: now(),
	}
	r.snap.Health = status.HealthUnknown
	return r, nil
}

// Run drives the loop until ctx is done. cmds may be nil.
func (r *Runner) Run(ctx context.Context, cmds <-chan command.PollResult) {
	flush := time.NewTicker(r.cfg.FlushInterval)
	defer flush.Stop()
	diag := time.NewTicker(r.cfg.DiagInterval)
	defer diag.Stop()
	sec := time.NewTicker(time.Second)
	defer sec.Stop()

	// Full block write on start (identity re-assert)
	r.publish(true)

	for {
		select {
		case <-ctx.Done():
			return

		case res := <-cmds:
			r.Apply(res)

		case <-flush.C:
			r.Flush()

		case <-diag.C:
			r.Diagnose()

		case <-sec.C:
			r.SecondTick()
		}
	}
}

// NowMs is the driver timebase: milliseconds since the runner started.
func (r *Runner) NowMs() int64 {
	return r.now().Sub(r.start).Milliseconds()
}

// Snapshot returns the current status snapshot.
func (r *Runner) Snapshot() status.Snapshot {
	return r.snap
}

// ---- steps ----

// Apply hands one poll result to the driver.
// A failed poll keeps the last commands in force.
func (r *Runner) Apply(res command.PollResult) {
	if res.Err != nil {
		r.log.WithError(res.Err).Warn("command poll failed")
		return
	}

	for _, c := range res.Commands {
		var err error
		if c.Enabled {
			err = r.drv.Set(c.Motor, c.Speed, c.Direction)
		} else {
			err = r.drv.Disable(c.Motor)
		}
		if err != nil {
			r.log.WithError(err).WithField("motor", c.Motor).Warn("command rejected")
		}
	}
}

// Flush renders and writes the dynamic range. Runs on every tick because
// reversal holds expire with time alone.
func (r *Runner) Flush() {
	prev := r.snap
	err := r.drv.FlushDynamic(r.NowMs())
	if (err == nil) != (r.flushErr == nil) {
		if err != nil {
			r.log.WithError(err).Error("register link lost")
		} else {
			r.log.Info("register link recovered")
		}
	}
	r.flushErr = err
	r.update(prev)
}

// Diagnose reads chip telemetry into the snapshot.
func (r *Runner) Diagnose() {
	prev := r.snap
	s, err := r.drv.ReadStatus()
	r.diagErr = err
	if err != nil {
		r.log.WithError(err).Warn("status read failed")
	} else {
		if s.Faulted() && !r.snap.Faulted() {
			r.log.WithFields(logrus.Fields{
				"ic_stat":    s.ICStatus,
				"ocp":        s.Overcurrent,
				"fault_line": s.FaultLine,
			}).Error("chip reports fault")
		}
		r.snap.ICStatus = s.ICStatus
		r.snap.Overcurrent = s.Overcurrent
		r.snap.OpenLoad = s.OpenLoad
		r.snap.FaultLine = s.FaultLine
	}
	r.update(prev)
}

// SecondTick counts seconds while not OK.
func (r *Runner) SecondTick() {
	if r.snap.Health == status.HealthOK {
		return
	}
	if r.snap.SecondsInError < 65535 {
		r.snap.SecondsInError++
		r.publish(false)
	}
}

// update derives health from the last flush and diagnostics results
// and publishes if anything differs from prev.
func (r *Runner) update(prev status.Snapshot) {
	switch err := firstErr(r.flushErr, r.diagErr); {
	case err != nil:
		r.snap.Health = status.HealthError
		r.snap.LastErrorCode = errorCode(err)
	case r.snap.Faulted():
		r.snap.Health = status.HealthFault
		r.snap.LastErrorCode = 0
	default:
		r.snap.Health = status.HealthOK
		r.snap.LastErrorCode = 0
		r.snap.SecondsInError = 0
	}

	if r.snap != prev {
		r.publish(false)
	}
}

func (r *Runner) publish(initial bool) {
	if r.sw == nil {
		return
	}
	if err := r.sw.WriteStatus(r.snap); err != nil {
		entry := r.log.WithError(err)
		if initial {
			entry.Warn("status write failed on start")
		} else {
			entry.Warn("status write failed")
		}
	}
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// errorCode extracts a best-effort uint16 code from an error.
// Modbus exceptions report their exception code; errors that do not expose
// a code return ErrorCodeGeneric.
func errorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return uint16(me.ExceptionCode)
	}

	type coder interface{ Code() uint16 }

	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}

	return status.ErrorCodeGeneric
}

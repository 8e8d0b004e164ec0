// internal/driver/driver.go
package driver

import (
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/drv89xx/internal/motor"
	"github.com/tamzrod/drv89xx/internal/register"
)

// MaxMotors is the number of motor slots. Slots are reused, never freed.
const MaxMotors = 6

var (
	// ErrInvalidMotor is returned for motor ids outside 0..MaxMotors-1.
	ErrInvalidMotor = errors.New("driver: motor id out of range")

	// ErrInvalidSetting is returned for static settings the chip cannot take.
	ErrInvalidSetting = errors.New("driver: invalid setting")

	// ErrBridgeInUse is returned when a half-bridge is already wired to another slot.
	ErrBridgeInUse = errors.New("driver: half-bridge already in use")
)

// Options are the optional collaborators of a Driver.
type Options struct {
	Pins   Pins               // nil: no sleep/fault lines wired
	Logger logrus.FieldLogger // nil: discard
}

// Driver owns the register image and every motor slot.
// Commands only change state; flushes render and write.
type Driver struct {
	mu   sync.Mutex
	tr   Transport
	pins Pins
	log  logrus.FieldLogger

	img      register.Image
	motors   [MaxMotors]*motor.Motor
	rendered [MaxMotors]motor.Rendered

	openLoadDetect bool

	// needFull: the configuration range has not been written since a
	// static change or a failed full write.
	needFull bool
	// dirty: motor state changed since the last successful flush.
	dirty bool
}

// New creates a driver with all slots unbound and static defaults loaded
// (open-load detection off, every PWM generator at 2 kHz).
func New(tr Transport, opts Options) *Driver {
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	d := &Driver{
		tr:       tr,
		pins:     opts.Pins,
		log:      log,
		needFull: true,
	}
	for i := range d.motors {
		d.motors[i] = motor.Unbound()
	}
	d.img[register.PWMFreqCtrl] = 0xFF
	d.applyOpenLoad()

	return d
}

// ---- configuration ----

// Configure binds a motor slot. Rebinding replaces the slot's state and
// opens the old half-bridges; the new wiring starts disabled.
func (d *Driver) Configure(id uint8, cfg motor.Config) error {
	if err := checkID(id); err != nil {
		return err
	}
	if cfg.HB1 != 0 && cfg.HB1 == cfg.HB2 {
		return errors.Wrapf(ErrBridgeInUse, "driver: motor %d: hb1 and hb2 are both %d", id, cfg.HB1)
	}

	m, err := motor.New(cfg)
	if err != nil {
		return errors.Wrapf(err, "driver: motor %d", id)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for other, om := range d.motors {
		if uint8(other) == id {
			continue
		}
		for _, hb := range []uint8{cfg.HB1, cfg.HB2} {
			if om.Uses(hb) {
				return errors.Wrapf(ErrBridgeInUse, "driver: motor %d: hb%d owned by motor %d", id, hb, other)
			}
		}
	}

	d.motors[id].Release(&d.img)
	d.motors[id] = m
	d.rendered[id] = motor.RenderedOpen
	d.dirty = true
	return nil
}

// SetPWMFrequency sets the frequency of one PWM generator (80, 100, 200 or 2000 Hz).
func (d *Driver) SetPWMFrequency(channel uint8, hz int) error {
	if channel >= register.PWMChannels {
		return errors.Wrapf(motor.ErrInvalidPWMChannel, "driver: pwm channel %d", channel)
	}
	code, ok := register.PWMFreqCode(hz)
	if !ok {
		return errors.Wrapf(ErrInvalidSetting, "pwm frequency %d Hz", hz)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.img.WriteField(register.PWMFreqCtrl, channel*2, 2, code)
	d.needFull = true
	return nil
}

// SetOpenLoadDetect enables or disables open-load detection on every bridge.
func (d *Driver) SetOpenLoadDetect(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.openLoadDetect = enabled
	d.applyOpenLoad()
	d.needFull = true
}

func (d *Driver) applyOpenLoad() {
	if d.openLoadDetect {
		d.img[register.OLDCtrl1] = 0
		d.img[register.OLDCtrl2] = 0
		return
	}
	d.img[register.OLDCtrl1] = register.OLDCtrl1Disabled
	d.img[register.OLDCtrl2] = register.OLDCtrl2Disabled
}

// ---- commands ----

// Set commands a motor. Nothing is written until the next flush.
func (d *Driver) Set(id uint8, speed uint8, dir motor.Direction) error {
	if err := checkID(id); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.motors[id].Set(speed, dir)
	d.dirty = true
	return nil
}

// Disable lets a motor free-spin from the next flush on.
func (d *Driver) Disable(id uint8) error {
	if err := checkID(id); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.motors[id].Disable()
	d.dirty = true
	return nil
}

// State returns the commanded state of a motor.
func (d *Driver) State(id uint8) (motor.State, error) {
	if err := checkID(id); err != nil {
		return motor.State{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	return d.motors[id].State(), nil
}

// ---- lifecycle ----

// Begin wakes the chip and writes the full configuration range.
func (d *Driver) Begin() error {
	if d.pins != nil {
		if err := d.pins.SetSleep(true); err != nil {
			return errors.Wrap(err, "driver: wake chip")
		}
	}
	return d.FlushStatic()
}

// Sleep disables every motor, flushes once and pulls nSLEEP low.
func (d *Driver) Sleep(nowMs int64) error {
	d.mu.Lock()
	for _, m := range d.motors {
		m.Disable()
	}
	d.dirty = true
	d.mu.Unlock()

	err := d.FlushDynamic(nowMs)
	if d.pins != nil {
		if perr := d.pins.SetSleep(false); perr != nil && err == nil {
			err = errors.Wrap(perr, "driver: sleep chip")
		}
	}
	return err
}

// ---- flushing ----

// FlushStatic writes the whole configuration range 0x07..0x24 in one batch.
func (d *Driver) FlushStatic() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.flushFull()
}

// FlushDynamic renders every motor at nowMs and writes 0x08..0x16 in one batch.
// If the configuration range is not on the chip yet it is re-asserted in full instead.
// Safe to call on every tick: rendering is idempotent.
func (d *Driver) FlushDynamic(nowMs int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.render(nowMs)

	if d.needFull {
		return d.flushFull()
	}

	if err := d.writeRange(register.DynamicStart, register.DynamicEnd); err != nil {
		d.log.WithError(err).Warn("dynamic flush failed")
		return errors.Wrap(err, "driver: dynamic flush")
	}
	d.dirty = false
	return nil
}

// Dirty reports pending work: full means the configuration range must be
// re-asserted, dynamic means motor state changed since the last good flush.
func (d *Driver) Dirty() (full, dynamic bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.needFull, d.dirty
}

// Image returns a copy of the register image.
func (d *Driver) Image() register.Image {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.img
}

// Dump writes the configuration registers in binary, one per line.
func (d *Driver) Dump(w io.Writer) error {
	img := d.Image()
	return img.Dump(w)
}

func (d *Driver) render(nowMs int64) {
	for id, m := range d.motors {
		r := m.Render(&d.img, nowMs)
		if r != d.rendered[id] {
			d.log.WithFields(logrus.Fields{
				"motor": id,
				"from":  d.rendered[id].String(),
				"to":    r.String(),
				"at_ms": nowMs,
			}).Debug("motor output changed")
			d.rendered[id] = r
		}
	}
}

func (d *Driver) flushFull() error {
	if err := d.writeRange(register.ConfigStart, register.Size-1); err != nil {
		d.needFull = true
		d.log.WithError(err).Warn("full configuration flush failed")
		return errors.Wrap(err, "driver: full flush")
	}
	d.needFull = false
	d.dirty = false
	return nil
}

// writeRange sends the inclusive range [start, end] inside one transaction.
func (d *Driver) writeRange(start, end uint8) (err error) {
	values := d.img.Range(start, end)

	if err := d.tr.Begin(); err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() {
		if endErr := d.tr.End(); endErr != nil && err == nil {
			err = errors.Wrap(endErr, "end")
		}
	}()

	if rw, ok := d.tr.(RangeWriter); ok {
		return rw.WriteRange(start, values)
	}

	for i, v := range values {
		addr := start + uint8(i)
		if err := d.tr.WriteRegister(addr, v); err != nil {
			return errors.Wrapf(err, "write 0x%02X", addr)
		}
	}
	return nil
}

func checkID(id uint8) error {
	if id >= MaxMotors {
		return errors.Wrapf(ErrInvalidMotor, "motor %d", id)
	}
	return nil
}

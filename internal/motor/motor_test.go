// internal/motor/motor_test.go
package motor

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/tamzrod/drv89xx/internal/register"
)

func mustMotor(t *testing.T, cfg Config) *Motor {
	t.Helper()
	m, err := New(cfg)
	if err != nil {
		t.Fatalf("New(%+v) err=%v", cfg, err)
	}
	return m
}

func TestNew_RejectsBadWiring(t *testing.T) {
	if _, err := New(Config{HB1: 1, HB2: 2, PWMChannel: 4}); !errors.Is(err, ErrInvalidPWMChannel) {
		t.Fatalf("pwm 4: got=%v want ErrInvalidPWMChannel", err)
	}
	if _, err := New(Config{HB1: 13, HB2: 2}); !errors.Is(err, ErrInvalidChannel) {
		t.Fatalf("hb1 13: got=%v want ErrInvalidChannel", err)
	}
	if _, err := New(Config{HB1: 1, HB2: 14}); !errors.Is(err, ErrInvalidChannel) {
		t.Fatalf("hb2 14: got=%v want ErrInvalidChannel", err)
	}
	if _, err := New(Config{HB1: 1, HB2: 2, ReverseDelay: -1}); err == nil {
		t.Fatalf("negative delay: expected error")
	}
}

func TestRender_Scenario(t *testing.T) {
	m := mustMotor(t, Config{HB1: 3, HB2: 7, PWMChannel: 1, ReverseDelay: 50})
	var img register.Image

	// t=0 command, t=10 render: hb3 sinks, hb7 drives on PWM 1
	m.Set(200, Forward)
	if r := m.Render(&img, 10); r != RenderedForward {
		t.Fatalf("t=10: got=%s want=forward", r)
	}
	expect(t, "t=10", img, map[uint8]uint8{
		register.OpCtrl1:      0b00010000, // hb3 low side
		register.OpCtrl2:      0b00100000, // hb7 high side
		register.PWMCtrl1:     0b01000000, // hb7 pwm
		register.PWMMapCtrl2:  0b00010000, // hb7 -> generator 1
		register.PWMDutyCtrl2: 200,
	})

	// t=20 reverse, t=30 render inside the window: both brake
	m.Set(200, Reverse)
	if r := m.Render(&img, 30); r != RenderedHold {
		t.Fatalf("t=30: got=%s want=hold", r)
	}
	expect(t, "t=30", img, map[uint8]uint8{
		register.OpCtrl1:      0b00010000,
		register.OpCtrl2:      0b00010000,
		register.PWMCtrl1:     0,
		register.PWMDutyCtrl2: 200,
	})

	// t=80: 70 ms since last forward, reverse drives
	if r := m.Render(&img, 80); r != RenderedReverse {
		t.Fatalf("t=80: got=%s want=reverse", r)
	}
	expect(t, "t=80", img, map[uint8]uint8{
		register.OpCtrl1:      0b00100000, // hb3 high side
		register.OpCtrl2:      0b00010000, // hb7 low side
		register.PWMCtrl1:     0b00000100, // hb3 pwm
		register.PWMMapCtrl1:  0b00010000, // hb3 -> generator 1
		register.PWMDutyCtrl2: 200,
	})
}

func TestRender_DebounceLaw(t *testing.T) {
	const delay = 40
	m := mustMotor(t, Config{HB1: 1, HB2: 2, PWMChannel: 0, ReverseDelay: delay})
	var img register.Image

	m.Set(100, Reverse)
	if r := m.Render(&img, 1000); r != RenderedReverse {
		t.Fatalf("initial reverse: got=%s", r)
	}
	lastReverse := int64(1000)

	m.Set(100, Forward)
	for now := int64(1005); now <= lastReverse+delay; now++ {
		if r := m.Render(&img, now); r != RenderedHold {
			t.Fatalf("now=%d: got=%s want=hold", now, r)
		}
	}
	if r := m.Render(&img, lastReverse+delay+1); r != RenderedForward {
		t.Fatalf("now=%d: got=%s want=forward", lastReverse+delay+1, r)
	}
}

func TestRender_LongHoldReversesImmediately(t *testing.T) {
	m := mustMotor(t, Config{HB1: 1, HB2: 2, ReverseDelay: 50})
	var img register.Image

	m.Set(10, Forward)
	m.Render(&img, 0)

	// no render for a long time: the last forward activation is old
	m.Set(10, Reverse)
	if r := m.Render(&img, 500); r != RenderedReverse {
		t.Fatalf("got=%s want=reverse", r)
	}
}

func TestRender_Idempotent(t *testing.T) {
	m := mustMotor(t, Config{HB1: 5, HB2: 12, PWMChannel: 3, ReverseDelay: 20})
	var img register.Image

	m.Set(77, Forward)
	m.Render(&img, 100)
	first := img
	m.Render(&img, 100)
	if img != first {
		t.Fatalf("second render changed the image")
	}
}

func TestRender_DisableOpensBothBridges(t *testing.T) {
	for _, dir := range []Direction{Forward, Reverse, Brake} {
		m := mustMotor(t, Config{HB1: 9, HB2: 10, PWMChannel: 2})
		var img register.Image

		m.Set(255, dir)
		m.Render(&img, 0)
		m.Disable()
		if r := m.Render(&img, 1); r != RenderedOpen {
			t.Fatalf("%s: got=%s want=open", dir, r)
		}
		if img[register.OpCtrl3] != 0 || img[register.PWMCtrl2] != 0 {
			t.Fatalf("%s: OP_CTRL_3=%08b PWM_CTRL_2=%08b", dir, img[register.OpCtrl3], img[register.PWMCtrl2])
		}
	}
}

func TestRender_BrakeLeavesDutyAlone(t *testing.T) {
	m := mustMotor(t, Config{HB1: 1, HB2: 2, PWMChannel: 0})
	var img register.Image
	img[register.PWMDutyCtrl1] = 42

	m.Set(255, Brake)
	if r := m.Render(&img, 0); r != RenderedBrake {
		t.Fatalf("got=%s want=brake", r)
	}
	if img[register.OpCtrl1] != 0b00000101 {
		t.Fatalf("OP_CTRL_1 got=%08b want=00000101", img[register.OpCtrl1])
	}
	if img[register.PWMDutyCtrl1] != 42 {
		t.Fatalf("duty changed on brake: got=%d", img[register.PWMDutyCtrl1])
	}
}

func TestRender_OneSidedMotor(t *testing.T) {
	m := mustMotor(t, Config{HB1: 0, HB2: 4, PWMChannel: 0})
	var img register.Image

	m.Set(128, Forward)
	m.Render(&img, 0)
	if img[register.OpCtrl1] != 0b10000000 {
		t.Fatalf("OP_CTRL_1 got=%08b want=10000000", img[register.OpCtrl1])
	}
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{"fwd": Forward, "reverse": Reverse, "b": Brake} {
		got, err := ParseDirection(in)
		if err != nil || got != want {
			t.Fatalf("ParseDirection(%q): got=%s err=%v", in, got, err)
		}
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Fatalf("expected error")
	}
}

func expect(t *testing.T, label string, img register.Image, want map[uint8]uint8) {
	t.Helper()
	for addr, v := range want {
		if img[addr] != v {
			t.Fatalf("%s: reg 0x%02X got=%08b want=%08b", label, addr, img[addr], v)
		}
	}
}

func TestUnboundRendersNothing(t *testing.T) {
	m := Unbound()
	m.Set(255, Forward)

	var img register.Image
	for i := range img {
		img[i] = 0xA5
	}
	want := img

	m.Render(&img, 0)
	m.Release(&img)
	if img != want {
		t.Fatalf("unbound motor touched the image")
	}
	if m.Uses(0) {
		t.Fatalf("channel 0 must never be owned")
	}
}

func TestReleaseOpensBothBridges(t *testing.T) {
	m, err := New(Config{HB1: 3, HB2: 7, PWMChannel: 1})
	if err != nil {
		t.Fatalf("New err=%v", err)
	}
	m.Set(100, Reverse)

	var img register.Image
	m.Render(&img, 0)
	m.Release(&img)

	if img[register.OpCtrl1] != 0 || img[register.OpCtrl2] != 0 || img[register.PWMCtrl1] != 0 {
		t.Fatalf("bridges not released: OP1=%08b OP2=%08b PWM1=%08b", img[register.OpCtrl1], img[register.OpCtrl2], img[register.PWMCtrl1])
	}
	if !m.Uses(3) || !m.Uses(7) || m.Uses(4) {
		t.Fatalf("Uses: wrong ownership")
	}
}

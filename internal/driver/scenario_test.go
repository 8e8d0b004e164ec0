// internal/driver/scenario_test.go
package driver

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tamzrod/drv89xx/internal/motor"
	"github.com/tamzrod/drv89xx/internal/register"
)

func TestDirectionChangeScenario(t *testing.T) {
	Convey("Given a motor on hb3/hb7 with PWM generator 1 and a 50 ms reverse delay", t, func() {
		tr := &fakeTransport{}
		d := New(tr, Options{})
		So(d.Configure(2, motor.Config{HB1: 3, HB2: 7, PWMChannel: 1, ReverseDelay: 50}), ShouldBeNil)
		So(d.Begin(), ShouldBeNil)

		Convey("When it is driven forward at t=10", func() {
			So(d.Set(2, 200, motor.Forward), ShouldBeNil)
			So(d.FlushDynamic(10), ShouldBeNil)

			Convey("Then hb7 switches high on generator 1 and hb3 brakes", func() {
				So(tr.chip[register.OpCtrl1], ShouldEqual, uint8(0b00010000))
				So(tr.chip[register.OpCtrl2], ShouldEqual, uint8(0b00100000))
				So(tr.chip[register.PWMCtrl1], ShouldEqual, uint8(0b01000000))
				So(tr.chip[register.PWMMapCtrl2], ShouldEqual, uint8(0b00010000))
				So(tr.chip[register.PWMDutyCtrl2], ShouldEqual, uint8(200))
			})

			Convey("And reversed at t=30, the motor holds in brake", func() {
				So(d.Set(2, 200, motor.Reverse), ShouldBeNil)
				So(d.FlushDynamic(30), ShouldBeNil)

				So(tr.chip[register.OpCtrl1], ShouldEqual, uint8(0b00010000))
				So(tr.chip[register.OpCtrl2], ShouldEqual, uint8(0b00010000))
				So(tr.chip[register.PWMCtrl1], ShouldEqual, uint8(0))

				Convey("Then at t=80 the reverse is driven", func() {
					So(d.FlushDynamic(80), ShouldBeNil)

					So(tr.chip[register.OpCtrl1], ShouldEqual, uint8(0b00100000))
					So(tr.chip[register.OpCtrl2], ShouldEqual, uint8(0b00010000))
					So(tr.chip[register.PWMCtrl1], ShouldEqual, uint8(0b00000100))
					So(tr.chip[register.PWMMapCtrl1], ShouldEqual, uint8(0b00010000))
				})
			})
		})

		Convey("When it is disabled", func() {
			So(d.Disable(2), ShouldBeNil)
			So(d.FlushDynamic(10), ShouldBeNil)

			Convey("Then both bridges are open", func() {
				So(tr.chip[register.OpCtrl1], ShouldEqual, uint8(0))
				So(tr.chip[register.OpCtrl2], ShouldEqual, uint8(0))
			})
		})
	})
}

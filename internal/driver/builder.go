// internal/driver/builder.go
package driver

import (
	"github.com/pkg/errors"

	cfg "github.com/tamzrod/drv89xx/internal/config"
	"github.com/tamzrod/drv89xx/internal/motor"
)

// Build creates a driver and applies the configured motors and static settings.
// Nothing is written to the chip; call Begin.
// Assumes config has already been validated and normalized.
func Build(c *cfg.Config, tr Transport, opts Options) (*Driver, error) {
	d := New(tr, opts)

	for ch, hz := range c.Chip.PWMFrequency {
		if err := d.SetPWMFrequency(uint8(ch), hz); err != nil {
			return nil, err
		}
	}
	d.SetOpenLoadDetect(c.Chip.OpenLoadDetect)

	for _, m := range c.Motors {
		err := d.Configure(m.ID, motor.Config{
			HB1:          m.HB1,
			HB2:          m.HB2,
			PWMChannel:   m.PWMChannel,
			ReverseDelay: m.ReverseDelayMs,
		})
		if err != nil {
			return nil, errors.Wrap(err, "driver: build")
		}
	}

	return d, nil
}

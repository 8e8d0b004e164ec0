// cmd/drv89xx-shell/main.go
package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/abiosoft/ishell/v2"
	"github.com/caarlos0/env/v6"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/drv89xx/internal/config"
	"github.com/tamzrod/drv89xx/internal/driver"
	"github.com/tamzrod/drv89xx/internal/motor"
	"github.com/tamzrod/drv89xx/internal/transport"
)

type envConfig struct {
	Config   string `env:"DRV89XX_CONFIG" envDefault:"/etc/drv89xx.yaml"`
	LogLevel string `env:"DRV89XX_LOG_LEVEL" envDefault:"warn"`
}

func main() {
	var e envConfig
	if err := env.Parse(&e); err != nil {
		log.Fatalf("env parse failed: %v", err)
	}
	if lvl, err := log.ParseLevel(e.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	cfgPath := e.Config
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	link, err := transport.Build(cfg.Chip)
	if err != nil {
		log.Fatalf("transport build failed (%s): %v", cfg.Chip.Transport, err)
	}
	defer link.Close()

	drv, err := driver.Build(cfg, link.Transport, driver.Options{
		Pins:   link.Pins,
		Logger: log.StandardLogger(),
	})
	if err != nil {
		log.Fatalf("driver build failed: %v", err)
	}
	if err := drv.Begin(); err != nil {
		log.Fatalf("chip init failed: %v", err)
	}

	start := time.Now()
	nowMs := func() int64 { return time.Since(start).Milliseconds() }

	// background flush: reversal holds expire with time alone
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		t := time.NewTicker(time.Duration(cfg.Control.FlushIntervalMs) * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				_ = drv.FlushDynamic(nowMs())
			}
		}
	}()

	shell := ishell.New()
	shell.Println("DRV89xx shell")
	addCommands(shell, drv, nowMs)
	shell.Run()

	cancel()
	if err := drv.Sleep(nowMs()); err != nil {
		log.WithError(err).Warn("shutdown flush failed")
	}
}

func addCommands(shell *ishell.Shell, drv *driver.Driver, nowMs func() int64) {
	shell.AddCmd(&ishell.Cmd{
		Name: "set",
		Help: "set <motor> <speed 0-255> <fwd|rev|brake>",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 3 {
				c.Err(errors.New("usage: set <motor> <speed> <fwd|rev|brake>"))
				return
			}
			id, err := parseMotor(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			speed, err := strconv.ParseUint(c.Args[1], 10, 8)
			if err != nil {
				c.Err(errors.Wrapf(err, "speed %q", c.Args[1]))
				return
			}
			dir, err := motor.ParseDirection(c.Args[2])
			if err != nil {
				c.Err(err)
				return
			}
			if err := drv.Set(id, uint8(speed), dir); err != nil {
				c.Err(err)
				return
			}
			c.Printf("motor %d: %s at %d\n", id, dir, speed)
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "disable",
		Help: "disable <motor>",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(errors.New("usage: disable <motor>"))
				return
			}
			id, err := parseMotor(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			if err := drv.Disable(id); err != nil {
				c.Err(err)
				return
			}
			c.Printf("motor %d: disabled\n", id)
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "flush",
		Help: "render and write the motor registers now",
		Func: func(c *ishell.Context) {
			if err := drv.FlushDynamic(nowMs()); err != nil {
				c.Err(err)
				return
			}
			c.Println("ok")
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "status",
		Help: "read fault and telemetry registers",
		Func: func(c *ishell.Context) {
			s, err := drv.ReadStatus()
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("IC_STAT  %08b\n", s.ICStatus)
			c.Printf("OCP_STAT %08b %08b %08b\n", s.Overcurrent[0], s.Overcurrent[1], s.Overcurrent[2])
			c.Printf("OLD_STAT %08b %08b %08b\n", s.OpenLoad[0], s.OpenLoad[1], s.OpenLoad[2])
			c.Printf("nFAULT   %v (faulted=%v)\n", s.FaultLine, s.Faulted())

			for id := uint8(0); id < driver.MaxMotors; id++ {
				st, _ := drv.State(id)
				if st.Enabled {
					c.Printf("motor %d: %s at %d\n", id, st.Direction, st.Speed)
				}
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "dump",
		Help: "print the configuration registers",
		Func: func(c *ishell.Context) {
			img := drv.Image()
			c.Print(img.Format())
		},
	})
}

func parseMotor(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil || v >= driver.MaxMotors {
		return 0, errors.Errorf("motor %q: must be 0..%d", s, driver.MaxMotors-1)
	}
	return uint8(v), nil
}

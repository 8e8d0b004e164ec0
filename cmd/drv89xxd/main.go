// cmd/drv89xxd/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v6"
	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/drv89xx/internal/command"
	"github.com/tamzrod/drv89xx/internal/config"
	"github.com/tamzrod/drv89xx/internal/driver"
	"github.com/tamzrod/drv89xx/internal/modbus"
	"github.com/tamzrod/drv89xx/internal/runner"
	"github.com/tamzrod/drv89xx/internal/transport"
	"github.com/tamzrod/drv89xx/internal/writer"
)

type envConfig struct {
	Config   string `env:"DRV89XX_CONFIG" envDefault:"/etc/drv89xx.yaml"`
	LogLevel string `env:"DRV89XX_LOG_LEVEL" envDefault:"info"`
}

func main() {
	var e envConfig
	if err := env.Parse(&e); err != nil {
		log.Fatalf("env parse failed: %v", err)
	}

	lvl, err := log.ParseLevel(e.LogLevel)
	if err != nil {
		log.Fatalf("bad log level %q: %v", e.LogLevel, err)
	}
	log.SetLevel(lvl)

	cfgPath := e.Config
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	logger := log.StandardLogger()

	// --------------------
	// Register link + driver
	// --------------------

	link, err := transport.Build(cfg.Chip)
	if err != nil {
		log.Fatalf("transport build failed (%s): %v", cfg.Chip.Transport, err)
	}
	defer link.Close()

	drv, err := driver.Build(cfg, link.Transport, driver.Options{
		Pins:   link.Pins,
		Logger: logger.WithField("component", "driver"),
	})
	if err != nil {
		log.Fatalf("driver build failed: %v", err)
	}

	if err := drv.Begin(); err != nil {
		log.Fatalf("chip init failed: %v", err)
	}
	log.WithFields(log.Fields{
		"transport": cfg.Chip.Transport,
		"motors":    len(cfg.Motors),
	}).Info("chip configured")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Command source (optional)
	// --------------------

	var (
		cmds       chan command.PollResult
		sourceCli  *modbus.EndpointClient
		sourceAddr string
	)

	if src := cfg.Control.Source; src != nil {
		p, cli, err := command.Build(*src, driver.MaxMotors)
		if err != nil {
			log.Fatalf("command source build failed (%s): %v", src.Endpoint, err)
		}
		defer cli.Close()

		sourceCli, sourceAddr = cli, src.Endpoint
		cmds = make(chan command.PollResult)
		go p.Run(ctx, cmds)
	}

	// --------------------
	// Status publishing (optional)
	// --------------------

	var sw writer.StatusWriter

	if st := cfg.Control.Status; st != nil {
		w, closeStatus, err := writer.BuildStatusWriter(*st, sourceCli, sourceAddr)
		if err != nil {
			log.Fatalf("status writer build failed (%s): %v", st.Endpoint, err)
		}
		defer closeStatus()
		sw = w
	}

	// --------------------
	// Control loop
	// --------------------

	r, err := runner.New(
		runner.Config{
			FlushInterval: time.Duration(cfg.Control.FlushIntervalMs) * time.Millisecond,
			DiagInterval:  time.Duration(cfg.Control.DiagIntervalMs) * time.Millisecond,
		},
		drv,
		runner.Options{
			Status: sw,
			Logger: logger.WithField("component", "runner"),
		},
	)
	if err != nil {
		log.Fatalf("runner build failed: %v", err)
	}

	r.Run(ctx, cmds)

	// leave every bridge open and the chip asleep
	if err := drv.Sleep(r.NowMs()); err != nil {
		log.WithError(err).Warn("shutdown flush failed")
	}
	log.Info("stopped")
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// pwrctl drives the backlight and charger chips listed in a board file.
//
// Usage:
//
//	pwrctl -board board.yaml [flags]
//
// Examples:
//
//	# Set the backlight to half brightness and print the battery status.
//	pwrctl -board /etc/pwrctl/board.yaml -brightness 128 -status
//
//	# Keep the charger safety timer armed and open a shell.
//	pwrctl -board /etc/pwrctl/board.yaml -keepalive 10s -i
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-colorable"
	"golang.org/x/sync/errgroup"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/powerdevices/bd65b60"
	"github.com/GermanBionicSystems/powerdevices/fan5404x"
	"github.com/GermanBionicSystems/powerdevices/props"
)

type config struct {
	board       string
	bus         string
	brightness  int
	status      bool
	keepAlive   time.Duration
	interactive bool
	logLevel    string
	smbus       int
}

func main() {
	var cfg config
	flag.StringVar(&cfg.board, "board", "", "YAML board description (required)")
	flag.StringVar(&cfg.bus, "i2c", "", "I²C bus to use, overrides the board file")
	flag.IntVar(&cfg.brightness, "brightness", -1, "backlight level 0-255, -1 leaves it unchanged")
	flag.BoolVar(&cfg.status, "status", false, "print the charger status")
	flag.DurationVar(&cfg.keepAlive, "keepalive", 0, "rearm the charger safety timer at this period until interrupted, 0 disables")
	flag.BoolVar(&cfg.interactive, "i", false, "start an interactive shell")
	flag.StringVar(&cfg.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	registerPlatformFlags(&cfg)
	flag.Parse()

	if err := mainImpl(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "pwrctl: %s.\n", err)
		os.Exit(1)
	}
}

func mainImpl(cfg config) error {
	if cfg.board == "" {
		return errors.New("-board is required")
	}
	if cfg.brightness > int(bd65b60.MaxBrightness) {
		return fmt.Errorf("-brightness %d is out of range", cfg.brightness)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.logLevel)); err != nil {
		return fmt.Errorf("-log-level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if _, err := host.Init(); err != nil {
		return err
	}
	board, err := props.ReadBoardFile(cfg.board)
	if err != nil {
		return err
	}
	if cfg.bus != "" {
		board.Bus = cfg.bus
		for i := range board.Devices {
			board.Devices[i].Bus = ""
		}
	}
	t := platformTransport(cfg, logger)
	if t == nil {
		t = newI2CTransport(i2creg.Open, logger)
	}
	devs, err := openDevices(board, t, logger)
	if err != nil {
		return err
	}
	defer devs.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, cfg, devs, colorable.NewColorableStdout())
}

func run(ctx context.Context, cfg config, devs *devices, out io.Writer) error {
	c := newController(devs, out)
	if cfg.brightness >= 0 {
		if err := c.brightness(uint8(cfg.brightness)); err != nil {
			return err
		}
	}
	if cfg.status {
		if err := c.status(); err != nil {
			return err
		}
	}

	grp, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.keepAlive > 0 {
		if devs.charger == nil {
			return errors.New("-keepalive: the board has no charger")
		}
		grp.Go(func() error {
			if err := devs.charger.KeepAlive(ctx, cfg.keepAlive); ctx.Err() == nil {
				return err
			}
			return nil
		})
	}
	if cfg.interactive {
		grp.Go(func() error {
			defer cancel()
			return runShell(ctx, c)
		})
	}
	return grp.Wait()
}

// devices holds the chips found on the board. A nil field means the board
// does not list that chip.
type devices struct {
	backlight *bd65b60.Dev
	charger   *fan5404x.Dev
	t         transport
}

// openDevices instantiates every supported node of b on buses from t. The
// backlight is configured from its node properties; the charger is not
// written to.
func openDevices(b *props.Board, t transport, logger *slog.Logger) (*devices, error) {
	d := &devices{t: t}
	if n := b.Find(bd65b60.Compatible); n != nil {
		addr := n.Addr
		if addr == 0 {
			addr = bd65b60.DefaultAddress
		}
		rb, err := t.open(b.BusFor(n), addr)
		if err != nil {
			return nil, d.closeOnError(err)
		}
		opts, err := bd65b60.OptsFromProperties(n.Props())
		if err != nil {
			return nil, d.closeOnError(err)
		}
		opts.Logger = logger
		if d.backlight, err = bd65b60.NewBus(rb, opts); err != nil {
			return nil, d.closeOnError(fmt.Errorf("%s: %w", n.Name, err))
		}
		logger.Info("backlight ready", "node", n.Name, "dev", d.backlight)
	}
	if n := b.Find(fan5404x.Compatible...); n != nil {
		addr := n.Addr
		if addr == 0 {
			addr = fan5404x.DefaultAddress
		}
		rb, err := t.open(b.BusFor(n), addr)
		if err != nil {
			return nil, d.closeOnError(err)
		}
		if d.charger, err = fan5404x.NewBus(rb, &fan5404x.Opts{Logger: logger}); err != nil {
			return nil, d.closeOnError(fmt.Errorf("%s: %w", n.Name, err))
		}
		logger.Info("charger ready", "node", n.Name, "dev", d.charger)
	}
	if d.backlight == nil && d.charger == nil {
		return nil, d.closeOnError(errors.New("the board lists no supported device"))
	}
	return d, nil
}

func (d *devices) closeOnError(err error) error {
	d.close()
	return err
}

// close turns the backlight off and releases the buses.
func (d *devices) close() {
	if d.backlight != nil {
		d.backlight.Shutdown()
	}
	if d.t != nil {
		d.t.close()
	}
}

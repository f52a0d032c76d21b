// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/GermanBionicSystems/powerdevices/bd65b60"
	"github.com/GermanBionicSystems/powerdevices/fan5404x"
)

var (
	errNoBacklight = errors.New("the board has no backlight")
	errNoCharger   = errors.New("the board has no charger")
	errQuit        = errors.New("quit")
)

// controller runs commands against the board's devices.
type controller struct {
	devs  *devices
	out   io.Writer
	gauge *gauge
}

func newController(devs *devices, out io.Writer) *controller {
	return &controller{devs: devs, out: out, gauge: newGauge(out, 32)}
}

// setOutput redirects command output, the gauge included, to w.
func (c *controller) setOutput(w io.Writer) {
	c.out = w
	c.gauge.w = w
}

func (c *controller) brightness(level uint8) error {
	if c.devs.backlight == nil {
		return errNoBacklight
	}
	if err := c.devs.backlight.SetBrightness(level); err != nil {
		return err
	}
	return c.gauge.draw(c.devs.backlight.State().String(), level, bd65b60.MaxBrightness)
}

func (c *controller) status() error {
	if c.devs.charger == nil {
		return errNoCharger
	}
	s, err := c.devs.charger.ReadStatus()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.out, "status: %s\n", s)
	return err
}

func (c *controller) properties() error {
	if c.devs.charger == nil {
		return errNoCharger
	}
	for _, p := range c.devs.charger.Properties() {
		v, err := c.devs.charger.Property(p)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		if p == fan5404x.PropStatus {
			fmt.Fprintf(c.out, "%-12s %s\n", p, fan5404x.Status(v))
		} else {
			fmt.Fprintf(c.out, "%-12s %d\n", p, v)
		}
	}
	return nil
}

func (c *controller) fault() error {
	if c.devs.charger == nil {
		return errNoCharger
	}
	f, err := c.devs.charger.ReadFault()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.out, "fault: %s\n", f)
	return err
}

func (c *controller) info() error {
	if c.devs.charger == nil {
		return errNoCharger
	}
	i, err := c.devs.charger.ReadInfo()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.out, "%s %s\n", c.devs.charger, i)
	return err
}

func (c *controller) rearm() error {
	if c.devs.charger == nil {
		return errNoCharger
	}
	return c.devs.charger.RearmTimer()
}

const help = `commands:
  brightness N   set the backlight level, 0-255
  status         print the charging status
  props          print the charger properties
  fault          print the charger fault
  info           print the charger identification
  rearm          rearm the charger safety timer
  help           print this help
  quit           exit
`

// exec runs one shell line. It returns errQuit on quit.
func (c *controller) exec(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]
	switch cmd {
	case "brightness", "b":
		if len(args) != 1 {
			return errors.New("usage: brightness N")
		}
		v, err := strconv.ParseUint(args[0], 0, 8)
		if err != nil {
			return fmt.Errorf("invalid level %q", args[0])
		}
		return c.brightness(uint8(v))
	case "status", "s":
		return c.status()
	case "props", "p":
		return c.properties()
	case "fault":
		return c.fault()
	case "info":
		return c.info()
	case "rearm":
		return c.rearm()
	case "help", "?":
		_, err := io.WriteString(c.out, help)
		return err
	case "quit", "exit", "q":
		return errQuit
	}
	return fmt.Errorf("unknown command %q, try help", cmd)
}

// runShell reads commands until quit, end of input, or ctx is done.
func runShell(ctx context.Context, c *controller) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "pwrctl> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	var once sync.Once
	closeRL := func() { once.Do(func() { rl.Close() }) }
	defer closeRL()
	go func() {
		<-ctx.Done()
		closeRL()
	}()

	c.setOutput(rl.Stdout())
	_, _ = io.WriteString(c.out, help)
	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return nil
		}
		switch err := c.exec(line); {
		case err == errQuit:
			return nil
		case err != nil:
			fmt.Fprintf(rl.Stderr(), "error: %s\n", err)
		}
	}
}

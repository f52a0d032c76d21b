// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/maruel/ansi256"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/GermanBionicSystems/powerdevices/bd65b60"
	"github.com/GermanBionicSystems/powerdevices/fan5404x"
	"github.com/GermanBionicSystems/powerdevices/props"
	"github.com/GermanBionicSystems/powerdevices/regmap/regmaptest"
)

const boardYAML = `
bus: "1"
devices:
  - name: backlight
    compatible: rohm,bd65b60
    select: 5
    default-state: "on"
    ovp: 30
  - name: charger
    compatible: onsemi,fan54041
    addr: 0x6b
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func loadBoard(t *testing.T, s string) *props.Board {
	t.Helper()
	b, err := props.LoadBoard(strings.NewReader(s))
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestOpenDevices(t *testing.T) {
	const a = bd65b60.DefaultAddress
	pb := &i2ctest.Playback{Ops: []i2ctest.IO{
		{Addr: a, W: []byte{0x00, 0x01}},
		{Addr: a, W: []byte{0x01}, R: []byte{0x00}},
		{Addr: a, W: []byte{0x01, 0x08}},
		{Addr: a, W: []byte{0x03}, R: []byte{0x00}},
		{Addr: a, W: []byte{0x03, 0x05}},
		{Addr: a, W: []byte{0x07}, R: []byte{0x00}},
		{Addr: a, W: []byte{0x07, 0x20}},
		{Addr: a, W: []byte{0x0e, 0x01}},
		// Shutdown on close.
		{Addr: a, W: []byte{0x0e, 0x00}},
	}}
	opened := 0
	open := func(name string) (i2c.BusCloser, error) {
		if name != "1" {
			return nil, fmt.Errorf("no bus %q", name)
		}
		opened++
		return pb, nil
	}
	devs, err := openDevices(loadBoard(t, boardYAML), newI2CTransport(open, quietLogger()), quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if devs.backlight == nil || devs.charger == nil {
		t.Fatalf("missing device: %+v", devs)
	}
	if opened != 1 {
		t.Errorf("bus opened %d times", opened)
	}
	if devs.backlight.State() != bd65b60.On || devs.backlight.OVP() != bd65b60.OVP30V {
		t.Errorf("unexpected backlight %s", devs.backlight)
	}
	devs.close()
	if pb.Count != len(pb.Ops) {
		t.Errorf("%d of %d ops done", pb.Count, len(pb.Ops))
	}
}

func TestOpenDevicesErrors(t *testing.T) {
	pb := &i2ctest.Playback{}
	open := func(name string) (i2c.BusCloser, error) { return pb, nil }

	_, err := openDevices(loadBoard(t, "devices:\n  - compatible: acme,widget\n"), newI2CTransport(open, quietLogger()), quietLogger())
	if err == nil {
		t.Error("expected error for a board without supported device")
	}

	_, err = openDevices(loadBoard(t, "devices:\n  - compatible: rohm,bd65b60\n    select: 3\n"), newI2CTransport(open, quietLogger()), quietLogger())
	var cfgErr *props.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected a ConfigurationError, got %v", err)
	}
	if pb.Count != 0 {
		t.Errorf("%d ops on the bus", pb.Count)
	}

	fail := func(name string) (i2c.BusCloser, error) { return nil, errors.New("no such bus") }
	if _, err = openDevices(loadBoard(t, boardYAML), newI2CTransport(fail, quietLogger()), quietLogger()); err == nil {
		t.Error("expected error when the bus cannot be opened")
	}
}

func newFakeDevices(t *testing.T) (*devices, *regmaptest.Registers, *regmaptest.Registers) {
	t.Helper()
	led := &regmaptest.Registers{}
	chg := &regmaptest.Registers{}
	bl, err := bd65b60.NewBus(led, &bd65b60.Opts{Outputs: bd65b60.OutputsBoth, OVP: bd65b60.OVP35V, DefaultState: bd65b60.Off, Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	ch, err := fan5404x.NewBus(chg, &fan5404x.Opts{Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	led.Reset()
	return &devices{backlight: bl, charger: ch}, led, chg
}

func TestExec(t *testing.T) {
	devs, led, chg := newFakeDevices(t)
	chg.Regs[0x00] = 0x10
	chg.Regs[0x03] = 0x94
	var out bytes.Buffer
	c := newController(devs, &out)

	tests := []struct {
		line     string
		contains string
	}{
		{"brightness 128", "128/255"},
		{"status", "status: Charging"},
		{"props", "charge_type"},
		{"fault", "fault: none"},
		{"info", "vendor=2 pn=2 rev=4"},
		{"help", "commands:"},
	}
	for _, test := range tests {
		out.Reset()
		if err := c.exec(test.line); err != nil {
			t.Fatalf("%q: %v", test.line, err)
		}
		if !strings.Contains(out.String(), test.contains) {
			t.Errorf("%q: %q does not contain %q", test.line, out.String(), test.contains)
		}
	}
	if led.Regs[0x05] != 128 || led.Regs[0x0e] != 1 {
		t.Errorf("unexpected backlight registers ILED=%#x PON=%#x", led.Regs[0x05], led.Regs[0x0e])
	}
	if err := c.exec("rearm"); err != nil {
		t.Fatal(err)
	}
	if chg.Regs[0x00] != 0x80 {
		t.Errorf("CTRL0=%#x after rearm", chg.Regs[0x00])
	}
	if err := c.exec("  "); err != nil {
		t.Errorf("empty line: %v", err)
	}
	if err := c.exec("QUIT"); err != errQuit {
		t.Errorf("quit: %v", err)
	}
	for _, line := range []string{"brightness", "brightness 256", "brightness x", "frobnicate"} {
		if err := c.exec(line); err == nil {
			t.Errorf("%q: expected error", line)
		}
	}
}

func TestSetOutputMovesGauge(t *testing.T) {
	devs, _, _ := newFakeDevices(t)
	var first, second bytes.Buffer
	c := newController(devs, &first)
	c.setOutput(&second)
	if err := c.exec("brightness 200"); err != nil {
		t.Fatal(err)
	}
	if first.Len() != 0 {
		t.Errorf("output went to the old writer: %q", first.String())
	}
	if !strings.Contains(second.String(), "200/255") {
		t.Errorf("gauge missing from %q", second.String())
	}
}

func TestExecMissingDevice(t *testing.T) {
	c := newController(&devices{}, &bytes.Buffer{})
	if err := c.exec("brightness 1"); err != errNoBacklight {
		t.Errorf("unexpected error %v", err)
	}
	for _, line := range []string{"status", "props", "fault", "info", "rearm"} {
		if err := c.exec(line); err != errNoCharger {
			t.Errorf("%q: unexpected error %v", line, err)
		}
	}
}

func TestRun(t *testing.T) {
	devs, led, chg := newFakeDevices(t)
	chg.Regs[0x00] = 0x20
	var out bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	cfg := config{brightness: 10, status: true, keepAlive: time.Millisecond}
	if err := run(ctx, cfg, devs, &out); err != nil {
		t.Fatal(err)
	}
	if led.Regs[0x05] != 10 {
		t.Errorf("ILED=%d", led.Regs[0x05])
	}
	if !strings.Contains(out.String(), "status: Full") {
		t.Errorf("unexpected output %q", out.String())
	}
	if len(chg.Writes()) == 0 {
		t.Error("safety timer never rearmed")
	}
}

func TestRunKeepAliveWithoutCharger(t *testing.T) {
	devs, _, _ := newFakeDevices(t)
	devs.charger = nil
	if err := run(context.Background(), config{brightness: -1, keepAlive: time.Second}, devs, &bytes.Buffer{}); err == nil {
		t.Error("expected error")
	}
}

func TestGauge(t *testing.T) {
	dark := ansi256.Default.Block(color.NRGBA{0x20, 0x20, 0x20, 0xff})
	tests := []struct {
		level  uint8
		unlit  int
		suffix string
	}{
		{0, 4, " On   0/255\n"},
		{128, 2, " On 128/255\n"},
		{255, 0, " On 255/255\n"},
	}
	for _, test := range tests {
		var buf bytes.Buffer
		if err := newGauge(&buf, 4).draw("On", test.level, 255); err != nil {
			t.Fatal(err)
		}
		s := buf.String()
		if !strings.HasPrefix(s, "\r\033[0m") || !strings.HasSuffix(s, test.suffix) {
			t.Errorf("level %d: unexpected output %q", test.level, s)
		}
		if n := strings.Count(s, dark); n != test.unlit {
			t.Errorf("level %d: %d unlit cells, expected %d", test.level, n, test.unlit)
		}
	}
}

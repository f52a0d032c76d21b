// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bd65b60 controls the ROHM BD65B60GWL, a two string white LED
// backlight driver with a boost converter and an 8 bit current DAC.
package bd65b60

import (
	"fmt"
	"log/slog"
	"sync"

	"go.uber.org/multierr"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"

	"github.com/GermanBionicSystems/powerdevices/regmap"
)

const (
	// DefaultAddress is the 7 bit I²C address of the chip.
	DefaultAddress uint16 = 0x64
	// MaxBrightness is the full scale LED current setting.
	MaxBrightness uint8 = 0xff
	// Compatible is the device tree compatible string of the chip.
	Compatible = "rohm,bd65b60"
)

const (
	// Register offsets from the datasheet
	_SFTRST  byte = 0x00
	_COMSET1 byte = 0x01
	_COMSET2 byte = 0x02
	_LEDSEL  byte = 0x03
	_ILED    byte = 0x05
	_CTRLSET byte = 0x07
	_SLEWSET byte = 0x08
	_PON     byte = 0x0e

	_REG_MAX = _PON

	_SFTRST_RESET byte = 0x01
)

var (
	fieldOVP = regmap.MustField(regmap.GenMask(4, 3))
	// The chip's LEDSEL mask (0x05) has a hole, so each string has its own
	// one bit field.
	fieldLED1SEL = regmap.MustField(regmap.Bit(0))
	fieldLED2SEL = regmap.MustField(regmap.Bit(2))
	fieldPWMEN   = regmap.MustField(regmap.Bit(5))
)

// Dev represents a BD65B60 backlight driver.
//
// All methods are safe for concurrent use; each holds the device lock for its
// whole register sequence.
type Dev struct {
	mu  sync.Mutex
	m   *regmap.Map
	log *slog.Logger

	outputs    Outputs
	ovp        OVP
	state      PowerState
	brightness uint8
}

// New returns a BD65B60 on an I²C bus, configured per opts. If opts is nil,
// DefaultOpts is used.
//
// The device is returned along with any configuration error, so the caller
// can decide whether a partially configured chip is usable.
func New(bus i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	return NewBus(regmap.I2C(bus, addr), opts)
}

// NewBus is like New but uses an arbitrary register bus.
func NewBus(b regmap.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		o := DefaultOpts
		opts = &o
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	dev := &Dev{
		m:          regmap.New(b, "bd65b60", _REG_MAX),
		log:        opts.Logger,
		brightness: MaxBrightness,
	}
	if dev.log == nil {
		dev.log = slog.Default()
	}
	return dev, dev.Configure(opts.Outputs, opts.OVP, opts.DefaultState)
}

// Configure programs the chip.
//
// Unless state is Keep the chip is soft reset first. Then the OVP threshold,
// the driven strings and PWM dimming are set, and the output is switched on
// or off. Keep leaves a lit output lit: the power register only takes on and
// off, so Keep is written as on and remembered as Keep.
//
// A failed step does not stop the sequence: every step is attempted and all
// failures are returned together.
func (d *Dev) Configure(outputs Outputs, ovp OVP, state PowerState) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var err error
	if state != Keep {
		err = multierr.Append(err, d.m.Write(_SFTRST, _SFTRST_RESET))
	}
	err = multierr.Append(err, d.m.UpdateField(_COMSET1, fieldOVP, byte(ovp)))
	err = multierr.Append(err, d.updateOutputs(outputs))
	err = multierr.Append(err, d.m.UpdateField(_CTRLSET, fieldPWMEN, 1))
	pon := On
	if state == Off {
		pon = Off
	}
	err = multierr.Append(err, d.m.Write(_PON, byte(pon)))

	d.outputs = outputs
	d.ovp = ovp
	d.state = state
	return err
}

// updateOutputs sets both select bits with a single read-modify-write.
func (d *Dev) updateOutputs(o Outputs) error {
	var v uint8
	if o&OutputsLED1 != 0 {
		v |= fieldLED1SEL.Pack(1)
	}
	if o&OutputsLED2 != 0 {
		v |= fieldLED2SEL.Pack(1)
	}
	return d.m.UpdateBits(_LEDSEL, fieldLED1SEL.Mask()|fieldLED2SEL.Mask(), v)
}

// SetBrightness sets the LED current. Level 0 turns the output off, any other
// level turns it on.
//
// The power register is only written when the output actually changes state;
// the chip restarts its soft start on every power-on write.
func (d *Dev) SetBrightness(level uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.m.Write(_ILED, level)
	if err == nil {
		d.brightness = level
	}
	next := Off
	if level != 0 {
		next = On
	}
	if next != d.state {
		err = multierr.Append(err, d.m.Write(_PON, byte(next)))
		d.state = next
	}
	return err
}

// Brightness returns the last level set. It is MaxBrightness until
// SetBrightness succeeds once.
func (d *Dev) Brightness() uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.brightness
}

// State returns the recorded power state.
func (d *Dev) State() PowerState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Outputs returns the configured LED strings.
func (d *Dev) Outputs() Outputs {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.outputs
}

// OVP returns the configured over-voltage threshold.
func (d *Dev) OVP() OVP {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ovp
}

// Halt switches the output off. Implements conn.Resource.
//
// The recorded state is left as is, so a later SetBrightness may skip the
// power write and leave the output dark. Do not use the device after Halt;
// call Configure first to bring it back.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.m.Write(_PON, byte(Off))
}

// Shutdown is Halt for teardown paths where nobody can act on an error: a
// failure is logged and otherwise ignored.
func (d *Dev) Shutdown() {
	if err := d.Halt(); err != nil {
		d.log.Error("failed to turn off led", "device", "bd65b60", "err", err)
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("BD65B60{%s}", d.m)
}

var _ conn.Resource = &Dev{}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package fan5404x controls the ON Semiconductor FAN5404x family of single
// cell Li-Ion switching chargers (FAN54040 to FAN54047).
//
// The charger runs autonomously; the host reads its status, programs the
// charge limits and must rearm the 32 second safety timer while charging,
// see KeepAlive.
package fan5404x

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/multierr"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/powerdevices/regmap"
)

// DefaultAddress is the 7 bit I²C address of the chip.
const DefaultAddress uint16 = 0x6b

// DefaultKeepAlive is a timer rearm period well inside the chip's 32 second
// window.
const DefaultKeepAlive = 10 * time.Second

// Compatible lists the device tree compatible strings of the family.
var Compatible = []string{
	"onsemi,fan54040",
	"onsemi,fan54041",
	"onsemi,fan54042",
	"onsemi,fan54045",
	"onsemi,fan54046",
	"onsemi,fan54047",
}

var errInvalidInterval = errors.New("fan5404x: keep alive interval must be positive")

// Opts holds the configuration of a Dev.
type Opts struct {
	// Logger receives failures of background work such as KeepAlive.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// Limits are the charge parameters programmed by ApplyLimits.
type Limits struct {
	ChargeCurrent      physic.ElectricCurrent
	TerminationCurrent physic.ElectricCurrent
	// SafetyVoltage and SafetyCurrent cap the two values above. The chip
	// only accepts them before the first write to any other register after
	// power up.
	SafetyVoltage     physic.ElectricPotential
	SafetyCurrent     physic.ElectricCurrent
	InputVoltageLimit physic.ElectricPotential
	InputCurrentLimit physic.ElectricCurrent
	RegulationVoltage physic.ElectricPotential
}

// Dev represents a FAN5404x charger.
//
// The lock covers single register accesses and read-modify-write pairs, not
// multi register reads; see ReadStatus.
type Dev struct {
	mu  sync.Mutex
	m   *regmap.Map
	log *slog.Logger
}

// New returns a FAN5404x on an I²C bus. The chip is not written to.
func New(bus i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	return NewBus(regmap.I2C(bus, addr), opts)
}

// NewBus is like New but uses an arbitrary register bus.
func NewBus(b regmap.Bus, opts *Opts) (*Dev, error) {
	d := &Dev{m: regmap.New(b, "fan5404x", _REG_MAX), log: slog.Default()}
	if opts != nil && opts.Logger != nil {
		d.log = opts.Logger
	}
	return d, nil
}

func (d *Dev) read(reg uint8) (uint8, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.m.Read(reg)
}

// ReadStatus returns the charging status, derived from CTRL0 and CTRL1.
//
// The two registers are read in separate transactions. A concurrent write,
// RearmTimer included, can land between them, so the pair is not guaranteed
// to be a consistent snapshot.
//
// The ready and fault states both report StatusDischarging; use ReadFault to
// tell them apart.
func (d *Dev) ReadStatus() (Status, error) {
	ctrl0, err := d.read(_CTRL0)
	if err == nil {
		var ctrl1 uint8
		if ctrl1, err = d.read(_CTRL1); err == nil {
			return decodeStatus(ctrl0, ctrl1), nil
		}
	}
	d.log.Debug("failed to get status", "device", "fan5404x", "err", err)
	return StatusUnknown, err
}

func decodeStatus(ctrl0, ctrl1 uint8) Status {
	switch fieldSTAT.Unpack(ctrl0) {
	case statPWMEnabled:
		if fieldCEN.Unpack(ctrl1) != 0 {
			return StatusNotCharging
		}
		return StatusCharging
	case statChargeDone:
		return StatusFull
	default:
		return StatusDischarging
	}
}

// ReadFault returns the fault reported in CTRL0.
func (d *Dev) ReadFault() (Fault, error) {
	v, err := d.read(_CTRL0)
	if err != nil {
		return FaultNone, err
	}
	return Fault(fieldFAULT.Unpack(v)), nil
}

// ReadInfo returns the chip identification.
func (d *Dev) ReadInfo() (Info, error) {
	v, err := d.read(_IC_INFO)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Vendor:     fieldVENDOR.Unpack(v),
		PartNumber: fieldPN.Unpack(v),
		Revision:   fieldREV.Unpack(v),
	}, nil
}

// RearmTimer resets the 32 second safety timer. Without it the chip stops
// charging when the timer expires. Only EN_STAT is carried over from the
// current CTRL0; the other bits of the register are read-only.
func (d *Dev) RearmTimer() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.m.Read(_CTRL0)
	if err != nil {
		return err
	}
	return d.m.Write(_CTRL0, (v&fieldENSTAT.Mask())|fieldTMRRST.Pack(1))
}

// KeepAlive calls RearmTimer now and then every interval until ctx is done.
// Failures are logged and retried at the next tick. It returns ctx.Err().
func (d *Dev) KeepAlive(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errInvalidInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		if err := d.RearmTimer(); err != nil {
			d.log.Warn("failed to rearm safety timer", "device", "fan5404x", "err", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

// ApplyLimits programs the charge limits. SAFETY is written first since the
// chip locks it once any other register is written.
//
// Every register is attempted even if an earlier one fails; all failures are
// returned together.
func (d *Dev) ApplyLimits(l Limits) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var err error
	err = multierr.Append(err, d.m.Write(_SAFETY, EncodeSafety(MilliVolts(l.SafetyVoltage), MilliAmps(l.SafetyCurrent))))
	err = multierr.Append(err, d.m.Write(_IBAT, EncodeIBAT(MilliAmps(l.ChargeCurrent), MilliAmps(l.TerminationCurrent))))
	err = multierr.Append(err, d.m.UpdateBits(_OREG, fieldOREG.Mask(), EncodeOREG(MilliVolts(l.RegulationVoltage))))
	err = multierr.Append(err, d.m.UpdateBits(_VBUS_CTRL, fieldVBUSLIM.Mask(), EncodeVBUSLimit(MilliVolts(l.InputVoltageLimit))))
	ctrl1, rerr := d.m.Read(_CTRL1)
	if rerr == nil {
		rerr = d.m.Write(_CTRL1, EncodeInputCurrentLimit(ctrl1, MilliAmps(l.InputCurrentLimit)))
	}
	return multierr.Append(err, rerr)
}

// Restart issues a software restart of the charger.
func (d *Dev) Restart() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.m.Write(_RESTART, _RESTART_VALUE)
}

// Halt implements conn.Resource. It does nothing: the charger keeps charging
// on its own and must not be stopped by the host going away.
func (d *Dev) Halt() error {
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("FAN5404x{%s}", d.m)
}

var _ conn.Resource = &Dev{}

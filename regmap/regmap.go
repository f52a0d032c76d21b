// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package regmap provides byte addressed register access for chips with 8 bit
// registers, plus the bit-field codec used to build and decode register
// values.
//
// A Map wraps a Bus, which can be backed by a periph.io I²C bus, a TinyGo
// drivers.I2C bus or, on Linux, a go-daq SMBus connection.
package regmap

import (
	"errors"
	"fmt"
)

// Bus reads and writes single registers of one device. Each call is a complete
// bus transaction.
type Bus interface {
	ReadReg(reg uint8) (uint8, error)
	WriteReg(reg uint8, value uint8) error
}

// Op names the kind of register access that failed.
type Op string

const (
	OpRead  Op = "read"
	OpWrite Op = "write"
)

// TransportError is returned when a register access fails on the bus. The
// cause is kept verbatim.
type TransportError struct {
	Chip string
	Op   Op
	Reg  uint8
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s register %#02x: %v", e.Chip, e.Op, e.Reg, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ErrInvalidRegister is the cause of a TransportError for an address past the
// chip's last register. No bus transaction is attempted in that case.
var ErrInvalidRegister = errors.New("regmap: register out of range")

// Map is the register map of one chip.
type Map struct {
	bus  Bus
	chip string
	max  uint8
}

// New returns a Map over bus. maxRegister is the highest valid register
// address of the chip.
func New(bus Bus, chip string, maxRegister uint8) *Map {
	return &Map{bus: bus, chip: chip, max: maxRegister}
}

// Read returns the value of register reg.
func (m *Map) Read(reg uint8) (uint8, error) {
	if reg > m.max {
		return 0, m.wrap(OpRead, reg, ErrInvalidRegister)
	}
	v, err := m.bus.ReadReg(reg)
	if err != nil {
		return 0, m.wrap(OpRead, reg, err)
	}
	return v, nil
}

// Write sets register reg to value.
func (m *Map) Write(reg, value uint8) error {
	if reg > m.max {
		return m.wrap(OpWrite, reg, ErrInvalidRegister)
	}
	return m.wrap(OpWrite, reg, m.bus.WriteReg(reg, value))
}

// UpdateBits replaces the bits of reg selected by mask with the matching bits
// of value. The write is issued even when the register already holds the
// requested bits.
func (m *Map) UpdateBits(reg, mask, value uint8) error {
	v, err := m.Read(reg)
	if err != nil {
		return err
	}
	return m.Write(reg, (v&^mask)|(value&mask))
}

// UpdateField sets field f of register reg to value, leaving the other bits
// of the register untouched.
func (m *Map) UpdateField(reg uint8, f Field, value uint8) error {
	return m.UpdateBits(reg, f.Mask(), f.Pack(value))
}

// ReadField returns the value of field f of register reg.
func (m *Map) ReadField(reg uint8, f Field) (uint8, error) {
	v, err := m.Read(reg)
	if err != nil {
		return 0, err
	}
	return f.Unpack(v), nil
}

func (m *Map) String() string {
	return fmt.Sprintf("%s: %v", m.chip, m.bus)
}

func (m *Map) wrap(op Op, reg uint8, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Chip: m.chip, Op: op, Reg: reg, Err: err}
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package regmap

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"tinygo.org/x/drivers"
)

// I2C returns a Bus that accesses the device at addr on a periph.io I²C bus.
// A register read is a write of the address followed by a repeated start
// read of one byte.
func I2C(bus i2c.Bus, addr uint16) Bus {
	return &i2cBus{d: i2c.Dev{Bus: bus, Addr: addr}}
}

type i2cBus struct {
	d i2c.Dev
}

func (b *i2cBus) ReadReg(reg uint8) (uint8, error) {
	var r [1]byte
	err := b.d.Tx([]byte{reg}, r[:])
	return r[0], err
}

func (b *i2cBus) WriteReg(reg, value uint8) error {
	return b.d.Tx([]byte{reg, value}, nil)
}

func (b *i2cBus) String() string {
	return b.d.String()
}

// TinyGo returns a Bus that accesses the device at addr through a TinyGo
// drivers.I2C implementation.
func TinyGo(bus drivers.I2C, addr uint16) Bus {
	return &tinyGoBus{bus: bus, addr: addr}
}

type tinyGoBus struct {
	bus  drivers.I2C
	addr uint16
}

func (b *tinyGoBus) ReadReg(reg uint8) (uint8, error) {
	var r [1]byte
	err := b.bus.Tx(b.addr, []byte{reg}, r[:])
	return r[0], err
}

func (b *tinyGoBus) WriteReg(reg, value uint8) error {
	return b.bus.Tx(b.addr, []byte{reg, value}, nil)
}

func (b *tinyGoBus) String() string {
	return fmt.Sprintf("tinygo-i2c(%#02x)", b.addr)
}

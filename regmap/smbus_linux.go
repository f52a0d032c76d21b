// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package regmap

import (
	"fmt"

	"github.com/go-daq/smbus"
)

// SMBus returns a Bus that uses SMBus byte-data transfers on conn to reach
// the device at addr.
func SMBus(conn *smbus.Conn, addr uint8) Bus {
	return &smBus{conn: conn, addr: addr}
}

// byteData is the part of *smbus.Conn used by smBus.
type byteData interface {
	ReadReg(addr, reg uint8) (uint8, error)
	WriteReg(addr, reg, value uint8) error
}

type smBus struct {
	conn byteData
	addr uint8
}

func (b *smBus) ReadReg(reg uint8) (uint8, error) {
	return b.conn.ReadReg(b.addr, reg)
}

func (b *smBus) WriteReg(reg, value uint8) error {
	return b.conn.WriteReg(b.addr, reg, value)
}

func (b *smBus) String() string {
	return fmt.Sprintf("smbus(%#02x)", b.addr)
}

var _ byteData = &smbus.Conn{}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log/slog"

	"periph.io/x/conn/v3/i2c"

	"github.com/GermanBionicSystems/powerdevices/regmap"
)

// transport hands out register buses for the devices of a board.
type transport interface {
	// open returns the register bus of the device at addr on the named bus.
	open(bus string, addr uint16) (regmap.Bus, error)
	close()
}

// busOpener opens an I²C bus by name; i2creg.Open in production.
type busOpener func(name string) (i2c.BusCloser, error)

// i2cTransport is the periph.io transport. Each named bus is opened once.
type i2cTransport struct {
	dial  busOpener
	buses map[string]i2c.BusCloser
	log   *slog.Logger
}

func newI2CTransport(dial busOpener, logger *slog.Logger) *i2cTransport {
	return &i2cTransport{dial: dial, buses: map[string]i2c.BusCloser{}, log: logger}
}

func (t *i2cTransport) open(name string, addr uint16) (regmap.Bus, error) {
	b, ok := t.buses[name]
	if !ok {
		var err error
		if b, err = t.dial(name); err != nil {
			return nil, fmt.Errorf("failed to open I²C %q: %w", name, err)
		}
		t.buses[name] = b
	}
	return regmap.I2C(b, addr), nil
}

func (t *i2cTransport) close() {
	for name, b := range t.buses {
		if err := b.Close(); err != nil {
			t.log.Warn("failed to close bus", "bus", name, "err", err)
		}
	}
	t.buses = map[string]i2c.BusCloser{}
}

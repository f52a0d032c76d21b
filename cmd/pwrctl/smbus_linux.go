// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"

	"github.com/go-daq/smbus"

	"github.com/GermanBionicSystems/powerdevices/regmap"
)

func registerPlatformFlags(cfg *config) {
	flag.IntVar(&cfg.smbus, "smbus", -1, "talk to the chips through SMBus adapter N (/dev/i2c-N) instead of periph.io, -1 disables")
}

// platformTransport returns the SMBus transport when -smbus is set, nil
// otherwise.
func platformTransport(cfg config, logger *slog.Logger) transport {
	if cfg.smbus < 0 {
		return nil
	}
	return &smbusTransport{adapter: cfg.smbus, dial: smbus.Open, log: logger}
}

var errSMBusAddr = errors.New("address does not fit SMBus 7 bit addressing")

// smbusTransport puts every device on one SMBus adapter, whatever bus the
// board names. The adapter is opened on first use.
type smbusTransport struct {
	adapter int
	dial    func(adapter int, addr uint8) (*smbus.Conn, error)
	conn    *smbus.Conn
	log     *slog.Logger
}

func (t *smbusTransport) open(_ string, addr uint16) (regmap.Bus, error) {
	if addr > 0x7f {
		return nil, fmt.Errorf("%#x: %w", addr, errSMBusAddr)
	}
	if t.conn == nil {
		c, err := t.dial(t.adapter, uint8(addr))
		if err != nil {
			return nil, fmt.Errorf("failed to open SMBus %d: %w", t.adapter, err)
		}
		t.conn = c
	}
	return regmap.SMBus(t.conn, uint8(addr)), nil
}

func (t *smbusTransport) close() {
	if t.conn == nil {
		return
	}
	if err := t.conn.Close(); err != nil {
		t.log.Warn("failed to close smbus", "adapter", t.adapter, "err", err)
	}
	t.conn = nil
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package powerdevices is a container for power management device drivers.
//
// bd65b60 drives the ROHM BD65B60 LED backlight boost converter, fan5404x the
// ON Semiconductor FAN5404x battery chargers. Both are built on regmap, which
// packs register fields and talks to the chips over periph.io, TinyGo or
// SMBus. props reads the board description that wires them together and
// cmd/pwrctl drives them from the command line.
package powerdevices

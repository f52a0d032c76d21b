// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package fan5404x

import (
	"fmt"

	"github.com/GermanBionicSystems/powerdevices/regmap"
)

const (
	// Register offsets from the datasheet
	_CTRL0     byte = 0x00
	_CTRL1     byte = 0x01
	_OREG      byte = 0x02
	_IC_INFO   byte = 0x03
	_IBAT      byte = 0x04
	_VBUS_CTRL byte = 0x05
	_SAFETY    byte = 0x06
	_POST_CHRG byte = 0x07
	_MON0      byte = 0x10
	_MON1      byte = 0x11
	_NTC       byte = 0x12
	_WD_CTRL   byte = 0x13
	_RESTART   byte = 0xfa

	_REG_MAX = _RESTART

	_RESTART_VALUE byte = 0xb5
)

// Undefined bits are reserved.
var (
	fieldFAULT  = regmap.MustField(regmap.GenMask(2, 0))
	fieldSTAT   = regmap.MustField(regmap.GenMask(5, 4))
	fieldENSTAT = regmap.MustField(regmap.Bit(6))
	fieldTMRRST = regmap.MustField(regmap.Bit(7))

	fieldCEN     = regmap.MustField(regmap.Bit(2))
	fieldIBUSLIM = regmap.MustField(regmap.GenMask(7, 6))

	fieldOREG = regmap.MustField(regmap.GenMask(7, 2))

	fieldREV    = regmap.MustField(regmap.GenMask(2, 0))
	fieldPN     = regmap.MustField(regmap.GenMask(5, 3))
	fieldVENDOR = regmap.MustField(regmap.GenMask(7, 6))

	fieldITERM    = regmap.MustField(regmap.GenMask(2, 0))
	fieldIOCHARGE = regmap.MustField(regmap.GenMask(6, 3))

	fieldVBUSLIM = regmap.MustField(regmap.GenMask(2, 0))

	fieldVSAFE = regmap.MustField(regmap.GenMask(3, 0))
	fieldISAFE = regmap.MustField(regmap.GenMask(7, 4))
)

// Values of the CTRL0 STAT field.
const (
	statReady      uint8 = 0
	statPWMEnabled uint8 = 1
	statChargeDone uint8 = 2
	statFault      uint8 = 3
)

// Status is the charging status of the battery. The values match the power
// supply class status codes, so Property(PropStatus) can be reported as is.
type Status int

const (
	StatusUnknown Status = iota
	StatusCharging
	StatusDischarging
	StatusNotCharging
	StatusFull
)

func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "Unknown"
	case StatusDischarging:
		return "Discharging"
	case StatusCharging:
		return "Charging"
	case StatusNotCharging:
		return "Not charging"
	case StatusFull:
		return "Full"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Fault is the value of the CTRL0 FAULT field.
type Fault uint8

const (
	FaultNone Fault = iota
	FaultVBUSOVP
	FaultSleepMode
	FaultPoorInputSource
	FaultBatteryOVP
	FaultThermalShutdown
	FaultTimer
	FaultNoBattery
)

func (f Fault) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultVBUSOVP:
		return "VBUS over-voltage"
	case FaultSleepMode:
		return "sleep mode"
	case FaultPoorInputSource:
		return "poor input source"
	case FaultBatteryOVP:
		return "battery over-voltage"
	case FaultThermalShutdown:
		return "thermal shutdown"
	case FaultTimer:
		return "timer fault"
	case FaultNoBattery:
		return "no battery"
	}
	return fmt.Sprintf("Fault(%d)", uint8(f))
}

// Info identifies the chip.
type Info struct {
	Vendor     uint8
	PartNumber uint8
	Revision   uint8
}

func (i Info) String() string {
	return fmt.Sprintf("vendor=%d pn=%d rev=%d", i.Vendor, i.PartNumber, i.Revision)
}

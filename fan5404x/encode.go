// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package fan5404x

import (
	"math"

	"periph.io/x/conn/v3/physic"
)

// The functions below turn physical values into register codes. They never
// fail: values below a table's first step map to code 0. Functions without an
// upper clamp return codes that may not fit their field; Field.Pack then
// drops the high bits, so callers must stay within the chip's range.

// ChargeCurrentCode returns the IOCHARGE code for a charge current in mA:
// 550mA plus 100mA per step.
func ChargeCurrentCode(mA uint32) uint8 {
	if mA < 550 {
		return 0
	}
	return uint8((mA - 550) / 100)
}

// TerminationCurrentCode returns the ITERM code for a termination current in
// mA: 50mA plus 50mA per step.
func TerminationCurrentCode(mA uint32) uint8 {
	if mA < 50 {
		return 0
	}
	return uint8((mA - 50) / 50)
}

// SafetyVoltageCode returns the VSAFE code for a maximum battery regulation
// voltage in mV: 4200mV plus 20mV per step.
func SafetyVoltageCode(mV uint32) uint8 {
	if mV < 4200 {
		return 0
	}
	return uint8((mV - 4200) / 20)
}

// SafetyCurrentCode returns the ISAFE code for a maximum charge current in mA.
// It uses the same steps as IOCHARGE.
func SafetyCurrentCode(mA uint32) uint8 {
	return ChargeCurrentCode(mA)
}

// InputVoltageLimitCode returns the VBUSLIM code for an input voltage limit in
// mV: 4213mV plus 20mV per step. Requests under 4213mV give 0 and requests
// over 4773mV give 7; codes in between can exceed the 3 bit field.
func InputVoltageLimitCode(mV uint32) uint8 {
	switch {
	case mV < 4213:
		return 0
	case mV > 4773:
		return 7
	default:
		return uint8((mV - 4213) / 20)
	}
}

// InputCurrentLimitCode returns the I_BUSLIM code for an input current limit
// in mA. The chip only offers 100mA, 500mA, 800mA and no limit. The limit
// chosen is at most the request, except that requests under 100mA get 100mA
// and requests over 800mA get no limit.
func InputCurrentLimitCode(mA uint32) uint8 {
	switch {
	case mA < 500:
		return 0
	case mA < 800:
		return 1
	case mA == 800:
		return 2
	default:
		return 3
	}
}

// RegulationVoltageCode returns the OREG code for a battery regulation voltage
// in mV: 3500mV plus 20mV per step.
func RegulationVoltageCode(mV uint32) uint8 {
	if mV < 3500 {
		return 0
	}
	return uint8((mV - 3500) / 20)
}

// EncodeIBAT returns the IBAT register value for a charge and a termination
// current, with the reset bit clear.
func EncodeIBAT(chargeMA, termMA uint32) uint8 {
	return fieldIOCHARGE.Pack(ChargeCurrentCode(chargeMA)) | fieldITERM.Pack(TerminationCurrentCode(termMA))
}

// EncodeSafety returns the SAFETY register value.
func EncodeSafety(mV, mA uint32) uint8 {
	return fieldVSAFE.Pack(SafetyVoltageCode(mV)) | fieldISAFE.Pack(SafetyCurrentCode(mA))
}

// EncodeVBUSLimit returns the VBUSLIM bits of VBUS_CTRL.
func EncodeVBUSLimit(mV uint32) uint8 {
	return fieldVBUSLIM.Pack(InputVoltageLimitCode(mV))
}

// EncodeInputCurrentLimit returns ctrl1 with its I_BUSLIM field set for mA.
func EncodeInputCurrentLimit(ctrl1 uint8, mA uint32) uint8 {
	return fieldIBUSLIM.Update(ctrl1, InputCurrentLimitCode(mA))
}

// EncodeOREG returns the OREG register value, with EOC and DBAT_B clear.
func EncodeOREG(mV uint32) uint8 {
	return fieldOREG.Pack(RegulationVoltageCode(mV))
}

// MilliAmps converts c to whole milliamps, clamped to the uint32 range.
func MilliAmps(c physic.ElectricCurrent) uint32 {
	return clampU32(int64(c / physic.MilliAmpere))
}

// MilliVolts converts v to whole millivolts, clamped to the uint32 range.
func MilliVolts(v physic.ElectricPotential) uint32 {
	return clampU32(int64(v / physic.MilliVolt))
}

func clampU32(v int64) uint32 {
	if v < 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package fan5404x

import (
	"errors"
	"fmt"
)

// Property is a power supply property exposed to a polling framework.
type Property int

const (
	PropStatus Property = iota
	PropChargeType
	PropHealth
	PropPresent
	PropOnline
)

func (p Property) String() string {
	switch p {
	case PropStatus:
		return "status"
	case PropChargeType:
		return "charge_type"
	case PropHealth:
		return "health"
	case PropPresent:
		return "present"
	case PropOnline:
		return "online"
	}
	return fmt.Sprintf("Property(%d)", int(p))
}

// ChargeType values returned for PropChargeType.
const (
	ChargeTypeUnknown = iota
	ChargeTypeStandard
)

// Health values returned for PropHealth.
const (
	HealthUnknown = iota
	HealthGood
)

var (
	// ErrInvalidProperty is returned for a property the charger does not
	// expose.
	ErrInvalidProperty = errors.New("fan5404x: invalid property")
	// ErrPropertyReadOnly is returned by SetProperty. The charge parameters
	// are only programmed through ApplyLimits.
	ErrPropertyReadOnly = errors.New("fan5404x: property is read-only")
)

var properties = []Property{PropStatus, PropChargeType, PropHealth, PropPresent, PropOnline}

// Properties returns the properties supported by Property.
func (d *Dev) Properties() []Property {
	return append([]Property(nil), properties...)
}

// Property returns the value of p. PropStatus is a Status read from the chip,
// whose integer values are the power supply class status codes;
// the other properties are fixed: a standard charge type, good health, and a
// supply that is always present and online.
func (d *Dev) Property(p Property) (int, error) {
	d.log.Debug("get property", "device", "fan5404x", "property", p)
	switch p {
	case PropStatus:
		s, err := d.ReadStatus()
		return int(s), err
	case PropChargeType:
		return ChargeTypeStandard, nil
	case PropHealth:
		return HealthGood, nil
	case PropPresent, PropOnline:
		return 1, nil
	}
	return 0, ErrInvalidProperty
}

// SetProperty always fails with ErrPropertyReadOnly.
func (d *Dev) SetProperty(p Property, v int) error {
	d.log.Debug("set property", "device", "fan5404x", "property", p, "value", v)
	return ErrPropertyReadOnly
}

// PropertyWriteable reports whether p can be set. No property can.
func (d *Dev) PropertyWriteable(p Property) bool {
	return false
}

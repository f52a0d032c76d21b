// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package regmap

import (
	"errors"
	"fmt"
	"math/bits"
)

var errInvalidMask = errors.New("regmap: field mask must be a non-zero contiguous run of bits")

// Field describes a named bit-field within an 8 bit register. The mask is
// always a contiguous run of set bits and the shift is the position of its
// lowest bit.
type Field struct {
	mask  uint8
	shift uint8
}

// NewField returns the Field for mask. It fails if mask is zero or has holes.
func NewField(mask uint8) (Field, error) {
	if mask == 0 {
		return Field{}, errInvalidMask
	}
	shift := uint8(bits.TrailingZeros8(mask))
	run := mask >> shift
	// A contiguous run shifted down is of the form 0b0..01..1.
	if run&(run+1) != 0 {
		return Field{}, fmt.Errorf("%w: %#02x", errInvalidMask, mask)
	}
	return Field{mask: mask, shift: shift}, nil
}

// MustField is like NewField but panics on an invalid mask. It is meant for
// package level register tables.
func MustField(mask uint8) Field {
	f, err := NewField(mask)
	if err != nil {
		panic(err)
	}
	return f
}

// Bit returns a mask with only bit n set.
func Bit(n uint) uint8 {
	return 1 << n
}

// GenMask returns a mask with bits h down to l set, inclusive.
func GenMask(h, l uint) uint8 {
	return uint8((uint16(0xff) << l) & (uint16(0xff) >> (7 - h)))
}

// Mask returns the field's mask within the register.
func (f Field) Mask() uint8 {
	return f.mask
}

// Shift returns the position of the field's lowest bit.
func (f Field) Shift() uint8 {
	return f.shift
}

// Width returns the number of bits in the field.
func (f Field) Width() int {
	return bits.OnesCount8(f.mask)
}

// Max returns the largest value the field can hold.
func (f Field) Max() uint8 {
	return f.mask >> f.shift
}

// Pack places v into the field's position. Bits of v that do not fit the
// field are dropped, the same way a fixed width register would.
func (f Field) Pack(v uint8) uint8 {
	return (v << f.shift) & f.mask
}

// Unpack extracts the field's value from raw.
func (f Field) Unpack(raw uint8) uint8 {
	return (raw & f.mask) >> f.shift
}

// Update returns raw with the field replaced by v. Bits outside the field are
// left as is.
func (f Field) Update(raw, v uint8) uint8 {
	return (raw &^ f.mask) | f.Pack(v)
}

func (f Field) String() string {
	return fmt.Sprintf("Field{mask: %#02x, shift: %d}", f.mask, f.shift)
}

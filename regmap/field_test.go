// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package regmap

import (
	"errors"
	"testing"
)

func TestNewField(t *testing.T) {
	tests := []struct {
		mask  uint8
		shift uint8
		width int
		ok    bool
	}{
		{0x01, 0, 1, true},
		{0x07, 0, 3, true},
		{0x18, 3, 2, true},
		{0x30, 4, 2, true},
		{0x78, 3, 4, true},
		{0xfc, 2, 6, true},
		{0x80, 7, 1, true},
		{0xff, 0, 8, true},
		{0x00, 0, 0, false},
		{0x05, 0, 0, false},
		{0xa0, 0, 0, false},
		{0x81, 0, 0, false},
	}
	for _, test := range tests {
		f, err := NewField(test.mask)
		if !test.ok {
			if !errors.Is(err, errInvalidMask) {
				t.Errorf("NewField(%#02x) expected invalid mask error, got %v", test.mask, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewField(%#02x) unexpected error %v", test.mask, err)
			continue
		}
		if f.Shift() != test.shift || f.Width() != test.width || f.Mask() != test.mask {
			t.Errorf("NewField(%#02x)=%s width=%d, expected shift=%d width=%d", test.mask, f, f.Width(), test.shift, test.width)
		}
	}
}

func TestMustFieldPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for non-contiguous mask")
		}
	}()
	_ = MustField(0x05)
}

func TestGenMask(t *testing.T) {
	tests := []struct {
		h, l     uint
		expected uint8
	}{
		{2, 0, 0x07},
		{5, 4, 0x30},
		{6, 3, 0x78},
		{7, 2, 0xfc},
		{7, 6, 0xc0},
		{7, 0, 0xff},
		{3, 3, 0x08},
	}
	for _, test := range tests {
		if got := GenMask(test.h, test.l); got != test.expected {
			t.Errorf("GenMask(%d, %d)=%#02x expected %#02x", test.h, test.l, got, test.expected)
		}
	}
	if Bit(5) != 0x20 {
		t.Errorf("Bit(5)=%#02x", Bit(5))
	}
}

func TestPackUnpack(t *testing.T) {
	f := MustField(GenMask(5, 4))
	if got := f.Pack(2); got != 0x20 {
		t.Errorf("Pack(2)=%#02x expected 0x20", got)
	}
	// Too wide for a two bit field, silently truncated.
	if got := f.Pack(5); got != 0x10 {
		t.Errorf("Pack(5)=%#02x expected 0x10", got)
	}
	if got := f.Unpack(0xee); got != 2 {
		t.Errorf("Unpack(0xee)=%d expected 2", got)
	}
	if f.Max() != 3 {
		t.Errorf("Max()=%d expected 3", f.Max())
	}
}

// Every value that fits the field survives Pack then Unpack, for every
// contiguous mask.
func TestPackUnpackRoundTrip(t *testing.T) {
	for h := uint(0); h < 8; h++ {
		for l := uint(0); l <= h; l++ {
			f := MustField(GenMask(h, l))
			for v := 0; v <= int(f.Max()); v++ {
				if got := f.Unpack(f.Pack(uint8(v))); got != uint8(v) {
					t.Fatalf("%s: round trip of %d gave %d", f, v, got)
				}
			}
		}
	}
}

// Update only ever changes bits inside the field's mask.
func TestUpdatePreservesSiblings(t *testing.T) {
	for h := uint(0); h < 8; h++ {
		for l := uint(0); l <= h; l++ {
			f := MustField(GenMask(h, l))
			for raw := 0; raw < 256; raw++ {
				for v := 0; v < 256; v += 7 {
					got := f.Update(uint8(raw), uint8(v))
					if got&^f.Mask() != uint8(raw)&^f.Mask() {
						t.Fatalf("%s: Update(%#02x, %d)=%#02x touched bits outside the mask", f, raw, v, got)
					}
					if got&f.Mask() != f.Pack(uint8(v)) {
						t.Fatalf("%s: Update(%#02x, %d)=%#02x did not set the field", f, raw, v, got)
					}
				}
			}
		}
	}
}

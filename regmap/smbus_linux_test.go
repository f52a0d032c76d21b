// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package regmap

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type smbusCall struct {
	Write          bool
	Addr, Reg, Val uint8
}

type fakeSMBus struct {
	calls []smbusCall
	regs  map[uint8]uint8
	err   error
}

func (f *fakeSMBus) ReadReg(addr, reg uint8) (uint8, error) {
	f.calls = append(f.calls, smbusCall{Addr: addr, Reg: reg})
	return f.regs[reg], f.err
}

func (f *fakeSMBus) WriteReg(addr, reg, value uint8) error {
	f.calls = append(f.calls, smbusCall{Write: true, Addr: addr, Reg: reg, Val: value})
	return f.err
}

func TestSMBus(t *testing.T) {
	f := &fakeSMBus{regs: map[uint8]uint8{0x01: 0xf0}}
	m := New(&smBus{conn: f, addr: 0x6b}, "chip", 0x10)
	if err := m.UpdateBits(0x01, 0x0f, 0x05); err != nil {
		t.Fatal(err)
	}
	expected := []smbusCall{
		{Addr: 0x6b, Reg: 0x01},
		{Write: true, Addr: 0x6b, Reg: 0x01, Val: 0xf5},
	}
	if diff := cmp.Diff(expected, f.calls); diff != "" {
		t.Errorf("unexpected transfers (-want +got):\n%s", diff)
	}
	if s := m.String(); s != "chip: smbus(0x6b)" {
		t.Errorf("String()=%q", s)
	}
}

func TestSMBusError(t *testing.T) {
	f := &fakeSMBus{err: errors.New("nak")}
	m := New(&smBus{conn: f, addr: 0x64}, "chip", 0x10)
	_, err := m.Read(0x02)
	var terr *TransportError
	if !errors.As(err, &terr) || terr.Op != OpRead || terr.Reg != 0x02 || !errors.Is(err, f.err) {
		t.Fatalf("unexpected error %v", err)
	}
	if err = m.Write(0x03, 1); !errors.Is(err, f.err) {
		t.Fatalf("unexpected error %v", err)
	}
}

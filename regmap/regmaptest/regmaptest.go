// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package regmaptest implements an in-memory register file that satisfies
// regmap.Bus, for testing drivers without recorded bus transcripts.
package regmaptest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/GermanBionicSystems/powerdevices/regmap"
)

// ErrInjected is returned by accesses to a register listed in FailRead or
// FailWrite.
var ErrInjected = errors.New("regmaptest: injected failure")

// IO is one register access seen by a Registers bus.
type IO struct {
	Write bool
	Reg   uint8
	Value uint8
}

func (io IO) String() string {
	if io.Write {
		return fmt.Sprintf("W[%#02x]=%#02x", io.Reg, io.Value)
	}
	return fmt.Sprintf("R[%#02x]=%#02x", io.Reg, io.Value)
}

// Registers is a fake 256 byte register file.
//
// Reads and writes to registers listed in FailRead/FailWrite fail with
// ErrInjected. Failed accesses are still logged in Ops so a test can check
// that a sequence kept going after an error.
type Registers struct {
	mu        sync.Mutex
	Regs      [256]uint8
	FailRead  map[uint8]bool
	FailWrite map[uint8]bool
	Ops       []IO
}

// ReadReg implements regmap.Bus.
func (r *Registers) ReadReg(reg uint8) (uint8, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.Regs[reg]
	r.Ops = append(r.Ops, IO{Reg: reg, Value: v})
	if r.FailRead[reg] {
		return 0, ErrInjected
	}
	return v, nil
}

// WriteReg implements regmap.Bus.
func (r *Registers) WriteReg(reg, value uint8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Ops = append(r.Ops, IO{Write: true, Reg: reg, Value: value})
	if r.FailWrite[reg] {
		return ErrInjected
	}
	r.Regs[reg] = value
	return nil
}

// Writes returns the logged writes, in order.
func (r *Registers) Writes() []IO {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []IO
	for _, io := range r.Ops {
		if io.Write {
			out = append(out, io)
		}
	}
	return out
}

// Reset clears the access log.
func (r *Registers) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Ops = nil
}

func (r *Registers) String() string {
	return "regmaptest.Registers"
}

var _ regmap.Bus = &Registers{}

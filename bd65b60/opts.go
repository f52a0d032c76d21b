// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bd65b60

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/GermanBionicSystems/powerdevices/props"
)

// Outputs selects which of the two LED strings are driven.
type Outputs byte

const (
	OutputsNone Outputs = iota
	OutputsLED1
	OutputsLED2
	OutputsBoth
)

func (o Outputs) String() string {
	switch o {
	case OutputsNone:
		return "none"
	case OutputsLED1:
		return "led1"
	case OutputsLED2:
		return "led2"
	case OutputsBoth:
		return "both"
	}
	return fmt.Sprintf("Outputs(%d)", byte(o))
}

// OVP is the over-voltage protection threshold of the boost converter. The
// values are the codes of the OVP field.
type OVP byte

const (
	OVP25V OVP = iota
	OVP30V
	OVP35V
)

// Volts returns the threshold in volts.
func (o OVP) Volts() int {
	return 25 + 5*int(o)
}

func (o OVP) String() string {
	if o > OVP35V {
		return fmt.Sprintf("OVP(%d)", byte(o))
	}
	return fmt.Sprintf("%dV", o.Volts())
}

// PowerState is the state of the chip's output.
type PowerState byte

const (
	Off PowerState = iota
	On
	// Keep leaves the chip as the bootloader or a previous owner left it: no
	// soft reset is issued while configuring.
	Keep
)

func (s PowerState) String() string {
	switch s {
	case Off:
		return "off"
	case On:
		return "on"
	case Keep:
		return "keep"
	}
	return fmt.Sprintf("PowerState(%d)", byte(s))
}

// Opts holds the configuration applied by New.
type Opts struct {
	Outputs      Outputs
	OVP          OVP
	DefaultState PowerState
	// Logger receives failures that cannot be returned, for example from
	// Shutdown. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultOpts drives both strings with the highest OVP and leaves the output
// off.
var DefaultOpts = Opts{
	Outputs:      OutputsBoth,
	OVP:          OVP35V,
	DefaultState: Off,
}

const (
	propSelect       = "select"
	propDefaultState = "default-state"
	propOVP          = "ovp"
)

// Values of the "select" property, as used by device tree bindings.
const (
	SelectNone uint32 = 0x00
	SelectLED1 uint32 = 0x01
	SelectLED2 uint32 = 0x04
	SelectBoth        = SelectLED1 | SelectLED2
)

var (
	errInvalidSelect = errors.New("must be a combination of 0x01 and 0x04")
	errInvalidState  = errors.New(`must be "on", "off" or "keep"`)
	errInvalidOVP    = errors.New("must be 25, 30 or 35")
)

func configError(property string, err error) error {
	return &props.ConfigurationError{Device: "bd65b60", Property: property, Err: err}
}

// OptsFromProperties builds Opts from device properties.
//
// "select" is required. "default-state" defaults to "off" and "ovp" (in
// volts) defaults to 35 when absent. A property that is present but cannot
// be read or holds an invalid value is an error.
func OptsFromProperties(p props.Source) (*Opts, error) {
	opts := DefaultOpts

	if !p.Present(propSelect) {
		return nil, configError(propSelect, props.ErrAbsent)
	}
	sel, err := p.U32(propSelect)
	if err != nil {
		return nil, configError(propSelect, err)
	}
	if sel&^SelectBoth != 0 {
		return nil, configError(propSelect, errInvalidSelect)
	}
	opts.Outputs = outputsFromSelect(sel)

	if p.Present(propDefaultState) {
		s, err := p.String(propDefaultState)
		if err != nil {
			return nil, configError(propDefaultState, err)
		}
		switch s {
		case "keep":
			opts.DefaultState = Keep
		case "on":
			opts.DefaultState = On
		case "off":
			opts.DefaultState = Off
		default:
			return nil, configError(propDefaultState, errInvalidState)
		}
	}

	if p.Present(propOVP) {
		v, err := p.U32(propOVP)
		if err != nil {
			return nil, configError(propOVP, err)
		}
		switch v {
		case 25:
			opts.OVP = OVP25V
		case 30:
			opts.OVP = OVP30V
		case 35:
			opts.OVP = OVP35V
		default:
			return nil, configError(propOVP, errInvalidOVP)
		}
	}
	return &opts, nil
}

func outputsFromSelect(sel uint32) Outputs {
	var o Outputs
	if sel&SelectLED1 != 0 {
		o |= OutputsLED1
	}
	if sel&SelectLED2 != 0 {
		o |= OutputsLED2
	}
	return o
}

func (o *Opts) validate() error {
	if o.Outputs > OutputsBoth {
		return configError(propSelect, fmt.Errorf("invalid outputs %s", o.Outputs))
	}
	if o.OVP > OVP35V {
		return configError(propOVP, fmt.Errorf("invalid threshold %s", o.OVP))
	}
	if o.DefaultState > Keep {
		return configError(propDefaultState, fmt.Errorf("invalid state %s", o.DefaultState))
	}
	return nil
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package props supplies the initial configuration of devices as named
// properties, the way a device tree node does.
//
// A property can be absent, or present but unreadable (wrong type or
// malformed). Drivers tell the two apart so optional properties fall back to
// a default while broken ones are reported.
package props

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrAbsent is returned when reading a property that is not set.
	ErrAbsent = errors.New("props: property absent")
	// ErrUnreadable is returned when a property is set but cannot be read as
	// the requested type.
	ErrUnreadable = errors.New("props: property unreadable")
)

// Source is a read-only set of named properties.
type Source interface {
	Present(name string) bool
	U32(name string) (uint32, error)
	String(name string) (string, error)
}

// ConfigurationError reports a required property that is missing, or a
// property whose value is outside what the device accepts.
type ConfigurationError struct {
	Device   string
	Property string
	Err      error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: property %q: %v", e.Device, e.Property, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Map is a Source backed by a map. Values may be any integer type or a
// string. Strings holding a decimal or 0x prefixed hexadecimal number are
// also readable with U32.
type Map map[string]any

// Present implements Source.
func (m Map) Present(name string) bool {
	_, ok := m[name]
	return ok
}

// U32 implements Source.
func (m Map) U32(name string) (uint32, error) {
	v, ok := m[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrAbsent, name)
	}
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int8:
		n = int64(x)
	case int16:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint:
		n = int64(x)
	case uint8:
		n = int64(x)
	case uint16:
		n = int64(x)
	case uint32:
		return x, nil
	case uint64:
		if x > math.MaxUint32 {
			return 0, fmt.Errorf("%w: %s: %d overflows uint32", ErrUnreadable, name, x)
		}
		return uint32(x), nil
	case string:
		u, err := parseUint(x)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrUnreadable, name, err)
		}
		return u, nil
	default:
		return 0, fmt.Errorf("%w: %s: %T is not an integer", ErrUnreadable, name, v)
	}
	if n < 0 || n > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %s: %d out of uint32 range", ErrUnreadable, name, n)
	}
	return uint32(n), nil
}

// String implements Source.
func (m Map) String(name string) (string, error) {
	v, ok := m[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrAbsent, name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s: %T is not a string", ErrUnreadable, name, v)
	}
	return s, nil
}

func parseUint(s string) (uint32, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	base := 10
	if strings.HasPrefix(s, "0x") {
		s = s[2:]
		base = 16
	}
	v, err := strconv.ParseUint(s, base, 32)
	return uint32(v), err
}

var _ Source = Map{}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package props

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Board describes the devices wired to a board, in the order they are listed
// in the board file.
//
// A board file looks like:
//
//	bus: "1"
//	devices:
//	  - name: backlight
//	    compatible: rohm,bd65b60
//	    addr: 0x64
//	    select: 5
//	    default-state: "on"
//	    ovp: 30
//	  - name: charger
//	    compatible: onsemi,fan54041
//	    addr: 0x6b
type Board struct {
	// Bus is the default I²C bus name, as understood by i2creg.Open.
	Bus     string
	Devices []Node
}

// Node is one device of a Board.
type Node struct {
	Name       string
	Compatible string
	// Bus overrides Board.Bus when set.
	Bus  string
	Addr uint16
	// Properties holds every other key of the node.
	Properties Map
}

// Props returns the node's properties as a Source.
func (n *Node) Props() Source {
	return n.Properties
}

var errNoCompatible = errors.New("props: node has no compatible string")

type boardFile struct {
	Bus     string           `yaml:"bus"`
	Devices []map[string]any `yaml:"devices"`
}

// LoadBoard decodes a YAML board description.
func LoadBoard(r io.Reader) (*Board, error) {
	var f boardFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("props: decoding board: %w", err)
	}
	b := &Board{Bus: f.Bus}
	for i, raw := range f.Devices {
		p := Map(raw)
		n := Node{Name: fmt.Sprintf("device%d", i), Properties: Map{}}
		for k, v := range p {
			switch k {
			case "name", "compatible", "bus", "addr":
			default:
				n.Properties[k] = v
			}
		}
		if p.Present("name") {
			s, err := p.String("name")
			if err != nil {
				return nil, err
			}
			n.Name = s
		}
		s, err := p.String("compatible")
		if err != nil {
			return nil, fmt.Errorf("%w: %s", errNoCompatible, n.Name)
		}
		n.Compatible = s
		if p.Present("bus") {
			if n.Bus, err = p.String("bus"); err != nil {
				return nil, err
			}
		}
		if p.Present("addr") {
			a, err := p.U32("addr")
			if err != nil {
				return nil, err
			}
			if a > 0x3ff {
				return nil, &ConfigurationError{Device: n.Name, Property: "addr", Err: fmt.Errorf("%#x is not an I²C address", a)}
			}
			n.Addr = uint16(a)
		}
		b.Devices = append(b.Devices, n)
	}
	return b, nil
}

// ReadBoardFile loads a board description from the file at path.
func ReadBoardFile(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBoard(bytes.NewReader(data))
}

// Find returns the first node matching any of the compatible strings, or nil.
func (b *Board) Find(compatible ...string) *Node {
	for i := range b.Devices {
		for _, c := range compatible {
			if b.Devices[i].Compatible == c {
				return &b.Devices[i]
			}
		}
	}
	return nil
}

// BusFor returns the bus name the node is attached to.
func (b *Board) BusFor(n *Node) string {
	if n.Bus != "" {
		return n.Bus
	}
	return b.Bus
}

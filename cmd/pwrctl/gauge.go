// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
)

// gauge draws a brightness level as a row of colored blocks on an ANSI
// terminal.
type gauge struct {
	w       io.Writer
	width   int
	palette *ansi256.Palette
	buf     bytes.Buffer
}

func newGauge(w io.Writer, width int) *gauge {
	return &gauge{w: w, width: width, palette: ansi256.Default}
}

// draw renders level out of full. Lit cells fade from dim to full yellow;
// unlit cells are dark grey.
func (g *gauge) draw(label string, level, full uint8) error {
	lit := 0
	if full != 0 {
		lit = (int(level)*g.width + int(full)/2) / int(full)
	}
	g.buf.Reset()
	_, _ = g.buf.WriteString("\r\033[0m")
	for i := 0; i < g.width; i++ {
		c := color.NRGBA{0x20, 0x20, 0x20, 0xff}
		if i < lit {
			v := uint8(0x40 + (0xbf*(i+1))/g.width)
			c = color.NRGBA{v, v, 0, 0xff}
		}
		_, _ = io.WriteString(&g.buf, g.palette.Block(c))
	}
	_, _ = fmt.Fprintf(&g.buf, "\033[0m %s %3d/%d\n", label, level, full)
	_, err := g.buf.WriteTo(g.w)
	return err
}

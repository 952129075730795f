// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termscreen implements a 2D display.Drawer that outputs to a
// terminal using ANSI 256 color codes.
//
// Each character cell shows the average color of a Step x 2*Step block of
// pixels, which roughly keeps the aspect ratio of the panel. Useful to run
// the panel on a machine with no TFT attached.
package termscreen

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	W, H    int
	Palette *ansi256.Palette
	// Step is the width in pixels of a character cell. Defaults to 2.
	Step int
	// Writer receives a full frame after each Draw. nil means the console.
	Writer io.Writer

	_ struct{}
}

// Dev is a display emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette
	step    int

	img *image.RGBA
	buf bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.Writer
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	step := opts.Step
	if step < 1 {
		step = 2
	}
	return &Dev{
		w:       w,
		palette: *p,
		step:    step,
		img:     image.NewRGBA(image.Rect(0, 0, opts.W, opts.H)),
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("TermScreen{%s}", d.img.Rect.Max)
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so the console is not left corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// Write accepts a full frame of raw RGB pixels and writes it to the console.
func (d *Dev) Write(pixels []byte) (int, error) {
	r := d.img.Rect
	if len(pixels) != 3*r.Dx()*r.Dy() {
		return 0, errors.New("termscreen: invalid RGB stream length")
	}
	for i := 0; i < len(pixels)/3; i++ {
		d.img.Pix[4*i] = pixels[3*i]
		d.img.Pix[4*i+1] = pixels[3*i+1]
		d.img.Pix[4*i+2] = pixels[3*i+2]
		d.img.Pix[4*i+3] = 255
	}
	if err := d.refresh(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.img.Rect
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	// draw.Draw clips r to the screen and moves sp along with it.
	draw.Draw(d.img, r, src, sp, draw.Src)
	return d.refresh()
}

// Frame returns the current content as ANSI colored lines.
func (d *Dev) Frame() string {
	var b bytes.Buffer
	d.render(&b)
	return b.String()
}

func (d *Dev) refresh() error {
	// Reuse the buffer to not allocate on each frame.
	d.buf.Reset()
	_, _ = d.buf.WriteString("\033[H")
	d.render(&d.buf)
	_, err := d.buf.WriteTo(d.w)
	return err
}

func (d *Dev) render(b *bytes.Buffer) {
	r := d.img.Rect
	cw, ch := d.step, 2*d.step
	for y := r.Min.Y; y < r.Max.Y; y += ch {
		for x := r.Min.X; x < r.Max.X; x += cw {
			c := d.average(image.Rect(x, y, x+cw, y+ch).Intersect(r))
			_, _ = io.WriteString(b, d.palette.Block(c))
		}
		_, _ = b.WriteString("\033[0m\n")
	}
}

func (d *Dev) average(r image.Rectangle) color.NRGBA {
	var sr, sg, sb, n int
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := d.img.RGBAAt(x, y)
			sr += int(c.R)
			sg += int(c.G)
			sb += int(c.B)
			n++
		}
	}
	if n == 0 {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{byte(sr / n), byte(sg / n), byte(sb / n), 255}
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}

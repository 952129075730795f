// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package canvas implements a render.Surface over any display.Drawer.
//
// Drawing happens in an in-memory RGBA frame buffer. Flush sends the
// rectangle touched since the previous flush to the display, so a display
// with partial window support only receives what changed.
//
// Text uses the fixed 7x13 X11 font from golang.org/x/image, scaled up by
// pixel replication.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/display"
)

// Canvas buffers drawing for a display.Drawer.
type Canvas struct {
	dst    display.Drawer
	buf    *image.RGBA
	face   *basicfont.Face
	damage image.Rectangle
}

// New returns a Canvas covering the bounds of dst.
func New(dst display.Drawer) *Canvas {
	r := dst.Bounds()
	return &Canvas{
		dst:  dst,
		buf:  image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy())),
		face: basicfont.Face7x13,
	}
}

func (c *Canvas) String() string {
	return fmt.Sprintf("canvas.Canvas{%s}", c.dst)
}

// Halt implements conn.Resource.
func (c *Canvas) Halt() error {
	return c.dst.Halt()
}

// Size implements render.Surface.
func (c *Canvas) Size() (int, int) {
	r := c.buf.Bounds()
	return r.Dx(), r.Dy()
}

// GlyphSize implements render.Glypher.
func (c *Canvas) GlyphSize() (int, int) {
	return c.face.Advance, c.face.Height
}

// Clear implements render.Surface.
func (c *Canvas) Clear(r image.Rectangle, col color.RGBA) error {
	r = r.Intersect(c.buf.Bounds())
	draw.Draw(c.buf, r, &image.Uniform{col}, image.Point{}, draw.Src)
	c.touch(r)
	return nil
}

// DrawText implements render.Surface.
//
// Glyphs are rasterized at their native size in a transparent scratch image
// which is then scaled over the frame buffer.
func (c *Canvas) DrawText(s string, at image.Point, size int, col color.RGBA) error {
	if s == "" {
		return nil
	}
	if size < 1 {
		size = 1
	}
	n := 0
	for range s {
		n++
	}
	gw, gh := c.GlyphSize()
	scratch := image.NewRGBA(image.Rect(0, 0, n*gw, gh))
	d := font.Drawer{
		Dst:  scratch,
		Src:  &image.Uniform{col},
		Face: c.face,
		Dot:  fixed.P(0, c.face.Ascent),
	}
	d.DrawString(s)
	dr := image.Rect(at.X, at.Y, at.X+n*gw*size, at.Y+gh*size)
	xdraw.NearestNeighbor.Scale(c.buf, dr, scratch, scratch.Bounds(), xdraw.Over, nil)
	c.touch(dr)
	return nil
}

// DrawLine implements render.Surface.
func (c *Canvas) DrawLine(p0, p1 image.Point, col color.RGBA) error {
	dx := abs(p1.X - p0.X)
	dy := -abs(p1.Y - p0.Y)
	sx, sy := 1, 1
	if p0.X > p1.X {
		sx = -1
	}
	if p0.Y > p1.Y {
		sy = -1
	}
	e := dx + dy
	for p := p0; ; {
		if p.In(c.buf.Bounds()) {
			c.buf.SetRGBA(p.X, p.Y, col)
		}
		if p == p1 {
			break
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			p.X += sx
		}
		if e2 <= dx {
			e += dx
			p.Y += sy
		}
	}
	r := image.Rect(p0.X, p0.Y, p1.X, p1.Y)
	r.Max = r.Max.Add(image.Pt(1, 1))
	c.touch(r)
	return nil
}

// Flush sends the modified area to the display.
func (c *Canvas) Flush() error {
	if c.damage.Empty() {
		return nil
	}
	r := c.damage
	if err := c.dst.Draw(r, c.buf, r.Min); err != nil {
		return fmt.Errorf("canvas: %w", err)
	}
	c.damage = image.Rectangle{}
	return nil
}

// Invalidate marks the whole frame for the next Flush.
func (c *Canvas) Invalidate() {
	c.touch(c.buf.Bounds())
}

// Image returns the frame buffer.
func (c *Canvas) Image() *image.RGBA {
	return c.buf
}

func (c *Canvas) touch(r image.Rectangle) {
	r = r.Intersect(c.buf.Bounds())
	if r.Empty() {
		return
	}
	c.damage = c.damage.Union(r)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

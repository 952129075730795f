// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package canvas

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/GermanBionicSystems/radiopanel/render"
	"github.com/google/go-cmp/cmp"
)

// fakeDisplay records the rectangles it was asked to draw.
type fakeDisplay struct {
	w, h  int
	rects []image.Rectangle
	last  *image.RGBA
	err   error
}

func (f *fakeDisplay) String() string          { return "fake" }
func (f *fakeDisplay) Halt() error             { return nil }
func (f *fakeDisplay) ColorModel() color.Model { return color.RGBAModel }
func (f *fakeDisplay) Bounds() image.Rectangle { return image.Rect(0, 0, f.w, f.h) }

func (f *fakeDisplay) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if f.err != nil {
		return f.err
	}
	f.rects = append(f.rects, r)
	f.last = src.(*image.RGBA)
	return nil
}

var (
	_ render.Surface = &Canvas{}
	_ render.Glypher = &Canvas{}
	_ render.Flusher = &Canvas{}
)

var red = color.RGBA{255, 0, 0, 255}

func TestClearFlush(t *testing.T) {
	d := &fakeDisplay{w: 160, h: 128}
	c := New(d)
	if w, h := c.Size(); w != 160 || h != 128 {
		t.Fatalf("Size() = %d, %d", w, h)
	}
	if err := c.Flush(); err != nil || len(d.rects) != 0 {
		t.Fatalf("empty flush: %v %v", err, d.rects)
	}
	_ = c.Clear(image.Rect(10, 10, 20, 20), red)
	_ = c.Clear(image.Rect(150, 120, 200, 200), red)
	if err := c.Flush(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(d.rects, []image.Rectangle{image.Rect(10, 10, 160, 128)}); diff != "" {
		t.Fatalf("(-got +want):\n%s", diff)
	}
	if got := d.last.RGBAAt(15, 15); got != red {
		t.Fatalf("pixel = %v", got)
	}
	if got := d.last.RGBAAt(25, 25); got != (color.RGBA{}) {
		t.Fatalf("pixel outside = %v", got)
	}
	if err := c.Flush(); err != nil || len(d.rects) != 1 {
		t.Fatal("second flush sent data")
	}
}

func TestFlushErrorKeepsDamage(t *testing.T) {
	d := &fakeDisplay{w: 32, h: 32, err: errors.New("bus")}
	c := New(d)
	_ = c.Clear(image.Rect(0, 0, 4, 4), red)
	if err := c.Flush(); err == nil {
		t.Fatal("expected error")
	}
	d.err = nil
	if err := c.Flush(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(d.rects, []image.Rectangle{image.Rect(0, 0, 4, 4)}); diff != "" {
		t.Fatalf("(-got +want):\n%s", diff)
	}
}

func TestDrawLine(t *testing.T) {
	for _, tc := range []struct {
		name   string
		p0, p1 image.Point
		want   []image.Point
	}{
		{"horizontal", image.Pt(2, 1), image.Pt(5, 1), []image.Point{{2, 1}, {3, 1}, {4, 1}, {5, 1}}},
		{"reversed", image.Pt(5, 1), image.Pt(2, 1), []image.Point{{2, 1}, {3, 1}, {4, 1}, {5, 1}}},
		{"vertical", image.Pt(0, 0), image.Pt(0, 2), []image.Point{{0, 0}, {0, 1}, {0, 2}}},
		{"diagonal", image.Pt(1, 1), image.Pt(3, 3), []image.Point{{1, 1}, {2, 2}, {3, 3}}},
		{"dot", image.Pt(4, 4), image.Pt(4, 4), []image.Point{{4, 4}}},
		{"clipped", image.Pt(6, 0), image.Pt(9, 0), []image.Point{{6, 0}, {7, 0}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := New(&fakeDisplay{w: 8, h: 8})
			_ = c.DrawLine(tc.p0, tc.p1, red)
			var got []image.Point
			b := c.Image().Bounds()
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					if c.Image().RGBAAt(x, y) == red {
						got = append(got, image.Pt(x, y))
					}
				}
			}
			// Scan order is row major.
			if diff := cmp.Diff(got, tc.want); diff != "" {
				t.Fatalf("(-got +want):\n%s", diff)
			}
		})
	}
}

func TestDrawText(t *testing.T) {
	d := &fakeDisplay{w: 64, h: 32}
	c := New(d)
	if w, h := c.GlyphSize(); w != 7 || h != 13 {
		t.Fatalf("GlyphSize() = %d, %d", w, h)
	}
	if err := c.DrawText("HI", image.Pt(2, 3), 2, red); err != nil {
		t.Fatal(err)
	}
	lit := 0
	b := c.Image().Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c.Image().RGBAAt(x, y) != (color.RGBA{}) {
				if !image.Pt(x, y).In(image.Rect(2, 3, 2+28, 3+26)) {
					t.Fatalf("pixel %d,%d lit outside the text box", x, y)
				}
				lit++
			}
		}
	}
	if lit == 0 || lit%4 != 0 {
		t.Fatalf("%d pixels lit, want a positive multiple of 4", lit)
	}
	if err := c.Flush(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(d.rects, []image.Rectangle{image.Rect(2, 3, 30, 29)}); diff != "" {
		t.Fatalf("(-got +want):\n%s", diff)
	}
}

func TestInvalidate(t *testing.T) {
	d := &fakeDisplay{w: 16, h: 8}
	c := New(d)
	c.Invalidate()
	if err := c.Flush(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(d.rects, []image.Rectangle{image.Rect(0, 0, 16, 8)}); diff != "" {
		t.Fatalf("(-got +want):\n%s", diff)
	}
}

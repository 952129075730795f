// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/GermanBionicSystems/radiopanel/render"
	"github.com/GermanBionicSystems/radiopanel/ui"
)

var (
	_ render.Surface = &Screen{}
	_ render.Glypher = &Screen{}
)

func TestClear(t *testing.T) {
	s, err := New(32, 16)
	if err != nil {
		t.Fatal(err)
	}
	red := color.RGBA{255, 0, 0, 255}
	_ = s.Clear(image.Rect(4, 4, 8, 8), red)
	if got := s.Image().RGBAAt(5, 5); got != red {
		t.Fatalf("inside = %v", got)
	}
	if got := s.Image().RGBAAt(10, 10); got != (color.RGBA{0, 0, 0, 255}) {
		t.Fatalf("outside = %v", got)
	}
}

func TestDrawText(t *testing.T) {
	s, err := New(64, 32)
	if err != nil {
		t.Fatal(err)
	}
	_ = s.DrawText("W", image.Pt(2, 2), 1, color.RGBA{255, 255, 255, 255})
	lit := 0
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			if s.Image().RGBAAt(x, y).R != 0 {
				lit++
				if x > 2+2*Cell.X || y > 2+2*Cell.Y {
					t.Fatalf("pixel %d,%d far outside the glyph cell", x, y)
				}
			}
		}
	}
	if lit == 0 {
		t.Fatal("nothing drawn")
	}
}

func TestRenderPNG(t *testing.T) {
	s, err := New(160, 128)
	if err != nil {
		t.Fatal(err)
	}
	r := render.New(s, &render.DefaultOpts)
	var d ui.Dirty
	v := ui.Snapshot{Screen: ui.Frequency, Hz: 104200000, Editing: true, Cursor: 2, Modulation: "AM", Power: "LOW"}
	if err := r.ForceRedraw(v, &d); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 160, 128) {
		t.Fatalf("bounds %v", img.Bounds())
	}
}

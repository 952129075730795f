// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package preview renders the panel UI to an anti-aliased image, for
// documentation and design reviews.
//
// It implements render.Surface with github.com/fogleman/gg and the Go Mono
// font, so screenshots can be produced without a display attached.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// Cell is the glyph cell reported to the renderer. Go Mono at 12 pixels
// advances by a little more than 7 pixels.
var Cell = image.Point{X: 7, Y: 13}

// fontPx is the font size in pixels for a text size of 1.
const fontPx = 12

// Screen is an in-memory Surface.
type Screen struct {
	img   *image.RGBA
	dc    *gg.Context
	font  *truetype.Font
	faces map[int]font.Face
}

// New returns a w x h Screen filled with black.
func New(w, h int) (*Screen, error) {
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	s := &Screen{
		img:   img,
		dc:    gg.NewContextForRGBA(img),
		font:  f,
		faces: map[int]font.Face{},
	}
	s.dc.SetColor(color.Black)
	s.dc.Clear()
	return s, nil
}

func (s *Screen) face(size int) font.Face {
	if size < 1 {
		size = 1
	}
	f, ok := s.faces[size]
	if !ok {
		f = truetype.NewFace(s.font, &truetype.Options{Size: float64(fontPx * size), DPI: 72, Hinting: font.HintingFull})
		s.faces[size] = f
	}
	return f
}

// Size implements render.Surface.
func (s *Screen) Size() (int, int) {
	return s.dc.Width(), s.dc.Height()
}

// GlyphSize implements render.Glypher.
func (s *Screen) GlyphSize() (int, int) {
	return Cell.X, Cell.Y
}

// Clear implements render.Surface.
func (s *Screen) Clear(r image.Rectangle, c color.RGBA) error {
	s.dc.SetColor(c)
	s.dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	s.dc.Fill()
	return nil
}

// DrawText implements render.Surface. at is the top left corner of the
// glyph cells.
func (s *Screen) DrawText(text string, at image.Point, size int, c color.RGBA) error {
	f := s.face(size)
	s.dc.SetFontFace(f)
	s.dc.SetColor(c)
	s.dc.DrawString(text, float64(at.X), float64(at.Y+f.Metrics().Ascent.Ceil()))
	return nil
}

// DrawLine implements render.Surface.
func (s *Screen) DrawLine(p0, p1 image.Point, c color.RGBA) error {
	s.dc.SetColor(c)
	s.dc.SetLineWidth(1)
	// Pixel centers, so that a one pixel line is crisp.
	s.dc.DrawLine(float64(p0.X)+0.5, float64(p0.Y)+0.5, float64(p1.X)+0.5, float64(p1.Y)+0.5)
	s.dc.Stroke()
	return nil
}

// Image returns the rendered image.
func (s *Screen) Image() *image.RGBA {
	return s.img
}

// SavePNG writes the image to path.
func (s *Screen) SavePNG(path string) error {
	return s.dc.SavePNG(path)
}

// EncodePNG writes the image to w.
func (s *Screen) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

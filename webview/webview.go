// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package webview mirrors the panel display over HTTP.
//
// Mirror is a display.Drawer and an http.Handler. Each GET request receives
// the current frame followed by a new one every time the display changes, as
// a "multipart/x-mixed-replace" stream (MJPEG) that browsers show inline.
// PNG is the default since it keeps the small fonts sharp; "?format=jpeg"
// selects JPEG and "?once=1" returns a single image.
package webview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"sync"

	"periph.io/x/conn/v3/display"
)

// Opts configures a Mirror.
type Opts struct {
	W, H   int
	Format Format
	// JPEGQuality defaults to jpeg.DefaultQuality.
	JPEGQuality int
}

// Mirror keeps a copy of the display and streams it to the viewers.
type Mirror struct {
	format  Format
	jpegOpt jpeg.Options
	pngEnc  png.Encoder

	mu      sync.Mutex
	img     *image.RGBA
	frames  map[Format][]byte
	viewers map[*viewer]struct{}
}

type viewer struct {
	changed chan struct{}
	closed  chan struct{}
}

// New returns a black Mirror.
func New(opts *Opts) *Mirror {
	img := image.NewRGBA(image.Rect(0, 0, opts.W, opts.H))
	draw.Draw(img, img.Rect, image.Black, image.Point{}, draw.Src)
	q := opts.JPEGQuality
	if q <= 0 {
		q = jpeg.DefaultQuality
	}
	return &Mirror{
		format:  opts.Format,
		jpegOpt: jpeg.Options{Quality: q},
		pngEnc:  png.Encoder{CompressionLevel: png.BestSpeed},
		img:     img,
		frames:  map[Format][]byte{},
		viewers: map[*viewer]struct{}{},
	}
}

func (m *Mirror) String() string {
	return fmt.Sprintf("webview.Mirror{%s}", m.img.Rect.Max)
}

// Halt implements conn.Resource. It ends every running stream.
func (m *Mirror) Halt() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for v := range m.viewers {
		close(v.closed)
		delete(m.viewers, v)
	}
	return nil
}

// ColorModel implements display.Drawer.
func (m *Mirror) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements display.Drawer.
func (m *Mirror) Bounds() image.Rectangle {
	return m.img.Rect
}

// Draw implements display.Drawer.
func (m *Mirror) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// draw.Draw clips r to the mirror and moves sp along with it.
	draw.Draw(m.img, r, src, sp, draw.Src)
	clear(m.frames)
	for v := range m.viewers {
		select {
		case v.changed <- struct{}{}:
		default:
		}
	}
	return nil
}

// Frame returns the current image encoded as f. The encoding is cached
// until the next Draw.
func (m *Mirror) Frame(f Format) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.frames[f]; ok {
		return b, nil
	}
	var buf bytes.Buffer
	var err error
	switch f {
	case PNG:
		err = m.pngEnc.Encode(&buf, m.img)
	case JPEG:
		err = jpeg.Encode(&buf, m.img, &m.jpegOpt)
	default:
		err = fmt.Errorf("webview: unknown format %s", f)
	}
	if err != nil {
		return nil, err
	}
	m.frames[f] = buf.Bytes()
	return m.frames[f], nil
}

// Viewers returns the number of open streams.
func (m *Mirror) Viewers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.viewers)
}

func (m *Mirror) attach() *viewer {
	v := &viewer{changed: make(chan struct{}, 1), closed: make(chan struct{})}
	m.mu.Lock()
	m.viewers[v] = struct{}{}
	m.mu.Unlock()
	return v
}

func (m *Mirror) detach(v *viewer) {
	m.mu.Lock()
	delete(m.viewers, v)
	m.mu.Unlock()
}

var _ display.Drawer = &Mirror{}

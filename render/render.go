// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package render

import (
	"fmt"
	"image"
	"image/color"
	"unicode/utf8"

	"github.com/GermanBionicSystems/radiopanel/frequency"
	"github.com/GermanBionicSystems/radiopanel/ui"
)

// Surface is a drawing target with integer scaled text.
type Surface interface {
	// Size returns the drawable area in pixels.
	Size() (w, h int)
	Clear(r image.Rectangle, c color.RGBA) error
	// DrawText draws s with its top left corner at at, each glyph pixel being
	// size x size pixels.
	DrawText(s string, at image.Point, size int, c color.RGBA) error
	// DrawLine draws a one pixel line, both end points included.
	DrawLine(p0, p1 image.Point, c color.RGBA) error
}

// Glypher is implemented by a Surface whose glyph cell differs from 6x8.
type Glypher interface {
	GlyphSize() (w, h int)
}

// Flusher is implemented by a Surface that buffers drawing. Flush is called
// after each zone.
type Flusher interface {
	Flush() error
}

// Theme is the color and text size scheme.
type Theme struct {
	Background   color.RGBA
	HeaderText   color.RGBA
	ValueText    color.RGBA
	UnitText     color.RGBA
	FooterActive color.RGBA
	FooterIdle   color.RGBA
	Line         color.RGBA
	Cursor       color.RGBA
	Toast        color.RGBA
	RadioOn      color.RGBA
	RadioOff     color.RGBA

	HeaderSize int
	ValueSize  int
	UnitSize   int
	FooterSize int
	ToastSize  int
}

// Layout is the zone geometry in pixels.
type Layout struct {
	HeaderHeight int
	FooterHeight int
	// Margin is the inset of the header text and of the footer labels from
	// the top of their zone.
	Margin int
	// FooterStartX and FooterSpacing place the three screen labels.
	FooterStartX  int
	FooterSpacing int
	// IndicatorInset is the gap between the power indicator and the right
	// edge.
	IndicatorInset int
}

// Labels holds every string the renderer draws.
type Labels struct {
	Titles [3]string
	Footer [3]string
	Toast  string
	Unit   string
	On     string
	Off    string
}

// Opts configures a Renderer.
type Opts struct {
	Theme  Theme
	Layout Layout
	Labels Labels
}

// DefaultOpts is tuned for a 160x128 display with a 7x13 font.
var DefaultOpts = Opts{
	Theme: Theme{
		Background:   color.RGBA{0, 0, 0, 255},
		HeaderText:   color.RGBA{0, 255, 255, 255},
		ValueText:    color.RGBA{255, 255, 255, 255},
		UnitText:     color.RGBA{180, 180, 180, 255},
		FooterActive: color.RGBA{0, 255, 255, 255},
		FooterIdle:   color.RGBA{160, 160, 160, 255},
		Line:         color.RGBA{80, 80, 80, 255},
		Cursor:       color.RGBA{255, 255, 0, 255},
		Toast:        color.RGBA{0, 255, 0, 255},
		RadioOn:      color.RGBA{0, 255, 0, 255},
		RadioOff:     color.RGBA{255, 0, 0, 255},
		HeaderSize:   1,
		ValueSize:    2,
		UnitSize:     1,
		FooterSize:   1,
		ToastSize:    1,
	},
	Layout: Layout{
		HeaderHeight:   28,
		FooterHeight:   22,
		Margin:         6,
		FooterStartX:   10,
		FooterSpacing:  40,
		IndicatorInset: 16,
	},
	Labels: Labels{
		Titles: [3]string{"Frequency", "Modulation", "Power"},
		Footer: [3]string{"FRQ", "MOD", "PWR"},
		Toast:  "Value saved",
		Unit:   "MHz",
		On:     "ON",
		Off:    "OFF",
	},
}

// Renderer redraws dirty zones.
type Renderer struct {
	s      Surface
	opts   Opts
	gw, gh int
}

// New returns a Renderer drawing on s.
func New(s Surface, opts *Opts) *Renderer {
	r := &Renderer{s: s, opts: *opts, gw: 6, gh: 8}
	if g, ok := s.(Glypher); ok {
		r.gw, r.gh = g.GlyphSize()
	}
	return r
}

func (r *Renderer) String() string {
	return fmt.Sprintf("render.Renderer{%v}", r.s)
}

// Render redraws the zones flagged in d, clearing each flag once its zone
// was drawn and flushed.
//
// It stops at the first failure; the failed zone and the ones after it stay
// flagged.
func (r *Renderer) Render(v ui.Snapshot, d *ui.Dirty) error {
	f, _ := r.s.(Flusher)
	for _, z := range ui.Zones {
		if !d.Is(z) {
			continue
		}
		eh := errorHandler{s: r.s}
		switch z {
		case ui.Header:
			r.header(&eh, v)
		case ui.Value:
			r.value(&eh, v)
		case ui.Footer:
			r.footer(&eh, v)
		}
		if eh.err == nil && f != nil {
			eh.err = f.Flush()
		}
		if eh.err != nil {
			return fmt.Errorf("render: %s: %w", z, eh.err)
		}
		d.Clear(z)
	}
	return nil
}

// ForceRedraw flags every zone and renders.
func (r *Renderer) ForceRedraw(v ui.Snapshot, d *ui.Dirty) error {
	d.Mark(ui.AllZones)
	return r.Render(v, d)
}

// ZoneRect returns the rectangle covered by a single zone.
func (r *Renderer) ZoneRect(z ui.Zone) image.Rectangle {
	w, h := r.s.Size()
	l := &r.opts.Layout
	switch z {
	case ui.Header:
		return image.Rect(0, 0, w, l.HeaderHeight)
	case ui.Value:
		return image.Rect(0, l.HeaderHeight, w, h-l.FooterHeight)
	case ui.Footer:
		return image.Rect(0, h-l.FooterHeight, w, h)
	default:
		return image.Rectangle{}
	}
}

func (r *Renderer) textW(s string, size int) int {
	return utf8.RuneCountInString(s) * r.gw * size
}

func (r *Renderer) textH(size int) int {
	return r.gh * size
}

func (r *Renderer) header(eh *errorHandler, v ui.Snapshot) {
	w, _ := r.s.Size()
	t := &r.opts.Theme
	l := &r.opts.Layout
	eh.clear(r.ZoneRect(ui.Header), t.Background)
	if v.Toast {
		msg := r.opts.Labels.Toast
		x := (w - r.textW(msg, t.ToastSize)) / 2
		if x < l.Margin {
			x = l.Margin
		}
		eh.text(msg, image.Pt(x, l.Margin), t.ToastSize, t.Toast)
	} else {
		eh.text(r.title(v.Screen), image.Pt(l.Margin, l.Margin), t.HeaderSize, t.HeaderText)
	}
	y := l.HeaderHeight - 1
	eh.line(image.Pt(0, y), image.Pt(w-1, y), t.Line)
}

func (r *Renderer) title(s ui.Screen) string {
	if s < 0 || int(s) >= len(r.opts.Labels.Titles) {
		return ""
	}
	return r.opts.Labels.Titles[s]
}

func (r *Renderer) value(eh *errorHandler, v ui.Snapshot) {
	eh.clear(r.ZoneRect(ui.Value), r.opts.Theme.Background)
	switch v.Screen {
	case ui.Frequency:
		r.frequency(eh, v)
	case ui.Modulation:
		r.listValue(eh, v.Modulation, v.Editing)
	case ui.Power:
		r.listValue(eh, v.Power, v.Editing)
	}
}

// cursorColumn maps a digit place to its character column in "DDD.DDD".
func cursorColumn(cursor int) int {
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= frequency.Digits {
		cursor = frequency.Digits - 1
	}
	if cursor <= 2 {
		return cursor
	}
	return cursor + 1
}

func (r *Renderer) frequency(eh *errorHandler, v ui.Snapshot) {
	w, h := r.s.Size()
	t := &r.opts.Theme
	s := frequency.Format(v.Hz)
	unit := r.opts.Labels.Unit
	gap := 2 * t.ValueSize
	valueW := r.textW(s, t.ValueSize)
	total := valueW + gap + r.textW(unit, t.UnitSize)

	x := (w - total) / 2
	y := h/2 - r.textH(t.ValueSize)/2
	eh.text(s, image.Pt(x, y), t.ValueSize, t.ValueText)
	// The unit shares the value's baseline.
	unitY := y + r.textH(t.ValueSize) - r.textH(t.UnitSize)
	eh.text(unit, image.Pt(x+valueW+gap, unitY), t.UnitSize, t.UnitText)

	if v.Editing {
		cw := r.gw * t.ValueSize
		x0 := x + cursorColumn(v.Cursor)*cw
		uy := y + r.textH(t.ValueSize) + t.ValueSize
		eh.line(image.Pt(x0, uy), image.Pt(x0+cw-2, uy), t.Cursor)
	}
}

func (r *Renderer) listValue(eh *errorHandler, s string, editing bool) {
	w, h := r.s.Size()
	t := &r.opts.Theme
	size := t.ValueSize + 1
	tw := r.textW(s, size)
	th := r.textH(size)
	x := (w - tw) / 2
	y := h/2 - th/2
	eh.text(s, image.Pt(x, y), size, t.ValueText)
	if editing {
		uy := y + th + size
		eh.line(image.Pt(x, uy), image.Pt(x+tw-2, uy), t.Cursor)
	}
}

func (r *Renderer) footer(eh *errorHandler, v ui.Snapshot) {
	w, h := r.s.Size()
	t := &r.opts.Theme
	l := &r.opts.Layout
	y0 := h - l.FooterHeight
	eh.clear(r.ZoneRect(ui.Footer), t.Background)
	eh.line(image.Pt(0, y0), image.Pt(w-1, y0), t.Line)

	y := y0 + l.Margin
	for i, label := range r.opts.Labels.Footer {
		c := t.FooterIdle
		if v.Focus == ui.Focus(i) {
			c = t.FooterActive
		}
		eh.text(label, image.Pt(l.FooterStartX+i*l.FooterSpacing, y), t.FooterSize, c)
	}

	label, c := r.opts.Labels.Off, t.RadioOff
	if v.RadioOn {
		label, c = r.opts.Labels.On, t.RadioOn
	}
	if v.Focus == ui.FocusPowerToggle {
		c = t.FooterActive
	}
	x := w - r.textW(label, t.FooterSize) - l.IndicatorInset
	eh.text(label, image.Pt(x, y), t.FooterSize, c)
}

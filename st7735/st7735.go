// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7735

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

const (
	_SWRESET = 0x01
	_SLPOUT  = 0x11
	_NORON   = 0x13
	_INVOFF  = 0x20
	_INVON   = 0x21
	_DISPOFF = 0x28
	_DISPON  = 0x29
	_CASET   = 0x2A
	_RASET   = 0x2B
	_RAMWR   = 0x2C
	_MADCTL  = 0x36
	_COLMOD  = 0x3A
)

// MADCTL bits.
const (
	_MY  = 0x80
	_MX  = 0x40
	_MV  = 0x20
	_BGR = 0x08
)

// Rotation is the orientation of the frame buffer relative to the panel.
type Rotation byte

// Rotations, clockwise in 90° steps.
const (
	Portrait Rotation = iota
	Landscape
	PortraitFlipped
	LandscapeFlipped
)

func (r Rotation) madctl() byte {
	switch r {
	case Landscape:
		return _MY | _MV
	case PortraitFlipped:
		return 0
	case LandscapeFlipped:
		return _MX | _MV
	default:
		return _MX | _MY
	}
}

// Opts defines the options for the device.
type Opts struct {
	// W and H are the size of the frame buffer in the chosen rotation.
	W int
	H int
	// ColOffset and RowOffset shift the address window, for panels smaller
	// than the controller RAM.
	ColOffset int
	RowOffset int
	Rotation  Rotation
	// BGR must be set for panels with blue and red subpixels swapped, which
	// is the case of most modules.
	BGR bool
	// Invert enables display inversion, needed by some IPS panels.
	Invert bool
	// Freq is the SPI clock. The controller accepts up to 15MHz on writes.
	Freq physic.Frequency
}

// DefaultOpts is for the common 1.8" 160x128 module in landscape.
var DefaultOpts = Opts{
	W:        160,
	H:        128,
	Rotation: Landscape,
	BGR:      true,
	Freq:     15 * physic.MegaHertz,
}

// sleep is replaced in tests.
var sleep = time.Sleep

// Dev is an open handle to the display controller.
type Dev struct {
	c    conn.Conn
	dc   gpio.PinOut
	rst  gpio.PinOut
	opts Opts
	rect image.Rectangle

	maxTxSize int
	pixels    []byte
	halted    bool
}

// NewSPI returns a Dev object that communicates over SPI to a ST7735 display
// controller and initializes it.
//
// rst may be nil when the reset line is not connected; a software reset is
// always issued.
func NewSPI(p spi.Port, dc, rst gpio.PinOut, opts *Opts) (*Dev, error) {
	if dc == nil || dc == gpio.INVALID {
		return nil, errors.New("st7735: dc is required, 3-wire mode is not supported")
	}
	if opts.W <= 0 || opts.H <= 0 || opts.W > 162 || opts.H > 162 {
		return nil, fmt.Errorf("st7735: invalid size %dx%d", opts.W, opts.H)
	}
	f := opts.Freq
	if f == 0 {
		f = DefaultOpts.Freq
	}
	c, err := p.Connect(f, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("st7735: %w", err)
	}
	return newDev(c, dc, rst, opts)
}

func newDev(c conn.Conn, dc, rst gpio.PinOut, opts *Opts) (*Dev, error) {
	d := &Dev{
		c:         c,
		dc:        dc,
		rst:       rst,
		opts:      *opts,
		rect:      image.Rect(0, 0, opts.W, opts.H),
		maxTxSize: 4096,
	}
	if limits, ok := c.(conn.Limits); ok {
		if s := limits.MaxTxSize(); s > 0 {
			d.maxTxSize = s
		}
	}
	if err := d.init(); err != nil {
		return nil, fmt.Errorf("st7735: %w", err)
	}
	return d, nil
}

func (d *Dev) init() error {
	eh := errorHandler{d: d}
	if d.rst != nil {
		eh.rstOut(gpio.High)
		sleep(5 * time.Millisecond)
		eh.rstOut(gpio.Low)
		sleep(20 * time.Millisecond)
		eh.rstOut(gpio.High)
		sleep(150 * time.Millisecond)
	}
	eh.sendCommand(_SWRESET)
	sleep(150 * time.Millisecond)
	eh.sendCommand(_SLPOUT)
	sleep(255 * time.Millisecond)
	eh.sendCommand(_COLMOD)
	eh.sendData([]byte{0x05})
	sleep(10 * time.Millisecond)
	eh.sendCommand(_MADCTL)
	eh.sendData([]byte{d.madctl()})
	if d.opts.Invert {
		eh.sendCommand(_INVON)
	} else {
		eh.sendCommand(_INVOFF)
	}
	eh.sendCommand(_NORON)
	sleep(10 * time.Millisecond)
	eh.sendCommand(_DISPON)
	sleep(100 * time.Millisecond)
	return eh.err
}

func (d *Dev) madctl() byte {
	m := d.opts.Rotation.madctl()
	if d.opts.BGR {
		m |= _BGR
	}
	return m
}

func (d *Dev) String() string {
	return fmt.Sprintf("st7735.Dev{%s, %s, %s}", d.c, d.dc, d.rect.Max)
}

// ColorModel implements display.Drawer.
//
// Colors are truncated to RGB565 on the wire.
func (d *Dev) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw implements display.Drawer.
//
// Only the rectangle r is transferred. It draws synchronously.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	orig := r
	r = r.Intersect(d.rect)
	if r.Empty() {
		return nil
	}
	sp = sp.Add(r.Min.Sub(orig.Min))
	n := 2 * r.Dx() * r.Dy()
	if cap(d.pixels) < n {
		d.pixels = make([]byte, n)
	}
	px := d.pixels[:n]
	i := 0
	if img, ok := src.(*image.RGBA); ok {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				c := img.RGBAAt(sp.X+x-r.Min.X, sp.Y+y-r.Min.Y)
				px[i], px[i+1] = rgb565(c.R, c.G, c.B)
				i += 2
			}
		}
	} else {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				r16, g16, b16, _ := src.At(sp.X+x-r.Min.X, sp.Y+y-r.Min.Y).RGBA()
				px[i], px[i+1] = rgb565(byte(r16>>8), byte(g16>>8), byte(b16>>8))
				i += 2
			}
		}
	}
	eh := errorHandler{d: d}
	eh.setWindow(r)
	eh.sendCommand(_RAMWR)
	eh.sendData(px)
	if eh.err != nil {
		return fmt.Errorf("st7735: %w", eh.err)
	}
	return nil
}

// Halt turns off the display.
//
// Sending any other command afterward reenables the display.
func (d *Dev) Halt() error {
	if d.halted {
		return nil
	}
	eh := errorHandler{d: d}
	eh.sendCommand(_DISPOFF)
	if eh.err == nil {
		d.halted = true
	}
	return eh.err
}

// Invert the display colors.
func (d *Dev) Invert(on bool) error {
	eh := errorHandler{d: d}
	if on {
		eh.sendCommand(_INVON)
	} else {
		eh.sendCommand(_INVOFF)
	}
	return eh.err
}

// rgb565 packs a color big endian.
func rgb565(r, g, b byte) (byte, byte) {
	v := uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3
	return byte(v >> 8), byte(v)
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}

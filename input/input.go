// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package input gathers the panel's two navigation buttons and its
// push-button rotary encoder behind a single polled source of one-shot
// events.
//
// Every accessor consumes its event: a second call in the same tick returns
// false or zero.
package input

import (
	"errors"
	"fmt"

	"github.com/GermanBionicSystems/radiopanel/debounce"
	"github.com/GermanBionicSystems/radiopanel/quadrature"
	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Pins names the GPIO lines as known to gpioreg.
type Pins struct {
	Left     string
	Right    string
	EncoderA string
	EncoderB string
	Button   string
}

// DefaultPins is a Raspberry Pi header assignment.
var DefaultPins = Pins{
	Left:     "GPIO5",
	Right:    "GPIO6",
	EncoderA: "GPIO17",
	EncoderB: "GPIO27",
	Button:   "GPIO22",
}

// Opts configures the debounce engines and the encoder.
type Opts struct {
	Button  debounce.Opts
	Encoder quadrature.Opts
}

// DefaultOpts uses the defaults of the underlying packages.
var DefaultOpts = Opts{
	Button:  debounce.DefaultOpts,
	Encoder: quadrature.DefaultOpts,
}

// Aggregator samples all inputs once per tick.
type Aggregator struct {
	left, right, button *debounce.Button
	enc                 *quadrature.Decoder
}

// New returns an Aggregator over already configured inputs.
func New(left, right, button *debounce.Button, enc *quadrature.Decoder) *Aggregator {
	return &Aggregator{left: left, right: right, button: button, enc: enc}
}

// Open resolves the pins by name and configures them.
func Open(p Pins, clk clockwork.Clock, opts *Opts) (*Aggregator, error) {
	lookup := func(name string) (gpio.PinIO, error) {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, fmt.Errorf("input: no pin %q", name)
		}
		return pin, nil
	}
	var pins [5]gpio.PinIO
	for i, name := range []string{p.Left, p.Right, p.Button, p.EncoderA, p.EncoderB} {
		pin, err := lookup(name)
		if err != nil {
			return nil, err
		}
		pins[i] = pin
	}
	return FromPins(pins[0], pins[1], pins[2], pins[3], pins[4], clk, opts)
}

// FromPins builds an Aggregator over the given pins.
func FromPins(left, right, button, encA, encB gpio.PinIn, clk clockwork.Clock, opts *Opts) (*Aggregator, error) {
	var btns [3]*debounce.Button
	for i, pin := range []gpio.PinIn{left, right, button} {
		b, err := debounce.New(pin, clk, &opts.Button)
		if err != nil {
			return nil, fmt.Errorf("input: %w", err)
		}
		btns[i] = b
	}
	enc, err := quadrature.New(encA, encB, clk, &opts.Encoder)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	return New(btns[0], btns[1], btns[2], enc), nil
}

func (a *Aggregator) String() string {
	return fmt.Sprintf("input.Aggregator{%s, %s, %s, %s}", a.left, a.right, a.button, a.enc)
}

// Halt implements conn.Resource.
func (a *Aggregator) Halt() error {
	return errors.Join(a.left.Halt(), a.right.Halt(), a.button.Halt(), a.enc.Halt())
}

// Poll samples the encoder first, then the buttons.
func (a *Aggregator) Poll() {
	a.enc.Poll()
	a.button.Poll()
	a.left.Poll()
	a.right.Poll()
}

// LeftPressed consumes a short press of the left button.
func (a *Aggregator) LeftPressed() bool {
	return a.left.Short()
}

// RightPressed consumes a short press of the right button.
func (a *Aggregator) RightPressed() bool {
	return a.right.Short()
}

// LeftLongPressed consumes a long press of the left button.
func (a *Aggregator) LeftLongPressed() bool {
	return a.left.Long()
}

// RightLongPressed consumes a long press of the right button.
func (a *Aggregator) RightLongPressed() bool {
	return a.right.Long()
}

// ButtonPressed consumes a short press of the encoder button.
func (a *Aggregator) ButtonPressed() bool {
	return a.button.Short()
}

// ButtonLongPressed consumes a long press of the encoder button.
func (a *Aggregator) ButtonLongPressed() bool {
	return a.button.Long()
}

// EncoderDelta consumes the steps accumulated by the encoder.
func (a *Aggregator) EncoderDelta() int32 {
	return a.enc.TakeDelta()
}

// LeftDown reports whether the left button is held.
func (a *Aggregator) LeftDown() bool {
	return a.left.IsDown()
}

// RightDown reports whether the right button is held.
func (a *Aggregator) RightDown() bool {
	return a.right.IsDown()
}

// ButtonDown reports whether the encoder button is held.
func (a *Aggregator) ButtonDown() bool {
	return a.button.IsDown()
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package quadrature decodes a two-phase rotary encoder by polling.
//
// Only transitions of phase A are counted, so a typical detented encoder
// produces two counts per detent. Transitions closer together than
// Opts.MinEdgeInterval are dropped to reject contact chatter.
package quadrature

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"
)

// stepPhasesDiffer is the count applied when phase B differs from the new
// level of phase A. Flip its sign to invert the direction of rotation.
const stepPhasesDiffer = +1

// Opts holds the configuration of a Decoder.
type Opts struct {
	// MinEdgeInterval is the minimum time between two accepted edges.
	MinEdgeInterval time.Duration
	// Pull is applied to both phase pins.
	Pull gpio.Pull
}

// DefaultOpts is suitable for the common mechanical encoders with a common
// pin tied to ground.
var DefaultOpts = Opts{
	MinEdgeInterval: 800 * time.Microsecond,
	Pull:            gpio.PullUp,
}

// Decoder accumulates signed detent steps from a quadrature encoder.
type Decoder struct {
	a, b gpio.PinIn
	clk  clockwork.Clock
	opts Opts

	lastA, lastB gpio.Level
	lastEdge     time.Time
	delta        int32
}

// New configures both phase pins as inputs and returns a Decoder.
func New(a, b gpio.PinIn, clk clockwork.Clock, opts *Opts) (*Decoder, error) {
	for _, p := range []gpio.PinIn{a, b} {
		if err := p.In(opts.Pull, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("quadrature: %s: %w", p, err)
		}
	}
	d := &Decoder{a: a, b: b, clk: clk, opts: *opts}
	d.Reset()
	return d, nil
}

func (d *Decoder) String() string {
	return fmt.Sprintf("quadrature.Decoder{%s, %s}", d.a, d.b)
}

// Halt implements conn.Resource.
func (d *Decoder) Halt() error {
	if err := d.a.Halt(); err != nil {
		return err
	}
	return d.b.Halt()
}

// Reset captures the current phase levels and discards the accumulated
// delta. An edge seen right after Reset is subject to the minimum interval.
func (d *Decoder) Reset() {
	d.lastA = d.a.Read()
	d.lastB = d.b.Read()
	d.lastEdge = d.clk.Now()
	d.delta = 0
}

// Poll samples both phases once.
func (d *Decoder) Poll() {
	a := d.a.Read()
	b := d.b.Read()
	if a != d.lastA {
		now := d.clk.Now()
		if now.Sub(d.lastEdge) >= d.opts.MinEdgeInterval {
			if b != a {
				d.delta += stepPhasesDiffer
			} else {
				d.delta -= stepPhasesDiffer
			}
			d.lastEdge = now
		}
	}
	// Rejected edges still move the reference levels.
	d.lastA = a
	d.lastB = b
}

// TakeDelta returns the steps accumulated since the last call and resets the
// accumulator.
func (d *Decoder) TakeDelta() int32 {
	v := d.delta
	d.delta = 0
	return v
}

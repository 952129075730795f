// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package panel runs the control panel: it polls the inputs, steps the UI
// state machine, redraws the dirty zones and forwards the resulting requests
// to the radio.
//
// Everything happens in Tick, from a single goroutine. Nothing in a tick
// blocks except the radio connection attempt.
package panel

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/GermanBionicSystems/radiopanel/render"
	"github.com/GermanBionicSystems/radiopanel/ui"
	"github.com/jonboulle/clockwork"
)

// Input is sampled once per tick before its events are consumed.
type Input interface {
	ui.Input
	Poll()
}

// Radio is the remote device. *radio.Client implements it.
type Radio interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	IsOn() bool
	SetFrequency(ctx context.Context, hz int32) error
	SetModulation(ctx context.Context, i int) error
	SetPower(ctx context.Context, i int) error
	Poll() string
}

// Opts configures a Controller.
type Opts struct {
	// Logger defaults to log.Default().
	Logger *log.Logger
}

// Controller owns the whole panel state.
type Controller struct {
	clk      clockwork.Clock
	in       Input
	machine  *ui.Machine
	renderer *render.Renderer
	radio    Radio
	log      *log.Logger

	dirty     ui.Dirty
	renderErr string
}

// New returns a Controller. Call Start before the first Tick.
func New(clk clockwork.Clock, in Input, m *ui.Machine, r *render.Renderer, radio Radio, opts *Opts) *Controller {
	l := opts.Logger
	if l == nil {
		l = log.Default()
	}
	return &Controller{clk: clk, in: in, machine: m, renderer: r, radio: radio, log: l}
}

func (c *Controller) String() string {
	return fmt.Sprintf("panel.Controller{%s}", c.renderer)
}

// Machine returns the UI state machine.
func (c *Controller) Machine() *ui.Machine {
	return c.machine
}

// Dirty returns the zones still waiting to be redrawn.
func (c *Controller) Dirty() ui.Dirty {
	return c.dirty
}

// Start mirrors the radio state and draws the whole screen.
func (c *Controller) Start() error {
	c.machine.SetRadioOn(c.radio.IsOn(), &c.dirty)
	return c.renderer.ForceRedraw(c.machine.Snapshot(), &c.dirty)
}

// Redraw draws the whole screen on the next Tick.
func (c *Controller) Redraw() {
	c.dirty.Mark(ui.AllZones)
}

// Tick runs one iteration of the control loop.
//
// The renderer error is returned after the radio requests were forwarded;
// zones that failed to draw stay dirty and are retried on the next tick.
func (c *Controller) Tick(ctx context.Context) error {
	c.in.Poll()
	c.machine.Update(c.in, &c.dirty)
	err := c.renderer.Render(c.machine.Snapshot(), &c.dirty)
	c.dispatch(ctx)
	c.radio.Poll()
	return err
}

// Run calls Tick every period until ctx is canceled. A radio left on is
// powered off before returning.
func (c *Controller) Run(ctx context.Context, period time.Duration) error {
	if err := c.Start(); err != nil {
		c.logRender(err)
	}
	t := c.clk.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			if c.radio.IsOn() {
				if err := c.radio.Disconnect(context.WithoutCancel(ctx)); err != nil {
					c.log.Printf("panel: %v", err)
				}
			}
			return ctx.Err()
		case <-t.Chan():
			c.logRender(c.Tick(ctx))
		}
	}
}

// logRender logs a render failure once until it changes or recovers.
func (c *Controller) logRender(err error) {
	s := ""
	if err != nil {
		s = err.Error()
	}
	if s != c.renderErr && s != "" {
		c.log.Printf("panel: %s", s)
	}
	c.renderErr = s
}

func (c *Controller) dispatch(ctx context.Context) {
	if c.machine.TakePowerToggle() {
		c.togglePower(ctx)
	}
	s, ok := c.machine.TakeCommit()
	if !ok {
		return
	}
	if !c.radio.IsOn() {
		c.log.Printf("panel: %s not sent, radio is off", s)
		return
	}
	var err error
	switch s {
	case ui.Frequency:
		err = c.radio.SetFrequency(ctx, c.machine.Frequency().Hz())
	case ui.Modulation:
		err = c.radio.SetModulation(ctx, c.machine.Modulation())
	case ui.Power:
		err = c.radio.SetPower(ctx, c.machine.Power())
	}
	if err != nil {
		c.log.Printf("panel: %s: %v", s, err)
	}
}

func (c *Controller) togglePower(ctx context.Context) {
	if c.radio.IsOn() {
		if err := c.radio.Disconnect(ctx); err != nil {
			c.log.Printf("panel: power off: %v", err)
		}
		c.machine.SetRadioOn(false, &c.dirty)
		return
	}
	err := c.radio.Connect(ctx)
	if err != nil {
		c.log.Printf("panel: power on: %v", err)
	}
	c.machine.SetRadioOn(err == nil && c.radio.IsOn(), &c.dirty)
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package debounce

import (
	"fmt"
	"time"

	"github.com/GermanBionicSystems/radiopanel/event"
	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"
)

// Opts holds the timing and electrical configuration of a Button.
type Opts struct {
	// Debounce is how long a raw level must stay unchanged before it becomes
	// the stable level.
	Debounce time.Duration
	// LongPress is how long the stable level must stay active before a long
	// press fires.
	LongPress time.Duration
	// Pull is passed to the pin's In() call.
	Pull gpio.Pull
	// Active is the level read while the button is pressed.
	Active gpio.Level
}

// DefaultOpts is the recommended configuration for a button wired to ground.
var DefaultOpts = Opts{
	Debounce:  30 * time.Millisecond,
	LongPress: 700 * time.Millisecond,
	Pull:      gpio.PullUp,
	Active:    gpio.Low,
}

// Button is a debounced push-button.
type Button struct {
	pin  gpio.PinIn
	clk  clockwork.Clock
	opts Opts

	stable     gpio.Level
	raw        gpio.Level
	rawChanged time.Time
	pressed    bool
	pressedAt  time.Time
	longFired  bool

	short event.Flag
	long  event.Flag
}

// New configures pin as an input and returns a Button sampling it.
//
// The level read at this point becomes the initial stable level. A button
// that is already held down at start-up produces no event until it was
// released once.
func New(pin gpio.PinIn, clk clockwork.Clock, opts *Opts) (*Button, error) {
	if err := pin.In(opts.Pull, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("debounce: %s: %w", pin, err)
	}
	b := &Button{pin: pin, clk: clk, opts: *opts}
	b.Reset()
	return b, nil
}

func (b *Button) String() string {
	return fmt.Sprintf("debounce.Button{%s}", b.pin)
}

// Halt implements conn.Resource.
func (b *Button) Halt() error {
	return b.pin.Halt()
}

// Reset captures the current pin level as the stable level and drops any
// pending event.
func (b *Button) Reset() {
	l := b.pin.Read()
	b.stable = l
	b.raw = l
	b.rawChanged = b.clk.Now()
	b.pressed = false
	b.pressedAt = time.Time{}
	b.longFired = false
	b.short.Take()
	b.long.Take()
}

// Poll samples the pin once. It must be called on every tick and is the only
// method that changes the debounce state.
func (b *Button) Poll() {
	now := b.clk.Now()
	if l := b.pin.Read(); l != b.raw {
		b.raw = l
		b.rawChanged = now
	}

	if now.Sub(b.rawChanged) > b.opts.Debounce && b.stable != b.raw {
		b.stable = b.raw
		if b.stable == b.opts.Active {
			b.pressed = true
			b.pressedAt = now
			b.longFired = false
		} else {
			if b.pressed && !b.longFired {
				b.short.Raise()
			}
			b.pressed = false
			b.pressedAt = time.Time{}
			b.longFired = false
		}
	}

	// A fired long press suppresses the short press on release.
	if b.stable == b.opts.Active && b.pressed && !b.longFired {
		if now.Sub(b.pressedAt) >= b.opts.LongPress {
			b.longFired = true
			b.long.Raise()
		}
	}
}

// Short reports whether a short press completed since the last call.
func (b *Button) Short() bool {
	return b.short.Take()
}

// Long reports whether a long press fired since the last call.
func (b *Button) Long() bool {
	return b.long.Take()
}

// IsDown reports whether the stable level is the active level.
func (b *Button) IsDown() bool {
	return b.stable == b.opts.Active
}

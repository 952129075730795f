// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package input

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

type rig struct {
	clk                          clockwork.FakeClock
	left, right, btn, encA, encB *gpiotest.Pin
	agg                          *Aggregator
}

func newRig(t *testing.T) *rig {
	t.Helper()
	r := &rig{
		clk:   clockwork.NewFakeClock(),
		left:  &gpiotest.Pin{N: "LEFT", Num: 5},
		right: &gpiotest.Pin{N: "RIGHT", Num: 6},
		btn:   &gpiotest.Pin{N: "BTN", Num: 22},
		encA:  &gpiotest.Pin{N: "A", Num: 17},
		encB:  &gpiotest.Pin{N: "B", Num: 27},
	}
	agg, err := FromPins(r.left, r.right, r.btn, r.encA, r.encB, r.clk, &DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	r.agg = agg
	return r
}

// hold keeps p at l for d, polling every millisecond.
func (r *rig) hold(p *gpiotest.Pin, l gpio.Level, d time.Duration) {
	_ = p.Out(l)
	for i := time.Duration(0); i < d; i += time.Millisecond {
		r.agg.Poll()
		r.clk.Advance(time.Millisecond)
	}
}

type events struct {
	Left, Right, Button, ButtonLong, LeftLong bool
	Delta                                     int32
}

func (r *rig) take() events {
	return events{
		Left:       r.agg.LeftPressed(),
		Right:      r.agg.RightPressed(),
		Button:     r.agg.ButtonPressed(),
		ButtonLong: r.agg.ButtonLongPressed(),
		LeftLong:   r.agg.LeftLongPressed(),
		Delta:      r.agg.EncoderDelta(),
	}
}

func TestEventsAreConsumed(t *testing.T) {
	r := newRig(t)
	r.hold(r.left, gpio.Low, 100*time.Millisecond)
	r.hold(r.left, gpio.High, 100*time.Millisecond)
	if diff := cmp.Diff(r.take(), events{Left: true}); diff != "" {
		t.Fatalf("first take (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(r.take(), events{}); diff != "" {
		t.Fatalf("second take (-got +want):\n%s", diff)
	}
}

func TestButtonLongPress(t *testing.T) {
	r := newRig(t)
	r.hold(r.btn, gpio.Low, time.Second)
	r.hold(r.btn, gpio.High, 100*time.Millisecond)
	if diff := cmp.Diff(r.take(), events{ButtonLong: true}); diff != "" {
		t.Fatalf("(-got +want):\n%s", diff)
	}
}

func TestEncoderDelta(t *testing.T) {
	r := newRig(t)
	for i := 0; i < 3; i++ {
		r.clk.Advance(time.Millisecond)
		next := !r.encA.Read()
		_ = r.encB.Out(!next)
		_ = r.encA.Out(next)
		r.agg.Poll()
	}
	if got := r.agg.EncoderDelta(); got != 3 {
		t.Fatalf("EncoderDelta() = %d, want 3", got)
	}
}

func TestDown(t *testing.T) {
	r := newRig(t)
	r.hold(r.right, gpio.Low, 50*time.Millisecond)
	if !r.agg.RightDown() || r.agg.LeftDown() || r.agg.ButtonDown() {
		t.Fatal("only the right button should be down")
	}
}

func TestOpenUnknownPin(t *testing.T) {
	p := DefaultPins
	p.Left = "NO_SUCH_PIN"
	if _, err := Open(p, clockwork.NewFakeClock(), &DefaultOpts); err == nil {
		t.Fatal("expected error")
	}
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package quadrature

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func newDecoder(t *testing.T) (*Decoder, *gpiotest.Pin, *gpiotest.Pin, clockwork.FakeClock) {
	t.Helper()
	clk := clockwork.NewFakeClock()
	a := &gpiotest.Pin{N: "ENC_A", Num: 17}
	b := &gpiotest.Pin{N: "ENC_B", Num: 27}
	d, err := New(a, b, clk, &DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	return d, a, b, clk
}

// turn produces one A transition with B set up for the requested direction.
func turn(a, b *gpiotest.Pin, forward bool) {
	next := !a.Read()
	if forward {
		_ = b.Out(!next)
	} else {
		_ = b.Out(next)
	}
	_ = a.Out(next)
}

func TestDirection(t *testing.T) {
	for _, tc := range []struct {
		name    string
		forward bool
		want    int32
	}{
		{"forward", true, stepPhasesDiffer},
		{"backward", false, -stepPhasesDiffer},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d, a, b, clk := newDecoder(t)
			for i := 0; i < 4; i++ {
				clk.Advance(time.Millisecond)
				turn(a, b, tc.forward)
				d.Poll()
			}
			if got := d.TakeDelta(); got != 4*tc.want {
				t.Fatalf("TakeDelta() = %d, want %d", got, 4*tc.want)
			}
			if got := d.TakeDelta(); got != 0 {
				t.Fatalf("second TakeDelta() = %d, want 0", got)
			}
		})
	}
}

func TestChatterRejected(t *testing.T) {
	d, a, b, clk := newDecoder(t)
	clk.Advance(time.Millisecond)
	turn(a, b, true)
	d.Poll()
	// Bounces within the minimum interval.
	for i := 0; i < 3; i++ {
		clk.Advance(100 * time.Microsecond)
		turn(a, b, true)
		d.Poll()
	}
	if got := d.TakeDelta(); got != stepPhasesDiffer {
		t.Fatalf("TakeDelta() = %d, want %d", got, stepPhasesDiffer)
	}
}

func TestRejectedEdgeUpdatesLevel(t *testing.T) {
	d, a, b, clk := newDecoder(t)
	// Too early after Reset.
	clk.Advance(100 * time.Microsecond)
	turn(a, b, true)
	d.Poll()
	// No transition of A: polling again after the interval must not count.
	clk.Advance(time.Millisecond)
	d.Poll()
	if got := d.TakeDelta(); got != 0 {
		t.Fatalf("TakeDelta() = %d, want 0", got)
	}
}

func TestBOnlyIgnored(t *testing.T) {
	d, _, b, clk := newDecoder(t)
	for i := 0; i < 5; i++ {
		clk.Advance(time.Millisecond)
		_ = b.Out(!b.Read())
		d.Poll()
	}
	if got := d.TakeDelta(); got != 0 {
		t.Fatalf("TakeDelta() = %d, want 0", got)
	}
}

func TestPulledUp(t *testing.T) {
	_, a, b, _ := newDecoder(t)
	if a.Read() != gpio.High || b.Read() != gpio.High {
		t.Fatal("phases are not pulled up")
	}
}

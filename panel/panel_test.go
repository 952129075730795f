// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package panel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/GermanBionicSystems/radiopanel/radio"
	"github.com/GermanBionicSystems/radiopanel/render"
	"github.com/GermanBionicSystems/radiopanel/ui"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
)

type fakeInput struct {
	left, right, short, long bool
	delta                    int32
	polls                    int
	polled                   chan struct{}
}

func (f *fakeInput) Poll() {
	f.polls++
	if f.polled != nil {
		select {
		case f.polled <- struct{}{}:
		default:
		}
	}
}

func (f *fakeInput) LeftPressed() bool       { return take(&f.left) }
func (f *fakeInput) RightPressed() bool      { return take(&f.right) }
func (f *fakeInput) ButtonPressed() bool     { return take(&f.short) }
func (f *fakeInput) ButtonLongPressed() bool { return take(&f.long) }
func (f *fakeInput) EncoderDelta() int32 {
	d := f.delta
	f.delta = 0
	return d
}

func take(b *bool) bool {
	v := *b
	*b = false
	return v
}

type fakeRadio struct {
	on         bool
	connectErr error
	calls      []string
	polls      int
}

func (f *fakeRadio) Connect(ctx context.Context) error {
	f.calls = append(f.calls, "connect")
	if f.connectErr != nil {
		return f.connectErr
	}
	f.on = true
	return nil
}

func (f *fakeRadio) Disconnect(ctx context.Context) error {
	f.calls = append(f.calls, "disconnect")
	f.on = false
	return nil
}

func (f *fakeRadio) IsOn() bool { return f.on }

func (f *fakeRadio) SetFrequency(ctx context.Context, hz int32) error {
	f.calls = append(f.calls, fmt.Sprintf("frequency %d", hz))
	return nil
}

func (f *fakeRadio) SetModulation(ctx context.Context, i int) error {
	f.calls = append(f.calls, fmt.Sprintf("modulation %d", i))
	return nil
}

func (f *fakeRadio) SetPower(ctx context.Context, i int) error {
	f.calls = append(f.calls, fmt.Sprintf("power %d", i))
	return fmt.Errorf("%w: power level %d", radio.ErrUnsupported, i)
}

func (f *fakeRadio) Poll() string {
	f.polls++
	return ""
}

// surface records the drawn strings and fails on failOn.
type surface struct {
	texts  []string
	failOn string
}

func (s *surface) Size() (int, int) { return 160, 128 }

func (s *surface) Clear(r image.Rectangle, c color.RGBA) error { return nil }

func (s *surface) DrawText(t string, at image.Point, size int, c color.RGBA) error {
	if t == s.failOn {
		return errors.New("bus error")
	}
	s.texts = append(s.texts, t)
	return nil
}

func (s *surface) DrawLine(p0, p1 image.Point, c color.RGBA) error { return nil }

type rig struct {
	clk   clockwork.FakeClock
	in    *fakeInput
	radio *fakeRadio
	s     *surface
	logs  bytes.Buffer
	c     *Controller
}

func newRig(t *testing.T, on bool) *rig {
	t.Helper()
	r := &rig{clk: clockwork.NewFakeClock(), in: &fakeInput{}, radio: &fakeRadio{on: on}, s: &surface{}}
	m, err := ui.New(r.clk, &ui.DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	rd := render.New(r.s, &render.DefaultOpts)
	r.c = New(r.clk, r.in, m, rd, r.radio, &Opts{Logger: log.New(&r.logs, "", 0)})
	if err := r.c.Start(); err != nil {
		t.Fatal(err)
	}
	return r
}

func (r *rig) tick(t *testing.T, in fakeInput) {
	t.Helper()
	in.polled = r.in.polled
	in.polls = r.in.polls
	*r.in = in
	if err := r.c.Tick(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestStart(t *testing.T) {
	r := newRig(t, true)
	if !r.c.Machine().RadioOn() {
		t.Fatal("radio state not mirrored")
	}
	if r.c.Dirty().Any() {
		t.Fatalf("dirty after Start: %s", r.c.Dirty().Zones())
	}
	want := []string{"Frequency", "104.200", "MHz", "FRQ", "MOD", "PWR", "ON"}
	if diff := cmp.Diff(want, r.s.texts); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestTickOrder(t *testing.T) {
	r := newRig(t, false)
	r.tick(t, fakeInput{})
	if r.in.polls != 1 || r.radio.polls != 1 {
		t.Fatalf("input polled %d times, radio polled %d times", r.in.polls, r.radio.polls)
	}
	if len(r.radio.calls) != 0 {
		t.Fatalf("unexpected calls %v", r.radio.calls)
	}
}

func TestPowerToggle(t *testing.T) {
	r := newRig(t, false)
	r.tick(t, fakeInput{left: true})
	if f := r.c.Machine().Snapshot().Focus; f != ui.FocusPowerToggle {
		t.Fatalf("focus = %s", f)
	}

	r.tick(t, fakeInput{short: true})
	if !r.c.Machine().RadioOn() {
		t.Fatal("radio should be on")
	}
	// The footer changed after the render of this tick.
	if !r.c.Dirty().Is(ui.Footer) {
		t.Fatal("footer should be dirty")
	}
	r.s.texts = nil
	r.tick(t, fakeInput{})
	if r.c.Dirty().Any() {
		t.Fatalf("dirty: %s", r.c.Dirty().Zones())
	}
	if diff := cmp.Diff([]string{"FRQ", "MOD", "PWR", "ON"}, r.s.texts); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	r.tick(t, fakeInput{short: true})
	if r.c.Machine().RadioOn() {
		t.Fatal("radio should be off")
	}
	if diff := cmp.Diff([]string{"connect", "disconnect"}, r.radio.calls); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestConnectFailure(t *testing.T) {
	r := newRig(t, false)
	r.radio.connectErr = radio.ErrNotConnected
	r.tick(t, fakeInput{left: true})
	r.tick(t, fakeInput{short: true})
	if r.c.Machine().RadioOn() {
		t.Fatal("radio should stay off")
	}
	if !strings.Contains(r.logs.String(), "panel: power on: radio: not connected") {
		t.Fatalf("log: %q", r.logs.String())
	}
}

func TestCommitWhileOff(t *testing.T) {
	r := newRig(t, false)
	r.tick(t, fakeInput{short: true})
	r.tick(t, fakeInput{delta: 1})
	r.tick(t, fakeInput{long: true})
	if len(r.radio.calls) != 0 {
		t.Fatalf("unexpected calls %v", r.radio.calls)
	}
	if !r.c.Machine().ToastActive() {
		t.Fatal("the toast is shown even when nothing was sent")
	}
	if !strings.Contains(r.logs.String(), "Frequency not sent, radio is off") {
		t.Fatalf("log: %q", r.logs.String())
	}
}

func TestCommitDispatch(t *testing.T) {
	r := newRig(t, true)
	// Frequency, first digit up.
	r.tick(t, fakeInput{short: true})
	r.tick(t, fakeInput{delta: 1})
	r.tick(t, fakeInput{long: true})
	// Modulation, next entry.
	r.tick(t, fakeInput{right: true})
	r.tick(t, fakeInput{short: true})
	r.tick(t, fakeInput{delta: 1})
	r.tick(t, fakeInput{long: true})
	// Power, unchanged.
	r.tick(t, fakeInput{right: true})
	r.tick(t, fakeInput{short: true})
	r.tick(t, fakeInput{long: true})

	want := []string{"frequency 204200000", "modulation 1", "power 0"}
	if diff := cmp.Diff(want, r.radio.calls); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if !strings.Contains(r.logs.String(), "panel: Power: radio: unsupported: power level 0") {
		t.Fatalf("log: %q", r.logs.String())
	}
}

func TestRenderErrorRetried(t *testing.T) {
	r := newRig(t, false)
	r.s.failOn = "ON"
	r.tick(t, fakeInput{left: true})
	r.tick(t, fakeInput{short: true})
	in := fakeInput{}
	*r.in = in
	err := r.c.Tick(context.Background())
	if err == nil || !strings.Contains(err.Error(), "bus error") {
		t.Fatalf("Tick() = %v", err)
	}
	if !r.c.Dirty().Is(ui.Footer) {
		t.Fatal("footer should still be dirty")
	}
	r.s.failOn = ""
	r.tick(t, fakeInput{})
	if r.c.Dirty().Any() {
		t.Fatalf("dirty: %s", r.c.Dirty().Zones())
	}
}

func TestRedraw(t *testing.T) {
	r := newRig(t, false)
	r.c.Redraw()
	if r.c.Dirty().Zones() != ui.AllZones {
		t.Fatalf("dirty: %s", r.c.Dirty().Zones())
	}
	r.tick(t, fakeInput{})
	if r.c.Dirty().Any() {
		t.Fatalf("dirty: %s", r.c.Dirty().Zones())
	}
}

func TestRun(t *testing.T) {
	r := newRig(t, true)
	r.in.polled = make(chan struct{}, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.c.Run(ctx, time.Millisecond)
	}()
	r.clk.BlockUntil(1)
	r.clk.Advance(time.Millisecond)
	select {
	case <-r.in.polled:
	case <-time.After(10 * time.Second):
		t.Fatal("no tick")
	}
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run() = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return")
	}
	if r.radio.on {
		t.Fatal("radio left on")
	}
	if diff := cmp.Diff([]string{"disconnect"}, r.radio.calls); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

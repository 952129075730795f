// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ui implements the panel's menu and edit state machine.
//
// The footer holds four entries: the three editable screens and a power
// toggle. The navigation buttons move the footer focus, the encoder button
// enters edit mode and moves the edit cursor, the encoder changes the edited
// field and a long press on the encoder button commits it.
//
// The Machine never draws. It marks the zones of a Dirty set that its
// changes invalidated and exposes two one-shot requests for whoever talks to
// the radio.
package ui

import (
	"fmt"
	"time"

	"github.com/GermanBionicSystems/radiopanel/event"
	"github.com/GermanBionicSystems/radiopanel/frequency"
	"github.com/jonboulle/clockwork"
)

// Screen is the field shown in the value area.
type Screen int

// Screens.
const (
	Frequency Screen = iota
	Modulation
	Power
)

func (s Screen) String() string {
	switch s {
	case Frequency:
		return "Frequency"
	case Modulation:
		return "Modulation"
	case Power:
		return "Power"
	default:
		return fmt.Sprintf("Screen(%d)", int(s))
	}
}

// Focus is the highlighted footer entry.
type Focus int

// Footer entries, left to right.
const (
	FocusFrequency Focus = iota
	FocusModulation
	FocusPower
	FocusPowerToggle

	focusCount = 4
)

func (f Focus) String() string {
	switch f {
	case FocusFrequency:
		return "FocusFrequency"
	case FocusModulation:
		return "FocusModulation"
	case FocusPower:
		return "FocusPower"
	case FocusPowerToggle:
		return "FocusPowerToggle"
	default:
		return fmt.Sprintf("Focus(%d)", int(f))
	}
}

// Screen returns the screen selected by the entry, if any.
func (f Focus) Screen() (Screen, bool) {
	switch f {
	case FocusFrequency:
		return Frequency, true
	case FocusModulation:
		return Modulation, true
	case FocusPower:
		return Power, true
	default:
		return 0, false
	}
}

// Input is the per tick source of consumable events.
type Input interface {
	LeftPressed() bool
	RightPressed() bool
	ButtonPressed() bool
	ButtonLongPressed() bool
	EncoderDelta() int32
}

// Placeholder is shown for an empty selection list.
const Placeholder = "---"

// Opts is the static configuration of a Machine.
type Opts struct {
	Limits  frequency.Limits
	StartHz int32

	Modulations     []string
	StartModulation int
	PowerLevels     []string
	StartPower      int

	// Toast is how long the confirmation replaces the header after a commit.
	Toast time.Duration
}

// DefaultOpts matches the stock panel.
var DefaultOpts = Opts{
	Limits:      frequency.DefaultLimits,
	StartHz:     104200000,
	Modulations: []string{"AM", "FM", "USB", "LSB", "CW", "DIGI"},
	PowerLevels: []string{"LOW", "MED", "HIGH"},
	Toast:       2 * time.Second,
}

// Snapshot is a copy of everything the renderer needs.
type Snapshot struct {
	Screen     Screen
	Focus      Focus
	Editing    bool
	Cursor     int
	Toast      bool
	RadioOn    bool
	Hz         int32
	Modulation string
	Power      string
}

// Machine is the UI state. It is not safe for concurrent use; it is meant to
// be driven from a single polling loop.
type Machine struct {
	clk  clockwork.Clock
	opts Opts

	screen  Screen
	focus   Focus
	editing bool
	cursor  int

	freq frequency.Value
	mod  int
	pwr  int

	toastUntil time.Time
	// toastShown is the toast state settled by the last Update.
	toastShown bool
	radioOn    bool

	powerToggle event.Flag
	commit      event.Slot[Screen]
}

// New returns a Machine on the frequency screen, not editing.
func New(clk clockwork.Clock, opts *Opts) (*Machine, error) {
	if err := opts.Limits.Validate(); err != nil {
		return nil, fmt.Errorf("ui: %w", err)
	}
	m := &Machine{
		clk:    clk,
		opts:   *opts,
		screen: Frequency,
		focus:  FocusFrequency,
		freq:   frequency.New(opts.StartHz, opts.Limits),
		mod:    wrapIndex(opts.StartModulation, len(opts.Modulations)),
		pwr:    wrapIndex(opts.StartPower, len(opts.PowerLevels)),
	}
	return m, nil
}

// Update consumes the events of one tick and marks the zones to redraw.
//
// Navigation events are consumed even while editing, where they are
// ignored, so a press during an edit does not move the focus once the edit
// ends.
func (m *Machine) Update(in Input, d *Dirty) {
	left := in.LeftPressed()
	right := in.RightPressed()
	if !m.editing {
		if left {
			m.setFocus((m.focus + focusCount - 1) % focusCount)
			d.Mark(AllZones)
		}
		if right {
			m.setFocus((m.focus + 1) % focusCount)
			d.Mark(AllZones)
		}
	}

	if in.ButtonPressed() {
		if !m.editing {
			if m.focus == FocusPowerToggle {
				m.powerToggle.Raise()
			} else {
				m.editing = true
				m.cursor = 0
				d.Mark(Value)
			}
		} else {
			m.nextCursor()
			d.Mark(Value)
		}
	}

	if delta := in.EncoderDelta(); delta != 0 && m.editing {
		m.change(delta)
		d.Mark(Value)
	}

	// A long press outside edit mode would commit a value nobody changed.
	if in.ButtonLongPressed() && m.editing {
		m.editing = false
		m.cursor = 0
		m.toastUntil = m.clk.Now().Add(m.opts.Toast)
		m.commit.Put(m.screen)
		d.Mark(Header | Value)
	}

	active := m.ToastActive()
	if m.toastShown && !active {
		d.Mark(Header)
	}
	m.toastShown = active
}

func (m *Machine) setFocus(f Focus) {
	m.focus = f
	if s, ok := f.Screen(); ok {
		m.screen = s
	}
	m.editing = false
	m.cursor = 0
}

func (m *Machine) nextCursor() {
	if m.screen == Frequency {
		m.cursor = (m.cursor + 1) % frequency.Digits
	} else {
		m.cursor = 0
	}
}

func (m *Machine) change(delta int32) {
	switch m.screen {
	case Frequency:
		m.freq.ApplyStep(m.cursor, delta)
	case Modulation:
		m.mod = advance(m.mod, delta, len(m.opts.Modulations))
	case Power:
		m.pwr = advance(m.pwr, delta, len(m.opts.PowerLevels))
	}
}

// advance moves index i by delta within a list of n entries.
func advance(i int, delta int32, n int) int {
	if n <= 0 {
		return 0
	}
	r := (int64(i) + int64(delta)) % int64(n)
	if r < 0 {
		r += int64(n)
	}
	return int(r)
}

func wrapIndex(i, n int) int {
	return advance(i, 0, n)
}

// ToastActive reports whether the commit confirmation is showing.
func (m *Machine) ToastActive() bool {
	return m.clk.Now().Before(m.toastUntil)
}

// SetRadioOn mirrors the radio power state. The footer is only invalidated
// when the state changes.
func (m *Machine) SetRadioOn(on bool, d *Dirty) {
	if m.radioOn != on {
		m.radioOn = on
		d.Mark(Footer)
	}
}

// RadioOn returns the mirrored radio power state.
func (m *Machine) RadioOn() bool {
	return m.radioOn
}

// TakePowerToggle reports whether the power toggle was activated since the
// last call.
func (m *Machine) TakePowerToggle() bool {
	return m.powerToggle.Take()
}

// TakeCommit returns the screen whose value was committed since the last
// call.
func (m *Machine) TakeCommit() (Screen, bool) {
	return m.commit.Take()
}

// Frequency returns the current frequency.
func (m *Machine) Frequency() frequency.Value {
	return m.freq
}

// Modulation returns the selected modulation index.
func (m *Machine) Modulation() int {
	return m.mod
}

// Power returns the selected power level index.
func (m *Machine) Power() int {
	return m.pwr
}

// Screen returns the current screen.
func (m *Machine) Screen() Screen {
	return m.screen
}

// Editing reports whether edit mode is active.
func (m *Machine) Editing() bool {
	return m.editing
}

// Snapshot returns the state to render, as settled by the last Update.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		Screen:     m.screen,
		Focus:      m.focus,
		Editing:    m.editing,
		Cursor:     m.cursor,
		Toast:      m.toastShown,
		RadioOn:    m.radioOn,
		Hz:         m.freq.Hz(),
		Modulation: entry(m.opts.Modulations, m.mod),
		Power:      entry(m.opts.PowerLevels, m.pwr),
	}
}

func entry(l []string, i int) string {
	if len(l) == 0 {
		return Placeholder
	}
	return l[i]
}

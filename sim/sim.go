// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sim runs the panel in a terminal, with the keyboard standing in
// for the buttons and the encoder.
//
// The inputs are gpiotest pins driven from key presses, the TFT is a
// termscreen and the clock only advances on each simulated tick, so the
// debounce and long press timings behave as on the hardware.
package sim

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/GermanBionicSystems/radiopanel/canvas"
	"github.com/GermanBionicSystems/radiopanel/input"
	"github.com/GermanBionicSystems/radiopanel/panel"
	"github.com/GermanBionicSystems/radiopanel/radio"
	"github.com/GermanBionicSystems/radiopanel/render"
	"github.com/GermanBionicSystems/radiopanel/termscreen"
	"github.com/GermanBionicSystems/radiopanel/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// Opts configures the simulator.
type Opts struct {
	W, H    int
	Machine ui.Opts
	Render  render.Opts
	Input   input.Opts
	// Tick is the simulated polling period.
	Tick time.Duration
	// ShortHold and LongHold are how long a key keeps its button pressed.
	ShortHold time.Duration
	LongHold  time.Duration
	// Radio receives the commands. When nil, a radio.Client configured with
	// RadioOpts is used.
	Radio     panel.Radio
	RadioOpts radio.Opts
	// Loopback replaces the network with an in-process Loopback.
	Loopback bool
	// Step is the termscreen cell width.
	Step int
}

// DefaultOpts simulates the stock panel.
var DefaultOpts = Opts{
	W:         160,
	H:         128,
	Machine:   ui.DefaultOpts,
	Render:    render.DefaultOpts,
	Input:     input.DefaultOpts,
	Tick:      5 * time.Millisecond,
	ShortHold: 60 * time.Millisecond,
	LongHold:  900 * time.Millisecond,
	RadioOpts: radio.DefaultOpts,
	Loopback:  true,
	Step:      2,
}

type tickMsg time.Time

type release struct {
	at  int64
	pin *gpiotest.Pin
}

// Model is a bubbletea model driving a panel.Controller.
type Model struct {
	opts Opts
	clk  clockwork.FakeClock

	left, right, button *gpiotest.Pin
	encA, encB          *gpiotest.Pin

	screen   *termscreen.Dev
	panel    *panel.Controller
	radio    panel.Radio
	loopback *Loopback
	logs     *logTail

	ticks    int64
	releases []release
	turns    []bool
	err      error
	quitting bool

	labelStyle lipgloss.Style
	onStyle    lipgloss.Style
	offStyle   lipgloss.Style
	dimStyle   lipgloss.Style
	errorStyle lipgloss.Style
	helpStyle  lipgloss.Style
}

// New returns a Model showing the initial screen.
func New(opts *Opts) (*Model, error) {
	if opts.Tick <= 0 {
		return nil, fmt.Errorf("sim: invalid tick %s", opts.Tick)
	}
	clk := clockwork.NewFakeClock()
	m := &Model{
		opts:   *opts,
		clk:    clk,
		left:   &gpiotest.Pin{N: "LEFT", Num: 26},
		right:  &gpiotest.Pin{N: "RIGHT", Num: 27},
		button: &gpiotest.Pin{N: "SW", Num: 25},
		encA:   &gpiotest.Pin{N: "CLK", Num: 32},
		encB:   &gpiotest.Pin{N: "DT", Num: 33},
		logs:   &logTail{max: 3},
	}
	in, err := input.FromPins(m.left, m.right, m.button, m.encA, m.encB, clk, &opts.Input)
	if err != nil {
		return nil, err
	}
	mach, err := ui.New(clk, &opts.Machine)
	if err != nil {
		return nil, err
	}
	m.screen = termscreen.New(&termscreen.Opts{W: opts.W, H: opts.H, Step: opts.Step, Writer: io.Discard})
	r := render.New(canvas.New(m.screen), &opts.Render)

	logger := log.New(m.logs, "", 0)
	m.radio = opts.Radio
	if m.radio == nil {
		ro := opts.RadioOpts
		ro.Logger = logger
		if opts.Loopback {
			m.loopback = NewLoopback()
			ro.Dial = m.loopback.Dial
		}
		m.radio = radio.New(&ro)
	}
	m.panel = panel.New(clk, in, mach, r, m.radio, &panel.Opts{Logger: logger})
	m.err = m.panel.Start()

	m.labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	m.onStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	m.offStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	m.dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	m.errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	m.helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	return m, nil
}

// Panel returns the simulated controller.
func (m *Model) Panel() *panel.Controller {
	return m.panel
}

// Loopback returns the fake radio end point, nil when it is not used.
func (m *Model) Loopback() *Loopback {
	return m.loopback
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			if m.radio.IsOn() {
				_ = m.radio.Disconnect(context.Background())
			}
			return m, tea.Quit
		case "left":
			m.press(m.left, m.opts.ShortHold)
		case "right":
			m.press(m.right, m.opts.ShortHold)
		case "enter", " ":
			m.press(m.button, m.opts.ShortHold)
		case "s":
			m.press(m.button, m.opts.LongHold)
		case "up":
			m.turns = append(m.turns, true)
		case "down":
			m.turns = append(m.turns, false)
		case "r":
			m.panel.Redraw()
		}
		return m, nil
	case tickMsg:
		m.Step()
		return m, m.tick()
	}
	return m, nil
}

// Step advances the simulated time by one tick and runs the panel once.
func (m *Model) Step() {
	m.clk.Advance(m.opts.Tick)
	m.ticks++
	kept := m.releases[:0]
	for _, r := range m.releases {
		if r.at <= m.ticks {
			_ = r.pin.Out(gpio.High)
		} else {
			kept = append(kept, r)
		}
	}
	m.releases = kept
	// One encoder edge per tick, the decoder only sees levels.
	if len(m.turns) != 0 {
		m.turn(m.turns[0])
		m.turns = m.turns[1:]
	}
	m.err = m.panel.Tick(context.Background())
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	s := m.panel.Machine().Snapshot()
	power := m.offStyle.Render("OFF")
	if s.RadioOn {
		power = m.onStyle.Render("ON")
	}
	edit := "-"
	if s.Editing {
		edit = fmt.Sprintf("cursor %d", s.Cursor)
	}
	status := m.labelStyle.Render("radio ") + power +
		m.labelStyle.Render(fmt.Sprintf("  screen %s  focus %s  edit %s", s.Screen, s.Focus, edit))
	lines := []string{strings.TrimSuffix(m.screen.Frame(), "\n"), status}
	for _, l := range m.logs.lines {
		lines = append(lines, m.dimStyle.Render(l))
	}
	if m.err != nil {
		lines = append(lines, m.errorStyle.Render(m.err.Error()))
	}
	lines = append(lines, m.helpStyle.Render("←/→ focus  enter press  s hold  ↑/↓ turn  r redraw  q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// press pushes the button down until hold elapsed. A button already held
// is left alone.
func (m *Model) press(p *gpiotest.Pin, hold time.Duration) {
	if p.Read() == gpio.Low {
		return
	}
	_ = p.Out(gpio.Low)
	n := int64((hold + m.opts.Tick - 1) / m.opts.Tick)
	m.releases = append(m.releases, release{at: m.ticks + n, pin: p})
}

// turn produces one encoder edge. Clockwise leaves B opposite to the new A
// level.
func (m *Model) turn(cw bool) {
	next := !m.encA.Read()
	if cw {
		_ = m.encB.Out(!next)
	} else {
		_ = m.encB.Out(next)
	}
	_ = m.encA.Out(next)
}

// logTail keeps the last lines logged.
type logTail struct {
	lines []string
	max   int
}

func (l *logTail) Write(p []byte) (int, error) {
	for _, s := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		l.lines = append(l.lines, s)
	}
	if n := len(l.lines) - l.max; n > 0 {
		l.lines = l.lines[n:]
	}
	return len(p), nil
}

var _ tea.Model = &Model{}

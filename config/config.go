// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the static configuration of the panel.
//
// The configuration is a JSON document overlaid on the defaults: any field
// left out keeps its default value. It is read once at start-up and never
// written back.
package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/GermanBionicSystems/radiopanel/debounce"
	"github.com/GermanBionicSystems/radiopanel/frequency"
	"github.com/GermanBionicSystems/radiopanel/input"
	"github.com/GermanBionicSystems/radiopanel/quadrature"
	"github.com/GermanBionicSystems/radiopanel/radio"
	"github.com/GermanBionicSystems/radiopanel/render"
	"github.com/GermanBionicSystems/radiopanel/st7735"
	"github.com/GermanBionicSystems/radiopanel/ui"
	"github.com/GermanBionicSystems/radiopanel/webview"
	"periph.io/x/conn/v3/physic"
)

// FrequencySettings bounds the editable frequency.
type FrequencySettings struct {
	MinHz   int32 `json:"min_hz"`
	MaxHz   int32 `json:"max_hz"`
	StepHz  int32 `json:"step_hz"`
	StartHz int32 `json:"start_hz"`
	// Policy is "clamp" or "wrap".
	Policy string `json:"policy"`
}

// ListSettings holds the selectable lists.
type ListSettings struct {
	Modulations     []string `json:"modulations"`
	StartModulation int      `json:"start_modulation"`
	PowerLevels     []string `json:"power_levels"`
	StartPower      int      `json:"start_power"`
}

// LayoutSettings is the zone geometry.
type LayoutSettings struct {
	ToastMs      int `json:"toast_ms"`
	HeaderHeight int `json:"header_height"`
	FooterHeight int `json:"footer_height"`
}

// ThemeSettings holds "#rrggbb" colors and integer text sizes.
type ThemeSettings struct {
	Background   string `json:"background"`
	HeaderText   string `json:"header_text"`
	ValueText    string `json:"value_text"`
	UnitText     string `json:"unit_text"`
	FooterActive string `json:"footer_active"`
	FooterIdle   string `json:"footer_idle"`
	Line         string `json:"line"`
	Cursor       string `json:"cursor"`
	Toast        string `json:"toast"`
	RadioOn      string `json:"radio_on"`
	RadioOff     string `json:"radio_off"`
	HeaderSize   int    `json:"header_size"`
	ValueSize    int    `json:"value_size"`
	UnitSize     int    `json:"unit_size"`
	FooterSize   int    `json:"footer_size"`
	ToastSize    int    `json:"toast_size"`
}

// InputSettings names the input pins and their timings.
type InputSettings struct {
	Left             string `json:"left"`
	Right            string `json:"right"`
	Button           string `json:"button"`
	EncoderA         string `json:"encoder_a"`
	EncoderB         string `json:"encoder_b"`
	DebounceMs       int    `json:"debounce_ms"`
	LongPressMs      int    `json:"long_press_ms"`
	EncoderMinEdgeUs int    `json:"encoder_min_edge_us"`
	TickMs           int    `json:"tick_ms"`
}

// DisplaySettings describes the TFT wiring.
type DisplaySettings struct {
	SPIPort   string `json:"spi_port"`
	DC        string `json:"dc"`
	Reset     string `json:"reset"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ColOffset int    `json:"col_offset"`
	RowOffset int    `json:"row_offset"`
	// Rotation is one of "portrait", "landscape", "portrait-flipped" and
	// "landscape-flipped".
	Rotation string `json:"rotation"`
	BGR      bool   `json:"bgr"`
	Invert   bool   `json:"invert"`
	SPIMHz   int    `json:"spi_mhz"`
}

// RadioSettings is the remote device and its command set.
type RadioSettings struct {
	Address       string   `json:"address"`
	DialTimeoutMs int      `json:"dial_timeout_ms"`
	On            string   `json:"on"`
	Off           string   `json:"off"`
	Frequency     string   `json:"frequency"`
	Modulation    []string `json:"modulation"`
	Power         []string `json:"power"`
}

// WebSettings enables the HTTP mirror of the display.
type WebSettings struct {
	// Listen is the HTTP address, e.g. ":8080". Empty disables the mirror.
	Listen string `json:"listen"`
	// Format is "png" or "jpeg".
	Format string `json:"format"`
}

// Config is the main configuration container.
type Config struct {
	Frequency FrequencySettings `json:"frequency"`
	Lists     ListSettings      `json:"lists"`
	Layout    LayoutSettings    `json:"layout"`
	Theme     ThemeSettings     `json:"theme"`
	Input     InputSettings     `json:"input"`
	Display   DisplaySettings   `json:"display"`
	Radio     RadioSettings     `json:"radio"`
	Web       WebSettings       `json:"web"`
}

// Default returns a new Config with default values.
func Default() *Config {
	l := frequency.DefaultLimits
	m := ui.DefaultOpts
	t := render.DefaultOpts.Theme
	d := st7735.DefaultOpts
	r := radio.DefaultOpts
	return &Config{
		Frequency: FrequencySettings{
			MinHz:   l.Min,
			MaxHz:   l.Max,
			StepHz:  l.Step,
			StartHz: m.StartHz,
			Policy:  l.Policy.String(),
		},
		Lists: ListSettings{
			Modulations: append([]string(nil), m.Modulations...),
			PowerLevels: append([]string(nil), m.PowerLevels...),
		},
		Layout: LayoutSettings{
			ToastMs:      int(m.Toast / time.Millisecond),
			HeaderHeight: render.DefaultOpts.Layout.HeaderHeight,
			FooterHeight: render.DefaultOpts.Layout.FooterHeight,
		},
		Theme: ThemeSettings{
			Background:   hex(t.Background),
			HeaderText:   hex(t.HeaderText),
			ValueText:    hex(t.ValueText),
			UnitText:     hex(t.UnitText),
			FooterActive: hex(t.FooterActive),
			FooterIdle:   hex(t.FooterIdle),
			Line:         hex(t.Line),
			Cursor:       hex(t.Cursor),
			Toast:        hex(t.Toast),
			RadioOn:      hex(t.RadioOn),
			RadioOff:     hex(t.RadioOff),
			HeaderSize:   t.HeaderSize,
			ValueSize:    t.ValueSize,
			UnitSize:     t.UnitSize,
			FooterSize:   t.FooterSize,
			ToastSize:    t.ToastSize,
		},
		Input: InputSettings{
			Left:             input.DefaultPins.Left,
			Right:            input.DefaultPins.Right,
			Button:           input.DefaultPins.Button,
			EncoderA:         input.DefaultPins.EncoderA,
			EncoderB:         input.DefaultPins.EncoderB,
			DebounceMs:       int(debounce.DefaultOpts.Debounce / time.Millisecond),
			LongPressMs:      int(debounce.DefaultOpts.LongPress / time.Millisecond),
			EncoderMinEdgeUs: int(quadrature.DefaultOpts.MinEdgeInterval / time.Microsecond),
			TickMs:           1,
		},
		Display: DisplaySettings{
			SPIPort:   "",
			DC:        "GPIO24",
			Reset:     "GPIO25",
			Width:     d.W,
			Height:    d.H,
			ColOffset: d.ColOffset,
			RowOffset: d.RowOffset,
			Rotation:  rotations[d.Rotation],
			BGR:       d.BGR,
			Invert:    d.Invert,
			SPIMHz:    int(d.Freq / physic.MegaHertz),
		},
		Radio: RadioSettings{
			Address:       r.Addr,
			DialTimeoutMs: int(r.DialTimeout / time.Millisecond),
			On:            r.Commands.On,
			Off:           r.Commands.Off,
			Frequency:     r.Commands.Frequency,
			Modulation:    append([]string(nil), r.Commands.Modulation...),
			Power:         append([]string(nil), r.Commands.Power...),
		},
		Web: WebSettings{Format: webview.PNG.String()},
	}
}

// Load reads the configuration at path over the defaults. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns the first inconsistency found.
func (c *Config) Validate() error {
	l, err := c.limits()
	if err != nil {
		return err
	}
	if err := l.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.theme(); err != nil {
		return err
	}
	if _, ok := parseRotation(c.Display.Rotation); !ok {
		return fmt.Errorf("config: unknown rotation %q", c.Display.Rotation)
	}
	if c.Input.TickMs <= 0 {
		return fmt.Errorf("config: tick_ms must be positive, got %d", c.Input.TickMs)
	}
	if c.Layout.HeaderHeight+c.Layout.FooterHeight >= c.Display.Height {
		return fmt.Errorf("config: header and footer leave no room on a %d pixels high display", c.Display.Height)
	}
	if _, err := webview.ParseFormat(c.Web.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Layout.ToastMs < 0 {
		return fmt.Errorf("config: negative toast_ms %d", c.Layout.ToastMs)
	}
	return nil
}

func (c *Config) limits() (frequency.Limits, error) {
	l := frequency.Limits{Min: c.Frequency.MinHz, Max: c.Frequency.MaxHz, Step: c.Frequency.StepHz}
	switch strings.ToLower(c.Frequency.Policy) {
	case "clamp", "":
		l.Policy = frequency.Clamp
	case "wrap":
		l.Policy = frequency.Wrap
	default:
		return l, fmt.Errorf("config: unknown frequency policy %q", c.Frequency.Policy)
	}
	return l, nil
}

// Limits returns the frequency bounds. It assumes Validate succeeded.
func (c *Config) Limits() frequency.Limits {
	l, _ := c.limits()
	return l
}

// MachineOpts returns the UI state machine options.
func (c *Config) MachineOpts() ui.Opts {
	return ui.Opts{
		Limits:          c.Limits(),
		StartHz:         c.Frequency.StartHz,
		Modulations:     c.Lists.Modulations,
		StartModulation: c.Lists.StartModulation,
		PowerLevels:     c.Lists.PowerLevels,
		StartPower:      c.Lists.StartPower,
		Toast:           time.Duration(c.Layout.ToastMs) * time.Millisecond,
	}
}

func (c *Config) theme() (render.Theme, error) {
	t := render.Theme{
		HeaderSize: c.Theme.HeaderSize,
		ValueSize:  c.Theme.ValueSize,
		UnitSize:   c.Theme.UnitSize,
		FooterSize: c.Theme.FooterSize,
		ToastSize:  c.Theme.ToastSize,
	}
	for _, f := range []struct {
		name string
		s    string
		dst  *color.RGBA
	}{
		{"background", c.Theme.Background, &t.Background},
		{"header_text", c.Theme.HeaderText, &t.HeaderText},
		{"value_text", c.Theme.ValueText, &t.ValueText},
		{"unit_text", c.Theme.UnitText, &t.UnitText},
		{"footer_active", c.Theme.FooterActive, &t.FooterActive},
		{"footer_idle", c.Theme.FooterIdle, &t.FooterIdle},
		{"line", c.Theme.Line, &t.Line},
		{"cursor", c.Theme.Cursor, &t.Cursor},
		{"toast", c.Theme.Toast, &t.Toast},
		{"radio_on", c.Theme.RadioOn, &t.RadioOn},
		{"radio_off", c.Theme.RadioOff, &t.RadioOff},
	} {
		v, err := ParseColor(f.s)
		if err != nil {
			return t, fmt.Errorf("config: theme.%s: %w", f.name, err)
		}
		*f.dst = v
	}
	return t, nil
}

// RenderOpts returns the renderer options.
func (c *Config) RenderOpts() render.Opts {
	o := render.DefaultOpts
	o.Theme, _ = c.theme()
	o.Layout.HeaderHeight = c.Layout.HeaderHeight
	o.Layout.FooterHeight = c.Layout.FooterHeight
	return o
}

// InputPins returns the input pin names.
func (c *Config) InputPins() input.Pins {
	return input.Pins{
		Left:     c.Input.Left,
		Right:    c.Input.Right,
		Button:   c.Input.Button,
		EncoderA: c.Input.EncoderA,
		EncoderB: c.Input.EncoderB,
	}
}

// InputOpts returns the debounce and encoder options.
func (c *Config) InputOpts() input.Opts {
	o := input.DefaultOpts
	o.Button.Debounce = time.Duration(c.Input.DebounceMs) * time.Millisecond
	o.Button.LongPress = time.Duration(c.Input.LongPressMs) * time.Millisecond
	o.Encoder.MinEdgeInterval = time.Duration(c.Input.EncoderMinEdgeUs) * time.Microsecond
	return o
}

// Tick returns the polling period.
func (c *Config) Tick() time.Duration {
	return time.Duration(c.Input.TickMs) * time.Millisecond
}

// DisplayOpts returns the TFT options.
func (c *Config) DisplayOpts() st7735.Opts {
	r, _ := parseRotation(c.Display.Rotation)
	return st7735.Opts{
		W:         c.Display.Width,
		H:         c.Display.Height,
		ColOffset: c.Display.ColOffset,
		RowOffset: c.Display.RowOffset,
		Rotation:  r,
		BGR:       c.Display.BGR,
		Invert:    c.Display.Invert,
		Freq:      physic.Frequency(c.Display.SPIMHz) * physic.MegaHertz,
	}
}

// RadioOpts returns the radio client options.
func (c *Config) RadioOpts() radio.Opts {
	o := radio.DefaultOpts
	o.Addr = c.Radio.Address
	o.DialTimeout = time.Duration(c.Radio.DialTimeoutMs) * time.Millisecond
	o.Commands = radio.Commands{
		On:         c.Radio.On,
		Off:        c.Radio.Off,
		Frequency:  c.Radio.Frequency,
		Modulation: c.Radio.Modulation,
		Power:      c.Radio.Power,
	}
	return o
}

// WebOpts returns the HTTP mirror options.
func (c *Config) WebOpts() webview.Opts {
	f, _ := webview.ParseFormat(c.Web.Format)
	return webview.Opts{W: c.Display.Width, H: c.Display.Height, Format: f}
}

var rotations = map[st7735.Rotation]string{
	st7735.Portrait:         "portrait",
	st7735.Landscape:        "landscape",
	st7735.PortraitFlipped:  "portrait-flipped",
	st7735.LandscapeFlipped: "landscape-flipped",
}

func parseRotation(s string) (st7735.Rotation, bool) {
	for r, name := range rotations {
		if strings.EqualFold(s, name) {
			return r, true
		}
	}
	return 0, false
}

// ParseColor parses "#rrggbb" or "rrggbb".
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return color.RGBA{byte(v >> 16), byte(v >> 8), byte(v), 255}, nil
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"github.com/GermanBionicSystems/radiopanel/sim"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var useRadio bool

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the panel in the terminal, driven from the keyboard",
	Long: `Run the panel in the terminal, driven from the keyboard.

Keys:
  left/right  navigation buttons
  enter       short press on the encoder button
  s           long press on the encoder button
  up/down     one encoder step
  r           redraw the whole screen
  q           quit

The commands are sent to an in-process fake radio unless --radio is set.`,
	RunE: runSim,
}

func init() {
	simCmd.Flags().BoolVar(&useRadio, "radio", false, "Send the commands to the configured radio")
}

func simOpts() (*sim.Opts, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	o := sim.DefaultOpts
	o.W = cfg.Display.Width
	o.H = cfg.Display.Height
	o.Machine = cfg.MachineOpts()
	o.Render = cfg.RenderOpts()
	o.Input = cfg.InputOpts()
	o.RadioOpts = cfg.RadioOpts()
	o.Loopback = !useRadio
	return &o, nil
}

func runSim(cmd *cobra.Command, args []string) error {
	o, err := simOpts()
	if err != nil {
		return err
	}
	m, err := sim.New(o)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}

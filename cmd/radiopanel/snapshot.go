// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/GermanBionicSystems/radiopanel/preview"
	"github.com/GermanBionicSystems/radiopanel/render"
	"github.com/GermanBionicSystems/radiopanel/ui"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

var outDir string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Render every screen to PNG files",
	RunE:  runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVar(&outDir, "out", ".", "Output directory")
}

// keys replays one tick worth of input.
type keys struct {
	left, right, short, long bool
	delta                    int32
}

func (k *keys) LeftPressed() bool       { return k.left }
func (k *keys) RightPressed() bool      { return k.right }
func (k *keys) ButtonPressed() bool     { return k.short }
func (k *keys) ButtonLongPressed() bool { return k.long }
func (k *keys) EncoderDelta() int32     { return k.delta }

var shots = []struct {
	name  string
	ticks []keys
}{
	{"frequency", nil},
	{"frequency-edit", []keys{{short: true}, {short: true}, {short: true}, {short: true}, {delta: 2}}},
	{"modulation", []keys{{right: true}}},
	{"modulation-edit", []keys{{right: true}, {short: true}, {delta: 1}}},
	{"power", []keys{{right: true}, {right: true}}},
	{"power-toggle", []keys{{left: true}}},
	{"saved", []keys{{short: true}, {long: true}}},
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	mo := cfg.MachineOpts()
	ro := cfg.RenderOpts()
	for _, s := range shots {
		m, err := ui.New(clockwork.NewFakeClock(), &mo)
		if err != nil {
			return err
		}
		var d ui.Dirty
		for i := range s.ticks {
			m.Update(&s.ticks[i], &d)
		}
		scr, err := preview.New(cfg.Display.Width, cfg.Display.Height)
		if err != nil {
			return err
		}
		if err := render.New(scr, &ro).ForceRedraw(m.Snapshot(), &d); err != nil {
			return err
		}
		path := filepath.Join(outDir, s.name+".png")
		if err := scr.SavePNG(path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

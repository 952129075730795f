// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// radiopanel drives the front panel of a remote controlled radio: a TFT, a
// rotary encoder and three buttons.
package main

import (
	"os"

	"github.com/GermanBionicSystems/radiopanel/config"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "radiopanel",
	Short: "Front panel for a remote controlled radio",
	Long: `Front panel for a remote controlled radio.

The left and right buttons move between the frequency, modulation and power
screens and the radio power switch. A short press on the encoder button
edits the value, turning the encoder changes it and a long press sends it to
the radio.

Examples:
  radiopanel run --config /etc/radiopanel.json
  radiopanel run --console
  radiopanel sim
  radiopanel snapshot --out docs/`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "JSON configuration file, defaults are used when empty")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

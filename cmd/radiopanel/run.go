// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/GermanBionicSystems/radiopanel/canvas"
	"github.com/GermanBionicSystems/radiopanel/config"
	"github.com/GermanBionicSystems/radiopanel/input"
	"github.com/GermanBionicSystems/radiopanel/panel"
	"github.com/GermanBionicSystems/radiopanel/radio"
	"github.com/GermanBionicSystems/radiopanel/render"
	"github.com/GermanBionicSystems/radiopanel/st7735"
	"github.com/GermanBionicSystems/radiopanel/termscreen"
	"github.com/GermanBionicSystems/radiopanel/ui"
	"github.com/GermanBionicSystems/radiopanel/webview"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

var (
	console  bool
	httpAddr string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive the panel hardware",
	RunE:  runPanel,
}

func init() {
	runCmd.Flags().BoolVar(&console, "console", false, "Mirror the display on the terminal instead of the TFT")
	runCmd.Flags().StringVar(&httpAddr, "http", "", "Serve a live view of the display on this address, overrides web.listen")
}

func runPanel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := host.Init(); err != nil {
		return err
	}
	clk := clockwork.NewRealClock()

	inOpts := cfg.InputOpts()
	in, err := input.Open(cfg.InputPins(), clk, &inOpts)
	if err != nil {
		return err
	}
	defer in.Halt()

	var dst display.Drawer
	if console {
		ts := termscreen.New(&termscreen.Opts{W: cfg.Display.Width, H: cfg.Display.Height})
		defer ts.Halt()
		dst = ts
	} else {
		p, err := spireg.Open(cfg.Display.SPIPort)
		if err != nil {
			return err
		}
		defer p.Close()
		dev, err := openDisplay(p, cfg)
		if err != nil {
			return err
		}
		defer dev.Halt()
		dst = dev
	}

	if httpAddr != "" {
		cfg.Web.Listen = httpAddr
	}
	if cfg.Web.Listen != "" {
		wo := cfg.WebOpts()
		mirror := webview.New(&wo)
		defer mirror.Halt()
		srv := &http.Server{Addr: cfg.Web.Listen, Handler: mirror}
		go func() {
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				log.Printf("radiopanel: %v", err)
			}
		}()
		defer srv.Close()
		dst = webview.Tee{dst, mirror}
	}

	mo := cfg.MachineOpts()
	m, err := ui.New(clk, &mo)
	if err != nil {
		return err
	}
	ro := cfg.RenderOpts()
	r := render.New(canvas.New(dst), &ro)
	rco := cfg.RadioOpts()
	rc := radio.New(&rco)
	defer rc.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	p := panel.New(clk, in, m, r, rc, &panel.Opts{})
	if err := p.Run(ctx, cfg.Tick()); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func openDisplay(p spi.Port, cfg *config.Config) (*st7735.Dev, error) {
	dc := gpioreg.ByName(cfg.Display.DC)
	if dc == nil {
		return nil, fmt.Errorf("no pin %q", cfg.Display.DC)
	}
	var rst gpio.PinOut
	if cfg.Display.Reset != "" {
		pin := gpioreg.ByName(cfg.Display.Reset)
		if pin == nil {
			return nil, fmt.Errorf("no pin %q", cfg.Display.Reset)
		}
		rst = pin
	}
	o := cfg.DisplayOpts()
	return st7735.NewSPI(p, dc, rst, &o)
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package webview

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"
)

// Tee is a display.Drawer that forwards every Draw to several displays.
//
// Bounds and ColorModel are the ones of the first display.
type Tee []display.Drawer

func (t Tee) String() string {
	return fmt.Sprintf("webview.Tee%v", []display.Drawer(t))
}

// Halt implements conn.Resource.
func (t Tee) Halt() error {
	var errs []error
	for _, d := range t {
		errs = append(errs, d.Halt())
	}
	return errors.Join(errs...)
}

// ColorModel implements display.Drawer.
func (t Tee) ColorModel() color.Model {
	return t[0].ColorModel()
}

// Bounds implements display.Drawer.
func (t Tee) Bounds() image.Rectangle {
	return t[0].Bounds()
}

// Draw implements display.Drawer. Every display is drawn even if one fails.
func (t Tee) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	var errs []error
	for _, d := range t {
		if err := d.Draw(r, src, sp); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d, err))
		}
	}
	return errors.Join(errs...)
}

var _ display.Drawer = Tee{}

// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package radiopanel is a container for the packages of the radio front
// panel.
//
// The core is hardware independent: debounce, quadrature, frequency, ui and
// render only see periph gpio pins, an injected clock and a drawing surface.
// st7735 and canvas put the result on a TFT, termscreen and preview on a
// terminal or in PNG files, radio forwards the committed values and panel
// ties everything in a single polling loop.
//
// See cmd/radiopanel for the executable.
package radiopanel

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package render draws the panel UI onto a Surface, one zone at a time.
//
// The screen is split in three horizontal zones: a header holding the screen
// title or the commit confirmation, the value area and a footer menu. Only
// the zones flagged in a ui.Dirty set are redrawn, and each redraw starts by
// clearing that zone's rectangle alone. On a slow SPI display this keeps
// updates free of visible flicker.
//
// Text metrics default to a 6x8 pixel glyph cell scaled by an integer factor.
// A Surface with another font reports its cell through Glypher.
package render

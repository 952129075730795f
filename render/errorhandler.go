// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package render

import (
	"image"
	"image/color"
)

// errorHandler is a wrapper for error management.
type errorHandler struct {
	s   Surface
	err error
}

func (eh *errorHandler) clear(r image.Rectangle, c color.RGBA) {
	if eh.err != nil {
		return
	}
	eh.err = eh.s.Clear(r, c)
}

func (eh *errorHandler) text(s string, at image.Point, size int, c color.RGBA) {
	if eh.err != nil {
		return
	}
	eh.err = eh.s.DrawText(s, at, size, c)
}

func (eh *errorHandler) line(p0, p1 image.Point, c color.RGBA) {
	if eh.err != nil {
		return
	}
	eh.err = eh.s.DrawLine(p0, p1, c)
}

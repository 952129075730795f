// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7735

import (
	"image"

	"periph.io/x/conn/v3/gpio"
)

// errorHandler is a wrapper for error management.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.rst.Out(l)
}

func (eh *errorHandler) dcOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.dc.Out(l)
}

func (eh *errorHandler) cTx(w []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.c.Tx(w, nil)
}

// sendCommand turns the display back on first if it was halted.
func (eh *errorHandler) sendCommand(cmd byte) {
	if eh.err != nil {
		return
	}
	eh.dcOut(gpio.Low)
	if eh.d.halted && cmd != _DISPOFF {
		eh.cTx([]byte{_DISPON})
		if eh.err != nil {
			return
		}
		eh.d.halted = false
	}
	eh.cTx([]byte{cmd})
}

// sendData splits data in bus sized transfers.
func (eh *errorHandler) sendData(data []byte) {
	if eh.err != nil {
		return
	}
	eh.dcOut(gpio.High)
	for len(data) != 0 && eh.err == nil {
		n := len(data)
		if n > eh.d.maxTxSize {
			n = eh.d.maxTxSize
		}
		eh.cTx(data[:n])
		data = data[n:]
	}
}

// setWindow selects the controller RAM area covered by r.
func (eh *errorHandler) setWindow(r image.Rectangle) {
	x0 := r.Min.X + eh.d.opts.ColOffset
	x1 := r.Max.X - 1 + eh.d.opts.ColOffset
	y0 := r.Min.Y + eh.d.opts.RowOffset
	y1 := r.Max.Y - 1 + eh.d.opts.RowOffset
	eh.sendCommand(_CASET)
	eh.sendData([]byte{byte(x0 >> 8), byte(x0), byte(x1 >> 8), byte(x1)})
	eh.sendCommand(_RASET)
	eh.sendData([]byte{byte(y0 >> 8), byte(y0), byte(y1 >> 8), byte(y1)})
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package st7735 drives a Sitronix ST7735 TFT controller over 4-wire SPI.
//
// The display is used in 16 bits per pixel mode (RGB565). Draw only sends
// the requested rectangle, using the controller's column and row address
// windows, so small updates are cheap on the bus.
//
// # Datasheet
//
// https://www.displayfuture.com/Display/datasheet/controller/ST7735.pdf
//
// # Wiring
//
// Connect SDA to SPI_MOSI, SCK to SPI_CLK, CS to SPI_CS, A0 (sometimes
// labelled DC or RS) to a GPIO passed as dc and RES to a GPIO passed as rst.
// The backlight pin can be tied to 3.3V.
//
// Modules are sold with panels of slightly different sizes behind the same
// controller RAM; when the image is shifted by a few pixels adjust
// Opts.ColOffset and Opts.RowOffset.
package st7735

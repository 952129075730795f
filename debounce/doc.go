// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package debounce turns a noisy push-button GPIO into short and long press
// events.
//
// A raw level change is only accepted once the level stayed unchanged for
// longer than Opts.Debounce. A press is reported as a long press once it is
// held for Opts.LongPress, and as a short press on release otherwise. The two
// are mutually exclusive for a single physical press.
//
// The Button is polled: call Poll on every tick of the main loop. No
// goroutine, interrupt or edge detection is used.
//
// # Wiring
//
// Connect the button between the GPIO and ground. The pin is configured with
// its internal pull-up so an idle button reads High and a pressed one Low.
package debounce

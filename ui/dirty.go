// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ui

import "strings"

// Zone is a set of independently redrawn screen regions.
type Zone uint8

const (
	// Header is the title bar, replaced by the toast while it is active.
	Header Zone = 1 << iota
	// Value is the area between header and footer.
	Value
	// Footer is the bottom menu bar.
	Footer

	// AllZones is the whole screen.
	AllZones = Header | Value | Footer
)

// Zones lists the single zones in drawing order.
var Zones = [...]Zone{Header, Value, Footer}

func (z Zone) String() string {
	if z == 0 {
		return "none"
	}
	var parts []string
	for _, n := range []struct {
		z    Zone
		name string
	}{{Header, "header"}, {Value, "value"}, {Footer, "footer"}} {
		if z&n.z != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Dirty tracks the zones awaiting a redraw.
//
// The state machine marks zones; only the renderer clears them, after a
// successful redraw.
type Dirty struct {
	z Zone
}

// Mark flags z for redraw.
func (d *Dirty) Mark(z Zone) {
	d.z |= z & AllZones
}

// Clear drops z from the set.
func (d *Dirty) Clear(z Zone) {
	d.z &^= z
}

// Is reports whether every zone of z is flagged.
func (d Dirty) Is(z Zone) bool {
	return z != 0 && d.z&z == z
}

// Any reports whether at least one zone is flagged.
func (d Dirty) Any() bool {
	return d.z != 0
}

// Zones returns the flagged zones.
func (d Dirty) Zones() Zone {
	return d.z
}

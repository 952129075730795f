// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package event implements single-slot, single-consumer event latches.
//
// A producer raises an event while polling; the consumer takes it exactly
// once. A second raise before the consumer ran is merged into the first.
package event

// Flag is a one-shot boolean event.
type Flag struct {
	set bool
}

// Raise marks the event as pending.
func (f *Flag) Raise() {
	f.set = true
}

// Take reports whether the event was pending and clears it.
func (f *Flag) Take() bool {
	v := f.set
	f.set = false
	return v
}

// Pending reports whether the event is pending without consuming it.
func (f *Flag) Pending() bool {
	return f.set
}

// Slot holds at most one pending value.
//
// Put overwrites a value that was not taken yet.
type Slot[T any] struct {
	v  T
	ok bool
}

// Put stores v as the pending value.
func (s *Slot[T]) Put(v T) {
	s.v = v
	s.ok = true
}

// Take returns the pending value, if any, and empties the slot.
func (s *Slot[T]) Take() (T, bool) {
	v, ok := s.v, s.ok
	var zero T
	s.v = zero
	s.ok = false
	return v, ok
}

// Pending reports whether a value is waiting to be taken.
func (s *Slot[T]) Pending() bool {
	return s.ok
}

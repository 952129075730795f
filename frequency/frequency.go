// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package frequency implements the fixed-point tuning value edited on the
// panel.
//
// Values are integer Hz. Every mutation rounds the value down to a multiple
// of the configured step and then applies the range policy. Formatting never
// uses floating point.
package frequency

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// Policy selects what happens to a value leaving the range.
type Policy int

const (
	// Clamp saturates at the nearest bound.
	Clamp Policy = iota
	// Wrap re-enters the range from the opposite bound.
	Wrap
)

func (p Policy) String() string {
	switch p {
	case Clamp:
		return "clamp"
	case Wrap:
		return "wrap"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// digitSteps is the weight of each editable place of "DDD.DDD" MHz.
var digitSteps = [6]int32{100000000, 10000000, 1000000, 100000, 10000, 1000}

// Digits is the number of editable digit places.
const Digits = len(digitSteps)

// StepSize returns the weight in Hz of the digit place d, 0 being the
// hundreds of MHz. Out of range places are clamped.
func StepSize(d int) int32 {
	if d < 0 {
		d = 0
	}
	if d >= Digits {
		d = Digits - 1
	}
	return digitSteps[d]
}

// Limits bounds a Value.
type Limits struct {
	Min    int32
	Max    int32
	Step   int32
	Policy Policy
}

// DefaultLimits covers 30.000 to 511.999 MHz in 1 kHz steps.
var DefaultLimits = Limits{
	Min:    30000000,
	Max:    511999000,
	Step:   1000,
	Policy: Clamp,
}

// maxDisplayable is the largest value with a three digit whole MHz part.
const maxDisplayable = 999999999

// Validate returns an error if the limits cannot be honored.
//
// The display shows exactly three whole MHz digits, so Max must stay below
// 1 GHz.
func (l *Limits) Validate() error {
	if l.Step <= 0 {
		return errors.New("frequency: step must be positive")
	}
	if l.Min < 0 || l.Min > l.Max {
		return fmt.Errorf("frequency: invalid range [%d, %d]", l.Min, l.Max)
	}
	if l.Max > maxDisplayable {
		return fmt.Errorf("frequency: max %d Hz has more than three whole MHz digits", l.Max)
	}
	if l.Min%l.Step != 0 || l.Max%l.Step != 0 {
		return fmt.Errorf("frequency: bounds must be multiples of the %d Hz step", l.Step)
	}
	if l.Policy != Clamp && l.Policy != Wrap {
		return fmt.Errorf("frequency: unknown policy %s", l.Policy)
	}
	return nil
}

// Normalize quantizes hz to the step then applies the range policy.
//
// The computation is done on 64 bits so that a large step count cannot
// overflow before the policy is applied.
func (l *Limits) Normalize(hz int64) int32 {
	step := int64(l.Step)
	if step <= 0 {
		step = 1
	}
	hz -= hz % step
	lo, hi := int64(l.Min), int64(l.Max)
	if lo > hi {
		return l.Min
	}
	if l.Policy == Wrap {
		// The period includes one step past Max so that Max+Step maps onto
		// Min and every result stays a multiple of the step.
		period := hi - lo + step
		x := (hz - lo) % period
		if x < 0 {
			x += period
		}
		return int32(lo + x)
	}
	if hz < lo {
		return l.Min
	}
	if hz > hi {
		return l.Max
	}
	return int32(hz)
}

// Value is a frequency constrained by Limits.
type Value struct {
	hz     int32
	limits Limits
}

// New returns hz normalized against l.
func New(hz int32, l Limits) Value {
	v := Value{limits: l}
	v.Set(int64(hz))
	return v
}

// Set replaces the value.
func (v *Value) Set(hz int64) {
	v.hz = v.limits.Normalize(hz)
}

// ApplyStep adds count times the weight of digit place d.
func (v *Value) ApplyStep(d int, count int32) {
	v.Set(int64(v.hz) + int64(count)*int64(StepSize(d)))
}

// Hz returns the value in Hz.
func (v Value) Hz() int32 {
	return v.hz
}

// Limits returns the bounds the value is constrained by.
func (v Value) Limits() Limits {
	return v.limits
}

// Frequency returns the value as a physic.Frequency.
func (v Value) Frequency() physic.Frequency {
	return physic.Frequency(v.hz) * physic.Hertz
}

func (v Value) String() string {
	return Format(v.hz) + " MHz"
}

// Format returns hz as the seven character "DDD.DDD" MHz form.
//
// Sub-kHz digits are truncated. Negative values format as zero.
func Format(hz int32) string {
	if hz < 0 {
		hz = 0
	}
	khz := hz / 1000
	whole := khz / 1000
	frac := khz % 1000
	return string([]byte{
		byte('0' + whole/100%10),
		byte('0' + whole/10%10),
		byte('0' + whole%10),
		'.',
		byte('0' + frac/100%10),
		byte('0' + frac/10%10),
		byte('0' + frac%10),
	})
}

// Package render turns telemetry series into a monochrome bitmap for the
// 9x34 LED matrix panels. It owns the normalized-brightness model
// (UnitInterval), the pixel-level drawing primitives, and the declarative
// directive dispatcher that maps configuration entries onto primitive calls.
package render

import (
	"fmt"
	"math"
)

// UnitInterval is a normalized scalar in [0,1]. It is the single currency
// for both bar-length and brightness computation: construct one from a
// (value, max) pair, then Scale it into the target range.
//
// Linear construction is deliberately unclamped; callers that must not
// overshoot 1.0 widen max to max(max, value) first.
type UnitInterval struct {
	v float64
}

// Linear returns value/max. A zero max is a caller bug, not a recoverable
// condition, and panics.
func Linear(value, max float64) UnitInterval {
	if max == 0 {
		panic(fmt.Sprintf("render: Linear called with zero max (value=%v)", value))
	}
	return UnitInterval{v: value / max}
}

// Sigmoid returns the logistic curve 1/(1+e^(-k*(value/max - 0.5))),
// centered at value == max/2 with steepness k. Larger k gives a sharper
// transition from near-0 to near-1. A zero max panics.
func Sigmoid(value, max, k float64) UnitInterval {
	if max == 0 {
		panic(fmt.Sprintf("render: Sigmoid called with zero max (value=%v)", value))
	}
	return UnitInterval{v: 1.0 / (1.0 + math.Exp(-k*(value/max-0.5)))}
}

// SigmoidRangeAbs is Sigmoid(|a-b|, max, k). It expresses "distance from the
// bar's anchor end" as a brightness falloff.
func SigmoidRangeAbs(a, b, max, k float64) UnitInterval {
	return Sigmoid(math.Abs(a-b), max, k)
}

// Float returns the raw [0,1] value (over 1.0 for over-range linear inputs).
func (u UnitInterval) Float() float64 {
	return u.v
}

// Scale rescales the stored value into [0, max] by multiplication. No
// clamping is performed; integer truncation toward zero happens at the
// caller's conversion, so a result of exactly max requires an internal
// value of exactly 1.0.
func (u UnitInterval) Scale(max float64) float64 {
	return u.v * max
}

// math/heading.go
// Copyright(c) 2026 pelorus contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import gomath "math"

///////////////////////////////////////////////////////////////////////////
// headings and directions

// Heading2LL returns the heading from the point |from| to the point |to|
// in degrees. The provided points should be in latitude-longitude
// coordinates; mPerLongitude fixes the local projection scale.
func Heading2LL(from Point2LL, to Point2LL, mPerLongitude float64) float64 {
	v := Point2LL{to[0] - from[0], to[1] - from[1]}

	// Note that atan2() normally measures w.r.t. the +x axis and angles
	// are positive for counter-clockwise. We want to measure w.r.t. +y and
	// to have positive angles be clockwise. Happily, swapping the order of
	// values passed to atan2()--passing (x,y)--gives what we want.
	angle := Degrees(gomath.Atan2(v[0]*mPerLongitude, v[1]*MetersPerLatitude))
	return NormalizeHeading(angle)
}

// HeadingDifference returns the minimum difference between two
// headings. (i.e., the result is always in the range [0,180].)
func HeadingDifference(a float64, b float64) float64 {
	var d float64
	if a > b {
		d = a - b
	} else {
		d = b - a
	}
	if d > 180 {
		d = 360 - d
	}
	return d
}

// HeadingSignedTurn returns the signed shortest turn that takes the
// current heading to the target, in (-180, 180]; negative is a turn to
// port. Figure out which way is closest: first find the angle to rotate
// the target heading by so that it's aligned with 180 degrees. This lets
// us not worry about the complexities of the wrap around at 0/360.
func HeadingSignedTurn(cur, target float64) float64 {
	rot := NormalizeHeading(180 - target)
	return 180 - NormalizeHeading(cur+rot) // w.r.t. 180 target
}

// NormalizeHeading reduces a heading to [0,360).
func NormalizeHeading(h float64) float64 {
	if h < 0 {
		return 360 - NormalizeHeading(-h)
	}
	return gomath.Mod(h, 360)
}

func OppositeHeading(h float64) float64 {
	return NormalizeHeading(h + 180)
}

// Compass converts a heading expressed in degrees into a string
// corresponding to the closest compass direction.
func Compass(heading float64) string {
	h := NormalizeHeading(heading + 22.5) // now [0,45] is north, etc...
	idx := int(h / 45)
	return [...]string{"North", "Northeast", "East", "Southeast",
		"South", "Southwest", "West", "Northwest"}[idx]
}

// ShortCompass converts a heading expressed in degrees into an abbreviated
// string corresponding to the closest compass direction.
func ShortCompass(heading float64) string {
	h := NormalizeHeading(heading + 22.5) // now [0,45] is north, etc...
	idx := int(h / 45)
	return [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}[idx]
}

// math/vector.go
// Copyright(c) 2026 pelorus contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import gomath "math"

// Various useful functions for arithmetic with 2D points/vectors.
// Names are brief in order to avoid clutter when they're used.

// a+b
func Add2(a, b [2]float64) [2]float64 {
	return [2]float64{a[0] + b[0], a[1] + b[1]}
}

// a-b
func Sub2(a, b [2]float64) [2]float64 {
	return [2]float64{a[0] - b[0], a[1] - b[1]}
}

// a*s
func Scale2(a [2]float64, s float64) [2]float64 {
	return [2]float64{s * a[0], s * a[1]}
}

// Length of v
func Length2(v [2]float64) float64 {
	return gomath.Sqrt(Sqr(v[0]) + Sqr(v[1]))
}

// Distance between two points
func Distance2(a, b [2]float64) float64 {
	return Length2(Sub2(a, b))
}

// SinCos returns the unit vector in the direction of the given angle,
// expressed in radians measured clockwise from +y; this matches the
// compass-heading convention where north is up.
func SinCos(a float64) [2]float64 {
	s, c := gomath.Sincos(a)
	return [2]float64{s, c}
}

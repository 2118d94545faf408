// math/geom.go
// Copyright(c) 2026 pelorus contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import gomath "math"

// SignedPointLineDistance returns the signed distance from the point p to
// the infinite line defined by (p0, p1) where points to the right of the
// line, facing from p0 toward p1, have positive distances.
func SignedPointLineDistance(p, p0, p1 [2]float64) float64 {
	// https://en.wikipedia.org/wiki/Distance_from_a_point_to_a_line
	dx, dy := p1[0]-p0[0], p1[1]-p0[1]
	sq := dx*dx + dy*dy
	if sq == 0 {
		return gomath.Inf(1)
	}
	return (dx*(p0[1]-p[1]) - dy*(p0[0]-p[0])) / gomath.Sqrt(sq)
}

// math/latlong.go
// Copyright(c) 2026 pelorus contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"fmt"
	"log/slog"
	gomath "math"
)

// MetersPerLatitude is the length of one degree of latitude; unlike
// longitude it is (nearly) independent of position on the Earth.
const MetersPerLatitude = 111132.954

// Length of one degree of longitude at the equator; elsewhere it shrinks
// with the cosine of the latitude.
const metersPerLongitudeAtEquator = 111320

const KnotsToMetersPerSecond = 0.514444
const MetersPerSecondToKnots = 1 / KnotsToMetersPerSecond

// MetersPerLongitude returns the length in meters of one degree of
// longitude at the given latitude. Meridians converge toward the poles,
// so east-west degrees are shorter at higher latitudes; position updates
// and projections must account for this or they accumulate
// heading-dependent error.
func MetersPerLongitude(latitude float64) float64 {
	return metersPerLongitudeAtEquator * gomath.Cos(Radians(latitude))
}

// Point2LL represents a 2D point on the Earth in latitude-longitude.
// Important: 0 (x) is longitude, 1 (y) is latitude.
type Point2LL [2]float64

func (p Point2LL) Longitude() float64 {
	return p[0]
}

func (p Point2LL) Latitude() float64 {
	return p[1]
}

// DDString returns the position in decimal degrees, e.g.:
// (50.880000, -1.380000)
func (p Point2LL) DDString() string {
	return fmt.Sprintf("(%f, %f)", p[1], p[0]) // latitude, longitude
}

func (p Point2LL) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("latitude", p[1]),
		slog.Float64("longitude", p[0]))
}

// LL2M converts a point expressed in latitude-longitude coordinates to
// local east/north meter coordinates; this is useful for reasoning about
// distances and cross-track geometry, since both axes then have the same
// measure. The provided mPerLongitude fixes the projection's scale; use
// the same value for every point being compared.
func LL2M(p Point2LL, mPerLongitude float64) [2]float64 {
	return [2]float64{p[0] * mPerLongitude, p[1] * MetersPerLatitude}
}

// M2LL converts a point expressed in local meter coordinates back to
// lat-long.
func M2LL(p [2]float64, mPerLongitude float64) Point2LL {
	return Point2LL{p[0] / mPerLongitude, p[1] / MetersPerLatitude}
}

// MDistance2LL returns the distance in meters between two lat-long
// points under the local flat-earth projection. Valid at the scales a
// vessel covers in a session; not for ocean crossings.
func MDistance2LL(a Point2LL, b Point2LL, mPerLongitude float64) float64 {
	return Distance2(LL2M(a, mPerLongitude), LL2M(b, mPerLongitude))
}

// Offset2LL returns the point at distance dist meters along the vector
// with heading hdg (degrees) from the given point, assuming a (locally)
// flat earth.
func Offset2LL(pll Point2LL, hdg float64, dist float64, mPerLongitude float64) Point2LL {
	p := LL2M(pll, mPerLongitude)
	v := Scale2(SinCos(Radians(hdg)), dist)
	return M2LL(Add2(p, v), mPerLongitude)
}

// sim/vessel.go
// Copyright(c) 2026 pelorus contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"log/slog"

	"github.com/pelorus-sim/pelorus/config"
	"github.com/pelorus-sim/pelorus/math"
)

// State is the vessel's physical state. It is mutated only by
// Vessel.Integrate.
type State struct {
	Position math.Point2LL `json:"position"`
	Heading  float64       `json:"heading"` // degrees, [0,360)
	Speed    float64       `json:"speed"`   // m/s, signed; negative astern
	Rudder   float64       `json:"rudder"`  // degrees, signed, starboard positive
	Thrust   float64       `json:"thrust"`  // fraction of full thrust
}

func (s State) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("position", s.Position),
		slog.Float64("heading", s.Heading),
		slog.Float64("speed", s.Speed),
		slog.Float64("rudder", s.Rudder),
		slog.Float64("thrust", s.Thrust))
}

// Vessel is the point-mass surface vessel model: thrust and linear drag
// along the heading axis, yaw rate proportional to rudder times speed,
// position integrated on a flat-earth lat/long approximation.
type Vessel struct {
	State

	cfg config.Vessel
}

func NewVessel(cfg config.Vessel, position math.Point2LL, heading float64) *Vessel {
	return &Vessel{
		State: State{Position: position, Heading: math.NormalizeHeading(heading)},
		cfg:   cfg,
	}
}

// Integrate advances the physical state by dt seconds under the given
// actuator commands, using semi-implicit Euler. A dt longer than the
// configured maximum step is split into substeps so a stalled host loop
// degrades integration accuracy gracefully instead of exploding.
func (v *Vessel) Integrate(rudderCmd, thrustCmd, dt float64) {
	// Actuators respond instantly but only within their physical limits,
	// whatever the controller asked for.
	v.Rudder = math.Clamp(rudderCmd, -v.cfg.MaxRudderDeg, v.cfg.MaxRudderDeg)
	v.Thrust = math.Clamp(thrustCmd, v.cfg.MaxReverseThrust, 1)

	for dt > 0 {
		h := min(dt, v.cfg.MaxTimeStepS)
		dt -= h
		v.step(h)
	}
}

func (v *Vessel) step(h float64) {
	// Speed first, then the updated speed drives yaw and displacement.
	accel := (v.Thrust*v.cfg.MaxThrustN - v.cfg.DragCoeff*v.Speed) / v.cfg.MassKg
	v.Speed = math.Clamp(v.Speed+accel*h, -v.cfg.MaxSpeedMPS, v.cfg.MaxSpeedMPS)

	// The rudder has no authority without water moving over it; at zero
	// speed the vessel cannot turn. Astern, the turn reverses with the
	// flow, which the signed speed gives us for free.
	yawRate := v.cfg.YawRateCoeff * v.Rudder * v.Speed
	v.Heading = math.NormalizeHeading(v.Heading + yawRate*h)

	// Displacement in local meters, then to degrees. The longitude
	// conversion shrinks with cos(latitude); skipping that correction
	// would bend every east-west track at this latitude.
	sc := math.SinCos(math.Radians(v.Heading))
	east, north := sc[0]*v.Speed*h, sc[1]*v.Speed*h
	v.Position = math.Point2LL{
		v.Position.Longitude() + east/math.MetersPerLongitude(v.Position.Latitude()),
		v.Position.Latitude() + north/math.MetersPerLatitude,
	}
}

// nav/guidance.go
// Copyright(c) 2026 pelorus contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"log/slog"

	"github.com/pelorus-sim/pelorus/math"
)

// rudderTier selects how much rudder authority the guidance law applies
// for a given heading error.
type rudderTier int

const (
	tierNone rudderTier = iota
	// tierFine: small errors are delegated to the heading PID for
	// precise, overshoot-free tracking.
	tierFine
	// tierProportional: mid-size errors get a plain proportional rudder
	// command; fast response, coarse precision, no integral to wind up.
	tierProportional
	// tierHardOver: large errors command full deflection directly.
	tierHardOver
)

func (t rudderTier) String() string {
	switch t {
	case tierFine:
		return "fine"
	case tierProportional:
		return "proportional"
	case tierHardOver:
		return "hard-over"
	default:
		return "none"
	}
}

// updateGuidance is the per-tick waypoint/track-following computation: it
// derives a desired heading from the active leg and the cross-track
// error, selects a rudder authority tier, limits approach speed near the
// waypoint, and advances the leg on arrival.
func (nav *Nav) updateGuidance(pose Pose, dt float64) Commands {
	wp, ok := nav.Route.At(nav.ActiveWaypoint)
	if !ok {
		nav.XTE = 0
		if nav.holdHeading != nil {
			// Route exhausted: hold the last commanded heading and speed
			// until the route changes or the mode switches.
			return nav.trackHeadingSpeed(pose, *nav.holdHeading, nav.Targets.Speed, dt)
		}
		// Empty route: guidance is a no-op.
		return Commands{}
	}

	mPerLon := math.MetersPerLongitude(pose.Position.Latitude())
	dist := math.MDistance2LL(pose.Position, wp.Location, mPerLon)

	// Arrival and leg advance. Advancing the index is what latches the
	// arrival, so a vessel loitering inside the radius does not
	// re-trigger it.
	if dist <= nav.cfg.Guidance.ArrivalRadiusM {
		nav.advanceLeg(wp)
		if wp, ok = nav.Route.At(nav.ActiveWaypoint); !ok {
			return nav.trackHeadingSpeed(pose, *nav.holdHeading, nav.Targets.Speed, dt)
		}
		dist = math.MDistance2LL(pose.Position, wp.Location, mPerLon)
	}

	nav.XTE = nav.crossTrackError(pose.Position, wp, mPerLon)
	desired := nav.desiredHeading(pose.Position, wp, mPerLon)
	// Guidance owns the heading target in this mode; keeping it current
	// is what makes the post-route hold pick up the final leg's heading.
	nav.Targets.Heading = desired
	rudder := nav.tieredRudder(pose, desired, dt)

	// Approach speed limiting: inside the deceleration zone the target
	// speed ramps linearly from cruise down to the minimum approach
	// speed at the arrival radius, so momentum cannot carry the vessel
	// through the waypoint.
	g := nav.cfg.Guidance
	target := nav.Targets.Speed
	if dist < g.DecelRadiusM {
		frac := (dist - g.ArrivalRadiusM) / (g.DecelRadiusM - g.ArrivalRadiusM)
		target = math.Lerp(math.Clamp(frac, 0, 1), g.MinApproachSpeedMPS, nav.Targets.Speed)
	}
	thrust := nav.speedPID.Update(target-pose.Speed, dt)

	nav.lg.Debug("guidance",
		slog.Int("waypoint", wp.Index),
		slog.Float64("distance", dist),
		slog.Float64("xte", nav.XTE),
		slog.Float64("desired_heading", desired),
		slog.String("tier", nav.lastTier.String()),
		slog.Float64("rudder", rudder),
		slog.Float64("target_speed", target))

	return Commands{Rudder: rudder, Thrust: thrust}
}

// crossTrackError returns the signed perpendicular distance in meters
// from the vessel to the infinite line through the active leg, positive
// when the vessel is to starboard of the track facing the waypoint. A
// degenerate leg reports zero rather than blowing up.
func (nav *Nav) crossTrackError(pos math.Point2LL, wp Waypoint, mPerLon float64) float64 {
	a := math.LL2M(nav.legAnchor, mPerLon)
	b := math.LL2M(wp.Location, mPerLon)
	if math.Distance2(a, b) < 0.001 {
		return 0
	}
	return math.SignedPointLineDistance(math.LL2M(pos, mPerLon), a, b)
}

// desiredHeading blends "point at the waypoint" with "return to the
// track line": the bearing to the waypoint is adjusted by a correction
// proportional to the cross-track error, saturated so that a vessel far
// off track still converges instead of oscillating across the line.
func (nav *Nav) desiredHeading(pos math.Point2LL, wp Waypoint, mPerLon float64) float64 {
	g := nav.cfg.Guidance
	bearing := math.Heading2LL(pos, wp.Location, mPerLon)
	correction := math.Clamp(-g.XTEGainDegPerM*nav.XTE, -g.MaxXTECorrectionDeg, g.MaxXTECorrectionDeg)
	return math.NormalizeHeading(bearing + correction)
}

// tieredRudder maps the heading error onto one of three rudder
// authority regimes. The proportional tier's slope is hard-over/hardBand
// so its output meets full deflection exactly at the hard-over boundary;
// with the heading PID's Kp set to the same slope the fine boundary is
// continuous as well.
func (nav *Nav) tieredRudder(pose Pose, desired float64, dt float64) float64 {
	g := nav.cfg.Guidance
	hardOver := nav.cfg.Vessel.MaxRudderDeg
	hdgErr := math.HeadingSignedTurn(pose.Heading, desired)

	var tier rudderTier
	var rudder float64
	switch {
	case math.Abs(hdgErr) > g.HardBandDeg:
		tier = tierHardOver
		rudder = math.Sign(hdgErr) * hardOver
	case math.Abs(hdgErr) > g.FineBandDeg:
		tier = tierProportional
		rudder = math.Clamp(hdgErr*hardOver/g.HardBandDeg, -hardOver, hardOver)
	default:
		tier = tierFine
		if nav.lastTier != tierFine {
			// Entering the fine band from a coarse tier is a
			// discontinuity as far as the PID is concerned.
			nav.headingPID.Reset()
		}
		rudder = nav.headingPID.Update(hdgErr, dt)
	}
	nav.lastTier = tier
	return rudder
}

// advanceLeg moves the active leg forward after arriving at wp: the
// just-arrived waypoint becomes the leg anchor and the next route entry
// (if any) becomes active. Both PID loops are reset since the tracked
// quantity changes discontinuously.
func (nav *Nav) advanceLeg(wp Waypoint) {
	nav.lg.Info("arrived at waypoint", slog.Any("waypoint", wp))

	nav.legAnchor = wp.Location
	nav.ActiveWaypoint++
	nav.resetControllers()

	if nav.ActiveWaypoint >= len(nav.Route) {
		nav.ActiveWaypoint = NoActiveWaypoint
		h := nav.Targets.Heading
		nav.holdHeading = &h
		nav.lg.Info("route complete, holding heading", slog.Float64("heading", h))
	}
}

// nav/guidance_test.go
// Copyright(c) 2026 pelorus contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	gomath "math"
	"testing"

	"github.com/pelorus-sim/pelorus/control"
	"github.com/pelorus-sim/pelorus/math"
)

// routeNav returns a nav in Waypoint mode at pose with waypoints at the
// given headings/distances from the pose position.
func routeNav(pose Pose, legs ...[2]float64) *Nav {
	nav := testNav()
	mPerLon := math.MetersPerLongitude(pose.Position.Latitude())
	for _, leg := range legs {
		nav.Route = nav.Route.Append(math.Offset2LL(pose.Position, leg[0], leg[1], mPerLon))
	}
	nav.SetMode(ModeWaypoint, pose)
	return nav
}

func TestGuidanceEmptyRoute(t *testing.T) {
	nav := testNav()
	nav.SetMode(ModeWaypoint, startPose())

	cmd := nav.Update(startPose(), dt)
	if cmd != (Commands{}) {
		t.Errorf("got commands %+v with empty route, expected zero", cmd)
	}
	if nav.XTE != 0 {
		t.Errorf("XTE %v with empty route, expected 0", nav.XTE)
	}
}

func TestCrossTrackErrorSign(t *testing.T) {
	pose := startPose()
	mPerLon := math.MetersPerLongitude(pose.Position.Latitude())

	// One leg due north. A vessel displaced east is to starboard of the
	// track, so XTE must come out positive; west is negative.
	for _, tc := range []struct {
		offsetHdg float64
		want      float64
	}{
		{90, 30},   // east of a northbound track
		{270, -30}, // west
	} {
		nav := routeNav(pose, [2]float64{0, 1000})
		off := pose
		off.Position = math.Offset2LL(pose.Position, tc.offsetHdg, 30, mPerLon)
		nav.Update(off, dt)
		if math.Abs(nav.XTE-tc.want) > 0.01 {
			t.Errorf("offset heading %v: XTE = %v, expected %v", tc.offsetHdg, nav.XTE, tc.want)
		}
	}

	// On track: no error.
	nav := routeNav(pose, [2]float64{0, 1000})
	nav.Update(pose, dt)
	if math.Abs(nav.XTE) > 0.01 {
		t.Errorf("on-track XTE = %v, expected 0", nav.XTE)
	}
}

func TestDesiredHeadingSaturatedCorrection(t *testing.T) {
	pose := startPose()
	mPerLon := math.MetersPerLongitude(pose.Position.Latitude())
	nav := routeNav(pose, [2]float64{0, 1000})

	// 200m to starboard of the track: the XTE correction saturates, so
	// the desired heading is bearing-to-waypoint minus the maximum
	// correction rather than something wilder.
	off := pose
	off.Position = math.Offset2LL(pose.Position, 90, 200, mPerLon)
	nav.Update(off, dt)

	wp, _ := nav.Route.At(0)
	bearing := math.Heading2LL(off.Position, wp.Location, mPerLon)
	want := math.NormalizeHeading(bearing - nav.cfg.Guidance.MaxXTECorrectionDeg)
	if math.Abs(math.HeadingSignedTurn(nav.Targets.Heading, want)) > 0.01 {
		t.Errorf("desired heading %v, expected %v", nav.Targets.Heading, want)
	}
}

func TestTieredRudderContinuity(t *testing.T) {
	nav := testNav()
	g := nav.cfg.Guidance
	hardOver := nav.cfg.Vessel.MaxRudderDeg
	pose := Pose{Heading: 0}

	// Rudder across a tier boundary must be continuous: evaluate just
	// inside and just outside each boundary and compare.
	const eps = 1e-4
	for _, tc := range []struct {
		name     string
		boundary float64
	}{
		{"fine/proportional", g.FineBandDeg},
		{"proportional/hard-over", g.HardBandDeg},
	} {
		nav.resetControllers()
		below := nav.tieredRudder(pose, tc.boundary-eps, dt)
		nav.resetControllers()
		above := nav.tieredRudder(pose, tc.boundary+eps, dt)
		if math.Abs(above-below) > 0.01 {
			t.Errorf("%s boundary at %v deg: rudder jumps from %v to %v",
				tc.name, tc.boundary, below, above)
		}
	}

	// Beyond the hard band the command is exactly full deflection.
	nav.resetControllers()
	if got := nav.tieredRudder(pose, g.HardBandDeg+30, dt); got != hardOver {
		t.Errorf("hard-over rudder %v, expected %v", got, hardOver)
	}
	nav.resetControllers()
	if got := nav.tieredRudder(pose, -(g.HardBandDeg + 30), dt); got != -hardOver {
		t.Errorf("hard-over rudder %v, expected %v", got, -hardOver)
	}
}

func TestApproachSpeedRamp(t *testing.T) {
	pose := startPose()
	cfg := testNav().cfg.Guidance
	cruise := cfg.DefaultCruiseKts * math.KnotsToMetersPerSecond

	thrustAt := func(dist float64) float64 {
		nav := routeNav(pose, [2]float64{0, dist})
		// A unit proportional speed controller makes the commanded
		// thrust equal to the target speed.
		nav.speedPID = control.NewPID(1, 0, 0, -10, 10)
		cmd := nav.Update(pose, dt)
		return cmd.Thrust
	}

	// Outside the deceleration zone the target is cruise speed.
	if got := thrustAt(500); math.Abs(got-cruise) > 1e-9 {
		t.Errorf("target speed %v at 500m, expected cruise %v", got, cruise)
	}

	// Midway between arrival and deceleration radius: halfway down the ramp.
	mid := (cfg.ArrivalRadiusM + cfg.DecelRadiusM) / 2
	want := (cfg.MinApproachSpeedMPS + cruise) / 2
	if got := thrustAt(mid); math.Abs(got-want) > 1e-9 {
		t.Errorf("target speed %v at %vm, expected %v", got, mid, want)
	}

	// Just outside the arrival radius: essentially the minimum.
	if got := thrustAt(cfg.ArrivalRadiusM + 0.1); got > cfg.MinApproachSpeedMPS+0.01 {
		t.Errorf("target speed %v near arrival, expected about %v", got, cfg.MinApproachSpeedMPS)
	}
}

func TestArrivalAdvancesLeg(t *testing.T) {
	pose := startPose()
	cfg := testNav().cfg

	// First waypoint already inside the arrival radius, second well away.
	nav := routeNav(pose,
		[2]float64{0, cfg.Guidance.ArrivalRadiusM - 5},
		[2]float64{0, 1000})

	nav.Update(pose, dt)
	if nav.ActiveWaypoint != 1 {
		t.Fatalf("active waypoint %d after arrival, expected 1", nav.ActiveWaypoint)
	}
	wp0, _ := nav.Route.At(0)
	if nav.legAnchor != wp0.Location {
		t.Errorf("leg anchor %v, expected previous waypoint %v", nav.legAnchor, wp0.Location)
	}

	// Loitering inside the first waypoint's radius must not advance again.
	nav.Update(pose, dt)
	if nav.ActiveWaypoint != 1 {
		t.Errorf("active waypoint %d, arrival re-triggered", nav.ActiveWaypoint)
	}
}

func TestRouteExhaustionHolds(t *testing.T) {
	pose := startPose()
	cfg := testNav().cfg
	nav := routeNav(pose, [2]float64{0, cfg.Guidance.ArrivalRadiusM - 5})

	nav.Update(pose, dt)
	if nav.ActiveWaypoint != NoActiveWaypoint {
		t.Fatalf("active waypoint %d after final arrival, expected sentinel", nav.ActiveWaypoint)
	}
	if nav.holdHeading == nil {
		t.Fatal("expected a held heading after route exhaustion")
	}

	// Guidance keeps tracking the held heading and speed rather than
	// going dark.
	off := pose
	off.Heading = math.NormalizeHeading(*nav.holdHeading + 20)
	cmd := nav.Update(off, dt)
	if cmd.Rudder >= 0 {
		t.Errorf("rudder %v while 20 deg starboard of held heading, expected port correction", cmd.Rudder)
	}
}

func TestAddWaypointReactivates(t *testing.T) {
	pose := startPose()
	cfg := testNav().cfg
	mPerLon := math.MetersPerLongitude(pose.Position.Latitude())
	nav := routeNav(pose, [2]float64{0, cfg.Guidance.ArrivalRadiusM - 5})

	nav.Update(pose, dt) // arrive, exhaust the route

	nav.AddWaypoint(math.Offset2LL(pose.Position, 90, 1000, mPerLon), pose)
	if nav.ActiveWaypoint != 1 {
		t.Errorf("active waypoint %d after adding to exhausted route, expected 1", nav.ActiveWaypoint)
	}
	if nav.holdHeading != nil {
		t.Error("held heading survived route change")
	}
	if nav.legAnchor != pose.Position {
		t.Errorf("leg anchor %v, expected current position %v", nav.legAnchor, pose.Position)
	}
}

func TestRemoveLastWaypointReanchors(t *testing.T) {
	pose := startPose()
	nav := routeNav(pose, [2]float64{0, 1000}, [2]float64{90, 1000})
	nav.ActiveWaypoint = 1

	// Removing the active waypoint re-anchors onto the new last one.
	nav.RemoveLastWaypoint(pose)
	if nav.ActiveWaypoint != 0 {
		t.Fatalf("active waypoint %d, expected 0", nav.ActiveWaypoint)
	}
	if nav.legAnchor != pose.Position {
		t.Errorf("leg anchor %v, expected current position", nav.legAnchor)
	}
	if nav.XTE != 0 {
		t.Errorf("XTE %v after re-anchor, expected 0", nav.XTE)
	}

	// A degenerate zero-length leg must not blow up the XTE computation:
	// anchor on top of the waypoint itself, with the vessel elsewhere.
	wp0, _ := nav.Route.At(0)
	nav.legAnchor = wp0.Location
	cmd := nav.Update(pose, dt)
	if gomath.IsNaN(cmd.Rudder) || gomath.IsNaN(cmd.Thrust) {
		t.Errorf("degenerate leg produced %+v", cmd)
	}
	if nav.XTE != 0 {
		t.Errorf("degenerate leg XTE = %v, expected 0", nav.XTE)
	}

	// Removing the only remaining waypoint empties the route.
	nav.RemoveLastWaypoint(pose)
	if nav.ActiveWaypoint != NoActiveWaypoint || len(nav.Route) != 0 {
		t.Errorf("route %v active %d, expected empty with sentinel", nav.Route, nav.ActiveWaypoint)
	}
	if cmd := nav.Update(pose, dt); cmd != (Commands{}) {
		t.Errorf("got commands %+v on empty route, expected zero", cmd)
	}
}

func TestClearRoute(t *testing.T) {
	pose := startPose()
	nav := routeNav(pose, [2]float64{0, 1000}, [2]float64{90, 1000})
	nav.Update(pose, dt)

	nav.ClearRoute()
	if len(nav.Route) != 0 || nav.ActiveWaypoint != NoActiveWaypoint || nav.XTE != 0 {
		t.Errorf("route %v active %d xte %v after clear", nav.Route, nav.ActiveWaypoint, nav.XTE)
	}
	if cmd := nav.Update(pose, dt); cmd != (Commands{}) {
		t.Errorf("got commands %+v after clear, expected zero", cmd)
	}
}

// nav/nav_test.go
// Copyright(c) 2026 pelorus contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"testing"

	"github.com/pelorus-sim/pelorus/config"
	"github.com/pelorus-sim/pelorus/log"
	"github.com/pelorus-sim/pelorus/math"
)

const dt = 1.0 / 60

func testNav() *Nav {
	return New(config.Default(), log.Discard())
}

func startPose() Pose {
	cfg := config.Default()
	return Pose{
		Position: math.Point2LL{cfg.Sim.StartLon, cfg.Sim.StartLat},
		Heading:  0,
	}
}

func TestManualPassthrough(t *testing.T) {
	nav := testNav()
	nav.Targets.Rudder = 12
	nav.Targets.Thrust = 0.7

	cmd := nav.Update(startPose(), dt)
	if cmd.Rudder != 12 || cmd.Thrust != 0.7 {
		t.Errorf("got commands %+v, expected targets passed through unfiltered", cmd)
	}
}

func TestSetModeAutohelmCapturesState(t *testing.T) {
	nav := testNav()
	pose := startPose()
	pose.Heading = 123.4
	pose.Speed = 1.5

	nav.SetMode(ModeAutohelm, pose)
	if nav.Targets.Heading != 123.4 {
		t.Errorf("target heading %v, expected current heading 123.4", nav.Targets.Heading)
	}
	if nav.Targets.Speed != 1.5 {
		t.Errorf("target speed %v, expected current speed 1.5", nav.Targets.Speed)
	}

	// With targets equal to the current state and freshly-reset
	// controllers, the first tick must command nothing: no residual
	// integral, no derivative kick.
	cmd := nav.Update(pose, dt)
	if cmd.Rudder != 0 || cmd.Thrust != 0 {
		t.Errorf("got commands %+v immediately after mode switch, expected zero", cmd)
	}
}

func TestSetModeSemiAutoCapturesActuators(t *testing.T) {
	nav := testNav()
	pose := startPose()
	pose.Rudder = -8
	pose.Thrust = 0.4

	nav.SetMode(ModeSemiAuto, pose)
	cmd := nav.Update(pose, dt)
	if cmd.Rudder != -8 || cmd.Thrust != 0.4 {
		t.Errorf("got commands %+v, expected held actuator values", cmd)
	}
}

func TestSetModeWaypointCruiseDefault(t *testing.T) {
	nav := testNav()
	nav.SetMode(ModeWaypoint, startPose())

	want := nav.cfg.Guidance.DefaultCruiseKts * math.KnotsToMetersPerSecond
	if nav.Targets.Speed != want {
		t.Errorf("target speed %v, expected cruise default %v", nav.Targets.Speed, want)
	}
	if nav.ActiveWaypoint != NoActiveWaypoint {
		t.Errorf("active waypoint %d with empty route, expected sentinel", nav.ActiveWaypoint)
	}
}

func TestManualMomentaryOrders(t *testing.T) {
	nav := testNav()
	pose := startPose()
	pose.Rudder, pose.Thrust = -8, 0.4

	// Entering manual discards whatever was held before; orders start at
	// all stop, rudder amidships.
	nav.SetMode(ModeSemiAuto, pose)
	nav.SetMode(ModeManual, pose)
	if cmd := nav.Update(pose, dt); cmd != (Commands{}) {
		t.Errorf("got commands %+v on manual entry, expected all stop", cmd)
	}

	// Throttle input is full scale while applied: full ahead, the astern
	// floor, all stop on release. No accumulation.
	for _, tc := range []struct{ steps, thrust float64 }{
		{1, 1},
		{3, 1},
		{-1, nav.cfg.Vessel.MaxReverseThrust},
		{-10, nav.cfg.Vessel.MaxReverseThrust},
		{0, 0},
	} {
		nav.ThrottleDelta(tc.steps)
		if cmd := nav.Update(pose, dt); cmd.Thrust != tc.thrust {
			t.Errorf("ThrottleDelta(%v): thrust %v, expected %v", tc.steps, cmd.Thrust, tc.thrust)
		}
	}

	// Helm likewise: hard starboard, hard port, amidships on release.
	limit := nav.cfg.Vessel.MaxRudderDeg
	for _, tc := range []struct{ steps, rudder float64 }{
		{1, limit},
		{5, limit},
		{-1, -limit},
		{0, 0},
	} {
		nav.HelmDelta(tc.steps)
		if cmd := nav.Update(pose, dt); cmd.Rudder != tc.rudder {
			t.Errorf("HelmDelta(%v): rudder %v, expected %v", tc.steps, cmd.Rudder, tc.rudder)
		}
	}
}

func TestThrottleDelta(t *testing.T) {
	nav := testNav()
	nav.SetMode(ModeSemiAuto, startPose())
	step := nav.cfg.Input.ActuatorStep

	// SemiAuto: held thrust fraction accumulates in steps, clamped to
	// the reverse floor and full ahead.
	nav.ThrottleDelta(3)
	if want := 3 * step; math.Abs(nav.Targets.Thrust-want) > 1e-12 {
		t.Errorf("thrust target %v, expected %v", nav.Targets.Thrust, want)
	}
	nav.ThrottleDelta(1000)
	if nav.Targets.Thrust != 1 {
		t.Errorf("thrust target %v, expected clamp at 1", nav.Targets.Thrust)
	}
	nav.ThrottleDelta(-10000)
	if nav.Targets.Thrust != nav.cfg.Vessel.MaxReverseThrust {
		t.Errorf("thrust target %v, expected clamp at reverse floor %v",
			nav.Targets.Thrust, nav.cfg.Vessel.MaxReverseThrust)
	}

	// Autohelm: speed target in knot-sized steps.
	nav.SetMode(ModeAutohelm, startPose())
	nav.ThrottleDelta(5)
	want := 5 * nav.cfg.Input.SpeedStepKts * math.KnotsToMetersPerSecond
	if math.Abs(nav.Targets.Speed-want) > 1e-12 {
		t.Errorf("speed target %v, expected %v", nav.Targets.Speed, want)
	}
}

func TestHelmDelta(t *testing.T) {
	nav := testNav()
	nav.SetMode(ModeSemiAuto, startPose())
	limit := nav.cfg.Vessel.MaxRudderDeg

	// SemiAuto: held rudder angle accumulates in steps, clamped to
	// hard-over.
	nav.HelmDelta(2)
	if want := 2 * nav.cfg.Input.ActuatorStep * limit; math.Abs(nav.Targets.Rudder-want) > 1e-12 {
		t.Errorf("rudder target %v, expected %v", nav.Targets.Rudder, want)
	}
	nav.HelmDelta(10000)
	if nav.Targets.Rudder != limit {
		t.Errorf("rudder target %v, expected clamp at %v", nav.Targets.Rudder, limit)
	}

	// Autohelm: heading target, wrapping through north.
	nav.SetMode(ModeAutohelm, Pose{Heading: 359})
	nav.HelmDelta(2)
	want := math.NormalizeHeading(359 + 2*nav.cfg.Input.HeadingStepDeg)
	if math.Abs(nav.Targets.Heading-want) > 1e-12 {
		t.Errorf("heading target %v, expected %v", nav.Targets.Heading, want)
	}

	// Waypoint: helm input is ignored; guidance owns heading.
	nav.SetMode(ModeWaypoint, startPose())
	before := nav.Targets
	nav.HelmDelta(5)
	if nav.Targets != before {
		t.Errorf("targets changed from %+v to %+v on helm input in waypoint mode", before, nav.Targets)
	}
}

func TestModeSwitchResetsControllers(t *testing.T) {
	nav := testNav()
	pose := startPose()

	// Build up integral and derivative state in autohelm.
	nav.SetMode(ModeAutohelm, pose)
	nav.Targets.Heading = 90
	nav.Targets.Speed = 5
	for i := 0; i < 200; i++ {
		nav.Update(pose, dt)
	}

	// Switching away and back must leave no stale state: a converged
	// pose yields zero commands on the first tick.
	nav.SetMode(ModeManual, pose)
	nav.SetMode(ModeAutohelm, pose)
	cmd := nav.Update(pose, dt)
	if cmd.Rudder != 0 || cmd.Thrust != 0 {
		t.Errorf("got commands %+v after mode round trip, expected zero", cmd)
	}
}

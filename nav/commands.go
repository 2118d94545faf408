// nav/commands.go
// Copyright(c) 2026 pelorus contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"log/slog"

	"github.com/pelorus-sim/pelorus/math"
)

// The operator-facing entry points. One method per discrete event kind;
// every one of them is safe to call in any mode and degenerates to a
// no-op when it does not apply.

// SetMode switches the control mode. Any mode may be entered from any
// other. Exiting a mode always resets both PID loops; entering one
// initializes its authoritative targets from the vessel's current state
// so the switch itself never produces an actuator jump.
func (nav *Nav) SetMode(m Mode, pose Pose) {
	if m == nav.Mode {
		return
	}
	prev := nav.Mode
	nav.resetControllers()
	nav.Mode = m

	switch m {
	case ModeManual:
		// Manual holds nothing: orders start at all stop, rudder
		// amidships, and exist only while input is applied.
		nav.Targets.Rudder = 0
		nav.Targets.Thrust = 0
	case ModeSemiAuto:
		nav.Targets.Rudder = pose.Rudder
		nav.Targets.Thrust = pose.Thrust
	case ModeAutohelm:
		nav.Targets.Heading = pose.Heading
		nav.Targets.Speed = pose.Speed
	case ModeWaypoint:
		nav.Targets.Speed = nav.cfg.Guidance.DefaultCruiseKts * math.KnotsToMetersPerSecond
		nav.restartRoute(pose)
	}

	nav.lg.Info("mode change",
		slog.String("from", prev.String()),
		slog.String("to", m.String()),
		slog.Any("targets", nav.Targets))
}

// restartRoute begins the route from its first waypoint, anchoring the
// first leg at the vessel's current position.
func (nav *Nav) restartRoute(pose Pose) {
	nav.holdHeading = nil
	nav.XTE = 0
	if len(nav.Route) == 0 {
		nav.ActiveWaypoint = NoActiveWaypoint
		return
	}
	nav.ActiveWaypoint = 0
	nav.legAnchor = pose.Position
}

// ThrottleDelta applies throttle input to whichever speed axis the
// current mode owns. Manual orders are momentary and full scale: full
// ahead or the astern floor while input is applied, all stop when it
// goes to zero. SemiAuto accumulates the held thrust target in steps;
// Autohelm and Waypoint adjust the target speed.
func (nav *Nav) ThrottleDelta(steps float64) {
	switch nav.Mode {
	case ModeManual:
		switch {
		case steps > 0:
			nav.Targets.Thrust = 1
		case steps < 0:
			nav.Targets.Thrust = nav.cfg.Vessel.MaxReverseThrust
		default:
			nav.Targets.Thrust = 0
		}
	case ModeSemiAuto:
		t := nav.Targets.Thrust + steps*nav.cfg.Input.ActuatorStep
		nav.Targets.Thrust = math.Clamp(t, nav.cfg.Vessel.MaxReverseThrust, 1)
	case ModeAutohelm, ModeWaypoint:
		s := nav.Targets.Speed + steps*nav.cfg.Input.SpeedStepKts*math.KnotsToMetersPerSecond
		nav.Targets.Speed = math.Clamp(s, -nav.cfg.Vessel.MaxSpeedMPS, nav.cfg.Vessel.MaxSpeedMPS)
	}
}

// HelmDelta applies helm input to the heading axis. Manual commands
// hard-over rudder, starboard for positive input and port for negative,
// amidships at zero. SemiAuto accumulates the held rudder angle in
// steps; Autohelm adjusts the target heading. In Waypoint mode heading
// is owned by the guidance law and helm input is ignored.
func (nav *Nav) HelmDelta(steps float64) {
	switch nav.Mode {
	case ModeManual:
		switch {
		case steps > 0:
			nav.Targets.Rudder = nav.cfg.Vessel.MaxRudderDeg
		case steps < 0:
			nav.Targets.Rudder = -nav.cfg.Vessel.MaxRudderDeg
		default:
			nav.Targets.Rudder = 0
		}
	case ModeSemiAuto:
		limit := nav.cfg.Vessel.MaxRudderDeg
		r := nav.Targets.Rudder + steps*nav.cfg.Input.ActuatorStep*limit
		nav.Targets.Rudder = math.Clamp(r, -limit, limit)
	case ModeAutohelm:
		nav.Targets.Heading = math.NormalizeHeading(
			nav.Targets.Heading + steps*nav.cfg.Input.HeadingStepDeg)
	}
}

// AddWaypoint appends a waypoint to the route. If Waypoint mode has run
// out of route, the new waypoint immediately becomes active, with the
// new leg anchored at the vessel's current position.
func (nav *Nav) AddWaypoint(p math.Point2LL, pose Pose) {
	nav.Route = nav.Route.Append(p)
	nav.lg.Info("waypoint added", slog.Any("waypoint", nav.Route[len(nav.Route)-1]))

	if nav.Mode == ModeWaypoint && nav.ActiveWaypoint == NoActiveWaypoint {
		nav.holdHeading = nil
		nav.ActiveWaypoint = len(nav.Route) - 1
		nav.legAnchor = pose.Position
		nav.resetControllers()
	}
}

// RemoveLastWaypoint drops the most recently added waypoint. If that
// waypoint was the active one, the active leg re-anchors at the vessel's
// current position and targets the new last waypoint, or goes to the
// sentinel when nothing remains.
func (nav *Nav) RemoveLastWaypoint(pose Pose) {
	if len(nav.Route) == 0 {
		return
	}
	removed := nav.Route[len(nav.Route)-1]
	nav.Route = nav.Route[:len(nav.Route)-1]
	nav.lg.Info("waypoint removed", slog.Any("waypoint", removed))

	// Only an edit touching the active leg needs re-anchoring: either the
	// removed waypoint was the active one, or the route was exhausted and
	// the vessel was in the post-route hold, which any route change ends.
	if nav.ActiveWaypoint != len(nav.Route) && nav.holdHeading == nil {
		return
	}
	nav.XTE = 0
	nav.holdHeading = nil
	nav.resetControllers()
	if len(nav.Route) == 0 {
		nav.ActiveWaypoint = NoActiveWaypoint
		return
	}
	nav.ActiveWaypoint = len(nav.Route) - 1
	nav.legAnchor = pose.Position
}

// ClearRoute removes all waypoints and deactivates guidance. In
// Waypoint mode the vessel is left with zero commands until a waypoint
// is added or the mode changes.
func (nav *Nav) ClearRoute() {
	if len(nav.Route) == 0 && nav.ActiveWaypoint == NoActiveWaypoint {
		return
	}
	nav.lg.Info("route cleared", slog.Int("waypoints", len(nav.Route)))
	nav.Route = nil
	nav.ActiveWaypoint = NoActiveWaypoint
	nav.holdHeading = nil
	nav.XTE = 0
	nav.resetControllers()
}

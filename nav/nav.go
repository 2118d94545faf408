// nav/nav.go
// Copyright(c) 2026 pelorus contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package nav converts operator and route intent into actuator commands.
// It owns the control mode state machine, the navigation targets, the
// active route, and the waypoint guidance law; each simulation tick it is
// handed the vessel's pose and returns the rudder and thrust commands for
// the physics model.
package nav

import (
	"log/slog"

	"github.com/pelorus-sim/pelorus/config"
	"github.com/pelorus-sim/pelorus/control"
	"github.com/pelorus-sim/pelorus/log"
	"github.com/pelorus-sim/pelorus/math"
)

// Mode is the top-level control mode. Exactly one is active at a time.
type Mode int

const (
	// ModeManual drives the actuators with momentary full-scale operator
	// orders; nothing is held when input stops.
	ModeManual Mode = iota
	// ModeSemiAuto holds operator-adjustable rudder/thrust targets.
	ModeSemiAuto
	// ModeAutohelm tracks an operator-set heading and speed via PID.
	ModeAutohelm
	// ModeWaypoint follows the active route; heading and rudder are
	// owned entirely by the guidance law.
	ModeWaypoint
)

func (m Mode) String() string {
	switch m {
	case ModeManual:
		return "MANUAL"
	case ModeSemiAuto:
		return "SEMI_AUTO"
	case ModeAutohelm:
		return "AUTOHELM"
	case ModeWaypoint:
		return "WAYPOINT"
	default:
		return "UNKNOWN"
	}
}

// Pose is the vessel's physical state as sampled at the start of a tick.
// It is an input to the control computation; nav never mutates it.
type Pose struct {
	Position math.Point2LL
	Heading  float64 // degrees, [0,360)
	Speed    float64 // m/s, signed; negative astern
	Rudder   float64 // degrees, signed
	Thrust   float64 // fraction, [-1,1]
}

// Commands are the actuator orders handed to the physics model each tick.
type Commands struct {
	Rudder float64 // degrees
	Thrust float64 // fraction
}

// Targets holds the mode-specific desired values. Which fields are
// authoritative depends on the mode: heading/speed in Autohelm, speed
// (cruise) in Waypoint, rudder/thrust in Manual and SemiAuto.
type Targets struct {
	Heading float64 `json:"heading"`
	Speed   float64 `json:"speed"` // m/s
	Rudder  float64 `json:"rudder"`
	Thrust  float64 `json:"thrust"`
}

func (t Targets) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("heading", t.Heading),
		slog.Float64("speed", t.Speed),
		slog.Float64("rudder", t.Rudder),
		slog.Float64("thrust", t.Thrust))
}

// Nav is the navigation-control state for one vessel.
type Nav struct {
	Mode    Mode
	Targets Targets

	Route          Route
	ActiveWaypoint int     // index into Route, or NoActiveWaypoint
	XTE            float64 // cross-track error, meters, starboard positive

	// Leg anchor: the previously-arrived waypoint, or the vessel position
	// at the moment the leg became active.
	legAnchor math.Point2LL

	// Set when the route has been fully traversed in Waypoint mode; the
	// vessel then holds this heading until the route changes or the mode
	// switches.
	holdHeading *float64

	headingPID *control.PID
	speedPID   *control.PID
	lastTier   rudderTier

	cfg *config.Config
	lg  *log.Logger
}

func New(cfg *config.Config, lg *log.Logger) *Nav {
	return &Nav{
		Mode:           ModeManual,
		ActiveWaypoint: NoActiveWaypoint,
		headingPID: control.NewPID(cfg.HeadingPID.Kp, cfg.HeadingPID.Ki, cfg.HeadingPID.Kd,
			cfg.HeadingPID.OutMin, cfg.HeadingPID.OutMax),
		speedPID: control.NewPID(cfg.SpeedPID.Kp, cfg.SpeedPID.Ki, cfg.SpeedPID.Kd,
			cfg.SpeedPID.OutMin, cfg.SpeedPID.OutMax),
		cfg: cfg,
		lg:  lg,
	}
}

// Update runs one control tick: given the vessel's pose it computes the
// actuator commands for the current mode. It never blocks and never
// fails; all edge cases resolve to defined defaults.
func (nav *Nav) Update(pose Pose, dt float64) Commands {
	switch nav.Mode {
	case ModeManual, ModeSemiAuto:
		// The current orders pass to the actuators unfiltered; no PID.
		// The two modes differ only in how input shapes the orders:
		// momentary full-scale in manual, accumulated holds in semi-auto.
		return Commands{Rudder: nav.Targets.Rudder, Thrust: nav.Targets.Thrust}
	case ModeAutohelm:
		return nav.trackTargets(pose, dt)
	case ModeWaypoint:
		return nav.updateGuidance(pose, dt)
	default:
		return Commands{}
	}
}

// trackTargets is the heading & speed control loop: two independent PID
// instances are the only path from target to actuator command. Heading
// error is the signed shortest angular distance; speed error is a simple
// difference. The PID output bounds pre-clamp the commands.
func (nav *Nav) trackTargets(pose Pose, dt float64) Commands {
	return nav.trackHeadingSpeed(pose, nav.Targets.Heading, nav.Targets.Speed, dt)
}

func (nav *Nav) trackHeadingSpeed(pose Pose, heading, speed, dt float64) Commands {
	hdgErr := math.HeadingSignedTurn(pose.Heading, heading)
	rudder := nav.headingPID.Update(hdgErr, dt)
	thrust := nav.speedPID.Update(speed-pose.Speed, dt)
	return Commands{Rudder: rudder, Thrust: thrust}
}

// resetControllers clears both PID loops; called on any discontinuity in
// what is being tracked so stale integral/derivative state cannot leak
// into the next control problem.
func (nav *Nav) resetControllers() {
	nav.headingPID.Reset()
	nav.speedPID.Reset()
	nav.lastTier = tierNone
}

func (nav *Nav) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("mode", nav.Mode.String()),
		slog.Any("targets", nav.Targets),
		slog.Int("active_waypoint", nav.ActiveWaypoint),
		slog.Float64("xte", nav.XTE))
}

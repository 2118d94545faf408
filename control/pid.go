// control/pid.go
// Copyright(c) 2026 pelorus contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package control provides a generic single-loop feedback controller.
// One PID instance is held per controlled axis; the same implementation
// serves the heading loop (error in degrees, output in rudder degrees)
// and the speed loop (error in m/s, output in thrust fraction).
package control

import (
	"log/slog"

	"github.com/pelorus-sim/pelorus/math"
)

// PID is a proportional-integral-derivative controller with output
// clamping and clamp-and-freeze anti-windup: while the unclamped output
// is beyond a bound in the direction the error is pushing, the integral
// stops accumulating so it cannot wind up during saturation.
type PID struct {
	Kp, Ki, Kd float64
	OutMin     float64
	OutMax     float64

	integral  float64
	prevError float64
	hasPrev   bool
}

func NewPID(kp, ki, kd, outMin, outMax float64) *PID {
	return &PID{Kp: kp, Ki: ki, Kd: kd, OutMin: outMin, OutMax: outMax}
}

// Update advances the controller by dt seconds given the current error
// (setpoint minus measurement) and returns the clamped output. For
// angular errors the caller must pass the signed shortest-angle
// difference; see math.HeadingSignedTurn.
func (pid *PID) Update(err, dt float64) float64 {
	p := pid.Kp * err

	var d float64
	if pid.hasPrev && dt > 0 {
		d = pid.Kd * (err - pid.prevError) / dt
	}
	pid.prevError = err
	pid.hasPrev = true

	if dt > 0 {
		// Trial integration: commit only if the resulting output is not
		// saturated in the direction the error is pushing.
		trial := pid.integral + err*dt
		unclamped := p + pid.Ki*trial + d
		saturating := (unclamped > pid.OutMax && err > 0) || (unclamped < pid.OutMin && err < 0)
		if !saturating {
			pid.integral = trial
		}
	}

	return math.Clamp(p+pid.Ki*pid.integral+d, pid.OutMin, pid.OutMax)
}

// Reset clears the accumulated integral and previous-error state. It
// must be called on any discontinuous change to what is being tracked
// (mode switch, waypoint advance) so stale state cannot produce a
// transient derivative spike or carried-over windup.
func (pid *PID) Reset() {
	pid.integral = 0
	pid.prevError = 0
	pid.hasPrev = false
}

func (pid *PID) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("kp", pid.Kp),
		slog.Float64("ki", pid.Ki),
		slog.Float64("kd", pid.Kd),
		slog.Float64("integral", pid.integral))
}

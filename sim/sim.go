// sim/sim.go
// Copyright(c) 2026 pelorus contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package sim owns the per-tick simulation loop: it feeds the vessel's
// state to the navigation core, hands the resulting actuator commands to
// the physics model, and maintains the derived presentation state (view,
// track history, breadcrumbs) that an external renderer consumes via
// snapshots.
package sim

import (
	"log/slog"

	"github.com/brunoga/deep"

	"github.com/pelorus-sim/pelorus/config"
	"github.com/pelorus-sim/pelorus/log"
	"github.com/pelorus-sim/pelorus/math"
	"github.com/pelorus-sim/pelorus/nav"
)

// maxTickSeconds bounds the simulated time a single tick may cover.
// When the host loop stalls longer than this, simulated time falls
// behind wall time rather than integrating a huge step.
const maxTickSeconds = 1.0

// Breadcrumb is a position fix dropped at a fixed simulated-time
// interval, so spacing between crumbs shows speed over ground.
type Breadcrumb struct {
	Position math.Point2LL `json:"position"`
	Time     float64       `json:"time"` // simulated seconds since start
}

type Sim struct {
	Vessel *Vessel
	Nav    *nav.Nav
	View   View

	// Track is the continuous position history; Breadcrumbs are the
	// interval-sampled subset.
	Track       []math.Point2LL
	Breadcrumbs []Breadcrumb

	SimTime float64 // simulated seconds since start

	lastBreadcrumb float64
	lastLogged     float64

	cfg *config.Config
	lg  *log.Logger
}

func New(cfg *config.Config, lg *log.Logger) *Sim {
	start := math.Point2LL{cfg.Sim.StartLon, cfg.Sim.StartLat}
	s := &Sim{
		Vessel: NewVessel(cfg.Vessel, start, 0),
		Nav:    nav.New(cfg, lg),
		View:   newView(cfg.Sim),
		Track:  []math.Point2LL{start},
		cfg:    cfg,
		lg:     lg,
	}
	s.Breadcrumbs = []Breadcrumb{{Position: start}}
	lg.Info("sim initialized", slog.Any("start", start))
	return s
}

// Tick advances the simulation by dt seconds of simulated time: control
// first, then physics, then the derived presentation state, strictly in
// that order.
func (s *Sim) Tick(dt float64) {
	dt = math.Clamp(dt, 0, maxTickSeconds)
	if dt == 0 {
		return
	}

	cmd := s.Nav.Update(s.pose(), dt)
	s.Vessel.Integrate(cmd.Rudder, cmd.Thrust, dt)
	s.SimTime += dt

	s.View.Follow(s.Vessel.Position)
	s.recordTrack()
}

// pose samples the vessel's physical state for the navigation core.
func (s *Sim) pose() nav.Pose {
	return nav.Pose{
		Position: s.Vessel.Position,
		Heading:  s.Vessel.Heading,
		Speed:    s.Vessel.Speed,
		Rudder:   s.Vessel.Rudder,
		Thrust:   s.Vessel.Thrust,
	}
}

func (s *Sim) recordTrack() {
	// Extend the track only on actual movement so a stationary vessel
	// doesn't grow it one point per tick.
	if last := s.Track[len(s.Track)-1]; last != s.Vessel.Position {
		s.Track = append(s.Track, s.Vessel.Position)
	}

	if s.SimTime-s.lastBreadcrumb >= s.cfg.Sim.BreadcrumbIntervalS {
		s.Breadcrumbs = append(s.Breadcrumbs, Breadcrumb{Position: s.Vessel.Position, Time: s.SimTime})
		s.lastBreadcrumb = s.SimTime
	}
}

// The operator event entry points, forwarded to the navigation core with
// the current pose. The view zoom is the one event the core never sees.

func (s *Sim) SetMode(m nav.Mode)          { s.Nav.SetMode(m, s.pose()) }
func (s *Sim) ThrottleDelta(steps float64) { s.Nav.ThrottleDelta(steps) }
func (s *Sim) HelmDelta(steps float64)     { s.Nav.HelmDelta(steps) }
func (s *Sim) AddWaypoint(p math.Point2LL) { s.Nav.AddWaypoint(p, s.pose()) }
func (s *Sim) RemoveLastWaypoint()         { s.Nav.RemoveLastWaypoint(s.pose()) }
func (s *Sim) ClearRoute()                 { s.Nav.ClearRoute() }
func (s *Sim) ZoomDelta(steps float64)     { s.View.ZoomDelta(steps) }

// Snapshot is the externally visible simulation state, fully decoupled
// from the live structures so a renderer can hold it across ticks.
type Snapshot struct {
	Vessel         State           `json:"vessel"`
	Mode           nav.Mode        `json:"mode"`
	Targets        nav.Targets     `json:"targets"`
	Route          nav.Route       `json:"route"`
	ActiveWaypoint int             `json:"activeWaypoint"`
	XTE            float64         `json:"xte"`
	View           View            `json:"view"`
	Track          []math.Point2LL `json:"track"`
	Breadcrumbs    []Breadcrumb    `json:"breadcrumbs"`
	SimTime        float64         `json:"simTime"`
}

func (s *Sim) Snapshot() Snapshot {
	return deep.MustCopy(Snapshot{
		Vessel:         s.Vessel.State,
		Mode:           s.Nav.Mode,
		Targets:        s.Nav.Targets,
		Route:          s.Nav.Route,
		ActiveWaypoint: s.Nav.ActiveWaypoint,
		XTE:            s.Nav.XTE,
		View:           s.View,
		Track:          s.Track,
		Breadcrumbs:    s.Breadcrumbs,
		SimTime:        s.SimTime,
	})
}

// LogState writes a periodic situational line at most once per simulated
// second; the run loop calls it every tick.
func (s *Sim) LogState() {
	if s.SimTime-s.lastLogged < 1 {
		return
	}
	s.lastLogged = s.SimTime

	s.lg.Info("state",
		slog.Float64("t", s.SimTime),
		slog.Any("vessel", s.Vessel.State),
		slog.Float64("speed_kts", s.Vessel.Speed*math.MetersPerSecondToKnots),
		slog.String("compass", math.ShortCompass(s.Vessel.Heading)),
		slog.Any("nav", s.Nav))
}

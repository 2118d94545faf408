// sim/view.go
// Copyright(c) 2026 pelorus contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	gomath "math"

	"github.com/pelorus-sim/pelorus/config"
	"github.com/pelorus-sim/pelorus/math"
)

// zoomFactorPerStep is the per-step multiplier applied to the view span;
// one step out widens it by 20%.
const zoomFactorPerStep = 1.2

// View is the vessel-following camera state exposed to whatever renders
// the simulation: a center point that eases toward the vessel and a
// longitude span that sets the zoom level.
type View struct {
	Center  math.Point2LL `json:"center"`
	LonSpan float64       `json:"lonSpan"` // degrees of longitude across the view

	minSpan, maxSpan float64
}

func newView(cfg config.Sim) View {
	return View{
		Center:  math.Point2LL{cfg.StartLon, cfg.StartLat},
		LonSpan: cfg.ViewLonSpan,
		minSpan: cfg.ViewMinLonSpan,
		maxSpan: cfg.ViewMaxLonSpan,
	}
}

// Follow eases the view center toward the target by a fixed fraction
// per tick, which smooths out the vessel's motion without ever letting
// it leave the view.
func (v *View) Follow(target math.Point2LL) {
	const ease = 0.1
	v.Center = math.Point2LL{
		math.Lerp(ease, v.Center.Longitude(), target.Longitude()),
		math.Lerp(ease, v.Center.Latitude(), target.Latitude()),
	}
}

// ZoomDelta widens the view by steps zoom increments; negative steps
// narrow it. The span is clamped to the configured range.
func (v *View) ZoomDelta(steps float64) {
	v.LonSpan = math.Clamp(v.LonSpan*gomath.Pow(zoomFactorPerStep, steps), v.minSpan, v.maxSpan)
}

// nav/route.go
// Copyright(c) 2026 pelorus contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"log/slog"
	"strconv"

	"github.com/pelorus-sim/pelorus/math"
)

// Waypoint is a single point along a route. Waypoints are immutable once
// created; Index records insertion order and indices in a Route are
// always contiguous.
type Waypoint struct {
	Location math.Point2LL `json:"location"`
	Index    int           `json:"index"`
}

func (wp Waypoint) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("index", wp.Index),
		slog.Any("location", wp.Location))
}

// Route is an ordered, append-mostly sequence of waypoints. The only
// structural edits are append, remove-last, and clear, so the active leg
// can be tracked by index alone and trivially re-anchored on edits.
type Route []Waypoint

// NoActiveWaypoint is the active-leg sentinel used when the route is
// empty or has been fully traversed.
const NoActiveWaypoint = -1

// At returns the waypoint at index i, with ok false for the sentinel or
// any out-of-range index.
func (r Route) At(i int) (Waypoint, bool) {
	if i < 0 || i >= len(r) {
		return Waypoint{}, false
	}
	return r[i], true
}

func (r Route) Append(p math.Point2LL) Route {
	return append(r, Waypoint{Location: p, Index: len(r)})
}

func (r Route) LogValue() slog.Value {
	attrs := make([]slog.Attr, len(r))
	for i, wp := range r {
		attrs[i] = slog.String(strconv.Itoa(wp.Index), wp.Location.DDString())
	}
	return slog.GroupValue(attrs...)
}

// main.go
// Copyright(c) 2026 pelorus contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// This file contains the implementation of the main() function, which
// initializes the system and then runs the simulation loop until the
// process is interrupted or the requested duration elapses.

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pelorus-sim/pelorus/config"
	"github.com/pelorus-sim/pelorus/log"
	"github.com/pelorus-sim/pelorus/math"
	"github.com/pelorus-sim/pelorus/nav"
	"github.com/pelorus-sim/pelorus/sim"
)

var (
	configFilename = flag.String("config", "", "filename of JSON file with configuration overrides")
	logLevel       = flag.String("loglevel", "", "logging level: debug, info, warn, error")
	logDir         = flag.String("logdir", "", "log file directory")
	routeSpec      = flag.String("route", "", "semicolon-separated lat,lon waypoints; starts in waypoint mode")
	runDuration    = flag.Duration("duration", 0, "stop after this much wall-clock time (0 runs until interrupted)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFilename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logDir != "" {
		cfg.LogDir = *logDir
	}

	lg := log.New(cfg.LogLevel, cfg.LogDir)

	s := sim.New(cfg, lg)
	if *routeSpec != "" {
		route, err := parseRoute(*routeSpec)
		if err != nil {
			lg.Errorf("-route: %v", err)
			os.Exit(1)
		}
		for _, p := range route {
			s.AddWaypoint(p)
		}
		s.SetMode(nav.ModeWaypoint)
	}

	run(s, cfg, lg)
}

// run is the fixed-rate simulation loop: wall-clock time between ticker
// firings becomes the simulated dt, so the simulation tracks real time
// even when the host stalls (subject to the per-tick clamp).
func run(s *sim.Sim, cfg *config.Config, lg *log.Logger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	var stop <-chan time.Time
	if *runDuration > 0 {
		stop = time.After(*runDuration)
	}

	ticker := time.NewTicker(time.Duration(float64(time.Second) / cfg.Sim.TickRateHz))
	defer ticker.Stop()

	prev := time.Now()
	for {
		select {
		case sig := <-sigs:
			lg.Infof("received signal %v, exiting", sig)
			return
		case <-stop:
			lg.Info("run duration elapsed, exiting")
			return
		case now := <-ticker.C:
			s.Tick(now.Sub(prev).Seconds())
			prev = now
			s.LogState()
		}
	}
}

// parseRoute parses "lat,lon;lat,lon;..." into waypoint locations.
func parseRoute(spec string) ([]math.Point2LL, error) {
	var route []math.Point2LL
	for _, wp := range strings.Split(spec, ";") {
		lat, lon, ok := strings.Cut(strings.TrimSpace(wp), ",")
		if !ok {
			return nil, fmt.Errorf("%q: expected lat,lon", wp)
		}
		latf, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", lat, err)
		}
		lonf, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", lon, err)
		}
		if latf < -90 || latf > 90 || lonf < -180 || lonf > 180 {
			return nil, fmt.Errorf("%q: out of range", wp)
		}
		route = append(route, math.Point2LL{lonf, latf})
	}
	return route, nil
}

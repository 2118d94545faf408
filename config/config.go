// config/config.go
// Copyright(c) 2026 pelorus contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package config loads and validates the simulator's tunable constants.
// Everything here is read once at startup; an invalid configuration is
// fatal before the simulation begins, never a per-tick condition.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Vessel holds the physical constants of the simulated hull.
type Vessel struct {
	MassKg           float64 `json:"massKg" mapstructure:"massKg"`
	DragCoeff        float64 `json:"dragCoeff" mapstructure:"dragCoeff"`               // N per m/s of speed
	MaxThrustN       float64 `json:"maxThrustN" mapstructure:"maxThrustN"`             // force at thrust = 1.0
	MaxSpeedMPS      float64 `json:"maxSpeedMps" mapstructure:"maxSpeedMps"`           // hard safety bound, above the drag equilibrium
	MaxRudderDeg     float64 `json:"maxRudderDeg" mapstructure:"maxRudderDeg"`         // hard-over deflection
	YawRateCoeff     float64 `json:"yawRateCoeff" mapstructure:"yawRateCoeff"`         // deg/s of yaw per (deg rudder x m/s)
	MaxReverseThrust float64 `json:"maxReverseThrust" mapstructure:"maxReverseThrust"` // thrust floor, negative
	MaxTimeStepS     float64 `json:"maxTimeStepS" mapstructure:"maxTimeStepS"`         // integrator substep bound
}

// PID holds gains and output bounds for one control axis.
type PID struct {
	Kp     float64 `json:"kp" mapstructure:"kp"`
	Ki     float64 `json:"ki" mapstructure:"ki"`
	Kd     float64 `json:"kd" mapstructure:"kd"`
	OutMin float64 `json:"outMin" mapstructure:"outMin"`
	OutMax float64 `json:"outMax" mapstructure:"outMax"`
}

// Guidance holds the waypoint-tracking constants.
type Guidance struct {
	ArrivalRadiusM      float64 `json:"arrivalRadiusM" mapstructure:"arrivalRadiusM"`
	DecelRadiusM        float64 `json:"decelRadiusM" mapstructure:"decelRadiusM"`
	MinApproachSpeedMPS float64 `json:"minApproachSpeedMps" mapstructure:"minApproachSpeedMps"`
	DefaultCruiseKts    float64 `json:"defaultCruiseKts" mapstructure:"defaultCruiseKts"`
	XTEGainDegPerM      float64 `json:"xteGainDegPerM" mapstructure:"xteGainDegPerM"`
	MaxXTECorrectionDeg float64 `json:"maxXteCorrectionDeg" mapstructure:"maxXteCorrectionDeg"`
	FineBandDeg         float64 `json:"fineBandDeg" mapstructure:"fineBandDeg"`
	HardBandDeg         float64 `json:"hardBandDeg" mapstructure:"hardBandDeg"`
}

// Input holds the per-event increments applied by the axis-delta
// operations. A delta event carries a signed step count; these are the
// per-step sizes.
type Input struct {
	ActuatorStep   float64 `json:"actuatorStep" mapstructure:"actuatorStep"`     // fraction of full scale per step
	HeadingStepDeg float64 `json:"headingStepDeg" mapstructure:"headingStepDeg"` // Autohelm heading target
	SpeedStepKts   float64 `json:"speedStepKts" mapstructure:"speedStepKts"`     // Autohelm/Waypoint speed target
}

// Sim holds scenario and run-loop settings.
type Sim struct {
	StartLat            float64 `json:"startLat" mapstructure:"startLat"`
	StartLon            float64 `json:"startLon" mapstructure:"startLon"`
	TickRateHz          float64 `json:"tickRateHz" mapstructure:"tickRateHz"`
	BreadcrumbIntervalS float64 `json:"breadcrumbIntervalS" mapstructure:"breadcrumbIntervalS"`
	ViewLonSpan         float64 `json:"viewLonSpan" mapstructure:"viewLonSpan"`
	ViewMinLonSpan      float64 `json:"viewMinLonSpan" mapstructure:"viewMinLonSpan"`
	ViewMaxLonSpan      float64 `json:"viewMaxLonSpan" mapstructure:"viewMaxLonSpan"`
}

type Config struct {
	LogLevel string `json:"logLevel" mapstructure:"logLevel"`
	LogDir   string `json:"logDir" mapstructure:"logDir"`

	Vessel     Vessel   `json:"vessel" mapstructure:"vessel"`
	HeadingPID PID      `json:"headingPid" mapstructure:"headingPid"`
	SpeedPID   PID      `json:"speedPid" mapstructure:"speedPid"`
	Guidance   Guidance `json:"guidance" mapstructure:"guidance"`
	Input      Input    `json:"input" mapstructure:"input"`
	Sim        Sim      `json:"sim" mapstructure:"sim"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("logDir", "")

	v.SetDefault("vessel.massKg", 1000.0)
	v.SetDefault("vessel.dragCoeff", 50.0)
	v.SetDefault("vessel.maxThrustN", 500.0)
	v.SetDefault("vessel.maxSpeedMps", 12.0)
	v.SetDefault("vessel.maxRudderDeg", 35.0)
	v.SetDefault("vessel.yawRateCoeff", 0.03)
	v.SetDefault("vessel.maxReverseThrust", -0.5)
	v.SetDefault("vessel.maxTimeStepS", 0.1)

	// The default proportional gain matches the slope of the guidance
	// law's middle rudder tier (maxRudderDeg/hardBandDeg) so that the
	// handoff between the two is continuous.
	v.SetDefault("headingPid.kp", 35.0/45.0)
	v.SetDefault("headingPid.ki", 0.02)
	v.SetDefault("headingPid.kd", 0.4)
	v.SetDefault("headingPid.outMin", -35.0)
	v.SetDefault("headingPid.outMax", 35.0)

	v.SetDefault("speedPid.kp", 0.8)
	v.SetDefault("speedPid.ki", 0.05)
	v.SetDefault("speedPid.kd", 0.0)
	v.SetDefault("speedPid.outMin", -0.5)
	v.SetDefault("speedPid.outMax", 1.0)

	v.SetDefault("guidance.arrivalRadiusM", 25.0)
	v.SetDefault("guidance.decelRadiusM", 100.0)
	v.SetDefault("guidance.minApproachSpeedMps", 0.5)
	v.SetDefault("guidance.defaultCruiseKts", 2.0)
	v.SetDefault("guidance.xteGainDegPerM", 0.5)
	v.SetDefault("guidance.maxXteCorrectionDeg", 30.0)
	v.SetDefault("guidance.fineBandDeg", 10.0)
	v.SetDefault("guidance.hardBandDeg", 45.0)

	v.SetDefault("input.actuatorStep", 0.01)
	v.SetDefault("input.headingStepDeg", 1.0)
	v.SetDefault("input.speedStepKts", 0.1)

	v.SetDefault("sim.startLat", 50.88)
	v.SetDefault("sim.startLon", -1.38)
	v.SetDefault("sim.tickRateHz", 60.0)
	v.SetDefault("sim.breadcrumbIntervalS", 3.0)
	v.SetDefault("sim.viewLonSpan", 0.04)
	v.SetDefault("sim.viewMinLonSpan", 0.0001)
	v.SetDefault("sim.viewMaxLonSpan", 0.2)
}

// Load reads configuration from the JSON file at path, if non-empty, on
// top of the built-in defaults, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default returns the built-in configuration, which is always valid.
func Default() *Config {
	c, err := Load("")
	if err != nil {
		panic(err) // defaults must validate
	}
	return c
}

func (c *Config) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	ve := c.Vessel
	if ve.MassKg <= 0 {
		return bad("vessel.massKg %v must be positive", ve.MassKg)
	}
	if ve.DragCoeff <= 0 {
		return bad("vessel.dragCoeff %v must be positive", ve.DragCoeff)
	}
	if ve.MaxThrustN <= 0 {
		return bad("vessel.maxThrustN %v must be positive", ve.MaxThrustN)
	}
	if ve.MaxSpeedMPS <= 0 {
		return bad("vessel.maxSpeedMps %v must be positive", ve.MaxSpeedMPS)
	}
	if ve.MaxSpeedMPS < ve.MaxThrustN/ve.DragCoeff {
		return bad("vessel.maxSpeedMps %v clips the thrust/drag equilibrium %v",
			ve.MaxSpeedMPS, ve.MaxThrustN/ve.DragCoeff)
	}
	if ve.MaxRudderDeg <= 0 || ve.MaxRudderDeg > 90 {
		return bad("vessel.maxRudderDeg %v must be in (0, 90]", ve.MaxRudderDeg)
	}
	if ve.YawRateCoeff <= 0 {
		return bad("vessel.yawRateCoeff %v must be positive", ve.YawRateCoeff)
	}
	if ve.MaxReverseThrust >= 0 || ve.MaxReverseThrust < -1 {
		return bad("vessel.maxReverseThrust %v must be in [-1, 0)", ve.MaxReverseThrust)
	}
	if ve.MaxTimeStepS <= 0 {
		return bad("vessel.maxTimeStepS %v must be positive", ve.MaxTimeStepS)
	}

	for _, p := range []struct {
		name string
		pid  PID
	}{{"headingPid", c.HeadingPID}, {"speedPid", c.SpeedPID}} {
		if p.pid.OutMin >= p.pid.OutMax {
			return bad("%s output bounds [%v, %v] are empty", p.name, p.pid.OutMin, p.pid.OutMax)
		}
		if p.pid.Kp < 0 || p.pid.Ki < 0 || p.pid.Kd < 0 {
			return bad("%s gains must be non-negative", p.name)
		}
	}

	g := c.Guidance
	if g.ArrivalRadiusM <= 0 {
		return bad("guidance.arrivalRadiusM %v must be positive", g.ArrivalRadiusM)
	}
	if g.DecelRadiusM <= g.ArrivalRadiusM {
		return bad("guidance.decelRadiusM %v must exceed arrivalRadiusM %v",
			g.DecelRadiusM, g.ArrivalRadiusM)
	}
	if g.MinApproachSpeedMPS < 0 {
		return bad("guidance.minApproachSpeedMps %v must be non-negative", g.MinApproachSpeedMPS)
	}
	if g.DefaultCruiseKts <= 0 {
		return bad("guidance.defaultCruiseKts %v must be positive", g.DefaultCruiseKts)
	}
	if g.XTEGainDegPerM <= 0 {
		return bad("guidance.xteGainDegPerM %v must be positive", g.XTEGainDegPerM)
	}
	if g.MaxXTECorrectionDeg <= 0 || g.MaxXTECorrectionDeg > 90 {
		return bad("guidance.maxXteCorrectionDeg %v must be in (0, 90]", g.MaxXTECorrectionDeg)
	}
	if g.FineBandDeg <= 0 || g.HardBandDeg <= g.FineBandDeg || g.HardBandDeg > 180 {
		return bad("guidance rudder tiers (fine %v, hard %v) must satisfy 0 < fine < hard <= 180",
			g.FineBandDeg, g.HardBandDeg)
	}

	in := c.Input
	if in.ActuatorStep <= 0 || in.ActuatorStep > 1 {
		return bad("input.actuatorStep %v must be in (0, 1]", in.ActuatorStep)
	}
	if in.HeadingStepDeg <= 0 || in.HeadingStepDeg > 180 {
		return bad("input.headingStepDeg %v must be in (0, 180]", in.HeadingStepDeg)
	}
	if in.SpeedStepKts <= 0 {
		return bad("input.speedStepKts %v must be positive", in.SpeedStepKts)
	}

	s := c.Sim
	if s.StartLat < -89 || s.StartLat > 89 {
		return bad("sim.startLat %v must be in [-89, 89]", s.StartLat)
	}
	if s.StartLon < -180 || s.StartLon > 180 {
		return bad("sim.startLon %v must be in [-180, 180]", s.StartLon)
	}
	if s.TickRateHz <= 0 {
		return bad("sim.tickRateHz %v must be positive", s.TickRateHz)
	}
	if s.BreadcrumbIntervalS <= 0 {
		return bad("sim.breadcrumbIntervalS %v must be positive", s.BreadcrumbIntervalS)
	}
	if s.ViewMinLonSpan <= 0 || s.ViewMaxLonSpan <= s.ViewMinLonSpan ||
		s.ViewLonSpan < s.ViewMinLonSpan || s.ViewLonSpan > s.ViewMaxLonSpan {
		return bad("sim view spans (%v in [%v, %v]) are inconsistent",
			s.ViewLonSpan, s.ViewMinLonSpan, s.ViewMaxLonSpan)
	}

	return nil
}

// Package config defines the experience configuration and its loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Durations are kept in milliseconds so YAML and env stay flat.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
	"fmt"
	"slices"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile receives log records while the terminal UI owns stdout.
	LogFile string `koanf:"log_file"`

	// Addr configures the diagnostics listen address, e.g. "127.0.0.1:9090".
	// Empty disables the listener.
	Addr string `koanf:"addr"`

	// FPS is the frame rate of the terminal UI.
	FPS int `koanf:"fps"`

	// Seed feeds every random source. Zero picks a time based seed.
	Seed int64 `koanf:"seed"`

	// SignalVariant and CoherenceVariant choose the initial visuals.
	SignalVariant    string `koanf:"signal_variant"`
	CoherenceVariant string `koanf:"coherence_variant"`

	// Phase timeline cues, relative to sequence start.
	BreakthroughMS int `koanf:"breakthrough_ms"`
	TransitionMS   int `koanf:"transition_ms"`
	ChaosMS        int `koanf:"chaos_ms"`
	ExplodeMS      int `koanf:"explode_ms"`
	RevealMS       int `koanf:"reveal_ms"`

	// ChaosRampMS is the time the chaos level takes to reach 1.
	ChaosRampMS int `koanf:"chaos_ramp_ms"`

	// Coherence simulation.
	SignaturePeriodMS   int     `koanf:"signature_period_ms"`
	JoinProbability     float64 `koanf:"join_probability"`
	TargetSignatures    int     `koanf:"target_signatures"`
	Smoothing           float64 `koanf:"smoothing"`
	StabilizedThreshold float64 `koanf:"stabilized_threshold"`
	StabilizedDelayMS   int     `koanf:"stabilized_delay_ms"`

	// NoiseIntensity selects the noise overlay preset: low, medium, high.
	NoiseIntensity string `koanf:"noise_intensity"`
}

// New creates a Config with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		LogFile:             "fracture.log",
		Addr:                "",
		FPS:                 30,
		Seed:                0,
		SignalVariant:       "burst",
		CoherenceVariant:    "geometry",
		BreakthroughMS:      1300,
		TransitionMS:        5500,
		ChaosMS:             11500,
		ExplodeMS:           15500,
		RevealMS:            18500,
		ChaosRampMS:         4000,
		SignaturePeriodMS:   2500,
		JoinProbability:     0.7,
		TargetSignatures:    20,
		Smoothing:           0.1,
		StabilizedThreshold: 0.98,
		StabilizedDelayMS:   2000,
		NoiseIntensity:      "medium",
	}
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.FPS <= 0 || c.FPS > 240 {
		return fmt.Errorf("%w: fps must be in (0, 240], got %d", ErrInvalidConfig, c.FPS)
	}
	if !slices.Contains([]string{"burst", "crystal", "synapse"}, c.SignalVariant) {
		return fmt.Errorf("%w: unknown signal_variant %q", ErrInvalidConfig, c.SignalVariant)
	}
	if !slices.Contains([]string{"geometry", "neural", "waveform", "energy"}, c.CoherenceVariant) {
		return fmt.Errorf("%w: unknown coherence_variant %q", ErrInvalidConfig, c.CoherenceVariant)
	}
	if !slices.Contains([]string{"low", "medium", "high"}, c.NoiseIntensity) {
		return fmt.Errorf("%w: unknown noise_intensity %q", ErrInvalidConfig, c.NoiseIntensity)
	}
	if c.BreakthroughMS < 0 {
		return fmt.Errorf("%w: breakthrough_ms must not be negative", ErrInvalidConfig)
	}
	cues := []int{c.TransitionMS, c.ChaosMS, c.ExplodeMS, c.RevealMS}
	prev := 0
	for _, cue := range cues {
		if cue <= prev {
			return fmt.Errorf("%w: phase cues must be strictly increasing, got %v", ErrInvalidConfig, cues)
		}
		prev = cue
	}
	if c.ChaosRampMS <= 0 || c.SignaturePeriodMS <= 0 || c.StabilizedDelayMS < 0 {
		return fmt.Errorf("%w: ramp, signature period and stabilized delay must be positive", ErrInvalidConfig)
	}
	if c.JoinProbability < 0 || c.JoinProbability > 1 {
		return fmt.Errorf("%w: join_probability must be in [0,1]", ErrInvalidConfig)
	}
	if c.Smoothing <= 0 || c.Smoothing > 1 {
		return fmt.Errorf("%w: smoothing must be in (0,1]", ErrInvalidConfig)
	}
	if c.StabilizedThreshold <= 0 || c.StabilizedThreshold > 1 {
		return fmt.Errorf("%w: stabilized_threshold must be in (0,1]", ErrInvalidConfig)
	}
	// Smoothed stability only reaches 1 exactly when smoothing is 1.
	if c.StabilizedThreshold == 1 && c.Smoothing < 1 {
		return fmt.Errorf("%w: stabilized_threshold 1 requires smoothing 1", ErrInvalidConfig)
	}
	if c.TargetSignatures <= 0 {
		return fmt.Errorf("%w: target_signatures must be positive", ErrInvalidConfig)
	}
	return nil
}

// FrameInterval returns the duration of one UI frame.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

// Ms converts a millisecond setting to a duration.
func Ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

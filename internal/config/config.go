// Package config holds the process-wide perception tuning parameters.
// Load reads them from a JSON settings file, so one file can seed both
// tests and tooling.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Defaults for the perception engine.
const (
	// DefaultMaxDist is the default clustering distance for spatial
	// groups, as a fraction of the scene frame.
	DefaultMaxDist = 0.06
	// DefaultActivationThreshold is the boundary between "active" and
	// "inactive" percepts for label matching.
	DefaultActivationThreshold = 0.5
	// DefaultScenePairCount is how many example scene pairs a problem
	// presents.
	DefaultScenePairCount = 8
)

// Settings bundles the tunable perception parameters.
type Settings struct {
	MaxDist             float64
	ActivationThreshold float64
	ScenePairCount      int
}

// Default returns the stock settings.
func Default() Settings {
	return Settings{
		MaxDist:             DefaultMaxDist,
		ActivationThreshold: DefaultActivationThreshold,
		ScenePairCount:      DefaultScenePairCount,
	}
}

// Current is the process-wide settings instance. Perception reads it;
// tooling may replace individual fields at startup. Not safe for
// concurrent mutation, matching the single-threaded scheduling model.
var Current = Default()

// fileSettings is the on-disk schema. Fields omitted from the JSON
// file retain their defaults, so partial configs are safe.
type fileSettings struct {
	MaxDist             *float64 `json:"max_dist,omitempty"`
	ActivationThreshold *float64 `json:"activation_threshold,omitempty"`
	ScenePairCount      *int     `json:"scene_pair_count,omitempty"`
}

// Load reads a JSON settings file and merges it over the defaults.
func Load(path string) (Settings, error) {
	s := Default()

	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return s, fmt.Errorf("settings file must have .json extension, got %q", ext)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}

	var fs fileSettings
	if err := json.Unmarshal(data, &fs); err != nil {
		return s, fmt.Errorf("parse settings: %w", err)
	}
	if fs.MaxDist != nil {
		s.MaxDist = *fs.MaxDist
	}
	if fs.ActivationThreshold != nil {
		s.ActivationThreshold = *fs.ActivationThreshold
	}
	if fs.ScenePairCount != nil {
		s.ScenePairCount = *fs.ScenePairCount
	}
	if s.MaxDist <= 0 || s.ActivationThreshold <= 0 || s.ActivationThreshold >= 1 {
		return s, fmt.Errorf("settings out of range: max_dist=%v activation_threshold=%v",
			s.MaxDist, s.ActivationThreshold)
	}
	return s, nil
}

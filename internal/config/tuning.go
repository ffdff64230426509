package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the tunable parameters of the stimulus analysis
// pipeline. Fields omitted from the JSON file retain their defaults, so
// partial configs are safe; the Get* methods provide the fallback values.
type TuningConfig struct {
	// Peak detector params
	PeakWindow       *int     `json:"peak_window,omitempty"`
	PeakDistance     *int     `json:"peak_distance,omitempty"`
	PeakThreshold    *float64 `json:"peak_threshold,omitempty"`
	PeakMinThreshold *float64 `json:"peak_min_threshold,omitempty"`
	OutlierThreshold *float64 `json:"outlier_threshold,omitempty"`

	// Segment descriptor params
	MaxTransitionFrames *int     `json:"max_transition_frames,omitempty"`
	StaticLimit         *float64 `json:"static_limit,omitempty"`
	MarginLimit         *float64 `json:"margin_limit,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file is
// validated to ensure it has a .json extension and is under the max file size.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.PeakWindow != nil && *c.PeakWindow < 1 {
		return fmt.Errorf("peak_window must be at least 1, got %d", *c.PeakWindow)
	}
	if c.PeakDistance != nil && *c.PeakDistance < 1 {
		return fmt.Errorf("peak_distance must be at least 1, got %d", *c.PeakDistance)
	}
	if c.PeakThreshold != nil && *c.PeakThreshold < 0 {
		return fmt.Errorf("peak_threshold must be non-negative, got %f", *c.PeakThreshold)
	}
	if c.PeakMinThreshold != nil && *c.PeakMinThreshold < 0 {
		return fmt.Errorf("peak_min_threshold must be non-negative, got %f", *c.PeakMinThreshold)
	}
	if c.OutlierThreshold != nil && *c.OutlierThreshold <= 0 {
		return fmt.Errorf("outlier_threshold must be positive, got %f", *c.OutlierThreshold)
	}
	if c.MaxTransitionFrames != nil && *c.MaxTransitionFrames < 0 {
		return fmt.Errorf("max_transition_frames must be non-negative, got %d", *c.MaxTransitionFrames)
	}
	if c.StaticLimit != nil && *c.StaticLimit < 0 {
		return fmt.Errorf("static_limit must be non-negative, got %f", *c.StaticLimit)
	}
	if c.MarginLimit != nil && *c.MarginLimit < 0 {
		return fmt.Errorf("margin_limit must be non-negative, got %f", *c.MarginLimit)
	}
	return nil
}

// GetPeakWindow returns the peak_window value or the default.
func (c *TuningConfig) GetPeakWindow() int {
	if c.PeakWindow == nil {
		return 10
	}
	return *c.PeakWindow
}

// GetPeakDistance returns the peak_distance value or the default.
func (c *TuningConfig) GetPeakDistance() int {
	if c.PeakDistance == nil {
		return 7
	}
	return *c.PeakDistance
}

// GetPeakThreshold returns the peak_threshold value or the default.
func (c *TuningConfig) GetPeakThreshold() float64 {
	if c.PeakThreshold == nil {
		return 5.0
	}
	return *c.PeakThreshold
}

// GetPeakMinThreshold returns the peak_min_threshold value or the default.
func (c *TuningConfig) GetPeakMinThreshold() float64 {
	if c.PeakMinThreshold == nil {
		return 10.0
	}
	return *c.PeakMinThreshold
}

// GetOutlierThreshold returns the outlier_threshold value or the default.
func (c *TuningConfig) GetOutlierThreshold() float64 {
	if c.OutlierThreshold == nil {
		return 2.0
	}
	return *c.OutlierThreshold
}

// GetMaxTransitionFrames returns the max_transition_frames value or the default.
func (c *TuningConfig) GetMaxTransitionFrames() int {
	if c.MaxTransitionFrames == nil {
		return 3
	}
	return *c.MaxTransitionFrames
}

// GetStaticLimit returns the static_limit value or the default.
func (c *TuningConfig) GetStaticLimit() float64 {
	if c.StaticLimit == nil {
		return 20.0
	}
	return *c.StaticLimit
}

// GetMarginLimit returns the margin_limit value or the default.
func (c *TuningConfig) GetMarginLimit() float64 {
	if c.MarginLimit == nil {
		return 15.0
	}
	return *c.MarginLimit
}

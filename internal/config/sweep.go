package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/banshee-data/nestdiag/internal/settings"
)

// DefaultConfigPath is the path to the checked-in sweep defaults file.
const DefaultConfigPath = "config/sweep.defaults.json"

// maxFileSize bounds config files read by LoadSweepConfig.
const maxFileSize = 1 * 1024 * 1024 // 1MB

// Plot size defaults in centimetres.
const (
	defaultPlotWidthCm  = 16
	defaultPlotHeightCm = 10
)

// SweepConfig holds overrides for the results sweep and figure settings.
// Every field is optional: nil fields fall back to the settings package
// defaults through the Get* methods.
type SweepConfig struct {
	// Sweep lists
	NDims    []int `json:"nd_list,omitempty"`
	NLives   []int `json:"nl_list,omitempty"`
	NRepeats []int `json:"nr_list,omitempty"`

	// Limits
	Likelihood *string `json:"likelihood,omitempty"`
	NDim       *int    `json:"ndim,omitempty"`

	// Figure size
	PlotWidthCm  *float64 `json:"plot_width_cm,omitempty"`
	PlotHeightCm *float64 `json:"plot_height_cm,omitempty"`
}

// EmptySweepConfig returns a SweepConfig with every field unset.
func EmptySweepConfig() *SweepConfig {
	return &SweepConfig{}
}

// LoadSweepConfig loads and validates a SweepConfig from a JSON file.
// Fields omitted from the file keep their defaults, so partial configs are
// safe. A list given as [] in the file disables that sweep.
func LoadSweepConfig(path string) (*SweepConfig, error) {
	path = filepath.Clean(path)
	if ext := filepath.Ext(path); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	// One byte past the cap tells an oversized file from one exactly at it.
	data, err := io.ReadAll(io.LimitReader(f, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if len(data) > maxFileSize {
		return nil, fmt.Errorf("config file %s too large (max %d bytes)", path, maxFileSize)
	}

	cfg, err := ParseSweepConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseSweepConfig parses and validates JSON config data.
func ParseSweepConfig(data []byte) (*SweepConfig, error) {
	cfg := EmptySweepConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching from the current
// directory up towards the repository root. Panics if no file loads; meant
// for tests and tools run from inside the repository.
func MustLoadDefaultConfig() *SweepConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadSweepConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run from repository root")
}

// Validate checks that the configured values are usable.
func (c *SweepConfig) Validate() error {
	if err := c.GridOptions().Validate(); err != nil {
		return err
	}

	if c.Likelihood != nil && !settings.KnownLikelihood(*c.Likelihood) {
		return fmt.Errorf("likelihood %q has no default limits", *c.Likelihood)
	}

	if c.NDim != nil && *c.NDim <= 0 {
		return fmt.Errorf("ndim must be positive, got %d", *c.NDim)
	}

	if c.PlotWidthCm != nil && *c.PlotWidthCm <= 0 {
		return fmt.Errorf("plot_width_cm must be positive, got %f", *c.PlotWidthCm)
	}
	if c.PlotHeightCm != nil && *c.PlotHeightCm <= 0 {
		return fmt.Errorf("plot_height_cm must be positive, got %f", *c.PlotHeightCm)
	}

	return nil
}

// GridOptions returns the sweep lists as settings.GridOptions. Unset lists
// stay nil so BuildGrid applies its defaults.
func (c *SweepConfig) GridOptions() settings.GridOptions {
	return settings.GridOptions{
		NDims:    c.NDims,
		NLives:   c.NLives,
		NRepeats: c.NRepeats,
	}
}

// GetLikelihood returns the likelihood name or "Gaussian".
func (c *SweepConfig) GetLikelihood() string {
	if c.Likelihood == nil {
		return settings.LikeGaussian
	}
	return *c.Likelihood
}

// GetNDim returns the limits dimension or settings.DefaultLimitsNDim.
func (c *SweepConfig) GetNDim() int {
	if c.NDim == nil {
		return settings.DefaultLimitsNDim
	}
	return *c.NDim
}

// GetPlotWidthCm returns the figure width in centimetres.
func (c *SweepConfig) GetPlotWidthCm() float64 {
	if c.PlotWidthCm == nil {
		return defaultPlotWidthCm
	}
	return *c.PlotWidthCm
}

// GetPlotHeightCm returns the figure height in centimetres.
func (c *SweepConfig) GetPlotHeightCm() float64 {
	if c.PlotHeightCm == nil {
		return defaultPlotHeightCm
	}
	return *c.PlotHeightCm
}

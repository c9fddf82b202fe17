package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/nestdiag/internal/settings"
)

func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }
func ptrFloat64(v float64) *float64 { return &v }

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestEmptySweepConfigDefaults(t *testing.T) {
	cfg := EmptySweepConfig()

	assert.Equal(t, "Gaussian", cfg.GetLikelihood())
	assert.Equal(t, 20, cfg.GetNDim())
	assert.Equal(t, 16.0, cfg.GetPlotWidthCm())
	assert.Equal(t, 10.0, cfg.GetPlotHeightCm())
	assert.NoError(t, cfg.Validate())

	opts := cfg.GridOptions()
	assert.Nil(t, opts.NDims)
	assert.Len(t, settings.BuildGrid(opts), 23)
}

func TestLoadSweepConfig(t *testing.T) {
	path := writeConfig(t, "sweep.json", `{
  "nd_list": [2, 4],
  "nl_list": [],
  "likelihood": "LogGamma mix",
  "ndim": 6,
  "plot_width_cm": 12.5
}`)

	cfg, err := LoadSweepConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 4}, cfg.NDims)
	assert.NotNil(t, cfg.NLives)
	assert.Empty(t, cfg.NLives)
	assert.Nil(t, cfg.NRepeats)
	assert.Equal(t, "LogGamma mix", cfg.GetLikelihood())
	assert.Equal(t, 6, cfg.GetNDim())
	assert.Equal(t, 12.5, cfg.GetPlotWidthCm())
	assert.Equal(t, 10.0, cfg.GetPlotHeightCm())

	grid := settings.BuildGrid(cfg.GridOptions())
	// 2 dimension points, no nlive sweep, default nrepeats sweep
	assert.Len(t, grid, 2+len(settings.DefaultNRepeats))
}

func TestLoadSweepConfigErrors(t *testing.T) {
	testCases := []struct {
		name     string
		file     string
		body     string
		contains string
	}{
		{"wrong_extension", "sweep.yaml", `{}`, "must have .json extension"},
		{"bad_json", "sweep.json", `{"nd_list": [1,`, "failed to parse config JSON"},
		{"wrong_type", "sweep.json", `{"ndim": "ten"}`, "failed to parse config JSON"},
		{"non_positive_list", "sweep.json", `{"nr_list": [4, 0]}`, "nrepeats list entry 1"},
		{"unknown_likelihood", "sweep.json", `{"likelihood": "Poisson"}`, `"Poisson" has no default limits`},
		{"zero_ndim", "sweep.json", `{"ndim": 0}`, "ndim must be positive"},
		{"negative_width", "sweep.json", `{"plot_width_cm": -1}`, "plot_width_cm must be positive"},
		{"zero_height", "sweep.json", `{"plot_height_cm": 0}`, "plot_height_cm must be positive"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.file, tc.body)
			_, err := LoadSweepConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestLoadSweepConfigMissingFile(t *testing.T) {
	_, err := LoadSweepConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "failed to open config file")
}

func TestLoadSweepConfigTooLarge(t *testing.T) {
	body := `{"nd_list": [` + strings.Repeat("1,", maxFileSize/2) + `1]}`
	path := writeConfig(t, "big.json", body)
	_, err := LoadSweepConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestValidatePointerFields(t *testing.T) {
	cfg := &SweepConfig{
		Likelihood:   ptrString("LogGammaMix"),
		NDim:         ptrInt(4),
		PlotWidthCm:  ptrFloat64(8),
		PlotHeightCm: ptrFloat64(6),
	}
	assert.NoError(t, cfg.Validate())

	cfg.NDim = ptrInt(-4)
	assert.Error(t, cfg.Validate())
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()

	assert.Equal(t, settings.DefaultNDims, cfg.NDims)
	assert.Equal(t, settings.DefaultNLives, cfg.NLives)
	assert.Equal(t, settings.DefaultNRepeats, cfg.NRepeats)
	assert.Equal(t, settings.LikeGaussian, cfg.GetLikelihood())
	assert.Equal(t, settings.DefaultLimitsNDim, cfg.GetNDim())
	assert.Equal(t, settings.BuildGrid(settings.GridOptions{}), settings.BuildGrid(cfg.GridOptions()))
}

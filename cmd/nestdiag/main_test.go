package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/nestdiag/internal/labels"
	"github.com/banshee-data/nestdiag/internal/settings"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	err := run(context.Background(), args, &buf)
	return buf.String(), err
}

func TestRunUsage(t *testing.T) {
	_, err := runCmd(t)
	assert.ErrorIs(t, err, errUsage)

	_, err = runCmd(t, "bogus")
	assert.ErrorIs(t, err, errUsage)

	out, err := runCmd(t, "help")
	require.NoError(t, err)
	assert.Contains(t, out, "Commands:")
}

func TestRunGridDefaults(t *testing.T) {
	out, err := runCmd(t, "grid")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 24)
	assert.Equal(t, []string{"ndim", "nlive", "nrepeats"}, records[0])
	assert.Equal(t, []string{"2", "50", "10"}, records[1])
	assert.Equal(t, []string{"10", "250", "1000"}, records[23])
}

func TestRunGridOverrides(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "sweep.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"nd_list": [2], "nl_list": [100]}`), 0644))

	out, err := runCmd(t, "grid", "-config", cfgPath, "-nr", "", "-nl", "10:30:10", "-format", "json")
	require.NoError(t, err)

	var grid settings.Grid
	require.NoError(t, json.Unmarshal([]byte(out), &grid))
	want := settings.Grid{{NDim: 2, NLive: 50, NRepeats: 10}, {NDim: 10, NLive: 10, NRepeats: 50}, {NDim: 10, NLive: 20, NRepeats: 50}, {NDim: 10, NLive: 30, NRepeats: 50}}
	want = append(want, settings.BuildGrid(settings.GridOptions{NDims: []int{}, NLives: []int{}})...)
	assert.Equal(t, want, grid)
}

func TestRunGridErrors(t *testing.T) {
	_, err := runCmd(t, "grid", "-nd", "1,x")
	assert.Error(t, err)

	_, err = runCmd(t, "grid", "-nl", "0,10")
	assert.ErrorIs(t, err, settings.ErrInvalidOption)

	_, err = runCmd(t, "grid", "-format", "xml")
	assert.Error(t, err)
}

func TestRunLimits(t *testing.T) {
	out, err := runCmd(t, "limits", "-like", "LogGamma mix", "-ndim", "4")
	require.NoError(t, err)

	var got struct {
		Likelihood string          `json:"likelihood"`
		NDim       int             `json:"ndim"`
		LogXMin    float64         `json:"logx_min"`
		Limits     settings.Limits `json:"limits"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "LogGamma mix", got.Likelihood)
	assert.Equal(t, 4, got.NDim)
	assert.Equal(t, -16.0, got.LogXMin)
	assert.Equal(t, settings.MustDefaultLimits("LogGamma mix", 4), got.Limits)
	assert.Contains(t, out, labels.NormBold)

	_, err = runCmd(t, "limits", "-like", "Poisson")
	assert.ErrorIs(t, err, settings.ErrPrecondition)
}

func TestRunLimitsExplicitZeroNDim(t *testing.T) {
	_, err := runCmd(t, "limits", "-ndim", "0")
	require.ErrorIs(t, err, settings.ErrPrecondition)
	assert.Contains(t, err.Error(), "ndim")

	_, err = runCmd(t, "limits", "-like", "")
	assert.ErrorIs(t, err, settings.ErrPrecondition)

	out, err := runCmd(t, "limits")
	require.NoError(t, err)
	assert.Contains(t, out, `"ndim": 20`)
}

func TestRunLimitsPlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.png")
	_, err := runCmd(t, "limits", "-like", "Gaussian", "-ndim", "2", "-out", path, "-x", labels.Param(1))
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	_, err = runCmd(t, "limits", "-ndim", "2", "-out", path, "-x", labels.Param(5))
	assert.Error(t, err)
}

func TestRunEstimators(t *testing.T) {
	out, err := runCmd(t, "estimators")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 12)
	assert.True(t, strings.HasPrefix(lines[0], "0\tlogz\t"))
}

func TestRunPlot(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"grid.png", "grid.html"} {
		path := filepath.Join(dir, name)
		_, err := runCmd(t, "plot", "-out", path, "-nd", "2,4")
		require.NoError(t, err)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestRunEvaluateAndCache(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cache.db")
	runPath := filepath.Join(dir, "run.json")
	require.NoError(t, os.WriteFile(runPath, []byte(`{
  "logl": [-3, -2, -1, 0],
  "theta": [[1, 0], [0, 1], [0.5, 0.5], [0, 0]],
  "nlive_array": [3, 3, 2, 1]
}`), 0644))

	_, err := runCmd(t, "evaluate", "-db", dbPath, "-ndim", "2", "-nlive", "3", "-nrepeats", "10", runPath, runPath)
	require.NoError(t, err)

	out, err := runCmd(t, "cache", "-db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "likelihood,ndim,nlive,nrepeats\nGaussian,2,3,10\n", out)

	out, err = runCmd(t, "cache", "-db", dbPath, "-show", "-ndim", "2", "-nlive", "3", "-nrepeats", "10")
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Len(t, records[0], 12)
	assert.Equal(t, records[1], records[2])
	assert.Equal(t, "NaN", records[1][4])

	_, err = runCmd(t, "evaluate", "-db", dbPath)
	assert.ErrorIs(t, err, errUsage)
}

func TestRunVersion(t *testing.T) {
	out, err := runCmd(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "nestdiag dev"))
}

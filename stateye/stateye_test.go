package stateye

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/statistical-eye/common"
	"github.com/uyouii/statistical-eye/model"
	"github.com/uyouii/statistical-eye/utils"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/mat"
)

func denseColumns(m *mat.Dense) [][]float64 {
	r, c := m.Dims()
	columns := make([][]float64, c)
	for j := range columns {
		columns[j] = mat.Col(make([]float64, r), j, m)
	}
	return columns
}

func TestCalculate_Degenerate(t *testing.T) {
	res, err := Calculate(context.Background(), make([]float64, 64), testConfig())
	assert.ErrorIs(t, err, common.ErrorDegenerateSignal)
	assert.Nil(t, res)
}

func TestCalculate_InvalidM(t *testing.T) {
	cfg := testConfig()
	cfg.M = 3
	res, err := Calculate(context.Background(), rectPulse(6, 1), cfg)
	assert.ErrorIs(t, err, common.ErrorConfiguration)
	assert.Nil(t, res)
}

func TestCalculate_Normalized(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"Plain", func(c *Config) {}},
		{"Noise", func(c *Config) { c.NoiseFlag, c.SigmaNoise = true, 0.02 }},
		{"Jitter", func(c *Config) { c.JitterFlag = true }},
		{"NoiseJitter", func(c *Config) { c.NoiseFlag, c.SigmaNoise, c.JitterFlag = true, 0.02, true }},
		{"FineJitter", func(c *Config) { c.JitterFlag, c.JitterStep = true, 0.5 }},
		{"Exact", func(c *Config) { c.PdfConvFlag = false }},
		{"PAM2", func(c *Config) { c.M = 2 }},
		{"Differential", func(c *Config) { c.DiffSignal = true }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			res, err := Calculate(context.Background(), trianglePulse(8, []float64{1, 0.2, -0.1}), cfg)
			require.NoError(t, err)

			r, c := res.Stateye.Dims()
			require.Equal(t, cfg.VhSize, r)
			require.Equal(t, cfg.WindowSize, c)
			requireNormalized(t, denseColumns(res.Stateye))
			require.Len(t, res.Vh, cfg.VhSize)

			assert.Len(t, res.ALevels, cfg.M)
			assert.Len(t, res.EyeCenterLevels, cfg.M-1)
			assert.Len(t, res.EyeHeights, cfg.M-1)
			assert.Len(t, res.EyeWidths, cfg.M-1)
			assert.Len(t, res.DistortionHeights, cfg.M)
		})
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	cfg := testConfig()
	cfg.NoiseFlag, cfg.SigmaNoise, cfg.JitterFlag = true, 0.02, true
	pulse := trianglePulse(8, []float64{1, 0.25, -0.1, 0.05})

	first, err := Calculate(context.Background(), pulse, cfg)
	require.NoError(t, err)
	second, err := Calculate(context.Background(), pulse, cfg)
	require.NoError(t, err)

	assert.True(t, mat.Equal(first.Stateye, second.Stateye))
	assert.True(t, mat.Equal(first.Contour, second.Contour))
	assert.Equal(t, first.Margins, second.Margins)
	assert.Equal(t, first.Levels, second.Levels)
}

func TestCalculate_UnusedSigmas(t *testing.T) {
	cfg := testConfig()
	cfg.SigmaNoise, cfg.SigmaJitter = 0, 0
	res, err := Calculate(context.Background(), rectPulse(6, 1), cfg)
	require.NoError(t, err)
	assert.Greater(t, res.COM, 0.0)

	cfg.NoiseFlag = true
	_, err = Calculate(context.Background(), rectPulse(6, 1), cfg)
	assert.ErrorIs(t, err, common.ErrorConfiguration)
}

func TestCalculate_LogFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := utils.WithLogger(context.Background(), zap.New(core))

	cfg := testConfig()
	cfg.NoiseFlag, cfg.SigmaNoise = true, 0.02
	_, err := Calculate(ctx, rectPulse(6, 1), cfg)
	require.NoError(t, err)

	entries := logs.FilterMessage("statistical eye done").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(cfg.M), fields["M"])
	assert.Equal(t, true, fields["noise"])
	assert.Equal(t, false, fields["jitter"])
}

func TestCalculate_SymmetricPAM4(t *testing.T) {
	cfg := testConfig()
	res, err := Calculate(context.Background(), rectPulse(6, 1), cfg)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{1, 1.0 / 3, -1.0 / 3, -1}, res.ALevels, 1e-12)
	assert.InDeltaSlice(t, []float64{2.0 / 3, 0, -2.0 / 3}, res.EyeCenterLevels, 1e-12)
	for i := 0; i+1 < len(res.EyeCenterLevels); i++ {
		assert.InDelta(t, 2.0/3, res.EyeCenterLevels[i]-res.EyeCenterLevels[i+1], 1e-12)
	}

	step := res.Vh[1] - res.Vh[0]
	require.Len(t, res.EyeHeights, 3)
	assert.Greater(t, res.EyeHeights[0], 0.0)
	assert.InDelta(t, res.EyeHeights[0], res.EyeHeights[2], 3*step)
	assert.InDelta(t, 2.0/3, res.EyeHeights[1], 3*step)
	assert.Equal(t, res.EyeWidths[0], res.EyeWidths[2])
	assert.Equal(t, 10, res.EyeCenterTime)
	assert.Greater(t, res.COM, 0.0)
}

func TestCalculate_NegativePulseLevels(t *testing.T) {
	res, err := Calculate(context.Background(), rectPulse(6, -1), testConfig())
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1.0 / 3, -1.0 / 3, -1}, res.ALevels, 1e-12)
	assert.InDeltaSlice(t, []float64{2.0 / 3, 0, -2.0 / 3}, res.EyeCenterLevels, 1e-12)
}

func TestSweep_NoiseShrinksEyeHeight(t *testing.T) {
	sigmas := []float64{0.01, 0.02, 0.04, 0.08}
	cfgs := make([]Config, len(sigmas))
	for i, sigma := range sigmas {
		cfgs[i] = testConfig()
		cfgs[i].NoiseFlag = true
		cfgs[i].SigmaNoise = sigma
	}

	results, err := Sweep(context.Background(), rectPulse(6, 1), cfgs)
	require.NoError(t, err)
	require.Len(t, results, len(sigmas))

	for i, res := range results {
		require.NotEqual(t, model.MarginClosedVertical, res.Status, "sigma %v", sigmas[i])
		require.Equal(t, 10, res.EyeCenterTime, "sigma %v", sigmas[i])
		if i > 0 {
			assert.LessOrEqual(t, res.EyeHeights[1], results[i-1].EyeHeights[1], "sigma %v", sigmas[i])
		}
	}
	assert.Less(t, results[len(results)-1].EyeHeights[1], results[0].EyeHeights[1])
	assert.Greater(t, results[len(results)-1].EyeHeights[1], 0.0)
}

func TestSweep_Error(t *testing.T) {
	bad := testConfig()
	bad.M = 8
	_, err := Sweep(context.Background(), rectPulse(6, 1), []Config{testConfig(), bad})
	assert.ErrorIs(t, err, common.ErrorConfiguration)
}

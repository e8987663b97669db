package stateye

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// rectPulse is a pulse response with a leading DC sample, a flat top of
// width samples at amplitude and trailing zeros.
func rectPulse(width int, amplitude float64) []float64 {
	pulse := []float64{0}
	for i := 0; i < width; i++ {
		pulse = append(pulse, amplitude)
	}
	return append(pulse, 0, 0)
}

// trianglePulse sums triangles of base 2·sps, one per cursor, cursors[0] being the main one.
func trianglePulse(sps int, cursors []float64) []float64 {
	length := (len(cursors) + 2) * sps
	pulse := make([]float64, length)
	for i := range pulse {
		x := float64(i - sps)
		for k, c := range cursors {
			pulse[i] += c * math.Max(0, 1-math.Abs(x-float64(k*sps))/float64(sps))
		}
	}
	return pulse
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.SamplesPerSymbol = 8
	cfg.WindowSize = 16
	cfg.VhSize = 401
	cfg.DiffSignal = false
	cfg.TargetBER = 1e-3
	return cfg
}

func requireNormalized(t *testing.T, columns [][]float64) {
	t.Helper()
	for i, col := range columns {
		sum := 0.0
		for _, v := range col {
			require.GreaterOrEqual(t, v, 0.0, "column %d", i)
			sum += v
		}
		require.InDelta(t, 1.0, sum, 1e-9, "column %d", i)
	}
}

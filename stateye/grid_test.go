package stateye

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/statistical-eye/common"
)

func TestNewAmplitudeGrid(t *testing.T) {
	for _, size := range []int{2, 3, 16, 401, 2048} {
		g, err := NewAmplitudeGrid(-0.25, 2, size)
		require.NoError(t, err)
		require.Len(t, g.Vh, size)
		require.Len(t, g.Edges, size+1)
		assert.Equal(t, -0.5, g.Edges[0])
		assert.InDelta(t, 0.5, g.Edges[size], 1e-12)
		for i := 1; i < size; i++ {
			require.Greater(t, g.Vh[i], g.Vh[i-1], "size %d index %d", size, i)
		}
		assert.InDelta(t, 1.0/float64(size), g.Step(), 1e-12)
	}

	_, err := NewAmplitudeGrid(0, 2, 16)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
	_, err = NewAmplitudeGrid(1, 2, 1)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
}

func TestAmplitudeGrid_Bin(t *testing.T) {
	g, err := NewAmplitudeGrid(1, 1, 4) // edges -1, -0.5, 0, 0.5, 1
	require.NoError(t, err)

	cases := []struct {
		v    float64
		want int
	}{
		{-1, 0},
		{-0.75, 0},
		{-0.5, 1},
		{0, 2},
		{0.49, 2},
		{0.5, 3},
		{1, 3},
		{-1.01, -1},
		{1.01, -1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, g.Bin(tc.v), "Bin(%v)", tc.v)
	}

	assert.Equal(t, []float64{1, 0, 2, 1}, g.Histogram([]float64{-0.9, 0.1, 0.2, 1, 3}))
	assert.Equal(t, 1, g.Nearest(-0.3))
	assert.Equal(t, 3, g.Nearest(5))
}

func TestAmplitudeGrid_PMF(t *testing.T) {
	g, err := NewAmplitudeGrid(1, 1, 4)
	require.NoError(t, err)

	pmf, err := g.PMF([]float64{-0.9, 0.1, 0.2, 0.7})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0, 0.5, 0.25}, pmf)

	_, err = g.PMF([]float64{4, -4})
	assert.ErrorIs(t, err, common.ErrorDegenerateSignal)
}

package stateye

import (
	"fmt"
	"math"

	"github.com/uyouii/statistical-eye/common"
	"github.com/uyouii/statistical-eye/utils"
	"gonum.org/v1/gonum/floats"
)

// AmplitudeGrid is the uniform voltage axis shared by every PDF of one calculation.
type AmplitudeGrid struct {
	// Edges has len(Vh)+1 entries.
	Edges []float64
	// Vh holds the bin centers.
	Vh []float64
}

// NewAmplitudeGrid spans ±multiplier·|mainAmp| with size bins.
func NewAmplitudeGrid(mainAmp, multiplier float64, size int) (*AmplitudeGrid, error) {
	bound := math.Abs(mainAmp) * multiplier
	if size < 2 || !(bound > 0) || math.IsInf(bound, 0) {
		return nil, fmt.Errorf("grid bound %v with %d bins: %w", bound, size, common.ErrorInvalidValue)
	}

	edges := floats.Span(make([]float64, size+1), -bound, bound)
	vh := make([]float64, size)
	for i := range vh {
		vh[i] = 0.5 * (edges[i] + edges[i+1])
	}
	return &AmplitudeGrid{
		Edges: edges,
		Vh:    vh,
	}, nil
}

func (g *AmplitudeGrid) Size() int {
	return len(g.Vh)
}

func (g *AmplitudeGrid) Step() float64 {
	return g.Edges[1] - g.Edges[0]
}

// Bin returns the bin holding v, -1 when v is outside the grid.
// Bins are closed on the left, the last one is closed on both sides.
func (g *AmplitudeGrid) Bin(v float64) int {
	n := g.Size()
	lo, hi := g.Edges[0], g.Edges[n]
	if !(v >= lo && v <= hi) {
		return -1
	}

	idx := int((v - lo) * (float64(n) / (hi - lo)))
	if idx >= n {
		idx = n - 1
	}
	// the scaled index may be off by one near an edge
	if v < g.Edges[idx] {
		idx--
	}
	if idx != n-1 && v >= g.Edges[idx+1] {
		idx++
	}
	return idx
}

// Histogram counts values per bin, values outside the grid are dropped.
func (g *AmplitudeGrid) Histogram(values []float64) []float64 {
	hist := make([]float64, g.Size())
	g.accumulate(hist, values)
	return hist
}

func (g *AmplitudeGrid) accumulate(hist []float64, values []float64) {
	for _, v := range values {
		if idx := g.Bin(v); idx >= 0 {
			hist[idx]++
		}
	}
}

// PMF returns the normalized histogram of values.
func (g *AmplitudeGrid) PMF(values []float64) ([]float64, error) {
	pmf := g.Histogram(values)
	if !utils.Normalize(pmf) {
		return nil, fmt.Errorf("no value of %v inside ±%v: %w", values, g.Edges[len(g.Edges)-1],
			common.ErrorDegenerateSignal)
	}
	return pmf, nil
}

// Nearest returns the index of the bin center closest to v.
func (g *AmplitudeGrid) Nearest(v float64) int {
	return utils.ArgMinAbsDiff(g.Vh, v)
}

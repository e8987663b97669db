package stateye

import (
	"fmt"

	"github.com/uyouii/statistical-eye/common"
	"github.com/uyouii/statistical-eye/utils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat/distuv"
)

// NoisePDF is the Gaussian voltage noise sampled on the grid centers and normalized.
// A sigma far below the bin width underflows everywhere, the noise then
// collapses to the bin nearest to mu.
func NoisePDF(grid *AmplitudeGrid, mu, sigma float64) []float64 {
	normal := distuv.Normal{
		Mu:    mu,
		Sigma: sigma,
	}
	pdf := make([]float64, grid.Size())
	for i, v := range grid.Vh {
		pdf[i] = normal.Prob(v)
	}
	if !utils.Normalize(pdf) {
		for i := range pdf {
			pdf[i] = 0
		}
		pdf[grid.Nearest(mu)] = 1
	}
	return pdf
}

// ApplyNoise smears every column in the voltage domain. The input is not modified.
func ApplyNoise(columns [][]float64, noise []float64) ([][]float64, error) {
	res := make([][]float64, len(columns))
	for t, pdf := range columns {
		smeared := convolveSame(pdf, noise)
		if !utils.Normalize(smeared) {
			return nil, fmt.Errorf("noise convolution of column %d lost all mass: %w", t, common.ErrorDegenerateSignal)
		}
		res[t] = smeared
	}
	return res, nil
}

// JitterPDF is the dual-Dirac timing distribution: two Gaussians at ∓mu on a
// lag axis spanning ±(windowSize-1) samples with the given step, normalized.
func JitterPDF(windowSize int, mu, sigma, step float64) (lags []float64, pdf []float64) {
	span := float64(windowSize - 1)
	count := int(2*span/step) + 1
	if count < 2 {
		lags = []float64{0}
	} else {
		lags = floats.Span(make([]float64, count), -span, span)
	}

	left := distuv.Normal{Mu: -mu, Sigma: sigma}
	right := distuv.Normal{Mu: mu, Sigma: sigma}
	pdf = make([]float64, len(lags))
	for i, x := range lags {
		pdf[i] = left.Prob(x) + right.Prob(x)
	}
	utils.Normalize(pdf)
	return lags, pdf
}

// JitterWeights returns the mixing weight of every lag from -(windowSize-1) to
// windowSize-1, entry lag+windowSize-1. A unit step reads the PDF directly,
// a finer step integrates it over the sample following the lag.
func JitterWeights(windowSize int, mu, sigma, step float64) []float64 {
	lags, pdf := JitterPDF(windowSize, mu, sigma, step)
	middle := (len(lags) - 1) / 2

	weights := make([]float64, 2*windowSize-1)
	if step >= 1 {
		for k := range weights {
			if idx := middle + k - (windowSize - 1); idx >= 0 && idx < len(pdf) {
				weights[k] = pdf[idx]
			}
		}
		return weights
	}

	numSteps := int(1 / step)
	for k := range weights {
		lag := k - (windowSize - 1)
		lo := utils.IntMax(middle+lag*numSteps, 0)
		hi := utils.IntMin(middle+(lag+1)*numSteps, len(pdf))
		if hi-lo < 2 {
			continue
		}
		weights[k] = integrate.Trapezoidal(lags[lo:hi], pdf[lo:hi])
	}
	return weights
}

// ApplyJitter mixes the columns in time: output column i is the sum over all
// columns j weighted by the jitter weight at lag j-i, renormalized.
// Every output reads the unmixed input columns.
func ApplyJitter(columns [][]float64, weights []float64) ([][]float64, error) {
	windowSize := len(columns)
	if len(weights) != 2*windowSize-1 {
		return nil, fmt.Errorf("%d jitter weights for %d columns: %w", len(weights), windowSize, common.ErrorInvalidValue)
	}

	res := make([][]float64, windowSize)
	for i := range columns {
		mixed := make([]float64, len(columns[i]))
		for j, pdf := range columns {
			if w := weights[j-i+windowSize-1]; w != 0 {
				floats.AddScaled(mixed, w, pdf)
			}
		}
		if !utils.Normalize(mixed) {
			return nil, fmt.Errorf("jitter mixing of column %d lost all mass: %w", i, common.ErrorDegenerateSignal)
		}
		res[i] = mixed
	}
	return res, nil
}

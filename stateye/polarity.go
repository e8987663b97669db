package stateye

import (
	"fmt"

	"github.com/uyouii/statistical-eye/common"
)

// Directions returns the normalized PAM-M symbol amplitudes, from -1 to 1.
func Directions(m int) ([]float64, error) {
	switch m {
	case 2:
		return []float64{-1, 1}, nil
	case 4:
		return []float64{-1, -1.0 / 3, 1.0 / 3, 1}, nil
	}
	return nil, fmt.Errorf("M = %d, only PAM-2 and PAM-4 are supported: %w", m, common.ErrorConfiguration)
}

// CapSampleSize bounds the interferer count of the exact synthesis, which
// enumerates every symbol combination. Convolution mode is not capped.
func CapSampleSize(m, sampleSize int, pdfConv bool) int {
	if pdfConv {
		return sampleSize
	}
	limit := sampleSize
	switch m {
	case 2:
		limit = MaxExactSampleSizePAM2
	case 4:
		limit = MaxExactSampleSizePAM4
	}
	if sampleSize > limit {
		return limit
	}
	return sampleSize
}

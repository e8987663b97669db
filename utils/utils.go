package utils

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// FormatFloat rounds f to the given count of decimal digits, used for log output.
func FormatFloat(f float64, round int32) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	return scalar.Round(f, int(round))
}

// Normalize scales data in place so that it sums to 1.
// It returns false and leaves data untouched when the sum is not positive.
func Normalize(data []float64) bool {
	sum := floats.Sum(data)
	if !(sum > 0) || math.IsInf(sum, 0) {
		return false
	}
	floats.Scale(1/sum, data)
	return true
}

// ArgMinAbsDiff returns the first index i minimizing |data[i] - v|.
func ArgMinAbsDiff(data []float64, v float64) int {
	idx, best := 0, math.Inf(1)
	for i, x := range data {
		if d := math.Abs(x - v); d < best {
			idx, best = i, d
		}
	}
	return idx
}

// ArgMaxInt returns the first index of the largest value, -1 if data is empty.
func ArgMaxInt(data []int) int {
	idx := -1
	for i, v := range data {
		if idx < 0 || v > data[idx] {
			idx = i
		}
	}
	return idx
}

func IntMin(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func IntMax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

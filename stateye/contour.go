package stateye

import (
	"github.com/uyouii/statistical-eye/model"
	"gonum.org/v1/gonum/floats"
)

// positiveToNegative maps levels computed as mainAmp·direction onto the
// reporting convention: from the most positive voltage down to the most
// negative one, whatever the polarity of the main cursor.
func positiveToNegative(levels []float64, mainAmp float64) []float64 {
	if mainAmp >= 0 {
		floats.Scale(-1, levels)
	}
	return levels
}

// NewLevels returns the M signal levels and the M-1 eye center levels
// between adjacent signal levels.
func NewLevels(mainAmp float64, directions []float64) *model.Levels {
	aLevels := make([]float64, len(directions))
	floats.ScaleTo(aLevels, mainAmp, directions)
	aLevels = positiveToNegative(aLevels, mainAmp)

	centers := make([]float64, len(aLevels)-1)
	for i := range centers {
		centers[i] = 0.5 * (aLevels[i] + aLevels[i+1])
	}
	return &model.Levels{
		ALevels:         aLevels,
		EyeCenterLevels: centers,
	}
}

// levelRows are the grid rows of the signal and eye center levels,
// in the order of the levels.
type levelRows struct {
	aLevels    []int
	eyeCenters []int
}

func newLevelRows(grid *AmplitudeGrid, levels *model.Levels) *levelRows {
	rows := &levelRows{
		aLevels:    make([]int, len(levels.ALevels)),
		eyeCenters: make([]int, len(levels.EyeCenterLevels)),
	}
	for i, v := range levels.ALevels {
		rows.aLevels[i] = grid.Nearest(v)
	}
	for i, v := range levels.EyeCenterLevels {
		rows.eyeCenters[i] = grid.Nearest(v)
	}
	return rows
}

// boundaries splits the voltage axis, bottom to top, at every eye center and
// every inner signal level. Segments alternate between accumulating downward
// into an eye center and upward out of one.
func (r *levelRows) boundaries(size int) []int {
	res := []int{0}
	for i := len(r.eyeCenters) - 1; i >= 0; i-- {
		res = append(res, r.eyeCenters[i])
		if i > 0 {
			res = append(res, r.aLevels[i])
		}
	}
	return append(res, size)
}

// contourColumn turns one voltage PDF into the probability of deciding the
// wrong symbol at each threshold: mass accumulated from the nearest eye center
// outward to the threshold.
func contourColumn(pdf []float64, bounds []int) []float64 {
	contour := make([]float64, len(pdf))
	for s := 0; s+1 < len(bounds); s++ {
		lo, hi := bounds[s], bounds[s+1]
		if lo >= hi {
			continue
		}
		if s%2 == 1 {
			floats.CumSum(contour[lo:hi], pdf[lo:hi])
			continue
		}
		sum := 0.0
		for k := hi - 1; k >= lo; k-- {
			sum += pdf[k]
			contour[k] = sum
		}
	}
	return contour
}

// BuildContour returns the contour of every PDF column, in time order.
func BuildContour(columns [][]float64, grid *AmplitudeGrid, levels *model.Levels) [][]float64 {
	bounds := newLevelRows(grid, levels).boundaries(grid.Size())
	contour := make([][]float64, len(columns))
	for t, pdf := range columns {
		contour[t] = contourColumn(pdf, bounds)
	}
	return contour
}

package model

import "gonum.org/v1/gonum/mat"

// EyeResult is the output of one statistical eye calculation.
type EyeResult struct {
	Margins
	Levels

	// Stateye is the probability grid, vh_size rows by window_size columns.
	// Column t is the voltage PDF at time offset t - window_size/2 from the main cursor.
	Stateye *mat.Dense `json:"-"`
	// Contour has the shape of Stateye and holds the one-sided error probabilities.
	Contour *mat.Dense `json:"-"`
	// Vh is the voltage bin centers of the Stateye rows, increasing.
	Vh []float64 `json:"-"`
}

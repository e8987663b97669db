package model

import "fmt"

type MarginStatus string

const (
	// MarginOpen means every eye width and height was found at the target BER.
	MarginOpen MarginStatus = "open"
	// MarginClosedHorizontal means some eye width could not be found.
	// When even the center eye has no width, heights and COM fall back too.
	MarginClosedHorizontal MarginStatus = "closed_horizontal"
	// MarginClosedVertical means the eye center column has fewer BER crossings
	// than the eye heights need.
	MarginClosedVertical MarginStatus = "closed_vertical"
)

func (s MarginStatus) Open() bool {
	return s == MarginOpen
}

// Levels holds the signal amplitude levels and the eye centers between them,
// both ordered from the most positive voltage to the most negative one.
type Levels struct {
	ALevels         []float64 `json:"A_levels"`
	EyeCenterLevels []float64 `json:"eye_center_levels"`
}

func (l *Levels) Top() float64 {
	return l.ALevels[0]
}

func (l *Levels) Bottom() float64 {
	return l.ALevels[len(l.ALevels)-1]
}

func (l *Levels) DebugString() string {
	return fmt.Sprintf("A_levels: %v, eye_center_levels: %v", l.ALevels, l.EyeCenterLevels)
}

// Margins are the figures of merit read from the BER contour.
// Heights are in volts, widths in samples.
type Margins struct {
	COM                   float64      `json:"center_COM"`
	EyeHeights            []float64    `json:"eye_heights"`
	EyeHeightsMean        float64      `json:"eye_heights_mean"`
	DistortionHeights     []float64    `json:"distortion_heights"`
	DistortionHeightsMean float64      `json:"distortion_heights_mean"`
	EyeWidths             []int        `json:"eye_widths"`
	EyeWidthsMean         float64      `json:"eye_widths_mean"`
	EyeCenterTime         int          `json:"eye_center_time"` // -1 if not found
	Status                MarginStatus `json:"status"`
}

package stateye

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/uyouii/statistical-eye/common"
	"github.com/uyouii/statistical-eye/model"
	"github.com/uyouii/statistical-eye/utils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Crossings returns every k where series[k] and series[k+1] lie on different
// sides of target. A value equal to target counts as above it.
func Crossings(series []float64, target float64) []int {
	res := []int{}
	for k := 0; k+1 < len(series); k++ {
		if math.Signbit(series[k]-target) != math.Signbit(series[k+1]-target) {
			res = append(res, k)
		}
	}
	return res
}

func contourRow(contour [][]float64, row int) []float64 {
	res := make([]float64, len(contour))
	for t := range contour {
		res[t] = contour[t][row]
	}
	return res
}

func checkFinite(series []float64) error {
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("contour value %v at %d: %w", v, i, common.ErrorMarginComputation)
		}
	}
	return nil
}

// straddlingGap returns the width of the gap between consecutive crossings
// that contains t, 0 when no gap does.
func straddlingGap(crossings []int, t int) int {
	for k := 0; k+1 < len(crossings); k++ {
		if (crossings[k] < t) != (crossings[k+1] < t) {
			return crossings[k+1] - crossings[k]
		}
	}
	return 0
}

// ExtractWidths measures the eye widths along every eye center row, top eye first.
// The center eye is the widest gap between consecutive crossings of its row, the
// first one on ties, and the eye center time is the middle of that gap. The other
// eyes use the gap around the eye center time.
// centerTime is -1 when the center eye has no width. On any missing width all
// widths are zero and the error wraps common.ErrorNoCrossing.
func ExtractWidths(contour [][]float64, eyeCenterRows []int, targetBER float64) (widths []int, centerTime int, err error) {
	widths = make([]int, len(eyeCenterRows))
	centerTime = -1

	rows := make([][]int, len(eyeCenterRows))
	for i, r := range eyeCenterRows {
		series := contourRow(contour, r)
		if err := checkFinite(series); err != nil {
			return widths, centerTime, err
		}
		rows[i] = Crossings(series, targetBER)
	}

	center := len(eyeCenterRows) / 2
	crossings := rows[center]
	gaps := make([]int, 0, len(crossings))
	for k := 0; k+1 < len(crossings); k++ {
		gaps = append(gaps, crossings[k+1]-crossings[k])
	}
	k := utils.ArgMaxInt(gaps)
	if k < 0 {
		return widths, centerTime, fmt.Errorf("center eye row has %d crossings: %w", len(crossings), common.ErrorNoCrossing)
	}
	centerTime = crossings[k] + gaps[k]/2

	found := make([]int, len(rows))
	found[center] = gaps[k]
	for i, c := range rows {
		if i == center {
			continue
		}
		if found[i] = straddlingGap(c, centerTime); found[i] == 0 {
			return widths, centerTime, fmt.Errorf("eye %d has no opening around time %d: %w", i, centerTime, common.ErrorNoCrossing)
		}
	}
	return found, centerTime, nil
}

// ExtractHeights measures, on the eye center column, the M-1 eye heights and the
// M distortion heights, top first. aLevelRows are the grid rows of the M signal
// levels, top first. The eyes are bounded by the first 2(M-1) crossings of the
// column, bottom up; a distortion height is the distance between a signal level
// and the nearest crossing toward the inside.
func ExtractHeights(column []float64, vh []float64, aLevelRows []int, targetBER float64) (heights, distortions []float64, err error) {
	if err := checkFinite(column); err != nil {
		return nil, nil, err
	}
	eyes := len(aLevelRows) - 1
	crossings := Crossings(column, targetBER)
	if len(crossings) < 2*eyes {
		return nil, nil, fmt.Errorf("%d crossings for %d eyes: %w", len(crossings), eyes, common.ErrorNoCrossing)
	}
	crossings = crossings[:2*eyes]

	heights = make([]float64, eyes)
	for j := 0; j < eyes; j++ {
		heights[eyes-1-j] = vh[crossings[2*j+1]] - vh[crossings[2*j]]
	}

	bounds := append([]int{aLevelRows[eyes]}, crossings...)
	bounds = append(bounds, aLevelRows[0])
	distortions = make([]float64, eyes+1)
	for i := range distortions {
		distortions[eyes-i] = vh[bounds[2*i+1]] - vh[bounds[2*i]]
	}
	return heights, distortions, nil
}

// COM is the channel operating margin in dB.
func COM(levels *model.Levels, distortions []float64) (float64, error) {
	sum := floats.Sum(distortions)
	if !(sum > 0) {
		return 0, fmt.Errorf("distortion sum %v: %w", sum, common.ErrorMarginComputation)
	}
	return 20 * math.Log10((levels.Top()-levels.Bottom())/sum), nil
}

func closedMargins(levels *model.Levels) *model.Margins {
	distortions := append([]float64(nil), levels.ALevels...)
	return &model.Margins{
		EyeHeights:            make([]float64, len(levels.EyeCenterLevels)),
		DistortionHeights:     distortions,
		DistortionHeightsMean: stat.Mean(distortions, nil),
		EyeWidths:             make([]int, len(levels.EyeCenterLevels)),
		EyeCenterTime:         -1,
		Status:                model.MarginClosedHorizontal,
	}
}

func meanInt(data []int) float64 {
	values := make([]float64, len(data))
	for i, v := range data {
		values[i] = float64(v)
	}
	return stat.Mean(values, nil)
}

// ExtractMargins reads widths, heights and COM from the contour at the target BER.
// A closed eye is a valid outcome and is reported through Margins.Status with
// zero widths and heights, zero COM and the signal levels as distortion heights.
// Only internal failures are returned as errors.
func ExtractMargins(ctx context.Context, contour [][]float64, grid *AmplitudeGrid,
	levels *model.Levels, targetBER float64) (margins *model.Margins, err error) {
	logger := utils.GetLogger(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("ExtractMargins recover panic error!", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()))
			margins, err = nil, fmt.Errorf("%v: %w", r, common.ErrorMarginComputation)
		}
	}()

	rows := newLevelRows(grid, levels)
	margins = closedMargins(levels)

	widths, centerTime, widthErr := ExtractWidths(contour, rows.eyeCenters, targetBER)
	widthsClosed := errors.Is(widthErr, common.ErrorNoCrossing)
	if widthErr != nil && !widthsClosed {
		return nil, widthErr
	}
	if centerTime < 0 {
		logger.Info("eye is closed, no center eye width", zap.Error(widthErr))
		return margins, nil
	}
	margins.EyeCenterTime = centerTime
	if !widthsClosed {
		margins.EyeWidths = widths
		margins.EyeWidthsMean = meanInt(widths)
	}

	heights, distortions, err := ExtractHeights(contour[centerTime], grid.Vh, rows.aLevels, targetBER)
	if errors.Is(err, common.ErrorNoCrossing) {
		logger.Info("eye is closed vertically", zap.Int("centerTime", centerTime), zap.Error(err))
		margins.Status = model.MarginClosedVertical
		return margins, nil
	}
	if err != nil {
		return nil, err
	}

	com, err := COM(levels, distortions)
	if err != nil {
		logger.Error("COM failed", zap.Error(err), zap.Int("centerTime", centerTime),
			zap.Ints("crossingRows", Crossings(contour[centerTime], targetBER)),
			zap.Ints("aLevelRows", rows.aLevels), zap.Float64s("distortions", distortions))
		return nil, err
	}

	margins.EyeHeights = heights
	margins.EyeHeightsMean = stat.Mean(heights, nil)
	margins.DistortionHeights = distortions
	margins.DistortionHeightsMean = stat.Mean(distortions, nil)
	margins.COM = com
	margins.Status = model.MarginOpen
	if widthsClosed {
		logger.Info("outer eye has no width", zap.Int("centerTime", centerTime), zap.Error(widthErr))
		margins.Status = model.MarginClosedHorizontal
	}
	return margins, nil
}

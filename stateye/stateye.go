// Package stateye computes the statistical eye of a serial link pulse response
// following the OIF-CEI methodology: ISI PDFs per sampling time, optional noise
// and dual-Dirac jitter, BER contours and the eye margins read from them.
package stateye

import (
	"context"
	"fmt"

	"github.com/uyouii/statistical-eye/model"
	"github.com/uyouii/statistical-eye/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// toDense lays time-major columns out as a voltage by time matrix.
func toDense(columns [][]float64) *mat.Dense {
	rows := len(columns[0])
	dense := mat.NewDense(rows, len(columns), nil)
	for t, col := range columns {
		dense.SetCol(t, col)
	}
	return dense
}

// Calculate builds the statistical eye of pulseResponse.
// Configuration and signal problems are returned as errors wrapping
// common.ErrorConfiguration and common.ErrorDegenerateSignal. A closed eye is
// not an error, see model.Margins.Status.
func Calculate(ctx context.Context, pulseResponse []float64, cfg Config) (*model.EyeResult, error) {
	logger := utils.GetLogger(ctx).With(zap.Int("M", cfg.M),
		zap.Bool("noise", cfg.NoiseFlag), zap.Bool("jitter", cfg.JitterFlag))
	ctx = utils.WithLogger(ctx, logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid statistical eye config", zap.Error(err))
		return nil, err
	}
	directions, err := Directions(cfg.M)
	if err != nil {
		return nil, err
	}

	pulse, err := ConditionPulse(pulseResponse, cfg.DiffSignal)
	if err != nil {
		logger.Error("ConditionPulse failed", zap.Error(err), zap.Int("len", len(pulseResponse)))
		return nil, err
	}
	mainAmp := pulse.Main()
	logger.Debug("pulse conditioned", zap.Int("window", len(pulse.Samples)),
		zap.Int("idxMain", pulse.MainIdx), zap.Float64("main", mainAmp))

	grid, err := NewAmplitudeGrid(mainAmp, cfg.AWindowMultiplier, cfg.VhSize)
	if err != nil {
		logger.Error("NewAmplitudeGrid failed", zap.Error(err))
		return nil, err
	}

	columns, err := SynthesizeISI(pulse, grid, directions, &cfg)
	if err != nil {
		logger.Error("SynthesizeISI failed", zap.Error(err), zap.Bool("conv", cfg.PdfConvFlag))
		return nil, err
	}

	if cfg.NoiseFlag {
		columns, err = ApplyNoise(columns, NoisePDF(grid, cfg.MuNoise, cfg.SigmaNoise))
		if err != nil {
			logger.Error("ApplyNoise failed", zap.Error(err))
			return nil, err
		}
	}
	if cfg.JitterFlag {
		weights := JitterWeights(cfg.WindowSize, cfg.MuJitter, cfg.SigmaJitter, cfg.JitterStep)
		columns, err = ApplyJitter(columns, weights)
		if err != nil {
			logger.Error("ApplyJitter failed", zap.Error(err))
			return nil, err
		}
	}

	levels := NewLevels(mainAmp, directions)
	contour := BuildContour(columns, grid, levels)

	margins, err := ExtractMargins(ctx, contour, grid, levels, cfg.TargetBER)
	if err != nil {
		logger.Error("ExtractMargins failed", zap.Error(err))
		return nil, err
	}
	logger.Debug("statistical eye done", zap.String("status", string(margins.Status)),
		zap.Float64("COM", utils.FormatFloat(margins.COM, 3)), zap.String("levels", levels.DebugString()))

	return &model.EyeResult{
		Margins: *margins,
		Levels:  *levels,
		Stateye: toDense(columns),
		Contour: toDense(contour),
		Vh:      grid.Vh,
	}, nil
}

// Sweep runs Calculate for every config on the same pulse response, at most
// DefaultSweepParallelism at a time. Results keep the order of cfgs; the first error
// stops the remaining calculations.
func Sweep(ctx context.Context, pulseResponse []float64, cfgs []Config) ([]*model.EyeResult, error) {
	results := make([]*model.EyeResult, len(cfgs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultSweepParallelism)
	for i := range cfgs {
		i := i
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			cfgCtx := utils.WithLogger(gCtx, utils.GetLogger(gCtx).With(zap.Int("sweepIndex", i)))
			res, err := Calculate(cfgCtx, pulseResponse, cfgs[i])
			if err != nil {
				return fmt.Errorf("sweep config %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

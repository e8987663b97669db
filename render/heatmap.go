// Package render draws a statistical eye as a heat map with its BER contour.
// It only presents results, nothing here feeds back into the calculation.
package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/uyouii/statistical-eye/common"
	"github.com/uyouii/statistical-eye/model"
	"github.com/uyouii/statistical-eye/stateye"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	HeatMapColors = 255

	DefaultWidth  = 16 * vg.Centimeter
	DefaultHeight = 12 * vg.Centimeter
)

var ContourColor = color.RGBA{R: 255, G: 255, A: 255}

// eyeGrid exposes a voltage by time matrix of an eye result as a plotter.GridXYZ,
// time in UI on X and voltage in mV on Y.
type eyeGrid struct {
	data             *mat.Dense
	vh               []float64
	windowSize       int
	samplesPerSymbol int
}

func (g *eyeGrid) Dims() (c, r int) {
	r, c = g.data.Dims()
	return c, r
}

func (g *eyeGrid) Z(c, r int) float64 {
	return g.data.At(r, c)
}

func (g *eyeGrid) X(c int) float64 {
	return float64(c-g.windowSize/2) / float64(g.samplesPerSymbol)
}

func (g *eyeGrid) Y(r int) float64 {
	return g.vh[r] * 1e3
}

type solidPalette struct {
	c color.Color
}

func (p solidPalette) Colors() []color.Color {
	return []color.Color{p.c}
}

// Title describes the impairments included in the eye.
func Title(cfg *stateye.Config) string {
	switch {
	case cfg.NoiseFlag && !cfg.JitterFlag:
		return fmt.Sprintf("μnoise=%.2e V | σnoise=%.2e V", cfg.MuNoise, cfg.SigmaNoise)
	case cfg.JitterFlag && !cfg.NoiseFlag:
		return fmt.Sprintf("μjitter=%.2e UI | σjitter=%.2e UI",
			cfg.MuJitter/float64(cfg.SamplesPerSymbol), cfg.SigmaJitter/float64(cfg.SamplesPerSymbol))
	case cfg.JitterFlag && cfg.NoiseFlag:
		return fmt.Sprintf("μnoise=%.2e V | σnoise=%.2e V | μjitter=%.2e samples | σjitter=%.2e samples",
			cfg.MuNoise, cfg.SigmaNoise, cfg.MuJitter, cfg.SigmaJitter)
	}
	return "Statistical Eye without Jitter or Noise"
}

// NewEyePlot draws the PDF grid of res as a heat map and the target BER isoline of its contour.
func NewEyePlot(res *model.EyeResult, cfg stateye.Config) (*plot.Plot, error) {
	if res == nil || res.Stateye == nil || res.Contour == nil || len(res.Vh) == 0 {
		return nil, common.ErrorInvalidValue
	}
	if r, c := res.Stateye.Dims(); r != len(res.Vh) || c != cfg.WindowSize {
		return nil, fmt.Errorf("stateye is %dx%d, config expects %dx%d: %w",
			r, c, len(res.Vh), cfg.WindowSize, common.ErrorInvalidValue)
	}

	p := plot.New()
	p.Title.Text = Title(&cfg)
	p.X.Label.Text = "time (UI)"
	p.Y.Label.Text = "voltage (mV)"

	eye := &eyeGrid{data: res.Stateye, vh: res.Vh, windowSize: cfg.WindowSize, samplesPerSymbol: cfg.SamplesPerSymbol}
	heatMap := plotter.NewHeatMap(eye, palette.Rainbow(HeatMapColors, palette.Blue, palette.Red, 1, 1, 1))

	ber := &eyeGrid{data: res.Contour, vh: res.Vh, windowSize: cfg.WindowSize, samplesPerSymbol: cfg.SamplesPerSymbol}
	contour := plotter.NewContour(ber, []float64{cfg.TargetBER}, solidPalette{c: ContourColor})

	p.Add(heatMap, contour)
	return p, nil
}

// WriteEyePlot encodes p in the given format ("png", "svg", "pdf", ...) to w.
func WriteEyePlot(w io.Writer, p *plot.Plot, format string) error {
	writerTo, err := p.WriterTo(DefaultWidth, DefaultHeight, format)
	if err != nil {
		return err
	}
	_, err = writerTo.WriteTo(w)
	return err
}

package stateye

import (
	"fmt"

	"github.com/uyouii/statistical-eye/common"
	"github.com/uyouii/statistical-eye/utils"
	"gonum.org/v1/gonum/floats"
)

// InterfererPositions lists the sample indices contributing to a decision at
// sampled, one per symbol period: first sampled itself and the precursor side
// walking backward, then the postcursor side walking forward.
// Positions outside [0, length) carry no signal and are skipped.
// At most sampleSize positions are returned.
func InterfererPositions(sampled, samplesPerSymbol, length, sampleSize int) []int {
	positions := make([]int, 0, sampleSize)
	for p := sampled; p >= 0; p -= samplesPerSymbol {
		if p < length {
			positions = append(positions, p)
		}
	}
	for p := sampled + samplesPerSymbol; p <= length-1; p += samplesPerSymbol {
		if p >= 0 {
			positions = append(positions, p)
		}
	}
	if len(positions) > sampleSize {
		positions = positions[:sampleSize]
	}
	return positions
}

// InterfererAmplitudes returns, per position, the amplitude the pulse sample
// contributes for every symbol of the alphabet.
func InterfererAmplitudes(samples []float64, positions []int, directions []float64) [][]float64 {
	amps := make([][]float64, len(positions))
	for i, p := range positions {
		amps[i] = make([]float64, len(directions))
		floats.ScaleTo(amps[i], samples[p], directions)
	}
	return amps
}

// convolveSame is the full linear convolution of two equal length PMFs cut to
// the centered len(a) window. Zero entries of b are skipped since per symbol
// PMFs only have M nonzero bins.
func convolveSame(a, b []float64) []float64 {
	n := len(a)
	shift := (n - 1) - n/2
	out := make([]float64, n)
	for j, bj := range b {
		if bj == 0 {
			continue
		}
		lo := utils.IntMax(0, shift-j)
		hi := utils.IntMin(n, n+shift-j)
		if lo >= hi {
			continue
		}
		floats.AddScaled(out[lo+j-shift:hi+j-shift], bj, a[lo:hi])
	}
	return out
}

// convolveStep is one step of the ISI fold: convolve and renormalize.
func convolveStep(acc, next []float64) ([]float64, error) {
	pdf := convolveSame(acc, next)
	if !utils.Normalize(pdf) {
		return nil, fmt.Errorf("convolution lost all probability mass: %w", common.ErrorDegenerateSignal)
	}
	return pdf, nil
}

// FoldPMFs reduces the ordered interferer PMFs into the PMF of their sum.
func FoldPMFs(pmfs [][]float64) ([]float64, error) {
	if len(pmfs) == 0 {
		return nil, common.ErrorInvalidValue
	}
	acc := pmfs[0]
	for _, next := range pmfs[1:] {
		var err error
		if acc, err = convolveStep(acc, next); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// SynthesizeConvolution builds the ISI PDF by histogramming every interferer on
// its own and folding the PMFs by convolution.
func SynthesizeConvolution(grid *AmplitudeGrid, amps [][]float64) ([]float64, error) {
	pmfs := make([][]float64, len(amps))
	for i, a := range amps {
		pmf, err := grid.PMF(a)
		if err != nil {
			return nil, err
		}
		pmfs[i] = pmf
	}
	return FoldPMFs(pmfs)
}

// SynthesizeExact enumerates every combination of interferer symbols and
// histograms the summed amplitudes. The cost is M^len(amps).
func SynthesizeExact(grid *AmplitudeGrid, amps [][]float64) ([]float64, error) {
	if len(amps) == 0 {
		return nil, common.ErrorInvalidValue
	}

	hist := make([]float64, grid.Size())
	choice := make([]int, len(amps))
	for {
		sum := 0.0
		for i, c := range choice {
			sum += amps[i][c]
		}
		if idx := grid.Bin(sum); idx >= 0 {
			hist[idx]++
		}

		// advance the odometer, the last interferer varies fastest
		i := len(choice) - 1
		for ; i >= 0; i-- {
			choice[i]++
			if choice[i] < len(amps[i]) {
				break
			}
			choice[i] = 0
		}
		if i < 0 {
			break
		}
	}

	if !utils.Normalize(hist) {
		return nil, fmt.Errorf("every symbol combination falls outside the grid: %w", common.ErrorDegenerateSignal)
	}
	return hist, nil
}

// SynthesizeISI returns one ISI PDF per time offset of the window, in time order.
// Column t is sampled at MainIdx + t - windowSize/2.
func SynthesizeISI(pulse *Pulse, grid *AmplitudeGrid, directions []float64, cfg *Config) ([][]float64, error) {
	sampleSize := CapSampleSize(cfg.M, cfg.SampleSize, cfg.PdfConvFlag)
	synthesize := SynthesizeConvolution
	if !cfg.PdfConvFlag {
		synthesize = SynthesizeExact
	}

	columns := make([][]float64, cfg.WindowSize)
	for t := range columns {
		sampled := pulse.MainIdx + t - cfg.WindowSize/2
		positions := InterfererPositions(sampled, cfg.SamplesPerSymbol, len(pulse.Samples), sampleSize)

		amps := InterfererAmplitudes(pulse.Samples, positions, directions)
		if len(amps) == 0 {
			// nothing of the pulse is sampled, the decision sees 0 V
			amps = [][]float64{{0}}
		}

		pdf, err := synthesize(grid, amps)
		if err != nil {
			return nil, fmt.Errorf("time offset %d: %w", t-cfg.WindowSize/2, err)
		}
		columns[t] = pdf
	}
	return columns, nil
}

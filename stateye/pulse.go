package stateye

import (
	"fmt"
	"math"

	"github.com/uyouii/statistical-eye/common"
	"gonum.org/v1/gonum/floats"
)

// Pulse is the active part of a pulse response with its main cursor located.
type Pulse struct {
	Samples []float64
	// MainIdx is the index of the main cursor (c0) in Samples.
	MainIdx int
}

// Main returns the signed main cursor amplitude.
func (p *Pulse) Main() float64 {
	return p.Samples[p.MainIdx]
}

// ConditionPulse removes the DC offset given by the first sample, cuts the span
// holding all nonzero samples plus one guard sample on each side, and halves it
// for differential signaling.
func ConditionPulse(pulseResponse []float64, diffSignal bool) (*Pulse, error) {
	if len(pulseResponse) == 0 {
		return nil, fmt.Errorf("empty pulse response: %w", common.ErrorDegenerateSignal)
	}

	dc := pulseResponse[0]
	first, last := -1, -1
	for i, v := range pulseResponse {
		if v-dc != 0 {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return nil, fmt.Errorf("pulse response has no nonzero sample: %w", common.ErrorDegenerateSignal)
	}

	start := first - 1
	end := last + 1
	if end > len(pulseResponse)-1 {
		end = len(pulseResponse) - 1
	}

	samples := make([]float64, end-start+1)
	for i := range samples {
		samples[i] = pulseResponse[start+i] - dc
	}
	if diffSignal {
		floats.Scale(DiffSignalScale, samples)
	}

	abs := make([]float64, len(samples))
	for i, v := range samples {
		abs[i] = math.Abs(v)
	}
	mainIdx := floats.MaxIdx(abs)
	if abs[mainIdx] == 0 || math.IsNaN(abs[mainIdx]) {
		return nil, fmt.Errorf("main cursor amplitude %v: %w", samples[mainIdx], common.ErrorDegenerateSignal)
	}

	return &Pulse{
		Samples: samples,
		MainIdx: mainIdx,
	}, nil
}

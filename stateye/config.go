package stateye

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/uyouii/statistical-eye/common"
)

var configValidate = validator.New()

// Config holds every knob of one statistical eye calculation.
type Config struct {
	SamplesPerSymbol  int     `json:"samples_per_symbol" validate:"gt=0"`
	WindowSize        int     `json:"window_size" validate:"gt=0"`
	VhSize            int     `json:"vh_size" validate:"gte=2"`
	M                 int     `json:"M" validate:"oneof=2 4"`
	AWindowMultiplier float64 `json:"A_window_multiplier" validate:"gt=0"`
	SampleSize        int     `json:"sample_size" validate:"gt=0"`

	// SigmaNoise and SigmaJitter may be left zero while their flag is off.
	MuNoise     float64 `json:"mu_noise"`
	SigmaNoise  float64 `json:"sigma_noise" validate:"required_if=NoiseFlag true,omitempty,gt=0"`
	MuJitter    float64 `json:"mu_jitter"`
	SigmaJitter float64 `json:"sigma_jitter" validate:"required_if=JitterFlag true,omitempty,gt=0"`

	// JitterStep is the step of the jitter time-lag axis in samples.
	// Steps below 1 integrate the jitter PDF over each sample with the trapezoidal rule.
	JitterStep float64 `json:"jitter_step" validate:"gt=0,lte=1"`

	TargetBER float64 `json:"target_BER" validate:"gt=0,lt=1"`

	NoiseFlag   bool `json:"noise_flag"`
	JitterFlag  bool `json:"jitter_flag"`
	PdfConvFlag bool `json:"pdf_conv_flag"`
	DiffSignal  bool `json:"diff_signal"`

	// Plot asks the caller to render the eye, the calculation ignores it.
	Plot bool `json:"plot"`
}

func DefaultConfig() Config {
	return Config{
		SamplesPerSymbol:  DefaultSamplesPerSymbol,
		WindowSize:        DefaultWindowSize,
		VhSize:            DefaultVhSize,
		M:                 DefaultM,
		AWindowMultiplier: DefaultAWindowMultiplier,
		SampleSize:        DefaultSampleSize,
		MuNoise:           DefaultMuNoise,
		SigmaNoise:        DefaultSigmaNoise,
		MuJitter:          DefaultMuJitter,
		SigmaJitter:       DefaultSigmaJitter,
		JitterStep:        DefaultJitterStep,
		TargetBER:         DefaultTargetBER,
		PdfConvFlag:       true,
		DiffSignal:        true,
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config: %w", common.ErrorConfiguration)
	}
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorConfiguration, err)
	}
	return nil
}

package stateye

const (
	DefaultSamplesPerSymbol  = 128
	DefaultWindowSize        = 128
	DefaultVhSize            = 2048
	DefaultM                 = 4
	DefaultAWindowMultiplier = 2.0
	DefaultSampleSize        = 16

	DefaultMuNoise    = 0.0
	DefaultSigmaNoise = 1.33e-4
	// 0.0125 UI and 0.015 UI at 128 samples per symbol
	DefaultMuJitter    = 1.6
	DefaultSigmaJitter = 1.92
	DefaultJitterStep  = 1.0

	DefaultTargetBER = 2.4e-4

	// exact mode enumerates M^sampleSize combinations
	MaxExactSampleSizePAM2 = 16
	MaxExactSampleSizePAM4 = 9

	// differential signaling halves the single-ended swing
	DiffSignalScale = 0.5

	DefaultSweepParallelism = 4
)

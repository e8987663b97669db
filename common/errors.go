package common

import "errors"

var (
	ErrorInvalidValue = errors.New("invalid value")

	// ErrorConfiguration is returned when the eye configuration can not be evaluated,
	// like a symbol alphabet other than PAM-2 / PAM-4.
	ErrorConfiguration = errors.New("invalid configuration")

	// ErrorDegenerateSignal means the pulse response carries no usable main cursor.
	ErrorDegenerateSignal = errors.New("degenerate pulse response")

	// ErrorNoCrossing means the BER contour never crosses the target BER, the eye is closed.
	// It is reported through the result status, not returned by Calculate.
	ErrorNoCrossing = errors.New("no BER contour crossing")

	// ErrorMarginComputation is an internal failure while extracting margins,
	// it is different from a closed eye and always surfaces to the caller.
	ErrorMarginComputation = errors.New("margin computation failed")
)

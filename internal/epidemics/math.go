package epidemics

import "math"

// TruncatedSigmoid squashes x through the logistic function and rescales the
// result into [min, max]. Rate adjustments go through this so that no single
// step can move a rate by more than max.
func TruncatedSigmoid(x, min, max float64) float64 {
	return min + sigmoid(x)*(max-min)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// rescale maps v from [0, maxLiving] into [lo, hi] linearly.
func rescale(v, lo, hi float64) float64 {
	return v/(MaxLivingPopulation-MinLivingPopulation)*(hi-lo) + lo
}

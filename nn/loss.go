package nn

// MSE is the mean squared difference between two equally sized vectors,
// the cost the colour network was trained against.
func MSE(expected, actual []float64) float64 {
	if len(expected) == 0 {
		return 0
	}
	sum := 0.0
	for i := range expected {
		d := actual[i] - expected[i]
		sum += d * d
	}
	return sum / float64(len(expected))
}

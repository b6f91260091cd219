package nn

import "fmt"

// Activator is the non-linearity applied after a layer's affine transform.
type Activator interface {
	Activate(x float32) float32
	fmt.Stringer
}

// LeakySlope is the gradient of the leaky rectifier for non-positive inputs.
const LeakySlope float32 = 0.01

// LeakyReLU passes positive values through and scales the rest by LeakySlope.
type LeakyReLU struct{}

func (LeakyReLU) Activate(x float32) float32 {
	if x > 0 {
		return x
	}
	return LeakySlope * x
}

func (LeakyReLU) String() string {
	return "leaky_relu"
}

// Apply runs act over values in place.
func Apply(act Activator, values []float32) {
	for i, v := range values {
		values[i] = act.Activate(v)
	}
}

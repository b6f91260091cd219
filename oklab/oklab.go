// Package oklab decodes the network's scaled OkLab output into sRGB.
package oklab

import "math"

// Scaled is OkLab with every channel normalised to [0,1], the network's
// native output representation.
type Scaled struct {
	L, A, B float64
}

// Lab is a regular OkLab colour.
type Lab struct {
	L, A, B float64
}

// FromNetwork reads the first three network outputs as a Scaled colour.
func FromNetwork(out []float32) Scaled {
	return Scaled{L: float64(out[0]), A: float64(out[1]), B: float64(out[2])}
}

// Unscale maps the a and b channels from [0,1] back to [-0.4,0.4].
func Unscale(s Scaled) Lab {
	return Lab{
		L: s.L,
		A: s.A*0.8 - 0.4,
		B: s.B*0.8 - 0.4,
	}
}

// Scale is the inverse of Unscale.
func Scale(l Lab) Scaled {
	return Scaled{
		L: l.L,
		A: (l.A + 0.4) / 0.8,
		B: (l.B + 0.4) / 0.8,
	}
}

// Slice returns the channels as L, A, B.
func (s Scaled) Slice() []float64 {
	return []float64{s.L, s.A, s.B}
}

// LinearRGB converts to linear-light sRGB. The result is not clamped.
func (c Lab) LinearRGB() (r, g, b float64) {
	l := c.L + 0.3963377774*c.A + 0.2158037573*c.B
	m := c.L - 0.1055613458*c.A - 0.0638541728*c.B
	s := c.L - 0.0894841775*c.A - 1.2914855480*c.B

	l = l * l * l
	m = m * m * m
	s = s * s * s

	r = 4.0767416621*l - 3.3077115913*m + 0.2309699292*s
	g = -1.2684380046*l + 2.6097574011*m - 0.3413193965*s
	b = -0.0041960863*l - 0.7034186147*m + 1.7076147010*s
	return r, g, b
}

// GammaThreshold is the largest linear value encoded by the linear segment.
const GammaThreshold = 0.0031308

// Gamma applies the sRGB transfer function to a linear channel.
func Gamma(x float64) float64 {
	if x > GammaThreshold {
		return 1.055*math.Pow(x, 1.0/2.4) - 0.055
	}
	return 12.92 * x
}

// Decode converts a scaled OkLab colour to a packed sRGB value. It is total:
// out-of-gamut channels are clamped and NaN becomes 0.
func Decode(s Scaled) RGB {
	r, g, b := Unscale(s).LinearRGB()
	return Pack(channel(Gamma(r)), channel(Gamma(g)), channel(Gamma(b)))
}

func channel(x float64) uint8 {
	if math.IsNaN(x) || x <= 0 {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return uint8(math.Round(x * 255))
}

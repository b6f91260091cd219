package tensor

// Tensor is a simple n-D array backed by a flat []float32.
// Feature vectors are [positions, channels]; layer activations are 1-D.
type Tensor struct {
	Data  []float32
	Shape []int
}

// New allocates a zeroed Tensor of given shape (product of dims = len(Data)).
func New(shape ...int) *Tensor {
	total := 1
	for _, d := range shape {
		total *= d
	}
	return &Tensor{
		Data:  make([]float32, total),
		Shape: append([]int(nil), shape...),
	}
}

// Len returns the number of elements.
func (t *Tensor) Len() int {
	return len(t.Data)
}

// NonZero returns the flat indices of all non-zero elements in ascending order.
func (t *Tensor) NonZero() []int {
	var out []int
	for i, v := range t.Data {
		if v != 0 {
			out = append(out, i)
		}
	}
	return out
}

// Float64 returns a float64 copy of the data, for consumers working in double precision.
func (t *Tensor) Float64() []float64 {
	out := make([]float64, len(t.Data))
	for i, v := range t.Data {
		out[i] = float64(v)
	}
	return out
}

package split

import (
	"fmt"

	"github.com/tuneinsight/lattigo/v5/he/hefloat"
)

// MinLogN and MaxLogN bound the ring degrees the modulus chain supports.
// Every prime below is 1 mod 2^15, so rings up to 2^14 are NTT friendly.
const (
	MinLogN     = 11
	MaxLogN     = 14
	DefaultLogN = 13
)

// Params returns CKKS parameters with ring degree 2^logN.
func Params(logN int) (hefloat.Parameters, error) {
	if logN < MinLogN || logN > MaxLogN {
		return hefloat.Parameters{}, fmt.Errorf("logN must be in [%d, %d], got %d", MinLogN, MaxLogN, logN)
	}
	return hefloat.NewParametersFromLiteral(hefloat.ParametersLiteral{
		LogN: logN,
		Q: []uint64{0x200000008001, 0x400018001, // 45 + 9 x 34
			0x3fffd0001, 0x400060001,
			0x400068001, 0x3fff90001,
			0x400080001, 0x4000a8001,
			0x400108001, 0x3ffeb8001},
		P:               []uint64{0x7fffffd8001, 0x7fffffc8001}, // 43, 43
		LogDefaultScale: 40,                                     // Log2 of the scale
	})
}

// slotWidth is the power-of-two span holding features plus the bias slot.
func slotWidth(features int) int {
	w := 1
	for w < features+1 {
		w *= 2
	}
	return w
}

func maxSlots(params hefloat.Parameters) int {
	return 1 << params.LogMaxSlots()
}

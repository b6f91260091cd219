package split

import (
	"fmt"

	"github.com/tuneinsight/lattigo/v5/core/rlwe"
	"github.com/tuneinsight/lattigo/v5/he/hefloat"

	"github.com/TheEpicBlock/mid-journey/tensor"
)

// Client owns the secret key. It encrypts feature vectors and decrypts the
// first-layer sums the server sends back.
type Client struct {
	params    hefloat.Parameters
	encoder   *hefloat.Encoder
	encryptor *rlwe.Encryptor
	decryptor *rlwe.Decryptor
	evk       *rlwe.MemEvaluationKeySet
	features  int
	width     int
}

// NewClient generates a fresh key pair and the rotation keys the server
// needs to sum a vector of the given feature count.
func NewClient(params hefloat.Parameters, features int) (*Client, error) {
	width := slotWidth(features)
	if width > maxSlots(params) {
		return nil, fmt.Errorf("%d features need %d slots, ring has %d", features, width, maxSlots(params))
	}

	kgen := hefloat.NewKeyGenerator(params)
	sk, pk := kgen.GenKeyPairNew()

	galEls := make([]uint64, 0)
	for k := 1; k < width; k *= 2 {
		galEls = append(galEls, params.GaloisElement(k))
	}
	rlk := kgen.GenRelinearizationKeyNew(sk)
	evk := rlwe.NewMemEvaluationKeySet(rlk, kgen.GenGaloisKeysNew(galEls, sk)...)

	return &Client{
		params:    params,
		encoder:   hefloat.NewEncoder(params),
		encryptor: hefloat.NewEncryptor(params, pk),
		decryptor: hefloat.NewDecryptor(params, sk),
		evk:       evk,
		features:  features,
		width:     width,
	}, nil
}

// EvaluationKeys returns the public key material the server evaluates with.
func (c *Client) EvaluationKeys() *rlwe.MemEvaluationKeySet {
	return c.evk
}

// EncryptFeatures encrypts x followed by a constant 1 that picks up the bias.
func (c *Client) EncryptFeatures(x *tensor.Tensor) ([]byte, error) {
	if x.Len() != c.features {
		return nil, fmt.Errorf("expected %d features, got %d", c.features, x.Len())
	}
	values := make([]float64, c.width)
	copy(values, x.Float64())
	values[c.features] = 1

	pt := hefloat.NewPlaintext(c.params, c.params.MaxLevel())
	if err := c.encoder.Encode(values, pt); err != nil {
		return nil, fmt.Errorf("encoding features: %w", err)
	}
	ct, err := c.encryptor.EncryptNew(pt)
	if err != nil {
		return nil, fmt.Errorf("encrypting features: %w", err)
	}
	return ct.MarshalBinary()
}

// DecryptSums reads slot 0 of every returned ciphertext.
func (c *Client) DecryptSums(cts [][]byte) ([]float32, error) {
	out := make([]float32, len(cts))
	values := make([]complex128, maxSlots(c.params))
	for i, b := range cts {
		ct := new(rlwe.Ciphertext)
		if err := ct.UnmarshalBinary(b); err != nil {
			return nil, fmt.Errorf("neuron %d: %w", i, err)
		}
		pt := c.decryptor.DecryptNew(ct)
		if err := c.encoder.Decode(pt, values); err != nil {
			return nil, fmt.Errorf("neuron %d: decoding: %w", i, err)
		}
		out[i] = float32(real(values[0]))
	}
	return out, nil
}

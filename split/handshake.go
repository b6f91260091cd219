package split

import (
	"fmt"

	"github.com/tuneinsight/lattigo/v5/core/rlwe"

	"github.com/TheEpicBlock/mid-journey/model"
)

// Handshake sends the client's evaluation keys. It must precede any features.
func (c *Client) Handshake(p *Protocol) error {
	evk, err := c.evk.MarshalBinary()
	if err != nil {
		return fmt.Errorf("serializing evaluation keys: %w", err)
	}
	return p.SendKeys(c.params.LogN(), c.features, evk)
}

// Accept reads a client's handshake and prepares a Server for the first layer.
// A client whose feature count differs from the model's is refused. Every
// failure after the keys arrive is reported back to the client.
func Accept(p *Protocol, first model.LayerParameters, features int) (*Server, error) {
	keys, err := p.ReceiveKeys()
	if err != nil {
		return nil, fmt.Errorf("receiving keys: %w", err)
	}
	server, err := accept(keys, first, features)
	if err != nil {
		p.SendError(err)
		return nil, err
	}
	return server, nil
}

func accept(keys *KeysPayload, first model.LayerParameters, features int) (*Server, error) {
	if keys.Features != features {
		return nil, fmt.Errorf("client encodes %d features, model expects %d", keys.Features, features)
	}
	params, err := Params(keys.LogN)
	if err != nil {
		return nil, err
	}
	evk := new(rlwe.MemEvaluationKeySet)
	if err := evk.UnmarshalBinary(keys.EvaluationKeys); err != nil {
		return nil, fmt.Errorf("decoding evaluation keys: %w", err)
	}
	return NewServer(params, evk, first, features)
}

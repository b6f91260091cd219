// Package split evaluates the colour network without showing the model owner
// the text. The text owner encrypts its feature vector under CKKS, the model
// owner computes the first dense layer over the ciphertext, and the text
// owner finishes the remaining layers in the clear.
package split

import (
	"encoding/gob"
	"fmt"
	"io"
)

func init() {
	// Register types for gob encoding
	gob.Register(KeysPayload{})
	gob.Register(FeaturesPayload{})
	gob.Register(SumsPayload{})
}

// MessageType defines message types for the split evaluation protocol
type MessageType int

const (
	MsgKeys MessageType = iota
	MsgFeatures
	MsgSums
	MsgDone
	MsgError
)

// Message represents a message in the split evaluation protocol
type Message struct {
	Type    MessageType
	Payload interface{}
}

// KeysPayload opens a session: the ring degree, the feature count the keys
// were generated for and the serialized evaluation key set.
type KeysPayload struct {
	LogN           int
	Features       int
	EvaluationKeys []byte
}

// FeaturesPayload carries one encrypted feature vector
type FeaturesPayload struct {
	RequestID  int
	Ciphertext []byte // serialized ciphertext
}

// SumsPayload carries one encrypted pre-activation per first-layer neuron
type SumsPayload struct {
	RequestID   int
	Ciphertexts [][]byte
}

// Protocol handles split evaluation communication
type Protocol struct {
	encoder *gob.Encoder
	decoder *gob.Decoder
}

// NewProtocol creates a new protocol handler
func NewProtocol(r io.Reader, w io.Writer) *Protocol {
	p := &Protocol{}
	if w != nil {
		p.encoder = gob.NewEncoder(w)
	}
	if r != nil {
		p.decoder = gob.NewDecoder(r)
	}
	return p
}

// Send sends a message
func (p *Protocol) Send(msg *Message) error {
	if p.encoder == nil {
		return fmt.Errorf("protocol has no writer")
	}
	return p.encoder.Encode(msg)
}

// Receive receives a message
func (p *Protocol) Receive() (*Message, error) {
	if p.decoder == nil {
		return nil, fmt.Errorf("protocol has no reader")
	}
	var msg Message
	if err := p.decoder.Decode(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// SendKeys sends the client's evaluation keys
func (p *Protocol) SendKeys(logN, features int, evk []byte) error {
	return p.Send(&Message{
		Type: MsgKeys,
		Payload: KeysPayload{
			LogN:           logN,
			Features:       features,
			EvaluationKeys: evk,
		},
	})
}

// SendFeatures sends an encrypted feature vector
func (p *Protocol) SendFeatures(requestID int, ctBytes []byte) error {
	return p.Send(&Message{
		Type: MsgFeatures,
		Payload: FeaturesPayload{
			RequestID:  requestID,
			Ciphertext: ctBytes,
		},
	})
}

// SendSums sends the encrypted first-layer sums
func (p *Protocol) SendSums(requestID int, cts [][]byte) error {
	return p.Send(&Message{
		Type: MsgSums,
		Payload: SumsPayload{
			RequestID:   requestID,
			Ciphertexts: cts,
		},
	})
}

// SendDone signals completion
func (p *Protocol) SendDone() error {
	return p.Send(&Message{Type: MsgDone})
}

// SendError sends an error message
func (p *Protocol) SendError(err error) error {
	return p.Send(&Message{
		Type:    MsgError,
		Payload: err.Error(),
	})
}

// ReceiveKeys receives the client's evaluation keys
func (p *Protocol) ReceiveKeys() (*KeysPayload, error) {
	msg, err := p.receive(MsgKeys)
	if err != nil {
		return nil, err
	}
	payload, ok := msg.Payload.(KeysPayload)
	if !ok {
		return nil, fmt.Errorf("invalid keys payload type")
	}
	return &payload, nil
}

// ReceiveFeatures receives an encrypted feature vector
func (p *Protocol) ReceiveFeatures() (*FeaturesPayload, error) {
	msg, err := p.receive(MsgFeatures)
	if err != nil {
		return nil, err
	}
	payload, ok := msg.Payload.(FeaturesPayload)
	if !ok {
		return nil, fmt.Errorf("invalid features payload type")
	}
	return &payload, nil
}

// ReceiveSums receives the encrypted first-layer sums
func (p *Protocol) ReceiveSums() (*SumsPayload, error) {
	msg, err := p.receive(MsgSums)
	if err != nil {
		return nil, err
	}
	payload, ok := msg.Payload.(SumsPayload)
	if !ok {
		return nil, fmt.Errorf("invalid sums payload type")
	}
	return &payload, nil
}

func (p *Protocol) receive(want MessageType) (*Message, error) {
	msg, err := p.Receive()
	if err != nil {
		return nil, err
	}
	switch msg.Type {
	case MsgError:
		return nil, fmt.Errorf("remote error: %v", msg.Payload)
	case MsgDone:
		return nil, io.EOF
	case want:
		return msg, nil
	default:
		return nil, fmt.Errorf("expected message %d, got %d", want, msg.Type)
	}
}

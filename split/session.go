package split

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/TheEpicBlock/mid-journey/encoder"
	"github.com/TheEpicBlock/mid-journey/model"
	"github.com/TheEpicBlock/mid-journey/nn"
	"github.com/TheEpicBlock/mid-journey/oklab"
	"github.com/TheEpicBlock/mid-journey/pipeline"
)

// Serve answers encrypted feature vectors until the peer sends done, the
// connection fails or ctx is cancelled. Cancellation is observed between
// messages; close the underlying connection to interrupt a blocked read.
func Serve(ctx context.Context, s *Server, p *Protocol) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		payload, err := p.ReceiveFeatures()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		sums, err := s.Evaluate(payload.Ciphertext)
		if err != nil {
			if sendErr := p.SendError(err); sendErr != nil {
				return sendErr
			}
			continue
		}
		if err := p.SendSums(payload.RequestID, sums); err != nil {
			return err
		}
	}
}

// Predict runs one text through the split pipeline: encrypt, remote first
// layer, local activation and remaining layers, decode.
func Predict(ctx context.Context, c *Client, p *Protocol, pred *pipeline.Predictor, requestID int, text string) (pipeline.Result, error) {
	if err := ctx.Err(); err != nil {
		return pipeline.Result{}, err
	}
	m := pred.Model()
	features := encoder.Encode(text, m.Config.InputLength)
	ct, err := c.EncryptFeatures(features)
	if err != nil {
		return pipeline.Result{}, err
	}
	if err := p.SendFeatures(requestID, ct); err != nil {
		return pipeline.Result{}, fmt.Errorf("sending features: %w", err)
	}
	payload, err := p.ReceiveSums()
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("receiving sums: %w", err)
	}
	if payload.RequestID != requestID {
		return pipeline.Result{}, fmt.Errorf("response for request %d, want %d", payload.RequestID, requestID)
	}
	if err := ctx.Err(); err != nil {
		return pipeline.Result{}, err
	}

	hidden, err := c.DecryptSums(payload.Ciphertexts)
	if err != nil {
		return pipeline.Result{}, err
	}
	nn.Apply(nn.LeakyReLU{}, hidden)
	scaled := oklab.FromNetwork(pred.Network().ForwardFrom(1, hidden))
	return pipeline.Result{
		Text:   text,
		Scaled: scaled,
		RGB:    oklab.Decode(scaled),
	}, nil
}

// Session runs a client and a server in one process, joined by an in-memory
// connection. It exercises the full protocol and is what the CLI uses.
type Session struct {
	client *Client
	proto  *Protocol
	pred   *pipeline.Predictor
	conn   net.Conn
	nextID int

	mu     sync.Mutex
	done   chan error
	closed bool
}

// NewSession generates keys for m's feature count and starts the server side.
func NewSession(ctx context.Context, m *model.Model, logN int) (*Session, error) {
	params, err := Params(logN)
	if err != nil {
		return nil, err
	}
	client, err := NewClient(params, m.FeatureCount())
	if err != nil {
		return nil, err
	}

	clientConn, serverConn := net.Pipe()
	done := make(chan error, 1)
	go func() {
		defer serverConn.Close()
		proto := NewProtocol(serverConn, serverConn)
		server, err := Accept(proto, m.Layers[0], m.FeatureCount())
		if err != nil {
			done <- err
			return
		}
		done <- Serve(ctx, server, proto)
	}()

	proto := NewProtocol(clientConn, clientConn)
	if err := client.Handshake(proto); err != nil {
		clientConn.Close()
		<-done
		return nil, err
	}

	return &Session{
		client: client,
		proto:  proto,
		pred:   pipeline.New(m),
		conn:   clientConn,
		done:   done,
	}, nil
}

// Predict evaluates text through the server. Calls are serialised.
func (s *Session) Predict(ctx context.Context, text string) (pipeline.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return pipeline.Result{}, errors.New("session closed")
	}
	s.nextID++
	return Predict(ctx, s.client, s.proto, s.pred, s.nextID, text)
}

// Close tells the server to stop and waits for it.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	sendErr := s.proto.SendDone()
	serveErr := <-s.done
	s.conn.Close()
	if sendErr != nil && !errors.Is(sendErr, io.ErrClosedPipe) {
		return sendErr
	}
	return serveErr
}

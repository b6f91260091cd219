package split

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestProtocolRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	writer := NewProtocol(nil, &buf)

	ctBytes := []byte("test ciphertext data")
	if err := writer.SendFeatures(1, ctBytes); err != nil {
		t.Fatalf("SendFeatures failed: %v", err)
	}

	reader := NewProtocol(&buf, nil)
	payload, err := reader.ReceiveFeatures()
	if err != nil {
		t.Fatalf("ReceiveFeatures failed: %v", err)
	}

	if payload.RequestID != 1 {
		t.Errorf("RequestID = %d, want 1", payload.RequestID)
	}
	if !bytes.Equal(payload.Ciphertext, ctBytes) {
		t.Errorf("Ciphertext mismatch")
	}
}

func TestProtocolSums(t *testing.T) {
	var buf bytes.Buffer
	writer := NewProtocol(nil, &buf)

	sums := [][]byte{[]byte("n0"), []byte("n1"), []byte("n2")}
	if err := writer.SendSums(42, sums); err != nil {
		t.Fatalf("SendSums failed: %v", err)
	}

	reader := NewProtocol(&buf, nil)
	payload, err := reader.ReceiveSums()
	if err != nil {
		t.Fatalf("ReceiveSums failed: %v", err)
	}

	if payload.RequestID != 42 {
		t.Errorf("RequestID = %d, want 42", payload.RequestID)
	}
	if len(payload.Ciphertexts) != 3 || !bytes.Equal(payload.Ciphertexts[2], []byte("n2")) {
		t.Errorf("Sums mismatch: %q", payload.Ciphertexts)
	}
}

func TestProtocolDone(t *testing.T) {
	var buf bytes.Buffer
	writer := NewProtocol(nil, &buf)

	if err := writer.SendDone(); err != nil {
		t.Fatalf("SendDone failed: %v", err)
	}

	reader := NewProtocol(&buf, nil)
	_, err := reader.ReceiveFeatures()
	if err != io.EOF {
		t.Errorf("Expected io.EOF after done, got %v", err)
	}
}

func TestProtocolError(t *testing.T) {
	var buf bytes.Buffer
	writer := NewProtocol(nil, &buf)

	if err := writer.SendError(errors.New("bad ciphertext")); err != nil {
		t.Fatalf("SendError failed: %v", err)
	}

	reader := NewProtocol(&buf, nil)
	_, err := reader.ReceiveSums()
	if err == nil || !strings.Contains(err.Error(), "bad ciphertext") {
		t.Errorf("Expected remote error, got %v", err)
	}
}

func TestProtocolUnexpectedType(t *testing.T) {
	var buf bytes.Buffer
	writer := NewProtocol(nil, &buf)
	if err := writer.SendSums(1, nil); err != nil {
		t.Fatal(err)
	}

	reader := NewProtocol(&buf, nil)
	if _, err := reader.ReceiveFeatures(); err == nil {
		t.Error("Expected error for unexpected message type")
	}
}

func TestProtocolMissingEnds(t *testing.T) {
	if err := NewProtocol(nil, nil).SendDone(); err == nil {
		t.Error("Expected error sending without writer")
	}
	if _, err := NewProtocol(nil, nil).Receive(); err == nil {
		t.Error("Expected error receiving without reader")
	}
}

func TestProtocolKeys(t *testing.T) {
	var buf bytes.Buffer
	writer := NewProtocol(nil, &buf)

	if err := writer.SendKeys(13, 108, []byte("keys")); err != nil {
		t.Fatalf("SendKeys failed: %v", err)
	}

	reader := NewProtocol(&buf, nil)
	payload, err := reader.ReceiveKeys()
	if err != nil {
		t.Fatalf("ReceiveKeys failed: %v", err)
	}
	if payload.LogN != 13 || payload.Features != 108 || string(payload.EvaluationKeys) != "keys" {
		t.Errorf("Keys mismatch: %+v", payload)
	}
}

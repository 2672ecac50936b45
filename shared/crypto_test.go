package shared

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

func TestEncryptDecryptGCMRoundTrip(t *testing.T) {
	var key [32]byte
	if _, err := rand.Read(key[:]); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}
	plaintext := []byte("super secret contents of a packed file")

	frame, err := encryptGCM(plaintext, &key)
	if err != nil {
		t.Fatalf("encryptGCM: %v", err)
	}
	got, err := decryptGCM(frame, &key)
	if err != nil {
		t.Fatalf("decryptGCM: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("round trip mismatch: got %q, want %q", got, plaintext)
	}
}

func TestDecryptGCMWrongKeyFails(t *testing.T) {
	var key1, key2 [32]byte
	rand.Read(key1[:])
	rand.Read(key2[:])

	frame, err := encryptGCM([]byte("hello"), &key1)
	if err != nil {
		t.Fatalf("encryptGCM: %v", err)
	}
	if _, err := decryptGCM(frame, &key2); err == nil {
		t.Fatal("expected decryption with the wrong key to fail")
	}
}

func TestDecryptGCMTamperedCiphertextFails(t *testing.T) {
	var key [32]byte
	rand.Read(key[:])

	frame, err := encryptGCM([]byte("hello world"), &key)
	if err != nil {
		t.Fatalf("encryptGCM: %v", err)
	}
	frame[len(frame)-1] ^= 0xff

	if _, err := decryptGCM(frame, &key); err == nil {
		t.Fatal("expected tamper detection to fail decryption")
	} else if !errors.Is(err, ErrDecryptFailed) {
		t.Fatalf("expected ErrDecryptFailed, got %v", err)
	}
}

func TestDecryptGCMTruncatedFrameFails(t *testing.T) {
	var key [32]byte
	rand.Read(key[:])
	if _, err := decryptGCM([]byte{1, 2, 3}, &key); err == nil {
		t.Fatal("expected an error for a truncated frame")
	}
}

func TestRandomNonceProducesDistinctValues(t *testing.T) {
	a, err := randomNonce(12)
	if err != nil {
		t.Fatalf("randomNonce: %v", err)
	}
	b, err := randomNonce(12)
	if err != nil {
		t.Fatalf("randomNonce: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("two consecutive nonces were identical")
	}
}

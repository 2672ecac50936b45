package rs

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	code := Encode(data, 10)
	if len(code) != len(data)+10 {
		t.Fatalf("codeword length = %d, want %d", len(code), len(data)+10)
	}

	got, err := Decode(code, 10)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("Decode = %q, want %q", got, data)
	}
}

func TestDecodeCorrectsErrors(t *testing.T) {
	data := bytes.Repeat([]byte{0x05}, 200)
	nsym := 40 // corrects up to 20 byte errors
	code := Encode(data, nsym)

	r := rand.New(rand.NewSource(1))
	corrupted := append([]byte{}, code...)
	positions := r.Perm(len(corrupted))[:20]
	for _, p := range positions {
		corrupted[p] ^= 0xff
	}

	got, err := Decode(corrupted, nsym)
	if err != nil {
		t.Fatalf("Decode with 20 errors (capacity 20): %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("Decode did not recover original data")
	}
}

func TestDecodeUncorrectable(t *testing.T) {
	data := bytes.Repeat([]byte{0x42}, 50)
	nsym := 4 // corrects up to 2 byte errors
	code := Encode(data, nsym)

	corrupted := append([]byte{}, code...)
	for i := 0; i < len(corrupted); i += 3 { // far more than 2 errors
		corrupted[i] ^= 0xff
	}

	if _, err := Decode(corrupted, nsym); err == nil {
		t.Fatalf("expected Decode to fail with too many errors")
	}
}

func TestDecodeNoErrors(t *testing.T) {
	data := []byte{}
	code := Encode(data, 4)
	got, err := Decode(code, 4)
	if err != nil {
		t.Fatalf("Decode empty payload: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Decode of empty payload returned %d bytes", len(got))
	}
}

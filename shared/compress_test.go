package shared

import (
	"bytes"
	"testing"
)

func TestLZ4RoundTripCompressible(t *testing.T) {
	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 200)
	frame := lz4CompressPrependSize(data)
	if frame[8] != 0 {
		t.Fatalf("expected a compressed (non-literal) frame for highly repetitive input")
	}
	got, err := lz4DecompressPrependedSize(frame)
	if err != nil {
		t.Fatalf("lz4DecompressPrependedSize: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch")
	}
}

func TestLZ4RoundTripTinyFallsBackToLiteral(t *testing.T) {
	data := []byte("hi")
	frame := lz4CompressPrependSize(data)
	if frame[8] != 1 {
		t.Fatalf("expected a literal frame for tiny input, got flag %d", frame[8])
	}
	got, err := lz4DecompressPrependedSize(frame)
	if err != nil {
		t.Fatalf("lz4DecompressPrependedSize: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got %q, want %q", got, data)
	}
}

func TestLZ4RoundTripEmpty(t *testing.T) {
	frame := lz4CompressPrependSize(nil)
	got, err := lz4DecompressPrependedSize(frame)
	if err != nil {
		t.Fatalf("lz4DecompressPrependedSize: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty output, got %d bytes", len(got))
	}
}

func TestLZ4DecompressTruncatedFrame(t *testing.T) {
	if _, err := lz4DecompressPrependedSize([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected an error for a truncated frame")
	}
}

package shared

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

func TestTransformReverseCombinations(t *testing.T) {
	var key [32]byte
	rand.Read(key[:])

	data := bytes.Repeat([]byte("hello packed file archive "), 50)

	cases := []struct {
		name string
		opts Options
	}{
		{"none", Options{Compression: NoCompression}},
		{"forced-compression", Options{Compression: ForceCompression}},
		{"auto-compression", Options{Compression: AutoCompression}},
		{"encrypted", Options{Compression: NoCompression, Key: &key}},
		{"compressed-encrypted", Options{Compression: ForceCompression, Key: &key}},
		{"ecc-only", Options{Compression: NoCompression, ECCFraction: 0.2}},
		{"compressed-ecc", Options{Compression: ForceCompression, ECCFraction: 0.2}},
		{"encrypted-ecc", Options{Compression: NoCompression, Key: &key, ECCFraction: 0.2}},
		{"all-three", Options{Compression: ForceCompression, Key: &key, ECCFraction: 0.3}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			stored, flags, err := Transform(data, c.opts)
			if err != nil {
				t.Fatalf("Transform: %v", err)
			}

			if c.opts.Compression == ForceCompression && flags&FlagCompressed == 0 {
				t.Fatalf("flags = %#b, expected FlagCompressed set under forced compression", flags)
			}
			if c.opts.Compression == NoCompression && flags&FlagCompressed != 0 {
				t.Fatalf("flags = %#b, expected FlagCompressed clear under no compression", flags)
			}
			if (c.opts.Key != nil) != (flags&FlagEncrypted != 0) {
				t.Fatalf("flags = %#b, expected FlagEncrypted to track opts.Key", flags)
			}
			if (c.opts.ECCFraction > 0) != (flags&FlagECC != 0) {
				t.Fatalf("flags = %#b, expected FlagECC to track opts.ECCFraction", flags)
			}

			got, err := Reverse(flags, stored, c.opts.Key)
			if err != nil {
				t.Fatalf("Reverse: %v", err)
			}
			if !bytes.Equal(got, data) {
				t.Fatal("round trip mismatch")
			}
		})
	}
}

func TestAutoCompressionSkipsWhenNotSmaller(t *testing.T) {
	data := []byte("hi")
	_, flags, err := Transform(data, Options{Compression: AutoCompression})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if flags&FlagCompressed != 0 {
		t.Fatal("expected auto-compression to decline when the result would not shrink")
	}
}

func TestReverseMissingKeyFails(t *testing.T) {
	var key [32]byte
	rand.Read(key[:])
	stored, flags, err := Transform([]byte("secret"), Options{Key: &key})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if _, err := Reverse(flags, stored, nil); !errors.Is(err, ErrKeyMissing) {
		t.Fatalf("expected ErrKeyMissing, got %v", err)
	}
}

func TestReverseUnexpectedKeyFails(t *testing.T) {
	var key [32]byte
	rand.Read(key[:])
	stored, flags, err := Transform([]byte("plain"), Options{})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if _, err := Reverse(flags, stored, &key); !errors.Is(err, ErrDecryptUnencrypted) {
		t.Fatalf("expected ErrDecryptUnencrypted, got %v", err)
	}
}

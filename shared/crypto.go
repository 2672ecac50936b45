package shared

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/chacha20"
)

// randomNonce produces n CSPRNG bytes by seeding a ChaCha20 stream cipher
// from the OS RNG rather than reading crypto/rand directly for every byte,
// the same "OS RNG seeds a stream cipher" split the source keeps between
// entropy collection and bulk random generation.
func randomNonce(n int) ([]byte, error) {
	var key [chacha20.KeySize]byte
	var iv [chacha20.NonceSize]byte
	if _, err := rand.Read(key[:]); err != nil {
		return nil, err
	}
	if _, err := rand.Read(iv[:]); err != nil {
		return nil, err
	}
	c, err := chacha20.NewUnauthenticatedCipher(key[:], iv[:])
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	c.XORKeyStream(out, out)
	return out, nil
}

// encryptGCM seals plaintext under AES-256-GCM with a fresh random nonce,
// framing the result as "u64 nonce_len || nonce || ciphertext+tag".
func encryptGCM(plaintext []byte, key *[32]byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce, err := randomNonce(gcm.NonceSize())
	if err != nil {
		return nil, err
	}
	sealed := gcm.Seal(nil, nonce, plaintext, nil)

	out := make([]byte, 8+len(nonce)+len(sealed))
	binary.LittleEndian.PutUint64(out[:8], uint64(len(nonce)))
	copy(out[8:], nonce)
	copy(out[8+len(nonce):], sealed)
	return out, nil
}

// decryptGCM reverses encryptGCM, returning ErrDecryptFailed on a bad key
// or corrupted/tampered ciphertext (GCM tag mismatch).
func decryptGCM(frame []byte, key *[32]byte) ([]byte, error) {
	if len(frame) < 8 {
		return nil, fmt.Errorf("%w: encrypted frame too short", ErrBadFormat)
	}
	nonceLen := binary.LittleEndian.Uint64(frame[:8])
	if nonceLen > uint64(len(frame)-8) {
		return nil, fmt.Errorf("%w: encrypted frame nonce length out of range", ErrBadFormat)
	}
	nonce := frame[8 : 8+nonceLen]
	sealed := frame[8+nonceLen:]

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}
	return plaintext, nil
}

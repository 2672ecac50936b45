package shared

// CompressionMode selects how the write-side pipeline decides whether to
// LZ4-compress a file's contents.
type CompressionMode int

const (
	// NoCompression never compresses.
	NoCompression CompressionMode = iota
	// ForceCompression always compresses, regardless of whether the
	// result is smaller.
	ForceCompression
	// AutoCompression compresses and keeps the result only if it is
	// strictly smaller than the original.
	AutoCompression
)

// DataFlags bit positions, matching the on-disk layout at name[31].
const (
	FlagCompressed byte = 1 << 0
	FlagEncrypted  byte = 1 << 1
	FlagECC        byte = 1 << 2
	reservedFlags  byte = 0xF8 // bits 3-7, set on write, ignored on read
)

// Options configures the per-file forward transform.
type Options struct {
	Compression CompressionMode
	// Key enables AES-256-GCM encryption when non-nil.
	Key *[32]byte
	// ECCFraction, when > 0, enables Reed-Solomon error correction; it is
	// the fraction of each 255-byte block spent on parity.
	ECCFraction float64
}

// Transform runs the write-side pipeline (compress, then encrypt, then
// error-correct) over data and returns the stored bytes plus the flag byte
// to record alongside the catalog entry.
func Transform(data []byte, opts Options) ([]byte, byte, error) {
	flags := reservedFlags
	payload := data

	switch opts.Compression {
	case ForceCompression:
		payload = lz4CompressPrependSize(payload)
		flags |= FlagCompressed
	case AutoCompression:
		candidate := lz4CompressPrependSize(payload)
		if len(candidate) < len(payload) {
			payload = candidate
			flags |= FlagCompressed
		}
	case NoCompression:
	}

	if opts.Key != nil {
		var err error
		payload, err = encryptGCM(payload, opts.Key)
		if err != nil {
			return nil, 0, err
		}
		flags |= FlagEncrypted
	}

	if opts.ECCFraction > 0 {
		var err error
		payload, err = eccEncode(payload, opts.ECCFraction)
		if err != nil {
			return nil, 0, err
		}
		flags |= FlagECC
	}

	return payload, flags, nil
}

// Reverse runs the read-side pipeline (error-correct, then decrypt, then
// decompress) in the order the flag byte requires. key must be non-nil iff
// the catalog entry's flag byte has FlagEncrypted set.
func Reverse(flags byte, data []byte, key *[32]byte) ([]byte, error) {
	payload := data
	var err error

	if flags&FlagECC != 0 {
		payload, err = eccDecode(payload)
		if err != nil {
			return nil, err
		}
	}

	switch {
	case flags&FlagEncrypted != 0:
		if key == nil {
			return nil, ErrKeyMissing
		}
		payload, err = decryptGCM(payload, key)
		if err != nil {
			return nil, err
		}
	case key != nil:
		return nil, ErrDecryptUnencrypted
	}

	if flags&FlagCompressed != 0 {
		payload, err = lz4DecompressPrependedSize(payload)
		if err != nil {
			return nil, err
		}
	}

	return payload, nil
}

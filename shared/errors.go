package shared

import "errors"

// Sentinel errors surfaced by the pipeline, path model, and tree
// builder/reader. Callers should use errors.Is/errors.As rather than
// comparing error strings.
var (
	// ErrBadFormat covers a bad watermark, truncated header/catalog, or
	// malformed UTF-8/path.
	ErrBadFormat = errors.New("pfa: bad format")

	// ErrLimits covers a name longer than the field allows, a string
	// field overflow, or a catalog offset out of range.
	ErrLimits = errors.New("pfa: limits exceeded")

	// ErrTreeConflict is returned when a file is added where a directory
	// already exists, or vice versa.
	ErrTreeConflict = errors.New("pfa: tree conflict")

	// ErrNotFound is a non-error result of a lookup, kept as a sentinel
	// so callers can distinguish "absent" from an I/O or format failure.
	ErrNotFound = errors.New("pfa: not found")

	// ErrDecompressFailed is returned when LZ4 decompression fails.
	ErrDecompressFailed = errors.New("pfa: decompress failed")

	// ErrDecryptFailed is returned when AES-GCM authentication fails.
	ErrDecryptFailed = errors.New("pfa: decrypt failed")

	// ErrDecryptUnencrypted is returned when a key is supplied to read a
	// file whose flag byte has the encryption bit clear.
	ErrDecryptUnencrypted = errors.New("pfa: attempted to decrypt an unencrypted file")

	// ErrKeyMissing is returned when an encrypted file is read without a key.
	ErrKeyMissing = errors.New("pfa: key required but not supplied")

	// ErrECCFailed is returned when Reed-Solomon decoding cannot recover
	// a chunk (too many corrupted bytes for the configured parity level).
	ErrECCFailed = errors.New("pfa: error correction failed")

	// ErrPatchApply is returned when one or more diff hunks fail to apply.
	ErrPatchApply = errors.New("pfa: patch failed to apply")
)

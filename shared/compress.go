package shared

import (
	"encoding/binary"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressPrependSize frames data the way the spec requires: the
// decompressor must know the uncompressed length up front. The frame is
// "u64 uncompressed_len || u8 literal || payload": literal=1 means
// payload is the raw bytes verbatim (pierrec's block compressor declines
// to emit a block for very small or incompressible input), literal=0
// means payload is an LZ4 block decodable with lz4.UncompressBlock.
func lz4CompressPrependSize(data []byte) []byte {
	bound := lz4.CompressBlockBound(len(data))
	out := make([]byte, 9+bound)
	binary.LittleEndian.PutUint64(out[:8], uint64(len(data)))

	var c lz4.Compressor
	n, err := c.CompressBlock(data, out[9:])
	if err != nil || n == 0 {
		out[8] = 1
		out = append(out[:9], data...)
		return out
	}
	out[8] = 0
	return out[:9+n]
}

func lz4DecompressPrependedSize(frame []byte) ([]byte, error) {
	if len(frame) < 9 {
		return nil, fmt.Errorf("%w: lz4 frame too short", ErrDecompressFailed)
	}
	uncompressedLen := binary.LittleEndian.Uint64(frame[:8])
	literal := frame[8]
	payload := frame[9:]

	if literal == 1 {
		if uint64(len(payload)) != uncompressedLen {
			return nil, fmt.Errorf("%w: literal frame length mismatch", ErrDecompressFailed)
		}
		out := make([]byte, len(payload))
		copy(out, payload)
		return out, nil
	}

	out := make([]byte, uncompressedLen)
	n, err := lz4.UncompressBlock(payload, out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompressFailed, err)
	}
	return out[:n], nil
}

package shared

import (
	"encoding/binary"
	"fmt"

	"github.com/packedfilearchive/pfa/internal/rs"
)

const eccHeaderSymbols = 4 // fixed parity count for the 8-byte ecc-value header block

// eccEncode frames payload as a header block ("u64 ecc" RS-encoded with a
// fixed 4 parity symbols, 12 bytes total) followed by payload split into
// (255-ecc)-byte chunks, each independently RS-encoded with ecc parity
// bytes. ecc is derived from p, the fraction of each 255-byte block spent
// on parity.
func eccEncode(payload []byte, p float64) ([]byte, error) {
	ecc := int(p * 255)
	if ecc < 1 {
		ecc = 1
	}
	if ecc > 254 {
		ecc = 254
	}

	header := make([]byte, 8)
	binary.LittleEndian.PutUint64(header, uint64(ecc))
	out := rs.Encode(header, eccHeaderSymbols)

	block := 255 - ecc
	for i := 0; i < len(payload); i += block {
		end := i + block
		if end > len(payload) {
			end = len(payload)
		}
		out = append(out, rs.Encode(payload[i:end], ecc)...)
	}
	return out, nil
}

// eccDecode reverses eccEncode, correcting byte errors at unknown
// positions within the header block and each data chunk.
func eccDecode(frame []byte) ([]byte, error) {
	if len(frame) < eccHeaderSymbols+8 {
		return nil, fmt.Errorf("%w: ecc frame too short", ErrECCFailed)
	}
	header, err := rs.Decode(frame[:eccHeaderSymbols+8], eccHeaderSymbols)
	if err != nil {
		return nil, fmt.Errorf("%w: header block: %v", ErrECCFailed, err)
	}
	ecc := int(binary.LittleEndian.Uint64(header))
	if ecc < 1 || ecc > 254 {
		return nil, fmt.Errorf("%w: implausible ecc value %d", ErrECCFailed, ecc)
	}

	rest := frame[eccHeaderSymbols+8:]
	chunkTotal := 255 - ecc + ecc // == 255, spelled out to mirror the spec's "255-byte blocks"
	var out []byte
	for pos := 0; pos < len(rest); {
		n := chunkTotal
		if pos+n > len(rest) {
			n = len(rest) - pos
		}
		if n <= ecc {
			return nil, fmt.Errorf("%w: trailing chunk shorter than its parity", ErrECCFailed)
		}
		data, err := rs.Decode(rest[pos:pos+n], ecc)
		if err != nil {
			return nil, fmt.Errorf("%w: data chunk: %v", ErrECCFailed, err)
		}
		out = append(out, data...)
		pos += n
	}
	return out, nil
}

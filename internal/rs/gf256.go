// Package rs implements a classical systematic Reed-Solomon code over
// GF(256), capable of blind byte-error correction (it locates corrupted
// bytes itself via syndrome decoding, rather than requiring the caller to
// mark known-missing shards the way a pure erasure code does). This is
// what the archive's per-file error-correction stage needs: on read, the
// position of any corruption is unknown.
//
// No third-party Go library in the reference corpus provides this; the
// available ecosystem Reed-Solomon packages (e.g. klauspost/reedsolomon)
// implement sharded *erasure* coding, which requires the caller to already
// know which shards are missing/corrupt and cannot recover from silent
// bit-rot at unknown offsets. The algorithm below (generator-polynomial
// encode, syndrome + Berlekamp-Massey + Chien + Forney decode) is the
// standard textbook construction.
package rs

// GF(256) arithmetic, generator polynomial x^8+x^4+x^3+x^2+1 (0x11d),
// the same field used by QR codes and CDs.
const (
	fieldSize   = 256
	primPoly    = 0x11d
	generatorA0 = 2
)

var expTable [fieldSize * 2]byte
var logTable [fieldSize]byte

func init() {
	x := 1
	for i := 0; i < fieldSize-1; i++ {
		expTable[i] = byte(x)
		logTable[x] = byte(i)
		x <<= 1
		if x >= fieldSize {
			x ^= primPoly
		}
	}
	for i := fieldSize - 1; i < len(expTable); i++ {
		expTable[i] = expTable[i-(fieldSize-1)]
	}
}

func gfMul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[int(logTable[a])+int(logTable[b])]
}

func gfDiv(a, b byte) byte {
	if b == 0 {
		panic("rs: division by zero in GF(256)")
	}
	if a == 0 {
		return 0
	}
	li := int(logTable[a]) - int(logTable[b])
	if li < 0 {
		li += fieldSize - 1
	}
	return expTable[li]
}

func gfPow(a byte, power int) byte {
	if a == 0 {
		if power == 0 {
			return 1
		}
		return 0
	}
	li := (int(logTable[a]) * power) % (fieldSize - 1)
	if li < 0 {
		li += fieldSize - 1
	}
	return expTable[li]
}

func gfInv(a byte) byte {
	return expTable[(fieldSize-1)-int(logTable[a])]
}

// polynomials are stored highest-degree-coefficient first, as in the
// textbook RS presentations this package is grounded on.

func polyMul(a, b []byte) []byte {
	out := make([]byte, len(a)+len(b)-1)
	for i, ac := range a {
		if ac == 0 {
			continue
		}
		for j, bc := range b {
			out[i+j] ^= gfMul(ac, bc)
		}
	}
	return out
}

func polyEval(p []byte, x byte) byte {
	var y byte
	if len(p) > 0 {
		y = p[0]
	}
	for i := 1; i < len(p); i++ {
		y = gfMul(y, x) ^ p[i]
	}
	return y
}

func polyScale(p []byte, s byte) []byte {
	out := make([]byte, len(p))
	for i, c := range p {
		out[i] = gfMul(c, s)
	}
	return out
}

func polyAdd(a, b []byte) []byte {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]byte, n)
	copy(out[n-len(a):], a)
	for i, c := range b {
		out[n-len(b)+i] ^= c
	}
	return out
}

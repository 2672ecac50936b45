package rs

import "errors"

// MaxTotalLen is the largest codeword (data+parity) this GF(256) code
// can produce.
const MaxTotalLen = 255

// ErrUncorrectable is returned when a codeword carries more byte errors
// than its parity can correct.
var ErrUncorrectable = errors.New("rs: uncorrectable codeword")

func generatorPoly(nsym int) []byte {
	g := []byte{1}
	for i := 0; i < nsym; i++ {
		g = polyMul(g, []byte{1, gfPow(generatorA0, i)})
	}
	return g
}

// Encode appends nsym systematic Reed-Solomon parity bytes to data,
// returning a len(data)+nsym codeword. len(data)+nsym must be <= 255.
func Encode(data []byte, nsym int) []byte {
	if len(data)+nsym > MaxTotalLen {
		panic("rs: codeword would exceed 255 bytes")
	}
	gen := generatorPoly(nsym)
	out := make([]byte, len(data)+nsym)
	copy(out, data)
	for i := 0; i < len(data); i++ {
		coef := out[i]
		if coef == 0 {
			continue
		}
		for j, gc := range gen {
			out[i+j] ^= gfMul(gc, coef)
		}
	}
	copy(out, data)
	return out
}

func syndromes(msg []byte, nsym int) []byte {
	synd := make([]byte, nsym+1)
	for i := 0; i < nsym; i++ {
		synd[i+1] = polyEval(msg, gfPow(generatorA0, i))
	}
	return synd
}

func allZero(p []byte) bool {
	for _, b := range p {
		if b != 0 {
			return false
		}
	}
	return true
}

func errorLocator(synd []byte, nsym int) ([]byte, bool) {
	errLoc := []byte{1}
	oldLoc := []byte{1}

	for i := 0; i < nsym; i++ {
		k := i
		delta := synd[k+1]
		for j := 1; j < len(errLoc); j++ {
			delta ^= gfMul(errLoc[len(errLoc)-1-j], synd[k-j+1])
		}
		oldLoc = append(oldLoc, 0)
		if delta != 0 {
			if len(oldLoc) > len(errLoc) {
				newLoc := polyScale(oldLoc, delta)
				oldLoc = polyScale(errLoc, gfInv(delta))
				errLoc = newLoc
			}
			errLoc = polyAdd(errLoc, polyScale(oldLoc, delta))
		}
	}

	// drop leading zero coefficients
	start := 0
	for start < len(errLoc) && errLoc[start] == 0 {
		start++
	}
	errLoc = errLoc[start:]

	errs := len(errLoc) - 1
	if errs*2 > nsym {
		return nil, false
	}
	return errLoc, true
}

func findErrorPositions(errLoc []byte, n int) ([]int, bool) {
	errs := len(errLoc) - 1
	if errs == 0 {
		return nil, true
	}
	rev := make([]byte, len(errLoc))
	for i, c := range errLoc {
		rev[len(errLoc)-1-i] = c
	}

	var positions []int
	for i := 0; i < n; i++ {
		if polyEval(rev, gfPow(generatorA0, i)) == 0 {
			positions = append(positions, n-1-i)
		}
	}
	if len(positions) != errs {
		return nil, false
	}
	return positions, true
}

func errataLocator(coefPositions []int) []byte {
	loc := []byte{1}
	for _, p := range coefPositions {
		loc = polyMul(loc, polyAdd([]byte{1}, []byte{gfPow(generatorA0, p), 0}))
	}
	return loc
}

func polyDivRemainder(a, b []byte) []byte {
	out := append([]byte{}, a...)
	for i := 0; i <= len(out)-len(b); i++ {
		coef := out[i]
		if coef == 0 {
			continue
		}
		for j := 1; j < len(b); j++ {
			if b[j] != 0 {
				out[i+j] ^= gfMul(b[j], coef)
			}
		}
	}
	sep := len(out) - (len(b) - 1)
	if sep < 0 {
		sep = 0
	}
	return out[sep:]
}

func reversed(p []byte) []byte {
	out := make([]byte, len(p))
	for i, c := range p {
		out[len(p)-1-i] = c
	}
	return out
}

func correctErrata(msg, synd []byte, errPos []int) ([]byte, bool) {
	coefPos := make([]int, len(errPos))
	for i, p := range errPos {
		coefPos[i] = len(msg) - 1 - p
	}
	errLoc := errataLocator(coefPos)
	errEval := reversed(polyDivRemainder(polyMul(reversed(synd), errLoc), append([]byte{1}, make([]byte, len(errLoc))...)))

	x := make([]byte, len(coefPos))
	for i, p := range coefPos {
		l := 255 - p
		x[i] = gfPow(generatorA0, mod255(-l))
	}

	e := make([]byte, len(msg))
	for i, xi := range x {
		xiInv := gfInv(xi)
		var errLocPrime byte = 1
		for j, xj := range x {
			if j != i {
				errLocPrime = gfMul(errLocPrime, 1^gfMul(xiInv, xj))
			}
		}
		y := polyEval(reversed(errEval), xiInv)
		y = gfMul(xi, y)
		if errLocPrime == 0 {
			return nil, false
		}
		e[errPos[i]] = gfDiv(y, errLocPrime)
	}

	return polyAdd(msg, e), true
}

func mod255(x int) int {
	x %= 255
	if x < 0 {
		x += 255
	}
	return x
}

// Decode corrects up to floor(nsym/2) byte errors, at unknown positions,
// in a systematic codeword produced by Encode, and returns the original
// data bytes (codeword without its trailing nsym parity bytes).
func Decode(codeword []byte, nsym int) ([]byte, error) {
	if len(codeword) > MaxTotalLen || nsym > len(codeword) {
		return nil, ErrUncorrectable
	}
	msg := append([]byte{}, codeword...)

	synd := syndromes(msg, nsym)
	if allZero(synd) {
		return msg[:len(msg)-nsym], nil
	}

	errLoc, ok := errorLocator(synd, nsym)
	if !ok {
		return nil, ErrUncorrectable
	}
	errPos, ok := findErrorPositions(errLoc, len(msg))
	if !ok {
		return nil, ErrUncorrectable
	}
	if len(errPos) == 0 {
		return msg[:len(msg)-nsym], nil
	}

	corrected, ok := correctErrata(msg, synd, errPos)
	if !ok {
		return nil, ErrUncorrectable
	}
	if !allZero(syndromes(corrected, nsym)) {
		return nil, ErrUncorrectable
	}
	return corrected[:len(corrected)-nsym], nil
}

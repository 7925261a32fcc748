// Package lwe implements the LWE/GLWE ciphertext primitives that
// spec.md §6 treats as an externally supplied cryptographic library:
// secret-key sampling, encryption/decryption, the gadget-decomposed
// external product, blind rotation, key-switching, and sample
// extraction. The rest of this module (Encoding, Bootstrapper, Gate
// Evaluator, Engine) is written against this package's exported
// surface exactly as the teacher's tfhe package is written against its
// own math/* subpackages.
package lwe

import "github.com/cascadia-crypto/gatefhe/internal/fft"

// Torus is the ciphertext coefficient ring, fixed at Z/2^32Z to match
// the encode(v) = round(v*2^32/p) convention the Encoding layer relies
// on.
type Torus = uint32

// Poly is a polynomial in Z[X]/(X^N+1) represented by its N
// coefficients, low degree first.
type Poly []Torus

// NewPoly allocates a zeroed polynomial of the given degree.
func NewPoly(degree int) Poly {
	return make(Poly, degree)
}

// AddAssign computes p += q coefficient-wise.
func (p Poly) AddAssign(q Poly) {
	for i := range p {
		p[i] += q[i]
	}
}

// SubAssign computes p -= q coefficient-wise.
func (p Poly) SubAssign(q Poly) {
	for i := range p {
		p[i] -= q[i]
	}
}

// CopyFrom overwrites p with q's coefficients.
func (p Poly) CopyFrom(q Poly) {
	copy(p, q)
}

// Clear zeroes every coefficient.
func (p Poly) Clear() {
	for i := range p {
		p[i] = 0
	}
}

// RotateAssign multiplies p by X^shift in the negacyclic ring
// Z[X]/(X^N+1) in place, where shift may be negative. Coefficients
// that wrap around the top degree pick up a sign flip, which is the
// source of the "negacyclic wraparound" spec.md §4.2 describes for PBS
// output.
func (p Poly) RotateAssign(shift int) {
	n := len(p)
	shift = ((shift % (2 * n)) + 2*n) % (2 * n)
	if shift == 0 {
		return
	}

	out := make(Poly, n)
	for i := 0; i < n; i++ {
		j := (i + shift) % (2 * n)
		if j < n {
			out[j] += p[i]
		} else {
			out[j-n] -= p[i]
		}
	}
	copy(p, out)
}

// Rotate returns a new polynomial equal to p * X^shift, leaving p
// untouched.
func (p Poly) Rotate(shift int) Poly {
	out := make(Poly, len(p))
	copy(out, p)
	out.RotateAssign(shift)
	return out
}

// MulAddFourierAssign computes acc += a * b where a, b, and acc are
// all already in the Fourier domain (see fft.Plan.Forward), leaving
// the sum in acc. This is a thin re-export so callers in this package
// never need to import fft directly for the common case.
func MulAddFourierAssign(a, b, acc []complex128) {
	fft.MulAddFourierAssign(a, b, acc)
}

// Package fft implements the negacyclic Fourier transform used to
// evaluate polynomial products modulo X^N+1 in the blind rotation step
// of a Programmable Bootstrap. A Plan is parameterised by the ring
// degree N and is reused across every bootstrap call that shares that
// degree; building one allocates the twiddle tables once.
package fft

import (
	"math"
	"math/cmplx"

	"golang.org/x/sys/cpu"
)

// Plan holds the precomputed twiddle factors for a negacyclic transform
// of degree N. It has no mutable state and is safe for concurrent use
// by multiple goroutines, matching the read-only FFT plan the
// bootstrapper shares across engine contexts.
type Plan struct {
	degree int

	// twist[j] = exp(i*pi*j/N), used to fold a negacyclic convolution
	// of degree N into a standard cyclic DFT of length N.
	twist    []complex128
	twistInv []complex128

	// bitRev is the bit-reversal permutation table for the
	// radix-2 Cooley-Tukey butterfly network.
	bitRev []int

	// roots[s] holds the length-(1<<s) roots of unity used at
	// butterfly stage s, precomputed for every stage up to log2(N).
	roots [][]complex128

	useWideButterfly bool
}

// NewPlan builds a Plan for the given ring degree, which must be a
// power of two. Building a Plan is the expensive, one-time part of FFT
// setup; Forward/Backward calls only touch the precomputed tables.
func NewPlan(degree int) *Plan {
	if degree <= 0 || degree&(degree-1) != 0 {
		panic("fft: degree must be a power of two")
	}

	p := &Plan{degree: degree}
	p.twist = make([]complex128, degree)
	p.twistInv = make([]complex128, degree)
	for j := 0; j < degree; j++ {
		angle := math.Pi * float64(j) / float64(degree)
		p.twist[j] = cmplx.Rect(1, angle)
		p.twistInv[j] = cmplx.Rect(1, -angle)
	}

	logN := bitLen(degree) - 1
	p.bitRev = make([]int, degree)
	for i := range p.bitRev {
		p.bitRev[i] = reverseBits(i, logN)
	}

	p.roots = make([][]complex128, logN+1)
	for s := 1; s <= logN; s++ {
		m := 1 << s
		half := m / 2
		row := make([]complex128, half)
		for k := 0; k < half; k++ {
			row[k] = cmplx.Rect(1, -2*math.Pi*float64(k)/float64(m))
		}
		p.roots[s] = row
	}

	// x/sys/cpu feature detection selects between a scalar butterfly
	// loop and one unrolled by four, which the Go compiler can turn
	// into packed moves on AVX2-capable hosts. There is no hand-written
	// assembly here: this only changes loop shape, not semantics.
	p.useWideButterfly = cpu.X86.HasAVX2

	return p
}

// Degree returns the ring degree N this plan was built for.
func (p *Plan) Degree() int {
	return p.degree
}

// ScratchRequirement returns the length, in complex128 words, of one
// Fourier-domain polynomial for this plan's degree. Forward and
// Backward take no scratch argument; Backward allocates its own
// working buffer on every call.
func (p *Plan) ScratchRequirement() int {
	return p.degree
}

// Forward computes the negacyclic Fourier transform of a torus
// polynomial (coefficients reduced mod 2^32, reinterpreted as signed
// fixed point in [-0.5, 0.5)) and writes the result into out, which
// must have length Degree().
func (p *Plan) Forward(coeffs []uint32, out []complex128) {
	if len(coeffs) != p.degree || len(out) != p.degree {
		panic("fft: length mismatch")
	}
	for j, c := range coeffs {
		v := torusToFloat(c)
		out[p.bitRev[j]] = complex(v, 0) * p.twist[j]
	}
	p.transform(out, false)
}

// ForwardInt computes the negacyclic Fourier transform of a polynomial
// whose coefficients are small signed integers — gadget decomposition
// digits — rather than torus fractions. Forward always divides by 2^32
// before transforming; a digit polynomial already carries its true
// integer magnitude, so normalizing it the same way would scale the
// external product's result down by 2^32 a second time (the GGSW row
// it is multiplied against was already normalized once when it was
// built by Forward/ToFourier). Only one side of a Fourier-domain
// product may carry the torus normalization, and it is the row's.
func (p *Plan) ForwardInt(coeffs []uint32, out []complex128) {
	if len(coeffs) != p.degree || len(out) != p.degree {
		panic("fft: length mismatch")
	}
	for j, c := range coeffs {
		v := float64(int32(c))
		out[p.bitRev[j]] = complex(v, 0) * p.twist[j]
	}
	p.transform(out, false)
}

// Backward computes the inverse negacyclic transform, writing rounded
// torus coefficients into out, which must have length Degree().
func (p *Plan) Backward(freq []complex128, out []uint32) {
	if len(freq) != p.degree || len(out) != p.degree {
		panic("fft: length mismatch")
	}
	buf := make([]complex128, p.degree)
	for j, v := range freq {
		buf[p.bitRev[j]] = v
	}
	p.transform(buf, true)

	n := float64(p.degree)
	for j := range out {
		v := buf[j] * p.twistInv[j] / complex(n, 0)
		out[j] = floatToTorus(real(v))
	}
}

// MulAddFourierAssign computes acc += a * b in the Fourier domain and
// leaves the result in acc, where a, b, and acc are frequency-domain
// representations of the same length produced by Forward. This is the
// core operation of the external product used by blind rotation.
func MulAddFourierAssign(a, b, acc []complex128) {
	for i := range acc {
		acc[i] += a[i] * b[i]
	}
}

func (p *Plan) transform(buf []complex128, inverse bool) {
	logN := len(p.roots) - 1
	for s := 1; s <= logN; s++ {
		m := 1 << s
		half := m / 2
		row := p.roots[s]
		if p.useWideButterfly && half >= 4 {
			p.butterflyWide(buf, m, half, row, inverse)
		} else {
			p.butterflyScalar(buf, m, half, row, inverse)
		}
	}
}

func (p *Plan) butterflyScalar(buf []complex128, m, half int, row []complex128, inverse bool) {
	for start := 0; start < len(buf); start += m {
		for k := 0; k < half; k++ {
			w := row[k]
			if inverse {
				w = cmplx.Conj(w)
			}
			u := buf[start+k]
			v := buf[start+k+half] * w
			buf[start+k] = u + v
			buf[start+k+half] = u - v
		}
	}
}

// butterflyWide processes four lanes per iteration. On an AVX2 host the
// Go compiler's auto-vectorizer has a realistic shot at packing this
// loop; functionally it computes the same butterfly as the scalar path.
func (p *Plan) butterflyWide(buf []complex128, m, half int, row []complex128, inverse bool) {
	for start := 0; start < len(buf); start += m {
		k := 0
		for ; k+4 <= half; k += 4 {
			for l := 0; l < 4; l++ {
				w := row[k+l]
				if inverse {
					w = cmplx.Conj(w)
				}
				u := buf[start+k+l]
				v := buf[start+k+l+half] * w
				buf[start+k+l] = u + v
				buf[start+k+l+half] = u - v
			}
		}
		for ; k < half; k++ {
			w := row[k]
			if inverse {
				w = cmplx.Conj(w)
			}
			u := buf[start+k]
			v := buf[start+k+half] * w
			buf[start+k] = u + v
			buf[start+k+half] = u - v
		}
	}
}

func torusToFloat(c uint32) float64 {
	return float64(int32(c)) / 4294967296.0
}

func floatToTorus(v float64) uint32 {
	v -= math.Floor(v)
	if v >= 0.5 {
		v -= 1
	}
	return uint32(int64(math.Round(v * 4294967296.0)))
}

func bitLen(n int) int {
	l := 0
	for n > 1 {
		n >>= 1
		l++
	}
	return l + 1
}

func reverseBits(x, bits int) int {
	r := 0
	for i := 0; i < bits; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}

package lwe

import "github.com/cascadia-crypto/gatefhe/csprng"

// Ciphertext is an LWE ciphertext of length n+1: n mask coefficients
// followed by the body. Index n (the last element) is the body.
type Ciphertext []Torus

// NewCiphertext allocates a zeroed LWE ciphertext for a secret key of
// the given dimension.
func NewCiphertext(dimension int) Ciphertext {
	return make(Ciphertext, dimension+1)
}

// Dimension returns n, the LWE secret key length this ciphertext is
// encrypted under.
func (c Ciphertext) Dimension() int {
	return len(c) - 1
}

func (c Ciphertext) mask() []Torus { return c[:len(c)-1] }
func (c Ciphertext) body() Torus   { return c[len(c)-1] }

// AddAssign computes c += d coefficient-wise (mask and body alike).
// This is spec.md §4.3's lwe_ciphertext_add_assign.
func (c Ciphertext) AddAssign(d Ciphertext) {
	for i := range c {
		c[i] += d[i]
	}
}

// SubAssign computes c -= d coefficient-wise (mask and body alike),
// used by key-switching to subtract off each decomposed row.
func (c Ciphertext) SubAssign(d Ciphertext) {
	for i := range c {
		c[i] -= d[i]
	}
}

// CleartextMulAssign scales every coefficient of c by a small integer
// scalar, exactly as spec.md §4.3 requires for the pin-weighted sum
// (lwe_ciphertext_cleartext_mul).
func (c Ciphertext) CleartextMulAssign(scalar Torus) {
	for i := range c {
		c[i] *= scalar
	}
}

// PlaintextAddAssign adds an already-encoded plaintext constant to the
// ciphertext's body, used to fold in Trivial(true) contributions
// (spec.md §4.3 step 3).
func (c Ciphertext) PlaintextAddAssign(plaintext Torus) {
	c[len(c)-1] += plaintext
}

// Secret is a binary LWE secret key of length n.
type Secret []Torus

// GenSecret samples a uniformly random binary secret of the given
// length.
func GenSecret(dimension int, sampler *csprng.BinarySampler) Secret {
	s := make(Secret, dimension)
	for i := range s {
		s[i] = sampler.Bit()
	}
	return s
}

// Encrypt produces a fresh LWE encryption of an already-encoded
// plaintext under secret sk, with Gaussian noise at the given
// normalized standard deviation.
func Encrypt(sk Secret, plaintext Torus, noise *csprng.GaussianSampler, uniform *csprng.UniformSampler) Ciphertext {
	ct := NewCiphertext(len(sk))
	mask := ct.mask()
	var dot Torus
	for i := range mask {
		mask[i] = uniform.Uint32()
		dot += mask[i] * sk[i]
	}
	ct[len(ct)-1] = plaintext + dot + noise.SampleTorus32()
	return ct
}

// Decrypt removes the secret-dependent mask and returns the noisy
// plaintext (still to be rounded/decoded by the caller).
func Decrypt(sk Secret, ct Ciphertext) Torus {
	var dot Torus
	mask := ct.mask()
	for i := range mask {
		dot += mask[i] * sk[i]
	}
	return ct.body() - dot
}

// GLWECiphertext is a GLWE ciphertext of rank k: k+1 polynomials, mask
// first, body last.
type GLWECiphertext []Poly

// NewGLWECiphertext allocates a zeroed GLWE ciphertext of the given
// rank and polynomial degree.
func NewGLWECiphertext(rank, degree int) GLWECiphertext {
	g := make(GLWECiphertext, rank+1)
	for i := range g {
		g[i] = NewPoly(degree)
	}
	return g
}

// Rank returns k, the GLWE secret key rank.
func (g GLWECiphertext) Rank() int { return len(g) - 1 }

// Degree returns N, the polynomial degree.
func (g GLWECiphertext) Degree() int { return len(g[0]) }

func (g GLWECiphertext) mask() []Poly { return g[:len(g)-1] }
func (g GLWECiphertext) body() Poly   { return g[len(g)-1] }

// AddAssign computes g += h coefficient-wise across every polynomial.
func (g GLWECiphertext) AddAssign(h GLWECiphertext) {
	for i := range g {
		g[i].AddAssign(h[i])
	}
}

// SubAssign computes g -= h coefficient-wise across every polynomial.
func (g GLWECiphertext) SubAssign(h GLWECiphertext) {
	for i := range g {
		g[i].SubAssign(h[i])
	}
}

// Clone returns a deep copy of g.
func (g GLWECiphertext) Clone() GLWECiphertext {
	out := make(GLWECiphertext, len(g))
	for i := range g {
		out[i] = make(Poly, len(g[i]))
		copy(out[i], g[i])
	}
	return out
}

// TrivialGLWE builds a trivial (zero-mask) GLWE encryption of body,
// used to seed the blind-rotation accumulator with the rotated test
// vector.
func TrivialGLWE(rank int, body Poly) GLWECiphertext {
	g := make(GLWECiphertext, rank+1)
	for i := 0; i < rank; i++ {
		g[i] = NewPoly(len(body))
	}
	g[rank] = make(Poly, len(body))
	copy(g[rank], body)
	return g
}

// GLWESecret is a binary GLWE secret key: k binary polynomials of
// degree N.
type GLWESecret []Poly

// GenGLWESecret samples a uniformly random binary GLWE secret of the
// given rank and polynomial degree.
func GenGLWESecret(rank, degree int, sampler *csprng.BinarySampler) GLWESecret {
	s := make(GLWESecret, rank)
	for i := range s {
		s[i] = NewPoly(degree)
		for j := range s[i] {
			s[i][j] = sampler.Bit()
		}
	}
	return s
}

// AsLWESecret flattens a GLWE secret into the length-kN "big" LWE
// secret spec.md §3 describes ("the GLWE secret interpreted as
// length-kN LWE").
func (s GLWESecret) AsLWESecret() Secret {
	rank := len(s)
	degree := len(s[0])
	out := make(Secret, rank*degree)
	for i, poly := range s {
		copy(out[i*degree:], poly)
	}
	return out
}

// SampleExtract extracts the LWE ciphertext encrypting the coefficient
// of X^0 of g's body under the flattened GLWE secret, i.e. the
// standard GLWE-to-LWE sample extraction used right after blind
// rotation and before key-switching.
func SampleExtract(g GLWECiphertext) Ciphertext {
	rank := g.Rank()
	degree := g.Degree()
	out := NewCiphertext(rank * degree)

	for r := 0; r < rank; r++ {
		mask := g[r]
		dst := out[r*degree : (r+1)*degree]
		dst[0] = mask[0]
		for j := 1; j < degree; j++ {
			dst[j] = -mask[degree-j]
		}
	}
	out[len(out)-1] = g.body()[0]
	return out
}

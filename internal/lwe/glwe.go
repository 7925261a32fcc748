package lwe

import "github.com/cascadia-crypto/gatefhe/csprng"

// mulNegacyclic computes a*b in Z[X]/(X^N+1) by schoolbook
// multiplication. It is only ever called during key generation
// (encrypting bootstrap-key and key-switch-key rows), where the
// per-call cost of an O(N^2) multiply is dwarfed by RNG sampling; the
// hot path (blind rotation's external product) uses the Fourier
// transform in ggsw.go instead.
func mulNegacyclic(a, b Poly) Poly {
	n := len(a)
	out := NewPoly(n)
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		for j, bj := range b {
			k := i + j
			if k < n {
				out[k] += ai * bj
			} else {
				out[k-n] -= ai * bj
			}
		}
	}
	return out
}

// GLWEEncrypt produces a fresh GLWE encryption of the polynomial
// message under sk, with Gaussian noise added to every body
// coefficient.
func GLWEEncrypt(sk GLWESecret, message Poly, noise *csprng.GaussianSampler, uniform *csprng.UniformSampler) GLWECiphertext {
	rank := len(sk)
	degree := len(message)
	g := NewGLWECiphertext(rank, degree)

	for i := 0; i < rank; i++ {
		for c := range g[i] {
			g[i][c] = uniform.Uint32()
		}
	}

	body := g[rank]
	for i := 0; i < rank; i++ {
		body.AddAssign(mulNegacyclic(g[i], sk[i]))
	}
	body.AddAssign(message)
	for c := range body {
		body[c] += noise.SampleTorus32()
	}
	return g
}

// GLWEDecrypt removes the secret-dependent mask, returning the noisy
// message polynomial.
func GLWEDecrypt(sk GLWESecret, g GLWECiphertext) Poly {
	degree := g.Degree()
	out := NewPoly(degree)
	copy(out, g.body())
	for i, s := range sk {
		out.SubAssign(mulNegacyclic(g[i], s))
	}
	return out
}

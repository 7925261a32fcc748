package lwe

import (
	"github.com/cascadia-crypto/gatefhe/csprng"
	"github.com/cascadia-crypto/gatefhe/internal/fft"
)

// GGSW is a GGSW encryption of a single bit, used as one row of a
// bootstrap key. It holds (rank+1) gadget rows; row j is a Level-deep
// GLev ciphertext (a sequence of GLWE ciphertexts, one per
// decomposition level) encrypting -s_j*m*BaseQ(l) for j < rank and
// m*BaseQ(l) for j == rank, where s is the GLWE secret and m the
// encrypted bit.
type GGSW [][]GLWECiphertext

// GenGGSW encrypts bit m under glweSecret at the given gadget
// parameters.
func GenGGSW(m Torus, glweSecret GLWESecret, degree int, params GadgetParams, noise *csprng.GaussianSampler, uniform *csprng.UniformSampler) GGSW {
	rank := len(glweSecret)
	g := make(GGSW, rank+1)

	for j := 0; j < rank; j++ {
		g[j] = make([]GLWECiphertext, params.Level)
		for l := 0; l < params.Level; l++ {
			msg := NewPoly(degree)
			msg.AddAssign(glweSecret[j])
			msg.CleartextMulAssign(m) // 0 if bit is 0
			msg.CleartextMulAssign(^Torus(0))
			msg.CleartextMulAssign(params.BaseQ(l))
			g[j][l] = GLWEEncrypt(glweSecret, msg, noise, uniform)
		}
	}

	g[rank] = make([]GLWECiphertext, params.Level)
	for l := 0; l < params.Level; l++ {
		msg := NewPoly(degree)
		msg[0] = m * params.BaseQ(l)
		g[rank][l] = GLWEEncrypt(glweSecret, msg, noise, uniform)
	}

	return g
}

// CleartextMulAssign scales every coefficient of a polynomial by a
// small torus-valued scalar in place.
func (p Poly) CleartextMulAssign(scalar Torus) {
	for i := range p {
		p[i] *= scalar
	}
}

// FourierGGSW is a GGSW ciphertext with every GLWE row pre-transformed
// to the Fourier domain, ready for repeated external products against
// the same bootstrap key row.
type FourierGGSW [][][]complex128 // [component j][level l][glwe component c]

// ToFourier converts a standard GGSW ciphertext into the Fourier
// domain using plan, matching spec.md §6's
// convert_standard_lwe_bootstrap_key_to_fourier.
func (g GGSW) ToFourier(plan *fft.Plan) FourierGGSW {
	out := make(FourierGGSW, len(g))
	for j, rows := range g {
		out[j] = make([][]complex128, len(rows))
		for l, glwe := range rows {
			flat := make([][]complex128, len(glwe))
			for c, poly := range glwe {
				f := make([]complex128, plan.Degree())
				plan.Forward(poly, f)
				flat[c] = f
			}
			out[j][l] = flattenFourierRow(flat)
		}
	}
	return out
}

// flattenFourierRow concatenates per-component Fourier polynomials
// into one slice indexed component-major, so ExternalProduct can walk
// it without holding onto a [][]complex128.
func flattenFourierRow(comps [][]complex128) []complex128 {
	degree := len(comps[0])
	out := make([]complex128, len(comps)*degree)
	for c, f := range comps {
		copy(out[c*degree:(c+1)*degree], f)
	}
	return out
}

// ExternalProduct computes ggsw (x) glwe, the core operation a blind
// rotation step uses to conditionally rotate the accumulator.
func ExternalProduct(ggsw FourierGGSW, glwe GLWECiphertext, plan *fft.Plan, params GadgetParams) GLWECiphertext {
	rank := glwe.Rank()
	degree := glwe.Degree()

	accFourier := make([][]complex128, rank+1)
	for c := range accFourier {
		accFourier[c] = make([]complex128, degree)
	}

	scratch := make([]complex128, degree)
	for j := 0; j < rank+1; j++ {
		digits := DecomposePoly(glwe[j], params)
		for l, digit := range digits {
			plan.ForwardInt(digit, scratch)
			row := ggsw[j][l]
			for c := 0; c < rank+1; c++ {
				fft.MulAddFourierAssign(scratch, row[c*degree:(c+1)*degree], accFourier[c])
			}
		}
	}

	out := NewGLWECiphertext(rank, degree)
	for c := range out {
		plan.Backward(accFourier[c], out[c])
	}
	return out
}

// CMux selects between glweIfZero and glweIfOne based on the bit
// encrypted by ggsw, homomorphically: result = glweIfZero +
// ggsw (x) (glweIfOne - glweIfZero).
func CMux(ggsw FourierGGSW, glweIfZero, glweIfOne GLWECiphertext, plan *fft.Plan, params GadgetParams) GLWECiphertext {
	diff := glweIfOne.Clone()
	diff.SubAssign(glweIfZero)

	product := ExternalProduct(ggsw, diff, plan, params)
	out := glweIfZero.Clone()
	out.AddAssign(product)
	return out
}

package lwe

import "github.com/cascadia-crypto/gatefhe/internal/fft"

// BootstrapKey is the Fourier-domain bootstrap key: one FourierGGSW
// row per bit of the input LWE secret, encrypted under the GLWE
// secret. It is read-only after construction and safe to share across
// engine contexts, matching spec.md §3's description of the
// Fourier-domain bootstrap key inside ServerKey.
type BootstrapKey struct {
	Rows   []FourierGGSW
	Rank   int
	Degree int
	Params GadgetParams
}

// modSwitch rounds a torus value into [0, 2N), the index space of the
// blind-rotation accumulator.
func modSwitch(x Torus, logDegree int) int {
	shift := uint(32 - (logDegree + 1))
	rounded := (uint64(x) + (uint64(1) << (shift - 1))) >> shift
	mask := (1 << uint(logDegree+1)) - 1
	return int(rounded) & mask
}

// BlindRotate runs the standard CMux-chain blind rotation: it rotates
// a trivial encryption of testVector by the input ciphertext's body,
// then folds in one conditional rotation per mask coefficient using
// the corresponding bootstrap-key row. The result is a GLWE
// ciphertext whose body, at coefficient 0, holds the looked-up value
// — sample extraction (SampleExtract) turns that into an LWE
// ciphertext.
func BlindRotate(lweIn Ciphertext, bsk *BootstrapKey, testVector Poly, plan *fft.Plan) GLWECiphertext {
	logDegree := bitLen(bsk.Degree) - 1
	bBar := modSwitch(lweIn[len(lweIn)-1], logDegree)

	acc := TrivialGLWE(bsk.Rank, testVector.Rotate(-bBar))

	mask := lweIn[:len(lweIn)-1]
	for i, a := range mask {
		aBar := modSwitch(a, logDegree)
		if aBar == 0 {
			continue
		}
		rotated := acc.Clone()
		for c := range rotated {
			rotated[c].RotateAssign(aBar)
		}
		acc = CMux(bsk.Rows[i], acc, rotated, plan, bsk.Params)
	}

	return acc
}

func bitLen(n int) int {
	l := 0
	for n > 1 {
		n >>= 1
		l++
	}
	return l + 1
}

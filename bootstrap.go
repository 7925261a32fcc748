package gatefhe

import "github.com/cascadia-crypto/gatefhe/internal/lwe"

// Bootstrap runs one Programmable Bootstrap: build the test vector
// from enc, blind-rotate ct under sk's bootstrap key, sample-extract
// the result, and key-switch it back down to the input LWE dimension,
// spec.md §4.4. The FFT plan used inside blind rotation is the one
// memoised per polynomial degree by getFFTPlan, so repeated calls at
// the same Parameters pay the FFT setup cost once.
//
// A Trivial input never touches the bootstrap key at all: its
// plaintext is looked up directly against enc's accumulator and
// re-wrapped as a fresh Trivial result, matching spec.md §4.4's note
// that bootstrapping a Trivial value is a pure function evaluation.
//
// arena, if non-nil, is grown to fit sk's Parameters, and the rotated
// accumulator, the sample-extracted ciphertext and the key-switched
// ciphertext are copied into its three views. BlindRotate,
// SampleExtract and KeySwitch still allocate their own outputs on
// every call, with or without an arena. Passing nil is always correct.
//
// A PolyDegree smaller than 2p is reported as a *ParameterError.
func Bootstrap(ct Ciphertext, sk *ServerKey, enc *Encoding, arena *Arena) (Ciphertext, error) {
	params := sk.params

	if ct.IsTrivial() {
		return bootstrapTrivial(ct, enc), nil
	}

	if err := validateEncodingShape(params.PolyDegree(), enc.P()); err != nil {
		return Ciphertext{}, err
	}

	if arena != nil {
		arena.grow(params)
	}

	plan := getFFTPlan(params.PolyDegree())
	testVector := enc.BuildTestVector(params.PolyDegree())

	rotated := lwe.BlindRotate(ct.LWE(), sk.bsk, testVector, plan)
	if rotated.Rank() != params.GLWERank() || rotated.Degree() != params.PolyDegree() {
		return Ciphertext{}, &InternalError{Reason: "blind rotation returned a mis-shaped accumulator"}
	}

	var extracted lwe.Ciphertext
	if arena != nil {
		for i := range arena.accumulator {
			arena.accumulator[i].CopyFrom(rotated[i])
		}
		copy(arena.postPBS, lwe.SampleExtract(arena.accumulator))
		extracted = arena.postPBS
	} else {
		extracted = lwe.SampleExtract(rotated)
	}

	var result lwe.Ciphertext
	if arena != nil {
		copy(arena.postKS, lwe.KeySwitch(sk.ksk, extracted))
		result = arena.postKS
	} else {
		result = lwe.KeySwitch(sk.ksk, extracted)
	}

	out := make(lwe.Ciphertext, len(result))
	copy(out, result)
	return Encrypted(out), nil
}

// bootstrapTrivial evaluates enc's output partition directly against a
// known plaintext value, with no cryptographic operation involved.
func bootstrapTrivial(ct Ciphertext, enc *Encoding) Ciphertext {
	v := uint32(0)
	if ct.TrivialValue() {
		v = 1 % uint32(enc.P())
	}
	for _, z := range enc.outputEncodings0 {
		if z == v {
			return Trivial(false)
		}
	}
	return Trivial(true)
}

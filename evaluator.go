package gatefhe

import (
	"fmt"

	"github.com/cascadia-crypto/gatefhe/internal/lwe"
)

// EvaluateGate computes the gate enc describes over inputs, spec.md
// §4.3: a scaled sum of the inputs under their reverse pin pairing,
// followed by one bootstrap. Each input is either a fresh encryption
// of 0 or 1 in the canonical p-encoding, or a Trivial boolean; the
// order of inputs corresponds to pin 0 first, and pin i pairs with
// encoding.InputMapping1(pin_count - 1 - i).
//
// When every input is Trivial, EvaluateGate still runs the bootstrap
// rather than short-circuiting in cleartext, matching spec.md §4.3's
// reference behaviour of keeping timing uniform across call shapes.
func EvaluateGate(sk *ServerKey, enc *Encoding, inputs []Ciphertext, arena *Arena) (Ciphertext, error) {
	if len(inputs) != enc.PinCount() {
		return Ciphertext{}, &ParameterError{
			Field:  "inputs",
			Reason: fmt.Sprintf("got %d inputs, encoding wants pin_count=%d", len(inputs), enc.PinCount()),
		}
	}

	p := uint32(enc.P())
	sum := lwe.NewCiphertext(sk.params.LWEDimension())

	m := enc.PinCount()
	for i, in := range inputs {
		scalar := enc.InputMapping1(m - 1 - i)
		switch {
		case !in.IsTrivial():
			scaled := make(lwe.Ciphertext, len(in.LWE()))
			copy(scaled, in.LWE())
			scaled.CleartextMulAssign(lwe.Torus(scalar))
			sum.AddAssign(scaled)
		case in.TrivialValue():
			sum.PlaintextAddAssign(Encode(scalar%p, p))
		}
	}

	return Bootstrap(Encrypted(sum), sk, enc, arena)
}

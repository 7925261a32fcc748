package gatefhe

import (
	"encoding/json"
	"fmt"

	"github.com/cascadia-crypto/gatefhe/internal/lwe"
)

// Encode lifts a p-ary value v in [0, p) to the native torus modulus
// 2^32, spec.md §4.2's encode(v) = round(v * 2^32 / p).
func Encode(v, p uint32) lwe.Torus {
	return lwe.Torus((uint64(v)<<32 + uint64(p)/2) / uint64(p))
}

// Decode inverts Encode approximately, rounding a noisy torus value
// back down to [0, p).
func Decode(plaintext lwe.Torus, p uint32) uint32 {
	return uint32((uint64(plaintext)*uint64(p) + (1 << 31)) >> 32 % uint64(p))
}

// Encoding describes one gate (spec.md §3): the plaintext modulus p,
// the number of input pins, the scalar each pin contributes when its
// value is 1, and the partition of Z_p into the two output bits. It is
// immutable once constructed.
type Encoding struct {
	p                int
	pinCount         int
	inputMappings1   []uint32
	outputEncodings0 []uint32
	outputEncodings1 []uint32
	ttValue          [2]uint64 // 128-bit integrity check, low/high words

	out0Set map[uint32]bool
}

// NewEncoding validates and constructs an Encoding. It returns
// ParameterError for malformed shapes (p < 2, pin_count mismatch) and
// EncodingError when the output partition does not cover Z_p exactly
// once, per spec.md §7.
func NewEncoding(p int, pinCount int, inputMappings1, outputEncodings0, outputEncodings1 []uint32, ttValue [2]uint64) (*Encoding, error) {
	if p < 2 {
		return nil, &ParameterError{Field: "p", Reason: "modulus smaller than two"}
	}
	if len(inputMappings1) != pinCount {
		return nil, &ParameterError{Field: "input_mappings_1", Reason: "length does not match pin_count"}
	}
	if len(outputEncodings0)+len(outputEncodings1) == 0 {
		return nil, &ParameterError{Field: "output_encodings", Reason: "empty output partition"}
	}

	seen := make(map[uint32]bool, p)
	out0 := make(map[uint32]bool, len(outputEncodings0))
	for _, v := range outputEncodings0 {
		if v >= uint32(p) {
			return nil, &EncodingError{Reason: fmt.Sprintf("output_encodings_0 value %d out of range [0, %d)", v, p)}
		}
		if seen[v] {
			return nil, &EncodingError{Reason: fmt.Sprintf("value %d appears more than once in output_encodings_0", v)}
		}
		seen[v] = true
		out0[v] = true
	}
	for _, v := range outputEncodings1 {
		if v >= uint32(p) {
			return nil, &EncodingError{Reason: fmt.Sprintf("output_encodings_1 value %d out of range [0, %d)", v, p)}
		}
		if seen[v] {
			return nil, &EncodingError{Reason: fmt.Sprintf("value %d appears in both output partitions", v)}
		}
		seen[v] = true
	}
	if len(seen) != p {
		return nil, &EncodingError{Reason: "output_encodings_0 union output_encodings_1 does not cover [0, p)"}
	}

	for _, s := range inputMappings1 {
		if s >= uint32(p) {
			return nil, &ParameterError{Field: "input_mappings_1", Reason: "scalar out of range [0, p)"}
		}
	}

	return &Encoding{
		p:                p,
		pinCount:         pinCount,
		inputMappings1:   append([]uint32(nil), inputMappings1...),
		outputEncodings0: append([]uint32(nil), outputEncodings0...),
		outputEncodings1: append([]uint32(nil), outputEncodings1...),
		ttValue:          ttValue,
		out0Set:          out0,
	}, nil
}

// P returns the plaintext modulus.
func (e *Encoding) P() int { return e.p }

// PinCount returns the number of input pins.
func (e *Encoding) PinCount() int { return e.pinCount }

// InputMapping1 returns input_mappings_1[i]. Under the reverse pin
// pairing EvaluateGate uses, this is the scalar that pin
// PinCount()-1-i contributes when its plaintext value is 1.
func (e *Encoding) InputMapping1(i int) uint32 { return e.inputMappings1[i] }

// CreateAccumulator returns the length-(p+1) accumulator array spec.md
// §4.2 defines. Its slots are interleaved: for i in [0, (p+1)/2),
// acc[2i] is 0 if the p-ary value i is in output_encodings_0, else 1,
// and acc[2i+1] is 0 if the value (i + (p+1)/2) mod p is in
// output_encodings_0, else p-1, so that the sign flip of the negacyclic
// wraparound turns p-1 back into 1. For odd p the last slot, acc[p],
// belongs to the value 0 and covers the second half of window 0. The
// formula is reproduced exactly from the rule in §4.2, which in
// turn matches tfhe-rs's gadget::Encoding::create_accumulator bit for
// bit.
func (e *Encoding) CreateAccumulator() []uint32 {
	p := e.p
	acc := make([]uint32, p+1)

	half := (p + 1) / 2
	for i := 0; i < half; i++ {
		alpha := i
		if e.out0Set[uint32(alpha)] {
			acc[2*i] = 0
		} else {
			acc[2*i] = 1
		}

		beta := (alpha + (p+1)/2) % p
		if e.out0Set[uint32(beta)] {
			acc[2*i+1] = uint32(p) % uint32(p) // (p - map_to_0) % p, map_to_0 = 0
		} else {
			acc[2*i+1] = (uint32(p) - 1) % uint32(p) // (p - map_to_1) % p, map_to_1 = 1
		}
	}

	return acc
}

// windowBoundary returns round(j*N / (2p)) for j in [0, 2p], a
// strictly increasing integer sequence from 0 to N. Using a rounded
// proportional boundary instead of a fixed window width w = N/p lets
// BuildTestVector tile [0, N) exactly for any (p, N) pair, including
// the odd-prime p values (3, 17, 23) spec.md §8's end-to-end scenarios
// use with a power-of-two N: a power of two is divisible by 2p only
// when p itself is a power of two, so the "hard precondition N ≡ 0
// (mod 2p)" spec.md §4.2 states cannot hold for those p; this rounding
// generalization reduces to the exact fixed-width tiling whenever 2p
// does divide N, and otherwise spreads the N mod 2p leftover
// coefficients across the windows, making some windows one
// coefficient wider than others.
func windowBoundary(j, p, degree int) int {
	return (j*degree + p) / (2 * p)
}

// BuildTestVector expands an accumulator into the degree-N polynomial
// fed to blind rotation, per spec.md §4.2.
func (e *Encoding) BuildTestVector(degree int) lwe.Poly {
	if err := validateEncodingShape(degree, e.p); err != nil {
		panic(err)
	}

	acc := e.CreateAccumulator()
	out := lwe.NewPoly(degree)
	p := e.p

	fill := func(lo, hi int, value uint32) {
		enc := Encode(value, uint32(p))
		for j := lo; j < hi; j++ {
			out[j] = enc
		}
	}

	fill(windowBoundary(0, p, degree), windowBoundary(1, p, degree), acc[0])
	for i := 1; i < p; i++ {
		fill(windowBoundary(2*i-1, p, degree), windowBoundary(2*i+1, p, degree), acc[i])
	}
	fill(windowBoundary(2*p-1, p, degree), windowBoundary(2*p, p, degree), acc[p])

	return out
}

// encodingJSON is the wire format spec.md §6 mandates.
type encodingJSON struct {
	TTValue          string   `json:"tt_value"`
	PinCount         uint32   `json:"pin_count"`
	InputMappings1   []uint32 `json:"input_mappings_1"`
	OutputEncodings0 []uint32 `json:"output_encodings_0"`
	OutputEncodings1 []uint32 `json:"output_encodings_1"`
	P                uint32   `json:"p"`
}

// MarshalJSON implements json.Marshaler using the field layout spec.md
// §6 specifies: tt_value as a decimal-encoded u128 (here two uint64
// words combined), pin_count, the two mapping/partition arrays, and p.
func (e *Encoding) MarshalJSON() ([]byte, error) {
	tt := combineTT(e.ttValue)
	return json.Marshal(encodingJSON{
		TTValue:          tt.String(),
		PinCount:         uint32(e.pinCount),
		InputMappings1:   e.inputMappings1,
		OutputEncodings0: e.outputEncodings0,
		OutputEncodings1: e.outputEncodings1,
		P:                uint32(e.p),
	})
}

// UnmarshalJSON implements json.Unmarshaler and revalidates the
// decoded Encoding exactly as NewEncoding does.
func (e *Encoding) UnmarshalJSON(data []byte) error {
	var wire encodingJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	tt, err := splitTT(wire.TTValue)
	if err != nil {
		return &ParameterError{Field: "tt_value", Reason: err.Error()}
	}

	built, err := NewEncoding(int(wire.P), int(wire.PinCount), wire.InputMappings1, wire.OutputEncodings0, wire.OutputEncodings1, tt)
	if err != nil {
		return err
	}
	*e = *built
	return nil
}

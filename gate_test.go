package gatefhe_test

import (
	"testing"

	"github.com/cascadia-crypto/gatefhe"
	"github.com/stretchr/testify/require"
)

// gateFixture pairs an Encoding with a reference function computing
// its truth table directly in Z_p, so each scenario below checks the
// engine's output against an independent cleartext computation rather
// than against itself.
type gateFixture struct {
	enc     *gatefhe.Encoding
	inputs1 []uint32 // input_mappings_1 as stored; pin i's scalar is inputs1[len(inputs1)-1-i]
	out0    map[uint32]bool
}

func newAND(t *testing.T) gateFixture {
	enc := andEncoding(t)
	return gateFixture{enc: enc, inputs1: []uint32{1, 1}, out0: map[uint32]bool{0: true, 1: true}}
}

func newFiveInputGate(t *testing.T) gateFixture {
	in1 := []uint32{1, 2, 3, 7, 14}
	out0 := evenUpTo(17)
	out1 := oddUpTo(17)
	enc := mustEncoding(t, 17, 5, in1, out0, out1, [2]uint64{0xB9F4F5BA, 0})
	set := make(map[uint32]bool, len(out0))
	for _, v := range out0 {
		set[v] = true
	}
	return gateFixture{enc: enc, inputs1: in1, out0: set}
}

func newSixInputGate(t *testing.T) gateFixture {
	in1 := []uint32{1, 3, 20, 5, 18, 10}
	out0 := evenUpTo(23)
	out1 := oddUpTo(23)
	enc := mustEncoding(t, 23, 6, in1, out0, out1, [2]uint64{3120627642, 0})
	set := make(map[uint32]bool, len(out0))
	for _, v := range out0 {
		set[v] = true
	}
	return gateFixture{enc: enc, inputs1: in1, out0: set}
}

// refOutput computes the plaintext output bit for bits[i] at pin i,
// following spec.md §4.3's reverse pairing: pin i pairs with
// input_mappings_1[pin_count-1-i].
func (g gateFixture) refOutput(bits []uint32) bool {
	m := len(g.inputs1)
	var sum uint32
	for i, b := range bits {
		if b != 0 {
			sum += g.inputs1[m-1-i]
		}
	}
	sum %= uint32(g.enc.P())
	return !g.out0[sum]
}

func evaluateBits(t *testing.T, sk *gatefhe.ServerKey, ck *gatefhe.ClientKey, g gateFixture, bits []uint32) uint32 {
	t.Helper()
	p := uint32(g.enc.P())
	inputs := make([]gatefhe.Ciphertext, len(bits))
	for i, b := range bits {
		inputs[i] = ck.Encrypt(b%2, p, gaussianFor(ck.Parameters()), uniformFor())
	}
	out, err := gatefhe.EvaluateGate(sk, g.enc, inputs, nil)
	require.NoError(t, err)
	return ck.Decrypt(out, p)
}

func TestANDGateAllCombinations(t *testing.T) {
	ck, sk := genTestKeys(t)
	g := newAND(t)

	for a := uint32(0); a < 2; a++ {
		for b := uint32(0); b < 2; b++ {
			got := evaluateBits(t, sk, ck, g, []uint32{a, b})
			want := uint32(0)
			if a == 1 && b == 1 {
				want = 1
			}
			require.Equalf(t, want, got, "AND(%d,%d)", a, b)
		}
	}
}

func TestFiveInputGateAllRows(t *testing.T) {
	ck, sk := genTestKeys(t)
	g := newFiveInputGate(t)

	for row := 0; row < 32; row++ {
		bits := make([]uint32, 5)
		for i := range bits {
			bits[i] = uint32((row >> i) & 1)
		}
		got := evaluateBits(t, sk, ck, g, bits) != 0
		want := g.refOutput(bits)
		require.Equalf(t, want, got, "row %d bits=%v", row, bits)
	}
}

func TestSixInputGateAllRows(t *testing.T) {
	if testing.Short() {
		t.Skip("64-row exhaustive PBS sweep skipped in -short mode")
	}
	ck, sk := genTestKeys(t)
	g := newSixInputGate(t)

	for row := 0; row < 64; row++ {
		bits := make([]uint32, 6)
		for i := range bits {
			bits[i] = uint32((row >> i) & 1)
		}
		got := evaluateBits(t, sk, ck, g, bits) != 0
		want := g.refOutput(bits)
		require.Equalf(t, want, got, "row %d bits=%v", row, bits)
	}
}

// TestTrivialEncryptedParity covers spec.md §8's "replacing any input
// Encrypted(c_i) with Trivial(b_i) yields the same output plaintext."
func TestTrivialEncryptedParity(t *testing.T) {
	ck, sk := genTestKeys(t)
	g := newAND(t)

	encA := ck.Encrypt(1, 3, gaussianFor(ck.Parameters()), uniformFor())
	mixed := []gatefhe.Ciphertext{encA, gatefhe.Trivial(true)}
	allEnc := []gatefhe.Ciphertext{encA, ck.Encrypt(1, 3, gaussianFor(ck.Parameters()), uniformFor())}

	outMixed, err := gatefhe.EvaluateGate(sk, g.enc, mixed, nil)
	require.NoError(t, err)
	outAllEnc, err := gatefhe.EvaluateGate(sk, g.enc, allEnc, nil)
	require.NoError(t, err)

	require.Equal(t, ck.Decrypt(outAllEnc, 3), ck.Decrypt(outMixed, 3))
}

// TestTwoGateComposition covers spec.md §8 scenario 4: evaluate one
// gate six times, feed its refreshed outputs into a second gate.
func TestTwoGateComposition(t *testing.T) {
	ck, sk := genTestKeys(t)
	e0 := newAND(t)
	e1 := newSixInputGate(t)

	rawBits := []uint32{1, 0, 1, 1, 0, 1}
	refreshed := make([]gatefhe.Ciphertext, 6)
	intermediate := make([]uint32, 6)
	for i := 0; i < 6; i++ {
		a, b := rawBits[i], (rawBits[i]+1)%2
		out, err := gatefhe.EvaluateGate(sk, e0.enc, []gatefhe.Ciphertext{
			ck.Encrypt(a, 3, gaussianFor(ck.Parameters()), uniformFor()),
			ck.Encrypt(b, 3, gaussianFor(ck.Parameters()), uniformFor()),
		}, nil)
		require.NoError(t, err)
		refreshed[i] = out
		intermediate[i] = ck.Decrypt(out, 3)
	}

	final, err := gatefhe.EvaluateGate(sk, e1.enc, refreshed, nil)
	require.NoError(t, err)

	want := e1.refOutput(intermediate)
	got := ck.Decrypt(final, 23) != 0
	require.Equal(t, want, got)
}

// TestBufferReuseCorrectness covers spec.md §8's "running N consecutive
// evaluations through one engine produces the same outputs as N
// engines each performing one evaluation."
func TestBufferReuseCorrectness(t *testing.T) {
	ck, sk := genTestKeys(t)
	g := newAND(t)

	cases := [][2]uint32{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	inputs := make([][]gatefhe.Ciphertext, len(cases))
	for i, c := range cases {
		inputs[i] = []gatefhe.Ciphertext{
			ck.Encrypt(c[0], 3, gaussianFor(ck.Parameters()), uniformFor()),
			ck.Encrypt(c[1], 3, gaussianFor(ck.Parameters()), uniformFor()),
		}
	}

	arena := gatefhe.NewArena(sk.Parameters())
	var reused []uint32
	for _, in := range inputs {
		out, err := gatefhe.EvaluateGate(sk, g.enc, in, arena)
		require.NoError(t, err)
		reused = append(reused, ck.Decrypt(out, 3))
	}

	var separate []uint32
	for _, in := range inputs {
		out, err := gatefhe.EvaluateGate(sk, g.enc, in, gatefhe.NewArena(sk.Parameters()))
		require.NoError(t, err)
		separate = append(separate, ck.Decrypt(out, 3))
	}

	require.Equal(t, separate, reused)
}

// TestEngineEvaluateGate exercises the Engine facade end to end.
func TestEngineEvaluateGate(t *testing.T) {
	ck, sk := genTestKeys(t)
	g := newAND(t)

	e := gatefhe.NewEngine(sk, nil)
	ctA := e.Encrypt(ck, 1, 3)
	ctB := e.Encrypt(ck, 0, 3)

	out, err := e.EvaluateGate(g.enc, []gatefhe.Ciphertext{ctA, ctB})
	require.NoError(t, err)
	require.Equal(t, uint32(0), ck.Decrypt(out, 3))
}

// TestLinearityUnderP covers spec.md §8's "the sum computed by §4.3
// step 3 equals, modulo noise, the encryption of Σ scalar·b_i mod p" by
// evaluating the scaled sum through an Encoding whose output partition
// is the parity of the p-ary value, and checking the output bit equals
// the parity of the plaintext sum mod p.
func TestLinearityUnderP(t *testing.T) {
	ck, sk := genTestKeys(t)
	p := 17
	in1 := []uint32{1, 2, 3, 7, 14}
	parity := mustEncoding(t, p, 5, in1, evenUpTo(p), oddUpTo(p), [2]uint64{})

	bits := []uint32{1, 0, 1, 1, 0}
	m := len(in1)
	var want uint32
	for i, b := range bits {
		if b != 0 {
			want += in1[m-1-i]
		}
	}
	want %= uint32(p)

	got := evaluateBits(t, sk, ck, gateFixture{enc: parity, inputs1: in1, out0: setOf(evenUpTo(p))}, bits)
	wantBit := uint32(0)
	if want%2 == 1 {
		wantBit = 1
	}
	require.Equal(t, wantBit, got)
}

func setOf(vals []uint32) map[uint32]bool {
	out := make(map[uint32]bool, len(vals))
	for _, v := range vals {
		out[v] = true
	}
	return out
}

package gatefhe_test

import (
	"encoding/json"
	"testing"

	"github.com/cascadia-crypto/gatefhe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, p := range []uint32{2, 3, 17, 23} {
		for v := uint32(0); v < p; v++ {
			plaintext := gatefhe.Encode(v, p)
			got := gatefhe.Decode(plaintext, p)
			assert.Equalf(t, v, got, "p=%d v=%d", p, v)
		}
	}
}

func andEncoding(t *testing.T) *gatefhe.Encoding {
	t.Helper()
	enc, err := gatefhe.NewEncoding(3, 2, []uint32{1, 1}, []uint32{0, 1}, []uint32{2}, [2]uint64{8, 0})
	require.NoError(t, err)
	return enc
}

func TestAccumulatorShape(t *testing.T) {
	enc := andEncoding(t)
	acc := enc.CreateAccumulator()
	require.Len(t, acc, enc.P()+1)
	for _, v := range acc {
		assert.Containsf(t, []uint32{0, 1, uint32(enc.P()) - 1}, v, "accumulator value %d out of {0,1,p-1}", v)
	}
}

// TestAccumulatorTile covers spec scenario 6 for several (p, N) pairs
// where N is a power of two and 2p | N: BuildTestVector accepts each
// pair without panicking and returns a polynomial of exactly N
// coefficients. The window boundaries themselves are not inspected.
func TestAccumulatorTile(t *testing.T) {
	cases := []struct{ p, degree int }{
		{2, 1024}, {4, 1024}, {8, 1024}, {16, 1024}, {2, 2048}, {4, 2048},
	}
	for _, c := range cases {
		enc, err := gatefhe.NewEncoding(c.p, 1, make([]uint32, 1), onlyZero(c.p), nil, [2]uint64{})
		require.NoError(t, err)
		tv := enc.BuildTestVector(c.degree)
		assert.Len(t, tv, c.degree)
	}
}

func onlyZero(p int) []uint32 {
	out := make([]uint32, p)
	for i := range out {
		out[i] = uint32(i)
	}
	return out
}

func TestNewEncodingRejectsMalformedShapes(t *testing.T) {
	_, err := gatefhe.NewEncoding(1, 0, nil, nil, nil, [2]uint64{})
	require.Error(t, err)
	var paramErr *gatefhe.ParameterError
	assert.ErrorAs(t, err, &paramErr)

	_, err = gatefhe.NewEncoding(3, 2, []uint32{1, 1}, []uint32{0, 1, 1}, []uint32{2}, [2]uint64{})
	require.Error(t, err)
	var encErr *gatefhe.EncodingError
	assert.ErrorAs(t, err, &encErr)

	_, err = gatefhe.NewEncoding(3, 2, []uint32{1, 1}, []uint32{0}, nil, [2]uint64{})
	require.Error(t, err)
	assert.ErrorAs(t, err, &encErr)
}

func TestEncodingJSONRoundTrip(t *testing.T) {
	fixture := []*gatefhe.Encoding{
		andEncoding(t),
		mustEncoding(t, 17, 5, []uint32{1, 2, 3, 7, 14}, []uint32{0, 1, 2, 3, 4, 5, 6, 7, 8}, []uint32{9, 10, 11, 12, 13, 14, 15, 16}, [2]uint64{0xB9F4F5BA, 0}),
		mustEncoding(t, 23, 6, []uint32{1, 3, 20, 5, 18, 10}, evenUpTo(23), oddUpTo(23), [2]uint64{3120627642, 0}),
	}

	data, err := json.Marshal(fixture)
	require.NoError(t, err)

	var parsed []*gatefhe.Encoding
	require.NoError(t, json.Unmarshal(data, &parsed))

	require.Len(t, parsed, len(fixture))
	for i, e := range parsed {
		assert.Equal(t, fixture[i].P(), e.P())
		acc := e.CreateAccumulator()
		require.Len(t, acc, e.P()+1)
		for _, v := range acc {
			assert.Contains(t, []uint32{0, 1, uint32(e.P()) - 1}, v)
		}
	}
}

func mustEncoding(t *testing.T, p, pinCount int, in1, out0, out1 []uint32, tt [2]uint64) *gatefhe.Encoding {
	t.Helper()
	e, err := gatefhe.NewEncoding(p, pinCount, in1, out0, out1, tt)
	require.NoError(t, err)
	return e
}

func evenUpTo(p int) []uint32 {
	var out []uint32
	for i := 0; i < p; i += 2 {
		out = append(out, uint32(i))
	}
	return out
}

func oddUpTo(p int) []uint32 {
	var out []uint32
	for i := 1; i < p; i += 2 {
		out = append(out, uint32(i))
	}
	return out
}

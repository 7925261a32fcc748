package gatefhe_test

import (
	"testing"

	"github.com/cascadia-crypto/gatefhe"
	"github.com/stretchr/testify/require"
)

func genTestKeys(t *testing.T) (*gatefhe.ClientKey, *gatefhe.ServerKey) {
	t.Helper()
	params := gatefhe.TestParameters
	ck := gatefhe.GenClientKey(params, nil)
	sk, err := gatefhe.GenServerKey(ck, nil)
	require.NoError(t, err)
	return ck, sk
}

func TestKeyGenParallelMatchesSerial(t *testing.T) {
	params := gatefhe.TestParameters
	var seed [32]byte
	for i := range seed {
		seed[i] = byte(i)
	}

	ck := gatefhe.GenClientKey(params, &seed)

	skSerial, err := gatefhe.GenServerKey(ck, &seed)
	require.NoError(t, err)
	skParallel, err := gatefhe.GenServerKeyParallel(ck, &seed)
	require.NoError(t, err)

	enc := andEncoding(t)
	ctA := ck.Encrypt(1, 3, gaussianFor(params), uniformFor())
	ctB := ck.Encrypt(1, 3, gaussianFor(params), uniformFor())

	outSerial, err := gatefhe.EvaluateGate(skSerial, enc, []gatefhe.Ciphertext{ctA, ctB}, nil)
	require.NoError(t, err)
	outParallel, err := gatefhe.EvaluateGate(skParallel, enc, []gatefhe.Ciphertext{ctA, ctB}, nil)
	require.NoError(t, err)

	require.Equal(t, uint32(1), ck.Decrypt(outSerial, 3))
	require.Equal(t, uint32(1), ck.Decrypt(outParallel, 3))
}

func TestClientKeyBinarySerializationRoundTrip(t *testing.T) {
	ck, _ := genTestKeys(t)

	data, err := ck.MarshalBinary()
	require.NoError(t, err)

	var restored gatefhe.ClientKey
	require.NoError(t, restored.UnmarshalBinary(data))

	ct := ck.Encrypt(1, 3, gaussianFor(ck.Parameters()), uniformFor())
	require.Equal(t, ck.Decrypt(ct, 3), restored.Decrypt(ct, 3))
}

func TestServerKeyBinarySerializationRoundTrip(t *testing.T) {
	ck, sk := genTestKeys(t)

	data, err := sk.MarshalBinary()
	require.NoError(t, err)

	var restored gatefhe.ServerKey
	require.NoError(t, restored.UnmarshalBinary(data))

	enc := andEncoding(t)
	ctA := ck.Encrypt(1, 3, gaussianFor(ck.Parameters()), uniformFor())
	ctB := ck.Encrypt(0, 3, gaussianFor(ck.Parameters()), uniformFor())

	out, err := gatefhe.EvaluateGate(&restored, enc, []gatefhe.Ciphertext{ctA, ctB}, nil)
	require.NoError(t, err)
	require.Equal(t, uint32(0), ck.Decrypt(out, 3))
}

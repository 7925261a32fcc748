package gatefhe

import (
	"bytes"
	"encoding/gob"

	"github.com/cascadia-crypto/gatefhe/csprng"
	"github.com/cascadia-crypto/gatefhe/internal/lwe"
)

// ClientKey owns the secret material: a binary LWE secret of length n
// and a binary GLWE secret of shape (k, N), spec.md §3. It is created
// by KeyGen from a CSPRNG and consumed read-only afterward by
// encryption, decryption, and ServerKey construction.
type ClientKey struct {
	lweSecret  lwe.Secret
	glweSecret lwe.GLWESecret
	params     Parameters[uint32]
}

// Parameters returns the Parameters this key was generated under.
func (ck *ClientKey) Parameters() Parameters[uint32] { return ck.params }

// Encrypt produces a fresh p-ary encryption of m, m in [0, p).
func (ck *ClientKey) Encrypt(m uint32, p uint32, noise *csprng.GaussianSampler, uniform *csprng.UniformSampler) Ciphertext {
	plaintext := Encode(m%p, p)
	ct := lwe.Encrypt(ck.lweSecret, plaintext, noise, uniform)
	return Encrypted(ct)
}

// Decrypt recovers the p-ary value of an encrypted ciphertext, never
// failing: it returns a value in [0, p) which the caller interprets
// (spec.md §7).
func (ck *ClientKey) Decrypt(ct Ciphertext, p uint32) uint32 {
	if ct.IsTrivial() {
		if ct.TrivialValue() {
			return 1 % p
		}
		return 0
	}
	plaintext := lwe.Decrypt(ck.lweSecret, ct.LWE())
	return Decode(plaintext, p)
}

// clientKeyGob is the exported mirror used for gob (de)serialization;
// ClientKey itself keeps its fields unexported so callers cannot
// mutate secret material after construction.
type clientKeyGob struct {
	LWESecret  lwe.Secret
	GLWESecret lwe.GLWESecret
	Params     ParametersLiteral[uint32]
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (ck *ClientKey) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(clientKeyGob{
		LWESecret:  ck.lweSecret,
		GLWESecret: ck.glweSecret,
		Params:     ck.params.Literal(),
	})
	return buf.Bytes(), err
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (ck *ClientKey) UnmarshalBinary(data []byte) error {
	var g clientKeyGob
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return err
	}
	ck.lweSecret = g.LWESecret
	ck.glweSecret = g.GLWESecret
	ck.params = g.Params.Compile()
	return nil
}

// ServerKey owns the Fourier-domain bootstrap key and the keyswitch
// key, spec.md §3. It is publishable and immutable after creation; its
// two keys are read-only during evaluation, so a ServerKey may be
// shared across any number of concurrent Engines (spec.md §5).
type ServerKey struct {
	bsk    *lwe.BootstrapKey
	ksk    lwe.KeySwitchKey
	params Parameters[uint32]
}

// Parameters returns the Parameters this key was generated under.
func (sk *ServerKey) Parameters() Parameters[uint32] { return sk.params }

// serverKeyGob is the exported mirror used for gob (de)serialization.
// The bootstrap key is stored already Fourier-converted, so loading a
// ServerKey requires no FFT work, matching spec.md §6's "ServerKey
// includes the Fourier-domain bootstrap key in its serialised form; no
// conversion is required on load."
type serverKeyGob struct {
	BSKRows   []lwe.FourierGGSW
	BSKRank   int
	BSKDegree int
	BSKParams lwe.GadgetParams
	KSK       lwe.KeySwitchKey
	Params    ParametersLiteral[uint32]
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (sk *ServerKey) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(serverKeyGob{
		BSKRows:   sk.bsk.Rows,
		BSKRank:   sk.bsk.Rank,
		BSKDegree: sk.bsk.Degree,
		BSKParams: sk.bsk.Params,
		KSK:       sk.ksk,
		Params:    sk.params.Literal(),
	})
	return buf.Bytes(), err
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (sk *ServerKey) UnmarshalBinary(data []byte) error {
	var g serverKeyGob
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return err
	}
	sk.bsk = &lwe.BootstrapKey{
		Rows:   g.BSKRows,
		Rank:   g.BSKRank,
		Degree: g.BSKDegree,
		Params: g.BSKParams,
	}
	sk.ksk = g.KSK
	sk.params = g.Params.Compile()
	return nil
}

package lwe

import "github.com/cascadia-crypto/gatefhe/csprng"

// KeySwitchKey carries the rows needed to move an LWE ciphertext from
// the "big" secret (the GLWE secret flattened to length kN) down to
// the "small" input secret, spec.md §3/§4.1's keyswitch key.
type KeySwitchKey struct {
	Rows   [][]Ciphertext // [input coordinate i][level l], each of output dimension
	Params GadgetParams
	InDim  int
	OutDim int
}

// GenKeySwitchKey encrypts each coordinate of skBig, scaled by every
// gadget level, under skSmall.
func GenKeySwitchKey(skBig, skSmall Secret, params GadgetParams, noise *csprng.GaussianSampler, uniform *csprng.UniformSampler) KeySwitchKey {
	ksk := KeySwitchKey{
		Rows:   make([][]Ciphertext, len(skBig)),
		Params: params,
		InDim:  len(skBig),
		OutDim: len(skSmall),
	}
	for i, bit := range skBig {
		ksk.Rows[i] = make([]Ciphertext, params.Level)
		for l := 0; l < params.Level; l++ {
			plaintext := bit * params.BaseQ(l)
			ksk.Rows[i][l] = Encrypt(skSmall, plaintext, noise, uniform)
		}
	}
	return ksk
}

// KeySwitch transforms ctIn (under the big secret, dimension InDim)
// into an LWE ciphertext under the small secret (dimension OutDim),
// spec.md §6's keyswitch_lwe_ciphertext.
func KeySwitch(ksk KeySwitchKey, ctIn Ciphertext) Ciphertext {
	out := NewCiphertext(ksk.OutDim)
	out[len(out)-1] = ctIn[len(ctIn)-1]

	mask := ctIn[:len(ctIn)-1]
	for i, a := range mask {
		digits := DecomposeScalar(a, ksk.Params)
		for l, d := range digits {
			if d == 0 {
				continue
			}
			row := ksk.Rows[i][l]
			scaled := make(Ciphertext, len(row))
			copy(scaled, row)
			scaled.CleartextMulAssign(d)
			out.SubAssign(scaled)
		}
	}
	return out
}

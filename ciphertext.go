package gatefhe

import "github.com/cascadia-crypto/gatefhe/internal/lwe"

// Ciphertext is a tagged union of an encrypted LWE ciphertext and a
// Trivial boolean the server was told in the clear, spec.md §3.
// Trivial values may mix with encrypted operands at any pin of a gate.
type Ciphertext struct {
	encrypted lwe.Ciphertext
	trivial   bool
	isTrivial bool
}

// Encrypted wraps an LWE ciphertext as an Encrypted Ciphertext.
func Encrypted(ct lwe.Ciphertext) Ciphertext {
	return Ciphertext{encrypted: ct}
}

// Trivial builds a Trivial(b) Ciphertext carrying a plaintext value
// the server was told directly.
func Trivial(b bool) Ciphertext {
	return Ciphertext{trivial: b, isTrivial: true}
}

// IsTrivial reports whether this Ciphertext is a Trivial value rather
// than an encrypted one.
func (c Ciphertext) IsTrivial() bool { return c.isTrivial }

// TrivialValue returns the boolean carried by a Trivial Ciphertext. It
// is only meaningful when IsTrivial() is true.
func (c Ciphertext) TrivialValue() bool { return c.trivial }

// LWE returns the underlying LWE ciphertext of an Encrypted value. It
// panics if called on a Trivial value; callers should check IsTrivial
// first.
func (c Ciphertext) LWE() lwe.Ciphertext {
	if c.isTrivial {
		panic("gatefhe: LWE() called on a Trivial ciphertext")
	}
	return c.encrypted
}

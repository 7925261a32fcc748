package gatefhe

import "github.com/cascadia-crypto/gatefhe/csprng"

// Engine is the explicit, single-owner execution context spec.md §9's
// "Thread-local engine" design note calls for: one Arena, one pair of
// encryption CSPRNGs (Gaussian noise and uniform mask, independently
// seeded; secret-key sampling uses its own sampler in GenClientKey), and a
// reference to the ServerKey it evaluates gates against. Replacing the
// source's per-thread mutable singleton with a value the caller passes
// around makes "exclusive access to arena+RNG for the duration of one
// operation" a property of Go ownership rather than of thread-local
// storage: a process hosting multiple worker goroutines constructs one
// Engine per worker, each wrapping its own Arena and RNGs around the
// one shared, read-only ServerKey (spec.md §5).
type Engine struct {
	serverKey *ServerKey
	arena     *Arena
	noise     *csprng.GaussianSampler
	uniform   *csprng.UniformSampler
}

// NewEngine builds an Engine bound to serverKey. seed deterministically
// derives both the encryption-noise and uniform-mask CSPRNGs from one
// root seed (nil draws fresh entropy from crypto/rand for each),
// spec.md §5's "Encryption RNG ... seeded from a deterministic seeder
// derived from a root entropy source."
func NewEngine(serverKey *ServerKey, seed *[32]byte) *Engine {
	noiseSeed := deriveSeed(seed, "gatefhe/engine/noise")
	uniformSeed := deriveSeed(seed, "gatefhe/engine/uniform")
	return &Engine{
		serverKey: serverKey,
		arena:     NewArena(serverKey.Parameters()),
		noise:     csprng.NewGaussianSampler(noiseSeed, serverKey.Parameters().LWEStdDev()),
		uniform:   csprng.NewUniformSampler(uniformSeed),
	}
}

// ServerKey returns the ServerKey this Engine evaluates against.
func (e *Engine) ServerKey() *ServerKey { return e.serverKey }

// Encrypt encrypts m (in [0, p)) using ck's secret and this Engine's
// encryption RNGs. ck must share the same Parameters as e's ServerKey.
func (e *Engine) Encrypt(ck *ClientKey, m, p uint32) Ciphertext {
	return ck.Encrypt(m, p, e.noise, e.uniform)
}

// Bootstrap runs one Programmable Bootstrap against ct using this
// Engine's ServerKey and Arena, spec.md §4.4.
func (e *Engine) Bootstrap(ct Ciphertext, enc *Encoding) (Ciphertext, error) {
	return Bootstrap(ct, e.serverKey, enc, e.arena)
}

// EvaluateGate evaluates enc over inputs using this Engine's ServerKey
// and Arena, spec.md §4.3. Calls on one Engine strictly observe call
// order; reusing the same Engine for N consecutive evaluations yields
// the same outputs as N separate Engines each performing one
// evaluation, since the Arena is fully overwritten before being read
// on every call.
func (e *Engine) EvaluateGate(enc *Encoding, inputs []Ciphertext) (Ciphertext, error) {
	return EvaluateGate(e.serverKey, enc, inputs, e.arena)
}

// Bootstrap is the single-input entry point on ServerKey itself for
// callers that don't need an Engine's pooled Arena or RNGs — every
// call allocates its own scratch, trading amortisation for a
// dependency-free call shape.
func (sk *ServerKey) Bootstrap(ct Ciphertext, enc *Encoding) (Ciphertext, error) {
	return Bootstrap(ct, sk, enc, nil)
}

// deriveSeed mixes a root seed with a domain-separation label to
// produce an independent-looking sub-seed, so the noise and uniform
// CSPRNGs backing one Engine never draw from the same keystream even
// though they share a root seed. A nil root seed draws fresh entropy
// per call instead of deriving anything.
func deriveSeed(root *[32]byte, label string) *[32]byte {
	if root == nil {
		return nil
	}
	var out [32]byte
	copy(out[:], (*root)[:])
	for i := 0; i < len(label); i++ {
		out[i%32] ^= label[i]
	}
	return &out
}

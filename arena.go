package gatefhe

import "github.com/cascadia-crypto/gatefhe/internal/lwe"

// Arena is a growable scratch buffer reused across repeated calls to
// Bootstrap on a single goroutine, spec.md §4.5. An Engine keeps one
// Arena, and Bootstrap copies the rotated accumulator, the
// sample-extracted ciphertext and the key-switched ciphertext into the
// same three slices on every call; the primitives that produce those
// values still allocate their own outputs. The slices are reallocated
// whenever the Parameters' shape (k, N or n) differs from the one they
// were sized for. An Arena is not safe for concurrent use;
// each goroutine driving bootstraps needs its own, exactly as each
// Engine owns its own Arena.
type Arena struct {
	rank   int
	degree int
	inDim  int

	accumulator lwe.GLWECiphertext
	postPBS     lwe.Ciphertext
	postKS      lwe.Ciphertext
}

// NewArena allocates an Arena sized for the given Parameters.
func NewArena(params Parameters[uint32]) *Arena {
	a := &Arena{}
	a.grow(params)
	return a
}

// grow (re)allocates the three views whenever params' GLWE rank,
// polynomial degree or LWE dimension differs from the ones the arena
// was last sized for, larger or smaller. Earlier views are invalidated
// by a grow, matching spec.md §4.5's "growth invalidates any
// previously returned view."
func (a *Arena) grow(params Parameters[uint32]) {
	rank := params.GLWERank()
	degree := params.PolyDegree()
	inDim := params.LWEDimension()

	if rank == a.rank && degree == a.degree && inDim == a.inDim {
		return
	}

	a.rank, a.degree, a.inDim = rank, degree, inDim
	a.accumulator = lwe.NewGLWECiphertext(rank, degree)
	a.postPBS = lwe.NewCiphertext(rank * degree)
	a.postKS = lwe.NewCiphertext(inDim)
}

// Accumulator returns the arena's (k+1)*N scratch view used to hold
// the blind-rotation accumulator. Its prior contents are undefined at
// the start of every Bootstrap call; Bootstrap overwrites it in full
// before reading from it.
func (a *Arena) Accumulator() lwe.GLWECiphertext { return a.accumulator }

// PostPBS returns the arena's kN+1 scratch view used to hold the
// sample-extracted ciphertext before key-switching.
func (a *Arena) PostPBS() lwe.Ciphertext { return a.postPBS }

// PostKS returns the arena's n+1 scratch view used to hold the final
// key-switched ciphertext Bootstrap returns.
func (a *Arena) PostKS() lwe.Ciphertext { return a.postKS }

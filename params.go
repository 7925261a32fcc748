// Package gatefhe implements a gate-bootstrapping engine for fully
// homomorphic encryption over LWE ciphertexts: a p-ary encoding layer
// that compresses a multi-input Boolean truth table into a single
// Programmable Bootstrap lookup, a gate evaluator that linearly
// combines encrypted inputs under a prime modulus, a bootstrapper
// reusing scratch buffers and a memoised FFT plan, and a key
// generation pipeline producing a Fourier-domain bootstrap key and a
// keyswitch key.
package gatefhe

import (
	"math"

	"github.com/cascadia-crypto/gatefhe/internal/lwe"
)

// TorusInt represents the integers living in the discretized torus.
// This engine is instantiated at uint32 (Q = 2^32), matching the
// encode(v) = round(v*2^32/p) convention; the uint64 arm is kept open
// so a 64-bit instantiation needs no change to the generic surface.
type TorusInt interface {
	uint32 | uint64
}

func sizeOfT[T TorusInt]() int {
	var t T
	switch any(t).(type) {
	case uint32:
		return 32
	case uint64:
		return 64
	default:
		return 0
	}
}

func log2(x uint64) int {
	l := 0
	for x > 1 {
		x >>= 1
		l++
	}
	return l
}

func isPowerOfTwo(x int) bool {
	return x > 0 && x&(x-1) == 0
}

// GadgetParametersLiteral configures the gadget decomposition used by
// either blind rotation or key-switching.
type GadgetParametersLiteral[T TorusInt] struct {
	// Base is the gadget base. It must be a power of two.
	Base T
	// Level is the number of decomposition levels.
	Level int
}

// WithBase sets Base and returns the new literal.
func (p GadgetParametersLiteral[T]) WithBase(base T) GadgetParametersLiteral[T] {
	p.Base = base
	return p
}

// WithLevel sets Level and returns the new literal.
func (p GadgetParametersLiteral[T]) WithLevel(level int) GadgetParametersLiteral[T] {
	p.Level = level
	return p
}

// Compile validates the literal and produces a read-only
// GadgetParameters. It panics on misconfiguration, matching the
// teacher's convention that parameter literals are fixed constants,
// not runtime-validated user input.
func (p GadgetParametersLiteral[T]) Compile() GadgetParameters[T] {
	switch {
	case p.Base < 2:
		panic("gatefhe: gadget base smaller than two")
	case !isPowerOfTwo(int(p.Base)):
		panic("gatefhe: gadget base not a power of two")
	case p.Level <= 0:
		panic("gatefhe: gadget level not positive")
	case sizeOfT[T]() < log2(uint64(p.Base))*p.Level:
		panic("gatefhe: gadget base * level larger than Q")
	}
	return GadgetParameters[T]{
		base:    p.Base,
		logBase: log2(uint64(p.Base)),
		level:   p.Level,
		sizeT:   sizeOfT[T](),
	}
}

// GadgetParameters is the compiled, read-only form of
// GadgetParametersLiteral.
type GadgetParameters[T TorusInt] struct {
	base    T
	logBase int
	level   int
	sizeT   int
}

// Base is the gadget base.
func (p GadgetParameters[T]) Base() T { return p.base }

// LogBase is log2(Base).
func (p GadgetParameters[T]) LogBase() int { return p.logBase }

// Level is the number of decomposition levels.
func (p GadgetParameters[T]) Level() int { return p.level }

// BaseQ returns Q / Base^(i+1).
func (p GadgetParameters[T]) BaseQ(i int) T {
	return T(1) << uint(p.sizeT-(i+1)*p.logBase)
}

// Literal returns the GadgetParametersLiteral this was compiled from.
func (p GadgetParameters[T]) Literal() GadgetParametersLiteral[T] {
	return GadgetParametersLiteral[T]{Base: p.base, Level: p.level}
}

func (p GadgetParameters[T]) toInternal() lwe.GadgetParams {
	return lwe.GadgetParams{LogBase: p.logBase, Level: p.level}
}

// ParametersLiteral configures a Parameters value before compilation.
//
// # Warning
//
// Unless you are a cryptographic expert, do not set these by hand;
// use one of the parameter sets in params_list.go.
type ParametersLiteral[T TorusInt] struct {
	// LWEDimension is n, the dimension of the input LWE lattice.
	LWEDimension int
	// GLWERank is k, the rank of the GLWE lattice.
	GLWERank int
	// PolyDegree is N, the degree of GLWE polynomials. Must be a
	// power of two.
	PolyDegree int

	// LWEStdDev is the normalized standard deviation for LWE
	// encryption noise.
	LWEStdDev float64
	// GLWEStdDev is the normalized standard deviation for GLWE
	// encryption noise.
	GLWEStdDev float64

	// BlindRotateParameters is the gadget decomposition used inside
	// the bootstrap key / blind rotation.
	BlindRotateParameters GadgetParametersLiteral[T]
	// KeySwitchParameters is the gadget decomposition used by the
	// keyswitch key.
	KeySwitchParameters GadgetParametersLiteral[T]
}

func (p ParametersLiteral[T]) WithLWEDimension(d int) ParametersLiteral[T] {
	p.LWEDimension = d
	return p
}
func (p ParametersLiteral[T]) WithGLWERank(k int) ParametersLiteral[T] {
	p.GLWERank = k
	return p
}
func (p ParametersLiteral[T]) WithPolyDegree(n int) ParametersLiteral[T] {
	p.PolyDegree = n
	return p
}
func (p ParametersLiteral[T]) WithLWEStdDev(s float64) ParametersLiteral[T] {
	p.LWEStdDev = s
	return p
}
func (p ParametersLiteral[T]) WithGLWEStdDev(s float64) ParametersLiteral[T] {
	p.GLWEStdDev = s
	return p
}
func (p ParametersLiteral[T]) WithBlindRotateParameters(g GadgetParametersLiteral[T]) ParametersLiteral[T] {
	p.BlindRotateParameters = g
	return p
}
func (p ParametersLiteral[T]) WithKeySwitchParameters(g GadgetParametersLiteral[T]) ParametersLiteral[T] {
	p.KeySwitchParameters = g
	return p
}

// Compile validates the literal and produces a read-only Parameters.
// It panics on misconfiguration; the parameter sets in params_list.go
// are guaranteed to compile.
func (p ParametersLiteral[T]) Compile() Parameters[T] {
	switch {
	case p.LWEDimension <= 0:
		panic("gatefhe: LWEDimension not positive")
	case p.GLWERank <= 0:
		panic("gatefhe: GLWERank not positive")
	case p.LWEDimension > p.GLWERank*p.PolyDegree:
		panic("gatefhe: LWEDimension larger than GLWEDimension")
	case !isPowerOfTwo(p.PolyDegree):
		panic("gatefhe: PolyDegree not a power of two")
	case p.LWEStdDev <= 0:
		panic("gatefhe: LWEStdDev not positive")
	case p.GLWEStdDev <= 0:
		panic("gatefhe: GLWEStdDev not positive")
	}

	return Parameters[T]{
		lweDimension:  p.LWEDimension,
		glweRank:      p.GLWERank,
		glweDimension: p.GLWERank * p.PolyDegree,
		polyDegree:    p.PolyDegree,
		logPolyDegree: log2(uint64(p.PolyDegree)),

		lweStdDev:  p.LWEStdDev,
		glweStdDev: p.GLWEStdDev,

		logQ:   sizeOfT[T](),
		floatQ: math.Exp2(float64(sizeOfT[T]())),

		blindRotateParameters: p.BlindRotateParameters.Compile(),
		keySwitchParameters:   p.KeySwitchParameters.Compile(),
	}
}

// Parameters is the compiled, read-only form of ParametersLiteral.
// Invariant (spec.md §3): PolyDegree is a power of two, and for any
// Encoding used with these Parameters, PolyDegree must be at least
// 2*p (checked by validateEncodingShape when a test vector is built,
// not here, since p is per-gate).
type Parameters[T TorusInt] struct {
	lweDimension  int
	glweRank      int
	glweDimension int
	polyDegree    int
	logPolyDegree int

	lweStdDev  float64
	glweStdDev float64

	logQ   int
	floatQ float64

	blindRotateParameters GadgetParameters[T]
	keySwitchParameters   GadgetParameters[T]
}

func (p Parameters[T]) LWEDimension() int        { return p.lweDimension }
func (p Parameters[T]) GLWERank() int             { return p.glweRank }
func (p Parameters[T]) GLWEDimension() int        { return p.glweDimension }
func (p Parameters[T]) PolyDegree() int           { return p.polyDegree }
func (p Parameters[T]) LogPolyDegree() int        { return p.logPolyDegree }
func (p Parameters[T]) LWEStdDev() float64        { return p.lweStdDev }
func (p Parameters[T]) GLWEStdDev() float64       { return p.glweStdDev }
func (p Parameters[T]) LogQ() int                 { return p.logQ }

func (p Parameters[T]) BlindRotateParameters() GadgetParameters[T] { return p.blindRotateParameters }
func (p Parameters[T]) KeySwitchParameters() GadgetParameters[T]   { return p.keySwitchParameters }

// Literal returns the ParametersLiteral this Parameters was compiled
// from.
func (p Parameters[T]) Literal() ParametersLiteral[T] {
	return ParametersLiteral[T]{
		LWEDimension: p.lweDimension,
		GLWERank:     p.glweRank,
		PolyDegree:   p.polyDegree,

		LWEStdDev:  p.lweStdDev,
		GLWEStdDev: p.glweStdDev,

		BlindRotateParameters: p.blindRotateParameters.Literal(),
		KeySwitchParameters:   p.keySwitchParameters.Literal(),
	}
}

// validateEncodingShape checks the spec.md §7 ParameterError
// conditions that depend on both Parameters and an Encoding. N need
// not be an exact multiple of 2p: windowBoundary's rounded proportional
// tiling covers [0, N) for any (p, N) pair and collapses to the exact
// fixed-width tiling whenever 2p does divide N, so the only remaining
// hard requirement is the one spec.md §3 states directly, N >= 2p —
// below that the accumulator's p+1 entries cannot each get a
// non-empty window.
func validateEncodingShape(polyDegree, p int) error {
	if p < 2 {
		return &ParameterError{Field: "p", Reason: "modulus smaller than two"}
	}
	if polyDegree < 2*p {
		return &ParameterError{Field: "PolyDegree", Reason: "smaller than 2p"}
	}
	return nil
}

// Package csprng provides the uniform, binary, and Gaussian samplers
// the key-generation and encryption paths draw randomness from. It
// plays the role the teacher's internal math/csprng package plays in
// github.com/sp301415/tfhe-go's Encryptor, but is backed directly by
// golang.org/x/crypto/chacha20 rather than a hand-rolled generator.
package csprng

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"math"

	"golang.org/x/crypto/chacha20"
)

// UniformSampler draws uniformly random words from a ChaCha20
// keystream. It is not safe for concurrent use; each Engine owns one.
type UniformSampler struct {
	cipher *chacha20.Cipher
	buf    [4096]byte
	pos    int
}

// NewUniformSampler builds a sampler from an explicit 32-byte seed. A
// nil seed draws fresh entropy from crypto/rand, matching the
// "deterministic seeder derived from a root entropy source" language
// used for reproducible test runs and the default random-key path
// alike.
func NewUniformSampler(seed *[32]byte) *UniformSampler {
	var key [32]byte
	if seed != nil {
		key = *seed
	} else if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
		panic("csprng: failed to read seed entropy: " + err.Error())
	}

	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		panic("csprng: " + err.Error())
	}

	s := &UniformSampler{cipher: c}
	s.pos = len(s.buf)
	return s
}

func (s *UniformSampler) refill() {
	var zero [4096]byte
	s.cipher.XORKeyStream(s.buf[:], zero[:])
	s.pos = 0
}

// Bytes fills p with uniformly random bytes.
func (s *UniformSampler) Bytes(p []byte) {
	for len(p) > 0 {
		if s.pos >= len(s.buf) {
			s.refill()
		}
		n := copy(p, s.buf[s.pos:])
		s.pos += n
		p = p[n:]
	}
}

// Uint32 returns a uniformly random 32-bit word.
func (s *UniformSampler) Uint32() uint32 {
	var b [4]byte
	s.Bytes(b[:])
	return binary.LittleEndian.Uint32(b[:])
}

// Uint64 returns a uniformly random 64-bit word.
func (s *UniformSampler) Uint64() uint64 {
	var b [8]byte
	s.Bytes(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

// Float64 returns a uniform sample in [0, 1).
func (s *UniformSampler) Float64() float64 {
	return float64(s.Uint64()>>11) / (1 << 53)
}

// BinarySampler draws uniform bits, used to sample binary LWE/GLWE
// secret keys.
type BinarySampler struct {
	*UniformSampler
	bitBuf uint32
	nBits  int
}

// NewBinarySampler builds a BinarySampler over its own keystream.
func NewBinarySampler(seed *[32]byte) *BinarySampler {
	return &BinarySampler{UniformSampler: NewUniformSampler(seed)}
}

// Bit returns a uniformly random bit as 0 or 1.
func (s *BinarySampler) Bit() uint32 {
	if s.nBits == 0 {
		s.bitBuf = s.Uint32()
		s.nBits = 32
	}
	b := s.bitBuf & 1
	s.bitBuf >>= 1
	s.nBits--
	return b
}

// GaussianSampler draws discrete Gaussian noise over the torus,
// normalized so that StdDev is expressed as a fraction of the modulus
// (matching Parameters.LWEStdDev / GLWEStdDev).
type GaussianSampler struct {
	*UniformSampler
	stdDev float64
	have   bool
	cached float64
}

// NewGaussianSampler builds a GaussianSampler with the given normalized
// standard deviation (e.g. Parameters.LWEStdDev()).
func NewGaussianSampler(seed *[32]byte, stdDev float64) *GaussianSampler {
	return &GaussianSampler{UniformSampler: NewUniformSampler(seed), stdDev: stdDev}
}

// sampleStandardNormal draws one N(0,1) sample via the Box-Muller
// transform, caching the second value of each generated pair.
func (s *GaussianSampler) sampleStandardNormal() float64 {
	if s.have {
		s.have = false
		return s.cached
	}

	var u1, u2 float64
	for u1 == 0 {
		u1 = s.Float64()
	}
	u2 = s.Float64()

	r := math.Sqrt(-2 * math.Log(u1))
	theta := 2 * math.Pi * u2

	s.cached = r * math.Sin(theta)
	s.have = true
	return r * math.Cos(theta)
}

// SampleTorus32 draws one Gaussian error term, scaled by the configured
// standard deviation and the 2^32 torus modulus, rounded to the
// nearest integer.
func (s *GaussianSampler) SampleTorus32() uint32 {
	z := s.sampleStandardNormal() * s.stdDev
	scaled := z * 4294967296.0
	return uint32(int64(math.Round(scaled)))
}

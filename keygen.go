package gatefhe

import (
	"runtime"
	"sync"

	"github.com/cascadia-crypto/gatefhe/csprng"
	"github.com/cascadia-crypto/gatefhe/internal/fft"
	"github.com/cascadia-crypto/gatefhe/internal/lwe"
)

// GenClientKey samples a binary LWE secret of length n and a binary
// GLWE secret of shape (k, N) from seed (nil draws from crypto/rand),
// spec.md §4.1.
func GenClientKey(params Parameters[uint32], seed *[32]byte) *ClientKey {
	sampler := csprng.NewBinarySampler(seed)
	return &ClientKey{
		lweSecret:  lwe.GenSecret(params.LWEDimension(), sampler),
		glweSecret: lwe.GenGLWESecret(params.GLWERank(), params.PolyDegree(), sampler),
		params:     params,
	}
}

// GenServerKey derives a ServerKey from a ClientKey: a standard LWE
// bootstrap key sampled at (pbs_base_log, pbs_level) with noise
// glwe_std_dev, converted to the Fourier domain, and a keyswitch key
// from the GLWE secret (flattened to length kN) down to the LWE secret
// at (ks_base_log, ks_level) with noise lwe_std_dev — spec.md §4.1
// steps 1-3. The returned error is always nil: a failure to read seed
// entropy from crypto/rand (seed == nil) panics inside the csprng
// constructors rather than being returned as a KeyGenError.
func GenServerKey(ck *ClientKey, seed *[32]byte) (*ServerKey, error) {
	return genServerKey(ck, seed, 1)
}

// GenServerKeyParallel is identical to GenServerKey except it samples
// bootstrap-key rows across runtime.NumCPU() workers, grounded on the
// teacher's GenBlindRotateKeyParallel worker-pool pattern
// (tfhe-go/tfhe/bootstrap_keygen.go): a jobs channel of row indices,
// one encryption-RNG-equipped worker per goroutine, collected with a
// sync.WaitGroup. Spec.md §5: "Key generation MAY internally
// parallelise the sampling of the bootstrap key rows."
func GenServerKeyParallel(ck *ClientKey, seed *[32]byte) (*ServerKey, error) {
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	return genServerKey(ck, seed, workers)
}

func genServerKey(ck *ClientKey, seed *[32]byte, workers int) (*ServerKey, error) {
	params := ck.params
	degree := params.PolyDegree()
	rank := params.GLWERank()
	brParams := params.BlindRotateParameters().toInternal()
	ksParams := params.KeySwitchParameters().toInternal()

	plan := getFFTPlan(degree)

	rows := make([]lwe.FourierGGSW, len(ck.lweSecret))

	if workers <= 1 {
		noise := csprng.NewGaussianSampler(deriveSeed(seed, "gatefhe/keygen/bsk/noise"), params.GLWEStdDev())
		uniform := csprng.NewUniformSampler(deriveSeed(seed, "gatefhe/keygen/bsk/uniform"))
		for i, bit := range ck.lweSecret {
			rows[i] = lwe.GenBootstrapKeyRow(bit, ck.glweSecret, degree, brParams, noise, uniform, plan)
		}
	} else {
		type job struct{ idx int }
		jobs := make(chan job, len(rows))
		for i := range rows {
			jobs <- job{i}
		}
		close(jobs)

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(workerSeed *[32]byte) {
				defer wg.Done()
				noise := csprng.NewGaussianSampler(deriveSeed(workerSeed, "gatefhe/keygen/bsk/noise"), params.GLWEStdDev())
				uniform := csprng.NewUniformSampler(deriveSeed(workerSeed, "gatefhe/keygen/bsk/uniform"))
				for j := range jobs {
					rows[j.idx] = lwe.GenBootstrapKeyRow(ck.lweSecret[j.idx], ck.glweSecret, degree, brParams, noise, uniform, plan)
				}
			}(perWorkerSeed(seed, w))
		}
		wg.Wait()
	}

	bsk := &lwe.BootstrapKey{
		Rows:   rows,
		Rank:   rank,
		Degree: degree,
		Params: brParams,
	}

	ksNoise := csprng.NewGaussianSampler(deriveSeed(seed, "gatefhe/keygen/ksk/noise"), params.LWEStdDev())
	ksUniform := csprng.NewUniformSampler(deriveSeed(seed, "gatefhe/keygen/ksk/uniform"))
	ksk := lwe.GenKeySwitchKey(ck.glweSecret.AsLWESecret(), ck.lweSecret, ksParams, ksNoise, ksUniform)

	return &ServerKey{bsk: bsk, ksk: ksk, params: params}, nil
}

// perWorkerSeed derives an independent-looking seed per worker from
// the caller's seed (or fresh entropy when seed is nil) so parallel
// sampling doesn't reuse one CSPRNG across goroutines, which would
// both race and correlate the noise each row draws.
func perWorkerSeed(seed *[32]byte, worker int) *[32]byte {
	var s [32]byte
	if seed != nil {
		s = *seed
	} else {
		tmp := csprng.NewUniformSampler(nil)
		tmp.Bytes(s[:])
	}
	s[0] ^= byte(worker)
	s[1] ^= byte(worker >> 8)
	return &s
}

var (
	fftPlanMu    sync.Mutex
	fftPlanCache = map[int]*fft.Plan{}
)

// getFFTPlan returns the memoised FFT plan for a given ring degree,
// building it on first use, per spec.md §4.5's note that the FFT plan
// is shared and amortised across calls.
func getFFTPlan(degree int) *fft.Plan {
	fftPlanMu.Lock()
	defer fftPlanMu.Unlock()
	if p, ok := fftPlanCache[degree]; ok {
		return p
	}
	p := fft.NewPlan(degree)
	fftPlanCache[degree] = p
	return p
}

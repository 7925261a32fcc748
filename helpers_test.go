package gatefhe_test

import (
	"github.com/cascadia-crypto/gatefhe"
	"github.com/cascadia-crypto/gatefhe/csprng"
)

func gaussianFor(params gatefhe.Parameters[uint32]) *csprng.GaussianSampler {
	return csprng.NewGaussianSampler(nil, params.LWEStdDev())
}

func uniformFor() *csprng.UniformSampler {
	return csprng.NewUniformSampler(nil)
}

package lwe

import (
	"github.com/cascadia-crypto/gatefhe/csprng"
	"github.com/cascadia-crypto/gatefhe/internal/fft"
)

// GenBootstrapKeyRow builds one Fourier-domain bootstrap-key row,
// encrypting a single LWE secret bit under the GLWE secret. Exposed
// as its own function so the top-level keygen can parallelise across
// rows the way the teacher's GenBlindRotateKeyParallel does.
func GenBootstrapKeyRow(bit Torus, glweSecret GLWESecret, degree int, params GadgetParams, noise *csprng.GaussianSampler, uniform *csprng.UniformSampler, plan *fft.Plan) FourierGGSW {
	return GenGGSW(bit, glweSecret, degree, params, noise, uniform).ToFourier(plan)
}

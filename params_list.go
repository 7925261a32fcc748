package gatefhe

// DefaultParameters is grounded directly on the DEFAULT_PARAMETERS
// constant of the Rust source this engine was distilled from
// (tfhe-rs's gadget::parameters module): lwe_dimension=768,
// glwe_dimension=1, polynomial_size=2048, with the same noise and
// gadget decomposition shape.
var DefaultParameters = ParametersLiteral[uint32]{
	LWEDimension: 768,
	GLWERank:     1,
	PolyDegree:   2048,

	LWEStdDev:  0.000003725679281679651,
	GLWEStdDev: 0.0000000000034525330484572114,

	BlindRotateParameters: GadgetParametersLiteral[uint32]{
		Base:  1 << 15,
		Level: 2,
	},
	KeySwitchParameters: GadgetParametersLiteral[uint32]{
		Base:  1 << 5,
		Level: 3,
	},
}.Compile()

// TestParameters trades security for speed: a much smaller LWE
// dimension and polynomial degree so unit tests can generate keys and
// run bootstraps without the multi-second cost DefaultParameters
// would incur at p up to 23 (spec.md §8 scenario 3). It is not secure
// and exists only for the test suite, the way the teacher's
// params_list.go offers a family of ParamsEBS* sets rather than a
// single one.
var TestParameters = ParametersLiteral[uint32]{
	LWEDimension: 16,
	GLWERank:     1,
	PolyDegree:   1024,

	LWEStdDev:  7.63e-6,
	GLWEStdDev: 3.725e-9,

	BlindRotateParameters: GadgetParametersLiteral[uint32]{
		Base:  1 << 7,
		Level: 4,
	},
	KeySwitchParameters: GadgetParametersLiteral[uint32]{
		Base:  1 << 2,
		Level: 7,
	},
}.Compile()

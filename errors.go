package gatefhe

import "fmt"

// ParameterError reports a malformed Parameters or Encoding shape:
// a polynomial degree smaller than 2p, a modulus smaller
// than two, or a pin count that doesn't match an input vector.
// Raised at the call boundary; retrying with the same arguments will
// not help.
type ParameterError struct {
	Field  string
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("gatefhe: parameter error: %s: %s", e.Field, e.Reason)
}

// EncodingError reports a gate Encoding whose output partition does not
// cover Z_p exactly once: either a gap (some value in neither set) or an
// overlap (some value in both).
type EncodingError struct {
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("gatefhe: encoding error: %s", e.Reason)
}

// KeyGenError reports a fatal failure while sampling secrets or
// deriving the bootstrap/keyswitch keys: RNG exhaustion or an
// allocation failure. There is no partial ClientKey/ServerKey to
// recover from one of these.
type KeyGenError struct {
	Stage string
	Err   error
}

func (e *KeyGenError) Error() string {
	return fmt.Sprintf("gatefhe: key generation failed at %s: %v", e.Stage, e.Err)
}

func (e *KeyGenError) Unwrap() error {
	return e.Err
}

// InternalError reports a failure in the underlying FFT or PBS
// primitive, e.g. blind rotation returning an accumulator whose rank
// or degree differs from the Parameters'. It always indicates a bug in this module,
// never caller misuse.
type InternalError struct {
	Reason string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("gatefhe: internal error: %s", e.Reason)
}

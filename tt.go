package gatefhe

import "math/big"

// combineTT packs a [low, high] 64-bit pair into a single big.Int
// value, used to serialize Encoding.ttValue as the decimal u128
// spec.md §6 specifies.
func combineTT(words [2]uint64) *big.Int {
	low := new(big.Int).SetUint64(words[0])
	high := new(big.Int).SetUint64(words[1])
	high.Lsh(high, 64)
	return high.Or(high, low)
}

// splitTT parses a decimal string into a [low, high] 64-bit pair.
func splitTT(s string) ([2]uint64, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return [2]uint64{}, errInvalidTT
	}
	mask := new(big.Int).SetUint64(^uint64(0))
	low := new(big.Int).And(v, mask)
	high := new(big.Int).Rsh(v, 64)
	return [2]uint64{low.Uint64(), high.Uint64()}, nil
}

var errInvalidTT = &ParameterError{Field: "tt_value", Reason: "not a valid decimal u128"}

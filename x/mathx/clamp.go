package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Byte saturates an integer into a single channel value.
func Byte[T constraints.Integer](v T) uint8 {
	if v < 0 {
		return 0
	}
	if uint64(v) > 255 {
		return 255
	}
	return uint8(v)
}

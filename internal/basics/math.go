package basics

// Abs returns the absolute value of x.
func Abs[T ~int | ~int32 | ~int64](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of a and b.
func Min[T ~int | ~int32 | ~int64](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max[T ~int | ~int32 | ~int64](a, b T) T {
	if a > b {
		return a
	}
	return b
}

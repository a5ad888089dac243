package common

// Coalesce picks the first value that differs from T's zero value, so a staged
// descriptor field left unset falls through to the default listed after it.
// It returns the zero value when every candidate is zero.
func Coalesce[T comparable](candidates ...T) T {
	var zero T
	for _, c := range candidates {
		if c != zero {
			return c
		}
	}
	return zero
}

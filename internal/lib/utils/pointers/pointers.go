package pointers

// Pointer casts T type to *T
func Pointer[T any](t T) *T {
	return &t
}

// Value returns the value behind p
// or zero value for nil.
func Value[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

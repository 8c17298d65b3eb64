package patch

// Coalesce returns *ptr, or fallback when ptr is nil.
func Coalesce[T any](ptr *T, fallback T) T {
	if ptr != nil {
		return *ptr
	}
	return fallback
}

// Set returns a pointer to v, for filling optional patch fields.
func Set[T any](v T) *T {
	return &v
}

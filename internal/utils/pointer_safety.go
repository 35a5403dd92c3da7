package utils

// Ptr returns a pointer to a copy of v, for optional fields and filters.
func Ptr[T any](v T) *T {
	return &v
}

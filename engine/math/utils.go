package math

import "golang.org/x/exp/constraints"

// Clamp limits f to [low, high]. Used for pipeline tunables (blur scaling,
// exposure, spot cone angles) as well as integer counts.
func Clamp[T constraints.Ordered](f, low, high T) T {
	return max(low, min(f, high))
}

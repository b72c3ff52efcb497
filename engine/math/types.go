package math

// Vec3 is a point or direction in world or light space.
type Vec3 struct {
	X, Y, Z float32
}

/**
 * @brief A 4x4 matrix stored row by row. Points are row vectors, so a
 * transform applied first is on the left: view.Mul(projection).
 */
type Mat4 struct {
	/** @brief The matrix elements */
	Data [16]float32
}

package features

import "math"

// Vector2 is a planar vector in the recording's local coordinate frame.
type Vector2 struct {
	X float64
	Y float64
}

// Norm returns the Euclidean magnitude of the vector.
func (vector Vector2) Norm() float64 {
	return math.Hypot(vector.X, vector.Y)
}

// DistanceTo returns the Euclidean distance between two points.
func (vector Vector2) DistanceTo(other Vector2) float64 {
	return math.Hypot(other.X-vector.X, other.Y-vector.Y)
}

package scene

import "fmt"

// Vec3 is a 3D vector. It is an array, not a struct, so that it
// JSON-encodes as [x, y, z] the way the renderer expects.
type Vec3 [3]float64

// Add returns the component-wise sum of v and w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// Scale returns v scaled by f.
func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v[0] * f, v[1] * f, v[2] * f}
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v[0], v[1], v[2])
}

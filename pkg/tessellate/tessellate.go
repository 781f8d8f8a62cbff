// Package tessellate converts geometry kernel solids into renderable
// scene primitives. Triangle meshes become Surface contents and bounding
// boxes become Lines wireframes.
package tessellate

import (
	"fmt"

	"github.com/eshark9312/crystaltoolkit/pkg/kernel"
	"github.com/eshark9312/crystaltoolkit/pkg/scene"
)

// Surface meshes a solid with the kernel and returns it as a scene
// surface. Every triangle contributes three positions carrying the face
// normal, so Positions and Normals always have equal length. Color and
// opacity may be nil to defer to renderer defaults.
func Surface(k kernel.Kernel, solid kernel.Solid, color *string, opacity *float64) (scene.Surface, error) {
	mesh, err := k.ToMesh(solid)
	if err != nil {
		return scene.Surface{}, fmt.Errorf("tessellate: ToMesh failed: %w", err)
	}
	if mesh.IsEmpty() {
		return scene.Surface{}, fmt.Errorf("tessellate: solid produced an empty mesh")
	}

	positions := unflatten(mesh.Vertices)
	normals := unflatten(mesh.Normals)

	return scene.Surface{
		Positions: positions,
		Normals:   normals,
		Color:     color,
		Opacity:   opacity,
	}, nil
}

// BoxFrame returns the 12 edges of a solid's axis-aligned bounding box as
// a Lines content: 24 positions, consecutive pairs forming segments.
func BoxFrame(solid kernel.Solid, color *string, lineWidth *float64) scene.Lines {
	min, max := solid.BoundingBox()

	// The 8 box corners, indexed by a 3-bit mask choosing min or max
	// per axis.
	var corners [8]scene.Vec3
	for i := 0; i < 8; i++ {
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				corners[i][axis] = max[axis]
			} else {
				corners[i][axis] = min[axis]
			}
		}
	}

	// Each edge connects two corners whose masks differ in one bit.
	positions := make([]scene.Vec3, 0, 24)
	for i := 0; i < 8; i++ {
		for axis := 0; axis < 3; axis++ {
			j := i | 1<<axis
			if j == i {
				continue
			}
			positions = append(positions, corners[i], corners[j])
		}
	}

	return scene.Lines{
		Positions: positions,
		Color:     color,
		LineWidth: lineWidth,
	}
}

// unflatten converts flat xyz triples into Vec3 values.
func unflatten(flat []float64) []scene.Vec3 {
	out := make([]scene.Vec3, 0, len(flat)/3)
	for i := 0; i+2 < len(flat); i += 3 {
		out = append(out, scene.Vec3{flat[i], flat[i+1], flat[i+2]})
	}
	return out
}

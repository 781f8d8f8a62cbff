package kernel

// Mesh is a triangle mesh produced by a geometry kernel.
// Vertices and Normals are flat xyz triples, three vertices per triangle.
type Mesh struct {
	Vertices []float64
	Normals  []float64
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Vertices) / 9
}

// IsEmpty reports whether the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

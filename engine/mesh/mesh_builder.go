package mesh

// MeshBuilderOption is a functional option used to configure a Mesh during construction.
type MeshBuilderOption func(*mesh)

// WithVertices sets the mesh's vertex list.
//
// Parameters:
//   - vertices: the vertices to use
//
// Returns:
//   - MeshBuilderOption: a function that sets the vertices
func WithVertices(vertices []GPUVertex) MeshBuilderOption {
	return func(m *mesh) {
		m.vertices = vertices
	}
}

// WithIndices sets the mesh's triangle index list.
//
// Parameters:
//   - indices: three indices per triangle, clockwise front faces
//
// Returns:
//   - MeshBuilderOption: a function that sets the indices
func WithIndices(indices []uint32) MeshBuilderOption {
	return func(m *mesh) {
		m.indices = indices
	}
}

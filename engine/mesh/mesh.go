package mesh

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// mesh is the implementation of the Mesh interface.
type mesh struct {
	name           string
	vertices       []GPUVertex
	indices        []uint32
	boundingRadius float32

	vertexData, indexData []byte

	// GPU resources, populated by the renderer on upload.
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
}

// Mesh defines the interface for indexed triangle geometry.
//
// A Mesh holds CPU-side vertices (position + normal) and 32-bit indices, their packed
// byte forms ready for upload, and the GPU vertex and index buffers once the renderer
// has uploaded them. Front faces wind clockwise as seen from outside, matching the
// left-handed coordinate system used throughout the engine.
type Mesh interface {
	// Name retrieves the mesh identifier, used as a GPU debug label.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// Vertices returns the CPU-side vertex list.
	//
	// Returns:
	//   - []GPUVertex: the vertices
	Vertices() []GPUVertex

	// Indices returns the CPU-side triangle index list.
	//
	// Returns:
	//   - []uint32: the indices, three per triangle
	Indices() []uint32

	// VertexData returns the packed vertex bytes for GPU upload.
	//
	// Returns:
	//   - []byte: vertex buffer contents
	VertexData() []byte

	// IndexData returns the packed index bytes for GPU upload.
	//
	// Returns:
	//   - []byte: index buffer contents
	IndexData() []byte

	// IndexCount returns the number of indices to draw.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// BoundingRadius returns the radius of the smallest origin-centered sphere that
	// contains every vertex, in model space.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// VertexBuffer returns the GPU vertex buffer, or nil before upload.
	//
	// Returns:
	//   - *wgpu.Buffer: the vertex buffer or nil
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the GPU index buffer, or nil before upload.
	//
	// Returns:
	//   - *wgpu.Buffer: the index buffer or nil
	IndexBuffer() *wgpu.Buffer

	// SetGPUBuffers stores the GPU buffers created by the renderer.
	//
	// Parameters:
	//   - vertex: the vertex buffer
	//   - index: the index buffer
	SetGPUBuffers(vertex, index *wgpu.Buffer)

	// Uploaded reports whether both GPU buffers are present.
	//
	// Returns:
	//   - bool: true once the renderer has uploaded the mesh
	Uploaded() bool

	// Release releases the GPU buffers. The CPU data is kept so the mesh can be uploaded again.
	Release()
}

var _ Mesh = &mesh{}

// NewMesh creates a Mesh from the provided options and packs its vertex and index data.
//
// Parameters:
//   - name: the mesh identifier
//   - options: functional options providing the geometry
//
// Returns:
//   - Mesh: the new mesh
func NewMesh(name string, options ...MeshBuilderOption) Mesh {
	m := &mesh{name: name}
	for _, opt := range options {
		opt(m)
	}
	m.vertexData = marshalVertices(m.vertices)
	m.indexData = marshalIndices(m.indices)
	m.boundingRadius = computeBoundingRadius(m.vertices)
	return m
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) Vertices() []GPUVertex {
	return m.vertices
}

func (m *mesh) Indices() []uint32 {
	return m.indices
}

func (m *mesh) VertexData() []byte {
	return m.vertexData
}

func (m *mesh) IndexData() []byte {
	return m.indexData
}

func (m *mesh) IndexCount() int {
	return len(m.indices)
}

func (m *mesh) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *mesh) VertexBuffer() *wgpu.Buffer {
	return m.vertexBuffer
}

func (m *mesh) IndexBuffer() *wgpu.Buffer {
	return m.indexBuffer
}

func (m *mesh) SetGPUBuffers(vertex, index *wgpu.Buffer) {
	m.vertexBuffer = vertex
	m.indexBuffer = index
}

func (m *mesh) Uploaded() bool {
	return m.vertexBuffer != nil && m.indexBuffer != nil
}

func (m *mesh) Release() {
	if m.vertexBuffer != nil {
		m.vertexBuffer.Release()
		m.vertexBuffer = nil
	}
	if m.indexBuffer != nil {
		m.indexBuffer.Release()
		m.indexBuffer = nil
	}
}

// computeBoundingRadius returns the largest vertex distance from the model-space origin.
func computeBoundingRadius(vertices []GPUVertex) float32 {
	var r float32
	for _, v := range vertices {
		if l := mgl32.Vec3(v.Position).Len(); l > r {
			r = l
		}
	}
	return r
}

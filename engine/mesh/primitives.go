package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// geometry accumulates vertices and clockwise-front triangles for the primitive builders.
type geometry struct {
	vertices []GPUVertex
	indices  []uint32
}

func (g *geometry) vertex(p, n mgl32.Vec3) uint32 {
	g.vertices = append(g.vertices, GPUVertex{Position: p, Normal: n})
	return uint32(len(g.vertices) - 1)
}

// triangle appends a, b, c so that the triangle's face normal agrees with outward, flipping
// the winding if needed. In the left-handed convention cross(b-a, c-a) points out of a
// clockwise front face.
func (g *geometry) triangle(a, b, c uint32, outward mgl32.Vec3) {
	pa := mgl32.Vec3(g.vertices[a].Position)
	pb := mgl32.Vec3(g.vertices[b].Position)
	pc := mgl32.Vec3(g.vertices[c].Position)
	if pb.Sub(pa).Cross(pc.Sub(pa)).Dot(outward) < 0 {
		b, c = c, b
	}
	g.indices = append(g.indices, a, b, c)
}

// quad appends two triangles covering the corners p0..p3 given in perimeter order.
func (g *geometry) quad(p0, p1, p2, p3, n mgl32.Vec3) {
	i0 := g.vertex(p0, n)
	i1 := g.vertex(p1, n)
	i2 := g.vertex(p2, n)
	i3 := g.vertex(p3, n)
	g.triangle(i0, i1, i2, n)
	g.triangle(i0, i2, i3, n)
}

func (g *geometry) build(name string) Mesh {
	return NewMesh(name, WithVertices(g.vertices), WithIndices(g.indices))
}

// NewBox creates an axis-aligned box centered on the origin with flat-shaded faces.
//
// Parameters:
//   - name: the mesh identifier
//   - w, h, d: the box extents along X, Y and Z
//
// Returns:
//   - Mesh: the box mesh (24 vertices, 36 indices)
func NewBox(name string, w, h, d float32) Mesh {
	x, y, z := w/2, h/2, d/2
	g := &geometry{}

	g.quad(mgl32.Vec3{x, -y, -z}, mgl32.Vec3{x, y, -z}, mgl32.Vec3{x, y, z}, mgl32.Vec3{x, -y, z}, mgl32.Vec3{1, 0, 0})
	g.quad(mgl32.Vec3{-x, -y, -z}, mgl32.Vec3{-x, -y, z}, mgl32.Vec3{-x, y, z}, mgl32.Vec3{-x, y, -z}, mgl32.Vec3{-1, 0, 0})
	g.quad(mgl32.Vec3{-x, y, -z}, mgl32.Vec3{-x, y, z}, mgl32.Vec3{x, y, z}, mgl32.Vec3{x, y, -z}, mgl32.Vec3{0, 1, 0})
	g.quad(mgl32.Vec3{-x, -y, -z}, mgl32.Vec3{x, -y, -z}, mgl32.Vec3{x, -y, z}, mgl32.Vec3{-x, -y, z}, mgl32.Vec3{0, -1, 0})
	g.quad(mgl32.Vec3{-x, -y, z}, mgl32.Vec3{x, -y, z}, mgl32.Vec3{x, y, z}, mgl32.Vec3{-x, y, z}, mgl32.Vec3{0, 0, 1})
	g.quad(mgl32.Vec3{-x, -y, -z}, mgl32.Vec3{-x, y, -z}, mgl32.Vec3{x, y, -z}, mgl32.Vec3{x, -y, -z}, mgl32.Vec3{0, 0, -1})

	return g.build(name)
}

// NewPlane creates a square in the XZ plane facing +Y, centered on the origin.
//
// Parameters:
//   - name: the mesh identifier
//   - size: the edge length
//
// Returns:
//   - Mesh: the plane mesh (4 vertices, 6 indices)
func NewPlane(name string, size float32) Mesh {
	s := size / 2
	g := &geometry{}
	g.quad(mgl32.Vec3{-s, 0, -s}, mgl32.Vec3{-s, 0, s}, mgl32.Vec3{s, 0, s}, mgl32.Vec3{s, 0, -s}, mgl32.Vec3{0, 1, 0})
	return g.build(name)
}

// NewSphere creates a UV sphere centered on the origin with smooth normals.
//
// Parameters:
//   - name: the mesh identifier
//   - radius: the sphere radius
//   - rings: latitude subdivisions (minimum 2)
//   - segments: longitude subdivisions (minimum 3)
//
// Returns:
//   - Mesh: the sphere mesh
func NewSphere(name string, radius float32, rings, segments int) Mesh {
	rings = max(rings, 2)
	segments = max(segments, 3)
	g := &geometry{}

	for r := 0; r <= rings; r++ {
		theta := math32.Pi * float32(r) / float32(rings)
		for s := 0; s <= segments; s++ {
			phi := 2 * math32.Pi * float32(s) / float32(segments)
			n := mgl32.Vec3{
				math32.Sin(theta) * math32.Cos(phi),
				math32.Cos(theta),
				math32.Sin(theta) * math32.Sin(phi),
			}
			g.vertex(n.Mul(radius), n)
		}
	}

	stride := uint32(segments + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			i0 := uint32(r)*stride + uint32(s)
			i1 := i0 + 1
			i2 := i0 + stride
			i3 := i2 + 1
			// Pole rows collapse one triangle of each quad; skip the degenerate one.
			if r != 0 {
				g.triangle(i0, i1, i2, faceOutward(g, i0, i1, i2))
			}
			if r != rings-1 {
				g.triangle(i1, i3, i2, faceOutward(g, i1, i3, i2))
			}
		}
	}

	return g.build(name)
}

// faceOutward returns the averaged vertex normal of a sphere triangle.
func faceOutward(g *geometry, a, b, c uint32) mgl32.Vec3 {
	return mgl32.Vec3(g.vertices[a].Normal).
		Add(mgl32.Vec3(g.vertices[b].Normal)).
		Add(mgl32.Vec3(g.vertices[c].Normal))
}

package mesh

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertOutwardWinding checks that every triangle's face normal points away from the origin.
func assertOutwardWinding(t *testing.T, m Mesh) {
	t.Helper()
	v := m.Vertices()
	idx := m.Indices()
	require.Zero(t, len(idx)%3)

	for i := 0; i < len(idx); i += 3 {
		a := mgl32.Vec3(v[idx[i]].Position)
		b := mgl32.Vec3(v[idx[i+1]].Position)
		c := mgl32.Vec3(v[idx[i+2]].Position)
		n := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).Mul(1.0 / 3.0)
		assert.Greater(t, n.Dot(centroid), float32(0), "triangle %d winds inward", i/3)
	}
}

func TestNewBox(t *testing.T) {
	m := NewBox("box", 2, 4, 6)

	assert.Equal(t, "box", m.Name())
	assert.Len(t, m.Vertices(), 24)
	assert.Equal(t, 36, m.IndexCount())
	assert.InDelta(t, math.Sqrt(1+4+9), m.BoundingRadius(), 1e-5)
	assertOutwardWinding(t, m)
}

func TestNewSphere(t *testing.T) {
	m := NewSphere("sphere", 2, 8, 12)

	assert.InDelta(t, 2, m.BoundingRadius(), 1e-5)
	assert.NotZero(t, m.IndexCount())
	assertOutwardWinding(t, m)
}

func TestNewPlaneFacesUp(t *testing.T) {
	m := NewPlane("ground", 10)
	v := m.Vertices()
	idx := m.Indices()

	require.Equal(t, 6, len(idx))
	a := mgl32.Vec3(v[idx[0]].Position)
	b := mgl32.Vec3(v[idx[1]].Position)
	c := mgl32.Vec3(v[idx[2]].Position)
	assert.Greater(t, b.Sub(a).Cross(c.Sub(a)).Y(), float32(0))
}

func TestPackedDataSizes(t *testing.T) {
	m := NewBox("box", 1, 1, 1)

	assert.Len(t, m.VertexData(), 24*VertexStride)
	assert.Len(t, m.IndexData(), 36*4)
	assert.Equal(t, m.Indices()[5], binary.LittleEndian.Uint32(m.IndexData()[20:24]))
}

func TestUploadedRequiresBothBuffers(t *testing.T) {
	m := NewPlane("ground", 1)
	assert.False(t, m.Uploaded())
	assert.Nil(t, m.VertexBuffer())

	m.Release()
	assert.False(t, m.Uploaded())
}

package game_object

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-shadow/engine/mesh"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewGameObjectDefaults(t *testing.T) {
	a := NewGameObject()
	b := NewGameObject()

	assert.NotEqual(t, a.ID(), b.ID())
	assert.True(t, a.Enabled())
	assert.True(t, a.CastsShadow())
	assert.Nil(t, a.Mesh())
}

func TestWorldMatrixFollowsOptions(t *testing.T) {
	obj := NewGameObject(WithPosition(1, 2, 3), WithScale(2, 2, 2))
	p := obj.WorldMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.True(t, p.Vec3().ApproxEqual(mgl32.Vec3{3, 2, 3}))
}

func TestBoundingSphereScalesWithLargestAxis(t *testing.T) {
	obj := NewGameObject(
		WithMesh(mesh.NewSphere("s", 1, 6, 8)),
		WithPosition(0, 5, 0),
		WithScale(1, 3, -2),
	)
	center, radius := obj.BoundingSphere()

	assert.True(t, center.ApproxEqual(mgl32.Vec3{0, 5, 0}))
	assert.InDelta(t, 3, radius, 1e-5)
}

func TestTickSpins(t *testing.T) {
	obj := NewGameObject(WithRotationSpeed(0, math.Pi/2, 0))
	obj.Tick(1)
	assert.True(t, obj.Transform().Forward().ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-5))
}

func TestSetters(t *testing.T) {
	obj := NewGameObject(WithID(7), WithColor(1, 0, 0))
	obj.SetEnabled(false)
	obj.SetCastsShadow(false)

	assert.Equal(t, uint64(7), obj.ID())
	assert.False(t, obj.Enabled())
	assert.False(t, obj.CastsShadow())
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, obj.Color())
}

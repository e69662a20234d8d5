package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCameraLooksDownPositiveZ(t *testing.T) {
	c := NewCamera(WithPosition(0, 2, -10))

	assert.True(t, c.Position().ApproxEqual(mgl32.Vec3{0, 2, -10}))

	// A point straight ahead ends up on the view axis at its distance.
	p := c.ViewMatrix().Mul4x1(mgl32.Vec4{0, 2, 0, 1})
	assert.InDelta(t, 0, p.X(), 1e-4)
	assert.InDelta(t, 0, p.Y(), 1e-4)
	assert.InDelta(t, 10, p.Z(), 1e-4)
}

func TestProjectionUsesZeroToOneDepth(t *testing.T) {
	c := NewCamera(WithClipPlanes(1, 100), WithAspect(16.0/9.0))

	near := c.ProjectionMatrix().Mul4x1(mgl32.Vec4{0, 0, 1, 1})
	far := c.ProjectionMatrix().Mul4x1(mgl32.Vec4{0, 0, 100, 1})
	assert.InDelta(t, 0, near.Z()/near.W(), 1e-4)
	assert.InDelta(t, 1, far.Z()/far.W(), 1e-4)
}

func TestMoveFollowsForward(t *testing.T) {
	c := NewCamera(WithMoveSpeed(2))
	c.Move(1, 0, 0, 0.5)
	assert.True(t, c.Position().ApproxEqual(mgl32.Vec3{0, 0, 1}))

	c.Move(0, 1, 1, 1)
	assert.True(t, c.Position().ApproxEqualThreshold(mgl32.Vec3{1, 1, 1}, 1e-5))
}

func TestLookClampsPitch(t *testing.T) {
	c := NewCamera(WithLookSpeed(1))
	c.Look(0, 10)
	c.Update()

	fwd := c.Transform().Forward()
	assert.Less(t, fwd.Y(), float32(0))
	assert.Greater(t, fwd.Z(), float32(0))
	assert.True(t, common.IsFiniteMat4(c.ViewMatrix()))
}

func TestLookTurnsRight(t *testing.T) {
	c := NewCamera(WithLookSpeed(1))
	c.Look(math.Pi/2, 0)

	assert.True(t, c.Transform().Forward().ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-5))
}

func TestSetAspectRecomputesProjection(t *testing.T) {
	c := NewCamera()
	before := c.ProjectionMatrix()
	c.SetAspect(2)

	assert.InDelta(t, before[0]/2, c.ProjectionMatrix()[0], 1e-5)
}

func TestFlyControllerApply(t *testing.T) {
	c := NewCamera(WithMoveSpeed(1), WithLookSpeed(1))
	fc := NewFlyController()

	fc.KeyDown(common.KeyW)
	fc.Apply(c, 1)
	assert.True(t, c.Position().ApproxEqual(mgl32.Vec3{0, 0, 1}))

	fc.KeyUp(common.KeyW)
	fc.Apply(c, 1)
	assert.True(t, c.Position().ApproxEqual(mgl32.Vec3{0, 0, 1}))

	// The first cursor sample only establishes a reference point.
	fc.MouseMove(100, 100)
	fc.MouseMove(100, 100)
	fc.Apply(c, 1)
	assert.True(t, c.Transform().Forward().ApproxEqual(mgl32.Vec3{0, 0, 1}))
}

func TestFlyControllerResetCursor(t *testing.T) {
	c := NewCamera(WithLookSpeed(0.01))
	fc := NewFlyController()

	fc.MouseMove(10, 10)
	fc.ResetCursor()
	fc.MouseMove(400, 300)
	fc.Apply(c, 1)
	assert.True(t, c.Transform().Forward().ApproxEqual(mgl32.Vec3{0, 0, 1}))

	fc.MouseMove(420, 300)
	fc.Apply(c, 1)
	assert.False(t, c.Transform().Forward().ApproxEqual(mgl32.Vec3{0, 0, 1}))
}

func TestGPUCameraUniformMarshal(t *testing.T) {
	c := NewCamera(WithPosition(1, 2, 3))
	u := NewGPUCameraUniform(c)
	buf := u.Marshal()

	require.Len(t, buf, 80)
	assert.Equal(t, float32(2), math.Float32frombits(binary.LittleEndian.Uint32(buf[68:72])))
}

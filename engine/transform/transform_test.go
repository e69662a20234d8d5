package transform

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const tolerance = 1e-4

func assertVecClose(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, tolerance), "want %v, got %v", want, got)
}

func TestNewTransformDefaults(t *testing.T) {
	tr := NewTransform()

	assertVecClose(t, mgl32.Vec3{0, 0, 0}, tr.Position())
	assertVecClose(t, mgl32.Vec3{1, 1, 1}, tr.Scale())
	assertVecClose(t, mgl32.Vec3{0, 0, 1}, tr.Forward())
	assertVecClose(t, mgl32.Vec3{0, 1, 0}, tr.Up())
	assertVecClose(t, mgl32.Vec3{1, 0, 0}, tr.Right())
	assert.True(t, tr.WorldMatrix().ApproxEqualThreshold(mgl32.Ident4(), tolerance))
}

func TestRotationReorientsBasis(t *testing.T) {
	tr := NewTransform()
	tr.SetRotationAxisAngle(mgl32.Vec3{0, 1, 0}, math.Pi/2)

	// A quarter turn about +Y carries +Z onto +X.
	assertVecClose(t, mgl32.Vec3{1, 0, 0}, tr.Forward())
	assertVecClose(t, mgl32.Vec3{0, 1, 0}, tr.Up())
	assertVecClose(t, mgl32.Vec3{0, 0, -1}, tr.Right())
}

func TestWorldMatrixComposesTranslateRotateScale(t *testing.T) {
	tr := NewTransform(
		WithPosition(1, 2, 3),
		WithScale(2, 2, 2),
	)
	tr.SetRotationAxisAngle(mgl32.Vec3{0, 1, 0}, math.Pi/2)

	p := tr.WorldMatrix().Mul4x1(mgl32.Vec4{0, 0, 1, 1})
	// Scale to (0,0,2), rotate to (2,0,0), translate to (3,2,3).
	assertVecClose(t, mgl32.Vec3{3, 2, 3}, p.Vec3())
}

func TestWorldMatrixIsRecomputedAfterMutation(t *testing.T) {
	tr := NewTransform()
	first := tr.WorldMatrix()

	tr.SetPosition(mgl32.Vec3{5, 0, 0})
	second := tr.WorldMatrix()

	assert.False(t, first.ApproxEqualThreshold(second, tolerance))
	assert.InDelta(t, 5, second[12], tolerance)
}

func TestMoveRelativeFollowsOrientation(t *testing.T) {
	tr := NewTransform()
	tr.SetRotationAxisAngle(mgl32.Vec3{0, 1, 0}, math.Pi/2)
	tr.MoveRelative(mgl32.Vec3{0, 0, 2})

	assertVecClose(t, mgl32.Vec3{2, 0, 0}, tr.Position())

	tr.MoveAbsolute(mgl32.Vec3{0, 1, 0})
	assertVecClose(t, mgl32.Vec3{2, 1, 0}, tr.Position())
}

func TestInverseTransposeForUniformScale(t *testing.T) {
	tr := NewTransform(WithScale(3, 3, 3))
	it := tr.WorldInverseTransposeMatrix()

	n := it.Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3()
	assertVecClose(t, mgl32.Vec3{0, 1.0 / 3.0, 0}, n)
}

func TestPitchYawRoll(t *testing.T) {
	tr := NewTransform()
	tr.SetPitchYawRoll(0, math.Pi/2, 0)
	assertVecClose(t, mgl32.Vec3{1, 0, 0}, tr.Forward())

	tr.RotatePitchYawRoll(0, -math.Pi/2, 0)
	assertVecClose(t, mgl32.Vec3{0, 0, 1}, tr.Forward())
}

func TestZeroAxisFallsBackToIdentity(t *testing.T) {
	tr := NewTransform()
	tr.SetRotationAxisAngle(mgl32.Vec3{}, 1)
	assertVecClose(t, mgl32.Vec3{0, 0, 1}, tr.Forward())
}

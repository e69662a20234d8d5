package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-4

func assertVecClose(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, tolerance), "want %v, got %v", want, got)
}

func TestMinimalRotationMapsForwardOntoTarget(t *testing.T) {
	targets := []mgl32.Vec3{
		{1, 0, 0},
		{-1, 0, 0},
		{0, 1, 0},
		{0, -1, 0},
		mgl32.Vec3{1, -1, 1}.Normalize(),
		mgl32.Vec3{0.2, -0.9, -0.1}.Normalize(),
	}

	for _, target := range targets {
		q := MinimalRotation(CanonicalForward, target)
		assertVecClose(t, target, q.Rotate(CanonicalForward))
	}
}

func TestMinimalRotationParallel(t *testing.T) {
	q := MinimalRotation(CanonicalForward, CanonicalForward)
	assert.True(t, q.ApproxEqualThreshold(mgl32.QuatIdent(), tolerance))
}

func TestMinimalRotationAntiParallel(t *testing.T) {
	back := mgl32.Vec3{0, 0, -1}
	q := MinimalRotation(CanonicalForward, back)

	assert.False(t, math.IsNaN(float64(q.W)))
	assertVecClose(t, back, q.Rotate(CanonicalForward))
	// Half turn about +Y keeps +Y as the up vector.
	assertVecClose(t, WorldUp, q.Rotate(WorldUp))
}

func TestLookToLHMapsEyeAndDirection(t *testing.T) {
	eye := mgl32.Vec3{3, 4, 5}
	dir := mgl32.Vec3{0, 0, 1}
	view := LookToLH(eye, dir, WorldUp)

	origin := view.Mul4x1(eye.Vec4(1))
	assertVecClose(t, mgl32.Vec3{}, origin.Vec3())

	ahead := view.Mul4x1(eye.Add(dir.Mul(10)).Vec4(1))
	assertVecClose(t, mgl32.Vec3{0, 0, 10}, ahead.Vec3())
}

func TestLookToLHParallelUpStaysFinite(t *testing.T) {
	view := LookToLH(mgl32.Vec3{}, WorldUp, WorldUp)
	assert.True(t, IsFiniteMat4(view))
}

func TestOrthographicRoundTrip(t *testing.T) {
	proj := OrthographicLH(65, 40, 1, 250)
	w, h := OrthographicExtent(proj)
	assert.InDelta(t, 65, w, tolerance)
	assert.InDelta(t, 40, h, tolerance)

	nearClip := proj.Mul4x1(mgl32.Vec4{0, 0, 1, 1})
	farClip := proj.Mul4x1(mgl32.Vec4{0, 0, 250, 1})
	assert.InDelta(t, 0, nearClip.Z()/nearClip.W(), tolerance)
	assert.InDelta(t, 1, farClip.Z()/farClip.W(), tolerance)
}

func TestPerspectiveRoundTrip(t *testing.T) {
	fov := mgl32.DegToRad(90.1)
	proj := PerspectiveFovLH(fov, 1, 0.1, 20)

	gotFov, aspect, near, far := PerspectiveParams(proj)
	assert.InDelta(t, fov, gotFov, tolerance)
	assert.InDelta(t, 1, aspect, tolerance)
	assert.InDelta(t, 0.1, near, tolerance)
	assert.InDelta(t, 20, far, 1e-2)
}

func TestIsFiniteMat4(t *testing.T) {
	m := mgl32.Ident4()
	require.True(t, IsFiniteMat4(m))

	m[5] = float32(math.NaN())
	assert.False(t, IsFiniteMat4(m))

	m[5] = float32(math.Inf(1))
	assert.False(t, IsFiniteMat4(m))
}

func TestMat4BytesLayout(t *testing.T) {
	buf := Mat4Bytes(nil, mgl32.Ident4())
	require.Len(t, buf, 64)
	// Element 0 is 1.0f = 0x3f800000 little-endian.
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3f}, buf[0:4])
	assert.Equal(t, []byte{0, 0, 0, 0}, buf[4:8])
}

func TestFrustumCullsSpheres(t *testing.T) {
	view := LookToLH(mgl32.Vec3{}, CanonicalForward, WorldUp)
	proj := OrthographicLH(20, 20, 1, 100)
	f := ExtractFrustumFromMatrix(proj.Mul4(view))

	assert.True(t, f.IntersectsSphere(mgl32.Vec3{0, 0, 50}, 1))
	assert.True(t, f.IntersectsSphere(mgl32.Vec3{10.5, 0, 50}, 1))
	assert.False(t, f.IntersectsSphere(mgl32.Vec3{30, 0, 50}, 1))
	assert.False(t, f.IntersectsSphere(mgl32.Vec3{0, 0, -10}, 1))
	assert.False(t, f.IntersectsSphere(mgl32.Vec3{0, 0, 200}, 1))
}

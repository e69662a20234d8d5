package shadow

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveDirectionalDegenerateDirections(t *testing.T) {
	s, _ := newTestSystem(t)

	for _, dir := range []mgl32.Vec3{{0, 0, 1}, {0, 0, -1}, {0, 1, 0}, {0, -1, 0}} {
		l := light.NewLight(light.LightTypeDirectional,
			light.WithDirection(dir.X(), dir.Y(), dir.Z()),
			light.WithCastsShadows(true))

		m, ok := s.DeriveLightMatrices(l, 0, mgl32.Vec3{3, 1, -2})
		require.True(t, ok, "direction %v", dir)
		assert.True(t, common.IsFiniteMat4(m.View), "direction %v", dir)
		assert.True(t, common.IsFiniteMat4(m.Proj), "direction %v", dir)

		// View space +Z must follow the light direction.
		ahead := m.View.Mul4x1(dir.Vec4(0)).Vec3()
		assert.True(t, ahead.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-4), "direction %v gives %v", dir, ahead)
	}
}

func TestDeriveCascadesShareViewWithGrowingExtents(t *testing.T) {
	s, _ := newTestSystem(t, WithCascades(4))
	l := directional(true)
	viewer := mgl32.Vec3{10, 2, -5}

	var views []mgl32.Mat4
	var widths []float32
	for c := 0; c < 4; c++ {
		m, ok := s.DeriveLightMatrices(l, c, viewer)
		require.True(t, ok)
		views = append(views, m.View)
		w, h := common.OrthographicExtent(m.Proj)
		assert.InDelta(t, w, h, 1e-3)
		widths = append(widths, w)
	}

	for _, v := range views[1:] {
		assert.Equal(t, views[0], v)
	}
	for i := 1; i < len(widths); i++ {
		assert.Greater(t, widths[i], widths[i-1])
	}
	assert.InDelta(t, 20, widths[0], 1e-3)
	assert.InDelta(t, 400, widths[3], 1e-2)
}

func TestDeriveCascadeIndexPastCountFails(t *testing.T) {
	s, _ := newTestSystem(t, WithCascades(2), WithCascadeExtents(10, 30, 90))
	l := directional(true)

	for c, want := range []float32{10, 30} {
		m, ok := s.DeriveLightMatrices(l, c, mgl32.Vec3{})
		require.True(t, ok)
		w, _ := common.OrthographicExtent(m.Proj)
		assert.InDelta(t, want, w, 1e-3, "cascade %d", c)
		assert.True(t, common.IsFiniteMat4(m.Proj))
	}
	_, ok := s.DeriveLightMatrices(l, 2, mgl32.Vec3{})
	assert.False(t, ok)
}

func TestDeriveDirectionalEyeFollowsViewer(t *testing.T) {
	s, _ := newTestSystem(t)
	l := light.NewLight(light.LightTypeDirectional, light.WithDirection(0, -1, 0), light.WithCastsShadows(true))
	viewer := mgl32.Vec3{4, 0, 7}

	m, ok := s.DeriveLightMatrices(l, 0, viewer)
	require.True(t, ok)

	// The eye sits 65 units above the viewer raised by 15, so the viewer lies 80 units deep.
	eye := mgl32.Vec3{4, 15 + 65, 7}
	assert.True(t, m.View.Mul4x1(eye.Vec4(1)).Vec3().ApproxEqualThreshold(mgl32.Vec3{}, 1e-3))
	assert.InDelta(t, 80, m.View.Mul4x1(viewer.Vec4(1)).Z(), 1e-3)
}

func TestDerivePointFaces(t *testing.T) {
	s, _ := newTestSystem(t)
	l := point(true, 20)

	for face, dir := range PointFaceDirections {
		m, ok := s.DeriveLightMatrices(l, face, mgl32.Vec3{})
		require.True(t, ok)
		require.True(t, common.IsFiniteMat4(m.View), "face %d", face)

		origin := m.View.Mul4x1(l.Position().Vec4(1)).Vec3()
		assert.True(t, origin.ApproxEqualThreshold(mgl32.Vec3{}, 1e-4), "face %d", face)

		ahead := m.View.Mul4x1(dir.Vec4(0)).Vec3()
		assert.True(t, ahead.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-4), "face %d looks along %v", face, ahead)

		fov, _, _, far := common.PerspectiveParams(m.Proj)
		assert.InDelta(t, mgl32.DegToRad(90.1), fov, 1e-4)
		assert.InDelta(t, 20, far, 1e-2)
	}

	_, ok := s.DeriveLightMatrices(l, light.PointFaceCount, mgl32.Vec3{})
	assert.False(t, ok)
}

func TestDeriveSpotUsesConeAngleInRadians(t *testing.T) {
	s, _ := newTestSystem(t)
	cone := mgl32.DegToRad(45)
	l := light.NewLight(light.LightTypeSpot,
		light.WithPosition(1, 2, 3),
		light.WithDirection(1, -1, 0),
		light.WithConeAngle(cone),
		light.WithRange(30),
		light.WithCastsShadows(true))

	m, ok := s.DeriveLightMatrices(l, 0, mgl32.Vec3{})
	require.True(t, ok)

	fov, aspect, near, far := common.PerspectiveParams(m.Proj)
	assert.InDelta(t, cone, fov, 1e-4)
	assert.InDelta(t, 1, aspect, 1e-5)
	assert.InDelta(t, 0.1, near, 1e-4)
	assert.InDelta(t, 30, far, 1e-2)

	ahead := m.View.Mul4x1(l.Direction().Vec4(0)).Vec3()
	assert.True(t, ahead.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-4))

	_, ok = s.DeriveLightMatrices(l, 1, mgl32.Vec3{})
	assert.False(t, ok)
}

func TestDeriveSpotClampsDegenerateCone(t *testing.T) {
	s, _ := newTestSystem(t)
	for _, cone := range []float32{0, mgl32.DegToRad(180), mgl32.DegToRad(270)} {
		l := light.NewLight(light.LightTypeSpot, light.WithConeAngle(cone), light.WithRange(0), light.WithCastsShadows(true))
		m, ok := s.DeriveLightMatrices(l, 0, mgl32.Vec3{})
		require.True(t, ok)
		assert.True(t, common.IsFiniteMat4(m.Proj), "cone %v", cone)
	}
}

func TestDeriveSkipsNonCasters(t *testing.T) {
	s, _ := newTestSystem(t)

	for _, l := range []light.Light{directional(false), point(false, 10), spot(false)} {
		_, ok := s.DeriveLightMatrices(l, 0, mgl32.Vec3{})
		assert.False(t, ok, l.Type().String())
	}
	_, ok := s.DeriveLightMatrices(nil, 0, mgl32.Vec3{})
	assert.False(t, ok)
	_, ok = s.DeriveLightMatrices(spot(true), -1, mgl32.Vec3{})
	assert.False(t, ok)
}

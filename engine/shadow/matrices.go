package shadow

import (
	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/transform"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// minConeAngle and maxConeAngle bound the spot projection field of view so the
// perspective matrix stays finite.
const (
	minConeAngle float32 = 1e-3
	maxConeAngle float32 = math32.Pi - 1e-3
)

// PointFaceDirections are the view directions of the six point light cube faces, in slot
// order. The lit pass selects a face by the dominant axis of the light-to-fragment vector
// using the same order.
var PointFaceDirections = [light.PointFaceCount]mgl32.Vec3{
	{0, 0, 1},
	{1, 0, 0},
	{0, 0, -1},
	{-1, 0, 0},
	{0, 1, 0},
	{0, -1, 0},
}

// lightBasis orients a transient light transform so its forward axis points along dir and
// returns the resulting forward and up vectors.
func lightBasis(dir mgl32.Vec3) (forward, up mgl32.Vec3) {
	dir = common.SafeNormalize(dir, mgl32.Vec3{0, -1, 0})
	t := transform.NewTransform(transform.WithRotation(common.MinimalRotation(common.CanonicalForward, dir)))
	return t.Forward(), t.Up()
}

// cascadeProjection returns the orthographic projection of cascade idx. NewShadowSystem
// guarantees an extent for every cascade.
func (s *shadowSystemImpl) cascadeProjection(idx int) mgl32.Mat4 {
	e := s.extents[idx]
	return common.OrthographicLH(e, e, s.cascadeNear, s.cascadeFar)
}

// perspectiveFar keeps the far plane strictly beyond the near plane for lights with a tiny
// or zero range.
func (s *shadowSystemImpl) perspectiveFar(lightRange float32) float32 {
	return max(lightRange, s.perspectiveNear*2)
}

func (s *shadowSystemImpl) DeriveLightMatrices(l light.Light, idx int, viewer mgl32.Vec3) (LightMatrices, bool) {
	if l == nil || !l.CastsShadows() || idx < 0 {
		return LightMatrices{}, false
	}

	switch l.Type() {
	case light.LightTypeDirectional:
		if idx >= s.numCascades {
			return LightMatrices{}, false
		}
		forward, up := lightBasis(l.Direction())
		anchor := viewer.Add(mgl32.Vec3{0, s.anchorHeight, 0})
		eye := anchor.Sub(forward.Mul(s.anchorDistance))
		return LightMatrices{
			View: common.LookToLH(eye, forward, up),
			Proj: s.cascadeProjection(idx),
		}, true

	case light.LightTypePoint:
		if idx >= light.PointFaceCount {
			return LightMatrices{}, false
		}
		forward, up := lightBasis(PointFaceDirections[idx])
		return LightMatrices{
			View: common.LookToLH(l.Position(), forward, up),
			Proj: common.PerspectiveFovLH(s.pointFOV, 1, s.perspectiveNear, s.perspectiveFar(l.Range())),
		}, true

	case light.LightTypeSpot:
		if idx != 0 {
			return LightMatrices{}, false
		}
		forward, up := lightBasis(l.Direction())
		fov := mgl32.Clamp(l.ConeAngle(), minConeAngle, maxConeAngle)
		return LightMatrices{
			View: common.LookToLH(l.Position(), forward, up),
			Proj: common.PerspectiveFovLH(fov, 1, s.perspectiveNear, s.perspectiveFar(l.Range())),
		}, true
	}

	return LightMatrices{}, false
}

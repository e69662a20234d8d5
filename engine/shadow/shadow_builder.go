package shadow

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"
)

// ShadowBuilderOption is a functional option for configuring a ShadowSystem.
type ShadowBuilderOption func(*shadowSystemImpl)

// WithCascadeResolution sets the width and height in texels of each cascade map.
//
// Parameters:
//   - res: the resolution; must be positive
//
// Returns:
//   - ShadowBuilderOption: a function that applies the resolution
func WithCascadeResolution(res int) ShadowBuilderOption {
	return func(s *shadowSystemImpl) {
		s.cascadeRes = res
	}
}

// WithWorldResolution sets the width and height in texels of each point and spot map.
//
// Parameters:
//   - res: the resolution; must be positive
//
// Returns:
//   - ShadowBuilderOption: a function that applies the resolution
func WithWorldResolution(res int) ShadowBuilderOption {
	return func(s *shadowSystemImpl) {
		s.worldRes = res
	}
}

// WithCascades sets the number of directional cascades.
//
// Parameters:
//   - n: the cascade count; must be positive
//
// Returns:
//   - ShadowBuilderOption: a function that applies the count
func WithCascades(n int) ShadowBuilderOption {
	return func(s *shadowSystemImpl) {
		s.numCascades = n
	}
}

// WithCascadeExtents sets the orthographic width of each cascade, nearest first. There must
// be at least one extent per cascade. An empty list keeps the defaults.
//
// Parameters:
//   - extents: positive widths in world units, strictly increasing
//
// Returns:
//   - ShadowBuilderOption: a function that applies the extents
func WithCascadeExtents(extents ...float32) ShadowBuilderOption {
	return func(s *shadowSystemImpl) {
		s.extents = append([]float32(nil), extents...)
	}
}

// WithNearFar sets the cascade orthographic near and far planes.
//
// Parameters:
//   - near, far: the depth range along the light direction
//
// Returns:
//   - ShadowBuilderOption: a function that applies the range
func WithNearFar(near, far float32) ShadowBuilderOption {
	return func(s *shadowSystemImpl) {
		s.cascadeNear = near
		s.cascadeFar = far
	}
}

// WithAnchor sets how the directional light eye follows the viewer: it is raised by height
// and then backed off by distance against the light direction.
//
// Parameters:
//   - distance: distance from the raised viewer position to the eye
//   - height: vertical offset added to the viewer position
//
// Returns:
//   - ShadowBuilderOption: a function that applies the anchor
func WithAnchor(distance, height float32) ShadowBuilderOption {
	return func(s *shadowSystemImpl) {
		s.anchorDistance = distance
		s.anchorHeight = height
	}
}

// WithPointFOV sets the field of view of each point light cube face.
//
// Parameters:
//   - degrees: the field of view in [90, 180), normally a little over 90
//
// Returns:
//   - ShadowBuilderOption: a function that applies the field of view
func WithPointFOV(degrees float32) ShadowBuilderOption {
	return func(s *shadowSystemImpl) {
		s.pointFOV = mgl32.DegToRad(degrees)
	}
}

// WithDepthBias sets the rasterizer depth bias used while rendering shadow maps.
//
// Parameters:
//   - constant: bias in depth-buffer units
//   - slopeScaled: bias scale applied to the polygon depth slope
//
// Returns:
//   - ShadowBuilderOption: a function that applies the bias
func WithDepthBias(constant int32, slopeScaled float32) ShadowBuilderOption {
	return func(s *shadowSystemImpl) {
		s.depthBias = constant
		s.slopeBias = slopeScaled
	}
}

// WithLogger replaces the logger used for allocation and toggle messages.
func WithLogger(l *log.Logger) ShadowBuilderOption {
	return func(s *shadowSystemImpl) {
		if l != nil {
			s.logger = l
		}
	}
}

package light

// DefaultCascadeResolution is the default width and height in texels of each
// directional cascade shadow map.
const DefaultCascadeResolution = 2048

// DefaultWorldResolution is the default width and height in texels of each point or
// spot light shadow map.
const DefaultWorldResolution = 1024

// DefaultCascadeCount is the default number of orthographic cascades rendered for the
// shadow-casting directional light.
const DefaultCascadeCount = 4

// DefaultCascadeExtents are the orthographic widths (and heights) in world units of
// the directional cascades, nearest first. Cascade indices past the end of the table
// reuse the last extent.
var DefaultCascadeExtents = []float32{20, 65, 170, 400}

// DefaultCascadeNear is the near plane of the directional cascade projections.
const DefaultCascadeNear float32 = 1.0

// DefaultCascadeFar is the far plane of the directional cascade projections.
const DefaultCascadeFar float32 = 250.0

// DefaultAnchorDistance is how far behind the viewer, against the light direction,
// the virtual directional light eye is placed.
const DefaultAnchorDistance float32 = 65.0

// DefaultAnchorHeight is added to the viewer's Y coordinate before backing the
// directional light eye away along the light direction.
const DefaultAnchorHeight float32 = 15.0

// DefaultPointFOVDegrees is the field of view of each point light cube face. The small
// overshoot past 90 degrees closes the seams between adjacent faces.
const DefaultPointFOVDegrees float32 = 90.1

// DefaultPerspectiveNear is the near plane of point and spot light shadow projections.
const DefaultPerspectiveNear float32 = 0.1

// DefaultDepthBias is the constant rasterizer depth bias applied while rendering shadow
// maps, in depth-buffer units.
const DefaultDepthBias int32 = 1000

// DefaultSlopeScaledDepthBias scales the rasterizer depth bias by each polygon's depth slope.
const DefaultSlopeScaledDepthBias float32 = 1.0

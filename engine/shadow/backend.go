package shadow

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrNilBackend is returned by NewShadowSystem when no Backend is supplied.
	ErrNilBackend = errors.New("shadow: nil backend")

	// ErrInvalidResolution is returned when a shadow map resolution is not positive.
	ErrInvalidResolution = errors.New("shadow: resolution must be positive")

	// ErrInvalidCascadeCount is returned when the cascade count is not positive or exceeds
	// the number of cascade extents, or when a requested slot count is negative.
	ErrInvalidCascadeCount = errors.New("shadow: invalid slot count")

	// ErrInvalidCascadeExtents is returned when a cascade extent is not a positive finite
	// width or the extents do not strictly increase.
	ErrInvalidCascadeExtents = errors.New("shadow: cascade extents must be positive and increasing")

	// ErrInvalidPointFOV is returned when the point light face field of view is outside
	// [90, 180) degrees.
	ErrInvalidPointFOV = errors.New("shadow: point field of view must be in [90, 180) degrees")

	// ErrSlotOverflow is returned by Render when the lights need more world slots than
	// Update allocated, which happens when lights change between Update and Render.
	ErrSlotOverflow = errors.New("shadow: lights need more slots than allocated")
)

// Texture is an opaque GPU depth texture or texture array owned by the shadow system.
type Texture interface {
	Release()
}

// TextureView is an opaque shader-resource view over a depth texture array, bound by the
// lit pass to sample shadow maps.
type TextureView interface {
	Release()
}

// Sampler is an opaque comparison sampler.
type Sampler interface {
	Release()
}

// DepthState is opaque rasterizer and depth state for the depth-only pass: depth bias,
// slope-scaled bias, culling and the absence of any color output.
type DepthState interface {
	Release()
}

// Backend is the GPU collaborator of the shadow system. It creates the depth resources and
// records the depth passes. All calls happen on the rendering goroutine, between
// BeginShadowFrame and EndShadowFrame for the pass methods.
type Backend interface {
	// CreateDepthTexture creates a single depth texture that can be rendered into and
	// copied from.
	//
	// Parameters:
	//   - desc: size and format; ArraySize is 1
	//
	// Returns:
	//   - Texture: the created texture
	//   - error: an error if creation fails
	CreateDepthTexture(desc common.DepthTextureDesc) (Texture, error)

	// CreateDepthTextureArray creates a depth texture array and a view that samples all of
	// its layers.
	//
	// Parameters:
	//   - desc: size, format and layer count (at least 1)
	//
	// Returns:
	//   - Texture: the created array texture
	//   - TextureView: a view over every layer for the lit pass
	//   - error: an error if creation fails
	CreateDepthTextureArray(desc common.DepthTextureDesc) (Texture, TextureView, error)

	// CreateComparisonSampler creates the sampler the lit pass uses to compare depths.
	//
	// Parameters:
	//   - desc: compare function, filtering and border policy
	//
	// Returns:
	//   - Sampler: the created sampler
	//   - error: an error if creation fails
	CreateComparisonSampler(desc common.SamplerDesc) (Sampler, error)

	// CreateDepthBiasState creates the depth-only rasterizer state used for every shadow draw.
	//
	// Parameters:
	//   - desc: bias and culling configuration
	//
	// Returns:
	//   - DepthState: the created state
	//   - error: an error if creation fails
	CreateDepthBiasState(desc common.DepthBiasDesc) (DepthState, error)

	// BeginShadowFrame starts recording the frame's depth passes.
	//
	// Parameters:
	//   - drawHint: the number of DrawDepth calls expected before EndShadowFrame
	//
	// Returns:
	//   - error: an error if recording could not start
	BeginShadowFrame(drawHint int) error

	// BeginDepthPass binds target as the depth attachment, clears it to the far plane and
	// applies the viewport and depth state.
	//
	// Parameters:
	//   - target: the individual depth texture to render into
	//   - viewport: the viewport covering target
	//   - state: the depth-only rasterizer state
	//
	// Returns:
	//   - error: an error if the pass could not begin
	BeginDepthPass(target Texture, viewport common.Viewport, state DepthState) error

	// DrawDepth draws m with a vertex-only program transforming by proj * view * world.
	//
	// Parameters:
	//   - m: the mesh to draw
	//   - world, view, proj: the transform chain
	//
	// Returns:
	//   - error: an error if the mesh cannot be drawn
	DrawDepth(m mesh.Mesh, world, view, proj mgl32.Mat4) error

	// EndDepthPass ends the pass started by BeginDepthPass.
	EndDepthPass()

	// CopyToArraySlice copies the whole of src into layer slice of dst.
	//
	// Parameters:
	//   - src: an individual depth texture
	//   - dst: a depth texture array of the same resolution
	//   - slice: the destination layer
	//
	// Returns:
	//   - error: an error if the copy could not be recorded
	CopyToArraySlice(src, dst Texture, slice int) error

	// UnbindShadowInputs drops any lit-pass binding of the shadow arrays so they can be
	// written or recreated.
	UnbindShadowInputs()

	// EndShadowFrame submits the recorded depth passes and restores the main render state.
	//
	// Returns:
	//   - error: an error if submission failed
	EndShadowFrame() error
}

// Entity is anything the shadow system can draw into a depth map.
type Entity interface {
	// WorldMatrix returns the entity's model-to-world matrix.
	WorldMatrix() mgl32.Mat4

	// Mesh returns the geometry to draw.
	Mesh() mesh.Mesh
}

// Bounded is implemented by entities that can report a world-space bounding sphere. Such
// entities are skipped for any shadow slot whose light frustum they lie entirely outside.
type Bounded interface {
	BoundingSphere() (center mgl32.Vec3, radius float32)
}

// Viewer supplies the position the directional cascades follow, usually the camera.
type Viewer interface {
	Position() mgl32.Vec3
}

// LightMatrices is the view and projection of one shadow slot.
type LightMatrices struct {
	View mgl32.Mat4
	Proj mgl32.Mat4
}

// ViewProj returns Proj * View.
func (m LightMatrices) ViewProj() mgl32.Mat4 {
	return m.Proj.Mul4(m.View)
}

// Stats describes the most recent Render call and the current allocation.
type Stats struct {
	CascadeSlots  int // cascade maps rendered
	WorldSlots    int // point and spot maps rendered
	Draws         int // DrawDepth calls issued
	Culled        int // entity draws skipped by frustum culling
	Allocations   int // (re)allocations of texture arrays since construction
	CascadeLayers int // allocated cascade array layers
	WorldLayers   int // allocated world array layers
}

// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

// DepthFormat identifies the storage format of a depth texture.
type DepthFormat int

const (
	// DepthFormat32Float is a single 32-bit float depth channel. Shadow maps are
	// always created with this format so they can be both rendered and sampled.
	DepthFormat32Float DepthFormat = iota
)

// DepthTextureDesc describes a square depth texture or texture array pending GPU creation.
// This is the template the shadow system keeps for each resolution class; resizing or growing
// only edits the template and recreates the resource from it.
type DepthTextureDesc struct {
	// Label is a debug label forwarded to the GPU API.
	Label string
	// Resolution is the width and height of each layer in texels.
	Resolution int
	// ArraySize is the number of layers. Individual shadow maps use 1.
	ArraySize int
	// Format is the depth storage format.
	Format DepthFormat
}

// CompareFunc is the depth comparison used by a comparison sampler.
type CompareFunc int

const (
	// CompareLess passes when the reference depth is strictly less than the stored depth.
	CompareLess CompareFunc = iota
	// CompareLessEqual passes when the reference depth is less than or equal to the stored depth.
	CompareLessEqual
)

// SamplerDesc holds the configuration for the shadow comparison sampler pending GPU creation.
type SamplerDesc struct {
	// Label is a debug label forwarded to the GPU API.
	Label string
	// Compare is the comparison function applied to each fetched texel.
	Compare CompareFunc
	// Linear selects trilinear filtering of the comparison results.
	Linear bool
	// BorderLit makes coordinates outside [0, 1] read as fully lit.
	BorderLit bool
}

// DepthBiasDesc describes the rasterizer state used while rendering depth from a light.
// Constant bias and slope-scaled bias push written depth away from the light to
// suppress self-shadowing ("acne").
type DepthBiasDesc struct {
	// Label is a debug label forwarded to the GPU API.
	Label string
	// ConstantBias is added to every written depth value, in depth-buffer units.
	ConstantBias int32
	// SlopeScaledBias scales the bias by the polygon's depth slope.
	SlopeScaledBias float32
	// BiasClamp limits the total bias. Zero disables clamping.
	BiasClamp float32
	// CullBack culls back faces during the depth pass.
	CullBack bool
}

// Viewport is a rectangle of the render target in texels plus its depth range.
type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

// SquareViewport returns a full-target viewport for a square resolution with depth range [0, 1].
//
// Parameters:
//   - resolution: the target width and height in texels
//
// Returns:
//   - Viewport: the viewport covering the whole target
func SquareViewport(resolution int) Viewport {
	return Viewport{
		Width:    float32(resolution),
		Height:   float32(resolution),
		MinDepth: 0,
		MaxDepth: 1,
	}
}

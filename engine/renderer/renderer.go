package renderer

import (
	"errors"
	"log"
	"os"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/camera"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/mesh"
	"github.com/Carmen-Shannon/oxy-shadow/engine/shadow"
	"github.com/Carmen-Shannon/oxy-shadow/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrMeshNotUploaded is returned when a mesh is drawn before UploadMesh created its buffers.
	ErrMeshNotUploaded = errors.New("renderer: mesh not uploaded")

	// ErrNoShadowFrame is returned by depth pass calls made outside BeginShadowFrame and EndShadowFrame.
	ErrNoShadowFrame = errors.New("renderer: no shadow frame in progress")
)

// Drawable is an object the lit pass can draw. It is also a shadow caster.
type Drawable interface {
	shadow.Entity

	// WorldInverseTransposeMatrix transforms normals to world space.
	WorldInverseTransposeMatrix() mgl32.Mat4

	// Color returns the RGB albedo.
	Color() mgl32.Vec3

	// Enabled reports whether the object is drawn.
	Enabled() bool
}

// Scene is the input of one lit frame.
type Scene struct {
	// Camera supplies the view projection and eye position.
	Camera camera.Camera
	// Lights in the same order as passed to the shadow system this frame.
	Lights []light.Light
	// Ambient is the RGB ambient term.
	Ambient mgl32.Vec3
	// Objects to draw.
	Objects []Drawable
	// Shadows supplies the shadow maps and matrices. Nil draws every light unshadowed.
	Shadows shadow.ShadowSystem
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	backendType RendererBackendType
	backend     RendererBackend
	logger      *log.Logger

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	pendingClearColor    *wgpu.Color
}

// Renderer defines the interface for the rendering system.
//
// The Renderer draws a lit scene that receives shadows, and is the GPU backend of the shadow
// system: every shadow.Backend call is forwarded to the selected backend implementation.
type Renderer interface {
	shadow.Backend

	// UploadMesh creates the GPU vertex and index buffers of a mesh. Meshes must be uploaded
	// before they are drawn by DrawScene or DrawDepth. Uploading twice is a no-op.
	//
	// Parameters:
	//   - m: the Mesh to upload
	//
	// Returns:
	//   - error: an error if buffer creation fails
	UploadMesh(m mesh.Mesh) error

	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode changes the present mode. It takes effect on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// DrawScene draws the scene with the shadow maps of scene.Shadows and submits the frame.
	// Call Present afterwards to show it.
	//
	// Parameters:
	//   - scene: the Scene to draw
	//
	// Returns:
	//   - error: ErrMeshNotUploaded for a mesh that was never uploaded, or a GPU error
	DrawScene(scene Scene) error

	// Present presents the frame recorded by the last DrawScene.
	Present()

	// Release frees every GPU resource owned by the renderer. Shadow systems built on the
	// renderer must be released first.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates the Renderer for a window. The surface is configured to the window's
// current size.
//
// Parameters:
//   - backendType: the GPU backend to use
//   - win: the window to present to
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the configured renderer
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		backendType: backendType,
		logger:      log.New(os.Stderr, "", log.LstdFlags),
	}

	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, msaa, r.logger)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.pendingClearColor != nil {
		r.backend.SetClearColor(*r.pendingClearColor)
	}

	r.backend.ConfigureSurface(win.Width(), win.Height())
	return r
}

func (r *renderer) UploadMesh(m mesh.Mesh) error {
	return r.backend.UploadMesh(m)
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) DrawScene(scene Scene) error {
	return r.backend.DrawScene(scene)
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.backend.Release()
}

func (r *renderer) CreateDepthTexture(desc common.DepthTextureDesc) (shadow.Texture, error) {
	return r.backend.CreateDepthTexture(desc)
}

func (r *renderer) CreateDepthTextureArray(desc common.DepthTextureDesc) (shadow.Texture, shadow.TextureView, error) {
	return r.backend.CreateDepthTextureArray(desc)
}

func (r *renderer) CreateComparisonSampler(desc common.SamplerDesc) (shadow.Sampler, error) {
	return r.backend.CreateComparisonSampler(desc)
}

func (r *renderer) CreateDepthBiasState(desc common.DepthBiasDesc) (shadow.DepthState, error) {
	return r.backend.CreateDepthBiasState(desc)
}

func (r *renderer) BeginShadowFrame(drawHint int) error {
	return r.backend.BeginShadowFrame(drawHint)
}

func (r *renderer) BeginDepthPass(target shadow.Texture, viewport common.Viewport, state shadow.DepthState) error {
	return r.backend.BeginDepthPass(target, viewport, state)
}

func (r *renderer) DrawDepth(m mesh.Mesh, world, view, proj mgl32.Mat4) error {
	return r.backend.DrawDepth(m, world, view, proj)
}

func (r *renderer) EndDepthPass() {
	r.backend.EndDepthPass()
}

func (r *renderer) CopyToArraySlice(src, dst shadow.Texture, slice int) error {
	return r.backend.CopyToArraySlice(src, dst, slice)
}

func (r *renderer) UnbindShadowInputs() {
	r.backend.UnbindShadowInputs()
}

func (r *renderer) EndShadowFrame() error {
	return r.backend.EndShadowFrame()
}

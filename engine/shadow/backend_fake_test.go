package shadow

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

// fakeHandle stands in for every GPU handle type.
type fakeHandle struct {
	kind     string
	desc     common.DepthTextureDesc
	released bool
}

func (h *fakeHandle) Release() { h.released = true }

type copyCall struct {
	src, dst *fakeHandle
	slice    int
}

type drawCall struct {
	target     *fakeHandle
	world      mgl32.Mat4
	view, proj mgl32.Mat4
}

// fakeBackend records every call made by the shadow system.
type fakeBackend struct {
	textures []*fakeHandle
	arrays   []*fakeHandle
	views    []*fakeHandle
	samplers []*fakeHandle
	states   []*fakeHandle

	frames  int
	ended   int
	hints   []int
	passes  []*fakeHandle
	draws   []drawCall
	copies  []copyCall
	unbinds int

	current   *fakeHandle
	failAfter int // fail CreateDepthTexture once this many textures exist; 0 disables
}

var _ Backend = &fakeBackend{}

func (b *fakeBackend) CreateDepthTexture(desc common.DepthTextureDesc) (Texture, error) {
	if b.failAfter > 0 && len(b.textures) >= b.failAfter {
		return nil, errors.New("out of memory")
	}
	h := &fakeHandle{kind: "texture", desc: desc}
	b.textures = append(b.textures, h)
	return h, nil
}

func (b *fakeBackend) CreateDepthTextureArray(desc common.DepthTextureDesc) (Texture, TextureView, error) {
	a := &fakeHandle{kind: "array", desc: desc}
	v := &fakeHandle{kind: "view", desc: desc}
	b.arrays = append(b.arrays, a)
	b.views = append(b.views, v)
	return a, v, nil
}

func (b *fakeBackend) CreateComparisonSampler(desc common.SamplerDesc) (Sampler, error) {
	h := &fakeHandle{kind: "sampler"}
	b.samplers = append(b.samplers, h)
	return h, nil
}

func (b *fakeBackend) CreateDepthBiasState(desc common.DepthBiasDesc) (DepthState, error) {
	h := &fakeHandle{kind: "state"}
	b.states = append(b.states, h)
	return h, nil
}

func (b *fakeBackend) BeginShadowFrame(drawHint int) error {
	b.frames++
	b.hints = append(b.hints, drawHint)
	return nil
}

func (b *fakeBackend) BeginDepthPass(target Texture, viewport common.Viewport, state DepthState) error {
	b.current = target.(*fakeHandle)
	b.passes = append(b.passes, b.current)
	return nil
}

func (b *fakeBackend) DrawDepth(m mesh.Mesh, world, view, proj mgl32.Mat4) error {
	b.draws = append(b.draws, drawCall{target: b.current, world: world, view: view, proj: proj})
	return nil
}

func (b *fakeBackend) EndDepthPass() {
	b.current = nil
}

func (b *fakeBackend) CopyToArraySlice(src, dst Texture, slice int) error {
	b.copies = append(b.copies, copyCall{src: src.(*fakeHandle), dst: dst.(*fakeHandle), slice: slice})
	return nil
}

func (b *fakeBackend) UnbindShadowInputs() {
	b.unbinds++
}

func (b *fakeBackend) EndShadowFrame() error {
	b.ended++
	return nil
}

// liveArrays returns the arrays that have not been released.
func (b *fakeBackend) liveArrays() []*fakeHandle {
	var out []*fakeHandle
	for _, a := range b.arrays {
		if !a.released {
			out = append(out, a)
		}
	}
	return out
}

// fakeEntity is an entity with a fixed world matrix and no mesh.
type fakeEntity struct {
	world mgl32.Mat4
}

func (e *fakeEntity) WorldMatrix() mgl32.Mat4 { return e.world }
func (e *fakeEntity) Mesh() mesh.Mesh         { return nil }

// boundedEntity adds a bounding sphere to fakeEntity.
type boundedEntity struct {
	fakeEntity
	center mgl32.Vec3
	radius float32
}

func (e *boundedEntity) BoundingSphere() (mgl32.Vec3, float32) { return e.center, e.radius }

type fixedViewer mgl32.Vec3

func (v fixedViewer) Position() mgl32.Vec3 { return mgl32.Vec3(v) }

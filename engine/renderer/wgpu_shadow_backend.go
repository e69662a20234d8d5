package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/mesh"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shadow/engine/shadow"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// shadowTextureUsage lets a shadow texture be rendered, sampled and copied in both directions.
const shadowTextureUsage = wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding |
	wgpu.TextureUsageCopySrc | wgpu.TextureUsageCopyDst

// wgpuDepthTexture is the shadow.Texture handle of the WebGPU backend. Single maps carry a
// view used as the depth attachment; arrays leave it nil and hand out a separate
// sampling view.
type wgpuDepthTexture struct {
	texture    *wgpu.Texture
	view       *wgpu.TextureView
	resolution int
	layers     int
}

func (t *wgpuDepthTexture) Release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

type wgpuTextureView struct {
	view *wgpu.TextureView
}

func (v *wgpuTextureView) Release() {
	if v.view != nil {
		v.view.Release()
		v.view = nil
	}
}

type wgpuSampler struct {
	sampler *wgpu.Sampler
}

func (s *wgpuSampler) Release() {
	if s.sampler != nil {
		s.sampler.Release()
		s.sampler = nil
	}
}

// wgpuDepthState is the shadow.DepthState handle: a depth-only pipeline carrying the bias
// and cull settings of one DepthBiasDesc.
type wgpuDepthState struct {
	pipeline pipeline.Pipeline
}

func (s *wgpuDepthState) Release() {
	s.release()
}

func (s *wgpuDepthState) release() {
	if s.pipeline != nil {
		s.pipeline.Release()
		s.pipeline = nil
	}
}

func depthFormat(f common.DepthFormat) wgpu.TextureFormat {
	switch f {
	case common.DepthFormat32Float:
		fallthrough
	default:
		return wgpu.TextureFormatDepth32Float
	}
}

func compareFunction(c common.CompareFunc) wgpu.CompareFunction {
	switch c {
	case common.CompareLessEqual:
		return wgpu.CompareFunctionLessEqual
	case common.CompareLess:
		fallthrough
	default:
		return wgpu.CompareFunctionLess
	}
}

func (b *wgpuRendererBackendImpl) createDepthTexture(desc common.DepthTextureDesc, layers int) (*wgpu.Texture, error) {
	if desc.Resolution <= 0 || layers <= 0 {
		return nil, fmt.Errorf("invalid depth texture %q: %dx%d with %d layers", desc.Label, desc.Resolution, desc.Resolution, layers)
	}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: desc.Label,
		Size: wgpu.Extent3D{
			Width:              uint32(desc.Resolution),
			Height:             uint32(desc.Resolution),
			DepthOrArrayLayers: uint32(layers),
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat(desc.Format),
		Usage:         shadowTextureUsage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create depth texture %q: %w", desc.Label, err)
	}
	return tex, nil
}

func (b *wgpuRendererBackendImpl) CreateDepthTexture(desc common.DepthTextureDesc) (shadow.Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tex, err := b.createDepthTexture(desc, 1)
	if err != nil {
		return nil, err
	}
	view, err := tex.CreateView(&wgpu.TextureViewDescriptor{
		Label:           desc.Label + " View",
		Format:          depthFormat(desc.Format),
		Dimension:       wgpu.TextureViewDimension2D,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: 1,
	})
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("failed to create depth texture view %q: %w", desc.Label, err)
	}
	return &wgpuDepthTexture{texture: tex, view: view, resolution: desc.Resolution, layers: 1}, nil
}

func (b *wgpuRendererBackendImpl) CreateDepthTextureArray(desc common.DepthTextureDesc) (shadow.Texture, shadow.TextureView, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tex, err := b.createDepthTexture(desc, desc.ArraySize)
	if err != nil {
		return nil, nil, err
	}
	view, err := tex.CreateView(&wgpu.TextureViewDescriptor{
		Label:           desc.Label + " View",
		Format:          depthFormat(desc.Format),
		Dimension:       wgpu.TextureViewDimension2DArray,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: uint32(desc.ArraySize),
	})
	if err != nil {
		tex.Release()
		return nil, nil, fmt.Errorf("failed to create depth array view %q: %w", desc.Label, err)
	}
	return &wgpuDepthTexture{texture: tex, resolution: desc.Resolution, layers: desc.ArraySize}, &wgpuTextureView{view: view}, nil
}

func (b *wgpuRendererBackendImpl) CreateComparisonSampler(desc common.SamplerDesc) (shadow.Sampler, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.createComparisonSampler(desc)
}

func (b *wgpuRendererBackendImpl) createComparisonSampler(desc common.SamplerDesc) (*wgpuSampler, error) {
	filter := wgpu.FilterModeNearest
	if desc.Linear {
		filter = wgpu.FilterModeLinear
	}

	// WebGPU has no border color; BorderLit is honored by the lit shader, which treats
	// coordinates outside the map as lit. Clamping keeps the PCF taps at the edge in range.
	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         desc.Label,
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     filter,
		MinFilter:     filter,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		Compare:       compareFunction(desc.Compare),
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create comparison sampler %q: %w", desc.Label, err)
	}
	return &wgpuSampler{sampler: samp}, nil
}

func (b *wgpuRendererBackendImpl) CreateDepthBiasState(desc common.DepthBiasDesc) (shadow.DepthState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.InitBindGroupLayout(b.depthProvider); err != nil {
		return nil, err
	}

	cull := wgpu.CullModeNone
	if desc.CullBack {
		cull = wgpu.CullModeBack
	}

	p := pipeline.NewPipeline(desc.Label, pipeline.PipelineTypeDepthOnly,
		pipeline.WithSource(ShadowDepthSource()),
		pipeline.WithEntryPoints("vs_depth", ""),
		pipeline.WithVertexLayouts(meshVertexLayout()),
		pipeline.WithBindGroupLayouts(b.depthProvider.BindGroupLayout()),
		pipeline.WithDepthFormat(wgpu.TextureFormatDepth32Float),
		pipeline.WithDepthBias(desc.ConstantBias, desc.SlopeScaledBias),
		pipeline.WithCullMode(cull),
	)
	if err := b.RegisterRenderPipeline(p); err != nil {
		return nil, err
	}

	state := &wgpuDepthState{pipeline: p}
	b.depthStates = append(b.depthStates, state)
	return state, nil
}

func (b *wgpuRendererBackendImpl) BeginShadowFrame(drawHint int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.shadowFrameEncoder != nil {
		return fmt.Errorf("shadow frame already open")
	}

	b.depthArena.reset()
	if b.depthArena.reserve(max(drawHint, 1)) {
		if err := b.InitBuffer(b.depthProvider, 0, b.depthArena.size(), wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst); err != nil {
			return err
		}
		b.logger.Printf("[Renderer] depth draw buffer grown to %d records", b.depthArena.capacity)
	}
	if err := b.BuildBindGroup(b.depthProvider); err != nil {
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "Shadow Frame"})
	if err != nil {
		return fmt.Errorf("failed to create shadow command encoder: %w", err)
	}
	b.shadowFrameEncoder = encoder
	return nil
}

func (b *wgpuRendererBackendImpl) BeginDepthPass(target shadow.Texture, viewport common.Viewport, state shadow.DepthState) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.shadowFrameEncoder == nil {
		return ErrNoShadowFrame
	}
	tex, ok := target.(*wgpuDepthTexture)
	if !ok || tex.view == nil {
		return fmt.Errorf("depth pass target is not a renderable depth texture")
	}
	ds, ok := state.(*wgpuDepthState)
	if !ok || ds.pipeline == nil {
		return fmt.Errorf("depth pass state is not a depth-only pipeline")
	}

	pass := b.shadowFrameEncoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Shadow Depth Pass",
		// Depth only; the shadow map is the depth attachment and must be stored.
		ColorAttachments: nil,
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            tex.view,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	pass.SetViewport(viewport.X, viewport.Y, viewport.Width, viewport.Height, viewport.MinDepth, viewport.MaxDepth)
	pass.SetPipeline(ds.pipeline.RenderPipeline())
	b.shadowPass = pass
	return nil
}

func (b *wgpuRendererBackendImpl) DrawDepth(m mesh.Mesh, world, view, proj mgl32.Mat4) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.shadowPass == nil {
		return ErrNoShadowFrame
	}
	if m == nil || !m.Uploaded() {
		return ErrMeshNotUploaded
	}

	record := GPUDepthDraw{World: world, View: view, Proj: proj}
	offset, err := b.depthArena.push(record.Marshal())
	if err != nil {
		return fmt.Errorf("depth draw %d exceeds the frame hint: %w", b.depthArena.count()+1, err)
	}

	b.shadowPass.SetBindGroup(0, b.depthProvider.BindGroup(), []uint32{offset})
	b.shadowPass.SetVertexBuffer(0, m.VertexBuffer(), 0, wgpu.WholeSize)
	b.shadowPass.SetIndexBuffer(m.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.shadowPass.DrawIndexed(uint32(m.IndexCount()), 1, 0, 0, 0)
	return nil
}

func (b *wgpuRendererBackendImpl) EndDepthPass() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.shadowPass == nil {
		return
	}
	b.shadowPass.End()
	b.shadowPass = nil
}

func (b *wgpuRendererBackendImpl) CopyToArraySlice(src, dst shadow.Texture, slice int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.shadowFrameEncoder == nil {
		return ErrNoShadowFrame
	}
	from, ok := src.(*wgpuDepthTexture)
	if !ok {
		return fmt.Errorf("copy source is not a depth texture")
	}
	to, ok := dst.(*wgpuDepthTexture)
	if !ok {
		return fmt.Errorf("copy destination is not a depth texture")
	}
	if slice < 0 || slice >= to.layers {
		return fmt.Errorf("array slice %d out of range [0, %d)", slice, to.layers)
	}
	if from.resolution != to.resolution {
		return fmt.Errorf("copy resolution mismatch: %d into %d", from.resolution, to.resolution)
	}

	b.shadowFrameEncoder.CopyTextureToTexture(
		&wgpu.ImageCopyTexture{
			Texture:  from.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyTexture{
			Texture:  to.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: uint32(slice)},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.Extent3D{
			Width:              uint32(from.resolution),
			Height:             uint32(from.resolution),
			DepthOrArrayLayers: 1,
		},
	)
	return nil
}

func (b *wgpuRendererBackendImpl) UnbindShadowInputs() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.shadowInputs != nil {
		b.shadowInputs.Invalidate()
		b.shadowInputs.SetTextureView(0, nil)
		b.shadowInputs.SetTextureView(1, nil)
		b.shadowInputs.SetSampler(2, nil)
	}
}

func (b *wgpuRendererBackendImpl) EndShadowFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.shadowFrameEncoder == nil {
		return ErrNoShadowFrame
	}
	if b.shadowPass != nil {
		b.shadowPass.End()
		b.shadowPass = nil
	}

	encoder := b.shadowFrameEncoder
	b.shadowFrameEncoder = nil
	defer encoder.Release()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish shadow frame: %w", err)
	}
	defer commandBuffer.Release()

	// Per-draw records must land before the passes that read them execute.
	b.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: b.depthProvider,
		Binding:  0,
		Data:     b.depthArena.bytes(),
	}})
	b.queue.Submit(commandBuffer)
	return nil
}

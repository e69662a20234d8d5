package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/camera"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shadow/engine/shadow"
	"github.com/cogentcore/webgpu/wgpu"
)

// Lit pass bindings.
const (
	bindingCamera        = 0
	bindingLights        = 1
	bindingShadowMatrix  = 2
	bindingShadowParams  = 3
	bindingCascadeMaps   = 0
	bindingWorldMaps     = 1
	bindingShadowSampler = 2
	bindingObject        = 0
)

var (
	cameraUniformSize = uint64((&camera.GPUCameraUniform{}).Size())
	lightBufferSize   = uint64((&light.GPULightHeader{}).Size() + light.MaxGPULights*(&light.GPULight{}).Size())
	minLightBuffer    = (&light.GPULightHeader{}).Size() + (&light.GPULight{}).Size()
	shadowMatrixSize  = uint64(light.MaxGPUShadowMatrices * (&light.GPUShadowMatrix{}).Size())
	shadowParamsSize  = uint64((&light.GPUShadowParams{}).Size())
	objectUniformSize = uint64((&GPUObjectUniform{}).Size())
)

// litFrame is everything the lit pass reads from the scene, gathered before the backend
// lock is taken.
type litFrame struct {
	cameraData   []byte
	lightData    []byte
	matrixData   []byte
	paramsData   []byte
	cascadeView  *wgpuTextureView
	worldView    *wgpuTextureView
	sampler      *wgpuSampler
	objects      []Drawable
	objectRecord [][]byte
	droppedSlots int // shadow matrices past light.MaxGPUShadowMatrices
}

func gatherLitFrame(scene Scene) (litFrame, error) {
	if scene.Camera == nil {
		return litFrame{}, fmt.Errorf("scene has no camera")
	}

	cam := camera.NewGPUCameraUniform(scene.Camera)
	f := litFrame{cameraData: cam.Marshal()}

	var bases []int
	params := light.GPUShadowParams{}
	var cascades, world []shadow.LightMatrices
	if s := scene.Shadows; s != nil {
		cascades, world, bases, f.droppedSlots = clampShadowSlots(scene.Lights,
			s.CascadeMatrices(), s.WorldMatrices(), s.ShadowBases(scene.Lights))
		params = light.GPUShadowParams{
			CascadeCount: uint32(len(cascades)),
			WorldCount:   uint32(len(world)),
			CascadeTexel: 1 / float32(max(s.CascadeResolution(), 1)),
			WorldTexel:   1 / float32(max(s.WorldResolution(), 1)),
		}
		f.cascadeView, _ = s.CascadeView().(*wgpuTextureView)
		f.worldView, _ = s.WorldView().(*wgpuTextureView)
		f.sampler, _ = s.Sampler().(*wgpuSampler)
	}
	f.lightData = padStorage(light.MarshalLightBuffer(scene.Lights, scene.Ambient, bases), minLightBuffer)
	f.matrixData = marshalShadowMatrices(cascades, world)
	f.paramsData = params.Marshal()

	for _, o := range scene.Objects {
		if o == nil || !o.Enabled() {
			continue
		}
		m := o.Mesh()
		if m == nil || !m.Uploaded() {
			name := "<nil>"
			if m != nil {
				name = m.Name()
			}
			return litFrame{}, fmt.Errorf("mesh %q: %w", name, ErrMeshNotUploaded)
		}
		c := o.Color()
		record := GPUObjectUniform{
			World:     o.WorldMatrix(),
			WorldInvT: o.WorldInverseTransposeMatrix(),
			Color:     [4]float32{c.X(), c.Y(), c.Z(), 1},
		}
		f.objects = append(f.objects, o)
		f.objectRecord = append(f.objectRecord, record.Marshal())
	}
	return f, nil
}

func (b *wgpuRendererBackendImpl) DrawScene(scene Scene) error {
	frame, err := gatherLitFrame(scene)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if frame.droppedSlots != b.droppedSlots {
		if frame.droppedSlots > 0 {
			b.logger.Printf("[Renderer] shadow matrix buffer full, %d slots not shaded", frame.droppedSlots)
		}
		b.droppedSlots = frame.droppedSlots
	}

	if err := b.ensureLitResources(); err != nil {
		return err
	}

	cascadeView, worldView, sampler := frame.cascadeView, frame.worldView, frame.sampler
	if cascadeView == nil || cascadeView.view == nil {
		cascadeView = b.fallbackView
	}
	if worldView == nil || worldView.view == nil {
		worldView = b.fallbackView
	}
	if sampler == nil || sampler.sampler == nil {
		sampler = b.fallbackSample
	}
	b.shadowInputs.SetTextureView(bindingCascadeMaps, cascadeView.view)
	b.shadowInputs.SetTextureView(bindingWorldMaps, worldView.view)
	b.shadowInputs.SetSampler(bindingShadowSampler, sampler.sampler)

	b.objectArena.reset()
	if b.objectArena.reserve(max(len(frame.objects), 1)) {
		if err := b.InitBuffer(b.objectProvider, bindingObject, b.objectArena.size(), wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst); err != nil {
			return err
		}
		b.logger.Printf("[Renderer] object buffer grown to %d records", b.objectArena.capacity)
	}
	offsets := make([]uint32, len(frame.objectRecord))
	for i, record := range frame.objectRecord {
		if offsets[i], err = b.objectArena.push(record); err != nil {
			return err
		}
	}

	b.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: b.frameInputs, Binding: bindingCamera, Data: frame.cameraData},
		{Provider: b.frameInputs, Binding: bindingLights, Data: frame.lightData},
		{Provider: b.frameInputs, Binding: bindingShadowMatrix, Data: frame.matrixData},
		{Provider: b.frameInputs, Binding: bindingShadowParams, Data: frame.paramsData},
		{Provider: b.objectProvider, Binding: bindingObject, Data: b.objectArena.bytes()},
	})

	for _, p := range []bind_group_provider.BindGroupProvider{b.frameInputs, b.shadowInputs, b.objectProvider} {
		if err := b.BuildBindGroup(p); err != nil {
			return err
		}
	}

	if err := b.beginFrame(); err != nil {
		return err
	}

	b.framePass.SetPipeline(b.litPipeline.RenderPipeline())
	b.framePass.SetBindGroup(0, b.frameInputs.BindGroup(), nil)
	b.framePass.SetBindGroup(1, b.shadowInputs.BindGroup(), nil)
	for i, o := range frame.objects {
		m := o.Mesh()
		b.framePass.SetBindGroup(2, b.objectProvider.BindGroup(), []uint32{offsets[i]})
		b.framePass.SetVertexBuffer(0, m.VertexBuffer(), 0, wgpu.WholeSize)
		b.framePass.SetIndexBuffer(m.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		b.framePass.DrawIndexed(uint32(m.IndexCount()), 1, 0, 0, 0)
	}

	return b.endFrame()
}

// ensureLitResources creates the lit pipeline, its three bind group providers and the
// fallback shadow inputs bound when no shadow system is attached.
func (b *wgpuRendererBackendImpl) ensureLitResources() error {
	if b.litPipeline != nil {
		return nil
	}
	if b.surfaceFormat == nil {
		return fmt.Errorf("surface not configured")
	}

	vertexFragment := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment
	b.frameInputs = bind_group_provider.NewBindGroupProvider("Lit Frame",
		bind_group_provider.WithLayoutEntries(
			uniformEntry(bindingCamera, vertexFragment, cameraUniformSize),
			storageEntry(bindingLights, wgpu.ShaderStageFragment),
			storageEntry(bindingShadowMatrix, wgpu.ShaderStageFragment),
			uniformEntry(bindingShadowParams, wgpu.ShaderStageFragment, shadowParamsSize),
		),
	)
	b.shadowInputs = bind_group_provider.NewBindGroupProvider("Lit Shadow Maps",
		bind_group_provider.WithLayoutEntries(
			depthArrayEntry(bindingCascadeMaps),
			depthArrayEntry(bindingWorldMaps),
			wgpu.BindGroupLayoutEntry{
				Binding:    bindingShadowSampler,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeComparison},
			},
		),
	)
	b.objectProvider = bind_group_provider.NewBindGroupProvider("Lit Object",
		bind_group_provider.WithLayoutEntries(dynamicUniformEntry(bindingObject, vertexFragment, objectUniformSize)),
		bind_group_provider.WithBindingSize(bindingObject, objectUniformSize),
	)

	uniform := wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
	storage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
	for _, init := range []struct {
		binding int
		size    uint64
		usage   wgpu.BufferUsage
	}{
		{bindingCamera, cameraUniformSize, uniform},
		{bindingLights, lightBufferSize, storage},
		{bindingShadowMatrix, shadowMatrixSize, storage},
		{bindingShadowParams, shadowParamsSize, uniform},
	} {
		if err := b.InitBuffer(b.frameInputs, init.binding, init.size, init.usage); err != nil {
			return err
		}
	}

	for _, p := range []bind_group_provider.BindGroupProvider{b.frameInputs, b.shadowInputs, b.objectProvider} {
		if err := b.InitBindGroupLayout(p); err != nil {
			return err
		}
	}

	if err := b.createFallbackShadowInputs(); err != nil {
		return err
	}

	p := pipeline.NewPipeline("Lit", pipeline.PipelineTypeRender,
		pipeline.WithSource(LitSource()),
		pipeline.WithEntryPoints("vs_main", "fs_main"),
		pipeline.WithVertexLayouts(meshVertexLayout()),
		pipeline.WithBindGroupLayouts(b.frameInputs.BindGroupLayout(), b.shadowInputs.BindGroupLayout(), b.objectProvider.BindGroupLayout()),
		pipeline.WithSampleCount(uint32(b.sampleCount)),
	)
	if err := b.RegisterRenderPipeline(p); err != nil {
		return err
	}
	b.litPipeline = p
	b.logger.Printf("[Renderer] lit pipeline ready (msaa %dx)", b.sampleCount)
	return nil
}

// createFallbackShadowInputs creates a one-layer depth array and a comparison sampler so
// the lit bind group is complete when no shadow maps exist yet.
func (b *wgpuRendererBackendImpl) createFallbackShadowInputs() error {
	desc := common.DepthTextureDesc{Label: "Shadow Fallback", Resolution: 1, ArraySize: 1}
	tex, err := b.createDepthTexture(desc, 1)
	if err != nil {
		return err
	}
	view, err := tex.CreateView(&wgpu.TextureViewDescriptor{
		Label:           desc.Label + " View",
		Format:          wgpu.TextureFormatDepth32Float,
		Dimension:       wgpu.TextureViewDimension2DArray,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		tex.Release()
		return fmt.Errorf("failed to create fallback shadow view: %w", err)
	}
	samp, err := b.createComparisonSampler(common.SamplerDesc{Label: "Shadow Fallback Sampler", Compare: common.CompareLess})
	if err != nil {
		view.Release()
		tex.Release()
		return err
	}

	b.fallbackArray = &wgpuDepthTexture{texture: tex, resolution: 1, layers: 1}
	b.fallbackView = &wgpuTextureView{view: view}
	b.fallbackSample = samp
	return nil
}

func uniformEntry(binding uint32, visibility wgpu.ShaderStage, size uint64) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
		Buffer: wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeUniform,
			MinBindingSize: size,
		},
	}
}

func storageEntry(binding uint32, visibility wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
		Buffer: wgpu.BufferBindingLayout{
			Type: wgpu.BufferBindingTypeReadOnlyStorage,
		},
	}
}

func depthArrayEntry(binding uint32) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageFragment,
		Texture: wgpu.TextureBindingLayout{
			SampleType:    wgpu.TextureSampleTypeDepth,
			ViewDimension: wgpu.TextureViewDimension2DArray,
		},
	}
}

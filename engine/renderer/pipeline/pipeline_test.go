package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("lit", PipelineTypeRender)

	assert.Equal(t, "lit", p.PipelineKey())
	assert.Equal(t, PipelineTypeRender, p.Type())
	assert.Equal(t, "vs_main", p.VertexEntryPoint())
	assert.Equal(t, "fs_main", p.FragmentEntryPoint())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, wgpu.FrontFaceCW, p.FrontFace())
	assert.Equal(t, wgpu.CompareFunctionLess, p.DepthCompare())
	assert.True(t, p.DepthWriteEnabled())
	assert.Equal(t, uint32(1), p.SampleCount())
	assert.Nil(t, p.RenderPipeline())
}

func TestDepthOnlyPipelineHasNoFragmentStage(t *testing.T) {
	p := NewPipeline("shadow depth", PipelineTypeDepthOnly,
		WithEntryPoints("vs_depth", "fs_ignored"),
		WithDepthFormat(wgpu.TextureFormatDepth32Float),
		WithDepthBias(1000, 1.0),
	)

	assert.Equal(t, "vs_depth", p.VertexEntryPoint())
	assert.Empty(t, p.FragmentEntryPoint())
	assert.Equal(t, wgpu.TextureFormatDepth32Float, p.DepthFormat())
	assert.Equal(t, int32(1000), p.DepthBias())
	assert.Equal(t, float32(1.0), p.DepthBiasSlopeScale())
}

func TestPipelineOptions(t *testing.T) {
	layout := wgpu.VertexBufferLayout{ArrayStride: 24, StepMode: wgpu.VertexStepModeVertex}
	p := NewPipeline("custom", PipelineTypeRender,
		WithSource("// wgsl"),
		WithVertexLayouts(layout),
		WithCullMode(wgpu.CullModeNone),
		WithFrontFace(wgpu.FrontFaceCCW),
		WithTopology(wgpu.PrimitiveTopologyLineList),
		WithDepthWriteEnabled(false),
		WithDepthCompare(wgpu.CompareFunctionLessEqual),
		WithSampleCount(0),
	)

	assert.Equal(t, "// wgsl", p.Source())
	assert.Equal(t, []wgpu.VertexBufferLayout{layout}, p.VertexLayouts())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, p.Topology())
	assert.False(t, p.DepthWriteEnabled())
	assert.Equal(t, wgpu.CompareFunctionLessEqual, p.DepthCompare())
	assert.Equal(t, uint32(1), p.SampleCount())
}

func TestReleaseWithoutRegistration(t *testing.T) {
	p := NewPipeline("unregistered", PipelineTypeRender)
	assert.NotPanics(t, p.Release)
}

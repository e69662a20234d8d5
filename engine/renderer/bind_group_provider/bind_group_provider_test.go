package bind_group_provider

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shadowGroupEntries() []wgpu.BindGroupLayoutEntry {
	return []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeDepth,
				ViewDimension: wgpu.TextureViewDimension2DArray,
			},
		},
		{
			Binding:    1,
			Visibility: wgpu.ShaderStageFragment,
			Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeComparison},
		},
	}
}

func TestLayoutDescriptorUsesLabel(t *testing.T) {
	p := NewBindGroupProvider("Shadow Maps", WithLayoutEntries(shadowGroupEntries()...))

	desc := p.LayoutDescriptor()
	assert.Equal(t, "Shadow Maps Layout", desc.Label)
	assert.Len(t, desc.Entries, 2)
	assert.Equal(t, "Shadow Maps", p.Label())
}

func TestEntriesReportsMissingResources(t *testing.T) {
	p := NewBindGroupProvider("Shadow Maps", WithLayoutEntries(shadowGroupEntries()...))

	_, err := p.Entries()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "texture binding 0")
}

func TestEntriesReportsMissingBuffer(t *testing.T) {
	p := NewBindGroupProvider("Object",
		WithLayoutEntries(wgpu.BindGroupLayoutEntry{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex,
			Buffer: wgpu.BufferBindingLayout{
				Type:             wgpu.BufferBindingTypeUniform,
				HasDynamicOffset: true,
			},
		}),
		WithBindingSize(0, 144),
	)

	assert.Equal(t, uint64(144), p.BindingSize(0))
	assert.Zero(t, p.BindingSize(3))

	_, err := p.Entries()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "buffer binding 0")
}

func TestEmptyProviderReleaseIsSafe(t *testing.T) {
	p := NewBindGroupProvider("Empty")
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
	assert.NotPanics(t, p.Invalidate)
	assert.NotPanics(t, p.Release)

	entries, err := p.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

package bind_group_provider

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string
	// entries describes every binding of the group, in binding order.
	entries []wgpu.BindGroupLayoutEntry

	// The following fields are GPU allocated resources. They are populated by the Renderer, not by user-creation.

	// bindGroup is the GPU bind group, or nil until built or after Invalidate.
	bindGroup *wgpu.BindGroup
	// bindGroupLayout is the GPU bind group layout created from entries.
	bindGroupLayout *wgpu.BindGroupLayout
	// buffers holds the GPU buffers owned by this provider, keyed by binding index.
	buffers map[int]*wgpu.Buffer
	// bindingSizes holds the bound range of a buffer binding; dynamic-offset bindings bind one element.
	bindingSizes map[int]uint64
	// textureViews holds borrowed texture views, keyed by binding index.
	textureViews map[int]*wgpu.TextureView
	// samplers holds borrowed samplers, keyed by binding index.
	samplers map[int]*wgpu.Sampler
}

// BindGroupProvider describes one bind group and holds the resources bound into it.
//
// Usage pattern:
//  1. The Renderer creates a provider with the group's layout entries
//  2. The Renderer creates the layout and any owned buffers, storing them on the provider
//  3. Borrowed texture views and samplers are attached with SetTextureView and SetSampler
//  4. Entries() assembles the bind group entries once every binding has a resource
//  5. Invalidate() drops the bind group when a borrowed resource is about to change
//
// Buffers, the layout, and the bind group are owned by the provider and freed by Release.
// Texture views and samplers belong to whoever created them.
type BindGroupProvider interface {
	// Release releases the buffers, bind group and bind group layout held by this provider.
	Release()

	// Invalidate releases only the bind group so it is rebuilt on next use.
	Invalidate()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// LayoutEntries returns the layout entries describing the group.
	//
	// Returns:
	//   - []wgpu.BindGroupLayoutEntry: the entries in binding order
	LayoutEntries() []wgpu.BindGroupLayoutEntry

	// LayoutDescriptor returns a descriptor for creating the group's layout.
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor labeled after the provider
	LayoutDescriptor() wgpu.BindGroupLayoutDescriptor

	// BindGroup returns the created bind group for shader binding.
	// Returns nil if it has not been built or was invalidated.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the created bind group layout for this provider.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the bind group layout or nil
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the buffer bound at binding, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// BindingSize returns the bound range of a buffer binding. Zero binds the whole buffer.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - uint64: the bound size in bytes
	BindingSize(binding int) uint64

	// TextureView returns the GPU texture view for a specific binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view or nil
	TextureView(binding int) *wgpu.TextureView

	// Sampler returns the GPU sampler for a specific binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler or nil
	Sampler(binding int) *wgpu.Sampler

	// Entries assembles the bind group entries from the stored resources.
	//
	// Returns:
	//   - []wgpu.BindGroupEntry: one entry per layout entry
	//   - error: an error naming the first binding without a resource
	Entries() ([]wgpu.BindGroupEntry, error)

	// SetBindGroup sets the bind group built from Entries.
	//
	// Parameters:
	//   - bg: the created bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBindGroupLayout sets the bind group layout created from LayoutDescriptor.
	//
	// Parameters:
	//   - bgl: the created bind group layout
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// SetBuffer stores an owned buffer for a binding, releasing any previous one and
	// invalidating the bind group.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetTextureView stores a borrowed texture view for a binding and invalidates the bind
	// group when the view changed.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tv: the texture view to store
	SetTextureView(binding int, tv *wgpu.TextureView)

	// SetSampler stores a borrowed sampler for a binding and invalidates the bind group when
	// the sampler changed.
	//
	// Parameters:
	//   - binding: the binding index
	//   - s: the sampler to store
	SetSampler(binding int, s *wgpu.Sampler)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: the debug label used for the layout, buffers and bind group
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		bindingSizes: make(map[int]uint64),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) LayoutEntries() []wgpu.BindGroupLayoutEntry {
	return p.entries
}

func (p *bindGroupProvider) LayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label:   p.label + " Layout",
		Entries: p.entries,
	}
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) BindingSize(binding int) uint64 {
	return p.bindingSizes[binding]
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) Entries() ([]wgpu.BindGroupEntry, error) {
	out := make([]wgpu.BindGroupEntry, 0, len(p.entries))
	for _, e := range p.entries {
		binding := int(e.Binding)
		switch {
		case e.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
			tv := p.textureViews[binding]
			if tv == nil {
				return nil, fmt.Errorf("%s: texture binding %d has no view", p.label, binding)
			}
			out = append(out, wgpu.BindGroupEntry{Binding: e.Binding, TextureView: tv})
		case e.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			s := p.samplers[binding]
			if s == nil {
				return nil, fmt.Errorf("%s: sampler binding %d has no sampler", p.label, binding)
			}
			out = append(out, wgpu.BindGroupEntry{Binding: e.Binding, Sampler: s})
		default:
			buf := p.buffers[binding]
			if buf == nil {
				return nil, fmt.Errorf("%s: buffer binding %d has no buffer", p.label, binding)
			}
			size := p.bindingSizes[binding]
			if size == 0 {
				size = wgpu.WholeSize
			}
			out = append(out, wgpu.BindGroupEntry{Binding: e.Binding, Buffer: buf, Offset: 0, Size: size})
		}
	}
	return out, nil
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.Invalidate()
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	if old := p.buffers[binding]; old != nil && old != buf {
		old.Release()
	}
	p.buffers[binding] = buf
	p.Invalidate()
}

func (p *bindGroupProvider) SetTextureView(binding int, tv *wgpu.TextureView) {
	if p.textureViews[binding] != tv {
		p.textureViews[binding] = tv
		p.Invalidate()
	}
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	if p.samplers[binding] != s {
		p.samplers[binding] = s
		p.Invalidate()
	}
}

func (p *bindGroupProvider) Invalidate() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
}

func (p *bindGroupProvider) Release() {
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	clear(p.textureViews)
	clear(p.samplers)

	p.Invalidate()
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
}

// BufferWrite is one queue write into the buffer attached at Binding of Provider.
// Writes into a missing buffer or with empty Data are skipped.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithLayoutEntries sets the layout entries of the group.
//
// Parameters:
//   - entries: the layout entries in binding order
//
// Returns:
//   - BindGroupProviderOption: a function that sets the layout entries for this provider
func WithLayoutEntries(entries ...wgpu.BindGroupLayoutEntry) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.entries = entries
	}
}

// WithBindingSize sets the bound range of a buffer binding. Dynamic-offset bindings bind a
// single element and must set this to the element size.
//
// Parameters:
//   - binding: the binding index
//   - size: the bound size in bytes
//
// Returns:
//   - BindGroupProviderOption: a function that sets the binding size for this provider
func WithBindingSize(binding int, size uint64) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindingSizes[binding] = size
	}
}

// WithBindGroupLayout sets the bind group layout for this provider.
//
// Parameters:
//   - bgl: the bind group layout to use for this provider
//
// Returns:
//   - BindGroupProviderOption: a function that sets the bind group layout for this provider
func WithBindGroupLayout(bgl *wgpu.BindGroupLayout) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindGroupLayout = bgl
	}
}

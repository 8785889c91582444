package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/craft"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

// ErrBindingArrayUnsupported is returned when a bind group containing an
// array resource is created on a device without binding array support.
var ErrBindingArrayUnsupported = errors.New("gpu: binding arrays are not supported by the device")

// ErrEmptyResource is returned for a binding entry with no resource set.
var ErrEmptyResource = errors.New("gpu: binding entry has no resource")

type resourceKind uint8

const (
	resourceNone resourceKind = iota
	resourceBuffer
	resourceSampler
	resourceTextureView
	resourceBufferArray
	resourceSamplerArray
	resourceTextureViewArray
)

// Resource is the concrete object bound at one slot.
// Build it with one of the *Resource constructors.
type Resource struct {
	kind     resourceKind
	buffer   *wgpu.Buffer
	offset   uint64
	size     uint64
	sampler  *wgpu.Sampler
	view     *wgpu.TextureView
	buffers  []*wgpu.Buffer
	samplers []*wgpu.Sampler
	views    []*wgpu.TextureView
}

// BufferResource binds size bytes of b starting at offset. Size 0 binds
// the rest of the buffer.
func BufferResource(b *wgpu.Buffer, offset, size uint64) Resource {
	return Resource{kind: resourceBuffer, buffer: b, offset: offset, size: size}
}

// SamplerResource binds a sampler.
func SamplerResource(s *wgpu.Sampler) Resource {
	return Resource{kind: resourceSampler, sampler: s}
}

// TextureViewResource binds a texture view.
func TextureViewResource(v *wgpu.TextureView) Resource {
	return Resource{kind: resourceTextureView, view: v}
}

// BufferArrayResource binds an array of whole buffers.
func BufferArrayResource(bs ...*wgpu.Buffer) Resource {
	return Resource{kind: resourceBufferArray, buffers: bs}
}

// SamplerArrayResource binds an array of samplers.
func SamplerArrayResource(ss ...*wgpu.Sampler) Resource {
	return Resource{kind: resourceSamplerArray, samplers: ss}
}

// TextureViewArrayResource binds an array of texture views.
func TextureViewArrayResource(vs ...*wgpu.TextureView) Resource {
	return Resource{kind: resourceTextureViewArray, views: vs}
}

// Count returns the array length for array resources and 0 otherwise.
func (r Resource) Count() uint32 {
	switch r.kind {
	case resourceBufferArray:
		return uint32(len(r.buffers))
	case resourceSamplerArray:
		return uint32(len(r.samplers))
	case resourceTextureViewArray:
		return uint32(len(r.views))
	default:
		return 0
	}
}

// IsArray reports whether r binds an array of resources.
func (r Resource) IsArray() bool {
	return r.kind >= resourceBufferArray
}

// BindingType is the resource kind a slot expects. Exactly one field is set.
type BindingType struct {
	Buffer         *gputypes.BufferBindingLayout
	Sampler        *gputypes.SamplerBindingLayout
	Texture        *gputypes.TextureBindingLayout
	StorageTexture *gputypes.StorageTextureBindingLayout
}

// Texture2D is a filterable float 2D texture slot.
func Texture2D() BindingType {
	return BindingType{Texture: &gputypes.TextureBindingLayout{
		SampleType:    gputypes.TextureSampleTypeFloat,
		ViewDimension: gputypes.TextureViewDimension2D,
	}}
}

// FilteringSampler is a filtering sampler slot.
func FilteringSampler() BindingType {
	return BindingType{Sampler: &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering}}
}

// UniformBuffer is a uniform buffer slot.
func UniformBuffer() BindingType {
	return BindingType{Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}}
}

// BindingEntry pairs one slot declaration with the resource that fills it.
type BindingEntry struct {
	Binding    uint32
	Visibility wgpu.ShaderStages
	Type       BindingType
	Resource   Resource
}

// LayoutEntry is the layout record derived from a BindingEntry.
// Count is the array length for array resources and 0 otherwise.
type LayoutEntry struct {
	Binding    uint32
	Visibility wgpu.ShaderStages
	Type       BindingType
	Count      uint32
}

func (e LayoutEntry) toWGPU() wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:        e.Binding,
		Visibility:     e.Visibility,
		Buffer:         e.Type.Buffer,
		Sampler:        e.Type.Sampler,
		Texture:        e.Type.Texture,
		StorageTexture: e.Type.StorageTexture,
	}
}

// DescribeLayout derives one layout entry per binding entry, in order.
func DescribeLayout(entries []BindingEntry) []LayoutEntry {
	out := make([]LayoutEntry, len(entries))
	for i, e := range entries {
		out[i] = LayoutEntry{
			Binding:    e.Binding,
			Visibility: e.Visibility,
			Type:       e.Type,
			Count:      e.Resource.Count(),
		}
	}
	return out
}

// BindGroup owns a bind group and, unless it was built against an
// existing layout, the layout it was created from.
type BindGroup struct {
	group      *wgpu.BindGroup
	layout     *wgpu.BindGroupLayout
	entries    []LayoutEntry
	ownsLayout bool
}

// NewBindGroup creates the layout "<label>_layout" from entries and then a
// bind group against it. Entries are not checked against any shader; a
// mismatch surfaces as a validation error at draw time.
func NewBindGroup(dev Device, label string, entries []BindingEntry) (*BindGroup, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	desc := DescribeLayout(entries)
	for _, e := range desc {
		if e.Count > 0 {
			return nil, fmt.Errorf("%w: %q binding %d has %d elements", ErrBindingArrayUnsupported, label, e.Binding, e.Count)
		}
	}

	wgEntries := make([]wgpu.BindGroupLayoutEntry, len(desc))
	for i, e := range desc {
		wgEntries[i] = e.toWGPU()
	}
	layout, err := dev.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   label + "_layout",
		Entries: wgEntries,
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group layout %q: %w", label, err)
	}

	bg, err := bindGroupWithLayout(dev, label, layout, desc, entries)
	if err != nil {
		if layout != nil {
			layout.Release()
		}
		return nil, err
	}
	bg.ownsLayout = true
	return bg, nil
}

// BindGroupWithLayout creates a bind group against an existing layout,
// which stays owned by the caller.
func BindGroupWithLayout(dev Device, label string, layout *wgpu.BindGroupLayout, entries []BindingEntry) (*BindGroup, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	return bindGroupWithLayout(dev, label, layout, DescribeLayout(entries), entries)
}

func bindGroupWithLayout(dev Device, label string, layout *wgpu.BindGroupLayout, desc []LayoutEntry, entries []BindingEntry) (*BindGroup, error) {
	groupEntries := make([]wgpu.BindGroupEntry, 0, len(entries))
	for _, e := range entries {
		ge := wgpu.BindGroupEntry{Binding: e.Binding}
		switch e.Resource.kind {
		case resourceBuffer:
			ge.Buffer, ge.Offset, ge.Size = e.Resource.buffer, e.Resource.offset, e.Resource.size
		case resourceSampler:
			ge.Sampler = e.Resource.sampler
		case resourceTextureView:
			ge.TextureView = e.Resource.view
		case resourceNone:
			return nil, fmt.Errorf("%w: %q binding %d", ErrEmptyResource, label, e.Binding)
		default:
			return nil, fmt.Errorf("%w: %q binding %d", ErrBindingArrayUnsupported, label, e.Binding)
		}
		groupEntries = append(groupEntries, ge)
	}

	group, err := dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   label,
		Layout:  layout,
		Entries: groupEntries,
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group %q: %w", label, err)
	}

	craft.Logger().Debug("bind group created", "label", label, "entries", len(entries))
	return &BindGroup{group: group, layout: layout, entries: desc}, nil
}

// FromRaw adopts an existing bind group and its layout. The caller vouches
// that group was created against layout and that entries describe it.
// The returned BindGroup releases both.
func FromRaw(group *wgpu.BindGroup, layout *wgpu.BindGroupLayout, entries []LayoutEntry) *BindGroup {
	return &BindGroup{group: group, layout: layout, entries: entries, ownsLayout: true}
}

// Inner returns the underlying wgpu bind group.
func (b *BindGroup) Inner() *wgpu.BindGroup { return b.group }

// Layout returns the layout the group was created against.
func (b *BindGroup) Layout() *wgpu.BindGroupLayout { return b.layout }

// LayoutEntries returns the derived layout description.
func (b *BindGroup) LayoutEntries() []LayoutEntry { return b.entries }

// Release frees the bind group and then its layout if owned.
// Safe to call more than once.
func (b *BindGroup) Release() {
	if b == nil {
		return
	}
	if b.group != nil {
		b.group.Release()
		b.group = nil
	}
	if b.ownsLayout && b.layout != nil {
		b.layout.Release()
	}
	b.layout = nil
}

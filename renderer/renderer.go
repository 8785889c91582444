// Package renderer owns the GPU state of one window: the surface it
// presents to, the device and queue, and the textured quad drawn every
// frame.
//
// A Renderer is created against a Target (usually *window.Window), resized
// when the framebuffer changes and asked to Render once per loop iteration.
// Errors returned by Render are sorted with Classify.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/gogpu/craft"
	"github.com/gogpu/craft/gpu"
	"github.com/gogpu/craft/window"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

// Target is a window a surface can be created for.
type Target interface {
	// SurfaceHandles returns the platform display and window handles.
	SurfaceHandles() (display, window uintptr, err error)

	// FramebufferSize returns the drawable size in physical pixels.
	FramebufferSize() (width, height int)
}

// Renderer draws one textured quad into a window surface.
//
// Renderer is not safe for concurrent use. All methods must be called from
// the goroutine that owns the window.
type Renderer struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device

	dev     gpu.RenderDevice
	queue   gpu.Queue
	surface Surface
	config  wgpu.SurfaceConfiguration
	clear   wgpu.Color

	texture   *gpu.Texture
	bindGroup *gpu.BindGroup
	pipeline  *gpu.Pipeline
	vertices  *gpu.Buffer
	indices   *gpu.Buffer
	memory    *gpu.Memory

	frames uint64
	closed bool
}

var _ gpucontext.DeviceProvider = (*Renderer)(nil)

// New creates the GPU instance, surface, adapter and device for target and
// uploads the quad resources.
//
// The surface uses the first format the adapter reports and FIFO
// presentation. Creation fails when no adapter can present to the surface.
func New(target Target, opts ...Option) (*Renderer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	display, handle, err := target.SurfaceHandles()
	if err != nil {
		return nil, fmt.Errorf("renderer: surface handles: %w", err)
	}

	desc := &wgpu.InstanceDescriptor{Backends: o.backends}
	if o.debug {
		desc.Flags = gputypes.InstanceFlagsDebug
	}
	instance, err := wgpu.CreateInstance(desc)
	if err != nil {
		return nil, fmt.Errorf("renderer: create instance: %w", err)
	}
	r := &Renderer{instance: instance}

	raw, err := instance.CreateSurface(display, handle)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("renderer: create surface: %w", err)
	}
	surface := &wgpuSurface{surface: raw}
	r.surface = surface

	r.adapter, err = instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference:   o.power,
		CompatibleSurface: raw,
	})
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("%w: %w", ErrNoAdapter, err)
	}
	info := r.adapter.Info()
	craft.Logger().Info("adapter selected", "name", info.Name, "backend", info.Backend, "type", info.DeviceType)

	r.device, err = r.adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "craft device"})
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("renderer: request device: %w", err)
	}
	surface.device = r.device

	caps := r.adapter.GetSurfaceCapabilities(raw)
	if caps == nil || len(caps.Formats) == 0 {
		r.Close()
		return nil, ErrNoSurfaceFormat
	}
	alpha := gputypes.CompositeAlphaModeOpaque
	if len(caps.AlphaModes) > 0 {
		alpha = caps.AlphaModes[0]
	}

	w, h := target.FramebufferSize()
	r.config = wgpu.SurfaceConfiguration{
		Width:       uint32(max(w, 1)),
		Height:      uint32(max(h, 1)),
		Format:      caps.Formats[0],
		Usage:       wgpu.TextureUsageRenderAttachment,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   alpha,
	}
	if err := r.init(gpu.WrapDevice(r.device), r.device.Queue(), o); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

// init configures the surface and creates the quad resources. r.surface and
// r.config must be set.
func (r *Renderer) init(dev gpu.RenderDevice, queue gpu.Queue, o options) error {
	r.dev = dev
	r.queue = queue
	r.clear = o.clear
	r.memory = gpu.NewMemory(o.memoryMB)

	if err := r.surface.Configure(r.config); err != nil {
		return fmt.Errorf("renderer: configure surface: %w", err)
	}

	img, err := gpu.DecodeImage(bytes.NewReader(o.texture))
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	r.texture, err = gpu.NewTexture(dev, queue, gpu.ImageDescriptor("dirt_texture", img), nil)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	if err := r.memory.TrackTexture(r.texture); err != nil {
		return fmt.Errorf("renderer: %w", err)
	}

	r.bindGroup, err = gpu.NewBindGroup(dev, "diffuse_texture_group", []gpu.BindingEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageFragment,
			Type:       gpu.Texture2D(),
			Resource:   gpu.TextureViewResource(r.texture.View()),
		},
		{
			Binding:    1,
			Visibility: wgpu.ShaderStageFragment,
			Type:       gpu.FilteringSampler(),
			Resource:   gpu.SamplerResource(r.texture.Sampler()),
		},
	})
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}

	r.pipeline, err = gpu.CreatePipeline(dev, gpu.PipelineConfig{
		Shader:           o.shader,
		Format:           r.config.Format,
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.bindGroup.Layout()},
	})
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}

	r.vertices, err = gpu.NewBuffer(dev, queue, gpu.BufferInit[gpu.Vertex]{
		Label:    "Vertex Buffer",
		Usage:    wgpu.BufferUsageVertex,
		Contents: QuadVertices,
	})
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	if err := r.memory.TrackBuffer(r.vertices); err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	r.indices, err = gpu.NewBuffer(dev, queue, gpu.BufferInit[uint16]{
		Label:    "Index Buffer",
		Usage:    wgpu.BufferUsageIndex,
		Contents: QuadIndices,
	})
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	if err := r.memory.TrackBuffer(r.indices); err != nil {
		return fmt.Errorf("renderer: %w", err)
	}

	craft.Logger().Debug("renderer ready",
		"width", r.config.Width, "height", r.config.Height, "format", r.config.Format,
		"memory", r.memory.Stats())
	return nil
}

// Resize reconfigures the surface for a new framebuffer size.
// A zero or negative dimension (a minimized window) is ignored and the
// previous configuration is kept.
func (r *Renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	if r.closed {
		return ErrClosed
	}
	r.config.Width = uint32(width)
	r.config.Height = uint32(height)
	if err := r.surface.Configure(r.config); err != nil {
		return fmt.Errorf("renderer: configure surface: %w", err)
	}
	craft.Logger().Debug("surface resized", "width", width, "height", height)
	return nil
}

// Input offers a window event to the renderer. It reports whether the
// event was consumed; the quad renderer consumes nothing.
func (r *Renderer) Input(window.Event) bool {
	return false
}

// Update advances per-frame state. The quad is static.
func (r *Renderer) Update() {}

// Render acquires the next surface image, draws the quad over the clear
// color and presents it.
//
// Acquisition errors are returned wrapped; use Classify to decide between
// reconfiguring, skipping the frame and exiting.
func (r *Renderer) Render() error {
	if r.closed {
		return ErrClosed
	}

	frame, err := r.surface.Acquire()
	if err != nil {
		return fmt.Errorf("renderer: acquire frame: %w", err)
	}

	encoder, err := r.dev.CreateCommandEncoder("Render Encoder")
	if err != nil {
		frame.Discard()
		return fmt.Errorf("renderer: %w", err)
	}

	pass, err := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Render Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       frame.View(),
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: r.clear,
		}},
	})
	if err != nil {
		frame.Discard()
		return fmt.Errorf("renderer: begin render pass: %w", err)
	}
	pass.SetPipeline(r.pipeline.Inner())
	pass.SetBindGroup(0, r.bindGroup.Inner(), nil)
	pass.SetVertexBuffer(0, r.vertices.Inner(), 0)
	pass.SetIndexBuffer(r.indices.Inner(), gputypes.IndexFormatUint16, 0)
	pass.DrawIndexed(uint32(r.indices.Len()), 1, 0, 0, 0)
	if err := pass.End(); err != nil {
		frame.Discard()
		return fmt.Errorf("renderer: end render pass: %w", err)
	}

	commands, err := encoder.Finish()
	if err != nil {
		frame.Discard()
		return fmt.Errorf("renderer: finish encoder: %w", err)
	}
	if _, err := r.queue.Submit(commands); err != nil {
		frame.Discard()
		return fmt.Errorf("renderer: submit: %w", err)
	}
	if err := frame.Present(); err != nil {
		return fmt.Errorf("renderer: present: %w", err)
	}

	r.frames++
	craft.Logger().Debug("frame presented", "frame", r.frames)
	return nil
}

// Size returns the configured surface size.
func (r *Renderer) Size() (width, height int) {
	return int(r.config.Width), int(r.config.Height)
}

// Config returns the current surface configuration.
func (r *Renderer) Config() wgpu.SurfaceConfiguration { return r.config }

// Frames returns the number of frames presented so far.
func (r *Renderer) Frames() uint64 { return r.frames }

// MemoryStats reports the GPU memory held by the quad resources.
func (r *Renderer) MemoryStats() gpu.MemoryStats {
	if r.memory == nil {
		return gpu.MemoryStats{}
	}
	return r.memory.Stats()
}

// Device returns the *wgpu.Device.
func (r *Renderer) Device() gpucontext.Device {
	if r.device == nil {
		return nil
	}
	return r.device
}

// Queue returns the *wgpu.Queue.
func (r *Renderer) Queue() gpucontext.Queue {
	if r.device == nil {
		return nil
	}
	return r.device.Queue()
}

// Adapter returns the *wgpu.Adapter.
func (r *Renderer) Adapter() gpucontext.Adapter {
	if r.adapter == nil {
		return nil
	}
	return r.adapter
}

// SurfaceFormat returns the configured surface format.
func (r *Renderer) SurfaceFormat() gputypes.TextureFormat { return r.config.Format }

// AdapterInfo describes the selected adapter.
func (r *Renderer) AdapterInfo() gpucontext.AdapterInfo {
	if r.adapter == nil {
		return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
	}
	info := r.adapter.Info()
	return gpucontext.AdapterInfo{Name: info.Name, Type: adapterType(info.DeviceType)}
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}

// Close releases every GPU resource, dependents before the objects they
// were created from. It is safe to call more than once.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	r.closed = true

	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
	if r.bindGroup != nil {
		r.bindGroup.Release()
		r.bindGroup = nil
	}
	if r.texture != nil {
		r.memory.Forget(r.texture)
		r.texture.Release()
		r.texture = nil
	}
	if r.indices != nil {
		r.memory.Forget(r.indices)
		r.indices.Release()
		r.indices = nil
	}
	if r.vertices != nil {
		r.memory.Forget(r.vertices)
		r.vertices.Release()
		r.vertices = nil
	}
	if r.memory != nil {
		r.memory.Close()
	}
	if r.surface != nil {
		r.surface.Release()
		r.surface = nil
	}
	if r.device != nil {
		r.device.Release()
		r.device = nil
	}
	if r.adapter != nil {
		r.adapter.Release()
		r.adapter = nil
	}
	if r.instance != nil {
		r.instance.Release()
		r.instance = nil
	}
	craft.Logger().Debug("renderer closed", "frames", r.frames)
}

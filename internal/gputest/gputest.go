// Package gputest provides recording fakes of the gpu device and queue
// interfaces for tests that run without a GPU.
//
// Every created resource is a nil pointer; the fakes only record the
// descriptors and calls they receive.
package gputest

import (
	"github.com/gogpu/craft/gpu"
	"github.com/gogpu/wgpu"
)

// Device records resource creation calls.
// Setting Fail[method] makes that method return the error.
type Device struct {
	Fail map[string]error

	Buffers          []wgpu.BufferDescriptor
	Textures         []wgpu.TextureDescriptor
	Views            int
	Samplers         []wgpu.SamplerDescriptor
	ShaderModules    []wgpu.ShaderModuleDescriptor
	BindGroupLayouts []wgpu.BindGroupLayoutDescriptor
	PipelineLayouts  []wgpu.PipelineLayoutDescriptor
	BindGroups       []wgpu.BindGroupDescriptor
	RenderPipelines  []wgpu.RenderPipelineDescriptor
	Encoders         []*Encoder
}

var _ gpu.RenderDevice = (*Device)(nil)

// NewDevice returns an empty recording device.
func NewDevice() *Device {
	return &Device{Fail: make(map[string]error)}
}

func (d *Device) fail(method string) error {
	if d.Fail == nil {
		return nil
	}
	return d.Fail[method]
}

func (d *Device) CreateBuffer(desc *wgpu.BufferDescriptor) (*wgpu.Buffer, error) {
	if err := d.fail("CreateBuffer"); err != nil {
		return nil, err
	}
	d.Buffers = append(d.Buffers, *desc)
	return nil, nil
}

func (d *Device) CreateTexture(desc *wgpu.TextureDescriptor) (*wgpu.Texture, error) {
	if err := d.fail("CreateTexture"); err != nil {
		return nil, err
	}
	d.Textures = append(d.Textures, *desc)
	return nil, nil
}

func (d *Device) CreateTextureView(*wgpu.Texture, *wgpu.TextureViewDescriptor) (*wgpu.TextureView, error) {
	if err := d.fail("CreateTextureView"); err != nil {
		return nil, err
	}
	d.Views++
	return nil, nil
}

func (d *Device) CreateSampler(desc *wgpu.SamplerDescriptor) (*wgpu.Sampler, error) {
	if err := d.fail("CreateSampler"); err != nil {
		return nil, err
	}
	d.Samplers = append(d.Samplers, *desc)
	return nil, nil
}

func (d *Device) CreateShaderModule(desc *wgpu.ShaderModuleDescriptor) (*wgpu.ShaderModule, error) {
	if err := d.fail("CreateShaderModule"); err != nil {
		return nil, err
	}
	d.ShaderModules = append(d.ShaderModules, *desc)
	return nil, nil
}

func (d *Device) CreateBindGroupLayout(desc *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	if err := d.fail("CreateBindGroupLayout"); err != nil {
		return nil, err
	}
	d.BindGroupLayouts = append(d.BindGroupLayouts, *desc)
	return nil, nil
}

func (d *Device) CreatePipelineLayout(desc *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error) {
	if err := d.fail("CreatePipelineLayout"); err != nil {
		return nil, err
	}
	d.PipelineLayouts = append(d.PipelineLayouts, *desc)
	return nil, nil
}

func (d *Device) CreateBindGroup(desc *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	if err := d.fail("CreateBindGroup"); err != nil {
		return nil, err
	}
	d.BindGroups = append(d.BindGroups, *desc)
	return nil, nil
}

func (d *Device) CreateRenderPipeline(desc *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error) {
	if err := d.fail("CreateRenderPipeline"); err != nil {
		return nil, err
	}
	d.RenderPipelines = append(d.RenderPipelines, *desc)
	return nil, nil
}

func (d *Device) CreateCommandEncoder(label string) (gpu.CommandEncoder, error) {
	if err := d.fail("CreateCommandEncoder"); err != nil {
		return nil, err
	}
	enc := &Encoder{Label: label}
	d.Encoders = append(d.Encoders, enc)
	return enc, nil
}

// Encoder records render passes.
type Encoder struct {
	Label    string
	Passes   []*Pass
	Finished bool
}

func (e *Encoder) BeginRenderPass(desc *wgpu.RenderPassDescriptor) (gpu.RenderPass, error) {
	p := &Pass{Desc: *desc}
	e.Passes = append(e.Passes, p)
	return p, nil
}

func (e *Encoder) Finish() (*wgpu.CommandBuffer, error) {
	e.Finished = true
	return nil, nil
}

// DrawIndexed is one recorded indexed draw.
type DrawIndexed struct {
	IndexCount    uint32
	InstanceCount uint32
	FirstIndex    uint32
	BaseVertex    int32
	FirstInstance uint32
}

// Pass records the commands issued inside one render pass.
type Pass struct {
	Desc          wgpu.RenderPassDescriptor
	Pipelines     int
	BindGroups    []uint32
	VertexBuffers []uint32
	IndexFormat   wgpu.IndexFormat
	IndexBuffers  int
	Draws         []DrawIndexed
	Ended         bool
}

func (p *Pass) SetPipeline(*wgpu.RenderPipeline) { p.Pipelines++ }

func (p *Pass) SetBindGroup(index uint32, _ *wgpu.BindGroup, _ []uint32) {
	p.BindGroups = append(p.BindGroups, index)
}

func (p *Pass) SetVertexBuffer(slot uint32, _ *wgpu.Buffer, _ uint64) {
	p.VertexBuffers = append(p.VertexBuffers, slot)
}

func (p *Pass) SetIndexBuffer(_ *wgpu.Buffer, format wgpu.IndexFormat, _ uint64) {
	p.IndexBuffers++
	p.IndexFormat = format
}

func (p *Pass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.Draws = append(p.Draws, DrawIndexed{indexCount, instanceCount, firstIndex, baseVertex, firstInstance})
}

func (p *Pass) End() error {
	p.Ended = true
	return nil
}

// BufferWrite is one recorded Queue.WriteBuffer call.
type BufferWrite struct {
	Offset uint64
	Data   []byte
}

// TextureWrite is one recorded Queue.WriteTexture call.
type TextureWrite struct {
	Data   []byte
	Layout wgpu.ImageDataLayout
	Size   wgpu.Extent3D
}

// Queue records uploads and submissions.
type Queue struct {
	Fail map[string]error

	BufferWrites  []BufferWrite
	TextureWrites []TextureWrite
	Submits       [][]*wgpu.CommandBuffer
}

var _ gpu.Queue = (*Queue)(nil)

// NewQueue returns an empty recording queue.
func NewQueue() *Queue {
	return &Queue{Fail: make(map[string]error)}
}

func (q *Queue) WriteBuffer(_ *wgpu.Buffer, offset uint64, data []byte) error {
	if err := q.Fail["WriteBuffer"]; err != nil {
		return err
	}
	q.BufferWrites = append(q.BufferWrites, BufferWrite{Offset: offset, Data: append([]byte(nil), data...)})
	return nil
}

func (q *Queue) WriteTexture(_ *wgpu.ImageCopyTexture, data []byte, layout *wgpu.ImageDataLayout, size *wgpu.Extent3D) error {
	if err := q.Fail["WriteTexture"]; err != nil {
		return err
	}
	q.TextureWrites = append(q.TextureWrites, TextureWrite{
		Data:   append([]byte(nil), data...),
		Layout: *layout,
		Size:   *size,
	})
	return nil
}

func (q *Queue) Submit(cbs ...*wgpu.CommandBuffer) (uint64, error) {
	if err := q.Fail["Submit"]; err != nil {
		return 0, err
	}
	q.Submits = append(q.Submits, cbs)
	return uint64(len(q.Submits)), nil
}

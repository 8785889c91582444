// Package gpu provides thin owning wrappers around gogpu/wgpu resources
// (buffers, textures, bind groups, render pipelines) together with the
// narrow device and queue interfaces they are created through.
//
// The interfaces are satisfied by *wgpu.Device and *wgpu.Queue directly,
// so production code passes the real objects while tests can substitute
// recording fakes.
package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/wgpu"
)

// Constructor errors.
var (
	// ErrNilDevice is returned when a constructor is called without a device.
	ErrNilDevice = errors.New("gpu: device is nil")

	// ErrNilQueue is returned when a constructor that uploads data is called
	// without a queue.
	ErrNilQueue = errors.New("gpu: queue is nil")
)

// Device is the subset of *wgpu.Device used to create resources.
type Device interface {
	CreateBuffer(desc *wgpu.BufferDescriptor) (*wgpu.Buffer, error)
	CreateTexture(desc *wgpu.TextureDescriptor) (*wgpu.Texture, error)
	CreateTextureView(texture *wgpu.Texture, desc *wgpu.TextureViewDescriptor) (*wgpu.TextureView, error)
	CreateSampler(desc *wgpu.SamplerDescriptor) (*wgpu.Sampler, error)
	CreateShaderModule(desc *wgpu.ShaderModuleDescriptor) (*wgpu.ShaderModule, error)
	CreateBindGroupLayout(desc *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error)
	CreatePipelineLayout(desc *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error)
	CreateBindGroup(desc *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error)
	CreateRenderPipeline(desc *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error)
}

// Queue is the subset of *wgpu.Queue used for uploads and submission.
type Queue interface {
	WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte) error
	WriteTexture(dst *wgpu.ImageCopyTexture, data []byte, layout *wgpu.ImageDataLayout, size *wgpu.Extent3D) error
	Submit(commandBuffers ...*wgpu.CommandBuffer) (uint64, error)
}

// RenderPass records draw commands. *wgpu.RenderPassEncoder satisfies it.
type RenderPass interface {
	SetPipeline(pipeline *wgpu.RenderPipeline)
	SetBindGroup(index uint32, group *wgpu.BindGroup, offsets []uint32)
	SetVertexBuffer(slot uint32, buffer *wgpu.Buffer, offset uint64)
	SetIndexBuffer(buffer *wgpu.Buffer, format wgpu.IndexFormat, offset uint64)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
	End() error
}

// CommandEncoder records one command buffer.
type CommandEncoder interface {
	BeginRenderPass(desc *wgpu.RenderPassDescriptor) (RenderPass, error)
	Finish() (*wgpu.CommandBuffer, error)
}

// RenderDevice is a Device that can also open command encoders.
type RenderDevice interface {
	Device
	CreateCommandEncoder(label string) (CommandEncoder, error)
}

// WrapDevice adapts a *wgpu.Device to RenderDevice.
func WrapDevice(d *wgpu.Device) RenderDevice {
	return wgpuDevice{d}
}

type wgpuDevice struct {
	*wgpu.Device
}

func (d wgpuDevice) CreateCommandEncoder(label string) (CommandEncoder, error) {
	enc, err := d.Device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	return wgpuEncoder{enc}, nil
}

type wgpuEncoder struct {
	*wgpu.CommandEncoder
}

func (e wgpuEncoder) BeginRenderPass(desc *wgpu.RenderPassDescriptor) (RenderPass, error) {
	pass, err := e.CommandEncoder.BeginRenderPass(desc)
	if err != nil {
		return nil, err
	}
	return pass, nil
}

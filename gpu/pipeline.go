package gpu

import (
	"fmt"

	"github.com/gogpu/craft"
	"github.com/gogpu/craft/shader"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

// Entry points every pipeline shader must provide.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// PipelineConfig describes a render pipeline drawing Vertex data into a
// single color target.
type PipelineConfig struct {
	// Label defaults to "Render Pipeline". The pipeline layout is labeled
	// "<Label> Layout".
	Label string

	// Shader is the WGSL source providing vs_main and fs_main.
	Shader string

	// Format is the color target format, normally the surface format.
	Format wgpu.TextureFormat

	// BindGroupLayouts are bound at group indices in order.
	BindGroupLayouts []*wgpu.BindGroupLayout
}

// Pipeline owns a render pipeline with its layout and shader module.
type Pipeline struct {
	pipeline *wgpu.RenderPipeline
	layout   *wgpu.PipelineLayout
	module   *wgpu.ShaderModule
}

// CreatePipeline checks the shader's entry points, compiles it and builds a
// triangle-list pipeline: counter-clockwise front faces, back-face culling,
// one sample, replace blending and no depth attachment.
func CreatePipeline(dev Device, cfg PipelineConfig) (*Pipeline, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	if cfg.Label == "" {
		cfg.Label = "Render Pipeline"
	}

	info, err := shader.Reflect(cfg.Shader)
	if err != nil {
		return nil, fmt.Errorf("reflect %q shader: %w", cfg.Label, err)
	}
	if err := info.Require(VertexEntryPoint, shader.StageVertex); err != nil {
		return nil, err
	}
	if err := info.Require(FragmentEntryPoint, shader.StageFragment); err != nil {
		return nil, err
	}

	p := &Pipeline{}
	p.module, err = dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: cfg.Label + " Shader",
		WGSL:  cfg.Shader,
	})
	if err != nil {
		return nil, fmt.Errorf("compile %q shader: %w", cfg.Label, err)
	}

	p.layout, err = dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            cfg.Label + " Layout",
		BindGroupLayouts: cfg.BindGroupLayouts,
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("create %q layout: %w", cfg.Label, err)
	}

	blend := gputypes.BlendStateReplace()
	p.pipeline, err = dev.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  cfg.Label,
		Layout: p.layout,
		Vertex: wgpu.VertexState{
			Module:     p.module,
			EntryPoint: VertexEntryPoint,
			Buffers:    []wgpu.VertexBufferLayout{VertexLayout()},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeBack,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  ^uint64(0),
		},
		Fragment: &wgpu.FragmentState{
			Module:     p.module,
			EntryPoint: FragmentEntryPoint,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    cfg.Format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("create %q: %w", cfg.Label, err)
	}

	craft.Logger().Debug("pipeline created", "label", cfg.Label, "format", cfg.Format, "groups", len(cfg.BindGroupLayouts))
	return p, nil
}

// Inner returns the underlying render pipeline.
func (p *Pipeline) Inner() *wgpu.RenderPipeline { return p.pipeline }

// Layout returns the pipeline layout.
func (p *Pipeline) Layout() *wgpu.PipelineLayout { return p.layout }

// Release frees the pipeline, its layout and the shader module.
// Safe to call more than once.
func (p *Pipeline) Release() {
	if p == nil {
		return
	}
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
	if p.module != nil {
		p.module.Release()
		p.module = nil
	}
}

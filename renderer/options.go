package renderer

import (
	"github.com/gogpu/craft/gpu"
	"github.com/gogpu/wgpu"
)

// Option configures a Renderer during creation.
//
// Example:
//
//	r, err := renderer.New(win,
//	    renderer.WithBackends(wgpu.BackendsVulkan),
//	    renderer.WithDebug(true),
//	)
type Option func(*options)

type options struct {
	backends wgpu.Backends
	power    wgpu.PowerPreference
	debug    bool
	clear    wgpu.Color
	texture  []byte
	shader   string
	memoryMB int
}

// DefaultClearColor is the background drawn wherever the quad does not cover
// the frame.
var DefaultClearColor = wgpu.Color{R: 0.09, G: 0.03, B: 0.01, A: 1.0}

func defaultOptions() options {
	return options{
		backends: wgpu.BackendsAll,
		power:    wgpu.PowerPreferenceHighPerformance,
		clear:    DefaultClearColor,
		texture:  dirtPNG,
		shader:   quadShader,
		memoryMB: gpu.DefaultMemoryBudgetMB,
	}
}

// WithBackends restricts the graphics APIs the instance may use.
func WithBackends(b wgpu.Backends) Option {
	return func(o *options) {
		o.backends = b
	}
}

// WithPowerPreference selects the adapter power preference.
func WithPowerPreference(p wgpu.PowerPreference) Option {
	return func(o *options) {
		o.power = p
	}
}

// WithDebug enables GPU validation layers.
func WithDebug(enabled bool) Option {
	return func(o *options) {
		o.debug = enabled
	}
}

// WithClearColor sets the frame background color.
func WithClearColor(c wgpu.Color) Option {
	return func(o *options) {
		o.clear = c
	}
}

// WithTexture replaces the bundled quad texture with an encoded PNG, JPEG,
// BMP or WebP image.
func WithTexture(encoded []byte) Option {
	return func(o *options) {
		o.texture = encoded
	}
}

// WithShader replaces the bundled WGSL shader. The source must provide
// vs_main and fs_main and consume the gpu.Vertex layout with the texture
// at group 0 binding 0 and its sampler at binding 1.
func WithShader(wgsl string) Option {
	return func(o *options) {
		o.shader = wgsl
	}
}

// WithMemoryBudget caps the GPU memory the renderer's buffers and textures
// may hold, in megabytes.
func WithMemoryBudget(mb int) Option {
	return func(o *options) {
		o.memoryMB = mb
	}
}

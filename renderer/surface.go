package renderer

import (
	"fmt"

	"github.com/gogpu/craft"
	"github.com/gogpu/wgpu"
)

// Frame is one acquired presentable image.
type Frame interface {
	// View is the render target for this frame.
	View() *wgpu.TextureView

	// Present queues the image for display and releases the view.
	Present() error

	// Discard gives the image back without presenting it.
	Discard()
}

// Surface is the presentation target backed by the window.
type Surface interface {
	Configure(cfg wgpu.SurfaceConfiguration) error
	Acquire() (Frame, error)
	Release()
}

// wgpuSurface adapts *wgpu.Surface to Surface. The device is set once it
// has been requested from the adapter.
type wgpuSurface struct {
	surface *wgpu.Surface
	device  *wgpu.Device
}

func (s *wgpuSurface) Configure(cfg wgpu.SurfaceConfiguration) error {
	return s.surface.Configure(s.device, &cfg)
}

func (s *wgpuSurface) Acquire() (Frame, error) {
	st, suboptimal, err := s.surface.GetCurrentTexture()
	if err != nil {
		return nil, err
	}
	if suboptimal {
		craft.Logger().Debug("surface texture is suboptimal")
	}
	view, err := st.CreateView(nil)
	if err != nil {
		s.surface.DiscardTexture()
		return nil, fmt.Errorf("create surface view: %w", err)
	}
	return &wgpuFrame{surface: s.surface, texture: st, view: view}, nil
}

func (s *wgpuSurface) Release() {
	if s.surface != nil {
		s.surface.Release()
		s.surface = nil
	}
}

type wgpuFrame struct {
	surface *wgpu.Surface
	texture *wgpu.SurfaceTexture
	view    *wgpu.TextureView
}

func (f *wgpuFrame) View() *wgpu.TextureView { return f.view }

func (f *wgpuFrame) Present() error {
	err := f.surface.Present(f.texture)
	f.view.Release()
	return err
}

func (f *wgpuFrame) Discard() {
	f.view.Release()
	f.surface.DiscardTexture()
}

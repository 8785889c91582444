package gpu

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"

	"github.com/gogpu/craft"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
	_ "golang.org/x/image/bmp"  // register decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register decoder
)

// bytesPerPixel is the size of one RGBA8 texel.
const bytesPerPixel = 4

// Texture errors.
var (
	// ErrTextureSize is returned when the pixel data length does not match
	// width * height * 4.
	ErrTextureSize = errors.New("gpu: pixel data does not match texture extent")

	// ErrEmptyTexture is returned for a zero width or height.
	ErrEmptyTexture = errors.New("gpu: texture has zero extent")
)

// DefaultTextureUsage is the usage applied when a descriptor leaves it unset.
const DefaultTextureUsage = wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst

// TextureFormat is the format of every texture created by NewTexture.
const TextureFormat = wgpu.TextureFormatRGBA8UnormSrgb

// TextureDescriptor describes a 2D RGBA texture and its initial contents.
type TextureDescriptor struct {
	Label string

	// Width and Height are the extent in texels.
	Width  uint32
	Height uint32

	// Pixels is tightly packed RGBA8 data, Width*Height*4 bytes.
	Pixels []byte

	// MipLevelCount and SampleCount default to 1.
	MipLevelCount uint32
	SampleCount   uint32

	// Usage defaults to DefaultTextureUsage. CopyDst is always added.
	Usage wgpu.TextureUsage
}

// DecodeImage decodes a PNG, JPEG, BMP or WebP image.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	craft.Logger().Debug("image decoded", "format", format, "bounds", img.Bounds())
	return img, nil
}

// ImageDescriptor converts img to tightly packed, non-premultiplied RGBA
// and returns a descriptor for it. The bytes are uploaded as decoded, so
// straight alpha stays straight.
func ImageDescriptor(label string, img image.Image) TextureDescriptor {
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != b.Dx()*bytesPerPixel || b.Min != (image.Point{}) || len(nrgba.Pix) != b.Dx()*b.Dy()*bytesPerPixel {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}
	return TextureDescriptor{
		Label:  label,
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
		Pixels: nrgba.Pix,
	}
}

// DefaultSampler returns the sampler used when none is supplied: repeat
// addressing on every axis and nearest filtering, for crisp texels.
func DefaultSampler() *wgpu.SamplerDescriptor {
	return &wgpu.SamplerDescriptor{
		AddressModeU: gputypes.AddressModeRepeat,
		AddressModeV: gputypes.AddressModeRepeat,
		AddressModeW: gputypes.AddressModeRepeat,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
		LodMinClamp:  0,
		LodMaxClamp:  32,
		Anisotropy:   1,
	}
}

// Texture owns a GPU image, a view of the whole image and a sampler.
type Texture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	sampler *wgpu.Sampler
	size    wgpu.Extent3D
	label   string
}

// NewTexture creates the texture described by desc, uploads its pixels and
// creates a full view and a sampler. A nil sampler uses DefaultSampler.
func NewTexture(dev Device, q Queue, desc TextureDescriptor, sampler *wgpu.SamplerDescriptor) (*Texture, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	if q == nil {
		return nil, ErrNilQueue
	}
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("%w: %q is %dx%d", ErrEmptyTexture, desc.Label, desc.Width, desc.Height)
	}
	want := int(desc.Width) * int(desc.Height) * bytesPerPixel
	if len(desc.Pixels) != want {
		return nil, fmt.Errorf("%w: %q has %d bytes, want %d", ErrTextureSize, desc.Label, len(desc.Pixels), want)
	}
	if desc.MipLevelCount == 0 {
		desc.MipLevelCount = 1
	}
	if desc.SampleCount == 0 {
		desc.SampleCount = 1
	}
	if desc.Usage == 0 {
		desc.Usage = DefaultTextureUsage
	}
	if sampler == nil {
		sampler = DefaultSampler()
	}

	t := &Texture{
		size:  wgpu.Extent3D{Width: desc.Width, Height: desc.Height, DepthOrArrayLayers: 1},
		label: desc.Label,
	}

	var err error
	t.texture, err = dev.CreateTexture(&wgpu.TextureDescriptor{
		Label:         desc.Label,
		Size:          t.size,
		MipLevelCount: desc.MipLevelCount,
		SampleCount:   desc.SampleCount,
		Dimension:     wgpu.TextureDimension2D,
		Format:        TextureFormat,
		Usage:         desc.Usage | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %q: %w", desc.Label, err)
	}

	err = q.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: t.texture, MipLevel: 0, Aspect: gputypes.TextureAspectAll},
		desc.Pixels,
		&wgpu.ImageDataLayout{Offset: 0, BytesPerRow: bytesPerPixel * desc.Width, RowsPerImage: desc.Height},
		&t.size,
	)
	if err != nil {
		t.Release()
		return nil, fmt.Errorf("upload texture %q: %w", desc.Label, err)
	}

	t.view, err = dev.CreateTextureView(t.texture, nil)
	if err != nil {
		t.Release()
		return nil, fmt.Errorf("create view for %q: %w", desc.Label, err)
	}

	t.sampler, err = dev.CreateSampler(sampler)
	if err != nil {
		t.Release()
		return nil, fmt.Errorf("create sampler for %q: %w", desc.Label, err)
	}

	craft.Logger().Debug("texture created", "label", desc.Label, "width", desc.Width, "height", desc.Height)
	return t, nil
}

// Inner returns the underlying wgpu texture.
func (t *Texture) Inner() *wgpu.Texture { return t.texture }

// View returns the view covering the whole texture.
func (t *Texture) View() *wgpu.TextureView { return t.view }

// Sampler returns the texture's sampler.
func (t *Texture) Sampler() *wgpu.Sampler { return t.sampler }

// Size returns the texture extent.
func (t *Texture) Size() wgpu.Extent3D { return t.size }

// ByteSize returns the memory held by the base mip level.
func (t *Texture) ByteSize() uint64 {
	return uint64(t.size.Width) * uint64(t.size.Height) * uint64(t.size.DepthOrArrayLayers) * bytesPerPixel
}

// Label returns the debug label.
func (t *Texture) Label() string { return t.label }

// Release frees the sampler, view and texture. Safe to call more than once.
func (t *Texture) Release() {
	if t == nil {
		return
	}
	if t.sampler != nil {
		t.sampler.Release()
		t.sampler = nil
	}
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

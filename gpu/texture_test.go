package gpu_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/gogpu/craft/gpu"
	"github.com/gogpu/craft/internal/gputest"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestTextureUpload(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"square", 16, 16},
		{"wide", 5, 3},
		{"single texel", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewNRGBA(image.Rect(0, 0, tt.width, tt.height))
			for y := range tt.height {
				for x := range tt.width {
					src.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 9, A: 255})
				}
			}
			img, err := gpu.DecodeImage(bytes.NewReader(encodePNG(t, src)))
			if err != nil {
				t.Fatalf("DecodeImage() error = %v", err)
			}

			dev, q := gputest.NewDevice(), gputest.NewQueue()
			tex, err := gpu.NewTexture(dev, q, gpu.ImageDescriptor("dirt_texture", img), nil)
			if err != nil {
				t.Fatalf("NewTexture() error = %v", err)
			}
			defer tex.Release()

			if len(q.TextureWrites) != 1 {
				t.Fatalf("got %d texture writes, want 1", len(q.TextureWrites))
			}
			w := q.TextureWrites[0]
			if got, want := len(w.Data), tt.width*tt.height*4; got != want {
				t.Errorf("uploaded %d bytes, want %d", got, want)
			}
			if w.Layout.BytesPerRow != uint32(4*tt.width) {
				t.Errorf("BytesPerRow = %d, want %d", w.Layout.BytesPerRow, 4*tt.width)
			}
			if w.Layout.RowsPerImage != uint32(tt.height) {
				t.Errorf("RowsPerImage = %d, want %d", w.Layout.RowsPerImage, tt.height)
			}
			wantSize := wgpu.Extent3D{Width: uint32(tt.width), Height: uint32(tt.height), DepthOrArrayLayers: 1}
			if w.Size != wantSize || tex.Size() != wantSize {
				t.Errorf("size = %+v/%+v, want %+v", w.Size, tex.Size(), wantSize)
			}
			last := (tt.width*tt.height - 1) * 4
			if w.Data[last] != uint8(tt.width-1) || w.Data[last+1] != uint8(tt.height-1) || w.Data[last+3] != 255 {
				t.Errorf("last texel = % x, want %d %d 9 ff", w.Data[last:last+4], tt.width-1, tt.height-1)
			}

			desc := dev.Textures[0]
			if desc.Format != wgpu.TextureFormatRGBA8UnormSrgb {
				t.Errorf("format = %v, want RGBA8UnormSrgb", desc.Format)
			}
			if desc.MipLevelCount != 1 || desc.SampleCount != 1 {
				t.Errorf("mip/sample = %d/%d, want 1/1", desc.MipLevelCount, desc.SampleCount)
			}
			if desc.Usage != gpu.DefaultTextureUsage {
				t.Errorf("usage = %v, want TextureBinding|CopyDst", desc.Usage)
			}
			if dev.Views != 1 || len(dev.Samplers) != 1 {
				t.Errorf("views/samplers = %d/%d, want 1/1", dev.Views, len(dev.Samplers))
			}
		})
	}
}

func TestTextureDefaultSampler(t *testing.T) {
	dev, q := gputest.NewDevice(), gputest.NewQueue()
	desc := gpu.TextureDescriptor{Label: "t", Width: 2, Height: 2, Pixels: make([]byte, 16)}
	if _, err := gpu.NewTexture(dev, q, desc, nil); err != nil {
		t.Fatalf("NewTexture() error = %v", err)
	}
	s := dev.Samplers[0]
	for _, m := range []gputypes.AddressMode{s.AddressModeU, s.AddressModeV, s.AddressModeW} {
		if m != gputypes.AddressModeRepeat {
			t.Errorf("address mode = %v, want repeat", m)
		}
	}
	for _, f := range []gputypes.FilterMode{s.MagFilter, s.MinFilter, s.MipmapFilter} {
		if f != gputypes.FilterModeNearest {
			t.Errorf("filter = %v, want nearest", f)
		}
	}
}

func TestTextureCustomSampler(t *testing.T) {
	dev, q := gputest.NewDevice(), gputest.NewQueue()
	custom := gpu.DefaultSampler()
	custom.MagFilter = gputypes.FilterModeLinear
	desc := gpu.TextureDescriptor{Label: "t", Width: 1, Height: 1, Pixels: make([]byte, 4)}
	if _, err := gpu.NewTexture(dev, q, desc, custom); err != nil {
		t.Fatalf("NewTexture() error = %v", err)
	}
	if dev.Samplers[0].MagFilter != gputypes.FilterModeLinear {
		t.Errorf("MagFilter = %v, want linear", dev.Samplers[0].MagFilter)
	}
}

func TestTextureSizeMismatch(t *testing.T) {
	tests := []struct {
		name string
		desc gpu.TextureDescriptor
		want error
	}{
		{"short", gpu.TextureDescriptor{Width: 2, Height: 2, Pixels: make([]byte, 15)}, gpu.ErrTextureSize},
		{"long", gpu.TextureDescriptor{Width: 2, Height: 2, Pixels: make([]byte, 20)}, gpu.ErrTextureSize},
		{"zero width", gpu.TextureDescriptor{Width: 0, Height: 2}, gpu.ErrEmptyTexture},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, q := gputest.NewDevice(), gputest.NewQueue()
			_, err := gpu.NewTexture(dev, q, tt.desc, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if len(dev.Textures) != 0 || len(q.TextureWrites) != 0 {
				t.Error("GPU resources created for an invalid descriptor")
			}
		})
	}
}

func TestImageDescriptorOffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.Set(2, 2, color.RGBA{R: 200, A: 255})
	sub := src.SubImage(image.Rect(2, 2, 4, 4))

	desc := gpu.ImageDescriptor("sub", sub)
	if desc.Width != 2 || desc.Height != 2 {
		t.Fatalf("extent = %dx%d, want 2x2", desc.Width, desc.Height)
	}
	if len(desc.Pixels) != 16 {
		t.Fatalf("got %d bytes, want 16", len(desc.Pixels))
	}
	if desc.Pixels[0] != 200 {
		t.Errorf("first texel red = %d, want 200", desc.Pixels[0])
	}
}

func TestImageDescriptorKeepsStraightAlpha(t *testing.T) {
	texel := color.NRGBA{R: 200, G: 100, B: 50, A: 128}
	want := []byte{texel.R, texel.G, texel.B, texel.A}

	t.Run("decoded png", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
		src.SetNRGBA(0, 0, texel)
		img, err := gpu.DecodeImage(bytes.NewReader(encodePNG(t, src)))
		if err != nil {
			t.Fatalf("DecodeImage() error = %v", err)
		}
		desc := gpu.ImageDescriptor("translucent", img)
		if !bytes.Equal(desc.Pixels, want) {
			t.Errorf("Pixels = %v, want %v", desc.Pixels, want)
		}
	})

	t.Run("converted sub image", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 3, 3))
		src.SetNRGBA(1, 1, texel)
		desc := gpu.ImageDescriptor("translucent", src.SubImage(image.Rect(1, 1, 2, 2)))
		if len(desc.Pixels) != 4 {
			t.Fatalf("got %d bytes, want 4", len(desc.Pixels))
		}
		for i, b := range desc.Pixels {
			if d := int(b) - int(want[i]); d < -1 || d > 1 {
				t.Errorf("Pixels = %v, want %v", desc.Pixels, want)
				break
			}
		}
	})
}

func TestTextureNilQueue(t *testing.T) {
	dev := gputest.NewDevice()
	_, err := gpu.NewTexture(dev, nil, gpu.TextureDescriptor{Width: 1, Height: 1, Pixels: make([]byte, 4)}, nil)
	if !errors.Is(err, gpu.ErrNilQueue) {
		t.Errorf("error = %v, want ErrNilQueue", err)
	}
	if len(dev.Textures) != 0 {
		t.Error("texture created without a queue")
	}
}

package gpu_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/craft/gpu"
	"github.com/gogpu/craft/internal/gputest"
	"github.com/gogpu/wgpu"
)

func TestBufferLen(t *testing.T) {
	tests := []struct {
		name     string
		contents []uint16
	}{
		{"empty", nil},
		{"one", []uint16{7}},
		{"quad indices", []uint16{0, 1, 2, 0, 2, 3}},
		{"odd count", []uint16{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, q := gputest.NewDevice(), gputest.NewQueue()
			buf, err := gpu.NewBuffer(dev, q, gpu.BufferInit[uint16]{
				Label:    "Index Buffer",
				Usage:    wgpu.BufferUsageIndex,
				Contents: tt.contents,
			})
			if err != nil {
				t.Fatalf("NewBuffer() error = %v", err)
			}
			if buf.Len() != len(tt.contents) {
				t.Errorf("Len() = %d, want %d", buf.Len(), len(tt.contents))
			}
			if buf.IsEmpty() != (len(tt.contents) == 0) {
				t.Errorf("IsEmpty() = %v, want %v", buf.IsEmpty(), len(tt.contents) == 0)
			}
			if buf.Size()%4 != 0 || buf.Size() < 4 {
				t.Errorf("Size() = %d, want a non-zero multiple of 4", buf.Size())
			}
			buf.Release()
			buf.Release()
		})
	}
}

func TestBufferUpload(t *testing.T) {
	dev, q := gputest.NewDevice(), gputest.NewQueue()
	verts := []gpu.Vertex{
		{Position: mgl32.Vec3{0.5, 0.5, 0}, TexCoords: mgl32.Vec2{1, 1}},
		{Position: mgl32.Vec3{-0.5, 0.5, 0}, TexCoords: mgl32.Vec2{-1, 1}},
	}
	buf, err := gpu.NewBuffer(dev, q, gpu.BufferInit[gpu.Vertex]{
		Label:    "Vertex Buffer",
		Usage:    wgpu.BufferUsageVertex,
		Contents: verts,
	})
	if err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}

	if len(dev.Buffers) != 1 {
		t.Fatalf("created %d buffers, want 1", len(dev.Buffers))
	}
	desc := dev.Buffers[0]
	if desc.Label != "Vertex Buffer" {
		t.Errorf("label = %q, want %q", desc.Label, "Vertex Buffer")
	}
	wantSize := uint64(len(verts)) * gpu.VertexSize
	if desc.Size != wantSize || buf.Size() != wantSize {
		t.Errorf("size = %d/%d, want %d", desc.Size, buf.Size(), wantSize)
	}
	if desc.Usage&wgpu.BufferUsageVertex == 0 || desc.Usage&wgpu.BufferUsageCopyDst == 0 {
		t.Errorf("usage = %v, want Vertex|CopyDst", desc.Usage)
	}
	if len(q.BufferWrites) != 1 || uint64(len(q.BufferWrites[0].Data)) != wantSize {
		t.Fatalf("writes = %+v, want one write of %d bytes", q.BufferWrites, wantSize)
	}
}

func TestBufferPadsToCopyAlignment(t *testing.T) {
	dev, q := gputest.NewDevice(), gputest.NewQueue()
	_, err := gpu.NewBuffer(dev, q, gpu.BufferInit[uint16]{Contents: []uint16{1, 2, 3}})
	if err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}
	if dev.Buffers[0].Size != 8 {
		t.Errorf("size = %d, want 8", dev.Buffers[0].Size)
	}
	data := q.BufferWrites[0].Data
	if len(data) != 8 || data[0] != 1 || data[2] != 2 || data[4] != 3 || data[6] != 0 {
		t.Errorf("uploaded % x, want little-endian 1 2 3 padded to 8 bytes", data)
	}
}

func TestBufferEmptySkipsUpload(t *testing.T) {
	dev, q := gputest.NewDevice(), gputest.NewQueue()
	if _, err := gpu.NewBuffer(dev, q, gpu.BufferInit[float32]{Label: "empty"}); err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}
	if len(q.BufferWrites) != 0 {
		t.Errorf("empty buffer uploaded %d times", len(q.BufferWrites))
	}
}

func TestBufferErrors(t *testing.T) {
	t.Run("unsized", func(t *testing.T) {
		_, err := gpu.NewBuffer(gputest.NewDevice(), gputest.NewQueue(), gpu.BufferInit[string]{Contents: []string{"x"}})
		if !errors.Is(err, gpu.ErrUnsizedContents) {
			t.Errorf("error = %v, want ErrUnsizedContents", err)
		}
	})
	t.Run("nil device", func(t *testing.T) {
		_, err := gpu.NewBuffer(nil, gputest.NewQueue(), gpu.BufferInit[uint16]{})
		if !errors.Is(err, gpu.ErrNilDevice) {
			t.Errorf("error = %v, want ErrNilDevice", err)
		}
	})
	t.Run("nil queue", func(t *testing.T) {
		_, err := gpu.NewBuffer(gputest.NewDevice(), nil, gpu.BufferInit[uint16]{Contents: []uint16{1, 2}})
		if !errors.Is(err, gpu.ErrNilQueue) {
			t.Errorf("error = %v, want ErrNilQueue", err)
		}
	})
	t.Run("create fails", func(t *testing.T) {
		dev := gputest.NewDevice()
		boom := errors.New("out of memory")
		dev.Fail["CreateBuffer"] = boom
		_, err := gpu.NewBuffer(dev, gputest.NewQueue(), gpu.BufferInit[uint16]{Contents: []uint16{1, 2}})
		if !errors.Is(err, boom) {
			t.Errorf("error = %v, want wrapped %v", err, boom)
		}
	})
}

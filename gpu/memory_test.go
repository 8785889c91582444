package gpu_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/craft/gpu"
	"github.com/gogpu/craft/internal/gputest"
	"github.com/gogpu/wgpu"
)

func newTrackedResources(t *testing.T) (*gpu.Buffer, *gpu.Texture) {
	t.Helper()
	dev, q := gputest.NewDevice(), gputest.NewQueue()
	buf, err := gpu.NewBuffer(dev, q, gpu.BufferInit[uint32]{
		Label:    "b",
		Usage:    wgpu.BufferUsageVertex,
		Contents: make([]uint32, 256),
	})
	if err != nil {
		t.Fatal(err)
	}
	tex, err := gpu.NewTexture(dev, q, gpu.TextureDescriptor{
		Label:  "t",
		Width:  16,
		Height: 16,
		Pixels: make([]byte, 16*16*4),
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return buf, tex
}

func TestMemoryTracking(t *testing.T) {
	buf, tex := newTrackedResources(t)
	m := gpu.NewMemory(gpu.MinMemoryBudgetMB)

	if err := m.TrackBuffer(buf); err != nil {
		t.Fatal(err)
	}
	if err := m.TrackTexture(tex); err != nil {
		t.Fatal(err)
	}
	// Tracking twice is a no-op.
	if err := m.TrackBuffer(buf); err != nil {
		t.Fatal(err)
	}

	s := m.Stats()
	if s.UsedBytes != 1024+1024 {
		t.Errorf("UsedBytes = %d, want 2048", s.UsedBytes)
	}
	if s.Buffers != 1 || s.Textures != 1 {
		t.Errorf("counts = %d buffers, %d textures", s.Buffers, s.Textures)
	}
	if s.BudgetBytes != 16*1024*1024 {
		t.Errorf("BudgetBytes = %d", s.BudgetBytes)
	}
	if !strings.Contains(s.String(), "1 buffers, 1 textures") {
		t.Errorf("String() = %q", s.String())
	}

	m.Forget(tex)
	m.Forget(tex)
	if s := m.Stats(); s.UsedBytes != 1024 || s.Textures != 0 {
		t.Errorf("after Forget: %+v", s)
	}
}

func TestMemoryDefaultBudget(t *testing.T) {
	for _, mb := range []int{0, -1, gpu.MinMemoryBudgetMB - 1} {
		if got := gpu.NewMemory(mb).Stats().BudgetBytes; got != gpu.DefaultMemoryBudgetMB*1024*1024 {
			t.Errorf("NewMemory(%d) budget = %d", mb, got)
		}
	}
}

func TestMemoryBudgetExceeded(t *testing.T) {
	dev, q := gputest.NewDevice(), gputest.NewQueue()
	big, err := gpu.NewBuffer(dev, q, gpu.BufferInit[byte]{
		Label:    "big",
		Contents: make([]byte, gpu.MinMemoryBudgetMB*1024*1024+4),
	})
	if err != nil {
		t.Fatal(err)
	}
	m := gpu.NewMemory(gpu.MinMemoryBudgetMB)
	if err := m.TrackBuffer(big); !errors.Is(err, gpu.ErrMemoryBudgetExceeded) {
		t.Fatalf("TrackBuffer = %v, want ErrMemoryBudgetExceeded", err)
	}
	if m.Stats().UsedBytes != 0 {
		t.Error("rejected buffer must not be counted")
	}
}

func TestMemoryClosed(t *testing.T) {
	buf, _ := newTrackedResources(t)
	m := gpu.NewMemory(0)
	m.Close()
	if err := m.TrackBuffer(buf); !errors.Is(err, gpu.ErrMemoryClosed) {
		t.Errorf("TrackBuffer after Close = %v", err)
	}
	if err := m.TrackTexture(nil); err != nil {
		t.Errorf("TrackTexture(nil) = %v", err)
	}
}

func TestMemoryConcurrent(t *testing.T) {
	m := gpu.NewMemory(0)
	type pair struct {
		buf *gpu.Buffer
		tex *gpu.Texture
	}
	pairs := make([]pair, 8)
	for i := range pairs {
		pairs[i].buf, pairs[i].tex = newTrackedResources(t)
	}
	var wg sync.WaitGroup
	for _, p := range pairs {
		wg.Add(1)
		go func(buf *gpu.Buffer, tex *gpu.Texture) {
			defer wg.Done()
			_ = m.TrackBuffer(buf)
			_ = m.TrackTexture(tex)
			_ = m.Stats()
			m.Forget(buf)
		}(p.buf, p.tex)
	}
	wg.Wait()
	if s := m.Stats(); s.Buffers != 0 || s.Textures != 8 {
		t.Errorf("stats = %+v", s)
	}
}

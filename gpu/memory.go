package gpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/craft"
)

// Memory accounting errors.
var (
	// ErrMemoryBudgetExceeded is returned when tracking a resource would
	// exceed the budget.
	ErrMemoryBudgetExceeded = errors.New("gpu: memory budget exceeded")

	// ErrMemoryClosed is returned when tracking after Close.
	ErrMemoryClosed = errors.New("gpu: memory accounting closed")
)

// Budget limits in megabytes.
const (
	DefaultMemoryBudgetMB = 256
	MinMemoryBudgetMB     = 16
)

// MemoryStats is a snapshot of tracked GPU memory.
type MemoryStats struct {
	// BudgetBytes is the configured budget.
	BudgetBytes uint64

	// UsedBytes is the sum of all tracked resources.
	UsedBytes uint64

	Buffers  int
	Textures int

	// Utilization is UsedBytes / BudgetBytes.
	Utilization float64
}

func (s MemoryStats) String() string {
	return fmt.Sprintf("Memory[%.2f%% used, %d/%d KB, %d buffers, %d textures]",
		s.Utilization*100,
		s.UsedBytes/1024,
		s.BudgetBytes/1024,
		s.Buffers,
		s.Textures)
}

type memoryEntry struct {
	bytes   uint64
	texture bool
}

// Memory accounts for the GPU memory held by buffers and textures against
// a budget. Resources are tracked after creation and forgotten before
// release.
//
// Memory is safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	budget  uint64
	used    uint64
	entries map[any]memoryEntry
	closed  bool
}

// NewMemory returns an accounting budget of budgetMB megabytes.
// Values below MinMemoryBudgetMB select DefaultMemoryBudgetMB.
func NewMemory(budgetMB int) *Memory {
	if budgetMB < MinMemoryBudgetMB {
		budgetMB = DefaultMemoryBudgetMB
	}
	return &Memory{
		budget:  uint64(budgetMB) * 1024 * 1024, //nolint:gosec // bounded below by MinMemoryBudgetMB
		entries: make(map[any]memoryEntry),
	}
}

// TrackBuffer records b's allocation.
func (m *Memory) TrackBuffer(b *Buffer) error {
	if b == nil {
		return nil
	}
	return m.track(b, b.Label(), memoryEntry{bytes: b.Size()})
}

// TrackTexture records t's allocation.
func (m *Memory) TrackTexture(t *Texture) error {
	if t == nil {
		return nil
	}
	return m.track(t, t.Label(), memoryEntry{bytes: t.ByteSize(), texture: true})
}

func (m *Memory) track(key any, label string, e memoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrMemoryClosed
	}
	if _, ok := m.entries[key]; ok {
		return nil
	}
	if m.used+e.bytes > m.budget {
		return fmt.Errorf("%w: %q needs %d bytes, %d of %d in use",
			ErrMemoryBudgetExceeded, label, e.bytes, m.used, m.budget)
	}
	m.entries[key] = e
	m.used += e.bytes
	craft.Logger().Debug("gpu memory tracked", "label", label, "bytes", e.bytes, "used", m.used)
	return nil
}

// Forget removes a tracked buffer or texture. Unknown resources are ignored.
func (m *Memory) Forget(res any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[res]
	if !ok {
		return
	}
	delete(m.entries, res)
	m.used -= e.bytes
}

// Stats returns current usage.
func (m *Memory) Stats() MemoryStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := MemoryStats{BudgetBytes: m.budget, UsedBytes: m.used}
	for _, e := range m.entries {
		if e.texture {
			s.Textures++
		} else {
			s.Buffers++
		}
	}
	if m.budget > 0 {
		s.Utilization = float64(m.used) / float64(m.budget)
	}
	return s
}

// Close forgets everything and rejects further tracking. It does not
// release the resources themselves.
func (m *Memory) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = nil
	m.used = 0
	m.closed = true
}

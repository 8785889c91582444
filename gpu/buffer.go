package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/craft"
	"github.com/gogpu/wgpu"
)

// copyAlignment is the required alignment of buffer sizes and copy lengths.
const copyAlignment = 4

// ErrUnsizedContents is returned when buffer contents have no fixed binary size
// (for example a slice of structs containing slices or strings).
var ErrUnsizedContents = errors.New("gpu: buffer contents are not fixed-size")

// BufferInit describes a buffer initialized from typed CPU data.
type BufferInit[T any] struct {
	// Label is an optional debug name.
	Label string

	// Usage is how the buffer will be used. CopyDst is always added so
	// the initial upload is allowed.
	Usage wgpu.BufferUsage

	// Contents is the initial data, packed little-endian.
	Contents []T
}

// Buffer owns one GPU buffer and remembers how many elements it was built from.
type Buffer struct {
	inner *wgpu.Buffer
	len   int
	size  uint64
	label string
}

// NewBuffer allocates a buffer sized for init.Contents and uploads them.
//
// The allocation is padded up to the copy alignment and is never smaller
// than one aligned word, so an empty buffer is still a valid binding.
// The queue is only used for non-empty contents but must not be nil.
func NewBuffer[T any](dev Device, q Queue, init BufferInit[T]) (*Buffer, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	if q == nil {
		return nil, ErrNilQueue
	}
	data, err := binary.Append(nil, binary.LittleEndian, init.Contents)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnsizedContents, init.Label, err)
	}
	size := alignUp(uint64(len(data)), copyAlignment)
	if size == 0 {
		size = copyAlignment
	}

	buf, err := dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: init.Label,
		Size:  size,
		Usage: init.Usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create buffer %q: %w", init.Label, err)
	}

	if len(data) > 0 {
		padded := make([]byte, alignUp(uint64(len(data)), copyAlignment))
		copy(padded, data)
		if err := q.WriteBuffer(buf, 0, padded); err != nil {
			if buf != nil {
				buf.Release()
			}
			return nil, fmt.Errorf("upload buffer %q: %w", init.Label, err)
		}
	}

	craft.Logger().Debug("buffer created", "label", init.Label, "elements", len(init.Contents), "bytes", size)
	return &Buffer{inner: buf, len: len(init.Contents), size: size, label: init.Label}, nil
}

// Inner returns the underlying wgpu buffer.
func (b *Buffer) Inner() *wgpu.Buffer { return b.inner }

// Len returns the number of elements the buffer was created from.
func (b *Buffer) Len() int { return b.len }

// IsEmpty reports whether the buffer was created from no elements.
func (b *Buffer) IsEmpty() bool { return b.len == 0 }

// Size returns the allocated size in bytes.
func (b *Buffer) Size() uint64 { return b.size }

// Label returns the debug label.
func (b *Buffer) Label() string { return b.label }

// Release frees the GPU buffer. Safe to call more than once.
func (b *Buffer) Release() {
	if b == nil || b.inner == nil {
		return
	}
	b.inner.Release()
	b.inner = nil
}

func alignUp(n, align uint64) uint64 {
	return (n + align - 1) &^ (align - 1)
}

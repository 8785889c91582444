package gpu_test

import (
	"testing"

	"github.com/gogpu/craft/gpu"
	"github.com/gogpu/gputypes"
)

func TestVertexLayout(t *testing.T) {
	if gpu.VertexSize != 20 {
		t.Fatalf("VertexSize = %d, want 20", gpu.VertexSize)
	}
	l := gpu.VertexLayout()
	if l.ArrayStride != gpu.VertexSize {
		t.Errorf("ArrayStride = %d, want %d", l.ArrayStride, gpu.VertexSize)
	}
	if l.StepMode != gputypes.VertexStepModeVertex {
		t.Errorf("StepMode = %v, want per-vertex", l.StepMode)
	}
	want := []gputypes.VertexAttribute{
		{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: gputypes.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
	}
	if len(l.Attributes) != len(want) {
		t.Fatalf("got %d attributes, want %d", len(l.Attributes), len(want))
	}
	for i := range want {
		if l.Attributes[i] != want[i] {
			t.Errorf("attribute %d = %+v, want %+v", i, l.Attributes[i], want[i])
		}
	}
}

package shader

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/naga"
)

const quadWGSL = `
struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) tex_coords: vec2<f32>,
}

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) tex_coords: vec2<f32>,
}

@vertex
fn vs_main(model: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.tex_coords = model.tex_coords;
    out.clip_position = vec4<f32>(model.position, 1.0);
    return out;
}

@group(0) @binding(0)
var t_diffuse: texture_2d<f32>;
@group(0) @binding(1)
var s_diffuse: sampler;

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(t_diffuse, s_diffuse, in.tex_coords);
}
`

func TestReflectQuadShader(t *testing.T) {
	info, err := Reflect(quadWGSL)
	if err != nil {
		t.Fatalf("Reflect() error = %v", err)
	}

	vs, ok := info.EntryPoint("vs_main")
	if !ok {
		t.Fatal("vs_main not reflected")
	}
	if vs.Stage != StageVertex {
		t.Errorf("vs_main stage = %v, want vertex", vs.Stage)
	}
	if !slices.Equal(vs.Inputs, []uint32{0, 1}) {
		t.Errorf("vs_main inputs = %v, want [0 1]", vs.Inputs)
	}

	if err := info.Require("fs_main", StageFragment); err != nil {
		t.Errorf("Require(fs_main) error = %v", err)
	}

	want := map[string]uint32{"t_diffuse": 0, "s_diffuse": 1}
	if len(info.Bindings) != len(want) {
		t.Fatalf("got %d bindings, want %d", len(info.Bindings), len(want))
	}
	for _, b := range info.Bindings {
		idx, ok := want[b.Name]
		if !ok {
			t.Errorf("unexpected binding %q", b.Name)
			continue
		}
		if b.Group != 0 || b.Binding != idx {
			t.Errorf("%s at group %d binding %d, want group 0 binding %d", b.Name, b.Group, b.Binding, idx)
		}
	}
}

func TestRequireWrongStage(t *testing.T) {
	info, err := Reflect(quadWGSL)
	if err != nil {
		t.Fatalf("Reflect() error = %v", err)
	}
	tests := []struct {
		name  string
		stage Stage
	}{
		{"vs_main", StageFragment},
		{"fs_main", StageVertex},
		{"main", StageVertex},
	}
	for _, tt := range tests {
		if err := info.Require(tt.name, tt.stage); !errors.Is(err, ErrMissingEntryPoint) {
			t.Errorf("Require(%q, %v) = %v, want ErrMissingEntryPoint", tt.name, tt.stage, err)
		}
	}
}

func TestReflectInvalid(t *testing.T) {
	_, err := Reflect("fn vs_main( -> {")
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Reflect() error = %v, want ErrInvalid", err)
	}
}

func TestQuadShaderCompilesToSPIRV(t *testing.T) {
	spirv, err := naga.Compile(quadWGSL)
	if err != nil {
		t.Fatalf("naga.Compile() error = %v", err)
	}
	if len(spirv) < 4 {
		t.Fatal("SPIR-V output too short")
	}
	magic := uint32(spirv[0]) | uint32(spirv[1])<<8 | uint32(spirv[2])<<16 | uint32(spirv[3])<<24
	if magic != 0x07230203 {
		t.Errorf("SPIR-V magic = %#x, want 0x07230203", magic)
	}
}

func TestStageString(t *testing.T) {
	for s, want := range map[Stage]string{StageVertex: "vertex", StageFragment: "fragment", StageCompute: "compute", StageOther: "other"} {
		if got := s.String(); got != want {
			t.Errorf("Stage(%d).String() = %q, want %q", s, got, want)
		}
	}
}

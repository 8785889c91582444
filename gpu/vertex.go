package gpu

import (
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

// Vertex is the vertex format consumed by the quad shader.
type Vertex struct {
	Position  mgl32.Vec3
	TexCoords mgl32.Vec2
}

// VertexSize is the packed size of a Vertex in bytes.
var VertexSize = uint64(binary.Size(Vertex{}))

// VertexLayout returns the buffer layout matching Vertex: position at
// location 0 followed by texture coordinates at location 1.
func VertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: VertexSize,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{
				Format:         gputypes.VertexFormatFloat32x3,
				Offset:         0,
				ShaderLocation: 0,
			},
			{
				Format:         gputypes.VertexFormatFloat32x2,
				Offset:         uint64(binary.Size(mgl32.Vec3{})),
				ShaderLocation: 1,
			},
		},
	}
}

package renderer

import (
	_ "embed"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/craft/gpu"
)

//go:embed assets/shader.wgsl
var quadShader string

//go:embed assets/dirt.png
var dirtPNG []byte

// QuadVertices are the corners of the textured quad, counter-clockwise
// from the top right.
var QuadVertices = []gpu.Vertex{
	{Position: mgl32.Vec3{0.5, 0.5, 0.0}, TexCoords: mgl32.Vec2{1.0, 1.0}},
	{Position: mgl32.Vec3{-0.5, 0.5, 0.0}, TexCoords: mgl32.Vec2{-1.0, 1.0}},
	{Position: mgl32.Vec3{-0.5, -0.5, 0.0}, TexCoords: mgl32.Vec2{-1.0, -1.0}},
	{Position: mgl32.Vec3{0.5, -0.5, 0.0}, TexCoords: mgl32.Vec2{1.0, -1.0}},
}

// QuadIndices split the quad into two triangles.
var QuadIndices = []uint16{0, 1, 2, 0, 2, 3}

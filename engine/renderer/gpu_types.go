package renderer

import (
	_ "embed"
	"encoding/binary"
	"math"
	"strings"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/camera"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/mesh"
	"github.com/Carmen-Shannon/oxy-shadow/engine/shadow"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed assets/shadow_depth.wgsl
var shadowDepthBody string

//go:embed assets/lit.wgsl
var litBody string

// dynamicUniformStride is the byte distance between per-draw records in a dynamic-offset
// uniform buffer. It equals the WebGPU default minUniformBufferOffsetAlignment.
const dynamicUniformStride = 256

// ShadowDepthSource returns the complete WGSL module for the depth-only shadow pipeline.
//
// Returns:
//   - string: the vertex input declaration followed by the depth shader body
func ShadowDepthSource() string {
	return composeSource(mesh.GPUVertexSource, shadowDepthBody)
}

// LitSource returns the complete WGSL module for the shadow-receiving lit pipeline.
//
// Returns:
//   - string: every shared struct declaration followed by the lit shader body
func LitSource() string {
	return composeSource(
		camera.GPUCameraUniformSource,
		mesh.GPUVertexSource,
		light.GPULightSource,
		light.GPULightHeaderSource,
		light.GPUShadowMatrixSource,
		light.GPUShadowParamsSource,
		litBody,
	)
}

func composeSource(parts ...string) string {
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(strings.TrimSpace(p))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// GPUDepthDraw is the per-draw uniform of the depth-only pipeline.
// Matches the WGSL DepthDraw struct in shadow_depth.wgsl.
// Size: 192 bytes (three mat4x4<f32>).
type GPUDepthDraw struct {
	World mgl32.Mat4 // offset   0: object to world
	View  mgl32.Mat4 // offset  64: world to light view
	Proj  mgl32.Mat4 // offset 128: light projection
}

// Size returns the size of the GPUDepthDraw struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (192)
func (g *GPUDepthDraw) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUDepthDraw struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 192-byte buffer ready for GPU upload
func (g *GPUDepthDraw) Marshal() []byte {
	buf := make([]byte, 0, 192)
	buf = common.Mat4Bytes(buf, g.World)
	buf = common.Mat4Bytes(buf, g.View)
	return common.Mat4Bytes(buf, g.Proj)
}

// GPUObjectUniform is the per-object uniform of the lit pipeline.
// Matches the WGSL ObjectUniform struct in lit.wgsl.
// Size: 144 bytes.
type GPUObjectUniform struct {
	World     mgl32.Mat4 // offset   0: object to world
	WorldInvT mgl32.Mat4 // offset  64: inverse transpose of World for normals
	Color     [4]float32 // offset 128: RGBA albedo
}

// Size returns the size of the GPUObjectUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (144)
func (g *GPUObjectUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUObjectUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 144-byte buffer ready for GPU upload
func (g *GPUObjectUniform) Marshal() []byte {
	buf := make([]byte, 0, 144)
	buf = common.Mat4Bytes(buf, g.World)
	buf = common.Mat4Bytes(buf, g.WorldInvT)
	for _, c := range g.Color {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(c))
	}
	return buf
}

// marshalShadowMatrices packs cascade matrices followed by world matrices, the slot order
// the lit shader indexes with a light's shadow base. An empty list still yields one zero
// record because WebGPU rejects zero-sized storage bindings.
func marshalShadowMatrices(cascades, world []shadow.LightMatrices) []byte {
	size := (&light.GPUShadowMatrix{}).Size()
	count := min(len(cascades)+len(world), light.MaxGPUShadowMatrices)
	if count == 0 {
		return make([]byte, size)
	}

	buf := make([]byte, 0, count*size)
	for _, m := range append(append([]shadow.LightMatrices(nil), cascades...), world...)[:count] {
		gpu := light.GPUShadowMatrix{View: m.View, Proj: m.Proj}
		buf = append(buf, gpu.Marshal()...)
	}
	return buf
}

// clampShadowSlots trims the cascade and world matrices to what fits in the shadow matrix
// buffer. A light whose slots do not all fit loses its shadow base, so the lit pass never
// reads a matrix that was not uploaded.
//
// Parameters:
//   - lights: the scene lights, parallel to bases
//   - cascades: the cascade matrices
//   - world: the world-positioned matrices
//   - bases: each light's first matrix index, or a negative value
//
// Returns:
//   - []shadow.LightMatrices: the cascade matrices that fit
//   - []shadow.LightMatrices: the world matrices that fit
//   - []int: the bases, with lights that no longer fit set to light.NoShadow
//   - int: the number of matrices left out
func clampShadowSlots(lights []light.Light, cascades, world []shadow.LightMatrices, bases []int) ([]shadow.LightMatrices, []shadow.LightMatrices, []int, int) {
	total := len(cascades) + len(world)
	if total <= light.MaxGPUShadowMatrices {
		return cascades, world, bases, 0
	}

	fullCascades := len(cascades)
	cascades = cascades[:min(len(cascades), light.MaxGPUShadowMatrices)]
	world = world[:light.MaxGPUShadowMatrices-len(cascades)]

	clamped := make([]int, len(bases))
	for i, base := range bases {
		clamped[i] = base
		if base < 0 || i >= len(lights) {
			continue
		}
		slots := lights[i].ShadowSlots()
		if lights[i].Type() == light.LightTypeDirectional {
			slots = fullCascades
		}
		if base+slots > light.MaxGPUShadowMatrices {
			clamped[i] = int(light.NoShadow)
		}
	}
	return cascades, world, clamped, total - light.MaxGPUShadowMatrices
}

// padStorage grows data to at least minSize bytes with trailing zeros.
func padStorage(data []byte, minSize int) []byte {
	if len(data) >= minSize {
		return data
	}
	return append(data, make([]byte, minSize-len(data))...)
}

// alignUp rounds size up to the next multiple of align, which must be a power of two.
func alignUp(size, align uint64) uint64 {
	return (size + align - 1) &^ (align - 1)
}

package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxGPULights caps the lights uploaded to the lit pass each frame. Extra enabled lights
// are not shaded.
const MaxGPULights = 256

// MaxGPUShadowMatrices is the capacity of the shadow matrix storage buffer read by the
// lit pass. Cascade matrices come first, followed by the world-positioned slots.
const MaxGPUShadowMatrices = 512

// NoShadow marks a GPULight that has no shadow slots assigned.
const NoShadow int32 = -1

// GPULightSource declares the WGSL Light struct mirrored by GPULight.
//
//go:embed assets/light.wgsl
var GPULightSource string

// GPULight is one entry of the light storage buffer (64 bytes).
type GPULight struct {
	Position     [3]float32 // point and spot only
	LightType    uint32
	Color        [3]float32
	Intensity    float32
	Direction    [3]float32 // directional and spot only
	LightRange   float32
	ConeCos      float32 // cos of the half cone angle, spot only
	ShadowBase   int32   // index into the shadow matrix buffer, or NoShadow
	CastsShadows uint32
	_pad         uint32
}

// Size returns the size of the GPULight struct in bytes.
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal packs the light in WGSL storage layout.
//
// Returns:
//   - []byte: the packed light
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, 0, g.Size())
	buf = appendVec3(buf, g.Position)
	buf = binary.LittleEndian.AppendUint32(buf, g.LightType)
	buf = appendVec3(buf, g.Color)
	buf = appendFloat(buf, g.Intensity)
	buf = appendVec3(buf, g.Direction)
	buf = appendFloat(buf, g.LightRange)
	buf = appendFloat(buf, g.ConeCos)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(g.ShadowBase))
	buf = binary.LittleEndian.AppendUint32(buf, g.CastsShadows)
	return binary.LittleEndian.AppendUint32(buf, 0)
}

// GPULightHeaderSource declares the WGSL LightHeader struct mirrored by GPULightHeader.
//
//go:embed assets/light_header.wgsl
var GPULightHeaderSource string

// GPULightHeader opens the light storage buffer (16 bytes).
type GPULightHeader struct {
	AmbientColor [3]float32
	LightCount   uint32 // GPULight entries after the header
}

// Size returns the size of the GPULightHeader struct in bytes.
func (h *GPULightHeader) Size() int {
	return int(unsafe.Sizeof(*h))
}

// Marshal packs the header in WGSL storage layout.
func (h *GPULightHeader) Marshal() []byte {
	buf := appendVec3(make([]byte, 0, h.Size()), h.AmbientColor)
	return binary.LittleEndian.AppendUint32(buf, h.LightCount)
}

// GPUShadowMatrixSource declares the WGSL ShadowMatrix struct mirrored by GPUShadowMatrix.
//
//go:embed assets/shadow_matrix.wgsl
var GPUShadowMatrixSource string

// GPUShadowMatrix is the view and projection of one shadow slot, read by the lit pass to
// re-project a shaded point into light space (128 bytes).
type GPUShadowMatrix struct {
	View [16]float32
	Proj [16]float32
}

// Size returns the size of the GPUShadowMatrix struct in bytes.
func (s *GPUShadowMatrix) Size() int {
	return int(unsafe.Sizeof(*s))
}

// Marshal packs both matrices column-major, view first.
func (s *GPUShadowMatrix) Marshal() []byte {
	buf := make([]byte, 0, s.Size())
	for _, v := range s.View {
		buf = appendFloat(buf, v)
	}
	for _, v := range s.Proj {
		buf = appendFloat(buf, v)
	}
	return buf
}

// GPUShadowParamsSource declares the WGSL ShadowParams struct mirrored by GPUShadowParams.
//
//go:embed assets/shadow_params.wgsl
var GPUShadowParamsSource string

// GPUShadowParams tells the lit pass how many cascade and world slots are live this frame
// and the texel size of each array, used for the comparison sample offsets.
type GPUShadowParams struct {
	CascadeCount uint32 // 0 when no directional light casts shadows
	WorldCount   uint32
	CascadeTexel float32 // 1 / cascade resolution
	WorldTexel   float32 // 1 / world resolution
}

// Size returns the size of the GPUShadowParams struct in bytes.
func (p *GPUShadowParams) Size() int {
	return int(unsafe.Sizeof(*p))
}

// Marshal packs the parameters in WGSL uniform layout.
func (p *GPUShadowParams) Marshal() []byte {
	buf := make([]byte, 0, p.Size())
	buf = binary.LittleEndian.AppendUint32(buf, p.CascadeCount)
	buf = binary.LittleEndian.AppendUint32(buf, p.WorldCount)
	buf = appendFloat(buf, p.CascadeTexel)
	return appendFloat(buf, p.WorldTexel)
}

// ToGPULight snapshots a light for the light storage buffer.
//
// Parameters:
//   - l: the light
//   - shadowBase: the light's first shadow matrix, or NoShadow
//
// Returns:
//   - GPULight: the packed-ready light
func ToGPULight(l Light, shadowBase int32) GPULight {
	g := GPULight{
		Position:   l.Position(),
		LightType:  uint32(l.Type()),
		Color:      l.Color(),
		Intensity:  l.Intensity(),
		Direction:  l.Direction(),
		LightRange: l.Range(),
		ConeCos:    math32.Cos(l.ConeAngle() / 2),
		ShadowBase: shadowBase,
	}
	if l.CastsShadows() {
		g.CastsShadows = 1
	}
	return g
}

// MarshalLightBuffer builds the light storage buffer: a GPULightHeader followed by one
// GPULight per enabled light, at most MaxGPULights of them.
//
// Parameters:
//   - lights: every scene light; disabled ones are skipped
//   - ambient: the scene ambient color
//   - shadowBase: first shadow matrix per light, parallel to lights; missing or negative
//     entries upload NoShadow
//
// Returns:
//   - []byte: the buffer contents
func MarshalLightBuffer(lights []Light, ambient mgl32.Vec3, shadowBase []int) []byte {
	var entries []byte
	count := 0
	for i, l := range lights {
		if count == MaxGPULights {
			break
		}
		if !l.Enabled() {
			continue
		}
		base := NoShadow
		if i < len(shadowBase) && shadowBase[i] >= 0 {
			base = int32(shadowBase[i])
		}
		g := ToGPULight(l, base)
		entries = append(entries, g.Marshal()...)
		count++
	}

	header := GPULightHeader{AmbientColor: ambient, LightCount: uint32(count)}
	return append(header.Marshal(), entries...)
}

func appendFloat(buf []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
}

func appendVec3(buf []byte, v [3]float32) []byte {
	for _, c := range v {
		buf = appendFloat(buf, c)
	}
	return buf
}

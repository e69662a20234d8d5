package renderer

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/shadow"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGPUDepthDrawLayout(t *testing.T) {
	d := GPUDepthDraw{
		World: mgl32.Translate3D(1, 2, 3),
		View:  mgl32.Ident4(),
		Proj:  mgl32.Scale3D(2, 2, 2),
	}
	buf := d.Marshal()
	require.Len(t, buf, d.Size())
	assert.Equal(t, 192, d.Size())

	// World translation x sits in column 3.
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[48:52])))
	// Proj[0] starts the third matrix.
	assert.Equal(t, float32(2), math.Float32frombits(binary.LittleEndian.Uint32(buf[128:132])))
}

func TestGPUObjectUniformLayout(t *testing.T) {
	o := GPUObjectUniform{
		World:     mgl32.Ident4(),
		WorldInvT: mgl32.Ident4(),
		Color:     [4]float32{0.25, 0.5, 0.75, 1},
	}
	buf := o.Marshal()
	require.Len(t, buf, o.Size())
	assert.Equal(t, 144, o.Size())
	assert.Equal(t, float32(0.75), math.Float32frombits(binary.LittleEndian.Uint32(buf[136:140])))
	assert.LessOrEqual(t, o.Size(), dynamicUniformStride)
}

func TestMarshalShadowMatricesOrder(t *testing.T) {
	cascade := shadow.LightMatrices{View: mgl32.Translate3D(1, 0, 0), Proj: mgl32.Ident4()}
	world := shadow.LightMatrices{View: mgl32.Translate3D(7, 0, 0), Proj: mgl32.Ident4()}

	buf := marshalShadowMatrices([]shadow.LightMatrices{cascade}, []shadow.LightMatrices{world})
	require.Len(t, buf, 256)
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[48:52])))
	assert.Equal(t, float32(7), math.Float32frombits(binary.LittleEndian.Uint32(buf[128+48:128+52])))
}

func TestMarshalShadowMatricesNeverEmpty(t *testing.T) {
	assert.Len(t, marshalShadowMatrices(nil, nil), 128)
}

func TestClampShadowSlotsWithinCapacity(t *testing.T) {
	lights := []light.Light{light.NewLight(light.LightTypeSpot, light.WithCastsShadows(true))}
	world := make([]shadow.LightMatrices, 1)

	c, w, bases, dropped := clampShadowSlots(lights, nil, world, []int{0})
	assert.Empty(t, c)
	assert.Len(t, w, 1)
	assert.Equal(t, []int{0}, bases)
	assert.Zero(t, dropped)
}

func TestClampShadowSlotsDropsLightsPastCapacity(t *testing.T) {
	const cascadeCount, pointCount = 4, 90

	lights := []light.Light{light.NewLight(light.LightTypeDirectional, light.WithCastsShadows(true))}
	bases := []int{0}
	for i := range pointCount {
		lights = append(lights, light.NewLight(light.LightTypePoint, light.WithCastsShadows(true)))
		bases = append(bases, cascadeCount+i*light.PointFaceCount)
	}
	cascades := make([]shadow.LightMatrices, cascadeCount)
	world := make([]shadow.LightMatrices, pointCount*light.PointFaceCount)

	c, w, clamped, dropped := clampShadowSlots(lights, cascades, world, bases)
	require.Len(t, clamped, len(bases))
	assert.Len(t, c, cascadeCount)
	assert.Len(t, w, light.MaxGPUShadowMatrices-cascadeCount)
	assert.Equal(t, cascadeCount+len(world)-light.MaxGPUShadowMatrices, dropped)
	assert.Equal(t, 0, bases[0], "input bases are not modified")

	for i, base := range clamped {
		if i == 0 {
			assert.Equal(t, 0, base)
			continue
		}
		if bases[i]+light.PointFaceCount <= light.MaxGPUShadowMatrices {
			assert.Equal(t, bases[i], base, "light %d", i)
		} else {
			assert.Equal(t, int(light.NoShadow), base, "light %d", i)
		}
	}
	// The 84th point ends at slot 507; the 85th would need 508..513.
	assert.Equal(t, 502, clamped[84])
	assert.Equal(t, int(light.NoShadow), clamped[85])

	assert.Len(t, marshalShadowMatrices(c, w), light.MaxGPUShadowMatrices*(&light.GPUShadowMatrix{}).Size())
}

func TestPadStorage(t *testing.T) {
	assert.Len(t, padStorage([]byte{1}, 80), 80)
	assert.Len(t, padStorage(make([]byte, 100), 80), 100)
}

func TestAlignUp(t *testing.T) {
	assert.Equal(t, uint64(0), alignUp(0, 256))
	assert.Equal(t, uint64(256), alignUp(1, 256))
	assert.Equal(t, uint64(256), alignUp(256, 256))
	assert.Equal(t, uint64(512), alignUp(257, 256))
}

func TestComposedSourcesDeclareSharedStructs(t *testing.T) {
	depth := ShadowDepthSource()
	assert.True(t, strings.Contains(depth, "struct VertexInput"))
	assert.True(t, strings.Contains(depth, "fn vs_depth"))

	lit := LitSource()
	for _, decl := range []string{"struct CameraUniform", "struct Light ", "struct LightHeader", "struct ShadowMatrix", "struct ShadowParams", "fn fs_main"} {
		assert.True(t, strings.Contains(lit, decl), decl)
	}
}

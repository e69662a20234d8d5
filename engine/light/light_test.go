package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLightDefaults(t *testing.T) {
	l := NewLight(LightTypePoint)

	assert.Equal(t, LightTypePoint, l.Type())
	assert.True(t, l.Enabled())
	assert.False(t, l.CastsShadows())
	assert.NotEqual(t, NewLight(LightTypePoint).ID(), l.ID())
	assert.InDelta(t, 1.0, l.Direction().Len(), 1e-6)
}

func TestNewLightPanicsOnUnknownType(t *testing.T) {
	assert.Panics(t, func() { NewLight(LightType(42)) })
}

func TestWithDirectionNormalizes(t *testing.T) {
	l := NewLight(LightTypeDirectional, WithDirection(3, -4, 0))
	assert.True(t, l.Direction().ApproxEqual(mgl32.Vec3{0.6, -0.8, 0}))

	l.SetDirection(0, 0, 0)
	assert.Equal(t, mgl32.Vec3{}, l.Direction())
}

func TestShadowSlots(t *testing.T) {
	tests := []struct {
		name  string
		kind  LightType
		casts bool
		want  int
	}{
		{"directional casting", LightTypeDirectional, true, 0},
		{"point casting", LightTypePoint, true, 6},
		{"spot casting", LightTypeSpot, true, 1},
		{"point silent", LightTypePoint, false, 0},
		{"spot silent", LightTypeSpot, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLight(tt.kind, WithCastsShadows(tt.casts))
			assert.Equal(t, tt.want, l.ShadowSlots())
		})
	}
}

func TestSetCastsShadowsChangesSlots(t *testing.T) {
	l := NewLight(LightTypeSpot)
	require.Equal(t, 0, l.ShadowSlots())

	l.SetCastsShadows(true)
	assert.Equal(t, 1, l.ShadowSlots())
}

func TestGPULightMarshalLayout(t *testing.T) {
	l := NewLight(LightTypeSpot,
		WithPosition(1, 2, 3),
		WithConeAngle(mgl32.DegToRad(90)),
		WithRange(15),
		WithCastsShadows(true),
	)
	g := ToGPULight(l, 7)
	buf := g.Marshal()

	require.Len(t, buf, g.Size())
	assert.Equal(t, float32(2), math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8])))
	assert.Equal(t, uint32(LightTypeSpot), binary.LittleEndian.Uint32(buf[12:16]))
	assert.Equal(t, float32(15), math.Float32frombits(binary.LittleEndian.Uint32(buf[44:48])))
	assert.InDelta(t, math.Cos(math.Pi/4), math.Float32frombits(binary.LittleEndian.Uint32(buf[48:52])), 1e-6)
	assert.Equal(t, int32(7), int32(binary.LittleEndian.Uint32(buf[52:56])))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[56:60]))
}

func TestMarshalLightBufferSkipsDisabled(t *testing.T) {
	lights := []Light{
		NewLight(LightTypeDirectional),
		NewLight(LightTypePoint, WithEnabled(false)),
		NewLight(LightTypeSpot),
	}
	buf := MarshalLightBuffer(lights, mgl32.Vec3{0.1, 0.1, 0.1}, []int{0, -1, 4})

	require.Len(t, buf, 16+2*64)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(buf[12:16]))
	// First light keeps slot 0; the spot light keeps slot 4.
	assert.Equal(t, int32(0), int32(binary.LittleEndian.Uint32(buf[16+52:16+56])))
	assert.Equal(t, int32(4), int32(binary.LittleEndian.Uint32(buf[16+64+52:16+64+56])))
}

func TestMarshalLightBufferWithoutSlots(t *testing.T) {
	buf := MarshalLightBuffer([]Light{NewLight(LightTypePoint)}, mgl32.Vec3{}, nil)
	assert.Equal(t, NoShadow, int32(binary.LittleEndian.Uint32(buf[16+52:16+56])))
}

func TestGPUShadowMatrixMarshal(t *testing.T) {
	m := GPUShadowMatrix{View: mgl32.Ident4(), Proj: mgl32.Scale3D(2, 2, 2)}
	buf := m.Marshal()

	require.Len(t, buf, 128)
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4])))
	assert.Equal(t, float32(2), math.Float32frombits(binary.LittleEndian.Uint32(buf[64:68])))
}

func TestLightTypeString(t *testing.T) {
	assert.Equal(t, "spot", LightTypeSpot.String())
	assert.Equal(t, "LightType(9)", LightType(9).String())
}

package light

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// LightType identifies the kind of light source. The kind is fixed when the light is created.
type LightType int

const (
	// LightTypeDirectional is a distant source such as the sun. Shadowed through
	// orthographic cascades that follow the viewer.
	LightTypeDirectional LightType = iota

	// LightTypePoint shines in every direction. Shadowed through six perspective cube
	// faces reaching out to the light's range.
	LightTypePoint

	// LightTypeSpot shines in a cone. Shadowed through one perspective frustum as wide as
	// the cone.
	LightTypeSpot
)

// String returns a readable name for the light type.
func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	case LightTypeSpot:
		return "spot"
	default:
		return fmt.Sprintf("LightType(%d)", int(t))
	}
}

// PointFaceCount is the number of shadow slots a shadow-casting point light occupies.
const PointFaceCount = 6

type lightImpl struct {
	id           uuid.UUID
	lightType    LightType
	position     mgl32.Vec3
	direction    mgl32.Vec3
	color        mgl32.Vec3
	intensity    float32
	lightRange   float32
	coneAngle    float32 // full spread, radians
	enabled      bool
	castsShadows bool
}

// Light is a directional, point or spot light source.
//
// Every kind stores every property, so a point light still reports a direction. The shadow
// system only restructures GPU resources when CastsShadows changes; moving or re-aiming a
// light is picked up by the next matrix derivation.
type Light interface {
	// ID returns the identifier assigned by NewLight. The shadow system keys its
	// per-light snapshot on it.
	ID() uuid.UUID

	// Type returns the kind chosen at creation.
	Type() LightType

	// Position returns the world position of a point or spot light.
	Position() mgl32.Vec3

	// Direction returns the unit direction a directional light shines along, or the axis of
	// a spot light's cone.
	Direction() mgl32.Vec3

	Color() mgl32.Vec3
	Intensity() float32

	// Range returns the attenuation cutoff, also the far plane of point and spot shadow
	// projections.
	Range() float32

	// ConeAngle returns the full spread of a spot light's cone in radians.
	ConeAngle() float32

	// Enabled reports whether the lit pass shades with this light.
	Enabled() bool

	// CastsShadows reports whether the light claims shadow slots.
	CastsShadows() bool

	// ShadowSlots returns how many world-positioned shadow slots the light occupies when
	// it casts shadows: 6 for a point light, 1 for a spot light and 0 for a directional
	// light, whose maps live in the separate cascade array.
	//
	// Returns:
	//   - int: the world slot count, or 0 when the light does not cast shadows
	ShadowSlots() int

	SetPosition(x, y, z float32)

	// SetDirection stores the normalized direction; a zero vector stays zero.
	SetDirection(x, y, z float32)

	SetColor(r, g, b float32)
	SetIntensity(intensity float32)
	SetRange(lightRange float32)
	SetConeAngle(radians float32)
	SetEnabled(enabled bool)

	// SetCastsShadows toggles shadow casting. The slot change is applied by the next
	// ShadowSystem.Update.
	SetCastsShadows(castsShadows bool)
}

var _ Light = &lightImpl{}

// NewLight creates an enabled white light of the given kind pointing down, with a 60 degree
// cone and range 10. Shadow casting is off until requested.
//
// Parameters:
//   - lightType: directional, point or spot; any other value panics
//   - opts: functional options to configure the light
//
// Returns:
//   - Light: the new light with a fresh ID
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	switch lightType {
	case LightTypeDirectional, LightTypePoint, LightTypeSpot:
	default:
		panic(fmt.Sprintf("light: unknown light type %d", int(lightType)))
	}

	l := &lightImpl{
		id:         uuid.New(),
		lightType:  lightType,
		direction:  mgl32.Vec3{0, -1, 0},
		color:      mgl32.Vec3{1, 1, 1},
		intensity:  1,
		lightRange: 10,
		coneAngle:  mgl32.DegToRad(60),
		enabled:    true,
	}
	for _, apply := range opts {
		apply(l)
	}
	return l
}

func (l *lightImpl) ID() uuid.UUID {
	return l.id
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() mgl32.Vec3 {
	return l.position
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	return l.direction
}

func (l *lightImpl) Color() mgl32.Vec3 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Range() float32 {
	return l.lightRange
}

func (l *lightImpl) ConeAngle() float32 {
	return l.coneAngle
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

func (l *lightImpl) ShadowSlots() int {
	if !l.castsShadows {
		return 0
	}
	switch l.lightType {
	case LightTypeDirectional:
		return 0
	case LightTypePoint:
		return PointFaceCount
	case LightTypeSpot:
		return 1
	default:
		panic(fmt.Sprintf("light: unknown light type %d", int(l.lightType)))
	}
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.position = mgl32.Vec3{x, y, z}
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	l.direction = normalize3(x, y, z)
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.color = mgl32.Vec3{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetRange(lightRange float32) {
	l.lightRange = lightRange
}

func (l *lightImpl) SetConeAngle(radians float32) {
	l.coneAngle = radians
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

func (l *lightImpl) SetCastsShadows(castsShadows bool) {
	l.castsShadows = castsShadows
}

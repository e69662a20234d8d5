package light

import (
	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/go-gl/mathgl/mgl32"
)

// LightBuilderOption configures a light inside NewLight.
type LightBuilderOption func(*lightImpl)

// WithPosition places a point or spot light in world space.
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = mgl32.Vec3{x, y, z}
	}
}

// WithDirection sets where a directional or spot light points. The vector is normalized;
// a zero vector is stored as zero, which the shadow system treats as straight down.
//
// Parameters:
//   - x, y, z: the direction, any length
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.direction = normalize3(x, y, z)
	}
}

// WithColor sets the light color in linear RGB.
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = mgl32.Vec3{r, g, b}
	}
}

// WithIntensity scales the light color.
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithRange sets the attenuation cutoff of a point or spot light, which is also the far
// plane of its shadow projections.
//
// Parameters:
//   - lightRange: distance in world units
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithRange(lightRange float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.lightRange = lightRange
	}
}

// WithConeAngle sets the full spread of a spot light's cone, which doubles as the field of
// view of its shadow projection.
//
// Parameters:
//   - radians: the full cone angle
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithConeAngle(radians float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.coneAngle = radians
	}
}

// WithEnabled includes or excludes the light from the lit pass.
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}

// WithCastsShadows makes the light claim shadow slots on the next ShadowSystem.Update.
func WithCastsShadows(castsShadows bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.castsShadows = castsShadows
	}
}

func normalize3(x, y, z float32) mgl32.Vec3 {
	return common.SafeNormalize(mgl32.Vec3{x, y, z}, mgl32.Vec3{})
}

package shadow

import (
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
)

// worldSlotsFor returns the number of world array slots a light type occupies while it
// casts shadows. Directional lights use the cascade array instead.
func worldSlotsFor(t light.LightType) int {
	switch t {
	case light.LightTypePoint:
		return light.PointFaceCount
	case light.LightTypeSpot:
		return 1
	default:
		return 0
	}
}

// CountWorldSlots returns the number of point and spot shadow slots the lights need.
//
// Parameters:
//   - lights: the lights to count
//
// Returns:
//   - int: the sum of ShadowSlots over every light
func CountWorldSlots(lights []light.Light) int {
	n := 0
	for _, l := range lights {
		n += l.ShadowSlots()
	}
	return n
}

// hasDirectionalCaster reports whether any directional light casts shadows.
func hasDirectionalCaster(lights []light.Light) bool {
	return firstDirectionalCaster(lights) >= 0
}

// firstDirectionalCaster returns the index of the light that owns the cascades, or -1.
func firstDirectionalCaster(lights []light.Light) int {
	for i, l := range lights {
		if l.Type() == light.LightTypeDirectional && l.CastsShadows() {
			return i
		}
	}
	return -1
}

func (s *shadowSystemImpl) ShadowBases(lights []light.Light) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	bases := make([]int, len(lights))
	cascadeOwner := firstDirectionalCaster(lights)
	numCascades := len(s.cascadeMatrices)
	next := 0

	for i, l := range lights {
		bases[i] = -1
		switch {
		case i == cascadeOwner:
			if numCascades > 0 {
				bases[i] = 0
			}
		case l.Type() != light.LightTypeDirectional && l.CastsShadows():
			n := l.ShadowSlots()
			if next+n <= len(s.worldMatrices) {
				bases[i] = numCascades + next
			}
			next += n
		}
	}
	return bases
}

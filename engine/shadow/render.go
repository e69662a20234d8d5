package shadow

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

func (s *shadowSystemImpl) Render(lights []light.Light, entities []Entity, viewer Viewer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cascadeMatrices = s.cascadeMatrices[:0]
	s.worldMatrices = s.worldMatrices[:0]
	s.stats.CascadeSlots, s.stats.WorldSlots, s.stats.Draws, s.stats.Culled = 0, 0, 0, 0

	if !s.initialized {
		return nil
	}

	var viewerPos mgl32.Vec3
	if viewer != nil {
		viewerPos = viewer.Position()
	}

	cascadeOwner := firstDirectionalCaster(lights)
	numCascades := 0
	if cascadeOwner >= 0 {
		numCascades = min(s.numCascades, len(s.cascadeTextures))
	}
	if numCascades == 0 && CountWorldSlots(lights) == 0 {
		return nil
	}

	s.backend.UnbindShadowInputs()
	if err := s.backend.BeginShadowFrame((numCascades + CountWorldSlots(lights)) * len(entities)); err != nil {
		return fmt.Errorf("failed to begin shadow frame: %w", err)
	}

	err := s.renderCascades(lights, cascadeOwner, numCascades, entities, viewerPos)
	if err == nil {
		err = s.renderWorld(lights, entities, viewerPos)
	}

	if endErr := s.backend.EndShadowFrame(); endErr != nil && err == nil {
		err = fmt.Errorf("failed to submit shadow frame: %w", endErr)
	}
	return err
}

// renderCascades draws the cascade sub-pass for the directional light at index owner.
func (s *shadowSystemImpl) renderCascades(lights []light.Light, owner, numCascades int, entities []Entity, viewer mgl32.Vec3) error {
	if owner < 0 || numCascades == 0 {
		return nil
	}

	viewport := common.SquareViewport(s.cascadeRes)
	var view mgl32.Mat4
	for c := 0; c < numCascades; c++ {
		var m LightMatrices
		if c == 0 {
			var ok bool
			if m, ok = s.DeriveLightMatrices(lights[owner], 0, viewer); !ok {
				return nil
			}
			view = m.View
		} else {
			m = LightMatrices{View: view, Proj: s.cascadeProjection(c)}
		}

		s.cascadeMatrices = append(s.cascadeMatrices, m)
		if err := s.renderSlot(s.cascadeTextures[c], s.cascadeArray, c, viewport, m, entities); err != nil {
			return fmt.Errorf("failed to render cascade %d: %w", c, err)
		}
		s.stats.CascadeSlots++
	}
	return nil
}

// renderWorld draws the point and spot sub-pass. Slots are assigned in light order.
func (s *shadowSystemImpl) renderWorld(lights []light.Light, entities []Entity, viewer mgl32.Vec3) error {
	viewport := common.SquareViewport(s.worldRes)
	slot := 0

	for _, l := range lights {
		n := l.ShadowSlots()
		if l.Type() == light.LightTypeDirectional || n == 0 {
			continue
		}
		if slot+n > len(s.worldTextures) {
			return fmt.Errorf("%w: %s light %s needs slots %d-%d, %d allocated",
				ErrSlotOverflow, l.Type(), l.ID(), slot, slot+n-1, len(s.worldTextures))
		}

		for i := 0; i < n; i++ {
			m, ok := s.DeriveLightMatrices(l, i, viewer)
			if !ok {
				break
			}
			s.worldMatrices = append(s.worldMatrices, m)
			if err := s.renderSlot(s.worldTextures[slot], s.worldArray, slot, viewport, m, entities); err != nil {
				return fmt.Errorf("failed to render %s light slot %d: %w", l.Type(), slot, err)
			}
			s.stats.WorldSlots++
			slot++
		}
	}
	return nil
}

// renderSlot clears target, draws every entity inside the slot frustum into it and copies
// the result into layer slice of array.
func (s *shadowSystemImpl) renderSlot(target, array Texture, slice int, viewport common.Viewport, m LightMatrices, entities []Entity) error {
	if err := s.backend.BeginDepthPass(target, viewport, s.biasState); err != nil {
		return err
	}

	frustum := common.ExtractFrustumFromMatrix(m.ViewProj())
	for _, e := range entities {
		if b, ok := e.(Bounded); ok {
			center, radius := b.BoundingSphere()
			if !frustum.IntersectsSphere(center, radius) {
				s.stats.Culled++
				continue
			}
		}
		if err := s.backend.DrawDepth(e.Mesh(), e.WorldMatrix(), m.View, m.Proj); err != nil {
			s.backend.EndDepthPass()
			return err
		}
		s.stats.Draws++
	}
	s.backend.EndDepthPass()

	return s.backend.CopyToArraySlice(target, array, slice)
}

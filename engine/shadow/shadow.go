package shadow

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// castSetting is the snapshot of one light's shadow flag from the last Update.
type castSetting struct {
	casts bool
	slots int // world slots the light occupies while casting
}

// shadowSystemImpl is the implementation of the ShadowSystem interface.
type shadowSystemImpl struct {
	mu      *sync.Mutex
	backend Backend
	logger  *log.Logger

	cascadeRes  int
	worldRes    int
	numCascades int
	extents     []float32

	cascadeNear     float32
	cascadeFar      float32
	anchorDistance  float32
	anchorHeight    float32
	pointFOV        float32
	perspectiveNear float32
	depthBias       int32
	slopeBias       float32

	// creation templates; growth and resize edit these and recreate from them
	cascadeDesc common.DepthTextureDesc
	worldDesc   common.DepthTextureDesc
	samplerDesc common.SamplerDesc
	biasDesc    common.DepthBiasDesc

	sampler   Sampler
	biasState DepthState

	initialized     bool
	cascadeTextures []Texture
	worldTextures   []Texture
	cascadeArray    Texture
	cascadeView     TextureView
	worldArray      Texture
	worldView       TextureView

	numWorldSlots  int
	hasDirectional bool // a directional light casts shadows
	prevSettings   map[uuid.UUID]castSetting

	cascadeMatrices []LightMatrices
	worldMatrices   []LightMatrices
	stats           Stats
}

// ShadowSystem renders depth maps from every shadow-casting light and exposes them, with
// the matching light matrices, to the lit pass.
//
// Directional lights are shadowed through a fixed number of orthographic cascades that
// follow the viewer and share one light view. Point lights occupy six perspective slots and
// spot lights one, all stored in a second texture array. Arrays grow when lights start
// casting shadows and never shrink until Resize.
//
// A frame calls Update, then Render, then binds CascadeView, WorldView, Sampler and the
// matrix lists for the lit pass. All methods must be called from the rendering goroutine.
type ShadowSystem interface {
	// Update reconciles GPU resources with the current lights. The first call counts the
	// shadow slots and allocates everything; later calls react to lights that started or
	// stopped casting shadows since the previous call.
	//
	// Parameters:
	//   - lights: the scene's lights in render order
	//
	// Returns:
	//   - error: an error if a GPU resource could not be created
	Update(lights []light.Light) error

	// UpdateTexNumber grows the texture arrays so they hold at least the given slot counts.
	// It does nothing before the first Update or when neither count increased. Existing slot
	// contents are lost; they are redrawn by the next Render.
	//
	// Parameters:
	//   - numCascades: required cascade layers
	//   - numWorldSlots: required point and spot layers
	//
	// Returns:
	//   - error: ErrInvalidCascadeCount for negative counts, or a resource creation error
	UpdateTexNumber(numCascades, numWorldSlots int) error

	// Resize recreates every depth texture and both arrays at new resolutions, keeping the
	// current layer counts.
	//
	// Parameters:
	//   - cascadeRes: new cascade map resolution in texels
	//   - worldRes: new point and spot map resolution in texels
	//
	// Returns:
	//   - error: ErrInvalidResolution for non-positive sizes, or a resource creation error
	Resize(cascadeRes, worldRes int) error

	// DeriveLightMatrices computes the view and projection of one shadow slot. It is a pure
	// function of the light, the slot index and the viewer position.
	//
	// For directional lights idx is the cascade index, for point lights the cube face index
	// (see PointFaceDirections) and for spot lights it must be 0.
	//
	// Parameters:
	//   - l: the light
	//   - idx: the slot index within the light
	//   - viewer: the viewer position cascades are anchored to
	//
	// Returns:
	//   - LightMatrices: the slot's view and projection
	//   - bool: false when the light does not cast shadows or idx is out of range
	DeriveLightMatrices(l light.Light, idx int, viewer mgl32.Vec3) (LightMatrices, bool)

	// Render draws the entities into every shadow slot and copies each slot into its array
	// layer. Lights must be the same list, in the same order, as passed to the last Update.
	//
	// Parameters:
	//   - lights: the scene's lights in render order
	//   - entities: the shadow casters
	//   - viewer: supplies the position cascades follow
	//
	// Returns:
	//   - error: a backend error, or ErrSlotOverflow when lights changed since Update
	Render(lights []light.Light, entities []Entity, viewer Viewer) error

	// ShadowBases returns, for each light, the index of its first matrix in the combined list
	// CascadeMatrices followed by WorldMatrices, or -1 when the light has no shadow this frame.
	// The world array layer of a point or spot slot is its index minus len(CascadeMatrices()).
	//
	// Parameters:
	//   - lights: the lights passed to Render
	//
	// Returns:
	//   - []int: one base index per light
	ShadowBases(lights []light.Light) []int

	// CascadeView returns the view over the cascade array, or nil when none is allocated.
	CascadeView() TextureView

	// WorldView returns the view over the point and spot array, or nil when none is allocated.
	WorldView() TextureView

	// Sampler returns the comparison sampler, or nil before the first Update.
	Sampler() Sampler

	// CascadeMatrices returns a copy of the cascade matrices from the last Render, nearest first.
	CascadeMatrices() []LightMatrices

	// WorldMatrices returns a copy of the point and spot matrices from the last Render, in slot order.
	WorldMatrices() []LightMatrices

	// NumCascadeSlots returns the number of cascades rendered each frame: the cascade count
	// when a directional light casts shadows, otherwise 0.
	NumCascadeSlots() int

	// NumWorldSlots returns the number of point and spot slots the current lights need.
	NumWorldSlots() int

	// CascadeArraySize returns the allocated cascade array layer count.
	CascadeArraySize() int

	// WorldArraySize returns the allocated world array layer count. It never decreases
	// except through Release.
	WorldArraySize() int

	// CascadeResolution returns the cascade map resolution in texels.
	CascadeResolution() int

	// WorldResolution returns the point and spot map resolution in texels.
	WorldResolution() int

	// Stats returns counters for the last Render and the current allocation.
	Stats() Stats

	// Release frees every GPU resource owned by the system. A later Update starts over.
	Release()
}

var _ ShadowSystem = &shadowSystemImpl{}

// NewShadowSystem creates a ShadowSystem on top of b. No GPU resources are created until
// the first Update.
//
// Parameters:
//   - b: the GPU backend
//   - opts: functional options configuring resolutions, cascades and bias
//
// Returns:
//   - ShadowSystem: the new system
//   - error: ErrNilBackend, ErrInvalidResolution, ErrInvalidCascadeCount,
//     ErrInvalidCascadeExtents or ErrInvalidPointFOV on bad configuration
func NewShadowSystem(b Backend, opts ...ShadowBuilderOption) (ShadowSystem, error) {
	if b == nil {
		return nil, ErrNilBackend
	}

	s := &shadowSystemImpl{
		mu:              &sync.Mutex{},
		backend:         b,
		logger:          log.New(os.Stderr, "", log.LstdFlags),
		cascadeRes:      light.DefaultCascadeResolution,
		worldRes:        light.DefaultWorldResolution,
		numCascades:     light.DefaultCascadeCount,
		extents:         append([]float32(nil), light.DefaultCascadeExtents...),
		cascadeNear:     light.DefaultCascadeNear,
		cascadeFar:      light.DefaultCascadeFar,
		anchorDistance:  light.DefaultAnchorDistance,
		anchorHeight:    light.DefaultAnchorHeight,
		pointFOV:        mgl32.DegToRad(light.DefaultPointFOVDegrees),
		perspectiveNear: light.DefaultPerspectiveNear,
		depthBias:       light.DefaultDepthBias,
		slopeBias:       light.DefaultSlopeScaledDepthBias,
		prevSettings:    make(map[uuid.UUID]castSetting),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.cascadeRes <= 0 || s.worldRes <= 0 {
		return nil, fmt.Errorf("%w: cascade %d, world %d", ErrInvalidResolution, s.cascadeRes, s.worldRes)
	}
	if len(s.extents) == 0 {
		s.extents = append([]float32(nil), light.DefaultCascadeExtents...)
	}
	if s.numCascades <= 0 || s.numCascades > len(s.extents) {
		return nil, fmt.Errorf("%w: %d cascades for %d extents", ErrInvalidCascadeCount, s.numCascades, len(s.extents))
	}
	for i, e := range s.extents {
		if !(e > 0) || math32.IsInf(e, 1) || (i > 0 && e <= s.extents[i-1]) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCascadeExtents, s.extents)
		}
	}
	if !(s.pointFOV >= mgl32.DegToRad(90) && s.pointFOV < mgl32.DegToRad(180)) {
		return nil, fmt.Errorf("%w: %v degrees", ErrInvalidPointFOV, mgl32.RadToDeg(s.pointFOV))
	}
	if s.cascadeFar <= s.cascadeNear {
		return nil, fmt.Errorf("shadow: cascade far plane %v must exceed near plane %v", s.cascadeFar, s.cascadeNear)
	}

	s.cascadeDesc = common.DepthTextureDesc{Label: "Shadow Cascade", Resolution: s.cascadeRes, ArraySize: 1, Format: common.DepthFormat32Float}
	s.worldDesc = common.DepthTextureDesc{Label: "Shadow World", Resolution: s.worldRes, ArraySize: 1, Format: common.DepthFormat32Float}
	s.samplerDesc = common.SamplerDesc{Label: "Shadow Comparison Sampler", Compare: common.CompareLess, Linear: true, BorderLit: true}
	s.biasDesc = common.DepthBiasDesc{Label: "Shadow Depth Bias", ConstantBias: s.depthBias, SlopeScaledBias: s.slopeBias, CullBack: true}

	return s, nil
}

func (s *shadowSystemImpl) Update(lights []light.Light) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return s.initialize(lights)
	}

	grew := false
	seen := make(map[uuid.UUID]struct{}, len(lights))
	for _, l := range lights {
		id := l.ID()
		seen[id] = struct{}{}

		cur := castSetting{casts: l.CastsShadows(), slots: worldSlotsFor(l.Type())}
		prev := s.prevSettings[id]
		if cur.casts != prev.casts {
			if cur.casts {
				s.numWorldSlots += cur.slots
				grew = true
			} else {
				s.numWorldSlots -= prev.slots
			}
			s.logger.Printf("[Shadow] %s light %s shadows %s, %d world slots needed", l.Type(), id, onOff(cur.casts), s.numWorldSlots)
		}
		s.prevSettings[id] = cur
	}

	// lights removed from the scene release their slots
	for id, prev := range s.prevSettings {
		if _, ok := seen[id]; ok {
			continue
		}
		if prev.casts {
			s.numWorldSlots -= prev.slots
		}
		delete(s.prevSettings, id)
	}

	s.hasDirectional = hasDirectionalCaster(lights)
	needCascades := 0
	if s.hasDirectional {
		needCascades = s.numCascades
	}

	if grew || needCascades > len(s.cascadeTextures) {
		return s.growLocked(needCascades, s.numWorldSlots)
	}
	return nil
}

// initialize performs the first Update: count the slots, snapshot the flags and create
// every resource.
func (s *shadowSystemImpl) initialize(lights []light.Light) error {
	s.numWorldSlots = CountWorldSlots(lights)
	s.hasDirectional = hasDirectionalCaster(lights)
	for _, l := range lights {
		s.prevSettings[l.ID()] = castSetting{casts: l.CastsShadows(), slots: worldSlotsFor(l.Type())}
	}

	var err error
	if s.sampler, err = s.backend.CreateComparisonSampler(s.samplerDesc); err != nil {
		return fmt.Errorf("failed to create shadow sampler: %w", err)
	}
	if s.biasState, err = s.backend.CreateDepthBiasState(s.biasDesc); err != nil {
		s.sampler.Release()
		s.sampler = nil
		return fmt.Errorf("failed to create shadow depth state: %w", err)
	}
	s.initialized = true

	needCascades := 0
	if s.hasDirectional {
		needCascades = s.numCascades
	}
	if err := s.growLocked(needCascades, s.numWorldSlots); err != nil {
		return err
	}

	s.logger.Printf("[Shadow] initialized: %d cascade maps at %dpx, %d world maps at %dpx",
		len(s.cascadeTextures), s.cascadeRes, len(s.worldTextures), s.worldRes)
	return nil
}

func (s *shadowSystemImpl) UpdateTexNumber(numCascades, numWorldSlots int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.growLocked(numCascades, numWorldSlots)
}

// growLocked adds individual textures and recreates an array when a requested count exceeds
// the allocation. Callers hold s.mu.
func (s *shadowSystemImpl) growLocked(numCascades, numWorldSlots int) error {
	if numCascades < 0 || numWorldSlots < 0 {
		return fmt.Errorf("%w: %d cascades, %d world slots", ErrInvalidCascadeCount, numCascades, numWorldSlots)
	}
	if !s.initialized {
		return nil
	}

	if numCascades > len(s.cascadeTextures) {
		textures, err := s.createTextures(s.cascadeDesc, numCascades-len(s.cascadeTextures))
		if err != nil {
			return fmt.Errorf("failed to grow cascade maps to %d: %w", numCascades, err)
		}
		s.cascadeTextures = append(s.cascadeTextures, textures...)
		if err := s.recreateArray(&s.cascadeArray, &s.cascadeView, s.cascadeDesc, len(s.cascadeTextures)); err != nil {
			return fmt.Errorf("failed to recreate cascade array: %w", err)
		}
		s.logger.Printf("[Shadow] cascade array grown to %d layers", len(s.cascadeTextures))
	}

	if numWorldSlots > len(s.worldTextures) {
		textures, err := s.createTextures(s.worldDesc, numWorldSlots-len(s.worldTextures))
		if err != nil {
			return fmt.Errorf("failed to grow world maps to %d: %w", numWorldSlots, err)
		}
		s.worldTextures = append(s.worldTextures, textures...)
		if err := s.recreateArray(&s.worldArray, &s.worldView, s.worldDesc, len(s.worldTextures)); err != nil {
			return fmt.Errorf("failed to recreate world array: %w", err)
		}
		s.logger.Printf("[Shadow] world array grown to %d layers", len(s.worldTextures))
	}

	return nil
}

// createTextures creates n individual depth textures from desc, releasing any it made if
// one fails.
func (s *shadowSystemImpl) createTextures(desc common.DepthTextureDesc, n int) ([]Texture, error) {
	out := make([]Texture, 0, n)
	for i := 0; i < n; i++ {
		tex, err := s.backend.CreateDepthTexture(desc)
		if err != nil {
			releaseAll(out)
			return nil, err
		}
		out = append(out, tex)
	}
	return out, nil
}

// recreateArray replaces an array texture and its view with a new one of the given layer
// count. The lit pass binding is dropped first so it is rebuilt from the new view.
func (s *shadowSystemImpl) recreateArray(array *Texture, view *TextureView, desc common.DepthTextureDesc, layers int) error {
	s.backend.UnbindShadowInputs()
	if *view != nil {
		(*view).Release()
		*view = nil
	}
	if *array != nil {
		(*array).Release()
		*array = nil
	}
	if layers == 0 {
		return nil
	}

	desc.ArraySize = layers
	desc.Label += " Array"
	tex, v, err := s.backend.CreateDepthTextureArray(desc)
	if err != nil {
		return err
	}
	*array, *view = tex, v
	s.stats.Allocations++
	return nil
}

func (s *shadowSystemImpl) Resize(cascadeRes, worldRes int) error {
	if cascadeRes <= 0 || worldRes <= 0 {
		return fmt.Errorf("%w: cascade %d, world %d", ErrInvalidResolution, cascadeRes, worldRes)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cascadeRes, s.worldRes = cascadeRes, worldRes
	s.cascadeDesc.Resolution = cascadeRes
	s.worldDesc.Resolution = worldRes
	if !s.initialized {
		return nil
	}

	numCascades, numWorld := len(s.cascadeTextures), len(s.worldTextures)
	releaseAll(s.cascadeTextures)
	releaseAll(s.worldTextures)
	s.cascadeTextures, s.worldTextures = nil, nil

	var err error
	if s.cascadeTextures, err = s.createTextures(s.cascadeDesc, numCascades); err != nil {
		return fmt.Errorf("failed to resize cascade maps: %w", err)
	}
	if err := s.recreateArray(&s.cascadeArray, &s.cascadeView, s.cascadeDesc, numCascades); err != nil {
		return fmt.Errorf("failed to resize cascade array: %w", err)
	}
	if s.worldTextures, err = s.createTextures(s.worldDesc, numWorld); err != nil {
		return fmt.Errorf("failed to resize world maps: %w", err)
	}
	if err := s.recreateArray(&s.worldArray, &s.worldView, s.worldDesc, numWorld); err != nil {
		return fmt.Errorf("failed to resize world array: %w", err)
	}

	s.logger.Printf("[Shadow] resized: cascades %dpx x%d, world %dpx x%d", cascadeRes, numCascades, worldRes, numWorld)
	return nil
}

func (s *shadowSystemImpl) CascadeView() TextureView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cascadeView
}

func (s *shadowSystemImpl) WorldView() TextureView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.worldView
}

func (s *shadowSystemImpl) Sampler() Sampler {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sampler
}

func (s *shadowSystemImpl) CascadeMatrices() []LightMatrices {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LightMatrices(nil), s.cascadeMatrices...)
}

func (s *shadowSystemImpl) WorldMatrices() []LightMatrices {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LightMatrices(nil), s.worldMatrices...)
}

func (s *shadowSystemImpl) NumCascadeSlots() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasDirectional {
		return 0
	}
	return min(s.numCascades, len(s.cascadeTextures))
}

func (s *shadowSystemImpl) NumWorldSlots() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.numWorldSlots
}

func (s *shadowSystemImpl) CascadeArraySize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cascadeTextures)
}

func (s *shadowSystemImpl) WorldArraySize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.worldTextures)
}

func (s *shadowSystemImpl) CascadeResolution() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cascadeRes
}

func (s *shadowSystemImpl) WorldResolution() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.worldRes
}

func (s *shadowSystemImpl) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats
	st.CascadeLayers = len(s.cascadeTextures)
	st.WorldLayers = len(s.worldTextures)
	return st
}

func (s *shadowSystemImpl) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.backend.UnbindShadowInputs()
	releaseAll(s.cascadeTextures)
	releaseAll(s.worldTextures)
	s.cascadeTextures, s.worldTextures = nil, nil
	for _, r := range []interface{ Release() }{s.cascadeView, s.cascadeArray, s.worldView, s.worldArray, s.sampler, s.biasState} {
		if r != nil {
			r.Release()
		}
	}
	s.cascadeView, s.cascadeArray, s.worldView, s.worldArray = nil, nil, nil, nil
	s.sampler, s.biasState = nil, nil
	s.cascadeMatrices, s.worldMatrices = nil, nil
	s.prevSettings = make(map[uuid.UUID]castSetting)
	s.numWorldSlots = 0
	s.hasDirectional = false
	s.initialized = false
}

func releaseAll(textures []Texture) {
	for _, t := range textures {
		t.Release()
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

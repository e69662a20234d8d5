package engine

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-shadow/engine/camera"
	"github.com/Carmen-Shannon/oxy-shadow/engine/game_object"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadow/engine/shadow"
	"github.com/Carmen-Shannon/oxy-shadow/engine/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow runs the update callback until closed or until maxFrames iterations.
type fakeWindow struct {
	window.Window

	update    func()
	resize    func(width, height int)
	running   bool
	maxFrames int
	frames    int
}

func (w *fakeWindow) SetUpdateCallback(cb func()) { w.update = cb }
func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.resize = cb }
func (w *fakeWindow) IsRunning() bool { return w.running }
func (w *fakeWindow) RequestClose() { w.running = false }

func (w *fakeWindow) ProcessMessages() {
	for w.running && w.frames < w.maxFrames {
		w.frames++
		if w.update != nil {
			w.update()
		}
	}
}

type fakeRenderer struct {
	calls   *[]string
	scenes  []renderer.Scene
	resized [][2]int
	drawErr error
}

func (r *fakeRenderer) Resize(width, height int) { r.resized = append(r.resized, [2]int{width, height}) }

func (r *fakeRenderer) DrawScene(scene renderer.Scene) error {
	*r.calls = append(*r.calls, "draw")
	r.scenes = append(r.scenes, scene)
	return r.drawErr
}

func (r *fakeRenderer) Present() { *r.calls = append(*r.calls, "present") }

type fakeShadows struct {
	shadow.ShadowSystem

	calls     *[]string
	casters   []shadow.Entity
	viewer    shadow.Viewer
	renderErr error
}

func (s *fakeShadows) Update(lights []light.Light) error {
	*s.calls = append(*s.calls, "update")
	return nil
}

func (s *fakeShadows) Render(lights []light.Light, entities []shadow.Entity, viewer shadow.Viewer) error {
	*s.calls = append(*s.calls, "render")
	s.casters = entities
	s.viewer = viewer
	return s.renderErr
}

func (s *fakeShadows) Stats() shadow.Stats { return shadow.Stats{Draws: len(s.casters)} }

func newTestEngine(frames int) (*engine, *fakeWindow, *fakeRenderer, *fakeShadows, *[]string) {
	calls := &[]string{}
	w := &fakeWindow{running: true, maxFrames: frames}
	r := &fakeRenderer{calls: calls}
	s := &fakeShadows{calls: calls}
	e := NewEngine(WithWindow(w), WithRenderer(r), WithShadowSystem(s)).(*engine)
	return e, w, r, s, calls
}

func TestFrameOrder(t *testing.T) {
	e, _, r, s, calls := newTestEngine(1)
	cam := camera.NewCamera()

	e.SetFrameCallback(func(dt float32) (renderer.Scene, error) {
		*calls = append(*calls, "frame")
		return renderer.Scene{Camera: cam}, nil
	})
	require.NoError(t, e.Run())

	assert.Equal(t, []string{"frame", "update", "render", "draw", "present"}, *calls)
	require.Len(t, r.scenes, 1)
	assert.Same(t, s, r.scenes[0].Shadows.(*fakeShadows))
	assert.Equal(t, cam.Position(), s.viewer.Position())
}

func TestShadowCastersSkipDisabledAndNonCasting(t *testing.T) {
	e, _, _, s, _ := newTestEngine(1)
	caster := game_object.NewGameObject(game_object.WithID(1))
	disabled := game_object.NewGameObject(game_object.WithID(2), game_object.WithEnabled(false))
	receiver := game_object.NewGameObject(game_object.WithID(3), game_object.WithCastsShadow(false))

	e.SetFrameCallback(func(dt float32) (renderer.Scene, error) {
		return renderer.Scene{Objects: []renderer.Drawable{caster, disabled, receiver}}, nil
	})
	require.NoError(t, e.Run())

	require.Len(t, s.casters, 1)
	assert.Equal(t, uint64(1), s.casters[0].(game_object.GameObject).ID())
	assert.Nil(t, s.viewer)
}

func TestShadowErrorStopsRun(t *testing.T) {
	e, w, r, s, _ := newTestEngine(5)
	s.renderErr = shadow.ErrSlotOverflow
	e.SetFrameCallback(func(dt float32) (renderer.Scene, error) {
		return renderer.Scene{}, nil
	})

	err := e.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, shadow.ErrSlotOverflow)
	assert.False(t, w.running)
	assert.Equal(t, 1, w.frames)
	assert.Empty(t, r.scenes)
}

func TestFrameCallbackErrorStopsRun(t *testing.T) {
	e, _, _, _, calls := newTestEngine(5)
	boom := errors.New("boom")
	e.SetFrameCallback(func(dt float32) (renderer.Scene, error) {
		return renderer.Scene{}, boom
	})

	assert.ErrorIs(t, e.Run(), boom)
	assert.Empty(t, *calls)
}

func TestRunWithoutShadowSystem(t *testing.T) {
	calls := &[]string{}
	w := &fakeWindow{running: true, maxFrames: 2}
	r := &fakeRenderer{calls: calls}
	e := NewEngine(WithWindow(w), WithRenderer(r), WithFrameCallback(func(dt float32) (renderer.Scene, error) {
		return renderer.Scene{}, nil
	}))

	require.NoError(t, e.Run())
	assert.Equal(t, []string{"draw", "present", "draw", "present"}, *calls)
	assert.Nil(t, r.scenes[0].Shadows)
}

func TestRunWithoutWindow(t *testing.T) {
	assert.ErrorIs(t, NewEngine().Run(), ErrNoWindow)
}

func TestResizeForwardsToRenderer(t *testing.T) {
	var hooked [2]int
	calls := &[]string{}
	w := &fakeWindow{}
	r := &fakeRenderer{calls: calls}
	NewEngine(WithWindow(w), WithRenderer(r), WithResizeCallback(func(width, height int) {
		hooked = [2]int{width, height}
	}))

	require.NotNil(t, w.resize)
	w.resize(0, 300)
	w.resize(800, 600)
	assert.Equal(t, [][2]int{{800, 600}}, r.resized)
	assert.Equal(t, [2]int{800, 600}, hooked)
}

func TestSetRenderFrameLimit(t *testing.T) {
	e := NewEngine().(*engine)
	e.SetRenderFrameLimit(50)
	assert.Equal(t, int64(20_000_000), e.renderFrameLimit.Nanoseconds())
	e.SetRenderFrameLimit(0)
	assert.Zero(t, e.renderFrameLimit)
}

package main

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/camera"
	"github.com/Carmen-Shannon/oxy-shadow/engine/config"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/shadow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resizeCall struct{ cascade, world int }

type fakeShadows struct {
	shadow.ShadowSystem

	resizes   []resizeCall
	resizeErr error
}

func (s *fakeShadows) Resize(cascadeRes, worldRes int) error {
	s.resizes = append(s.resizes, resizeCall{cascadeRes, worldRes})
	return s.resizeErr
}

func (s *fakeShadows) Stats() shadow.Stats { return shadow.Stats{CascadeSlots: 4, WorldSlots: 7} }

func newTestDemo() (*demo, *fakeShadows, *bytes.Buffer) {
	var buf bytes.Buffer
	s := &fakeShadows{}
	d := newDemo(config.Default(), camera.NewCamera(), camera.NewFlyController(), s, log.New(&buf, "", 0))
	return d, s, &buf
}

func TestDemoLightsCoverEveryKind(t *testing.T) {
	d, _, _ := newTestDemo()

	require.Len(t, d.lights, len(common.LightToggleKeys))
	kinds := map[light.LightType]int{}
	for _, l := range d.lights {
		kinds[l.Type()]++
	}
	assert.Equal(t, 1, kinds[light.LightTypeDirectional])
	assert.Equal(t, 2, kinds[light.LightTypePoint])
	assert.Equal(t, 1, kinds[light.LightTypeSpot])
	assert.False(t, d.lights[3].CastsShadows())
}

func TestDemoToggleKeys(t *testing.T) {
	d, _, buf := newTestDemo()

	d.keyDown(common.Key4)
	assert.True(t, d.lights[3].CastsShadows())
	d.keyDown(common.Key1)
	assert.False(t, d.lights[0].CastsShadows())
	assert.Contains(t, buf.String(), "directional light 1 casts shadows: false")

	// Movement keys are not demo toggles.
	d.keyDown(common.KeyW)
	assert.True(t, d.lights[1].CastsShadows())
}

func TestDemoResolutionToggle(t *testing.T) {
	d, s, _ := newTestDemo()
	cfg := config.Default()

	d.keyDown(common.KeyR)
	d.keyDown(common.KeyR)
	require.Len(t, s.resizes, 2)
	assert.Equal(t, resizeCall{cfg.Shadow.CascadeResolution / 4, cfg.Shadow.WorldResolution / 4}, s.resizes[0])
	assert.Equal(t, resizeCall{cfg.Shadow.CascadeResolution, cfg.Shadow.WorldResolution}, s.resizes[1])
}

func TestDemoResizeErrorEndsNextFrame(t *testing.T) {
	d, s, _ := newTestDemo()
	s.resizeErr = shadow.ErrInvalidResolution

	d.keyDown(common.KeyR)
	_, err := d.frame(0.016)
	assert.True(t, errors.Is(err, shadow.ErrInvalidResolution))
}

func TestDemoStatsKey(t *testing.T) {
	d, _, buf := newTestDemo()
	d.keyDown(common.KeyP)
	assert.Contains(t, buf.String(), "slots 4 cascade + 7 world")
}

func TestDemoFrameAnimatesLight(t *testing.T) {
	d, _, _ := newTestDemo()
	start := d.lights[1].Position()

	scene, err := d.frame(1)
	require.NoError(t, err)
	assert.Len(t, scene.Objects, len(d.objects))
	assert.Equal(t, d.lights, scene.Lights)
	assert.NotEqual(t, start, d.lights[1].Position())
	assert.InDelta(t, orbitHeight, d.lights[1].Position().Y(), 1e-6)

	d.keyDown(common.KeyL)
	paused := d.lights[1].Position()
	_, err = d.frame(1)
	require.NoError(t, err)
	assert.Equal(t, paused, d.lights[1].Position())
}

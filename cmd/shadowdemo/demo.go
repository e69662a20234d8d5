package main

import (
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/camera"
	"github.com/Carmen-Shannon/oxy-shadow/engine/config"
	"github.com/Carmen-Shannon/oxy-shadow/engine/game_object"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/mesh"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadow/engine/shadow"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// orbitRadius and orbitSpeed drive the first point light around the scene center.
const (
	orbitRadius float32 = 7
	orbitHeight float32 = 4
	orbitSpeed  float32 = 0.6
)

// demo owns the scene content and reacts to the demo keys.
type demo struct {
	cfg        config.Config
	cam        camera.Camera
	controller camera.CameraController
	shadows    shadow.ShadowSystem
	logger     *log.Logger

	lights  []light.Light
	objects []game_object.GameObject
	meshes  []mesh.Mesh

	looking bool
	paused  bool
	lowRes  bool
	elapsed float32
	err     error
}

func newDemo(cfg config.Config, cam camera.Camera, controller camera.CameraController, shadows shadow.ShadowSystem, logger *log.Logger) *demo {
	d := &demo{
		cfg:        cfg,
		cam:        cam,
		controller: controller,
		shadows:    shadows,
		logger:     logger,
	}

	ground := mesh.NewPlane("ground", 80)
	box := mesh.NewBox("box", 1, 1, 1)
	pillar := mesh.NewBox("pillar", 1, 6, 1)
	sphere := mesh.NewSphere("sphere", 1, 16, 24)
	d.meshes = []mesh.Mesh{ground, box, pillar, sphere}

	d.objects = []game_object.GameObject{
		// The ground only receives shadows.
		game_object.NewGameObject(
			game_object.WithMesh(ground),
			game_object.WithCastsShadow(false),
			game_object.WithColor(0.55, 0.55, 0.5),
		),
		game_object.NewGameObject(
			game_object.WithMesh(box),
			game_object.WithPosition(-3, 1, 2),
			game_object.WithScale(2, 2, 2),
			game_object.WithRotationSpeed(0, 0.5, 0),
			game_object.WithColor(0.8, 0.3, 0.25),
		),
		game_object.NewGameObject(
			game_object.WithMesh(sphere),
			game_object.WithPosition(3, 1.5, -1),
			game_object.WithScale(1.5, 1.5, 1.5),
			game_object.WithColor(0.25, 0.5, 0.85),
		),
		game_object.NewGameObject(
			game_object.WithMesh(pillar),
			game_object.WithPosition(0, 3, 5),
			game_object.WithColor(0.85, 0.8, 0.4),
		),
		game_object.NewGameObject(
			game_object.WithMesh(box),
			game_object.WithPosition(6, 0.5, 6),
			game_object.WithRotationSpeed(0.3, 0.7, 0),
			game_object.WithColor(0.4, 0.8, 0.45),
		),
	}

	d.lights = []light.Light{
		light.NewLight(light.LightTypeDirectional,
			light.WithDirection(-0.4, -1, 0.35),
			light.WithColor(1, 0.96, 0.88),
			light.WithIntensity(0.9),
			light.WithCastsShadows(true),
		),
		light.NewLight(light.LightTypePoint,
			light.WithPosition(orbitRadius, orbitHeight, 0),
			light.WithColor(1, 0.6, 0.3),
			light.WithIntensity(2),
			light.WithRange(25),
			light.WithCastsShadows(true),
		),
		light.NewLight(light.LightTypeSpot,
			light.WithPosition(-9, 9, -7),
			light.WithDirection(9, -9, 7),
			light.WithColor(0.5, 0.7, 1),
			light.WithIntensity(3),
			light.WithRange(40),
			light.WithConeAngle(mgl32.DegToRad(45)),
			light.WithCastsShadows(true),
		),
		// Starts unshadowed so toggling it grows the world array at runtime.
		light.NewLight(light.LightTypePoint,
			light.WithPosition(-6, 2.5, 7),
			light.WithColor(0.6, 1, 0.6),
			light.WithIntensity(1.5),
			light.WithRange(15),
		),
	}
	return d
}

// keyDown handles the shadow demo toggles. Movement keys go to the camera controller.
func (d *demo) keyDown(keyCode uint32) {
	for i, k := range common.LightToggleKeys {
		if keyCode == k && i < len(d.lights) {
			l := d.lights[i]
			l.SetCastsShadows(!l.CastsShadows())
			d.logger.Printf("[Demo] %s light %d casts shadows: %v", l.Type(), i+1, l.CastsShadows())
			return
		}
	}

	switch keyCode {
	case common.KeyR:
		d.lowRes = !d.lowRes
		cascadeRes, worldRes := d.cfg.Shadow.CascadeResolution, d.cfg.Shadow.WorldResolution
		if d.lowRes {
			cascadeRes, worldRes = max(cascadeRes/4, 1), max(worldRes/4, 1)
		}
		if err := d.shadows.Resize(cascadeRes, worldRes); err != nil {
			d.err = fmt.Errorf("failed to resize shadow maps: %w", err)
			return
		}
		d.logger.Printf("[Demo] shadow maps now %d / %d texels", cascadeRes, worldRes)
	case common.KeyP:
		st := d.shadows.Stats()
		d.logger.Printf("[Demo] slots %d cascade + %d world, layers %d/%d, draws %d, culled %d, allocations %d",
			st.CascadeSlots, st.WorldSlots, st.CascadeLayers, st.WorldLayers, st.Draws, st.Culled, st.Allocations)
	case common.KeyL:
		d.paused = !d.paused
	}
}

// frame advances the camera, objects and lights and returns the scene to draw.
func (d *demo) frame(dt float32) (renderer.Scene, error) {
	if d.err != nil {
		return renderer.Scene{}, d.err
	}

	d.controller.Apply(d.cam, dt)
	d.cam.Update()

	for _, o := range d.objects {
		o.Tick(dt)
	}

	if !d.paused {
		d.elapsed += dt
		a := d.elapsed * orbitSpeed
		d.lights[1].SetPosition(orbitRadius*math32.Cos(a), orbitHeight, orbitRadius*math32.Sin(a))
	}

	drawables := make([]renderer.Drawable, len(d.objects))
	for i, o := range d.objects {
		drawables[i] = o
	}
	return renderer.Scene{
		Camera:  d.cam,
		Lights:  d.lights,
		Ambient: d.cfg.Ambient(),
		Objects: drawables,
	}, nil
}

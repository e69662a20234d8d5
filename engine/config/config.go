package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-shadow/engine/camera"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadow/engine/shadow"
	"github.com/Carmen-Shannon/oxy-shadow/engine/window"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig wraps every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Config is the settings file of a shadow demo. Keys missing from the file keep their
// Default values. Angles in the file are degrees.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Camera   CameraConfig   `toml:"camera"`
	Shadow   ShadowConfig   `toml:"shadow"`
}

// WindowConfig is the [window] table.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// RendererConfig is the [renderer] table.
type RendererConfig struct {
	PresentMode string     `toml:"present_mode"` // "vsync" or "uncapped"
	MSAA        int        `toml:"msaa"`         // 1 or 4
	Software    bool       `toml:"software"`     // force the fallback adapter
	FrameLimit  float64    `toml:"frame_limit"`  // frames per second, 0 = uncapped
	Profiling   bool       `toml:"profiling"`
	ClearColor  [3]float64 `toml:"clear_color"`
	Ambient     [3]float32 `toml:"ambient"`
}

// CameraConfig is the [camera] table.
type CameraConfig struct {
	FovDegrees   float32    `toml:"fov_degrees"`
	Near         float32    `toml:"near"`
	Far          float32    `toml:"far"`
	Position     [3]float32 `toml:"position"`
	PitchDegrees float32    `toml:"pitch_degrees"`
	YawDegrees   float32    `toml:"yaw_degrees"`
	MoveSpeed    float32    `toml:"move_speed"`
	LookSpeed    float32    `toml:"look_speed"`
}

// ShadowConfig is the [shadow] table.
type ShadowConfig struct {
	CascadeResolution int       `toml:"cascade_resolution"`
	WorldResolution   int       `toml:"world_resolution"`
	Cascades          int       `toml:"cascades"`
	CascadeExtents    []float32 `toml:"cascade_extents"`
	NearPlane         float32   `toml:"near_plane"`
	FarPlane          float32   `toml:"far_plane"`
	AnchorDistance    float32   `toml:"anchor_distance"`
	AnchorHeight      float32   `toml:"anchor_height"`
	PointFOVDegrees   float32   `toml:"point_fov_degrees"`
	DepthBias         int32     `toml:"depth_bias"`
	SlopeScaledBias   float32   `toml:"slope_scaled_bias"`
}

// Default returns the built-in settings.
//
// Returns:
//   - Config: a config that passes Validate
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-shadow",
			Width:  1280,
			Height: 720,
		},
		Renderer: RendererConfig{
			PresentMode: "vsync",
			MSAA:        int(renderer.MSAA4x),
			ClearColor:  [3]float64{0.05, 0.06, 0.09},
			Ambient:     [3]float32{0.12, 0.12, 0.14},
		},
		Camera: CameraConfig{
			FovDegrees:   60,
			Near:         0.1,
			Far:          500,
			Position:     [3]float32{0, 6, -18},
			PitchDegrees: 15,
			MoveSpeed:    10,
			LookSpeed:    0.003,
		},
		Shadow: ShadowConfig{
			CascadeResolution: light.DefaultCascadeResolution,
			WorldResolution:   light.DefaultWorldResolution,
			Cascades:          light.DefaultCascadeCount,
			CascadeExtents:    append([]float32(nil), light.DefaultCascadeExtents...),
			NearPlane:         light.DefaultCascadeNear,
			FarPlane:          light.DefaultCascadeFar,
			AnchorDistance:    light.DefaultAnchorDistance,
			AnchorHeight:      light.DefaultAnchorHeight,
			PointFOVDegrees:   light.DefaultPointFOVDegrees,
			DepthBias:         light.DefaultDepthBias,
			SlopeScaledBias:   light.DefaultSlopeScaledDepthBias,
		},
	}
}

// Load reads and validates a TOML settings file. A missing file yields Default.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the merged settings
//   - error: a read, decode or validation error
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a TOML document over Default and validates the result. Unknown keys are errors.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - Config: the merged settings
//   - error: a decode or validation error
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("failed to decode config: %s", strict.String())
		}
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every out-of-range setting.
//
// Returns:
//   - error: nil, or an error wrapping ErrInvalidConfig that lists each problem
func (c Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		add("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if _, err := renderer.ParsePresentMode(c.Renderer.PresentMode); err != nil {
		add("renderer.present_mode: %v", err)
	}
	if _, err := renderer.ParseMSAA(c.Renderer.MSAA); err != nil {
		add("renderer.msaa: %v", err)
	}
	if c.Renderer.FrameLimit < 0 {
		add("renderer.frame_limit %v must not be negative", c.Renderer.FrameLimit)
	}
	if c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180 {
		add("camera.fov_degrees %v must be in (0, 180)", c.Camera.FovDegrees)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		add("camera clip planes %v..%v must satisfy 0 < near < far", c.Camera.Near, c.Camera.Far)
	}

	s := c.Shadow
	if s.CascadeResolution <= 0 {
		add("shadow.cascade_resolution %d must be positive", s.CascadeResolution)
	}
	if s.WorldResolution <= 0 {
		add("shadow.world_resolution %d must be positive", s.WorldResolution)
	}
	if s.Cascades <= 0 {
		add("shadow.cascades %d must be positive", s.Cascades)
	}
	extents := len(s.CascadeExtents)
	if extents == 0 {
		extents = len(light.DefaultCascadeExtents)
	}
	if s.Cascades > extents {
		add("shadow.cascades %d exceeds the %d cascade_extents", s.Cascades, extents)
	}
	for i, e := range s.CascadeExtents {
		if !(e > 0) || math32.IsInf(e, 1) {
			add("shadow.cascade_extents[%d] %v must be positive and finite", i, e)
		}
		if i > 0 && e <= s.CascadeExtents[i-1] {
			add("shadow.cascade_extents must increase (index %d)", i)
		}
	}
	if s.NearPlane <= 0 || s.FarPlane <= s.NearPlane {
		add("shadow planes %v..%v must satisfy 0 < near < far", s.NearPlane, s.FarPlane)
	}
	if !(s.PointFOVDegrees >= 90 && s.PointFOVDegrees < 180) {
		add("shadow.point_fov_degrees %v must be in [90, 180)", s.PointFOVDegrees)
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}

// WindowOptions converts the [window] table into window builder options.
func (c Config) WindowOptions() []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(c.Window.Title),
		window.WithSize(c.Window.Width, c.Window.Height),
	}
}

// RendererOptions converts the [renderer] table into renderer builder options. The config
// must have passed Validate.
func (c Config) RendererOptions() []renderer.RendererBuilderOption {
	mode, _ := renderer.ParsePresentMode(c.Renderer.PresentMode)
	msaa, _ := renderer.ParseMSAA(c.Renderer.MSAA)
	cc := c.Renderer.ClearColor
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(mode),
		renderer.WithMSAA(msaa),
		renderer.WithForceSoftwareRenderer(c.Renderer.Software),
		renderer.WithClearColor(cc[0], cc[1], cc[2]),
	}
}

// CameraOptions converts the [camera] table into camera builder options.
//
// Parameters:
//   - aspect: the initial width / height of the surface
func (c Config) CameraOptions(aspect float32) []camera.CameraBuilderOption {
	p := c.Camera.Position
	return []camera.CameraBuilderOption{
		camera.WithPosition(p[0], p[1], p[2]),
		camera.WithOrientation(mgl32.DegToRad(c.Camera.PitchDegrees), mgl32.DegToRad(c.Camera.YawDegrees)),
		camera.WithFov(mgl32.DegToRad(c.Camera.FovDegrees)),
		camera.WithAspect(aspect),
		camera.WithClipPlanes(c.Camera.Near, c.Camera.Far),
		camera.WithMoveSpeed(c.Camera.MoveSpeed),
		camera.WithLookSpeed(c.Camera.LookSpeed),
	}
}

// ShadowOptions converts the [shadow] table into shadow system builder options.
func (c Config) ShadowOptions() []shadow.ShadowBuilderOption {
	s := c.Shadow
	return []shadow.ShadowBuilderOption{
		shadow.WithCascadeResolution(s.CascadeResolution),
		shadow.WithWorldResolution(s.WorldResolution),
		shadow.WithCascades(s.Cascades),
		shadow.WithCascadeExtents(s.CascadeExtents...),
		shadow.WithNearFar(s.NearPlane, s.FarPlane),
		shadow.WithAnchor(s.AnchorDistance, s.AnchorHeight),
		shadow.WithPointFOV(s.PointFOVDegrees),
		shadow.WithDepthBias(s.DepthBias, s.SlopeScaledBias),
	}
}

// Ambient returns the lit pass ambient term.
func (c Config) Ambient() mgl32.Vec3 {
	return mgl32.Vec3(c.Renderer.Ambient)
}

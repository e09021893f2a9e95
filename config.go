package forwardplus

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/gekko3d/forwardplus/clusterrt/rt/cluster"
	"github.com/gekko3d/forwardplus/clusterrt/rt/core"
	"github.com/gekko3d/forwardplus/clusterrt/rt/shaders"
	"github.com/gekko3d/forwardplus/clusterrt/rt/shading"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type GridConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	Z int `yaml:"z"`
}

type CameraConfig struct {
	FovY float32 `yaml:"fov_y"` // degrees
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"` // projection far plane
}

type LightsConfig struct {
	Count   int        `yaml:"count"`
	Radius  float32    `yaml:"radius"`
	Min     [3]float32 `yaml:"min"`
	Max     [3]float32 `yaml:"max"`
	DT      float32    `yaml:"dt"`
	Seed    int64      `yaml:"seed"`
	Animate bool       `yaml:"animate"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type Config struct {
	Renderer            RendererName `yaml:"renderer"`
	Grid                GridConfig   `yaml:"grid"`
	MaxLightsPerCluster int          `yaml:"max_lights_per_cluster"`
	// ClusterFar bounds the clustered volume; it is independent of Camera.Far.
	ClusterFar float32      `yaml:"cluster_far"`
	Workers    int          `yaml:"workers"`
	Camera     CameraConfig `yaml:"camera"`
	Lights     LightsConfig `yaml:"lights"`
	Window     WindowConfig `yaml:"window"`
	Debug      bool         `yaml:"debug"`
}

func DefaultConfig() *Config {
	spawn := core.DefaultLightSpawn()
	cam := core.NewCameraState()
	return &Config{
		Renderer:            RendererForwardPlus,
		Grid:                GridConfig{X: 15, Y: 15, Z: 15},
		MaxLightsPerCluster: cluster.MaxLightsPerCluster,
		ClusterFar:          40,
		Workers:             1,
		Camera:              CameraConfig{FovY: cam.FovY, Near: cam.Near, Far: cam.Far},
		Lights: LightsConfig{
			Count:   spawn.Count,
			Radius:  spawn.Radius,
			Min:     spawn.Min,
			Max:     spawn.Max,
			DT:      spawn.DT,
			Seed:    spawn.Seed,
			Animate: true,
		},
		Window: WindowConfig{Width: 1280, Height: 720, Title: "Forward+"},
	}
}

// LoadConfig reads a YAML file over DefaultConfig and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML over DefaultConfig. Unknown keys are rejected.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := ParseRendererName(string(c.Renderer)); err != nil {
		return err
	}
	if err := c.ClusterGrid().Validate(); err != nil {
		return err
	}
	if c.MaxLightsPerCluster <= 0 {
		return fmt.Errorf("max_lights_per_cluster %d: %w", c.MaxLightsPerCluster, cluster.ErrInvalidCapacity)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d is negative", ErrInvalidConfig, c.Workers)
	}

	cam := c.Camera
	if !finite(cam.Near) || !finite(cam.Far) || !(cam.Near > 0 && cam.Far > cam.Near) {
		return fmt.Errorf("%w: camera near %g / far %g", ErrInvalidConfig, cam.Near, cam.Far)
	}
	if !(cam.FovY > 0 && cam.FovY < 180) {
		return fmt.Errorf("%w: camera fov_y %g must be in (0, 180)", ErrInvalidConfig, cam.FovY)
	}
	if !finite(c.ClusterFar) || c.ClusterFar <= cam.Near {
		return fmt.Errorf("%w: cluster_far %g must exceed camera near %g", ErrInvalidConfig, c.ClusterFar, cam.Near)
	}

	l := c.Lights
	if l.Count < 0 {
		return fmt.Errorf("%w: lights count %d is negative", ErrInvalidConfig, l.Count)
	}
	if err := (core.Light{Radius: l.Radius}).Validate(); err != nil {
		return fmt.Errorf("lights: %w", err)
	}
	for i := 0; i < 3; i++ {
		if l.Min[i] > l.Max[i] {
			return fmt.Errorf("%w: lights min %v exceeds max %v", ErrInvalidConfig, l.Min, l.Max)
		}
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	return nil
}

func (c *Config) ClusterGrid() cluster.Grid {
	return cluster.Grid{X: c.Grid.X, Y: c.Grid.Y, Z: c.Grid.Z}
}

func (c *Config) LightSpawn() core.LightSpawn {
	return core.LightSpawn{
		Count:  c.Lights.Count,
		Radius: c.Lights.Radius,
		Min:    mgl32.Vec3(c.Lights.Min),
		Max:    mgl32.Vec3(c.Lights.Max),
		DT:     c.Lights.DT,
		Seed:   c.Lights.Seed,
	}
}

// CameraState is the starting fly camera with the configured lens.
func (c *Config) CameraState() *core.CameraState {
	cam := core.NewCameraState()
	cam.FovY = c.Camera.FovY
	cam.Near = c.Camera.Near
	cam.Far = c.Camera.Far
	return cam
}

// Aspect is the window aspect ratio, used by headless tools in place of a surface.
func (c *Config) Aspect() float32 {
	return float32(c.Window.Width) / float32(c.Window.Height)
}

func (c *Config) ShaderParams(clusterLookup, specular bool) shaders.Params {
	return shaders.Params{
		Grid:          c.ClusterGrid(),
		MaxLights:     c.MaxLightsPerCluster,
		Near:          c.Camera.Near,
		Far:           c.ClusterFar,
		Ambient:       shading.Ambient,
		ClusterLookup: clusterLookup,
		Specular:      specular,
		Shininess:     shading.Shininess,
	}
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

package forwardplus

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gekko3d/forwardplus/clusterrt/rt/app"
	"github.com/gekko3d/forwardplus/clusterrt/rt/core"
	"github.com/gekko3d/forwardplus/clusterrt/rt/shaders"
	"github.com/gekko3d/forwardplus/clusterrt/rt/shading"
)

// RendererName identifies a lighting strategy in config files and flags.
type RendererName string

const (
	RendererForward     RendererName = "forward"
	RendererForwardPlus RendererName = "forward+"
	// RendererClustered shades from the cluster lists with a specular highlight
	// on top of the diffuse term.
	RendererClustered RendererName = "clustered-deferred"
)

var ErrUnknownRenderer = errors.New("unknown renderer")

func ParseRendererName(s string) (RendererName, error) {
	switch name := RendererName(strings.ToLower(strings.TrimSpace(s))); name {
	case RendererForward, RendererForwardPlus, RendererClustered:
		return name, nil
	}
	return "", fmt.Errorf("%w: %q (want %q, %q or %q)", ErrUnknownRenderer, s,
		RendererForward, RendererForwardPlus, RendererClustered)
}

// LightingStrategy decides how shading finds the lights affecting a point.
// It is chosen once at startup and does not change while running.
type LightingStrategy interface {
	Name() RendererName
	// Source is nil for strategies that do not cluster.
	Source() app.ClusterSource
	ShaderParams() shaders.Params
	// Evaluator prepares CPU shading of one frame.
	Evaluator(cam core.CameraParams, lights []core.Light) shading.Evaluator
}

// SelectStrategy builds the strategy named by cfg.Renderer.
func SelectStrategy(cfg *Config, log Logger) (LightingStrategy, error) {
	log = orNop(log)
	name, err := ParseRendererName(string(cfg.Renderer))
	if err != nil {
		return nil, err
	}

	var s LightingStrategy
	switch name {
	case RendererForward:
		s = &forwardStrategy{cfg: cfg}
	case RendererForwardPlus, RendererClustered:
		p, err := NewPipeline(cfg, log)
		if err != nil {
			return nil, err
		}
		s = &clusteredStrategy{cfg: cfg, pipeline: p, name: name, specular: name == RendererClustered}
	}
	log.Infof("Renderer selected: %s", name)
	return s, nil
}

type forwardStrategy struct {
	cfg *Config
}

func (s *forwardStrategy) Name() RendererName        { return RendererForward }
func (s *forwardStrategy) Source() app.ClusterSource { return nil }

func (s *forwardStrategy) ShaderParams() shaders.Params {
	return s.cfg.ShaderParams(false, false)
}

func (s *forwardStrategy) Evaluator(cam core.CameraParams, lights []core.Light) shading.Evaluator {
	return &shading.Forward{Lights: lights}
}

type clusteredStrategy struct {
	cfg      *Config
	pipeline *Pipeline
	name     RendererName
	specular bool
}

func (s *clusteredStrategy) Name() RendererName        { return s.name }
func (s *clusteredStrategy) Source() app.ClusterSource { return s.pipeline }

func (s *clusteredStrategy) ShaderParams() shaders.Params {
	return s.cfg.ShaderParams(true, s.specular)
}

func (s *clusteredStrategy) Evaluator(cam core.CameraParams, lights []core.Light) shading.Evaluator {
	buf, _ := s.pipeline.Frame(cam, lights)
	return &shading.Clustered{
		Grid:     s.pipeline.Grid(),
		Camera:   cam,
		Buffer:   buf,
		Lights:   lights,
		Specular: s.specular,
	}
}

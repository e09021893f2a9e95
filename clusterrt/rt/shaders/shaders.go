package shaders

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/gekko3d/forwardplus/clusterrt/rt/cluster"
)

//go:embed forwardplus.wgsl
var ForwardPlusWGSL string

var forwardPlusTmpl = template.Must(template.New("forwardplus").
	Funcs(template.FuncMap{"f32": formatF32}).
	Parse(ForwardPlusWGSL))

// Params are the values baked into a rendered shader. Changing any of them
// requires a new shader module and pipeline.
type Params struct {
	Grid      cluster.Grid
	MaxLights int
	Near      float32
	Far       float32
	Ambient   float32
	// ClusterLookup selects per-cluster light lists; false loops over all lights.
	ClusterLookup bool
	// Specular adds a Blinn-Phong highlight seen from the camera position.
	Specular  bool
	Shininess float32
}

// RenderForwardPlus substitutes p into the shading template.
func RenderForwardPlus(p Params) (string, error) {
	if err := p.Grid.Validate(); err != nil {
		return "", err
	}
	if p.MaxLights <= 0 {
		return "", fmt.Errorf("shader max lights %d: %w", p.MaxLights, cluster.ErrInvalidCapacity)
	}
	if !(p.Near > 0 && p.Far > p.Near) {
		return "", fmt.Errorf("shader clip range [%g, %g] is empty", p.Near, p.Far)
	}
	if p.Specular && p.Shininess <= 0 {
		return "", fmt.Errorf("shader shininess %g must be positive", p.Shininess)
	}

	var sb strings.Builder
	if err := forwardPlusTmpl.Execute(&sb, p); err != nil {
		return "", fmt.Errorf("render forward+ shader: %w", err)
	}
	return sb.String(), nil
}

// WGSL needs a decimal point to type a literal as f32.
func formatF32(v float32) string {
	s := strconv.FormatFloat(float64(v), 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

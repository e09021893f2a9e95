// Package shading evaluates point-light shading on the CPU with the same cluster
// lookup the WGSL shader performs. It is the reference the shader templates are
// tested against and the fallback used by headless tools.
package shading

import (
	"math"

	"github.com/gekko3d/forwardplus/clusterrt/rt/cluster"
	"github.com/gekko3d/forwardplus/clusterrt/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

// Ambient is added to every shaded point, scaled by albedo.
const Ambient = 0.025

// Shininess is the Blinn-Phong exponent of the specular term.
const Shininess = 8.0

// CubicGaussian approximates a gaussian with a piecewise cubic on h = 2*distance/radius.
// It is exactly zero from h = 2, i.e. at the light radius used for cluster assignment.
func CubicGaussian(h float32) float32 {
	if h < 1.0 {
		a := 2.0 - h
		b := 1.0 - h
		return 0.25*a*a*a - b*b*b
	} else if h < 2.0 {
		a := 2.0 - h
		return 0.25 * a * a * a
	}
	return 0.0
}

// Locate finds the grid cell of world point p. The cell is clamped into the grid;
// ok is false when p lies outside the clustered volume. Points in front of the
// near plane are projected at the near depth, as the shader does.
func Locate(grid cluster.Grid, cam core.CameraParams, p mgl32.Vec3) (cell [3]int, ok bool) {
	v := cam.ViewSpace(p)
	inside := v.Z() >= cam.Near
	depth := v.Z()
	if !inside {
		depth = cam.Near
	}

	tanHalf := cam.TanHalfFov()
	u := (v.X()/(depth*tanHalf*cam.Aspect) + 1.0) * 0.5
	w := (v.Y()/(depth*tanHalf) + 1.0) * 0.5
	dz := (cam.Far - cam.Near) / float32(grid.Z)

	x := int(math.Floor(float64(u * float32(grid.X))))
	y := int(math.Floor(float64(w * float32(grid.Y))))
	z := int(math.Floor(float64((depth - cam.Near) / dz)))

	ok = inside && grid.Contains(x, y, z)
	return [3]int{clampInt(x, grid.X), clampInt(y, grid.Y), clampInt(z, grid.Z)}, ok
}

// ClusterID is Locate followed by the linear id.
func ClusterID(grid cluster.Grid, cam core.CameraParams, p mgl32.Vec3) (int, bool) {
	cell, ok := Locate(grid, cam, p)
	return grid.ID(cell[0], cell[1], cell[2]), ok
}

func clampInt(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

// Evaluator shades a surface point with world position p, unit normal n and albedo.
type Evaluator interface {
	Shade(p, n, albedo mgl32.Vec3) mgl32.Vec3
}

// Forward evaluates every light for every point. Eye is only read when
// Specular is set.
type Forward struct {
	Lights   []core.Light
	Specular bool
	Eye      mgl32.Vec3
}

func (f *Forward) Shade(p, n, albedo mgl32.Vec3) mgl32.Vec3 {
	var color mgl32.Vec3
	for i := range f.Lights {
		color = color.Add(lightContribution(&f.Lights[i], p, n, albedo))
		if f.Specular {
			color = color.Add(SpecularTerm(&f.Lights[i], p, n, f.Eye))
		}
	}
	return finish(color, albedo)
}

// Clustered evaluates only the lights listed in the cluster containing the point.
// Buffer must be published for the same Camera and Lights.
type Clustered struct {
	Grid     cluster.Grid
	Camera   core.CameraParams
	Buffer   *cluster.Buffer
	Lights   []core.Light
	Specular bool
}

func (c *Clustered) Shade(p, n, albedo mgl32.Vec3) mgl32.Vec3 {
	id, _ := ClusterID(c.Grid, c.Camera, p)
	count := c.Buffer.Count(id)

	var color mgl32.Vec3
	for i := 0; i < count; i++ {
		li := c.Buffer.Get(id, i+1)
		color = color.Add(lightContribution(&c.Lights[li], p, n, albedo))
		if c.Specular {
			color = color.Add(SpecularTerm(&c.Lights[li], p, n, c.Camera.Position))
		}
	}
	return finish(color, albedo)
}

func lightContribution(l *core.Light, p, n, albedo mgl32.Vec3) mgl32.Vec3 {
	toLight := l.Position.Sub(p)
	dist := toLight.Len()
	dir := n
	if dist > 0 {
		dir = toLight.Mul(1.0 / dist)
	}

	intensity := CubicGaussian(2.0 * dist / l.Radius)
	lambert := dir.Dot(n)
	if lambert < 0 {
		lambert = 0
	}
	return mulVec3(albedo, l.Color).Mul(lambert * intensity)
}

// SpecularTerm is the Blinn-Phong highlight of l at p seen from eye. It shares the
// light's falloff, so it vanishes wherever CubicGaussian does.
func SpecularTerm(l *core.Light, p, n, eye mgl32.Vec3) mgl32.Vec3 {
	toLight := l.Position.Sub(p)
	dist := toLight.Len()
	intensity := CubicGaussian(2.0 * dist / l.Radius)
	if intensity <= 0 {
		return mgl32.Vec3{}
	}

	half := unitOr(toLight, n).Add(unitOr(eye.Sub(p), n))
	hl := half.Len()
	if hl == 0 {
		return mgl32.Vec3{}
	}
	cos := half.Dot(n) / hl
	if cos <= 0 {
		return mgl32.Vec3{}
	}
	s := float32(math.Pow(float64(cos), Shininess)) * intensity
	return l.Color.Mul(s)
}

func unitOr(v, fallback mgl32.Vec3) mgl32.Vec3 {
	if l := v.Len(); l > 0 {
		return v.Mul(1.0 / l)
	}
	return fallback
}

func finish(color, albedo mgl32.Vec3) mgl32.Vec3 {
	color = color.Add(albedo.Mul(Ambient))
	for i := range color {
		color[i] = mgl32.Clamp(color[i], 0, 1)
	}
	return color
}

func mulVec3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

package cluster

import (
	"testing"

	"github.com/gekko3d/forwardplus/clusterrt/rt/core"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Camera at the origin looking down +Z, fov 45, aspect 1, clustered over [0.1, 40].
func testCamera() core.CameraParams {
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0})
	right, up, forward := core.ExtractBasis(view)
	return core.CameraParams{
		Position: mgl32.Vec3{0, 0, 0},
		Right:    right,
		Up:       up,
		Forward:  forward,
		FovY:     mgl32.DegToRad(45),
		Aspect:   1,
		Near:     0.1,
		Far:      40,
	}
}

func TestGridValidation(t *testing.T) {
	for _, g := range [][3]int{{0, 1, 1}, {1, 0, 1}, {1, 1, 0}, {-3, 4, 4}} {
		_, err := NewGrid(g[0], g[1], g[2])
		assert.ErrorIs(t, err, ErrInvalidGrid, "grid %v", g)
	}
	g, err := NewGrid(15, 15, 15)
	require.NoError(t, err)
	assert.Equal(t, 3375, g.Count())
	assert.Equal(t, "15x15x15", g.String())
}

func TestGridIDRoundTrip(t *testing.T) {
	g := Grid{X: 4, Y: 3, Z: 5}
	seen := make(map[int]bool)
	for z := 0; z < g.Z; z++ {
		for y := 0; y < g.Y; y++ {
			for x := 0; x < g.X; x++ {
				id := g.ID(x, y, z)
				assert.Equal(t, x+y*4+z*12, id)
				cx, cy, cz := g.Cell(id)
				assert.Equal(t, [3]int{x, y, z}, [3]int{cx, cy, cz})
				seen[id] = true
			}
		}
	}
	assert.Len(t, seen, g.Count())
	assert.False(t, g.Contains(4, 0, 0))
	assert.True(t, g.Contains(3, 2, 4))
}

func TestBuildClusterOrderAndIDs(t *testing.T) {
	g := Grid{X: 3, Y: 2, Z: 4}
	clusters := NewBuilder(g).Build(testCamera())
	require.Len(t, clusters, g.Count())
	for i, c := range clusters {
		assert.Equal(t, i, c.ID)
		assert.Equal(t, i, g.ID(c.Cell[0], c.Cell[1], c.Cell[2]))
	}
}

func TestBuildPlanesFaceInward(t *testing.T) {
	g := Grid{X: 15, Y: 15, Z: 15}
	clusters := NewBuilder(g).Build(testCamera())
	for i := range clusters {
		c := &clusters[i]
		centroid := c.Centroid()
		for p, plane := range c.Frustum {
			if d := core.PlaneDistance(plane, centroid); d <= 0 {
				t.Fatalf("cluster %d plane %d faces outward: distance %f", c.ID, p, d)
			}
		}
	}
}

func TestBuildSliceDepths(t *testing.T) {
	cam := testCamera()
	g := Grid{X: 2, Y: 2, Z: 4}
	clusters := NewBuilder(g).Build(cam)
	dz := (cam.Far - cam.Near) / 4

	for _, c := range clusters {
		z := c.Cell[2]
		nearDepth := cam.Near + dz*float32(z)
		for corner := NearBottomLeft; corner <= NearTopLeft; corner++ {
			assert.InDelta(t, nearDepth, cam.ViewSpace(c.Corners[corner]).Z(), 1e-4)
		}
		for corner := FarBottomLeft; corner <= FarTopLeft; corner++ {
			assert.InDelta(t, nearDepth+dz, cam.ViewSpace(c.Corners[corner]).Z(), 1e-4)
		}
	}

	// The far quad of the last slice spans the full cross-section at Far.
	half := cam.Far * cam.TanHalfFov()
	last := clusters[g.ID(1, 1, 3)]
	v := cam.ViewSpace(last.Corners[FarTopRight])
	assert.InDelta(t, half, v.X(), 1e-3)
	assert.InDelta(t, half, v.Y(), 1e-3)
	first := clusters[g.ID(0, 0, 3)]
	v = cam.ViewSpace(first.Corners[FarBottomLeft])
	assert.InDelta(t, -half, v.X(), 1e-3)
	assert.InDelta(t, -half, v.Y(), 1e-3)
}

func TestNeighbouringClustersShareCorners(t *testing.T) {
	g := Grid{X: 4, Y: 4, Z: 4}
	clusters := NewBuilder(g).Build(testCamera())
	for z := 0; z < g.Z; z++ {
		for y := 0; y < g.Y; y++ {
			for x := 0; x+1 < g.X; x++ {
				a := clusters[g.ID(x, y, z)]
				b := clusters[g.ID(x+1, y, z)]
				assert.True(t, a.Corners[NearBottomRight].ApproxEqualThreshold(b.Corners[NearBottomLeft], 1e-4))
				assert.True(t, a.Corners[FarTopRight].ApproxEqualThreshold(b.Corners[FarTopLeft], 1e-4))
			}
		}
	}
	for z := 0; z+1 < g.Z; z++ {
		a := clusters[g.ID(1, 2, z)]
		b := clusters[g.ID(1, 2, z+1)]
		assert.True(t, a.Corners[FarBottomLeft].ApproxEqualThreshold(b.Corners[NearBottomLeft], 1e-4))
	}
}

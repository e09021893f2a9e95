package cluster

import (
	"github.com/gekko3d/forwardplus/clusterrt/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

// Corner order inside a cluster. Plane construction below depends on it.
const (
	NearBottomLeft = iota
	NearBottomRight
	NearTopRight
	NearTopLeft
	FarBottomLeft
	FarBottomRight
	FarTopRight
	FarTopLeft
)

// Plane order inside Cluster.Frustum.
const (
	PlaneFront = iota
	PlaneBack
	PlaneLeft
	PlaneRight
	PlaneTop
	PlaneBottom
)

type Cluster struct {
	ID      int
	Cell    [3]int
	Corners [8]mgl32.Vec3
	Frustum core.Frustum
}

func (c *Cluster) Centroid() mgl32.Vec3 {
	var sum mgl32.Vec3
	for _, p := range c.Corners {
		sum = sum.Add(p)
	}
	return sum.Mul(1.0 / 8.0)
}

// Builder slices the camera frustum between Near and Far into Grid cells.
type Builder struct {
	Grid     Grid
	clusters []Cluster
}

func NewBuilder(grid Grid) *Builder {
	return &Builder{
		Grid:     grid,
		clusters: make([]Cluster, grid.Count()),
	}
}

// Build returns every cluster in ascending id order. The returned slice is owned
// by the builder and overwritten by the next call.
func (b *Builder) Build(cam core.CameraParams) []Cluster {
	for z := 0; z < b.Grid.Z; z++ {
		b.BuildSlice(cam, z)
	}
	return b.clusters
}

// BuildSlice fills the clusters of depth slice z. Slices are independent of each
// other, so they may be built concurrently.
func (b *Builder) BuildSlice(cam core.CameraParams, z int) []Cluster {
	g := b.Grid
	dz := (cam.Far - cam.Near) / float32(g.Z)
	tanHalf := cam.TanHalfFov()

	depthCur := cam.Near + dz*float32(z)
	heightCur := depthCur * tanHalf * 2
	widthCur := cam.Aspect * heightCur

	depthNext := cam.Near + dz*float32(z+1)
	heightNext := depthNext * tanHalf * 2
	widthNext := cam.Aspect * heightNext

	originCur := quadOrigin(cam, widthCur, heightCur, depthCur)
	originNext := quadOrigin(cam, widthNext, heightNext, depthNext)

	dxCur := cam.Right.Mul(widthCur / float32(g.X))
	dyCur := cam.Up.Mul(heightCur / float32(g.Y))
	dxNext := cam.Right.Mul(widthNext / float32(g.X))
	dyNext := cam.Up.Mul(heightNext / float32(g.Y))

	start := g.ID(0, 0, z)
	slice := b.clusters[start : start+g.X*g.Y]
	for y := 0; y < g.Y; y++ {
		for x := 0; x < g.X; x++ {
			c := &slice[x+y*g.X]
			c.ID = g.ID(x, y, z)
			c.Cell = [3]int{x, y, z}

			near := originCur.Add(dxCur.Mul(float32(x))).Add(dyCur.Mul(float32(y)))
			c.Corners[NearBottomLeft] = near
			c.Corners[NearBottomRight] = near.Add(dxCur)
			c.Corners[NearTopRight] = near.Add(dxCur).Add(dyCur)
			c.Corners[NearTopLeft] = near.Add(dyCur)

			far := originNext.Add(dxNext.Mul(float32(x))).Add(dyNext.Mul(float32(y)))
			c.Corners[FarBottomLeft] = far
			c.Corners[FarBottomRight] = far.Add(dxNext)
			c.Corners[FarTopRight] = far.Add(dxNext).Add(dyNext)
			c.Corners[FarTopLeft] = far.Add(dyNext)

			c.Frustum = clusterPlanes(&c.Corners)
		}
	}
	return slice
}

// quadOrigin is the bottom-left corner of the frustum cross-section at depth.
func quadOrigin(cam core.CameraParams, width, height, depth float32) mgl32.Vec3 {
	return cam.Position.
		Add(cam.Right.Mul(-width / 2.0)).
		Add(cam.Up.Mul(-height / 2.0)).
		Add(cam.Forward.Mul(depth))
}

// clusterPlanes builds the six bounding planes from fixed corner triples. With a
// right-handed basis every triple winds so its normal faces out of the cell; the
// negation turns them inward.
func clusterPlanes(p *[8]mgl32.Vec3) core.Frustum {
	var f core.Frustum
	f[PlaneFront] = core.PlaneFromCoplanarPoints(p[NearBottomLeft], p[NearBottomRight], p[NearTopRight])
	f[PlaneBack] = core.PlaneFromCoplanarPoints(p[FarBottomLeft], p[FarTopLeft], p[FarTopRight])
	f[PlaneLeft] = core.PlaneFromCoplanarPoints(p[NearBottomLeft], p[NearTopLeft], p[FarTopLeft])
	f[PlaneRight] = core.PlaneFromCoplanarPoints(p[NearBottomRight], p[FarBottomRight], p[FarTopRight])
	f[PlaneTop] = core.PlaneFromCoplanarPoints(p[NearTopLeft], p[NearTopRight], p[FarTopRight])
	f[PlaneBottom] = core.PlaneFromCoplanarPoints(p[NearBottomLeft], p[FarBottomLeft], p[FarBottomRight])
	for i := range f {
		f[i] = core.NegatePlane(f[i])
	}
	return f
}

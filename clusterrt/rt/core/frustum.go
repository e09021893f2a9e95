package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Planes are stored as (normal, constant) in a Vec4 so that the signed distance of a
// point is Dot(point.Vec4(1)).

// PlaneFromCoplanarPoints builds the plane through a, b and c with normal
// (c-b) x (a-b). The winding of the three points decides which side the normal faces.
func PlaneFromCoplanarPoints(a, b, c mgl32.Vec3) mgl32.Vec4 {
	normal := c.Sub(b).Cross(a.Sub(b)).Normalize()
	return normal.Vec4(-normal.Dot(a))
}

// PlaneDistance is the signed distance from pt to plane.
func PlaneDistance(plane mgl32.Vec4, pt mgl32.Vec3) float32 {
	return plane.Dot(pt.Vec4(1.0))
}

// NegatePlane flips the facing of a plane without moving it.
func NegatePlane(plane mgl32.Vec4) mgl32.Vec4 {
	return plane.Mul(-1)
}

// Frustum is a convex volume bounded by six planes whose normals point inward.
type Frustum [6]mgl32.Vec4

func (f *Frustum) ContainsPoint(pt mgl32.Vec3) bool {
	for i := range f {
		if PlaneDistance(f[i], pt) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere rejects the sphere only when it lies entirely on the outer side
// of one plane. A sphere touching a plane counts as intersecting. The test can
// report spheres near the frustum's edges that do not actually overlap it, never
// the opposite.
func (f *Frustum) IntersectsSphere(center mgl32.Vec3, radius float32) bool {
	for i := range f {
		if PlaneDistance(f[i], center) < -radius {
			return false
		}
	}
	return true
}

func (f *Frustum) IntersectsLight(l *Light) bool {
	if f.ContainsPoint(l.Position) {
		return true
	}
	return f.IntersectsSphere(l.Position, l.Radius)
}

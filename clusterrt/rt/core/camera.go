package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type CameraState struct {
	Position    mgl32.Vec3
	Yaw         float32
	Pitch       float32
	FovY        float32 // degrees
	Near        float32
	Far         float32 // projection far plane
	Speed       float32
	Sensitivity float32
}

func NewCameraState() *CameraState {
	return &CameraState{
		Position:    mgl32.Vec3{-10, 0, 8},
		Yaw:         float32(math.Pi / 2),
		Pitch:       -0.3,
		FovY:        75,
		Near:        0.1,
		Far:         1000,
		Speed:       10.0,
		Sensitivity: 0.003,
	}
}

func (c *CameraState) GetForward() mgl32.Vec3 {
	// Z-up: Forward in XY plane, Z for pitch
	return mgl32.Vec3{
		float32(math.Cos(float64(c.Pitch)) * math.Sin(float64(c.Yaw))),
		float32(-math.Cos(float64(c.Pitch)) * math.Cos(float64(c.Yaw))),
		float32(math.Sin(float64(c.Pitch))),
	}
}

func (c *CameraState) GetRight() mgl32.Vec3 {
	// Z-up: Right in XY plane, forward x up
	return mgl32.Vec3{
		float32(-math.Cos(float64(c.Yaw))),
		float32(-math.Sin(float64(c.Yaw))),
		0,
	}
}

func (c *CameraState) GetViewMatrix() mgl32.Mat4 {
	forward := c.GetForward()
	eye := c.Position
	target := eye.Add(forward)
	up := mgl32.Vec3{0, 0, 1} // Z-up
	return mgl32.LookAtV(eye, target, up)
}

func (c *CameraState) GetProjectionMatrix(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

// Params snapshots the camera for one frame of cluster assignment. clusterFar bounds
// the lit volume and is independent of the projection far plane.
func (c *CameraState) Params(aspect, clusterFar float32) CameraParams {
	right, up, forward := ExtractBasis(c.GetViewMatrix())
	return CameraParams{
		Position: c.Position,
		Right:    right,
		Up:       up,
		Forward:  forward,
		FovY:     mgl32.DegToRad(c.FovY),
		Aspect:   aspect,
		Near:     c.Near,
		Far:      clusterFar,
	}
}

// CameraParams is the per-frame camera input of the cluster builder and decoder.
// Forward is the viewing direction; Far is the clustering far distance.
type CameraParams struct {
	Position mgl32.Vec3
	Right    mgl32.Vec3
	Up       mgl32.Vec3
	Forward  mgl32.Vec3
	FovY     float32 // radians
	Aspect   float32
	Near     float32
	Far      float32
}

// ExtractBasis returns the world-space right, up and viewing direction encoded in
// the rotation rows of a right-handed view matrix. The camera looks down its -Z axis,
// so forward is the negated third row.
func ExtractBasis(view mgl32.Mat4) (right, up, forward mgl32.Vec3) {
	right = view.Row(0).Vec3()
	up = view.Row(1).Vec3()
	forward = view.Row(2).Vec3().Mul(-1)
	return right, up, forward
}

// ViewMatrix rebuilds the view transform from the snapshot basis.
func (p CameraParams) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(p.Position, p.Position.Add(p.Forward), p.Up)
}

// ClusterProjection is a perspective projection spanning only [Near, Far] of the
// clustered volume.
func (p CameraParams) ClusterProjection() mgl32.Mat4 {
	return mgl32.Perspective(p.FovY, p.Aspect, p.Near, p.Far)
}

// TanHalfFov is shared by the builder and the decoders so both scale cross-sections
// with the same value.
func (p CameraParams) TanHalfFov() float32 {
	return float32(math.Tan(float64(p.FovY) / 2.0))
}

// ViewSpace returns the offsets of pt from the camera along right, up and forward.
// The last component is the view depth.
func (p CameraParams) ViewSpace(pt mgl32.Vec3) mgl32.Vec3 {
	rel := pt.Sub(p.Position)
	return mgl32.Vec3{rel.Dot(p.Right), rel.Dot(p.Up), rel.Dot(p.Forward)}
}

// ExtractFrustum extracts the 6 planes of the frustum from the view-projection matrix.
// Returns planes in order: Left, Right, Bottom, Top, Near, Far.
// Plane is Ax + By + Cz + D = 0, normals pointing inward.
func ExtractFrustum(vp mgl32.Mat4) Frustum {
	var planes Frustum

	// Left plane: Row 3 + Row 0
	planes[0] = vp.Row(3).Add(vp.Row(0))
	// Right plane: Row 3 - Row 0
	planes[1] = vp.Row(3).Sub(vp.Row(0))
	// Bottom plane: Row 3 + Row 1
	planes[2] = vp.Row(3).Add(vp.Row(1))
	// Top plane: Row 3 - Row 1
	planes[3] = vp.Row(3).Sub(vp.Row(1))
	// Near plane: Row 3 + Row 2 (OpenGL-style -1..1)
	planes[4] = vp.Row(3).Add(vp.Row(2))
	// Far plane: Row 3 - Row 2
	planes[5] = vp.Row(3).Sub(vp.Row(2))

	for i := range planes {
		length := planes[i].Vec3().Len()
		if length > 0 {
			planes[i] = planes[i].Mul(1.0 / length)
		}
	}

	return planes
}

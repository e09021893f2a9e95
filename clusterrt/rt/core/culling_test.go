package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestFrustumCulling(t *testing.T) {
	// Setup a simple camera at origin looking down -Z
	// Perspective: 90 deg FOV, Aspect 1.0, Near 1, Far 100
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1.0, 1.0, 100.0)
	view := mgl32.LookAtV(
		mgl32.Vec3{0, 0, 0},  // Eye
		mgl32.Vec3{0, 0, -1}, // Center
		mgl32.Vec3{0, 1, 0},  // Up
	)
	planes := ExtractFrustum(proj.Mul4(view))

	tests := []struct {
		name     string
		center   mgl32.Vec3
		radius   float32
		expected bool
	}{
		{"Inside (center)", mgl32.Vec3{0, 0, -10}, 1, true},
		{"Outside (Left)", mgl32.Vec3{-20, 0, -8}, 2, false},
		{"Outside (Right)", mgl32.Vec3{20, 0, -8}, 2, false},
		{"Outside (Behind/Near)", mgl32.Vec3{0, 0, 5}, 2, false},
		{"Outside (Far)", mgl32.Vec3{0, 0, -150}, 10, false},
		// Left edge at depth 10 is x=-10; the sphere reaches in from outside.
		{"Intersecting (Left Plane)", mgl32.Vec3{-12, 0, -10}, 3, true},
		{"Encompassing (Huge sphere)", mgl32.Vec3{0, 0, 0}, 1000, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := Light{Position: tc.center, Radius: tc.radius}
			visible := planes.IntersectsLight(&l)
			if visible != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, visible)
				for i, p := range planes {
					t.Logf("  P%d: %v, Dist(Center)=%f", i, p, PlaneDistance(p, tc.center))
				}
			}
		})
	}
}

func TestFrustumOrtho(t *testing.T) {
	proj := mgl32.Ortho(-10, 10, -10, 10, 0, 20)
	// View at origin looking down -Z
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	planes := ExtractFrustum(proj.Mul4(view))

	assert.True(t, planes.ContainsPoint(mgl32.Vec3{0, 0, -5}), "point at -5 should be inside")
	// Near=0 => Z=0. Far=20 => Z=-20.
	assert.False(t, planes.ContainsPoint(mgl32.Vec3{0, 0, -25}), "point at -25 is beyond far")
	assert.True(t, planes.IntersectsSphere(mgl32.Vec3{0, 0, -25}, 6), "sphere reaches back over the far plane")
}

func TestPlaneFromCoplanarPoints(t *testing.T) {
	// (c-b) x (a-b) = +Y x -X = +Z
	p := PlaneFromCoplanarPoints(mgl32.Vec3{0, 0, 2}, mgl32.Vec3{1, 0, 2}, mgl32.Vec3{1, 1, 2})
	assert.InDelta(t, 1.0, p[2], 1e-6)
	assert.InDelta(t, -2.0, p[3], 1e-6)
	assert.InDelta(t, 0.0, PlaneDistance(p, mgl32.Vec3{5, -3, 2}), 1e-5)
	assert.InDelta(t, 1.0, PlaneDistance(p, mgl32.Vec3{0, 0, 3}), 1e-5)

	n := NegatePlane(p)
	assert.InDelta(t, -1.0, PlaneDistance(n, mgl32.Vec3{0, 0, 3}), 1e-5)
}

func TestSphereTangentToPlaneIntersects(t *testing.T) {
	// Unit cube as six inward planes.
	f := Frustum{
		{1, 0, 0, 0}, {-1, 0, 0, 1},
		{0, 1, 0, 0}, {0, -1, 0, 1},
		{0, 0, 1, 0}, {0, 0, -1, 1},
	}
	assert.True(t, f.IntersectsSphere(mgl32.Vec3{-2, 0.5, 0.5}, 2), "tangent sphere")
	assert.False(t, f.IntersectsSphere(mgl32.Vec3{-2.01, 0.5, 0.5}, 2))
	assert.True(t, f.ContainsPoint(mgl32.Vec3{0, 0, 0}), "corner point is on every boundary")
}

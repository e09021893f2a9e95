package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func assertVec3(t *testing.T, expected, actual mgl32.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, expected[i], actual[i], 1e-5, "component %d of %v", i, actual)
	}
}

func TestExtractBasisLookingDownPositiveZ(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0})
	right, up, forward := ExtractBasis(view)

	assertVec3(t, mgl32.Vec3{-1, 0, 0}, right)
	assertVec3(t, mgl32.Vec3{0, 1, 0}, up)
	assertVec3(t, mgl32.Vec3{0, 0, 1}, forward)
}

func TestCameraParamsMatchCameraState(t *testing.T) {
	cam := NewCameraState()
	p := cam.Params(16.0/9.0, 40)

	assertVec3(t, cam.GetForward().Normalize(), p.Forward)
	assertVec3(t, cam.GetRight(), p.Right)
	assert.InDelta(t, 0, p.Right.Dot(p.Up), 1e-5)
	assert.InDelta(t, 0, p.Up.Dot(p.Forward), 1e-5)
	assert.Equal(t, float32(40), p.Far)
	assert.Equal(t, cam.Near, p.Near)
	assert.InDelta(t, mgl32.DegToRad(75), p.FovY, 1e-6)

	// A point straight ahead lands on the view axis.
	v := p.ViewSpace(cam.Position.Add(p.Forward.Mul(7)))
	assertVec3(t, mgl32.Vec3{0, 0, 7}, v)
}

func TestViewMatrixRoundTrip(t *testing.T) {
	cam := NewCameraState()
	p := cam.Params(1, 40)
	right, up, forward := ExtractBasis(p.ViewMatrix())
	assertVec3(t, p.Right, right)
	assertVec3(t, p.Up, up)
	assertVec3(t, p.Forward, forward)
}

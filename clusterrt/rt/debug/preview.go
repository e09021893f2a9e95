package debug

import (
	"image"
	"image/color"
	"math"

	"github.com/gekko3d/forwardplus/clusterrt/rt/core"
	"github.com/gekko3d/forwardplus/clusterrt/rt/shading"

	"github.com/go-gl/mathgl/mgl32"
)

var sky = color.NRGBA{5, 5, 8, 255}

// GroundAlbedo is the checkerboard the demo floor is painted with.
func GroundAlbedo(p mgl32.Vec3) mgl32.Vec3 {
	if (int(math.Floor(float64(p.X())))+int(math.Floor(float64(p.Y()))))&1 == 1 {
		return mgl32.Vec3{0.55, 0.55, 0.55}
	}
	return mgl32.Vec3{0.8, 0.8, 0.8}
}

// Preview shades the z = 0 ground plane as seen by cam on the CPU. Pixels whose
// ray misses the plane get the sky colour.
func Preview(eval shading.Evaluator, cam core.CameraParams, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	tanHalf := cam.TanHalfFov()
	n := mgl32.Vec3{0, 0, 1}

	for py := 0; py < height; py++ {
		ny := 1 - (float32(py)+0.5)/float32(height)*2
		for px := 0; px < width; px++ {
			nx := (float32(px)+0.5)/float32(width)*2 - 1
			dir := cam.Forward.
				Add(cam.Right.Mul(nx * tanHalf * cam.Aspect)).
				Add(cam.Up.Mul(ny * tanHalf)).
				Normalize()

			if dir.Z() >= 0 || cam.Position.Z() <= 0 {
				img.SetNRGBA(px, py, sky)
				continue
			}
			p := cam.Position.Add(dir.Mul(-cam.Position.Z() / dir.Z()))
			c := eval.Shade(p, n, GroundAlbedo(p))
			img.SetNRGBA(px, py, color.NRGBA{toByte(c[0]), toByte(c[1]), toByte(c[2]), 255})
		}
	}
	return img
}

func toByte(v float32) uint8 {
	return uint8(mgl32.Clamp(v, 0, 1)*255 + 0.5)
}

package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gekko3d/forwardplus/clusterrt/rt/core"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f32At(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestMarshalFrameUniformsLayout(t *testing.T) {
	cam := core.NewCameraState().Params(2, 40)
	f := &FrameUniforms{
		InvViewProj: mgl32.Ident4(),
		Camera:      cam,
		Width:       1280,
		Height:      640,
		LightCount:  77,
	}
	buf := MarshalFrameUniforms(f)
	require.Len(t, buf, FrameUniformSize)

	assert.Equal(t, float32(1), f32At(buf, 0))
	assert.Equal(t, float32(0), f32At(buf, 4))
	assert.Equal(t, cam.Position.X(), f32At(buf, 64))
	assert.Equal(t, cam.Position.Z(), f32At(buf, 72))
	assert.Equal(t, float32(0), f32At(buf, 76))
	assert.Equal(t, cam.Forward.Y(), f32At(buf, 116))
	assert.Equal(t, float32(1280), f32At(buf, 128))
	assert.Equal(t, float32(640), f32At(buf, 132))
	assert.InDelta(t, cam.TanHalfFov(), f32At(buf, 136), 1e-7)
	assert.Equal(t, float32(2), f32At(buf, 140))
	assert.Equal(t, uint32(77), binary.LittleEndian.Uint32(buf[144:]))
}

func TestMarshalLights(t *testing.T) {
	lights := []core.Light{
		{Position: mgl32.Vec3{1, 2, 3}, Radius: 5, Color: mgl32.Vec3{0.1, 0.2, 0.3}},
		{Position: mgl32.Vec3{-4, 0, 9}, Radius: 2.5, Color: mgl32.Vec3{1, 1, 1}},
	}
	buf := MarshalLights(lights)
	require.Len(t, buf, 2*LightStride)

	assert.Equal(t, float32(3), f32At(buf, 8))
	assert.Equal(t, float32(5), f32At(buf, 12))
	assert.Equal(t, float32(0.3), f32At(buf, 24))
	assert.Equal(t, float32(-4), f32At(buf, LightStride))
	assert.Equal(t, float32(2.5), f32At(buf, LightStride+12))

	assert.Len(t, MarshalLights(nil), LightStride)
}

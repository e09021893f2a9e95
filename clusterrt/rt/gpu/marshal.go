package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gekko3d/forwardplus/clusterrt/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// FrameUniformSize matches FrameUniforms in forwardplus.wgsl.
	FrameUniformSize = 160
	// LightStride is the size of one Light in the lights storage buffer.
	LightStride = 32
)

// FrameUniforms is the per-frame camera block read by the shading pass.
type FrameUniforms struct {
	InvViewProj mgl32.Mat4
	Camera      core.CameraParams
	Width       uint32
	Height      uint32
	LightCount  uint32
}

// MarshalFrameUniforms packs f in the std140-compatible layout:
//
//	inv_view_proj mat4   0
//	cam_pos       vec4  64
//	cam_right     vec4  80
//	cam_up        vec4  96
//	cam_forward   vec4 112
//	resolution    vec2 128
//	tan_half_fov  f32  136
//	aspect        f32  140
//	light_count   u32  144
func MarshalFrameUniforms(f *FrameUniforms) []byte {
	buf := make([]byte, FrameUniformSize)
	copy(buf[0:], mat4ToBytes(f.InvViewProj))
	copy(buf[64:], vec3ToBytesPadded(f.Camera.Position))
	copy(buf[80:], vec3ToBytesPadded(f.Camera.Right))
	copy(buf[96:], vec3ToBytesPadded(f.Camera.Up))
	copy(buf[112:], vec3ToBytesPadded(f.Camera.Forward))
	binary.LittleEndian.PutUint32(buf[128:], math.Float32bits(float32(f.Width)))
	binary.LittleEndian.PutUint32(buf[132:], math.Float32bits(float32(f.Height)))
	binary.LittleEndian.PutUint32(buf[136:], math.Float32bits(f.Camera.TanHalfFov()))
	binary.LittleEndian.PutUint32(buf[140:], math.Float32bits(f.Camera.Aspect))
	binary.LittleEndian.PutUint32(buf[144:], f.LightCount)
	return buf
}

// MarshalLights packs lights as {position, radius, color, pad}. An empty list
// yields one zeroed record so the storage binding is never zero-sized.
func MarshalLights(lights []core.Light) []byte {
	if len(lights) == 0 {
		return make([]byte, LightStride)
	}
	buf := make([]byte, len(lights)*LightStride)
	for i := range lights {
		l := &lights[i]
		off := i * LightStride
		copy(buf[off:], vec3ToBytesPadded(l.Position))
		binary.LittleEndian.PutUint32(buf[off+12:], math.Float32bits(l.Radius))
		copy(buf[off+16:], vec3ToBytesPadded(l.Color))
	}
	return buf
}

func mat4ToBytes(m mgl32.Mat4) []byte {
	buf := make([]byte, 64)
	for i, v := range m {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func vec3ToBytesPadded(v mgl32.Vec3) []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v[2]))
	return buf
}

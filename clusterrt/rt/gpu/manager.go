package gpu

import (
	"fmt"

	"github.com/gekko3d/forwardplus/clusterrt/rt/cluster"
	"github.com/gekko3d/forwardplus/clusterrt/rt/core"

	"github.com/cogentcore/webgpu/wgpu"
)

const (
	HeadroomLights = 64 * LightStride
)

// GpuBufferManager owns the buffers bound at group 0 of the shading pipeline:
// frame uniforms, the light list and the published cluster buffer.
type GpuBufferManager struct {
	Device *wgpu.Device

	FrameBuf   *wgpu.Buffer
	LightsBuf  *wgpu.Buffer
	ClusterBuf *wgpu.Buffer

	BindGroup0 *wgpu.BindGroup

	// ClusterLookup binds ClusterBuf at binding 2. Pipelines rendered without
	// cluster lookup do not declare it.
	ClusterLookup bool

	// Set when a buffer was recreated and BindGroup0 points at a released one.
	bindGroupStale bool
	clusterVersion uint64
}

func NewGpuBufferManager(device *wgpu.Device, clusterLookup bool) *GpuBufferManager {
	return &GpuBufferManager{
		Device:         device,
		ClusterLookup:  clusterLookup,
		bindGroupStale: true,
	}
}

func (m *GpuBufferManager) ensureBuffer(name string, buf **wgpu.Buffer, data []byte, usage wgpu.BufferUsage, headroom int) (bool, error) {
	neededSize := uint64(len(data) + headroom)
	if neededSize%4 != 0 {
		neededSize += 4 - (neededSize % 4)
	}

	current := *buf
	if current != nil && current.GetSize() >= neededSize {
		if len(data) > 0 {
			m.Device.GetQueue().WriteBuffer(current, 0, data)
		}
		return false, nil
	}

	if current != nil {
		current.Release()
	}
	newBuf, err := m.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            name,
		Size:             neededSize,
		Usage:            usage | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		*buf = nil
		return false, fmt.Errorf("create %s: %w", name, err)
	}
	*buf = newBuf
	m.bindGroupStale = true

	if len(data) > 0 {
		m.Device.GetQueue().WriteBuffer(newBuf, 0, data)
	}
	return true, nil
}

func (m *GpuBufferManager) UpdateFrame(f *FrameUniforms) error {
	_, err := m.ensureBuffer("FrameUB", &m.FrameBuf, MarshalFrameUniforms(f), wgpu.BufferUsageUniform, 0)
	return err
}

func (m *GpuBufferManager) UpdateLights(lights []core.Light) error {
	_, err := m.ensureBuffer("LightsBuf", &m.LightsBuf, MarshalLights(lights), wgpu.BufferUsageStorage, HeadroomLights)
	return err
}

// UpdateClusters uploads buf if it was published since the last upload.
func (m *GpuBufferManager) UpdateClusters(buf *cluster.Buffer) (bool, error) {
	if m.ClusterBuf != nil && buf.Version() == m.clusterVersion {
		return false, nil
	}
	if _, err := m.ensureBuffer("ClusterBuf", &m.ClusterBuf, buf.Bytes(), wgpu.BufferUsageStorage, 0); err != nil {
		return false, err
	}
	m.clusterVersion = buf.Version()
	return true, nil
}

// BindGroupStale reports whether CreateBindGroups must run before the next draw.
func (m *GpuBufferManager) BindGroupStale() bool {
	return m.bindGroupStale || m.BindGroup0 == nil
}

func (m *GpuBufferManager) CreateBindGroups(pipeline *wgpu.RenderPipeline) error {
	if m.FrameBuf == nil || m.LightsBuf == nil || (m.ClusterLookup && m.ClusterBuf == nil) {
		return fmt.Errorf("bind group 0: buffers not uploaded")
	}
	if m.BindGroup0 != nil {
		m.BindGroup0.Release()
	}

	entries0 := []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: m.FrameBuf, Size: wgpu.WholeSize},
		{Binding: 1, Buffer: m.LightsBuf, Size: wgpu.WholeSize},
	}
	if m.ClusterLookup {
		entries0 = append(entries0, wgpu.BindGroupEntry{Binding: 2, Buffer: m.ClusterBuf, Size: wgpu.WholeSize})
	}
	var err error
	m.BindGroup0, err = m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "ShadingBG0",
		Layout:  pipeline.GetBindGroupLayout(0),
		Entries: entries0,
	})
	if err != nil {
		return fmt.Errorf("bind group 0: %w", err)
	}
	m.bindGroupStale = false
	return nil
}

func (m *GpuBufferManager) Release() {
	if m.BindGroup0 != nil {
		m.BindGroup0.Release()
		m.BindGroup0 = nil
	}
	for _, b := range []**wgpu.Buffer{&m.FrameBuf, &m.LightsBuf, &m.ClusterBuf} {
		if *b != nil {
			(*b).Release()
			*b = nil
		}
	}
}

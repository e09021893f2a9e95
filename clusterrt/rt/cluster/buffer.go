package cluster

import (
	"encoding/binary"
)

// Buffer is the packed cluster table uploaded to the shading stage. Each row holds
// the light count in slot 0 followed by up to MaxLights light indices. Slots past
// the count are left over from earlier frames and must not be read.
type Buffer struct {
	rows      int
	stride    int
	data      []uint32
	version   uint64
	published bool
}

func NewBuffer(rows, maxLights int) *Buffer {
	stride := maxLights + 1
	return &Buffer{
		rows:   rows,
		stride: stride,
		data:   make([]uint32, rows*stride),
	}
}

func (b *Buffer) Rows() int      { return b.rows }
func (b *Buffer) Stride() int    { return b.stride }
func (b *Buffer) MaxLights() int { return b.stride - 1 }

// Index maps (element, component) to a position in Data.
func (b *Buffer) Index(element, component int) int {
	return element*b.stride + component
}

func (b *Buffer) Get(element, component int) uint32 {
	return b.data[b.Index(element, component)]
}

func (b *Buffer) Set(element, component int, v uint32) {
	b.data[b.Index(element, component)] = v
}

// Row is a view into the storage of one cluster.
func (b *Buffer) Row(element int) []uint32 {
	start := element * b.stride
	return b.data[start : start+b.stride]
}

func (b *Buffer) Count(element int) int {
	return int(b.data[element*b.stride])
}

// Lights returns the light indices currently assigned to element.
func (b *Buffer) Lights(element int) []uint32 {
	start := element * b.stride
	return b.data[start+1 : start+1+b.Count(element)]
}

func (b *Buffer) Data() []uint32 {
	return b.data
}

// Publish marks the current contents as a complete frame.
func (b *Buffer) Publish() {
	b.version++
	b.published = true
}

// Version counts published frames. Consumers compare it to skip re-uploads.
func (b *Buffer) Version() uint64 {
	return b.version
}

func (b *Buffer) Published() bool {
	return b.published
}

// Bytes is the little-endian image of the table, laid out as array<u32> in WGSL.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, len(b.data)*4)
	for i, v := range b.data {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return out
}

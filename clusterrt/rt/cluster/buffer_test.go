package cluster

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferLayout(t *testing.T) {
	buf := NewBuffer(6, 4)
	assert.Equal(t, 6, buf.Rows())
	assert.Equal(t, 5, buf.Stride())
	assert.Equal(t, 4, buf.MaxLights())
	assert.Len(t, buf.Data(), 30)
	assert.Equal(t, 2*5+3, buf.Index(2, 3))

	buf.Set(2, 0, 2)
	buf.Set(2, 1, 9)
	buf.Set(2, 2, 11)
	assert.Equal(t, 2, buf.Count(2))
	assert.Equal(t, []uint32{9, 11}, buf.Lights(2))
	assert.Equal(t, []uint32{2, 9, 11, 0, 0}, buf.Row(2))
	assert.Empty(t, buf.Lights(3))

	raw := buf.Bytes()
	assert.Len(t, raw, 120)
	assert.Equal(t, uint32(11), binary.LittleEndian.Uint32(raw[buf.Index(2, 2)*4:]))
}

func TestBufferPublish(t *testing.T) {
	buf := NewBuffer(1, 1)
	assert.False(t, buf.Published())
	buf.Publish()
	buf.Publish()
	assert.True(t, buf.Published())
	assert.Equal(t, uint64(2), buf.Version())
}

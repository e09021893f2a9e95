package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomSceneStaysInSpawnBox(t *testing.T) {
	spawn := DefaultLightSpawn()
	scene, err := NewRandomScene(spawn)
	require.NoError(t, err)
	require.Len(t, scene.Lights, spawn.Count)
	require.Len(t, scene.IDs, spawn.Count)

	for i := 0; i < 1000; i++ {
		scene.Update()
	}
	for i, l := range scene.Lights {
		for axis := 0; axis < 3; axis++ {
			if l.Position[axis] < spawn.Min[axis] || l.Position[axis] > spawn.Max[axis] {
				t.Fatalf("light %d left the spawn box on axis %d: %v", i, axis, l.Position)
			}
		}
		assert.Equal(t, spawn.Radius, l.Radius)
	}
}

func TestRandomSceneIsSeeded(t *testing.T) {
	a, err := NewRandomScene(DefaultLightSpawn())
	require.NoError(t, err)
	b, err := NewRandomScene(DefaultLightSpawn())
	require.NoError(t, err)
	assert.Equal(t, a.Lights, b.Lights)
	assert.NotEqual(t, a.IDs, b.IDs)
}

func TestSceneAddRemoveLight(t *testing.T) {
	scene := NewScene()
	id1, err := scene.AddLight(Light{Position: mgl32.Vec3{1, 2, 3}, Radius: 2})
	require.NoError(t, err)
	id2, err := scene.AddLight(Light{Position: mgl32.Vec3{4, 5, 6}, Radius: 3})
	require.NoError(t, err)

	assert.Equal(t, 1, scene.Index(id2))
	assert.True(t, scene.RemoveLight(id1))
	assert.False(t, scene.RemoveLight(id1))
	assert.Equal(t, 0, scene.Index(id2))
	assert.Equal(t, float32(3), scene.Lights[0].Radius)
}

func TestSceneRespawnReplacesOldest(t *testing.T) {
	spawn := DefaultLightSpawn()
	spawn.Count = 4
	scene, err := NewRandomScene(spawn)
	require.NoError(t, err)
	oldest, second := scene.IDs[0], scene.IDs[1]
	secondLight := scene.Lights[1]

	removed, added, err := scene.Respawn()
	require.NoError(t, err)
	assert.Equal(t, oldest, removed)
	assert.Equal(t, -1, scene.Index(removed))
	assert.Equal(t, 3, scene.Index(added))
	assert.Equal(t, 0, scene.Index(second))
	assert.Equal(t, secondLight, scene.Lights[0])
	require.Len(t, scene.Lights, 4)
	require.Len(t, scene.IDs, 4)

	fresh := scene.Lights[3]
	assert.Equal(t, spawn.Radius, fresh.Radius)
	for axis := 0; axis < 3; axis++ {
		assert.GreaterOrEqual(t, fresh.Position[axis], spawn.Min[axis])
		assert.LessOrEqual(t, fresh.Position[axis], spawn.Max[axis])
	}

	_, _, err = NewScene().Respawn()
	assert.Error(t, err)
}

func TestSceneRejectsInvalidRadius(t *testing.T) {
	scene := NewScene()
	for _, r := range []float32{0, -1, float32(math.NaN()), float32(math.Inf(1))} {
		_, err := scene.AddLight(Light{Radius: r})
		assert.ErrorIs(t, err, ErrInvalidRadius, "radius %v", r)
	}
	assert.Empty(t, scene.Lights)

	err := ValidateLights([]Light{{Radius: 1}, {Radius: -2}})
	assert.ErrorIs(t, err, ErrInvalidRadius)
	assert.Contains(t, err.Error(), "light 1")
}

package core

import (
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type LightID string

// LightSpawn describes the box lights are scattered in and how they drift.
// Lights move along +Z (up) by DT each update and wrap back into the box.
type LightSpawn struct {
	Count  int
	Radius float32
	Min    mgl32.Vec3
	Max    mgl32.Vec3
	DT     float32
	Seed   int64
}

func DefaultLightSpawn() LightSpawn {
	return LightSpawn{
		Count:  100,
		Radius: 5.0,
		Min:    mgl32.Vec3{-14, -6, 0},
		Max:    mgl32.Vec3{14, 6, 20},
		DT:     -0.03,
		Seed:   1,
	}
}

// Scene owns the light list handed to the cluster encoder. The order of Lights is
// the index space stored in cluster rows, so it only changes through AddLight,
// RemoveLight and Respawn, between frames.
type Scene struct {
	Lights []Light
	IDs    []LightID
	Spawn  LightSpawn

	rng *rand.Rand
}

func NewScene() *Scene {
	return &Scene{
		Lights: []Light{},
		IDs:    []LightID{},
	}
}

// NewRandomScene scatters spawn.Count lights with random colours inside the spawn box.
func NewRandomScene(spawn LightSpawn) (*Scene, error) {
	s := NewScene()
	s.Spawn = spawn
	for i := 0; i < spawn.Count; i++ {
		if _, err := s.AddLight(s.randomLight()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scene) randomLight() Light {
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(s.Spawn.Seed))
	}
	var pos mgl32.Vec3
	for axis := 0; axis < 3; axis++ {
		pos[axis] = s.Spawn.Min[axis] + s.rng.Float32()*(s.Spawn.Max[axis]-s.Spawn.Min[axis])
	}
	return Light{
		Position: pos,
		Radius:   s.Spawn.Radius,
		Color:    mgl32.Vec3{s.rng.Float32(), s.rng.Float32(), s.rng.Float32()},
	}
}

// Respawn replaces the oldest light with a new random one at the end of the list.
func (s *Scene) Respawn() (removed, added LightID, err error) {
	if len(s.IDs) == 0 {
		return "", "", fmt.Errorf("respawn: scene has no lights")
	}
	removed = s.IDs[0]
	added, err = s.AddLight(s.randomLight())
	if err != nil {
		return "", "", fmt.Errorf("respawn: %w", err)
	}
	s.RemoveLight(removed)
	return removed, added, nil
}

func (s *Scene) AddLight(l Light) (LightID, error) {
	if err := l.Validate(); err != nil {
		return "", fmt.Errorf("add light: %w", err)
	}
	id := LightID(uuid.NewString())
	s.Lights = append(s.Lights, l)
	s.IDs = append(s.IDs, id)
	return id, nil
}

func (s *Scene) RemoveLight(id LightID) bool {
	for i, lid := range s.IDs {
		if lid == id {
			s.Lights = append(s.Lights[:i], s.Lights[i+1:]...)
			s.IDs = append(s.IDs[:i], s.IDs[i+1:]...)
			return true
		}
	}
	return false
}

// Index returns the position of id in the light list, or -1.
func (s *Scene) Index(id LightID) int {
	for i, lid := range s.IDs {
		if lid == id {
			return i
		}
	}
	return -1
}

// Update drifts every light along Z, wrapping at the spawn box bounds.
func (s *Scene) Update() {
	if s.Spawn.DT == 0 {
		return
	}
	lo, hi := s.Spawn.Min.Z(), s.Spawn.Max.Z()
	for i := range s.Lights {
		z := s.Lights[i].Position.Z() + s.Spawn.DT
		if z < lo {
			z = hi
		} else if z > hi {
			z = lo
		}
		s.Lights[i].Position[2] = z
	}
}

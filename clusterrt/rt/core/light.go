package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrInvalidRadius = errors.New("light radius must be positive and finite")

// Light is a point light. Radius is the distance at which its contribution reaches zero.
type Light struct {
	Position mgl32.Vec3
	Radius   float32
	Color    mgl32.Vec3
}

func (l Light) Validate() error {
	r := float64(l.Radius)
	if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidRadius, l.Radius)
	}
	return nil
}

func ValidateLights(lights []Light) error {
	for i := range lights {
		if err := lights[i].Validate(); err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
	}
	return nil
}

package cluster

import (
	"errors"
	"fmt"
)

var ErrInvalidGrid = errors.New("cluster grid resolution must be positive on every axis")

// Grid is the X*Y*Z subdivision of the clustered frustum.
type Grid struct {
	X, Y, Z int
}

func NewGrid(x, y, z int) (Grid, error) {
	g := Grid{X: x, Y: y, Z: z}
	if err := g.Validate(); err != nil {
		return Grid{}, err
	}
	return g, nil
}

func (g Grid) Validate() error {
	if g.X <= 0 || g.Y <= 0 || g.Z <= 0 {
		return fmt.Errorf("%w: got %dx%dx%d", ErrInvalidGrid, g.X, g.Y, g.Z)
	}
	return nil
}

func (g Grid) Count() int {
	return g.X * g.Y * g.Z
}

// ID is the linear cluster index. The WGSL decoder uses the same formula.
func (g Grid) ID(x, y, z int) int {
	return x + y*g.X + z*g.X*g.Y
}

// Cell inverts ID.
func (g Grid) Cell(id int) (x, y, z int) {
	slice := g.X * g.Y
	z = id / slice
	rem := id - z*slice
	y = rem / g.X
	x = rem - y*g.X
	return x, y, z
}

func (g Grid) Contains(x, y, z int) bool {
	return x >= 0 && x < g.X && y >= 0 && y < g.Y && z >= 0 && z < g.Z
}

func (g Grid) String() string {
	return fmt.Sprintf("%dx%dx%d", g.X, g.Y, g.Z)
}

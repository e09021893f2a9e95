// Package debug renders cluster occupancy for inspection outside the renderer.
package debug

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/gekko3d/forwardplus/clusterrt/rt/cluster"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var ErrUnknownFormat = errors.New("unknown image format")

const (
	labelHeight = 14
	tilePadding = 4
)

var background = color.NRGBA{24, 24, 24, 255}

type HeatmapOptions struct {
	// CellSize is the edge in pixels of one cluster.
	CellSize int
	// Labels draws "z=N" above each slice.
	Labels bool
}

func DefaultHeatmapOptions() HeatmapOptions {
	return HeatmapOptions{CellSize: 8, Labels: true}
}

// layout places the Z slices of grid on a near-square sheet of tiles.
type layout struct {
	grid  cluster.Grid
	cell  int
	cols  int
	rows  int
	tileW int
	tileH int
}

func newLayout(grid cluster.Grid, opts HeatmapOptions) layout {
	cell := opts.CellSize
	if cell < 1 {
		cell = 1
	}
	cols := int(math.Ceil(math.Sqrt(float64(grid.Z))))
	rows := (grid.Z + cols - 1) / cols
	return layout{
		grid:  grid,
		cell:  cell,
		cols:  cols,
		rows:  rows,
		tileW: grid.X * cell,
		tileH: grid.Y*cell + labelHeight,
	}
}

func (l layout) bounds() image.Rectangle {
	w := tilePadding + l.cols*(l.tileW+tilePadding)
	h := tilePadding + l.rows*(l.tileH+tilePadding)
	return image.Rect(0, 0, w, h)
}

// slice returns the pixel rectangle holding the cells of slice z.
func (l layout) slice(z int) image.Rectangle {
	col, row := z%l.cols, z/l.cols
	x0 := tilePadding + col*(l.tileW+tilePadding)
	y0 := tilePadding + row*(l.tileH+tilePadding) + labelHeight
	return image.Rect(x0, y0, x0+l.tileW, y0+l.grid.Y*l.cell)
}

// CellRect is the pixel rectangle of cluster (x, y, z) in a heatmap drawn with opts.
// Rows are flipped so y = 0 is at the bottom of its slice.
func CellRect(grid cluster.Grid, opts HeatmapOptions, x, y, z int) image.Rectangle {
	l := newLayout(grid, opts)
	s := l.slice(z)
	px := s.Min.X + x*l.cell
	py := s.Min.Y + (grid.Y-1-y)*l.cell
	return image.Rect(px, py, px+l.cell, py+l.cell)
}

// Heatmap draws the light count of every cluster in buf, one tile per Z slice.
// Counts are normalised by the buffer capacity.
func Heatmap(buf *cluster.Buffer, grid cluster.Grid, opts HeatmapOptions) *image.NRGBA {
	l := newLayout(grid, opts)
	dst := image.NewNRGBA(l.bounds())
	draw.Draw(dst, dst.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	capacity := float64(buf.MaxLights())
	slice := image.NewNRGBA(image.Rect(0, 0, grid.X, grid.Y))
	for z := 0; z < grid.Z; z++ {
		for y := 0; y < grid.Y; y++ {
			for x := 0; x < grid.X; x++ {
				count := buf.Count(grid.ID(x, y, z))
				slice.SetNRGBA(x, grid.Y-1-y, Ramp(float64(count)/capacity))
			}
		}
		draw.NearestNeighbor.Scale(dst, l.slice(z), slice, slice.Bounds(), draw.Src, nil)

		if opts.Labels {
			s := l.slice(z)
			d := &font.Drawer{
				Dst:  dst,
				Src:  image.White,
				Face: basicfont.Face7x13,
				Dot:  fixed.P(s.Min.X, s.Min.Y-3),
			}
			d.DrawString(fmt.Sprintf("z=%d", z))
		}
	}
	return dst
}

// Ramp maps t in [0, 1] to black, blue, red, yellow.
func Ramp(t float64) color.NRGBA {
	t = math.Max(0, math.Min(1, t))
	if t == 0 {
		return color.NRGBA{0, 0, 0, 255}
	}
	lerp := func(a, b uint8, f float64) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
	}
	switch {
	case t < 1.0/3:
		f := t * 3
		return color.NRGBA{0, 0, lerp(0, 255, f), 255}
	case t < 2.0/3:
		f := (t - 1.0/3) * 3
		return color.NRGBA{lerp(0, 255, f), 0, lerp(255, 0, f), 255}
	default:
		f := (t - 2.0/3) * 3
		return color.NRGBA{255, lerp(0, 255, f), 0, 255}
	}
}

// Encode writes img as "png" or "webp".
func Encode(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "png":
		return png.Encode(w, img)
	case "webp":
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("webp encode: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Save encodes img to path, choosing the format from the file extension.
func Save(path string, img image.Image) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		return fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

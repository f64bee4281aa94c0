// Package dotmatrix turns raster images into halftone dot fields: a regular
// grid of circular dots whose radii follow local image brightness. A single
// pass samples the image once and feeds the same dots to a raster renderer
// and an SVG encoder, so both outputs always agree.
package dotmatrix

import (
	"context"
	"math"

	"github.com/wbrown/dotmatrix/imageutil"
)

// VisibilityThreshold is the radius at or below which a dot is dropped from
// every output.
const VisibilityThreshold = 0.1

// Dot is one emitted halftone dot: the sample point of its grid cell and
// the radius derived from the brightness found there.
type Dot struct {
	X, Y   float64
	Radius float64
}

// Cell describes one grid cell visited by WalkGrid.
type Cell struct {
	// Column and Row index the cell in row-major order.
	Column, Row int
	// X and Y are the cell origin.
	X, Y float64
	// CenterX and CenterY are the sample point, offset by half a cell and
	// clamped to the last pixel so trailing partial cells stay in bounds.
	CenterX, CenterY float64
}

// GridDimensions returns the number of grid columns and rows covering a
// width x height image, i.e. ceil(width/gridSize) by ceil(height/gridSize).
func GridDimensions(width, height int, gridSize float64) (cols, rows int) {
	if !validGrid(gridSize) || width <= 0 || height <= 0 {
		return 0, 0
	}
	cols = int(math.Ceil(float64(width) / gridSize))
	rows = int(math.Ceil(float64(height) / gridSize))
	return cols, rows
}

// WalkGrid visits every cell of the grid in row-major order (rows outer,
// columns inner). It stops early and returns false if fn returns false.
func WalkGrid(width, height int, gridSize float64, fn func(Cell) bool) bool {
	cols, rows := GridDimensions(width, height, gridSize)
	half := math.Floor(gridSize / 2)
	lastX, lastY := float64(width-1), float64(height-1)

	for row := 0; row < rows; row++ {
		y := float64(row) * gridSize
		cy := math.Min(y+half, lastY)
		for col := 0; col < cols; col++ {
			x := float64(col) * gridSize
			cell := Cell{
				Column:  col,
				Row:     row,
				X:       x,
				Y:       y,
				CenterX: math.Min(x+half, lastX),
				CenterY: cy,
			}
			if !fn(cell) {
				return false
			}
		}
	}
	return true
}

// AdjustContrast scales brightness b around mid grey by contrast and clamps
// the result to [0, 1].
func AdjustContrast(b, contrast float64) float64 {
	return clamp((b-0.5)*contrast+0.5, 0, 1)
}

// radiusMapper holds the per-pass constants of the brightness to radius
// mapping.
type radiusMapper struct {
	minR, maxR float64
	contrast   float64
	invert     bool
}

func newRadiusMapper(s Settings) radiusMapper {
	cellRadius := s.GridSize / 2
	return radiusMapper{
		minR:     cellRadius * s.EffectiveMinScale(),
		maxR:     cellRadius * s.MaxRadiusScale,
		contrast: s.Contrast,
		invert:   s.Invert,
	}
}

func (m radiusMapper) radius(brightness float64) float64 {
	b := AdjustContrast(brightness, m.contrast)
	sizeFactor := 1 - b
	if m.invert {
		sizeFactor = b
	}
	return m.minR + (m.maxR-m.minR)*sizeFactor
}

// Radius maps a raw brightness in [0, 1] to a dot radius under s. By
// default darker input gives larger dots; Invert reverses that.
func Radius(brightness float64, s Settings) float64 {
	return newRadiusMapper(s).radius(brightness)
}

// Visible reports whether a dot of the given radius is emitted.
func Visible(radius float64) bool {
	return radius > VisibilityThreshold
}

// Sample walks the grid over img and returns every visible dot in walk
// order. This is the single source of truth for both output encoders.
// The context is checked once per grid row.
func Sample(ctx context.Context, img *imageutil.NRGBAImage, s Settings) ([]Dot, error) {
	if !validGrid(s.GridSize) {
		return nil, ErrInvalidGrid
	}

	width, height := img.Width(), img.Height()
	cols, rows := GridDimensions(width, height, s.GridSize)
	mapper := newRadiusMapper(s)
	dots := make([]Dot, 0, cols*rows)

	var err error
	WalkGrid(width, height, s.GridSize, func(c Cell) bool {
		if c.Column == 0 {
			if err = ctx.Err(); err != nil {
				return false
			}
		}
		b := imageutil.LuminanceAt(img, int(c.CenterX), int(c.CenterY))
		if r := mapper.radius(b); Visible(r) {
			dots = append(dots, Dot{X: c.CenterX, Y: c.CenterY, Radius: r})
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return dots, nil
}

func validGrid(gridSize float64) bool {
	return gridSize > 0 && !math.IsInf(gridSize, 1)
}

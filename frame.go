package dotmatrix

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"time"
)

// Frame is the result of one render pass: the dot field sampled from a
// source under fixed settings, and the raster surface painted from it.
// A Frame is immutable once Render returns and safe to share.
type Frame struct {
	// Width and Height are the working dimensions of the source.
	Width, Height int
	// Settings are the settings the pass ran with.
	Settings Settings
	// Dots holds every visible dot in grid-walk order.
	Dots []Dot

	dotColor   string
	background string
	surface    *image.RGBA
}

// Render runs a full halftone pass over src: it samples the dot field once
// and paints the raster surface from it. Nothing is cached between passes.
func Render(ctx context.Context, src *Source, s Settings) (*Frame, error) {
	start := time.Now()

	dot, background, err := s.palette()
	if err != nil {
		return nil, err
	}
	dots, err := Sample(ctx, src.Pixels, s)
	if err != nil {
		return nil, err
	}
	surface, err := Rasterize(dots, src.Width(), src.Height(), dot, background)
	if err != nil {
		return nil, err
	}

	Logger().Debug("render pass complete",
		"width", src.Width(), "height", src.Height(),
		"grid_size", s.GridSize, "dots", len(dots),
		"elapsed", time.Since(start))

	return &Frame{
		Width:      src.Width(),
		Height:     src.Height(),
		Settings:   s,
		Dots:       dots,
		dotColor:   dot.Hex(),
		background: background.Hex(),
		surface:    surface,
	}, nil
}

// Surface returns the finished raster. Callers must not modify it.
func (f *Frame) Surface() *image.RGBA {
	return f.surface
}

// WritePNG encodes the raster surface as PNG.
func (f *Frame) WritePNG(w io.Writer) error {
	if err := png.Encode(w, f.surface); err != nil {
		return &EncodingError{Format: "png", Err: err}
	}
	return nil
}

// WriteSVG encodes the dot field as an SVG document.
func (f *Frame) WriteSVG(w io.Writer) error {
	if err := EncodeSVG(w, f.Dots, f.Width, f.Height, f.dotColor, f.background); err != nil {
		return &EncodingError{Format: "svg", Err: err}
	}
	return nil
}

// SVG returns the SVG document as bytes.
func (f *Frame) SVG() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.WriteSVG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

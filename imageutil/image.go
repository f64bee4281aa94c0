// Package imageutil provides the pixel-buffer plumbing used by the halftone
// renderer: decoding, aspect-preserving downscale, colour parsing and
// luminance sampling.
package imageutil

import (
	"image"
	"image/color"
	"image/draw"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// ToColor converts RGB to an opaque color.NRGBA.
func (rgb RGB) ToColor() color.NRGBA {
	return color.NRGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// RGBFromColor converts a color.Color to straight RGB, dropping alpha.
func RGBFromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// NRGBAImage wraps image.NRGBA with convenience methods for pixel access.
//
// Channels are stored non-premultiplied, the same layout a canvas returns
// from getImageData, so the colour of a translucent pixel survives intact.
type NRGBAImage struct {
	*image.NRGBA
}

// NewNRGBAImage creates a new NRGBAImage with the specified dimensions.
func NewNRGBAImage(width, height int) *NRGBAImage {
	return &NRGBAImage{
		NRGBA: image.NewNRGBA(image.Rect(0, 0, width, height)),
	}
}

// NRGBAImageFromImage converts any image.Image to an NRGBAImage whose
// bounds start at the origin.
func NRGBAImageFromImage(img image.Image) *NRGBAImage {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return &NRGBAImage{NRGBA: n}
	}
	bounds := img.Bounds()
	dst := NewNRGBAImage(bounds.Dx(), bounds.Dy())
	draw.Draw(dst.NRGBA, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}

// Width returns the image width.
func (img *NRGBAImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *NRGBAImage) Height() int {
	return img.Bounds().Dy()
}

// GetRGB returns the RGB value at (x, y), ignoring alpha.
func (img *NRGBAImage) GetRGB(x, y int) RGB {
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+3 : i+3]
	return RGB{R: p[0], G: p[1], B: p[2]}
}

// SetRGB sets the RGB value at (x, y) as an opaque pixel.
func (img *NRGBAImage) SetRGB(x, y int, c RGB) {
	img.SetNRGBA(x, y, c.ToColor())
}

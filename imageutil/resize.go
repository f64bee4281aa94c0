package imageutil

import (
	"image"

	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationArea uses Catmull-Rom for high-quality downscaling.
	InterpolationArea Interpolation = iota

	// InterpolationLinear uses bilinear interpolation.
	InterpolationLinear

	// InterpolationNearest uses nearest-neighbor interpolation.
	// Fastest but lowest quality.
	InterpolationNearest
)

func (interp Interpolation) scaler() draw.Scaler {
	switch interp {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationNearest:
		return draw.NearestNeighbor
	default:
		return draw.CatmullRom
	}
}

// Resize resizes an image to the specified dimensions using the given
// interpolation method.
func Resize(img *NRGBAImage, width, height int, interp Interpolation) *NRGBAImage {
	dst := NewNRGBAImage(width, height)
	dstRect := image.Rect(0, 0, width, height)
	interp.scaler().Scale(dst.NRGBA, dstRect, img.NRGBA, img.Bounds(), draw.Src, nil)
	return dst
}

// FitDimensions returns the working size for a width x height image whose
// longer side must not exceed maxDim. Oversized images keep their aspect
// ratio with the longer side set to exactly maxDim; the shorter side is
// truncated to whole pixels. Images that already fit are returned unchanged.
func FitDimensions(width, height, maxDim int) (int, int) {
	if width <= maxDim && height <= maxDim {
		return width, height
	}
	ratio := float64(width) / float64(height)
	w, h := float64(width), float64(height)
	if width > height {
		w = float64(maxDim)
		h = float64(maxDim) / ratio
	} else {
		h = float64(maxDim)
		w = float64(maxDim) * ratio
	}
	return max(int(w), 1), max(int(h), 1)
}

// FitWithin downscales img so neither side exceeds maxDim, see FitDimensions.
// The second result reports whether a resize happened; when it is false the
// input image is returned as is.
func FitWithin(img *NRGBAImage, maxDim int, interp Interpolation) (*NRGBAImage, bool) {
	w, h := FitDimensions(img.Width(), img.Height(), maxDim)
	if w == img.Width() && h == img.Height() {
		return img, false
	}
	return Resize(img, w, h, interp), true
}

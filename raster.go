package dotmatrix

import (
	"image"
	"image/draw"

	"github.com/gogpu/gg"

	"github.com/wbrown/dotmatrix/imageutil"
)

// Rasterize paints dots onto a fresh width x height surface: the whole
// surface is first filled with background, then every dot is drawn as an
// anti-aliased filled circle in the dot colour, in slice order. Overlapping
// dots simply merge.
func Rasterize(dots []Dot, width, height int, dot, background imageutil.RGB) (*image.RGBA, error) {
	dc := gg.NewContext(width, height)
	defer dc.Close()

	dc.ClearWithColor(gg.Hex(background.Hex()))
	if len(dots) > 0 {
		dc.SetHexColor(dot.Hex())
		dc.SetFillRule(gg.FillRuleNonZero)
		for _, d := range dots {
			dc.DrawCircle(d.X, d.Y, d.Radius)
		}
		// Every circle winds the same way, so one non-zero fill paints
		// their union.
		if err := dc.Fill(); err != nil {
			return nil, err
		}
	}

	if err := dc.FlushGPU(); err != nil {
		return nil, err
	}
	img := dc.Image()
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}

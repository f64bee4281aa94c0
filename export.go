package dotmatrix

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/wbrown/dotmatrix/imageutil"
)

// ExportName returns the download name for an export made at t, e.g.
// "dotmatrix-1700000000000.png". The timestamp is in Unix milliseconds.
func ExportName(ext string, t time.Time) string {
	return fmt.Sprintf("dotmatrix-%d.%s", t.UnixMilli(), ext)
}

// SavePNG writes the raster surface to path.
func (f *Frame) SavePNG(path string) error {
	return imageutil.WriteFile(path, f.WritePNG)
}

// SaveSVG writes the SVG document to path.
func (f *Frame) SaveSVG(path string) error {
	return imageutil.WriteFile(path, f.WriteSVG)
}

// Export writes both the PNG and the SVG into dir using ExportName with
// now as the timestamp, and returns the paths written.
func (f *Frame) Export(dir string, now time.Time) (pngPath, svgPath string, err error) {
	pngPath = filepath.Join(dir, ExportName("png", now))
	if err := f.SavePNG(pngPath); err != nil {
		return "", "", err
	}
	svgPath = filepath.Join(dir, ExportName("svg", now))
	if err := f.SaveSVG(svgPath); err != nil {
		return pngPath, "", err
	}
	Logger().Info("exported frame", "png", pngPath, "svg", svgPath, "dots", len(f.Dots))
	return pngPath, svgPath, nil
}

package imageutil

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestNewNRGBAImage(t *testing.T) {
	img := NewNRGBAImage(100, 50)
	if img.Width() != 100 {
		t.Errorf("Expected width 100, got %d", img.Width())
	}
	if img.Height() != 50 {
		t.Errorf("Expected height 50, got %d", img.Height())
	}
}

func TestNRGBAImageGetSetRGB(t *testing.T) {
	img := NewNRGBAImage(10, 10)
	c := RGB{R: 100, G: 150, B: 200}
	img.SetRGB(5, 5, c)

	got := img.GetRGB(5, 5)
	if got != c {
		t.Errorf("Expected %v, got %v", c, got)
	}
}

func TestNRGBAImageFromImageOffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 20, 14, 23))
	src.SetRGBA(10, 20, color.RGBA{R: 9, G: 8, B: 7, A: 255})

	img := NRGBAImageFromImage(src)
	if img.Bounds().Min != (image.Point{}) {
		t.Fatalf("Expected origin-based bounds, got %v", img.Bounds())
	}
	if img.Width() != 4 || img.Height() != 3 {
		t.Errorf("Expected 4x3, got %dx%d", img.Width(), img.Height())
	}
	if got := img.GetRGB(0, 0); got != (RGB{R: 9, G: 8, B: 7}) {
		t.Errorf("Expected top-left pixel {9 8 7}, got %v", got)
	}
}

func TestGetRGBIgnoresAlpha(t *testing.T) {
	img := NewNRGBAImage(1, 1)
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 0})

	if got := img.GetRGB(0, 0); got != (RGB{R: 200, G: 100, B: 50}) {
		t.Errorf("Transparent pixel should keep its colour, got %v", got)
	}
}

func TestLuminance(t *testing.T) {
	tests := []struct {
		name string
		c    RGB
		want float64
	}{
		{"black", RGB{0, 0, 0}, 0},
		{"white", RGB{255, 255, 255}, 1},
		{"red", RGB{255, 0, 0}, 0.299},
		{"green", RGB{0, 255, 0}, 0.587},
		{"blue", RGB{0, 0, 255}, 0.114},
		{"gray", RGB{128, 128, 128}, 128.0 / 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Luminance(tt.c)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    RGB
		wantErr bool
	}{
		{"#000000", RGB{0, 0, 0}, false},
		{"#ffffff", RGB{255, 255, 255}, false},
		{"#FF8000", RGB{255, 128, 0}, false},
		{"1a2b3c", RGB{0x1a, 0x2b, 0x3c}, false},
		{"#abc", RGB{0xaa, 0xbb, 0xcc}, false},
		{"", RGB{}, true},
		{"#12345", RGB{}, true},
		{"#gggggg", RGB{}, true},
		{"#ff00ff00", RGB{}, true},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHexColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRGBHex(t *testing.T) {
	if got := (RGB{R: 255, G: 0, B: 10}).Hex(); got != "#ff000a" {
		t.Errorf("Expected #ff000a, got %s", got)
	}
}

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{4800, 2400, 2400, 1200},
		{2400, 4800, 1200, 2400},
		{1000, 4000, 600, 2400},
		{3000, 3000, 2400, 2400},
		{2000, 1000, 2000, 1000},
		{2400, 2400, 2400, 2400},
		{3001, 7, 2400, 5},
		{10000, 1, 2400, 1},
	}
	for _, tt := range tests {
		gotW, gotH := FitDimensions(tt.w, tt.h, 2400)
		if gotW != tt.wantW || gotH != tt.wantH {
			t.Errorf("FitDimensions(%d, %d) = %dx%d, want %dx%d",
				tt.w, tt.h, gotW, gotH, tt.wantW, tt.wantH)
		}
	}
}

func TestFitWithin(t *testing.T) {
	img := CreateGradientImage(300, 150)

	same, resized := FitWithin(img, 300, InterpolationArea)
	if resized || same != img {
		t.Error("Image within bounds should pass through unchanged")
	}

	small, resized := FitWithin(img, 100, InterpolationArea)
	if !resized {
		t.Fatal("Oversized image should be resized")
	}
	if small.Width() != 100 || small.Height() != 50 {
		t.Errorf("Expected 100x50, got %dx%d", small.Width(), small.Height())
	}
}

func TestResize(t *testing.T) {
	img := CreateGradientImage(100, 100)

	// Downscale
	resized := Resize(img, 50, 50, InterpolationArea)
	if resized.Width() != 50 || resized.Height() != 50 {
		t.Errorf("Expected 50x50, got %dx%d", resized.Width(), resized.Height())
	}

	// Upscale
	resized = Resize(img, 200, 200, InterpolationLinear)
	if resized.Width() != 200 || resized.Height() != 200 {
		t.Errorf("Expected 200x200, got %dx%d", resized.Width(), resized.Height())
	}

	// Solid colours survive any scaler
	solid := CreateSolidImage(40, 40, RGB{R: 10, G: 20, B: 30})
	for _, interp := range []Interpolation{InterpolationArea, InterpolationLinear, InterpolationNearest} {
		out := Resize(solid, 17, 9, interp)
		got := out.GetRGB(8, 4)
		if absDiff(got.R, 10) > 1 || absDiff(got.G, 20) > 1 || absDiff(got.B, 30) > 1 {
			t.Errorf("Interpolation %d: expected ~{10 20 30}, got %v", interp, got)
		}
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func savePNG(img image.Image, path string) error {
	return WriteFile(path, func(w io.Writer) error {
		return png.Encode(w, img)
	})
}

// calculateMSE calculates the Mean Squared Error between the RGB channels
// of two images.
func calculateMSE(img1, img2 *NRGBAImage) float64 {
	if img1.Width() != img2.Width() || img1.Height() != img2.Height() {
		return math.MaxFloat64
	}

	width, height := img1.Width(), img1.Height()
	var sumSq float64
	count := float64(width * height * 3) // 3 channels

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c1 := img1.GetRGB(x, y)
			c2 := img2.GetRGB(x, y)
			dr := float64(c1.R) - float64(c2.R)
			dg := float64(c1.G) - float64(c2.G)
			db := float64(c1.B) - float64(c2.B)
			sumSq += dr*dr + dg*dg + db*db
		}
	}

	return sumSq / count
}

func TestLoadSaveImage(t *testing.T) {
	tmpDir := t.TempDir()

	img := CreateColorBarsImage(64, 64)

	pngPath := filepath.Join(tmpDir, "test.png")
	if err := savePNG(img, pngPath); err != nil {
		t.Fatalf("Failed to save PNG: %v", err)
	}

	loaded, err := LoadImage(pngPath)
	if err != nil {
		t.Fatalf("Failed to load PNG: %v", err)
	}

	// PNG should be lossless
	mse := calculateMSE(img, loaded)
	if mse > 0.01 {
		t.Errorf("PNG should be lossless, MSE=%f", mse)
	}
}

func TestWriteFileRemovesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.png")
	boom := errors.New("encoder failed")

	err := WriteFile(path, func(w io.Writer) error {
		if _, err := w.Write([]byte("\x89PNG")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected the encoder error, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected no file left behind, stat returned %v", err)
	}
}

func TestWriteFileMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.png")
	called := false
	err := WriteFile(path, func(io.Writer) error {
		called = true
		return nil
	})
	if err == nil {
		t.Error("Expected an error creating a file in a missing directory")
	}
	if called {
		t.Error("Expected encode not to run when the file cannot be created")
	}
}

func TestLoadImageMissingFile(t *testing.T) {
	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestDecodeBytesKeepsTranslucentColour(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(1, 1, color.NRGBA{R: 200, G: 100, B: 50, A: 128})

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}

	img, err := DecodeBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeBytes failed: %v", err)
	}
	if got := img.GetRGB(1, 1); got != (RGB{R: 200, G: 100, B: 50}) {
		t.Errorf("Expected {200 100 50}, got %v", got)
	}
}

func TestDecodeBytesRejectsGarbage(t *testing.T) {
	if _, err := DecodeBytes([]byte("definitely not an image")); err == nil {
		t.Error("Expected decode error")
	}
}

func TestDecodeDataURL(t *testing.T) {
	payload := []byte{1, 2, 3, 4}
	url := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(payload)

	data, mimeType, err := DecodeDataURL(url)
	if err != nil {
		t.Fatalf("DecodeDataURL failed: %v", err)
	}
	if mimeType != "image/jpeg" {
		t.Errorf("Expected image/jpeg, got %s", mimeType)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("Expected %v, got %v", payload, data)
	}

	for _, bad := range []string{"image/png;base64,AAAA", "data:image/png,AAAA", "data:image/png;base64"} {
		if _, _, err := DecodeDataURL(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
	if _, _, err := DecodeDataURL("data:image/png;base64,!!!"); err == nil {
		t.Error("Expected error for invalid base64")
	}
}

func TestDetectMIMEType(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatal(err)
	}
	if got := DetectMIMEType(buf.Bytes()); got != "image/png" {
		t.Errorf("Expected image/png, got %s", got)
	}
	if got := DetectMIMEType([]byte("plain text")); got != DefaultMIMEType {
		t.Errorf("Expected fallback %s, got %s", DefaultMIMEType, got)
	}
}

// TestSaveTestImages saves test images to testdata directory for visual inspection.
// Run with: go test -run TestSaveTestImages -v
func TestSaveTestImages(t *testing.T) {
	if os.Getenv("SAVE_TEST_IMAGES") != "1" {
		t.Skip("Set SAVE_TEST_IMAGES=1 to generate test images")
	}

	testdataDir := "../testdata"
	os.MkdirAll(testdataDir, 0755)

	savePNG(CreateGradientImage(256, 256), filepath.Join(testdataDir, "gradient.png"))
	savePNG(CreateVerticalGradientImage(256, 256), filepath.Join(testdataDir, "vgradient.png"))
	savePNG(CreateCheckerboardImage(256, 256, 32), filepath.Join(testdataDir, "checkerboard.png"))
	savePNG(CreateColorBarsImage(256, 256), filepath.Join(testdataDir, "colorbars.png"))

	t.Log("Test images saved to testdata/")
}

package imageutil

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// DefaultMIMEType is assumed for image payloads whose type cannot be sniffed.
const DefaultMIMEType = "image/png"

// ErrNotDataURL is returned by DecodeDataURL when the input lacks the
// "data:<mime>;base64," prefix.
var ErrNotDataURL = errors.New("not a base64 data URL")

// DecodeImage decodes an image from r, applying any EXIF orientation so the
// pixels match what a browser would display.
// Supports PNG, JPEG, GIF, BMP, TIFF and WebP.
func DecodeImage(r io.Reader) (*NRGBAImage, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return NRGBAImageFromImage(img), nil
}

// DecodeBytes decodes an encoded image held in memory.
func DecodeBytes(data []byte) (*NRGBAImage, error) {
	return DecodeImage(bytes.NewReader(data))
}

// LoadImage loads an image from the specified path.
func LoadImage(path string) (*NRGBAImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return DecodeImage(f)
}

// DecodeDataURL splits a "data:<mime>;base64,<payload>" URL into the decoded
// payload and its MIME type.
func DecodeDataURL(s string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "data:")
	if !ok {
		return nil, "", ErrNotDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", ErrNotDataURL
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, "", ErrNotDataURL
	}
	if mimeType == "" {
		mimeType = DefaultMIMEType
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode data URL payload: %w", err)
	}
	return data, mimeType, nil
}

// DetectMIMEType sniffs the image type of data, falling back to
// DefaultMIMEType when the content is not recognised as an image.
func DetectMIMEType(data []byte) string {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return DefaultMIMEType
	}
	return mimeType
}

// WriteFile creates path and fills it with encode. If encoding or closing
// fails the partial file is removed.
func WriteFile(path string, encode func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := encode(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

package imageutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidHexColor is returned by ParseHexColor for anything other than
// "#rgb" or "#rrggbb".
var ErrInvalidHexColor = errors.New("invalid hex color")

// Luminance returns the perceptual brightness of c in [0, 1] using the
// BT.601 weights: Y = (0.299*R + 0.587*G + 0.114*B) / 255.
func Luminance(c RGB) float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
}

// LuminanceAt samples the luminance of a single pixel of img.
func LuminanceAt(img *NRGBAImage, x, y int) float64 {
	return Luminance(img.GetRGB(x, y))
}

// ParseHexColor parses a CSS hex colour of the form "#rgb" or "#rrggbb".
// The leading '#' is optional.
func ParseHexColor(s string) (RGB, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHexColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHexColor, s)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex formats rgb as a lower-case "#rrggbb" string.
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

package dotmatrix

import (
	"fmt"
	"math"

	"github.com/wbrown/dotmatrix/imageutil"
)

// Slider ranges of the interactive controls. The core never enforces them;
// Settings.Clamp applies them for front ends that want the same limits.
const (
	MinGridSize       = 4.0
	MaxGridSize       = 50.0
	MinMaxRadiusScale = 0.1
	MaxMaxRadiusScale = 1.5
	MinMinRadius      = 0.0
	MaxMinRadius      = 1.0
	MinContrast       = 0.5
	MaxContrast       = 3.0
)

// Settings configures one halftone render pass. It is a plain value: copy
// it, change it, hand it to Render. Nothing retains a reference.
type Settings struct {
	// GridSize is the pixel spacing between cell origins.
	GridSize float64
	// MinRadius is the smallest dot radius as a fraction of half the
	// grid spacing.
	MinRadius float64
	// MaxRadiusScale is the largest dot radius as a fraction of half the
	// grid spacing. Values above 1 let neighbouring dots overlap.
	MaxRadiusScale float64
	// DotColor and BackgroundColor are CSS hex colours ("#rrggbb").
	DotColor        string
	BackgroundColor string
	// Invert makes bright pixels produce large dots.
	Invert bool
	// Contrast is a multiplier applied around mid grey.
	Contrast float64
}

// SettingsOption is a functional option for NewSettings.
type SettingsOption func(*Settings)

// DefaultSettings returns the settings the studio starts with.
func DefaultSettings() Settings {
	return Settings{
		GridSize:        10,
		MinRadius:       0.2,
		MaxRadiusScale:  0.9,
		DotColor:        "#000000",
		BackgroundColor: "#ffffff",
		Invert:          false,
		Contrast:        1.0,
	}
}

// NewSettings returns DefaultSettings with opts applied in order.
func NewSettings(opts ...SettingsOption) Settings {
	s := DefaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithGridSize sets the spacing between cell origins in pixels.
func WithGridSize(size float64) SettingsOption {
	return func(s *Settings) {
		s.GridSize = size
	}
}

// WithMinRadius sets the minimum dot radius scale.
func WithMinRadius(scale float64) SettingsOption {
	return func(s *Settings) {
		s.MinRadius = scale
	}
}

// WithMaxRadiusScale sets the maximum dot radius scale.
func WithMaxRadiusScale(scale float64) SettingsOption {
	return func(s *Settings) {
		s.MaxRadiusScale = scale
	}
}

// WithColors sets the dot and background colours.
func WithColors(dot, background string) SettingsOption {
	return func(s *Settings) {
		s.DotColor = dot
		s.BackgroundColor = background
	}
}

// WithInvert flips the brightness to dot size polarity.
func WithInvert(invert bool) SettingsOption {
	return func(s *Settings) {
		s.Invert = invert
	}
}

// WithContrast sets the contrast multiplier.
func WithContrast(contrast float64) SettingsOption {
	return func(s *Settings) {
		s.Contrast = contrast
	}
}

// EffectiveMinScale is the minimum radius scale actually used when mapping
// brightness to radius. It never exceeds MaxRadiusScale, whatever the two
// fields hold.
func (s Settings) EffectiveMinScale() float64 {
	return math.Min(s.MinRadius, s.MaxRadiusScale)
}

// Clamp returns a copy of s with every numeric field forced into the
// slider range of the interactive controls.
func (s Settings) Clamp() Settings {
	s.GridSize = clamp(s.GridSize, MinGridSize, MaxGridSize)
	s.MaxRadiusScale = clamp(s.MaxRadiusScale, MinMaxRadiusScale, MaxMaxRadiusScale)
	s.MinRadius = clamp(s.MinRadius, MinMinRadius, MaxMinRadius)
	s.Contrast = clamp(s.Contrast, MinContrast, MaxContrast)
	return s
}

// palette resolves both colours, normalised to lower-case "#rrggbb".
func (s Settings) palette() (dot, background imageutil.RGB, err error) {
	dot, err = imageutil.ParseHexColor(s.DotColor)
	if err != nil {
		return dot, background, fmt.Errorf("%w: dot color: %w", ErrInvalidColor, err)
	}
	background, err = imageutil.ParseHexColor(s.BackgroundColor)
	if err != nil {
		return dot, background, fmt.Errorf("%w: background color: %w", ErrInvalidColor, err)
	}
	return dot, background, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

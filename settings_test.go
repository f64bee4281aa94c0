package dotmatrix

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultSettings(t *testing.T) {
	t.Parallel()

	want := Settings{
		GridSize:        10,
		MinRadius:       0.2,
		MaxRadiusScale:  0.9,
		DotColor:        "#000000",
		BackgroundColor: "#ffffff",
		Invert:          false,
		Contrast:        1,
	}
	if diff := cmp.Diff(want, DefaultSettings()); diff != "" {
		t.Errorf("DefaultSettings mismatch (-want +got):\n%s", diff)
	}
}

func TestNewSettingsOptions(t *testing.T) {
	t.Parallel()

	s := NewSettings(
		WithGridSize(24),
		WithMinRadius(0.4),
		WithMaxRadiusScale(1.2),
		WithColors("#ff0000", "#00ff00"),
		WithInvert(true),
		WithContrast(2.5),
	)
	want := Settings{
		GridSize:        24,
		MinRadius:       0.4,
		MaxRadiusScale:  1.2,
		DotColor:        "#ff0000",
		BackgroundColor: "#00ff00",
		Invert:          true,
		Contrast:        2.5,
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("NewSettings mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingsClamp(t *testing.T) {
	t.Parallel()

	s := NewSettings(
		WithGridSize(1),
		WithMinRadius(-3),
		WithMaxRadiusScale(9),
		WithContrast(0),
	).Clamp()

	if s.GridSize != MinGridSize {
		t.Errorf("Expected grid %v, got %v", MinGridSize, s.GridSize)
	}
	if s.MinRadius != MinMinRadius {
		t.Errorf("Expected min radius %v, got %v", MinMinRadius, s.MinRadius)
	}
	if s.MaxRadiusScale != MaxMaxRadiusScale {
		t.Errorf("Expected max radius scale %v, got %v", MaxMaxRadiusScale, s.MaxRadiusScale)
	}
	if s.Contrast != MinContrast {
		t.Errorf("Expected contrast %v, got %v", MinContrast, s.Contrast)
	}

	// Values inside the ranges are left alone.
	d := DefaultSettings()
	if diff := cmp.Diff(d, d.Clamp()); diff != "" {
		t.Errorf("Clamp changed in-range settings (-want +got):\n%s", diff)
	}
}

func TestSettingsPalette(t *testing.T) {
	t.Parallel()

	dot, bg, err := NewSettings(WithColors("#ABC", "102030")).palette()
	if err != nil {
		t.Fatalf("palette failed: %v", err)
	}
	if dot.Hex() != "#aabbcc" || bg.Hex() != "#102030" {
		t.Errorf("Expected #aabbcc/#102030, got %s/%s", dot.Hex(), bg.Hex())
	}

	_, _, err = NewSettings(WithColors("#000000", "#12345")).palette()
	if !errors.Is(err, ErrInvalidColor) {
		t.Errorf("Expected ErrInvalidColor, got %v", err)
	}
}

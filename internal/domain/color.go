package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB is a color with integer channels in [0,255]. Values outside the
// range are clamped at construction, never propagated.
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// DefaultSkinTone is substituted for any missing or unparseable color
// sample. Analysis always proceeds with defaulted samples instead of
// failing the request.
var DefaultSkinTone = RGB{R: 180, G: 140, B: 110}

// NewRGB builds an RGB with each channel clamped into [0,255].
func NewRGB(r, g, b int) RGB {
	return RGB{R: clampChannel(r), G: clampChannel(g), B: clampChannel(b)}
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Brightness is the mean of the three channels.
func (c RGB) Brightness() float64 {
	return float64(c.R+c.G+c.B) / 3.0
}

// Luminance is the standard weighted luminance (0.299R+0.587G+0.114B).
func (c RGB) Luminance() float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// Spread is the max-minus-min channel distance, a cheap saturation proxy.
func (c RGB) Spread() int {
	maxC := c.R
	minC := c.R
	for _, v := range []int{c.G, c.B} {
		if v > maxC {
			maxC = v
		}
		if v < minC {
			minC = v
		}
	}
	return maxC - minC
}

// Hex renders the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses "#RRGGBB" (case-insensitive, leading '#' optional).
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("parse hex color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("parse hex color %q: %w", s, err)
	}
	return RGB{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// ColorSamples are the three representative colors extracted from a
// selfie. Nil slots mean the extractor could not produce that sample.
type ColorSamples struct {
	Dominant *RGB `json:"dominant,omitempty"`
	Average  *RGB `json:"average,omitempty"`
	Vibrant  *RGB `json:"vibrant,omitempty"`
}

// NormalizedSamples is a fully populated sample set.
type NormalizedSamples struct {
	Dominant RGB `json:"dominant"`
	Average  RGB `json:"average"`
	Vibrant  RGB `json:"vibrant"`
}

// Normalize fills missing slots with DefaultSkinTone.
func (s ColorSamples) Normalize() NormalizedSamples {
	out := NormalizedSamples{
		Dominant: DefaultSkinTone,
		Average:  DefaultSkinTone,
		Vibrant:  DefaultSkinTone,
	}
	if s.Dominant != nil {
		out.Dominant = *s.Dominant
	}
	if s.Average != nil {
		out.Average = *s.Average
	}
	if s.Vibrant != nil {
		out.Vibrant = *s.Vibrant
	}
	return out
}

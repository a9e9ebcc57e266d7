// Package colorutil provides shared colors for board previews.
package colorutil

import (
	"image/color"
)

// Common overlay colors.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Cyan    = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Blue    = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow  = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Gray    = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// EasyEDA copper layer colors, keyed by layer id.
var layerColors = map[string]color.RGBA{
	"1":  {R: 255, G: 0, B: 0, A: 255},     // top
	"2":  {R: 0, G: 0, B: 255, A: 255},     // bottom
	"21": {R: 128, G: 0, B: 0, A: 255},     // inner 1
	"22": {R: 0, G: 128, B: 0, A: 255},     // inner 2
	"23": {R: 0, G: 255, B: 0, A: 255},     // inner 3
	"24": {R: 188, G: 142, B: 0, A: 255},   // inner 4
	"25": {R: 112, G: 220, B: 255, A: 255}, // inner 5
	"26": {R: 255, G: 160, B: 255, A: 255}, // inner 6
}

// LayerColor returns the preview color of an EasyEDA layer id. Unknown layers
// are gray.
func LayerColor(layer string) color.RGBA {
	if c, ok := layerColors[layer]; ok {
		return c
	}
	return Gray
}

// Darken reduces the brightness of a color by factor (0..1).
func Darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * (1 - factor)),
		G: uint8(float64(c.G) * (1 - factor)),
		B: uint8(float64(c.B) * (1 - factor)),
		A: c.A,
	}
}

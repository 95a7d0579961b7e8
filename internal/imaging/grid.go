package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
)

// DrawGrid draws lines every spacing pixels over img, in place, blending c
// over the existing pixels by its alpha.
func DrawGrid(img *image.NRGBA, spacing int, c color.NRGBA) {
	if spacing <= 0 {
		return
	}
	bounds := img.Bounds()
	src := image.NewUniform(c)

	// Vertical lines
	for x := bounds.Min.X + spacing; x < bounds.Max.X; x += spacing {
		draw.Draw(img, image.Rect(x, bounds.Min.Y, x+1, bounds.Max.Y), src, image.Point{}, draw.Over)
	}

	// Horizontal lines
	for y := bounds.Min.Y + spacing; y < bounds.Max.Y; y += spacing {
		draw.Draw(img, image.Rect(bounds.Min.X, y, bounds.Max.X, y+1), src, image.Point{}, draw.Over)
	}
}

// ParseHexColor parses a hex color string like "#FF0000" or "#FF000080".
// The leading '#' is optional.
func ParseHexColor(hex string) (color.NRGBA, error) {
	if len(hex) == 0 {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		return color.NRGBA{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val), A: 255}, nil
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		return color.NRGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length %d", len(hex))
	}
}

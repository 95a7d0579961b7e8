package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// ITU-R BT.601 luma weights, used everywhere a pixel is reduced to brightness.
const (
	LumaR = 0.299
	LumaG = 0.587
	LumaB = 0.114
)

// Luminance returns the BT.601 luminance of an 8-bit RGB triple in the range 0-255.
func Luminance(r, g, b uint8) float32 {
	return LumaR*float32(r) + LumaG*float32(g) + LumaB*float32(b)
}

// Gray converts an image to an 8-bit grayscale plane.
//
// Each output value is the BT.601 luminance rounded to the nearest integer,
// which is the representation the artifact detector works on.
func Gray(img image.Image) *image.Gray {
	g := imaging.Grayscale(img)
	b := g.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for i := range out.Pix {
		out.Pix[i] = g.Pix[i*4]
	}
	return out
}

// Clamp8 clamps v to [0,255] and truncates it to an 8-bit value.
func Clamp8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Round8 clamps v to [0,255] and rounds it to the nearest 8-bit value.
func Round8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// Scale multiplies each channel of c by f, truncating and capping at 255.
func Scale(c color.NRGBA, f float32) color.NRGBA {
	return color.NRGBA{
		R: Clamp8(float32(c.R) * f),
		G: Clamp8(float32(c.G) * f),
		B: Clamp8(float32(c.B) * f),
		A: 0xff,
	}
}

// HeatColor maps a score in [0,1] to a red/blue diagnostic color:
// red carries the score and blue carries its complement.
func HeatColor(score float32) color.NRGBA {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	c := colorful.Color{R: float64(score), G: 0, B: 1 - float64(score)}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

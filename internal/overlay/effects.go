package overlay

import (
	"image"
	"math"

	"github.com/ironsheep/artifact-mask/internal/imaging"
)

// Adaptive density tuning.
const (
	adaptiveMeanThreshold = 0.45
	adaptiveMinMax        = 0.30
	adaptiveMinPower      = 2.5
	vignetteFalloff       = 1.5
)

// Adapt thins the overlay on images that score as artifact-heavy overall.
//
// When meanScore exceeds 0.45 the excess lowers Max (not below 0.30) and
// raises Power (not below 2.5), so the photo shows through more. Otherwise b
// is returned unchanged.
func (b Blend) Adapt(meanScore float64) Blend {
	if meanScore <= adaptiveMeanThreshold {
		return b
	}
	excess := meanScore - adaptiveMeanThreshold
	b.Max = math.Max(adaptiveMinMax, b.Max-excess*2.0)
	b.Power = math.Max(adaptiveMinPower, b.Power+excess*3.5)
	return b
}

// Effects are optional finishing passes. The zero value applies nothing.
type Effects struct {
	// ChromaticShift offsets the red channel right and the blue channel left
	// by this many pixels. 0 disables it.
	ChromaticShift int

	// Vignette darkens the corners; 0 disables it, 1 turns the far corners black.
	Vignette float64
}

// Apply runs the enabled effects on img in place.
func (e Effects) Apply(img *image.NRGBA) {
	if e.ChromaticShift > 0 {
		ChromaticAberration(img, e.ChromaticShift)
	}
	if e.Vignette > 0 {
		Vignette(img, e.Vignette)
	}
}

// ChromaticAberration shifts the red and blue channels horizontally in place.
// Red at x is read from x-shift, blue from x+shift, clamped to the image edge.
func ChromaticAberration(img *image.NRGBA, shift int) {
	b := img.Bounds()
	w := b.Dx()
	red := make([]uint8, w)
	blue := make([]uint8, w)

	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			red[x] = row[x*4]
			blue[x] = row[x*4+2]
		}
		for x := 0; x < w; x++ {
			rx := x - shift
			if rx < 0 {
				rx = 0
			}
			bx := x + shift
			if bx >= w {
				bx = w - 1
			}
			row[x*4] = red[rx]
			row[x*4+2] = blue[bx]
		}
	}
}

// Vignette darkens img in place by 1 - strength*(d/dmax)^1.5, where d is the
// distance from the image center and dmax the center-to-corner distance.
func Vignette(img *image.NRGBA, strength float64) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	cx, cy := float64(w)/2, float64(h)/2
	maxDist := math.Hypot(cx, cy)
	if maxDist == 0 {
		return
	}

	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy) / maxDist
			mult := float32(1 - strength*math.Pow(d, vignetteFalloff))
			i := x * 4
			row[i] = imaging.Clamp8(float32(row[i]) * mult)
			row[i+1] = imaging.Clamp8(float32(row[i+1]) * mult)
			row[i+2] = imaging.Clamp8(float32(row[i+2]) * mult)
		}
	}
}

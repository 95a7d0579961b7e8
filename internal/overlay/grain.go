package overlay

import (
	"image"
	"math/rand"

	"github.com/ironsheep/artifact-mask/internal/imaging"
)

// shadowBias is the extra relative noise weight a black pixel receives
// compared to a white one.
const shadowBias = 0.4

// Grain adds luminance-weighted Gaussian film grain to an image.
type Grain struct {
	// Intensity is the noise standard deviation in 8-bit units.
	Intensity float64

	// Seed makes the noise deterministic.
	Seed int64
}

// Apply returns a new image with grain added; src is not modified.
//
// Every channel of every pixel receives an independent normal sample with
// standard deviation Intensity, scaled by 1 - (luminance/255)*0.4 so that
// shadows get up to 40% more noise than highlights. Samples are drawn in
// row-major order, R then G then B, so the output depends only on the input
// and Seed.
func (g Grain) Apply(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	rng := rand.New(rand.NewSource(g.Seed))
	intensity := float32(g.Intensity)

	for y := 0; y < b.Dy(); y++ {
		in := src.Pix[y*src.Stride : y*src.Stride+b.Dx()*4]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+b.Dx()*4]
		for i := 0; i < len(in); i += 4 {
			r, gg, bb := in[i], in[i+1], in[i+2]
			shadow := 1 - imaging.Luminance(r, gg, bb)/255*shadowBias

			nr := float32(rng.NormFloat64()) * intensity
			ng := float32(rng.NormFloat64()) * intensity
			nb := float32(rng.NormFloat64()) * intensity

			out[i] = imaging.Round8(float32(r) + nr*shadow)
			out[i+1] = imaging.Round8(float32(gg) + ng*shadow)
			out[i+2] = imaging.Round8(float32(bb) + nb*shadow)
			out[i+3] = 0xff
		}
	}
	return dst
}

package overlay

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/artifact-mask/internal/artifact"
	"github.com/ironsheep/artifact-mask/internal/imaging"
)

// Blend curve defaults.
const (
	DefaultScorePower = 3.0
	DefaultASCIIFloor = 0.05
	DefaultASCIIMax   = 0.90
)

// Blend maps an artifact score to the opacity of the glyph layer:
//
//	weight = Floor + score^Power * (Max - Floor)
//
// For Floor <= Max and Power > 0 the weight is non-decreasing in score and
// stays within [Floor, Max].
type Blend struct {
	Floor float64
	Max   float64
	Power float64
}

// DefaultBlend returns the default blend curve.
func DefaultBlend() Blend {
	return Blend{Floor: DefaultASCIIFloor, Max: DefaultASCIIMax, Power: DefaultScorePower}
}

// Weight returns the glyph layer opacity for a score in [0,1].
func (b Blend) Weight(score float32) float32 {
	s := math.Max(0, math.Min(1, float64(score)))
	return float32(b.Floor + math.Pow(s, b.Power)*(b.Max-b.Floor))
}

// Map evaluates Weight for every pixel of scores.
func (b Blend) Map(scores *artifact.ScoreMap) *BlendMap {
	m := &BlendMap{Width: scores.Width, Height: scores.Height, Values: make([]float32, len(scores.Values))}
	for i, s := range scores.Values {
		m.Values[i] = b.Weight(s)
	}
	return m
}

// BlendMap holds per-pixel glyph layer opacities, row-major.
type BlendMap struct {
	Width  int
	Height int
	Values []float32
}

// At returns the weight at (x, y).
func (m *BlendMap) At(x, y int) float32 {
	return m.Values[y*m.Width+x]
}

// FractionAbove returns the fraction (0-1) of pixels whose weight is > threshold.
func (m *BlendMap) FractionAbove(threshold float32) float64 {
	if len(m.Values) == 0 {
		return 0
	}
	n := 0
	for _, v := range m.Values {
		if v > threshold {
			n++
		}
	}
	return float64(n) / float64(len(m.Values))
}

// Compositor blends the grained image with the glyph overlay.
type Compositor struct {
	Blend Blend

	// Effects are applied to the blended image before FinalGrain.
	Effects Effects

	// FinalGrain is the second, lighter grain pass.
	FinalGrain Grain
}

// Composite is the output of Compositor.Composite.
type Composite struct {
	Image  *image.NRGBA
	Blends *BlendMap
}

// Composite blends grained and glyphs per pixel using the score-derived weight.
//
// The output has the glyph layer's dimensions: grained is resampled to match
// with a Lanczos filter and scores bilinearly. Each channel is computed as
// grain*(1-w) + glyph*w and truncated to 8 bits.
func (c Compositor) Composite(grained, glyphs *image.NRGBA, scores *artifact.ScoreMap) (*Composite, error) {
	gb := glyphs.Bounds()
	w, h := gb.Dx(), gb.Dy()

	base, err := imaging.ResizeLanczos(grained, w, h)
	if err != nil {
		return nil, fmt.Errorf("failed to align grain layer: %w", err)
	}
	blends := c.Blend.Map(scores.Resize(w, h))

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		bp := base.Pix[y*base.Stride:]
		ap := glyphs.Pix[y*glyphs.Stride:]
		op := out.Pix[y*out.Stride:]
		for x := 0; x < w; x++ {
			wt := blends.Values[y*w+x]
			i := x * 4
			for ch := 0; ch < 3; ch++ {
				op[i+ch] = imaging.Clamp8(float32(bp[i+ch])*(1-wt) + float32(ap[i+ch])*wt)
			}
			op[i+3] = 0xff
		}
	}

	c.Effects.Apply(out)
	if c.FinalGrain.Intensity > 0 {
		out = c.FinalGrain.Apply(out)
	}

	return &Composite{Image: out, Blends: blends}, nil
}

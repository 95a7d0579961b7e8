package artifact

import (
	"image"
	"math"

	"github.com/disintegration/gift"

	"github.com/ironsheep/artifact-mask/internal/imaging"
)

// ScoreMap is a per-pixel artifact score in [0,1], stored row-major.
//
// 0 means clean/detailed, 1 means smooth/artifact. A ScoreMap is read-only
// once produced.
type ScoreMap struct {
	Width  int
	Height int
	Values []float32
}

// NewScoreMap returns an all-zero score map.
func NewScoreMap(width, height int) *ScoreMap {
	return &ScoreMap{Width: width, Height: height, Values: make([]float32, width*height)}
}

// At returns the score at (x, y).
func (m *ScoreMap) At(x, y int) float32 {
	return m.Values[y*m.Width+x]
}

// Mean returns the average score over the whole map.
func (m *ScoreMap) Mean() float64 {
	if len(m.Values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range m.Values {
		sum += float64(v)
	}
	return sum / float64(len(m.Values))
}

// RegionMean returns the average score inside r, clipped to the map.
func (m *ScoreMap) RegionMean(r image.Rectangle) float64 {
	r = r.Intersect(image.Rect(0, 0, m.Width, m.Height))
	if r.Empty() {
		return 0
	}
	var sum float64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			sum += float64(m.At(x, y))
		}
	}
	return sum / float64(r.Dx()*r.Dy())
}

// FractionAbove returns the fraction (0-1) of pixels whose score is > threshold.
func (m *ScoreMap) FractionAbove(threshold float32) float64 {
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

// Gray quantizes the map to an 8-bit plane (score * 255, truncated).
func (m *ScoreMap) Gray() *image.Gray {
	return quantize(m.Values, m.Width, m.Height)
}

// Resize resamples the map to width x height with a bilinear filter.
//
// The map is quantized to 8 bits before resampling, the same representation
// used when the block grid was upsampled.
func (m *ScoreMap) Resize(width, height int) *ScoreMap {
	return fromGray(imaging.ResizeGrayLinear(m.Gray(), width, height))
}

func quantize(values []float32, width, height int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, width, height))
	for i, v := range values {
		g.Pix[i] = imaging.Clamp8(v * 255)
	}
	return g
}

func fromGray(g *image.Gray) *ScoreMap {
	b := g.Bounds()
	m := NewScoreMap(b.Dx(), b.Dy())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			m.Values[y*m.Width+x] = float32(g.Pix[y*g.Stride+x]) / 255
		}
	}
	return m
}

// Upsampler turns a block grid into a smooth per-pixel ScoreMap.
type Upsampler struct {
	// BlurSigma is the standard deviation of the Gaussian blur in pixels.
	BlurSigma float64

	// Curve is the exponent of the final power curve. Values above 1 push
	// low scores lower while leaving high scores comparatively unaffected.
	Curve float64
}

// Upsample resamples grid to width x height pixels.
//
// # Stages
//
//  1. Quantize block scores to 8 bits and upsample bilinearly.
//  2. Gaussian blur to remove blocky transitions.
//  3. Normalize to [0,1] and apply score^Curve.
//
// A degenerate grid yields an all-zero map.
func (u Upsampler) Upsample(grid *BlockGrid, width, height int) *ScoreMap {
	if grid.Degenerate || grid.Cols == 0 || grid.Rows == 0 {
		return NewScoreMap(width, height)
	}

	blocks := quantize(grid.Scores(), grid.Cols, grid.Rows)
	px := imaging.ResizeGrayLinear(blocks, width, height)

	if u.BlurSigma > 0 {
		g := gift.New(gift.GaussianBlur(float32(u.BlurSigma)))
		blurred := image.NewGray(g.Bounds(px.Bounds()))
		g.Draw(blurred, px)
		px = blurred
	}

	m := fromGray(px)
	if u.Curve != 1 {
		for i, v := range m.Values {
			m.Values[i] = float32(math.Pow(float64(v), u.Curve))
		}
	}
	return m
}

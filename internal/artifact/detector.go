package artifact

import (
	"image"

	"github.com/ironsheep/artifact-mask/internal/imaging"
)

// Default detector parameters.
const (
	DefaultBlockSize     = 12
	DefaultMinBrightness = 25
	DefaultBlurScale     = 1.5
	DefaultCurve         = 1.8
)

// Detector computes a ScoreMap from an image.
type Detector struct {
	// BlockSize is the edge length of scoring blocks in pixels.
	BlockSize int

	// MinBrightness is the brightness a block must exceed to be scored.
	MinBrightness float32

	// BlurScale multiplies BlockSize to get the Gaussian blur sigma.
	BlurScale float64

	// Curve is the power-curve exponent applied after blurring.
	Curve float64
}

// DefaultDetector returns a Detector with the default parameters.
func DefaultDetector() Detector {
	return Detector{
		BlockSize:     DefaultBlockSize,
		MinBrightness: DefaultMinBrightness,
		BlurScale:     DefaultBlurScale,
		Curve:         DefaultCurve,
	}
}

// Detection is the full result of Detector.Detect.
type Detection struct {
	// Scores is the per-pixel artifact score, same size as the input image.
	Scores *ScoreMap

	// Blocks holds the intermediate block statistics.
	Blocks *BlockGrid
}

// Detect runs GradientField, BlockScorer and Upsampler on img.
func (d Detector) Detect(img image.Image) *Detection {
	gray := imaging.Gray(img)
	b := gray.Bounds()

	grad := ComputeGradient(gray)
	scorer := BlockScorer{BlockSize: d.BlockSize, MinBrightness: d.MinBrightness}
	grid := scorer.Score(gray, grad)

	up := Upsampler{
		BlurSigma: float64(d.BlockSize) * d.BlurScale,
		Curve:     d.Curve,
	}
	return &Detection{
		Scores: up.Upsample(grid, b.Dx(), b.Dy()),
		Blocks: grid,
	}
}

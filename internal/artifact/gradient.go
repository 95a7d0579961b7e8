package artifact

import (
	"image"
	"math"
)

// GradientField holds the per-pixel gradient magnitude of a grayscale image.
//
// Magnitude is stored row-major: Magnitude[y*Width+x].
type GradientField struct {
	Width     int
	Height    int
	Magnitude []float32
}

// At returns the gradient magnitude at (x, y).
func (f *GradientField) At(x, y int) float32 {
	return f.Magnitude[y*f.Width+x]
}

// ComputeGradient computes central-difference gradient magnitudes of gray.
//
// For every interior pixel:
//
//	gx = L(x+1, y) - L(x-1, y)
//	gy = L(x, y+1) - L(x, y-1)
//	magnitude = sqrt(gx² + gy²)
//
// gx is defined as 0 on the first and last column and gy as 0 on the first and
// last row, so a boundary pixel still carries the gradient along its other axis.
func ComputeGradient(gray *image.Gray) *GradientField {
	b := gray.Bounds()
	width, height := b.Dx(), b.Dy()
	mag := make([]float32, width*height)

	lum := func(x, y int) float32 {
		return float32(gray.Pix[y*gray.Stride+x])
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float32
			if x > 0 && x < width-1 {
				gx = lum(x+1, y) - lum(x-1, y)
			}
			if y > 0 && y < height-1 {
				gy = lum(x, y+1) - lum(x, y-1)
			}
			mag[y*width+x] = float32(math.Sqrt(float64(gx*gx + gy*gy)))
		}
	}

	return &GradientField{Width: width, Height: height, Magnitude: mag}
}

package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ResizeLanczos resamples img to width x height with a Lanczos-3 filter.
//
// This is the high-quality path used for color downsampling (source image to
// glyph grid, grained image to overlay size). Resizing to the same dimensions
// returns an unmodified copy.
func ResizeLanczos(img image.Image, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid resize target %dx%d", width, height)
	}
	return imaging.Resize(img, width, height, imaging.Lanczos), nil
}

// ResizeGrayLinear resamples a grayscale plane with a bilinear (triangle) filter.
//
// Score grids are always resampled through this path so that block-to-pixel
// upsampling and pixel-to-grid downsampling keep the same bilinear kernel.
func ResizeGrayLinear(src *image.Gray, width, height int) *image.Gray {
	b := src.Bounds()
	if b.Dx() == width && b.Dy() == height {
		out := image.NewGray(image.Rect(0, 0, width, height))
		copy(out.Pix, src.Pix)
		return out
	}

	resized := imaging.Resize(src, width, height, imaging.Linear)
	out := image.NewGray(image.Rect(0, 0, width, height))
	for i := range out.Pix {
		out.Pix[i] = resized.Pix[i*4]
	}
	return out
}

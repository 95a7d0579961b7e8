package artifact

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
)

func createRGBImage(w, h int, fn func(x, y int) color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, fn(x, y))
		}
	}
	return img
}

func TestDetect_UniformImage(t *testing.T) {
	for _, level := range []uint8{128, 200} {
		img := createRGBImage(128, 128, func(x, y int) color.NRGBA {
			return color.NRGBA{R: level, G: level, B: level, A: 255}
		})

		det := DefaultDetector().Detect(img)

		if !det.Blocks.Degenerate {
			t.Errorf("level %d: expected degenerate block grid", level)
		}
		if det.Scores.Width != 128 || det.Scores.Height != 128 {
			t.Errorf("level %d: score map %dx%d, want 128x128", level, det.Scores.Width, det.Scores.Height)
		}
		for i, v := range det.Scores.Values {
			if v != 0 {
				t.Fatalf("level %d: score[%d] = %v, want 0", level, i, v)
			}
		}
	}
}

func TestDetect_DarkImage(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	img := createRGBImage(60, 60, func(x, y int) color.NRGBA {
		v := uint8(rng.Intn(20))
		return color.NRGBA{R: v, G: v, B: v, A: 255}
	})

	det := DefaultDetector().Detect(img)
	if det.Scores.Mean() != 0 {
		t.Errorf("shadow-only image mean score: got %v, want 0", det.Scores.Mean())
	}
}

// createQuadrantImage returns a 192x192 image whose left half is noisy and
// whose right half is a gentle horizontal ramp, both averaging ~130.
func createQuadrantImage() *image.NRGBA {
	rng := rand.New(rand.NewSource(7))
	return createRGBImage(192, 192, func(x, y int) color.NRGBA {
		var v uint8
		if x < 96 {
			v = uint8(60 + rng.Intn(141))
		} else {
			v = uint8(100 + (x-96)*60/95)
		}
		return color.NRGBA{R: v, G: v, B: v, A: 255}
	})
}

func TestDetect_SmoothQuadrantScoresHigher(t *testing.T) {
	det := DefaultDetector().Detect(createQuadrantImage())

	sharp := det.Scores.RegionMean(image.Rect(0, 0, 96, 96))
	smooth := det.Scores.RegionMean(image.Rect(96, 0, 192, 96))

	if smooth <= sharp {
		t.Fatalf("smooth quadrant %.3f should score above sharp quadrant %.3f", smooth, sharp)
	}
	if smooth-sharp < 0.3 {
		t.Errorf("weak separation: smooth %.3f, sharp %.3f", smooth, sharp)
	}
}

func TestDetect_ScoresInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	img := createRGBImage(150, 110, func(x, y int) color.NRGBA {
		if (x/30+y/30)%2 == 0 {
			return color.NRGBA{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256)), A: 255}
		}
		return color.NRGBA{R: uint8(x), G: uint8(y), B: 90, A: 255}
	})

	det := DefaultDetector().Detect(img)
	if det.Scores.Width != 150 || det.Scores.Height != 110 {
		t.Fatalf("score map %dx%d, want 150x110", det.Scores.Width, det.Scores.Height)
	}
	for i, v := range det.Scores.Values {
		if v < 0 || v > 1 {
			t.Fatalf("score[%d] = %v outside [0,1]", i, v)
		}
	}
}

func BenchmarkDetect(b *testing.B) {
	img := createQuadrantImage()
	d := DefaultDetector()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Detect(img)
	}
}

package artifact

import (
	"image"
	"math"
	"sort"
)

// Block holds the statistics of one block of the image.
type Block struct {
	// Variance is the population variance of gradient magnitudes in the block.
	Variance float32

	// Brightness is the mean grayscale value of the block (0-255).
	Brightness float32

	// Score is the raw artifact score in [0,1]. Always 0 for dark blocks.
	Score float32

	// Lit reports whether Brightness exceeds the scorer's MinBrightness.
	Lit bool
}

// BlockGrid is the block-level result of BlockScorer.Score.
//
// Blocks are stored row-major: Blocks[row*Cols+col]. Trailing pixels that do
// not fill a whole block are not covered by any block.
type BlockGrid struct {
	Cols      int
	Rows      int
	BlockSize int
	Blocks    []Block

	// LitCount is the number of blocks brighter than MinBrightness.
	LitCount int

	// P10 and P90 are the 10th and 90th percentile of lit-block variance.
	// Both are zero when there are no lit blocks.
	P10 float32
	P90 float32

	// Degenerate is true when there is nothing to detect: no lit blocks, or
	// the percentile range collapsed (P90 <= P10). Every score is then zero.
	Degenerate bool
}

// Scores returns the raw block scores, row-major.
func (g *BlockGrid) Scores() []float32 {
	out := make([]float32, len(g.Blocks))
	for i, b := range g.Blocks {
		out[i] = b.Score
	}
	return out
}

// BlockScorer derives a raw artifact score per block from gradient variance.
type BlockScorer struct {
	// BlockSize is the edge length of each square block in pixels.
	BlockSize int

	// MinBrightness is the mean brightness a block must exceed to be scored.
	// Darker blocks are shadows and never count as artifacts.
	MinBrightness float32
}

// Score partitions the image into BlockSize x BlockSize blocks and scores them.
//
// # Algorithm
//
//  1. Per block: variance of gradient magnitude and mean brightness.
//  2. Among lit blocks (brightness > MinBrightness), take the 10th and 90th
//     percentile of variance.
//  3. Per lit block: score = 1 - clamp((variance - p10) / (p90 - p10), 0, 1).
//     Smooth (low variance) blocks score high.
//
// If no block is lit or p90 <= p10, the grid is marked Degenerate and every
// score is zero. gray and grad must have the same dimensions.
func (s BlockScorer) Score(gray *image.Gray, grad *GradientField) *BlockGrid {
	size := s.BlockSize
	cols := grad.Width / size
	rows := grad.Height / size

	grid := &BlockGrid{
		Cols:      cols,
		Rows:      rows,
		BlockSize: size,
		Blocks:    make([]Block, cols*rows),
	}

	lit := make([]float64, 0, len(grid.Blocks))
	for by := 0; by < rows; by++ {
		for bx := 0; bx < cols; bx++ {
			variance, brightness := blockStats(gray, grad, bx*size, by*size, size)
			b := &grid.Blocks[by*cols+bx]
			b.Variance = float32(variance)
			b.Brightness = float32(brightness)
			if b.Brightness > s.MinBrightness {
				b.Lit = true
				lit = append(lit, float64(b.Variance))
			}
		}
	}

	grid.LitCount = len(lit)
	if len(lit) == 0 {
		grid.Degenerate = true
		return grid
	}

	sort.Float64s(lit)
	p10 := Percentile(lit, 10)
	p90 := Percentile(lit, 90)
	grid.P10 = float32(p10)
	grid.P90 = float32(p90)
	if p90 <= p10 {
		grid.Degenerate = true
		return grid
	}

	span := p90 - p10
	for i := range grid.Blocks {
		b := &grid.Blocks[i]
		if !b.Lit {
			continue
		}
		norm := (float64(b.Variance) - p10) / span
		if norm < 0 {
			norm = 0
		}
		if norm > 1 {
			norm = 1
		}
		b.Score = float32(1 - norm)
	}

	return grid
}

// blockStats returns the gradient variance and mean brightness of the block
// whose top-left corner is (x0, y0).
func blockStats(gray *image.Gray, grad *GradientField, x0, y0, size int) (variance, brightness float64) {
	n := float64(size * size)

	var sum, bright float64
	for y := y0; y < y0+size; y++ {
		row := grad.Magnitude[y*grad.Width:]
		pix := gray.Pix[y*gray.Stride:]
		for x := x0; x < x0+size; x++ {
			sum += float64(row[x])
			bright += float64(pix[x])
		}
	}
	mean := sum / n

	var sq float64
	for y := y0; y < y0+size; y++ {
		row := grad.Magnitude[y*grad.Width:]
		for x := x0; x < x0+size; x++ {
			d := float64(row[x]) - mean
			sq += d * d
		}
	}

	return sq / n, bright / n
}

// Percentile returns the p-th percentile (0-100) of an ascending sorted slice,
// interpolating linearly between the two closest ranks.
//
// Returns 0 for an empty slice.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}

	pos := p / 100 * float64(n-1)
	lo := int(math.Floor(pos))
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/artifact-mask/internal/artifact"
	"github.com/ironsheep/artifact-mask/internal/imaging"
)

// DefaultCharset orders glyphs from sparse to dense.
const DefaultCharset = " .'·:;~=+×*#%@▓█"

// Glyph renderer defaults.
const (
	DefaultBackgroundTint    = 0.40
	DefaultBrightnessBoost   = 2.8
	DefaultArtifactThreshold = 0.4
)

// Grid sizing: a computed grid narrower than minGridCols (or shorter than
// minGridRows) is replaced by fallbackCols (fallbackRows).
const (
	minGridCols  = 20
	minGridRows  = 15
	fallbackCols = 40
	fallbackRows = 30
)

// fallbackStream is used when a TextStream is built from no usable fragments.
const fallbackStream = "void noise static"

// canvasColor fills pixels not covered by any cell.
var canvasColor = color.NRGBA{R: 8, G: 8, B: 12, A: 255}

// TextStream is a cyclic character source built from text fragments.
//
// Each call to Next returns the character under the cursor and advances it,
// wrapping at the end, so the Nth call returns stream[(N-1) mod len(stream)].
type TextStream struct {
	runes  []rune
	cursor int
}

// NewTextStream joins fragments with single spaces. Empty input falls back to
// a short built-in phrase so the stream is never empty.
func NewTextStream(fragments []string) *TextStream {
	text := strings.Join(fragments, " ")
	if len(fragments) == 0 || text == "" {
		text = fallbackStream
	}
	return &TextStream{runes: []rune(text)}
}

// Next returns the character under the cursor and advances the cursor.
func (s *TextStream) Next() rune {
	r := s.runes[s.cursor%len(s.runes)]
	s.cursor++
	return r
}

// Emitted reports how many characters Next has returned.
func (s *TextStream) Emitted() int {
	return s.cursor
}

// Len returns the length of one cycle of the stream in characters.
func (s *TextStream) Len() int {
	return len(s.runes)
}

// String returns one cycle of the stream.
func (s *TextStream) String() string {
	return string(s.runes)
}

// GlyphCell is one cell of the character grid.
type GlyphCell struct {
	Col, Row int

	// Color is the average source color of the region the cell covers.
	Color color.NRGBA

	// Score is the artifact score interpolated at the cell.
	Score float32

	// Glyph is the character drawn in the cell; a space draws nothing.
	Glyph rune

	// Artifact is true when Glyph came from the text stream.
	Artifact bool
}

// GlyphRenderer renders an image as a grid of colored glyphs.
//
// Cells whose score exceeds ArtifactThreshold draw the next character of the
// text stream with a blue-shifted color. Other cells draw a charset glyph
// picked by brightness.
type GlyphRenderer struct {
	Font              *Font
	Charset           string
	BackgroundTint    float32
	BrightnessBoost   float32
	ArtifactThreshold float32
}

// NewGlyphRenderer returns a renderer with the default charset and factors.
func NewGlyphRenderer(f *Font) *GlyphRenderer {
	return &GlyphRenderer{
		Font:              f,
		Charset:           DefaultCharset,
		BackgroundTint:    DefaultBackgroundTint,
		BrightnessBoost:   DefaultBrightnessBoost,
		ArtifactThreshold: DefaultArtifactThreshold,
	}
}

// Rendered is the output of GlyphRenderer.Render.
type Rendered struct {
	// Image is the rendered overlay, Cols*CellWidth x Rows*CellHeight pixels.
	Image *image.NRGBA

	Width  int
	Height int

	// Cols and Rows are the character grid size.
	Cols int
	Rows int

	// ArtifactGlyphs counts cells that drew a text-stream character.
	ArtifactGlyphs int
}

// GridSize returns the character grid for an image of the given size.
func (r *GlyphRenderer) GridSize(width, height int) (cols, rows int) {
	cols = width / r.Font.CellWidth
	rows = height / r.Font.CellHeight
	if cols < minGridCols {
		cols = fallbackCols
	}
	if rows < minGridRows {
		rows = fallbackRows
	}
	return cols, rows
}

// Render draws the glyph overlay for src.
//
// scores must cover src; it is resampled to the grid bilinearly while src is
// resampled with a Lanczos filter. Cells are visited in row-major order, which
// fixes the order in which the text stream is consumed.
func (r *GlyphRenderer) Render(src *image.NRGBA, stream *TextStream, scores *artifact.ScoreMap) (*Rendered, error) {
	b := src.Bounds()
	cols, rows := r.GridSize(b.Dx(), b.Dy())

	cells, err := r.layout(src, stream, scores, cols, rows)
	if err != nil {
		return nil, err
	}

	cw, ch := r.Font.CellWidth, r.Font.CellHeight
	out := image.NewNRGBA(image.Rect(0, 0, cols*cw, rows*ch))
	draw.Draw(out, out.Bounds(), image.NewUniform(canvasColor), image.Point{}, draw.Src)

	drawer := &font.Drawer{Dst: out, Face: r.Font.Face}
	artifacts := 0
	for _, c := range cells {
		px, py := c.Col*cw, c.Row*ch
		bg := imaging.Scale(c.Color, r.BackgroundTint)
		draw.Draw(out, image.Rect(px, py, px+cw, py+ch), image.NewUniform(bg), image.Point{}, draw.Src)

		if c.Artifact {
			artifacts++
		}
		if c.Glyph == ' ' {
			continue
		}

		drawer.Src = image.NewUniform(r.foreground(c))
		drawer.Dot = fixed.P(px, py+r.Font.Ascent)
		drawer.DrawString(string(c.Glyph))
	}

	return &Rendered{
		Image:          out,
		Width:          out.Bounds().Dx(),
		Height:         out.Bounds().Dy(),
		Cols:           cols,
		Rows:           rows,
		ArtifactGlyphs: artifacts,
	}, nil
}

// layout resolves the color, score and glyph of every cell in row-major order.
func (r *GlyphRenderer) layout(src *image.NRGBA, stream *TextStream, scores *artifact.ScoreMap, cols, rows int) ([]GlyphCell, error) {
	charset := []rune(r.Charset)
	if len(charset) == 0 {
		return nil, fmt.Errorf("empty glyph charset")
	}

	pixels, err := imaging.ResizeLanczos(src, cols, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to downsample image to grid: %w", err)
	}
	grid := scores.Resize(cols, rows)

	cells := make([]GlyphCell, 0, cols*rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := pixels.NRGBAAt(x, y)
			cell := GlyphCell{Col: x, Row: y, Color: c, Score: grid.At(x, y)}
			if cell.Score > r.ArtifactThreshold {
				cell.Glyph = stream.Next()
				cell.Artifact = true
			} else {
				cell.Glyph = densityGlyph(charset, imaging.Luminance(c.R, c.G, c.B)/255)
			}
			cells = append(cells, cell)
		}
	}
	return cells, nil
}

// foreground returns the boosted glyph color, blue-shifted for artifact cells.
func (r *GlyphRenderer) foreground(c GlyphCell) color.NRGBA {
	fg := imaging.Scale(c.Color, r.BrightnessBoost)
	if c.Artifact {
		fg.R = imaging.Clamp8(float32(fg.R) * 0.75)
		fg.B = imaging.Clamp8(float32(fg.B)*1.2 + 20)
	}
	return fg
}

// densityGlyph maps a brightness fraction in [0,1] onto the charset.
func densityGlyph(charset []rune, brightness float32) rune {
	n := len(charset)
	idx := int(math.Round(float64(brightness) * float64(n-1)))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return charset[idx]
}

package overlay

import (
	"image/color"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ironsheep/artifact-mask/internal/artifact"
)

func filledScoreMap(w, h int, v float32) *artifact.ScoreMap {
	m := artifact.NewScoreMap(w, h)
	for i := range m.Values {
		m.Values[i] = v
	}
	return m
}

func countColor(pix []byte, c color.NRGBA) int {
	n := 0
	for i := 0; i+3 < len(pix); i += 4 {
		if pix[i] == c.R && pix[i+1] == c.G && pix[i+2] == c.B {
			n++
		}
	}
	return n
}

func TestTextStream_Cyclic(t *testing.T) {
	s := NewTextStream([]string{"ab", "c"})
	want := []rune("ab c")

	if s.String() != "ab c" {
		t.Fatalf("stream: got %q, want %q", s.String(), "ab c")
	}
	for n := 1; n <= 11; n++ {
		got := s.Next()
		if got != want[(n-1)%len(want)] {
			t.Errorf("call %d: got %q, want %q", n, got, want[(n-1)%len(want)])
		}
	}
	if s.Emitted() != 11 {
		t.Errorf("Emitted: got %d, want 11", s.Emitted())
	}
}

func TestTextStream_Fallback(t *testing.T) {
	tests := []struct {
		name      string
		fragments []string
	}{
		{"nil", nil},
		{"empty slice", []string{}},
		{"empty fragment", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewTextStream(tt.fragments)
			if s.Len() == 0 {
				t.Fatal("stream is empty")
			}
			if s.String() != fallbackStream {
				t.Errorf("got %q, want %q", s.String(), fallbackStream)
			}
		})
	}
}

func TestDensityGlyph(t *testing.T) {
	charset := []rune(DefaultCharset)

	tests := []struct {
		name       string
		brightness float32
		want       rune
	}{
		{"black", 0, ' '},
		{"white", 1, '█'},
		{"middle rounds up", 0.5, '+'},
		{"below range", -0.3, ' '},
		{"above range", 1.7, '█'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := densityGlyph(charset, tt.brightness); got != tt.want {
				t.Errorf("densityGlyph(%v) = %q, want %q", tt.brightness, got, tt.want)
			}
		})
	}
}

func TestGridSize(t *testing.T) {
	r := NewGlyphRenderer(BitmapFont())

	tests := []struct {
		name       string
		w, h       int
		cols, rows int
	}{
		{"large image", 700, 390, 100, 30},
		{"small image uses fallback grid", 100, 100, 40, 30},
		{"narrow image", 100, 650, 40, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, rows := r.GridSize(tt.w, tt.h)
			if cols != tt.cols || rows != tt.rows {
				t.Errorf("GridSize(%d,%d) = %dx%d, want %dx%d", tt.w, tt.h, cols, rows, tt.cols, tt.rows)
			}
		})
	}
}

func TestRender_CleanImage(t *testing.T) {
	f := BitmapFont()
	r := NewGlyphRenderer(f)
	src := createUniformImage(64, 64, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	stream := NewTextStream([]string{"ab"})

	out, err := r.Render(src, stream, artifact.NewScoreMap(64, 64))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if out.Cols != 40 || out.Rows != 30 {
		t.Errorf("grid: got %dx%d, want 40x30", out.Cols, out.Rows)
	}
	if out.Width != 40*f.CellWidth || out.Height != 30*f.CellHeight {
		t.Errorf("size: got %dx%d, want %dx%d", out.Width, out.Height, 40*f.CellWidth, 30*f.CellHeight)
	}
	if out.ArtifactGlyphs != 0 || stream.Emitted() != 0 {
		t.Errorf("artifact glyphs: got %d (stream %d), want 0", out.ArtifactGlyphs, stream.Emitted())
	}

	bg := color.NRGBA{R: 80, G: 40, B: 20}
	fg := color.NRGBA{R: 255, G: 255, B: 140}
	if countColor(out.Image.Pix, bg) == 0 {
		t.Error("no background-tinted pixels")
	}
	if countColor(out.Image.Pix, fg) == 0 {
		t.Error("no brightness-boosted glyph pixels")
	}
}

func TestRender_ArtifactImage(t *testing.T) {
	r := NewGlyphRenderer(BitmapFont())
	src := createUniformImage(64, 64, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	stream := NewTextStream([]string{"ab"})

	out, err := r.Render(src, stream, filledScoreMap(64, 64, 1))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	cells := out.Cols * out.Rows
	if out.ArtifactGlyphs != cells {
		t.Errorf("artifact glyphs: got %d, want %d", out.ArtifactGlyphs, cells)
	}
	if stream.Emitted() != cells {
		t.Errorf("stream advanced %d times, want %d", stream.Emitted(), cells)
	}

	// (255,255,140) blue-shifted: R*0.75, B*1.2+20
	tinted := color.NRGBA{R: 191, G: 255, B: 188}
	if countColor(out.Image.Pix, tinted) == 0 {
		t.Error("no blue-shifted artifact glyph pixels")
	}
}

func TestRender_BlackImageIsBackgroundOnly(t *testing.T) {
	r := NewGlyphRenderer(BitmapFont())
	src := createUniformImage(50, 50, color.NRGBA{A: 255})

	out, err := r.Render(src, NewTextStream(nil), artifact.NewScoreMap(50, 50))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	total := out.Width * out.Height
	if got := countColor(out.Image.Pix, color.NRGBA{}); got != total {
		t.Errorf("black pixels: got %d, want %d", got, total)
	}
}

func TestRender_EmptyCharset(t *testing.T) {
	r := NewGlyphRenderer(BitmapFont())
	r.Charset = ""
	src := createUniformImage(10, 10, color.NRGBA{R: 1, A: 255})

	if _, err := r.Render(src, NewTextStream(nil), artifact.NewScoreMap(10, 10)); err == nil {
		t.Error("expected error for empty charset")
	}
}

func TestLoadFont_Fallback(t *testing.T) {
	f := LoadFont([]string{"/nonexistent/a.ttf", "/nonexistent/b.ttc"}, 11, zerolog.Nop())

	if f.Name != BuiltinMonoName {
		t.Errorf("Name: got %q, want %q", f.Name, BuiltinMonoName)
	}
	if f.CellWidth <= 0 {
		t.Errorf("CellWidth: got %d, want > 0", f.CellWidth)
	}
	if f.CellHeight != 11+cellPadding {
		t.Errorf("CellHeight: got %d, want %d", f.CellHeight, 11+cellPadding)
	}
	if f.Ascent <= 0 || f.Ascent > f.CellHeight {
		t.Errorf("Ascent: got %d", f.Ascent)
	}
}

func TestBitmapFont(t *testing.T) {
	f := BitmapFont()
	if f.CellWidth != 7 || f.CellHeight != 13 {
		t.Errorf("cell: got %dx%d, want 7x13", f.CellWidth, f.CellHeight)
	}
	if f.Name != BuiltinBitmapName {
		t.Errorf("Name: got %q", f.Name)
	}
}

package overlay

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
)

// DefaultFontCandidates lists monospace fonts commonly found on macOS and Linux,
// in order of preference.
var DefaultFontCandidates = []string{
	"/System/Library/Fonts/Menlo.ttc",
	"/System/Library/Fonts/Monaco.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSansMono-Bold.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSansMono.ttf",
}

// Font names reported for the built-in fallbacks.
const (
	BuiltinMonoName   = "builtin:gomono"
	BuiltinBitmapName = "builtin:basic7x13"
)

// cellPadding is added to the font size to get the glyph cell height.
const cellPadding = 3

// Font is a loaded glyph face together with its cell geometry.
//
// A Font is loaded once per pipeline run and is read-only afterwards. The
// underlying face is not safe for concurrent drawing.
type Font struct {
	// Face draws the glyphs.
	Face font.Face

	// Name is the path of the loaded font file, or one of the builtin names.
	Name string

	// CellWidth and CellHeight are the glyph cell size in pixels.
	CellWidth  int
	CellHeight int

	// Ascent is the distance from the top of a cell to the glyph baseline.
	Ascent int
}

// LoadFont returns the first loadable font from candidates at the given pixel size.
//
// Candidates that do not exist or fail to parse are skipped. When none can be
// used, the embedded Go Mono face is used, and if that fails too, the 7x13
// bitmap face. LoadFont never fails.
//
// TrueType collections (.ttc, .otc) use their first font.
func LoadFont(candidates []string, size float64, logger zerolog.Logger) *Font {
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Debug().Str("font", path).Err(err).Msg("font candidate unavailable")
			continue
		}
		f, err := newScalableFont(path, data, size)
		if err != nil {
			logger.Debug().Str("font", path).Err(err).Msg("font candidate rejected")
			continue
		}
		logger.Debug().Str("font", path).Int("cell_w", f.CellWidth).Int("cell_h", f.CellHeight).Msg("font loaded")
		return f
	}

	f, err := newScalableFont(BuiltinMonoName, gomono.TTF, size)
	if err == nil {
		logger.Debug().Str("font", f.Name).Msg("using builtin font")
		return f
	}
	logger.Warn().Err(err).Msg("builtin font failed, using bitmap face")
	return BitmapFont()
}

// BitmapFont returns the built-in 7x13 bitmap face.
func BitmapFont() *Font {
	face := basicfont.Face7x13
	return &Font{
		Face:       face,
		Name:       BuiltinBitmapName,
		CellWidth:  face.Advance,
		CellHeight: face.Height,
		Ascent:     face.Ascent,
	}
}

func newScalableFont(name string, data []byte, size float64) (*Font, error) {
	var (
		parsed *opentype.Font
		err    error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ttc", ".otc":
		var coll *opentype.Collection
		coll, err = opentype.ParseCollection(data)
		if err == nil {
			if coll.NumFonts() == 0 {
				return nil, fmt.Errorf("empty font collection")
			}
			parsed, err = coll.Font(0)
		}
	default:
		parsed, err = opentype.Parse(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face: %w", err)
	}

	width := cellWidth(face)
	if width <= 0 {
		face.Close()
		return nil, fmt.Errorf("font has no usable glyph width")
	}

	return &Font{
		Face:       face,
		Name:       name,
		CellWidth:  width,
		CellHeight: int(size) + cellPadding,
		Ascent:     face.Metrics().Ascent.Round(),
	}, nil
}

// cellWidth measures the right edge of a full block glyph, falling back to
// the advance of 'M' for faces without one.
func cellWidth(face font.Face) int {
	if _, ok := face.GlyphAdvance('█'); ok {
		bounds, _ := font.BoundString(face, "█")
		if w := bounds.Max.X.Ceil(); w > 0 {
			return w
		}
	}
	adv, ok := face.GlyphAdvance('M')
	if !ok {
		return 0
	}
	return adv.Ceil()
}

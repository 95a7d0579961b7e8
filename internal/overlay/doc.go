// Package overlay renders and composites the character overlay that masks
// artifact regions.
//
// # Layers
//
// The output is built from two layers of the same source image:
//
//   - a grain layer, the source with luminance-weighted Gaussian noise (Grain)
//   - a glyph layer, the source redrawn as a grid of colored characters
//     (GlyphRenderer)
//
// Compositor mixes them per pixel. The glyph layer's opacity follows the
// artifact score through a power curve (Blend), so clean regions keep the
// photo and smooth regions dissolve into text. A second, lighter grain pass
// unifies the result.
//
// # Glyph selection
//
// Cells with a score above the artifact threshold consume characters from a
// TextStream in row-major order. Other cells pick a glyph from the charset by
// brightness. The stream is created per render and never shared.
//
// # Fonts
//
// LoadFont walks an ordered list of font files and falls back to the embedded
// Go Mono face, then to a 7x13 bitmap face. A Font must not be used to draw
// from more than one goroutine at a time.
package overlay

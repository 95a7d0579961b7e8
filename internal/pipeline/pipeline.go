package pipeline

import (
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"github.com/ironsheep/artifact-mask/internal/artifact"
	"github.com/ironsheep/artifact-mask/internal/imaging"
	"github.com/ironsheep/artifact-mask/internal/overlay"
)

// Statistic thresholds reported in Stats.
const (
	highArtifactScore = 0.5
	visibleBlend      = 0.1
)

// Stats summarizes one pipeline run.
type Stats struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// MeanScore is the mean artifact score of the source image.
	MeanScore float64 `json:"mean_score"`

	// HighArtifactPct is the percentage of source pixels scoring above 0.5.
	HighArtifactPct float64 `json:"high_artifact_pct"`

	// ASCIIVisiblePct is the percentage of output pixels whose glyph layer
	// opacity exceeds 0.1.
	ASCIIVisiblePct float64 `json:"ascii_visible_pct"`

	ArtifactGlyphs int    `json:"artifact_glyphs"`
	Font           string `json:"font"`

	// Regions holds the mean score of each named region requested from
	// ScoreRegions.
	Regions map[string]float64 `json:"regions,omitempty"`

	// OutputPath and OutputBytes are set by ProcessFile.
	OutputPath  string `json:"output_path,omitempty"`
	OutputBytes int64  `json:"output_bytes,omitempty"`
}

// OutputKB returns the output size in whole kilobytes.
func (s *Stats) OutputKB() int64 {
	return s.OutputBytes / 1024
}

// Result is the output of Processor.Process.
type Result struct {
	Image *image.NRGBA
	Stats Stats
}

// Processor runs the artifact-mask pipeline.
//
// A Processor loads its font once and reuses it, so it must not run more
// than one image at a time.
type Processor struct {
	cfg    Config
	font   *overlay.Font
	logger zerolog.Logger
}

// New validates cfg and returns a Processor for it.
func New(cfg Config, logger zerolog.Logger) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Processor{
		cfg:    cfg,
		font:   overlay.LoadFont(cfg.FontCandidates, cfg.FontSize, logger),
		logger: logger,
	}, nil
}

// Config returns the processor's configuration.
func (p *Processor) Config() Config {
	return p.cfg
}

// FontName returns the name of the font the processor resolved.
func (p *Processor) FontName() string {
	return p.font.Name
}

func (p *Processor) detect(src *image.NRGBA) *artifact.Detection {
	det := p.cfg.detector().Detect(src)
	p.logger.Debug().
		Int("lit_blocks", det.Blocks.LitCount).
		Float32("p10", det.Blocks.P10).
		Float32("p90", det.Blocks.P90).
		Bool("degenerate", det.Blocks.Degenerate).
		Msg("block statistics")
	return det
}

// Score computes the artifact score map statistics for src without rendering.
func (p *Processor) Score(src *image.NRGBA) Stats {
	stats, _ := p.ScoreRegions(src, nil)
	return stats
}

// ScoreRegions is Score plus the mean score inside each named region (see
// imaging.RegionNames).
func (p *Processor) ScoreRegions(src *image.NRGBA, names []string) (Stats, error) {
	rects := make(map[string]image.Rectangle, len(names))
	for _, name := range names {
		r, err := imaging.NamedRegion(src.Bounds(), name)
		if err != nil {
			return Stats{}, err
		}
		rects[name] = r
	}

	det := p.detect(src)
	b := src.Bounds()
	stats := Stats{
		Width:           b.Dx(),
		Height:          b.Dy(),
		MeanScore:       det.Scores.Mean(),
		HighArtifactPct: det.Scores.FractionAbove(highArtifactScore) * 100,
		Regions:         make(map[string]float64, len(rects)),
	}
	for name, r := range rects {
		// Score map coordinates start at 0
		stats.Regions[name] = det.Scores.RegionMean(r.Sub(b.Min))
	}
	return stats, nil
}

// Process runs the full pipeline on src with the given text fragments.
// An empty fragment list uses DefaultFragments.
//
// # Steps
//
//  1. Score map from block gradient statistics.
//  2. First grain pass on the source.
//  3. Glyph overlay rendered from the source and the score map.
//  4. Per-pixel blend, optional effects, second grain pass.
//
// The output has the glyph grid's dimensions, which may differ slightly from
// the source.
func (p *Processor) Process(src *image.NRGBA, fragments []string) (*Result, error) {
	if len(fragments) == 0 {
		fragments = DefaultFragments
	}

	det := p.detect(src)
	mean := det.Scores.Mean()

	grained := p.cfg.grain().Apply(src)

	renderer := &overlay.GlyphRenderer{
		Font:              p.font,
		Charset:           p.cfg.Charset,
		BackgroundTint:    float32(p.cfg.BackgroundTint),
		BrightnessBoost:   float32(p.cfg.BrightnessBoost),
		ArtifactThreshold: float32(p.cfg.ArtifactThreshold),
	}
	glyphs, err := renderer.Render(src, overlay.NewTextStream(fragments), det.Scores)
	if err != nil {
		return nil, fmt.Errorf("failed to render glyph layer: %w", err)
	}
	p.logger.Debug().
		Int("cols", glyphs.Cols).
		Int("rows", glyphs.Rows).
		Int("artifact_glyphs", glyphs.ArtifactGlyphs).
		Msg("glyph grid")

	blend := p.cfg.blend()
	if p.cfg.Effects.Adaptive {
		blend = blend.Adapt(mean)
		p.logger.Debug().Float64("ascii_max", blend.Max).Float64("power", blend.Power).Msg("adaptive blend")
	}
	comp := overlay.Compositor{
		Blend:      blend,
		Effects:    p.cfg.effects(),
		FinalGrain: p.cfg.finalGrain(),
	}
	out, err := comp.Composite(grained, glyphs.Image, det.Scores)
	if err != nil {
		return nil, fmt.Errorf("failed to composite: %w", err)
	}

	return &Result{
		Image: out.Image,
		Stats: Stats{
			Width:           glyphs.Width,
			Height:          glyphs.Height,
			MeanScore:       mean,
			HighArtifactPct: det.Scores.FractionAbove(highArtifactScore) * 100,
			ASCIIVisiblePct: out.Blends.FractionAbove(visibleBlend) * 100,
			ArtifactGlyphs:  glyphs.ArtifactGlyphs,
			Font:            p.font.Name,
		},
	}, nil
}

// ProcessFile loads input, runs Process and saves the result to output.
func (p *Processor) ProcessFile(input, output string, fragments []string) (*Stats, error) {
	src, err := imaging.Load(input)
	if err != nil {
		return nil, err
	}

	res, err := p.Process(src, fragments)
	if err != nil {
		return nil, err
	}

	saved, err := imaging.Save(res.Image, output)
	if err != nil {
		return nil, err
	}

	stats := res.Stats
	stats.OutputPath = saved.Path
	stats.OutputBytes = saved.FileSizeBytes
	p.logger.Info().Str("input", input).Str("output", saved.Path).Int64("bytes", saved.FileSizeBytes).Msg("image processed")
	return &stats, nil
}

// ScoreFile loads input and returns its score statistics.
func (p *Processor) ScoreFile(input string) (*Stats, error) {
	src, err := imaging.Load(input)
	if err != nil {
		return nil, err
	}
	stats := p.Score(src)
	return &stats, nil
}

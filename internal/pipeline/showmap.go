package pipeline

import (
	"image"

	"github.com/anthonynsimon/bild/blend"

	"github.com/ironsheep/artifact-mask/internal/artifact"
	"github.com/ironsheep/artifact-mask/internal/imaging"
)

// heatOpacity is the weight of the heat layer over the source.
const heatOpacity = 0.5

// ScoreMapImage renders scores as a red (artifact) / blue (clean) heat map.
func ScoreMapImage(scores *artifact.ScoreMap) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, scores.Width, scores.Height))
	for y := 0; y < scores.Height; y++ {
		for x := 0; x < scores.Width; x++ {
			img.SetNRGBA(x, y, imaging.HeatColor(scores.At(x, y)))
		}
	}
	return img
}

// ShowMap renders the diagnostic view of src: its heat map blended 50/50
// with the source, plus the block grid when MapGridColor is set. The
// returned Stats carry the score statistics; MeanScore is the value the
// diagnostic reports.
func (p *Processor) ShowMap(src *image.NRGBA) (*image.NRGBA, Stats, error) {
	det := p.detect(src)
	heat := ScoreMapImage(det.Scores)

	mixed, err := imaging.ToRGB(blend.Opacity(src, heat, heatOpacity))
	if err != nil {
		return nil, Stats{}, err
	}
	if p.cfg.MapGridColor != "" {
		c, err := imaging.ParseHexColor(p.cfg.MapGridColor)
		if err != nil {
			return nil, Stats{}, err
		}
		imaging.DrawGrid(mixed, p.cfg.BlockSize, c)
	}
	b := mixed.Bounds()
	return mixed, Stats{
		Width:           b.Dx(),
		Height:          b.Dy(),
		MeanScore:       det.Scores.Mean(),
		HighArtifactPct: det.Scores.FractionAbove(highArtifactScore) * 100,
	}, nil
}

// ShowMapFile loads input and saves its diagnostic view to output.
func (p *Processor) ShowMapFile(input, output string) (*Stats, error) {
	src, err := imaging.Load(input)
	if err != nil {
		return nil, err
	}

	mixed, stats, err := p.ShowMap(src)
	if err != nil {
		return nil, err
	}

	saved, err := imaging.Save(mixed, output)
	if err != nil {
		return nil, err
	}
	stats.OutputPath = saved.Path
	stats.OutputBytes = saved.FileSizeBytes
	p.logger.Info().Str("input", input).Str("output", saved.Path).Float64("mean", stats.MeanScore).Msg("score map saved")
	return &stats, nil
}

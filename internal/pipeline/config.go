package pipeline

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/artifact-mask/internal/artifact"
	"github.com/ironsheep/artifact-mask/internal/imaging"
	"github.com/ironsheep/artifact-mask/internal/overlay"
)

// DefaultSidecarExt is appended to the input base name to find its sidecar.
const DefaultSidecarExt = ".yent.txt"

// Config holds every tunable of a pipeline run.
//
// The zero value is not usable; start from DefaultConfig and override.
type Config struct {
	// Detection
	BlockSize     int     `yaml:"block_size"`
	MinBrightness float64 `yaml:"min_brightness"`
	BlurScale     float64 `yaml:"blur_scale"`
	ScoreCurve    float64 `yaml:"score_curve"`

	// Glyph rendering
	FontSize          float64  `yaml:"font_size"`
	FontCandidates    []string `yaml:"font_candidates"`
	Charset           string   `yaml:"charset"`
	BackgroundTint    float64  `yaml:"background_tint"`
	BrightnessBoost   float64  `yaml:"brightness_boost"`
	ArtifactThreshold float64  `yaml:"artifact_threshold"`

	// Grain
	GrainIntensity float64 `yaml:"grain_intensity"`
	GrainSeed      int64   `yaml:"grain_seed"`
	FinalGrainSeed int64   `yaml:"final_grain_seed"`

	// Compositing
	ScorePower float64 `yaml:"score_power"`
	ASCIIFloor float64 `yaml:"ascii_floor"`
	ASCIIMax   float64 `yaml:"ascii_max"`

	SidecarExt string `yaml:"sidecar_ext"`

	// MapGridColor, when set, draws the detector block grid over the
	// show-map diagnostic in this hex color ("#RRGGBB" or "#RRGGBBAA").
	MapGridColor string `yaml:"map_grid_color"`

	Effects EffectsConfig `yaml:"effects"`
}

// EffectsConfig toggles the optional finishing passes.
type EffectsConfig struct {
	Adaptive       bool    `yaml:"adaptive"`
	ChromaticShift int     `yaml:"chromatic_shift"`
	Vignette       float64 `yaml:"vignette"`
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		BlockSize:         artifact.DefaultBlockSize,
		MinBrightness:     artifact.DefaultMinBrightness,
		BlurScale:         artifact.DefaultBlurScale,
		ScoreCurve:        artifact.DefaultCurve,
		FontSize:          11,
		FontCandidates:    append([]string(nil), overlay.DefaultFontCandidates...),
		Charset:           overlay.DefaultCharset,
		BackgroundTint:    overlay.DefaultBackgroundTint,
		BrightnessBoost:   overlay.DefaultBrightnessBoost,
		ArtifactThreshold: overlay.DefaultArtifactThreshold,
		GrainIntensity:    22,
		GrainSeed:         42,
		FinalGrainSeed:    137,
		ScorePower:        overlay.DefaultScorePower,
		ASCIIFloor:        overlay.DefaultASCIIFloor,
		ASCIIMax:          overlay.DefaultASCIIMax,
		SidecarExt:        DefaultSidecarExt,
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
// Keys missing from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting in c.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.BlockSize > 0, "block_size must be positive, got %d", c.BlockSize)
	check(c.MinBrightness >= 0 && c.MinBrightness < 255, "min_brightness must be in [0,255), got %v", c.MinBrightness)
	check(c.BlurScale >= 0, "blur_scale must not be negative, got %v", c.BlurScale)
	check(c.ScoreCurve > 0, "score_curve must be positive, got %v", c.ScoreCurve)
	check(c.FontSize > 0, "font_size must be positive, got %v", c.FontSize)
	check(len([]rune(c.Charset)) > 0, "charset must not be empty")
	check(c.BackgroundTint >= 0, "background_tint must not be negative, got %v", c.BackgroundTint)
	check(c.BrightnessBoost >= 0, "brightness_boost must not be negative, got %v", c.BrightnessBoost)
	check(c.ArtifactThreshold >= 0 && c.ArtifactThreshold <= 1, "artifact_threshold must be in [0,1], got %v", c.ArtifactThreshold)
	check(c.GrainIntensity >= 0, "grain_intensity must not be negative, got %v", c.GrainIntensity)
	check(c.ScorePower > 0, "score_power must be positive, got %v", c.ScorePower)
	check(c.ASCIIFloor >= 0 && c.ASCIIMax <= 1, "ascii_floor and ascii_max must be in [0,1]")
	check(c.ASCIIFloor <= c.ASCIIMax, "ascii_floor (%v) must not exceed ascii_max (%v)", c.ASCIIFloor, c.ASCIIMax)
	check(c.SidecarExt != "", "sidecar_ext must not be empty")
	if c.MapGridColor != "" {
		_, err := imaging.ParseHexColor(c.MapGridColor)
		check(err == nil, "map_grid_color: %v", err)
	}
	check(c.Effects.ChromaticShift >= 0, "effects.chromatic_shift must not be negative, got %d", c.Effects.ChromaticShift)
	check(c.Effects.Vignette >= 0 && c.Effects.Vignette <= 1, "effects.vignette must be in [0,1], got %v", c.Effects.Vignette)

	return errors.Join(errs...)
}

func (c Config) detector() artifact.Detector {
	return artifact.Detector{
		BlockSize:     c.BlockSize,
		MinBrightness: float32(c.MinBrightness),
		BlurScale:     c.BlurScale,
		Curve:         c.ScoreCurve,
	}
}

func (c Config) blend() overlay.Blend {
	return overlay.Blend{Floor: c.ASCIIFloor, Max: c.ASCIIMax, Power: c.ScorePower}
}

func (c Config) grain() overlay.Grain {
	return overlay.Grain{Intensity: c.GrainIntensity, Seed: c.GrainSeed}
}

// finalGrain is the second grain pass at half intensity, truncated to a
// whole number.
func (c Config) finalGrain() overlay.Grain {
	return overlay.Grain{Intensity: math.Trunc(c.GrainIntensity / 2), Seed: c.FinalGrainSeed}
}

func (c Config) effects() overlay.Effects {
	return overlay.Effects{ChromaticShift: c.Effects.ChromaticShift, Vignette: c.Effects.Vignette}
}

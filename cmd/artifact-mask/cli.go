package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ironsheep/artifact-mask/internal/imaging"
	"github.com/ironsheep/artifact-mask/internal/ocr"
	"github.com/ironsheep/artifact-mask/internal/pipeline"
	"github.com/ironsheep/artifact-mask/internal/server"
)

// logLevelEnv overrides the default log level when --log-level is not given.
const logLevelEnv = "ARTIFACT_MASK_LOG_LEVEL"

type options struct {
	showMap    bool
	scoreOnly  bool
	text       string
	configPath string
	logLevel   string
	ocrAudit   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "artifact-mask <input> [output]",
		Short: "Mask generation artifacts with a glyph overlay",
		Long: `artifact-mask finds regions of an image that are suspiciously smooth,
the way upscaled or generated images tend to be, and covers them with a
grid of text glyphs. Clean regions keep the original image.

Without an output path the result is written next to the input as
<input>_fixed.png. Overlay words come from --text, then from the
<input>.yent.txt sidecar, then from a built-in list.`,
		Args:          cobra.RangeArgs(1, 2),
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMask(cmd, opts, args)
		},
	}
	cmd.SetVersionTemplate(versionText())

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML config file overriding the defaults")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); default from "+logLevelEnv+" or warn")

	cmd.Flags().BoolVar(&opts.showMap, "show-map", false, "write the artifact heat map instead of the overlay")
	cmd.Flags().BoolVar(&opts.scoreOnly, "score-only", false, "print the artifact score without writing an output image")
	cmd.Flags().StringVar(&opts.text, "text", "", `overlay words separated by "|"`)
	cmd.Flags().BoolVar(&opts.ocrAudit, "ocr-audit", false, "check overlay legibility with OCR after writing")

	cmd.AddCommand(newServeCmd(opts), newVersionCmd())
	return cmd
}

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as an MCP server over stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol, so logs go to stderr only
			logger, err := newLogger(cmd.ErrOrStderr(), opts.logLevel)
			if err != nil {
				return err
			}
			proc, err := newProcessor(opts.configPath, logger)
			if err != nil {
				return err
			}

			logger.Debug().Str("version", Version).Str("built", BuildTime).Str("commit", GitCommit).Str("font", proc.FontName()).Msg("starting MCP server")
			server.ServerVersion = Version
			return server.New(proc, logger).Run()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), versionText())
		},
	}
}

func versionText() string {
	ocrBackend := "unavailable (build with -tags ocr)"
	if info := ocr.GetInfo(); info.Available {
		ocrBackend = strings.TrimSpace(info.Backend + " " + info.Version)
	}
	return fmt.Sprintf("artifact-mask %s\n  Build time: %s\n  Git commit: %s\n  OCR:        %s\n",
		Version, BuildTime, GitCommit, ocrBackend)
}

// newLogger writes human-readable logs to w at the requested level.
func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	if level == "" {
		level = os.Getenv(logLevelEnv)
	}
	if level == "" {
		level = zerolog.WarnLevel.String()
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(lvl).With().Timestamp().Logger(), nil
}

func newProcessor(configPath string, logger zerolog.Logger) (*pipeline.Processor, error) {
	cfg := pipeline.DefaultConfig()
	if configPath != "" {
		loaded, err := pipeline.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	return pipeline.New(cfg, logger)
}

func runMask(cmd *cobra.Command, opts *options, args []string) error {
	out := cmd.OutOrStdout()

	logger, err := newLogger(cmd.ErrOrStderr(), opts.logLevel)
	if err != nil {
		return err
	}
	proc, err := newProcessor(opts.configPath, logger)
	if err != nil {
		return err
	}

	logger.Debug().Str("font", proc.FontName()).Msg("processor ready")

	input := args[0]
	if opts.scoreOnly {
		if len(args) > 1 {
			return errors.New("--score-only takes no output path")
		}
		stats, err := proc.ScoreFile(input)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  Score: mean=%.2f, high-artifact=%.1f%%\n", stats.MeanScore, stats.HighArtifactPct)
		return nil
	}

	output := pipeline.DefaultOutputPath(input)
	if len(args) > 1 {
		output = args[1]
	}

	if opts.showMap {
		stats, err := proc.ShowMapFile(input, output)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  Score: mean=%.2f, high-artifact=%.1f%%\n", stats.MeanScore, stats.HighArtifactPct)
		fmt.Fprintf(out, "  Score map saved: %s\n", stats.OutputPath)
		return nil
	}

	fragments, err := resolveFragments(out, input, opts.text, proc.Config().SidecarExt)
	if err != nil {
		return err
	}

	stats, err := proc.ProcessFile(input, output, fragments)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  Score: mean=%.2f, high-artifact=%.1f%%\n", stats.MeanScore, stats.HighArtifactPct)
	fmt.Fprintf(out, "  ASCII visible: %.0f%% of image, saved: %s (%dKB)\n", stats.ASCIIVisiblePct, stats.OutputPath, stats.OutputKB())

	if opts.ocrAudit {
		if len(fragments) == 0 {
			fragments = pipeline.DefaultFragments
		}
		return runAudit(out, logger, stats.OutputPath, fragments)
	}
	return nil
}

// resolveFragments picks the overlay words: --text, then the sidecar file.
// A nil result lets the processor fall back to its built-in list.
func resolveFragments(out io.Writer, input, text, sidecarExt string) ([]string, error) {
	if text != "" {
		return pipeline.ParseTextFlag(text), nil
	}

	path := pipeline.SidecarPath(input, sidecarExt)
	words, err := pipeline.LoadSidecar(path)
	if err != nil {
		return nil, err
	}
	if len(words) > 0 {
		fmt.Fprintf(out, "  Loaded words from %s: %v\n", path, words)
	}
	return words, nil
}

func runAudit(out io.Writer, logger zerolog.Logger, path string, fragments []string) error {
	img, err := imaging.Load(path)
	if err != nil {
		return err
	}

	res, err := ocr.Audit(img, fragments, ocr.Options{})
	if errors.Is(err, ocr.ErrUnavailable) {
		logger.Warn().Err(err).Msg("skipping OCR audit")
		return nil
	}
	if err != nil {
		return fmt.Errorf("ocr audit: %w", err)
	}

	fmt.Fprintf(out, "  OCR legibility: %.0f%% (%d words matched)\n", res.Legibility*100, len(res.Matched))
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skijump/pkg/config"
	"github.com/matzehuels/skijump/pkg/errors"
	"github.com/matzehuels/skijump/pkg/pipeline"
)

// stdoutPath makes render write a single artifact to standard output.
const stdoutPath = "-"

// =============================================================================
// Shared Flags
// =============================================================================

// leaderboardFlags holds the input and ranking flags shared by render, rank
// and browse.
type leaderboardFlags struct {
	demo           bool
	metric         string
	higherIsBetter bool
	maxEntries     int
	seed           uint64
}

func (f *leaderboardFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.BoolVar(&f.demo, "demo", false, "use the built-in demo dataset")
	fl.StringVar(&f.metric, "metric", pipeline.DefaultMetricLabel, "metric label shown in captions")
	fl.BoolVar(&f.higherIsBetter, "higher-is-better", false, "rank higher values first (default: lower is better)")
	fl.IntVar(&f.maxEntries, "max", pipeline.DefaultMaxEntries, "maximum number of entrants shown")
	fl.Uint64Var(&f.seed, "seed", pipeline.DefaultSeed, "seed for placement jitter and snowfall")
}

// options starts from the config file's render section and applies every
// flag the user set explicitly. Without an input file the demo dataset is used.
func (f *leaderboardFlags) options(cmd *cobra.Command, cfg config.Config, args []string) (pipeline.Options, error) {
	opts := cfg.Render.Options()

	switch {
	case f.demo && len(args) > 0:
		return opts, errors.New(errors.ErrCodeInvalidInput, "--demo cannot be combined with an input file")
	case len(args) > 0:
		opts.Input = args[0]
	default:
		opts.Demo = true
	}

	changed := cmd.Flags().Changed
	if changed("metric") {
		opts.MetricLabel = f.metric
	}
	if changed("higher-is-better") {
		opts.HigherIsBetter = f.higherIsBetter
	}
	if changed("max") {
		opts.MaxEntries = f.maxEntries
	}
	if changed("seed") {
		opts.Seed = pipeline.SeedOf(f.seed)
	}
	return opts, nil
}

// renderFlags adds the presentation and output flags of the render command.
type renderFlags struct {
	leaderboardFlags

	output      string
	formats     string
	title       string
	subtitle    string
	avatarSize  int
	noRank      bool
	embedImages bool
	pngScale    float64
	noCache     bool
	refresh     bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	f.leaderboardFlags.register(cmd)

	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "output file (single format), base path (multiple) or - for stdout")
	fl.StringVarP(&f.formats, "format", "f", "", "output format(s): html (default), svg, json, png, pdf (comma-separated)")
	fl.StringVar(&f.title, "title", "", "headline above the ramp")
	fl.StringVar(&f.subtitle, "subtitle", "", "line under the headline")
	fl.IntVar(&f.avatarSize, "avatar-size", pipeline.DefaultAvatarSize, "avatar diameter in pixels")
	fl.BoolVar(&f.noRank, "no-rank", false, "hide rank badges")
	fl.BoolVar(&f.embedImages, "embed-images", false, "inline remote avatars as data URIs")
	fl.Float64Var(&f.pngScale, "png-scale", pipeline.DefaultPNGScale, "PNG resolution multiplier")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fl.BoolVar(&f.refresh, "refresh", false, "re-render even if a cached artifact exists")
}

func (f *renderFlags) options(cmd *cobra.Command, cfg config.Config, args []string) (pipeline.Options, error) {
	opts, err := f.leaderboardFlags.options(cmd, cfg, args)
	if err != nil {
		return opts, err
	}

	changed := cmd.Flags().Changed
	switch {
	case changed("format"):
		opts.Formats = pipeline.ParseFormats(f.formats)
	case f.output != "" && f.output != stdoutPath:
		if format := pipeline.FormatFromPath(f.output); format != "" {
			opts.Formats = []string{format}
		}
	}
	if changed("title") {
		opts.Title = f.title
	}
	if changed("subtitle") {
		opts.Subtitle = f.subtitle
	}
	if changed("avatar-size") {
		opts.AvatarSize = f.avatarSize
	}
	if changed("no-rank") {
		opts.HideRank = f.noRank
	}
	if changed("embed-images") {
		opts.EmbedImages = f.embedImages
	}
	if changed("png-scale") {
		opts.PNGScale = f.pngScale
	}
	opts.Refresh = f.refresh
	return opts, nil
}

// =============================================================================
// Render Command
// =============================================================================

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a leaderboard from a CSV or XLSX file",
		Long: `Render a leaderboard from a CSV or XLSX file.

The input needs three columns: a name, a numeric value and an avatar image
(headers 이름/값/사진URL or name/value/image). Rows without a name or with a
non-numeric value are skipped. Without a file, the demo dataset is rendered.

Entrants are ranked (lower values first unless --higher-is-better), the top
--max are placed along the ramp, and the result is written as HTML, SVG,
JSON, PNG or PDF. PNG and PDF need rsvg-convert.

Results are cached locally for faster subsequent runs.`,
		Example: `  skijump render --demo -o demo.html
  skijump render calls.xlsx -f html,svg --max 10
  skijump render scores.csv --higher-is-better --metric "Points" -o - -f json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, cfg, args)
			if err != nil {
				return err
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, cfg, flags.output, flags.noCache)
		},
	}

	flags.register(cmd)
	return cmd
}

// runRender executes the pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, cfg config.Config, output string, noCache bool) error {
	if output == stdoutPath && len(opts.Formats) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "writing to stdout requires a single format, got %s", strings.Join(opts.Formats, ","))
	}

	runner, err := c.newRunner(ctx, cfg.Cache, noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	ctx = withLogger(ctx, c.Logger)
	prog := newProgress(loggerFromContext(ctx))

	spinner := newSpinnerWithContext(ctx, "Rendering leaderboard...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if output == stdoutPath {
		_, err := os.Stdout.Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     opts.Input,
		output:    output,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Wrote %d file(s)", len(paths)))

	printSuccess("Rendered %d entrants", result.Stats.Shown)
	printStats(result.Stats, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	if result.Stats.Shown == 0 {
		printWarning("No valid rows: the stage is empty")
	}
	if len(paths) > 0 && strings.HasSuffix(paths[0], pipeline.FormatExtensions[pipeline.FormatHTML]) {
		printNewline()
		printNextStep("Open in a browser", "open "+paths[0])
	}
	return nil
}

// =============================================================================
// Artifact Output
// =============================================================================

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes one file per format and returns the paths written,
// in format order.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	paths := make([]string, 0, len(p.formats))
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			return paths, errors.New(errors.ErrCodeInternal, "no %s artifact was rendered", format)
		}

		path := outputPath(p.input, p.output, format, len(p.formats) == 1)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath returns the file for one format. A single-format render writes
// to -o as given (adding the extension if it has none); multiple formats
// share the -o base path.
func outputPath(input, output, format string, single bool) string {
	ext := pipeline.FormatExtensions[format]
	if single && output != "" {
		if filepath.Ext(output) == "" {
			return output + ext
		}
		return output
	}
	return basePath(input, output) + ext
}

// basePath returns the output path without extension: -o stripped of its
// extension, else the input file name in the working directory.
func basePath(input, output string) string {
	if output != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	if input == "" {
		return defaultBaseName
	}
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Package pipeline runs the load → rank → place → render pipeline.
//
// The CLI and the HTTP server both drive renders through a [Runner], so
// defaults, validation and caching behave the same at every entry point.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: read a CSV/XLSX table (file, upload bytes, or the demo dataset)
//     and resolve the required columns
//  2. Rank: coerce values, drop invalid rows, sort and truncate
//  3. Place: normalize, jitter and position records on the ramp
//  4. Render: produce HTML, SVG, JSON, PNG or PDF artifacts
//
// Load errors (INGESTION, SCHEMA) stop the run before ranking. Rows with a
// missing name or a non-numeric value are dropped silently and counted in
// [Stats].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "calls.xlsx",
//	    Formats: []string{"html", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	html := result.Artifacts["html"]
package pipeline

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skijump/pkg/cache"
	"github.com/matzehuels/skijump/pkg/errors"
	"github.com/matzehuels/skijump/pkg/leaderboard"
	"github.com/matzehuels/skijump/pkg/render/stage"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultMaxEntries is the number of entrants shown when unset.
	DefaultMaxEntries = 20

	// MinMaxEntries and MaxMaxEntries bound Options.MaxEntries.
	MinMaxEntries = 1
	MaxMaxEntries = 40

	// DefaultAvatarSize is the avatar diameter in pixels.
	DefaultAvatarSize = stage.DefaultAvatarSize

	// MinAvatarSize and MaxAvatarSize bound Options.AvatarSize.
	MinAvatarSize = 28
	MaxAvatarSize = 72

	// DefaultSeed seeds placement jitter and snowfall.
	DefaultSeed = leaderboard.DefaultSeed

	// DefaultPNGScale renders PNGs at 2x resolution.
	DefaultPNGScale = 2.0

	// DefaultMetricLabel is the metric caption used when none is given.
	DefaultMetricLabel = stage.DefaultMetricLabel
)

// Format constants for output formats.
const (
	FormatHTML = "html"
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatHTML: true,
	FormatSVG:  true,
	FormatJSON: true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// FormatExtensions maps each format to its file extension.
var FormatExtensions = map[string]string{
	FormatHTML: ".html",
	FormatSVG:  ".svg",
	FormatJSON: ".json",
	FormatPNG:  ".png",
	FormatPDF:  ".pdf",
}

// FormatContentTypes maps each format to its HTTP Content-Type.
var FormatContentTypes = map[string]string{
	FormatHTML: "text/html; charset=utf-8",
	FormatSVG:  "image/svg+xml",
	FormatJSON: "application/json",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one render.
// This struct supports JSON serialization so a render can be described in a
// config file or request body.
type Options struct {
	// Input options. Exactly one source is used, in this order: Data (with
	// Filename), Input, Demo.
	Input    string `json:"input,omitempty"`
	Data     []byte `json:"-"`
	Filename string `json:"filename,omitempty"`
	Demo     bool   `json:"demo,omitempty"`

	// Ranking options
	HigherIsBetter bool   `json:"higher_is_better,omitempty"` // default: lower values rank first
	MaxEntries     int    `json:"max_entries,omitempty"`
	Seed           *uint64 `json:"seed,omitempty"` // nil: DefaultSeed; zero is a valid seed

	// Render options
	Formats     []string  `json:"formats,omitempty"`
	MetricLabel string    `json:"metric_label,omitempty"`
	Title       string    `json:"title,omitempty"`
	Subtitle    string    `json:"subtitle,omitempty"`
	AvatarSize  int       `json:"avatar_size,omitempty"`
	HideRank    bool      `json:"hide_rank,omitempty"` // default: rank badges shown
	EmbedImages bool      `json:"embed_images,omitempty"`
	PNGScale    float64   `json:"png_scale,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
	Refresh     bool      `json:"refresh,omitempty"`

	// UploadAction adds an upload form to HTML output (server only).
	UploadAction string `json:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies this run in logs and responses.
	ID string

	// TableHash is the content hash of the loaded table.
	TableHash string

	// Placed holds the ranked and positioned records.
	Placed []leaderboard.PlacedRecord

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains row counts and timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows       int // non-blank data rows in the table
	Valid      int // rows with a name and a numeric value
	Shown      int // rows placed on the ramp after truncation
	Embedded   int // avatar images inlined as data URIs
	LoadTime   time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// Dropped returns the number of rows that failed validation.
func (s Stats) Dropped() int { return s.Rows - s.Valid }

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: html, svg, json, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, trimming and
// lowercasing each entry and dropping duplicates.
func ParseFormats(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// FormatFromPath infers an output format from a file extension.
// It returns "" if the extension is not recognized.
func FormatFromPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	for format, e := range FormatExtensions {
		if e == ext {
			return format
		}
	}
	return ""
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that an input source is set.
func (o *Options) ValidateForLoad() error {
	o.setLogger()
	switch {
	case o.Data != nil:
		return errors.ValidateUploadFilename(o.Filename)
	case o.Input != "", o.Demo:
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidInput, "an input file or the demo dataset is required")
	}
}

// SetBuildDefaults sets default values for ranking and placement.
func (o *Options) SetBuildDefaults() {
	if o.MaxEntries == 0 {
		o.MaxEntries = DefaultMaxEntries
	}
	if o.Seed == nil {
		o.Seed = SeedOf(DefaultSeed)
	}
	o.setLogger()
}

// ValidateForBuild validates and sets defaults for ranking and placement.
func (o *Options) ValidateForBuild() error {
	o.SetBuildDefaults()
	if o.MaxEntries < MinMaxEntries || o.MaxEntries > MaxMaxEntries {
		return errors.New(errors.ErrCodeInvalidInput, "max entries must be between %d and %d, got %d",
			MinMaxEntries, MaxMaxEntries, o.MaxEntries)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatHTML}
	}
	if o.MetricLabel == "" {
		o.MetricLabel = DefaultMetricLabel
	}
	if o.AvatarSize == 0 {
		o.AvatarSize = DefaultAvatarSize
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = time.Now().Truncate(time.Minute)
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.AvatarSize < MinAvatarSize || o.AvatarSize > MaxAvatarSize {
		return errors.New(errors.ErrCodeInvalidInput, "avatar size must be between %d and %d, got %d",
			MinAvatarSize, MaxAvatarSize, o.AvatarSize)
	}
	if o.PNGScale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "png scale must be positive, got %g", o.PNGScale)
	}
	return ValidateFormats(o.Formats)
}

// LowerIsBetter reports whether lower values rank first.
func (o *Options) LowerIsBetter() bool { return !o.HigherIsBetter }

// ShowRank reports whether rank badges are drawn.
func (o *Options) ShowRank() bool { return !o.HideRank }

// SeedValue returns the configured seed, or DefaultSeed when unset.
func (o *Options) SeedValue() uint64 {
	if o.Seed == nil {
		return DefaultSeed
	}
	return *o.Seed
}

// SeedOf returns a pointer to seed for use in Options.
func SeedOf(seed uint64) *uint64 { return &seed }

// SourceName describes the input for logs and hooks.
func (o *Options) SourceName() string {
	switch {
	case o.Data != nil:
		return o.Filename
	case o.Input != "":
		return o.Input
	default:
		return "demo"
	}
}

// LeaderboardConfig returns the ranking configuration for this render.
func (o *Options) LeaderboardConfig() leaderboard.Config {
	return leaderboard.Config{
		LowerIsBetter: o.LowerIsBetter(),
		MaxEntries:    o.MaxEntries,
		Seed:          o.SeedValue(),
	}
}

// StageOptions returns the presentation options for this render.
func (o *Options) StageOptions() stage.Options {
	return stage.Options{
		Title:        o.Title,
		Subtitle:     o.Subtitle,
		MetricLabel:  o.MetricLabel,
		AvatarSize:   o.AvatarSize,
		ShowRank:     o.ShowRank(),
		UpdatedAt:    o.UpdatedAt,
		Seed:         o.SeedValue(),
		UploadAction: o.UploadAction,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:        format,
		MetricLabel:   o.MetricLabel,
		Title:         o.Title,
		Subtitle:      o.Subtitle,
		LowerIsBetter: o.LowerIsBetter(),
		AvatarSize:    o.AvatarSize,
		ShowRank:      o.ShowRank(),
		MaxEntries:    o.MaxEntries,
		Seed:          o.SeedValue(),
		EmbedImages:   o.EmbedImages,
		PNGScale:      o.PNGScale,
		UploadAction:  o.UploadAction,
		UpdatedAt:     o.UpdatedAt.Format(time.RFC3339),
	}
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

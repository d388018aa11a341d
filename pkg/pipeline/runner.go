package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/skijump/pkg/avatar"
	"github.com/matzehuels/skijump/pkg/cache"
	"github.com/matzehuels/skijump/pkg/leaderboard"
	"github.com/matzehuels/skijump/pkg/observability"
	"github.com/matzehuels/skijump/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, image fetcher and logger;
// it doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Images *avatar.Fetcher
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	images := avatar.NewFetcher(c, logger)
	images.Keyer = keyer
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Images: images,
		Logger: logger,
	}
}

// Execute runs the complete load → rank → place → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		ID:        uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	logger := opts.Logger.With("run", result.ID[:8])

	// Stage 1: Load
	loadStart := time.Now()
	table, entries, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Rows = len(entries)
	if h, err := cache.HashJSON(table); err == nil {
		result.TableHash = h
	}

	logger.Info("loaded table",
		"source", opts.SourceName(),
		"rows", result.Stats.Rows,
		"duration", result.Stats.LoadTime)

	// Stages 2-3: Rank and place
	buildStart := time.Now()
	placed, valid := r.Build(ctx, entries, opts)
	result.Placed = placed
	result.Stats.Valid = valid
	result.Stats.Shown = len(placed)
	result.Stats.BuildTime = time.Since(buildStart)

	if dropped := result.Stats.Dropped(); dropped > 0 {
		logger.Debug("dropped invalid rows", "count", dropped)
	}
	logger.Info("placed entrants",
		"shown", result.Stats.Shown,
		"valid", result.Stats.Valid,
		"duration", result.Stats.BuildTime)

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, hit, embedded, err := r.RenderWithCacheInfo(ctx, result.TableHash, placed, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit
	result.Stats.Embedded = embedded
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the input table and resolves its entries.
func (r *Runner) Load(ctx context.Context, opts Options) (*source.Table, []leaderboard.Entry, error) {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, observability.StageLoad)
	start := time.Now()

	table, err := Load(opts)
	var entries []leaderboard.Entry
	if err == nil {
		entries, err = table.Entries()
	}

	hooks.OnStageComplete(ctx, observability.StageLoad, len(entries), time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	return table, entries, nil
}

// Build ranks and places entries, reporting each step to the pipeline hooks.
// It returns the placed records and the number of valid entries.
func (r *Runner) Build(ctx context.Context, entries []leaderboard.Entry, opts Options) ([]leaderboard.PlacedRecord, int) {
	opts.SetBuildDefaults()
	cfg := opts.LeaderboardConfig()
	hooks := observability.Pipeline()

	hooks.OnStageStart(ctx, observability.StageRank)
	start := time.Now()
	ranked := leaderboard.Rank(entries, cfg)
	hooks.OnStageComplete(ctx, observability.StageRank, len(ranked), time.Since(start), nil)

	hooks.OnStageStart(ctx, observability.StagePlace)
	start = time.Now()
	placed := leaderboard.Place(ranked, cfg.LowerIsBetter, leaderboard.NewRNG(cfg.Seed))
	hooks.OnStageComplete(ctx, observability.StagePlace, len(placed), time.Since(start), nil)

	return placed, len(leaderboard.Valid(entries))
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info and the number of embedded avatar images.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, tableHash string, placed []leaderboard.PlacedRecord, opts Options) (map[string][]byte, bool, int, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, 0, err
	}

	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, observability.StageRender)
	start := time.Now()

	artifacts, hit, embedded, err := r.render(ctx, tableHash, placed, opts)

	hooks.OnStageComplete(ctx, observability.StageRender, len(artifacts), time.Since(start), err)
	return artifacts, hit, embedded, err
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, tableHash string, placed []leaderboard.PlacedRecord, opts Options) (map[string][]byte, error) {
	artifacts, _, _, err := r.RenderWithCacheInfo(ctx, tableHash, placed, opts)
	return artifacts, err
}

func (r *Runner) render(ctx context.Context, tableHash string, placed []leaderboard.PlacedRecord, opts Options) (map[string][]byte, bool, int, error) {
	cacheable := tableHash != "" && !opts.Refresh

	// Try to get all formats from cache
	if cacheable {
		artifacts := make(map[string][]byte)
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(tableHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, 0, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	embedded := 0
	if opts.EmbedImages {
		placed, embedded = r.Images.Embed(ctx, placed)
		opts.Logger.Debug("embedded avatars", "count", embedded)
	}

	rendered, err := Render(ctx, placed, opts)
	if err != nil {
		return nil, false, embedded, err
	}

	if tableHash != "" {
		for format, data := range rendered {
			key := r.Keyer.ArtifactKey(tableHash, opts.ArtifactKeyOpts(format))
			if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
				opts.Logger.Warn("cache write failed", "format", format, "err", err)
				continue
			}
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, embedded, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

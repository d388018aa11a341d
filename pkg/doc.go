// Package pkg provides the core libraries for Skijump leaderboards.
//
// # Overview
//
// Skijump turns a table of names, numbers and avatar images into a ski-jump
// scene: the best performer sits highest on the ramp, everyone else spreads
// down the curve behind them. The pkg directory is organized into three areas:
//
//  1. Domain logic ([leaderboard], [source], [render/stage])
//  2. Orchestration ([pipeline], [config])
//  3. Infrastructure ([cache], [httputil], [avatar], [observability], [errors])
//
// # Architecture
//
// The typical data flow through Skijump:
//
//	CSV / XLSX / demo dataset
//	         ↓
//	    [source] package (parse table, resolve 이름/값/사진URL columns)
//	         ↓
//	    [leaderboard] package (coerce, rank, normalize, jitter, place on curve)
//	         ↓
//	    [render/stage] package (HTML, SVG, JSON)  →  [render] (PNG, PDF)
//
// # Quick Start
//
// Rank and place a table, then render it as SVG:
//
//	table, _ := source.Load("calls.xlsx")
//	entries, _ := table.Entries()
//
//	placed := leaderboard.Build(entries, leaderboard.Config{
//	    LowerIsBetter: true,
//	    MaxEntries:    20,
//	    Seed:          42,
//	})
//
//	svg := stage.RenderSVG(placed, stage.Options{MetricLabel: "평균 콜 시간 (분)"})
//
// Or let the pipeline do all of it, with caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{Input: "calls.xlsx"})
//
// # Main Packages
//
// [leaderboard] - Value coercion, stable ranking with truncation, min-max
// normalization, seeded jitter and placement on the quadratic Bézier ramp.
//
// [source] - CSV and XLSX loading, column aliases and the built-in demo
// dataset. Ingestion and schema failures are reported here.
//
// [render/stage] - The ski-jump scene as HTML (CSS snowfall), SVG and JSON.
//
// [render] - SVG to PDF/PNG conversion through rsvg-convert.
//
// [pipeline] - Load → rank → place → render used by both the CLI and the
// HTTP server, with validation, defaults and artifact caching.
//
// [config] - TOML and YAML config files for render defaults, cache backend
// and server settings.
//
// [cache] - File, Redis and no-op caches plus key derivation.
//
// [avatar] - Concurrent fetching of remote avatars into data URIs.
//
// [httputil] - HTTP client with retries, size limits and hooks.
//
// [observability] - Hook interfaces for pipeline, cache and HTTP events.
//
// [errors] - Structured error codes shared by every entry point.
//
// # Testing
//
// Run tests:
//
//	go test ./...                        # All tests
//	go test ./pkg/leaderboard/...        # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// [leaderboard]: https://pkg.go.dev/github.com/matzehuels/skijump/pkg/leaderboard
// [source]: https://pkg.go.dev/github.com/matzehuels/skijump/pkg/source
// [render/stage]: https://pkg.go.dev/github.com/matzehuels/skijump/pkg/render/stage
// [render]: https://pkg.go.dev/github.com/matzehuels/skijump/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/skijump/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/skijump/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/skijump/pkg/cache
// [avatar]: https://pkg.go.dev/github.com/matzehuels/skijump/pkg/avatar
// [httputil]: https://pkg.go.dev/github.com/matzehuels/skijump/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/skijump/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/skijump/pkg/errors
package pkg

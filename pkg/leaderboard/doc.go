// Package leaderboard ranks entrants by a numeric metric and places them along
// the ski jump ramp.
//
// # Overview
//
// The package is the deterministic core of skijump. It has two stages:
//
//  1. [Rank]: coerce raw values, drop invalid rows, stable-sort by the
//     configured direction, truncate, and assign dense 1-based ranks.
//  2. [Place]: normalize values to [0,1] so that better entrants sit closer
//     to 1, add a small seeded jitter, clamp, and evaluate the [SkiRamp]
//     Bézier curve to obtain canvas coordinates.
//
// [Build] runs both stages with a fresh generator from [NewRNG].
//
// # Determinism
//
// For a fixed input, [Config], and seed, [Build] returns bit-identical ranks,
// curve parameters and points. The jitter generator is created per render
// and drawn exactly once per record in ranked order, so changing iteration
// order changes the output.
//
//	cfg := leaderboard.Config{LowerIsBetter: true, MaxEntries: 20, Seed: 42}
//	placed := leaderboard.Build(entries, cfg)
//	for _, p := range placed {
//	    fmt.Printf("#%d %s (%.1f) at %.1f,%.1f\n", p.Rank, p.Name, p.Value, p.Point.X, p.Point.Y)
//	}
package leaderboard

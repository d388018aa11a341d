package leaderboard

import "math/rand/v2"

// Placement constants. Raw values are rescaled into [Margin, 1-Margin] before
// jitter so points stay off the ends of the ramp, then clamped.
const (
	Scale     = 0.9
	Margin    = 0.05
	JitterMax = 0.01
	MinT      = 0.02
	MaxT      = 0.98
)

// NewRNG returns a fresh generator for one render. Each call with the same
// seed yields the same stream.
func NewRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Normalize maps values to [0,1] so that better values are closer to 1
// regardless of direction. If all values are equal every record gets 0.5.
func Normalize(ranked []RankedRecord, lowerIsBetter bool) []float64 {
	out := make([]float64, len(ranked))
	if len(ranked) == 0 {
		return out
	}

	vmin, vmax := ranked[0].Value, ranked[0].Value
	for _, r := range ranked[1:] {
		vmin = min(vmin, r.Value)
		vmax = max(vmax, r.Value)
	}

	span := vmax - vmin
	for i, r := range ranked {
		switch {
		case span == 0:
			out[i] = 0.5
		case lowerIsBetter:
			out[i] = (vmax - r.Value) / span
		default:
			out[i] = (r.Value - vmin) / span
		}
	}
	return out
}

// Jitter draws one offset in [-JitterMax, JitterMax) from rng.
func Jitter(rng *rand.Rand) float64 {
	return (rng.Float64() - 0.5) * 2 * JitterMax
}

// CurveParam converts a normalized value and jitter offset into the final
// curve parameter, clamped to [MinT, MaxT].
func CurveParam(raw, jitter float64) float64 {
	return min(max(raw*Scale+Margin+jitter, MinT), MaxT)
}

// Place positions ranked records on [SkiRamp].
//
// rng is drawn exactly once per record, in order, so the jitter assigned to a
// record depends on its position in ranked. Empty input yields empty output.
func Place(ranked []RankedRecord, lowerIsBetter bool, rng *rand.Rand) []PlacedRecord {
	return PlaceOn(SkiRamp, ranked, lowerIsBetter, rng)
}

// PlaceOn is [Place] against an arbitrary curve.
func PlaceOn(c Curve, ranked []RankedRecord, lowerIsBetter bool, rng *rand.Rand) []PlacedRecord {
	raw := Normalize(ranked, lowerIsBetter)
	placed := make([]PlacedRecord, len(ranked))
	for i, r := range ranked {
		t := CurveParam(raw[i], Jitter(rng))
		placed[i] = PlacedRecord{
			RankedRecord: r,
			Raw:          raw[i],
			T:            t,
			Point:        c.At(t),
		}
	}
	return placed
}

// Build ranks entries and places them with a generator seeded from cfg.Seed.
// Zero is an ordinary seed.
func Build(entries []Entry, cfg Config) []PlacedRecord {
	return Place(Rank(entries, cfg), cfg.LowerIsBetter, NewRNG(cfg.Seed))
}

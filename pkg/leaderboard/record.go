package leaderboard

// Logical canvas size in which placed points are expressed.
const (
	CanvasWidth  = 1000.0
	CanvasHeight = 560.0
)

// DefaultSeed is the jitter seed callers use when none is configured.
const DefaultSeed = uint64(42)

// Entry is one raw input row. RawValue is still text; it is coerced by [Rank].
type Entry struct {
	Name     string
	RawValue string
	ImageRef string
}

// Record is an entrant whose value has been coerced to a number.
type Record struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	ImageRef string  `json:"image,omitempty"`
}

// RankedRecord is a Record with its dense 1-based rank.
type RankedRecord struct {
	Record
	Rank int `json:"rank"`
}

// Point is a coordinate on the logical canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlacedRecord is a RankedRecord positioned on the ramp.
//
// Raw is the normalized value before jitter and rescaling; T is the final
// curve parameter in [MinT, MaxT].
type PlacedRecord struct {
	RankedRecord
	Raw   float64 `json:"raw"`
	T     float64 `json:"t"`
	Point Point   `json:"point"`
}

// Config is the immutable ranking configuration for a single render.
type Config struct {
	LowerIsBetter bool
	MaxEntries    int
	Seed          uint64
}

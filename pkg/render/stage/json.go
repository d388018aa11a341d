package stage

import (
	"encoding/json"
	"time"

	"github.com/matzehuels/skijump/pkg/leaderboard"
)

type jsonOutput struct {
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`
	Curve       jsonCurve    `json:"curve"`
	MetricLabel string       `json:"metric_label"`
	UpdatedAt   string       `json:"updated_at"`
	Seed        uint64       `json:"seed"`
	AvatarSize  int          `json:"avatar_size"`
	ShowRank    bool         `json:"show_rank"`
	Records     []jsonRecord `json:"records"`
}

type jsonCurve struct {
	P0   leaderboard.Point `json:"p0"`
	P1   leaderboard.Point `json:"p1"`
	P2   leaderboard.Point `json:"p2"`
	Path string            `json:"path"`
}

type jsonRecord struct {
	Rank  int               `json:"rank"`
	Name  string            `json:"name"`
	Value float64           `json:"value"`
	Label string            `json:"label"`
	Image string            `json:"image,omitempty"`
	Raw   float64           `json:"raw"`
	T     float64           `json:"t"`
	Point leaderboard.Point `json:"point"`
}

// RenderJSON exports the placement and the settings used to draw it.
func RenderJSON(placed []leaderboard.PlacedRecord, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	c := leaderboard.SkiRamp
	out := jsonOutput{
		Width:       leaderboard.CanvasWidth,
		Height:      leaderboard.CanvasHeight,
		Curve:       jsonCurve{P0: c.P0, P1: c.P1, P2: c.P2, Path: c.Path()},
		MetricLabel: opts.MetricLabel,
		UpdatedAt:   opts.UpdatedAt.Format(time.RFC3339),
		Seed:        opts.Seed,
		AvatarSize:  opts.AvatarSize,
		ShowRank:    opts.ShowRank,
		Records:     make([]jsonRecord, len(placed)),
	}
	for i, p := range placed {
		out.Records[i] = jsonRecord{
			Rank:  p.Rank,
			Name:  p.Name,
			Value: p.Value,
			Label: formatValue(p.Value),
			Image: p.ImageRef,
			Raw:   p.Raw,
			T:     p.T,
			Point: p.Point,
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

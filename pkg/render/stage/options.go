package stage

import (
	"time"
)

// Defaults for [Options].
const (
	DefaultTitle       = "CRC WINTER OLYMPICS"
	DefaultSubtitle    = "Ski Jump • Snowy Checkpoints"
	DefaultMetricLabel = "평균 콜 시간 (분)"
	DefaultAvatarSize  = 44

	// SnowflakeCount is the number of flakes drawn over the stage.
	SnowflakeCount = 60

	captionTimeFormat = "2006-01-02 15:04"
)

// Theme is the stage palette.
type Theme struct {
	Gold    string
	Navy900 string
	Navy800 string
	Navy700 string
	Ice     string
	Snow    string
}

// DefaultTheme is the navy-and-gold winter palette.
var DefaultTheme = Theme{
	Gold:    "#E7C873",
	Navy900: "#071A2C",
	Navy800: "#0B2238",
	Navy700: "#0F2C47",
	Ice:     "#A9C7E6",
	Snow:    "#FFFFFF",
}

// Options controls presentation. The zero value renders with defaults.
type Options struct {
	Title       string
	Subtitle    string
	MetricLabel string
	AvatarSize  int
	ShowRank    bool
	UpdatedAt   time.Time
	Seed        uint64
	Theme       Theme

	// UploadAction, when set, adds a CSV/XLSX upload form posting to it.
	UploadAction string
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Subtitle == "" {
		o.Subtitle = DefaultSubtitle
	}
	if o.MetricLabel == "" {
		o.MetricLabel = DefaultMetricLabel
	}
	if o.AvatarSize <= 0 {
		o.AvatarSize = DefaultAvatarSize
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = time.Now()
	}
	if o.Theme == (Theme{}) {
		o.Theme = DefaultTheme
	}
	return o
}

// Caption returns the footer line shown under the stage.
func Caption(metric string, updated time.Time) string {
	return metric + " • 업데이트: " + updated.Format(captionTimeFormat)
}

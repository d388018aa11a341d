package stage

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math/rand/v2"

	"github.com/matzehuels/skijump/pkg/errors"
	"github.com/matzehuels/skijump/pkg/leaderboard"
)

const (
	mountainsFar  = "M0,380 L140,260 L260,360 L340,220 L500,360 L560,300 L680,360 L820,260 L1000,380 L1000,560 L0,560 Z"
	mountainsNear = "M0,420 L120,320 L220,420 L360,300 L520,420 L600,360 L760,420 L880,320 L1000,420 L1000,560 L0,560 Z"

	// snowStream selects a PCG stream that never coincides with the
	// placement jitter generator for the same seed.
	snowStream = 0x5eed5a0b
)

// Snowflake is one falling flake. Left and Size are pixels; Duration and
// Delay are seconds of the CSS fall animation.
type Snowflake struct {
	Left     int
	Duration int
	Delay    int
	Size     int
	// Top is the resting height used by the static SVG scene.
	Top int
}

// Snowfall returns SnowflakeCount flakes for seed.
func Snowfall(seed uint64) []Snowflake {
	rng := rand.New(rand.NewPCG(seed, snowStream))
	flakes := make([]Snowflake, SnowflakeCount)
	for i := range flakes {
		flakes[i] = Snowflake{
			Left:     randInt(rng, 0, 980),
			Duration: randInt(rng, 6, 14),
			Delay:    randInt(rng, 0, 8),
			Size:     randInt(rng, 8, 14),
			Top:      randInt(rng, 0, int(leaderboard.CanvasHeight)-20),
		}
	}
	return flakes
}

// randInt returns a uniform integer in [lo, hi].
func randInt(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}

// writeBackdrop writes the mountains, ramp and START marker.
func writeBackdrop(buf *bytes.Buffer, theme Theme) {
	fmt.Fprintf(buf, `  <g opacity="0.9">
    <path d="%s" fill="%s"/>
    <path d="%s" fill="#12345633"/>
  </g>
`, mountainsFar, theme.Navy700, mountainsNear)
	p0 := leaderboard.SkiRamp.P0
	fmt.Fprintf(buf, `  <path d="%s" stroke="%s" stroke-width="4" fill="none" stroke-linecap="round"/>
`, leaderboard.SkiRamp.Path(), theme.Gold)
	fmt.Fprintf(buf, `  <circle cx="%g" cy="%g" r="6" fill="%s"/>
  <text x="%g" y="%g" text-anchor="middle" fill="#EAD9B0" font-size="12" font-weight="bold">START</text>
`, p0.X, p0.Y, theme.Gold, p0.X, p0.Y+25)
}

// safeImage returns ref if it may be placed in markup, or "".
func safeImage(ref string) string {
	if errors.ValidateImageRef(ref) != nil {
		return ""
	}
	return ref
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// formatValue renders a metric value with one decimal place.
func formatValue(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

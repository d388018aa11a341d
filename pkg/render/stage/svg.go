package stage

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/skijump/pkg/leaderboard"
)

// footerHeight is the band below the stage that holds the caption.
const footerHeight = 36.0

// RenderSVG renders placed records as a standalone SVG document.
// Avatars are circle-clipped <image> elements; remote references are kept
// as-is unless the caller has embedded them as data URIs.
func RenderSVG(placed []leaderboard.PlacedRecord, opts Options) []byte {
	opts = opts.withDefaults()
	th := opts.Theme
	w, h := leaderboard.CanvasWidth, leaderboard.CanvasHeight+footerHeight

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %[1]g %[2]g" width="%[1]g" height="%[2]g">`+"\n", w, h)
	writeSVGDefs(&buf, placed, opts)

	fmt.Fprintf(&buf, `  <rect width="%g" height="%g" fill="url(#sky)"/>`+"\n", w, h)
	fmt.Fprintf(&buf, `  <text x="24" y="40" fill="%s" font-size="26" font-weight="900">%s</text>`+"\n", th.Gold, escapeXML(opts.Title))
	fmt.Fprintf(&buf, `  <text x="24" y="62" fill="#CFE3FF" font-size="13">%s</text>`+"\n", escapeXML(opts.Subtitle))
	writeBackdrop(&buf, th)

	buf.WriteString(`  <g class="snow" fill="#FFFFFF" opacity="0.8">` + "\n")
	for _, f := range Snowfall(opts.Seed) {
		fmt.Fprintf(&buf, `    <circle cx="%d" cy="%d" r="%.1f"/>`+"\n", f.Left, f.Top, float64(f.Size)/6)
	}
	buf.WriteString("  </g>\n")

	for i, p := range placed {
		writeSVGCheckpoint(&buf, i, p, opts)
	}

	fmt.Fprintf(&buf, `  <text x="%g" y="%g" text-anchor="middle" fill="%s" font-size="13">%s</text>`+"\n",
		w/2, leaderboard.CanvasHeight+footerHeight/2+4, th.Ice, escapeXML(Caption(opts.MetricLabel, opts.UpdatedAt)))
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeSVGDefs(buf *bytes.Buffer, placed []leaderboard.PlacedRecord, opts Options) {
	th := opts.Theme
	r := float64(opts.AvatarSize) / 2
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, `    <linearGradient id="sky" x1="0" y1="0" x2="0" y2="1">
      <stop offset="0%%" stop-color="%s"/>
      <stop offset="60%%" stop-color="%s"/>
      <stop offset="100%%" stop-color="%s"/>
    </linearGradient>
`, th.Navy900, th.Navy800, th.Navy700)
	for i, p := range placed {
		fmt.Fprintf(buf, `    <clipPath id="avatar-%d"><circle cx="%.2f" cy="%.2f" r="%g"/></clipPath>`+"\n",
			i, p.Point.X, p.Point.Y, r)
	}
	buf.WriteString("  </defs>\n")
}

func writeSVGCheckpoint(buf *bytes.Buffer, i int, p leaderboard.PlacedRecord, opts Options) {
	th := opts.Theme
	size := float64(opts.AvatarSize)
	r := size / 2
	x, y := p.Point.X, p.Point.Y

	fmt.Fprintf(buf, `  <g class="checkpoint" data-rank="%d">`+"\n", p.Rank)
	fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%g" fill="%s"/>`+"\n", x, y, r, th.Navy700)
	if img := safeImage(p.ImageRef); img != "" {
		ref := escapeXML(img)
		fmt.Fprintf(buf, `    <image href="%s" xlink:href="%s" x="%.2f" y="%.2f" width="%g" height="%g" preserveAspectRatio="xMidYMid slice" clip-path="url(#avatar-%d)"/>`+"\n",
			ref, ref, x-r, y-r, size, size, i)
	}
	fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%g" fill="none" stroke="%s" stroke-width="2"/>`+"\n", x, y, r, th.Gold)

	if opts.ShowRank {
		bx, by := x-r-6, y-r-6
		fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="30" height="18" rx="9" fill="%s"/>`+"\n", bx-15, by-9, th.Gold)
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="middle" fill="#0B1A2C" font-size="12" font-weight="900">#%d</text>`+"\n", bx, by+4, p.Rank)
	}

	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="middle" fill="#EAF3FF" font-size="13" font-weight="800">%s</text>`+"\n",
		x, y-r-6, escapeXML(p.Name))
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="middle" fill="#CFE3FF" font-size="12">%s</text>`+"\n",
		x, y+r+16, formatValue(p.Value))
	buf.WriteString("  </g>\n")
}

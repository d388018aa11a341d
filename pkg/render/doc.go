// Package render converts rendered leaderboards between output formats.
//
// The [stage] subpackage draws the leaderboard as HTML, SVG or JSON. This
// package turns any SVG into raster or print formats using the external
// rsvg-convert tool (from librsvg):
//
//	svg := stage.RenderSVG(placed, opts)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// Install librsvg with "brew install librsvg" (macOS) or
// "apt install librsvg2-bin" (Linux). [Available] reports whether the tool
// is on PATH.
package render

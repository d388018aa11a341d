package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/skijump/pkg/leaderboard"
	"github.com/matzehuels/skijump/pkg/render"
	"github.com/matzehuels/skijump/pkg/render/stage"
)

// Render generates output artifacts in the requested formats.
// PNG and PDF are converted from the SVG rendering.
func Render(ctx context.Context, placed []leaderboard.PlacedRecord, opts Options) (map[string][]byte, error) {
	stageOpts := opts.StageOptions()
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	svgData := func() []byte {
		if svg == nil {
			svg = stage.RenderSVG(placed, stageOpts)
		}
		return svg
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatHTML:
			data = stage.RenderHTML(placed, stageOpts)
		case FormatSVG:
			data = svgData()
		case FormatJSON:
			data, err = stage.RenderJSON(placed, stageOpts)
		case FormatPNG:
			data, err = render.ToPNG(ctx, svgData(), opts.PNGScale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, svgData())
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

package stage

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/skijump/pkg/leaderboard"
)

const htmlCSS = `
  body {
    margin: 0; padding: 24px;
    background: linear-gradient(180deg, %[1]s 0%%, %[2]s 60%%, %[3]s 100%%);
    color: #F0F6FF; min-height: 100vh;
    font-family: -apple-system, "Apple SD Gothic Neo", "Noto Sans KR", sans-serif;
  }
  h1 { color: %[4]s; margin: 0; }
  .subtitle { color: #CFE3FF; margin-top: -2px; }
  .upload { margin: 12px 0; color: #CFE3FF; font-size: 13px; }
  .stage {
    position: relative; width: %[6]gpx; height: %[7]gpx;
    margin: 10px auto 20px auto; border-radius: 18px;
    box-shadow: 0 10px 30px rgba(0,0,0,0.35), inset 0 1px 0 rgba(255,255,255,0.05);
    background: radial-gradient(1200px 560px at 50%% 0%%, rgba(255,255,255,0.06), rgba(255,255,255,0.01) 40%%, rgba(0,0,0,0) 70%%);
    overflow: hidden;
  }
  .stage svg { position: absolute; left: 0; top: 0; }
  .snowflake {
    position: absolute; top: -10px; color: #fff; opacity: 0.9;
    animation: fall linear infinite;
    filter: drop-shadow(0 0 2px rgba(255,255,255,0.5));
  }
  @keyframes fall {
    0%% { transform: translateY(-10px); }
    100%% { transform: translateY(600px); }
  }
  .checkpoint {
    position: absolute; width: %[5]dpx; height: %[5]dpx;
    border-radius: 999px; border: 2px solid %[4]s;
    background-color: %[3]s; background-size: cover; background-position: center;
    box-shadow: 0 6px 12px rgba(0,0,0,0.35);
  }
  .label {
    position: absolute; transform: translate(-50%%, -110%%);
    color: #EAF3FF; font-weight: 800; text-shadow: 0 1px 2px rgba(0,0,0,0.5);
    white-space: nowrap; font-size: 13px;
  }
  .metric {
    position: absolute; transform: translate(-50%%, 120%%);
    color: #CFE3FF; font-size: 12px;
  }
  .ranktag {
    position: absolute; transform: translate(-150%%, -150%%);
    background: %[4]s; color: #0B1A2C; font-weight: 900;
    border-radius: 999px; padding: 2px 8px; font-size: 12px;
    box-shadow: 0 2px 6px rgba(0,0,0,0.4);
  }
  .caption { text-align: center; color: %[8]s; font-size: 13px; }`

// RenderHTML renders placed records as a complete HTML document.
func RenderHTML(placed []leaderboard.PlacedRecord, opts Options) []byte {
	opts = opts.withDefaults()
	th := opts.Theme

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"ko\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", html.EscapeString(opts.Title))
	buf.WriteString("<style>")
	fmt.Fprintf(&buf, htmlCSS, th.Navy900, th.Navy800, th.Navy700, th.Gold, opts.AvatarSize,
		leaderboard.CanvasWidth, leaderboard.CanvasHeight, th.Ice)
	buf.WriteString("\n</style>\n</head>\n<body>\n")

	fmt.Fprintf(&buf, "<h1>%s</h1>\n", html.EscapeString(opts.Title))
	fmt.Fprintf(&buf, "<div class=\"subtitle\">%s</div>\n", html.EscapeString(opts.Subtitle))
	if opts.UploadAction != "" {
		writeUploadForm(&buf, opts)
	}

	buf.WriteString("<div class=\"stage\">\n")
	fmt.Fprintf(&buf, `<svg width="%[1]g" height="%[2]g" viewBox="0 0 %[1]g %[2]g" xmlns="http://www.w3.org/2000/svg">`+"\n",
		leaderboard.CanvasWidth, leaderboard.CanvasHeight)
	writeBackdrop(&buf, th)
	buf.WriteString("</svg>\n")

	for _, f := range Snowfall(opts.Seed) {
		fmt.Fprintf(&buf, `<div class="snowflake" style="left:%dpx; animation-duration:%ds; animation-delay:%ds; font-size:%dpx;">❄</div>`+"\n",
			f.Left, f.Duration, f.Delay, f.Size)
	}

	offset := float64(opts.AvatarSize) / 2
	for _, p := range placed {
		x, y := p.Point.X, p.Point.Y
		style := fmt.Sprintf("left:%.2fpx; top:%.2fpx;", x-offset, y-offset)
		if img := safeImage(p.ImageRef); img != "" {
			style += fmt.Sprintf(" background-image:url('%s');", img)
		}
		fmt.Fprintf(&buf, "<div class=\"checkpoint\" style=\"%s\"></div>\n", html.EscapeString(style))
		if opts.ShowRank {
			fmt.Fprintf(&buf, "<div class=\"ranktag\" style=\"left:%.2fpx; top:%.2fpx;\">#%d</div>\n", x, y, p.Rank)
		}
		fmt.Fprintf(&buf, "<div class=\"label\" style=\"left:%.2fpx; top:%.2fpx;\">%s</div>\n", x, y, html.EscapeString(p.Name))
		fmt.Fprintf(&buf, "<div class=\"metric\" style=\"left:%.2fpx; top:%.2fpx;\">%s</div>\n", x, y, formatValue(p.Value))
	}
	buf.WriteString("</div>\n")

	fmt.Fprintf(&buf, "<div class=\"caption\">%s</div>\n", html.EscapeString(Caption(opts.MetricLabel, opts.UpdatedAt)))
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}

func writeUploadForm(buf *bytes.Buffer, opts Options) {
	fmt.Fprintf(buf, `<form class="upload" method="post" action="%s" enctype="multipart/form-data">
  <label>데이터 업로드 (CSV/XLSX) — 열: 이름, 값, 사진URL <input type="file" name="file" accept=".csv,.xlsx" required></label>
  <label>지표 이름 <input type="text" name="metric" value="%s"></label>
  <select name="direction">
    <option value="lower">값이 낮을수록 상위</option>
    <option value="higher">값이 높을수록 상위</option>
  </select>
  <label>아바타 크기 <input type="number" name="avatar_size" min="28" max="72" step="2" value="%d"></label>
  <label>최대 인원 <input type="number" name="max" min="1" max="40" value="20"></label>
  <input type="hidden" name="show_rank" value="false">
  <label><input type="checkbox" name="show_rank" value="true" checked> 순위 번호 표시</label>
  <button type="submit">렌더</button>
</form>
`, html.EscapeString(opts.UploadAction), html.EscapeString(opts.MetricLabel), opts.AvatarSize)
}

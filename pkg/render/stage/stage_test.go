package stage

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/skijump/pkg/leaderboard"
)

var fixedTime = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func testPlaced() []leaderboard.PlacedRecord {
	return leaderboard.Build([]leaderboard.Entry{
		{Name: "김민지", RawValue: "12.5", ImageRef: "https://images.unsplash.com/photo-1524504388940-b1c1722653e1"},
		{Name: "이준호", RawValue: "11.8", ImageRef: "avatars/junho.png"},
		{Name: "<script>alert(1)</script>", RawValue: "9.84", ImageRef: "javascript:alert(1)"},
		{Name: "Tom & Jerry", RawValue: "10", ImageRef: "x.png') ; background:url('evil"},
	}, leaderboard.Config{LowerIsBetter: true, MaxEntries: 20, Seed: 42})
}

func testOptions() Options {
	return Options{ShowRank: true, UpdatedAt: fixedTime, Seed: 42}
}

func TestCaption(t *testing.T) {
	got := Caption("평균 콜 시간 (분)", fixedTime)
	want := "평균 콜 시간 (분) • 업데이트: 2026-10-18 09:30"
	if got != want {
		t.Errorf("Caption() = %q, want %q", got, want)
	}
}

func TestSnowfall(t *testing.T) {
	a := Snowfall(42)
	if len(a) != SnowflakeCount {
		t.Fatalf("len = %d, want %d", len(a), SnowflakeCount)
	}
	for i, f := range a {
		if f.Left < 0 || f.Left > 980 || f.Duration < 6 || f.Duration > 14 ||
			f.Delay < 0 || f.Delay > 8 || f.Size < 8 || f.Size > 14 {
			t.Errorf("flake %d out of range: %+v", i, f)
		}
	}

	b := Snowfall(42)
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("Snowfall is not deterministic")
		}
	}
	if slices.Equal(Snowfall(0), a) {
		t.Error("seed 0 snowed like seed 42")
	}
}

func TestRenderJSONSeedZero(t *testing.T) {
	opts := testOptions()
	opts.Seed = 0
	data, err := RenderJSON(testPlaced(), opts)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Seed != 0 {
		t.Errorf("seed = %d, want 0", out.Seed)
	}
}

func TestRenderHTML(t *testing.T) {
	out := string(RenderHTML(testPlaced(), testOptions()))

	for _, want := range []string{
		"<!DOCTYPE html>",
		DefaultTitle,
		`d="M 90 380 Q 350 120 920 260"`,
		">START</text>",
		"#1</div>",
		"#4</div>",
		">9.8</div>",
		">12.5</div>",
		"김민지",
		"&lt;script&gt;alert(1)&lt;/script&gt;",
		"Tom &amp; Jerry",
		"url(&#39;https://images.unsplash.com/photo-1524504388940-b1c1722653e1&#39;)",
		"url(&#39;avatars/junho.png&#39;)",
		"평균 콜 시간 (분) • 업데이트: 2026-10-18 09:30",
		"width: 44px",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML missing %q", want)
		}
	}

	for _, bad := range []string{"<script>", "javascript:", "evil"} {
		if strings.Contains(out, bad) {
			t.Errorf("HTML contains unsafe %q", bad)
		}
	}

	if n := strings.Count(out, `class="snowflake"`); n != SnowflakeCount {
		t.Errorf("snowflakes = %d, want %d", n, SnowflakeCount)
	}
	if n := strings.Count(out, `class="checkpoint"`); n != 4 {
		t.Errorf("checkpoints = %d, want 4", n)
	}
}

func TestRenderHTMLAvatarOffset(t *testing.T) {
	placed := testPlaced()[:1]
	opts := testOptions()
	opts.AvatarSize = 60

	out := string(RenderHTML(placed, opts))
	p := placed[0].Point
	want := "left:" + format2(p.X-30) + "px; top:" + format2(p.Y-30) + "px;"
	if !strings.Contains(out, want) {
		t.Errorf("HTML missing checkpoint position %q", want)
	}
}

func TestRenderHTMLNoRank(t *testing.T) {
	opts := testOptions()
	opts.ShowRank = false
	out := string(RenderHTML(testPlaced(), opts))
	if strings.Contains(out, `<div class="ranktag"`) {
		t.Error("rank badges rendered with ShowRank=false")
	}
}

func TestRenderHTMLDeterministic(t *testing.T) {
	a := RenderHTML(testPlaced(), testOptions())
	b := RenderHTML(testPlaced(), testOptions())
	if !bytes.Equal(a, b) {
		t.Error("RenderHTML is not deterministic for fixed seed and time")
	}
}

func TestRenderHTMLEmpty(t *testing.T) {
	out := string(RenderHTML(nil, testOptions()))
	if !strings.Contains(out, `class="stage"`) {
		t.Error("empty input should still render the stage")
	}
	if strings.Contains(out, `class="checkpoint"`) {
		t.Error("empty input rendered checkpoints")
	}
}

func TestRenderHTMLUploadForm(t *testing.T) {
	opts := testOptions()
	out := string(RenderHTML(nil, opts))
	if strings.Contains(out, "<form") {
		t.Error("form rendered without UploadAction")
	}

	opts.UploadAction = "/render"
	out = string(RenderHTML(nil, opts))
	if !strings.Contains(out, `action="/render"`) || !strings.Contains(out, `name="file"`) {
		t.Error("upload form missing")
	}
}

func TestRenderSVGWellFormed(t *testing.T) {
	out := RenderSVG(testPlaced(), testOptions())

	dec := xml.NewDecoder(bytes.NewReader(out))
	for {
		_, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("SVG is not well-formed XML: %v", err)
		}
	}

	s := string(out)
	for _, want := range []string{
		`viewBox="0 0 1000 596"`,
		`clip-path="url(#avatar-2)"`,
		`href="avatars/junho.png"`,
		"&lt;script&gt;",
		"Tom &amp; Jerry",
		">#1</text>",
		"업데이트: 2026-10-18 09:30",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(s, "javascript:") {
		t.Error("SVG contains rejected image reference")
	}
	if n := strings.Count(s, `<g class="checkpoint"`); n != 4 {
		t.Errorf("checkpoints = %d, want 4", n)
	}
}

func TestRenderJSON(t *testing.T) {
	placed := testPlaced()
	data, err := RenderJSON(placed, testOptions())
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if out.Width != 1000 || out.Height != 560 {
		t.Errorf("canvas = %vx%v", out.Width, out.Height)
	}
	if out.Curve.Path != "M 90 380 Q 350 120 920 260" {
		t.Errorf("curve path = %q", out.Curve.Path)
	}
	if out.Seed != 42 || out.MetricLabel != DefaultMetricLabel {
		t.Errorf("settings = seed %d, metric %q", out.Seed, out.MetricLabel)
	}
	if len(out.Records) != len(placed) {
		t.Fatalf("records = %d, want %d", len(out.Records), len(placed))
	}
	for i, r := range out.Records {
		if r.Rank != placed[i].Rank || r.Name != placed[i].Name || r.T != placed[i].T {
			t.Errorf("record %d = %+v, want %+v", i, r, placed[i])
		}
	}
	if out.Records[0].Label != "9.8" {
		t.Errorf("label = %q, want 9.8", out.Records[0].Label)
	}
}

func format2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

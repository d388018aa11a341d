package pipeline

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/skijump/pkg/cache"
	"github.com/matzehuels/skijump/pkg/errors"
	"github.com/matzehuels/skijump/pkg/observability"
)

var fixedTime = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	stages []observability.Stage
	counts map[observability.Stage]int
	errs   map[observability.Stage]error
}

func newRecordingHooks() *recordingHooks {
	return &recordingHooks{
		counts: make(map[observability.Stage]int),
		errs:   make(map[observability.Stage]error),
	}
}

func (h *recordingHooks) OnStageComplete(_ context.Context, stage observability.Stage, count int, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stages = append(h.stages, stage)
	h.counts[stage] = count
	h.errs[stage] = err
}

func TestExecuteDemo(t *testing.T) {
	hooks := newRecordingHooks()
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	r := NewRunner(nil, nil, nil)
	result, err := r.Execute(context.Background(), Options{
		Demo:      true,
		Formats:   []string{FormatHTML, FormatSVG, FormatJSON},
		UpdatedAt: fixedTime,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.ID == "" {
		t.Error("result ID should be set")
	}
	if result.TableHash == "" {
		t.Error("table hash should be set")
	}
	if result.Stats.Rows != 13 || result.Stats.Valid != 13 || result.Stats.Shown != 13 {
		t.Errorf("Stats = %+v", result.Stats)
	}
	if result.CacheInfo.RenderHit {
		t.Error("NullCache should never hit")
	}

	// Lowest average call time ranks first.
	if first := result.Placed[0]; first.Name != "이예린" || first.Rank != 1 {
		t.Errorf("first = %+v", first.RankedRecord)
	}

	for _, format := range []string{FormatHTML, FormatSVG, FormatJSON} {
		if len(result.Artifacts[format]) == 0 {
			t.Errorf("missing %s artifact", format)
		}
	}
	if !strings.Contains(string(result.Artifacts[FormatHTML]), "업데이트: 2026-10-18 09:30") {
		t.Error("HTML footer should carry UpdatedAt")
	}

	wantStages := []observability.Stage{
		observability.StageLoad, observability.StageRank, observability.StagePlace, observability.StageRender,
	}
	if len(hooks.stages) != len(wantStages) {
		t.Fatalf("stages = %v, want %v", hooks.stages, wantStages)
	}
	for i, s := range wantStages {
		if hooks.stages[i] != s {
			t.Errorf("stage %d = %s, want %s", i, hooks.stages[i], s)
		}
	}
	if hooks.counts[observability.StageRender] != 3 {
		t.Errorf("render count = %d, want 3", hooks.counts[observability.StageRender])
	}
}

func TestExecuteUploadDropsInvalidRows(t *testing.T) {
	csv := "이름,값,사진URL\nA,10,a.png\nB,abc,b.png\n,5,c.png\nC,8,\n\n"

	r := NewRunner(nil, nil, nil)
	result, err := r.Execute(context.Background(), Options{
		Data:      []byte(csv),
		Filename:  "calls.csv",
		Formats:   []string{FormatJSON},
		UpdatedAt: fixedTime,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.Rows != 4 || result.Stats.Valid != 2 || result.Stats.Dropped() != 2 {
		t.Errorf("Stats = %+v", result.Stats)
	}
	if len(result.Placed) != 2 || result.Placed[0].Name != "C" {
		t.Errorf("Placed = %+v", result.Placed)
	}
}

func TestExecuteSchemaErrorStopsBeforeRanking(t *testing.T) {
	hooks := newRecordingHooks()
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{
		Data:     []byte("name,score\nA,1\n"),
		Filename: "x.csv",
	})
	if !errors.Is(err, errors.ErrCodeSchema) {
		t.Fatalf("error = %v, want SCHEMA", err)
	}
	if !strings.Contains(errors.UserMessage(err), "값, 사진URL") {
		t.Errorf("message = %q, should name missing columns", errors.UserMessage(err))
	}

	if len(hooks.stages) != 1 || hooks.stages[0] != observability.StageLoad {
		t.Errorf("stages = %v, want only load", hooks.stages)
	}
	if hooks.errs[observability.StageLoad] == nil {
		t.Error("load hook should receive the error")
	}
}

func TestExecuteIngestionError(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{
		Data:     []byte("not a workbook"),
		Filename: "x.xlsx",
	})
	if !errors.IsFatalInput(err) || !errors.Is(err, errors.ErrCodeIngestion) {
		t.Errorf("error = %v, want INGESTION", err)
	}
}

func TestExecuteEmptyResult(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	result, err := r.Execute(context.Background(), Options{
		Data:      []byte("이름,값,사진URL\nA,n/a,\n"),
		Filename:  "x.csv",
		UpdatedAt: fixedTime,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(result.Placed) != 0 {
		t.Errorf("Placed = %v, want empty", result.Placed)
	}
	if !bytes.Contains(result.Artifacts[FormatHTML], []byte(`class="stage"`)) {
		t.Error("empty result should still render the stage")
	}
}

func TestExecuteDeterministic(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := Options{Demo: true, Formats: []string{FormatHTML, FormatSVG}, UpdatedAt: fixedTime, Seed: SeedOf(7)}

	a, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	for _, f := range opts.Formats {
		if !bytes.Equal(a.Artifacts[f], b.Artifacts[f]) {
			t.Errorf("%s output differs between runs", f)
		}
	}
	if a.ID == b.ID {
		t.Error("each run should get its own ID")
	}
}

func TestExecuteCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	opts := Options{Demo: true, Formats: []string{FormatHTML, FormatJSON}, UpdatedAt: fixedTime}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should miss")
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit")
	}
	if !bytes.Equal(first.Artifacts[FormatHTML], second.Artifacts[FormatHTML]) {
		t.Error("cached artifact differs")
	}

	opts.Refresh = true
	third, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}

	opts.Refresh = false
	opts.HideRank = true
	fourth, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo.RenderHit {
		t.Error("changed options should miss")
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render(context.Background(), nil, Options{Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

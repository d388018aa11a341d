package leaderboard

import (
	"math"
	"reflect"
	"testing"
)

func demoEntries() []Entry {
	return []Entry{
		{Name: "김민지", RawValue: "12.5"},
		{Name: "이준호", RawValue: "11.8"},
		{Name: "박서연", RawValue: "11.2"},
		{Name: "최지훈", RawValue: "10.9"},
		{Name: "정수진", RawValue: "10.6"},
		{Name: "오하늘", RawValue: "10.3"},
		{Name: "강민서", RawValue: "9.9"},
		{Name: "이예린", RawValue: "9.8"},
		{Name: "한서현", RawValue: "13.1"},
		{Name: "문지우", RawValue: "12.0"},
	}
}

func TestCurveEndpoints(t *testing.T) {
	if got := SkiRamp.At(0); got != SkiRamp.P0 {
		t.Errorf("At(0) = %v, want %v", got, SkiRamp.P0)
	}
	if got := SkiRamp.At(1); got != SkiRamp.P2 {
		t.Errorf("At(1) = %v, want %v", got, SkiRamp.P2)
	}
	if SkiRamp.P0 != (Point{90, 380}) || SkiRamp.P2 != (Point{920, 260}) {
		t.Errorf("SkiRamp endpoints changed: %+v", SkiRamp)
	}
}

func TestCurveMidpoint(t *testing.T) {
	// (1/4)P0 + (1/2)P1 + (1/4)P2
	want := Point{X: 0.25*90 + 0.5*350 + 0.25*920, Y: 0.25*380 + 0.5*120 + 0.25*260}
	got := SkiRamp.At(0.5)
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Errorf("At(0.5) = %v, want %v", got, want)
	}
}

func TestCurvePath(t *testing.T) {
	if got, want := SkiRamp.Path(), "M 90 380 Q 350 120 920 260"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestNormalize(t *testing.T) {
	ranked := []RankedRecord{
		{Record: Record{Value: 10}},
		{Record: Record{Value: 15}},
		{Record: Record{Value: 20}},
	}

	lower := Normalize(ranked, true)
	if !reflect.DeepEqual(lower, []float64{1, 0.5, 0}) {
		t.Errorf("lowerIsBetter = %v", lower)
	}

	higher := Normalize(ranked, false)
	if !reflect.DeepEqual(higher, []float64{0, 0.5, 1}) {
		t.Errorf("higherIsBetter = %v", higher)
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	ranked := []RankedRecord{
		{Record: Record{Value: 7}},
		{Record: Record{Value: 7}},
		{Record: Record{Value: 7}},
	}
	for _, lower := range []bool{true, false} {
		for i, v := range Normalize(ranked, lower) {
			if v != 0.5 {
				t.Errorf("lower=%v: raw[%d] = %v, want 0.5", lower, i, v)
			}
		}
	}
}

func TestCurveParamClamp(t *testing.T) {
	tests := []struct {
		raw, jitter, want float64
	}{
		{0, 0, 0.05},
		{1, 0, 0.95},
		{0.5, 0, 0.5},
		{0, -0.04, MinT},
		{1, 0.04, MaxT},
	}
	for _, tt := range tests {
		if got := CurveParam(tt.raw, tt.jitter); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("CurveParam(%v, %v) = %v, want %v", tt.raw, tt.jitter, got, tt.want)
		}
	}
}

func TestJitterRange(t *testing.T) {
	rng := NewRNG(DefaultSeed)
	for range 10000 {
		j := Jitter(rng)
		if j < -JitterMax || j > JitterMax {
			t.Fatalf("Jitter() = %v, outside ±%v", j, JitterMax)
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	cfg := Config{LowerIsBetter: true, MaxEntries: 20, Seed: 42}

	a := Build(demoEntries(), cfg)
	b := Build(demoEntries(), cfg)

	if !reflect.DeepEqual(a, b) {
		t.Fatal("Build() is not deterministic for a fixed seed")
	}

	c := Build(demoEntries(), Config{LowerIsBetter: true, MaxEntries: 20, Seed: 7})
	same := true
	for i := range a {
		if a[i].T != c[i].T {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced identical jitter")
	}
}

func TestBuildZeroSeedIsDistinct(t *testing.T) {
	a := Build(demoEntries(), Config{MaxEntries: 20})
	b := Build(demoEntries(), Config{MaxEntries: 20})
	if !reflect.DeepEqual(a, b) {
		t.Error("seed 0 is not deterministic")
	}

	c := Build(demoEntries(), Config{MaxEntries: 20, Seed: DefaultSeed})
	if reflect.DeepEqual(a, c) {
		t.Error("seed 0 placed records like DefaultSeed")
	}
}

func TestPlaceProperties(t *testing.T) {
	for _, lower := range []bool{true, false} {
		placed := Build(demoEntries(), Config{LowerIsBetter: lower, MaxEntries: 20})

		for i, p := range placed {
			if p.T < MinT || p.T > MaxT {
				t.Errorf("lower=%v: T[%d] = %v out of bounds", lower, i, p.T)
			}
			if p.Point != SkiRamp.At(p.T) {
				t.Errorf("lower=%v: point[%d] does not match curve", lower, i)
			}
			if p.Rank != i+1 {
				t.Errorf("lower=%v: rank[%d] = %d", lower, i, p.Rank)
			}
		}

		best, worst := placed[0], placed[len(placed)-1]
		if best.Raw < worst.Raw {
			t.Errorf("lower=%v: best raw %v < worst raw %v", lower, best.Raw, worst.Raw)
		}
		if best.Raw != 1 || worst.Raw != 0 {
			t.Errorf("lower=%v: raw extremes = %v, %v, want 1, 0", lower, best.Raw, worst.Raw)
		}
	}
}

func TestPlaceJitterOrder(t *testing.T) {
	ranked := Rank(demoEntries(), Config{LowerIsBetter: true, MaxEntries: 20})
	placed := Place(ranked, true, NewRNG(99))

	rng := NewRNG(99)
	raw := Normalize(ranked, true)
	for i := range ranked {
		want := CurveParam(raw[i], Jitter(rng))
		if placed[i].T != want {
			t.Errorf("T[%d] = %v, want %v (sequential draw)", i, placed[i].T, want)
		}
	}
}

func TestPlaceEmpty(t *testing.T) {
	got := Place(nil, true, NewRNG(1))
	if len(got) != 0 {
		t.Errorf("Place(nil) = %v, want empty", got)
	}
}

func TestPlaceDegenerateCentered(t *testing.T) {
	entries := []Entry{{Name: "a", RawValue: "5"}, {Name: "b", RawValue: "5"}}
	for _, p := range Build(entries, Config{MaxEntries: 5}) {
		if p.Raw != 0.5 {
			t.Errorf("Raw = %v, want 0.5", p.Raw)
		}
		if math.Abs(p.T-0.5) > JitterMax+1e-12 {
			t.Errorf("T = %v, want within jitter of 0.5", p.T)
		}
	}
}

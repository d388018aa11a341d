package leaderboard

import (
	"testing"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"12.5", 12.5, true},
		{"  9.8 ", 9.8, true},
		{"-3", -3, true},
		{"1,234.5", 1234.5, true},
		{"1e2", 100, true},
		{"-12,345,678", -12345678, true},

		{"12,5", 0, false},
		{"1,2,3", 0, false},
		{"1234,567", 0, false},
		{",123", 0, false},

		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"12분", 0, false},
		{"NaN", 0, false},
		{"inf", 0, false},
		{"-Inf", 0, false},
	}

	for _, tt := range tests {
		got, ok := Coerce(tt.raw)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Coerce(%q) = (%v, %v), want (%v, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRankStableTies(t *testing.T) {
	entries := []Entry{
		{Name: "A", RawValue: "10"},
		{Name: "B", RawValue: "20"},
		{Name: "C", RawValue: "10"},
	}

	got := Rank(entries, Config{LowerIsBetter: true, MaxEntries: 3})

	wantNames := []string{"A", "C", "B"}
	if len(got) != len(wantNames) {
		t.Fatalf("len = %d, want %d", len(got), len(wantNames))
	}
	for i, name := range wantNames {
		if got[i].Name != name {
			t.Errorf("got[%d].Name = %q, want %q", i, got[i].Name, name)
		}
		if got[i].Rank != i+1 {
			t.Errorf("got[%d].Rank = %d, want %d", i, got[i].Rank, i+1)
		}
	}
}

func TestRankHigherIsBetter(t *testing.T) {
	entries := []Entry{
		{Name: "A", RawValue: "10"},
		{Name: "B", RawValue: "20"},
		{Name: "C", RawValue: "10"},
		{Name: "D", RawValue: "15"},
	}

	got := Rank(entries, Config{LowerIsBetter: false, MaxEntries: 10})

	want := []string{"B", "D", "A", "C"}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("got[%d].Name = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestRankDropsInvalidRows(t *testing.T) {
	entries := []Entry{
		{Name: "ok", RawValue: "1"},
		{Name: "", RawValue: "2"},
		{Name: "   ", RawValue: "3"},
		{Name: "text", RawValue: "n/a"},
		{Name: "blank", RawValue: ""},
		{Name: " padded ", RawValue: "4", ImageRef: " img.png "},
	}

	got := Rank(entries, Config{LowerIsBetter: true, MaxEntries: 10})

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(got), got)
	}
	if got[1].Name != "padded" || got[1].ImageRef != "img.png" {
		t.Errorf("got[1] = %+v, want trimmed name and image", got[1])
	}
}

func TestRankTruncation(t *testing.T) {
	var entries []Entry
	for i := range 30 {
		entries = append(entries, Entry{Name: string(rune('a' + i%26)), RawValue: "1"})
	}

	tests := []struct {
		name string
		max  int
		want int
	}{
		{"below input", 5, 5},
		{"equal to input", 30, 30},
		{"above input", 40, 30},
		{"zero treated as one", 0, 1},
		{"negative treated as one", -4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rank(entries, Config{MaxEntries: tt.max})
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestRankEmpty(t *testing.T) {
	got := Rank([]Entry{{Name: "", RawValue: "x"}}, Config{MaxEntries: 5})
	if got == nil || len(got) != 0 {
		t.Errorf("Rank() = %#v, want empty non-nil slice", got)
	}
}

func TestRankMonotonicAndDense(t *testing.T) {
	values := []string{"12.5", "11.8", "11.2", "10.9", "10.6", "10.3", "9.9", "9.8", "13.1", "12.0", "10.1", "11.1", "10.7"}
	var entries []Entry
	for i, v := range values {
		entries = append(entries, Entry{Name: string(rune('A' + i)), RawValue: v})
	}

	for _, lower := range []bool{true, false} {
		got := Rank(entries, Config{LowerIsBetter: lower, MaxEntries: 20})
		for i := range got {
			if got[i].Rank != i+1 {
				t.Errorf("lower=%v: rank at %d = %d", lower, i, got[i].Rank)
			}
			if i > 0 && Better(got[i].Value, got[i-1].Value, lower) {
				t.Errorf("lower=%v: %v ranks behind %v", lower, got[i].Value, got[i-1].Value)
			}
		}
	}
}

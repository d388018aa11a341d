package leaderboard

import (
	"cmp"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// thousands matches numbers grouped with comma thousands separators.
var thousands = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// Coerce converts a raw cell value to a finite number.
//
// Surrounding whitespace is ignored, as are commas that group thousands
// ("1,234.5"). Any other comma fails, so "12,5" is not read as 125. Empty
// text, unparseable text, NaN and infinities all fail.
func Coerce(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if thousands.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Valid drops entries without a name or with a value that does not coerce.
// Names are trimmed. Input order is preserved.
func Valid(entries []Entry) []Record {
	out := make([]Record, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		v, ok := Coerce(e.RawValue)
		if !ok {
			continue
		}
		out = append(out, Record{Name: name, Value: v, ImageRef: strings.TrimSpace(e.ImageRef)})
	}
	return out
}

// Rank validates entries, sorts them best-first and assigns dense ranks.
//
// The sort is stable, so entrants with equal values keep their input order.
// At most cfg.MaxEntries records are returned (a non-positive limit is
// treated as 1). An input with no valid rows yields an empty, non-nil slice.
func Rank(entries []Entry, cfg Config) []RankedRecord {
	recs := Valid(entries)

	slices.SortStableFunc(recs, func(a, b Record) int {
		if cfg.LowerIsBetter {
			return cmp.Compare(a.Value, b.Value)
		}
		return cmp.Compare(b.Value, a.Value)
	})

	limit := max(cfg.MaxEntries, 1)
	if len(recs) > limit {
		recs = recs[:limit]
	}

	ranked := make([]RankedRecord, len(recs))
	for i, r := range recs {
		ranked[i] = RankedRecord{Record: r, Rank: i + 1}
	}
	return ranked
}

// Better reports whether a ranks strictly ahead of b under the direction.
func Better(a, b float64, lowerIsBetter bool) bool {
	if lowerIsBetter {
		return a < b
	}
	return a > b
}

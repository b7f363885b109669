package weather

import (
	"math"
	"testing"
	"time"
)

func TestHistoryQueryValuesExactParams(t *testing.T) {
	q := HistoryQuery{Skip: 10, Limit: 10, Sort: "-requestedAt"}

	v := q.Values()
	if len(v) != 3 {
		t.Fatalf("expected exactly 3 params, got %d: %v", len(v), v)
	}
	if v.Get("skip") != "10" || v.Get("limit") != "10" || v.Get("sort") != "-requestedAt" {
		t.Fatalf("unexpected params: %v", v)
	}
	if v.Has("count") {
		t.Fatalf("list request must not carry count")
	}
}

func TestHistoryQueryValuesWithFilters(t *testing.T) {
	lat, lon := 24.71, 46.68
	q := HistoryQuery{
		Skip:  0,
		Limit: 5,
		Sort:  SortOldest,
		From:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Lat:   &lat,
		Lon:   &lon,
	}

	v := q.Values()
	if len(v) != 7 {
		t.Fatalf("expected 7 params, got %d: %v", len(v), v)
	}
	if got := v.Get("from"); got != "2024-01-01T00:00:00.000Z" {
		t.Fatalf("unexpected from: %q", got)
	}
	if got := v.Get("to"); got != "2024-01-31T00:00:00.000Z" {
		t.Fatalf("unexpected to: %q", got)
	}
	if v.Get("lat") != "24.71" || v.Get("lon") != "46.68" {
		t.Fatalf("unexpected coordinates: %v", v)
	}
}

func TestHistoryQueryCountValues(t *testing.T) {
	lat := -33.9
	q := HistoryQuery{Skip: 20, Limit: 10, Sort: SortNewest, Lat: &lat}

	v := q.CountValues()
	if len(v) != 2 {
		t.Fatalf("expected count plus one filter, got %v", v)
	}
	if v.Get("count") != "true" || v.Get("lat") != "-33.9" {
		t.Fatalf("unexpected params: %v", v)
	}
}

func TestHistoryQueryValidate(t *testing.T) {
	bad := 91.0
	tests := []struct {
		name    string
		q       HistoryQuery
		wantErr bool
	}{
		{"default", DefaultHistoryQuery(), false},
		{"negative skip", HistoryQuery{Skip: -1, Limit: 10, Sort: SortNewest}, true},
		{"zero limit", HistoryQuery{Limit: 0, Sort: SortNewest}, true},
		{"unknown sort", HistoryQuery{Limit: 10, Sort: "-tempC"}, true},
		{"lat out of range", HistoryQuery{Limit: 10, Sort: SortLatAsc, Lat: &bad}, true},
		{
			"to before from",
			HistoryQuery{
				Limit: 10, Sort: SortNewest,
				From: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
				To:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-03-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", got)
	}
	if FormatDate(got) != "2024-03-05" {
		t.Fatalf("round trip failed: %q", FormatDate(got))
	}

	if zero, err := ParseDate(""); err != nil || !zero.IsZero() {
		t.Fatalf("empty input should give zero time, got %v %v", zero, err)
	}
	if _, err := ParseDate("05/03/2024"); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
}

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint("24.71", "46.68")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Lat != 24.71 || p.Lon != 46.68 {
		t.Fatalf("unexpected point: %+v", p)
	}

	for _, in := range [][2]string{{"", "1"}, {"abc", "1"}, {"91", "0"}, {"0", "-180.5"}} {
		if _, err := ParsePoint(in[0], in[1]); err == nil {
			t.Fatalf("expected error for %v", in)
		}
	}
}

func TestPager(t *testing.T) {
	total := 25

	p := Pager{Skip: 0, Limit: 10, Total: &total}
	if p.Page() != 1 || p.HasPrev() || !p.HasNext() {
		t.Fatalf("first page wrong: %+v", p)
	}

	p = Pager{Skip: 20, Limit: 10, Total: &total}
	if p.Page() != 3 || !p.HasPrev() || p.HasNext() {
		t.Fatalf("last page wrong: page=%d prev=%v next=%v", p.Page(), p.HasPrev(), p.HasNext())
	}
	if p.PrevSkip() != 10 || p.NextSkip() != 30 {
		t.Fatalf("unexpected skips: prev=%d next=%d", p.PrevSkip(), p.NextSkip())
	}

	p = Pager{Skip: 5, Limit: 10}
	if p.PrevSkip() != 0 {
		t.Fatalf("previous skip must clamp at zero, got %d", p.PrevSkip())
	}
	if !p.HasNext() {
		t.Fatalf("next stays available while total is unknown")
	}
}

func TestPagerHugeSkipDoesNotWrap(t *testing.T) {
	total := 25
	for _, p := range []Pager{
		{Skip: math.MaxInt, Limit: 10, Total: &total},
		{Skip: math.MaxInt - 5, Limit: 10},
	} {
		if p.HasNext() {
			t.Fatalf("next must be disabled at skip %d", p.Skip)
		}
		if p.NextSkip() < p.Skip {
			t.Fatalf("next skip wrapped: %d", p.NextSkip())
		}
	}
}

package weather

import (
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Sort keys understood by the history endpoint. A leading '-' sorts
// descending.
const (
	SortNewest  = "-requestedAt"
	SortOldest  = "requestedAt"
	SortLatDesc = "-lat"
	SortLatAsc  = "lat"
)

// DefaultLimit is the page size the history view starts with.
const DefaultLimit = 10

const (
	isoMillis     = "2006-01-02T15:04:05.000Z"
	dateInputForm = "2006-01-02"
)

// HistoryQuery holds the filter and pagination state of the history view.
// Zero From/To and nil Lat/Lon mean the filter is inactive.
type HistoryQuery struct {
	Skip  int       `validate:"gte=0"`
	Limit int       `validate:"gte=1"`
	Sort  string    `validate:"oneof=-requestedAt requestedAt -lat lat"`
	From  time.Time
	To    time.Time `validate:"omitempty,gtefield=From"`
	Lat   *float64  `validate:"omitempty,gte=-90,lte=90"`
	Lon   *float64  `validate:"omitempty,gte=-180,lte=180"`
}

// DefaultHistoryQuery is the first page, newest first.
func DefaultHistoryQuery() HistoryQuery {
	return HistoryQuery{Limit: DefaultLimit, Sort: SortNewest}
}

// Validate checks the query against the history endpoint's constraints.
func (q HistoryQuery) Validate() error {
	return validate.Struct(q)
}

// Values encodes a list request: skip, limit and sort plus active filters,
// nothing else.
func (q HistoryQuery) Values() url.Values {
	v := url.Values{}
	v.Set("skip", strconv.Itoa(q.Skip))
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("sort", q.Sort)
	q.addFilters(v)
	return v
}

// CountValues encodes a count request: count=true plus active filters.
func (q HistoryQuery) CountValues() url.Values {
	v := url.Values{}
	v.Set("count", "true")
	q.addFilters(v)
	return v
}

func (q HistoryQuery) addFilters(v url.Values) {
	if !q.From.IsZero() {
		v.Set("from", q.From.UTC().Format(isoMillis))
	}
	if !q.To.IsZero() {
		v.Set("to", q.To.UTC().Format(isoMillis))
	}
	if q.Lat != nil {
		v.Set("lat", FormatCoordinate(*q.Lat))
	}
	if q.Lon != nil {
		v.Set("lon", FormatCoordinate(*q.Lon))
	}
}

// ParseDate parses a date-input value (YYYY-MM-DD) as UTC midnight. An empty
// string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateInputForm, s)
}

// FormatDate renders t for a date input; the zero time renders empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateInputForm)
}

// FormatCoordinate renders a coordinate without trailing zeros.
func FormatCoordinate(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Point is a coordinate pair as typed by the user.
type Point struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

// ParsePoint parses and range-checks a latitude/longitude pair.
func ParsePoint(lat, lon string) (Point, error) {
	var p Point
	var err error
	if p.Lat, err = strconv.ParseFloat(lat, 64); err != nil {
		return Point{}, err
	}
	if p.Lon, err = strconv.ParseFloat(lon, 64); err != nil {
		return Point{}, err
	}
	if err := validate.Struct(p); err != nil {
		return Point{}, err
	}
	return p, nil
}

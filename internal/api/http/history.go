package httpapi

import (
	"errors"
	"log"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-portal/internal/nav"
	"github.com/i474232898/weather-portal/internal/remote"
	"github.com/i474232898/weather-portal/internal/session"
	"github.com/i474232898/weather-portal/internal/weather"
)

// historyFilters echoes the filter form back as the user typed it.
type historyFilters struct {
	From  string
	To    string
	Lat   string
	Lon   string
	Sort  string
	Limit string
}

type sortOption struct {
	Value    string
	Label    string
	Selected bool
}

var sortLabels = []sortOption{
	{Value: weather.SortNewest, Label: "Date (Newest first)"},
	{Value: weather.SortOldest, Label: "Date (Oldest first)"},
	{Value: weather.SortLatDesc, Label: "Lat (High to Low)"},
	{Value: weather.SortLatAsc, Label: "Lat (Low to High)"},
}

type historyView struct {
	Filters     historyFilters
	SortOptions []sortOption
	Entries     []weather.HistoryEntry
	Total       *int
	Pager       weather.Pager
	PrevHref    string
	NextHref    string
}

var errBadFilter = errors.New("invalid history filter")

// parseHistoryQuery reads the history view's state from the query string.
// Negative skips clamp to zero and a missing or non-positive limit falls
// back to the default page size.
func parseHistoryQuery(c *fiber.Ctx) (weather.HistoryQuery, historyFilters, error) {
	q := weather.DefaultHistoryQuery()
	f := historyFilters{
		From: c.Query("from"),
		To:   c.Query("to"),
		Lat:  c.Query("lat"),
		Lon:  c.Query("lon"),
		Sort: c.Query("sort", weather.SortNewest),
	}

	q.Skip = max(0, c.QueryInt("skip", 0))
	if limit := c.QueryInt("limit", weather.DefaultLimit); limit > 0 {
		q.Limit = limit
	}
	f.Limit = strconv.Itoa(q.Limit)
	q.Sort = f.Sort

	var err error
	if q.From, err = weather.ParseDate(f.From); err != nil {
		return q, f, errBadFilter
	}
	if q.To, err = weather.ParseDate(f.To); err != nil {
		return q, f, errBadFilter
	}
	if q.Lat, err = optionalFloat(f.Lat); err != nil {
		return q, f, errBadFilter
	}
	if q.Lon, err = optionalFloat(f.Lon); err != nil {
		return q, f, errBadFilter
	}
	if err := q.Validate(); err != nil {
		return q, f, errBadFilter
	}
	f.From, f.To = weather.FormatDate(q.From), weather.FormatDate(q.To)
	return q, f, nil
}

func optionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// historyHref links to another page of the same filtered listing.
func historyHref(f historyFilters, skip int) string {
	v := url.Values{}
	for key, val := range map[string]string{
		"from": f.From, "to": f.To, "lat": f.Lat, "lon": f.Lon, "sort": f.Sort, "limit": f.Limit,
	} {
		if val != "" {
			v.Set(key, val)
		}
	}
	v.Set("skip", strconv.Itoa(skip))
	return nav.History + "?" + v.Encode()
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	sess := session.From(c).Snapshot()

	q, filters, err := parseHistoryQuery(c)
	view := historyView{Filters: filters, SortOptions: sortOptions(filters.Sort)}
	p := page{Title: "Request History", Data: &view}
	if err != nil {
		p.Error = "Please check the filters: dates use YYYY-MM-DD, coordinates must be in range, and To must not precede From."
		return render(c, fiber.StatusBadRequest, "history", p)
	}

	entries, err := s.api.History(c.UserContext(), sess.Token, q)
	if err != nil {
		log.Printf("ERROR: history fetch failed: %v", err)
		p.Error = remote.UserMessage(err, "Failed to fetch history")
	}
	view.Entries = entries

	total, err := s.api.HistoryCount(c.UserContext(), sess.Token, q)
	if err != nil {
		log.Printf("ERROR: history count failed: %v", err)
		if p.Error == "" {
			p.Error = remote.UserMessage(err, "Failed to fetch history")
		}
	} else {
		view.Total = &total
	}

	view.Pager = weather.Pager{Skip: q.Skip, Limit: q.Limit, Total: view.Total}
	view.PrevHref = historyHref(filters, view.Pager.PrevSkip())
	view.NextHref = historyHref(filters, view.Pager.NextSkip())

	return render(c, fiber.StatusOK, "history", p)
}

func sortOptions(selected string) []sortOption {
	out := make([]sortOption, len(sortLabels))
	for i, o := range sortLabels {
		o.Selected = o.Value == selected
		out[i] = o
	}
	return out
}

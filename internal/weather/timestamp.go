package weather

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// timestampLayouts are tried in order when decoding a service timestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

// Timestamp is a time sent by the weather service. Strings in a layout it
// does not recognise are kept in Raw instead of failing the whole payload;
// JSON numbers are read as Unix milliseconds.
type Timestamp struct {
	time.Time
	Raw string
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	*t = Timestamp{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		if ms, numErr := strconv.ParseFloat(string(b), 64); numErr == nil {
			t.Time = time.UnixMilli(int64(ms)).UTC()
			return nil
		}
		t.Raw = string(b)
		return nil
	}

	t.Raw = s
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return nil
}

// Display renders the timestamp for a page: local time when it parsed,
// the raw text when it did not, "-" when the service sent nothing.
func (t Timestamp) Display(layout string) string {
	switch {
	case !t.Time.IsZero():
		return t.Time.Local().Format(layout)
	case t.Raw != "":
		return t.Raw
	default:
		return "-"
	}
}

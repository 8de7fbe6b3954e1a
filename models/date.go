package models

import (
	"fmt"
	"strings"
	"time"
)

// DateOnly is a calendar date on the wire. It accepts either a bare
// "2006-01-02" or a full RFC 3339 timestamp, keeping the timestamp's zone in
// the latter case so day boundaries stay in the client's zone.
type DateOnly struct {
	t time.Time
}

func NewDateOnly(t time.Time) DateOnly {
	return DateOnly{t: t}
}

// Time returns the underlying time at midnight of the date.
func (d DateOnly) Time() time.Time {
	return time.Date(d.t.Year(), d.t.Month(), d.t.Day(), 0, 0, 0, 0, d.t.Location())
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.t.Format(time.RFC3339) + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		d.t = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", raw, err)
	}
	d.t = t
	return nil
}

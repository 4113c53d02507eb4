package rules

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

// ErrNotADate is returned by ParseDate for values that hold no date.
var ErrNotADate = errors.New("not a date")

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ParseDate interprets v as a point in time. It accepts time.Time, TOML
// local dates and date-times, and strings in RFC 3339, "2006-01-02T15:04:05"
// or "2006-01-02" form. Values without a zone are read as UTC.
func ParseDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case *time.Time:
		if d == nil {
			return time.Time{}, ErrNotADate
		}
		return *d, nil
	case toml.LocalDate:
		return d.AsTime(time.UTC), nil
	case toml.LocalDateTime:
		return d.AsTime(time.UTC), nil
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, d, time.UTC); err == nil {
				return t, nil
			}
		}
		return time.Time{}, errors.Wrapf(ErrNotADate, "%q", d)
	default:
		return time.Time{}, errors.Wrapf(ErrNotADate, "%T", v)
	}
}

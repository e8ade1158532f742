package model

import (
	"bytes"
	"fmt"
	"time"
)

// dateTimeLayouts lists the formats the backend has been seen to emit.
// Local date-times without an offset are interpreted as UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// DateTime wraps time.Time so that show dates and reservation
// timestamps decode whether or not the backend includes a zone offset.
type DateTime struct {
	time.Time
}

// NewDateTime returns t as a DateTime.
func NewDateTime(t time.Time) DateTime { return DateTime{Time: t} }

// UnmarshalJSON parses one of dateTimeLayouts; null and "" leave the
// zero time.
func (d *DateTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	s := string(bytes.Trim(b, `"`))
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("datetime: unsupported format %q", s)
}

// MarshalJSON writes RFC 3339; the zero time is written as null.
func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(time.RFC3339) + `"`), nil
}

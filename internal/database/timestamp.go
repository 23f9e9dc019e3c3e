package database

import (
	"fmt"
	"time"
)

// Layouts SQLite drivers may hand back when a column has no declared type,
// e.g. in RETURNING clauses.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	time.RFC3339Nano,
}

type timestamp struct {
	dst *time.Time
}

// Timestamp returns a sql.Scanner that stores a timestamp column into dst
// whether the driver delivers time.Time or its text form.
func Timestamp(dst *time.Time) interface{ Scan(any) error } {
	return timestamp{dst: dst}
}

func (ts timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*ts.dst = v
		return nil
	case nil:
		*ts.dst = time.Time{}
		return nil
	case []byte:
		return ts.parse(string(v))
	case string:
		return ts.parse(v)
	default:
		return fmt.Errorf("scan timestamp: unsupported type %T", src)
	}
}

func (ts timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*ts.dst = t
			return nil
		}
	}
	return fmt.Errorf("scan timestamp: unrecognised format %q", s)
}

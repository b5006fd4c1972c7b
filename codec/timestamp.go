package codec

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/reoring/osproto"
	js "github.com/reoring/osproto/jsonschema"
)

// Timestamp decodes ISO-8601 timestamps with or without fractional seconds
// and with or without a UTC offset (no offset means UTC). Nova's
// "2012-08-20T21:11:09Z", Cinder's "2012-08-20T21:11:09.000000" and
// "2012-08-20 21:11:09" are all accepted. Decoded values are in UTC.
//
// Encoding always uses RFC3339Nano in UTC (trailing zeros trimmed).
func Timestamp() osproto.Adapter[time.Time] { return timestampAdapter{} }

type timestampAdapter struct{}

func (timestampAdapter) Decode(_ context.Context, wire any) (time.Time, error) {
	s, ok := wire.(string)
	if !ok {
		return time.Time{}, osproto.Mismatch("timestamp string", wire)
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return time.Time{}, osproto.Malformed("ISO-8601 timestamp", s, err)
	}
	return t, nil
}

func (timestampAdapter) Encode(_ context.Context, v time.Time) any { return FormatTimestamp(v) }

func (timestampAdapter) JSONSchema() *js.Schema {
	return &js.Schema{Type: "string", Format: "date-time"}
}

// Layouts tried in order. Fractional seconds are accepted by time.Parse even
// when the layout omits them.
var _timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
}

var errEmptyTimestamp = errors.New("empty timestamp")

// ParseTimestamp parses the timestamp spellings accepted by Timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errEmptyTimestamp
	}
	var firstErr error
	for _, layout := range _timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// FormatTimestamp renders the canonical wire form.
func FormatTimestamp(t time.Time) string {
	// Normalize to UTC and format using RFC3339Nano (Go trims trailing zeros)
	return t.UTC().Format(time.RFC3339Nano)
}

package analysis

import "time"

// timeNow is a package-level variable for testability.
// Tests can replace this to control time in assertions.
var timeNow = time.Now

// absoluteLayouts are accepted encodings for timestamps carrying an
// explicit offset. RFC 3339 is what every current capture path writes.
var absoluteLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
}

// naiveLayouts are accepted encodings for wall-clock timestamps with no
// offset, written by the timer and sport capture paths in the owner's
// fixed local zone.
var naiveLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// ParseInstant parses a timestamp field into an absolute UTC instant.
// When absolute is false the value is interpreted in loc before
// conversion.
func ParseInstant(value string, absolute bool, loc *time.Location) (time.Time, error) {
	var lastErr error
	if absolute {
		for _, layout := range absoluteLayouts {
			t, err := time.Parse(layout, value)
			if err == nil {
				return t.UTC(), nil
			}
			lastErr = err
		}
		return time.Time{}, lastErr
	}
	for _, layout := range naiveLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// DefaultLocation loads the fixed local zone used to interpret naive
// timestamps. Falls back to a fixed UTC+3 offset when the tz database is
// unavailable on the host.
func DefaultLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("MSK", 3*60*60)
	}
	return loc
}

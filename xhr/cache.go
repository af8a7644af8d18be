package xhr

import (
	"net/http"
	"time"
)

// IsCached reports whether the response Date header is earlier than sent.
// Both sides are truncated to whole seconds, the resolution of the header.
// A missing or unparseable date is never cached.
func IsCached(headers map[string]string, sent time.Time) bool {
	date, ok := parseDate(headers["date"])
	if !ok {
		return false
	}
	return date.Unix() < sent.Unix()
}

func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if t, err := http.ParseTime(value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

package xhr

import (
	"testing"
	"time"
)

func TestIsCached(t *testing.T) {
	sent := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		date string
		want bool
	}{
		{"rfc1123 earlier", "Wed, 01 May 2024 11:59:59 GMT", true},
		{"rfc1123 equal", "Wed, 01 May 2024 12:00:00 GMT", false},
		{"rfc1123 later", "Wed, 01 May 2024 12:00:01 GMT", false},
		{"rfc850", "Wednesday, 01-May-24 11:00:00 GMT", true},
		{"ansi c", "Wed May  1 11:00:00 2024", true},
		{"rfc3339", "2024-05-01T11:00:00Z", true},
		{"garbage", "not a date", false},
		{"missing", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.date != "" {
				headers["date"] = tt.date
			}
			if got := IsCached(headers, sent); got != tt.want {
				t.Errorf("IsCached(%q) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestIsCachedSubSecond(t *testing.T) {
	// the header has second resolution, so 400ms earlier is the same second
	sent := time.Date(2024, 5, 1, 12, 0, 0, 400e6, time.UTC)
	if IsCached(map[string]string{"date": "Wed, 01 May 2024 12:00:00 GMT"}, sent) {
		t.Error("same-second date reported as cached")
	}
}

package version

import (
	"strings"
	"testing"
)

func restore() func() {
	v, c, b := Version, GitCommit, BuildTime
	return func() { Version, GitCommit, BuildTime = v, c, b }
}

func TestGet(t *testing.T) {
	defer restore()()
	Version, GitCommit, BuildTime = "1.2.0", "abcdef123456", "2024-01-15T10:30:00Z"

	info := Get()
	if info.Version != "1.2.0" || !info.IsRelease {
		t.Errorf("info = %+v", info)
	}
	if info.GitCommit != "abcdef1" {
		t.Errorf("commit not shortened: %q", info.GitCommit)
	}
	if info.BuildTime != "2024-01-15T10:30:00Z" {
		t.Errorf("BuildTime = %q", info.BuildTime)
	}
}

func TestDevIsNotRelease(t *testing.T) {
	defer restore()()
	Version = "dev"
	if Get().IsRelease {
		t.Error("dev build reported as release")
	}
	Version = "1.0.0-dirty"
	if Get().IsRelease {
		t.Error("dirty build reported as release")
	}
}

func TestShort(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "1.0.0"}, "1.0.0"},
		{Info{Version: "1.0.0", GitCommit: "abc1234"}, "1.0.0-abc1234"},
		{Info{Version: "1.0.0", GitCommit: "abc1234", IsDirty: true}, "1.0.0-abc1234-dirty"},
	}
	for _, tt := range tests {
		if got := tt.info.Short(); got != tt.want {
			t.Errorf("Short() = %q, want %q", got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	s := Info{Version: "1.0.0", BuildTime: "2024-01-15", GoVersion: "go1.25.0"}.String()
	if s != "xhr 1.0.0 (built 2024-01-15) go1.25.0" {
		t.Errorf("String() = %q", s)
	}
}

func TestUserAgent(t *testing.T) {
	defer restore()()
	Version = "2.0.0"
	if ua := UserAgent(); !strings.HasPrefix(ua, "xhrkit/") || !strings.HasSuffix(ua, "2.0.0") {
		t.Errorf("UserAgent() = %q", ua)
	}
}

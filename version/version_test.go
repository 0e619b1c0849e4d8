package version

import (
	"strings"
	"testing"
)

func TestInfo_Short(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev"},
		{Info{Version: "v1.2.0", GitCommit: "abc1234"}, "v1.2.0-abc1234"},
		{Info{Version: "v1.2.0", GitCommit: "abc1234", IsDirty: true}, "v1.2.0-abc1234-dirty"},
	}
	for _, tt := range tests {
		if got := tt.info.Short(); got != tt.want {
			t.Errorf("Short() = %q, want %q", got, tt.want)
		}
	}
}

func TestGet_LdflagsWin(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = origVersion, origCommit })
	Version, GitCommit = "v2.0.0", "0123456789abcdef"

	info := Get()
	if info.Version != "v2.0.0" {
		t.Errorf("expected ldflags version, got %q", info.Version)
	}
	if info.GitCommit != "0123456" {
		t.Errorf("expected commit truncated to 7 chars, got %q", info.GitCommit)
	}
}

func TestUserAgent(t *testing.T) {
	if ua := UserAgent(); !strings.HasPrefix(ua, "rxhttp/") {
		t.Errorf("unexpected user agent %q", ua)
	}
}

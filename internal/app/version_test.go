package app

import (
	"runtime/debug"
	"testing"
)

func TestFormatVersion(t *testing.T) {
	t.Parallel()

	stamped := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	tests := []struct {
		name    string
		version string
		commit  string
		built   string
		info    *debug.BuildInfo
		want    string
	}{
		{"no build info", "dev", "unknown", "unknown", nil, "jadict dev (commit: unknown, built: unknown)"},
		{"ldflags win", "v1.0.0", "abc", "today", stamped, "jadict v1.0.0 (commit: abc, built: today)"},
		{"vcs fallback", "dev", "unknown", "unknown", stamped, "jadict v0.3.1 (commit: 0123456789ab, built: 2026-01-02T03:04:05Z)"},
		{"devel module", "dev", "unknown", "unknown", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, "jadict dev (commit: unknown, built: unknown)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatVersion(tt.version, tt.commit, tt.built, tt.info); got != tt.want {
				t.Errorf("formatVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	old := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
	t.Cleanup(func() { readBuildInfo = old })
}

func TestGet(t *testing.T) {
	embedded := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	tests := []struct {
		name  string
		stamp string
		bi    *debug.BuildInfo
		want  Info
	}{
		{"no build info", "dev", nil, Info{"dev", "none", "unknown"}},
		{"devel module", "dev", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, Info{"dev", "none", "unknown"}},
		{"go install", "dev", embedded, Info{"v0.4.0", "abc123", "2026-01-02T03:04:05Z"}},
		{"ldflags win", "v1.2.3", embedded, Info{"v1.2.3", "abc123", "2026-01-02T03:04:05Z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := Version
			Version = tt.stamp
			t.Cleanup(func() { Version = old })
			stubBuildInfo(t, tt.bi)

			if got := Get(); got != tt.want {
				t.Errorf("Get() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	t.Cleanup(func() { Version = old })
	stubBuildInfo(t, nil)

	got := Template()
	if !strings.HasPrefix(got, "{{.Name}} version v1.2.3\n") {
		t.Errorf("Template() = %q", got)
	}
	if !strings.Contains(got, "commit: "+Commit) {
		t.Errorf("Template() = %q, missing commit", got)
	}
}

func TestFields(t *testing.T) {
	stubBuildInfo(t, nil)
	fields := Fields()
	if len(fields)%2 != 0 {
		t.Fatalf("Fields() has odd length %d", len(fields))
	}
	if fields[0] != "version" || fields[1] != Version {
		t.Errorf("Fields() = %v", fields)
	}
}

package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stubBuildInfo(t *testing.T, info *debug.BuildInfo) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
	Reset()
	t.Cleanup(func() {
		readBuildInfo = orig
		Reset()
	})
}

func TestResolve_FromBuildInfo(t *testing.T) {
	tests := []struct {
		name       string
		info       *debug.BuildInfo
		wantVer    string
		wantCommit string
		wantDate   string
	}{
		{
			name: "Tagged",
			info: &debug.BuildInfo{
				Main: debug.Module{Version: "v1.4.0"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef0123"},
					{Key: "vcs.time", Value: "2024-05-01T10:00:00Z"},
					{Key: "vcs.modified", Value: "false"},
				},
			},
			wantVer:    "1.4.0",
			wantCommit: "0123456789ab",
			wantDate:   "2024-05-01",
		},
		{
			name: "DirtyDevel",
			info: &debug.BuildInfo{
				Main: debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			wantVer:    "dev",
			wantCommit: "abc-dirty",
			wantDate:   "unknown",
		},
		{
			name:       "NoBuildInfo",
			info:       nil,
			wantVer:    "dev",
			wantCommit: "unknown",
			wantDate:   "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubBuildInfo(t, tt.info)

			if got := GetVersion(); got != tt.wantVer {
				t.Errorf("GetVersion() = %q, want %q", got, tt.wantVer)
			}
			if got := GetCommit(); got != tt.wantCommit {
				t.Errorf("GetCommit() = %q, want %q", got, tt.wantCommit)
			}
			if got := GetDate(); got != tt.wantDate {
				t.Errorf("GetDate() = %q, want %q", got, tt.wantDate)
			}
			if info := Info(); !strings.HasPrefix(info, "kpidash "+tt.wantVer+" (commit: "+tt.wantCommit) {
				t.Errorf("Info() = %q", info)
			}
		})
	}
}

func TestResolve_LdflagsWin(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "v9.9.9"}})
	Version, Commit, Date = "2.3.4", "abc123", "2024-05-01"

	if GetVersion() != "2.3.4" || GetCommit() != "abc123" || GetDate() != "2024-05-01" {
		t.Errorf("got %s %s %s, want ldflags values", GetVersion(), GetCommit(), GetDate())
	}
}

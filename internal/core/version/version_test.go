package version

import (
	"runtime/debug"
	"strings"
	"testing"

	kit "timeslider/internal/platform/testkit"
)

func TestInfo(t *testing.T) {
	bi := Info("timeslider-api")
	if bi.Service != "timeslider-api" || bi.Version == "" || bi.Commit == "" || bi.Date == "" {
		t.Fatalf("incomplete build info: %+v", bi)
	}
}

func TestInfo_StampedCommitWins(t *testing.T) {
	kit.Swap(t, &commit, "abcd123")
	kit.Swap(t, &readBuildInfo, func() (*debug.BuildInfo, bool) {
		t.Fatalf("build info read despite a stamped commit")
		return nil, false
	})

	if got := Info("timeslider").Commit; got != "abcd123" {
		t.Fatalf("commit = %q, want abcd123", got)
	}
}

func TestInfo_VCSFallback(t *testing.T) {
	cases := []struct {
		name       string
		info       *debug.BuildInfo
		ok         bool
		date       string
		wantCommit string
		wantDate   string
	}{
		{
			name: "vcs settings",
			info: &debug.BuildInfo{Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "f00dfeed"},
				{Key: "vcs.time", Value: "2026-10-01T10:00:00Z"},
			}},
			ok: true, date: "unknown",
			wantCommit: "f00dfeed", wantDate: "2026-10-01T10:00:00Z",
		},
		{
			name: "stamped date kept",
			info: &debug.BuildInfo{Settings: []debug.BuildSetting{
				{Key: "vcs.time", Value: "2026-10-01T10:00:00Z"},
			}},
			ok: true, date: "2026-09-30",
			wantCommit: "none", wantDate: "2026-09-30",
		},
		{name: "no build info", ok: false, date: "unknown", wantCommit: "none", wantDate: "unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kit.Swap(t, &date, tc.date)
			kit.Swap(t, &readBuildInfo, func() (*debug.BuildInfo, bool) { return tc.info, tc.ok })
			bi := Info("timeslider")
			if bi.Commit != tc.wantCommit || bi.Date != tc.wantDate {
				t.Fatalf("Info = %+v", bi)
			}
		})
	}
}

func TestBuildInfo_String(t *testing.T) {
	s := BuildInfo{Service: "timeslider", Version: "v0.1.0", Commit: "abc", Date: "2026-10-01"}.String()
	for _, part := range []string{"timeslider", "v0.1.0", "abc", "2026-10-01"} {
		if !strings.Contains(s, part) {
			t.Fatalf("String() = %q missing %q", s, part)
		}
	}
}

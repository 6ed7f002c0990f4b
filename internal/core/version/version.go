// Package version reports the build of the timeslider binaries
package version

import (
	"fmt"
	"runtime/debug"
)

// BuildInfo holds version information about the build
type BuildInfo struct {
	Service string `json:"service" example:"timeslider-api"`
	Version string `json:"version" example:"v0.1.0"`
	Commit  string `json:"commit" example:"abcd123"`
	Date    string `json:"date" example:"2026-10-01"`
}

// Set via -ldflags "-X 'timeslider/internal/core/version.version=v0.1.0'
// -X 'timeslider/internal/core/version.commit=abcd' -X 'timeslider/internal/core/version.date=2026-10-01'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// readBuildInfo is a seam for tests
var readBuildInfo = debug.ReadBuildInfo

// Info returns the build information for service; an unset commit falls back
// to the vcs revision the toolchain stamped, if any
func Info(service string) BuildInfo {
	bi := BuildInfo{Service: service, Version: version, Commit: commit, Date: date}
	if bi.Commit != "none" {
		return bi
	}
	if info, ok := readBuildInfo(); ok && info != nil {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				bi.Commit = s.Value
			case "vcs.time":
				if bi.Date == "unknown" {
					bi.Date = s.Value
				}
			}
		}
	}
	return bi
}

// String is the one-line form printed by the CLI
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", b.Service, b.Version, b.Commit, b.Date)
}

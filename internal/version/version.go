// Package version reports build provenance for the nesdeck binary and the
// on-disk save-state format it writes, so a user attaching a bug report or
// an IncompatibleSaveState error can be traced back to a specific build.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set at build time via -ldflags; left at these defaults for `go run`
// and `go test`, where Collect falls back to the module's VCS stamp for
// the commit.
var (
	Version   = "dev"
	GitCommit = ""
	BuildDate = ""
)

// SaveStateFormat is the magic/version pair internal/deck stamps on every
// save state, surfaced here so `nesdeck version` can report save-state
// compatibility alongside the binary's own version.
const SaveStateFormat = "NDSS v1"

// Info is a point-in-time snapshot of build provenance.
type Info struct {
	Version   string
	GitCommit string
	Dirty     bool
	GoVersion string
	OS, Arch  string
}

// Collect reads ldflags-injected values and, for anything left unset,
// falls back to the VCS stamp Go embeds automatically via debug.BuildInfo
// (present for `go install`/`go build` of a module checked out from git,
// absent for GOFLAGS=-trimpath release builds that set ldflags instead).
func Collect() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range bi.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = setting.Value
				}
			case "vcs.modified":
				info.Dirty = setting.Value == "true"
			}
		}
	}
	return info
}

// String renders a single-line version identifier, e.g.
// "nesdeck dev+a1b2c3d-dirty (go1.23 linux/amd64)".
func (i Info) String() string {
	var b strings.Builder
	b.WriteString("nesdeck ")
	b.WriteString(i.Version)
	if i.GitCommit != "" {
		commit := i.GitCommit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		fmt.Fprintf(&b, "+%s", commit)
		if i.Dirty {
			b.WriteString("-dirty")
		}
	}
	fmt.Fprintf(&b, " (%s %s/%s)", i.GoVersion, i.OS, i.Arch)
	return b.String()
}

// Report writes a multi-line build and save-state compatibility report to
// stdout, the body of the `nesdeck version` subcommand.
func Report() {
	info := Collect()
	fmt.Println(info.String())
	fmt.Printf("save-state format: %s\n", SaveStateFormat)
	if BuildDate != "" {
		fmt.Printf("built: %s\n", BuildDate)
	}
}

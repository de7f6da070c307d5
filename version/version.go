package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Set via -ldflags.
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

const shortCommitLen = 7

// Info is the build information reported by --version and GET /version.
type Info struct {
	Version   string    `json:"version"`
	Commit    string    `json:"commit,omitempty"`
	BuildTime time.Time `json:"build_time,omitempty"`
	GoVersion string    `json:"go_version"`
	Modified  bool      `json:"modified,omitempty"`
}

// Get assembles Info from the link-time variables and the embedded build info.
func Get() Info {
	info := Info{Version: Version, Commit: Commit}
	if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
		info.BuildTime = t
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		case "vcs.time":
			if info.BuildTime.IsZero() {
				if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
					info.BuildTime = t
				}
			}
		}
	}
	return info
}

// String renders "<version> (<commit>[-dirty], built <time>)".
func (i Info) String() string {
	s := i.Version
	commit := i.Commit
	if len(commit) > shortCommitLen {
		commit = commit[:shortCommitLen]
	}
	if commit != "" {
		if i.Modified {
			commit += "-dirty"
		}
		s += " (" + commit
		if !i.BuildTime.IsZero() {
			s += ", built " + i.BuildTime.UTC().Format(time.RFC3339)
		}
		s += ")"
	}
	return s
}

// UserAgent returns the User-Agent sent on outbound requests.
func UserAgent() string {
	return fmt.Sprintf("speechkit/%s", Version)
}

package typetext

import "fmt"

// Version of the typetext library
const Version = "0.3.0"

// Build information (set by ldflags during build)
var (
	GitCommit string
	BuildDate string
)

// VersionInfo returns formatted version information
func VersionInfo() string {
	if GitCommit == "" {
		return fmt.Sprintf("typetext v%s", Version)
	}
	return fmt.Sprintf("typetext v%s (commit: %s, built: %s)", Version, GitCommit, BuildDate)
}

// VersionDetails contains detailed version information
type VersionDetails struct {
	Version   string `text:"version"`
	GitCommit string `text:"git_commit,omitempty"`
	BuildDate string `text:"build_date,omitempty"`
}

// FullVersionInfo returns the version and build details.
func FullVersionInfo() VersionDetails {
	return VersionDetails{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate}
}

// String returns a formatted version string
func (v VersionDetails) String() string {
	if v.GitCommit == "" {
		return fmt.Sprintf("v%s", v.Version)
	}
	commit := v.GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("v%s-%s (%s)", v.Version, commit, v.BuildDate)
}

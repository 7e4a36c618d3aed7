package version

import (
	"os/exec"
	"runtime/debug"
	"strings"
)

// Version is set at build time:
//
//	go build -ldflags "-X github.com/2beens/stepgoal/internal/version.Version=v1.0.0"
var Version = "dev"

// Info returns the version followed by the VCS revision when one can be found,
// first in the embedded build info and then by asking git.
func Info() string {
	revision := buildRevision()
	if revision == "" {
		revision, _ = lastCommitHash()
	}
	if revision == "" {
		return Version
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	return Version + " (" + revision + ")"
}

func buildRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			return setting.Value
		}
	}
	return ""
}

// lastCommitHash assumes the binary runs from within the repository.
func lastCommitHash() (string, error) {
	stdout, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(stdout)), nil
}

// Package gitinfo captures source-control provenance for run records.
package gitinfo

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
)

// Metadata identifies the code state an ingestion run was started from.
type Metadata struct {
	Commit string
	Branch string
	Repo   string
}

// Capture reads the current commit, branch and origin URL from the working
// directory's git repository. Fields are left empty when git is unavailable
// or the directory is not a repository; provenance is cosmetic, never fatal.
func Capture(ctx context.Context) Metadata {
	meta := Metadata{
		Commit: gitOutput(ctx, "rev-parse", "HEAD"),
		Branch: gitOutput(ctx, "rev-parse", "--abbrev-ref", "HEAD"),
		Repo:   gitOutput(ctx, "config", "--get", "remote.origin.url"),
	}
	if meta.Commit == "" {
		slog.Debug("git metadata unavailable, run will be stamped with empty provenance")
	}
	return meta
}

func gitOutput(ctx context.Context, args ...string) string {
	out, err := exec.CommandContext(ctx, "git", args...).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

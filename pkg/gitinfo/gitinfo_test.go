package gitinfo

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaptureNeverFails(t *testing.T) {
	// Capture must return usable (possibly empty) metadata whether or not the
	// test runs inside a git checkout.
	meta := Capture(context.Background())

	if _, err := exec.LookPath("git"); err != nil {
		assert.Empty(t, meta.Commit)
		assert.Empty(t, meta.Branch)
		assert.Empty(t, meta.Repo)
	}
}

func TestGitOutputUnknownCommand(t *testing.T) {
	out := gitOutput(context.Background(), "definitely-not-a-git-subcommand")
	assert.Empty(t, out)
}

package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulcrumlabs/fulcrumbot/internal/version"
)

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, version.Version)
}

func TestCheckAcceptsWellFormedCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(),
		"check", "survival", "-port", "25566", "--fresh", "--hardcore")
	require.NoError(t, err)
	assert.Contains(t, stdout, "positionals: 1")
	assert.Contains(t, stdout, "[0] survival (text)")
	assert.Contains(t, stdout, "port = 25566 (integer)")
	assert.Contains(t, stdout, "options: 0b11")
	assert.Contains(t, stdout, "set: fresh, hardcore")
}

func TestCheckRejectsMalformedCommandWithDiagnostic(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "check", "ok", "b@d")
	require.Error(t, err)
	assert.ErrorContains(t, err, "command rejected")
	assert.Contains(t, stdout, "ok b@d")
	assert.Contains(t, stdout, "^^^")
	assert.Contains(t, stdout, "malformed token")
}

func TestCheckRejectsOversizedToken(t *testing.T) {
	long := make([]byte, 129)
	for i := range long {
		long[i] = 'a'
	}

	stdout, _, err := executeCLI(t, t.TempDir(), "check", string(long))
	require.Error(t, err)
	assert.Contains(t, stdout, "token too large")
}

func TestRootSurfacesWiringError(t *testing.T) {
	t.Setenv("FULCRUMBOT_SERVER_TARGET_VERSION", "not-a-version")

	_, _, err := executeCLI(t, t.TempDir())
	require.Error(t, err)
	assert.ErrorContains(t, err, "server.target_version")
}

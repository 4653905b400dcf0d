package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: deep_link
description: "fallback deep link then a push"
initial: "/?/dashboard&tab=2"
routes: ["/", "/dashboard", "/settings"]
steps:
  - navigate: "/settings"
    expect: "/settings"
assertions:
  - type: history
    kinds: [initial, push]
`

const passingGolden = `scenario deep_link
seq=1 kind=initial key=key-1 location=/dashboard?tab=2 route=/dashboard url=/dashboard?tab=2
seq=2 kind=push key=key-2 location=/settings route=/settings url=/settings
`

const failingScenario = `name: wrong_url
description: "expects the fallback form to stay in the address bar"
initial: "/?/dashboard"
routes: ["/", "/dashboard"]
assertions:
  - type: url
    location: "/?/dashboard"
`

func TestTestCommand_PassWithGolden(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "deep_link.yaml"), passingScenario)
	writeFile(t, filepath.Join(dir, "golden", "deep_link.golden"), passingGolden)

	out, _, err := execute(NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ deep_link")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestCommand_GoldenMismatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "deep_link.yaml"), passingScenario)
	writeFile(t, filepath.Join(dir, "golden", "deep_link.golden"), "scenario deep_link\n")

	out, _, err := execute(NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ deep_link")
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommand_Update(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "deep_link.yaml"), passingScenario)

	out, _, err := execute(NewTestCommand(&RootOptions{Format: "text"}), dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ deep_link (golden updated)")

	golden, err := os.ReadFile(filepath.Join(dir, "golden", "deep_link.golden"))
	require.NoError(t, err)
	assert.Equal(t, passingGolden, string(golden))
}

func TestTestCommand_AssertionFailureJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "deep_link.yaml"), passingScenario)
	writeFile(t, filepath.Join(dir, "wrong_url.yaml"), failingScenario)

	out, _, err := execute(NewTestCommand(&RootOptions{Format: "json"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)

	require.Len(t, resp.Data.Scenarios, 2)
	assert.Equal(t, "wrong_url", resp.Data.Scenarios[1].Name)
	assert.Equal(t, []string{"assertion failed: url: expected /?/dashboard, got /dashboard"}, resp.Data.Scenarios[1].Errors)
}

func TestTestCommand_Filter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "deep_link.yaml"), passingScenario)
	writeFile(t, filepath.Join(dir, "wrong_url.yaml"), failingScenario)

	out, _, err := execute(NewTestCommand(&RootOptions{Format: "text"}), dir, "--filter", "deep_*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommand_LoadError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "broken.yaml"), "name: broken\n")

	out, _, err := execute(NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestCommand_Empty(t *testing.T) {
	out, _, err := execute(NewTestCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "No scenarios found.\n", out)
}

func TestTestCommand_MissingDir(t *testing.T) {
	_, _, err := execute(NewTestCommand(&RootOptions{Format: "text"}), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

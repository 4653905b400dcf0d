package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const testEntryDocument = "<!doctype html><html><body><div id=app></div></body></html>\n"

const testManifest = `not_found: /404
routes:
  - path: /
    title: Home
  - path: /dashboard
    title: Dashboard
    first_5s_message: Loading your dashboard
  - path: /settings/profile
  - path: /404
`

// setupProject creates an output tree, a YAML route manifest and a ledger
// path in a temp dir and points the STATICROUTE_* variables at them.
func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	dist := filepath.Join(dir, "dist")
	require.NoError(t, os.MkdirAll(dist, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dist, "index.html"), []byte(testEntryDocument), 0644))
	writeManifest(t, dir, testManifest)

	t.Setenv("STATICROUTE_OUTPUT_DIR", dist)
	t.Setenv("STATICROUTE_ROUTES_FILE", filepath.Join(dir, "routes.yaml"))
	t.Setenv("STATICROUTE_LEDGER", filepath.Join(dir, "ledger.db"))
	t.Setenv("STATICROUTE_LOG_LEVEL", "info")
	return dir
}

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "routes.yaml"), []byte(content), 0644))
}

// execute runs cmd with args and returns stdout, stderr and the error.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

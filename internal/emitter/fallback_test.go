package emitter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderFallbackDocument(t *testing.T) {
	out, err := RenderFallbackDocument(FallbackData{Title: "<Ops> Console"})
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "&lt;Ops&gt; Console")
	assert.Contains(t, html, "'~and~'")
	assert.Contains(t, html, "'/?/'")
	assert.Contains(t, html, "l.replace(")
}

func TestWriteFallbackDocument(t *testing.T) {
	root := t.TempDir()

	path, err := WriteFallbackDocument(root, "", FallbackData{Title: "App"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, DefaultFallbackDocument), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<title>App</title>")
}

func TestWriteFallbackDocument_MissingRoot(t *testing.T) {
	_, err := WriteFallbackDocument(filepath.Join(t.TempDir(), "missing"), "404.html", FallbackData{})
	assert.True(t, IsIOError(err))
}

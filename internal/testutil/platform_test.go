package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/staticroute/internal/location"
)

func TestSplitURL(t *testing.T) {
	assert.Equal(t, location.RawLocation{Pathname: "/a"}, SplitURL("/a"))
	assert.Equal(t, location.RawLocation{Pathname: "/a", Search: "?x=1&y=2"}, SplitURL("/a?x=1&y=2"))
	assert.Equal(t, location.RawLocation{Pathname: "/", Search: "?"}, SplitURL("/?"))
}

func TestFakePlatform(t *testing.T) {
	p := NewFakePlatform(location.RawLocation{Pathname: "/"})

	calls := 0
	cancel := p.OnPopState(func() { calls++ })
	assert.Equal(t, 1, p.Listeners())

	p.PushURL("/dashboard?tab=1")
	assert.Equal(t, location.RawLocation{Pathname: "/dashboard", Search: "?tab=1"}, p.Location())
	p.ReplaceURL("/login")
	assert.Equal(t, []string{"/dashboard?tab=1"}, p.Pushes())
	assert.Equal(t, []string{"/login"}, p.Replaces())

	p.Pop(location.RawLocation{Pathname: "/back"})
	assert.Equal(t, 1, calls)
	assert.Equal(t, "/back", p.Location().Pathname)

	cancel()
	assert.Equal(t, 0, p.Listeners())
	p.Pop(location.RawLocation{Pathname: "/again"})
	assert.Equal(t, 1, calls)
}

func TestSequentialKeys(t *testing.T) {
	g := NewSequentialKeys("")
	assert.Equal(t, "key-1", g.Generate())
	assert.Equal(t, "key-2", g.Generate())
	g.Reset()
	assert.Equal(t, "key-1", g.Generate())
	assert.Equal(t, "run-1", NewSequentialKeys("run").Generate())
}

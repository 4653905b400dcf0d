package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackCodecMatchesDecode(t *testing.T) {
	raw := RawLocation{Pathname: "/", Search: "?/dashboard&tab=1"}

	got, err := Fallback{}.Decode(raw)
	require.NoError(t, err)
	want, _ := Decode(raw)
	assert.Equal(t, want, got)
}

func TestDirectCodecNeverUnwrapsFallback(t *testing.T) {
	raw := RawLocation{Pathname: "/", Search: "?/dashboard&tab=1"}

	got, err := Direct{}.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, LogicalLocation{Path: "/", Search: "?/dashboard&tab=1"}, got)
}

func TestResolveDegradesToRoot(t *testing.T) {
	for _, c := range []Codec{Fallback{}, Direct{}} {
		loc, err := Resolve(c, RawLocation{Pathname: "nope"})
		assert.Error(t, err)
		assert.True(t, IsDecodeError(err))
		assert.Equal(t, Root, loc)
	}
}

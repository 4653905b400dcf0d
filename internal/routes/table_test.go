package routes

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDuplicate(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.Register(Entry{Path: "/dashboard"}))

	err := table.Register(Entry{Path: "/dashboard"})
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.True(t, IsDuplicate(err))
	assert.Contains(t, err.Error(), "DUPLICATE_ROUTE")
	assert.Equal(t, 1, table.Len())
}

func TestRegisterInvalidPaths(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing slash", "dashboard"},
		{"empty", ""},
		{"trailing slash", "/dashboard/"},
		{"protocol relative", "//evil"},
		{"query", "/a?b"},
		{"fragment", "/a#b"},
		{"escape token", "/a~and~b"},
		{"empty segment", "/a//b"},
		{"dot segment", "/a/./b"},
		{"dot-dot segment", "/a/../b"},
		{"only dot-dot", "/.."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewTable().Register(Entry{Path: tt.path})
			require.Error(t, err)
			var ce *ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, ErrCodeInvalidRoute, ce.Code)
		})
	}
}

func TestValidatePath_AcceptsDotsInsideSegments(t *testing.T) {
	for _, path := range []string{"/", "/a", "/a/b.c", "/.well-known", "/a/..b", "/v1.2/notes"} {
		assert.NoError(t, ValidatePath(path), path)
	}
}

func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	assert.Panics(t, func() {
		NewTable().MustRegister(Entry{Path: "/a"}, Entry{Path: "/a"})
	})
}

func TestLookup(t *testing.T) {
	table := NewTable().MustRegister(
		Entry{Path: "/"},
		Entry{Path: "/govern/audit"},
	)

	e, err := table.Lookup("/govern/audit")
	require.NoError(t, err)
	assert.Equal(t, "/govern/audit", e.Path)

	_, err = table.Lookup("/govern")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = table.Lookup("/govern/audit/")
	assert.ErrorIs(t, err, ErrNotFound, "lookup is exact")
}

func TestUXMeta(t *testing.T) {
	table := NewTable().MustRegister(
		Entry{Path: "/onboarding", UX: &UXMeta{First5sMessage: "Connect your first engine"}},
		Entry{Path: "/plain"},
	)

	meta, ok := table.UXMeta("/onboarding")
	require.True(t, ok)
	assert.Equal(t, "Connect your first engine", meta.First5sMessage)

	meta, ok = table.UXMeta("/plain")
	assert.False(t, ok)
	assert.Nil(t, meta)

	_, ok = table.UXMeta("/missing")
	assert.False(t, ok)
}

func TestPathsSorted(t *testing.T) {
	table := NewTable().MustRegister(Entry{Path: "/z"}, Entry{Path: "/"}, Entry{Path: "/a/b"})
	assert.Equal(t, []string{"/", "/a/b", "/z"}, table.Paths())
}

func TestLoadIsLazyAndCached(t *testing.T) {
	var calls atomic.Int32
	table := NewTable().MustRegister(Entry{
		Path: "/dashboard",
		Loader: func(ctx context.Context) (Module, error) {
			calls.Add(1)
			return "dashboard-module", nil
		},
	})
	assert.Equal(t, int32(0), calls.Load(), "loader must not run at registration")

	ctx := context.Background()
	m, err := table.Load(ctx, "/dashboard").Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dashboard-module", m)

	task := table.Load(ctx, "/dashboard")
	assert.True(t, task.Ready())
	m, err = task.Result()
	require.NoError(t, err)
	assert.Equal(t, "dashboard-module", m)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoadJoinsInflight(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	table := NewTable().MustRegister(Entry{
		Path: "/slow",
		Loader: func(ctx context.Context) (Module, error) {
			calls.Add(1)
			<-release
			return 42, nil
		},
	})

	ctx := context.Background()
	first := table.Load(ctx, "/slow")
	second := table.Load(ctx, "/slow")
	assert.Same(t, first, second)

	_, err := first.Result()
	assert.ErrorIs(t, err, ErrPending)
	assert.False(t, first.Ready())

	close(release)
	m, err := second.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, m)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoadFailureIsRetried(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("chunk fetch failed")
	table := NewTable().MustRegister(Entry{
		Path: "/flaky",
		Loader: func(ctx context.Context) (Module, error) {
			if calls.Add(1) == 1 {
				return nil, boom
			}
			return "ok", nil
		},
	})

	ctx := context.Background()
	_, err := table.Load(ctx, "/flaky").Wait(ctx)
	require.ErrorIs(t, err, boom)

	m, err := table.Load(ctx, "/flaky").Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", m)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLoadUnknownAndNilLoader(t *testing.T) {
	table := NewTable().MustRegister(Entry{Path: "/static"})
	ctx := context.Background()

	_, err := table.Load(ctx, "/missing").Wait(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	m, err := table.Load(ctx, "/static").Wait(ctx)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestTaskWaitHonoursContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	table := NewTable().MustRegister(Entry{
		Path: "/never",
		Loader: func(ctx context.Context) (Module, error) {
			<-release
			return nil, nil
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := table.Load(context.Background(), "/never").Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

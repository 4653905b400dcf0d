package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveInitialLocation(t *testing.T) {
	tests := []struct {
		name string
		raw  RawLocation
		want LogicalLocation
	}{
		{
			name: "root with empty search",
			raw:  RawLocation{Pathname: "/", Search: ""},
			want: LogicalLocation{Path: "/", Search: ""},
		},
		{
			name: "root with ordinary query",
			raw:  RawLocation{Pathname: "/", Search: "?utm=mail"},
			want: LogicalLocation{Path: "/", Search: "?utm=mail"},
		},
		{
			name: "fallback path only",
			raw:  RawLocation{Pathname: "/", Search: "?/dashboard"},
			want: LogicalLocation{Path: "/dashboard", Search: ""},
		},
		{
			name: "fallback path and query",
			raw:  RawLocation{Pathname: "/", Search: "?/govern/audit-detail&decision=GV-2026-0319-847"},
			want: LogicalLocation{Path: "/govern/audit-detail", Search: "?decision=GV-2026-0319-847"},
		},
		{
			name: "escaped ampersand in query",
			raw:  RawLocation{Pathname: "/", Search: "?/execute/history&filter=approved~and~deferred"},
			want: LogicalLocation{Path: "/execute/history", Search: "?filter=approved&deferred"},
		},
		{
			name: "every escape token is replaced",
			raw:  RawLocation{Pathname: "/", Search: "?/execute/history&a=1~and~b=2~and~c=3"},
			want: LogicalLocation{Path: "/execute/history", Search: "?a=1&b=2&c=3"},
		},
		{
			name: "percent encoding is left alone",
			raw:  RawLocation{Pathname: "/", Search: "?/dashboard&next=%2Fprotect"},
			want: LogicalLocation{Path: "/dashboard", Search: "?next=%2Fprotect"},
		},
		{
			name: "escaped ampersand in path",
			raw:  RawLocation{Pathname: "/", Search: "?/terms~and~conditions&v=2"},
			want: LogicalLocation{Path: "/terms&conditions", Search: "?v=2"},
		},
		{
			name: "trailing boundary without query",
			raw:  RawLocation{Pathname: "/", Search: "?/dashboard&"},
			want: LogicalLocation{Path: "/dashboard", Search: ""},
		},
		{
			name: "empty payload",
			raw:  RawLocation{Pathname: "/", Search: "?/"},
			want: LogicalLocation{Path: "/", Search: ""},
		},
		{
			name: "direct deep link",
			raw:  RawLocation{Pathname: "/dashboard", Search: "?tab=overview"},
			want: LogicalLocation{Path: "/dashboard", Search: "?tab=overview"},
		},
		{
			name: "direct deep link keeps fallback-looking search",
			raw:  RawLocation{Pathname: "/dashboard", Search: "?/protect&x=1"},
			want: LogicalLocation{Path: "/dashboard", Search: "?/protect&x=1"},
		},
		{
			name: "malformed pathname degrades to root",
			raw:  RawLocation{Pathname: "dashboard", Search: ""},
			want: Root,
		},
		{
			name: "malformed search degrades to root",
			raw:  RawLocation{Pathname: "/dashboard", Search: "tab=1"},
			want: Root,
		},
		{
			name: "protocol-relative payload degrades to root",
			raw:  RawLocation{Pathname: "/", Search: "?//evil.example&x=1"},
			want: Root,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveInitialLocation(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.Path, ResolveInitialPath(tt.raw))
			assert.Equal(t, got.Search, ResolveInitialSearch(tt.raw))
		})
	}
}

func TestDecode_MalformedReturnsDecodeError(t *testing.T) {
	loc, err := Decode(RawLocation{Pathname: "", Search: ""})
	require.Error(t, err)
	assert.True(t, IsDecodeError(err))
	assert.Equal(t, Root, loc)
	assert.Contains(t, err.Error(), "pathname must start with /")
}

func TestDecode_DirectLinksAreIdentity(t *testing.T) {
	raws := []RawLocation{
		{Pathname: "/a", Search: ""},
		{Pathname: "/govern/audit", Search: "?x=1&y=2"},
		{Pathname: "/execute/history", Search: "?filter=approved~and~deferred"},
		{Pathname: "/trailing/", Search: ""},
	}

	for _, raw := range raws {
		got, err := Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, raw.Pathname, got.Path)
		assert.Equal(t, raw.Search, got.Search)
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		loc  LogicalLocation
		want RawLocation
	}{
		{
			name: "root",
			loc:  Root,
			want: RawLocation{Pathname: "/", Search: ""},
		},
		{
			name: "root with query",
			loc:  LogicalLocation{Path: "/", Search: "?q=1"},
			want: RawLocation{Pathname: "/", Search: "?/&q=1"},
		},
		{
			name: "path only",
			loc:  LogicalLocation{Path: "/dashboard"},
			want: RawLocation{Pathname: "/", Search: "?/dashboard"},
		},
		{
			name: "path and query with ampersands",
			loc:  LogicalLocation{Path: "/execute/history", Search: "?filter=approved&deferred"},
			want: RawLocation{Pathname: "/", Search: "?/execute/history&filter=approved~and~deferred"},
		},
		{
			name: "bare question mark on root",
			loc:  LogicalLocation{Path: "/", Search: "?"},
			want: RawLocation{Pathname: "/", Search: ""},
		},
		{
			name: "bare question mark on path",
			loc:  LogicalLocation{Path: "/a", Search: "?"},
			want: RawLocation{Pathname: "/", Search: "?/a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.loc))
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	paths := []string{"/", "/dashboard", "/govern/audit-detail", "/terms&conditions", "/a/b/c/d"}
	queries := []string{"", "?x=1", "?x=1&y=2", "?filter=approved&deferred&z", "?next=%2Fprotect", "?a==b&&c"}

	for _, path := range paths {
		for _, query := range queries {
			loc := LogicalLocation{Path: path, Search: query}
			got, err := Decode(Encode(loc))
			require.NoError(t, err, "loc=%v", loc)
			assert.Equal(t, loc, got, "round trip of %q", loc.String())
		}
	}
}

func TestEncodeDecode_BareQueryNormalisesToEmpty(t *testing.T) {
	for _, path := range []string{"/", "/a", "/govern/audit-detail"} {
		got, err := Decode(Encode(LogicalLocation{Path: path, Search: "?"}))
		require.NoError(t, err)
		assert.Equal(t, LogicalLocation{Path: path, Search: ""}, got)
	}
}

func TestLogicalLocation_String(t *testing.T) {
	assert.Equal(t, "/dashboard?tab=1", LogicalLocation{Path: "/dashboard", Search: "?tab=1"}.String())
	assert.Equal(t, "/", Root.String())
	assert.True(t, Root.IsRoot())
	assert.False(t, LogicalLocation{Path: "/x"}.IsRoot())
}

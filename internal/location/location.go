package location

import "strings"

const (
	// FallbackPrefix marks a search string carrying a fallback-encoded route.
	FallbackPrefix = "?/"

	// EscapeToken replaces every literal "&" inside a fallback payload.
	EscapeToken = "~and~"
)

// RawLocation is the unprocessed address exposed by the host environment.
type RawLocation struct {
	Pathname string `json:"pathname"`
	Search   string `json:"search"`
}

// LogicalLocation is the location the application routes on.
type LogicalLocation struct {
	Path   string `json:"path"`
	Search string `json:"search"`
}

// Root is the logical location of the site root.
var Root = LogicalLocation{Path: "/", Search: ""}

// String returns the direct URL form of the location.
func (l LogicalLocation) String() string {
	return l.Path + l.Search
}

// IsRoot reports whether the location points at the root path.
func (l LogicalLocation) IsRoot() bool {
	return l.Path == "/"
}

// Decode applies the fallback decoding rules to raw.
// Malformed input yields Root together with a *DecodeError.
func Decode(raw RawLocation) (LogicalLocation, error) {
	if err := validateRaw(raw); err != nil {
		return Root, err
	}

	if raw.Pathname != "/" || !strings.HasPrefix(raw.Search, FallbackPrefix) {
		return LogicalLocation{Path: raw.Pathname, Search: raw.Search}, nil
	}

	payload := raw.Search[len(FallbackPrefix):]
	encodedPath, rest, _ := strings.Cut(payload, "&")

	path := "/" + unescape(encodedPath)
	if strings.HasPrefix(path, "//") {
		return Root, &DecodeError{Raw: raw, Reason: "decoded path is protocol-relative"}
	}

	search := ""
	if rest != "" {
		search = "?" + unescape(rest)
	}

	return LogicalLocation{Path: path, Search: search}, nil
}

// Encode produces the fallback form of loc, as written by a host's
// not-found document. Decode(Encode(loc)) == loc for every loc whose path
// and search do not contain EscapeToken. A bare "?" search is treated as
// empty and decodes back as "".
func Encode(loc LogicalLocation) RawLocation {
	query := strings.TrimPrefix(loc.Search, "?")
	if loc.Path == "/" && query == "" {
		return RawLocation{Pathname: "/", Search: ""}
	}

	payload := escape(strings.TrimPrefix(loc.Path, "/"))
	if query != "" {
		payload += "&" + escape(query)
	}

	return RawLocation{Pathname: "/", Search: FallbackPrefix + payload}
}

// ResolveInitialLocation decodes raw, degrading malformed input to Root.
func ResolveInitialLocation(raw RawLocation) LogicalLocation {
	loc, err := Decode(raw)
	if err != nil {
		return Root
	}
	return loc
}

// ResolveInitialPath returns ResolveInitialLocation(raw).Path.
func ResolveInitialPath(raw RawLocation) string {
	return ResolveInitialLocation(raw).Path
}

// ResolveInitialSearch returns ResolveInitialLocation(raw).Search.
func ResolveInitialSearch(raw RawLocation) string {
	return ResolveInitialLocation(raw).Search
}

func validateRaw(raw RawLocation) error {
	if !strings.HasPrefix(raw.Pathname, "/") {
		return &DecodeError{Raw: raw, Reason: "pathname must start with /"}
	}
	if raw.Search != "" && !strings.HasPrefix(raw.Search, "?") {
		return &DecodeError{Raw: raw, Reason: "search must be empty or start with ?"}
	}
	return nil
}

func escape(s string) string {
	return strings.ReplaceAll(s, "&", EscapeToken)
}

func unescape(s string) string {
	return strings.ReplaceAll(s, EscapeToken, "&")
}

// Package location translates between the raw address a browser exposes and
// the logical {path, search} pair the application routes on.
//
// # Fallback encoding
//
// Static hosts that cannot rewrite unknown paths to the entry document serve
// a not-found document instead. That document redirects to the site root and
// smuggles the original address through the query string:
//
//	/govern/audit-detail?decision=GV-1   =>   /?/govern/audit-detail&decision=GV-1
//
// The payload after "?/" is the path without its leading slash, followed by
// a single unescaped "&" and the original query without its "?". Every
// literal "&" inside either part is written as the token "~and~", so the
// first unescaped "&" in the payload is always the path/query boundary.
//
// This is a hard invariant of the format: the encoder (Encode, and the
// script in the emitted not-found document) and the decoder (Decode) must
// agree on it. Text that already contains "~and~", or "~and" / "and~"
// directly next to an "&", does not survive a round trip.
//
// An empty query is carried as no query at all. A payload ending in "&"
// with nothing after it decodes to an empty search, and Encode drops a bare
// "?" search, so {"/a", "?"} encodes as "?/a" and comes back as {"/a", ""}.
//
// The codec performs no percent-decoding. "%2F" in a query stays "%2F".
//
// # Strategies
//
// The fallback scheme is one host quirk. Codec isolates it: Fallback applies
// the scheme, Direct treats every raw location as already clean, for hosts
// with server-side rewrites and for back/forward events once an application
// is running.
package location

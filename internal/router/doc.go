// Package router owns the application's current logical location.
//
// # Lifecycle
//
// A Router starts Uninitialized. Start reads the host's raw location once,
// decodes it through the configured location.Codec (the static-host
// fallback scheme by default), and moves to Active. Navigate and Replace
// are only valid while Active; calling them earlier or after Close is a
// programming error reported as a *MisuseError.
//
// Malformed raw locations never fail Start. They degrade to the root
// location and are logged.
//
// # Threading
//
// A Router is driven from a single goroutine, the host's UI loop. State
// transitions and subscriber notification are synchronous; a subscriber
// always observes a fully updated state. The navigation Clock is atomic so
// that Outlet load completions, which finish on other goroutines, can check
// whether they are still current.
//
// # Back/forward
//
// The platform's back/forward stack carries direct URLs. Pop-state events
// are decoded with location.Direct, never with the fallback codec, even if
// the router itself was started with one.
package router

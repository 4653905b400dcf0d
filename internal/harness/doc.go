// Package harness runs navigation scenarios against the router.
//
// A scenario starts a router on a fake host at a raw address, replays a
// list of navigation steps, and checks the resulting locations. Every
// location change that reaches the outlet is recorded in a trace, which
// tests compare against golden files.
//
// # Scenario Format
//
//	name: deep_link_fallback
//	description: "A fallback deep link resolves before any navigation"
//	codec: fallback            # or direct; default fallback
//	initial: "/?/dashboard&tab=2"
//	routes: ["/", "/dashboard", "/not-found"]
//	not_found: /not-found
//	steps:
//	  - navigate: "/settings?x=1"
//	    expect: "/settings?x=1"
//	  - pop: "/dashboard?tab=2"
//	    expect_route: /dashboard
//	  - close: true
//	  - navigate: "/late"
//	    expect_error: not_active
//	assertions:
//	  - type: current
//	    location: "/dashboard?tab=2"
//	  - type: history
//	    kinds: [initial, push, pop]
//
// # Assertion Types
//
//   - current: the router's final logical location
//   - url: the final address bar contents
//   - history: the kinds of the history log, in order
//   - notifications: the number of trace events
//
// # Deterministic Testing
//
// Runs use sequential history keys ("key-1", "key-2", ...) and a fresh
// navigation clock, so the same scenario always produces the same trace.
package harness

// Package emitter materializes the compiled entry document at every
// enumerated route so a static host serves a bootstrapping document for
// direct deep links on first request.
//
// Given <root>/index.html and the route /govern/audit, Emit writes a
// byte-identical copy to <root>/govern/audit/index.html. The root route is
// skipped; it already is the default document. Writes are sequential and the
// first failure aborts the run. Partial output is left in place: the step is
// idempotent and is simply rerun.
//
// Unenumerated paths still reach the host's not-found document, which
// WriteFallbackDocument renders. Its script applies the location package's
// fallback encoding and redirects to the root.
package emitter

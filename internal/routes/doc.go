// Package routes is the static registry of logical paths.
//
// A Table maps exact paths to entries carrying a lazy Loader for the route's
// content and optional UX metadata for presentation collaborators. Lookup is
// exact string matching; there are no patterns or parameters, because the
// application's screens are a fixed, enumerable set.
//
// Route content is loaded on first use. Table.Load returns a Task that the
// caller awaits or polls. A successful load is cached for the lifetime of
// the table; a failed load is not, so the next navigation retries.
//
// Manifests declare the table in CUE or YAML so the build tooling and the
// application enumerate the same routes:
//
//	not_found: "/not-found"
//	routes: [
//		{path: "/dashboard", title: "Dashboard", first_5s_message: "Your engines at a glance"},
//		{path: "/govern/audit"},
//	]
package routes

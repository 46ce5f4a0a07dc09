// Package settings models the build-contract environment variables consumed
// during repository aggregation.
//
// Process-scoped values (umask, target ownership, log level) are parsed into a
// Settings struct, while per-repository values (clone depth, product version,
// origin URL patterns) are looked up through Environment snapshots that addons
// documents may override entry by entry.
package settings

// Package build orchestrates a full aggregation run: the hand-written
// repository manifest first when present, then whatever fetch configuration
// the resolver synthesizes for repositories missing from it.
package build

// Package checkout describes the on-disk layout of the aggregated source tree:
// where the source root lives, where the two manifests are found, where the
// generated auto-repos configuration is written, and how manifest keys resolve
// to absolute repository paths.
package checkout

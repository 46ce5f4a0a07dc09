// Package manifest parses the declarative repository manifests that drive
// aggregation: the hand-written repository manifest and the addons manifest.
//
// Both files are ordered sequences of YAML documents. This package only
// enumerates top-level keys and extracts per-document environment overrides;
// the per-repository merge configuration remains opaque and is consumed
// verbatim by the external aggregation tool.
package manifest

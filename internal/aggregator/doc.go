// Package aggregator invokes the external multi-repository aggregation tool
// against a configuration document, scoping a umask override around the call
// and normalizing checkout ownership afterwards.
package aggregator

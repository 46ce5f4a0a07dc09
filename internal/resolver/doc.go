// Package resolver reconciles the repositories an addons manifest expects
// against the repositories the hand-written manifest defines, and synthesizes
// default fetch configuration for the difference.
package resolver

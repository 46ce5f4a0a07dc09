// Package ownership normalizes file ownership across the aggregated source
// tree after the external aggregation tool has run, typically to hand the
// checkout back to the unprivileged application user inside the container.
package ownership

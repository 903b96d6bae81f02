// Package layers models polygon layers produced by the pipeline and the
// collector they are registered with. The collector is injected into the
// batch runner and owned by the caller, so a host application can route
// collected layers into its own registry.
package layers

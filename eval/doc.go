// Package eval computes node outputs: one function per effect kind mapping
// the node's parameters and resolved upstream rasters to a new raster and
// the dims it reports.
//
// Evaluation never fails across the package boundary. Decode failures,
// missing upstream output, unavailable surfaces, incomplete merge inputs and
// even panics all degrade to "no output" (a nil [Result]); the reason is
// logged at debug level. Downstream nodes cannot tell waiting for an
// upstream from a failed upstream; both are simply empty.
package eval

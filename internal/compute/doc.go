// Package compute provides execution backends for grid evaluation.
//
// A [Backend] splits an index range into chunks and runs them on its
// execution units:
//
//   - Serial: single goroutine, reference behavior
//   - CPU: chunked fan-out over runtime.NumCPU() workers
//
// Backends only schedule; the per-point work stays in the caller, so
// results are identical across backends. Resolve one from a selector
// string:
//
//	be, err := compute.Select("auto")
//	be.For(grid.NumPoints(), evalChunk)
package compute

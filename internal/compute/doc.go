// Package compute provides the execution backends that drive per-row work.
//
// Escape-time rows are independent, so a backend only has to call a row
// function once per row and return when all of them finished:
//
//   - CPU: rows fanned out over a bounded errgroup, one task per row
//   - Serial: rows run in order on the calling goroutine
//
// # Example
//
//	backend := compute.AutoSelect(0)
//	err := backend.Rows(ctx, height, func(row int) { ... })
//
// Rows are the unit of work; blocks inside a row are never split.
package compute

// Package spectrum maps escape-time iteration buckets onto colours of the
// visible spectrum.
//
// The mapping approximates human cone response for wavelengths between
// 380 nm and 780 nm:
//
//   - [WavelengthToRGB]: the piecewise-linear physical model
//   - [Table]: 1024 precomputed colours, index 0 reserved for black
//   - [Default]: the process-wide table shared by every field
//
// # Example
//
//	tbl := spectrum.Default()
//	c := tbl.Lookup(512) // yellow-green
//
// # Thread Safety
//
// A Table is immutable once built and may be read from any number of
// goroutines.
package spectrum

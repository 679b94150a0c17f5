// Package viz draws escape-time fields in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Canvas]: a [field.PixelSink] that packs two pixel rows into each
//     character cell using the upper half block
//   - [Viewer]: pan and zoom through the set, one background render per
//     change
//
// # Key Bindings
//
//	arrows / hjkl - pan by a tenth of the span
//	+ / -         - zoom in / out by a factor of two
//	p             - next preset
//	r             - back to the starting viewport
//	q             - quit
package viz

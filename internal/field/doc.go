// Package field computes Mandelbrot escape-time fields.
//
// A [Field] owns a fixed grid of iteration counts for a given output
// resolution. [Field.Compute] fills it for a [Viewport] of the complex
// plane and [Field.Render] walks it, colouring every cell through the
// shared spectral table into a [PixelSink].
//
// # Example
//
//	f, _ := field.New(512, 512)
//	_ = f.Compute(ctx, field.Viewport{CenterReal: -0.85, Span: 2.7})
//	f.Render(sink)
//
// # Thread Safety
//
// A Field is not safe for concurrent use. Compute parallelises rows
// internally and returns only once the whole grid is written.
package field

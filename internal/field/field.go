package field

import (
	"context"
	"fmt"
	"image"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/fractal/internal/compute"
	"github.com/san-kum/fractal/internal/spectrum"
)

// PixelSink receives rendered pixels. x is the column, y the row.
type PixelSink interface {
	SetPixel(x, y int, c spectrum.RGB)
}

// PixelSinkFunc adapts a function to PixelSink.
type PixelSinkFunc func(x, y int, c spectrum.RGB)

func (f PixelSinkFunc) SetPixel(x, y int, c spectrum.RGB) { f(x, y, c) }

type Field struct {
	width, height int
	grid          []uint16
	scratch       []uint16
	viewport      Viewport
	computed      bool

	backend compute.Backend
	table   *spectrum.Table
	logger  *log.Logger
}

type Option func(*Field)

func WithBackend(b compute.Backend) Option {
	return func(f *Field) { f.backend = b }
}

func WithTable(t *spectrum.Table) Option {
	return func(f *Field) { f.table = t }
}

func WithLogger(l *log.Logger) Option {
	return func(f *Field) { f.logger = l }
}

// New allocates a width×height field with every cell bounded (zero).
// Sizes whose cell count overflows int are rejected like non-positive ones.
func New(width, height int, opts ...Option) (*Field, error) {
	if width <= 0 || height <= 0 || width > math.MaxInt/height {
		return nil, &FieldError{
			Op:      "new",
			Detail:  fmt.Sprintf("%dx%d", width, height),
			Wrapped: ErrInvalidDimensions,
		}
	}

	f := &Field{
		width:  width,
		height: height,
		grid:   make([]uint16, width*height),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.backend == nil {
		f.backend = compute.AutoSelect(0)
	}
	if f.table == nil {
		f.table = spectrum.Default()
	}
	if f.logger == nil {
		f.logger = log.New(io.Discard)
	}
	return f, nil
}

func (f *Field) Width() int { return f.width }
func (f *Field) Height() int { return f.height }
func (f *Field) Bounds() image.Rectangle { return image.Rect(0, 0, f.width, f.height) }
func (f *Field) Viewport() Viewport { return f.viewport }
func (f *Field) Computed() bool { return f.computed }
func (f *Field) Backend() compute.Backend { return f.backend }
func (f *Field) Table() *spectrum.Table { return f.table }
func (f *Field) index(row, col int) int { return row*f.width + col }
func (f *Field) inside(row, col int) bool { return row >= 0 && row < f.height && col >= 0 && col < f.width }

// Compute overwrites the grid with escape counts for v. Nothing is written
// when v is invalid or ctx ends before every row finished.
func (f *Field) Compute(ctx context.Context, v Viewport) error {
	if err := v.Validate(); err != nil {
		return err
	}

	if f.scratch == nil {
		f.scratch = make([]uint16, len(f.grid))
	}
	buf := f.scratch
	rmin, rmax, imin, imax := v.Bounds()
	start := time.Now()

	err := f.backend.Rows(ctx, f.height, func(row int) {
		ci := axis(imin, imax, v.CenterImag, row, f.height)
		base := row * f.width
		for col := 0; col < f.width; col++ {
			cr := axis(rmin, rmax, v.CenterReal, col, f.width)
			buf[base+col] = uint16(Escape(complex(cr, ci)))
		}
	})
	if err != nil {
		return fmt.Errorf("compute %s: %w", v, err)
	}

	f.grid, f.scratch = buf, f.grid
	f.viewport = v
	f.computed = true

	f.logger.Debug("field computed",
		"size", fmt.Sprintf("%dx%d", f.width, f.height),
		"viewport", v.String(),
		"backend", f.backend.Name(),
		"elapsed", time.Since(start).Round(time.Microsecond))
	return nil
}

// Render emits every cell once, row by row, coloured from the table.
func (f *Field) Render(sink PixelSink) {
	for row := 0; row < f.height; row++ {
		base := row * f.width
		for col := 0; col < f.width; col++ {
			sink.SetPixel(col, row, f.table.Lookup(tableIndex(f.grid[base+col])))
		}
	}
}

// tableIndex folds an escape at the very last iteration onto the last
// table slot; every other count is already a valid index.
func tableIndex(k uint16) int {
	if int(k) >= spectrum.Size {
		return spectrum.Size - 1
	}
	return int(k)
}

// At returns the escape count of a cell.
func (f *Field) At(row, col int) (int, error) {
	if !f.inside(row, col) {
		return 0, &FieldError{
			Op:      "at",
			Detail:  fmt.Sprintf("row %d col %d in %dx%d", row, col, f.width, f.height),
			Wrapped: ErrOutOfBounds,
		}
	}
	return int(f.grid[f.index(row, col)]), nil
}

// Sample returns the complex point behind a cell for the current viewport.
func (f *Field) Sample(row, col int) complex128 {
	return SampleAt(f.viewport, f.width, f.height, row, col)
}

// Counts returns a row-major copy of the grid.
func (f *Field) Counts() []uint16 {
	out := make([]uint16, len(f.grid))
	copy(out, f.grid)
	return out
}

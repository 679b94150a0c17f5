package field

import (
	"fmt"
	"math"
)

// Viewport is a square region of the complex plane. Span is the full
// width of the square, not its radius.
type Viewport struct {
	CenterReal float64 `json:"center_real" yaml:"center_real" toml:"center_real"`
	CenterImag float64 `json:"center_imag" yaml:"center_imag" toml:"center_imag"`
	Span       float64 `json:"span" yaml:"span" toml:"span"`
}

func (v Viewport) Validate() error {
	if !(v.Span > 0) || math.IsInf(v.Span, 0) {
		return &FieldError{Op: "validate", Detail: fmt.Sprintf("span %g", v.Span), Wrapped: ErrInvalidViewport}
	}
	if isBad(v.CenterReal) || isBad(v.CenterImag) {
		return &FieldError{
			Op:      "validate",
			Detail:  fmt.Sprintf("center (%g, %g)", v.CenterReal, v.CenterImag),
			Wrapped: ErrInvalidViewport,
		}
	}
	return nil
}

// Bounds returns the real and imaginary ranges covered by the viewport.
func (v Viewport) Bounds() (rmin, rmax, imin, imax float64) {
	r := v.Span / 2
	return v.CenterReal - r, v.CenterReal + r, v.CenterImag - r, v.CenterImag + r
}

// Pan moves the centre by fractions of the span.
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.CenterReal += dx * v.Span
	v.CenterImag += dy * v.Span
	return v
}

// Zoom scales the span by factor; factors below one zoom in.
func (v Viewport) Zoom(factor float64) Viewport {
	v.Span *= factor
	return v
}

func (v Viewport) String() string {
	return fmt.Sprintf("(%g%+gi) span %g", v.CenterReal, v.CenterImag, v.Span)
}

func isBad(x float64) bool {
	return math.IsNaN(x) || math.IsInf(x, 0)
}

package field

const (
	// MaxIter caps the orbit length; it is also the spectral table size.
	MaxIter = 1024

	// EscapeRadiusSq is |z|² beyond which an orbit is known to diverge.
	EscapeRadiusSq = 4.0
)

// Escape iterates z ← z² + c from z = 0 and returns the first k in
// [1, MaxIter] with |z|² > EscapeRadiusSq, or 0 if the orbit stays
// bounded for all MaxIter steps.
func Escape(c complex128) int {
	cr, ci := real(c), imag(c)
	var zr, zi float64

	for k := 1; k <= MaxIter; k++ {
		// Explicit conversions stop the compiler fusing multiply-adds, which
		// keeps counts bit-identical across architectures.
		vr := float64(zr*zr) - float64(zi*zi) + cr
		vi := float64(2*zr*zi) + ci
		if float64(vr*vr)+float64(vi*vi) > EscapeRadiusSq {
			return k
		}
		zr, zi = vr, vi
	}
	return 0
}

// axis maps index i of n samples onto [lo, hi]. The last sample lands on hi
// exactly; a single sample sits at mid.
func axis(lo, hi, mid float64, i, n int) float64 {
	switch {
	case n == 1:
		return mid
	case i == n-1:
		return hi
	}
	d := (hi - lo) / float64(n-1)
	return lo + float64(float64(i)*d)
}

// SampleAt returns the complex point pixel (row, col) of a width×height
// grid maps to under v.
func SampleAt(v Viewport, width, height, row, col int) complex128 {
	rmin, rmax, imin, imax := v.Bounds()
	return complex(
		axis(rmin, rmax, v.CenterReal, col, width),
		axis(imin, imax, v.CenterImag, row, height),
	)
}

package spectrum

import "math"

const (
	MinWavelength = 380.0
	MaxWavelength = 780.0
	Gamma         = 0.8
)

// WavelengthToRGB converts a wavelength in nanometres to a display colour.
// Anything outside [380, 781) is black.
func WavelengthToRGB(wl float64) RGB {
	var r, g, b float64

	switch {
	case wl >= 380 && wl < 440:
		r = -(wl - 440) / (440 - 380)
		b = 1
	case wl >= 440 && wl < 490:
		g = (wl - 440) / (490 - 440)
		b = 1
	case wl >= 490 && wl < 510:
		g = 1
		b = -(wl - 510) / (510 - 490)
	case wl >= 510 && wl < 580:
		r = (wl - 510) / (580 - 510)
		g = 1
	case wl >= 580 && wl < 645:
		r = 1
		g = -(wl - 645) / (645 - 580)
	case wl >= 645 && wl < 781:
		r = 1
	}

	f := intensity(wl)
	return RGB{R: channel(r, f), G: channel(g, f), B: channel(b, f)}
}

// intensity lets the brightness fall off near the limits of vision.
func intensity(wl float64) float64 {
	switch {
	case wl >= 380 && wl < 420:
		return 0.3 + 0.7*(wl-380)/(420-380)
	case wl >= 420 && wl < 701:
		return 1
	case wl >= 701 && wl < 781:
		return 0.3 + 0.7*(780-wl)/(780-700)
	default:
		return 0
	}
}

// channel applies gamma. A zero channel stays zero; 0^0.8 is never evaluated.
func channel(c, f float64) uint8 {
	if c == 0 {
		return 0
	}
	return uint8(math.Round(255 * math.Pow(c*f, Gamma)))
}

// Package raster provides pixel sinks backed by in-memory images and the
// encoders that write them out.
package raster

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/fractal/internal/spectrum"
)

// ImageSink accumulates pixels into an RGBA image.
type ImageSink struct {
	img *image.RGBA
}

func NewImageSink(width, height int) *ImageSink {
	return &ImageSink{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (s *ImageSink) SetPixel(x, y int, c spectrum.RGB) {
	s.img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
}

func (s *ImageSink) Image() *image.RGBA { return s.img }

// CountingSink records how often each pixel was written.
type CountingSink struct {
	Width, Height int
	Calls         int
	hits          []int
}

func NewCountingSink(width, height int) *CountingSink {
	return &CountingSink{Width: width, Height: height, hits: make([]int, width*height)}
}

func (s *CountingSink) SetPixel(x, y int, _ spectrum.RGB) {
	s.Calls++
	if x >= 0 && x < s.Width && y >= 0 && y < s.Height {
		s.hits[y*s.Width+x]++
	}
}

// Complete reports whether every pixel was written exactly once.
func (s *CountingSink) Complete() bool {
	if s.Calls != s.Width*s.Height {
		return false
	}
	for _, h := range s.hits {
		if h != 1 {
			return false
		}
	}
	return true
}

func EncodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// EncodePPM writes img as a binary (P6) portable pixmap.
func EncodePPM(w io.Writer, img image.Image) error {
	b := img.Bounds()
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", b.Dx(), b.Dy()); err != nil {
		return err
	}
	px := make([]byte, 3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			px[0], px[1], px[2] = c.R, c.G, c.B
			if _, err := bw.Write(px); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// WriteFile encodes img to path, choosing PPM for a .ppm suffix and PNG
// otherwise.
func WriteFile(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".ppm") {
		err = EncodePPM(f, img)
	} else {
		err = EncodePNG(f, img)
	}
	if err != nil {
		return err
	}
	return f.Close()
}

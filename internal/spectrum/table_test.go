package spectrum_test

import (
	"image/color"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fractal/internal/spectrum"
)

var _ = Describe("WavelengthToRGB", func() {
	DescribeTable("outside the visible band is black",
		func(wl float64) {
			Expect(spectrum.WavelengthToRGB(wl)).To(Equal(spectrum.Black))
		},
		Entry("far infrared", 1000.0),
		Entry("upper limit", 781.0),
		Entry("just below violet", 379.999),
		Entry("zero", 0.0),
		Entry("negative", -5.0),
	)

	DescribeTable("band colours",
		func(wl float64, want spectrum.RGB) {
			Expect(spectrum.WavelengthToRGB(wl)).To(Equal(want))
		},
		Entry("violet edge", 380.0, spectrum.RGB{R: 97, B: 97}),
		Entry("pure blue", 440.0, spectrum.RGB{B: 255}),
		Entry("cyan", 490.0, spectrum.RGB{G: 255, B: 255}),
		Entry("green", 510.0, spectrum.RGB{G: 255}),
		Entry("yellow", 580.0, spectrum.RGB{R: 255, G: 255}),
		Entry("red", 645.0, spectrum.RGB{R: 255}),
	)

	It("never gamma-corrects a zero channel", func() {
		c := spectrum.WavelengthToRGB(600)
		Expect(c.B).To(BeZero())
		Expect(c.R).To(Equal(uint8(255)))
	})
})

var _ = Describe("Table", func() {
	var tbl *spectrum.Table

	BeforeEach(func() {
		tbl = spectrum.Build()
	})

	It("has exactly 1024 entries", func() {
		Expect(tbl.Len()).To(Equal(1024))
		Expect(func() { tbl.Lookup(1023) }).NotTo(Panic())
		Expect(func() { tbl.Lookup(1024) }).To(Panic())
	})

	It("reserves index 0 for black", func() {
		Expect(tbl.Lookup(0)).To(Equal(spectrum.RGB{}))
	})

	It("is deterministic", func() {
		other := spectrum.Build()
		for i := 0; i < spectrum.Size; i++ {
			Expect(tbl.Lookup(i)).To(Equal(other.Lookup(i)), "index %d", i)
		}
	})

	It("returns the same colour on repeated lookups", func() {
		first := tbl.Lookup(300)
		Expect(tbl.Lookup(300)).To(Equal(first))
	})

	DescribeTable("known slots",
		func(i int, want spectrum.RGB) {
			Expect(tbl.Lookup(i)).To(Equal(want))
		},
		Entry("first visible", 1, spectrum.RGB{R: 97, B: 97}),
		Entry("second", 2, spectrum.RGB{R: 99, B: 99}),
		Entry("violet-blue", 100, spectrum.RGB{R: 109, B: 250}),
		Entry("blue-cyan", 256, spectrum.RGB{G: 212, B: 255}),
		Entry("cyan-green", 300, spectrum.RGB{G: 255, B: 182}),
		Entry("yellow", 512, spectrum.RGB{R: 254, G: 255}),
		Entry("red", 700, spectrum.RGB{R: 255}),
		Entry("deep red", 1000, spectrum.RGB{R: 118}),
		Entry("last", 1023, spectrum.RGB{R: 98}),
	)

	It("only leaves slot 0 fully black", func() {
		for i := 1; i < spectrum.Size; i++ {
			Expect(tbl.Lookup(i)).NotTo(Equal(spectrum.Black), "index %d", i)
		}
	})

	It("samples gradients across the visible slots", func() {
		g := tbl.Gradient(5)
		Expect(g).To(HaveLen(5))
		Expect(g[0]).To(Equal(tbl.Lookup(1)))
		Expect(g[4]).To(Equal(tbl.Lookup(1023)))
		Expect(tbl.Gradient(0)).To(BeEmpty())
	})
})

var _ = Describe("Default", func() {
	It("is built once and shared", func() {
		Expect(spectrum.Default()).To(BeIdenticalTo(spectrum.Default()))
		Expect(spectrum.Default().Lookup(512)).To(Equal(spectrum.Build().Lookup(512)))
	})
})

var _ = Describe("RGB", func() {
	It("is an opaque color.Color", func() {
		var c color.Color = spectrum.RGB{R: 255, G: 0x80}
		r, g, b, a := c.RGBA()
		Expect(r).To(Equal(uint32(0xffff)))
		Expect(g).To(Equal(uint32(0x8080)))
		Expect(b).To(BeZero())
		Expect(a).To(Equal(uint32(0xffff)))
	})

	It("formats as hex", func() {
		Expect(spectrum.RGB{R: 255, G: 16, B: 1}.Hex()).To(Equal("#ff1001"))
	})
})

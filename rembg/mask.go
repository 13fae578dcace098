package rembg

import (
	"image"
	"image/color"
	"math"
)

// Distance is the Euclidean distance between the RGB parts of a and b.
// Alpha does not take part.
func Distance(a, b color.NRGBA) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// Mask marks background pixels. Bits are stored row-major, so the entry for
// (x, y) lives at y*width + x with x and y relative to Rect.Min.
type Mask struct {
	Rect image.Rectangle
	Bits []bool
}

// BuildMask classifies every pixel of img against bg. A pixel is background
// when its distance is strictly less than tolerance.
func BuildMask(img *image.NRGBA, bg color.NRGBA, tolerance float64) *Mask {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	m := &Mask{Rect: b, Bits: make([]bool, w*h)}

	for y := 0; y < h; y++ {
		row := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w; x++ {
			i := row + x*4
			c := color.NRGBA{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2]}
			m.Bits[y*w+x] = Distance(c, bg) < tolerance
		}
	}
	return m
}

func (m *Mask) Bounds() image.Rectangle {
	return m.Rect
}

// At reports whether (x, y), in image coordinates, is background.
func (m *Mask) At(x, y int) bool {
	if !(image.Point{X: x, Y: y}).In(m.Rect) {
		return false
	}
	return m.Bits[(y-m.Rect.Min.Y)*m.Rect.Dx()+(x-m.Rect.Min.X)]
}

// Count returns the number of background pixels.
func (m *Mask) Count() int {
	n := 0
	for _, bit := range m.Bits {
		if bit {
			n++
		}
	}
	return n
}

// Apply zeroes alpha wherever the mask is set and leaves RGB alone.
func (m *Mask) Apply(img *image.NRGBA) {
	w := m.Rect.Dx()
	for y := 0; y < m.Rect.Dy(); y++ {
		row := img.PixOffset(m.Rect.Min.X, m.Rect.Min.Y+y)
		for x := 0; x < w; x++ {
			if m.Bits[y*w+x] {
				img.Pix[row+x*4+3] = 0
			}
		}
	}
}

package rembg

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

var ErrEmptyImage = errors.New("image has no pixels")

// Sampler picks the colour treated as background.
type Sampler interface {
	Sample(img *image.NRGBA) (color.NRGBA, error)
}

// PointSampler reads one pixel. Point is relative to the image's top-left
// corner, not to its bounds origin.
type PointSampler struct {
	Point image.Point
}

// TopLeft samples the pixel at row 0, column 0.
func TopLeft() PointSampler {
	return PointSampler{}
}

func (s PointSampler) Sample(img *image.NRGBA) (color.NRGBA, error) {
	b := img.Bounds()
	if b.Empty() {
		return color.NRGBA{}, ErrEmptyImage
	}

	p := b.Min.Add(s.Point)
	if !p.In(b) {
		return color.NRGBA{}, fmt.Errorf("sample point %v outside %dx%d image", s.Point, b.Dx(), b.Dy())
	}
	return img.NRGBAAt(p.X, p.Y), nil
}

// ColorSampler ignores the image and always returns C.
type ColorSampler struct {
	C color.NRGBA
}

func (s ColorSampler) Sample(img *image.NRGBA) (color.NRGBA, error) {
	if img.Bounds().Empty() {
		return color.NRGBA{}, ErrEmptyImage
	}
	return s.C, nil
}

package imaging

import (
	"image"

	"golang.org/x/image/draw"
)

// ToNRGBA returns a freshly allocated NRGBA copy of img with its bounds moved
// to the origin. NRGBA sources are copied byte for byte so colour under fully
// transparent pixels survives; everything else goes through draw.Src.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	if src, ok := img.(*image.NRGBA); ok {
		rowLen := b.Dx() * 4
		for y := 0; y < b.Dy(); y++ {
			si := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowLen], src.Pix[si:si+rowLen])
		}
		return dst
	}

	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// HasAlpha 检查 alpha 通道是否真的包含透明信息
func HasAlpha(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 255 {
			return true
		}
	}
	return false
}

// IsOpaque reports whether every pixel of img is fully opaque. Types from the
// image package answer through their Opaque method.
func IsOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return !HasAlpha(ToNRGBA(img))
}

// DropAlpha forces every pixel opaque without touching RGB, the way a
// straight RGBA to RGB conversion discards the fourth channel.
func DropAlpha(img *image.NRGBA) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
}

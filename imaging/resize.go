package imaging

import (
	"image"

	"github.com/nfnt/resize"
)

// Resize scales img to exactly w x h with Lanczos3, ignoring aspect ratio.
func Resize(img image.Image, w, h int) *image.NRGBA {
	return ToNRGBA(resize.Resize(uint(w), uint(h), img, resize.Lanczos3))
}

// ResizeToMaxWidth 缩放（宽度 <= maxWidth）
// Narrower images are returned unchanged; wider ones keep their aspect ratio
// with the new height truncated toward zero.
func ResizeToMaxWidth(img *image.NRGBA, maxWidth int) (*image.NRGBA, bool) {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if w <= maxWidth {
		return img, false
	}

	ratio := float64(maxWidth) / float64(w)
	newH := max(1, int(float64(h)*ratio))

	return Resize(img, maxWidth, newH), true
}

package imaging

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"
)

// Format is an output container the pipeline knows how to write.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
)

// FormatFromPath maps a file extension to a Format. ok is false for anything
// that is neither PNG nor JPEG.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, true
	case ".jpg", ".jpeg":
		return JPEG, true
	default:
		return "", false
	}
}

// EncodePNG writes img as PNG with the default compression.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// EncodePNGBest writes img as PNG spending as much effort as possible on size.
func EncodePNGBest(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, img)
}

// EncodeJPEG writes img as baseline JPEG at the given quality (1-100).
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	if quality < 1 || quality > 100 {
		return fmt.Errorf("jpeg quality %d out of range [1,100]", quality)
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}

package rembg

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/chaos-io/logokit/imaging"
	"github.com/chaos-io/logokit/util"
)

// RemoveFile reads src (a path or http(s) URL), removes its background and
// writes the result to dst as PNG, overwriting whatever is there. Nothing is
// written when decoding or removal fails, and a failed write leaves dst as it
// was.
func RemoveFile(ctx context.Context, r Remover, src, dst string) error {
	img, format, err := util.LoadImage(ctx, src)
	if err != nil {
		return err
	}

	out, err := r.Remove(ctx, img)
	if err != nil {
		return fmt.Errorf("remove background from %s: %w", src, err)
	}

	err = util.WriteFileAtomic(dst, func(w io.Writer) error {
		return imaging.EncodePNG(w, out)
	})
	if err != nil {
		return err
	}

	slog.Info("processed image saved", "src", src, "format", format, "dst", dst)
	return nil
}

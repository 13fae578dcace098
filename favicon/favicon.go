// Package favicon renders site icons from a logo: a small ICO for legacy
// browsers and a larger PNG for everything else.
package favicon

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	ico "github.com/sergeymakinen/go-ico"

	"github.com/chaos-io/logokit/imaging"
	"github.com/chaos-io/logokit/util"
)

const (
	DefaultICOSize = 32
	DefaultPNGSize = 192

	// MaxICOSize is the largest edge an ICO directory entry can describe.
	MaxICOSize = 256
)

type Options struct {
	ICOSize int
	PNGSize int
	ICOName string
	PNGName string
}

func DefaultOptions() Options {
	return Options{
		ICOSize: DefaultICOSize,
		PNGSize: DefaultPNGSize,
		ICOName: "favicon.ico",
		PNGName: fmt.Sprintf("icon-%d.png", DefaultPNGSize),
	}
}

func (o Options) validate() error {
	if o.ICOSize < 1 || o.ICOSize > MaxICOSize {
		return fmt.Errorf("ico size %d out of range [1,%d]", o.ICOSize, MaxICOSize)
	}
	if o.PNGSize < 1 {
		return fmt.Errorf("png size %d must be positive", o.PNGSize)
	}
	if o.ICOName == "" || o.PNGName == "" {
		return fmt.Errorf("output names must not be empty")
	}
	return nil
}

// Result lists the files Generate wrote.
type Result struct {
	ICOPath string
	PNGPath string
}

// Generate writes the ICO and PNG icons for src into outDir, creating it if
// needed. Both are plain square resamples of src, so a non-square logo is
// stretched.
func Generate(ctx context.Context, src image.Image, outDir string, opts Options) (*Result, error) {
	if src == nil {
		return nil, fmt.Errorf("nil image provided")
	}
	if src.Bounds().Empty() {
		return nil, fmt.Errorf("empty source image")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", util.ErrWrite, outDir, err)
	}

	res := &Result{
		ICOPath: filepath.Join(outDir, opts.ICOName),
		PNGPath: filepath.Join(outDir, opts.PNGName),
	}

	small := imaging.Resize(src, opts.ICOSize, opts.ICOSize)
	if err := util.WriteFileAtomic(res.ICOPath, func(w io.Writer) error {
		return EncodeICO(w, small)
	}); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	large := imaging.Resize(src, opts.PNGSize, opts.PNGSize)
	if err := util.WriteFileAtomic(res.PNGPath, func(w io.Writer) error {
		return imaging.EncodePNG(w, large)
	}); err != nil {
		return nil, err
	}

	slog.Info("favicon generated", "dir", outDir, "ico", res.ICOPath, "png", res.PNGPath)
	return res, nil
}

// GenerateFile is Generate for a path or http(s) URL.
func GenerateFile(ctx context.Context, srcPath, outDir string, opts Options) (*Result, error) {
	img, _, err := util.LoadImage(ctx, srcPath)
	if err != nil {
		return nil, err
	}
	return Generate(ctx, img, outDir, opts)
}

// EncodeICO writes img as a single-entry ICO file.
func EncodeICO(w io.Writer, img image.Image) error {
	b := img.Bounds()
	if b.Dx() > MaxICOSize || b.Dy() > MaxICOSize {
		return fmt.Errorf("icon %dx%d larger than %d", b.Dx(), b.Dy(), MaxICOSize)
	}
	return ico.Encode(w, img)
}

// Package optimize shrinks and recompresses the PNG and JPEG files under a
// directory in place.
package optimize

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/chaos-io/logokit/imaging"
	"github.com/chaos-io/logokit/util"
)

const (
	DefaultMaxWidth    = 1920
	DefaultJPEGQuality = 85
)

var ErrDirNotFound = errors.New("directory not found")

type Options struct {
	MaxWidth    int
	JPEGQuality int
}

func DefaultOptions() Options {
	return Options{
		MaxWidth:    DefaultMaxWidth,
		JPEGQuality: DefaultJPEGQuality,
	}
}

// Report summarises one Run. Failed maps a path to why it was skipped.
type Report struct {
	Optimized []string
	Resized   []string
	Failed    map[string]error
}

type Optimizer struct {
	opts Options
}

func NewOptimizer(opts Options) (*Optimizer, error) {
	if opts.MaxWidth <= 0 {
		return nil, fmt.Errorf("max width %d must be positive", opts.MaxWidth)
	}
	if opts.JPEGQuality < 1 || opts.JPEGQuality > 100 {
		return nil, fmt.Errorf("jpeg quality %d out of range [1,100]", opts.JPEGQuality)
	}
	return &Optimizer{opts: opts}, nil
}

// Run walks dir and optimises every .png, .jpg and .jpeg file it finds. A file
// that cannot be processed is logged, recorded in the report and skipped; only
// a missing dir, a walk error or ctx cancellation fails the run.
func (o *Optimizer) Run(ctx context.Context, dir string) (*Report, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDirNotFound, dir)
	}

	report := &Report{Failed: map[string]error{}}
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := imaging.FormatFromPath(path); !ok {
			return nil
		}

		resized, fileErr := o.OptimizeFile(path)
		if fileErr != nil {
			slog.Error("error optimizing", "path", path, "err", fileErr)
			report.Failed[path] = fileErr
			return nil
		}

		slog.Info("optimized", "path", path, "resized", resized)
		report.Optimized = append(report.Optimized, path)
		if resized {
			report.Resized = append(report.Resized, path)
		}
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("walk %s: %w", dir, err)
	}

	sort.Strings(report.Optimized)
	sort.Strings(report.Resized)
	return report, nil
}

// OptimizeFile rewrites one image in place and reports whether it was
// downscaled. JPEG targets lose their alpha channel; RGB is kept as is. Images
// that need neither change are re-encoded in their decoded colour model, so
// paletted and grayscale files stay paletted and grayscale.
func (o *Optimizer) OptimizeFile(path string) (bool, error) {
	format, ok := imaging.FormatFromPath(path)
	if !ok {
		return false, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}

	src, _, err := util.OpenImage(path)
	if err != nil {
		return false, err
	}

	out, resized := src, false
	dropAlpha := format == imaging.JPEG && !imaging.IsOpaque(src)
	if dropAlpha || src.Bounds().Dx() > o.opts.MaxWidth {
		img := imaging.ToNRGBA(src)
		if dropAlpha {
			slog.Debug("dropping alpha for jpeg", "path", path)
			imaging.DropAlpha(img)
		}
		out, resized = imaging.ResizeToMaxWidth(img, o.opts.MaxWidth)
	}

	err = util.WriteFileAtomic(path, func(w io.Writer) error {
		return o.encode(w, out, format)
	})
	return resized, err
}

func (o *Optimizer) encode(w io.Writer, img image.Image, format imaging.Format) error {
	if format == imaging.PNG {
		return imaging.EncodePNGBest(w, img)
	}
	return imaging.EncodeJPEG(w, img, o.opts.JPEGQuality)
}

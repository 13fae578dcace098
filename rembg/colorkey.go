package rembg

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/chaos-io/logokit/imaging"
)

// ColorKeyRemBG removes a solid background by colour distance.
type ColorKeyRemBG struct {
	opts Options
}

func NewColorKeyRemBG(opts ...Option) *ColorKeyRemBG {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Sampler == nil {
		o.Sampler = TopLeft()
	}
	return &ColorKeyRemBG{opts: o}
}

func (r *ColorKeyRemBG) Tolerance() float64 {
	return r.opts.Tolerance
}

// Remove returns a new NRGBA image; img itself is never written to.
func (r *ColorKeyRemBG) Remove(ctx context.Context, img image.Image) (image.Image, error) {
	out, _, err := r.RemoveWithMask(ctx, img)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveWithMask is Remove that also hands back the mask it applied.
func (r *ColorKeyRemBG) RemoveWithMask(ctx context.Context, img image.Image) (*image.NRGBA, *Mask, error) {
	if img == nil {
		return nil, nil, fmt.Errorf("nil image provided")
	}
	if r.opts.Tolerance < 0 {
		return nil, nil, fmt.Errorf("negative tolerance %v", r.opts.Tolerance)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	out := imaging.ToNRGBA(img)

	bg, err := r.opts.Sampler.Sample(out)
	if err != nil {
		return nil, nil, fmt.Errorf("sample background: %w", err)
	}

	mask := BuildMask(out, bg, r.opts.Tolerance)
	mask.Apply(out)

	slog.Debug("background removed", "bg", bg, "tolerance", r.opts.Tolerance,
		"masked", mask.Count(), "total", len(mask.Bits))

	return out, mask, nil
}

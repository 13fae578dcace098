// Package rembg turns a logo on a solid background into a transparent image.
//
// The background colour is read from a single sample pixel (the top-left
// corner unless configured otherwise) and every pixel whose RGB distance to it
// is strictly below the tolerance gets alpha 0. There is no feathering: a
// pixel is either background or it is left exactly as it was.
package rembg

import (
	"context"
	"image"
)

// DefaultTolerance is the RGB distance below which a pixel counts as background.
const DefaultTolerance = 30.0

type Remover interface {
	Remove(ctx context.Context, img image.Image) (image.Image, error)
}

// Options tunes a ColorKeyRemBG.
type Options struct {
	Tolerance float64
	Sampler   Sampler
}

type Option func(*Options)

// WithTolerance sets the distance threshold. Higher values classify more
// pixels as background.
func WithTolerance(tol float64) Option {
	return func(o *Options) {
		o.Tolerance = tol
	}
}

// WithSampler replaces the corner sampler.
func WithSampler(s Sampler) Option {
	return func(o *Options) {
		o.Sampler = s
	}
}

func defaultOptions() Options {
	return Options{
		Tolerance: DefaultTolerance,
		Sampler:   TopLeft(),
	}
}

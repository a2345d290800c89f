package render

import "gonum.org/v1/plot/vg"

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithSizePx sets the image size in pixels.
func WithSizePx(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 && height > 0 {
			r.width = pxToLength(width)
			r.height = pxToLength(height)
		}
	}
}

// pngDPI is the resolution gonum/plot uses for raster output.
const pngDPI = 96

func pxToLength(px int) vg.Length {
	return vg.Length(px) * vg.Inch / pngDPI
}

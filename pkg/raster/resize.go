package raster

import(
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"      // replace by "image/draw" at some point
)

// Resize scales the buffer to exactly w x h, using Catmull-Rom
// resampling. Aspect ratio is the caller's problem.
func Resize(src Buffer, w, h int) (Buffer, error) {
	if err := src.Validate(); err != nil {
		return Buffer{}, err
	}
	if err := CheckDims(w, h); err != nil {
		return Buffer{}, fmt.Errorf("resize: %w", err)
	}

	if w == src.Width && h == src.Height {
		return src.Clone(), nil
	}

	in := src.ToRGBA()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(out, out.Bounds(), in, in.Bounds(), draw.Src, nil)

	return FromImage(out)
}

// FitWithin returns the largest dimensions with the same aspect ratio as
// w x h that fit inside maxW x maxH. It will scale up as well as down;
// see FitWithinNoUpscale.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	return scaleDims(w, h, scale)
}

// FitWithinNoUpscale is FitWithin, but images that already fit are left
// at their original size.
func FitWithinNoUpscale(w, h, maxW, maxH int) (int, int) {
	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	if scale >= 1.0 {
		return w, h
	}
	return scaleDims(w, h, scale)
}

func scaleDims(w, h int, scale float64) (int, int) {
	tw := max(1, int(float64(w)*scale + 0.5))
	th := max(1, int(float64(h)*scale + 0.5))
	return tw, th
}

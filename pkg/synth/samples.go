package synth

import(
	"fmt"
	"math/rand"
	"time"

	"github.com/abworrall/lutgrade/pkg/emath"
	"github.com/abworrall/lutgrade/pkg/lut"
	"github.com/abworrall/lutgrade/pkg/raster"
)

// Samples are corresponding colors from the before and after images:
// Src[i] became Dst[i]. While they are still in pixel order, Width and
// Height give the image layout; after subsampling they are zero.
type Samples struct {
	Src    []emath.Vec3
	Dst    []emath.Vec3
	Width  int
	Height int
}

func (s Samples)Len() int { return len(s.Src) }

func (s Samples)String() string { return fmt.Sprintf("Samples[%d]", s.Len()) }

// NewSamples shrinks both images to fit the configured box, pairs up
// their pixels, and randomly subsamples if there are too many. If the
// after image has different dimensions it is stretched to match the
// before image.
func (s *Synthesizer)NewSamples(before, after raster.Buffer) (Samples, error) {
	if err := before.Validate(); err != nil {
		return Samples{}, fmt.Errorf("before image: %w", err)
	}
	if err := after.Validate(); err != nil {
		return Samples{}, fmt.Errorf("after image: %w", err)
	}

	if before.Width != after.Width || before.Height != after.Height {
		s.warnf("after image is %dx%d, before is %dx%d; resizing after to match",
			after.Width, after.Height, before.Width, before.Height)
	}

	w, h := raster.FitWithinNoUpscale(before.Width, before.Height, s.MaxWidth, s.MaxHeight)

	var err error
	if before, err = raster.Resize(before, w, h); err != nil {
		return Samples{}, fmt.Errorf("resize before: %w", err)
	}
	if after, err = raster.Resize(after, w, h); err != nil {
		return Samples{}, fmt.Errorf("resize after: %w", err)
	}

	n := before.NumPixels()
	ret := Samples{Src: make([]emath.Vec3, n), Dst: make([]emath.Vec3, n), Width: w, Height: h}
	for i:=0; i<n; i++ {
		j := i * before.Channels
		ret.Src[i] = emath.NewVec3FromBytes(before.Pix[j], before.Pix[j+1], before.Pix[j+2])
		ret.Dst[i] = emath.NewVec3FromBytes(after.Pix[j], after.Pix[j+1], after.Pix[j+2])
	}

	if n > s.MaxSamples {
		ret = ret.subsample(s.MaxSamples, s.rng())
		s.logf("down-sampled %d pixels to %d", n, s.MaxSamples)
	}

	return ret, nil
}

func (s Samples)subsample(max int, rng *rand.Rand) Samples {
	idx := rng.Perm(s.Len())[:max]

	ret := Samples{Src: make([]emath.Vec3, max), Dst: make([]emath.Vec3, max)}
	for i, j := range idx {
		ret.Src[i] = s.Src[j]
		ret.Dst[i] = s.Dst[j]
	}
	return ret
}

func (s *Synthesizer)rng() *rand.Rand {
	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// ErrorGrid maps, per pixel, how far the table's output is from the
// after image. Only possible while the samples are in pixel order.
func (s Samples)ErrorGrid(t *lut.Table) (emath.FloatGrid, bool) {
	if s.Width * s.Height != s.Len() || s.Len() == 0 {
		return emath.FloatGrid{}, false
	}

	fg := emath.NewFloatGrid(s.Width, s.Height)
	for y:=0; y<s.Height; y++ {
		for x:=0; x<s.Width; x++ {
			i := y*s.Width + x
			fg.Set(x, y, t.Sample(s.Src[i]).Sub(s.Dst[i]).Len())
		}
	}
	return fg, true
}

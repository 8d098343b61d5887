package synth

import(
	"fmt"
	"math"
	"sync"

	"github.com/samber/lo"

	"github.com/abworrall/lutgrade/pkg/emath"
	"github.com/abworrall/lutgrade/pkg/lut"
	"github.com/abworrall/lutgrade/pkg/raster"
)

type neighbour struct {
	distSq float64
	idx    int
}

// nearest returns the (up to) k samples closest to q, nearest first.
// It is a brute force scan, keeping a sorted best-list.
func (s Samples)nearest(q emath.Vec3, k int) []neighbour {
	best := make([]neighbour, 0, k)

	for i, src := range s.Src {
		d := q.DistSq(src)
		if len(best) == k && d >= best[k-1].distSq {
			continue
		}

		if len(best) < k {
			best = append(best, neighbour{})
		}
		// Shuffle the tail down until we find where this one goes
		j := len(best) - 1
		for ; j > 0 && best[j-1].distSq > d; j-- {
			best[j] = best[j-1]
		}
		best[j] = neighbour{d, i}
	}

	return best
}

// Node computes the lattice value for grid coordinate q: the inverse
// distance weighted mean of the after colors of q's nearest before
// colors, blended back towards q and clamped.
func (s *Synthesizer)Node(samples Samples, q emath.Vec3) emath.Vec3 {
	sumW, acc := 0.0, emath.Vec3{}
	for _, nb := range samples.nearest(q, s.K) {
		w := 1.0 / (math.Sqrt(nb.distSq) + s.Epsilon)
		acc = acc.Add(samples.Dst[nb.idx].Scale(w))
		sumW += w
	}
	if sumW == 0 {
		return q
	}

	fitted := acc.Scale(1.0 / sumW)
	return q.Lerp(fitted, s.Blend).Clamped()
}

// BuildTable fits a size^3 lattice to the samples. Nodes are worked on in
// batches of Workers goroutines.
func (s *Synthesizer)BuildTable(samples Samples, size int) (*lut.Table, error) {
	if samples.Len() == 0 {
		return nil, ErrNoSamples
	}
	if err := s.checkSize(size); err != nil {
		return nil, err
	}

	t := lut.Identity(size)
	t.Title = lut.DefaultTitle

	for _, batch := range lo.Chunk(lo.Range(len(t.Samples)), s.workers()) {
		var wg sync.WaitGroup
		for _, n := range batch {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				t.Samples[n] = s.Node(samples, t.Samples[n])
			}(n)
		}
		wg.Wait()
	}

	return t, nil
}

func (s *Synthesizer)checkSize(size int) error {
	if size < 2 {
		return fmt.Errorf("LUT size %d: %w", size, lut.ErrInvalidLut)
	}
	if size > s.MaxLUTSize {
		return fmt.Errorf("LUT size %d exceeds max %d: %w", size, s.MaxLUTSize, raster.ErrAllocationFailed)
	}
	return nil
}

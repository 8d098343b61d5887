package grade

import(
	"fmt"

	"github.com/abworrall/lutgrade/pkg/lut"
	"github.com/abworrall/lutgrade/pkg/raster"
)

// A Step is one LUT in a chain, with its blend strength.
type Step struct {
	Table *lut.Table
	Blend float64
}

func (s Step)String() string { return fmt.Sprintf("%s@%.2f", s.Table, s.Blend) }

// ApplyChain runs each step in order, feeding the output of one into the
// next. The adjustments are applied as part of every step, not just the
// last one. An empty chain returns a copy of src.
//
// opts.Cancelled is checked before the first step and again before each
// later one; once it fires, ErrCancelled is returned and no partial
// result escapes.
func ApplyChain(src raster.Buffer, steps []Step, adj Adjustments, opts Options) (raster.Buffer, error) {
	if err := src.Validate(); err != nil {
		return raster.Buffer{}, err
	}
	if opts.isCancelled() {
		return raster.Buffer{}, ErrCancelled
	}

	if len(steps) == 0 {
		return src.Clone(), nil
	}

	cur := src
	for i, step := range steps {
		if i > 0 && opts.isCancelled() {
			return raster.Buffer{}, ErrCancelled
		}

		p := Pipeline{Table: step.Table, Blend: step.Blend, Adjustments: adj}
		next, err := p.Process(cur, opts)
		if err != nil {
			return raster.Buffer{}, fmt.Errorf("step %d (%s): %w", i, step, err)
		}
		cur = next
	}

	return cur, nil
}

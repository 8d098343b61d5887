package engine

import(
	"context"
	"fmt"

	"github.com/abworrall/lutgrade/pkg/imageio"
	"github.com/abworrall/lutgrade/pkg/synth"
)

// CreateLUTFromImages fits a LUT of each of the given sizes to the color
// change from beforeFile to afterFile, writing <prefix>_<size>.cube for
// each. A size that fails is reported in its result and the rest carry
// on.
func (e *Engine)CreateLUTFromImages(ctx context.Context, beforeFile, afterFile, prefix string, sizes []int) ([]synth.Result, error) {
	before, err := imageio.Load(beforeFile)
	if err != nil {
		return nil, e.fail(fmt.Errorf("before: %w", err))
	}
	after, err := imageio.Load(afterFile)
	if err != nil {
		return nil, e.fail(fmt.Errorf("after: %w", err))
	}

	s := synth.New(e.cfg.Synthesis)
	s.Logf = func(format string, args ...interface{}) {
		e.emit(LevelInfo, fmt.Sprintf(format, args...))
	}
	s.Warnf = func(format string, args ...interface{}) {
		e.emit(LevelWarn, fmt.Sprintf(format, args...))
	}
	s.Progress = e.progress
	s.Cancelled = func() bool { return e.cancelled(ctx) }

	results, err := s.Run(before, after, prefix, sizes)
	if err != nil {
		return nil, e.fail(err)
	}

	for _, r := range results {
		if r.Err != nil {
			e.emit(LevelError, "LUT size failed", Int("size", r.Size), Err(r.Err))
		}
	}
	return results, nil
}

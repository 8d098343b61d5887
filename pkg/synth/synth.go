package synth

import(
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/abworrall/lutgrade/pkg/grade"
	"github.com/abworrall/lutgrade/pkg/lut"
	"github.com/abworrall/lutgrade/pkg/raster"
)

var(
	ErrNoSamples = errors.New("no samples")
)

// A Synthesizer builds LUTs that reproduce the color change between a
// before and an after image, by k-nearest-neighbour regression over
// corresponding pixels.
type Synthesizer struct {
	Config

	Logf      func(format string, args ...interface{})  // nil means log.Printf
	Warnf     func(format string, args ...interface{})  // nil means Logf, prefixed "warning: "
	Progress  func(fraction float64)                     // called once per requested size
	Cancelled func() bool                                // polled before each size
}

func New(c Config) *Synthesizer {
	return &Synthesizer{Config: c}
}

func (s *Synthesizer)logf(format string, args ...interface{}) {
	if s.Logf != nil {
		s.Logf(format, args...)
	} else {
		log.Printf(format, args...)
	}
}

func (s *Synthesizer)warnf(format string, args ...interface{}) {
	if s.Warnf != nil {
		s.Warnf(format, args...)
	} else {
		s.logf("warning: " + format, args...)
	}
}

// A Result describes the LUT built for one requested size.
type Result struct {
	Size  int
	Path  string       // where the .cube was written; empty if not written
	Table *lut.Table
	FitReport
	Err   error        // set if this size failed; other sizes carry on
}

func (r Result)String() string {
	if r.Err != nil {
		return fmt.Sprintf("size %d: %v", r.Size, r.Err)
	}
	return fmt.Sprintf("size %d -> %q, %s", r.Size, r.Path, r.FitReport)
}

// Filename is where the LUT of the given size goes.
func Filename(prefix string, size int) string {
	return fmt.Sprintf("%s_%d.cube", prefix, size)
}

// Run builds one LUT per entry in sizes, writing each to
// Filename(prefix, size). An empty prefix builds the tables without
// writing anything. Sizes below 2 are skipped; a size that fails to
// write is recorded in its Result and does not stop the others.
func (s *Synthesizer)Run(before, after raster.Buffer, prefix string, sizes []int) ([]Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	t0 := time.Now()
	samples, err := s.NewSamples(before, after)
	if err != nil {
		return nil, err
	}

	results := []Result{}
	for i, size := range sizes {
		if s.Cancelled != nil && s.Cancelled() {
			return results, grade.ErrCancelled
		}

		if size < 2 {
			s.logf("skipping LUT size %d", size)
		} else {
			results = append(results, s.runOne(samples, prefix, size))
		}

		if s.Progress != nil {
			s.Progress(float64(i+1) / float64(len(sizes)))
		}
	}

	s.logf("LUT creation took %s", time.Since(t0))
	return results, nil
}

func (s *Synthesizer)runOne(samples Samples, prefix string, size int) Result {
	r := Result{Size: size}

	t, err := s.BuildTable(samples, size)
	if err != nil {
		r.Err = err
		s.warnf("size %d: %v", size, err)
		return r
	}
	r.Table = t
	r.FitReport = NewFitReport(t, samples)
	s.logf("built %s, %s", t, r.FitReport)

	if prefix == "" {
		return r
	}

	filename := Filename(prefix, size)
	if err := t.WriteFile(filename); err != nil {
		r.Err = err
		s.warnf("can't write %s: %v", filename, err)
		return r
	}
	r.Path = filename
	s.logf("created LUT: %s", filename)

	if s.DumpImages {
		png := fmt.Sprintf("%s_%d.png", prefix, size)
		if err := t.ToImg(fmt.Sprintf("%s: %s", filename, r.FitReport), png); err != nil {
			s.logf("can't write %s: %v", png, err)
		}

		hist := fmt.Sprintf("%s_%d_err.txt", prefix, size)
		if err := os.WriteFile(hist, []byte(fmt.Sprintf("%s\nerror in 8-bit levels: %v\n", r.FitReport, &r.Levels)), 0644); err != nil {
			s.logf("can't write %s: %v", hist, err)
		}

		if fg, ok := samples.ErrorGrid(t); ok {
			errPng := fmt.Sprintf("%s_%d_err.png", prefix, size)
			if err := fg.ToImg(fmt.Sprintf("fit error, %s", fg.Stats()), errPng); err != nil {
				s.logf("can't write %s: %v", errPng, err)
			}
		}
	}

	return r
}

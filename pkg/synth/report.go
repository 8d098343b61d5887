package synth

import(
	"fmt"

	"github.com/codahale/hdrhistogram"
	"github.com/skypies/util/histogram"
	"gonum.org/v1/gonum/stat"

	"github.com/abworrall/lutgrade/pkg/lut"
)

// Histogram buckets are in units of 1e-4; the biggest possible error
// (black vs white) is sqrt(3).
const(
	reportScale = 10000.0
	reportMax   = 20000
)

// A FitReport summarizes how far the table's output is from the after
// colors, over the samples it was fitted to. Errors are euclidean
// distances in [0,1] RGB units.
type FitReport struct {
	Mean    float64
	StdDev  float64
	P50     float64
	P95     float64
	Max     float64

	Levels  histogram.Histogram  // the same errors, in 8-bit levels
}

// The largest possible error is sqrt(3)*255, about 442 levels
func newLevelsHistogram() histogram.Histogram {
	return histogram.Histogram{NumBuckets:64, ValMin:0, ValMax:448}
}

func (r FitReport)String() string {
	return fmt.Sprintf("fit err mean=%.4f sd=%.4f p50=%.4f p95=%.4f max=%.4f",
		r.Mean, r.StdDev, r.P50, r.P95, r.Max)
}

func NewFitReport(t *lut.Table, samples Samples) FitReport {
	if samples.Len() == 0 {
		return FitReport{Levels: newLevelsHistogram()}
	}

	errs := make([]float64, samples.Len())
	hist := hdrhistogram.New(0, reportMax, 3)
	levels := newLevelsHistogram()

	for i, src := range samples.Src {
		e := t.Sample(src).Sub(samples.Dst[i]).Len()
		errs[i] = e
		hist.RecordValue(int64(e*reportScale + 0.5))
		levels.Add(histogram.ScalarVal(int(e*255 + 0.5)))
	}

	r := FitReport{
		P50: float64(hist.ValueAtQuantile(50)) / reportScale,
		P95: float64(hist.ValueAtQuantile(95)) / reportScale,
		Max: float64(hist.Max()) / reportScale,
		Levels: levels,
	}
	if len(errs) > 1 {
		r.Mean, r.StdDev = stat.MeanStdDev(errs, nil)
	} else {
		r.Mean = errs[0]
	}
	return r
}

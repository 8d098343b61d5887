package grade

import(
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/abworrall/lutgrade/pkg/emath"
	"github.com/abworrall/lutgrade/pkg/lut"
	"github.com/abworrall/lutgrade/pkg/raster"
)

var(
	ErrCancelled = errors.New("cancelled")
)

// DefaultParallelThreshold is the pixel count above which an image is
// split across goroutines (1MP)
const DefaultParallelThreshold = 1000000

// Options control how a pass is scheduled; they never affect the output.
type Options struct {
	ParallelThreshold int          // images with more pixels than this get split into row chunks
	Workers           int          // how many chunks; <=0 means runtime.NumCPU()

	// Cancelled is polled between LUT passes. nil means never cancelled.
	Cancelled         func() bool
}

func DefaultOptions() Options {
	return Options{ParallelThreshold: DefaultParallelThreshold}
}

func (o Options)workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

func (o Options)isCancelled() bool { return o.Cancelled != nil && o.Cancelled() }

// A PixelFunc maps one color sample to another.
type PixelFunc func(emath.Vec3) emath.Vec3

// A Pipeline is the full per-pixel transform for one LUT pass: sample
// the table, blend with the original, then run the adjustments.
type Pipeline struct {
	Table       *lut.Table
	Blend       float64    // 0: ignore the table; 1: use it fully
	Adjustments
}

func (p Pipeline)String() string {
	return fmt.Sprintf("Pipeline[%s blend=%.2f, %s]", p.Table, p.Blend, p.Adjustments)
}

func (p Pipeline)Validate() error {
	if p.Blend > 0 {
		return p.Table.Validate()
	}
	return nil
}

// Pixel transforms a single sample. The result may be outside [0,1].
func (p Pipeline)Pixel(in emath.Vec3) emath.Vec3 {
	out := in

	if p.Blend > 0 {
		mapped := p.Table.Sample(in)
		if p.Blend < 1 {
			out = in.Lerp(mapped, p.Blend)
		} else {
			out = mapped
		}
	}

	return p.Adjustments.Apply(out)
}

// Process runs the pipeline over every pixel, producing a new buffer of
// the same dimensions. Big images are cut into contiguous row ranges,
// one goroutine each; each goroutine writes only its own rows, so the
// output is identical to a single-threaded pass.
func (p Pipeline)Process(src raster.Buffer, opts Options) (raster.Buffer, error) {
	if err := src.Validate(); err != nil {
		return raster.Buffer{}, err
	}
	if err := p.Validate(); err != nil {
		return raster.Buffer{}, err
	}

	dst, err := raster.NewBuffer(src.Width, src.Height)
	if err != nil {
		return raster.Buffer{}, err
	}

	nWorkers := 1
	if src.NumPixels() > opts.ParallelThreshold {
		nWorkers = opts.workers()
	}

	var wg sync.WaitGroup
	for _, rows := range Partition(src.Height, nWorkers) {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			p.processRows(src, dst, start, end)
		}(rows[0], rows[1])
	}
	wg.Wait()

	return dst, nil
}

func (p Pipeline)processRows(src, dst raster.Buffer, startRow, endRow int) {
	for i := src.Offset(0, startRow); i < src.Offset(0, endRow); i += 3 {
		in := emath.NewVec3FromBytes(src.Pix[i], src.Pix[i+1], src.Pix[i+2])
		out := p.Pixel(in)
		dst.Pix[i]   = emath.Byte(out[0])
		dst.Pix[i+1] = emath.Byte(out[1])
		dst.Pix[i+2] = emath.Byte(out[2])
	}
}

// Partition splits [0,height) into at most n contiguous [start,end) row
// ranges. Each range is at least one row; the last one absorbs any
// remainder.
func Partition(height, n int) [][2]int {
	if n < 1 {
		n = 1
	}
	rowsPer := height / n
	if rowsPer == 0 {
		rowsPer = 1
	}

	ret := [][2]int{}
	for i:=0; i<n; i++ {
		start := i * rowsPer
		if start >= height {
			break
		}
		end := start + rowsPer
		if i == n-1 {
			end = height
		}
		ret = append(ret, [2]int{start, end})
	}
	return ret
}

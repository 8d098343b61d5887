package engine

import(
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/abworrall/lutgrade/pkg/grade"
	"github.com/abworrall/lutgrade/pkg/imageio"
	"github.com/abworrall/lutgrade/pkg/raster"
)

// A Request says how to grade an image: which registered LUTs to apply,
// in order, and the adjustments to run after each of them.
type Request struct {
	LUTs []int
	grade.Adjustments
}

func (r Request)String() string {
	return fmt.Sprintf("LUTs%v, %s", r.LUTs, r.Adjustments)
}

func (e *Engine)checkSize(w, h int) error {
	if w > 0 && h > 0 && w > e.cfg.Grading.MaxPixels / h {
		return fmt.Errorf("%dx%d exceeds %d pixels: %w", w, h, e.cfg.Grading.MaxPixels, ErrAllocationFailed)
	}
	return nil
}

// ProcessImage grades an in-memory image. The result is a new buffer;
// src is not modified.
func (e *Engine)ProcessImage(ctx context.Context, src raster.Buffer, req Request) (raster.Buffer, error) {
	out, err := e.processImage(ctx, src, req)
	if err != nil {
		return raster.Buffer{}, e.fail(err)
	}
	return out, nil
}

func (e *Engine)processImage(ctx context.Context, src raster.Buffer, req Request) (raster.Buffer, error) {
	if err := src.Validate(); err != nil {
		return raster.Buffer{}, err
	}
	if err := e.checkSize(src.Width, src.Height); err != nil {
		return raster.Buffer{}, err
	}
	steps, err := e.resolve(req.LUTs)
	if err != nil {
		return raster.Buffer{}, err
	}

	return grade.ApplyChain(src, steps, req.Adjustments, e.gradeOptions(ctx))
}

// GeneratePreview resizes src to exactly w x h, then grades it.
func (e *Engine)GeneratePreview(ctx context.Context, src raster.Buffer, req Request, w, h int) (raster.Buffer, error) {
	out, err := e.preview(ctx, src, req, w, h)
	if err != nil {
		return raster.Buffer{}, e.fail(err)
	}
	return out, nil
}

// GeneratePreviewFit is GeneratePreview, at the largest size that keeps
// the aspect ratio and fits inside maxW x maxH.
func (e *Engine)GeneratePreviewFit(ctx context.Context, src raster.Buffer, req Request, maxW, maxH int) (raster.Buffer, error) {
	if maxW <= 0 || maxH <= 0 {
		return raster.Buffer{}, e.fail(fmt.Errorf("preview box %dx%d: %w", maxW, maxH, ErrInvalidImage))
	}
	if err := src.Validate(); err != nil {
		return raster.Buffer{}, e.fail(err)
	}

	w, h := raster.FitWithin(src.Width, src.Height, maxW, maxH)
	return e.GeneratePreview(ctx, src, req, w, h)
}

func (e *Engine)preview(ctx context.Context, src raster.Buffer, req Request, w, h int) (raster.Buffer, error) {
	if err := e.checkSize(w, h); err != nil {
		return raster.Buffer{}, err
	}
	small, err := raster.Resize(src, w, h)
	if err != nil {
		return raster.Buffer{}, fmt.Errorf("preview resize: %w", err)
	}
	return e.processImage(ctx, small, req)
}

func (e *Engine)ResizeImage(src raster.Buffer, w, h int) (raster.Buffer, error) {
	if err := e.checkSize(w, h); err != nil {
		return raster.Buffer{}, e.fail(err)
	}
	out, err := raster.Resize(src, w, h)
	if err != nil {
		return raster.Buffer{}, e.fail(err)
	}
	return out, nil
}

// ProcessFile loads an image, grades it and writes the result; the
// output format follows the output filename's extension.
func (e *Engine)ProcessFile(ctx context.Context, inFile, outFile string, req Request) error {
	steps, err := e.resolve(req.LUTs)
	if err != nil {
		return e.fail(err)
	}
	if err := e.processFile(ctx, inFile, outFile, steps, req.Adjustments); err != nil {
		return e.fail(err)
	}
	return nil
}

func (e *Engine)processFile(ctx context.Context, inFile, outFile string, steps []grade.Step, adj grade.Adjustments) error {
	src, err := imageio.Load(inFile)
	if err != nil {
		return err
	}
	if err := e.checkSize(src.Width, src.Height); err != nil {
		return fmt.Errorf("'%s': %w", inFile, err)
	}

	out, err := grade.ApplyChain(src, steps, adj, e.gradeOptions(ctx))
	if err != nil {
		return fmt.Errorf("'%s': %w", inFile, err)
	}

	if err := imageio.Save(out, outFile, e.cfg.Grading.JPEGQuality); err != nil {
		return err
	}

	e.emit(LevelInfo, "processed", String("in", inFile), String("out", outFile))
	return nil
}

// ProcessFiles grades inFiles[i] into outFiles[i], several files at a
// time. A file that fails is reported and skipped; the batch as a whole
// only fails if the arguments are bad or it gets cancelled. Progress is
// reported as each file finishes, successfully or not.
func (e *Engine)ProcessFiles(ctx context.Context, inFiles, outFiles []string, req Request) error {
	if len(inFiles) == 0 || len(inFiles) != len(outFiles) {
		return e.fail(fmt.Errorf("%d input files, %d output files: %w", len(inFiles), len(outFiles), ErrInvalidImage))
	}
	steps, err := e.resolve(req.LUTs)
	if err != nil {
		return e.fail(err)
	}

	workers := e.cfg.Grading.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g := errgroup.Group{}
	g.SetLimit(workers)

	var mu sync.Mutex
	done := 0

	cancelled := false
	for i := range inFiles {
		if e.cancelled(ctx) {
			cancelled = true
			break
		}

		inFile, outFile := inFiles[i], outFiles[i]
		g.Go(func() error {
			err := e.processFile(ctx, inFile, outFile, steps, req.Adjustments)
			if errors.Is(err, ErrCancelled) {
				return err
			} else if err != nil {
				e.emit(LevelError, "skipping file", String("file", inFile), Err(err))
			}

			mu.Lock()
			done++
			e.progress(float64(done) / float64(len(inFiles)))
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil || cancelled {
		return e.fail(fmt.Errorf("batch stopped after %d of %d files: %w", done, len(inFiles), ErrCancelled))
	}
	return nil
}

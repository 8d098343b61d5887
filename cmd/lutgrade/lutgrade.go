package main

import(
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/abworrall/lutgrade/pkg/engine"
	"github.com/abworrall/lutgrade/pkg/grade"
	"github.com/abworrall/lutgrade/pkg/imageio"
)

// lutFlag collects repeated -lut path[:blend] args
type lutFlag []lutArg

type lutArg struct {
	Path  string
	Blend float64
}

func (l *lutFlag)String() string { return fmt.Sprintf("%v", *l) }

func (l *lutFlag)Set(s string) error {
	arg := lutArg{Path: s, Blend: 1.0}
	if i := strings.LastIndex(s, ":"); i > 0 {
		if b, err := strconv.ParseFloat(s[i+1:], 64); err == nil {
			arg = lutArg{Path: s[:i], Blend: b}
		}
	}
	*l = append(*l, arg)
	return nil
}

var(
	fMode string
	fConfig string
	fVerbosity int
	fWorkers int
	fQuality int
	fOutput string
	fOutputDir string
	fFormat string
	fWidth int
	fHeight int
	fFit bool
	fLUTs lutFlag
	fAdj grade.Adjustments
)

func init() {
	flag.StringVar(&fMode, "mode", "apply", "what to do: apply, batch, preview, resize")
	flag.StringVar(&fConfig, "config", "", "yaml config file")
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.IntVar(&fWorkers, "workers", 0, "goroutines per image, and files at once in batch mode (0: one per CPU)")
	flag.IntVar(&fQuality, "quality", 0, "JPEG quality (0: use config)")
	flag.StringVar(&fOutput, "o", "out.jpg", "name of output image file")
	flag.StringVar(&fOutputDir, "outdir", "graded", "batch mode: directory for output files")
	flag.StringVar(&fFormat, "format", "", "batch mode: output format, jpg/png/tiff (default: keep the input's, else jpg)")
	flag.IntVar(&fWidth, "width", 1024, "preview/resize: output width")
	flag.IntVar(&fHeight, "height", 768, "preview/resize: output height")
	flag.BoolVar(&fFit, "fit", true, "preview: fit within width x height, keeping the aspect ratio")
	flag.Var(&fLUTs, "lut", "a .cube file to apply, optionally with a blend (foo.cube:0.5); repeat for a chain")

	flag.Float64Var(&fAdj.WhiteBalance, "wb", 0, "white balance, -1 (cool) to 1 (warm)")
	flag.Float64Var(&fAdj.Tint, "tint", 0, "tint, -1 (magenta) to 1 (green)")
	flag.Float64Var(&fAdj.Brightness, "brightness", 0, "brightness, -1 to 1")
	flag.Float64Var(&fAdj.Contrast, "contrast", 0, "contrast, -1 to <1")
	flag.Float64Var(&fAdj.Saturation, "saturation", 0, "saturation, -1 (grey) to 1")
	flag.Parse()

	log.Printf("lutgrade starting\n")
}

func main() {
	cfg := engine.NewConfig()
	if fConfig != "" {
		var err error
		if cfg, err = engine.LoadConfig(fConfig); err != nil {
			log.Fatal(err)
		}
	}

	// Override the config file with command line args, if relevant
	if fVerbosity > 0 { cfg.Verbosity = fVerbosity }
	if fWorkers > 0 { cfg.Grading.Workers = fWorkers }
	if fQuality > 0 { cfg.Grading.JPEGQuality = fQuality }

	if cfg.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", cfg.AsYaml())
	}

	e, err := engine.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer e.Close()

	// ^C stops at the next file or LUT boundary
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	req := engine.Request{Adjustments: fAdj}
	for _, l := range fLUTs {
		id, err := e.LoadLUT(l.Path, l.Blend)
		if err != nil {
			log.Fatalf("%s: %v", engine.StatusOf(err), err)
		}
		req.LUTs = append(req.LUTs, id)
	}

	switch fMode {
	case "apply":   err = apply(ctx, e, req)
	case "batch":   err = batch(ctx, e, req)
	case "preview": err = preview(ctx, e, req)
	case "resize":  err = resize(e)
	default:
		log.Fatalf("no mode named '%s'", fMode)
	}

	if err != nil {
		log.Fatalf("%s failed (%s): %v", fMode, engine.StatusOf(err), err)
	}
}

func oneInput() string {
	if flag.NArg() != 1 {
		log.Fatalf("mode %s wants one input file, got %d", fMode, flag.NArg())
	}
	return flag.Arg(0)
}

func apply(ctx context.Context, e *engine.Engine, req engine.Request) error {
	in := oneInput()
	if err := e.ProcessFile(ctx, in, fOutput, req); err != nil {
		return err
	}
	log.Printf("output file written '%s'\n", fOutput)
	return nil
}

func batch(ctx context.Context, e *engine.Engine, req engine.Request) error {
	inFiles, err := imageio.FindImages(flag.Args()...)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(fOutputDir, 0755); err != nil {
		return err
	}

	outFiles, err := imageio.OutputNames(inFiles, fOutputDir, fFormat)
	if err != nil {
		return err
	}

	e.SetProgressFunc(func(f float64) { log.Printf("batch %3.0f%% done", f*100) })
	return e.ProcessFiles(ctx, inFiles, outFiles, req)
}

func preview(ctx context.Context, e *engine.Engine, req engine.Request) error {
	src, err := imageio.Load(oneInput())
	if err != nil {
		return err
	}

	if fFit {
		src, err = e.GeneratePreviewFit(ctx, src, req, fWidth, fHeight)
	} else {
		src, err = e.GeneratePreview(ctx, src, req, fWidth, fHeight)
	}
	if err != nil {
		return err
	}

	log.Printf("preview %s written '%s'\n", src, fOutput)
	return imageio.Save(src, fOutput, e.Config().Grading.JPEGQuality)
}

func resize(e *engine.Engine) error {
	src, err := imageio.Load(oneInput())
	if err != nil {
		return err
	}
	out, err := e.ResizeImage(src, fWidth, fHeight)
	if err != nil {
		return err
	}
	return imageio.Save(out, fOutput, e.Config().Grading.JPEGQuality)
}

package main

import(
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/abworrall/lutgrade/pkg/engine"
)

var(
	fConfig string
	fVerbosity int
	fPrefix string
	fSizes string
	fSeed int64
	fDump bool
)

func init() {
	flag.StringVar(&fConfig, "config", "", "yaml config file")
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.StringVar(&fPrefix, "prefix", "generated", "output files are <prefix>_<size>.cube")
	flag.StringVar(&fSizes, "sizes", "17,33", "comma separated list of LUT sizes to build")
	flag.Int64Var(&fSeed, "seed", 0, "seed for pixel subsampling (0: random)")
	flag.BoolVar(&fDump, "dump", false, "also write a PNG of each LUT")
	flag.Parse()

	log.Printf("lutsynth starting\n")
}

func parseSizes(s string) ([]int, error) {
	sizes := []int{}
	for _, str := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

func main() {
	if flag.NArg() != 2 {
		log.Fatalf("usage: lutsynth [flags] before.jpg after.jpg")
	}

	sizes, err := parseSizes(fSizes)
	if err != nil {
		log.Fatalf("-sizes '%s': %v", fSizes, err)
	}

	cfg := engine.NewConfig()
	if fConfig != "" {
		if cfg, err = engine.LoadConfig(fConfig); err != nil {
			log.Fatal(err)
		}
	}
	if fVerbosity > 0 { cfg.Verbosity = fVerbosity }
	if fSeed != 0 { cfg.Synthesis.Seed = fSeed }
	if fDump { cfg.Synthesis.DumpImages = true }

	e, err := engine.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer e.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	e.SetProgressFunc(func(f float64) { log.Printf("%3.0f%% done", f*100) })

	results, err := e.CreateLUTFromImages(ctx, flag.Arg(0), flag.Arg(1), fPrefix, sizes)
	if err != nil {
		log.Fatalf("%s: %v", engine.StatusOf(err), err)
	}

	for _, r := range results {
		log.Printf("%s\n", r)
	}
}

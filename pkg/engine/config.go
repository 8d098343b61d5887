package engine

import(
	"fmt"
	"io/ioutil"
	"log"

	"gopkg.in/yaml.v2"

	"github.com/abworrall/lutgrade/pkg/grade"
	"github.com/abworrall/lutgrade/pkg/imageio"
	"github.com/abworrall/lutgrade/pkg/synth"
)

/* Example config file ...

verbosity: 1
grading:
  parallel_threshold: 1000000
  workers: 8
  jpeg_quality: 95
  max_pixels: 200000000
synthesis:
  max_width: 1000
  max_height: 750
  k: 15
  seed: 1234
  dump_images: true

*/

type GradingConfig struct {
	ParallelThreshold int `yaml:"parallel_threshold"`  // split images bigger than this across goroutines
	Workers           int `yaml:"workers"`             // <=0 means runtime.NumCPU()
	JPEGQuality       int `yaml:"jpeg_quality"`
	MaxPixels         int `yaml:"max_pixels"`          // refuse to create any image bigger than this
}

type Config struct {
	Verbosity int
	Grading   GradingConfig
	Synthesis synth.Config
}

func NewConfig() Config {
	return Config{
		Grading: GradingConfig{
			ParallelThreshold: grade.DefaultParallelThreshold,
			JPEGQuality:       imageio.DefaultJPEGQuality,
			MaxPixels:         200 * 1000 * 1000,
		},
		Synthesis: synth.NewConfig(),
	}
}

func newConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	err := yaml.Unmarshal(b, &c)
	return c, err
}

func LoadConfig(filename string) (Config, error) {
	contents, err := ioutil.ReadFile(filename)
	if err != nil {
		return NewConfig(), fmt.Errorf("read '%s': %v", filename, err)
	}

	c, err := newConfigFromYaml(contents)
	if err != nil {
		return c, fmt.Errorf("parse '%s': %v", filename, err)
	}

	return c, c.Validate()
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

func (c Config)Validate() error {
	g := c.Grading
	if g.ParallelThreshold < 0 {
		return fmt.Errorf("parallel_threshold %d is negative", g.ParallelThreshold)
	} else if g.JPEGQuality < 1 || g.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality %d outside [1,100]", g.JPEGQuality)
	} else if g.MaxPixels < 1 {
		return fmt.Errorf("max_pixels %d must be positive", g.MaxPixels)
	}

	if err := c.Synthesis.Validate(); err != nil {
		return fmt.Errorf("synthesis: %v", err)
	}
	return nil
}

func (c Config)gradeOptions() grade.Options {
	return grade.Options{
		ParallelThreshold: c.Grading.ParallelThreshold,
		Workers:           c.Grading.Workers,
	}
}

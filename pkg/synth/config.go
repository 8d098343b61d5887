package synth

import(
	"fmt"
	"runtime"
)

// MaxLUTSizeLimit bounds Config.MaxLUTSize, so N^3 always fits in an int.
const MaxLUTSizeLimit = 1024

// Config controls LUT synthesis. The zero value is not useful; start
// from NewConfig().
type Config struct {
	MaxWidth   int     `yaml:"max_width"`    // images are shrunk to fit inside this box before sampling
	MaxHeight  int     `yaml:"max_height"`
	MaxSamples int     `yaml:"max_samples"`  // above this, a random subset of pixels is used
	MaxLUTSize int     `yaml:"max_lut_size"` // biggest N accepted; the lattice has N^3 nodes
	K          int     `yaml:"k"`            // nearest neighbours per lattice node
	Blend      float64 `yaml:"blend"`        // 1.0: pure fitted color; 0.0: identity
	Epsilon    float64 `yaml:"epsilon"`      // keeps inverse-distance weights finite
	Workers    int     `yaml:"workers"`      // lattice nodes in flight at once; <=0 means NumCPU
	Seed       int64   `yaml:"seed"`         // subsampling seed; 0 seeds from the clock
	DumpImages bool    `yaml:"dump_images"`  // also write <prefix>_<N>.png showing the lattice
}

func NewConfig() Config {
	return Config{
		MaxWidth:   1000,
		MaxHeight:  750,
		MaxSamples: 1000000,
		MaxLUTSize: 256,
		K:          15,
		Blend:      1.0,
		Epsilon:    1e-5,
	}
}

func (c Config)String() string {
	return fmt.Sprintf("synth[max %dx%d, %d samples, k=%d, blend=%.2f, seed=%d]",
		c.MaxWidth, c.MaxHeight, c.MaxSamples, c.K, c.Blend, c.Seed)
}

func (c Config)Validate() error {
	if c.MaxWidth < 1 || c.MaxHeight < 1 {
		return fmt.Errorf("max dims %dx%d must be positive", c.MaxWidth, c.MaxHeight)
	} else if c.MaxSamples < 1 {
		return fmt.Errorf("max_samples %d must be positive", c.MaxSamples)
	} else if c.MaxLUTSize < 2 || c.MaxLUTSize > MaxLUTSizeLimit {
		return fmt.Errorf("max_lut_size %d outside [2,%d]", c.MaxLUTSize, MaxLUTSizeLimit)
	} else if c.K < 1 {
		return fmt.Errorf("k %d must be positive", c.K)
	} else if c.Blend < 0 || c.Blend > 1 {
		return fmt.Errorf("blend %f outside [0,1]", c.Blend)
	} else if c.Epsilon <= 0 {
		return fmt.Errorf("epsilon %g must be positive", c.Epsilon)
	}
	return nil
}

func (c Config)workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

package emath

import(
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg" // Move to https://pkg.go.dev/golang.org/x/image/font#Drawer sometime
)

// A FloatGrid is a 2D grid of floats, e.g. a per-pixel error map.
type FloatGrid struct {
	stride int
	values []float64
}

func NewFloatGrid(w, h int) FloatGrid {
	return FloatGrid{
		stride: w,
		values: make([]float64, w*h),
	}
}

func (fg *FloatGrid)Set(x, y int, v float64) { fg.values[fg.stride*y + x] = v }
func (fg *FloatGrid)Get(x, y int) float64    { return fg.values[fg.stride*y + x] }
func (fg *FloatGrid)Dx() int                 { return fg.stride }
func (fg *FloatGrid)Dy() int {
	if fg.stride == 0 {
		return 0
	}
	return len(fg.values) / fg.stride
}

func (fg *FloatGrid)MinMax() (float64, float64) {
	min, max := math.MaxFloat64, -math.MaxFloat64
	for _, v := range fg.values {
		if v > max { max = v }
		if v < min { min = v }
	}
	return min, max
}

func (fg *FloatGrid)Mean() float64 {
	if len(fg.values) == 0 {
		return 0
	}
	tot := 0.0
	for _, v := range fg.values {
		tot += v
	}
	return tot / float64(len(fg.values))
}

func (fg *FloatGrid)Stats() string {
	min, max := fg.MinMax()
	return fmt.Sprintf("fg[%dx%d, vals{%f,%f}, mean %f]", fg.Dx(), fg.Dy(), min, max, fg.Mean())
}

// Image renders the grid as grayscale, black at the smallest value and
// white at the largest. The square root of the normalized value is used,
// so small differences are still visible.
func (fg *FloatGrid)Image() *image.Gray {
	min, max := fg.MinMax()

	img := image.NewGray(image.Rect(0, 0, fg.Dx(), fg.Dy()))
	for x:=0; x<fg.Dx(); x++ {
		for y:=0; y<fg.Dy(); y++ {
			v := 0.0
			if max > min {
				v = math.Sqrt((fg.Get(x,y) - min) / (max - min))
			}
			img.SetGray(x, y, color.Gray{Byte(v)})
		}
	}
	return img
}

// ToImg saves the grayscale image with a title written on top
func (fg *FloatGrid)ToImg(title, filename string) error {
	dc := gg.NewContextForImage(fg.Image())
	dc.SetRGB(1, 0.2, 0.2)
	dc.DrawString(title, 10, 20)

	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("save '%s': %v", filename, err)
	}
	return nil
}

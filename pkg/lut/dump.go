package lut

import(
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/abworrall/lutgrade/pkg/emath"
)

// ToImg renders the lattice as a row of blue-slices (each slice is a
// Size x Size patch, red along x and green along y, scaled up so small
// tables are still visible) with a title drawn in, and saves it as a
// PNG. Handy for eyeballing what a synthesized table actually does.
func (t *Table)ToImg(title, filename string) error {
	if err := t.Validate(); err != nil {
		return err
	}

	img := t.Image()

	// Room for the title above the slices
	const margin = 40
	b := img.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy() + margin)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.DrawImage(img, 0, margin)
	dc.SetRGB(1, 1, 1)
	dc.DrawString(title, 10, margin/2)

	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("save '%s': %v", filename, err)
	}
	return nil
}

// Image lays out the slices without any annotation.
func (t *Table)Image() *image.RGBA {
	cell := 1
	if t.Size < 64 {
		cell = 64 / t.Size
	}
	side := t.Size * cell
	img := image.NewRGBA(image.Rect(0, 0, side * t.Size, side))

	for z:=0; z<t.Size; z++ {
		for y:=0; y<t.Size; y++ {
			for x:=0; x<t.Size; x++ {
				c := t.At(x, y, z)
				col := color.RGBA{emath.Byte(c[0]), emath.Byte(c[1]), emath.Byte(c[2]), 0xFF}

				for dy:=0; dy<cell; dy++ {
					for dx:=0; dx<cell; dx++ {
						img.SetRGBA(z*side + x*cell + dx, y*cell + dy, col)
					}
				}
			}
		}
	}

	return img
}

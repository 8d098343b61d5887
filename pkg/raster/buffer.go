package raster

import(
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/mdouchement/hdr/hdrcolor"
)

var(
	ErrInvalidImage     = errors.New("invalid image")
	ErrAllocationFailed = errors.New("allocation failed")

	// MaxPixels bounds NewBuffer; anything bigger is refused rather than
	// attempted.
	MaxPixels = 200 * 1000 * 1000
)

// Channels is the only pixel layout we process: 8-bit R, G, B.
const Channels = 3

// A Buffer is a packed, row-major 8-bit RGB image. Processing stages
// never modify a Buffer they are given; they return a new one.
type Buffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

// CheckDims reports whether a w x h buffer could be created, without
// creating it.
func CheckDims(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("dimensions %dx%d: %w", w, h, ErrInvalidImage)
	}
	if w > MaxPixels / h {
		return fmt.Errorf("dimensions %dx%d exceed %d pixels: %w", w, h, MaxPixels, ErrAllocationFailed)
	}
	return nil
}

// NewBuffer allocates a black image.
func NewBuffer(w, h int) (Buffer, error) {
	if err := CheckDims(w, h); err != nil {
		return Buffer{}, err
	}

	return Buffer{Width: w, Height: h, Channels: Channels, Pix: make([]byte, w*h*Channels)}, nil
}

// NewBufferFrom wraps existing pixel data (it is copied, the caller keeps
// ownership of `pix`).
func NewBufferFrom(w, h, channels int, pix []byte) (Buffer, error) {
	if channels != Channels {
		return Buffer{}, fmt.Errorf("%d channels, want %d: %w", channels, Channels, ErrInvalidImage)
	}
	buf, err := NewBuffer(w, h)
	if err != nil {
		return Buffer{}, err
	}
	if len(pix) < len(buf.Pix) {
		return Buffer{}, fmt.Errorf("%dx%d wants %d bytes, got %d: %w", w, h, len(buf.Pix), len(pix), ErrInvalidImage)
	}
	copy(buf.Pix, pix)
	return buf, nil
}

func (b Buffer)String() string {
	return fmt.Sprintf("Buffer[%dx%dx%d]", b.Width, b.Height, b.Channels)
}

// Valid buffers have positive dimensions, 3 channels and exactly enough bytes.
func (b Buffer)Valid() bool {
	return b.Width > 0 && b.Height > 0 && b.Channels == Channels && len(b.Pix) > 0 &&
		len(b.Pix) == b.Width*b.Height*b.Channels
}

func (b Buffer)Validate() error {
	if !b.Valid() {
		return fmt.Errorf("%s with %d bytes: %w", b, len(b.Pix), ErrInvalidImage)
	}
	return nil
}

func (b Buffer)NumPixels() int { return b.Width * b.Height }
func (b Buffer)Offset(x, y int) int { return (y*b.Width + x) * b.Channels }

func (b Buffer)Clone() Buffer {
	c := b
	c.Pix = make([]byte, len(b.Pix))
	copy(c.Pix, b.Pix)
	return c
}

func (b Buffer)RGB(x, y int) (uint8, uint8, uint8) {
	i := b.Offset(x, y)
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2]
}

func (b Buffer)SetRGB(x, y int, r, g, bl uint8) {
	i := b.Offset(x, y)
	b.Pix[i], b.Pix[i+1], b.Pix[i+2] = r, g, bl
}

// ToRGBA copies into a golang image, so we can hand it to codecs and
// the x/image scalers.
func (b Buffer)ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for i, j := 0, 0; i < len(b.Pix); i, j = i+3, j+4 {
		img.Pix[j]   = b.Pix[i]
		img.Pix[j+1] = b.Pix[i+1]
		img.Pix[j+2] = b.Pix[i+2]
		img.Pix[j+3] = 0xFF
	}
	return img
}

// FromImage flattens any image.Image into a Buffer, dropping alpha.
// HDR images (e.g. from the rgbe codec) are clipped to [0,1].
func FromImage(img image.Image) (Buffer, error) {
	bounds := img.Bounds()
	buf, err := NewBuffer(bounds.Dx(), bounds.Dy())
	if err != nil {
		return Buffer{}, err
	}

	switch src := img.(type) {
	case *image.RGBA:
		for y:=0; y<buf.Height; y++ {
			row := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			for x:=0; x<buf.Width; x++ {
				buf.SetRGB(x, y, row[x*4], row[x*4+1], row[x*4+2])
			}
		}

	default:
		for y:=0; y<buf.Height; y++ {
			for x:=0; x<buf.Width; x++ {
				r, g, b := to8(img.At(bounds.Min.X + x, bounds.Min.Y + y))
				buf.SetRGB(x, y, r, g, b)
			}
		}
	}

	return buf, nil
}

func to8(c color.Color) (uint8, uint8, uint8) {
	if hc, ok := c.(hdrcolor.Color); ok {
		r, g, b, _ := hc.HDRRGBA()
		return unitTo8(r), unitTo8(g), unitTo8(b)
	}

	// Non-premultiplied, so translucent pixels keep their color
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return n.R, n.G, n.B
}

func unitTo8(f float64) uint8 {
	if math.IsNaN(f) || f <= 0 { return 0 }
	if f >= 1 { return 0xFF }
	return uint8(math.Round(f * 255.0))
}

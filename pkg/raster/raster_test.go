package raster

import(
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mdouchement/hdr/hdrcolor"
)

// 3x2 image, every pixel distinct
func testBuffer(t *testing.T) Buffer {
	t.Helper()
	buf, err := NewBuffer(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	for y:=0; y<2; y++ {
		for x:=0; x<3; x++ {
			buf.SetRGB(x, y, uint8(10*x + 100*y), uint8(x), uint8(y))
		}
	}
	return buf
}

func TestValid(t *testing.T) {
	buf := testBuffer(t)
	if !buf.Valid() {
		t.Errorf("%s should be valid", buf)
	}

	bad := []Buffer{
		{},
		{Width: 3, Height: 2, Channels: 4, Pix: make([]byte, 24)},
		{Width: 3, Height: 2, Channels: 3, Pix: make([]byte, 17)},
		{Width: 0, Height: 2, Channels: 3, Pix: make([]byte, 6)},
	}
	for _, b := range bad {
		if b.Valid() {
			t.Errorf("%s with %d bytes should not be valid", b, len(b.Pix))
		}
		if err := b.Validate(); !errors.Is(err, ErrInvalidImage) {
			t.Errorf("%s: got err %v, want ErrInvalidImage", b, err)
		}
	}
}

func TestNewBufferLimits(t *testing.T) {
	if _, err := NewBuffer(0, 10); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("got err %v, want ErrInvalidImage", err)
	}
	if _, err := NewBuffer(MaxPixels, 2); !errors.Is(err, ErrAllocationFailed) {
		t.Errorf("got err %v, want ErrAllocationFailed", err)
	}
}

func TestNewBufferFrom(t *testing.T) {
	pix := []byte{1, 2, 3, 4, 5, 6}
	buf, err := NewBufferFrom(2, 1, 3, pix)
	if err != nil {
		t.Fatal(err)
	}
	pix[0] = 99
	if buf.Pix[0] != 1 {
		t.Errorf("NewBufferFrom did not copy")
	}

	if _, err := NewBufferFrom(2, 1, 4, pix); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("4 channels: got err %v, want ErrInvalidImage", err)
	}
	if _, err := NewBufferFrom(2, 2, 3, pix); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("short data: got err %v, want ErrInvalidImage", err)
	}
}

func TestImageRoundTrip(t *testing.T) {
	buf := testBuffer(t)
	back, err := FromImage(buf.ToRGBA())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(buf, back); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	// Generic path, via a non-RGBA image with an offset origin
	nrgba := image.NewNRGBA(image.Rect(5, 5, 8, 7))
	for y:=0; y<2; y++ {
		for x:=0; x<3; x++ {
			r, g, b := buf.RGB(x, y)
			nrgba.SetNRGBA(5+x, 5+y, color.NRGBA{r, g, b, 0xFF})
		}
	}
	back, err = FromImage(nrgba)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(buf, back); diff != "" {
		t.Errorf("NRGBA mismatch (-want +got):\n%s", diff)
	}
}

func TestHDRColorIsClipped(t *testing.T) {
	r, g, b := to8(hdrcolor.RGB{R: 4.0, G: 0.5, B: -1})
	if r != 255 || g != 128 || b != 0 {
		t.Errorf("got %d,%d,%d", r, g, b)
	}
}

func TestResize(t *testing.T) {
	buf := testBuffer(t)

	out, err := Resize(buf, 7, 5)
	if err != nil {
		t.Fatal(err)
	}
	if out.Width != 7 || out.Height != 5 || !out.Valid() {
		t.Errorf("got %s", out)
	}

	same, err := Resize(buf, 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(buf, same); diff != "" {
		t.Errorf("same-size resize changed pixels (-want +got):\n%s", diff)
	}

	// Flat colors stay flat
	flat, _ := NewBuffer(10, 10)
	for i := range flat.Pix {
		flat.Pix[i] = 77
	}
	small, err := Resize(flat, 3, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range small.Pix {
		if v != 77 {
			t.Fatalf("pix[%d] = %d, want 77", i, v)
		}
	}

	if _, err := Resize(buf, 0, 4); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("got err %v, want ErrInvalidImage", err)
	}
	if _, err := Resize(Buffer{}, 4, 4); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("got err %v, want ErrInvalidImage", err)
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h, maxW, maxH int
		wantW, wantH     int
		noUpW, noUpH     int
	}{
		{4000, 3000, 1000, 750, 1000, 750, 1000, 750},
		{3000, 4000, 1000, 750, 563, 750, 563, 750},
		{200, 100, 1000, 750, 1000, 500, 200, 100},
		{10000, 1, 100, 100, 100, 1, 100, 1},
	}
	for _, test := range tests {
		if w, h := FitWithin(test.w, test.h, test.maxW, test.maxH); w != test.wantW || h != test.wantH {
			t.Errorf("FitWithin(%d,%d,%d,%d) = %d,%d, want %d,%d",
				test.w, test.h, test.maxW, test.maxH, w, h, test.wantW, test.wantH)
		}
		if w, h := FitWithinNoUpscale(test.w, test.h, test.maxW, test.maxH); w != test.noUpW || h != test.noUpH {
			t.Errorf("FitWithinNoUpscale(%d,%d,%d,%d) = %d,%d, want %d,%d",
				test.w, test.h, test.maxW, test.maxH, w, h, test.noUpW, test.noUpH)
		}
	}
}

func TestOrient(t *testing.T) {
	buf := testBuffer(t) // 3 wide, 2 high
	topLeft := func(b Buffer) [3]uint8 { r, g, bl := b.RGB(0, 0); return [3]uint8{r, g, bl} }
	px := func(x, y int) [3]uint8 { r, g, b := buf.RGB(x, y); return [3]uint8{r, g, b} }

	tests := []struct {
		orientation int
		w, h        int
		topLeft     [3]uint8
	}{
		{1, 3, 2, px(0, 0)},
		{2, 3, 2, px(2, 0)},
		{3, 3, 2, px(2, 1)},
		{4, 3, 2, px(0, 1)},
		{5, 2, 3, px(0, 0)},
		{6, 2, 3, px(0, 1)},
		{7, 2, 3, px(2, 1)},
		{8, 2, 3, px(2, 0)},
	}

	for _, test := range tests {
		out, err := Orient(buf, test.orientation)
		if err != nil {
			t.Fatal(err)
		}
		if out.Width != test.w || out.Height != test.h {
			t.Errorf("orientation %d: got %s", test.orientation, out)
		}
		if got := topLeft(out); got != test.topLeft {
			t.Errorf("orientation %d: top left %v, want %v", test.orientation, got, test.topLeft)
		}
	}
}

func TestFromImageGenericPath(t *testing.T) {
	gray := image.NewGray(image.Rect(2, 3, 5, 5))
	gray.SetGray(3, 4, color.Gray{200})

	buf, err := FromImage(gray)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Width != 3 || buf.Height != 2 {
		t.Fatalf("got %s", buf)
	}
	if r, g, b := buf.RGB(1, 1); r != 200 || g != 200 || b != 200 {
		t.Errorf("got %d,%d,%d, want 200 gray", r, g, b)
	}
	if r, _, _ := buf.RGB(0, 0); r != 0 {
		t.Errorf("got %d, want black", r)
	}
}

func TestCheckDims(t *testing.T) {
	tests := []struct{
		w, h int
		want error
	}{
		{1, 1, nil},
		{0, 5, ErrInvalidImage},
		{5, -1, ErrInvalidImage},
		{MaxPixels, 2, ErrAllocationFailed},
		{MaxPixels + 1, 1, ErrAllocationFailed},
	}

	for _, test := range tests {
		err := CheckDims(test.w, test.h)
		if (test.want == nil) != (err == nil) || (test.want != nil && !errors.Is(err, test.want)) {
			t.Errorf("CheckDims(%d,%d) = %v, want %v", test.w, test.h, err, test.want)
		}
	}

	// Resize refuses oversized targets up front
	if _, err := Resize(testBuffer(t), MaxPixels, 2); !errors.Is(err, ErrAllocationFailed) {
		t.Errorf("Resize to %dx2: got %v", MaxPixels, err)
	}
}

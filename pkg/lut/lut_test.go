package lut

import(
	"bytes"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/abworrall/lutgrade/pkg/emath"
)

func TestIdentitySample(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	for _, size := range []int{2, 3, 17, 33} {
		table := Identity(size)
		for i:=0; i<500; i++ {
			in := emath.Vec3{rnd.Float64(), rnd.Float64(), rnd.Float64()}
			out := table.Sample(in)
			for c:=0; c<3; c++ {
				if math.Abs(out[c]-in[c]) > 1e-9 {
					t.Fatalf("size %d: Sample(%s) = %s", size, in, out)
				}
			}
		}

		// The corners and the upper bound of each axis are exact
		for _, in := range []emath.Vec3{{0, 0, 0}, {1, 1, 1}, {1, 0, 1}, {0, 1, 0}} {
			if out := table.Sample(in); out != in {
				t.Errorf("size %d: corner Sample(%s) = %s", size, in, out)
			}
		}
	}
}

func TestSampleClampsInput(t *testing.T) {
	table := Identity(5)
	got := table.Sample(emath.Vec3{-0.5, 1.5, 0.5})
	want := emath.Vec3{0, 1, 0.5}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Sample mismatch (-want +got):\n%s", diff)
	}
}

func TestSampleInterpolatesAlongEachAxis(t *testing.T) {
	// A size-2 table whose red output is 1 only at x=1, green only at
	// y=1 and blue only at z=1 - so each output channel should pick out
	// exactly one input axis.
	table := Identity(2)
	for _, in := range []emath.Vec3{{0.25, 0.5, 0.75}, {0.9, 0.1, 0.3}} {
		out := table.Sample(in)
		if diff := cmp.Diff(in, out, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
			t.Errorf("Sample(%s) mismatch (-want +got):\n%s", in, diff)
		}
	}

	// Not-identity: invert red only
	inv := Identity(2)
	for i := range inv.Samples {
		inv.Samples[i][0] = 1 - inv.Samples[i][0]
	}
	out := inv.Sample(emath.Vec3{0.2, 0.4, 0.6})
	if diff := cmp.Diff(emath.Vec3{0.8, 0.4, 0.6}, out, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("inverted Sample mismatch (-want +got):\n%s", diff)
	}
}

func TestNewTableRejectsWrongLength(t *testing.T) {
	if _, err := NewTable(3, make([]emath.Vec3, 26)); !errors.Is(err, ErrInvalidLut) {
		t.Errorf("got err %v, want ErrInvalidLut", err)
	}
	if _, err := NewTable(1, make([]emath.Vec3, 1)); !errors.Is(err, ErrInvalidLut) {
		t.Errorf("size 1: got err %v, want ErrInvalidLut", err)
	}
	if _, err := NewTable(2, make([]emath.Vec3, 8)); err != nil {
		t.Errorf("size 2: unexpected err %v", err)
	}
}

const smallCube = `# Created by hand
TITLE "tiny"
LUT_3D_SIZE 2
DOMAIN_MIN 0.0 0.0 0.0
DOMAIN_MAX 1.0 1.0 1.0

0 0 0
1 0 0
0 1 0
1 1 0
0 0 1
1 0 1
0 1 1
1 1 1
`

func TestLoad(t *testing.T) {
	table, err := Load(strings.NewReader(smallCube))
	if err != nil {
		t.Fatal(err)
	}
	if table.Size != 2 || table.Title != "tiny" {
		t.Errorf("got %s", table)
	}
	if diff := cmp.Diff(Identity(2).Samples, table.Samples); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMalformed(t *testing.T) {
	tests := map[string]string{
		"too few rows":  strings.Replace(smallCube, "1 1 1\n", "", 1),
		"too many rows": smallCube + "0.5 0.5 0.5\n",
		"no size":       strings.Replace(smallCube, "LUT_3D_SIZE 2\n", "", 1),
		"bad size":      strings.Replace(smallCube, "LUT_3D_SIZE 2", "LUT_3D_SIZE two", 1),
		"zero size":     strings.Replace(smallCube, "LUT_3D_SIZE 2", "LUT_3D_SIZE 0", 1),
		"size mismatch": strings.Replace(smallCube, "LUT_3D_SIZE 2", "LUT_3D_SIZE 3", 1),
	}

	for name, body := range tests {
		table, err := Load(strings.NewReader(body))
		if !errors.Is(err, ErrInvalidLut) {
			t.Errorf("%s: got err %v, want ErrInvalidLut", name, err)
		}
		if table != nil {
			t.Errorf("%s: got a table back alongside the error", name)
		}
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.cube"))
	if !errors.Is(err, ErrInvalidLut) {
		t.Errorf("got err %v, want ErrInvalidLut", err)
	}
}

// A table where every lattice point is distinct and asymmetric in r/g/b,
// so that any mixup of the row order shows up.
func scrambledTable(size int) *Table {
	t := &Table{Size: size, Samples: make([]emath.Vec3, size*size*size)}
	N := float64(size)
	for z:=0; z<size; z++ {
		for y:=0; y<size; y++ {
			for x:=0; x<size; x++ {
				t.Samples[t.Index(x, y, z)] = emath.Vec3{
					float64(x)/N*0.9 + float64(z)/(N*N),
					float64(y)/N*0.5 + 0.1,
					float64(z)/N*0.7 + float64(x)/(N*N*N),
				}
			}
		}
	}
	return t
}

func TestCubeRoundTrip(t *testing.T) {
	orig := scrambledTable(5)

	var buf bytes.Buffer
	if err := orig.WriteCube(&buf); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(buf.String(), "\n")
	if lines[0] != `TITLE "Generated LUT"` || lines[1] != "LUT_3D_SIZE 5" {
		t.Errorf("unexpected header %q", lines[:4])
	}

	// The second data row is (r=1,g=0,b=0): red is the innermost loop
	second := orig.At(1, 0, 0)
	var r, g, b float64
	if _, err := fmt.Sscan(lines[5], &r, &g, &b); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(second, emath.Vec3{r, g, b}, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("second row mismatch (-want +got):\n%s", diff)
	}

	loaded, err := Load(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Size != orig.Size {
		t.Fatalf("size: got %d, want %d", loaded.Size, orig.Size)
	}
	if diff := cmp.Diff(orig.Samples, loaded.Samples, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteFileAndToImg(t *testing.T) {
	dir := t.TempDir()
	orig := scrambledTable(4)

	cubeFile := filepath.Join(dir, "x.cube")
	if err := orig.WriteFile(cubeFile); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadFile(cubeFile)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(orig.Samples, loaded.Samples, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}

	if err := orig.ToImg("scrambled", filepath.Join(dir, "x.png")); err != nil {
		t.Errorf("ToImg: %v", err)
	}
	if b := orig.Image().Bounds(); b.Dx() != 4*64 || b.Dy() != 64 {
		t.Errorf("Image bounds %v", b)
	}
}

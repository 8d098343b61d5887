package lut

import(
	"errors"
	"fmt"

	"github.com/abworrall/lutgrade/pkg/emath"
)

var(
	ErrInvalidLut = errors.New("invalid LUT")
)

// A Table is a cubic 3D lookup table: Size^3 color samples, stored flat
// with the red axis varying fastest, so lattice point (x,y,z) lives at
// x + y*Size + z*Size*Size. This is also the order rows appear in a
// .cube file.
//
// A Table is built once (by loading or synthesis) and never mutated
// after, so it can be sampled from any number of goroutines without
// locking.
type Table struct {
	Title   string
	Size    int
	Samples []emath.Vec3
}

// NewTable wraps the samples in a Table, checking that there are
// exactly size^3 of them.
func NewTable(size int, samples []emath.Vec3) (*Table, error) {
	t := &Table{Size: size, Samples: samples}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Identity builds the table that maps every color to itself.
func Identity(size int) *Table {
	t := &Table{Title: fmt.Sprintf("Identity %d", size), Size: size}
	t.Samples = make([]emath.Vec3, size*size*size)

	inv := 1.0 / float64(size-1)
	for z:=0; z<size; z++ {
		for y:=0; y<size; y++ {
			for x:=0; x<size; x++ {
				t.Samples[t.Index(x, y, z)] = emath.Vec3{float64(x)*inv, float64(y)*inv, float64(z)*inv}
			}
		}
	}
	return t
}

func (t *Table)String() string {
	if t == nil {
		return "Table[nil]"
	}
	return fmt.Sprintf("Table[%q, %d^3]", t.Title, t.Size)
}

// Validate returns ErrInvalidLut if the table can't be sampled.
func (t *Table)Validate() error {
	if t == nil {
		return fmt.Errorf("nil table: %w", ErrInvalidLut)
	}
	if t.Size < 2 {
		return fmt.Errorf("size %d too small: %w", t.Size, ErrInvalidLut)
	}
	if len(t.Samples) != t.Size*t.Size*t.Size {
		return fmt.Errorf("size %d wants %d samples, found %d: %w",
			t.Size, t.Size*t.Size*t.Size, len(t.Samples), ErrInvalidLut)
	}
	return nil
}

func (t *Table)Index(x, y, z int) int        { return x + y*t.Size + z*t.Size*t.Size }
func (t *Table)At(x, y, z int) emath.Vec3    { return t.Samples[t.Index(x, y, z)] }

package lut

import(
	"github.com/abworrall/lutgrade/pkg/emath"
)

// Sample looks up the color `in` via trilinear interpolation of the 8
// lattice points surrounding it. The input is clamped to [0,1]; the
// output is not, that's up to the caller. The table must be valid.
func (t *Table)Sample(in emath.Vec3) emath.Vec3 {
	in = in.Clamped()
	top := t.Size - 1

	x := in[0] * float64(top)
	y := in[1] * float64(top)
	z := in[2] * float64(top)

	x0, y0, z0 := int(x), int(y), int(z)
	x1, y1, z1 := min(x0+1, top), min(y0+1, top), min(z0+1, top)

	xd := x - float64(x0)
	yd := y - float64(y0)
	zd := z - float64(z0)

	c000 := t.At(x0, y0, z0)
	c001 := t.At(x0, y0, z1)
	c010 := t.At(x0, y1, z0)
	c011 := t.At(x0, y1, z1)
	c100 := t.At(x1, y0, z0)
	c101 := t.At(x1, y0, z1)
	c110 := t.At(x1, y1, z0)
	c111 := t.At(x1, y1, z1)

	var out emath.Vec3
	for i:=0; i<3; i++ {
		// along x ...
		c00 := c000[i]*(1-xd) + c100[i]*xd
		c01 := c001[i]*(1-xd) + c101[i]*xd
		c10 := c010[i]*(1-xd) + c110[i]*xd
		c11 := c011[i]*(1-xd) + c111[i]*xd
		// ... then y ...
		c0 := c00*(1-yd) + c10*yd
		c1 := c01*(1-yd) + c11*yd
		// ... then z
		out[i] = c0*(1-zd) + c1*zd
	}

	return out
}

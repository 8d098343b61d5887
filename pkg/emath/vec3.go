package emath

import(
	"fmt"
	"math"
	"golang.org/x/image/math/f64"  // Will be "image/math/f64" at some point, hopefully
)

// A Vec3 is a color sample: three float channels, indexed 0=R, 1=G,
// 2=B. Channels are nominally in [0.0, 1.0], but arithmetic is free to
// leave that range; whoever writes back to 8-bit storage must clamp.
type Vec3 f64.Vec3

func (v Vec3)String() string {
	return fmt.Sprintf("[%12.10f, %12.10f, %12.10f]", v[0], v[1], v[2])
}

func (v Vec3)R() float64 { return v[0] }
func (v Vec3)G() float64 { return v[1] }
func (v Vec3)B() float64 { return v[2] }

func (v *Vec3)FloorAt(min float64) {
	if v[0] < min { v[0] = min }
	if v[1] < min { v[1] = min }
	if v[2] < min { v[2] = min }
}

func (v *Vec3)CeilingAt(max float64) {
	if v[0] > max { v[0] = max }
	if v[1] > max { v[1] = max }
	if v[2] > max { v[2] = max }
}

// Clamped returns a copy of v with every channel clamped to [0,1]
func (v Vec3)Clamped() Vec3 {
	v.FloorAt(0.0)
	v.CeilingAt(1.0)
	return v
}

// Lerp returns v*(1-t) + w*t, per channel
func (v Vec3)Lerp(w Vec3, t float64) Vec3 {
	return Vec3{
		v[0]*(1.0-t) + w[0]*t,
		v[1]*(1.0-t) + w[1]*t,
		v[2]*(1.0-t) + w[2]*t,
	}
}

func (v Vec3)Scale(s float64) Vec3 { return Vec3{v[0]*s, v[1]*s, v[2]*s} }
func (v Vec3)Add(w Vec3) Vec3      { return Vec3{v[0]+w[0], v[1]+w[1], v[2]+w[2]} }
func (v Vec3)Sub(w Vec3) Vec3      { return Vec3{v[0]-w[0], v[1]-w[1], v[2]-w[2]} }

// DistSq is the squared euclidean distance between two samples.
func (v Vec3)DistSq(w Vec3) float64 {
	dr := v[0] - w[0]
	dg := v[1] - w[1]
	db := v[2] - w[2]
	return dr*dr + dg*dg + db*db
}

func (v Vec3)Len() float64 { return math.Sqrt(v.DistSq(Vec3{})) }

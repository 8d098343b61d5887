package grade

import(
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/abworrall/lutgrade/pkg/emath"
)

// Adjustments are the five parametric controls applied after the LUT.
// Each is neutral at 0.0; they run in field order.
type Adjustments struct {
	WhiteBalance float64  // +ve warms (R up, B down), -ve cools
	Tint         float64  // +ve pushes towards green, -ve towards magenta
	Brightness   float64  // multiplicative, 1 + v*0.5
	Contrast     float64  // around mid-grey; approaches infinite slope as it nears 1.0
	Saturation   float64  // -1.0 is fully desaturated
}

const contrastEpsilon = 1e-4

func (a Adjustments)String() string {
	return fmt.Sprintf("wb=%.2f tint=%.2f bright=%.2f contrast=%.2f sat=%.2f",
		a.WhiteBalance, a.Tint, a.Brightness, a.Contrast, a.Saturation)
}

func (a Adjustments)IsZero() bool { return a == Adjustments{} }

// Apply runs the adjustments over one sample. Any stage whose parameter
// is exactly zero is skipped; every stage that runs clamps the channels
// it touches to [0,1].
func (a Adjustments)Apply(c emath.Vec3) emath.Vec3 {
	if a.WhiteBalance != 0 {
		c[0] = emath.Clamp01(c[0] * (1.0 + a.WhiteBalance*0.5))
		c[2] = emath.Clamp01(c[2] * (1.0 - a.WhiteBalance*0.5))
	}

	if a.Tint != 0 {
		c[1] = emath.Clamp01(c[1] * (1.0 + a.Tint*0.5))
		c[0] = emath.Clamp01(c[0] * (1.0 - a.Tint*0.3))
		c[2] = emath.Clamp01(c[2] * (1.0 - a.Tint*0.3))
	}

	if a.Brightness != 0 {
		c = c.Scale(1.0 + a.Brightness*0.5).Clamped()
	}

	if a.Contrast != 0 {
		factor := (1.0 + a.Contrast) / (1.0 - a.Contrast + contrastEpsilon)
		for i:=0; i<3; i++ {
			c[i] = emath.Clamp01((c[i] - 0.5)*factor + 0.5)
		}
	}

	if a.Saturation != 0 {
		c = saturate(c, a.Saturation)
	}

	return c
}

// saturate scales the HSV saturation by (1+amt). Achromatic results
// (S==0) go straight to V on all channels.
func saturate(c emath.Vec3, amt float64) emath.Vec3 {
	h, s, v := colorful.Color{R: c[0], G: c[1], B: c[2]}.Hsv()

	s = emath.Clamp01(s * (1.0 + amt))
	if s == 0 {
		return emath.Vec3{v, v, v}
	}
	if h >= 360.0 {
		h -= 360.0
	}

	out := colorful.Hsv(h, s, v)
	return emath.Vec3{out.R, out.G, out.B}.Clamped()
}

package emath

import "math"

// Some functions that only operate on basic types, that are useful

func Clamp01(f float64) float64 {
	if f < 0.0 { return 0.0 }
	if f > 1.0 { return 1.0 }
	return f
}

// Unit maps an 8-bit channel value onto [0.0, 1.0]
func Unit(b uint8) float64 {
	return float64(b) / 255.0
}

// Byte maps a [0.0, 1.0] channel value back to 8 bits, clamping and
// rounding to nearest.
func Byte(f float64) uint8 {
	return uint8(math.Round(Clamp01(f) * 255.0))
}

// NewVec3FromBytes builds a sample from an 8-bit RGB triple.
func NewVec3FromBytes(r, g, b uint8) Vec3 {
	return Vec3{Unit(r), Unit(g), Unit(b)}
}

package common

import "github.com/chewxy/math32"

// Quaternions are stored as [4]float32 in (x, y, z, w) order, w being the scalar part.

// QuatIdentity returns the identity rotation.
func QuatIdentity() [4]float32 {
	return [4]float32{0, 0, 0, 1}
}

// QuatFromAxisAngle builds a rotation of angle radians about a normalized axis.
func QuatFromAxisAngle(axis [3]float32, angle float32) [4]float32 {
	s, c := math32.Sincos(angle / 2)
	return [4]float32{axis[0] * s, axis[1] * s, axis[2] * s, c}
}

// QuatMul returns a * b, the rotation b followed by a.
func QuatMul(a, b [4]float32) [4]float32 {
	return [4]float32{
		a[3]*b[0] + a[0]*b[3] + a[1]*b[2] - a[2]*b[1],
		a[3]*b[1] - a[0]*b[2] + a[1]*b[3] + a[2]*b[0],
		a[3]*b[2] + a[0]*b[1] - a[1]*b[0] + a[2]*b[3],
		a[3]*b[3] - a[0]*b[0] - a[1]*b[1] - a[2]*b[2],
	}
}

// QuatRotateX rotates q about its local X axis by rad radians.
func QuatRotateX(q [4]float32, rad float32) [4]float32 {
	return QuatMul(q, QuatFromAxisAngle([3]float32{1, 0, 0}, rad))
}

// QuatRotateY rotates q about its local Y axis by rad radians.
func QuatRotateY(q [4]float32, rad float32) [4]float32 {
	return QuatMul(q, QuatFromAxisAngle([3]float32{0, 1, 0}, rad))
}

// QuatNormalize returns q scaled to unit length, or identity for a degenerate q.
func QuatNormalize(q [4]float32) [4]float32 {
	l := math32.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if l < 1e-6 {
		return QuatIdentity()
	}
	inv := 1 / l
	return [4]float32{q[0] * inv, q[1] * inv, q[2] * inv, q[3] * inv}
}

// Slerp performs spherical linear interpolation from a to b along the shorter arc.
// t is expected in [0, 1]; t == 0 yields a exactly.
//
// Parameters:
//   - a: start rotation
//   - b: end rotation
//   - t: interpolation factor
//
// Returns:
//   - [4]float32: the interpolated rotation
func Slerp(a, b [4]float32, t float32) [4]float32 {
	cosom := a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
	if cosom < 0 {
		cosom = -cosom
		b = [4]float32{-b[0], -b[1], -b[2], -b[3]}
	}

	var scale0, scale1 float32
	if 1-cosom > 1e-6 {
		omega := math32.Acos(cosom)
		sinom := math32.Sin(omega)
		scale0 = math32.Sin((1-t)*omega) / sinom
		scale1 = math32.Sin(t*omega) / sinom
	} else {
		// nearly parallel, fall back to linear weights
		scale0 = 1 - t
		scale1 = t
	}

	return [4]float32{
		scale0*a[0] + scale1*b[0],
		scale0*a[1] + scale1*b[1],
		scale0*a[2] + scale1*b[2],
		scale0*a[3] + scale1*b[3],
	}
}

// Lerp3 interpolates two 3-vectors component-wise.
func Lerp3(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{
		a[0] + t*(b[0]-a[0]),
		a[1] + t*(b[1]-a[1]),
		a[2] + t*(b[2]-a[2]),
	}
}

package common

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// degenerateEpsilon is the cross product length below which two unit vectors are
// treated as parallel when deriving a rotation axis.
const degenerateEpsilon float32 = 1e-6

// CanonicalForward is the local forward axis of every Transform (+Z). Light
// transforms are oriented by rotating this axis onto the light direction.
var CanonicalForward = mgl32.Vec3{0, 0, 1}

// WorldUp is the world-space up axis (+Y). It doubles as the rotation axis when a
// direction is exactly opposite to CanonicalForward.
var WorldUp = mgl32.Vec3{0, 1, 0}

// MinimalRotation returns the shortest-arc rotation that maps the unit vector from
// onto the unit vector to. The axis is the cross product of the two vectors and the
// angle is acos of their dot product.
//
// When the vectors are parallel the cross product vanishes; the identity rotation is
// returned. When they are anti-parallel WorldUp is used as the axis, which rotates
// by a half turn about +Y. No NaN can leave this function for unit inputs.
//
// Parameters:
//   - from: the unit vector to rotate from
//   - to: the unit vector to rotate onto
//
// Returns:
//   - mgl32.Quat: the unit rotation quaternion
func MinimalRotation(from, to mgl32.Vec3) mgl32.Quat {
	dot := mgl32.Clamp(from.Dot(to), -1, 1)
	angle := math32.Acos(dot)
	axis := from.Cross(to)

	if axis.Len() < degenerateEpsilon {
		if dot > 0 {
			return mgl32.QuatIdent()
		}
		// Anti-parallel: any axis perpendicular to from works. WorldUp is
		// perpendicular to CanonicalForward, the only caller's from vector; fall
		// back to +X if a caller ever passes a vertical from.
		axis = WorldUp
		if math32.Abs(from.Dot(WorldUp)) > 1-degenerateEpsilon {
			axis = mgl32.Vec3{1, 0, 0}
		}
		return mgl32.QuatRotate(float32(math.Pi), axis)
	}

	return mgl32.QuatRotate(angle, axis.Normalize())
}

// SafeNormalize normalizes v, returning fallback when v has (near) zero length.
//
// Parameters:
//   - v: the vector to normalize
//   - fallback: value returned for zero-length input
//
// Returns:
//   - mgl32.Vec3: the normalized vector or fallback
func SafeNormalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < degenerateEpsilon || math32.IsNaN(l) {
		return fallback
	}
	return v.Mul(1 / l)
}

// LookToLH builds a left-handed view matrix for an eye looking along dir with the
// given up vector. View space has +Z pointing along dir, matching the projection
// helpers below.
//
// Parameters:
//   - eye: eye position in world space
//   - dir: look direction (need not be normalized)
//   - up: up hint; must not be parallel to dir
//
// Returns:
//   - mgl32.Mat4: the column-major view matrix
func LookToLH(eye, dir, up mgl32.Vec3) mgl32.Mat4 {
	z := SafeNormalize(dir, CanonicalForward)
	x := up.Cross(z)
	if x.Len() < degenerateEpsilon {
		// up was parallel to dir; pick any perpendicular up.
		alt := WorldUp
		if math32.Abs(z.Dot(alt)) > 1-degenerateEpsilon {
			alt = mgl32.Vec3{1, 0, 0}
		}
		x = alt.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)

	var m mgl32.Mat4
	m[0], m[4], m[8], m[12] = x.X(), x.Y(), x.Z(), -x.Dot(eye)
	m[1], m[5], m[9], m[13] = y.X(), y.Y(), y.Z(), -y.Dot(eye)
	m[2], m[6], m[10], m[14] = z.X(), z.Y(), z.Z(), -z.Dot(eye)
	m[3], m[7], m[11], m[15] = 0, 0, 0, 1
	return m
}

// OrthographicLH builds a left-handed orthographic projection centered on the view
// axis, mapping depth to the WebGPU clip range [0, 1].
//
// Parameters:
//   - width, height: extents of the view volume in world units
//   - near, far: depth range along +Z
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func OrthographicLH(width, height, near, far float32) mgl32.Mat4 {
	var m mgl32.Mat4
	m[0] = 2 / width
	m[5] = 2 / height
	m[10] = 1 / (far - near)
	m[14] = -near / (far - near)
	m[15] = 1
	return m
}

// PerspectiveFovLH builds a left-handed perspective projection with depth mapped to
// the WebGPU clip range [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: width / height
//   - near, far: clip plane distances (0 < near < far)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func PerspectiveFovLH(fovY, aspect, near, far float32) mgl32.Mat4 {
	h := 1 / math32.Tan(fovY/2)
	var m mgl32.Mat4
	m[0] = h / aspect
	m[5] = h
	m[10] = far / (far - near)
	m[11] = 1
	m[14] = -near * far / (far - near)
	return m
}

// OrthographicExtent recovers the width and height of a projection built by
// OrthographicLH.
func OrthographicExtent(m mgl32.Mat4) (width, height float32) {
	return 2 / m[0], 2 / m[5]
}

// PerspectiveParams recovers the parameters of a projection built by
// PerspectiveFovLH.
//
// Returns:
//   - fovY: vertical field of view in radians
//   - aspect: width / height
//   - near, far: clip plane distances
func PerspectiveParams(m mgl32.Mat4) (fovY, aspect, near, far float32) {
	fovY = 2 * math32.Atan(1/m[5])
	aspect = m[5] / m[0]
	near = -m[14] / m[10]
	far = m[14] / (1 - m[10])
	return
}

// IsFiniteMat4 reports whether every element of m is a finite number.
func IsFiniteMat4(m mgl32.Mat4) bool {
	for _, v := range m {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Mat4Bytes appends the column-major float32 elements of m to dst in little-endian
// order, the layout WGSL expects for mat4x4<f32>.
//
// Parameters:
//   - dst: destination slice to append to
//   - m: the matrix to serialize
//
// Returns:
//   - []byte: dst with 64 bytes appended
func Mat4Bytes(dst []byte, m mgl32.Mat4) []byte {
	for _, v := range m {
		bits := math.Float32bits(v)
		dst = append(dst, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
	}
	return dst
}

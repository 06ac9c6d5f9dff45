package viewer

import "math"

// Pose is the drawable state of one image layer, expressed in scene
// coordinates (the pixel space of the decoded image). Scale and rotation are
// applied about the layer's center, matching how the renderer composes its
// draw transform.
type Pose struct {
	DX       float64 // translation, scene units
	DY       float64
	Scale    float64
	Rotation float64 // degrees
	Opacity  float64 // 0..1
}

func identityPose() Pose {
	return Pose{Scale: 1, Opacity: 1}
}

// IsIdentity reports whether the pose is the inert default.
func (p Pose) IsIdentity() bool {
	return p.DX == 0 && p.DY == 0 && p.Scale == 1 && p.Rotation == 0 && p.Opacity == 1
}

// Affine is a 2D affine matrix [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Affine [6]float64

func identityAffine() Affine {
	return Affine{1, 0, 0, 1, 0, 0}
}

// Mul returns m * n, so n is applied first.
func (m Affine) Mul(n Affine) Affine {
	return Affine{
		m[0]*n[0] + m[2]*n[1],
		m[1]*n[0] + m[3]*n[1],
		m[0]*n[2] + m[2]*n[3],
		m[1]*n[2] + m[3]*n[3],
		m[0]*n[4] + m[2]*n[5] + m[4],
		m[1]*n[4] + m[3]*n[5] + m[5],
	}
}

// Apply maps a point through the matrix.
func (m Affine) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// MapRect maps the axis-aligned rectangle (0,0)-(w,h) through the matrix and
// returns the bounding box of the result.
func (m Affine) MapRect(w, h float64) (minX, minY, maxX, maxY float64) {
	xs := [4]float64{}
	ys := [4]float64{}
	xs[0], ys[0] = m.Apply(0, 0)
	xs[1], ys[1] = m.Apply(w, 0)
	xs[2], ys[2] = m.Apply(0, h)
	xs[3], ys[3] = m.Apply(w, h)

	minX, maxX = xs[0], xs[0]
	minY, maxY = ys[0], ys[0]
	for i := 1; i < 4; i++ {
		minX = math.Min(minX, xs[i])
		maxX = math.Max(maxX, xs[i])
		minY = math.Min(minY, ys[i])
		maxY = math.Max(maxY, ys[i])
	}
	return minX, minY, maxX, maxY
}

func scaleAffine(s float64) Affine {
	return Affine{s, 0, 0, s, 0, 0}
}

func translateAffine(dx, dy float64) Affine {
	return Affine{1, 0, 0, 1, dx, dy}
}

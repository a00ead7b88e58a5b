package epa

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mirmik/termin-sub002/gjk"
)

// face is one triangle of the expanding polytope. Its vertices keep the
// support points on A and B they originated from, so the final face can
// reconstruct witness points.
type face struct {
	points   [3]gjk.SupportPoint
	normal   mgl64.Vec3
	distance float64 // distance from the origin to the face plane
}

// newFace builds an outward-oriented face; interior is a point known to lie
// inside the polytope and fixes the orientation. A degenerate (zero-area)
// triangle yields a face with infinite distance, which the closest-face
// selection never picks.
func newFace(p0, p1, p2 gjk.SupportPoint, interior mgl64.Vec3) face {
	a, b, c := p0.V, p1.V, p2.V

	normal := b.Sub(a).Cross(c.Sub(a))
	length := normal.Len()
	if length < 1e-12 {
		return face{
			points:   [3]gjk.SupportPoint{p0, p1, p2},
			normal:   mgl64.Vec3{0, 1, 0},
			distance: math.Inf(1),
		}
	}
	normal = normal.Mul(1.0 / length)

	// Flip the winding along with the normal so edge directions stay
	// consistent across the polytope surface.
	if normal.Dot(interior.Sub(a)) > 0 {
		normal = normal.Mul(-1)
		p1, p2 = p2, p1
	}

	distance := normal.Dot(a)
	if distance < 0 {
		// Numerical noise for faces passing near the origin
		distance = 0
	}

	return face{
		points:   [3]gjk.SupportPoint{p0, p1, p2},
		normal:   normal,
		distance: distance,
	}
}

// result converts the face into the penetration report: the face plane gives
// direction and depth, and the projection of the origin onto the face gives
// the barycentric weights used to interpolate the stored witness points.
func (f face) result() Result {
	q := f.normal.Mul(f.distance)
	u, v, w := barycentric(q, f.points[0].V, f.points[1].V, f.points[2].V)

	pointA := f.points[0].A.Mul(u).Add(f.points[1].A.Mul(v)).Add(f.points[2].A.Mul(w))
	pointB := f.points[0].B.Mul(u).Add(f.points[1].B.Mul(v)).Add(f.points[2].B.Mul(w))

	return Result{
		Depth:  f.distance,
		Normal: f.normal,
		PointA: pointA,
		PointB: pointB,
	}
}

// barycentric computes the weights of p with respect to triangle abc,
// clamped back into the triangle when p projects outside it.
func barycentric(p, a, b, c mgl64.Vec3) (float64, float64, float64) {
	v0 := b.Sub(a)
	v1 := c.Sub(a)
	v2 := p.Sub(a)

	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)

	denom := d00*d11 - d01*d01
	if math.Abs(denom) < 1e-14 {
		return 1, 0, 0
	}

	v := (d11*d20 - d01*d21) / denom
	w := (d00*d21 - d01*d20) / denom
	u := 1.0 - v - w

	// Clamp coordinates that fell outside the triangle and renormalize
	if u < 0 {
		u = 0
	}
	if v < 0 {
		v = 0
	}
	if w < 0 {
		w = 0
	}
	sum := u + v + w
	if sum < 1e-14 {
		return 1, 0, 0
	}
	return u / sum, v / sum, w / sum
}

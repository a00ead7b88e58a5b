package collider

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// closestPointOnSegment returns the point of segment [a,b] closest to p,
// along with the clamped segment parameter in [0,1].
func closestPointOnSegment(p, a, b mgl64.Vec3) (mgl64.Vec3, float64) {
	ab := b.Sub(a)
	lenSqr := ab.LenSqr()
	if lenSqr < 1e-14 {
		// Degenerate segment: both endpoints coincide
		return a, 0
	}

	t := p.Sub(a).Dot(ab) / lenSqr
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.Mul(t)), t
}

// closestPointsSegmentSegment computes the closest points between segments
// [p1,q1] and [p2,q2], clamping both parameters to [0,1]. Degenerate segments
// (coincident endpoints) reduce to point-segment or point-point cases instead
// of dividing by a near-zero denominator.
func closestPointsSegmentSegment(p1, q1, p2, q2 mgl64.Vec3) (c1, c2 mgl64.Vec3) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)

	a := d1.LenSqr()
	e := d2.LenSqr()
	f := d2.Dot(r)

	const eps = 1e-14

	if a < eps && e < eps {
		// Both segments are points
		return p1, p2
	}

	var s, t float64
	if a < eps {
		// First segment is a point
		s = 0
		t = math.Max(0, math.Min(1, f/e))
	} else {
		c := d1.Dot(r)
		if e < eps {
			// Second segment is a point
			t = 0
			s = math.Max(0, math.Min(1, -c/a))
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b

			// Parallel segments leave s free; pick s = 0 and let the
			// t clamp below recover a valid pair.
			if denom > eps {
				s = math.Max(0, math.Min(1, (b*f-c*e)/denom))
			} else {
				s = 0
			}

			t = (b*s + f) / e

			// If t fell outside [0,1], clamp it and recompute s for the
			// clamped t, then clamp s as well.
			if t < 0 {
				t = 0
				s = math.Max(0, math.Min(1, -c/a))
			} else if t > 1 {
				t = 1
				s = math.Max(0, math.Min(1, (b-c)/a))
			}
		}
	}

	c1 = p1.Add(d1.Mul(s))
	c2 = p2.Add(d2.Mul(t))
	return c1, c2
}

// closestPointsRaySegment computes the closest points between the half-line
// from ro along rd (parameter >= 0) and segment [p0,p1].
func closestPointsRaySegment(ro, rd, p0, p1 mgl64.Vec3) (onRay, onSegment mgl64.Vec3) {
	d2 := p1.Sub(p0)
	r := ro.Sub(p0)

	a := rd.LenSqr()
	e := d2.LenSqr()
	b := rd.Dot(d2)
	c := rd.Dot(r)
	f := d2.Dot(r)

	const eps = 1e-14

	if a < eps {
		// Zero-length ray direction: treat as a point query
		p, _ := closestPointOnSegment(ro, p0, p1)
		return ro, p
	}

	var s, t float64
	if e < eps {
		// Segment is a point
		t = 0
		s = math.Max(0, -c/a)
	} else {
		denom := a*e - b*b
		if denom > eps {
			s = math.Max(0, (b*f-c*e)/denom)
		} else {
			s = 0
		}

		t = (b*s + f) / e
		if t < 0 {
			t = 0
			s = math.Max(0, -c/a)
		} else if t > 1 {
			t = 1
			s = math.Max(0, (b-c)/a)
		}
	}

	return ro.Add(rd.Mul(s)), p0.Add(d2.Mul(t))
}

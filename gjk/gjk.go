// Package gjk implements the Gilbert-Johnson-Keerthi distance algorithm for
// convex shapes.
//
// GJK works in the Minkowski difference space A - B: the distance between two
// convex shapes equals the distance from that set to the origin. The algorithm
// only queries shapes through their support functions, so it works for any
// convex shape without inspecting its geometry. A simplex of 1-4 support
// points is refined toward the origin; when the simplex reaches the origin
// the shapes intersect and the caller hands over to EPA for penetration depth.
//
// Each simplex point carries the support points on A and B it originated
// from, so on separation the witness points are reconstructed with the same
// barycentric weights as the closest simplex point.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance
//     Between Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
package gjk

import (
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxIterations caps the refinement loop. Well-conditioned shape pairs
	// converge in a handful of iterations; the cap is a deterministic
	// termination guarantee, not an error condition.
	MaxIterations = 64

	// Tolerance is the relative threshold on the support objective: when a
	// new support point improves v·v by less than Tolerance·v·v, the current
	// simplex already realizes the distance.
	Tolerance = 1e-10

	// ContactEpsilon bounds |v|² below which the simplex is considered to
	// have reached the origin, i.e. the shapes intersect.
	ContactEpsilon = 1e-12
)

// Shape is the support-function contract GJK operates through.
type Shape interface {
	// Center returns a point roughly in the middle of the shape, used only
	// to seed the initial search direction.
	Center() mgl64.Vec3
	// Support returns the world-space surface point maximizing the dot
	// product with direction.
	Support(direction mgl64.Vec3) mgl64.Vec3
}

// SupportPoint is one vertex of the simplex: a point of the Minkowski
// difference together with the support points on A and B it came from.
type SupportPoint struct {
	V mgl64.Vec3 // support(A, d) - support(B, -d)
	A mgl64.Vec3
	B mgl64.Vec3
}

// Simplex holds 1 to 4 support points in Minkowski difference space.
type Simplex struct {
	Points [4]SupportPoint
	Count  int
}

func (s *Simplex) Reset() {
	s.Count = 0
}

func (s *Simplex) push(p SupportPoint) {
	s.Points[s.Count] = p
	s.Count++
}

func (s *Simplex) contains(v mgl64.Vec3) bool {
	for i := 0; i < s.Count; i++ {
		if s.Points[i].V.Sub(v).LenSqr() < 1e-18 {
			return true
		}
	}
	return false
}

// Support computes a support point of the Minkowski difference A - B.
func Support(a, b Shape, direction mgl64.Vec3) SupportPoint {
	pa := a.Support(direction)
	pb := b.Support(direction.Mul(-1))
	return SupportPoint{V: pa.Sub(pb), A: pa, B: pb}
}

// Result describes the outcome of a distance query.
type Result struct {
	// Colliding is true when the simplex reached the origin. Distance and
	// the witness points are then meaningless; run EPA for penetration.
	Colliding bool

	// Distance between the shapes (zero or positive).
	Distance float64

	// Normal points from shape A toward shape B.
	Normal mgl64.Vec3

	// PointA and PointB are the closest points on A and B.
	PointA mgl64.Vec3
	PointB mgl64.Vec3

	// Simplex is the final simplex, exposed for diagnostics.
	Simplex Simplex
}

// Distance computes the separation between two convex shapes.
//
// The loop keeps the invariant that the simplex holds the feature of the
// Minkowski difference currently closest to the origin. Each iteration asks
// for a support point opposite the current closest point v; when the new
// point no longer improves the objective by more than a relative tolerance,
// v realizes the true distance.
func Distance(a, b Shape) Result {
	direction := a.Center().Sub(b.Center())
	if direction.LenSqr() < 1e-14 {
		direction = mgl64.Vec3{1, 0, 0} // Fallback if centers are identical
	}

	var simplex Simplex
	simplex.push(Support(a, b, direction))

	var v mgl64.Vec3
	var weights [4]float64

	for i := 0; i < MaxIterations; i++ {
		var contained bool
		v, weights, contained = closestToOrigin(&simplex)

		if contained || v.LenSqr() < ContactEpsilon {
			return Result{Colliding: true, Simplex: simplex}
		}

		w := Support(a, b, v.Mul(-1))

		// No meaningful progress toward the origin: converged.
		vv := v.Dot(v)
		if vv-v.Dot(w.V) <= Tolerance*vv {
			break
		}

		// A repeated support point means the Minkowski boundary has been
		// exhausted in this direction; adding it again would only cycle.
		if simplex.contains(w.V) {
			break
		}

		simplex.push(w)
	}

	return witnessResult(&simplex, v, weights)
}

// witnessResult reconstructs the closest points on A and B by applying the
// barycentric weights of the closest simplex point to the stored witness
// points, not to the Minkowski points.
func witnessResult(simplex *Simplex, v mgl64.Vec3, weights [4]float64) Result {
	var pointA, pointB mgl64.Vec3
	for i := 0; i < simplex.Count; i++ {
		pointA = pointA.Add(simplex.Points[i].A.Mul(weights[i]))
		pointB = pointB.Add(simplex.Points[i].B.Mul(weights[i]))
	}

	distance := v.Len()
	normal := mgl64.Vec3{0, 1, 0}
	if distance > 1e-12 {
		// v = pointA - pointB, so the A→B direction is -v normalized
		normal = v.Mul(-1.0 / distance)
	}

	return Result{
		Distance: distance,
		Normal:   normal,
		PointA:   pointA,
		PointB:   pointB,
		Simplex:  *simplex,
	}
}

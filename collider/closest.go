package collider

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mirmik/termin-sub002/epa"
	"github.com/mirmik/termin-sub002/gjk"
)

// Hit is the result of a narrow-phase pair test.
type Hit struct {
	// Distance is positive when the shapes are separated and negative when
	// they overlap, in which case its magnitude is the penetration depth.
	// For separated box-box pairs it is the separating-axis overlap
	// magnitude, not a Euclidean closest-point distance; see boxBox.
	Distance float64

	// Normal points from shape A toward shape B.
	Normal mgl64.Vec3

	// PointA and PointB are the witness points on A and B: the closest
	// points when separated, the deepest points when penetrating.
	PointA mgl64.Vec3
	PointB mgl64.Vec3
}

// Colliding reports whether the shapes overlap
func (h Hit) Colliding() bool {
	return h.Distance < 0
}

// ClosestToCollider computes distance or penetration between two colliders.
//
// Pairs with a shape-specific closed-form test use it; every pair involving
// a convex hull, and the box-capsule pair, fall back to the generic GJK/EPA
// path. Reversed shape orders reuse the forward test with normal and witness
// points swapped.
func (a *Collider) ClosestToCollider(b *Collider) Hit {
	switch sa := a.Shape.(type) {
	case *Sphere:
		switch sb := b.Shape.(type) {
		case *Sphere:
			return sphereSphere(a, sa, b, sb)
		case *Box:
			return boxSphere(b, sb, a, sa).flipped()
		case *Capsule:
			return capsuleSphere(b, sb, a, sa).flipped()
		}
	case *Box:
		switch sb := b.Shape.(type) {
		case *Sphere:
			return boxSphere(a, sa, b, sb)
		case *Box:
			return boxBox(a, sa, b, sb)
		}
	case *Capsule:
		switch sb := b.Shape.(type) {
		case *Sphere:
			return capsuleSphere(a, sa, b, sb)
		case *Capsule:
			return capsuleCapsule(a, sa, b, sb)
		}
	}

	return gjkClosest(a, b)
}

func (h Hit) flipped() Hit {
	h.Normal = h.Normal.Mul(-1)
	h.PointA, h.PointB = h.PointB, h.PointA
	return h
}

// separationNormal returns the unit direction from a toward b, or a default
// up vector when the centers coincide.
func separationNormal(a, b mgl64.Vec3) (mgl64.Vec3, float64) {
	delta := b.Sub(a)
	dist := delta.Len()
	if dist < 1e-12 {
		return mgl64.Vec3{0, 1, 0}, 0
	}
	return delta.Mul(1.0 / dist), dist
}

func sphereSphere(a *Collider, sa *Sphere, b *Collider, sb *Sphere) Hit {
	ra := sa.effectiveRadius(a.Transform.Scale)
	rb := sb.effectiveRadius(b.Transform.Scale)

	normal, dist := separationNormal(a.Center(), b.Center())

	return Hit{
		Distance: dist - ra - rb,
		Normal:   normal,
		PointA:   a.Center().Add(normal.Mul(ra)),
		PointB:   b.Center().Sub(normal.Mul(rb)),
	}
}

// sphereAgainstPoint finishes a sphere test once the closest point on the
// other shape's core geometry is known: anchor is the point on that core
// (box surface point or capsule axis point), and coreDistance is the
// remaining distance to subtract for the other shape's radius (zero for a
// box). Normal runs from the anchor's shape toward the sphere.
func sphereAgainstPoint(anchor mgl64.Vec3, sphereCenter mgl64.Vec3, sphereRadius, otherRadius float64) Hit {
	normal, dist := separationNormal(anchor, sphereCenter)

	return Hit{
		Distance: dist - otherRadius - sphereRadius,
		Normal:   normal,
		PointA:   anchor.Add(normal.Mul(otherRadius)),
		PointB:   sphereCenter.Sub(normal.Mul(sphereRadius)),
	}
}

func boxSphere(a *Collider, sa *Box, b *Collider, sb *Sphere) Hit {
	r := sb.effectiveRadius(b.Transform.Scale)
	h := sa.effectiveHalfExtents(a.Transform.Scale)

	local := a.Transform.InverseRotation.Rotate(b.Center().Sub(a.Center()))
	clamped := mgl64.Vec3{
		math.Max(-h.X(), math.Min(h.X(), local.X())),
		math.Max(-h.Y(), math.Min(h.Y(), local.Y())),
		math.Max(-h.Z(), math.Min(h.Z(), local.Z())),
	}

	if clamped == local {
		// Sphere center inside the box: push out through the nearest face
		axis := 0
		depth := h.X() - math.Abs(local.X())
		if d := h.Y() - math.Abs(local.Y()); d < depth {
			axis, depth = 1, d
		}
		if d := h.Z() - math.Abs(local.Z()); d < depth {
			axis, depth = 2, d
		}

		var localNormal mgl64.Vec3
		if local[axis] >= 0 {
			localNormal[axis] = 1
		} else {
			localNormal[axis] = -1
		}

		surface := local
		surface[axis] = localNormal[axis] * h[axis]

		normal := a.Transform.Rotation.Rotate(localNormal)
		return Hit{
			Distance: -(depth + r),
			Normal:   normal,
			PointA:   a.Transform.Rotation.Rotate(surface).Add(a.Center()),
			PointB:   b.Center().Sub(normal.Mul(r)),
		}
	}

	closest := a.Transform.Rotation.Rotate(clamped).Add(a.Center())
	return sphereAgainstPoint(closest, b.Center(), r, 0)
}

func capsuleSphere(a *Collider, sa *Capsule, b *Collider, sb *Sphere) Hit {
	ra := sa.effectiveRadius(a.Transform.Scale)
	rb := sb.effectiveRadius(b.Transform.Scale)

	p0, p1 := sa.worldSegment(a.Transform)
	onAxis, _ := closestPointOnSegment(b.Center(), p0, p1)

	return sphereAgainstPoint(onAxis, b.Center(), rb, ra)
}

func capsuleCapsule(a *Collider, sa *Capsule, b *Collider, sb *Capsule) Hit {
	ra := sa.effectiveRadius(a.Transform.Scale)
	rb := sb.effectiveRadius(b.Transform.Scale)

	a0, a1 := sa.worldSegment(a.Transform)
	b0, b1 := sb.worldSegment(b.Transform)

	onA, onB := closestPointsSegmentSegment(a0, a1, b0, b1)
	normal, dist := separationNormal(onA, onB)

	return Hit{
		Distance: dist - ra - rb,
		Normal:   normal,
		PointA:   onA.Add(normal.Mul(ra)),
		PointB:   onB.Sub(normal.Mul(rb)),
	}
}

// gjkClosest is the generic fallback for pairs without an analytic test.
// Degenerate hulls (no faces) never produce contacts.
func gjkClosest(a, b *Collider) Hit {
	if a.degenerate() || b.degenerate() {
		return Hit{Distance: math.Inf(1), Normal: mgl64.Vec3{0, 1, 0}}
	}

	res := gjk.Distance(a, b)
	if !res.Colliding {
		return Hit{
			Distance: res.Distance,
			Normal:   res.Normal,
			PointA:   res.PointA,
			PointB:   res.PointB,
		}
	}

	pen, ok := epa.Penetrate(a, b)
	if !ok {
		// The overlap is too thin to seed a polytope; report a touching
		// contact with zero depth at the midpoint.
		normal, _ := separationNormal(a.Center(), b.Center())
		mid := a.Center().Add(b.Center()).Mul(0.5)
		return Hit{Distance: 0, Normal: normal, PointA: mid, PointB: mid}
	}

	return Hit{
		Distance: -pen.Depth,
		Normal:   pen.Normal,
		PointA:   pen.PointA,
		PointB:   pen.PointB,
	}
}

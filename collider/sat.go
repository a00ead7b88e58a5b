package collider

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const crossAxisEpsilon = 1e-10

// boxBox runs a separating-axis test over the 15 candidate axes of an
// oriented box pair: the three face normals of each box and the nine
// edge-edge cross products.
//
// The reported separation is the largest gap over the tested axes. For
// penetrating pairs that is the exact depth along the minimum-overlap
// axis; for separated pairs it is a lower bound on the Euclidean gap and
// exact only for face-aligned configurations.
func boxBox(a *Collider, sa *Box, b *Collider, sb *Box) Hit {
	ha := sa.effectiveHalfExtents(a.Transform.Scale)
	hb := sb.effectiveHalfExtents(b.Transform.Scale)

	var axesA, axesB [3]mgl64.Vec3
	for i := 0; i < 3; i++ {
		var unit mgl64.Vec3
		unit[i] = 1
		axesA[i] = a.Transform.Rotation.Rotate(unit)
		axesB[i] = b.Transform.Rotation.Rotate(unit)
	}

	delta := b.Center().Sub(a.Center())

	bestSep := math.Inf(-1)
	var bestAxis mgl64.Vec3

	testAxis := func(axis mgl64.Vec3) {
		lenSq := axis.LenSqr()
		if lenSq < crossAxisEpsilon {
			// Near-parallel edge pair, the face axes cover it
			return
		}
		axis = axis.Mul(1.0 / math.Sqrt(lenSq))

		ra := math.Abs(axis.Dot(axesA[0]))*ha.X() +
			math.Abs(axis.Dot(axesA[1]))*ha.Y() +
			math.Abs(axis.Dot(axesA[2]))*ha.Z()
		rb := math.Abs(axis.Dot(axesB[0]))*hb.X() +
			math.Abs(axis.Dot(axesB[1]))*hb.Y() +
			math.Abs(axis.Dot(axesB[2]))*hb.Z()

		proj := axis.Dot(delta)
		sep := math.Abs(proj) - ra - rb
		if sep > bestSep {
			if proj < 0 {
				axis = axis.Mul(-1)
			}
			bestSep = sep
			bestAxis = axis
		}
	}

	for i := 0; i < 3; i++ {
		testAxis(axesA[i])
		testAxis(axesB[i])
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			testAxis(axesA[i].Cross(axesB[j]))
		}
	}

	if bestSep >= 0 {
		// bestAxis already points from A toward B
		return Hit{
			Distance: bestSep,
			Normal:   bestAxis,
			PointA:   a.Support(bestAxis),
			PointB:   b.Support(bestAxis.Mul(-1)),
		}
	}

	contact := boxBoxContact(a, sa, b, sb, bestAxis)
	return Hit{
		Distance: bestSep,
		Normal:   bestAxis,
		PointA:   contact,
		PointB:   contact,
	}
}

// boxBoxContact picks a representative contact point for a penetrating box
// pair: the corner of B deepest into A along the contact normal, falling
// back to the corner of A deepest into B when B has no corner inside A
// (edge-edge style overlaps).
func boxBoxContact(a *Collider, sa *Box, b *Collider, sb *Box, normal mgl64.Vec3) mgl64.Vec3 {
	cornersB := sb.worldCorners(b.Transform)

	found := false
	best := math.Inf(1)
	var contact mgl64.Vec3
	for _, c := range cornersB {
		if !boxContainsPoint(a, sa, c) {
			continue
		}
		if d := normal.Dot(c); d < best {
			best = d
			contact = c
			found = true
		}
	}
	if found {
		return contact
	}

	cornersA := sa.worldCorners(a.Transform)
	best = math.Inf(-1)
	for _, c := range cornersA {
		if !boxContainsPoint(b, sb, c) {
			continue
		}
		if d := normal.Dot(c); d > best {
			best = d
			contact = c
			found = true
		}
	}
	if found {
		return contact
	}

	// No corner inside either box, use the deepest corner of B regardless
	best = math.Inf(1)
	for _, c := range cornersB {
		if d := normal.Dot(c); d < best {
			best = d
			contact = c
		}
	}
	return contact
}

func boxContainsPoint(c *Collider, box *Box, p mgl64.Vec3) bool {
	h := box.effectiveHalfExtents(c.Transform.Scale)
	local := c.Transform.InverseRotation.Rotate(p.Sub(c.Center()))
	const slack = 1e-9
	return math.Abs(local.X()) <= h.X()+slack &&
		math.Abs(local.Y()) <= h.Y()+slack &&
		math.Abs(local.Z()) <= h.Z()+slack
}

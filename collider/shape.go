package collider

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Shape is the closed set of collision shape variants: Box, Sphere, Capsule
// and ConvexHull. The set is sealed so every pairwise dispatch can be written
// as an exhaustive type switch instead of open-ended virtual calls.
type Shape interface {
	// support returns the point of the scaled shape, in local space,
	// furthest along direction. GJK convergence depends on this being
	// exact, not approximate.
	support(direction, scale mgl64.Vec3) mgl64.Vec3
	computeAABB(transform Transform) AABB
	isShape()
}

// Box is a rectangular box defined by its half-extents
// (half-width, half-height, half-depth). Scale applies per axis.
type Box struct {
	HalfExtents mgl64.Vec3
}

func (b *Box) isShape() {}

func (b *Box) effectiveHalfExtents(scale mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		b.HalfExtents.X() * scale.X(),
		b.HalfExtents.Y() * scale.Y(),
		b.HalfExtents.Z() * scale.Z(),
	}
}

func (b *Box) support(direction, scale mgl64.Vec3) mgl64.Vec3 {
	h := b.effectiveHalfExtents(scale)
	hx, hy, hz := h.X(), h.Y(), h.Z()

	if direction.X() < 0 {
		hx = -hx
	}
	if direction.Y() < 0 {
		hy = -hy
	}
	if direction.Z() < 0 {
		hz = -hz
	}

	return mgl64.Vec3{hx, hy, hz}
}

func (b *Box) computeAABB(transform Transform) AABB {
	h := b.effectiveHalfExtents(transform.Scale)
	corners := [8]mgl64.Vec3{
		{-h.X(), -h.Y(), -h.Z()},
		{+h.X(), -h.Y(), -h.Z()},
		{-h.X(), +h.Y(), -h.Z()},
		{+h.X(), +h.Y(), -h.Z()},
		{-h.X(), -h.Y(), +h.Z()},
		{+h.X(), -h.Y(), +h.Z()},
		{-h.X(), +h.Y(), +h.Z()},
		{+h.X(), +h.Y(), +h.Z()},
	}

	worldCorner := transform.Rotation.Rotate(corners[0]).Add(transform.Position)
	min := worldCorner
	max := worldCorner

	for i := 1; i < 8; i++ {
		worldCorner = transform.Rotation.Rotate(corners[i]).Add(transform.Position)

		min[0] = math.Min(min[0], worldCorner[0])
		min[1] = math.Min(min[1], worldCorner[1])
		min[2] = math.Min(min[2], worldCorner[2])

		max[0] = math.Max(max[0], worldCorner[0])
		max[1] = math.Max(max[1], worldCorner[1])
		max[2] = math.Max(max[2], worldCorner[2])
	}

	return AABB{Min: min, Max: max}
}

// worldCorners returns the 8 corners of the scaled, rotated, translated box.
func (b *Box) worldCorners(transform Transform) [8]mgl64.Vec3 {
	h := b.effectiveHalfExtents(transform.Scale)
	signs := [8]mgl64.Vec3{
		{-1, -1, -1}, {+1, -1, -1}, {-1, +1, -1}, {+1, +1, -1},
		{-1, -1, +1}, {+1, -1, +1}, {-1, +1, +1}, {+1, +1, +1},
	}

	var corners [8]mgl64.Vec3
	for i, s := range signs {
		local := mgl64.Vec3{s.X() * h.X(), s.Y() * h.Y(), s.Z() * h.Z()}
		corners[i] = transform.Rotation.Rotate(local).Add(transform.Position)
	}
	return corners
}

// Sphere is a spherical collision shape. Only uniform scaling is meaningful
// for a sphere, so the effective radius uses the smallest scale component.
type Sphere struct {
	Radius float64
}

func (s *Sphere) isShape() {}

func (s *Sphere) effectiveRadius(scale mgl64.Vec3) float64 {
	return s.Radius * math.Min(scale.X(), math.Min(scale.Y(), scale.Z()))
}

func (s *Sphere) support(direction, scale mgl64.Vec3) mgl64.Vec3 {
	r := s.effectiveRadius(scale)
	if direction.LenSqr() < 1e-14 {
		return mgl64.Vec3{r, 0, 0}
	}
	return direction.Normalize().Mul(r)
}

func (s *Sphere) computeAABB(transform Transform) AABB {
	// Sphere AABB is not affected by rotation, only by position
	r := s.effectiveRadius(transform.Scale)
	radiusVec := mgl64.Vec3{r, r, r}

	return AABB{
		Min: transform.Position.Sub(radiusVec),
		Max: transform.Position.Add(radiusVec),
	}
}

// Capsule is a segment along the local Z axis with hemispherical caps.
// HalfHeight is half the length of the inner segment, excluding the caps.
// Scale.Z stretches the segment; min(Scale.X, Scale.Y) scales the radius.
type Capsule struct {
	HalfHeight float64
	Radius     float64
}

func (c *Capsule) isShape() {}

func (c *Capsule) effectiveHalfHeight(scale mgl64.Vec3) float64 {
	return c.HalfHeight * scale.Z()
}

func (c *Capsule) effectiveRadius(scale mgl64.Vec3) float64 {
	return c.Radius * math.Min(scale.X(), scale.Y())
}

func (c *Capsule) support(direction, scale mgl64.Vec3) mgl64.Vec3 {
	hh := c.effectiveHalfHeight(scale)
	r := c.effectiveRadius(scale)

	end := mgl64.Vec3{0, 0, hh}
	if direction.Z() < 0 {
		end = mgl64.Vec3{0, 0, -hh}
	}

	if direction.LenSqr() < 1e-14 {
		return end.Add(mgl64.Vec3{r, 0, 0})
	}
	return end.Add(direction.Normalize().Mul(r))
}

func (c *Capsule) computeAABB(transform Transform) AABB {
	hh := c.effectiveHalfHeight(transform.Scale)
	r := c.effectiveRadius(transform.Scale)

	// The AABB is the box enclosing the two cap spheres.
	top := transform.Rotation.Rotate(mgl64.Vec3{0, 0, hh}).Add(transform.Position)
	bottom := transform.Rotation.Rotate(mgl64.Vec3{0, 0, -hh}).Add(transform.Position)

	radiusVec := mgl64.Vec3{r, r, r}
	min := mgl64.Vec3{
		math.Min(top.X(), bottom.X()),
		math.Min(top.Y(), bottom.Y()),
		math.Min(top.Z(), bottom.Z()),
	}.Sub(radiusVec)
	max := mgl64.Vec3{
		math.Max(top.X(), bottom.X()),
		math.Max(top.Y(), bottom.Y()),
		math.Max(top.Z(), bottom.Z()),
	}.Add(radiusVec)

	return AABB{Min: min, Max: max}
}

// worldSegment returns the world-space endpoints of the capsule's inner axis.
func (c *Capsule) worldSegment(transform Transform) (mgl64.Vec3, mgl64.Vec3) {
	hh := c.effectiveHalfHeight(transform.Scale)
	axis := transform.Rotation.Rotate(mgl64.Vec3{0, 0, hh})
	return transform.Position.Sub(axis), transform.Position.Add(axis)
}

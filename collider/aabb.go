package collider

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	// AABBs overlap if they overlap on all three axes
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

// Contains checks if another AABB lies entirely inside this one
func (a AABB) Contains(other AABB) bool {
	return a.Min.X() <= other.Min.X() && a.Min.Y() <= other.Min.Y() && a.Min.Z() <= other.Min.Z() &&
		a.Max.X() >= other.Max.X() && a.Max.Y() >= other.Max.Y() && a.Max.Z() >= other.Max.Z()
}

// Merged returns the smallest AABB enclosing both boxes
func (a AABB) Merged(other AABB) AABB {
	return AABB{
		Min: mgl64.Vec3{
			math.Min(a.Min.X(), other.Min.X()),
			math.Min(a.Min.Y(), other.Min.Y()),
			math.Min(a.Min.Z(), other.Min.Z()),
		},
		Max: mgl64.Vec3{
			math.Max(a.Max.X(), other.Max.X()),
			math.Max(a.Max.Y(), other.Max.Y()),
			math.Max(a.Max.Z(), other.Max.Z()),
		},
	}
}

// Fattened returns the AABB grown by margin on every axis
func (a AABB) Fattened(margin float64) AABB {
	m := mgl64.Vec3{margin, margin, margin}
	return AABB{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}

// SurfaceArea returns the total surface area of the box.
// The dynamic tree uses it as the cost heuristic when choosing where
// a new leaf should be inserted.
func (a AABB) SurfaceArea() float64 {
	d := a.Max.Sub(a.Min)
	return 2.0 * (d.X()*d.Y() + d.Y()*d.Z() + d.Z()*d.X())
}

// Center returns the midpoint of the box
func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// IntersectRay performs a slab test of the ray against the box.
// It returns the entry and exit parameters along the ray; ok is false
// when the ray misses the box entirely or the box lies behind the origin.
func (a AABB) IntersectRay(ray Ray) (tmin, tmax float64, ok bool) {
	tmin = 0
	tmax = math.Inf(1)

	for i := 0; i < 3; i++ {
		if math.Abs(ray.Direction[i]) < 1e-12 {
			// Ray parallel to this slab: must already be inside it
			if ray.Origin[i] < a.Min[i] || ray.Origin[i] > a.Max[i] {
				return 0, 0, false
			}
			continue
		}

		inv := 1.0 / ray.Direction[i]
		t1 := (a.Min[i] - ray.Origin[i]) * inv
		t2 := (a.Max[i] - ray.Origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, 0, false
		}
	}

	return tmin, tmax, true
}

package collision

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mirmik/termin-sub002/collider"
)

// RayHit is one collider hit by a world ray query.
type RayHit struct {
	Handle   Handle
	Collider *collider.Collider

	// Point is where the ray enters the collider.
	Point mgl64.Vec3

	// Normal is the outward direction at the hit point, approximated as
	// the direction from the collider center to the point.
	Normal mgl64.Vec3

	// Distance along the ray from its origin to the hit point.
	Distance float64
}

// Raycast returns every collider the ray passes through, ordered by
// ascending hit distance. The broad phase prunes candidates with the
// fattened bounds, so each reported hit has been confirmed against the
// exact shape.
func (w *World) Raycast(ray collider.Ray) []RayHit {
	var hits []RayHit
	w.tree.QueryRay(ray, func(data int32, tmin, tmax float64) {
		s := &w.slots[data]
		hit := s.collider.ClosestToRay(ray)
		if !hit.Intersects() {
			return
		}

		normal := hit.RayPoint.Sub(s.collider.Center())
		if l := normal.Len(); l > 1e-12 {
			normal = normal.Mul(1.0 / l)
		} else {
			normal = ray.Direction.Mul(-1)
		}

		hits = append(hits, RayHit{
			Handle:   Handle{index: data, generation: s.generation},
			Collider: s.collider,
			Point:    hit.RayPoint,
			Normal:   normal,
			Distance: hit.RayPoint.Sub(ray.Origin).Len(),
		})
	})

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

// RaycastClosest returns the nearest hit along the ray. The second return
// value is false when the ray hits nothing.
func (w *World) RaycastClosest(ray collider.Ray) (RayHit, bool) {
	// Normalize the direction so the broad-phase entry parameter is a
	// Euclidean distance and can be compared against the best hit so far.
	if l := ray.Direction.Len(); l > 1e-12 {
		ray.Direction = ray.Direction.Mul(1.0 / l)
	}

	best := RayHit{Distance: -1}
	found := false
	w.tree.QueryRay(ray, func(data int32, tmin, tmax float64) {
		if found && tmin > best.Distance {
			return
		}
		s := &w.slots[data]
		hit := s.collider.ClosestToRay(ray)
		if !hit.Intersects() {
			return
		}

		dist := hit.RayPoint.Sub(ray.Origin).Len()
		if found && dist >= best.Distance {
			return
		}

		normal := hit.RayPoint.Sub(s.collider.Center())
		if l := normal.Len(); l > 1e-12 {
			normal = normal.Mul(1.0 / l)
		} else {
			normal = ray.Direction.Mul(-1)
		}

		best = RayHit{
			Handle:   Handle{index: data, generation: s.generation},
			Collider: s.collider,
			Point:    hit.RayPoint,
			Normal:   normal,
			Distance: dist,
		}
		found = true
	})
	return best, found
}

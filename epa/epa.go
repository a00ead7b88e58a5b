// Package epa implements the Expanding Polytope Algorithm for computing
// penetration depth between intersecting convex shapes.
//
// EPA runs after GJK detects an intersection, when the distance query alone
// carries no usable information. A polytope in Minkowski difference space is
// expanded toward the boundary of the difference; the face of the final
// polytope closest to the origin yields the penetration direction and depth
// (the minimum translation vector), with witness points reconstructed by
// barycentric interpolation over that face's stored support points.
//
// The polytope is seeded from scratch with support queries along fixed probe
// directions rather than from the GJK simplex, which may be flat or tiny for
// shallow contacts.
//
// References:
//   - Van den Bergen: "Proximity Queries and Penetration Depth Computation
//     on 3D Game Objects" (2001)
package epa

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/mirmik/termin-sub002/gjk"
)

const (
	// MaxIterations caps polytope expansion. On exhaustion the best face
	// found so far is reported rather than an error.
	MaxIterations = 64

	// Tolerance is the convergence threshold: when a support query along
	// the closest face's normal improves its distance by less than this,
	// that face lies on the Minkowski difference boundary.
	Tolerance = 1e-6

	// degenerateEpsilon guards the seed selection against near-zero
	// lengths, areas and volumes.
	degenerateEpsilon = 1e-10
)

// Result describes a resolved penetration.
type Result struct {
	// Depth is the penetration depth, always positive.
	Depth float64

	// Normal is the minimum translation direction, pointing from shape A
	// toward shape B.
	Normal mgl64.Vec3

	// PointA and PointB are the deepest points of A inside B and of B
	// inside A.
	PointA mgl64.Vec3
	PointB mgl64.Vec3
}

// probeDirections are the 14 seed directions: the 6 axis directions plus the
// 8 cube diagonals.
var probeDirections = [14]mgl64.Vec3{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
	{1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {1, -1, -1},
	{-1, 1, 1}, {-1, 1, -1}, {-1, -1, 1}, {-1, -1, -1},
}

// Penetrate computes the penetration depth and direction for two shapes
// already known to intersect. It returns false when no non-degenerate seed
// tetrahedron exists (paper-thin or point-like overlap); callers should then
// report a touching contact with zero depth instead of iterating.
func Penetrate(a, b gjk.Shape) (Result, bool) {
	seed, ok := seedPolytope(a, b)
	if !ok {
		return Result{}, false
	}

	p := acquirePolytope(seed)
	defer releasePolytope(p)

	for i := 0; i < MaxIterations; i++ {
		idx := p.closestFaceIndex()
		if idx < 0 {
			break
		}
		closest := p.faces[idx]

		support := gjk.Support(a, b, closest.normal)
		if support.V.Dot(closest.normal)-closest.distance < Tolerance {
			// The closest face lies on the Minkowski boundary
			return closest.result(), true
		}

		if !p.expand(support, idx) {
			// Support point already on the polytope; cannot refine further
			return closest.result(), true
		}
	}

	// Iteration cap reached: report the best estimate found so far
	idx := p.closestFaceIndex()
	if idx < 0 {
		return Result{}, false
	}
	return p.faces[idx].result(), true
}

// seedPolytope builds a non-degenerate initial tetrahedron in Minkowski
// space by greedy farthest-point selection over the probe supports, the same
// idea quickhull uses for its seed: farthest pair, then farthest from their
// line, then farthest from their plane.
func seedPolytope(a, b gjk.Shape) ([4]gjk.SupportPoint, bool) {
	var seed [4]gjk.SupportPoint

	var buf [len(probeDirections)]gjk.SupportPoint
	candidates := buf[:0]
	for _, dir := range probeDirections {
		sp := gjk.Support(a, b, dir)
		duplicate := false
		for _, c := range candidates {
			if c.V.Sub(sp.V).LenSqr() < degenerateEpsilon {
				duplicate = true
				break
			}
		}
		if !duplicate {
			candidates = append(candidates, sp)
		}
	}
	if len(candidates) < 4 {
		return seed, false
	}

	// Farthest pair
	best := -1.0
	var i0, i1 int
	for i := range candidates {
		for j := i + 1; j < len(candidates); j++ {
			if d := candidates[i].V.Sub(candidates[j].V).LenSqr(); d > best {
				best = d
				i0, i1 = i, j
			}
		}
	}
	if best < degenerateEpsilon {
		return seed, false
	}

	// Farthest from the line
	line := candidates[i1].V.Sub(candidates[i0].V)
	i2 := -1
	best = degenerateEpsilon
	for i := range candidates {
		if i == i0 || i == i1 {
			continue
		}
		if d := line.Cross(candidates[i].V.Sub(candidates[i0].V)).LenSqr(); d > best {
			best = d
			i2 = i
		}
	}
	if i2 < 0 {
		return seed, false
	}

	// Farthest from the plane
	planeNormal := line.Cross(candidates[i2].V.Sub(candidates[i0].V))
	i3 := -1
	best = degenerateEpsilon
	for i := range candidates {
		if i == i0 || i == i1 || i == i2 {
			continue
		}
		if d := planeNormal.Dot(candidates[i].V.Sub(candidates[i0].V)); d > best || -d > best {
			if d < 0 {
				d = -d
			}
			best = d
			i3 = i
		}
	}
	if i3 < 0 {
		return seed, false
	}

	seed[0] = candidates[i0]
	seed[1] = candidates[i1]
	seed[2] = candidates[i2]
	seed[3] = candidates[i3]
	return seed, true
}

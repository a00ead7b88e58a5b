package gjk

import (
	"github.com/go-gl/mathgl/mgl64"
)

// closestToOrigin finds the point of the simplex closest to the origin,
// reduces the simplex to the feature supporting that point (dropping points
// with zero barycentric weight) and returns the closest point with the
// weights of the remaining points. contained is true when a tetrahedron
// encloses the origin.
func closestToOrigin(s *Simplex) (mgl64.Vec3, [4]float64, bool) {
	switch s.Count {
	case 1:
		return s.Points[0].V, [4]float64{1, 0, 0, 0}, false
	case 2:
		v, w := solveSegment(s)
		return v, w, false
	case 3:
		v, w := solveTriangle(s)
		return v, w, false
	case 4:
		return solveTetrahedron(s)
	}
	return mgl64.Vec3{}, [4]float64{}, false
}

// solveSegment reduces a 2-point simplex to the feature of segment AB closest
// to the origin: vertex A, vertex B, or the segment interior.
func solveSegment(s *Simplex) (mgl64.Vec3, [4]float64) {
	a := s.Points[0].V
	b := s.Points[1].V

	ab := b.Sub(a)
	lenSqr := ab.LenSqr()
	if lenSqr < 1e-18 {
		// Coincident endpoints; keep one
		s.Count = 1
		return a, [4]float64{1, 0, 0, 0}
	}

	t := -a.Dot(ab) / lenSqr
	if t <= 0 {
		s.Count = 1
		return a, [4]float64{1, 0, 0, 0}
	}
	if t >= 1 {
		s.Points[0] = s.Points[1]
		s.Count = 1
		return b, [4]float64{1, 0, 0, 0}
	}

	return a.Add(ab.Mul(t)), [4]float64{1 - t, t, 0, 0}
}

// solveTriangle reduces a 3-point simplex via Voronoi region tests: the
// origin is closest to a vertex, an edge, or the triangle interior. Outside
// barycentric coordinates fall through to the edge and vertex cases.
func solveTriangle(s *Simplex) (mgl64.Vec3, [4]float64) {
	a := s.Points[0].V
	b := s.Points[1].V
	c := s.Points[2].V

	ab := b.Sub(a)
	ac := c.Sub(a)

	// Collinear points cannot support a plane; treat as the segment AB
	if ab.Cross(ac).LenSqr() < 1e-18 {
		s.Count = 2
		return solveSegment(s)
	}

	ap := a.Mul(-1)
	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		s.Count = 1
		return a, [4]float64{1, 0, 0, 0}
	}

	bp := b.Mul(-1)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		s.Points[0] = s.Points[1]
		s.Count = 1
		return b, [4]float64{1, 0, 0, 0}
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		t := d1 / (d1 - d3)
		s.Count = 2
		return a.Add(ab.Mul(t)), [4]float64{1 - t, t, 0, 0}
	}

	cp := c.Mul(-1)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		s.Points[0] = s.Points[2]
		s.Count = 1
		return c, [4]float64{1, 0, 0, 0}
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		t := d2 / (d2 - d6)
		s.Points[1] = s.Points[2]
		s.Count = 2
		return a.Add(ac.Mul(t)), [4]float64{1 - t, t, 0, 0}
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		t := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		s.Points[0] = s.Points[1]
		s.Points[1] = s.Points[2]
		s.Count = 2
		return b.Add(c.Sub(b).Mul(t)), [4]float64{1 - t, t, 0, 0}
	}

	// Interior: all three points contribute
	denom := 1.0 / (va + vb + vc)
	u := va * denom
	v := vb * denom
	w := vc * denom
	return a.Mul(u).Add(b.Mul(v)).Add(c.Mul(w)), [4]float64{u, v, w, 0}
}

// tetraFaces lists the four faces of the tetrahedron as vertex index
// triples with the opposite vertex used to orient the face normal outward.
var tetraFaces = [4][4]int{
	{0, 1, 2, 3},
	{0, 2, 3, 1},
	{0, 3, 1, 2},
	{1, 3, 2, 0},
}

// solveTetrahedron tests which faces of the tetrahedron the origin lies
// outside of. If none, the origin is contained and the shapes intersect;
// otherwise the simplex reduces to the closest of the outside faces.
func solveTetrahedron(s *Simplex) (mgl64.Vec3, [4]float64, bool) {
	p := [4]mgl64.Vec3{s.Points[0].V, s.Points[1].V, s.Points[2].V, s.Points[3].V}

	// A flat tetrahedron cannot contain the origin; discard the oldest
	// point and fall back to the most recent triangle.
	volume := p[1].Sub(p[0]).Cross(p[2].Sub(p[0])).Dot(p[3].Sub(p[0]))
	if volume > -1e-18 && volume < 1e-18 {
		s.Points[0] = s.Points[1]
		s.Points[1] = s.Points[2]
		s.Points[2] = s.Points[3]
		s.Count = 3
		v, w := solveTriangle(s)
		return v, w, false
	}

	var best Simplex
	var bestWeights [4]float64
	var bestPoint mgl64.Vec3
	bestDist := -1.0

	for _, face := range tetraFaces {
		ia, ib, ic, iopp := face[0], face[1], face[2], face[3]

		normal := p[ib].Sub(p[ia]).Cross(p[ic].Sub(p[ia]))
		// Orient the face normal away from the opposite vertex
		if normal.Dot(p[iopp].Sub(p[ia])) > 0 {
			normal = normal.Mul(-1)
		}

		// Origin inside this face's halfspace: not a separating face
		if normal.Dot(p[ia]) >= 0 {
			continue
		}

		candidate := Simplex{Count: 3}
		candidate.Points[0] = s.Points[ia]
		candidate.Points[1] = s.Points[ib]
		candidate.Points[2] = s.Points[ic]

		v, w := solveTriangle(&candidate)
		if d := v.LenSqr(); bestDist < 0 || d < bestDist {
			bestDist = d
			best = candidate
			bestWeights = w
			bestPoint = v
		}
	}

	if bestDist < 0 {
		// Origin is inside every face: contained
		return mgl64.Vec3{}, [4]float64{}, true
	}

	*s = best
	return bestPoint, bestWeights, false
}

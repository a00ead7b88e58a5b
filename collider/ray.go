package collider

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mirmik/termin-sub002/gjk"
)

// Ray is a half-line starting at Origin. Direction does not need to be
// normalized; queries normalize it internally.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// Point returns the position at parameter t along the normalized direction.
func (r Ray) Point(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.normalizedDirection().Mul(t))
}

func (r Ray) normalizedDirection() mgl64.Vec3 {
	l := r.Direction.Len()
	if l < 1e-12 {
		return mgl64.Vec3{1, 0, 0}
	}
	return r.Direction.Mul(1.0 / l)
}

// RayHit describes the closest approach between a ray and a shape.
type RayHit struct {
	// RayPoint is the point on the ray, the entry point when the ray
	// intersects the shape.
	RayPoint mgl64.Vec3

	// ShapePoint is the closest point on the shape surface. Equal to
	// RayPoint on intersection.
	ShapePoint mgl64.Vec3

	// Distance between the two points, zero when the ray intersects
	// the shape.
	Distance float64
}

// Intersects reports whether the ray actually enters the shape.
func (h RayHit) Intersects() bool {
	return h.Distance <= 1e-9
}

// ClosestToRay computes the entry point of the ray into the collider, or
// the pair of closest points when the ray misses.
func (c *Collider) ClosestToRay(ray Ray) RayHit {
	switch s := c.Shape.(type) {
	case *Sphere:
		return raySphere(c, s, ray)
	case *Box:
		return rayBox(c, s, ray)
	case *Capsule:
		return rayCapsule(c, s, ray)
	case *ConvexHull:
		return rayHull(c, s, ray)
	}
	return RayHit{Distance: math.Inf(1)}
}

func raySphere(c *Collider, s *Sphere, ray Ray) RayHit {
	r := s.effectiveRadius(c.Transform.Scale)
	dir := ray.normalizedDirection()
	oc := ray.Origin.Sub(c.Center())

	// |oc + t*dir|^2 = r^2, dir is unit so the quadratic is monic
	b := dir.Dot(oc)
	disc := b*b - (oc.LenSqr() - r*r)
	if disc >= 0 {
		sq := math.Sqrt(disc)
		t0, t1 := -b-sq, -b+sq
		if t1 >= 0 {
			t := math.Max(t0, 0)
			p := ray.Origin.Add(dir.Mul(t))
			return RayHit{RayPoint: p, ShapePoint: p}
		}
	}

	t := math.Max(0, dir.Dot(c.Center().Sub(ray.Origin)))
	p := ray.Origin.Add(dir.Mul(t))
	normal, dist := separationNormal(c.Center(), p)
	return RayHit{
		RayPoint:   p,
		ShapePoint: c.Center().Add(normal.Mul(r)),
		Distance:   dist - r,
	}
}

func rayBox(c *Collider, s *Box, ray Ray) RayHit {
	h := s.effectiveHalfExtents(c.Transform.Scale)
	dir := ray.normalizedDirection()

	localOrigin := c.Transform.InverseRotation.Rotate(ray.Origin.Sub(c.Center()))
	localDir := c.Transform.InverseRotation.Rotate(dir)

	bounds := AABB{Min: h.Mul(-1), Max: h}
	if tmin, _, ok := bounds.IntersectRay(Ray{Origin: localOrigin, Direction: localDir}); ok {
		p := ray.Origin.Add(dir.Mul(tmin))
		return RayHit{RayPoint: p, ShapePoint: p}
	}

	// Alternate projections between the ray and the box surface; each
	// step is non-increasing in separation, so a handful of rounds is
	// enough for a good closest-approach estimate.
	t := math.Max(0, dir.Dot(c.Center().Sub(ray.Origin)))
	var onBox mgl64.Vec3
	for i := 0; i < 16; i++ {
		local := localOrigin.Add(localDir.Mul(t))
		clamped := mgl64.Vec3{
			math.Max(-h.X(), math.Min(h.X(), local.X())),
			math.Max(-h.Y(), math.Min(h.Y(), local.Y())),
			math.Max(-h.Z(), math.Min(h.Z(), local.Z())),
		}
		onBox = c.Transform.Rotation.Rotate(clamped).Add(c.Center())
		t = math.Max(0, dir.Dot(onBox.Sub(ray.Origin)))
	}
	p := ray.Origin.Add(dir.Mul(t))
	return RayHit{
		RayPoint:   p,
		ShapePoint: onBox,
		Distance:   p.Sub(onBox).Len(),
	}
}

func rayCapsule(c *Collider, s *Capsule, ray Ray) RayHit {
	r := s.effectiveRadius(c.Transform.Scale)
	dir := ray.normalizedDirection()
	p0, p1 := s.worldSegment(c.Transform)

	if t, ok := rayCapsuleEntry(ray.Origin, dir, p0, p1, r); ok {
		p := ray.Origin.Add(dir.Mul(t))
		return RayHit{RayPoint: p, ShapePoint: p}
	}

	onRay, onAxis := closestPointsRaySegment(ray.Origin, dir, p0, p1)
	normal, dist := separationNormal(onAxis, onRay)
	return RayHit{
		RayPoint:   onRay,
		ShapePoint: onAxis.Add(normal.Mul(r)),
		Distance:   dist - r,
	}
}

// rayCapsuleEntry returns the smallest non-negative ray parameter at which
// the ray enters a capsule with axis p0..p1 and radius r.
func rayCapsuleEntry(origin, dir, p0, p1 mgl64.Vec3, r float64) (float64, bool) {
	axisPoint, _ := closestPointOnSegment(origin, p0, p1)
	if origin.Sub(axisPoint).Len() <= r {
		return 0, true
	}

	best := math.Inf(1)
	found := false

	axis := p1.Sub(p0)
	axisLenSq := axis.LenSqr()
	if axisLenSq > 1e-18 {
		// Infinite cylinder around the axis, keeping only roots whose
		// axial projection lands inside the segment
		u := axis.Mul(1.0 / math.Sqrt(axisLenSq))
		oc := origin.Sub(p0)
		dPerp := dir.Sub(u.Mul(dir.Dot(u)))
		ocPerp := oc.Sub(u.Mul(oc.Dot(u)))

		a := dPerp.LenSqr()
		if a > 1e-18 {
			b := dPerp.Dot(ocPerp)
			cc := ocPerp.LenSqr() - r*r
			disc := b*b - a*cc
			if disc >= 0 {
				sq := math.Sqrt(disc)
				for _, t := range [2]float64{(-b - sq) / a, (-b + sq) / a} {
					if t < 0 || t >= best {
						continue
					}
					axial := origin.Add(dir.Mul(t)).Sub(p0).Dot(axis) / axisLenSq
					if axial >= 0 && axial <= 1 {
						best = t
						found = true
					}
				}
			}
		}
	}

	for _, capCenter := range [2]mgl64.Vec3{p0, p1} {
		oc := origin.Sub(capCenter)
		b := dir.Dot(oc)
		disc := b*b - (oc.LenSqr() - r*r)
		if disc < 0 {
			continue
		}
		sq := math.Sqrt(disc)
		if t := -b - sq; t >= 0 && t < best {
			best = t
			found = true
		}
	}

	return best, found
}

func rayHull(c *Collider, s *ConvexHull, ray Ray) RayHit {
	if len(s.Faces) == 0 {
		return RayHit{Distance: math.Inf(1)}
	}

	dir := ray.normalizedDirection()
	localOrigin := c.Transform.InverseRotation.Rotate(ray.Origin.Sub(c.Center()))
	localDir := c.Transform.InverseRotation.Rotate(dir)
	scale := c.Transform.Scale

	// Clip the ray against every face half-space. The face planes were
	// built from unit-scale vertices, so their normals are warped by the
	// inverse scale to match the scaled geometry. The parameter t is
	// unaffected because rotation and translation preserve it.
	tmin, tmax := 0.0, math.Inf(1)
	inside := true
	for _, f := range s.Faces {
		n := mgl64.Vec3{f.Normal.X() / scale.X(), f.Normal.Y() / scale.Y(), f.Normal.Z() / scale.Z()}
		denom := n.Dot(localDir)
		num := f.Offset - n.Dot(localOrigin)
		if math.Abs(denom) < 1e-12 {
			if num < 0 {
				inside = false
			}
			continue
		}
		t := num / denom
		if denom > 0 {
			if t < tmax {
				tmax = t
			}
		} else {
			if t > tmin {
				tmin = t
			}
		}
	}
	if inside && tmin <= tmax {
		p := ray.Origin.Add(dir.Mul(tmin))
		return RayHit{RayPoint: p, ShapePoint: p}
	}

	// Missed: project back and forth between the ray and the hull, using
	// the pair solver with a point probe for the hull side.
	t := math.Max(0, dir.Dot(c.Center().Sub(ray.Origin)))
	var onHull mgl64.Vec3
	for i := 0; i < 16; i++ {
		p := ray.Origin.Add(dir.Mul(t))
		res := gjk.Distance(pointProbe{p}, c)
		if res.Colliding {
			return RayHit{RayPoint: p, ShapePoint: p}
		}
		onHull = res.PointB
		t = math.Max(0, dir.Dot(onHull.Sub(ray.Origin)))
	}
	p := ray.Origin.Add(dir.Mul(t))
	return RayHit{
		RayPoint:   p,
		ShapePoint: onHull,
		Distance:   p.Sub(onHull).Len(),
	}
}

// pointProbe adapts a single point to the support interface.
type pointProbe struct {
	p mgl64.Vec3
}

func (p pointProbe) Center() mgl64.Vec3 {
	return p.p
}

func (p pointProbe) Support(mgl64.Vec3) mgl64.Vec3 {
	return p.p
}

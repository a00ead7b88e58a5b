package collision

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/mirmik/termin-sub002/collider"
)

// ContactID tags a contact point so a solver can match points across
// frames for warm starting. The current manifolds carry a single point,
// so the id is always zero.
type ContactID uint32

// ContactPoint is one point of a contact manifold.
type ContactPoint struct {
	// Position is the contact location in world space, the midpoint of
	// the two witness points.
	Position mgl64.Vec3

	// LocalA and LocalB are the position expressed in each collider's
	// local frame, stable under rigid motion of the bodies.
	LocalA mgl64.Vec3
	LocalB mgl64.Vec3

	// Penetration is negative and its magnitude is the overlap depth.
	Penetration float64

	ID ContactID

	// Accumulated impulses carried across frames by a solver. The
	// detector always leaves them zero.
	NormalImpulse  float64
	TangentImpulse float64
}

// ContactManifold describes the contact between one overlapping pair.
type ContactManifold struct {
	A *collider.Collider
	B *collider.Collider

	// Normal points from A toward B.
	Normal mgl64.Vec3

	Points     [4]ContactPoint
	PointCount int
}

func buildManifold(a, b *collider.Collider, hit collider.Hit) ContactManifold {
	position := hit.PointA.Add(hit.PointB).Mul(0.5)

	m := ContactManifold{A: a, B: b, Normal: hit.Normal, PointCount: 1}
	m.Points[0] = ContactPoint{
		Position:    position,
		LocalA:      a.Transform.InverseRotation.Rotate(position.Sub(a.Center())),
		LocalB:      b.Transform.InverseRotation.Rotate(position.Sub(b.Center())),
		Penetration: hit.Distance,
	}
	return m
}

// FlatContact and FlatManifold mirror the manifold types with plain
// fixed-size fields only, for handing results across a C or scripting
// boundary without chasing pointers.
type FlatContact struct {
	Position    [3]float64
	Penetration float64
}

type FlatManifold struct {
	EntityA    int64
	EntityB    int64
	Normal     [3]float64
	Points     [4]FlatContact
	PointCount int32
}

// FlattenManifolds copies manifolds into out and returns the number
// written, bounded by the shorter of the two slices.
func FlattenManifolds(manifolds []ContactManifold, out []FlatManifold) int {
	n := len(manifolds)
	if len(out) < n {
		n = len(out)
	}

	for i := 0; i < n; i++ {
		m := &manifolds[i]
		f := &out[i]
		f.EntityA = m.A.Entity
		f.EntityB = m.B.Entity
		f.Normal = [3]float64{m.Normal.X(), m.Normal.Y(), m.Normal.Z()}
		f.PointCount = int32(m.PointCount)
		for j := 0; j < m.PointCount; j++ {
			p := &m.Points[j]
			f.Points[j] = FlatContact{
				Position:    [3]float64{p.Position.X(), p.Position.Y(), p.Position.Z()},
				Penetration: p.Penetration,
			}
		}
	}
	return n
}

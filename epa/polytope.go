package epa

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mirmik/termin-sub002/gjk"
)

const polytopeInitialCapacity = 32

// polytope is the face soup EPA expands. interior is the centroid of the
// seed tetrahedron; it stays inside the polytope as it grows (the polytope
// only ever expands outward) and fixes face orientation for the whole run.
//
// visible, edges and horizon are expansion scratch kept on the struct so a
// pooled polytope reuses their capacity across calls.
type polytope struct {
	faces    []face
	interior mgl64.Vec3

	visible []bool
	edges   []edgeEntry
	horizon []horizonEdge
}

// edgeEntry counts uses of an undirected polytope edge, endpoints normalized
// so a precedes b. Exact float comparison is intentional: shared edges are
// copies of the same support point values.
type edgeEntry struct {
	a, b  mgl64.Vec3
	count int
}

type horizonEdge struct {
	a, b gjk.SupportPoint
}

// polytopePool recycles polytopes between penetration queries so the
// expansion loop does not allocate per colliding pair.
var polytopePool = sync.Pool{
	New: func() interface{} {
		return &polytope{
			faces:   make([]face, 0, polytopeInitialCapacity),
			visible: make([]bool, 0, polytopeInitialCapacity),
			edges:   make([]edgeEntry, 0, polytopeInitialCapacity),
			horizon: make([]horizonEdge, 0, polytopeInitialCapacity),
		}
	},
}

func acquirePolytope(seed [4]gjk.SupportPoint) *polytope {
	p := polytopePool.Get().(*polytope)
	p.reset()

	p.interior = seed[0].V.Add(seed[1].V).Add(seed[2].V).Add(seed[3].V).Mul(0.25)
	p.faces = append(p.faces,
		newFace(seed[0], seed[1], seed[2], p.interior),
		newFace(seed[0], seed[2], seed[3], p.interior),
		newFace(seed[0], seed[3], seed[1], p.interior),
		newFace(seed[1], seed[3], seed[2], p.interior),
	)
	return p
}

func releasePolytope(p *polytope) {
	polytopePool.Put(p)
}

// reset clears all slices in place so capacity carries over from the pool.
func (p *polytope) reset() {
	p.faces = p.faces[:0]
	p.visible = p.visible[:0]
	p.edges = p.edges[:0]
	p.horizon = p.horizon[:0]
}

// closestFaceIndex returns the index of the face closest to the origin,
// or -1 when no usable face remains.
func (p *polytope) closestFaceIndex() int {
	best := -1
	bestDistance := math.Inf(1)
	for i := range p.faces {
		if p.faces[i].distance < bestDistance {
			bestDistance = p.faces[i].distance
			best = i
		}
	}
	return best
}

func lessVec3(a, b mgl64.Vec3) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	if a[1] != b[1] {
		return a[1] < b[1]
	}
	return a[2] < b[2]
}

func (p *polytope) countEdge(a, b mgl64.Vec3) {
	if lessVec3(b, a) {
		a, b = b, a
	}
	for i := range p.edges {
		if p.edges[i].a == a && p.edges[i].b == b {
			p.edges[i].count++
			return
		}
	}
	p.edges = append(p.edges, edgeEntry{a: a, b: b, count: 1})
}

func (p *polytope) edgeUses(a, b mgl64.Vec3) int {
	if lessVec3(b, a) {
		a, b = b, a
	}
	for i := range p.edges {
		if p.edges[i].a == a && p.edges[i].b == b {
			return p.edges[i].count
		}
	}
	return 0
}

// expand grows the polytope with a new support point: every face visible
// from the point is removed and replaced by a fan of faces over the horizon,
// the boundary between visible and hidden faces. Returns false when the
// point is not outside any face, i.e. the polytope cannot grow.
func (p *polytope) expand(support gjk.SupportPoint, closestIndex int) bool {
	p.visible = p.visible[:0]
	visibleCount := 0
	for i := range p.faces {
		f := &p.faces[i]
		// Degenerate filler faces (infinite distance) are always replaceable.
		vis := math.IsInf(f.distance, 1) ||
			support.V.Sub(f.points[0].V).Dot(f.normal) > 1e-12
		p.visible = append(p.visible, vis)
		if vis {
			visibleCount++
		}
	}

	if visibleCount == 0 {
		return false
	}

	// Never delete the entire surface: if the point claims to see every
	// face, numerical trouble is afoot; replace only the closest face.
	if visibleCount == len(p.faces) {
		for i := range p.visible {
			p.visible[i] = i == closestIndex
		}
	}

	p.edges = p.edges[:0]
	for i := range p.faces {
		if !p.visible[i] {
			continue
		}
		f := &p.faces[i]
		for e := 0; e < 3; e++ {
			p.countEdge(f.points[e].V, f.points[(e+1)%3].V)
		}
	}

	// Horizon: edges used by exactly one visible face, kept in the winding
	// order of that face.
	p.horizon = p.horizon[:0]
	for i := range p.faces {
		if !p.visible[i] {
			continue
		}
		f := &p.faces[i]
		for e := 0; e < 3; e++ {
			a, b := f.points[e], f.points[(e+1)%3]
			if p.edgeUses(a.V, b.V) == 1 {
				p.horizon = append(p.horizon, horizonEdge{a, b})
			}
		}
	}

	kept := p.faces[:0]
	for i := range p.faces {
		if !p.visible[i] {
			kept = append(kept, p.faces[i])
		}
	}
	p.faces = kept

	for _, edge := range p.horizon {
		p.faces = append(p.faces, newFace(edge.a, edge.b, support, p.interior))
	}

	return len(p.faces) > 0
}

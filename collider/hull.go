package collider

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// quickhullMaxIterations caps hull expansion as a safety valve against
	// numerical cycling on near-degenerate clouds.
	quickhullMaxIterations = 1000

	// quickhullEpsilon is the margin below which a point counts as lying on
	// a face plane rather than outside it.
	quickhullEpsilon = 1e-10
)

// HullFace is one triangle of a convex hull, wound counter-clockwise when
// viewed from outside.
type HullFace struct {
	// V holds indices into the hull's Vertices list.
	V [3]int
	// Normal is the outward unit normal of the face plane.
	Normal mgl64.Vec3
	// Offset is the plane constant: Normal·p = Offset for points p on the face.
	Offset float64
}

// ConvexHull is a convex polytope built once from a point cloud via quickhull.
// It stores the hull vertices in local space, the triangulated faces and a
// deduplicated edge list usable for wireframe rendering.
//
// A hull built from a degenerate cloud (fewer than four points, or all points
// coplanar) has no faces; such a collider is still safe to use but reports no
// contacts and a point-sized AABB.
type ConvexHull struct {
	Vertices []mgl64.Vec3
	Faces    []HullFace
	Edges    [][2]int
}

func (h *ConvexHull) isShape() {}

func (h *ConvexHull) support(direction, scale mgl64.Vec3) mgl64.Vec3 {
	if len(h.Vertices) == 0 {
		return mgl64.Vec3{}
	}

	// Linear scan over all vertices. O(n) per call, acceptable for the
	// small hulls authored for gameplay colliders.
	best := scaled(h.Vertices[0], scale)
	bestDot := best.Dot(direction)
	for _, v := range h.Vertices[1:] {
		s := scaled(v, scale)
		if d := s.Dot(direction); d > bestDot {
			bestDot = d
			best = s
		}
	}
	return best
}

func (h *ConvexHull) computeAABB(transform Transform) AABB {
	if len(h.Vertices) == 0 {
		// Degenerate hull collapses to a point at the pose position
		return AABB{Min: transform.Position, Max: transform.Position}
	}

	world := transform.Rotation.Rotate(scaled(h.Vertices[0], transform.Scale)).Add(transform.Position)
	min := world
	max := world

	for _, v := range h.Vertices[1:] {
		world = transform.Rotation.Rotate(scaled(v, transform.Scale)).Add(transform.Position)

		min[0] = math.Min(min[0], world[0])
		min[1] = math.Min(min[1], world[1])
		min[2] = math.Min(min[2], world[2])

		max[0] = math.Max(max[0], world[0])
		max[1] = math.Max(max[1], world[1])
		max[2] = math.Max(max[2], world[2])
	}

	return AABB{Min: min, Max: max}
}

func scaled(v, scale mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X() * scale.X(), v.Y() * scale.Y(), v.Z() * scale.Z()}
}

// qhFace is a face under construction, indexing into the input cloud.
type qhFace struct {
	v       [3]int
	normal  mgl64.Vec3
	offset  float64
	outside []int
	removed bool
}

func (f *qhFace) distance(p mgl64.Vec3) float64 {
	return f.normal.Dot(p) - f.offset
}

// NewConvexHull builds a convex hull from an arbitrary point cloud.
//
// Seeding follows the classic quickhull recipe: six axis-extreme points, the
// farthest pair among them, the point farthest from that line, then the point
// farthest from that plane form the initial tetrahedron. Remaining points are
// assigned to the outside set of the face they are most above; the hull then
// grows one eye point at a time, replacing the faces visible from the eye
// with a fan over the horizon edges.
func NewConvexHull(points []mgl64.Vec3) *ConvexHull {
	if len(points) < 4 {
		return &ConvexHull{}
	}

	i0, i1, i2, i3, ok := seedTetrahedron(points)
	if !ok {
		return &ConvexHull{}
	}

	// A point interior to the seed tetrahedron stays interior to every later
	// polytope, so it fixes outward orientation for all faces.
	interior := points[i0].Add(points[i1]).Add(points[i2]).Add(points[i3]).Mul(0.25)

	faces := []*qhFace{
		newQhFace(points, i0, i1, i2, interior),
		newQhFace(points, i0, i2, i3, interior),
		newQhFace(points, i0, i3, i1, interior),
		newQhFace(points, i1, i3, i2, interior),
	}

	// Assign every remaining point to the face it is above by the largest
	// margin; points inside the tetrahedron are dropped.
	seed := map[int]bool{i0: true, i1: true, i2: true, i3: true}
	for i := range points {
		if seed[i] {
			continue
		}
		assignToFace(points, faces, i)
	}

	for iter := 0; iter < quickhullMaxIterations; iter++ {
		eyeFace, eye := farthestOutsidePoint(points, faces)
		if eyeFace == nil {
			break
		}

		// Faces visible from the eye point get replaced by a fan of new
		// faces over the horizon.
		var visible []*qhFace
		for _, f := range faces {
			if f.removed {
				continue
			}
			if f.distance(points[eye]) > quickhullEpsilon {
				f.removed = true
				visible = append(visible, f)
			}
		}

		horizon := horizonEdges(visible)

		var orphans []int
		for _, f := range visible {
			for _, p := range f.outside {
				if p != eye {
					orphans = append(orphans, p)
				}
			}
		}

		alive := faces[:0]
		for _, f := range faces {
			if !f.removed {
				alive = append(alive, f)
			}
		}
		faces = alive

		for _, edge := range horizon {
			nf := newQhFace(points, edge[0], edge[1], eye, interior)
			faces = append(faces, nf)
		}

		// Redistribute orphaned outside points among the new faces
		newFaces := faces[len(faces)-len(horizon):]
		for _, p := range orphans {
			assignToFace(points, newFaces, p)
		}
	}

	return compactHull(points, faces)
}

// seedTetrahedron picks four non-degenerate seed points: the farthest pair of
// axis extremes, the point farthest from their line, and the point farthest
// from their plane. The last two vertices are swapped when the signed volume
// comes out positive so face winding is consistent for the seed faces.
func seedTetrahedron(points []mgl64.Vec3) (int, int, int, int, bool) {
	// Six axis-extreme points
	var extremes [6]int
	for i, p := range points {
		for axis := 0; axis < 3; axis++ {
			if p[axis] < points[extremes[axis*2]][axis] {
				extremes[axis*2] = i
			}
			if p[axis] > points[extremes[axis*2+1]][axis] {
				extremes[axis*2+1] = i
			}
		}
	}

	// Farthest pair among the extremes
	i0, i1 := extremes[0], extremes[1]
	bestDist := -1.0
	for a := 0; a < 6; a++ {
		for b := a + 1; b < 6; b++ {
			d := points[extremes[a]].Sub(points[extremes[b]]).LenSqr()
			if d > bestDist {
				bestDist = d
				i0, i1 = extremes[a], extremes[b]
			}
		}
	}
	if bestDist < quickhullEpsilon {
		return 0, 0, 0, 0, false
	}

	// Farthest point from the line i0-i1
	line := points[i1].Sub(points[i0])
	i2 := -1
	bestDist = quickhullEpsilon
	for i, p := range points {
		if i == i0 || i == i1 {
			continue
		}
		d := line.Cross(p.Sub(points[i0])).LenSqr()
		if d > bestDist {
			bestDist = d
			i2 = i
		}
	}
	if i2 < 0 {
		return 0, 0, 0, 0, false
	}

	// Farthest point from the plane i0-i1-i2
	planeNormal := line.Cross(points[i2].Sub(points[i0]))
	i3 := -1
	bestVolume := quickhullEpsilon
	signedVolume := 0.0
	for i, p := range points {
		if i == i0 || i == i1 || i == i2 {
			continue
		}
		v := planeNormal.Dot(p.Sub(points[i0]))
		if math.Abs(v) > bestVolume {
			bestVolume = math.Abs(v)
			signedVolume = v
			i3 = i
		}
	}
	if i3 < 0 {
		return 0, 0, 0, 0, false
	}

	if signedVolume > 0 {
		i1, i2 = i2, i1
	}

	return i0, i1, i2, i3, true
}

func newQhFace(points []mgl64.Vec3, a, b, c int, interior mgl64.Vec3) *qhFace {
	pa, pb, pc := points[a], points[b], points[c]
	normal := pb.Sub(pa).Cross(pc.Sub(pa))

	length := normal.Len()
	if length < 1e-12 {
		// Zero-area face; keep it inert so nothing is ever "above" it
		return &qhFace{v: [3]int{a, b, c}, normal: mgl64.Vec3{}, offset: math.Inf(1)}
	}
	normal = normal.Mul(1.0 / length)

	// Orient outward: flip the normal, and the winding with it, when it
	// points toward the interior reference point.
	if normal.Dot(interior.Sub(pa)) > 0 {
		normal = normal.Mul(-1)
		b, c = c, b
	}

	return &qhFace{
		v:      [3]int{a, b, c},
		normal: normal,
		offset: normal.Dot(pa),
	}
}

func assignToFace(points []mgl64.Vec3, faces []*qhFace, p int) {
	var best *qhFace
	bestDist := quickhullEpsilon
	for _, f := range faces {
		if f.removed {
			continue
		}
		if d := f.distance(points[p]); d > bestDist {
			bestDist = d
			best = f
		}
	}
	if best != nil {
		best.outside = append(best.outside, p)
	}
}

// farthestOutsidePoint picks the face whose single farthest outside point is
// globally farthest, and returns that point as the next eye.
func farthestOutsidePoint(points []mgl64.Vec3, faces []*qhFace) (*qhFace, int) {
	var bestFace *qhFace
	bestPoint := -1
	bestDist := 0.0

	for _, f := range faces {
		if f.removed || len(f.outside) == 0 {
			continue
		}
		for _, p := range f.outside {
			if d := f.distance(points[p]); d > bestDist {
				bestDist = d
				bestFace = f
				bestPoint = p
			}
		}
	}

	return bestFace, bestPoint
}

// horizonEdges returns the boundary edges of the visible face set, keeping
// the winding order of the visible face each edge came from. An edge is on
// the horizon when its reverse does not appear in any other visible face.
func horizonEdges(visible []*qhFace) [][2]int {
	count := make(map[[2]int]int)
	for _, f := range visible {
		for i := 0; i < 3; i++ {
			a, b := f.v[i], f.v[(i+1)%3]
			key := [2]int{a, b}
			if a > b {
				key = [2]int{b, a}
			}
			count[key]++
		}
	}

	var horizon [][2]int
	for _, f := range visible {
		for i := 0; i < 3; i++ {
			a, b := f.v[i], f.v[(i+1)%3]
			key := [2]int{a, b}
			if a > b {
				key = [2]int{b, a}
			}
			if count[key] == 1 {
				horizon = append(horizon, [2]int{a, b})
			}
		}
	}
	return horizon
}

// compactHull rewrites cloud indices into a dense vertex list and derives the
// deduplicated edge set.
func compactHull(points []mgl64.Vec3, faces []*qhFace) *ConvexHull {
	hull := &ConvexHull{}
	remap := make(map[int]int)

	for _, f := range faces {
		if f.removed || math.IsInf(f.offset, 1) {
			continue
		}

		var face HullFace
		for i, idx := range f.v {
			compacted, ok := remap[idx]
			if !ok {
				compacted = len(hull.Vertices)
				remap[idx] = compacted
				hull.Vertices = append(hull.Vertices, points[idx])
			}
			face.V[i] = compacted
		}
		face.Normal = f.normal
		face.Offset = f.offset
		hull.Faces = append(hull.Faces, face)
	}

	if len(hull.Faces) == 0 {
		return &ConvexHull{}
	}

	seen := make(map[[2]int]bool)
	for _, face := range hull.Faces {
		for i := 0; i < 3; i++ {
			a, b := face.V[i], face.V[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			key := [2]int{a, b}
			if !seen[key] {
				seen[key] = true
				hull.Edges = append(hull.Edges, [2]int{a, b})
			}
		}
	}

	return hull
}

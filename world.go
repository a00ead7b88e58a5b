// Package collision tracks a set of colliders in a dynamic bounding volume
// hierarchy and runs narrow-phase tests over the candidate pairs the
// hierarchy reports. It produces contact manifolds for overlapping pairs
// and answers ray and region queries against the whole set.
package collision

import (
	"github.com/mirmik/termin-sub002/bvh"
	"github.com/mirmik/termin-sub002/collider"
)

// Handle identifies a collider inside a World. Handles are generation
// checked: after the collider is removed the handle goes stale and every
// operation taking it becomes a no-op. The zero Handle is always stale.
type Handle struct {
	index      int32
	generation uint32
}

type slot struct {
	collider   *collider.Collider
	generation uint32
	proxy      int32
	occupied   bool
}

// World owns the broad-phase tree and the collider slot arena.
// It is not safe for concurrent mutation; interleave queries and
// mutations from a single goroutine or guard the World externally.
type World struct {
	tree  *bvh.Tree
	slots []slot
	free  []int32
}

func NewWorld() *World {
	return &World{tree: bvh.NewTree()}
}

// Count returns the number of live colliders.
func (w *World) Count() int {
	return w.tree.Count()
}

// Add registers the collider and returns its handle. The collider stays
// owned by the caller; pose changes must go through UpdatePose or be
// followed by UpdateAll so the broad phase sees them.
func (w *World) Add(c *collider.Collider) Handle {
	var index int32
	if n := len(w.free); n > 0 {
		index = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		index = int32(len(w.slots))
		w.slots = append(w.slots, slot{})
	}

	s := &w.slots[index]
	s.collider = c
	s.occupied = true
	if s.generation == 0 {
		s.generation = 1
	}
	s.proxy = w.tree.Insert(index, c.AABB())

	return Handle{index: index, generation: s.generation}
}

func (w *World) lookup(h Handle) *slot {
	if h.index < 0 || int(h.index) >= len(w.slots) {
		return nil
	}
	s := &w.slots[h.index]
	if !s.occupied || s.generation != h.generation {
		return nil
	}
	return s
}

// Get returns the collider for a handle, or nil when the handle is stale.
func (w *World) Get(h Handle) *collider.Collider {
	s := w.lookup(h)
	if s == nil {
		return nil
	}
	return s.collider
}

// Remove deletes the collider from the world. Removing through a stale
// handle does nothing and reports false.
func (w *World) Remove(h Handle) bool {
	s := w.lookup(h)
	if s == nil {
		return false
	}

	w.tree.Remove(s.proxy)
	s.collider = nil
	s.occupied = false
	s.generation++
	w.free = append(w.free, h.index)
	return true
}

// UpdatePose moves the collider to a new transform and refreshes its
// broad-phase proxy. It reports false for stale handles.
func (w *World) UpdatePose(h Handle, transform collider.Transform) bool {
	s := w.lookup(h)
	if s == nil {
		return false
	}

	s.collider.SetTransform(transform)
	w.tree.Update(s.proxy, s.collider.AABB())
	return true
}

// UpdateAll recomputes every collider's bounds and refreshes the proxies
// that moved. Use it after mutating collider transforms directly.
func (w *World) UpdateAll() {
	for i := range w.slots {
		s := &w.slots[i]
		if !s.occupied {
			continue
		}
		s.collider.UpdateAABB()
		w.tree.Update(s.proxy, s.collider.AABB())
	}
}

// QueryAABB calls fn for every collider whose fattened bounds overlap
// the region.
func (w *World) QueryAABB(region collider.AABB, fn func(h Handle, c *collider.Collider)) {
	w.tree.QueryAABB(region, func(data int32) {
		s := &w.slots[data]
		fn(Handle{index: data, generation: s.generation}, s.collider)
	})
}

// DetectContacts runs the narrow phase over every candidate pair from the
// broad phase and returns one manifold per overlapping pair. Pair order
// inside a manifold follows the broad-phase ordering; the normal always
// points from A toward B.
func (w *World) DetectContacts() []ContactManifold {
	var manifolds []ContactManifold
	w.tree.QueryAllPairs(func(dataA, dataB int32) {
		a := w.slots[dataA].collider
		b := w.slots[dataB].collider
		hit := a.ClosestToCollider(b)
		if !hit.Colliding() {
			return
		}
		manifolds = append(manifolds, buildManifold(a, b, hit))
	})
	return manifolds
}

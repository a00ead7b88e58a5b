// Package bvh provides a dynamic bounding volume hierarchy used as the broad
// phase of the collision world.
//
// The tree stores fattened AABBs over opaque int32 payloads. Leaf bounds are
// grown by a fixed margin on insertion so that small per-frame motions keep
// the stored bounds valid and never touch the tree structure; Update is a
// no-op while the new tight bounds stay inside the stored fat bounds.
//
// The tree is kept balanced with AVL-style rotations: after every structural
// change the heights of any node's two children differ by at most one.
// Surface area is the cost heuristic for choosing insertion points, and a
// branch-and-bound descent prunes subtrees that cannot improve on the best
// sibling found so far.
package bvh

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mirmik/termin-sub002/collider"
)

const (
	// NullNode marks an absent parent or child link.
	NullNode int32 = -1

	// Margin is the fixed fattening applied to leaf bounds, in world units.
	Margin = 0.1
)

type node struct {
	bounds collider.AABB

	// parent doubles as the next-free index while the node sits on the
	// free list.
	parent int32
	left   int32
	right  int32

	// height is 0 for leaves and -1 for free nodes.
	height int32

	data int32
}

func (n *node) isLeaf() bool {
	return n.left == NullNode
}

// Tree is a dynamic AABB tree. It is not safe for concurrent use; one
// simulation thread owns each tree.
type Tree struct {
	nodes     []node
	root      int32
	freeList  int32
	leafCount int
}

// NewTree creates an empty tree
func NewTree() *Tree {
	return &Tree{root: NullNode, freeList: NullNode}
}

// Empty reports whether the tree holds no leaves
func (t *Tree) Empty() bool {
	return t.root == NullNode
}

// Count returns the number of leaves
func (t *Tree) Count() int {
	return t.leafCount
}

// Height returns the height of the root, or -1 for an empty tree
func (t *Tree) Height() int {
	if t.root == NullNode {
		return -1
	}
	return int(t.nodes[t.root].height)
}

func (t *Tree) allocNode() int32 {
	if t.freeList == NullNode {
		t.nodes = append(t.nodes, node{})
		return int32(len(t.nodes) - 1)
	}
	id := t.freeList
	t.freeList = t.nodes[id].parent
	return id
}

func (t *Tree) freeNode(id int32) {
	t.nodes[id] = node{parent: t.freeList, height: -1}
	t.freeList = id
}

// Insert adds a leaf for the given payload, fattening the bounds by Margin,
// and returns the leaf's node id for later Remove/Update calls.
func (t *Tree) Insert(data int32, bounds collider.AABB) int32 {
	leaf := t.allocNode()
	t.nodes[leaf] = node{
		bounds: bounds.Fattened(Margin),
		parent: NullNode,
		left:   NullNode,
		right:  NullNode,
		height: 0,
		data:   data,
	}
	t.insertLeaf(leaf)
	t.leafCount++
	return leaf
}

// Remove deletes a leaf previously returned by Insert. Removing an id that
// is out of range or already freed is a silent no-op.
func (t *Tree) Remove(id int32) {
	if id < 0 || int(id) >= len(t.nodes) {
		return
	}
	if t.nodes[id].height != 0 || !t.nodes[id].isLeaf() {
		return
	}
	t.removeLeaf(id)
	t.freeNode(id)
	t.leafCount--
}

// Update refits a leaf to new tight bounds. When the stored fat bounds still
// fully contain the new bounds it returns false and leaves the tree
// untouched; otherwise the leaf is removed and reinserted with freshly
// fattened bounds.
func (t *Tree) Update(id int32, bounds collider.AABB) bool {
	if id < 0 || int(id) >= len(t.nodes) || t.nodes[id].height != 0 {
		return false
	}

	if t.nodes[id].bounds.Contains(bounds) {
		return false
	}

	t.removeLeaf(id)
	t.nodes[id].bounds = bounds.Fattened(Margin)
	t.insertLeaf(id)
	return true
}

// Data returns the payload stored at a leaf
func (t *Tree) Data(id int32) int32 {
	return t.nodes[id].data
}

// bestSibling finds the leaf or internal node that minimizes the total
// surface-area cost of pairing it with the new bounds. The descent carries
// the inherited cost of enlarging each ancestor and prunes any subtree whose
// lower bound (leaf area plus inherited cost) cannot beat the current best.
func (t *Tree) bestSibling(bounds collider.AABB) int32 {
	leafArea := bounds.SurfaceArea()

	best := t.root
	bestCost := bounds.Merged(t.nodes[t.root].bounds).SurfaceArea()

	type candidate struct {
		index     int32
		inherited float64
	}
	stack := make([]candidate, 0, 64)
	stack = append(stack, candidate{t.root, 0})

	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[c.index]
		direct := bounds.Merged(n.bounds).SurfaceArea()
		cost := direct + c.inherited
		if cost < bestCost {
			bestCost = cost
			best = c.index
		}

		if n.isLeaf() {
			continue
		}

		inherited := c.inherited + direct - n.bounds.SurfaceArea()
		if leafArea+inherited < bestCost {
			stack = append(stack,
				candidate{n.left, inherited},
				candidate{n.right, inherited},
			)
		}
	}

	return best
}

func (t *Tree) insertLeaf(leaf int32) {
	if t.root == NullNode {
		t.root = leaf
		t.nodes[leaf].parent = NullNode
		return
	}

	leafBounds := t.nodes[leaf].bounds
	sibling := t.bestSibling(leafBounds)

	// Splice a new parent between the sibling and its old parent
	oldParent := t.nodes[sibling].parent
	newParent := t.allocNode()
	t.nodes[newParent] = node{
		bounds: leafBounds.Merged(t.nodes[sibling].bounds),
		parent: oldParent,
		left:   sibling,
		right:  leaf,
		height: t.nodes[sibling].height + 1,
		data:   -1,
	}
	t.nodes[sibling].parent = newParent
	t.nodes[leaf].parent = newParent

	if oldParent == NullNode {
		t.root = newParent
	} else if t.nodes[oldParent].left == sibling {
		t.nodes[oldParent].left = newParent
	} else {
		t.nodes[oldParent].right = newParent
	}

	t.refitUpward(newParent)
}

func (t *Tree) removeLeaf(leaf int32) {
	if leaf == t.root {
		t.root = NullNode
		return
	}

	parent := t.nodes[leaf].parent
	grandParent := t.nodes[parent].parent

	sibling := t.nodes[parent].left
	if sibling == leaf {
		sibling = t.nodes[parent].right
	}

	// The sibling takes the parent's place in the grandparent
	if grandParent == NullNode {
		t.root = sibling
		t.nodes[sibling].parent = NullNode
	} else {
		if t.nodes[grandParent].left == parent {
			t.nodes[grandParent].left = sibling
		} else {
			t.nodes[grandParent].right = sibling
		}
		t.nodes[sibling].parent = grandParent
		t.refitUpward(grandParent)
	}

	t.freeNode(parent)
}

// refitUpward walks from a node to the root, rebalancing and recomputing
// bounds and heights of every ancestor.
func (t *Tree) refitUpward(index int32) {
	for index != NullNode {
		index = t.balance(index)

		n := &t.nodes[index]
		left := n.left
		right := n.right
		n.height = 1 + maxInt32(t.nodes[left].height, t.nodes[right].height)
		n.bounds = t.nodes[left].bounds.Merged(t.nodes[right].bounds)

		index = n.parent
	}
}

func maxInt32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// QueryAABB calls fn with the payload of every leaf whose bounds overlap the
// query box.
func (t *Tree) QueryAABB(bounds collider.AABB, fn func(data int32)) {
	if t.root == NullNode {
		return
	}

	stack := make([]int32, 0, 64)
	stack = append(stack, t.root)
	for len(stack) > 0 {
		index := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[index]
		if !n.bounds.Overlaps(bounds) {
			continue
		}

		if n.isLeaf() {
			fn(n.data)
		} else {
			stack = append(stack, n.left, n.right)
		}
	}
}

// QueryRay calls fn with the payload of every leaf whose bounds the ray
// passes through, along with the entry and exit parameters of the slab test
// against that leaf's fat bounds.
func (t *Tree) QueryRay(ray collider.Ray, fn func(data int32, tmin, tmax float64)) {
	if t.root == NullNode {
		return
	}

	stack := make([]int32, 0, 64)
	stack = append(stack, t.root)
	for len(stack) > 0 {
		index := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[index]
		tmin, tmax, ok := n.bounds.IntersectRay(ray)
		if !ok {
			continue
		}

		if n.isLeaf() {
			fn(n.data, tmin, tmax)
		} else {
			stack = append(stack, n.left, n.right)
		}
	}
}

// QueryAllPairs calls fn exactly once for every pair of leaves with
// overlapping bounds. Each pair is emitted in a deterministic order, sorting
// the two leaves by the center of their stored bounds (node index breaks
// exact ties), so (a, b) and (b, a) are never both reported.
func (t *Tree) QueryAllPairs(fn func(dataA, dataB int32)) {
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.height != 0 || !n.isLeaf() {
			continue
		}
		leaf := int32(i)

		t.queryLeafPairs(leaf, fn)
	}
}

func (t *Tree) queryLeafPairs(leaf int32, fn func(dataA, dataB int32)) {
	bounds := t.nodes[leaf].bounds
	center := bounds.Center()

	stack := make([]int32, 0, 64)
	stack = append(stack, t.root)
	for len(stack) > 0 {
		index := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[index]
		if !n.bounds.Overlaps(bounds) {
			continue
		}

		if !n.isLeaf() {
			stack = append(stack, n.left, n.right)
			continue
		}
		if index == leaf {
			continue
		}

		otherCenter := n.bounds.Center()
		if lessVec3(center, otherCenter) || (center == otherCenter && leaf < index) {
			fn(t.nodes[leaf].data, n.data)
		}
	}
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

// Validate checks the structural invariants of the tree: parent links,
// bounds containment, and the AVL balance condition. It returns the first
// violation found, or nil.
func (t *Tree) Validate() error {
	if t.root == NullNode {
		return nil
	}
	if t.nodes[t.root].parent != NullNode {
		return fmt.Errorf("root %d has parent %d", t.root, t.nodes[t.root].parent)
	}
	_, err := t.validateNode(t.root)
	return err
}

func (t *Tree) validateNode(index int32) (int32, error) {
	n := &t.nodes[index]

	if n.isLeaf() {
		if n.right != NullNode {
			return 0, fmt.Errorf("leaf %d has a right child", index)
		}
		if n.height != 0 {
			return 0, fmt.Errorf("leaf %d has height %d", index, n.height)
		}
		return 0, nil
	}

	left, right := n.left, n.right
	if t.nodes[left].parent != index {
		return 0, fmt.Errorf("node %d: left child %d has parent %d", index, left, t.nodes[left].parent)
	}
	if t.nodes[right].parent != index {
		return 0, fmt.Errorf("node %d: right child %d has parent %d", index, right, t.nodes[right].parent)
	}

	merged := t.nodes[left].bounds.Merged(t.nodes[right].bounds)
	if !aabbEqual(n.bounds, merged) {
		return 0, fmt.Errorf("node %d: bounds differ from merged child bounds", index)
	}

	leftHeight, err := t.validateNode(left)
	if err != nil {
		return 0, err
	}
	rightHeight, err := t.validateNode(right)
	if err != nil {
		return 0, err
	}

	balance := leftHeight - rightHeight
	if balance < -1 || balance > 1 {
		return 0, fmt.Errorf("node %d: children heights %d and %d violate balance", index, leftHeight, rightHeight)
	}

	height := 1 + maxInt32(leftHeight, rightHeight)
	if n.height != height {
		return 0, fmt.Errorf("node %d: stored height %d, actual %d", index, n.height, height)
	}
	return height, nil
}

func aabbEqual(a, b collider.AABB) bool {
	const eps = 1e-12
	return vecAlmostEqual(a.Min, b.Min, eps) && vecAlmostEqual(a.Max, b.Max, eps)
}

func vecAlmostEqual(a, b mgl64.Vec3, eps float64) bool {
	return math.Abs(a[0]-b[0]) < eps && math.Abs(a[1]-b[1]) < eps && math.Abs(a[2]-b[2]) < eps
}

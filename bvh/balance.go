package bvh

// balance performs at most one AVL rotation at index and returns the root of
// the rebalanced subtree. There are four cases: the right or left child is
// promoted, and within each the taller grandchild determines which side it
// keeps. Bounds and heights of the affected nodes are recomputed; ancestors
// are left to the caller's upward walk.
func (t *Tree) balance(index int32) int32 {
	a := &t.nodes[index]
	if a.isLeaf() || a.height < 2 {
		return index
	}

	iB := a.left
	iC := a.right
	diff := t.nodes[iC].height - t.nodes[iB].height

	if diff > 1 {
		return t.rotateUp(index, iC, iB)
	}
	if diff < -1 {
		return t.rotateUp(index, iB, iC)
	}
	return index
}

// rotateUp promotes child into the place of parent; keep is the parent's
// other child. The shorter grandchild of the promoted node is reattached to
// the old parent.
func (t *Tree) rotateUp(parent, child, keep int32) int32 {
	iF := t.nodes[child].left
	iG := t.nodes[child].right

	// child takes parent's position in the tree
	t.nodes[child].left = parent
	t.nodes[child].parent = t.nodes[parent].parent
	t.nodes[parent].parent = child

	grand := t.nodes[child].parent
	if grand == NullNode {
		t.root = child
	} else if t.nodes[grand].left == parent {
		t.nodes[grand].left = child
	} else {
		t.nodes[grand].right = child
	}

	// Keep the taller grandchild under the promoted node
	tall, short := iF, iG
	if t.nodes[iG].height > t.nodes[iF].height {
		tall, short = iG, iF
	}

	t.nodes[child].right = tall
	if t.nodes[parent].left == child {
		t.nodes[parent].left = short
	} else {
		t.nodes[parent].right = short
	}
	t.nodes[short].parent = parent

	t.nodes[parent].bounds = t.nodes[keep].bounds.Merged(t.nodes[short].bounds)
	t.nodes[child].bounds = t.nodes[parent].bounds.Merged(t.nodes[tall].bounds)

	t.nodes[parent].height = 1 + maxInt32(t.nodes[keep].height, t.nodes[short].height)
	t.nodes[child].height = 1 + maxInt32(t.nodes[parent].height, t.nodes[tall].height)

	return child
}

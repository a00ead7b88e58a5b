// Package collider provides the convex shape variants used by the collision
// core, their support functions, shape-specific analytic pair tests and ray
// queries, and the quickhull construction of convex hull shapes.
//
// Colliders are owned by the entity layer; the collision world holds
// non-owning references and is told about pose changes through its own
// update entry points.
package collider

import "github.com/go-gl/mathgl/mgl64"

// Collider binds a shape variant to a pose in the world.
// It is mutable in place: the entity layer updates Transform as the owning
// entity moves and then asks the collision world to refresh its bounds.
type Collider struct {
	Shape     Shape
	Transform Transform

	// Entity is an opaque identifier assigned by the owning entity layer.
	// The collision core never interprets it; it is carried into flattened
	// manifolds so an embedding host can map contacts back to its objects.
	Entity int64

	aabb AABB
}

// NewCollider creates a collider from a shape and a transform.
// Missing transform fields (rotation, inverse rotation, scale) are filled
// with their identity values.
func NewCollider(shape Shape, transform Transform) *Collider {
	c := &Collider{
		Shape:     shape,
		Transform: transform.normalized(),
	}
	c.UpdateAABB()
	return c
}

// Center returns the world-space center of the collider
func (c *Collider) Center() mgl64.Vec3 {
	return c.Transform.Position
}

// SetTransform replaces the pose and refreshes the cached AABB
func (c *Collider) SetTransform(transform Transform) {
	c.Transform = transform.normalized()
	c.UpdateAABB()
}

// UpdateAABB recomputes the cached bounds from the current pose.
// Call it after mutating Transform in place.
func (c *Collider) UpdateAABB() {
	c.aabb = c.Shape.computeAABB(c.Transform)
}

// AABB returns the bounds cached by the last UpdateAABB call
func (c *Collider) AABB() AABB {
	return c.aabb
}

// Support returns the world-space point on the collider surface maximizing
// the dot product with direction. This is the only geometric query the
// GJK/EPA engine needs.
func (c *Collider) Support(direction mgl64.Vec3) mgl64.Vec3 {
	localDirection := c.Transform.InverseRotation.Rotate(direction)
	localSupport := c.Shape.support(localDirection, c.Transform.Scale)
	return c.Transform.Position.Add(c.Transform.Rotation.Rotate(localSupport))
}

// degenerate reports whether the collider carries a hull with no faces,
// which pair tests must treat as "never in contact" rather than crash on.
func (c *Collider) degenerate() bool {
	hull, ok := c.Shape.(*ConvexHull)
	return ok && len(hull.Faces) == 0
}

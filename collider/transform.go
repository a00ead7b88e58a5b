package collider

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a position, orientation and non-uniform scale in 3D space.
// How the scale applies depends on the shape variant: boxes use it per axis,
// spheres reduce it to the smallest component, capsules split it between the
// axis (Z) and the radius (min of X and Y).
type Transform struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	InverseRotation mgl64.Quat
	Scale           mgl64.Vec3
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position:        mgl64.Vec3{0, 0, 0},
		Rotation:        mgl64.QuatIdent(),
		InverseRotation: mgl64.QuatIdent(),
		Scale:           mgl64.Vec3{1, 1, 1},
	}
}

// normalized fills in the derived fields callers usually leave zero when
// building a Transform literal: a missing rotation becomes identity, the
// inverse rotation is recomputed, a zero scale becomes {1,1,1}.
func (t Transform) normalized() Transform {
	if t.Rotation.Len() < 1e-12 {
		t.Rotation = mgl64.QuatIdent()
	}
	t.InverseRotation = t.Rotation.Inverse()
	if t.Scale.LenSqr() < 1e-24 {
		t.Scale = mgl64.Vec3{1, 1, 1}
	}
	return t
}

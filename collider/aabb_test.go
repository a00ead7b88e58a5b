package collider

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestAABBOverlaps(t *testing.T) {
	a := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{2, 2, 2}}

	t.Run("overlapping boxes", func(t *testing.T) {
		b := AABB{Min: mgl64.Vec3{1, 1, 1}, Max: mgl64.Vec3{3, 3, 3}}
		if !a.Overlaps(b) {
			t.Errorf("Expected overlap")
		}
		if !b.Overlaps(a) {
			t.Errorf("Expected overlap to be symmetric")
		}
	})

	t.Run("separated boxes", func(t *testing.T) {
		b := AABB{Min: mgl64.Vec3{3, 0, 0}, Max: mgl64.Vec3{4, 1, 1}}
		if a.Overlaps(b) {
			t.Errorf("Expected no overlap")
		}
	})

	t.Run("touching boxes overlap", func(t *testing.T) {
		b := AABB{Min: mgl64.Vec3{2, 0, 0}, Max: mgl64.Vec3{3, 1, 1}}
		if !a.Overlaps(b) {
			t.Errorf("Expected touching boxes to count as overlapping")
		}
	})

	t.Run("separated on one axis only", func(t *testing.T) {
		b := AABB{Min: mgl64.Vec3{0, 5, 0}, Max: mgl64.Vec3{2, 6, 2}}
		if a.Overlaps(b) {
			t.Errorf("Expected no overlap when separated on y")
		}
	})
}

func TestAABBContains(t *testing.T) {
	outer := AABB{Min: mgl64.Vec3{-2, -2, -2}, Max: mgl64.Vec3{2, 2, 2}}

	t.Run("contains smaller box", func(t *testing.T) {
		inner := AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}}
		if !outer.Contains(inner) {
			t.Errorf("Expected outer to contain inner")
		}
	})

	t.Run("does not contain overlapping box", func(t *testing.T) {
		other := AABB{Min: mgl64.Vec3{1, 1, 1}, Max: mgl64.Vec3{3, 3, 3}}
		if outer.Contains(other) {
			t.Errorf("Expected partial overlap to not count as containment")
		}
	})

	t.Run("contains itself", func(t *testing.T) {
		if !outer.Contains(outer) {
			t.Errorf("Expected box to contain itself")
		}
	})
}

func TestAABBMerged(t *testing.T) {
	a := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}
	b := AABB{Min: mgl64.Vec3{2, -1, 0}, Max: mgl64.Vec3{3, 0.5, 2}}

	m := a.Merged(b)
	expectedMin := mgl64.Vec3{0, -1, 0}
	expectedMax := mgl64.Vec3{3, 1, 2}

	if m.Min != expectedMin {
		t.Errorf("Expected merged min %v, got %v", expectedMin, m.Min)
	}
	if m.Max != expectedMax {
		t.Errorf("Expected merged max %v, got %v", expectedMax, m.Max)
	}
	if !m.Contains(a) || !m.Contains(b) {
		t.Errorf("Expected merged box to contain both inputs")
	}
}

func TestAABBFattened(t *testing.T) {
	a := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}
	f := a.Fattened(0.1)

	if !f.Contains(a) {
		t.Errorf("Expected fattened box to contain the original")
	}
	if math.Abs(f.Min.X()-(-0.1)) > 1e-12 || math.Abs(f.Max.X()-1.1) > 1e-12 {
		t.Errorf("Expected margin 0.1 on x, got [%v, %v]", f.Min.X(), f.Max.X())
	}
}

func TestAABBSurfaceArea(t *testing.T) {
	a := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{2, 3, 4}}

	// 2*(2*3 + 3*4 + 2*4) = 52
	if got := a.SurfaceArea(); math.Abs(got-52) > 1e-12 {
		t.Errorf("Expected surface area 52, got %v", got)
	}
}

func TestAABBIntersectRay(t *testing.T) {
	box := AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}}

	t.Run("ray hits box", func(t *testing.T) {
		ray := Ray{Origin: mgl64.Vec3{-5, 0, 0}, Direction: mgl64.Vec3{1, 0, 0}}
		tmin, tmax, ok := box.IntersectRay(ray)
		if !ok {
			t.Fatalf("Expected intersection")
		}
		if math.Abs(tmin-4) > 1e-12 {
			t.Errorf("Expected entry at t=4, got %v", tmin)
		}
		if math.Abs(tmax-6) > 1e-12 {
			t.Errorf("Expected exit at t=6, got %v", tmax)
		}
	})

	t.Run("ray starting inside", func(t *testing.T) {
		ray := Ray{Origin: mgl64.Vec3{0, 0, 0}, Direction: mgl64.Vec3{0, 1, 0}}
		tmin, _, ok := box.IntersectRay(ray)
		if !ok {
			t.Fatalf("Expected intersection from inside")
		}
		if tmin != 0 {
			t.Errorf("Expected entry at t=0 from inside, got %v", tmin)
		}
	})

	t.Run("ray misses box", func(t *testing.T) {
		ray := Ray{Origin: mgl64.Vec3{-5, 3, 0}, Direction: mgl64.Vec3{1, 0, 0}}
		if _, _, ok := box.IntersectRay(ray); ok {
			t.Errorf("Expected miss")
		}
	})

	t.Run("box behind ray origin", func(t *testing.T) {
		ray := Ray{Origin: mgl64.Vec3{5, 0, 0}, Direction: mgl64.Vec3{1, 0, 0}}
		if _, _, ok := box.IntersectRay(ray); ok {
			t.Errorf("Expected miss for box behind origin")
		}
	})
}

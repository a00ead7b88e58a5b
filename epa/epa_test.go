package epa

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

type testSphere struct {
	center mgl64.Vec3
	radius float64
}

func (s testSphere) Center() mgl64.Vec3 {
	return s.center
}

func (s testSphere) Support(direction mgl64.Vec3) mgl64.Vec3 {
	if direction.LenSqr() < 1e-14 {
		direction = mgl64.Vec3{1, 0, 0}
	}
	return s.center.Add(direction.Normalize().Mul(s.radius))
}

type testBox struct {
	center      mgl64.Vec3
	halfExtents mgl64.Vec3
}

func (b testBox) Center() mgl64.Vec3 {
	return b.center
}

func (b testBox) Support(direction mgl64.Vec3) mgl64.Vec3 {
	h := b.halfExtents
	for i := 0; i < 3; i++ {
		if direction[i] < 0 {
			h[i] = -h[i]
		}
	}
	return b.center.Add(h)
}

func TestPenetrateSpheres(t *testing.T) {
	t.Run("overlap along x", func(t *testing.T) {
		a := testSphere{center: mgl64.Vec3{0, 0, 0}, radius: 1}
		b := testSphere{center: mgl64.Vec3{1.5, 0, 0}, radius: 1}

		res, ok := Penetrate(a, b)
		if !ok {
			t.Fatalf("Expected EPA to succeed")
		}
		// Radii sum 2, center distance 1.5
		if math.Abs(res.Depth-0.5) > 1e-3 {
			t.Errorf("Expected depth 0.5, got %v", res.Depth)
		}
		if res.Normal.X() < 0.99 {
			t.Errorf("Expected normal pointing from A to B, got %v", res.Normal)
		}
	})

	t.Run("witness points sit on both surfaces", func(t *testing.T) {
		a := testSphere{center: mgl64.Vec3{0, 0, 0}, radius: 1}
		b := testSphere{center: mgl64.Vec3{0, 1.2, 0}, radius: 1}

		res, ok := Penetrate(a, b)
		if !ok {
			t.Fatalf("Expected EPA to succeed")
		}
		if math.Abs(res.PointA.Sub(a.center).Len()-1) > 1e-2 {
			t.Errorf("Expected witness A on the sphere surface, got %v", res.PointA)
		}
		if math.Abs(res.PointB.Sub(b.center).Len()-1) > 1e-2 {
			t.Errorf("Expected witness B on the sphere surface, got %v", res.PointB)
		}
	})
}

func TestPenetrateBoxes(t *testing.T) {
	t.Run("shallow face overlap", func(t *testing.T) {
		a := testBox{center: mgl64.Vec3{0, 0, 0}, halfExtents: mgl64.Vec3{1, 1, 1}}
		b := testBox{center: mgl64.Vec3{1.8, 0, 0}, halfExtents: mgl64.Vec3{1, 1, 1}}

		res, ok := Penetrate(a, b)
		if !ok {
			t.Fatalf("Expected EPA to succeed")
		}
		if math.Abs(res.Depth-0.2) > 1e-6 {
			t.Errorf("Expected depth 0.2, got %v", res.Depth)
		}
		if math.Abs(res.Normal.X()-1) > 1e-6 {
			t.Errorf("Expected normal {1 0 0}, got %v", res.Normal)
		}
	})

	t.Run("box inside box", func(t *testing.T) {
		a := testBox{center: mgl64.Vec3{0, 0, 0}, halfExtents: mgl64.Vec3{3, 3, 3}}
		b := testBox{center: mgl64.Vec3{1, 0, 0}, halfExtents: mgl64.Vec3{1, 1, 1}}

		// Shortest escape is through the +x face: depth 3
		res, ok := Penetrate(a, b)
		if !ok {
			t.Fatalf("Expected EPA to succeed")
		}
		if res.Depth <= 0 {
			t.Errorf("Expected positive depth for containment, got %v", res.Depth)
		}
	})
}

func TestPenetrateBoxSphere(t *testing.T) {
	box := testBox{center: mgl64.Vec3{0, 0, 0}, halfExtents: mgl64.Vec3{1, 1, 1}}
	sphere := testSphere{center: mgl64.Vec3{1.5, 0, 0}, radius: 1}

	res, ok := Penetrate(box, sphere)
	if !ok {
		t.Fatalf("Expected EPA to succeed")
	}
	// Face at x=1, sphere reaches back to x=0.5
	if math.Abs(res.Depth-0.5) > 1e-3 {
		t.Errorf("Expected depth 0.5, got %v", res.Depth)
	}
	if res.Normal.X() < 0.99 {
		t.Errorf("Expected normal along +x, got %v", res.Normal)
	}
}

func TestPenetrateReusesPooledPolytope(t *testing.T) {
	// Repeated queries cycle polytopes through the pool; stale scratch
	// from an earlier pair must not leak into later results.
	box := testBox{center: mgl64.Vec3{0, 0, 0}, halfExtents: mgl64.Vec3{1, 1, 1}}
	sphere := testSphere{center: mgl64.Vec3{0, 1.7, 0}, radius: 1}

	first, ok := Penetrate(box, sphere)
	if !ok {
		t.Fatalf("Expected EPA to succeed")
	}

	// Interleave a different pair so the pooled polytope is dirtied
	// before the original query runs again.
	other := testBox{center: mgl64.Vec3{2.5, 0, 0}, halfExtents: mgl64.Vec3{2, 2, 2}}
	for i := 0; i < 8; i++ {
		if _, ok := Penetrate(box, other); !ok {
			t.Fatalf("Expected EPA to succeed on iteration %d", i)
		}
		res, ok := Penetrate(box, sphere)
		if !ok {
			t.Fatalf("Expected EPA to succeed on iteration %d", i)
		}
		if math.Abs(res.Depth-first.Depth) > 1e-9 {
			t.Errorf("Expected depth %v on iteration %d, got %v", first.Depth, i, res.Depth)
		}
		if res.Normal.Sub(first.Normal).Len() > 1e-9 {
			t.Errorf("Expected normal %v on iteration %d, got %v", first.Normal, i, res.Normal)
		}
		if res.PointA.Sub(first.PointA).Len() > 1e-9 {
			t.Errorf("Expected witness A %v on iteration %d, got %v", first.PointA, i, res.PointA)
		}
	}
}

func TestPenetrateDegenerate(t *testing.T) {
	// Two coincident points have a zero-volume Minkowski difference; the
	// polytope cannot be seeded.
	p := testSphere{center: mgl64.Vec3{1, 2, 3}, radius: 0}
	q := testSphere{center: mgl64.Vec3{1, 2, 3}, radius: 0}

	if _, ok := Penetrate(p, q); ok {
		t.Errorf("Expected EPA to report failure for a degenerate pair")
	}
}

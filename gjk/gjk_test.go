package gjk

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// Test shapes implementing Shape directly, so the tests stay independent of
// the shape package built on top of this one.

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

func TestSupport(t *testing.T) {
	a := testSphere{center: mgl64.Vec3{0, 0, 0}, radius: 1}
	b := testSphere{center: mgl64.Vec3{3, 0, 0}, radius: 1}

	p := Support(a, b, mgl64.Vec3{1, 0, 0})

	// max(A.x) - min(B.x) = 1 - 2 = -1
	if math.Abs(p.V.X()-(-1)) > 1e-12 {
		t.Errorf("Expected Minkowski support x = -1, got %v", p.V.X())
	}
	if math.Abs(p.A.X()-1) > 1e-12 {
		t.Errorf("Expected witness on A at x = 1, got %v", p.A.X())
	}
	if math.Abs(p.B.X()-2) > 1e-12 {
		t.Errorf("Expected witness on B at x = 2, got %v", p.B.X())
	}
}

func TestDistanceSpheres(t *testing.T) {
	t.Run("separated spheres", func(t *testing.T) {
		a := testSphere{center: mgl64.Vec3{0, 0, 0}, radius: 1}
		b := testSphere{center: mgl64.Vec3{4, 0, 0}, radius: 1}

		res := Distance(a, b)
		if res.Colliding {
			t.Fatalf("Expected no collision")
		}
		if math.Abs(res.Distance-2) > 1e-6 {
			t.Errorf("Expected distance 2, got %v", res.Distance)
		}
		if math.Abs(res.Normal.X()-1) > 1e-6 {
			t.Errorf("Expected normal pointing from A to B, got %v", res.Normal)
		}
		if math.Abs(res.PointA.X()-1) > 1e-6 {
			t.Errorf("Expected witness on A at x = 1, got %v", res.PointA)
		}
		if math.Abs(res.PointB.X()-3) > 1e-6 {
			t.Errorf("Expected witness on B at x = 3, got %v", res.PointB)
		}
	})

	t.Run("overlapping spheres collide", func(t *testing.T) {
		a := testSphere{center: mgl64.Vec3{0, 0, 0}, radius: 1}
		b := testSphere{center: mgl64.Vec3{1, 0, 0}, radius: 1}

		res := Distance(a, b)
		if !res.Colliding {
			t.Errorf("Expected collision")
		}
	})

	t.Run("diagonal offset", func(t *testing.T) {
		a := testSphere{center: mgl64.Vec3{0, 0, 0}, radius: 1}
		b := testSphere{center: mgl64.Vec3{3, 4, 0}, radius: 1}

		// Center distance 5, minus both radii
		res := Distance(a, b)
		if res.Colliding {
			t.Fatalf("Expected no collision")
		}
		if math.Abs(res.Distance-3) > 1e-6 {
			t.Errorf("Expected distance 3, got %v", res.Distance)
		}
	})
}

func TestDistanceBoxes(t *testing.T) {
	t.Run("face to face gap", func(t *testing.T) {
		a := testBox{center: mgl64.Vec3{0, 0, 0}, halfExtents: mgl64.Vec3{1, 1, 1}}
		b := testBox{center: mgl64.Vec3{4, 0, 0}, halfExtents: mgl64.Vec3{1, 1, 1}}

		res := Distance(a, b)
		if res.Colliding {
			t.Fatalf("Expected no collision")
		}
		if math.Abs(res.Distance-2) > 1e-6 {
			t.Errorf("Expected distance 2, got %v", res.Distance)
		}
	})

	t.Run("corner to corner gap", func(t *testing.T) {
		a := testBox{center: mgl64.Vec3{0, 0, 0}, halfExtents: mgl64.Vec3{1, 1, 1}}
		b := testBox{center: mgl64.Vec3{3, 3, 3}, halfExtents: mgl64.Vec3{1, 1, 1}}

		// Corners at (1,1,1) and (2,2,2)
		res := Distance(a, b)
		if res.Colliding {
			t.Fatalf("Expected no collision")
		}
		expected := math.Sqrt(3)
		if math.Abs(res.Distance-expected) > 1e-6 {
			t.Errorf("Expected distance %v, got %v", expected, res.Distance)
		}
	})

	t.Run("overlapping boxes collide", func(t *testing.T) {
		a := testBox{center: mgl64.Vec3{0, 0, 0}, halfExtents: mgl64.Vec3{1, 1, 1}}
		b := testBox{center: mgl64.Vec3{1.5, 0.5, 0}, halfExtents: mgl64.Vec3{1, 1, 1}}

		res := Distance(a, b)
		if !res.Colliding {
			t.Errorf("Expected collision")
		}
	})

	t.Run("touching boxes are treated as contact", func(t *testing.T) {
		a := testBox{center: mgl64.Vec3{0, 0, 0}, halfExtents: mgl64.Vec3{1, 1, 1}}
		b := testBox{center: mgl64.Vec3{2, 0, 0}, halfExtents: mgl64.Vec3{1, 1, 1}}

		res := Distance(a, b)
		if !res.Colliding && res.Distance > 1e-6 {
			t.Errorf("Expected contact for touching boxes, got distance %v", res.Distance)
		}
	})
}

func TestDistanceBoxSphere(t *testing.T) {
	box := testBox{center: mgl64.Vec3{0, 0, 0}, halfExtents: mgl64.Vec3{1, 1, 1}}
	sphere := testSphere{center: mgl64.Vec3{4, 0, 0}, radius: 1}

	res := Distance(box, sphere)
	if res.Colliding {
		t.Fatalf("Expected no collision")
	}
	if math.Abs(res.Distance-2) > 1e-6 {
		t.Errorf("Expected distance 2, got %v", res.Distance)
	}
}

func TestDistanceContainment(t *testing.T) {
	// A small sphere fully inside a big one
	a := testSphere{center: mgl64.Vec3{0, 0, 0}, radius: 5}
	b := testSphere{center: mgl64.Vec3{1, 0, 0}, radius: 0.5}

	res := Distance(a, b)
	if !res.Colliding {
		t.Errorf("Expected containment to count as collision")
	}
}

func TestSimplexPush(t *testing.T) {
	var s Simplex
	s.Reset()

	for i := 0; i < 4; i++ {
		s.push(SupportPoint{V: mgl64.Vec3{float64(i), 0, 0}})
	}

	if s.Count != 4 {
		t.Errorf("Expected 4 points, got %d", s.Count)
	}
	// Points append in arrival order
	if s.Points[3].V.X() != 3 {
		t.Errorf("Expected newest point last, got %v", s.Points[3].V)
	}
}

package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	collision "github.com/mirmik/termin-sub002"
	"github.com/mirmik/termin-sub002/collider"
)

// SetupScene builds a small world: a big ground box, a capsule standing on
// it, and a sphere that will be slid into the capsule step by step.
func SetupScene() (*collision.World, collision.Handle) {
	world := collision.NewWorld()

	ground := collider.NewCollider(
		&collider.Box{HalfExtents: mgl64.Vec3{10, 0.5, 10}},
		collider.Transform{Position: mgl64.Vec3{0, -0.5, 0}},
	)
	ground.Entity = 1
	world.Add(ground)

	capsule := collider.NewCollider(
		&collider.Capsule{HalfHeight: 1, Radius: 0.5},
		collider.Transform{
			Position: mgl64.Vec3{0, 1.5, 0},
			Rotation: mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{1, 0, 0}),
		},
	)
	capsule.Entity = 2
	world.Add(capsule)

	sphere := collider.NewCollider(
		&collider.Sphere{Radius: 0.75},
		collider.Transform{Position: mgl64.Vec3{5, 1.5, 0}},
	)
	sphere.Entity = 3
	sphereHandle := world.Add(sphere)

	return world, sphereHandle
}

func main() {
	world, sphereHandle := SetupScene()
	sphere := world.Get(sphereHandle)

	fmt.Println("Sliding the sphere into the capsule")
	fmt.Println("===================================")

	const step = 0.5
	for i := 0; i < 10; i++ {
		transform := sphere.Transform
		transform.Position = transform.Position.Sub(mgl64.Vec3{step, 0, 0})
		world.UpdatePose(sphereHandle, transform)

		manifolds := world.DetectContacts()
		fmt.Printf("--- step %d, sphere at %v ---\n", i+1, sphere.Center())
		if len(manifolds) == 0 {
			fmt.Println("  no contacts")
			continue
		}
		for _, m := range manifolds {
			p := m.Points[0]
			fmt.Printf("  contact %d<->%d: position=%v normal=%v penetration=%.6f\n",
				m.A.Entity, m.B.Entity, p.Position, m.Normal, p.Penetration)
		}
	}

	fmt.Println()
	fmt.Println("Ray query through the scene")
	ray := collider.Ray{Origin: mgl64.Vec3{-8, 1.5, 0}, Direction: mgl64.Vec3{1, 0, 0}}
	for _, hit := range world.Raycast(ray) {
		fmt.Printf("  hit entity %d at %v (distance %.3f)\n",
			hit.Collider.Entity, hit.Point, hit.Distance)
	}
}

package primitives

// Mesh kinds understood by Registry.Draw. Every mesh is unit sized and centred on the origin;
// torus, disc and quad face +Z so a portal pose can be used as their model matrix directly.
const (
	Cube     = "cube"
	Sphere   = "sphere"
	Cylinder = "cylinder"
	Plane    = "plane"
	Torus    = "torus"
	Disc     = "disc"
	Quad     = "quad"
)

// Known reports whether kind has a mesh.
func Known(kind string) bool {
	switch kind {
	case Cube, Sphere, Cylinder, Plane, Torus, Disc, Quad:
		return true
	}
	return false
}

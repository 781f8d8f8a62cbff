package scene

// Scene is a named, ordered grouping of primitives and nested scenes.
// The name is a label and does not have to be unique. Contents order is
// the renderer's paint order and is preserved by Serialize and Merge.
// Scenes are built once and read-only thereafter.
type Scene struct {
	Name     string
	Contents []Content
}

// New returns a scene with the given name and contents.
func New(name string, contents ...Content) *Scene {
	return &Scene{Name: name, Contents: contents}
}

func (*Scene) content() {}

// Primitives returns the primitives directly contained in s, skipping
// nested scenes. The result is a fresh slice over the same values.
func (s *Scene) Primitives() []Primitive {
	var prims []Primitive
	for _, c := range s.Contents {
		if p, ok := c.(Primitive); ok {
			prims = append(prims, p)
		}
	}
	return prims
}

// Walk calls fn for s and every nested scene, depth first in contents
// order. It is read-only.
func (s *Scene) Walk(fn func(*Scene)) {
	fn(s)
	for _, c := range s.Contents {
		if child, ok := c.(*Scene); ok {
			child.Walk(fn)
		}
	}
}

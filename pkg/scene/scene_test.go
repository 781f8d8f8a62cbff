package scene

import "testing"

func TestNewScene(t *testing.T) {
	s := New("unit-cell", Spheres{Positions: []Vec3{{0, 0, 0}}})
	if s.Name != "unit-cell" {
		t.Errorf("name = %q, want %q", s.Name, "unit-cell")
	}
	if len(s.Contents) != 1 {
		t.Fatalf("contents len = %d, want 1", len(s.Contents))
	}
}

func TestPrimitivesSkipsNestedScenes(t *testing.T) {
	inner := New("inner", Cubes{Positions: []Vec3{{1, 1, 1}}})
	s := New("outer",
		Spheres{Positions: []Vec3{{0, 0, 0}}},
		inner,
		Lines{Positions: []Vec3{{0, 0, 0}, {1, 0, 0}}},
	)

	prims := s.Primitives()
	if len(prims) != 2 {
		t.Fatalf("Primitives() len = %d, want 2", len(prims))
	}
	if prims[0].Kind() != KindSpheres {
		t.Errorf("prims[0] kind = %s, want spheres", prims[0].Kind())
	}
	if prims[1].Kind() != KindLines {
		t.Errorf("prims[1] kind = %s, want lines", prims[1].Kind())
	}
}

func TestWalkDepthFirst(t *testing.T) {
	grandchild := New("grandchild")
	child := New("child", grandchild)
	root := New("root", child, New("sibling"))

	var names []string
	root.Walk(func(s *Scene) { names = append(names, s.Name) })

	want := []string{"root", "child", "grandchild", "sibling"}
	if len(names) != len(want) {
		t.Fatalf("visited %d scenes, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("visit %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestVec3(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	if sum := a.Add(b); sum != (Vec3{5, 7, 9}) {
		t.Errorf("Add = %v, want (5, 7, 9)", sum)
	}
	if scaled := a.Scale(2); scaled != (Vec3{2, 4, 6}) {
		t.Errorf("Scale = %v, want (2, 4, 6)", scaled)
	}
	if s := a.String(); s != "(1, 2, 3)" {
		t.Errorf("String = %q", s)
	}
}

func TestKindStrings(t *testing.T) {
	tests := []struct {
		kind Kind
		str  string
		tag  string
	}{
		{KindSpheres, "spheres", "spheres"},
		{KindCylinders, "cylinders", "cylinders"},
		{KindCubes, "cubes", "spheres"}, // inherited renderer wire contract
		{KindLines, "lines", "lines"},
		{KindSurface, "surface", "surface"},
		{KindConvex, "convex", "convex"},
		{KindArrows, "arrows", "arrows"},
		{KindLabels, "labels", "labels"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.str {
			t.Errorf("%v.String() = %q, want %q", tt.kind, got, tt.str)
		}
		if got := tt.kind.Tag(); got != tt.tag {
			t.Errorf("%s.Tag() = %q, want %q", tt.str, got, tt.tag)
		}
	}
}

func TestContentInterface(t *testing.T) {
	// Verify the closed variant set implements Content/Primitive at
	// compile time.
	var _ Primitive = Spheres{}
	var _ Primitive = Cylinders{}
	var _ Primitive = Cubes{}
	var _ Primitive = Lines{}
	var _ Primitive = Surface{}
	var _ Primitive = Convex{}
	var _ Primitive = Arrows{}
	var _ Primitive = Labels{}
	var _ Content = (*Scene)(nil)
}

func TestNewEllipsoids(t *testing.T) {
	e := NewEllipsoids(
		[]Vec3{{1, 0, 0}, {0, 1, 0}},
		[]Vec3{{2, 1, 1}, {1, 2, 1}},
	)
	if len(e.Rotations) != 2 || len(e.Scales) != 2 {
		t.Fatalf("lens = %d/%d, want 2/2", len(e.Rotations), len(e.Scales))
	}
	if *e.Rotations[1] != (Vec3{0, 1, 0}) {
		t.Errorf("rotation[1] = %v", *e.Rotations[1])
	}
	if *e.Scales[0] != (Vec3{2, 1, 1}) {
		t.Errorf("scale[0] = %v", *e.Scales[0])
	}
}

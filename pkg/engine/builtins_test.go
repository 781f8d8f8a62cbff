package engine

import (
	"testing"

	"github.com/eshark9312/crystaltoolkit/pkg/scene"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(spheres :color "#fff")`,
			expect: `(spheres "__kw_color" "#fff")`,
		},
		{
			name:   "multiple keywords",
			input:  `(cubes :positions ps :width 2)`,
			expect: `(cubes "__kw_positions" ps "__kw_width" 2)`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:phi-start`,
			expect: `"__kw_phi-start"`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"label with :keyword inside"`,
			expect: `"label with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(draw-cell origin)`,
			expect: `(draw_cell origin)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; unit cell :wireframe`,
			expect: `// unit cell :wireframe`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Scene construction tests
// ---------------------------------------------------------------------------

func TestSceneWithPrimitives(t *testing.T) {
	eng := NewEngine()

	source := `
(scene "crystal"
  (spheres :positions (list (vec3 0 0 0) (vec3 1 1 1))
           :color "#ff0000" :radius 0.5 :phi-start 0 :phi-end 3.14)
  (cylinders :pairs (list (list (vec3 0 0 0) (vec3 1 1 1)))
             :color "#00ff00" :radius 0.25))
`
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if s.Name != "crystal" {
		t.Errorf("scene name = %q, want %q", s.Name, "crystal")
	}
	if len(s.Contents) != 2 {
		t.Fatalf("contents = %d, want 2", len(s.Contents))
	}

	sph, ok := s.Contents[0].(scene.Spheres)
	if !ok {
		t.Fatalf("contents[0] = %T, want Spheres", s.Contents[0])
	}
	if len(sph.Positions) != 2 {
		t.Errorf("sphere positions = %d, want 2", len(sph.Positions))
	}
	if sph.Color == nil || *sph.Color != "#ff0000" {
		t.Errorf("sphere color = %v, want #ff0000", sph.Color)
	}
	if sph.Radius == nil || *sph.Radius != 0.5 {
		t.Errorf("sphere radius = %v, want 0.5", sph.Radius)
	}
	if sph.PhiEnd == nil || *sph.PhiEnd != 3.14 {
		t.Errorf("sphere phiEnd = %v, want 3.14", sph.PhiEnd)
	}

	cyl, ok := s.Contents[1].(scene.Cylinders)
	if !ok {
		t.Fatalf("contents[1] = %T, want Cylinders", s.Contents[1])
	}
	if len(cyl.PositionPairs) != 1 {
		t.Fatalf("cylinder pairs = %d, want 1", len(cyl.PositionPairs))
	}
	if cyl.PositionPairs[0][1] != (scene.Vec3{1, 1, 1}) {
		t.Errorf("cylinder end = %v, want (1, 1, 1)", cyl.PositionPairs[0][1])
	}
}

func TestUnsetFieldsStayUnset(t *testing.T) {
	eng := NewEngine()

	s, evalErrs, err := eng.Evaluate(`(scene "s" (spheres :positions (list (vec3 0 0 0))))`)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("err=%v evalErrs=%v", err, evalErrs)
	}
	sph := s.Contents[0].(scene.Spheres)
	if sph.Color != nil || sph.Radius != nil || sph.PhiEnd != nil || sph.Ellipsoids != nil {
		t.Errorf("optional fields should stay unset: %#v", sph)
	}
	if sph.PhiStart != 0 {
		t.Errorf("phiStart = %v, want 0", sph.PhiStart)
	}
}

func TestNestedScenes(t *testing.T) {
	eng := NewEngine()

	source := `
(scene "outer"
  (cubes :positions (list (vec3 0 0 0)) :width 1)
  (scene "inner"
    (lines :positions (list (vec3 0 0 0) (vec3 1 0 0)) :line-width 2)))
`
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("err=%v evalErrs=%v", err, evalErrs)
	}
	if s.Name != "outer" {
		t.Fatalf("root = %q, want outer", s.Name)
	}
	if len(s.Contents) != 2 {
		t.Fatalf("contents = %d, want 2", len(s.Contents))
	}
	inner, ok := s.Contents[1].(*scene.Scene)
	if !ok {
		t.Fatalf("contents[1] = %T, want *Scene", s.Contents[1])
	}
	if inner.Name != "inner" {
		t.Errorf("inner name = %q", inner.Name)
	}
	ln := inner.Contents[0].(scene.Lines)
	if ln.LineWidth == nil || *ln.LineWidth != 2 {
		t.Errorf("lineWidth = %v, want 2", ln.LineWidth)
	}
}

func TestLoosePrimitivesGetWrapped(t *testing.T) {
	eng := NewEngine()

	source := `
(spheres :positions (list (vec3 0 0 0)))
(convex :positions (list (vec3 0 0 0) (vec3 1 0 0) (vec3 0 1 0) (vec3 0 0 1)) :opacity 0.5)
`
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("err=%v evalErrs=%v", err, evalErrs)
	}
	if s.Name != DefaultSceneName {
		t.Errorf("root = %q, want %q", s.Name, DefaultSceneName)
	}
	if len(s.Contents) != 2 {
		t.Fatalf("contents = %d, want 2", len(s.Contents))
	}
	if _, ok := s.Contents[0].(scene.Spheres); !ok {
		t.Errorf("contents[0] = %T, want Spheres", s.Contents[0])
	}
	if _, ok := s.Contents[1].(scene.Convex); !ok {
		t.Errorf("contents[1] = %T, want Convex", s.Contents[1])
	}
}

func TestMultipleTopLevelScenesWrapped(t *testing.T) {
	eng := NewEngine()

	source := `
(scene "a" (cubes :positions (list (vec3 0 0 0))))
(scene "b" (cubes :positions (list (vec3 1 1 1))))
`
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("err=%v evalErrs=%v", err, evalErrs)
	}
	if s.Name != DefaultSceneName {
		t.Errorf("root = %q, want synthetic %q", s.Name, DefaultSceneName)
	}
	if len(s.Contents) != 2 {
		t.Fatalf("contents = %d, want 2", len(s.Contents))
	}
	a := s.Contents[0].(*scene.Scene)
	b := s.Contents[1].(*scene.Scene)
	if a.Name != "a" || b.Name != "b" {
		t.Errorf("children = %q, %q, want a, b", a.Name, b.Name)
	}
}

func TestSpheresEllipsoids(t *testing.T) {
	eng := NewEngine()

	source := `
(scene "s"
  (spheres :positions (list (vec3 0 0 0))
           :rotations (list (vec3 1 0 0))
           :scales (list (vec3 2 1 1))))
`
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("err=%v evalErrs=%v", err, evalErrs)
	}
	sph := s.Contents[0].(scene.Spheres)
	if sph.Ellipsoids == nil {
		t.Fatal("ellipsoids missing")
	}
	if len(sph.Ellipsoids.Rotations) != 1 || *sph.Ellipsoids.Rotations[0] != (scene.Vec3{1, 0, 0}) {
		t.Errorf("rotations = %v", sph.Ellipsoids.Rotations)
	}
	if len(sph.Ellipsoids.Scales) != 1 || *sph.Ellipsoids.Scales[0] != (scene.Vec3{2, 1, 1}) {
		t.Errorf("scales = %v", sph.Ellipsoids.Scales)
	}
}

func TestSurfaceAndConvexBuiltins(t *testing.T) {
	eng := NewEngine()

	source := `
(scene "s"
  (surface :positions (list (vec3 0 0 0) (vec3 1 0 0) (vec3 0 1 0))
           :normals (list (vec3 0 0 1) (vec3 0 0 1) (vec3 0 0 1))
           :color "#cccccc" :opacity 0.5))
`
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("err=%v evalErrs=%v", err, evalErrs)
	}
	srf := s.Contents[0].(scene.Surface)
	if len(srf.Positions) != 3 || len(srf.Normals) != 3 {
		t.Errorf("surface lens = %d/%d, want 3/3", len(srf.Positions), len(srf.Normals))
	}
	if srf.Opacity == nil || *srf.Opacity != 0.5 {
		t.Errorf("opacity = %v, want 0.5", srf.Opacity)
	}
}

func TestSceneRejectsNonContentChild(t *testing.T) {
	eng := NewEngine()

	s, evalErrs, err := eng.Evaluate(`(scene "s" 42)`)
	if err != nil {
		t.Fatalf("expected eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Errorf("expected nil scene, got %v", s)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors for a non-content child")
	}
}

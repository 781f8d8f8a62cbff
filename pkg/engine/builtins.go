package engine

import (
	"fmt"
	"strings"

	"github.com/eshark9312/crystaltoolkit/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene-description source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: phi-start stays a keyword, but a user
//     helper like draw-cell becomes draw_cell, because zygomys reads a
//     hyphen between identifiers as subtraction.
//
// Both transformations respect string literal boundaries, and ; line
// comments are rewritten to the // form zygomys expects.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Copy double-quoted string literals untouched.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Copy backtick-quoted string literals untouched.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Rewrite ; line comments as // comments.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when the hyphen sits between identifier characters (not a
		// minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing scene values through the environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a scene.Vec3.
type sexpVec3 struct {
	vec scene.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec[0], v.vec[1], v.vec[2])
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpPrimitive wraps a scene.Primitive so (scene ...) can consume it.
// consumed tracks whether some scene already owns it.
type sexpPrimitive struct {
	prim     scene.Primitive
	consumed bool
}

func (p *sexpPrimitive) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s)", p.prim.Kind())
}
func (p *sexpPrimitive) Type() *zygo.RegisteredType { return nil }

// sexpScene wraps a constructed *scene.Scene.
type sexpScene struct {
	s        *scene.Scene
	consumed bool
}

func (s *sexpScene) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(scene %q)", s.s.Name)
}
func (s *sexpScene) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Builder: collects evaluation output into a single root scene
// ---------------------------------------------------------------------------

// builder records every primitive and scene a program constructs, in
// creation order, and assembles the root afterwards. Anything consumed by a
// (scene ...) form belongs to that scene; whatever is left over is a root.
type builder struct {
	prims  []*sexpPrimitive
	scenes []*sexpScene
}

func newBuilder() *builder {
	return &builder{}
}

// root returns the evaluation result: the single unconsumed scene when the
// program built exactly one and no loose primitives, otherwise a synthetic
// root wrapping every unconsumed scene and primitive in creation order.
func (b *builder) root() *scene.Scene {
	var looseScenes []*scene.Scene
	for _, s := range b.scenes {
		if !s.consumed {
			looseScenes = append(looseScenes, s.s)
		}
	}
	var loosePrims []scene.Primitive
	for _, p := range b.prims {
		if !p.consumed {
			loosePrims = append(loosePrims, p.prim)
		}
	}

	if len(looseScenes) == 1 && len(loosePrims) == 0 {
		return looseScenes[0]
	}

	root := scene.New(DefaultSceneName)
	for _, s := range looseScenes {
		root.Contents = append(root.Contents, s)
	}
	for _, p := range loosePrims {
		root.Contents = append(root.Contents, p)
	}
	return root
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string, returning the
// keyword name (without prefix) on success.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			i++
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
		} else {
			// Keyword at end with no value: flag with nil.
			result.kw[name] = zygo.SexpNull
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toVec3 extracts a Vec3 from a sexpVec3 or a 3-element list of numbers.
func toVec3(s zygo.Sexp) (scene.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil {
		return scene.Vec3{}, fmt.Errorf("expected vec3: %w", err)
	}
	if len(items) != 3 {
		return scene.Vec3{}, fmt.Errorf("expected 3 vector components, got %d", len(items))
	}
	var vec scene.Vec3
	for i, item := range items {
		f, err := toFloat64(item)
		if err != nil {
			return scene.Vec3{}, fmt.Errorf("vector component %d: %w", i, err)
		}
		vec[i] = f
	}
	return vec, nil
}

// toVec3List extracts a list of Vec3.
func toVec3List(s zygo.Sexp) ([]scene.Vec3, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]scene.Vec3, len(items))
	for i, item := range items {
		vec, err := toVec3(item)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out[i] = vec
	}
	return out, nil
}

// toPairList extracts a list of (start, end) vector pairs.
func toPairList(s zygo.Sexp) ([][2]scene.Vec3, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([][2]scene.Vec3, len(items))
	for i, item := range items {
		pair, err := sexpListToSlice(item)
		if err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}
		if len(pair) != 2 {
			return nil, fmt.Errorf("pair %d has %d entries, want 2", i, len(pair))
		}
		start, err := toVec3(pair[0])
		if err != nil {
			return nil, fmt.Errorf("pair %d start: %w", i, err)
		}
		end, err := toVec3(pair[1])
		if err != nil {
			return nil, fmt.Errorf("pair %d end: %w", i, err)
		}
		out[i] = [2]scene.Vec3{start, end}
	}
	return out, nil
}

// kwString reads an optional string keyword into dst.
func kwString(pa kwArgs, name string, dst **string) error {
	v, ok := pa.kw[name]
	if !ok {
		return nil
	}
	s, err := toString(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = &s
	return nil
}

// kwFloat reads an optional number keyword into dst.
func kwFloat(pa kwArgs, name string, dst **float64) error {
	v, ok := pa.kw[name]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = &f
	return nil
}

// kwVecs reads an optional vector-list keyword into dst.
func kwVecs(pa kwArgs, name string, dst *[]scene.Vec3) error {
	v, ok := pa.kw[name]
	if !ok {
		return nil
	}
	vecs, err := toVec3List(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = vecs
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene-description builtins into a zygomys
// environment. The builtins record what they construct on the builder, which
// assembles the root scene after evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation
// so that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *builder) {

	record := func(p scene.Primitive) zygo.Sexp {
		wrapped := &sexpPrimitive{prim: p}
		b.prims = append(b.prims, wrapped)
		return wrapped
	}

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var vec scene.Vec3
		for i, arg := range args {
			f, err := toFloat64(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: component %d: %w", i, err)
			}
			vec[i] = f
		}
		return &sexpVec3{vec: vec}, nil
	})

	// -----------------------------------------------------------------------
	// (spheres :positions (list (vec3 0 0 0)) :color "#ff0000" :radius 0.5
	//          :phi-start 0 :phi-end 3.14
	//          :rotations (list ...) :scales (list ...))
	// -----------------------------------------------------------------------
	env.AddFunction("spheres", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		p := scene.Spheres{}

		if err := kwVecs(pa, "positions", &p.Positions); err != nil {
			return zygo.SexpNull, fmt.Errorf("spheres: %w", err)
		}
		if err := kwString(pa, "color", &p.Color); err != nil {
			return zygo.SexpNull, fmt.Errorf("spheres: %w", err)
		}
		if err := kwFloat(pa, "radius", &p.Radius); err != nil {
			return zygo.SexpNull, fmt.Errorf("spheres: %w", err)
		}
		if v, ok := pa.kw["phi-start"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("spheres: phi-start: %w", err)
			}
			p.PhiStart = f
		}
		if err := kwFloat(pa, "phi-end", &p.PhiEnd); err != nil {
			return zygo.SexpNull, fmt.Errorf("spheres: %w", err)
		}

		var rotations, scales []scene.Vec3
		if err := kwVecs(pa, "rotations", &rotations); err != nil {
			return zygo.SexpNull, fmt.Errorf("spheres: %w", err)
		}
		if err := kwVecs(pa, "scales", &scales); err != nil {
			return zygo.SexpNull, fmt.Errorf("spheres: %w", err)
		}
		if rotations != nil || scales != nil {
			p.Ellipsoids = scene.NewEllipsoids(rotations, scales)
		}

		return record(p), nil
	})

	// -----------------------------------------------------------------------
	// (cylinders :pairs (list (list (vec3 0 0 0) (vec3 0 0 1)))
	//            :color "#00ff00" :radius 0.3)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinders", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		p := scene.Cylinders{}

		if v, ok := pa.kw["pairs"]; ok {
			pairs, err := toPairList(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinders: pairs: %w", err)
			}
			p.PositionPairs = pairs
		}
		if err := kwString(pa, "color", &p.Color); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinders: %w", err)
		}
		if err := kwFloat(pa, "radius", &p.Radius); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinders: %w", err)
		}

		return record(p), nil
	})

	// -----------------------------------------------------------------------
	// (cubes :positions (list ...) :color "#0000ff" :width 1)
	// -----------------------------------------------------------------------
	env.AddFunction("cubes", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		p := scene.Cubes{}

		if err := kwVecs(pa, "positions", &p.Positions); err != nil {
			return zygo.SexpNull, fmt.Errorf("cubes: %w", err)
		}
		if err := kwString(pa, "color", &p.Color); err != nil {
			return zygo.SexpNull, fmt.Errorf("cubes: %w", err)
		}
		if err := kwFloat(pa, "width", &p.Width); err != nil {
			return zygo.SexpNull, fmt.Errorf("cubes: %w", err)
		}

		return record(p), nil
	})

	// -----------------------------------------------------------------------
	// (lines :positions (list ...) :color "#000000" :line-width 2
	//        :scale 1 :dash-size 0.1 :gap-size 0.05)
	// -----------------------------------------------------------------------
	env.AddFunction("lines", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		p := scene.Lines{}

		if err := kwVecs(pa, "positions", &p.Positions); err != nil {
			return zygo.SexpNull, fmt.Errorf("lines: %w", err)
		}
		if err := kwString(pa, "color", &p.Color); err != nil {
			return zygo.SexpNull, fmt.Errorf("lines: %w", err)
		}
		for kw, dst := range map[string]**float64{
			"line-width": &p.LineWidth,
			"scale":      &p.Scale,
			"dash-size":  &p.DashSize,
			"gap-size":   &p.GapSize,
		} {
			if err := kwFloat(pa, kw, dst); err != nil {
				return zygo.SexpNull, fmt.Errorf("lines: %w", err)
			}
		}

		return record(p), nil
	})

	// -----------------------------------------------------------------------
	// (surface :positions (list ...) :normals (list ...)
	//          :color "#cccccc" :opacity 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("surface", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		p := scene.Surface{}

		if err := kwVecs(pa, "positions", &p.Positions); err != nil {
			return zygo.SexpNull, fmt.Errorf("surface: %w", err)
		}
		if err := kwVecs(pa, "normals", &p.Normals); err != nil {
			return zygo.SexpNull, fmt.Errorf("surface: %w", err)
		}
		if err := kwString(pa, "color", &p.Color); err != nil {
			return zygo.SexpNull, fmt.Errorf("surface: %w", err)
		}
		if err := kwFloat(pa, "opacity", &p.Opacity); err != nil {
			return zygo.SexpNull, fmt.Errorf("surface: %w", err)
		}

		return record(p), nil
	})

	// -----------------------------------------------------------------------
	// (convex :positions (list ...) :color "#cccccc" :opacity 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("convex", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		p := scene.Convex{}

		if err := kwVecs(pa, "positions", &p.Positions); err != nil {
			return zygo.SexpNull, fmt.Errorf("convex: %w", err)
		}
		if err := kwString(pa, "color", &p.Color); err != nil {
			return zygo.SexpNull, fmt.Errorf("convex: %w", err)
		}
		if err := kwFloat(pa, "opacity", &p.Opacity); err != nil {
			return zygo.SexpNull, fmt.Errorf("convex: %w", err)
		}

		return record(p), nil
	})

	// -----------------------------------------------------------------------
	// (scene "name" child child ...)
	// -----------------------------------------------------------------------
	env.AddFunction("scene", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("scene requires a name argument")
		}
		sceneName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scene: name: %w", err)
		}

		s := scene.New(sceneName)
		for i := 1; i < len(args); i++ {
			switch child := args[i].(type) {
			case *sexpPrimitive:
				child.consumed = true
				s.Contents = append(s.Contents, child.prim)
			case *sexpScene:
				child.consumed = true
				s.Contents = append(s.Contents, child.s)
			default:
				return zygo.SexpNull, fmt.Errorf("scene: child %d: expected primitive or scene, got %T (%s)",
					i, args[i], args[i].SexpString(nil))
			}
		}

		wrapped := &sexpScene{s: s}
		b.scenes = append(b.scenes, wrapped)
		return wrapped, nil
	})
}

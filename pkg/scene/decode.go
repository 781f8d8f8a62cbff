package scene

import (
	"encoding/json"
	"fmt"
)

// FromJSON decodes serialized scene JSON back into a scene tree. It is the
// inverse of Serialize for fully-specified trees; fields that were pruned
// decode as unset, so information is only lost where the wire format itself
// loses it.
func FromJSON(data []byte) (*Scene, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("scene: decode: %w", err)
	}
	c, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	s, ok := c.(*Scene)
	if !ok {
		return nil, fmt.Errorf("scene: decode: top-level node is not a scene")
	}
	return s, nil
}

// Decode converts one serialized node (a scene or a primitive) back into a
// Content. Unknown discriminant tags and malformed nodes are caller errors
// and reported as such. It accepts both freshly-serialized values (Vec3
// slices) and values that round-tripped through encoding/json ([]any).
func Decode(d map[string]any) (Content, error) {
	if tag, ok := d["type"]; ok {
		return decodePrimitive(d, tag)
	}
	if _, ok := d["name"]; ok {
		return decodeScene(d)
	}
	return nil, fmt.Errorf("scene: decode: node has neither a type tag nor a name")
}

func decodeScene(d map[string]any) (*Scene, error) {
	name, ok := d["name"].(string)
	if !ok {
		return nil, fmt.Errorf("scene: decode: name is %T, not a string", d["name"])
	}
	s := &Scene{Name: name}
	items, err := asList(d["contents"])
	if err != nil {
		return nil, fmt.Errorf("scene: decode %q: contents: %w", name, err)
	}
	for i, item := range items {
		child, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("scene: decode %q: contents[%d] is %T, not an object", name, i, item)
		}
		c, err := Decode(child)
		if err != nil {
			return nil, fmt.Errorf("scene: decode %q: contents[%d]: %w", name, i, err)
		}
		s.Contents = append(s.Contents, c)
	}
	return s, nil
}

func decodePrimitive(d map[string]any, tag any) (Primitive, error) {
	t, ok := tag.(string)
	if !ok {
		return nil, fmt.Errorf("scene: decode: type tag is %T, not a string", tag)
	}
	switch t {
	case "spheres":
		// Cubes share the "spheres" wire tag. They are told apart by
		// shape: Spheres always carry phiStart, Cubes never do.
		if _, hasPhi := d["phiStart"]; !hasPhi {
			return decodeCubes(d)
		}
		return decodeSpheres(d)
	case "cylinders":
		return decodeCylinders(d)
	case "lines":
		return decodeLines(d)
	case "surface":
		return decodeSurface(d)
	case "convex":
		return decodeConvex(d)
	case "arrows":
		return Arrows{}, nil
	case "labels":
		return Labels{}, nil
	}
	return nil, fmt.Errorf("scene: decode: unknown primitive type %q", t)
}

func decodeSpheres(d map[string]any) (Primitive, error) {
	p := Spheres{}
	var err error
	if p.Positions, err = asVecs(d["positions"]); err != nil {
		return nil, fmt.Errorf("spheres: positions: %w", err)
	}
	if p.Color, err = optStr(d, "color"); err != nil {
		return nil, fmt.Errorf("spheres: %w", err)
	}
	if p.Radius, err = optNum(d, "radius"); err != nil {
		return nil, fmt.Errorf("spheres: %w", err)
	}
	if v, ok := d["phiStart"]; ok {
		f, ok := asFloat(v)
		if !ok {
			return nil, fmt.Errorf("spheres: phiStart is %T, not a number", v)
		}
		p.PhiStart = f
	}
	if p.PhiEnd, err = optNum(d, "phiEnd"); err != nil {
		return nil, fmt.Errorf("spheres: %w", err)
	}
	if v, ok := d["ellipsoids"]; ok {
		e, err := decodeEllipsoids(v)
		if err != nil {
			return nil, fmt.Errorf("spheres: ellipsoids: %w", err)
		}
		p.Ellipsoids = e
	}
	return p, nil
}

func decodeEllipsoids(v any) (*Ellipsoids, error) {
	d, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected object, got %T", v)
	}
	e := &Ellipsoids{}
	var err error
	if e.Rotations, err = asPtrVecs(d["rotations"]); err != nil {
		return nil, fmt.Errorf("rotations: %w", err)
	}
	if e.Scales, err = asPtrVecs(d["scales"]); err != nil {
		return nil, fmt.Errorf("scales: %w", err)
	}
	return e, nil
}

func decodeCylinders(d map[string]any) (Primitive, error) {
	p := Cylinders{}
	var err error
	if p.PositionPairs, err = asPairs(d["positionPairs"]); err != nil {
		return nil, fmt.Errorf("cylinders: positionPairs: %w", err)
	}
	if p.Color, err = optStr(d, "color"); err != nil {
		return nil, fmt.Errorf("cylinders: %w", err)
	}
	if p.Radius, err = optNum(d, "radius"); err != nil {
		return nil, fmt.Errorf("cylinders: %w", err)
	}
	return p, nil
}

func decodeCubes(d map[string]any) (Primitive, error) {
	p := Cubes{}
	var err error
	if p.Positions, err = asVecs(d["positions"]); err != nil {
		return nil, fmt.Errorf("cubes: positions: %w", err)
	}
	if p.Color, err = optStr(d, "color"); err != nil {
		return nil, fmt.Errorf("cubes: %w", err)
	}
	if p.Width, err = optNum(d, "width"); err != nil {
		return nil, fmt.Errorf("cubes: %w", err)
	}
	return p, nil
}

func decodeLines(d map[string]any) (Primitive, error) {
	p := Lines{}
	var err error
	if p.Positions, err = asVecs(d["positions"]); err != nil {
		return nil, fmt.Errorf("lines: positions: %w", err)
	}
	for key, dst := range map[string]**float64{
		"lineWidth": &p.LineWidth,
		"scale":     &p.Scale,
		"dashSize":  &p.DashSize,
		"gapSize":   &p.GapSize,
	} {
		if *dst, err = optNum(d, key); err != nil {
			return nil, fmt.Errorf("lines: %w", err)
		}
	}
	if p.Color, err = optStr(d, "color"); err != nil {
		return nil, fmt.Errorf("lines: %w", err)
	}
	return p, nil
}

func decodeSurface(d map[string]any) (Primitive, error) {
	p := Surface{}
	var err error
	if p.Positions, err = asVecs(d["positions"]); err != nil {
		return nil, fmt.Errorf("surface: positions: %w", err)
	}
	if p.Normals, err = asVecs(d["normals"]); err != nil {
		return nil, fmt.Errorf("surface: normals: %w", err)
	}
	if p.Color, err = optStr(d, "color"); err != nil {
		return nil, fmt.Errorf("surface: %w", err)
	}
	if p.Opacity, err = optNum(d, "opacity"); err != nil {
		return nil, fmt.Errorf("surface: %w", err)
	}
	return p, nil
}

func decodeConvex(d map[string]any) (Primitive, error) {
	p := Convex{}
	var err error
	if p.Positions, err = asVecs(d["positions"]); err != nil {
		return nil, fmt.Errorf("convex: positions: %w", err)
	}
	if p.Color, err = optStr(d, "color"); err != nil {
		return nil, fmt.Errorf("convex: %w", err)
	}
	if p.Opacity, err = optNum(d, "opacity"); err != nil {
		return nil, fmt.Errorf("convex: %w", err)
	}
	return p, nil
}

// ---------------------------------------------------------------------------
// Loose value extraction. Serialized structures reach the decoder either as
// the typed values Serialize produced or as the generic values
// encoding/json produces, so each helper accepts both shapes.
// ---------------------------------------------------------------------------

func optStr(d map[string]any, key string) (*string, error) {
	v, ok := d[key]
	if !ok {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%s is %T, not a string", key, v)
	}
	return &s, nil
}

func optNum(d map[string]any, key string) (*float64, error) {
	v, ok := d[key]
	if !ok {
		return nil, nil
	}
	f, ok := asFloat(v)
	if !ok {
		return nil, fmt.Errorf("%s is %T, not a number", key, v)
	}
	return &f, nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func asList(v any) ([]any, error) {
	switch l := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return l, nil
	}
	return nil, fmt.Errorf("expected list, got %T", v)
}

func asVec(v any) (Vec3, error) {
	switch w := v.(type) {
	case Vec3:
		return w, nil
	case *Vec3:
		if w == nil {
			return Vec3{}, fmt.Errorf("unexpected null vector")
		}
		return *w, nil
	case []any:
		if len(w) != 3 {
			return Vec3{}, fmt.Errorf("vector has %d components, want 3", len(w))
		}
		var out Vec3
		for i, c := range w {
			f, ok := asFloat(c)
			if !ok {
				return Vec3{}, fmt.Errorf("vector component %d is %T, not a number", i, c)
			}
			out[i] = f
		}
		return out, nil
	case []float64:
		if len(w) != 3 {
			return Vec3{}, fmt.Errorf("vector has %d components, want 3", len(w))
		}
		return Vec3{w[0], w[1], w[2]}, nil
	}
	return Vec3{}, fmt.Errorf("expected vector, got %T", v)
}

func asVecs(v any) ([]Vec3, error) {
	switch l := v.(type) {
	case nil:
		return nil, nil
	case []Vec3:
		return l, nil
	case []any:
		out := make([]Vec3, len(l))
		for i, item := range l {
			vec, err := asVec(item)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			out[i] = vec
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected vector list, got %T", v)
}

func asPtrVecs(v any) ([]*Vec3, error) {
	switch l := v.(type) {
	case nil:
		return nil, nil
	case []*Vec3:
		return l, nil
	case []any:
		out := make([]*Vec3, len(l))
		for i, item := range l {
			if item == nil {
				continue
			}
			vec, err := asVec(item)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			out[i] = &vec
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected vector list, got %T", v)
}

func asPairs(v any) ([][2]Vec3, error) {
	switch l := v.(type) {
	case nil:
		return nil, nil
	case [][2]Vec3:
		return l, nil
	case []any:
		out := make([][2]Vec3, len(l))
		for i, item := range l {
			pair, err := asList(item)
			if err != nil {
				return nil, fmt.Errorf("pair %d: %w", i, err)
			}
			if len(pair) != 2 {
				return nil, fmt.Errorf("pair %d has %d entries, want 2", i, len(pair))
			}
			start, err := asVec(pair[0])
			if err != nil {
				return nil, fmt.Errorf("pair %d start: %w", i, err)
			}
			end, err := asVec(pair[1])
			if err != nil {
				return nil, fmt.Errorf("pair %d end: %w", i, err)
			}
			out[i] = [2]Vec3{start, end}
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected position pair list, got %T", v)
}

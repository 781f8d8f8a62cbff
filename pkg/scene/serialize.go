package scene

import "encoding/json"

// Serialize converts a scene tree into a JSON-compatible structure for the
// Simple3DScene renderer. Unset optional fields are pruned so their absence
// tells the renderer to apply its own default; a field explicitly set to
// zero is kept. Pruning is by unset-ness, never by value: phiStart 0
// serializes as 0. A sub-structure whose fields all pruned away is dropped
// entirely rather than emitted as {}. Serialization of a well-formed tree
// never fails and never mutates the scene.
func Serialize(s *Scene) map[string]any {
	return sceneDict(s)
}

// MarshalJSON encodes the pruned form of the scene. Output is
// deterministic: encoding/json emits map keys in sorted order.
func (s *Scene) MarshalJSON() ([]byte, error) {
	return json.Marshal(Serialize(s))
}

func sceneDict(s *Scene) map[string]any {
	d := map[string]any{"name": s.Name}
	var items []any
	for _, c := range s.Contents {
		switch v := c.(type) {
		case *Scene:
			items = append(items, sceneDict(v))
		case Primitive:
			items = append(items, primitiveDict(v))
		}
	}
	// contents is present only when the scene is non-empty.
	if len(items) > 0 {
		d["contents"] = items
	}
	return d
}

func primitiveDict(p Primitive) map[string]any {
	d := map[string]any{}
	switch v := p.(type) {
	case Spheres:
		putVecs(d, "positions", v.Positions)
		putStr(d, "color", v.Color)
		putNum(d, "radius", v.Radius)
		d["phiStart"] = v.PhiStart
		putNum(d, "phiEnd", v.PhiEnd)
		if e := ellipsoidsDict(v.Ellipsoids); e != nil {
			d["ellipsoids"] = e
		}
	case Cylinders:
		if v.PositionPairs != nil {
			d["positionPairs"] = v.PositionPairs
		}
		putStr(d, "color", v.Color)
		putNum(d, "radius", v.Radius)
	case Cubes:
		putVecs(d, "positions", v.Positions)
		putStr(d, "color", v.Color)
		putNum(d, "width", v.Width)
	case Lines:
		putVecs(d, "positions", v.Positions)
		putStr(d, "color", v.Color)
		putNum(d, "lineWidth", v.LineWidth)
		putNum(d, "scale", v.Scale)
		putNum(d, "dashSize", v.DashSize)
		putNum(d, "gapSize", v.GapSize)
	case Surface:
		putVecs(d, "positions", v.Positions)
		putVecs(d, "normals", v.Normals)
		putStr(d, "color", v.Color)
		putNum(d, "opacity", v.Opacity)
	case Convex:
		putVecs(d, "positions", v.Positions)
		putStr(d, "color", v.Color)
		putNum(d, "opacity", v.Opacity)
	}
	// The discriminant is derived from the variant, never settable, and
	// never pruned.
	d["type"] = p.Kind().Tag()
	return d
}

// ellipsoidsDict serializes an Ellipsoids block, or returns nil when the
// block is absent or prunes to nothing so that emptiness propagates upward.
func ellipsoidsDict(e *Ellipsoids) map[string]any {
	if e == nil {
		return nil
	}
	d := map[string]any{}
	if e.Rotations != nil {
		d["rotations"] = e.Rotations
	}
	if e.Scales != nil {
		d["scales"] = e.Scales
	}
	if len(d) == 0 {
		return nil
	}
	return d
}

// putVecs stores a vector list under key. A nil slice is unset and pruned;
// a non-nil empty slice was set deliberately and serializes as [].
func putVecs(d map[string]any, key string, vs []Vec3) {
	if vs != nil {
		d[key] = vs
	}
}

func putStr(d map[string]any, key string, s *string) {
	if s != nil {
		d[key] = *s
	}
}

func putNum(d map[string]any, key string, f *float64) {
	if f != nil {
		d[key] = *f
	}
}

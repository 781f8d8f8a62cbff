package scene

import "fmt"

// Merge batches primitives that differ only in position into fewer, larger
// primitives. Spheres are grouped by (color, radius, phiStart, phiEnd) and
// cylinders by (color, radius), with floats rounded to two decimals for the
// grouping key; every other kind passes through untouched. The output is
// merged sphere groups in first-seen order, then merged cylinder groups in
// first-seen order, then the unmerged remainder in its original relative
// order. Merge is pure: inputs are never mutated and merged groups are
// fresh instances.
//
// Merge operates on one flat list; MergeScene recurses a whole tree.
func Merge(primitives []Primitive) []Primitive {
	spheres := newGroups[Spheres]()
	cylinders := newGroups[Cylinders]()
	var remainder []Primitive

	for _, p := range primitives {
		switch v := p.(type) {
		case Spheres:
			key := fmt.Sprintf("%s_%s_%.2f_%s",
				keyStr(v.Color), keyNum(v.Radius), v.PhiStart, keyNum(v.PhiEnd))
			spheres.add(key, v)
		case Cylinders:
			key := fmt.Sprintf("%s_%s", keyStr(v.Color), keyNum(v.Radius))
			cylinders.add(key, v)
		default:
			remainder = append(remainder, p)
		}
	}

	out := make([]Primitive, 0, spheres.len()+cylinders.len()+len(remainder))
	for _, group := range spheres.ordered() {
		out = append(out, mergeSpheres(group))
	}
	for _, group := range cylinders.ordered() {
		out = append(out, mergeCylinders(group))
	}
	return append(out, remainder...)
}

// MergeScene returns a copy of s with every contents list merged. The
// direct primitives of each scene go through Merge; nested scenes are
// merged recursively and keep their geometry, following the merged
// batches in their original relative order. MergeScene is pure like
// Merge: s is never mutated.
func MergeScene(s *Scene) *Scene {
	out := New(s.Name)
	for _, p := range Merge(s.Primitives()) {
		out.Contents = append(out.Contents, p)
	}
	for _, c := range s.Contents {
		if child, ok := c.(*Scene); ok {
			out.Contents = append(out.Contents, MergeScene(child))
		}
	}
	return out
}

// mergeSpheres concatenates the positions of a group, taking the styling
// fields from the first member (all members agree on the rounded key).
func mergeSpheres(group []Spheres) Spheres {
	var positions []Vec3
	for _, s := range group {
		positions = append(positions, s.Positions...)
	}

	// Ellipsoid lists are concatenated parallel to positions. A member
	// without ellipsoids contributes nil entries for each of its
	// positions; the block is kept only if any rotation survives.
	var rotations, scales []*Vec3
	anyRotation := false
	for _, s := range group {
		if s.Ellipsoids == nil {
			rotations = append(rotations, make([]*Vec3, len(s.Positions))...)
			scales = append(scales, make([]*Vec3, len(s.Positions))...)
			continue
		}
		for _, r := range s.Ellipsoids.Rotations {
			if r != nil {
				anyRotation = true
			}
		}
		rotations = append(rotations, s.Ellipsoids.Rotations...)
		scales = append(scales, s.Ellipsoids.Scales...)
	}

	merged := Spheres{
		Positions: positions,
		Color:     group[0].Color,
		Radius:    group[0].Radius,
		PhiStart:  group[0].PhiStart,
		PhiEnd:    group[0].PhiEnd,
	}
	if anyRotation {
		merged.Ellipsoids = &Ellipsoids{Rotations: rotations, Scales: scales}
	}
	return merged
}

func mergeCylinders(group []Cylinders) Cylinders {
	var pairs [][2]Vec3
	for _, c := range group {
		pairs = append(pairs, c.PositionPairs...)
	}
	return Cylinders{
		PositionPairs: pairs,
		Color:         group[0].Color,
		Radius:        group[0].Radius,
	}
}

// groups buckets values by string key, remembering first-seen key order.
type groups[T any] struct {
	byKey map[string][]T
	order []string
}

func newGroups[T any]() *groups[T] {
	return &groups[T]{byKey: make(map[string][]T)}
}

func (g *groups[T]) add(key string, v T) {
	if _, ok := g.byKey[key]; !ok {
		g.order = append(g.order, key)
	}
	g.byKey[key] = append(g.byKey[key], v)
}

func (g *groups[T]) len() int { return len(g.order) }

func (g *groups[T]) ordered() [][]T {
	out := make([][]T, 0, len(g.order))
	for _, key := range g.order {
		out = append(out, g.byKey[key])
	}
	return out
}

// keyStr renders an optional string for a grouping key. Set values carry
// a prefix so no literal, "<nil>" included, lands in the unset bucket.
func keyStr(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return "s:" + *s
}

// keyNum renders an optional float rounded to two decimals.
func keyNum(f *float64) string {
	if f == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%.2f", *f)
}

package scene

// Kind enumerates the geometric primitive kinds.
type Kind int

const (
	KindSpheres Kind = iota
	KindCylinders
	KindCubes
	KindLines
	KindSurface
	KindConvex
	KindArrows
	KindLabels
)

func (k Kind) String() string {
	switch k {
	case KindSpheres:
		return "spheres"
	case KindCylinders:
		return "cylinders"
	case KindCubes:
		return "cubes"
	case KindLines:
		return "lines"
	case KindSurface:
		return "surface"
	case KindConvex:
		return "convex"
	case KindArrows:
		return "arrows"
	case KindLabels:
		return "labels"
	default:
		return "unknown"
	}
}

// Tag returns the wire discriminant emitted in serialized output.
// Cubes deliberately reports "spheres": the renderer's wire contract has
// always received that tag for cube batches, so fixing it here would break
// the collaborator. Kind.String() still reports "cubes" for diagnostics.
func (k Kind) Tag() string {
	if k == KindCubes {
		return KindSpheres.String()
	}
	return k.String()
}

// Content is the sealed interface for entries of Scene.Contents.
// It is implemented by every Primitive and by *Scene.
type Content interface {
	content() // marker method restricting implementations to this package
}

// Primitive is the closed set of renderable geometry batches.
type Primitive interface {
	Content
	Kind() Kind
}

// Num returns a pointer to f, for optional float fields.
func Num(f float64) *float64 { return &f }

// Str returns a pointer to s, for optional string fields.
func Str(s string) *string { return &s }

// Ellipsoids distorts each sphere of a batch into an ellipsoid. Rotations
// are vectors relative to (1, 0, 0) aligning the major axis; Scales scale
// along x, y, z. Both lists run parallel to the sphere positions. Entries
// are pointers so a merged batch can carry per-position gaps for members
// that had no distortion.
type Ellipsoids struct {
	Rotations []*Vec3
	Scales    []*Vec3
}

// NewEllipsoids builds an Ellipsoids from plain vector lists.
func NewEllipsoids(rotations, scales []Vec3) *Ellipsoids {
	e := &Ellipsoids{
		Rotations: make([]*Vec3, len(rotations)),
		Scales:    make([]*Vec3, len(scales)),
	}
	for i := range rotations {
		r := rotations[i]
		e.Rotations[i] = &r
	}
	for i := range scales {
		s := scales[i]
		e.Scales[i] = &s
	}
	return e
}

// Spheres is a batch of spheres sharing color, radius and segment angles.
// Unset optional fields mean "use the renderer's default" (radius 1,
// phiEnd 2π) and are omitted from serialized output. PhiStart is not
// optional: its constructor default is 0 and it is always emitted.
type Spheres struct {
	Positions  []Vec3
	Color      *string // hex string, e.g. "#ff0000"
	Radius     *float64
	PhiStart   float64
	PhiEnd     *float64
	Ellipsoids *Ellipsoids
}

func (Spheres) content()   {}
func (Spheres) Kind() Kind { return KindSpheres }

// Cylinders is a batch of cylinders sharing color and radius. Each entry
// of PositionPairs is the (start, end) of one cylinder.
type Cylinders struct {
	PositionPairs [][2]Vec3
	Color         *string
	Radius        *float64
}

func (Cylinders) content()   {}
func (Cylinders) Kind() Kind { return KindCylinders }

// Cubes is a batch of cubes sharing color and width.
type Cubes struct {
	Positions []Vec3
	Color     *string
	Width     *float64
}

func (Cubes) content()   {}
func (Cubes) Kind() Kind { return KindCubes }

// Lines is a batch of independent line segments: each consecutive pair of
// positions is one segment. Scale, DashSize and GapSize control dashing.
type Lines struct {
	Positions []Vec3
	Color     *string
	LineWidth *float64
	Scale     *float64
	DashSize  *float64
	GapSize   *float64
}

func (Lines) content()   {}
func (Lines) Kind() Kind { return KindLines }

// Surface is a triangle surface given by its vertices. Normals, when
// present, run parallel to Positions.
type Surface struct {
	Positions []Vec3
	Normals   []Vec3
	Color     *string
	Opacity   *float64
}

func (Surface) content()   {}
func (Surface) Kind() Kind { return KindSurface }

// Convex is the convex hull of a point set. The renderer expects at least
// four points; that convention is checked by Validate, not at construction.
type Convex struct {
	Positions []Vec3
	Color     *string
	Opacity   *float64
}

func (Convex) content()   {}
func (Convex) Kind() Kind { return KindConvex }

// Arrows is a placeholder kind not yet supported by the renderer.
type Arrows struct{}

func (Arrows) content()   {}
func (Arrows) Kind() Kind { return KindArrows }

// Labels is a placeholder kind not yet supported by the renderer.
type Labels struct{}

func (Labels) content()   {}
func (Labels) Kind() Kind { return KindLabels }

// Package style applies declarative style sheets to scene primitives.
// A sheet names a color palette and per-kind defaults; applying a sheet
// fills only the fields a primitive left unset, so explicit styling
// always wins.
package style

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/eshark9312/crystaltoolkit/pkg/scene"
)

// Style holds per-kind default values. Nil fields leave the primitive
// untouched so the renderer's own defaults still apply downstream.
type Style struct {
	Color     string   `yaml:"color,omitempty"`
	Radius    *float64 `yaml:"radius,omitempty"`
	Width     *float64 `yaml:"width,omitempty"`
	PhiEnd    *float64 `yaml:"phiEnd,omitempty"`
	LineWidth *float64 `yaml:"lineWidth,omitempty"`
	Scale     *float64 `yaml:"scale,omitempty"`
	DashSize  *float64 `yaml:"dashSize,omitempty"`
	GapSize   *float64 `yaml:"gapSize,omitempty"`
	Opacity   *float64 `yaml:"opacity,omitempty"`
}

// Sheet is a parsed style sheet. Kinds is keyed by primitive kind name
// ("spheres", "cylinders", "cubes", "lines", "surface", "convex").
type Sheet struct {
	Palette []string         `yaml:"palette,omitempty"`
	Kinds   map[string]Style `yaml:"kinds,omitempty"`
}

// knownKinds lists the kind names a sheet may style.
var knownKinds = map[string]bool{
	scene.KindSpheres.String():   true,
	scene.KindCylinders.String(): true,
	scene.KindCubes.String():     true,
	scene.KindLines.String():     true,
	scene.KindSurface.String():   true,
	scene.KindConvex.String():    true,
}

// Parse decodes a YAML style sheet and rejects unknown kind names.
func Parse(data []byte) (*Sheet, error) {
	var sh Sheet
	if err := yaml.Unmarshal(data, &sh); err != nil {
		return nil, fmt.Errorf("style: parse sheet: %w", err)
	}
	for name := range sh.Kinds {
		if !knownKinds[name] {
			return nil, fmt.Errorf("style: unknown primitive kind %q", name)
		}
	}
	return &sh, nil
}

// Default mirrors the renderer's built-in defaults, so applying it makes
// the implicit styling explicit in serialized output.
var Default = &Sheet{
	Palette: []string{
		"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
		"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
	},
	Kinds: map[string]Style{
		scene.KindSpheres.String():   {Radius: f(1), PhiEnd: f(2 * math.Pi)},
		scene.KindCylinders.String(): {Radius: f(1)},
		scene.KindCubes.String():     {Width: f(1)},
		scene.KindLines.String():     {LineWidth: f(1)},
		scene.KindSurface.String():   {Opacity: f(1)},
		scene.KindConvex.String():    {Opacity: f(1)},
	},
}

func f(v float64) *float64 { return &v }

// ColorFor returns the i-th palette color, cycling. It returns nil when
// the sheet has no palette.
func (sh *Sheet) ColorFor(i int) *string {
	if len(sh.Palette) == 0 {
		return nil
	}
	return scene.Str(sh.Palette[i%len(sh.Palette)])
}

// Apply returns a copy of p with unset style fields filled from the
// sheet. Fields the primitive already set are never overwritten, and p
// itself is not mutated. Kinds absent from the sheet pass through
// unchanged, as do kinds with no style fields.
func (sh *Sheet) Apply(p scene.Primitive) scene.Primitive {
	st, ok := sh.Kinds[p.Kind().String()]
	if !ok {
		return p
	}

	switch v := p.(type) {
	case scene.Spheres:
		fillStr(&v.Color, st.Color)
		fillNum(&v.Radius, st.Radius)
		fillNum(&v.PhiEnd, st.PhiEnd)
		return v
	case scene.Cylinders:
		fillStr(&v.Color, st.Color)
		fillNum(&v.Radius, st.Radius)
		return v
	case scene.Cubes:
		fillStr(&v.Color, st.Color)
		fillNum(&v.Width, st.Width)
		return v
	case scene.Lines:
		fillStr(&v.Color, st.Color)
		fillNum(&v.LineWidth, st.LineWidth)
		fillNum(&v.Scale, st.Scale)
		fillNum(&v.DashSize, st.DashSize)
		fillNum(&v.GapSize, st.GapSize)
		return v
	case scene.Surface:
		fillStr(&v.Color, st.Color)
		fillNum(&v.Opacity, st.Opacity)
		return v
	case scene.Convex:
		fillStr(&v.Color, st.Color)
		fillNum(&v.Opacity, st.Opacity)
		return v
	default:
		return p
	}
}

// ApplyScene walks a scene tree and applies the sheet to every
// primitive, returning a new tree. Nested scenes are rebuilt, unstyled
// contents are carried over as-is.
func (sh *Sheet) ApplyScene(s *scene.Scene) *scene.Scene {
	out := scene.New(s.Name)
	for _, c := range s.Contents {
		switch v := c.(type) {
		case *scene.Scene:
			out.Contents = append(out.Contents, sh.ApplyScene(v))
		case scene.Primitive:
			out.Contents = append(out.Contents, sh.Apply(v))
		default:
			out.Contents = append(out.Contents, c)
		}
	}
	return out
}

func fillStr(dst **string, v string) {
	if *dst == nil && v != "" {
		*dst = scene.Str(v)
	}
}

func fillNum(dst **float64, v *float64) {
	if *dst == nil && v != nil {
		val := *v
		*dst = &val
	}
}

package scene

import "fmt"

// ValidationSeverity indicates whether a validation finding makes the tree
// unserviceable for the renderer or is merely advisory.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // renderer cannot draw this
	SeverityWarning                           // advisory
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding. Path locates the
// offending node as slash-joined scene names plus a contents index, e.g.
// "root/atoms/contents[2]".
type ValidationError struct {
	Path     string
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Path, e.Message)
}

// Validate runs structural checks over a scene tree and returns all
// findings. Construction itself never validates (malformed values are
// accepted and surface at the renderer), so callers that want eager
// checking run Validate explicitly. Validate is read-only.
func Validate(s *Scene) []ValidationError {
	return validateScene(s, s.Name)
}

func validateScene(s *Scene, path string) []ValidationError {
	var errs []ValidationError
	for i, c := range s.Contents {
		cpath := fmt.Sprintf("%s/contents[%d]", path, i)
		switch v := c.(type) {
		case nil:
			errs = append(errs, ValidationError{
				Path:     cpath,
				Message:  "content entry is nil",
				Severity: SeverityError,
			})
		case *Scene:
			errs = append(errs, validateScene(v, path+"/"+v.Name)...)
		case Primitive:
			errs = append(errs, validatePrimitive(v, cpath)...)
		}
	}
	return errs
}

func validatePrimitive(p Primitive, path string) []ValidationError {
	var errs []ValidationError
	switch v := p.(type) {
	case Spheres:
		if v.Ellipsoids != nil {
			if n := len(v.Ellipsoids.Rotations); n != len(v.Positions) {
				errs = append(errs, ValidationError{
					Path:     path,
					Message:  fmt.Sprintf("ellipsoids has %d rotations for %d positions", n, len(v.Positions)),
					Severity: SeverityError,
				})
			}
			if n := len(v.Ellipsoids.Scales); n != len(v.Positions) {
				errs = append(errs, ValidationError{
					Path:     path,
					Message:  fmt.Sprintf("ellipsoids has %d scales for %d positions", n, len(v.Positions)),
					Severity: SeverityError,
				})
			}
		}
	case Surface:
		if v.Normals != nil && len(v.Normals) != len(v.Positions) {
			errs = append(errs, ValidationError{
				Path:     path,
				Message:  fmt.Sprintf("surface has %d normals for %d positions", len(v.Normals), len(v.Positions)),
				Severity: SeverityError,
			})
		}
	case Lines:
		if len(v.Positions)%2 != 0 {
			errs = append(errs, ValidationError{
				Path:     path,
				Message:  fmt.Sprintf("lines has %d positions; segments need an even count", len(v.Positions)),
				Severity: SeverityWarning,
			})
		}
	case Convex:
		if len(v.Positions) < 4 {
			errs = append(errs, ValidationError{
				Path:     path,
				Message:  fmt.Sprintf("convex hull has %d points; the renderer expects at least 4", len(v.Positions)),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

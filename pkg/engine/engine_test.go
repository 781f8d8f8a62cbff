package engine

import (
	"testing"
)

func TestEvaluateEmptyString(t *testing.T) {
	eng := NewEngine()

	s, evalErrs, err := eng.Evaluate("")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if s == nil {
		t.Fatal("expected non-nil scene")
	}
	if s.Name != DefaultSceneName {
		t.Errorf("scene name = %q, want %q", s.Name, DefaultSceneName)
	}
	if len(s.Contents) != 0 {
		t.Errorf("expected empty scene, got %d contents", len(s.Contents))
	}
}

func TestEvaluateWhitespaceOnly(t *testing.T) {
	eng := NewEngine()

	s, evalErrs, err := eng.Evaluate("   \n\t  \n  ")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if s == nil || len(s.Contents) != 0 {
		t.Fatalf("expected empty scene, got %v", s)
	}
}

func TestEvaluatePlainExpression(t *testing.T) {
	eng := NewEngine()

	// Valid Lisp that builds no scene content yields an empty root.
	s, evalErrs, err := eng.Evaluate("(+ 1 2)")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if len(s.Contents) != 0 {
		t.Errorf("expected empty scene, got %d contents", len(s.Contents))
	}
}

func TestEvaluateParseError(t *testing.T) {
	eng := NewEngine()

	s, evalErrs, err := eng.Evaluate("(spheres :positions")
	if err != nil {
		t.Fatalf("parse failures must be eval errors, got fatal: %v", err)
	}
	if s != nil {
		t.Errorf("expected nil scene on parse failure, got %v", s)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors for unbalanced source")
	}
}

func TestEvaluateBuiltinError(t *testing.T) {
	eng := NewEngine()

	s, evalErrs, err := eng.Evaluate(`(spheres :radius "not-a-number")`)
	if err != nil {
		t.Fatalf("builtin failures must be eval errors, got fatal: %v", err)
	}
	if s != nil {
		t.Errorf("expected nil scene, got %v", s)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors for bad radius")
	}
}

func TestEvaluateIsRepeatable(t *testing.T) {
	// Each evaluation runs in a fresh sandbox: primitives from a previous
	// run must not leak into the next.
	eng := NewEngine()

	source := `(spheres :positions (list (vec3 0 0 0)))`
	for i := 0; i < 3; i++ {
		s, evalErrs, err := eng.Evaluate(source)
		if err != nil || len(evalErrs) > 0 {
			t.Fatalf("run %d: err=%v evalErrs=%v", i, err, evalErrs)
		}
		if len(s.Contents) != 1 {
			t.Fatalf("run %d: contents = %d, want 1", i, len(s.Contents))
		}
	}
}

func TestEvalErrorFormat(t *testing.T) {
	e := EvalError{Line: 3, Message: "boom"}
	if got := e.Error(); got != "line 3: boom" {
		t.Errorf("Error() = %q", got)
	}
	e = EvalError{Message: "boom"}
	if got := e.Error(); got != "boom" {
		t.Errorf("Error() = %q", got)
	}
}

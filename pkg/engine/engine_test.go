package engine

import (
	"math"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestEvaluateEmptyString(t *testing.T) {
	eng := New()

	sc, evalErrs, err := eng.Evaluate("")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if sc == nil {
		t.Fatal("expected non-nil scene")
	}
	if sc.PieceCount() != 0 {
		t.Errorf("expected empty scene, got %d pieces", sc.PieceCount())
	}
}

func TestEvaluateWhitespaceOnly(t *testing.T) {
	eng := New()

	sc, evalErrs, err := eng.Evaluate("   \n\t  \n  ")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if sc == nil {
		t.Fatal("expected non-nil scene")
	}
	if sc.PieceCount() != 0 {
		t.Errorf("expected empty scene, got %d pieces", sc.PieceCount())
	}
}

func TestEvaluateValidExpression(t *testing.T) {
	eng := New()

	// Plain Lisp with no piece forms leaves the scene empty.
	sc, evalErrs, err := eng.Evaluate("(+ 1 2)")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if sc.PieceCount() != 0 {
		t.Errorf("expected empty scene, got %d pieces", sc.PieceCount())
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := New()

	// Unmatched paren is a parse error.
	sc, evalErrs, err := eng.Evaluate("(+ 1 2")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if sc != nil {
		t.Fatal("expected nil scene on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for syntax error")
	}
	if evalErrs[0].Message == "" {
		t.Error("eval error message should not be empty")
	}
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	eng := New()

	sc, evalErrs, err := eng.Evaluate("(+ 1 undefined-symbol)")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if sc != nil {
		t.Fatal("expected nil scene on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for undefined symbol")
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Col: 0, Message: "something went wrong"}
	s := e.Error()
	if !strings.Contains(s, "line 5") {
		t.Errorf("Error() should contain line info, got: %s", s)
	}
	if !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() should contain message, got: %s", s)
	}

	// No line info.
	e2 := EvalError{Line: 0, Col: 0, Message: "no location"}
	s2 := e2.Error()
	if strings.Contains(s2, "line") {
		t.Errorf("Error() with no line should not contain 'line', got: %s", s2)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := New()

	source := `
(piece "crate"
  (place (box :width 1 :height 1 :depth 1)
         :at (vec3 0 0.5 0) :color (rgb 0.5 0.4 0.3)))
`
	var firstVertex [3]float32
	for i := 0; i < 5; i++ {
		sc, evalErrs, err := eng.Evaluate(source)
		if err != nil {
			t.Fatalf("iteration %d: unexpected fatal error: %v", i, err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("iteration %d: unexpected eval errors: %v", i, evalErrs)
		}
		if sc.PieceCount() != 1 {
			t.Fatalf("iteration %d: expected 1 piece, got %d", i, sc.PieceCount())
		}

		p := sc.Lookup("crate")
		if p == nil {
			t.Fatalf("iteration %d: missing piece", i)
		}
		g := p.Parts[0].Geometry
		v := [3]float32{float32(g.Positions[0].X), float32(g.Positions[0].Y), float32(g.Positions[0].Z)}
		if i == 0 {
			firstVertex = v
		} else if v != firstVertex {
			t.Fatalf("iteration %d: geometry differs from first run", i)
		}
	}
}

func TestEvaluateTimeout(t *testing.T) {
	// Exercise the timeout plumbing directly with a channel that never
	// sends, rather than a script zygomys would have to spin on.
	var mu sync.Mutex
	var gen uint64 = 1
	ch := make(chan evalResult)

	done := make(chan struct{})
	var resultErr error

	go func() {
		defer close(done)
		_, _, resultErr = waitWithTimeout(ch, 1, &mu, &gen)
	}()

	select {
	case <-done:
		if resultErr == nil {
			t.Fatal("expected timeout error, got nil")
		}
		if !strings.Contains(resultErr.Error(), "timed out") {
			t.Errorf("expected timeout error message, got: %v", resultErr)
		}
	case <-time.After(EvalTimeout + 2*time.Second):
		t.Fatal("test itself timed out waiting for evaluation timeout")
	}
}

func TestEvaluateGenerationDiscardsStale(t *testing.T) {
	var mu sync.Mutex
	gen := uint64(2) // current generation is 2

	ch := make(chan evalResult, 1)
	ch <- evalResult{}

	// Pass generation 1 (stale).
	_, _, err := waitWithTimeout(ch, 1, &mu, &gen)
	if err == nil {
		t.Fatal("expected error for stale generation")
	}
	if !strings.Contains(err.Error(), "superseded") {
		t.Errorf("expected superseded error, got: %v", err)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
	}{
		{"full format", "Error on line 3: unexpected EOF", 3},
		{"short format", "line 12: undefined symbol", 12},
		{"no line info", "something broke", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d", len(errs))
			}
			if errs[0].Line != tt.wantLine {
				t.Errorf("line = %d, want %d", errs[0].Line, tt.wantLine)
			}
			if errs[0].Message == "" {
				t.Error("message should not be empty")
			}
		})
	}
}

// errString is a trivial error for feeding parseZygomysError.
type errString string

func (e errString) Error() string { return string(e) }

func TestEvaluateRotationDegrees(t *testing.T) {
	eng := New()

	source := `
(piece "turned"
  (place (box :width 1 :height 1 :depth 1) :rotate-y 90))
`
	sc, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}

	p := sc.Lookup("turned")
	if p == nil {
		t.Fatal("expected piece 'turned'")
	}
	got := p.Parts[0].RotationY
	if math.Abs(got-math.Pi/2) > 1e-12 {
		t.Errorf("rotation = %g rad, want pi/2", got)
	}
}

func TestEvaluateDuplicatePieceName(t *testing.T) {
	eng := New()

	source := `
(piece "twin" (place (box :width 1 :height 1 :depth 1)))
(piece "twin" (place (box :width 1 :height 1 :depth 1)))
`
	sc, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if sc != nil {
		t.Fatal("expected nil scene on duplicate piece name")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval error for duplicate piece name")
	}
}

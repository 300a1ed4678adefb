package zeta

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"
)

func TestNew_InvalidTerms(t *testing.T) {
	tests := []struct {
		name  string
		terms int
	}{
		{"zero", 0},
		{"negative", -8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := New(tt.terms)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrPrecision) {
				t.Errorf("error %v does not wrap ErrPrecision", err)
			}
			if ev != nil {
				t.Error("expected nil evaluator on error")
			}
		})
	}

	ev, err := New(64)
	if err != nil {
		t.Fatalf("New(64) error = %v", err)
	}
	if ev.Terms() != 64 {
		t.Errorf("Terms() = %d, want 64", ev.Terms())
	}
}

func TestEval_KnownValues(t *testing.T) {
	ev, err := New(64)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name string
		s    complex128
		want float64
		tol  float64
	}{
		{"zeta(2)", complex(2, 0), math.Pi * math.Pi / 6, 1e-12},
		{"zeta(3)", complex(3, 0), 1.2020569031595943, 1e-12},
		{"zeta(4)", complex(4, 0), math.Pow(math.Pi, 4) / 90, 1e-12},
		{"zeta(0)", complex(0, 0), -0.5, 1e-12},
		{"zeta(-1)", complex(-1, 0), -1.0 / 12, 1e-12},
		{"zeta(1/2)", complex(0.5, 0), -1.4603545088095868, 1e-10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ev.Eval(tt.s)
			if math.Abs(real(got)-tt.want) > tt.tol {
				t.Errorf("Eval(%v) = %v, want real part %v", tt.s, got, tt.want)
			}
			if math.Abs(imag(got)) > tt.tol {
				t.Errorf("Eval(%v) imaginary part = %v, want 0", tt.s, imag(got))
			}
		})
	}
}

func TestEval_FirstZeros(t *testing.T) {
	ev, err := New(64)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Imaginary parts of the first three nontrivial zeros.
	zeros := []float64{
		14.134725141734693,
		21.022039638771554,
		25.010857580145688,
	}

	for _, tz := range zeros {
		if mag := ev.Abs(complex(0.5, tz)); mag > 1e-6 {
			t.Errorf("|zeta(0.5+%vi)| = %v, want < 1e-6", tz, mag)
		}
	}

	// Between zeros the magnitude is well away from zero.
	if mag := ev.Abs(complex(0.5, 17.5)); mag < 0.5 {
		t.Errorf("|zeta(0.5+17.5i)| = %v, want > 0.5", mag)
	}
}

func TestEval_ConjugateSymmetry(t *testing.T) {
	ev, err := New(48)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	points := []complex128{
		complex(0.5, 10),
		complex(0.3, 21.5),
		complex(0.8, 5.25),
	}
	for _, s := range points {
		a := ev.Eval(s)
		b := cmplx.Conj(ev.Eval(cmplx.Conj(s)))
		if cmplx.Abs(a-b) > 1e-10 {
			t.Errorf("conjugate symmetry broken at %v: %v vs %v", s, a, b)
		}
	}
}

func TestEval_Deterministic(t *testing.T) {
	a, err := New(64)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	b, err := New(64)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	s := complex(0.5, 14.1)
	if a.Eval(s) != b.Eval(s) {
		t.Error("identical evaluators disagree")
	}
	if a.Eval(s) != a.Eval(s) {
		t.Error("repeated evaluation disagrees")
	}
}

func TestEval_TermsConvergence(t *testing.T) {
	lo, err := New(32)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	hi, err := New(128)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	s := complex(0.7, 33.3)
	if d := cmplx.Abs(lo.Eval(s) - hi.Eval(s)); d > 1e-12 {
		t.Errorf("truncation difference = %v, want < 1e-12", d)
	}
}

func BenchmarkEval(b *testing.B) {
	ev, _ := New(64)
	s := complex(0.5, 25.0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ev.Eval(s)
	}
}

func BenchmarkEval_HighT(b *testing.B) {
	ev, _ := New(64)
	s := complex(0.5, 1000.0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ev.Eval(s)
	}
}

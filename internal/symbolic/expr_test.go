package symbolic

import (
	"errors"
	"math"
	"testing"
)

func TestNumDiffIsZero(t *testing.T) {
	if got := N(5).Diff("x").String(); got != "0" {
		t.Errorf("d/dx(5) should be 0, got %s", got)
	}
}

func TestSymDiff(t *testing.T) {
	x := S("x")
	if got := x.Diff("x").String(); got != "1" {
		t.Errorf("d/dx(x) should be 1, got %s", got)
	}
	if got := x.Diff("y").String(); got != "0" {
		t.Errorf("d/dy(x) should be 0, got %s", got)
	}
}

func TestAddCollectsLikeTerms(t *testing.T) {
	x := S("x")
	if got := AddOf(x, x, N(1), N(2)).String(); got != "2*x + 3" {
		t.Errorf("want 2*x + 3, got %s", got)
	}
	if got := SubOf(x, x).String(); got != "0" {
		t.Errorf("x - x should be 0, got %s", got)
	}
}

func TestMulCombinesPowers(t *testing.T) {
	k := S("k")
	if got := MulOf(k, k).String(); got != "k^2" {
		t.Errorf("want k^2, got %s", got)
	}
	if got := MulOf(N(0), k).String(); got != "0" {
		t.Errorf("0*k should be 0, got %s", got)
	}
	if got := MulOf(k, PowOf(k, N(-1))).String(); got != "1" {
		t.Errorf("k/k should be 1, got %s", got)
	}
}

func TestRendering(t *testing.T) {
	a, b, c := S("a"), S("b"), S("c")
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"difference", SubOf(a, b), "a - b"},
		{"negation", Neg(a), "-a"},
		{"quotient", DivOf(a, b), "a/b"},
		{"quotient of sums", DivOf(SubOf(a, b), SubOf(c, b)), "(a - b)/(c - b)"},
		{"reciprocal", PowOf(a, N(-1)), "1/a"},
		{"negated sum", AddOf(c, Neg(AddOf(a, b))), "c - (a + b)"},
		{"exp", ExpOf(MulOf(Neg(a), b)), "exp(-a*b)"},
		{"ln of exp", LnOf(ExpOf(a)), "a"},
		{"exp of zero", ExpOf(N(0)), "1"},
	}

	for _, tt := range tests {
		if got := tt.expr.String(); got != tt.want {
			t.Errorf("%s: want %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestDiffChainRule(t *testing.T) {
	x := S("x")
	e := ExpOf(MulOf(N(3), x))
	if got := Diff(e, "x").String(); got != "3*exp(3*x)" {
		t.Errorf("want 3*exp(3*x), got %s", got)
	}

	l := LnOf(x)
	if got := Diff(l, "x").String(); got != "1/x" {
		t.Errorf("want 1/x, got %s", got)
	}
}

func TestDiffPowerRule(t *testing.T) {
	x := S("x")
	if got := Diff(PowOf(x, N(3)), "x").String(); got != "3*x^2" {
		t.Errorf("want 3*x^2, got %s", got)
	}
	if got := Diff2(PowOf(x, N(3)), "x").String(); got != "6*x" {
		t.Errorf("want 6*x, got %s", got)
	}
	if got := DiffN(PowOf(x, N(3)), "x", 4).String(); got != "0" {
		t.Errorf("fourth derivative of x^3 should be 0, got %s", got)
	}
}

func TestDiffNumericAgainstFiniteDifference(t *testing.T) {
	x := S("x")
	e := MulOf(PowOf(x, S("x")), LnOf(AddOf(x, N(1))))
	d := Diff(e, "x")

	const at, h = 1.7, 1e-6
	fwd, _ := e.Eval(Env{"x": at + h})
	bwd, _ := e.Eval(Env{"x": at - h})
	want := (fwd - bwd) / (2 * h)

	got, err := d.Eval(Env{"x": at})
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if math.Abs(got-want) > 1e-5 {
		t.Errorf("derivative at %.2f: want %.6f, got %.6f", at, want, got)
	}
}

func TestEvalErrors(t *testing.T) {
	x := S("x")

	if _, err := x.Eval(Env{}); !errors.Is(err, ErrUnboundSymbol) {
		t.Errorf("expected ErrUnboundSymbol, got %v", err)
	}
	if _, err := LnOf(x).Eval(Env{"x": -1}); !errors.Is(err, ErrDomain) {
		t.Errorf("expected ErrDomain for ln(-1), got %v", err)
	}
	if _, err := PowOf(x, N(-1)).Eval(Env{"x": 0}); !errors.Is(err, ErrDomain) {
		t.Errorf("expected ErrDomain for 1/0, got %v", err)
	}
	if _, err := x.Eval(Env{"x": math.NaN()}); !errors.Is(err, ErrDomain) {
		t.Errorf("expected ErrDomain for a NaN binding, got %v", err)
	}
	sum := AddOf(x, S("y"))
	if _, err := sum.Eval(Env{"x": math.MaxFloat64, "y": math.MaxFloat64}); !errors.Is(err, ErrDomain) {
		t.Errorf("expected ErrDomain for an overflowing sum, got %v", err)
	}
}

func TestSubstitute(t *testing.T) {
	a, b := S("a"), S("b")
	e := AddOf(a, MulOf(b, ExpOf(Neg(a))))
	got := Substitute(e, Env{"a": 0, "b": 2})
	if n, ok := got.(*Num); !ok || n.Value() != 2 {
		t.Errorf("want 2, got %s", got)
	}
}

func TestFreeSymbols(t *testing.T) {
	e := AddOf(S("b"), MulOf(S("a"), ExpOf(S("c"))))
	got := FreeSymbols(e)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("want %v, got %v", want, got)
		}
	}
}

func TestLaTeX(t *testing.T) {
	a, b := S("T_obs"), S("t")
	if got := DivOf(a, b).LaTeX(); got != `\frac{T_{obs}}{t}` {
		t.Errorf("unexpected latex %s", got)
	}
	if got := ExpOf(Neg(b)).LaTeX(); got != "e^{-t}" {
		t.Errorf("unexpected latex %s", got)
	}
}

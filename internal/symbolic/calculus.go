package symbolic

import "sort"

func Neg(e Expr) Expr                { return MulOf(N(-1), e) }
func SubOf(a, b Expr) Expr           { return AddOf(a, Neg(b)) }
func DivOf(a, b Expr) Expr           { return MulOf(a, PowOf(b, N(-1))) }
func Diff(e Expr, name string) Expr  { return e.Diff(name).Simplify() }
func Diff2(e Expr, name string) Expr { return DiffN(e, name, 2) }

// DiffN differentiates e n times with respect to name. n <= 0 returns e.
func DiffN(e Expr, name string, n int) Expr {
	out := e
	for i := 0; i < n; i++ {
		out = Diff(out, name)
	}
	return out
}

// Substitute replaces every symbol in values with a numeric constant.
func Substitute(e Expr, values Env) Expr {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	out := e
	for _, name := range names {
		out = out.Sub(name, N(values[name]))
	}
	return out.Simplify()
}

// FreeSymbols returns the sorted names of all symbols appearing in e.
func FreeSymbols(e Expr) []string {
	seen := map[string]struct{}{}
	collectSymbols(e, seen)
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}

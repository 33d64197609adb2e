// Package symbolic is a small computer-algebra kernel: expression trees with
// deterministic simplification, differentiation, substitution and numeric
// evaluation. It covers sums, products, powers, exp and ln, which is what the
// cooling model needs and not much more.
package symbolic

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrUnboundSymbol is returned by Eval when a symbol has no value in the Env.
	ErrUnboundSymbol = errors.New("symbolic: unbound symbol")

	// ErrDomain is returned by Eval when a function is applied outside its domain
	// or the result is not finite.
	ErrDomain = errors.New("symbolic: value outside function domain")
)

// Env binds symbol names to numeric values for Eval.
type Env map[string]float64

type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Sub(name string, value Expr) Expr
	Diff(name string) Expr
	Eval(env Env) (float64, error)
	Equal(other Expr) bool
}

// ------------------------------------------------------------
// Num
// ------------------------------------------------------------

type Num struct{ val float64 }

func N(v float64) *Num { return &Num{val: v} }

func (n *Num) Value() float64            { return n.val }
func (n *Num) Simplify() Expr            { return n }
func (n *Num) Sub(string, Expr) Expr     { return n }
func (n *Num) Diff(string) Expr          { return N(0) }
func (n *Num) Eval(Env) (float64, error) { return n.val, nil }
func (n *Num) String() string            { return strconv.FormatFloat(n.val, 'g', -1, 64) }
func (n *Num) LaTeX() string             { return n.String() }
func (n *Num) Equal(other Expr) bool     { o, ok := other.(*Num); return ok && o.val == n.val }
func (n *Num) isZero() bool              { return n.val == 0 }
func (n *Num) isOne() bool               { return n.val == 1 }

// ------------------------------------------------------------
// Sym
// ------------------------------------------------------------

type Sym struct{ name string }

func S(name string) *Sym { return &Sym{name: name} }

func (s *Sym) Name() string          { return s.name }
func (s *Sym) Simplify() Expr        { return s }
func (s *Sym) String() string        { return s.name }
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && o.name == s.name }

// LaTeX renders an underscore suffix as a subscript: T_obs -> T_{obs}.
func (s *Sym) LaTeX() string {
	if i := strings.IndexByte(s.name, '_'); i > 0 && i < len(s.name)-1 {
		return s.name[:i] + "_{" + s.name[i+1:] + "}"
	}
	return s.name
}

func (s *Sym) Sub(name string, value Expr) Expr {
	if s.name == name {
		return value
	}
	return s
}

func (s *Sym) Diff(name string) Expr {
	if s.name == name {
		return N(1)
	}
	return N(0)
}

func (s *Sym) Eval(env Env) (float64, error) {
	v, ok := env[s.name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnboundSymbol, s.name)
	}
	return finite(v)
}

// ------------------------------------------------------------
// Add
// ------------------------------------------------------------

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// Simplify flattens nested sums, folds constants and collects like terms.
// Terms keep the order in which they first appear; the constant goes last.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}

	constant := 0.0
	coeffs := map[string]float64{}
	bases := map[string]Expr{}
	order := []string{}
	for _, t := range flat {
		if n, ok := t.(*Num); ok {
			constant += n.val
			continue
		}
		c, rest := splitCoeff(t)
		key := rest.String()
		if _, seen := bases[key]; !seen {
			order = append(order, key)
			bases[key] = rest
		}
		coeffs[key] += c
	}

	out := make([]Expr, 0, len(order)+1)
	for _, key := range order {
		c := coeffs[key]
		if c == 0 {
			continue
		}
		out = append(out, scale(c, bases[key]))
	}
	if constant != 0 {
		out = append(out, N(constant))
	}

	switch len(out) {
	case 0:
		return N(0)
	case 1:
		return out[0]
	}
	return &Add{terms: out}
}

func (a *Add) String() string { return a.render(Expr.String, paren) }
func (a *Add) LaTeX() string  { return a.render(Expr.LaTeX, latexParen) }

func (a *Add) render(str func(Expr) string, wrap func(string) string) string {
	var b strings.Builder
	for i, t := range a.terms {
		neg := false
		body := t
		if n, ok := t.(*Num); ok && n.val < 0 {
			neg, body = true, N(-n.val)
		} else if c, rest := splitCoeff(t); c < 0 {
			neg, body = true, scale(-c, rest)
		}
		s := str(body)
		if _, ok := body.(*Add); ok && neg {
			s = wrap(s)
		}
		switch {
		case i == 0 && neg:
			b.WriteString("-" + s)
		case i == 0:
			b.WriteString(s)
		case neg:
			b.WriteString(" - " + s)
		default:
			b.WriteString(" + " + s)
		}
	}
	return b.String()
}

func (a *Add) Sub(name string, value Expr) Expr {
	out := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		out[i] = t.Sub(name, value)
	}
	return AddOf(out...)
}

func (a *Add) Diff(name string) Expr {
	out := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		out[i] = t.Diff(name)
	}
	return AddOf(out...)
}

func (a *Add) Eval(env Env) (float64, error) {
	acc := 0.0
	for _, t := range a.terms {
		v, err := t.Eval(env)
		if err != nil {
			return 0, err
		}
		acc += v
	}
	return finite(acc)
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	return ok && equalAll(a.terms, o.terms)
}

func (a *Add) Terms() []Expr { return a.terms }

// ------------------------------------------------------------
// Mul
// ------------------------------------------------------------

// Mul holds at most one numeric coefficient, always in first position.
type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}

	coeff := 1.0
	exps := map[string]Expr{}
	bases := map[string]Expr{}
	order := []string{}
	for _, f := range flat {
		if n, ok := f.(*Num); ok {
			coeff *= n.val
			continue
		}
		base, exp := splitPow(f)
		key := base.String()
		if prev, seen := exps[key]; seen {
			exps[key] = AddOf(prev, exp)
			continue
		}
		order = append(order, key)
		bases[key] = base
		exps[key] = exp
	}
	if coeff == 0 {
		return N(0)
	}

	rest := make([]Expr, 0, len(order))
	for _, key := range order {
		p := PowOf(bases[key], exps[key])
		switch v := p.(type) {
		case *Num:
			coeff *= v.val
		case *Mul:
			for _, f := range v.factors {
				if n, ok := f.(*Num); ok {
					coeff *= n.val
				} else {
					rest = append(rest, f)
				}
			}
		default:
			rest = append(rest, p)
		}
	}
	if coeff == 0 {
		return N(0)
	}

	sort.SliceStable(rest, func(i, j int) bool {
		ri, rj := rank(rest[i]), rank(rest[j])
		if ri != rj {
			return ri < rj
		}
		return rest[i].String() < rest[j].String()
	})

	switch {
	case len(rest) == 0:
		return N(coeff)
	case coeff == 1 && len(rest) == 1:
		return rest[0]
	case coeff == 1:
		return &Mul{factors: rest}
	}
	return &Mul{factors: append([]Expr{N(coeff)}, rest...)}
}

func (m *Mul) String() string {
	return m.render(Expr.String, paren, func(sign, num, den string, multi bool) string {
		if num == "" {
			num = "1"
		}
		if den == "" {
			return sign + num
		}
		if multi {
			den = paren(den)
		}
		return sign + num + "/" + den
	}, "*")
}

func (m *Mul) LaTeX() string {
	return m.render(Expr.LaTeX, latexParen, func(sign, num, den string, _ bool) string {
		if num == "" {
			num = "1"
		}
		if den == "" {
			return sign + num
		}
		return sign + `\frac{` + num + "}{" + den + "}"
	}, " ")
}

func (m *Mul) render(str func(Expr) string, wrap func(string) string, join func(sign, num, den string, multi bool) string, sep string) string {
	var num, den []string
	coeff := 1.0
	for _, f := range m.factors {
		if n, ok := f.(*Num); ok {
			coeff = n.val
			continue
		}
		if p, ok := f.(*Pow); ok {
			if e, ok := p.exp.(*Num); ok && e.val < 0 {
				den = append(den, factorString(PowOf(p.base, N(-e.val)), str, wrap))
				continue
			}
		}
		num = append(num, factorString(f, str, wrap))
	}
	sign := ""
	if coeff < 0 {
		sign, coeff = "-", -coeff
	}
	if coeff != 1 {
		num = append([]string{N(coeff).String()}, num...)
	}
	return join(sign, strings.Join(num, sep), strings.Join(den, sep), len(den) > 1)
}

func (m *Mul) Sub(name string, value Expr) Expr {
	out := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		out[i] = f.Sub(name, value)
	}
	return MulOf(out...)
}

// Diff applies the product rule.
func (m *Mul) Diff(name string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		parts := make([]Expr, 0, len(m.factors))
		parts = append(parts, fi.Diff(name))
		for j, fj := range m.factors {
			if j != i {
				parts = append(parts, fj)
			}
		}
		terms[i] = MulOf(parts...)
	}
	return AddOf(terms...)
}

func (m *Mul) Eval(env Env) (float64, error) {
	acc := 1.0
	for _, f := range m.factors {
		v, err := f.Eval(env)
		if err != nil {
			return 0, err
		}
		acc *= v
	}
	return finite(acc)
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	return ok && equalAll(m.factors, o.factors)
}

func (m *Mul) Factors() []Expr { return m.factors }

// ------------------------------------------------------------
// Pow
// ------------------------------------------------------------

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	en, expIsNum := exp.(*Num)
	if expIsNum && en.isZero() {
		return N(1)
	}
	if expIsNum && en.isOne() {
		return base
	}
	if bn, ok := base.(*Num); ok {
		if bn.isOne() {
			return N(1)
		}
		if expIsNum {
			v := math.Pow(bn.val, en.val)
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				return N(v)
			}
		}
	}
	if inner, ok := base.(*Pow); ok {
		return PowOf(inner.base, MulOf(inner.exp, exp))
	}
	// (a*b)^n distributes so that 1/(2*x) stays a flat product.
	if inner, ok := base.(*Mul); ok && expIsNum {
		out := make([]Expr, len(inner.factors))
		for i, f := range inner.factors {
			out[i] = PowOf(f, en)
		}
		return MulOf(out...)
	}
	return &Pow{base: base, exp: exp}
}

func (p *Pow) String() string {
	if e, ok := p.exp.(*Num); ok && e.val < 0 {
		return "1/" + factorString(PowOf(p.base, N(-e.val)), Expr.String, paren)
	}
	return p.baseString(Expr.String, paren) + "^" + p.expString()
}

func (p *Pow) LaTeX() string {
	if e, ok := p.exp.(*Num); ok && e.val < 0 {
		return `\frac{1}{` + PowOf(p.base, N(-e.val)).LaTeX() + "}"
	}
	return p.baseString(Expr.LaTeX, latexParen) + "^{" + p.exp.LaTeX() + "}"
}

func (p *Pow) baseString(str func(Expr) string, wrap func(string) string) string {
	switch b := p.base.(type) {
	case *Add, *Mul, *Pow:
		return wrap(str(b))
	case *Num:
		if b.val < 0 {
			return wrap(str(b))
		}
	}
	return str(p.base)
}

func (p *Pow) expString() string {
	switch e := p.exp.(type) {
	case *Sym:
		return e.String()
	case *Num:
		if e.val >= 0 {
			return e.String()
		}
	}
	return paren(p.exp.String())
}

func (p *Pow) Sub(name string, value Expr) Expr {
	return PowOf(p.base.Sub(name, value), p.exp.Sub(name, value))
}

func (p *Pow) Diff(name string) Expr {
	db := p.base.Diff(name)
	if e, ok := p.exp.(*Num); ok {
		return MulOf(e, PowOf(p.base, N(e.val-1)), db)
	}
	de := p.exp.Diff(name)
	if _, ok := p.base.(*Num); ok {
		return MulOf(p, LnOf(p.base), de)
	}
	return MulOf(p, AddOf(
		MulOf(de, LnOf(p.base)),
		MulOf(p.exp, db, PowOf(p.base, N(-1))),
	))
}

func (p *Pow) Eval(env Env) (float64, error) {
	b, err := p.base.Eval(env)
	if err != nil {
		return 0, err
	}
	e, err := p.exp.Eval(env)
	if err != nil {
		return 0, err
	}
	if b == 0 && e < 0 {
		return 0, fmt.Errorf("%w: division by zero", ErrDomain)
	}
	return finite(math.Pow(b, e))
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) Base() Expr     { return p.base }
func (p *Pow) Exponent() Expr { return p.exp }

// ------------------------------------------------------------
// Func
// ------------------------------------------------------------

const (
	fnExp = "exp"
	fnLn  = "ln"
)

type Func struct {
	name string
	arg  Expr
}

func ExpOf(arg Expr) Expr { return (&Func{name: fnExp, arg: arg}).Simplify() }
func LnOf(arg Expr) Expr  { return (&Func{name: fnLn, arg: arg}).Simplify() }

func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	if n, ok := arg.(*Num); ok {
		switch f.name {
		case fnExp:
			return N(math.Exp(n.val))
		case fnLn:
			if n.val > 0 {
				return N(math.Log(n.val))
			}
		}
	}
	if inner, ok := arg.(*Func); ok {
		if (f.name == fnExp && inner.name == fnLn) || (f.name == fnLn && inner.name == fnExp) {
			return inner.arg
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	if f.name == fnExp {
		return "e^{" + f.arg.LaTeX() + "}"
	}
	return `\ln` + latexParen(f.arg.LaTeX())
}

func (f *Func) Sub(name string, value Expr) Expr {
	return (&Func{name: f.name, arg: f.arg.Sub(name, value)}).Simplify()
}

// Diff applies the chain rule.
func (f *Func) Diff(name string) Expr {
	du := f.arg.Diff(name)
	switch f.name {
	case fnExp:
		return MulOf(f, du)
	case fnLn:
		return MulOf(PowOf(f.arg, N(-1)), du)
	}
	panic("symbolic: unknown function " + f.name)
}

func (f *Func) Eval(env Env) (float64, error) {
	v, err := f.arg.Eval(env)
	if err != nil {
		return 0, err
	}
	switch f.name {
	case fnExp:
		return finite(math.Exp(v))
	case fnLn:
		if v <= 0 {
			return 0, fmt.Errorf("%w: ln(%g)", ErrDomain, v)
		}
		return math.Log(v), nil
	}
	return 0, fmt.Errorf("symbolic: unknown function %s", f.name)
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) Name() string { return f.name }
func (f *Func) Arg() Expr    { return f.arg }

// ------------------------------------------------------------
// helpers
// ------------------------------------------------------------

// splitCoeff separates the numeric coefficient of a term from the rest.
func splitCoeff(e Expr) (float64, Expr) {
	m, ok := e.(*Mul)
	if !ok || len(m.factors) < 2 {
		return 1, e
	}
	n, ok := m.factors[0].(*Num)
	if !ok {
		return 1, e
	}
	if len(m.factors) == 2 {
		return n.val, m.factors[1]
	}
	return n.val, &Mul{factors: m.factors[1:]}
}

// scale multiplies an already simplified, coefficient-free expression by c.
func scale(c float64, rest Expr) Expr {
	if c == 1 {
		return rest
	}
	if m, ok := rest.(*Mul); ok {
		return &Mul{factors: append([]Expr{N(c)}, m.factors...)}
	}
	return &Mul{factors: []Expr{N(c), rest}}
}

func splitPow(e Expr) (Expr, Expr) {
	if p, ok := e.(*Pow); ok {
		return p.base, p.exp
	}
	return e, N(1)
}

// rank orders product factors: symbols and their powers, then sums, then functions.
func rank(e Expr) int {
	switch v := e.(type) {
	case *Num:
		return 0
	case *Sym:
		return 1
	case *Pow:
		if _, ok := v.base.(*Sym); ok {
			return 1
		}
		return 2
	case *Add:
		return 2
	}
	return 3
}

func factorString(e Expr, str func(Expr) string, wrap func(string) string) string {
	if _, ok := e.(*Add); ok {
		return wrap(str(e))
	}
	return str(e)
}

func paren(s string) string      { return "(" + s + ")" }
func latexParen(s string) string { return `\left(` + s + `\right)` }

func equalAll(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func finite(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: non-finite result", ErrDomain)
	}
	return v, nil
}

// Package cooling models Newton's law of cooling for a single body: the
// symbolic temperature function and its derivatives, the rate constant fitted
// from one observation, and the numeric curve.
package cooling

import (
	"math"

	"github.com/san-kum/coolsim/internal/symbolic"
)

// Symbol names used in the symbolic model.
const (
	SymInitial      = "T0"
	SymAmbient      = "Tamb"
	SymRate         = "k"
	SymTime         = "t"
	SymObservedTemp = "T_obs"
	SymObservedTime = "t_obs"
)

// Observation is one measured temperature and the time it was taken.
type Observation struct {
	Temperature float64
	Time        float64
}

type Body struct {
	Initial     float64
	Ambient     float64
	Observation *Observation

	expr   symbolic.Expr
	first  symbolic.Expr
	second symbolic.Expr
}

// NewBody builds the symbolic model T(t) = Tamb + (T0 - Tamb)*exp(-k*t) and
// its first and second time derivatives. obs may be nil.
func NewBody(initial, ambient float64, obs *Observation) *Body {
	t0 := symbolic.S(SymInitial)
	tamb := symbolic.S(SymAmbient)
	k := symbolic.S(SymRate)
	t := symbolic.S(SymTime)

	expr := symbolic.AddOf(tamb, symbolic.MulOf(
		symbolic.SubOf(t0, tamb),
		symbolic.ExpOf(symbolic.MulOf(symbolic.Neg(k), t)),
	))
	first := symbolic.Diff(expr, SymTime)

	return &Body{
		Initial:     initial,
		Ambient:     ambient,
		Observation: obs,
		expr:        expr,
		first:       first,
		second:      symbolic.Diff(first, SymTime),
	}
}

func (b *Body) Expression() symbolic.Expr       { return b.expr }
func (b *Body) FirstDerivative() symbolic.Expr  { return b.first }
func (b *Body) SecondDerivative() symbolic.Expr { return b.second }

// RateExpression is the closed-form inversion of T(t_obs) = T_obs for k.
func (b *Body) RateExpression() symbolic.Expr {
	tamb := symbolic.S(SymAmbient)
	ratio := symbolic.DivOf(
		symbolic.SubOf(symbolic.S(SymObservedTemp), tamb),
		symbolic.SubOf(symbolic.S(SymInitial), tamb),
	)
	return symbolic.Neg(symbolic.DivOf(symbolic.LnOf(ratio), symbolic.S(SymObservedTime)))
}

// RateConstant solves k = -(1/t_obs)*ln((T_obs - Tamb)/(T0 - Tamb)).
func (b *Body) RateConstant() (float64, error) {
	obs := b.Observation
	if obs == nil {
		return 0, &ValidationError{Field: "observation", Err: ErrMissingObservation}
	}
	for _, in := range []struct {
		field string
		v     float64
	}{
		{"initial temperature", b.Initial},
		{"ambient temperature", b.Ambient},
		{"observed temperature", obs.Temperature},
		{"observation time", obs.Time},
	} {
		if math.IsNaN(in.v) || math.IsInf(in.v, 0) {
			return 0, &ValidationError{Field: in.field, Err: ErrNonFinite}
		}
	}
	if obs.Time == 0 {
		return 0, &ValidationError{Field: "observation time", Err: ErrZeroObservationTime}
	}
	if b.Initial == b.Ambient {
		return 0, &ValidationError{Field: "initial temperature", Err: ErrNonPositiveRatio}
	}
	ratio := (obs.Temperature - b.Ambient) / (b.Initial - b.Ambient)
	if !(ratio > 0) {
		return 0, &ValidationError{Field: "observed temperature", Err: ErrNonPositiveRatio}
	}
	return -math.Log(ratio) / obs.Time, nil
}

// Env binds the body's constants, k and t for evaluating the symbolic trees.
func (b *Body) Env(k, t float64) symbolic.Env {
	env := symbolic.Env{
		SymInitial: b.Initial,
		SymAmbient: b.Ambient,
		SymRate:    k,
		SymTime:    t,
	}
	if b.Observation != nil {
		env[SymObservedTemp] = b.Observation.Temperature
		env[SymObservedTime] = b.Observation.Time
	}
	return env
}

// EvaluateSymbolic evaluates any expression over the model's symbols at (k, t).
func (b *Body) EvaluateSymbolic(expr symbolic.Expr, k, t float64) (float64, error) {
	return expr.Eval(b.Env(k, t))
}

// Round rounds v to places decimal places. A negative places returns v.
func Round(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

package cooling

import (
	"math"

	"github.com/san-kum/coolsim/internal/dynamo"
)

// Law is the cooling ODE dT/dt = -k*(T - Tamb) as a dynamo.System, with the
// closed form as its exact solution.
type Law struct {
	body *Body
	Rate float64
}

func (b *Body) ODE(k float64) *Law {
	return &Law{body: b, Rate: k}
}

func (l *Law) StateDim() int { return 1 }

func (l *Law) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{-l.Rate * (x[0] - l.body.Ambient)}
}

func (l *Law) Solution(t float64) dynamo.State {
	return dynamo.State{l.body.Temperature(l.Rate, t)}
}

func (l *Law) InitialState() dynamo.State {
	return dynamo.State{l.body.Initial}
}

// Invariant is (T - Tamb)*e^(k*t), equal to T0 - Tamb on the exact curve.
func (l *Law) Invariant(x dynamo.State, t float64) float64 {
	return (x[0] - l.body.Ambient) * math.Exp(l.Rate*t)
}

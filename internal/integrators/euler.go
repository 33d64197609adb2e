package integrators

import "github.com/san-kum/coolsim/internal/dynamo"

// Euler is the explicit first-order method. It is kept as a baseline to show
// how far a naive stepper drifts from the closed-form cooling curve.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	dx := dyn.Derive(x, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}

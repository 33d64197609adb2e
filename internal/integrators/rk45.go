package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/coolsim/internal/dynamo"
)

// Dormand-Prince 5(4) tableau.
var (
	dpC = [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1}
	dpA = [7][6]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	}
	// fifth-order weights
	dpB = [7]float64{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84, 0}
	// fifth minus embedded fourth order
	dpE = [7]float64{
		35.0/384 - 5179.0/57600,
		0,
		500.0/1113 - 7571.0/16695,
		125.0/192 - 393.0/640,
		-2187.0/6784 + 92097.0/339200,
		11.0/84 - 187.0/2100,
		-1.0 / 40,
	}
)

// RK45 is the adaptive Dormand-Prince method. Step ignores the error
// estimate; StepAdaptive returns the suggested next timestep and
// dynamo.ErrStepRejected when the step must be retried.
type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (r *RK45) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	next, _, _ := r.StepAdaptive(dyn, x, t, dt, 1e-6)
	return next
}

func (r *RK45) StepAdaptive(dyn dynamo.System, x dynamo.State, t, dt, tol float64) (dynamo.State, float64, error) {
	if tol <= 0 {
		return nil, dt, fmt.Errorf("%w: tolerance must be positive", dynamo.ErrInvalidConfig)
	}
	n := len(x)
	var k [7]dynamo.State
	stage := make(dynamo.State, n)

	for s := 0; s < 7; s++ {
		for i := 0; i < n; i++ {
			acc := x[i]
			for j := 0; j < s; j++ {
				acc += dt * dpA[s][j] * k[j][i]
			}
			stage[i] = acc
		}
		k[s] = dyn.Derive(stage, t+dpC[s]*dt)
	}

	next := make(dynamo.State, n)
	errMax := 0.0
	for i := 0; i < n; i++ {
		sum, errSum := 0.0, 0.0
		for s := 0; s < 7; s++ {
			sum += dpB[s] * k[s][i]
			errSum += dpE[s] * k[s][i]
		}
		next[i] = x[i] + dt*sum
		scale := math.Abs(x[i]) + math.Abs(dt*k[0][i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(dt*errSum)/scale)
	}

	ratio := errMax / tol
	var factor float64
	switch {
	case ratio > 1:
		factor = math.Max(r.minScale, r.safety*math.Pow(ratio, -0.25))
	case ratio > 0:
		factor = math.Min(r.maxScale, r.safety*math.Pow(ratio, -0.2))
	default:
		factor = r.maxScale
	}

	if ratio > 1 {
		return next, dt * factor, dynamo.ErrStepRejected
	}
	return next, dt * factor, nil
}

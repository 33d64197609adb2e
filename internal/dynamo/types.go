package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is an ODE dX/dt = f(X, t). There is no control
// input: the cooling law is driven only by the ambient temperature.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Exact is implemented by systems with a closed-form solution.
type Exact interface {
	Solution(t float64) State
}

// Conserved is implemented by systems with a quantity that stays constant
// along exact trajectories.
type Conserved interface {
	Invariant(x State, t float64) float64
}

type Integrator interface {
	Step(dyn System, x State, t, dt float64) State
}

type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(dyn System, x State, t, dt, tol float64) (State, float64, error)
}

type Observer interface {
	OnStep(x State, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	Tolerance     float64
	MaxDt         float64
	MinDt         float64
	Adaptive      bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      60.0,
		Tolerance:     1e-6,
		MaxDt:         1.0,
		MinDt:         1e-8,
		Adaptive:      false,
		ValidateState: true,
	}
}

type Result struct {
	States     []State
	Times      []float64
	StepsTaken int
	// MaxError is the largest deviation from the closed form, when the
	// system implements Exact.
	MaxError float64
}

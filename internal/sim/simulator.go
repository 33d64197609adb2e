// Package sim steps a dynamo.System through time with a chosen integrator.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/coolsim/internal/dynamo"
)

type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
	observers  []dynamo.Observer
}

func New(dyn dynamo.System, integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		observers:  make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run integrates from x0 at t=0 to cfg.Duration. The last step is shortened
// so the trajectory ends exactly at cfg.Duration.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != s.dyn.StateDim() {
		return nil, fmt.Errorf("%w: got %d values, system wants %d", dynamo.ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}

	capacity := int(math.Ceil(cfg.Duration/cfg.Dt)) + 1
	result := &dynamo.Result{
		States: make([]dynamo.State, 0, capacity),
		Times:  make([]float64, 0, capacity),
	}

	exact, hasExact := s.dyn.(dynamo.Exact)
	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt
	record := func() {
		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)
		if hasExact {
			if dev := x.Sub(exact.Solution(t)).Norm(); dev > result.MaxError {
				result.MaxError = dev
			}
		}
	}
	record()

	const eps = 1e-12
	for step := 0; t < cfg.Duration-eps; step++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}

		h := math.Min(dt, cfg.Duration-t)
		var next dynamo.State
		if cfg.Adaptive {
			var err error
			next, h, dt, err = s.adaptiveStep(x, t, h, cfg)
			if err != nil {
				return result, &dynamo.SimulationError{Step: step, Time: t, State: x.Clone(), Wrapped: err}
			}
		} else {
			next = s.integrator.Step(s.dyn, x, t, h)
		}

		if cfg.ValidateState && !next.IsValid() {
			return result, &dynamo.SimulationError{Step: step, Time: t, State: x.Clone(), Wrapped: dynamo.ErrInvalidState}
		}

		x = next
		t += h
		result.StepsTaken++
		record()
	}

	for _, obs := range s.observers {
		obs.OnStep(x, t)
	}
	return result, nil
}

func validateConfig(cfg dynamo.Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", dynamo.ErrInvalidConfig, cfg.Duration)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive for adaptive stepping", dynamo.ErrInvalidConfig)
	}
	return nil
}

// adaptiveStep returns the new state, the step actually taken and the
// suggested next step. Integrators without an embedded error estimate fall
// back to step doubling.
func (s *Simulator) adaptiveStep(x dynamo.State, t, h float64, cfg dynamo.Config) (dynamo.State, float64, float64, error) {
	for {
		if cfg.MinDt > 0 && h < cfg.MinDt {
			return nil, h, h, dynamo.ErrStepTooSmall
		}

		var next dynamo.State
		var errEst, suggested float64
		if adaptive, ok := s.integrator.(dynamo.AdaptiveIntegrator); ok {
			var err error
			next, suggested, err = adaptive.StepAdaptive(s.dyn, x, t, h, cfg.Tolerance)
			if errors.Is(err, dynamo.ErrStepRejected) {
				h = suggested
				continue
			}
			if err != nil {
				return nil, h, h, err
			}
		} else {
			full := s.integrator.Step(s.dyn, x, t, h)
			half := s.integrator.Step(s.dyn, x, t, h/2)
			next = s.integrator.Step(s.dyn, half, t+h/2, h/2)
			errEst = full.Sub(next).Norm()
			if errEst > cfg.Tolerance {
				h /= 2
				continue
			}
			suggested = h
			if errEst < cfg.Tolerance/10 {
				suggested = h * 2
			}
		}

		if cfg.MaxDt > 0 {
			suggested = math.Min(suggested, cfg.MaxDt)
		}
		return next, h, suggested, nil
	}
}

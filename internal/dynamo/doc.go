// Package dynamo provides the numeric primitives shared by the cooling model,
// the integrators and the simulator.
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: numerical stepper interface
//   - [Result]: trajectory produced by a run
//
// # Example
//
//	law := body.ODE(k)
//	s := sim.New(law, integrators.NewRK4())
//	result, _ := s.Run(ctx, dynamo.State{body.Initial}, cfg)
package dynamo

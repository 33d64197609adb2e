package metrics

import "github.com/san-kum/coolsim/internal/dynamo"

// Metric accumulates a scalar over the steps of a run.
type Metric interface {
	dynamo.Observer
	Name() string
	Value() float64
	Reset()
}

// ForSystem returns the metrics that apply to dyn.
func ForSystem(dyn dynamo.System, ambient float64) []Metric {
	out := []Metric{NewApproach(ambient)}
	if _, ok := dyn.(dynamo.Conserved); ok {
		out = append(out, NewInvariantDrift(dyn))
	}
	return out
}

package sim

import (
	"context"
	"sync"
	"time"

	"github.com/san-kum/coolsim/internal/dynamo"
	"github.com/san-kum/coolsim/internal/integrators"
	"github.com/san-kum/coolsim/internal/metrics"
)

// Comparison is one integrator's run against the same system and config.
type Comparison struct {
	Integrator string
	Result     *dynamo.Result
	Metrics    map[string]float64
	Elapsed    time.Duration
	Err        error
}

// Compare runs every named integrator concurrently. Each run gets its own
// integrator instance and, when newMetrics is non-nil, its own metric set.
// Results keep the order of names.
func Compare(ctx context.Context, dyn dynamo.System, x0 dynamo.State, cfg dynamo.Config, names []string, newMetrics func() []metrics.Metric) []Comparison {
	out := make([]Comparison, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(idx int, name string) {
			defer wg.Done()

			out[idx].Integrator = name
			integ, err := integrators.Lookup(name)
			if err != nil {
				out[idx].Err = err
				return
			}

			s := New(dyn, integ)
			var ms []metrics.Metric
			if newMetrics != nil {
				ms = newMetrics()
				for _, m := range ms {
					s.AddObserver(m)
				}
			}

			start := time.Now()
			out[idx].Result, out[idx].Err = s.Run(ctx, x0, cfg)
			out[idx].Elapsed = time.Since(start)

			if out[idx].Err == nil && len(ms) > 0 {
				out[idx].Metrics = make(map[string]float64, len(ms))
				for _, m := range ms {
					out[idx].Metrics[m.Name()] = m.Value()
				}
			}
		}(i, name)
	}

	wg.Wait()
	return out
}

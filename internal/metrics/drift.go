package metrics

import (
	"math"

	"github.com/san-kum/coolsim/internal/dynamo"
)

// InvariantDrift tracks the largest relative change of a Conserved system's
// invariant from its first observed value.
type InvariantDrift struct {
	name     string
	initial  float64
	current  float64
	maxDrift float64
	samples  int
	dyn      dynamo.System
}

func NewInvariantDrift(dyn dynamo.System) *InvariantDrift {
	return &InvariantDrift{
		name: "invariant_drift",
		dyn:  dyn,
	}
}

func (d *InvariantDrift) Name() string { return d.name }

func (d *InvariantDrift) OnStep(x dynamo.State, t float64) {
	c, ok := d.dyn.(dynamo.Conserved)
	if !ok {
		return
	}

	v := c.Invariant(x, t)
	if d.samples == 0 {
		d.initial = v
	}
	d.current = v
	d.samples++

	if d.initial != 0 {
		drift := math.Abs(v-d.initial) / math.Abs(d.initial)
		d.maxDrift = math.Max(d.maxDrift, drift)
	}
}

func (d *InvariantDrift) Value() float64 { return d.maxDrift }

func (d *InvariantDrift) Reset() {
	d.initial = 0
	d.current = 0
	d.maxDrift = 0
	d.samples = 0
}

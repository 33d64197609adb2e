package metrics

import (
	"math"

	"github.com/san-kum/coolsim/internal/dynamo"
)

// Approach is the fraction of steps on which the distance to ambient did not
// grow. A decaying run scores 1.
type Approach struct {
	name       string
	ambient    float64
	last       float64
	violations int
	samples    int
}

func NewApproach(ambient float64) *Approach {
	return &Approach{
		name:    "approach",
		ambient: ambient,
	}
}

func (a *Approach) Name() string { return a.name }

func (a *Approach) OnStep(x dynamo.State, t float64) {
	dist := math.Abs(x[0] - a.ambient)
	if a.samples > 0 && dist > a.last {
		a.violations++
	}
	a.last = dist
	a.samples++
}

func (a *Approach) Value() float64 {
	if a.samples < 2 {
		return 1.0
	}
	return 1.0 - float64(a.violations)/float64(a.samples-1)
}

func (a *Approach) Reset() {
	a.last = 0
	a.violations = 0
	a.samples = 0
}

package cooling

import (
	"errors"
	"math"
	"testing"
)

func sampleBody() *Body {
	return NewBody(90, 20, &Observation{Temperature: 60, Time: 10})
}

func TestRateConstantSample(t *testing.T) {
	k, err := sampleBody().RateConstant()
	if err != nil {
		t.Fatalf("rate constant failed: %v", err)
	}

	expected := -(1.0 / 10) * math.Log(40.0/70.0)
	if math.Abs(k-expected) > 1e-12 {
		t.Errorf("expected k=%.8f, got %.8f", expected, k)
	}
	if got := Round(k, 4); got != 0.056 {
		t.Errorf("expected rounded k 0.0560, got %.4f", got)
	}
}

func TestRateConstantValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  *Body
		err   error
		field string
	}{
		{"missing observation", NewBody(90, 20, nil), ErrMissingObservation, "observation"},
		{"zero time", NewBody(90, 20, &Observation{Temperature: 60, Time: 0}), ErrZeroObservationTime, "observation time"},
		{"started at ambient", NewBody(20, 20, &Observation{Temperature: 20, Time: 5}), ErrNonPositiveRatio, "initial temperature"},
		{"crossed ambient", NewBody(90, 20, &Observation{Temperature: 10, Time: 5}), ErrNonPositiveRatio, "observed temperature"},
		{"observed at ambient", NewBody(90, 20, &Observation{Temperature: 20, Time: 5}), ErrNonPositiveRatio, "observed temperature"},
		{"nan initial", NewBody(math.NaN(), 20, &Observation{Temperature: 60, Time: 10}), ErrNonFinite, "initial temperature"},
		{"infinite ambient", NewBody(90, math.Inf(-1), &Observation{Temperature: 60, Time: 10}), ErrNonFinite, "ambient temperature"},
		{"nan observed temperature", NewBody(90, 20, &Observation{Temperature: math.NaN(), Time: 10}), ErrNonFinite, "observed temperature"},
		{"nan observation time", NewBody(90, 20, &Observation{Temperature: 60, Time: math.NaN()}), ErrNonFinite, "observation time"},
		{"infinite observation time", NewBody(90, 20, &Observation{Temperature: 60, Time: math.Inf(1)}), ErrNonFinite, "observation time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := tt.body.RateConstant()
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got k=%f err=%v", tt.err, k, err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}
}

func TestSymbolicForms(t *testing.T) {
	b := sampleBody()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"expression", b.Expression().String(), "Tamb + (T0 - Tamb)*exp(-k*t)"},
		{"first derivative", b.FirstDerivative().String(), "-k*(T0 - Tamb)*exp(-k*t)"},
		{"second derivative", b.SecondDerivative().String(), "k^2*(T0 - Tamb)*exp(-k*t)"},
		{"rate", b.RateExpression().String(), "-ln((T_obs - Tamb)/(T0 - Tamb))/t_obs"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: want %q, got %q", tt.name, tt.want, tt.got)
		}
	}
}

func TestFirstDerivativeMatchesLaw(t *testing.T) {
	b := sampleBody()
	k, _ := b.RateConstant()

	for _, at := range []float64{0, 1, 7.5, 30, 120} {
		got, err := b.EvaluateSymbolic(b.FirstDerivative(), k, at)
		if err != nil {
			t.Fatalf("eval at t=%f: %v", at, err)
		}
		want := -k * (b.Temperature(k, at) - b.Ambient)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("t=%.1f: symbolic dT/dt %.9f, law %.9f", at, got, want)
		}
	}
}

func TestSecondDerivativeIsKSquaredExcess(t *testing.T) {
	b := sampleBody()
	k, _ := b.RateConstant()

	got, err := b.EvaluateSymbolic(b.SecondDerivative(), k, 12)
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	want := k * k * (b.Temperature(k, 12) - b.Ambient)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %.9f, got %.9f", want, got)
	}
}

func TestRateExpressionMatchesRateConstant(t *testing.T) {
	b := sampleBody()
	k, _ := b.RateConstant()

	got, err := b.EvaluateSymbolic(b.RateExpression(), 0, 0)
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if math.Abs(got-k) > 1e-12 {
		t.Errorf("expected %.8f, got %.8f", k, got)
	}
}

func TestTemperatureEndpoints(t *testing.T) {
	b := sampleBody()
	k, _ := b.RateConstant()

	if got := b.Temperature(k, 0); got != b.Initial {
		t.Errorf("T(0) should be %f, got %f", b.Initial, got)
	}
	if got := b.Temperature(k, 10); math.Abs(got-60) > 1e-9 {
		t.Errorf("T(t_obs) should be 60, got %f", got)
	}

	prev := b.Initial
	for _, at := range Linspace(1, 500, 50) {
		cur := b.Temperature(k, at)
		if cur >= prev || cur <= b.Ambient {
			t.Fatalf("t=%.1f: expected monotone approach from above, prev=%f cur=%f", at, prev, cur)
		}
		prev = cur
	}
	if math.Abs(prev-b.Ambient) > 1e-6 {
		t.Errorf("expected curve to settle at ambient, got %f", prev)
	}
}

func TestWarmingBodyApproachesFromBelow(t *testing.T) {
	b := NewBody(4, 22, &Observation{Temperature: 10, Time: 15})
	k, err := b.RateConstant()
	if err != nil {
		t.Fatalf("rate constant failed: %v", err)
	}
	if k <= 0 {
		t.Fatalf("expected positive k, got %f", k)
	}
	for _, v := range b.Evaluate(k, []float64{1, 10, 100, 1000}) {
		if v >= b.Ambient {
			t.Errorf("warming body overshot ambient: %f", v)
		}
	}
}

func TestLinspace(t *testing.T) {
	tests := []struct {
		start, end float64
		n          int
		want       []float64
	}{
		{0, 60, 4, []float64{0, 20, 40, 60}},
		{5, 5, 1, []float64{5}},
		{0, 1, 0, []float64{}},
	}

	for _, tt := range tests {
		got := Linspace(tt.start, tt.end, tt.n)
		if len(got) != len(tt.want) {
			t.Fatalf("linspace(%v,%v,%d): expected %d values, got %d", tt.start, tt.end, tt.n, len(tt.want), len(got))
		}
		for i := range got {
			if math.Abs(got[i]-tt.want[i]) > 1e-12 {
				t.Errorf("linspace(%v,%v,%d)[%d]: expected %f, got %f", tt.start, tt.end, tt.n, i, tt.want[i], got[i])
			}
		}
	}

	if got := len(sampleBody().Curve(0.056, 0, 60, 300)); got != 300 {
		t.Errorf("expected 300 curve points, got %d", got)
	}
}

func TestTimeToReach(t *testing.T) {
	b := sampleBody()
	k, _ := b.RateConstant()

	at, err := b.TimeToReach(k, 60)
	if err != nil {
		t.Fatalf("time to reach failed: %v", err)
	}
	if math.Abs(at-10) > 1e-9 {
		t.Errorf("expected t=10, got %f", at)
	}

	for _, target := range []float64{20, 15, 95} {
		if _, err := b.TimeToReach(k, target); !errors.Is(err, ErrUnreachable) {
			t.Errorf("target %.0f: expected ErrUnreachable, got %v", target, err)
		}
	}
}

func TestHalfLife(t *testing.T) {
	b := sampleBody()
	k, _ := b.RateConstant()

	h := HalfLife(k)
	excess := b.Temperature(k, h) - b.Ambient
	if math.Abs(excess-35) > 1e-9 {
		t.Errorf("excess after one half-life should be 35, got %f", excess)
	}
	if !math.IsInf(HalfLife(0), 1) {
		t.Error("half-life for k=0 should be +Inf")
	}
}

func TestRound(t *testing.T) {
	if got := Round(0.0559615, 4); got != 0.056 {
		t.Errorf("expected 0.056, got %v", got)
	}
	if got := Round(0.0559615, -1); got != 0.0559615 {
		t.Errorf("negative places should not round, got %v", got)
	}
}

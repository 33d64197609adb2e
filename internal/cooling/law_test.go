package cooling_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/coolsim/internal/cooling"
	"github.com/san-kum/coolsim/internal/dynamo"
	"github.com/san-kum/coolsim/internal/integrators"
	"github.com/san-kum/coolsim/internal/sim"
)

var _ = Describe("Newton's law of cooling", func() {
	var (
		body *cooling.Body
		k    float64
	)

	BeforeEach(func() {
		body = cooling.NewBody(90, 20, &cooling.Observation{Temperature: 60, Time: 10})
		var err error
		k, err = body.RateConstant()
		Expect(err).NotTo(HaveOccurred())
	})

	It("fits the rate constant from one observation", func() {
		Expect(k).To(BeNumerically("~", 0.0560, 5e-5))
	})

	It("starts at the initial temperature", func() {
		Expect(body.Temperature(k, 0)).To(Equal(90.0))
	})

	It("settles at ambient from above", func() {
		for _, v := range body.Evaluate(k, []float64{100, 200, 300}) {
			Expect(v).To(BeNumerically(">", 20.0))
		}
		Expect(body.Temperature(k, 1000)).To(BeNumerically("~", 20.0, 1e-9))
	})

	DescribeTable("symbolic dT/dt equals -k*(T - Tamb)",
		func(at float64) {
			got, err := body.EvaluateSymbolic(body.FirstDerivative(), k, at)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNumerically("~", -k*(body.Temperature(k, at)-20), 1e-9))
		},
		Entry("at the start", 0.0),
		Entry("at the observation", 10.0),
		Entry("an hour in", 60.0),
	)

	It("refuses to fit without an observation", func() {
		_, err := cooling.NewBody(90, 20, nil).RateConstant()
		Expect(err).To(MatchError(cooling.ErrMissingObservation))
	})

	It("agrees with numeric integration of the ODE", func() {
		law := body.ODE(k)
		cfg := dynamo.DefaultConfig()
		cfg.Dt = 0.1

		result, err := sim.New(law, integrators.NewRK4()).Run(context.Background(), law.InitialState(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.MaxError).To(BeNumerically("<", 1e-8))

		final := result.States[len(result.States)-1][0]
		Expect(math.Abs(final - body.Temperature(k, cfg.Duration))).To(BeNumerically("<", 1e-8))
	})
})

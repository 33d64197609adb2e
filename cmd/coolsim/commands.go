package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/coolsim/internal/config"
	"github.com/san-kum/coolsim/internal/cooling"
	"github.com/san-kum/coolsim/internal/dynamo"
	"github.com/san-kum/coolsim/internal/export"
	"github.com/san-kum/coolsim/internal/metrics"
	"github.com/san-kum/coolsim/internal/sim"
	"github.com/san-kum/coolsim/internal/storage"
	"github.com/san-kum/coolsim/internal/symbolic"
	"github.com/san-kum/coolsim/internal/viz"
)

// solved is a scenario with its rate constant fitted and curve sampled.
type solved struct {
	cfg   *config.Config
	body  *cooling.Body
	k     float64
	curve []cooling.Point
}

func solve(cfg *config.Config) (*solved, error) {
	body := cfg.Body()
	k, err := cfg.RateConstant()
	if err != nil {
		return nil, fmt.Errorf("solve k: %w", err)
	}
	return &solved{
		cfg:   cfg,
		body:  body,
		k:     k,
		curve: body.Curve(k, 0, cfg.Minutes, cfg.Samples),
	}, nil
}

func formatK(k float64, precision int) string {
	if precision < 0 {
		return strconv.FormatFloat(k, 'g', -1, 64)
	}
	return strconv.FormatFloat(k, 'f', precision, 64)
}

func printModel(out io.Writer, body *cooling.Body, asLaTeX bool) {
	render := func(e symbolic.Expr) string {
		if asLaTeX {
			return e.LaTeX()
		}
		return e.String()
	}
	fmt.Fprintf(out, "T(t)     = %s\n", render(body.Expression()))
	fmt.Fprintf(out, "dT/dt    = %s\n", render(body.FirstDerivative()))
	fmt.Fprintf(out, "d²T/dt²  = %s\n", render(body.SecondDerivative()))
}

func plotOptions(cfg *config.Config) viz.PlotOptions {
	return viz.PlotOptions{
		Width:     width,
		Height:    height,
		Title:     cfg.Labels.Title,
		TimeLabel: cfg.Labels.Time,
		TempLabel: cfg.Labels.Temperature,
	}
}

// renderScenario prints the model, the fitted k and the plot.
func renderScenario(out io.Writer, cfg *config.Config) (*solved, error) {
	body := cfg.Body()
	fmt.Fprintln(out, viz.Heading.Render(cfg.Labels.Title))
	fmt.Fprintln(out)
	printModel(out, body, false)
	fmt.Fprintln(out)

	s, err := solve(cfg)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "k = %s\n\n", formatK(s.k, cfg.Precision))

	if !interactive {
		fmt.Fprintln(out, viz.Plot(s.curve, body.Ambient, plotOptions(cfg)))
	}
	return s, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveScenario(cmd)
	if err != nil {
		return err
	}

	s, err := renderScenario(cmd.OutOrStdout(), cfg)
	if err != nil {
		return err
	}

	if save {
		runID, err := storage.New(dataDir).Save(s.body, s.k, s.curve)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		slog.Info("run saved", "id", runID, "dir", dataDir)
		fmt.Fprintf(cmd.OutOrStdout(), "saved run %s\n", runID)
	}

	if interactive {
		return runExplorer(s.body, s.k, cfg.Minutes)
	}
	return nil
}

func deriveModel(cmd *cobra.Command, args []string) error {
	cfg, err := resolveScenario(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	body := cfg.Body()

	printModel(out, body, latex)
	if latex {
		fmt.Fprintf(out, "k        = %s\n", body.RateExpression().LaTeX())
	} else {
		fmt.Fprintf(out, "k        = %s\n", body.RateExpression())
	}
	return nil
}

func solveRate(cmd *cobra.Command, args []string) error {
	cfg, err := resolveScenario(cmd)
	if err != nil {
		return err
	}
	s, err := solve(cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "k\t%s\n", formatK(s.k, cfg.Precision))
	fmt.Fprintf(w, "half-life\t%.4f\n", cooling.HalfLife(s.k))
	fmt.Fprintf(w, "T(%g)\t%.4f\n", cfg.Minutes, s.body.Temperature(s.k, cfg.Minutes))

	if cmd.Flags().Changed("reach") {
		at, err := s.body.TimeToReach(s.k, reach)
		if err != nil {
			w.Flush()
			return err
		}
		fmt.Fprintf(w, "reaches %g at\t%.4f\n", reach, at)
	}
	return w.Flush()
}

func emitCurve(cmd *cobra.Command, args []string) error {
	cfg, err := resolveScenario(cmd)
	if err != nil {
		return err
	}
	s, err := solve(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch strings.ToLower(format) {
	case "csv":
		err = export.WriteCSV(out, s.curve)
	case "json":
		err = export.WriteJSON(out, export.NewCurveReport(s.body, s.k, s.curve))
	default:
		return fmt.Errorf("unknown format: %s (available: csv, json)", format)
	}
	if err != nil {
		return err
	}
	if output != "" {
		slog.Info("curve written", "path", output, "format", format, "points", len(s.curve))
	}
	return nil
}

func plotCurve(cmd *cobra.Command, args []string) error {
	cfg, err := resolveScenario(cmd)
	if err != nil {
		return err
	}
	s, err := solve(cfg)
	if err != nil {
		return err
	}

	if svgFile == "" {
		fmt.Fprintln(cmd.OutOrStdout(), viz.Plot(s.curve, s.body.Ambient, plotOptions(cfg)))
		return nil
	}

	opts := export.DefaultSVGOptions()
	opts.Title = cfg.Labels.Title
	opts.XLabel = cfg.Labels.Time
	opts.YLabel = cfg.Labels.Temperature
	if cmd.Flags().Changed("width") {
		opts.Width = width
	}
	if cmd.Flags().Changed("height") {
		opts.Height = height
	}

	if err := os.WriteFile(svgFile, []byte(export.CurveToSVG(s.curve, s.body.Ambient, opts)), 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", svgFile)
	return nil
}

func exploreCurve(cmd *cobra.Command, args []string) error {
	cfg, err := resolveScenario(cmd)
	if err != nil {
		return err
	}
	s, err := solve(cfg)
	if err != nil {
		return err
	}
	return runExplorer(s.body, s.k, cfg.Minutes)
}

func runExplorer(body *cooling.Body, k, horizon float64) error {
	p := tea.NewProgram(viz.NewExplorer(body, k, horizon), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func verifyCurve(cmd *cobra.Command, args []string) error {
	cfg, err := resolveScenario(cmd)
	if err != nil {
		return err
	}
	s, err := solve(cfg)
	if err != nil {
		return err
	}

	names := integrator
	if len(names) == 0 {
		names = []string{cfg.Integrator}
	}

	dcfg := dynamo.DefaultConfig()
	dcfg.Dt = cfg.Dt
	dcfg.Duration = cfg.Minutes
	dcfg.Adaptive = adaptive

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	law := s.body.ODE(s.k)
	newMetrics := func() []metrics.Metric { return metrics.ForSystem(law, s.body.Ambient) }
	results := sim.Compare(ctx, law, law.InitialState(), dcfg, names, newMetrics)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "integrating dT/dt = -k(T - Tamb), k=%s (dt=%.4f, duration=%.1f)\n\n",
		formatK(s.k, cfg.Precision), dcfg.Dt, dcfg.Duration)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSTEPS\tFINAL\tEXACT\tMAX_ERROR\tDRIFT\tAPPROACH\tTIME_MS")
	exact := s.body.Temperature(s.k, dcfg.Duration)
	var failed error
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", r.Integrator, r.Err)
			failed = errors.Join(failed, fmt.Errorf("%s: %w", r.Integrator, r.Err))
			continue
		}
		final := r.Result.States[len(r.Result.States)-1][0]
		fmt.Fprintf(w, "%s\t%d\t%.6f\t%.6f\t%.2e\t%.2e\t%.3f\t%.2f\n",
			r.Integrator, r.Result.StepsTaken, final, exact, r.Result.MaxError,
			r.Metrics["invariant_drift"], r.Metrics["approach"],
			float64(r.Elapsed.Microseconds())/1000)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return failed
}

func watchConfig(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		return errors.New("watch requires --config")
	}

	out := cmd.OutOrStdout()
	render := func() {
		cfg, err := resolveScenario(cmd)
		if err == nil {
			_, err = renderScenario(out, cfg)
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
	render()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return config.Watch(ctx, configFile, func(*config.Config) {
		fmt.Fprintln(out, strings.Repeat("─", 60))
		render()
	})
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tT0\tTAMB\tK\tHALF-LIFE\tSAMPLES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\t%s\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Initial,
			run.Ambient,
			run.Rate,
			halfLife(run.HalfLife),
			run.Samples,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	curve, err := st.LoadCurve(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "id\t%s\n", meta.ID)
	fmt.Fprintf(w, "time\t%s\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "T0\t%g\n", meta.Initial)
	fmt.Fprintf(w, "Tamb\t%g\n", meta.Ambient)
	if meta.ObservedTemp != nil && meta.ObservedTime != nil {
		fmt.Fprintf(w, "observation\t%g at %g\n", *meta.ObservedTemp, *meta.ObservedTime)
	}
	fmt.Fprintf(w, "k\t%g\n", meta.Rate)
	fmt.Fprintf(w, "half-life\t%s\n", halfLife(meta.HalfLife))
	if err := w.Flush(); err != nil {
		return err
	}

	if len(curve) > 0 {
		opts := viz.DefaultPlotOptions()
		opts.Width, opts.Height = width, height
		fmt.Fprintln(out)
		fmt.Fprintln(out, viz.Plot(curve, meta.Ambient, opts))
	}
	return nil
}

func halfLife(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tT0\tTAMB\tT_OBS\tT_OBS TIME\tMINUTES\tTITLE")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		obsTemp, obsTime := "-", "-"
		if obs := p.Observation(); obs != nil {
			obsTemp = strconv.FormatFloat(obs.Temperature, 'g', -1, 64)
			obsTime = strconv.FormatFloat(obs.Time, 'g', -1, 64)
		}
		fmt.Fprintf(w, "%s\t%g\t%g\t%s\t%s\t%g\t%s\n",
			name, p.Initial, p.Ambient, obsTemp, obsTime, p.Minutes, p.Labels.Title)
	}
	return w.Flush()
}

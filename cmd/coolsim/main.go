package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/coolsim/internal/logging"
)

var (
	dataDir    string
	configFile string
	preset     string
	debug      bool
	// Scenario inputs
	initial      float64
	ambient      float64
	observedTemp float64
	observedTime float64
	noObserve    bool
	minutes      float64
	samples      int
	precision    int
	// Command options
	interactive bool
	save        bool
	latex       bool
	reach       float64
	format      string
	output      string
	svgFile     string
	width       int
	height      int
	integrator  []string
	dt          float64
	adaptive    bool
)

// main is the entry point for the coolsim CLI. It exits with status 1 when
// the command returns an error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "coolsim",
		Short:        "newton's law of cooling: model, solve, plot",
		SilenceUsage: true,
		RunE:         runScenario,
	}
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.Setup(logging.Config{Debug: debug}, cmd.ErrOrStderr())
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".coolsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset scenario")
	pf.BoolVar(&debug, "debug", false, "debug logging")
	pf.Float64Var(&initial, "initial", 90, "initial temperature T0")
	pf.Float64Var(&ambient, "ambient", 20, "ambient temperature Tamb")
	pf.Float64Var(&observedTemp, "observed-temp", 60, "observed temperature T_obs")
	pf.Float64Var(&observedTime, "observed-time", 10, "time of the observation t_obs")
	pf.BoolVar(&noObserve, "no-observation", false, "drop the observation")
	pf.Float64Var(&minutes, "minutes", 60, "time range of the curve")
	pf.IntVar(&samples, "samples", 300, "number of curve samples")
	pf.IntVar(&precision, "precision", 4, "decimals k is rounded to (-1 keeps all)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "print the model, solve k and plot the curve",
		RunE:  runScenario,
	}
	for _, c := range []*cobra.Command{rootCmd, runCmd} {
		c.Flags().BoolVar(&interactive, "interactive", false, "open the explorer instead of the static plot")
		c.Flags().BoolVar(&save, "save", false, "store the run under the data directory")
		c.Flags().IntVar(&width, "width", 80, "plot width")
		c.Flags().IntVar(&height, "height", 15, "plot height")
	}

	deriveCmd := &cobra.Command{
		Use:   "derive",
		Short: "print T(t), its derivatives and the formula for k",
		RunE:  deriveModel,
	}
	deriveCmd.Flags().BoolVar(&latex, "latex", false, "print LaTeX")

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "solve the rate constant k",
		RunE:  solveRate,
	}
	solveCmd.Flags().Float64Var(&reach, "reach", 0, "also report when this temperature is reached")

	curveCmd := &cobra.Command{
		Use:   "curve",
		Short: "emit the sampled curve",
		RunE:  emitCurve,
	}
	curveCmd.Flags().StringVar(&format, "format", "csv", "output format (csv, json)")
	curveCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "plot the curve with the ambient reference line",
		RunE:  plotCurve,
	}
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "write an svg file instead of the terminal plot")
	plotCmd.Flags().IntVar(&width, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&height, "height", 15, "plot height")

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "interactive explorer of the curve and its derivatives",
		RunE:  exploreCurve,
	}

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "integrate dT/dt = -k(T - Tamb) and compare with the closed form",
		RunE:  verifyCurve,
	}
	verifyCmd.Flags().StringSliceVar(&integrator, "integrator", nil, "integrators to compare (default from config)")
	verifyCmd.Flags().Float64Var(&dt, "dt", 0.01, "timestep")
	verifyCmd.Flags().BoolVar(&adaptive, "adaptive", false, "adaptive step size")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "re-run the scenario every time the config file changes",
		RunE:  watchConfig,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().IntVar(&width, "width", 80, "plot width")
	showCmd.Flags().IntVar(&height, "height", 15, "plot height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, deriveCmd, solveCmd, curveCmd, plotCmd, exploreCmd,
		verifyCmd, watchCmd, listCmd, showCmd, presetsCmd)
	return rootCmd
}

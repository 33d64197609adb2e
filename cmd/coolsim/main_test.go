package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/coolsim/internal/cooling"
	"github.com/san-kum/coolsim/internal/export"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestDeriveCommand(t *testing.T) {
	out, err := execute(t, "derive")
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}

	for _, want := range []string{
		"T(t)     = Tamb + (T0 - Tamb)*exp(-k*t)",
		"dT/dt    = -k*(T0 - Tamb)*exp(-k*t)",
		"d²T/dt²  = k^2*(T0 - Tamb)*exp(-k*t)",
		"k        = -ln((T_obs - Tamb)/(T0 - Tamb))/t_obs",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestSolveSample(t *testing.T) {
	out, err := execute(t, "solve")
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if !strings.Contains(out, "0.0560") {
		t.Errorf("expected k 0.0560 in:\n%s", out)
	}
}

func TestSolveMissingObservation(t *testing.T) {
	_, err := execute(t, "solve", "--no-observation")
	if !errors.Is(err, cooling.ErrMissingObservation) {
		t.Fatalf("expected ErrMissingObservation, got %v", err)
	}
	var verr *cooling.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected a ValidationError, got %T", err)
	}
}

func TestSolveRejectsNonFiniteInput(t *testing.T) {
	for _, arg := range []string{"NaN", "Inf"} {
		_, err := execute(t, "solve", "--observed-time", arg)
		if !errors.Is(err, cooling.ErrNonFinite) {
			t.Errorf("--observed-time %s: expected ErrNonFinite, got %v", arg, err)
		}
	}
}

func TestRunPrintsModelBeforeFailing(t *testing.T) {
	out, err := execute(t, "run", "--no-observation")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(out, "Tamb + (T0 - Tamb)*exp(-k*t)") {
		t.Errorf("expected expression in output:\n%s", out)
	}
}

func TestFlagsOverridePreset(t *testing.T) {
	out, err := execute(t, "curve", "--format", "json", "--preset", "coffee", "--initial", "95", "--samples", "4")
	if err != nil {
		t.Fatalf("curve failed: %v", err)
	}

	var report export.CurveReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if report.Initial != 95 || report.Ambient != 22 {
		t.Errorf("expected 95/22, got %g/%g", report.Initial, report.Ambient)
	}
	if len(report.Points) != 4 || report.Points[3].Time != 90 {
		t.Errorf("expected 4 points up to the preset's 90 minutes, got %+v", report.Points)
	}
}

func TestConfigOverridesPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte("ambient: 25\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "curve", "--format", "json", "--preset", "coffee", "--config", path, "--samples", "2")
	if err != nil {
		t.Fatalf("curve failed: %v", err)
	}
	var report export.CurveReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if report.Initial != 85 || report.Ambient != 25 {
		t.Errorf("expected 85/25, got %g/%g", report.Initial, report.Ambient)
	}
}

func TestCurveCSV(t *testing.T) {
	out, err := execute(t, "curve", "--samples", "3", "--minutes", "10")
	if err != nil {
		t.Fatalf("curve failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header and 3 rows, got %d lines", len(lines))
	}
	if lines[1] != "0,90" {
		t.Errorf("unexpected first row %q", lines[1])
	}
}

func TestCurveUnknownFormat(t *testing.T) {
	if _, err := execute(t, "curve", "--format", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestPlotSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curve.svg")
	if _, err := execute(t, "plot", "--svg", path); err != nil {
		t.Fatalf("plot failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("expected svg document")
	}
}

func TestSaveListShow(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "run", "--save", "--data", dir)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	idx := strings.Index(out, "saved run ")
	if idx < 0 {
		t.Fatalf("expected saved run line in:\n%s", out)
	}
	runID := strings.TrimSpace(out[idx+len("saved run "):])

	out, err = execute(t, "list", "--data", dir)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, runID) {
		t.Errorf("expected %s in list:\n%s", runID, out)
	}

	out, err = execute(t, "show", runID, "--data", dir)
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out, "0.056") || !strings.Contains(out, "60 at 10") {
		t.Errorf("unexpected show output:\n%s", out)
	}
}

func TestListEmpty(t *testing.T) {
	out, err := execute(t, "list", "--data", filepath.Join(t.TempDir(), "none"))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "no runs found") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestVerify(t *testing.T) {
	out, err := execute(t, "verify", "--integrator", "euler,rk4", "--dt", "0.1")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !strings.Contains(out, "euler") || !strings.Contains(out, "rk4") {
		t.Errorf("expected both integrators in:\n%s", out)
	}
}

func TestVerifyUnknownIntegrator(t *testing.T) {
	if _, err := execute(t, "verify", "--integrator", "leapfrog"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestWatchRequiresConfig(t *testing.T) {
	if _, err := execute(t, "watch"); err == nil {
		t.Error("expected error without --config")
	}
}

func TestUnknownPreset(t *testing.T) {
	if _, err := execute(t, "solve", "--preset", "lava"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestPresetsCommand(t *testing.T) {
	out, err := execute(t, "presets")
	if err != nil {
		t.Fatalf("presets failed: %v", err)
	}
	for _, name := range []string{"coffee", "forensic", "sample", "warming"} {
		if !strings.Contains(out, name) {
			t.Errorf("missing preset %s", name)
		}
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"go/format"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVerboseFromConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "dynsym.yaml")
	if err := os.WriteFile(cfg, []byte("verbose: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		env  string
		args []string
		want bool
	}{
		{"default", "", []string{"find", "x(t)"}, false},
		{"flag", "", []string{"find", "x(t)", "-v"}, true},
		{"env", "true", []string{"find", "x(t)"}, true},
		{"config file", "", []string{"find", "x(t)", "--config", cfg}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.env != "" {
				t.Setenv("DYNSYM_VERBOSE", tt.env)
			}
			a := newApp()
			cmd := a.rootCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.args)
			if err := cmd.Execute(); err != nil {
				t.Fatal(err)
			}
			if got := a.logger.Core().Enabled(zapcore.DebugLevel); got != tt.want {
				t.Errorf("debug enabled = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"find", "a(t)*diff(a(t), t) + b(t) + k"}, "{a(t), b(t), diff(a(t), t)}"},
		{[]string{"find", "a(t) + diff(a(t), t) + b(t)", "--exclude", "a(t), b(t)"}, "{diff(a(t), t)}"},
		{[]string{"find", "a(t) + b(t)", "--exclude", "a(t)", "--exclude", "b(t)"}, "{}"},
		{[]string{"find", "x(s) + y(t)", "--time", "s"}, "{x(s)}"},
		{[]string{"find", "k*x + 3"}, "{}"},
		{[]string{"find", "f(t, x)"}, "{}"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args[1:], " "), func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFindJSON(t *testing.T) {
	out, err := execute(t, "find", "sin(q(t)) + diff(q(t), t, 2)", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("got %v", got)
	}
}

func TestFindParseError(t *testing.T) {
	if _, err := execute(t, "find", "x^2"); err == nil {
		t.Error("expected parse error")
	}
	if _, err := execute(t, "find", "x(t)", "--exclude", "("); err == nil {
		t.Error("expected exclude parse error")
	}
}

func TestSplitTopLevel(t *testing.T) {
	got := splitTopLevel(" a(t), diff(b(t), t) ,, c ")
	want := []string{"a(t)", "diff(b(t), t)", "c"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("got %q, want %q", got, want)
	}
}

var runIDPattern = regexp.MustCompile(`run id: (\S+)`)

func TestRunListExport(t *testing.T) {
	data := t.TempDir()

	out, err := execute(t, "--data", data, "run", "spring_mass", "--time", "0.5", "--init", "x=0.5", "--set", "k=4")
	if err != nil {
		t.Fatal(err)
	}
	m := runIDPattern.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("no run id in output:\n%s", out)
	}
	runID := m[1]
	if !strings.Contains(out, "energy") {
		t.Errorf("metrics missing:\n%s", out)
	}

	out, err = execute(t, "--data", data, "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, runID) {
		t.Errorf("list does not show %s:\n%s", runID, out)
	}

	out, err = execute(t, "--data", data, "export-csv", runID)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "time,x,v,F" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "0,0.5,0,") {
		t.Errorf("first row = %q", lines[1])
	}

	jsonPath := filepath.Join(t.TempDir(), "run.json")
	if _, err := execute(t, "--data", data, "export-json", runID, "-o", jsonPath); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Model     string             `json:"model"`
		Constants map[string]float64 `json:"constants"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Model != "spring_mass" || doc.Constants["k"] != 4 {
		t.Errorf("export = %+v", doc)
	}

	out, err = execute(t, "--data", data, "plot", runID, "--max", "1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "x vs time") || strings.Contains(out, "v vs time") {
		t.Errorf("plot output:\n%s", out)
	}

	if _, err := execute(t, "--data", data, "delete", runID); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "--data", data, "plot", runID); err == nil {
		t.Error("expected error for deleted run")
	}
}

func TestRunErrors(t *testing.T) {
	data := t.TempDir()
	tests := [][]string{
		{"run", "teapot"},
		{"run", "pendulum", "--preset", "nope"},
		{"run", "pendulum", "--set", "g=abc"},
		{"run", "pendulum", "--init", "phi=1"},
		{"run", "pendulum", "--dt", "-1"},
	}
	for _, args := range tests {
		if _, err := execute(t, append([]string{"--data", data}, args...)...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestRunEnsemble(t *testing.T) {
	out, err := execute(t, "--data", t.TempDir(), "run", "pendulum", "--time", "0.2", "--ensemble", "3", "--seed", "1")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 || !strings.HasPrefix(lines[0], "RUN") {
		t.Errorf("ensemble output:\n%s", out)
	}
}

func TestModelFilesDirectory(t *testing.T) {
	dir := t.TempDir()
	model := `name: decay
states: ["x(t)"]
rhs: ["-k*x(t)"]
constants: {k: 2}
initial: {x: 1}
`
	if err := os.WriteFile(filepath.Join(dir, "decay.yaml"), []byte(model), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "--models", dir, "models")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "decay") || !strings.Contains(out, "pendulum") {
		t.Errorf("models output:\n%s", out)
	}

	out, err = execute(t, "--models", dir, "models", "decay")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "d/dt x(t) = ") || !strings.Contains(out, "k=2") {
		t.Errorf("describe output:\n%s", out)
	}
}

func TestModelsDescribe(t *testing.T) {
	out, err := execute(t, "models", "pendulum")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"specified: T", "g=9.81", "presets:", "energy ="} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPresets(t *testing.T) {
	out, err := execute(t, "presets", "cartpole")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "balance") || !strings.Contains(out, "lqr") {
		t.Errorf("presets output:\n%s", out)
	}
	out, _ = execute(t, "presets", "teapot")
	if !strings.Contains(out, "no presets") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestCodegen(t *testing.T) {
	out, err := execute(t, "codegen", "pendulum", "--package", "pend", "--func", "Pendulum")
	if err != nil {
		t.Fatal(err)
	}
	f, err := parser.ParseFile(token.NewFileSet(), "pend.go", out, parser.ParseComments)
	if err != nil {
		t.Fatalf("generated source does not parse: %v\n%s", err, out)
	}
	if f.Name.Name != "pend" {
		t.Errorf("package = %s", f.Name.Name)
	}
	if !strings.Contains(out, "func Pendulum(x, u, c []float64, t float64, out []float64)") {
		t.Errorf("signature missing:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "dynsym ") {
		t.Errorf("got %q", out)
	}
	if _, err := execute(t, "version", "--require", "0.1.0"); err != nil {
		t.Error(err)
	}
	if _, err := execute(t, "version", "--require", "99.0.0"); err == nil {
		t.Error("expected requirement failure")
	}
	if _, err := execute(t, "version", "--satisfies", "< 0.0.1"); err == nil {
		t.Error("expected constraint failure")
	}
}

func TestAnalyzeAndPhase(t *testing.T) {
	data := t.TempDir()
	out, err := execute(t, "--data", data, "run", "spring_mass", "--time", "10")
	if err != nil {
		t.Fatal(err)
	}
	m := runIDPattern.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("no run id in output:\n%s", out)
	}
	runID := m[1]

	out, err = execute(t, "--data", data, "analyze", runID)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "STATE") || !strings.Contains(out, "\nx ") || !strings.Contains(out, "\nv ") {
		t.Errorf("unexpected analysis:\n%s", out)
	}

	out, err = execute(t, "--data", data, "phase", runID)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "v vs x") || !strings.Contains(out, "•") {
		t.Errorf("unexpected portrait:\n%s", out)
	}

	out, err = execute(t, "--data", data, "phase", runID, "--section", "v")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "•") {
		t.Errorf("unexpected section:\n%s", out)
	}

	svg := filepath.Join(t.TempDir(), "phase.svg")
	if _, err := execute(t, "--data", data, "phase", runID, "--svg", svg); err != nil {
		t.Fatal(err)
	}
	if raw, err := os.ReadFile(svg); err != nil || !strings.Contains(string(raw), "<svg") {
		t.Errorf("svg not written: %v", err)
	}

	if _, err := execute(t, "--data", data, "phase", runID, "--x", "nope"); err == nil {
		t.Error("expected unknown state error")
	}
}

func TestLyapunov(t *testing.T) {
	out, err := execute(t, "lyapunov", "spring_mass", "--time", "10")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "converging") {
		t.Errorf("damped spring should converge:\n%s", out)
	}
}

func TestTune(t *testing.T) {
	out, err := execute(t, "tune", "spring_mass", "--time", "5", "--param", "c=0,5", "--workers", "2")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "best: c=5") {
		t.Errorf("unexpected tuning result:\n%s", out)
	}

	if _, err := execute(t, "tune", "spring_mass"); err == nil {
		t.Error("expected missing --param error")
	}
	if _, err := execute(t, "tune", "spring_mass", "--param", "c=a,b"); err == nil {
		t.Error("expected bad value error")
	}
}

func TestScenario(t *testing.T) {
	data := t.TempDir()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	yaml := "name: demo\nsteps:\n  - name: first\n    model: spring_mass\n    duration: 0.5\n    save: true\n  - model: pendulum\n    preset: small\n    duration: 0.5\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--data", data, "scenario", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "first") || !strings.Contains(out, "step 2") {
		t.Errorf("unexpected scenario output:\n%s", out)
	}

	out, err = execute(t, "--data", data, "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "spring_mass_") {
		t.Errorf("saved step missing from list:\n%s", out)
	}
}

func TestSweep(t *testing.T) {
	out, err := execute(t, "sweep", "spring_mass", "--param", "k", "--from", "4", "--to", "8", "--steps", "3", "--time", "0.5")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"K ", "\n4 ", "\n6 ", "\n8 ", "2.0000"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if _, err := execute(t, "sweep", "spring_mass"); err == nil {
		t.Error("expected missing --param error")
	}
}

func TestSourcesFormatted(t *testing.T) {
	err := filepath.WalkDir(filepath.Join("..", ".."), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); name != "." && name != ".." && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		formatted, err := format.Source(src)
		if err != nil {
			return err
		}
		if !bytes.Equal(src, formatted) {
			t.Errorf("%s is not gofmt-formatted", path)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

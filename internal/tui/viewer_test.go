package tui

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/dynsym/internal/dynamo"
	"github.com/san-kum/dynsym/internal/integrators"
	"github.com/san-kum/dynsym/internal/models"
)

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func pendulumViewer(t *testing.T, duration float64) *Viewer {
	t.Helper()
	m, _ := models.Builtin("pendulum")
	sys, err := m.System()
	if err != nil {
		t.Fatal(err)
	}
	return New(Options{
		Title:      "pendulum",
		System:     sys,
		Integrator: integrators.NewRK4(),
		Initial:    sys.InitialState(),
		Dt:         0.01,
		Duration:   duration,
	})
}

func TestViewerSteps(t *testing.T) {
	v := pendulumViewer(t, 10)
	v.Update(tickMsg(time.Now()))
	v.Update(tickMsg(time.Now()))
	if math.Abs(v.Time()-0.02) > 1e-12 {
		t.Errorf("t = %f, want 0.02", v.Time())
	}
	if len(v.history[0]) != 3 {
		t.Errorf("history has %d samples, want 3", len(v.history[0]))
	}
}

func TestViewerPauseAndReset(t *testing.T) {
	v := pendulumViewer(t, 10)
	v.Update(key(" "))
	v.Update(tickMsg(time.Now()))
	if v.Time() != 0 {
		t.Errorf("advanced while paused: t = %f", v.Time())
	}
	v.Update(key("p"))
	v.Update(tickMsg(time.Now()))
	v.Update(key("r"))
	if v.Time() != 0 || v.State()[0] != 0.5 {
		t.Errorf("reset did not restore initial state: t=%f x=%v", v.Time(), v.State())
	}
}

func TestViewerStopsAtDuration(t *testing.T) {
	v := pendulumViewer(t, 0.05)
	v.Update(key("+"))
	v.Update(key("+"))
	v.Update(key("+"))
	for i := 0; i < 5; i++ {
		v.Update(tickMsg(time.Now()))
	}
	if !v.done {
		t.Error("viewer should be done")
	}
	if math.Abs(v.Time()-0.05) > 1e-9 {
		t.Errorf("t = %f, want 0.05", v.Time())
	}
	if !strings.Contains(v.View(), "done") {
		t.Error("view should show done")
	}
}

func TestViewerManualInput(t *testing.T) {
	v := pendulumViewer(t, 10)
	v.Update(key("right"))
	v.Update(key("right"))
	v.Update(tickMsg(time.Now()))
	if len(v.u) != 1 || v.u[0] != 2*nudgeStep {
		t.Errorf("u = %v, want [%g]", v.u, 2*nudgeStep)
	}
}

func TestViewerView(t *testing.T) {
	v := pendulumViewer(t, 10)
	v.Update(tickMsg(time.Now()))
	v.Update(key("tab"))
	if v.plotIdx != 1 {
		t.Errorf("plot index = %d, want 1", v.plotIdx)
	}
	out := v.View()
	for _, want := range []string{"pendulum", "theta", "omega", "energy", "T"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

type runaway struct{}

func (runaway) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{math.Inf(1)}
}
func (runaway) StateDim() int   { return 1 }
func (runaway) ControlDim() int { return 0 }

func TestViewerStopsOnInvalidState(t *testing.T) {
	v := New(Options{System: runaway{}, Integrator: integrators.NewEuler(), Initial: dynamo.State{1}})
	v.Update(tickMsg(time.Now()))
	if v.Err() == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(v.View(), "x0") {
		t.Error("unlabeled system should get indexed names")
	}
}

func TestQuit(t *testing.T) {
	v := pendulumViewer(t, 10)
	_, cmd := v.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestPickScene(t *testing.T) {
	tests := []struct {
		names []string
		want  bool
	}{
		{[]string{"theta", "omega"}, true},
		{[]string{"theta1", "theta2", "omega1", "omega2"}, true},
		{[]string{"x", "theta", "v", "omega"}, true},
		{[]string{"x", "v"}, true},
		{[]string{"x", "y", "z"}, false},
	}
	for _, tt := range tests {
		if got := pickScene(tt.names) != nil; got != tt.want {
			t.Errorf("pickScene(%v) = %v, want %v", tt.names, got, tt.want)
		}
	}
}

func TestCanvasLine(t *testing.T) {
	c := newCanvas(5, 3)
	c.line(0, 0, 4, 2, '*')
	c.set(10, 10, '!')
	want := "**   \n  ** \n    *"
	if got := c.String(); got != want {
		t.Errorf("canvas =\n%s\nwant\n%s", got, want)
	}
}

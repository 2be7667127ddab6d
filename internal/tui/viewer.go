// Package tui is the live terminal viewer: it steps a system in real time
// and plots its state traces.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dynsym/internal/control"
	"github.com/san-kum/dynsym/internal/dynamo"
)

const (
	historyLen = 120
	frame      = 16 * time.Millisecond
	nudgeStep  = 0.5
)

// Options configures a Viewer. Controller may be nil; the viewer then
// drives the inputs itself through a manual controller.
type Options struct {
	Title      string
	System     dynamo.System
	Integrator dynamo.Integrator
	Controller dynamo.Controller
	Initial    dynamo.State
	Dt         float64
	Duration   float64
}

type Viewer struct {
	opts   Options
	manual *control.Manual
	ctrl   dynamo.Controller
	names  []string
	inputs []string
	scene  scene

	x       dynamo.State
	u       dynamo.Control
	t       float64
	paused  bool
	done    bool
	err     error
	speed   float64
	plotIdx int
	inIdx   int

	history [][]float64
	energy  []float64

	width  int
	height int
}

func New(opts Options) *Viewer {
	v := &Viewer{
		opts:   opts,
		ctrl:   opts.Controller,
		speed:  1,
		width:  80,
		height: 24,
	}
	if v.opts.Dt <= 0 {
		v.opts.Dt = 0.01
	}
	if v.ctrl == nil {
		v.manual = control.NewManual(opts.System.ControlDim())
		v.ctrl = v.manual
	}
	if l, ok := opts.System.(dynamo.Labeled); ok {
		v.names = l.StateNames()
		v.inputs = l.ControlNames()
	}
	if len(v.names) != opts.System.StateDim() {
		v.names = make([]string, opts.System.StateDim())
		for i := range v.names {
			v.names[i] = fmt.Sprintf("x%d", i)
		}
	}
	v.scene = pickScene(v.names)
	v.reset()
	return v
}

func (v *Viewer) reset() {
	v.x = v.opts.Initial.Clone()
	if len(v.x) != v.opts.System.StateDim() {
		v.x = make(dynamo.State, v.opts.System.StateDim())
	}
	v.u = make(dynamo.Control, v.opts.System.ControlDim())
	v.t = 0
	v.done = false
	v.err = nil
	v.history = make([][]float64, len(v.x))
	v.energy = nil
	if v.manual != nil {
		v.manual.Set(make([]float64, v.opts.System.ControlDim()))
	}
	v.record()
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frame, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (v *Viewer) Init() tea.Cmd { return tick() }

func (v *Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v, v.handleKey(msg)
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
	case tickMsg:
		if !v.paused && !v.done {
			steps := int(math.Max(1, v.speed))
			for i := 0; i < steps && !v.done; i++ {
				v.step()
			}
		}
		return v, tick()
	}
	return v, nil
}

func (v *Viewer) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return tea.Quit
	case " ", "p":
		v.paused = !v.paused
	case "r":
		v.reset()
	case "+", "=":
		v.speed = math.Min(v.speed*2, 16)
	case "-", "_":
		v.speed = math.Max(v.speed/2, 1)
	case "tab", "down", "j":
		v.plotIdx = (v.plotIdx + 1) % len(v.x)
	case "shift+tab", "up", "k":
		v.plotIdx = (v.plotIdx + len(v.x) - 1) % len(v.x)
	case "[":
		if n := len(v.u); n > 0 {
			v.inIdx = (v.inIdx + n - 1) % n
		}
	case "]":
		if n := len(v.u); n > 0 {
			v.inIdx = (v.inIdx + 1) % n
		}
	case "left", "h":
		v.nudge(-nudgeStep)
	case "right", "l":
		v.nudge(nudgeStep)
	case "0":
		if v.manual != nil {
			v.manual.Set(make([]float64, len(v.u)))
		}
	}
	return nil
}

func (v *Viewer) nudge(delta float64) {
	if v.manual != nil && len(v.u) > 0 {
		v.manual.Nudge(v.inIdx, delta)
	}
}

func (v *Viewer) step() {
	if v.opts.Duration > 0 && v.t >= v.opts.Duration-1e-12 {
		v.done = true
		return
	}
	v.u = v.ctrl.Compute(v.x, v.t)
	next := v.opts.Integrator.Step(v.opts.System, v.x, v.u, v.t, v.opts.Dt)
	if !next.IsValid() {
		v.err = &dynamo.SimulationError{Time: v.t, State: v.x.Clone(), Wrapped: dynamo.ErrInvalidState}
		v.done = true
		return
	}
	v.x = next
	v.t += v.opts.Dt
	v.record()
}

func (v *Viewer) record() {
	for i, val := range v.x {
		v.history[i] = appendRing(v.history[i], val)
	}
	if h, ok := v.opts.System.(dynamo.Hamiltonian); ok {
		v.energy = appendRing(v.energy, h.Energy(v.x))
	}
}

func appendRing(s []float64, val float64) []float64 {
	s = append(s, val)
	if len(s) > historyLen {
		s = s[len(s)-historyLen:]
	}
	return s
}

func (v *Viewer) View() string {
	var b strings.Builder

	status := green.Render("● running")
	switch {
	case v.err != nil:
		status = red.Render("✕ " + v.err.Error())
	case v.done:
		status = dim.Render("■ done")
	case v.paused:
		status = yellow.Render("○ paused")
	}
	b.WriteString(header.Render(v.opts.Title) + "  " + status + "\n")
	b.WriteString(dim.Render(fmt.Sprintf("t=%.2fs  dt=%g  speed=%gx", v.t, v.opts.Dt, v.speed)) + "\n\n")

	plotW := v.width - 16
	if plotW < 30 {
		plotW = 30
	}
	if v.scene != nil {
		c := newCanvas(plotW, 12)
		v.scene(c, v.lookup)
		b.WriteString(panel.Render(c.String()) + "\n")
	}

	if series := v.history[v.plotIdx]; len(series) > 1 {
		chart := asciigraph.Plot(series,
			asciigraph.Height(8),
			asciigraph.Width(plotW),
			asciigraph.Caption(v.names[v.plotIdx]),
		)
		b.WriteString(cyan.Render(chart) + "\n")
	}
	if len(v.energy) > 1 {
		chart := asciigraph.Plot(v.energy,
			asciigraph.Height(3),
			asciigraph.Width(plotW),
			asciigraph.Caption("energy"),
		)
		b.WriteString(magenta.Render(chart) + "\n")
	}
	b.WriteString("\n")

	for i, name := range v.names {
		line := fmt.Sprintf("%-10s %10.4f", name, v.x[i])
		if i == v.plotIdx {
			b.WriteString(cyan.Render("▸ ") + white.Render(line) + "\n")
		} else {
			b.WriteString("  " + dim.Render(line) + "\n")
		}
	}
	for i, val := range v.u {
		name := fmt.Sprintf("u%d", i)
		if i < len(v.inputs) {
			name = v.inputs[i]
		}
		line := fmt.Sprintf("%-10s %10.4f", name, val)
		if v.manual != nil && i == v.inIdx {
			b.WriteString(magenta.Render("◆ ") + white.Render(line) + "\n")
		} else {
			b.WriteString("  " + dimmer.Render(line) + "\n")
		}
	}

	b.WriteString("\n")
	keys := "space pause  r reset  +/- speed  tab plot  q quit"
	if v.manual != nil && len(v.u) > 0 {
		keys += "  ←→ input  [] select  0 zero"
	}
	b.WriteString(dim.Render(keys) + "\n")
	return b.String()
}

func (v *Viewer) lookup(name string) (float64, bool) {
	for i, n := range v.names {
		if n == name {
			return v.x[i], true
		}
	}
	return 0, false
}

// Err returns the error that stopped the viewer, if any.
func (v *Viewer) Err() error { return v.err }

func (v *Viewer) Time() float64       { return v.t }
func (v *Viewer) State() dynamo.State { return v.x.Clone() }

// Run starts the viewer on the alternate screen and blocks until it quits.
func Run(opts Options) error {
	v := New(opts)
	if _, err := tea.NewProgram(v, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return v.Err()
}

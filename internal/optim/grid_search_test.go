package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/dynsym/internal/config"
)

func springConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Model = "spring_mass"
	cfg.Duration = 10
	return cfg
}

func TestPoints(t *testing.T) {
	g := NewGridSearch("deviation",
		Axis{Name: "kp", Values: []float64{1, 2}},
		Axis{Name: "kd", Values: []float64{3, 4, 5}},
	)
	pts := g.Points()
	if len(pts) != 6 {
		t.Fatalf("expected 6 points, got %d", len(pts))
	}
	if pts[0]["kp"] != 1 || pts[0]["kd"] != 3 || pts[1]["kd"] != 4 || pts[5]["kp"] != 2 {
		t.Errorf("unexpected order: %v", pts)
	}
}

func TestApply(t *testing.T) {
	base := springConfig()
	base.Constants = map[string]float64{"m": 2}
	cfg := Apply(base, map[string]float64{"kp": 7, "target": 1, "c": 3})

	if cfg.ControllerParams.Kp != 7 || cfg.ControllerParams.Target != 1 {
		t.Errorf("controller params not applied: %+v", cfg.ControllerParams)
	}
	if cfg.Constants["c"] != 3 || cfg.Constants["m"] != 2 {
		t.Errorf("constants not applied: %v", cfg.Constants)
	}
	if _, ok := base.Constants["c"]; ok || base.ControllerParams.Kp == 7 {
		t.Error("base config was modified")
	}
}

func TestSearchDamping(t *testing.T) {
	g := NewGridSearch("deviation", Axis{Name: "c", Values: []float64{0, 0.5, 5}})
	g.SetWorkers(3)

	best, trials, err := g.Search(context.Background(), springConfig())
	if err != nil {
		t.Fatal(err)
	}
	if best.Params["c"] != 5 {
		t.Errorf("expected c=5 to regulate fastest, got %v", best.Params)
	}
	if len(trials) != 3 {
		t.Fatalf("expected 3 trials, got %d", len(trials))
	}
	for i := 1; i < len(trials); i++ {
		if trials[i].Score < trials[i-1].Score {
			t.Errorf("trials not sorted: %v", trials)
		}
	}
}

func TestSearchErrors(t *testing.T) {
	ctx := context.Background()

	if _, _, err := NewGridSearch("deviation").Search(ctx, springConfig()); !errors.Is(err, ErrEmptyGrid) {
		t.Errorf("no axes: got %v", err)
	}
	if _, _, err := NewGridSearch("deviation", Axis{Name: "c"}).Search(ctx, springConfig()); !errors.Is(err, ErrEmptyGrid) {
		t.Errorf("no values: got %v", err)
	}
	if _, _, err := NewGridSearch("nope", Axis{Name: "c", Values: []float64{1}}).Search(ctx, springConfig()); !errors.Is(err, ErrUnknownMetric) {
		t.Errorf("bad metric: got %v", err)
	}

	bad := springConfig()
	bad.Model = "missing"
	_, trials, err := NewGridSearch("deviation", Axis{Name: "c", Values: []float64{1, 2}}).Search(ctx, bad)
	if !errors.Is(err, ErrNoCandidate) {
		t.Errorf("all failing: got %v", err)
	}
	if len(trials) != 2 || trials[0].Err == nil {
		t.Errorf("failed trials should be reported: %v", trials)
	}
}

package dynamo

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestEnsembleRun(t *testing.T) {
	ens := NewEnsemble(func() *Simulator { return New(decay{}, euler{}, nil) }, 2)
	inits := []State{{1}, {2}, {4}}

	results, err := ens.Run(context.Background(), inits, Config{Dt: 0.01, Duration: 1})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != len(inits) {
		t.Fatalf("expected %d results, got %d", len(inits), len(results))
	}
	base := results[0].Final()[0]
	for i, r := range results {
		want := base * inits[i][0]
		if got := r.Final()[0]; math.Abs(got-want) > 1e-9 {
			t.Errorf("run %d: got %v, want %v", i, got, want)
		}
	}
}

func TestEnsembleFailure(t *testing.T) {
	ens := NewEnsemble(func() *Simulator { return New(decay{}, euler{}, nil) }, 0)
	_, err := ens.Run(context.Background(), []State{{1}, {1, 2}}, Config{Dt: 0.01, Duration: 1})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

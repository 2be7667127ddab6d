package dynamo

import (
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Norm(t *testing.T) {
	tests := []struct {
		state    State
		expected float64
	}{
		{State{3, 4}, 5.0},
		{State{0, 0}, 0.0},
		{State{1, 1, 1, 1}, 2.0},
	}

	for _, tt := range tests {
		if got := tt.state.Norm(); math.Abs(got-tt.expected) > 1e-10 {
			t.Errorf("Norm(%v) = %v, want %v", tt.state, got, tt.expected)
		}
	}
}

func TestState_Axpy(t *testing.T) {
	a := State{1, 2, 3}
	got := a.Axpy(2, State{1, 1})
	want := State{3, 4, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Axpy()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if d := a.Sub(State{1, 2, 3}).Norm(); d != 0 {
		t.Errorf("Sub() of equal states has norm %v", d)
	}
	if a[0] != 1 {
		t.Error("Axpy mutated its receiver")
	}
}

func TestResultColumn(t *testing.T) {
	r := &Result{States: []State{{1, 2}, {3, 4}}}
	col := r.Column(1)
	if len(col) != 2 || col[0] != 2 || col[1] != 4 {
		t.Errorf("Column(1) = %v", col)
	}
	var empty *Result
	if empty.Final() != nil {
		t.Error("Final() on nil result should be nil")
	}
}

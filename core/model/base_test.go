package model

import "testing"

func TestBaseEstimatorFittedState(t *testing.T) {
	var e BaseEstimator

	if e.IsFitted() {
		t.Error("new estimator should not be fitted")
	}

	e.SetFitted()
	if !e.IsFitted() {
		t.Error("estimator should be fitted after SetFitted")
	}

	e.Reset()
	if e.IsFitted() {
		t.Error("estimator should not be fitted after Reset")
	}
}

func TestTrainingPhase(t *testing.T) {
	tests := []struct {
		phase    TrainingPhase
		want     string
		terminal bool
	}{
		{phase: PhaseInitialized, want: "initialized", terminal: false},
		{phase: PhaseIterating, want: "iterating", terminal: false},
		{phase: PhaseConverged, want: "converged", terminal: true},
		{phase: PhaseMaxIterReached, want: "max_iter_reached", terminal: true},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.phase.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if got := tt.phase.Terminal(); got != tt.terminal {
				t.Errorf("Terminal() = %v, want %v", got, tt.terminal)
			}
		})
	}
}

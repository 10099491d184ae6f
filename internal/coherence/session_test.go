package coherence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollingAverage_TrailingWindow(t *testing.T) {
	s := &Session{}
	for i := 0; i < 15; i++ {
		s.History = append(s.History, 0.5)
	}
	s.History = append(s.History, 1.0)

	// last 10 entries are nine 0.5s and one 1.0, not the all-time mean
	assert.InDelta(t, 0.55, s.RollingAverage(10), 1e-12)
}

func TestRollingAverage_ShortHistoryUsesAllEntries(t *testing.T) {
	s := &Session{History: []float64{0.2, 0.4}}
	assert.InDelta(t, 0.3, s.RollingAverage(10), 1e-12)
}

func TestRollingAverage_Empty(t *testing.T) {
	s := &Session{}
	assert.Equal(t, 0.0, s.RollingAverage(10))
}

func TestPhaseRules_OneStepPerEvaluation(t *testing.T) {
	r := DefaultPhaseRules()

	tests := []struct {
		name string
		cur  Phase
		avg  float64
		want Phase
	}{
		{"attunement advances", PhaseAttunement, 0.81, PhaseResonance},
		{"attunement holds at bound", PhaseAttunement, 0.80, PhaseAttunement},
		{"attunement cannot skip", PhaseAttunement, 0.99, PhaseResonance},
		{"resonance advances", PhaseResonance, 0.86, PhaseSymbiosis},
		{"resonance holds below", PhaseResonance, 0.85, PhaseResonance},
		{"symbiosis advances", PhaseSymbiosis, 0.91, PhaseTranscendence},
		{"symbiosis holds", PhaseSymbiosis, 0.90, PhaseSymbiosis},
		{"transcendence is terminal", PhaseTranscendence, 1.0, PhaseTranscendence},
		{"no regression on collapse", PhaseTranscendence, -0.2, PhaseTranscendence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.next(tt.cur, tt.avg))
		})
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseAttunement, "initial_attunement"},
		{PhaseResonance, "resonance_building"},
		{PhaseSymbiosis, "symbiotic_maintenance"},
		{PhaseTranscendence, "transcendent_coherence"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.phase.String())
	}
}

package coherence

import (
	"fmt"
	"time"
)

// Phase is a session's learning stage. Phases only move forward through
// attunement → resonance → symbiosis → transcendence; the engine never
// regresses a session.
type Phase int

const (
	PhaseAttunement Phase = iota
	PhaseResonance
	PhaseSymbiosis
	PhaseTranscendence
)

// String returns the wire-level phase name.
func (p Phase) String() string {
	switch p {
	case PhaseAttunement:
		return "initial_attunement"
	case PhaseResonance:
		return "resonance_building"
	case PhaseSymbiosis:
		return "symbiotic_maintenance"
	case PhaseTranscendence:
		return "transcendent_coherence"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// PhaseRules governs phase advancement. Each step requires the session to
// hold the preceding phase and its rolling average score to exceed the
// step's threshold; at most one step happens per update.
type PhaseRules struct {
	// Window is how many trailing history entries feed the rolling average.
	Window int `yaml:"window"`

	Resonance     float64 `yaml:"resonance"`     // attunement → resonance
	Symbiosis     float64 `yaml:"symbiosis"`     // resonance → symbiosis
	Transcendence float64 `yaml:"transcendence"` // symbiosis → transcendence
}

// DefaultPhaseRules returns the standard advancement rules.
func DefaultPhaseRules() PhaseRules {
	return PhaseRules{
		Window:        10,
		Resonance:     0.80,
		Symbiosis:     0.85,
		Transcendence: 0.90,
	}
}

// next returns the phase a session in cur with the given rolling average
// should hold after one update. Only the phase held before the update is
// consulted, so a single call can never jump more than one step.
func (r PhaseRules) next(cur Phase, avg float64) Phase {
	switch {
	case cur == PhaseAttunement && avg > r.Resonance:
		return PhaseResonance
	case cur == PhaseResonance && avg > r.Symbiosis:
		return PhaseSymbiosis
	case cur == PhaseSymbiosis && avg > r.Transcendence:
		return PhaseTranscendence
	default:
		return cur
	}
}

// Session is the per-user training record. The engine's table owns the
// canonical copy; accessors hand out value copies so callers can read
// History and Phase without racing updates.
type Session struct {
	ID     string
	UserID string
	Phase  Phase

	// History is append-only, ordered by update call sequence.
	History []float64

	StartedAt time.Time
	// Duration is wall-clock elapsed since StartedAt, recomputed on every
	// update rather than on read.
	Duration time.Duration
}

// RollingAverage returns the mean of the last window entries of History, or
// of all entries when fewer exist. A session with no history averages zero.
func (s *Session) RollingAverage(window int) float64 {
	n := len(s.History)
	if n == 0 || window <= 0 {
		return 0.0
	}
	if window > n {
		window = n
	}
	var sum float64
	for _, v := range s.History[n-window:] {
		sum += v
	}
	return sum / float64(window)
}

// clone returns a deep copy safe to hand outside the engine's lock.
func (s *Session) clone() Session {
	out := *s
	out.History = append([]float64(nil), s.History...)
	return out
}

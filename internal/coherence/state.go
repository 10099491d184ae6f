// Package coherence implements the composite coherence score and the
// training-phase state machine.
//
// The engine turns a four-channel Snapshot into a classified score by
// averaging the off-diagonal cells of the pairwise coherence matrix, and
// owns a table of training sessions whose learning phase advances as the
// recent average score crosses fixed thresholds. Analysis is a pure
// transform; session updates are the only mutation in the package.
package coherence

import "fmt"

// State is the discrete classification of a composite coherence score,
// ordered from least to most coherent.
type State int

const (
	StateDissociated State = iota
	StateFragmented
	StateAdaptive
	StateHarmonic
	StateDeepSync
)

// String returns the wire-level state name.
func (s State) String() string {
	switch s {
	case StateDissociated:
		return "dissociated"
	case StateFragmented:
		return "fragmented"
	case StateAdaptive:
		return "adaptive_coherence"
	case StateHarmonic:
		return "harmonic_alignment"
	case StateDeepSync:
		return "deep_synchrony"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Thresholds holds the lower bound of each classification band above
// dissociated. Bands are evaluated highest-first and are inclusive at the
// lower edge: a score of exactly DeepSync classifies as deep synchrony.
type Thresholds struct {
	DeepSync   float64 `yaml:"deep_synchrony"`
	Harmonic   float64 `yaml:"harmonic_alignment"`
	Adaptive   float64 `yaml:"adaptive_coherence"`
	Fragmented float64 `yaml:"fragmented"`
}

// DefaultThresholds returns the standard classification bands.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DeepSync:   0.85,
		Harmonic:   0.70,
		Adaptive:   0.55,
		Fragmented: 0.30,
	}
}

// Classify maps a score onto its band. Scores below the fragmented bound,
// including negative ones, classify as dissociated.
func (t Thresholds) Classify(score float64) State {
	switch {
	case score >= t.DeepSync:
		return StateDeepSync
	case score >= t.Harmonic:
		return StateHarmonic
	case score >= t.Adaptive:
		return StateAdaptive
	case score >= t.Fragmented:
		return StateFragmented
	default:
		return StateDissociated
	}
}

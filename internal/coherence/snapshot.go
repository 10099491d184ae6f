package coherence

import (
	"time"

	"neurosym/internal/biometric"
)

// Snapshot captures one signature per channel at a single instant, plus the
// score and classification filled in by Engine.Analyze. Snapshots are plain
// values; analysis returns a new one and never mutates its input.
type Snapshot struct {
	Breath   biometric.Signature
	Heart    biometric.Signature
	Movement biometric.Signature
	Neural   biometric.Signature

	Timestamp time.Time

	// Score and State are derived fields, zero and fragmented until the
	// snapshot has been through Analyze.
	Score float64
	State State
}

// NewSnapshot assembles an unanalyzed snapshot with the standard defaults
// (score 0.0, state fragmented).
func NewSnapshot(breath, heart, movement, neural biometric.Signature, ts time.Time) Snapshot {
	return Snapshot{
		Breath:    breath,
		Heart:     heart,
		Movement:  movement,
		Neural:    neural,
		Timestamp: ts,
		State:     StateFragmented,
	}
}

// signatures returns the four channels in canonical order; the pairwise
// matrix in Analyze depends on this order being fixed.
func (s Snapshot) signatures() [4]biometric.Signature {
	return [4]biometric.Signature{s.Breath, s.Heart, s.Movement, s.Neural}
}

// Package biometric provides the signal-level types for the coherence engine.
// A Signature is a compact periodic descriptor of one biometric channel
// (breath, heart, movement, neural); the pairwise coherence between two
// signatures is the only nontrivial math in this package and feeds the
// engine's composite score.
package biometric

import (
	"fmt"
	"math"
	"time"
)

// Stream identifies one of the four fixed biometric channels.
type Stream int

const (
	StreamBreath Stream = iota
	StreamHeart
	StreamMovement
	StreamNeural
)

// String returns the wire-level channel name.
func (s Stream) String() string {
	switch s {
	case StreamBreath:
		return "respiratory"
	case StreamHeart:
		return "cardiac"
	case StreamMovement:
		return "locomotion"
	case StreamNeural:
		return "eeg"
	default:
		return fmt.Sprintf("stream(%d)", int(s))
	}
}

// Streams returns the four channels in their canonical enumeration order.
func Streams() [4]Stream {
	return [4]Stream{StreamBreath, StreamHeart, StreamMovement, StreamNeural}
}

// Signature is an immutable descriptor of one periodic biometric signal.
// It has no identity beyond its field values and is freely copied.
type Signature struct {
	Stream      Stream
	Frequency   float64 // Hz; expected > 0, tolerated otherwise
	Amplitude   float64 // unitless; expected > 0
	Variability float64
	Phase       float64 // radians, conventionally [0, 2π) but not enforced
	Complexity  float64
	Timestamp   time.Time
}

// ampEpsilon keeps the amplitude ratio finite when both amplitudes are zero.
// It is added to the denominator only; equal amplitudes therefore score a
// hair under 1.0, which downstream scores depend on bit-for-bit.
const ampEpsilon = 1e-12

// CoherenceWith computes the pairwise coherence between s and other as the
// equal-weight mean of four terms: phase alignment (cosine of the phase
// difference), frequency ratio, amplitude ratio, and complexity proximity.
//
// A non-positive frequency on either side means "no signal" and yields
// exactly 0.0 rather than an error. Because the phase term can reach -1,
// the result ranges over roughly [-0.25, 1.0]; it is deliberately not
// clamped. The function is symmetric in its arguments.
func (s Signature) CoherenceWith(other Signature) float64 {
	if s.Frequency <= 0 || other.Frequency <= 0 {
		return 0.0
	}

	phaseCoh := math.Cos(s.Phase - other.Phase)
	freqRatio := math.Min(s.Frequency, other.Frequency) / math.Max(s.Frequency, other.Frequency)
	ampRatio := math.Min(s.Amplitude, other.Amplitude) / (math.Max(s.Amplitude, other.Amplitude) + ampEpsilon)
	complexityCoh := math.Exp(-math.Abs(s.Complexity - other.Complexity))

	return (phaseCoh + freqRatio + ampRatio + complexityCoh) / 4.0
}

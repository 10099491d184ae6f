package biometric

import (
	"math"
	"math/rand"
	"time"
)

// Synthesizer produces synthetic signatures for demos and tests. The noise
// model is driven by a target coherence level: at level 1.0 every field sits
// on its nominal value, and lower levels widen the jitter around it.
type Synthesizer struct {
	rng *rand.Rand
	now func() time.Time
}

// NewSynthesizer returns a synthesizer backed by the given source. A nil rng
// falls back to a time-seeded source.
func NewSynthesizer(rng *rand.Rand) *Synthesizer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Synthesizer{rng: rng, now: time.Now}
}

// WithClock overrides the timestamp source. Used by tests.
func (s *Synthesizer) WithClock(now func() time.Time) *Synthesizer {
	s.now = now
	return s
}

// Signature synthesizes one signal descriptor for the given channel.
// baseFreq is the nominal channel frequency in Hz (e.g. 0.25 for breath at
// 15 breaths/min, 1.2 for heart at 72 BPM, 10.0 for alpha-band neural).
// level in [0, 1] controls how tightly the output clusters around the
// nominal values; noise amplitude is (1-level)*0.3.
func (s *Synthesizer) Signature(stream Stream, baseFreq, level float64) Signature {
	noise := (1.0 - level) * 0.3

	return Signature{
		Stream:      stream,
		Frequency:   baseFreq + s.uniform(-noise, noise)*baseFreq,
		Amplitude:   1.0 + s.uniform(-noise, noise),
		Variability: noise * 2.0,
		Phase:       s.uniform(0, 2*math.Pi) * noise,
		Complexity:  0.5 + s.uniform(-noise, noise),
		Timestamp:   s.now(),
	}
}

func (s *Synthesizer) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

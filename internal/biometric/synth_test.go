package biometric

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizer_FullCoherenceHasNoJitter(t *testing.T) {
	ts := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	s := NewSynthesizer(rand.New(rand.NewSource(1))).WithClock(func() time.Time { return ts })

	got := s.Signature(StreamHeart, 1.2, 1.0)

	assert.Equal(t, StreamHeart, got.Stream)
	assert.InDelta(t, 1.2, got.Frequency, 1e-12)
	assert.InDelta(t, 1.0, got.Amplitude, 1e-12)
	assert.Equal(t, 0.0, got.Variability)
	assert.InDelta(t, 0.0, got.Phase, 1e-12)
	assert.InDelta(t, 0.5, got.Complexity, 1e-12)
	assert.Equal(t, ts, got.Timestamp)
}

func TestSynthesizer_JitterStaysInsideNoiseBand(t *testing.T) {
	s := NewSynthesizer(rand.New(rand.NewSource(42)))

	const base, level = 10.0, 0.5
	noise := (1.0 - level) * 0.3

	for i := 0; i < 200; i++ {
		got := s.Signature(StreamNeural, base, level)

		require.InDelta(t, base, got.Frequency, noise*base+1e-9)
		require.InDelta(t, 1.0, got.Amplitude, noise+1e-9)
		require.Equal(t, noise*2.0, got.Variability)
		require.GreaterOrEqual(t, got.Phase, 0.0)
		require.LessOrEqual(t, got.Phase, 2*math.Pi*noise)
		require.InDelta(t, 0.5, got.Complexity, noise+1e-9)
	}
}

func TestSynthesizer_NilSourceGetsSeeded(t *testing.T) {
	s := NewSynthesizer(nil)
	got := s.Signature(StreamBreath, 0.25, 0.3)
	assert.Greater(t, got.Frequency, 0.0)
	assert.False(t, got.Timestamp.IsZero())
}
